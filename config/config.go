package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/icodeforyou/solarproposal-go/calc"
	"github.com/icodeforyou/solarproposal-go/logging"
	"github.com/icodeforyou/solarproposal-go/pvgis"
	"github.com/icodeforyou/solarproposal-go/simulate"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

type AppConfigApi struct {
	Address string
	Port    int16
	// If not assigned, the server will serve embedded files.
	// If assigned, the server will serve files from the directory,
	// that must contain a "static" and "templates" directory.
	// This is useful for development.
	WwwDir *string `mapstructure:"www_dir"`
}

type AppConfigDatabase struct {
	Path string
	// How many days proposals should be stored in database before they get purged
	DataRetentionDays *int `mapstructure:"data_retention_days"`
	// How many days daily backup files should be stored before they gets deleted
	BackupRetentionDays *int `mapstructure:"backup_retention_days"`
}

func (d AppConfigDatabase) GetDataRetentionDays() int {
	if d.DataRetentionDays == nil {
		return 365
	}
	return *d.DataRetentionDays
}

func (d AppConfigDatabase) GetBackupRetentionDays() int {
	if d.BackupRetentionDays == nil {
		return 90
	}
	return *d.BackupRetentionDays
}

// Rates are in RSD. A missing section gives the default residential
// schedule, a partially filled section is an error.
type AppConfigTariff struct {
	PermittedPowerRate    *float64 `mapstructure:"permitted_power_rate"` // Per kW and month
	SupplierFee           *float64 `mapstructure:"supplier_fee"`         // Per month
	GreenHigh             *float64 `mapstructure:"green_high"`           // Per kWh
	GreenLow              *float64 `mapstructure:"green_low"`
	BlueHigh              *float64 `mapstructure:"blue_high"`
	BlueLow               *float64 `mapstructure:"blue_low"`
	RedHigh               *float64 `mapstructure:"red_high"`
	RedLow                *float64 `mapstructure:"red_low"`
	SubsidyFee            *float64 `mapstructure:"subsidy_fee"`            // Per kWh, renewable energy subsidy
	EfficiencyFee         *float64 `mapstructure:"efficiency_fee"`         // Per kWh, energy efficiency fee
	DistributionSurcharge *float64 `mapstructure:"distribution_surcharge"` // Per kWh of offset import
	Escalation            *float64 `mapstructure:"escalation"`             // Yearly increase, 0.05 = 5%
	ExciseRate            *float64 `mapstructure:"excise_rate"`
	VatRate               *float64 `mapstructure:"vat_rate"`
	FixedTax              *float64 `mapstructure:"fixed_tax"` // Per month
	PermittedPower        *float64 `mapstructure:"permitted_power"`
	GreenLimit            *float64 `mapstructure:"green_limit"` // kWh, default 350
	BlueLimit             *float64 `mapstructure:"blue_limit"`  // kWh, default 1600
	// Month (1-12) when carried export credit is forfeited, 0 disables, default 3
	CreditResetMonth *int `mapstructure:"credit_reset_month"`
}

func (t AppConfigTariff) isEmpty() bool {
	return t == AppConfigTariff{GreenLimit: t.GreenLimit, BlueLimit: t.BlueLimit, CreditResetMonth: t.CreditResetMonth}
}

// Rates converts the section to a validated rate schedule.
func (t AppConfigTariff) Rates() (calc.TariffRates, error) {
	rates := calc.DefaultTariffRates()

	if !t.isEmpty() {
		fields := []struct {
			name  string
			value *float64
			dst   *decimal.Decimal
		}{
			{"permitted_power_rate", t.PermittedPowerRate, &rates.PermittedPowerRate},
			{"supplier_fee", t.SupplierFee, &rates.SupplierFee},
			{"green_high", t.GreenHigh, &rates.GreenHigh},
			{"green_low", t.GreenLow, &rates.GreenLow},
			{"blue_high", t.BlueHigh, &rates.BlueHigh},
			{"blue_low", t.BlueLow, &rates.BlueLow},
			{"red_high", t.RedHigh, &rates.RedHigh},
			{"red_low", t.RedLow, &rates.RedLow},
			{"subsidy_fee", t.SubsidyFee, &rates.SubsidyFee},
			{"efficiency_fee", t.EfficiencyFee, &rates.EfficiencyFee},
			{"distribution_surcharge", t.DistributionSurcharge, &rates.DistributionSurcharge},
			{"escalation", t.Escalation, &rates.Escalation},
			{"excise_rate", t.ExciseRate, &rates.ExciseRate},
			{"vat_rate", t.VatRate, &rates.VatRate},
			{"fixed_tax", t.FixedTax, &rates.FixedTax},
			{"permitted_power", t.PermittedPower, &rates.PermittedPower},
		}
		for _, f := range fields {
			if f.value == nil {
				return calc.TariffRates{}, fmt.Errorf("%w: tariff.%s is missing", calc.ErrConfiguration, f.name)
			}
			*f.dst = decimal.NewFromFloat(*f.value)
		}
	}

	if t.GreenLimit != nil {
		rates.Bands.Green = decimal.NewFromFloat(*t.GreenLimit)
	}
	if t.BlueLimit != nil {
		rates.Bands.Blue = decimal.NewFromFloat(*t.BlueLimit)
	}
	if t.CreditResetMonth != nil {
		rates.CreditResetMonth = *t.CreditResetMonth
	}

	if err := rates.Validate(); err != nil {
		return calc.TariffRates{}, err
	}
	return rates, nil
}

type AppConfigSimulation struct {
	// Number of simulated months, default 300 (25 years)
	HorizonMonths *int `mapstructure:"horizon_months"`
	// Calendar year of the first simulated month, used for labels, default current year
	BaseYear *int `mapstructure:"base_year"`
}

func (s AppConfigSimulation) GetHorizonMonths() int {
	if s.HorizonMonths == nil {
		return simulate.DefaultHorizonMonths
	}
	return *s.HorizonMonths
}

func (s AppConfigSimulation) GetBaseYear() int {
	if s.BaseYear == nil {
		return time.Now().Year()
	}
	return *s.BaseYear
}

type AppConfigPvgis struct {
	BaseURL *string  `mapstructure:"base_url"`
	Loss    *float64 `mapstructure:"loss"`    // System loss in percent, default 14
	Timeout *int     `mapstructure:"timeout"` // Request timeout in seconds, default 20
	// Defaults for roof surfaces that leave them out
	DefaultSlope   *float64 `mapstructure:"default_slope"`   // Degrees, default 25
	DefaultShading *float64 `mapstructure:"default_shading"` // 0-1, default 0.1
}

func (p AppConfigPvgis) GetBaseURL() string {
	if p.BaseURL == nil {
		return pvgis.DefaultBaseURL
	}
	return *p.BaseURL
}

func (p AppConfigPvgis) GetLoss() float64 {
	if p.Loss == nil {
		return pvgis.DefaultLoss
	}
	return *p.Loss
}

func (p AppConfigPvgis) GetTimeout() time.Duration {
	if p.Timeout == nil {
		return 20 * time.Second
	}
	return time.Duration(*p.Timeout) * time.Second
}

func (p AppConfigPvgis) GetDefaultSlope() float64 {
	if p.DefaultSlope == nil {
		return 25
	}
	return *p.DefaultSlope
}

func (p AppConfigPvgis) GetDefaultShading() float64 {
	if p.DefaultShading == nil {
		return 0.1
	}
	return *p.DefaultShading
}

type AppConfigMqtt struct {
	Enabled     bool
	Host        string
	Port        int16
	Username    string
	Password    string
	ClientID    *string `mapstructure:"client_id"`
	TopicPrefix *string `mapstructure:"topic_prefix"`
}

func (m AppConfigMqtt) GetClientID() string {
	if m.ClientID == nil {
		return "solarproposal-go"
	}
	return *m.ClientID
}

func (m AppConfigMqtt) GetTopicPrefix() string {
	if m.TopicPrefix == nil {
		return "solarproposal"
	}
	return strings.TrimSuffix(*m.TopicPrefix, "/")
}

type AppConfigMaintenance struct {
	RunAt string `mapstructure:"run_at"` // Cron spec, i.e. "15 3 * * *"
}

type AppConfigSizing struct {
	PanelPower   *float64 `mapstructure:"panel_power"`    // Panel power in W, default 450
	CostPerPanel *int64   `mapstructure:"cost_per_panel"` // Installed cost per panel in RSD
	FixedCost    *int64   `mapstructure:"fixed_cost"`     // Cost independent of system size in RSD
	MaxPanels    *int     `mapstructure:"max_panels"`     // Upper bound when searching the best system, default 40
}

func (s AppConfigSizing) GetPanelPower() float64 {
	if s.PanelPower == nil {
		return 450
	}
	return *s.PanelPower
}

func (s AppConfigSizing) GetCostPerPanel() int64 {
	if s.CostPerPanel == nil {
		return 55000
	}
	return *s.CostPerPanel
}

func (s AppConfigSizing) GetFixedCost() int64 {
	if s.FixedCost == nil {
		return 120000
	}
	return *s.FixedCost
}

func (s AppConfigSizing) GetMaxPanels() int {
	if s.MaxPanels == nil {
		return 40
	}
	return *s.MaxPanels
}

type AppConfigLogging struct {
	// Min log level for database : "DEBUG", "INFO", "WARN", "ERROR", default: "INFO"
	DbLevel *string `mapstructure:"db_level"`
	// Log attributes format: "TEXT", "JSON", default: "JSON"
	DbAttrsFormat *string `mapstructure:"db_attrs_format"`
	// Maximum number of log entries in the database, default: 10000
	DbMaxEntries *int `mapstructure:"db_max_entries"`
	// Min log level for database console: "DEBUG", "INFO", "WARN", "ERROR", default: "INFO"
	ConsoleLevel *string `mapstructure:"console_level"`
}

func (l AppConfigLogging) GetDbLevel() slog.Level {
	return logging.LevelFromString(l.DbLevel)
}

func (l AppConfigLogging) GetDbAttrsFormat() logging.LogAttrFormat {
	return logging.AttrFormatFromString(l.DbAttrsFormat)
}

func (l AppConfigLogging) GetDbMaxEntries() int {
	if l.DbMaxEntries == nil {
		return 10000
	}
	return *l.DbMaxEntries
}

func (l AppConfigLogging) GetConsoleLevel() slog.Level {
	return logging.LevelFromString(l.ConsoleLevel)
}

type AppConfig struct {
	Api         AppConfigApi
	Database    AppConfigDatabase
	Tariff      AppConfigTariff      `mapstructure:"tariff"`
	Simulation  AppConfigSimulation  `mapstructure:"simulation"`
	Pvgis       AppConfigPvgis       `mapstructure:"pvgis"`
	Mqtt        AppConfigMqtt        `mapstructure:"mqtt"`
	Maintenance AppConfigMaintenance `mapstructure:"maintenance"`
	Sizing      AppConfigSizing      `mapstructure:"sizing"`
	Logging     AppConfigLogging     `mapstructure:"logging"`
}

func Load(path string) (*AppConfig, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath("config")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	var c AppConfig

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("unable to read config file: %w", err)
	}

	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unable to unmarshal config file: %w", err)
	}

	return &c, nil
}
