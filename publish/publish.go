package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/icodeforyou/solarproposal-go/proposal"
)

const publishQos = 1

type Message struct {
	Id              int64     `json:"id"`
	Customer        string    `json:"customer"`
	Status          string    `json:"status"`
	BreakevenMonths *int      `json:"breakevenMonths"`
	BreakevenText   string    `json:"breakevenText"`
	YearsInProfit   *int      `json:"yearsInProfit"`
	SystemCost      int64     `json:"systemCost"`
	AnnualSavings   int64     `json:"annualSavings"`
	NetSavings      int64     `json:"netSavings"`
	SolarPercentage float64   `json:"solarPercentage"`
	CO2ReductionKg  int64     `json:"co2ReductionKg"`
	PublishedAt     time.Time `json:"publishedAt"`
}

func NewMessage(id int64, s proposal.Summary) Message {
	return Message{
		Id:              id,
		Customer:        s.Customer,
		Status:          s.Status.String(),
		BreakevenMonths: s.BreakevenMonths.Ptr(),
		BreakevenText:   s.BreakevenText,
		YearsInProfit:   s.YearsInProfit.Ptr(),
		SystemCost:      s.SystemCost,
		AnnualSavings:   s.AnnualSavings,
		NetSavings:      s.NetSavings,
		SolarPercentage: s.SolarPercentage,
		CO2ReductionKg:  s.CO2.ReductionKg,
		PublishedAt:     time.Now().UTC(),
	}
}

type client interface {
	Publish(topic string, qos byte, retained bool, payload any) mqtt.Token
}

// MqttPublisher announces every finished proposal on
// <prefix>/proposal/<id>.
type MqttPublisher struct {
	client mqtt.Client
	pub    client
	prefix string
	logger *slog.Logger
}

func NewMqttPublisher(host string, port int16, clientID, username, password, prefix string) *MqttPublisher {
	logger := slog.Default().With("module", "publish")
	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s:%d", host, port))
	opts.SetClientID(clientID)
	opts.SetUsername(username)
	opts.SetPassword(password)
	opts.SetAutoReconnect(true)
	opts.OnConnect = func(client mqtt.Client) {
		logger.Info("MQTT connected")
	}
	opts.OnConnectionLost = func(client mqtt.Client, err error) {
		logger.Warn("MQTT connection lost", slog.Any("error", err))
	}

	mqttLogger := slog.Default().With("module", "mqtt")
	mqtt.CRITICAL = newMqttLogger(mqttLogger, slog.LevelError)
	mqtt.ERROR = newMqttLogger(mqttLogger, slog.LevelError)
	mqtt.WARN = newMqttLogger(mqttLogger, slog.LevelWarn)

	c := mqtt.NewClient(opts)
	return &MqttPublisher{client: c, pub: c, prefix: prefix, logger: logger}
}

func (p *MqttPublisher) Connect() error {
	p.logger.Debug("connecting MQTT client")
	if token := p.client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("connecting to MQTT broker: %w", token.Error())
	}
	return nil
}

func (p *MqttPublisher) Disconnect() {
	if p.client != nil {
		p.client.Disconnect(250)
	}
}

func (p *MqttPublisher) Topic(id int64) string {
	return fmt.Sprintf("%s/proposal/%d", p.prefix, id)
}

func (p *MqttPublisher) Publish(ctx context.Context, id int64, s proposal.Summary) error {
	payload, err := json.Marshal(NewMessage(id, s))
	if err != nil {
		return fmt.Errorf("encoding proposal message: %w", err)
	}

	topic := p.Topic(id)
	p.logger.Debug("publishing proposal", slog.String("topic", topic))

	token := p.pub.Publish(topic, publishQos, false, payload)
	select {
	case <-token.Done():
		if err := token.Error(); err != nil {
			return fmt.Errorf("publishing to %s: %w", topic, err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("publishing to %s: %w", topic, ctx.Err())
	}
}

// Noop is used when publishing is disabled.
type Noop struct{}

func (Noop) Publish(context.Context, int64, proposal.Summary) error { return nil }
