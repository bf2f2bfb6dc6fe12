package pvgis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/icodeforyou/solarproposal-go/calc"
	"github.com/icodeforyou/solarproposal-go/metrics"
	"github.com/icodeforyou/solarproposal-go/types"
	"github.com/shopspring/decimal"
)

// Client fetches estimated monthly production from the PVGIS PVcalc API.
type Client struct {
	baseURL string
	loss    float64
	client  *http.Client
	logger  *slog.Logger
}

func New(baseURL string, loss float64, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		loss:    loss,
		client:  &http.Client{Timeout: timeout},
		logger:  slog.Default().With("module", "pvgis"),
	}
}

// EstimateProduction sums the production of every roof surface, each
// reduced by its shading.
func (c *Client) EstimateProduction(ctx context.Context, req types.ProductionRequest) (types.ProductionProfile, error) {
	if err := req.Location.Validate(); err != nil {
		return types.ProductionProfile{}, err
	}
	if !(req.PanelPowerW > 0) {
		return types.ProductionProfile{}, fmt.Errorf("%w: panel power must be positive, got %f", calc.ErrValidation, req.PanelPowerW)
	}
	if req.TotalPanels() == 0 {
		return types.ProductionProfile{}, fmt.Errorf("%w: layout has no panels", calc.ErrValidation)
	}

	var total types.Monthly
	for _, s := range req.Surfaces {
		if err := s.Validate(); err != nil {
			return types.ProductionProfile{}, err
		}
		if s.Panels == 0 {
			continue
		}

		peakPower := float64(s.Panels) * req.PanelPowerW / 1000
		months, err := c.monthly(ctx, req.Location, peakPower, s.Slope, s.Aspect)
		if err != nil {
			return types.ProductionProfile{}, fmt.Errorf("surface %q: %w", s.Name, err)
		}

		unshaded := decimal.NewFromInt(1).Sub(decimal.NewFromFloat(s.Shading))
		for i, m := range months {
			total[i] = total[i].Add(m.Mul(unshaded))
		}
	}

	for i := range total {
		total[i] = total[i].Round(0)
	}
	return types.NewProductionProfile(total)
}

// BaseProductionPerKwp is the production of a 1 kWp south facing system
// at the location, used when sizing a system.
func (c *Client) BaseProductionPerKwp(ctx context.Context, loc types.Location) (types.ProductionProfile, error) {
	if err := loc.Validate(); err != nil {
		return types.ProductionProfile{}, err
	}
	months, err := c.monthly(ctx, loc, 1, baseAngle, baseAspect)
	if err != nil {
		return types.ProductionProfile{}, err
	}
	return types.NewProductionProfile(months)
}

func (c *Client) monthly(ctx context.Context, loc types.Location, peakPower, angle, aspect float64) (result types.Monthly, err error) {
	start := time.Now()
	defer func() { metrics.ObservePvgis(err, time.Since(start)) }()

	q := url.Values{}
	q.Set("lat", formatFloat(loc.Latitude))
	q.Set("lon", formatFloat(loc.Longitude))
	q.Set("peakpower", formatFloat(peakPower))
	q.Set("angle", formatFloat(angle))
	q.Set("aspect", formatFloat(aspect))
	q.Set("loss", formatFloat(c.loss))
	q.Set("outputformat", "json")
	u := c.baseURL + "/api/PVcalc?" + q.Encode()

	c.logger.Debug("fetching production from PVGIS...", slog.String("url", u))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return result, fmt.Errorf("failed to create request: %w", err)
	}
	res, err := c.client.Do(req)
	if err != nil {
		return result, fmt.Errorf("error getting PVGIS production: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		var e apiError
		if json.NewDecoder(res.Body).Decode(&e) == nil && e.Message != "" {
			return result, fmt.Errorf("PVGIS responded %d: %s", res.StatusCode, e.Message)
		}
		return result, fmt.Errorf("unexpected status code from PVGIS: %d", res.StatusCode)
	}

	var body pvcalc
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return result, fmt.Errorf("error unmarshaling PVGIS json: %w", err)
	}

	seen := 0
	for _, entry := range body.Outputs.Monthly.Fixed {
		if entry.Month < 1 || entry.Month > types.MonthsPerYear {
			return result, fmt.Errorf("PVGIS returned invalid month %d", entry.Month)
		}
		result[entry.Month-1] = decimal.NewFromFloat(entry.Em)
		seen |= 1 << entry.Month
	}
	if seen != 0b1111111111110 {
		return result, errors.New("PVGIS response does not cover all twelve months")
	}

	return result, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
