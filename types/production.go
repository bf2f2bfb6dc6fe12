package types

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/icodeforyou/solarproposal-go/calc"
)

type Location struct {
	Latitude  float64 `json:"lat" yaml:"lat"` // WGS84
	Longitude float64 `json:"lon" yaml:"lon"` // WGS84
}

func (l Location) Validate() error {
	if !(l.Latitude >= -90 && l.Latitude <= 90 && l.Longitude >= -180 && l.Longitude <= 180) {
		return fmt.Errorf("%w: invalid location %.4f,%.4f", calc.ErrValidation, l.Latitude, l.Longitude)
	}
	return nil
}

var cities = map[string]Location{
	"beograd":    {44.8176, 20.4569},
	"novi sad":   {45.2671, 19.8335},
	"niš":        {43.3209, 21.8958},
	"kragujevac": {44.0128, 20.9114},
	"subotica":   {46.1000, 19.6667},
	"zrenjanin":  {45.3833, 20.3833},
	"pančevo":    {44.8708, 20.6403},
	"čačak":      {43.8914, 20.3497},
	"novi pazar": {43.1367, 20.5122},
	"kraljevo":   {43.7233, 20.6897},
}

// CityLocation looks up the approximate location of a known city.
func CityLocation(name string) (Location, bool) {
	l, ok := cities[strings.ToLower(strings.TrimSpace(name))]
	return l, ok
}

// RoofSurface is one plane of the roof carrying panels.
type RoofSurface struct {
	Name    string  `json:"name" yaml:"name"`
	Panels  int     `json:"panels" yaml:"panels"`
	Slope   float64 `json:"slope" yaml:"slope"`     // Tilt in degrees, 0-90
	Aspect  float64 `json:"aspect" yaml:"aspect"`   // Orientation in degrees, 0 = south, -90 = east, 90 = west
	Shading float64 `json:"shading" yaml:"shading"` // Lost share of production, 0-1
}

func (s RoofSurface) Validate() error {
	switch {
	case s.Panels < 0:
		return fmt.Errorf("%w: surface %q has negative panel count", calc.ErrValidation, s.Name)
	case !(s.Slope >= 0 && s.Slope <= 90):
		return fmt.Errorf("%w: surface %q slope must be 0-90, got %.1f", calc.ErrValidation, s.Name, s.Slope)
	case !(s.Aspect >= -180 && s.Aspect <= 180):
		return fmt.Errorf("%w: surface %q aspect must be -180-180, got %.1f", calc.ErrValidation, s.Name, s.Aspect)
	case !(s.Shading >= 0 && s.Shading <= 1):
		return fmt.Errorf("%w: surface %q shading must be 0-1, got %.2f", calc.ErrValidation, s.Name, s.Shading)
	}
	return nil
}

type ProductionRequest struct {
	Location    Location
	PanelPowerW float64
	Surfaces    []RoofSurface
}

func (r ProductionRequest) TotalPanels() int {
	total := 0
	for _, s := range r.Surfaces {
		total += s.Panels
	}
	return total
}

// Validate checks the panel power and every surface of the layout.
func (r ProductionRequest) Validate() error {
	if !(r.PanelPowerW >= 0) || math.IsInf(r.PanelPowerW, 1) {
		return fmt.Errorf("%w: panel power must be a non-negative finite number, got %v", calc.ErrValidation, r.PanelPowerW)
	}
	for _, s := range r.Surfaces {
		if err := s.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// PeakPowerKw is the installed power of all surfaces.
func (r ProductionRequest) PeakPowerKw() float64 {
	return float64(r.TotalPanels()) * r.PanelPowerW / 1000
}

type ProductionEstimator interface {
	EstimateProduction(ctx context.Context, req ProductionRequest) (ProductionProfile, error)
}
