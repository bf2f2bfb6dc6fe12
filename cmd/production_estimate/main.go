package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/icodeforyou/solarproposal-go/config"
	"github.com/icodeforyou/solarproposal-go/months"
	"github.com/icodeforyou/solarproposal-go/pvgis"
	"github.com/icodeforyou/solarproposal-go/types"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	city := flag.String("city", "", "known city, i.e. Beograd")
	lat := flag.Float64("lat", 0, "latitude")
	lon := flag.Float64("lon", 0, "longitude")
	panels := flag.Int("panels", 10, "number of panels")
	panelPower := flag.Float64("panel-power", 0, "panel power in W (default from config)")
	slope := flag.Float64("slope", -1, "roof slope in degrees (default from config)")
	aspect := flag.Float64("aspect", 0, "orientation in degrees, 0 = south, -90 = east, 90 = west")
	shading := flag.Float64("shading", -1, "lost share of production, 0-1 (default from config)")
	flag.Parse()

	cnfg := &config.AppConfig{}
	if *configPath != "" {
		var err error
		if cnfg, err = config.Load(*configPath); err != nil {
			panic(err)
		}
	}

	loc := types.Location{Latitude: *lat, Longitude: *lon}
	if *city != "" {
		l, ok := types.CityLocation(*city)
		if !ok {
			fmt.Fprintf(os.Stderr, "unknown city %q\n", *city)
			os.Exit(2)
		}
		loc = l
	}

	if *panelPower <= 0 {
		*panelPower = cnfg.Sizing.GetPanelPower()
	}
	if *slope < 0 {
		*slope = cnfg.Pvgis.GetDefaultSlope()
	}
	if *shading < 0 {
		*shading = cnfg.Pvgis.GetDefaultShading()
	}

	client := pvgis.New(cnfg.Pvgis.GetBaseURL(), cnfg.Pvgis.GetLoss(), cnfg.Pvgis.GetTimeout())
	res, err := client.EstimateProduction(context.Background(), types.ProductionRequest{
		Location:    loc,
		PanelPowerW: *panelPower,
		Surfaces: []types.RoofSurface{
			{Name: "roof", Panels: *panels, Slope: *slope, Aspect: *aspect, Shading: *shading},
		},
	})
	if err != nil {
		panic(err)
	}

	fmt.Printf("Location: %.4f, %.4f, %d x %.0f W, slope %.0f, aspect %.0f, shading %.0f%%\n",
		loc.Latitude, loc.Longitude, *panels, *panelPower, *slope, *aspect, *shading*100)
	for m := 1; m <= months.PerYear; m++ {
		fmt.Printf("%s: %s kWh\n", months.ShortName(m), res.Month(m).String())
	}
	fmt.Printf("Year: %s kWh\n", res.Annual().String())
}
