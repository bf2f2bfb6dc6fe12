package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/icodeforyou/solarproposal-go/config"
	"github.com/icodeforyou/solarproposal-go/database"
	"github.com/icodeforyou/solarproposal-go/logging"
	"github.com/icodeforyou/solarproposal-go/metrics"
	"github.com/icodeforyou/solarproposal-go/proposal"
	"github.com/icodeforyou/solarproposal-go/publish"
	"github.com/icodeforyou/solarproposal-go/pvgis"
	"github.com/icodeforyou/solarproposal-go/simulate"
	"github.com/icodeforyou/solarproposal-go/task"
	"github.com/icodeforyou/solarproposal-go/www"
	"github.com/lmittmann/tint"
)

var Version = "?.?.?"

func main() {
	defer func() {
		if err := recover(); err != nil {
			exitWithError(slog.Default(), fmt.Errorf("application panicked: %v", err))
		} else {
			slog.Default().Info("application is shutting down...")
		}
	}()

	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cnfg, err := config.Load(*configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	rates, err := cnfg.Tariff.Rates()
	if err != nil {
		panic(fmt.Sprintf("invalid tariff: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	consoleHandler := tint.NewHandler(os.Stdout, &tint.Options{
		Level:      cnfg.Logging.GetConsoleLevel(),
		TimeFormat: time.RFC3339,
	})
	slog.New(consoleHandler).Debug("solarproposal is starting...", slog.String("version", Version))

	db, err := database.New(ctx, cnfg.Database.Path)
	if err != nil {
		panic(fmt.Sprintf("failed to connect to database: %v", err))
	}
	defer db.Close()

	logger := slog.New(logging.NewMultiHandler(
		consoleHandler,
		logging.NewSQLiteHandler(db, cnfg.Logging.GetDbLevel(), cnfg.Logging.GetDbAttrsFormat())))
	slog.SetDefault(logger)

	// Now we can use the logger to log database operations into the database itself
	db.SetLogger(logger.With("module", "database"))

	metrics.Init(func() (int, error) { return db.CountProposals(context.Background()) })

	sim, err := simulate.New(rates, cnfg.Simulation.GetHorizonMonths())
	if err != nil {
		panic(fmt.Sprintf("failed to create simulator: %v", err))
	}

	estimator := pvgis.New(cnfg.Pvgis.GetBaseURL(), cnfg.Pvgis.GetLoss(), cnfg.Pvgis.GetTimeout())

	var publisher proposal.Publisher = publish.Noop{}
	if cnfg.Mqtt.Enabled && !isDevMode() {
		mqtt := publish.NewMqttPublisher(
			cnfg.Mqtt.Host,
			cnfg.Mqtt.Port,
			cnfg.Mqtt.GetClientID(),
			cnfg.Mqtt.Username,
			cnfg.Mqtt.Password,
			cnfg.Mqtt.GetTopicPrefix())
		if err := mqtt.Connect(); err != nil {
			panic(fmt.Sprintf("mqtt connection error: %v", err))
		}
		defer mqtt.Disconnect()
		publisher = mqtt
	} else {
		logger.Info("mqtt publishing disabled")
	}

	service := proposal.NewService(sim, estimator, db, publisher)
	sizer := proposal.NewSizer(sim, estimator, proposal.SizingCosts{
		PanelPowerW:  cnfg.Sizing.GetPanelPower(),
		CostPerPanel: cnfg.Sizing.GetCostPerPanel(),
		FixedCost:    cnfg.Sizing.GetFixedCost(),
		MaxPanels:    cnfg.Sizing.GetMaxPanels(),
	})

	tasks := task.NewTasks(db, cnfg)
	if isDevMode() {
		logger.Info("dev mode, skipping task scheduling")
	} else {
		if err := tasks.Run(); err != nil {
			panic(fmt.Sprintf("failed to schedule tasks: %v", err))
		}
		defer tasks.Stop()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case <-ctx.Done():
			logger.Info("main context done")
		case sig := <-sigCh:
			logger.Info("received signal", slog.Any("signal", sig))
			cancel()
		}
	}()

	server, err := www.NewServer(db, service, sizer, cnfg.Api)
	if err != nil {
		panic(fmt.Sprintf("failed to create server: %v", err))
	}
	if err := server.Run(ctx); err != nil {
		logger.Error("server stopped", slog.Any("error", err))
	}
}

func isDevMode() bool {
	return strings.EqualFold(os.Getenv("APP_ENV"), "development")
}

func exitWithError(logger *slog.Logger, err error) {
	if err != nil {
		logger.Error("application shutting down with error", slog.Any("error", err))
	}
	if syncer, ok := logger.Handler().(interface{ Sync() error }); ok {
		if syncErr := syncer.Sync(); syncErr != nil {
			logger.Error("failed to flush logger", slog.Any("error", syncErr))
		}
	}

	time.Sleep(2 * time.Second)
	os.Exit(1)
}
