package task

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/icodeforyou/solarproposal-go/config"
	"github.com/robfig/cron/v3"
)

const defaultMaintenanceSpec = "30 2 * * *"

type Tasks struct {
	cron            *cron.Cron
	cnfg            *config.AppConfig
	MaintenanceTask func()
}

func NewTasks(db MaintenanceStore, cnfg *config.AppConfig) *Tasks {
	logger := slog.Default().With("module", "tasks")
	return &Tasks{
		cron:            cron.New(),
		cnfg:            cnfg,
		MaintenanceTask: NewMaintenanceTask(logger.With(slog.String("task", "maintenance")), db, cnfg),
	}
}

func (t *Tasks) Run() error {
	spec := t.cnfg.Maintenance.RunAt
	if spec == "" {
		spec = defaultMaintenanceSpec
	}
	if _, err := t.cron.AddFunc(spec, t.MaintenanceTask); err != nil {
		return fmt.Errorf("scheduling maintenance %q: %w", spec, err)
	}
	t.cron.Start()
	return nil
}

func (t *Tasks) Stop() context.Context {
	return t.cron.Stop()
}
