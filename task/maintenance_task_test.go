package task

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/icodeforyou/solarproposal-go/config"
	"github.com/stretchr/testify/assert"
)

type fakeStore struct {
	calls  []string
	args   map[string]int
	failOn string
}

func (s *fakeStore) record(name string, arg int) error {
	s.calls = append(s.calls, name)
	if s.args == nil {
		s.args = map[string]int{}
	}
	s.args[name] = arg
	if name == s.failOn {
		return errors.New(name + " failed")
	}
	return nil
}

func (s *fakeStore) Backup(context.Context) error { return s.record("backup", 0) }
func (s *fakeStore) PurgeBackups(_ context.Context, days int) error {
	return s.record("purgeBackups", days)
}
func (s *fakeStore) PurgeLog(_ context.Context, max int) error { return s.record("purgeLog", max) }
func (s *fakeStore) PurgeProposals(_ context.Context, days int) error {
	return s.record("purgeProposals", days)
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestMaintenanceTask(t *testing.T) {
	days := 30
	cnfg := &config.AppConfig{Database: config.AppConfigDatabase{BackupRetentionDays: &days}}
	store := &fakeStore{}

	NewMaintenanceTask(discard(), store, cnfg)()

	assert.Equal(t, []string{"backup", "purgeBackups", "purgeLog", "purgeProposals"}, store.calls)
	assert.Equal(t, 30, store.args["purgeBackups"])
	assert.Equal(t, 10000, store.args["purgeLog"])
	assert.Equal(t, 365, store.args["purgeProposals"])
}

func TestMaintenanceTaskContinuesAfterFailure(t *testing.T) {
	store := &fakeStore{failOn: "backup"}
	NewMaintenanceTask(discard(), store, &config.AppConfig{})()
	assert.Len(t, store.calls, 4)
}

func TestTasksRejectInvalidSpec(t *testing.T) {
	tasks := NewTasks(&fakeStore{}, &config.AppConfig{Maintenance: config.AppConfigMaintenance{RunAt: "every night"}})
	assert.Error(t, tasks.Run())
}

func TestTasksRunAndStop(t *testing.T) {
	tasks := NewTasks(&fakeStore{}, &config.AppConfig{})
	assert.NoError(t, tasks.Run())
	<-tasks.Stop().Done()
}
