package database

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDatabase(t *testing.T) *Database {
	t.Helper()
	db, err := New(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(db.Close)
	return db
}

func months(n int) []ProposalMonthRow {
	res := make([]ProposalMonthRow, n)
	var cumStd, cumSolar int64 = 0, 781000
	for i := range res {
		cumStd += 13921
		cumSolar += 8671
		res[i] = ProposalMonthRow{
			MonthIndex:         i + 1,
			StandardCost:       13921,
			SolarCost:          8671,
			CumulativeStandard: cumStd,
			CumulativeSolar:    cumSolar,
			CarriedCredit:      float64(i),
		}
	}
	return res
}

func TestMigrationIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := New(context.Background(), path)
	require.NoError(t, err)
	db.Close()

	db, err = New(context.Background(), path)
	require.NoError(t, err)
	defer db.Close()

	var version int
	require.NoError(t, db.read.QueryRow("PRAGMA user_version").Scan(&version))
	assert.Equal(t, 1, version)
}

func TestSaveAndGetProposal(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()

	id, err := db.SaveProposal(ctx, ProposalRow{
		Customer:         "Petar Petrović",
		Address:          "Bulevar oslobođenja 1, Novi Sad",
		SystemCost:       781000,
		AnnualUsage:      10800,
		AnnualProduction: 10692,
		Status:           "found",
		BreakevenMonth:   sql.NullInt64{Int64: 74, Valid: true},
		YearsInProfit:    sql.NullInt64{Int64: 18, Valid: true},
		NetSavings:       4533660,
		Input:            `{"upfrontCost":781000}`,
		Summary:          `{}`,
	}, months(300))
	require.NoError(t, err)

	p, err := db.GetProposal(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Petar Petrović", p.Customer)
	assert.Equal(t, int64(74), p.BreakevenMonth.Int64)
	assert.True(t, p.BreakevenMonth.Valid)
	assert.WithinDuration(t, time.Now(), p.CreatedAt, time.Minute)

	ms, err := db.GetProposalMonths(ctx, id)
	require.NoError(t, err)
	require.Len(t, ms, 300)
	assert.Equal(t, 1, ms[0].MonthIndex)
	assert.Equal(t, int64(13921*300), ms[299].CumulativeStandard)
}

func TestProposalWithoutBreakeven(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()

	id, err := db.SaveProposal(ctx, ProposalRow{SystemCost: 100000000, Status: "exhausted", Input: "{}", Summary: "{}"}, nil)
	require.NoError(t, err)

	p, err := db.GetProposal(ctx, id)
	require.NoError(t, err)
	assert.False(t, p.BreakevenMonth.Valid)
	assert.False(t, p.YearsInProfit.Valid)
}

func TestGetProposalNotFound(t *testing.T) {
	db := newTestDatabase(t)
	_, err := db.GetProposal(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListAndPurgeProposals(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()

	old, err := db.SaveProposal(ctx, ProposalRow{CreatedAt: time.Now().AddDate(0, 0, -400), Status: "found", Input: "{}", Summary: "{}"}, months(12))
	require.NoError(t, err)
	recent, err := db.SaveProposal(ctx, ProposalRow{Status: "found", Input: "{}", Summary: "{}"}, months(12))
	require.NoError(t, err)

	list, err := db.ListProposals(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, recent, list[0].Id, "newest first")

	n, err := db.CountProposals(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NoError(t, db.PurgeProposals(ctx, 365))

	_, err = db.GetProposal(ctx, old)
	assert.ErrorIs(t, err, ErrNotFound)
	ms, err := db.GetProposalMonths(ctx, old)
	require.NoError(t, err)
	assert.Empty(t, ms, "months are deleted with the proposal")

	_, err = db.GetProposal(ctx, recent)
	assert.NoError(t, err)
}

func TestLogEntries(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()

	for i, lvl := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError} {
		require.NoError(t, db.SaveLogEntry(ctx, LogEntryRow{
			Timestamp: time.Now(),
			Level:     int(lvl),
			Message:   lvl.String(),
			Attrs:     `[{"i":"` + string(rune('0'+i)) + `"}]`,
		}))
	}

	entries, err := db.GetLogEntries(ctx, slog.LevelWarn, 1, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "ERROR", entries[0].Message)

	require.NoError(t, db.PurgeLog(ctx, 0))
	entries, err = db.GetLogEntries(ctx, slog.LevelDebug, 1, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 4, "zero max entries keeps the log")

	require.NoError(t, db.PurgeLog(ctx, 1))
	entries, err = db.GetLogEntries(ctx, slog.LevelDebug, 1, 10)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestBackup(t *testing.T) {
	db := newTestDatabase(t)
	require.NoError(t, db.Backup(context.Background()))

	files, err := os.ReadDir(filepath.Join(filepath.Dir(db.path), "backups"))
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, ".zip", filepath.Ext(files[0].Name()))

	require.NoError(t, db.PurgeBackups(context.Background(), 1))
	files, err = os.ReadDir(filepath.Join(filepath.Dir(db.path), "backups"))
	require.NoError(t, err)
	assert.Len(t, files, 1, "fresh backups are kept")
}

func TestPurgeBackups(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()

	require.NoError(t, db.PurgeBackups(ctx, 30), "missing backup directory is not an error")

	dir := filepath.Join(filepath.Dir(db.path), "backups")
	require.NoError(t, os.MkdirAll(dir, 0755))
	old := time.Now().AddDate(0, 0, -40).Format(backupTimeLayout) + "_solarproposal.db.zip"
	recent := time.Now().AddDate(0, 0, -2).Format(backupTimeLayout) + "_solarproposal.db.zip"
	for _, name := range []string{old, recent, "20000101_000000_notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}

	require.NoError(t, db.PurgeBackups(ctx, 30))

	files, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, f := range files {
		names = append(names, f.Name())
	}
	assert.ElementsMatch(t, []string{recent, "20000101_000000_notes.txt"}, names)
}

func TestAbortMigrationKeepsCause(t *testing.T) {
	cause := errors.New("no such table: proposal")

	err := abortMigration(func() error { return nil }, 2, cause)
	assert.Same(t, cause, err)

	rollbackErr := errors.New("database is locked")
	err = abortMigration(func() error { return rollbackErr }, 2, cause)
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, rollbackErr)
	assert.ErrorContains(t, err, "rollback migration 2")
}
