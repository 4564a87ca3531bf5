package main

import (
	"context"
	"errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/LilVoxy/srag_etl/ETL/config"
	"github.com/LilVoxy/srag_etl/ETL/load"
	"github.com/LilVoxy/srag_etl/ETL/models"
	"github.com/LilVoxy/srag_etl/ETL/utils"
)

const sampleCSV = "dataNotificacao,dataInicioSintomas,municipioIBGE,estadoIBGE,estado,municipio,municipioNotificacaoIBGE,sintomas,codigoResultadoTeste1,codigoTipoTeste1\n" +
	"10/03/2022,09/03/2022,3550308,SP,São Paulo,São Paulo,,\"Febre, Tosse\",1,2\n" +
	"11/03/2022,,3304557,RJ,Rio de Janeiro,Rio de Janeiro,3550308,Tosse,,\n" +
	"12/03/2022,,,,,,,,,\n"

type memoryWriter struct {
	tables []load.Table
	failOn string
	closed int
}

func (w *memoryWriter) Append(_ context.Context, table load.Table) (int64, error) {
	if table.Name == w.failOn {
		return 0, errors.New("disk full")
	}
	w.tables = append(w.tables, table)
	return int64(len(table.Rows)), nil
}

func (w *memoryWriter) Close() error {
	w.closed++
	return nil
}

func (w *memoryWriter) table(name string) (load.Table, bool) {
	for _, t := range w.tables {
		if t.Name == name {
			return t, true
		}
	}
	return load.Table{}, false
}

func newTestRunner(t *testing.T, journal bool, writer *memoryWriter) *ETLRunner {
	t.Helper()

	return newTestRunnerWithLogger(t, journal, writer, utils.NewNopLogger())
}

func newTestRunnerWithLogger(t *testing.T, journal bool, writer *memoryWriter, logger *utils.ETLLogger) *ETLRunner {
	t.Helper()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "notif.csv", []byte(sampleCSV), 0o644))

	cfg := config.GetConfig()
	cfg.EnableRunJournal = journal

	runner := NewETLRunner(cfg, fs, logger)
	runner.openWriter = func(context.Context, config.DatabaseConfig) (load.TableWriter, error) {
		return writer, nil
	}
	return runner
}

func TestETLRunner_ExecuteETL(t *testing.T) {
	t.Parallel()

	w := &memoryWriter{}
	err := newTestRunner(t, true, w).ExecuteETL(context.Background(), "notif.csv")
	require.NoError(t, err)

	locations, ok := w.table(load.TableLocations)
	require.True(t, ok)
	assert.Len(t, locations.Rows, 2)

	notifications, ok := w.table(load.TableNotifications)
	require.True(t, ok)
	assert.Len(t, notifications.Rows, 3)

	tests, ok := w.table(load.TableTests)
	require.True(t, ok)
	assert.Len(t, tests.Rows, 1)

	runLog, ok := w.table(load.TableRunLog)
	require.True(t, ok)
	require.Len(t, runLog.Rows, 1)
	assert.Equal(t, models.RunStatusSuccess, runLog.Rows[0][4])
	assert.Equal(t, int64(3), runLog.Rows[0][6])

	assert.Equal(t, 1, w.closed, "connection released once")
}

func TestETLRunner_ExecuteETL_MissingInput(t *testing.T) {
	t.Parallel()

	w := &memoryWriter{}
	err := newTestRunner(t, true, w).ExecuteETL(context.Background(), "absent.csv")
	require.NoError(t, err)
	assert.Empty(t, w.tables, "nothing written")
}

func TestETLRunner_ExecuteETL_LoadFailure(t *testing.T) {
	t.Parallel()

	w := &memoryWriter{failOn: load.TableNotifications}
	err := newTestRunner(t, true, w).ExecuteETL(context.Background(), "notif.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")

	_, ok := w.table(load.TableLocations)
	assert.True(t, ok, "dimensions loaded before the failure are kept")

	runLog, ok := w.table(load.TableRunLog)
	require.True(t, ok)
	assert.Equal(t, models.RunStatusFailed, runLog.Rows[0][4])
	assert.Equal(t, 1, w.closed)
}

func TestETLRunner_ExecuteETL_JournalDisabled(t *testing.T) {
	t.Parallel()

	w := &memoryWriter{}
	require.NoError(t, newTestRunner(t, false, w).ExecuteETL(context.Background(), "notif.csv"))

	_, ok := w.table(load.TableRunLog)
	assert.False(t, ok)
}

func TestETLRunner_ExecuteETL_FailureLogsCarryRunID(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.InfoLevel)
	w := &memoryWriter{failOn: load.TableNotifications}
	runner := newTestRunnerWithLogger(t, true, w, utils.FromZap(zap.New(core), false))

	require.Error(t, runner.ExecuteETL(context.Background(), "notif.csv"))

	runLog, ok := w.table(load.TableRunLog)
	require.True(t, ok)
	runID := runLog.Rows[0][0]

	failures := logs.FilterMessageSnippet("ETL процесс завершился с ошибкой").All()
	require.Len(t, failures, 1)
	assert.Equal(t, runID, failures[0].ContextMap()["run_id"])
}
