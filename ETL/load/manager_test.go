package load

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LilVoxy/srag_etl/ETL/extractors"
	"github.com/LilVoxy/srag_etl/ETL/models"
	"github.com/LilVoxy/srag_etl/ETL/utils"
)

// recordingWriter запоминает порядок таблиц и может падать на заданной таблице
type recordingWriter struct {
	tables []Table
	failOn string
	closed bool
}

func (w *recordingWriter) Append(_ context.Context, table Table) (int64, error) {
	if table.Name == w.failOn {
		return 0, errors.New("connection reset")
	}
	w.tables = append(w.tables, table)
	return int64(len(table.Rows)), nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func (w *recordingWriter) names() []string {
	names := make([]string, 0, len(w.tables))
	for _, t := range w.tables {
		names = append(names, t.Name)
	}
	return names
}

func sampleSchema(header []string) *models.StarSchema {
	notified := sql.NullTime{Time: time.Date(2022, 3, 10, 0, 0, 0, 0, time.UTC), Valid: true}

	return &models.StarSchema{
		Dimensions: models.Dimensions{
			Locations: []models.LocationDim{{ID: 1, StateCode: 35, MunicipalityCode: 3550308}},
			Symptoms:  []models.SymptomDim{{ID: 1, Name: "Febre"}},
			Races:     []models.RaceDim{{ID: 1, Description: "Parda"}},
			Outcomes:  []models.OutcomeDim{{ID: 1, Description: "Cura"}},
		},
		Notifications: []models.NotificationFact{{
			NotificationID:   1,
			Sex:              sql.NullString{String: "Feminino", Valid: true},
			Age:              sql.NullInt64{Int64: 30, Valid: true},
			ResidenceID:      sql.NullInt64{Int64: 1, Valid: true},
			NotificationDate: notified,
			SymptomOnsetDate: notified,
			Classification:   "Suspeito",
		}},
		Symptoms: []models.NotificationSymptom{{NotificationID: 1, SymptomID: 1}},
		Tests: []models.TestRecord{{
			ID: 1, NotificationID: 1, Slot: 1,
			Result: sql.NullInt64{Int64: 1, Valid: true},
		}},
		Capabilities: models.NewCapabilities(extractors.ExpectedColumns, extractors.ExpectedTestColumns(), header),
	}
}

func TestLoadManager_Load_Order(t *testing.T) {
	t.Parallel()

	w := &recordingWriter{}
	result, err := NewLoadManager(w, utils.NewNopLogger()).Load(context.Background(), sampleSchema([]string{extractors.ColNotificationDate}))
	require.NoError(t, err)

	assert.Equal(t, []string{
		TableLocations, TableSymptoms, TableRaces, TableOutcomes,
		TableNotifications, TableNotificationSymptom, TableTests,
	}, w.names(), "dimensions first, empty tables skipped")
	assert.Equal(t, int64(1), result[TableNotifications])
	assert.NotContains(t, result, TableDoses)
}

func TestLoadManager_Load_AbortsOnFailure(t *testing.T) {
	t.Parallel()

	w := &recordingWriter{failOn: TableRaces}
	result, err := NewLoadManager(w, utils.NewNopLogger()).Load(context.Background(), sampleSchema(nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), TableRaces)

	assert.Equal(t, []string{TableLocations, TableSymptoms}, w.names(), "nothing after the failed table")
	assert.Len(t, result, 2)
}

func TestFactTables_OptionalColumns(t *testing.T) {
	t.Parallel()

	without := FactTables(sampleSchema([]string{extractors.ColNotificationDate}))[0]
	assert.NotContains(t, without.Columns, "idade")
	assert.NotContains(t, without.Columns, "codigo_recebeu_vacina")
	assert.Contains(t, without.Columns, "sexo")
	assert.Contains(t, without.Columns, "fk_localidade_residencia")
	assert.Contains(t, without.Columns, "fk_status_vacinal")

	with := FactTables(sampleSchema([]string{extractors.ColNotificationDate, extractors.ColAge}))[0]
	require.Contains(t, with.Columns, "idade")
	require.Len(t, with.Rows, 1)
	assert.Len(t, with.Rows[0], len(with.Columns))

	row := make(map[string]any)
	for i, c := range with.Columns {
		row[c] = with.Rows[0][i]
	}
	assert.Equal(t, int64(30), row["idade"])
	assert.Equal(t, int64(1), row["fk_localidade_residencia"])
	assert.Nil(t, row["fk_localidade_notificacao"])
	assert.Nil(t, row["fk_raca_cor"])
	assert.Equal(t, false, row["profissional_saude"])
	assert.Equal(t, "Suspeito", row["classificacao_final"])
}

func TestRunLogTable(t *testing.T) {
	t.Parallel()

	start := time.Date(2022, 3, 10, 12, 0, 0, 0, time.UTC)
	table := RunLogTable(models.ETLRunLog{
		RunID:      "run-1",
		SourceFile: "notif.csv",
		StartTime:  start,
		EndTime:    start.Add(90 * time.Second),
		Status:     models.RunStatusSuccess,
		RowsRead:   10,
	})

	assert.Equal(t, TableRunLog, table.Name)
	require.Len(t, table.Rows, 1)
	assert.Len(t, table.Rows[0], len(table.Columns))
	assert.Equal(t, 90.0, table.Rows[0][7])
	assert.Nil(t, table.Rows[0][8])

	w := &recordingWriter{}
	require.NoError(t, AppendRunLog(context.Background(), w, models.ETLRunLog{RunID: "run-2"}))
	assert.Equal(t, []string{TableRunLog}, w.names())
}
