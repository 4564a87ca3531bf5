package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LilVoxy/srag_etl/ETL/models"
	"github.com/LilVoxy/srag_etl/ETL/utils"
)

func TestTransformer_Transform_LocationScenario(t *testing.T) {
	t.Parallel()

	data := &models.ExtractedData{
		SourcePath:   "notif.csv",
		RowsRead:     3,
		Capabilities: allCapabilities(),
		Notifications: []models.Notification{
			{
				ID:               1,
				NotificationDate: day(2022, 3, 10),
				Residence:        place("SP", "São Paulo", 3550308),
				Symptoms:         str("Febre, Tosse"),
				Tests: map[string]models.TestValue{
					"codigoResultadoTeste1": {Code: ResultPositive},
					"codigoTipoTeste1":      {Code: 2},
				},
			},
			{
				ID:               2,
				NotificationDate: day(2022, 3, 11),
				Residence:        place("RJ", "Rio de Janeiro", 3304557),
				Reporting:        place("SP", "São Paulo", 3550308),
				Symptoms:         str("Tosse"),
				Conditions:       str("Diabetes"),
				VaccineDoses:     str("1ª Dose, 2ª Dose"),
			},
			{
				ID:               3,
				NotificationDate: day(2022, 3, 12),
			},
		},
	}

	schema, err := NewTransformer(utils.NewNopLogger()).Transform(data)
	require.NoError(t, err)

	locations := schema.Dimensions.Locations
	require.Len(t, locations, 2)
	assert.Equal(t, int64(3550308), locations[0].MunicipalityCode)
	assert.Equal(t, int64(3304557), locations[1].MunicipalityCode)

	require.Len(t, schema.Notifications, 3)
	a, b, c := schema.Notifications[0], schema.Notifications[1], schema.Notifications[2]

	assert.Equal(t, code(1), a.ResidenceID)
	assert.False(t, a.ReportingID.Valid)
	assert.Equal(t, code(2), b.ResidenceID)
	assert.Equal(t, code(1), b.ReportingID)
	assert.False(t, c.ResidenceID.Valid)
	assert.False(t, c.ReportingID.Valid)

	assert.Equal(t, ClassificationConfirmedLab, a.Classification)
	assert.Equal(t, ClassificationSuspect, b.Classification)

	assert.Len(t, schema.Symptoms, 3)
	assert.Len(t, schema.Conditions, 1)
	assert.Len(t, schema.Doses, 2)
	require.Len(t, schema.Tests, 1)
	assert.Equal(t, 1, schema.Tests[0].NotificationID)

	assert.Len(t, schema.Dimensions.Races, 1, "all races imputed to the same default")
	assert.NoError(t, VerifyReferences(schema))
}

func TestTransformer_KeyDensity(t *testing.T) {
	t.Parallel()

	var records []models.Notification
	for i, uf := range []string{"SP", "RJ", "SP", "MG", "RJ"} {
		records = append(records, models.Notification{
			ID:               i + 1,
			NotificationDate: day(2022, 1, i+1),
			Residence:        place(uf, uf, int64(3500000+i%3)),
			Race:             str(uf),
			Conditions:       str(uf + ", Asma"),
		})
	}
	data := &models.ExtractedData{Notifications: records, Capabilities: allCapabilities()}

	schema, err := NewTransformer(utils.NewNopLogger()).Transform(data)
	require.NoError(t, err)

	dims := schema.Dimensions
	for i, d := range dims.Locations {
		assert.Equal(t, i+1, d.ID)
	}
	for i, d := range dims.Races {
		assert.Equal(t, i+1, d.ID)
	}
	for i, d := range dims.Conditions {
		assert.Equal(t, i+1, d.ID)
	}
	assert.Len(t, dims.Locations, 3)
	assert.Len(t, dims.Races, 3)
	assert.Len(t, dims.Conditions, 4)
}

func TestVerifyReferences(t *testing.T) {
	t.Parallel()

	schema := &models.StarSchema{
		Notifications: []models.NotificationFact{{NotificationID: 1, RaceID: code(5)}},
	}
	err := VerifyReferences(schema)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fk_raca_cor")

	schema = &models.StarSchema{
		Notifications: []models.NotificationFact{{NotificationID: 1}},
		Tests:         []models.TestRecord{{ID: 1, NotificationID: 2, Slot: 1}},
	}
	require.Error(t, VerifyReferences(schema))
}
