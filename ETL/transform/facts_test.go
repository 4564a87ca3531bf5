package transform

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LilVoxy/srag_etl/ETL/models"
	"github.com/LilVoxy/srag_etl/ETL/utils"
)

func TestParseYesNo(t *testing.T) {
	t.Parallel()

	assert.True(t, ParseYesNo(str(AnswerYes)))
	assert.False(t, ParseYesNo(str(AnswerNo)))
	assert.False(t, ParseYesNo(str("sim")))
	assert.False(t, ParseYesNo(str("Ignorado")))
	assert.False(t, ParseYesNo(sql.NullString{}))
}

func TestFactAssembler_Assemble(t *testing.T) {
	t.Parallel()

	records := []models.Notification{
		{
			ID:             1,
			Residence:      place("SP", "São Paulo", 3550308),
			Reporting:      place("SP", "São Paulo", 9999999),
			Race:           str("Parda"),
			Outcome:        str("Cura"),
			HealthWorker:   str("Sim"),
			SecurityWorker: str("Não"),
			Classification: str(ClassificationConfirmedLab),
			Age:            sql.NullFloat64{Float64: 42, Valid: true},
			VaccineStatus:  code(1),
		},
		{ID: 2, Race: str("Indígena"), Classification: str(ClassificationSuspect)},
	}
	dims := models.Dimensions{
		Locations:     []models.LocationDim{{ID: 1, MunicipalityCode: 3550308}},
		Races:         []models.RaceDim{{ID: 1, Description: "Parda"}},
		Outcomes:      []models.OutcomeDim{{ID: 1, Description: "Cura"}},
		VaccineStatus: []models.VaccineStatusDim{{ID: 1, Code: 1}},
		Symptoms:      []models.SymptomDim{{ID: 1, Name: "Febre"}, {ID: 2, Name: "Tosse"}},
	}
	pairs := MultiValuedPairs{
		Symptoms: []models.ValuePair{{NotificationID: 1, Value: "Tosse"}, {NotificationID: 2, Value: "Febre"}},
	}

	schema, err := NewFactAssembler(utils.NewNopLogger()).Assemble(records, dims, pairs)
	require.NoError(t, err)
	require.Len(t, schema.Notifications, 2)

	first := schema.Notifications[0]
	assert.Equal(t, code(1), first.ResidenceID)
	assert.False(t, first.ReportingID.Valid, "code absent from dimension keeps NULL key")
	assert.Equal(t, code(1), first.RaceID)
	assert.Equal(t, code(1), first.OutcomeID)
	assert.Equal(t, code(1), first.VaccineStatusID)
	assert.Equal(t, code(1), first.VaccineStatusCode)
	assert.Equal(t, code(42), first.Age)
	assert.True(t, first.HealthWorker)
	assert.False(t, first.SecurityWorker)
	assert.Equal(t, ClassificationConfirmedLab, first.Classification)

	second := schema.Notifications[1]
	assert.False(t, second.RaceID.Valid)
	assert.False(t, second.ResidenceID.Valid)
	assert.False(t, second.HealthWorker)
	assert.False(t, second.Age.Valid)

	assert.Equal(t, []models.NotificationSymptom{
		{NotificationID: 1, SymptomID: 2},
		{NotificationID: 2, SymptomID: 1},
	}, schema.Symptoms)
	assert.Empty(t, schema.Conditions)
	assert.Empty(t, schema.Doses)
}

func TestFactAssembler_UnknownBridgeValue(t *testing.T) {
	t.Parallel()

	pairs := MultiValuedPairs{
		Conditions: []models.ValuePair{{NotificationID: 1, Value: "Asma"}},
	}

	_, err := NewFactAssembler(utils.NewNopLogger()).Assemble([]models.Notification{{ID: 1}}, models.Dimensions{}, pairs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Asma")
}
