package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/LilVoxy/srag_etl/ETL/models"
)

func TestSplitMultiValued(t *testing.T) {
	t.Parallel()

	records := []models.Notification{
		{ID: 1, Symptoms: str("Febre, Tosse,  Dor de Garganta ")},
		{ID: 2},
		{ID: 3, Symptoms: str("Tosse, Tosse, Febre")},
		{ID: 4, Symptoms: str("Dispneia")},
	}

	got := SplitMultiValued(records, SymptomsField)

	assert.Equal(t, []models.ValuePair{
		{NotificationID: 1, Value: "Febre"},
		{NotificationID: 1, Value: "Tosse"},
		{NotificationID: 1, Value: "Dor de Garganta"},
		{NotificationID: 3, Value: "Tosse"},
		{NotificationID: 3, Value: "Febre"},
		{NotificationID: 4, Value: "Dispneia"},
	}, got)
}

// Пустые фрагменты не отбрасываются и попадают в измерение как пустая строка
func TestSplitMultiValued_EmptyFragmentsKept(t *testing.T) {
	t.Parallel()

	records := []models.Notification{
		{ID: 1, Conditions: str("Diabetes, , Obesidade, ")},
	}

	got := SplitMultiValued(records, ConditionsField)

	assert.Equal(t, []models.ValuePair{
		{NotificationID: 1, Value: "Diabetes"},
		{NotificationID: 1, Value: ""},
		{NotificationID: 1, Value: "Obesidade"},
	}, got)
}

func TestSplitMultiValued_Empty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, SplitMultiValued(nil, DosesField))
	assert.Empty(t, SplitMultiValued([]models.Notification{{ID: 1}}, DosesField))
}
