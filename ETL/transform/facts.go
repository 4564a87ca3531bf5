package transform

import (
	"database/sql"
	"fmt"

	"github.com/LilVoxy/srag_etl/ETL/models"
	"github.com/LilVoxy/srag_etl/ETL/utils"
)

// Локализованные значения да/нет
const (
	AnswerYes = "Sim"
	AnswerNo  = "Não"
)

// FactAssembler разрешает внешние ключи и собирает таблицы фактов
type FactAssembler struct {
	logger *utils.ETLLogger
}

// NewFactAssembler создает новый экземпляр FactAssembler
func NewFactAssembler(logger *utils.ETLLogger) *FactAssembler {
	return &FactAssembler{logger: logger}
}

// dimensionIndex - индексы натуральный ключ -> суррогатный ключ
type dimensionIndex struct {
	locations     map[int64]int
	symptoms      map[string]int
	conditions    map[string]int
	races         map[string]int
	outcomes      map[string]int
	vaccineStatus map[int64]int
	doses         map[string]int
}

func newDimensionIndex(dims models.Dimensions) dimensionIndex {
	idx := dimensionIndex{
		locations:     make(map[int64]int, len(dims.Locations)),
		symptoms:      make(map[string]int, len(dims.Symptoms)),
		conditions:    make(map[string]int, len(dims.Conditions)),
		races:         make(map[string]int, len(dims.Races)),
		outcomes:      make(map[string]int, len(dims.Outcomes)),
		vaccineStatus: make(map[int64]int, len(dims.VaccineStatus)),
		doses:         make(map[string]int, len(dims.Doses)),
	}

	for _, d := range dims.Locations {
		idx.locations[d.MunicipalityCode] = d.ID
	}
	for _, d := range dims.Symptoms {
		idx.symptoms[d.Name] = d.ID
	}
	for _, d := range dims.Conditions {
		idx.conditions[d.Name] = d.ID
	}
	for _, d := range dims.Races {
		idx.races[d.Description] = d.ID
	}
	for _, d := range dims.Outcomes {
		idx.outcomes[d.Description] = d.ID
	}
	for _, d := range dims.VaccineStatus {
		idx.vaccineStatus[d.Code] = d.ID
	}
	for _, d := range dims.Doses {
		idx.doses[d.Description] = d.ID
	}

	return idx
}

// Assemble строит факт уведомлений и мостовые таблицы
func (a *FactAssembler) Assemble(records []models.Notification, dims models.Dimensions, pairs MultiValuedPairs) (*models.StarSchema, error) {
	idx := newDimensionIndex(dims)
	schema := &models.StarSchema{Dimensions: dims}

	// 1. Основной факт
	schema.Notifications = make([]models.NotificationFact, 0, len(records))
	for _, n := range records {
		schema.Notifications = append(schema.Notifications, buildNotificationFact(n, idx))
	}

	// 2. Мостовые таблицы
	var err error
	schema.Symptoms, err = resolvePairs(pairs.Symptoms, idx.symptoms, "симптом",
		func(id, key int) models.NotificationSymptom {
			return models.NotificationSymptom{NotificationID: id, SymptomID: key}
		})
	if err != nil {
		return nil, err
	}

	schema.Conditions, err = resolvePairs(pairs.Conditions, idx.conditions, "заболевание",
		func(id, key int) models.NotificationCondition {
			return models.NotificationCondition{NotificationID: id, ConditionID: key}
		})
	if err != nil {
		return nil, err
	}

	schema.Doses, err = resolvePairs(pairs.Doses, idx.doses, "доза",
		func(id, key int) models.NotificationDose {
			return models.NotificationDose{NotificationID: id, DoseID: key}
		})
	if err != nil {
		return nil, err
	}

	a.logger.Info("Факты собраны: уведомлений %d, связей с симптомами %d, с заболеваниями %d, с дозами %d",
		len(schema.Notifications), len(schema.Symptoms), len(schema.Conditions), len(schema.Doses))

	return schema, nil
}

func buildNotificationFact(n models.Notification, idx dimensionIndex) models.NotificationFact {
	fact := models.NotificationFact{
		NotificationID: n.ID,
		Sex:            n.Sex,
		HealthWorker:   ParseYesNo(n.HealthWorker),
		SecurityWorker: ParseYesNo(n.SecurityWorker),
		CBO:            n.CBO,

		ResidenceID: lookupCode(idx.locations, n.Residence.MunicipalityCode),
		ReportingID: lookupCode(idx.locations, n.Reporting.MunicipalityCode),
		RaceID:      lookupString(idx.races, n.Race),
		OutcomeID:   lookupString(idx.outcomes, n.Outcome),

		VaccineStatusID: lookupCode(idx.vaccineStatus, n.VaccineStatus),

		NotificationDate: n.NotificationDate,
		SymptomOnsetDate: n.SymptomOnsetDate,
		ClosureDate:      n.ClosureDate,
		Classification:   n.Classification.String,

		VaccineStatusCode: n.VaccineStatus,
		VaccineDoses:      n.VaccineDoses,
		FirstDoseLab:      n.FirstDoseLab,
		FirstDoseDate:     n.FirstDoseDate,
		SecondDoseDate:    n.SecondDoseDate,
		CovidStrategy:     n.CovidStrategy,
	}

	if n.Age.Valid {
		fact.Age = sql.NullInt64{Int64: int64(n.Age.Float64), Valid: true}
	}

	return fact
}

// ParseYesNo: "Sim" -> true, любое другое значение (включая "Não" и NULL) -> false
func ParseYesNo(v sql.NullString) bool {
	return v.Valid && v.String == AnswerYes
}

func lookupCode(index map[int64]int, code sql.NullInt64) sql.NullInt64 {
	if !code.Valid {
		return sql.NullInt64{}
	}
	if id, ok := index[code.Int64]; ok {
		return sql.NullInt64{Int64: int64(id), Valid: true}
	}
	return sql.NullInt64{}
}

func lookupString(index map[string]int, value sql.NullString) sql.NullInt64 {
	if !value.Valid {
		return sql.NullInt64{}
	}
	if id, ok := index[value.String]; ok {
		return sql.NullInt64{Int64: int64(id), Valid: true}
	}
	return sql.NullInt64{}
}

// resolvePairs заменяет значения пар ключами измерения.
// Измерение строится из тех же пар, поэтому отсутствие ключа - ошибка целостности
func resolvePairs[T any](pairs []models.ValuePair, index map[string]int, kind string, build func(id, key int) T) ([]T, error) {
	rows := make([]T, 0, len(pairs))
	for _, p := range pairs {
		key, ok := index[p.Value]
		if !ok {
			return nil, fmt.Errorf("%s %q уведомления %d отсутствует в измерении", kind, p.Value, p.NotificationID)
		}
		rows = append(rows, build(p.NotificationID, key))
	}
	return rows, nil
}
