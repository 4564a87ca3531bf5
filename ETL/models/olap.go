package models

import (
	"database/sql"
)

// LocationDim представляет измерение локализаций (dim_localidades)
type LocationDim struct {
	ID               int
	StateUF          sql.NullString
	StateName        sql.NullString
	StateCode        int
	MunicipalityName sql.NullString
	MunicipalityCode int64
}

// SymptomDim представляет измерение симптомов (dim_sintomas)
type SymptomDim struct {
	ID   int
	Name string
}

// ConditionDim представляет измерение сопутствующих заболеваний (dim_condicoes)
type ConditionDim struct {
	ID   int
	Name string
}

// RaceDim представляет измерение расы/цвета кожи (dim_raca_cor)
type RaceDim struct {
	ID          int
	Description string
}

// OutcomeDim представляет измерение исхода случая (dim_evolucao_caso)
type OutcomeDim struct {
	ID          int
	Description string
}

// VaccineStatusDim представляет измерение статуса вакцинации (dim_status_vacinal)
type VaccineStatusDim struct {
	ID   int
	Code int64
}

// DoseDim представляет измерение доз вакцины (dim_doses)
type DoseDim struct {
	ID          int
	Description string
}

// NotificationFact представляет основной факт уведомления (fato_notificacoes)
type NotificationFact struct {
	NotificationID int

	Sex            sql.NullString
	Age            sql.NullInt64
	HealthWorker   bool
	SecurityWorker bool
	CBO            sql.NullString

	RaceID          sql.NullInt64
	ResidenceID     sql.NullInt64
	ReportingID     sql.NullInt64
	OutcomeID       sql.NullInt64
	VaccineStatusID sql.NullInt64

	NotificationDate sql.NullTime
	SymptomOnsetDate sql.NullTime
	ClosureDate      sql.NullTime
	Classification   string

	VaccineStatusCode sql.NullInt64
	VaccineDoses      sql.NullString
	FirstDoseLab      sql.NullString
	FirstDoseDate     sql.NullTime
	SecondDoseDate    sql.NullTime
	CovidStrategy     sql.NullString
}

// NotificationSymptom - связь уведомление-симптом (fato_notificacao_sintoma)
type NotificationSymptom struct {
	NotificationID int
	SymptomID      int
}

// NotificationCondition - связь уведомление-заболевание (fato_notificacao_condicao)
type NotificationCondition struct {
	NotificationID int
	ConditionID    int
}

// NotificationDose - связь уведомление-доза (fato_notificacao_dose)
type NotificationDose struct {
	NotificationID int
	DoseID         int
}

// TestRecord - отдельный тест, полученный разворотом слотов 1..4 (fato_testes_realizados)
type TestRecord struct {
	ID             int
	NotificationID int
	Slot           int
	TestType       sql.NullInt64
	Manufacturer   sql.NullInt64
	State          sql.NullInt64
	Result         sql.NullInt64
	CollectionDate sql.NullTime
}

// ValuePair - пара (уведомление, атомарное значение) после разбиения многозначного поля
type ValuePair struct {
	NotificationID int
	Value          string
}
