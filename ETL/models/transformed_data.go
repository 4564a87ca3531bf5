package models

// Dimensions содержит все таблицы измерений одного запуска
type Dimensions struct {
	Locations     []LocationDim
	Symptoms      []SymptomDim
	Conditions    []ConditionDim
	Races         []RaceDim
	Outcomes      []OutcomeDim
	VaccineStatus []VaccineStatusDim
	Doses         []DoseDim
}

// StarSchema содержит трансформированные данные для загрузки в хранилище
type StarSchema struct {
	// Измерения
	Dimensions Dimensions

	// Факты
	Notifications []NotificationFact
	Symptoms      []NotificationSymptom
	Conditions    []NotificationCondition
	Doses         []NotificationDose
	Tests         []TestRecord

	// Какие необязательные колонки были во входном файле
	Capabilities Capabilities
}
