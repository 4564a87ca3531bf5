package load

import (
	"database/sql/driver"

	"github.com/samber/lo"

	"github.com/LilVoxy/srag_etl/ETL/extractors"
	"github.com/LilVoxy/srag_etl/ETL/models"
)

// Таблицы измерений
const (
	TableLocations     = "dim_localidades"
	TableSymptoms      = "dim_sintomas"
	TableConditions    = "dim_condicoes"
	TableRaces         = "dim_raca_cor"
	TableOutcomes      = "dim_evolucao_caso"
	TableVaccineStatus = "dim_status_vacinal"
	TableDoses         = "dim_doses"
)

// Таблицы фактов
const (
	TableNotifications       = "fato_notificacoes"
	TableNotificationSymptom = "fato_notificacao_sintoma"
	TableNotificationCond    = "fato_notificacao_condicao"
	TableNotificationDose    = "fato_notificacao_dose"
	TableTests               = "fato_testes_realizados"
)

// Table - набор строк для добавления в одну таблицу хранилища
type Table struct {
	Name    string
	Columns []string
	Rows    [][]any
}

// notificationColumn описывает колонку fato_notificacoes.
// source - исходная колонка выгрузки; пустой source означает, что колонка пишется всегда
type notificationColumn struct {
	name   string
	source string
	value  func(f models.NotificationFact) any
}

var notificationColumns = []notificationColumn{
	{"id_notificacao", "", func(f models.NotificationFact) any { return int64(f.NotificationID) }},
	{"sexo", "", func(f models.NotificationFact) any { return nullable(f.Sex) }},
	{"idade", extractors.ColAge, func(f models.NotificationFact) any { return nullable(f.Age) }},
	{"profissional_saude", "", func(f models.NotificationFact) any { return f.HealthWorker }},
	{"profissional_seguranca", "", func(f models.NotificationFact) any { return f.SecurityWorker }},
	{"codigo_cbo", extractors.ColCBO, func(f models.NotificationFact) any { return nullable(f.CBO) }},
	{"fk_raca_cor", "", func(f models.NotificationFact) any { return nullable(f.RaceID) }},
	{"fk_localidade_residencia", "", func(f models.NotificationFact) any { return nullable(f.ResidenceID) }},
	{"fk_localidade_notificacao", "", func(f models.NotificationFact) any { return nullable(f.ReportingID) }},
	{"fk_evolucao_caso", "", func(f models.NotificationFact) any { return nullable(f.OutcomeID) }},
	{"fk_status_vacinal", "", func(f models.NotificationFact) any { return nullable(f.VaccineStatusID) }},
	{"data_notificacao", "", func(f models.NotificationFact) any { return nullable(f.NotificationDate) }},
	{"data_inicio_sintomas", "", func(f models.NotificationFact) any { return nullable(f.SymptomOnsetDate) }},
	{"data_encerramento", extractors.ColClosureDate, func(f models.NotificationFact) any { return nullable(f.ClosureDate) }},
	{"classificacao_final", "", func(f models.NotificationFact) any { return f.Classification }},
	{"codigo_recebeu_vacina", extractors.ColVaccineStatus, func(f models.NotificationFact) any { return nullable(f.VaccineStatusCode) }},
	{"codigo_doses_vacina", extractors.ColVaccineDoses, func(f models.NotificationFact) any { return nullable(f.VaccineDoses) }},
	{"nome_fabricante_vacina", extractors.ColFirstDoseLab, func(f models.NotificationFact) any { return nullable(f.FirstDoseLab) }},
	{"data_primeira_dose", extractors.ColFirstDoseDate, func(f models.NotificationFact) any { return nullable(f.FirstDoseDate) }},
	{"data_segunda_dose", extractors.ColSecondDoseDate, func(f models.NotificationFact) any { return nullable(f.SecondDoseDate) }},
	{"codigo_estrategia_covid", extractors.ColCovidStrategy, func(f models.NotificationFact) any { return nullable(f.CovidStrategy) }},
}

// nullable превращает sql.Null* в значение или nil
func nullable(v driver.Valuer) any {
	value, err := v.Value()
	if err != nil {
		return nil
	}
	return value
}

// DimensionTables возвращает таблицы измерений в порядке загрузки
func DimensionTables(dims models.Dimensions) []Table {
	return []Table{
		{
			Name:    TableLocations,
			Columns: []string{"id_localidade", "estado_uf", "estado_nome", "codigo_ibge_estado", "municipio_nome", "codigo_ibge_municipio"},
			Rows: lo.Map(dims.Locations, func(d models.LocationDim, _ int) []any {
				return []any{int64(d.ID), nullable(d.StateUF), nullable(d.StateName), int64(d.StateCode), nullable(d.MunicipalityName), d.MunicipalityCode}
			}),
		},
		{
			Name:    TableSymptoms,
			Columns: []string{"id_sintoma", "nome_sintoma"},
			Rows: lo.Map(dims.Symptoms, func(d models.SymptomDim, _ int) []any {
				return []any{int64(d.ID), d.Name}
			}),
		},
		{
			Name:    TableConditions,
			Columns: []string{"id_condicao", "nome_condicao"},
			Rows: lo.Map(dims.Conditions, func(d models.ConditionDim, _ int) []any {
				return []any{int64(d.ID), d.Name}
			}),
		},
		{
			Name:    TableRaces,
			Columns: []string{"id_raca_cor", "descricao_raca_cor"},
			Rows: lo.Map(dims.Races, func(d models.RaceDim, _ int) []any {
				return []any{int64(d.ID), d.Description}
			}),
		},
		{
			Name:    TableOutcomes,
			Columns: []string{"id_evolucao", "descricao_evolucao"},
			Rows: lo.Map(dims.Outcomes, func(d models.OutcomeDim, _ int) []any {
				return []any{int64(d.ID), d.Description}
			}),
		},
		{
			Name:    TableVaccineStatus,
			Columns: []string{"id_status_vacinal", "codigo_recebeu_vacina"},
			Rows: lo.Map(dims.VaccineStatus, func(d models.VaccineStatusDim, _ int) []any {
				return []any{int64(d.ID), d.Code}
			}),
		},
		{
			Name:    TableDoses,
			Columns: []string{"id_dose", "descricao_dose"},
			Rows: lo.Map(dims.Doses, func(d models.DoseDim, _ int) []any {
				return []any{int64(d.ID), d.Description}
			}),
		},
	}
}

// FactTables возвращает таблицы фактов в порядке загрузки.
// Необязательные колонки fato_notificacoes пишутся, только если исходная колонка была во входном файле
func FactTables(schema *models.StarSchema) []Table {
	columns := lo.Filter(notificationColumns, func(c notificationColumn, _ int) bool {
		return c.source == "" || schema.Capabilities.Has(c.source)
	})

	notifications := Table{
		Name: TableNotifications,
		Columns: lo.Map(columns, func(c notificationColumn, _ int) string {
			return c.name
		}),
		Rows: lo.Map(schema.Notifications, func(f models.NotificationFact, _ int) []any {
			return lo.Map(columns, func(c notificationColumn, _ int) any {
				return c.value(f)
			})
		}),
	}

	return []Table{
		notifications,
		{
			Name:    TableNotificationSymptom,
			Columns: []string{"fk_notificacao", "fk_sintoma"},
			Rows: lo.Map(schema.Symptoms, func(r models.NotificationSymptom, _ int) []any {
				return []any{int64(r.NotificationID), int64(r.SymptomID)}
			}),
		},
		{
			Name:    TableNotificationCond,
			Columns: []string{"fk_notificacao", "fk_condicao"},
			Rows: lo.Map(schema.Conditions, func(r models.NotificationCondition, _ int) []any {
				return []any{int64(r.NotificationID), int64(r.ConditionID)}
			}),
		},
		{
			Name:    TableNotificationDose,
			Columns: []string{"fk_notificacao", "fk_dose"},
			Rows: lo.Map(schema.Doses, func(r models.NotificationDose, _ int) []any {
				return []any{int64(r.NotificationID), int64(r.DoseID)}
			}),
		},
		{
			Name: TableTests,
			Columns: []string{
				"id_registro", "fk_notificacao", "numero_teste", "fk_tipo_teste", "fk_fabricante",
				"codigo_estado_teste", "codigo_resultado_teste", "data_coleta",
			},
			Rows: lo.Map(schema.Tests, func(r models.TestRecord, _ int) []any {
				return []any{
					int64(r.ID), int64(r.NotificationID), int64(r.Slot),
					nullable(r.TestType), nullable(r.Manufacturer), nullable(r.State),
					nullable(r.Result), nullable(r.CollectionDate),
				}
			}),
		},
	}
}
