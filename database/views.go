// database/views.go
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/LilVoxy/srag_etl/ETL/config"
)

// Представления, которые читает сервер аналитики
const (
	ViewCasesByMunicipality  = "vw_casos_por_municipio"
	ViewVaccinationByOutcome = "vw_vacinacao_por_resultado"
	ViewFrequentSymptoms     = "vw_sintomas_frequentes"
	ViewEpidemiologicProfile = "vw_perfil_epidemiologico"
	ViewTestsByLaboratory    = "vw_testes_por_laboratorio"
	TableMunicipalIndicators = "indicadores_municipais"
)

// CaseCount - строка vw_casos_por_municipio
type CaseCount struct {
	StateUF          string    `db:"estado_uf" json:"estado_uf"`
	Municipality     string    `db:"municipio_nome" json:"municipio_nome"`
	NotificationDate time.Time `db:"data_notificacao" json:"data_notificacao"`
	Total            int64     `db:"total_notificacoes" json:"total_notificacoes"`
	Confirmed        int64     `db:"casos_confirmados" json:"casos_confirmados"`
	Discarded        int64     `db:"casos_descartados" json:"casos_descartados"`
	Deaths           int64     `db:"obitos" json:"obitos"`
}

// VaccinationCount - строка vw_vacinacao_por_resultado
type VaccinationCount struct {
	VaccineStatus  string `db:"status_vacinal" json:"status_vacinal"`
	Classification string `db:"classificacao_final" json:"classificacao_final"`
	Total          int64  `db:"total_casos" json:"total_casos"`
}

// SymptomFrequency - строка vw_sintomas_frequentes
type SymptomFrequency struct {
	Name             string  `db:"nome_sintoma" json:"nome_sintoma"`
	Occurrences      int64   `db:"total_ocorrencias" json:"total_ocorrencias"`
	ConfirmedPercent float64 `db:"percentual_casos_confirmados" json:"percentual_casos_confirmados"`
}

// Repository читает агрегированные представления
type Repository struct {
	db    *sqlx.DB
	store config.DatabaseConfig
}

// NewRepository создает новый экземпляр Repository
func NewRepository(db *sqlx.DB, store config.DatabaseConfig) *Repository {
	return &Repository{db: db, store: store}
}

func (r *Repository) qualified(name string) string {
	return r.store.QualifiedTable(name)
}

// CasesQuery возвращает запрос к vw_casos_por_municipio
func (r *Repository) CasesQuery() string {
	return fmt.Sprintf(`SELECT COALESCE(estado_uf, '') AS estado_uf, COALESCE(municipio_nome, '') AS municipio_nome,
		data_notificacao, total_notificacoes, casos_confirmados, casos_descartados, obitos
		FROM %s ORDER BY data_notificacao`, r.qualified(ViewCasesByMunicipality))
}

// VaccinationQuery возвращает запрос к vw_vacinacao_por_resultado
func (r *Repository) VaccinationQuery() string {
	return fmt.Sprintf(`SELECT COALESCE(status_vacinal, '') AS status_vacinal, COALESCE(classificacao_final, '') AS classificacao_final,
		total_casos FROM %s`, r.qualified(ViewVaccinationByOutcome))
}

// SymptomsQuery возвращает запрос к vw_sintomas_frequentes
func (r *Repository) SymptomsQuery() string {
	return fmt.Sprintf(`SELECT nome_sintoma, total_ocorrencias, COALESCE(percentual_casos_confirmados, 0) AS percentual_casos_confirmados
		FROM %s ORDER BY total_ocorrencias DESC`, r.qualified(ViewFrequentSymptoms))
}

// CasesByMunicipality возвращает число случаев по муниципалитетам и дням
func (r *Repository) CasesByMunicipality(ctx context.Context) ([]CaseCount, error) {
	var rows []CaseCount
	if err := r.db.SelectContext(ctx, &rows, r.CasesQuery()); err != nil {
		return nil, errors.Wrapf(err, "ошибка чтения %s", ViewCasesByMunicipality)
	}
	return rows, nil
}

// VaccinationByOutcome возвращает число случаев по статусу вакцинации и классификации
func (r *Repository) VaccinationByOutcome(ctx context.Context) ([]VaccinationCount, error) {
	var rows []VaccinationCount
	if err := r.db.SelectContext(ctx, &rows, r.VaccinationQuery()); err != nil {
		return nil, errors.Wrapf(err, "ошибка чтения %s", ViewVaccinationByOutcome)
	}
	return rows, nil
}

// FrequentSymptoms возвращает частоту симптомов, по убыванию
func (r *Repository) FrequentSymptoms(ctx context.Context) ([]SymptomFrequency, error) {
	var rows []SymptomFrequency
	if err := r.db.SelectContext(ctx, &rows, r.SymptomsQuery()); err != nil {
		return nil, errors.Wrapf(err, "ошибка чтения %s", ViewFrequentSymptoms)
	}
	return rows, nil
}

// Generic читает представление с заранее неизвестным набором колонок
func (r *Repository) Generic(ctx context.Context, name string) ([]map[string]any, error) {
	rows, err := r.db.QueryxContext(ctx, "SELECT * FROM "+r.qualified(name))
	if err != nil {
		return nil, errors.Wrapf(err, "ошибка чтения %s", name)
	}
	defer rows.Close()

	result := []map[string]any{}
	for rows.Next() {
		row := make(map[string]any)
		if err := rows.MapScan(row); err != nil {
			return nil, errors.Wrapf(err, "ошибка разбора строки %s", name)
		}
		for k, v := range row {
			if b, ok := v.([]byte); ok {
				row[k] = string(b)
			}
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrapf(err, "ошибка итерации по %s", name)
	}
	return result, nil
}
