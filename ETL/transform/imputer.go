package transform

import (
	"database/sql"
	"math"
	"sort"
	"time"

	"github.com/LilVoxy/srag_etl/ETL/extractors"
	"github.com/LilVoxy/srag_etl/ETL/models"
	"github.com/LilVoxy/srag_etl/ETL/utils"
)

// Значения, которыми заполняются пропуски
const (
	ClassificationConfirmedLab = "Confirmado Laboratorial"
	ClassificationDiscarded    = "Descartado"
	ClassificationSuspect      = "Suspeito"

	SexUnknown      = "IGNORADO"
	RaceNotInformed = "NAO INFORMADO"
	OutcomeOpen     = "EM ABERTO"
)

// Коды результата теста
const (
	ResultPositive = 1
	ResultNegative = 2
)

const oneDay = 24 * time.Hour

// Imputer заполняет пропуски по бизнес-правилам и исправляет несогласованные даты
type Imputer struct {
	logger *utils.ETLLogger
}

// NewImputer создает новый экземпляр Imputer
func NewImputer(logger *utils.ETLLogger) *Imputer {
	return &Imputer{logger: logger}
}

// Impute возвращает очищенную копию записей. Записи без даты уведомления
// исключаются, так как для них невозможно восстановить остальные даты
func (p *Imputer) Impute(records []models.Notification, caps models.Capabilities) []models.Notification {
	p.logger.Debug("Заполнение пропусков для %d записей...", len(records))

	cleaned := make([]models.Notification, len(records))
	copy(cleaned, records)

	p.imputeClassification(cleaned)
	p.repairDates(cleaned)

	if caps.Has(extractors.ColAge) {
		p.imputeAge(cleaned)
	}

	for i := range cleaned {
		cleaned[i].Sex = fillString(cleaned[i].Sex, SexUnknown)
		cleaned[i].Race = fillString(cleaned[i].Race, RaceNotInformed)
		cleaned[i].Outcome = fillString(cleaned[i].Outcome, OutcomeOpen)
	}

	result := cleaned[:0]
	for _, n := range cleaned {
		if n.NotificationDate.Valid {
			result = append(result, n)
		}
	}
	if dropped := len(records) - len(result); dropped > 0 {
		p.logger.Warn("Исключено %d записей без даты уведомления", dropped)
	}

	p.logger.Info("Заполнение пропусков завершено. Записей: %d", len(result))
	return result
}

// imputeClassification: положительный тест 1 -> подтвержден, отрицательный -> отброшен, иначе подозрение.
// Правила применяются по очереди, каждое только к еще пустым значениям
func (p *Imputer) imputeClassification(records []models.Notification) {
	firstResult := extractors.TestColumnName(extractors.MetricTestResult, 1)

	byFirstResult := func(code int64, value string) {
		for i := range records {
			if records[i].Classification.Valid {
				continue
			}
			if v, ok := records[i].Tests[firstResult]; ok && v.Code == code {
				records[i].Classification = sql.NullString{String: value, Valid: true}
			}
		}
	}

	byFirstResult(ResultPositive, ClassificationConfirmedLab)
	byFirstResult(ResultNegative, ClassificationDiscarded)

	for i := range records {
		records[i].Classification = fillString(records[i].Classification, ClassificationSuspect)
	}
}

// repairDates восстанавливает дату начала симптомов и отбрасывает некорректную дату закрытия
func (p *Imputer) repairDates(records []models.Notification) {
	fixedOnset, droppedClosure := 0, 0

	for i := range records {
		n := &records[i]
		if !n.NotificationDate.Valid {
			continue
		}
		notified := n.NotificationDate.Time

		if !n.SymptomOnsetDate.Valid {
			n.SymptomOnsetDate = sql.NullTime{Time: notified.Add(-oneDay), Valid: true}
		}
		if n.SymptomOnsetDate.Time.After(notified) {
			n.SymptomOnsetDate.Time = notified
			fixedOnset++
		}

		if n.ClosureDate.Valid && n.ClosureDate.Time.Before(notified) {
			n.ClosureDate = sql.NullTime{}
			droppedClosure++
		}
	}

	if fixedOnset > 0 || droppedClosure > 0 {
		p.logger.Debug("Исправлено дат начала симптомов: %d, отброшено дат закрытия: %d", fixedOnset, droppedClosure)
	}
}

// imputeAge заполняет возраст медианой по всему пакету и приводит к целому
func (p *Imputer) imputeAge(records []models.Notification) {
	median := medianAge(records)
	p.logger.Debug("Медиана возраста: %.1f", median)

	for i := range records {
		if !records[i].Age.Valid {
			records[i].Age = sql.NullFloat64{Float64: median, Valid: true}
		}
		records[i].Age.Float64 = math.Trunc(records[i].Age.Float64)
	}
}

func medianAge(records []models.Notification) float64 {
	ages := make([]float64, 0, len(records))
	for _, n := range records {
		if n.Age.Valid {
			ages = append(ages, n.Age.Float64)
		}
	}
	if len(ages) == 0 {
		return 0
	}

	sort.Float64s(ages)
	mid := len(ages) / 2
	if len(ages)%2 == 1 {
		return ages[mid]
	}
	return (ages[mid-1] + ages[mid]) / 2
}

func fillString(v sql.NullString, fallback string) sql.NullString {
	if v.Valid {
		return v
	}
	return sql.NullString{String: fallback, Valid: true}
}
