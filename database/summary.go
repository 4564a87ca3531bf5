// database/summary.go
package database

import (
	"sort"
	"time"

	"github.com/samber/lo"
)

// Summary - основные показатели по отфильтрованным случаям
type Summary struct {
	Total      int64   `json:"total_notificacoes"`
	Confirmed  int64   `json:"casos_confirmados"`
	Discarded  int64   `json:"casos_descartados"`
	Deaths     int64   `json:"obitos"`
	Positivity float64 `json:"taxa_positividade"`
	Lethality  float64 `json:"taxa_letalidade"`
}

// DailyPoint - число подтвержденных случаев за день
type DailyPoint struct {
	Date      time.Time `json:"data_notificacao"`
	Confirmed int64     `json:"casos_confirmados"`
}

// FilterByState оставляет строки одного штата; пустой uf означает все штаты
func FilterByState(cases []CaseCount, uf string) []CaseCount {
	if uf == "" {
		return cases
	}
	return lo.Filter(cases, func(c CaseCount, _ int) bool {
		return c.StateUF == uf
	})
}

// Summarize считает итоги, положительность (подтвержденные среди закрытых результатов)
// и летальность (смерти среди всех уведомлений) в процентах
func Summarize(cases []CaseCount) Summary {
	var s Summary
	for _, c := range cases {
		s.Total += c.Total
		s.Confirmed += c.Confirmed
		s.Discarded += c.Discarded
		s.Deaths += c.Deaths
	}

	if decided := s.Confirmed + s.Discarded; decided > 0 {
		s.Positivity = float64(s.Confirmed) / float64(decided) * 100
	}
	if s.Total > 0 {
		s.Lethality = float64(s.Deaths) / float64(s.Total) * 100
	}
	return s
}

// DailyConfirmed суммирует подтвержденные случаи по дате уведомления
func DailyConfirmed(cases []CaseCount) []DailyPoint {
	byDay := make(map[time.Time]int64)
	for _, c := range cases {
		byDay[c.NotificationDate] += c.Confirmed
	}

	series := make([]DailyPoint, 0, len(byDay))
	for d, n := range byDay {
		series = append(series, DailyPoint{Date: d, Confirmed: n})
	}
	sort.Slice(series, func(i, j int) bool {
		return series[i].Date.Before(series[j].Date)
	})
	return series
}

// States возвращает список штатов в порядке первого появления
func States(cases []CaseCount) []string {
	states := lo.Uniq(lo.Map(cases, func(c CaseCount, _ int) string {
		return c.StateUF
	}))
	return lo.Filter(states, func(uf string, _ int) bool {
		return uf != ""
	})
}

// TopSymptoms возвращает не более limit самых частых симптомов
func TopSymptoms(symptoms []SymptomFrequency, limit int) []SymptomFrequency {
	sorted := make([]SymptomFrequency, len(symptoms))
	copy(sorted, symptoms)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Occurrences > sorted[j].Occurrences
	})

	if limit >= 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}
