package extractors

import (
	"database/sql"
	"math"
	"strconv"
	"strings"
	"time"
)

// Форматы дат по убыванию приоритета: сначала день-месяц-год, затем ISO
var dayFirstFormats = []string{
	"02/01/2006",
	"02/01/2006 15:04",
	"02/01/2006 15:04:05",
	"2/1/2006",
	"02-01-2006",
	"02-01-2006 15:04:05",
	"02.01.2006",
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05.000Z07:00",
	"2006-01-02 15:04:05.000000",
	"2006-01-02T15:04:05.000000Z07:00",
}

// ParseDayFirstDate разбирает дату, считая, что день идет перед месяцем.
// Результат приводится к календарной дате в UTC; нераспознанное значение - NULL
func ParseDayFirstDate(input string) sql.NullTime {
	input = strings.TrimSpace(input)
	if input == "" {
		return sql.NullTime{}
	}

	for _, format := range dayFirstFormats {
		t, err := time.Parse(format, input)
		if err == nil {
			y, m, d := t.Date()
			return sql.NullTime{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), Valid: true}
		}
	}

	return sql.NullTime{}
}

// ParseCode разбирает числовой код ("3550308", "3550308.0"); иначе NULL
func ParseCode(input string) sql.NullInt64 {
	input = strings.TrimSpace(input)
	if input == "" {
		return sql.NullInt64{}
	}

	if v, err := strconv.ParseInt(input, 10, 64); err == nil {
		return sql.NullInt64{Int64: v, Valid: true}
	}

	f, err := strconv.ParseFloat(input, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(f), Valid: true}
}

// ParseNumber разбирает дробное число; иначе NULL
func ParseNumber(input string) sql.NullFloat64 {
	input = strings.TrimSpace(input)
	if input == "" {
		return sql.NullFloat64{}
	}

	f, err := strconv.ParseFloat(input, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: f, Valid: true}
}

// Text возвращает строковое значение или NULL для пустой ячейки
func Text(input string, ok bool) sql.NullString {
	if !ok {
		return sql.NullString{}
	}
	return sql.NullString{String: input, Valid: true}
}
