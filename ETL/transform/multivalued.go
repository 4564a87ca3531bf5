package transform

import (
	"database/sql"
	"strings"

	"github.com/LilVoxy/srag_etl/ETL/models"
)

// MultiValueSeparator - разделитель значений в полях sintomas, condicoes, codigoDosesVacina
const MultiValueSeparator = ", "

// Field извлекает многозначное текстовое поле из записи
type Field func(n models.Notification) sql.NullString

// Многозначные поля уведомления
var (
	SymptomsField   Field = func(n models.Notification) sql.NullString { return n.Symptoms }
	ConditionsField Field = func(n models.Notification) sql.NullString { return n.Conditions }
	DosesField      Field = func(n models.Notification) sql.NullString { return n.VaccineDoses }
)

// SplitMultiValued разбивает поле на пары (уведомление, значение).
// Пустые поля пропускаются, фрагменты обрезаются по пробелам, дубликаты пар удаляются.
// Пустые фрагменты (", , " или завершающий разделитель) сохраняются как есть
func SplitMultiValued(records []models.Notification, field Field) []models.ValuePair {
	type key struct {
		id    int
		value string
	}

	seen := make(map[key]bool)
	var pairs []models.ValuePair

	for _, n := range records {
		source := field(n)
		if !source.Valid {
			continue
		}

		for _, fragment := range strings.Split(source.String, MultiValueSeparator) {
			k := key{id: n.ID, value: strings.TrimSpace(fragment)}
			if seen[k] {
				continue
			}
			seen[k] = true
			pairs = append(pairs, models.ValuePair{NotificationID: k.id, Value: k.value})
		}
	}

	return pairs
}
