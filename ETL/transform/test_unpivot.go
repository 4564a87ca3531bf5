package transform

import (
	"database/sql"
	"sort"
	"strconv"

	"github.com/LilVoxy/srag_etl/ETL/extractors"
	"github.com/LilVoxy/srag_etl/ETL/models"
)

// longValue - одна непустая ячейка после разворота широкой таблицы в длинную
type longValue struct {
	notificationID int
	variable       string
	value          models.TestValue
}

type testKey struct {
	notificationID int
	slot           int
}

// UnpivotTests сворачивает колонки слотов 1..4 в отдельные записи тестов.
// columns - присутствующие во входном файле колонки слотов
func UnpivotTests(records []models.Notification, columns []string) []models.TestRecord {
	if len(columns) == 0 || len(records) == 0 {
		return []models.TestRecord{}
	}

	// 1-2. Широкие колонки -> пары (переменная, значение), пустые отбрасываются
	var long []longValue
	for _, column := range columns {
		for _, n := range records {
			if v, ok := n.Tests[column]; ok {
				long = append(long, longValue{notificationID: n.ID, variable: column, value: v})
			}
		}
	}

	// 3-4. Имя переменной -> (метрика, слот), сборка по (уведомление, слот) с первым значением
	pivot := make(map[testKey]*models.TestRecord)
	for _, lv := range long {
		metric, slot, ok := splitTestVariable(lv.variable)
		if !ok {
			continue
		}

		key := testKey{notificationID: lv.notificationID, slot: slot}
		record, exists := pivot[key]
		if !exists {
			record = &models.TestRecord{NotificationID: key.notificationID, Slot: slot}
			pivot[key] = record
		}
		setTestMetric(record, metric, lv.value)
	}

	keys := make([]testKey, 0, len(pivot))
	for k := range pivot {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].notificationID != keys[j].notificationID {
			return keys[i].notificationID < keys[j].notificationID
		}
		return keys[i].slot < keys[j].slot
	})

	// 5. Суррогатный ключ id_registro
	result := make([]models.TestRecord, 0, len(keys))
	for i, k := range keys {
		record := *pivot[k]
		record.ID = i + 1
		result = append(result, record)
	}

	return result
}

// splitTestVariable отделяет номер слота (последний символ) от имени метрики
func splitTestVariable(variable string) (string, int, bool) {
	if len(variable) < 2 {
		return "", 0, false
	}
	slot, err := strconv.Atoi(variable[len(variable)-1:])
	if err != nil {
		return "", 0, false
	}
	return variable[:len(variable)-1], slot, true
}

// setTestMetric записывает значение метрики, если оно еще не задано
func setTestMetric(record *models.TestRecord, metric string, value models.TestValue) {
	first := func(target *sql.NullInt64) {
		if !target.Valid {
			*target = sql.NullInt64{Int64: value.Code, Valid: true}
		}
	}

	switch metric {
	case extractors.MetricTestType:
		first(&record.TestType)
	case extractors.MetricManufacturer:
		first(&record.Manufacturer)
	case extractors.MetricTestState:
		first(&record.State)
	case extractors.MetricTestResult:
		first(&record.Result)
	case extractors.MetricCollectDate:
		if !record.CollectionDate.Valid {
			record.CollectionDate = sql.NullTime{Time: value.Date, Valid: true}
		}
	}
}
