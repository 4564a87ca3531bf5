package models

import (
	"database/sql"
	"sort"
	"time"
)

// RawTable представляет выгрузку e-SUS в том виде, в котором она прочитана из CSV
// (после удаления нерелевантных колонок)
type RawTable struct {
	Columns []string
	Rows    [][]string

	// Разобранные значения колонок-дат: имя колонки -> значение по номеру строки
	DateColumns map[string][]sql.NullTime

	index map[string]int
}

// NewRawTable создает таблицу и строит индекс колонок
func NewRawTable(columns []string, rows [][]string) *RawTable {
	t := &RawTable{
		Columns:     columns,
		Rows:        rows,
		DateColumns: make(map[string][]sql.NullTime),
	}
	t.reindex()
	return t
}

func (t *RawTable) reindex() {
	t.index = make(map[string]int, len(t.Columns))
	for i, c := range t.Columns {
		t.index[c] = i
	}
}

// HasColumn проверяет наличие колонки в таблице
func (t *RawTable) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// DropColumns удаляет перечисленные колонки; отсутствующие игнорируются.
// Возвращает список реально удаленных колонок
func (t *RawTable) DropColumns(names []string) []string {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		if t.HasColumn(n) {
			drop[n] = true
		}
	}
	if len(drop) == 0 {
		return nil
	}

	keep := make([]int, 0, len(t.Columns))
	columns := make([]string, 0, len(t.Columns))
	dropped := make([]string, 0, len(drop))
	for i, c := range t.Columns {
		if drop[c] {
			dropped = append(dropped, c)
			continue
		}
		keep = append(keep, i)
		columns = append(columns, c)
	}

	for r, row := range t.Rows {
		newRow := make([]string, 0, len(keep))
		for _, i := range keep {
			if i < len(row) {
				newRow = append(newRow, row[i])
			} else {
				newRow = append(newRow, "")
			}
		}
		t.Rows[r] = newRow
	}

	for _, c := range dropped {
		delete(t.DateColumns, c)
	}

	t.Columns = columns
	t.reindex()
	return dropped
}

// Cell возвращает значение ячейки; ok=false для отсутствующей колонки или пустой ячейки
func (t *RawTable) Cell(row int, column string) (string, bool) {
	i, exists := t.index[column]
	if !exists || row >= len(t.Rows) || i >= len(t.Rows[row]) {
		return "", false
	}
	v := t.Rows[row][i]
	if v == "" {
		return "", false
	}
	return v, true
}

// Date возвращает разобранную дату ячейки
func (t *RawTable) Date(row int, column string) sql.NullTime {
	values, ok := t.DateColumns[column]
	if !ok || row >= len(values) {
		return sql.NullTime{}
	}
	return values[row]
}

// Capabilities описывает, какие из ожидаемых колонок присутствуют во входном файле.
// Вычисляется один раз на границе Extract и используется всеми последующими стадиями
type Capabilities struct {
	present     map[string]bool
	missing     []string
	testColumns []string
}

// NewCapabilities сопоставляет ожидаемые колонки с фактическим заголовком
func NewCapabilities(expected []string, expectedTests []string, header []string) Capabilities {
	got := make(map[string]bool, len(header))
	for _, h := range header {
		got[h] = true
	}

	c := Capabilities{present: make(map[string]bool)}
	for _, e := range expected {
		if got[e] {
			c.present[e] = true
		} else {
			c.missing = append(c.missing, e)
		}
	}
	for _, e := range expectedTests {
		if got[e] {
			c.present[e] = true
			c.testColumns = append(c.testColumns, e)
		}
	}
	sort.Strings(c.missing)
	return c
}

// Has сообщает, присутствует ли колонка во входных данных
func (c Capabilities) Has(column string) bool {
	return c.present[column]
}

// TestColumns возвращает присутствующие колонки слотов тестов
func (c Capabilities) TestColumns() []string {
	return c.testColumns
}

// Missing возвращает отсутствующие ожидаемые колонки
func (c Capabilities) Missing() []string {
	return c.missing
}

// PlaceColumns - четверка колонок локализации (место проживания или место уведомления)
type PlaceColumns struct {
	StateName        sql.NullString
	StateUF          sql.NullString
	MunicipalityName sql.NullString
	MunicipalityCode sql.NullInt64
}

// TestValue - непустое значение одной ячейки слота теста.
// Для dataColetaTeste заполнено Date, для остальных метрик - Code
type TestValue struct {
	Code int64
	Date time.Time
}

// Notification - одно уведомление о случае (исходная и очищенная запись)
type Notification struct {
	ID int

	Residence PlaceColumns
	Reporting PlaceColumns

	Sex            sql.NullString
	Age            sql.NullFloat64
	Race           sql.NullString
	HealthWorker   sql.NullString
	SecurityWorker sql.NullString
	CBO            sql.NullString
	Outcome        sql.NullString
	Classification sql.NullString

	NotificationDate sql.NullTime
	SymptomOnsetDate sql.NullTime
	ClosureDate      sql.NullTime
	FirstDoseDate    sql.NullTime
	SecondDoseDate   sql.NullTime

	Symptoms   sql.NullString
	Conditions sql.NullString

	VaccineStatus sql.NullInt64
	VaccineDoses  sql.NullString
	FirstDoseLab  sql.NullString
	CovidStrategy sql.NullString

	// Заполненные ячейки слотов тестов, ключ - имя широкой колонки (например codigoTipoTeste2)
	Tests map[string]TestValue
}

// ExtractedData содержит результат фазы Extract
type ExtractedData struct {
	SourcePath     string
	RowsRead       int
	DroppedColumns []string
	Capabilities   Capabilities
	Notifications  []Notification
}
