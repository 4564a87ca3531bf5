package extractors

import (
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/LilVoxy/srag_etl/ETL/models"
	"github.com/LilVoxy/srag_etl/ETL/utils"
	"github.com/samber/lo"
	"github.com/spf13/afero"
)

var (
	// ErrInputNotFound возвращается, если входной файл не существует
	ErrInputNotFound = errors.New("входной файл не найден")

	// ErrSchema возвращается, если во входном файле нет обязательных колонок
	ErrSchema = errors.New("во входном файле отсутствуют обязательные колонки")
)

// Extractor читает выгрузку уведомлений и приводит ее к типизированным записям
type Extractor struct {
	fs     afero.Fs
	logger *utils.ETLLogger
}

// NewExtractor создает новый экземпляр Extractor
func NewExtractor(fs afero.Fs, logger *utils.ETLLogger) *Extractor {
	return &Extractor{
		fs:     fs,
		logger: logger,
	}
}

// Extract выполняет фазу извлечения: чтение CSV, удаление лишних колонок,
// разбор дат, согласование схемы и присвоение id_notificacao
func (e *Extractor) Extract(path string) (*models.ExtractedData, error) {
	startTime := time.Now()
	e.logger.LogExtractStart(path)

	// 1. Чтение файла
	table, err := e.readTable(path)
	if err != nil {
		return nil, err
	}

	// 2. Удаление нерелевантных колонок
	dropped := table.DropColumns(DroppedColumns)

	// 3. Разбор колонок-дат
	dateColumns := e.parseDateColumns(table)
	e.logger.Debug("Колонки дат: %v", dateColumns)

	// 4. Согласование схемы
	capabilities := models.NewCapabilities(ExpectedColumns, ExpectedTestColumns(), table.Columns)
	missingRequired := lo.Filter(RequiredColumns, func(c string, _ int) bool {
		return !capabilities.Has(c)
	})
	if len(missingRequired) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrSchema, strings.Join(missingRequired, ", "))
	}
	if missing := capabilities.Missing(); len(missing) > 0 {
		e.logger.Warn("Необязательные колонки отсутствуют и будут пропущены: %v", missing)
	}

	// 5. Преобразование строк в записи
	notifications := make([]models.Notification, 0, len(table.Rows))
	for i := range table.Rows {
		notifications = append(notifications, mapNotification(table, i, capabilities))
	}

	e.logger.LogExtractComplete(len(table.Rows), dropped, time.Since(startTime))

	return &models.ExtractedData{
		SourcePath:     path,
		RowsRead:       len(table.Rows),
		DroppedColumns: dropped,
		Capabilities:   capabilities,
		Notifications:  notifications,
	}, nil
}

// readTable читает CSV целиком; первая строка - заголовок
func (e *Extractor) readTable(path string) (*models.RawTable, error) {
	file, err := e.fs.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrInputNotFound, path)
		}
		return nil, fmt.Errorf("ошибка открытия файла %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return models.NewRawTable(nil, nil), nil
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения заголовка %s: %w", path, err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ошибка чтения строки %d файла %s: %w", len(rows)+2, path, err)
		}
		rows = append(rows, record)

		if len(rows)%100000 == 0 {
			e.logger.Debug("Прочитано %d строк...", len(rows))
		}
	}

	return models.NewRawTable(header, rows), nil
}

// parseDateColumns разбирает все колонки, в имени которых есть маркер даты
func (e *Extractor) parseDateColumns(table *models.RawTable) []string {
	var dateColumns []string
	for _, column := range table.Columns {
		if !strings.Contains(strings.ToLower(column), DateMarker) {
			continue
		}
		dateColumns = append(dateColumns, column)

		values := make([]sql.NullTime, len(table.Rows))
		invalid := 0
		for i := range table.Rows {
			raw, ok := table.Cell(i, column)
			if !ok {
				continue
			}
			values[i] = ParseDayFirstDate(raw)
			if !values[i].Valid {
				invalid++
			}
		}
		table.DateColumns[column] = values

		if invalid > 0 {
			e.logger.Debug("Колонка %s: %d нераспознанных дат заменены на NULL", column, invalid)
		}
	}
	return dateColumns
}

// mapNotification собирает типизированную запись из строки таблицы
func mapNotification(table *models.RawTable, row int, caps models.Capabilities) models.Notification {
	text := func(column string) sql.NullString {
		return Text(table.Cell(row, column))
	}
	code := func(column string) sql.NullInt64 {
		raw, _ := table.Cell(row, column)
		return ParseCode(raw)
	}

	n := models.Notification{
		ID: row + 1,
		Residence: models.PlaceColumns{
			StateName:        text(ColState),
			StateUF:          text(ColStateUF),
			MunicipalityName: text(ColMunicipality),
			MunicipalityCode: code(ColMunicipalityCode),
		},
		Reporting: models.PlaceColumns{
			StateName:        text(ColReportState),
			StateUF:          text(ColReportStateUF),
			MunicipalityName: text(ColReportMunicipality),
			MunicipalityCode: code(ColReportMunicipalityCode),
		},
		Sex:              text(ColSex),
		Race:             text(ColRace),
		HealthWorker:     text(ColHealthWorker),
		SecurityWorker:   text(ColSecurityWorker),
		CBO:              text(ColCBO),
		Outcome:          text(ColOutcome),
		Classification:   text(ColClassification),
		NotificationDate: table.Date(row, ColNotificationDate),
		SymptomOnsetDate: table.Date(row, ColSymptomOnsetDate),
		ClosureDate:      table.Date(row, ColClosureDate),
		FirstDoseDate:    table.Date(row, ColFirstDoseDate),
		SecondDoseDate:   table.Date(row, ColSecondDoseDate),
		Symptoms:         text(ColSymptoms),
		Conditions:       text(ColConditions),
		VaccineStatus:    code(ColVaccineStatus),
		VaccineDoses:     text(ColVaccineDoses),
		FirstDoseLab:     text(ColFirstDoseLab),
		CovidStrategy:    text(ColCovidStrategy),
		Tests:            make(map[string]models.TestValue),
	}

	raw, _ := table.Cell(row, ColAge)
	n.Age = ParseNumber(raw)

	for _, column := range caps.TestColumns() {
		if strings.HasPrefix(column, MetricCollectDate) {
			if d := table.Date(row, column); d.Valid {
				n.Tests[column] = models.TestValue{Date: d.Time}
			}
			continue
		}
		if c := code(column); c.Valid {
			n.Tests[column] = models.TestValue{Code: c.Int64}
		}
	}

	return n
}
