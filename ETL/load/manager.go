package load

import (
	"context"
	"fmt"
	"time"

	"github.com/LilVoxy/srag_etl/ETL/models"
	"github.com/LilVoxy/srag_etl/ETL/utils"
)

// LoadManager отвечает за загрузку звездной схемы в хранилище
type LoadManager struct {
	writer TableWriter
	logger *utils.ETLLogger
}

// LoadResult - число строк, добавленных в каждую таблицу
type LoadResult map[string]int64

// NewLoadManager создает новый экземпляр LoadManager
func NewLoadManager(writer TableWriter, logger *utils.ETLLogger) *LoadManager {
	return &LoadManager{
		writer: writer,
		logger: logger,
	}
}

// Load выполняет фазу загрузки: сначала все измерения, затем все факты.
// Первая ошибка прерывает загрузку; уже добавленные таблицы не откатываются
func (m *LoadManager) Load(ctx context.Context, schema *models.StarSchema) (LoadResult, error) {
	startTime := time.Now()
	m.logger.Info("Начало фазы Load (Загрузка данных)")

	result := make(LoadResult)

	// 1. Измерения
	m.logger.Info("Загрузка измерений...")
	if err := m.appendAll(ctx, DimensionTables(schema.Dimensions), result); err != nil {
		return result, err
	}

	// 2. Факты и мостовые таблицы
	m.logger.Info("Загрузка фактов...")
	if err := m.appendAll(ctx, FactTables(schema), result); err != nil {
		return result, err
	}

	m.logger.Info("Фаза Load завершена. Длительность: %v", time.Since(startTime))
	return result, nil
}

func (m *LoadManager) appendAll(ctx context.Context, tables []Table, result LoadResult) error {
	for _, table := range tables {
		if len(table.Rows) == 0 {
			m.logger.Debug("Нет данных для загрузки в %s", table.Name)
			continue
		}

		tableStart := time.Now()
		n, err := m.writer.Append(ctx, table)
		if err != nil {
			m.logger.Error("Ошибка при загрузке %s: %v", table.Name, err)
			return fmt.Errorf("ошибка при загрузке %s: %w", table.Name, err)
		}

		result[table.Name] = n
		m.logger.Info("Загрузка %s завершена. Загружено записей: %d. Длительность: %v", table.Name, n, time.Since(tableStart))
	}
	return nil
}
