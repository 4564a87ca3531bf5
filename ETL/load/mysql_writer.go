package load

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// MySQLWriter добавляет строки в MySQL подготовленным INSERT в одной транзакции на таблицу
type MySQLWriter struct {
	db     *sql.DB
	schema string
}

// NewMySQLWriter создает новый экземпляр MySQLWriter
func NewMySQLWriter(db *sql.DB, schema string) *MySQLWriter {
	return &MySQLWriter{db: db, schema: schema}
}

// InsertQuery строит INSERT для таблицы с плейсхолдерами "?"
func InsertQuery(schema string, table Table) string {
	name := table.Name
	if schema != "" {
		name = schema + "." + name
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(table.Columns)), ", ")

	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", name, strings.Join(table.Columns, ", "), placeholders)
}

// Append вставляет строки таблицы; при первой ошибке транзакция откатывается
func (w *MySQLWriter) Append(ctx context.Context, table Table) (int64, error) {
	if len(table.Rows) == 0 {
		return 0, nil
	}

	// Начинаем транзакцию
	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, errors.Wrap(err, "ошибка при начале транзакции")
	}

	stmt, err := tx.PrepareContext(ctx, InsertQuery(w.schema, table))
	if err != nil {
		tx.Rollback()
		return 0, errors.Wrapf(err, "ошибка при подготовке запроса для %s", table.Name)
	}
	defer stmt.Close()

	var inserted int64
	for i, row := range table.Rows {
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			tx.Rollback()
			return 0, errors.Wrapf(err, "ошибка при вставке строки %d в %s", i+1, table.Name)
		}
		inserted++
	}

	// Фиксируем транзакцию
	if err := tx.Commit(); err != nil {
		return 0, errors.Wrapf(err, "ошибка при фиксации транзакции для %s", table.Name)
	}

	return inserted, nil
}

// Close закрывает подключение
func (w *MySQLWriter) Close() error {
	return w.db.Close()
}
