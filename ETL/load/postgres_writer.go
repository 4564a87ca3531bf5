package load

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
)

// copyPool - часть pgxpool.Pool, нужная для COPY
type copyPool interface {
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
	Close()
}

// PostgresWriter добавляет строки в PostgreSQL через COPY
type PostgresWriter struct {
	pool   copyPool
	schema string
}

// NewPostgresWriter создает новый экземпляр PostgresWriter
func NewPostgresWriter(pool copyPool, schema string) *PostgresWriter {
	return &PostgresWriter{pool: pool, schema: schema}
}

// Append копирует строки таблицы в schema.table
func (w *PostgresWriter) Append(ctx context.Context, table Table) (int64, error) {
	if len(table.Rows) == 0 {
		return 0, nil
	}

	identifier := pgx.Identifier{table.Name}
	if w.schema != "" {
		identifier = pgx.Identifier{w.schema, table.Name}
	}

	n, err := w.pool.CopyFrom(ctx, identifier, table.Columns, pgx.CopyFromRows(table.Rows))
	if err != nil {
		return n, errors.Wrapf(err, "ошибка COPY в %s", identifier.Sanitize())
	}
	return n, nil
}

// Close закрывает пул соединений
func (w *PostgresWriter) Close() error {
	w.pool.Close()
	return nil
}
