package load

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"github.com/LilVoxy/srag_etl/ETL/config"
)

// TableWriter добавляет строки в таблицы хранилища
type TableWriter interface {
	// Append добавляет строки таблицы и возвращает число записанных строк
	Append(ctx context.Context, table Table) (int64, error)

	// Close освобождает подключение
	Close() error
}

// NewTableWriter открывает подключение к хранилищу согласно драйверу из конфигурации
func NewTableWriter(ctx context.Context, cfg config.DatabaseConfig) (TableWriter, error) {
	switch cfg.Driver {
	case config.DriverPostgres, "":
		pool, err := pgxpool.New(ctx, cfg.ToPoolURI())
		if err != nil {
			return nil, errors.Wrap(err, "ошибка при создании пула PostgreSQL")
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, errors.Wrap(err, "ошибка при подключении к PostgreSQL")
		}
		return NewPostgresWriter(pool, cfg.Schema), nil

	case config.DriverMySQL:
		db, err := sql.Open("mysql", cfg.ToMySQLDSN())
		if err != nil {
			return nil, errors.Wrap(err, "ошибка при открытии подключения к MySQL")
		}
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, errors.Wrap(err, "ошибка при подключении к MySQL")
		}
		return NewMySQLWriter(db, cfg.Schema), nil

	default:
		return nil, fmt.Errorf("неизвестный драйвер хранилища %q", cfg.Driver)
	}
}
