// database/db.go
package database

import (
	"context"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/LilVoxy/srag_etl/ETL/config"
)

// Open открывает подключение к хранилищу только для чтения представлений
func Open(ctx context.Context, cfg config.DatabaseConfig) (*sqlx.DB, error) {
	driverName, dsn := cfg.SQLDriver()

	db, err := sqlx.Open(driverName, dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "не удалось открыть подключение %s", driverName)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "хранилище недоступно")
	}

	return db, nil
}
