package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
)

// ToPostgresURI возвращает строку подключения к PostgreSQL
func (c DatabaseConfig) ToPostgresURI() string {
	sslMode := c.SslMode
	if sslMode == "" {
		sslMode = "disable"
	}

	uri := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:     "/" + c.DBName,
		RawQuery: url.Values{"sslmode": {sslMode}}.Encode(),
	}
	return uri.String()
}

// ToPoolURI возвращает строку подключения для pgxpool (с размером пула)
func (c DatabaseConfig) ToPoolURI() string {
	poolMax := c.PoolMaxConns
	if poolMax <= 0 {
		poolMax = 1
	}
	return fmt.Sprintf("%s&pool_max_conns=%d", c.ToPostgresURI(), poolMax)
}

// ToMySQLDSN возвращает DSN для go-sql-driver/mysql
func (c DatabaseConfig) ToMySQLDSN() string {
	cfg := mysql.NewConfig()
	cfg.User = c.User
	cfg.Passwd = c.Password
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
	cfg.DBName = c.DBName
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	return cfg.FormatDSN()
}

// SQLDriver возвращает имя драйвера database/sql и DSN для него
func (c DatabaseConfig) SQLDriver() (string, string) {
	if c.Driver == DriverMySQL {
		return "mysql", c.ToMySQLDSN()
	}
	return "pgx", c.ToPostgresURI()
}

// DefaultSchema возвращает схему по умолчанию для драйвера.
// В MySQL схема совпадает с базой данных
func (c DatabaseConfig) DefaultSchema() string {
	if c.Driver == DriverMySQL {
		return c.DBName
	}
	return DefaultStoreConfig.Schema
}

// QualifiedTable возвращает имя таблицы с префиксом схемы
func (c DatabaseConfig) QualifiedTable(table string) string {
	if c.Schema == "" {
		return table
	}
	return c.Schema + "." + table
}
