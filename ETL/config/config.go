package config

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Поддерживаемые драйверы хранилища
const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// ETLConfig содержит конфигурацию для ETL-процесса
type ETLConfig struct {
	// Конфигурация подключения к целевому хранилищу
	Store DatabaseConfig `yaml:"store"`

	// Каталог для файла журнала (пусто - только stderr)
	LogDir string `yaml:"log_dir"`

	// Включение/отключение подробного логирования
	EnableDetailedLogging bool `yaml:"enable_detailed_logging"`

	// Писать строку в etl_run_log по завершении каждого запуска
	EnableRunJournal bool `yaml:"enable_run_journal"`

	// Настройки аналитического сервера
	Server ServerConfig `yaml:"server"`
}

// DatabaseConfig содержит настройки подключения к базе данных
type DatabaseConfig struct {
	Driver       string `yaml:"driver"`
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	User         string `yaml:"user"`
	Password     string `yaml:"password"`
	DBName       string `yaml:"dbname"`
	Schema       string `yaml:"schema"`
	SslMode      string `yaml:"sslmode"`
	PoolMaxConns int    `yaml:"pool_max_conns"`
}

// ServerConfig содержит настройки сервера аналитики
type ServerConfig struct {
	Addr     string        `yaml:"addr"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

// Значения конфигурации по умолчанию
var (
	DefaultStoreConfig = DatabaseConfig{
		Driver:       DriverPostgres,
		Host:         "localhost",
		Port:         5432,
		User:         "postgres",
		DBName:       "esus_srag_db",
		Schema:       "public",
		SslMode:      "disable",
		PoolMaxConns: 4,
	}

	DefaultServerConfig = ServerConfig{
		Addr:     ":8080",
		CacheTTL: 10 * time.Minute,
	}

	DefaultETLConfig = ETLConfig{
		Store:                 DefaultStoreConfig,
		EnableDetailedLogging: false,
		Server:                DefaultServerConfig,
	}
)

// GetConfig возвращает конфигурацию ETL по умолчанию
func GetConfig() ETLConfig {
	return DefaultETLConfig
}

// Load читает YAML-файл конфигурации поверх значений по умолчанию.
// Пустой путь означает конфигурацию по умолчанию
func Load(fs afero.Fs, path string) (ETLConfig, error) {
	config := GetConfig()
	if path == "" {
		return config, nil
	}

	content, err := afero.ReadFile(fs, path)
	if err != nil {
		return config, errors.Wrapf(err, "не удалось прочитать файл конфигурации %s", path)
	}

	// Схема по умолчанию зависит от драйвера, поэтому заполняется после чтения файла
	config.Store.Schema = ""
	if err := yaml.Unmarshal(content, &config); err != nil {
		return config, errors.Wrapf(err, "некорректный YAML в %s", path)
	}
	if config.Store.Schema == "" {
		config.Store.Schema = config.Store.DefaultSchema()
	}

	if err := config.Validate(); err != nil {
		return config, err
	}

	return config, nil
}

// Validate проверяет согласованность конфигурации
func (c ETLConfig) Validate() error {
	switch c.Store.Driver {
	case DriverPostgres, DriverMySQL:
	default:
		return fmt.Errorf("неизвестный драйвер хранилища %q (допустимо: %s, %s)", c.Store.Driver, DriverPostgres, DriverMySQL)
	}

	if c.Store.Host == "" {
		return errors.New("не указан хост хранилища")
	}

	if c.Store.Port <= 0 || c.Store.Port > 65535 {
		return fmt.Errorf("некорректный порт хранилища: %d", c.Store.Port)
	}

	if c.Store.DBName == "" {
		return errors.New("не указано имя базы данных")
	}

	if c.Store.Schema == "" {
		return errors.New("не указана целевая схема")
	}

	if c.Server.CacheTTL <= 0 {
		return fmt.Errorf("некорректный интервал обновления кэша: %v", c.Server.CacheTTL)
	}

	return nil
}
