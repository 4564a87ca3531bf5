package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v2"

	"github.com/LilVoxy/srag_etl/ETL/config"
	"github.com/LilVoxy/srag_etl/ETL/extractors"
	"github.com/LilVoxy/srag_etl/ETL/load"
	"github.com/LilVoxy/srag_etl/ETL/models"
	"github.com/LilVoxy/srag_etl/ETL/transform"
	"github.com/LilVoxy/srag_etl/ETL/utils"
)

// writerFactory открывает подключение к хранилищу
type writerFactory func(ctx context.Context, cfg config.DatabaseConfig) (load.TableWriter, error)

type ETLRunner struct {
	config      config.ETLConfig
	logger      *utils.ETLLogger
	extractor   *extractors.Extractor
	transformer *transform.Transformer
	openWriter  writerFactory
}

// NewETLRunner создает новый экземпляр ETLRunner
func NewETLRunner(etlConfig config.ETLConfig, fs afero.Fs, logger *utils.ETLLogger) *ETLRunner {
	logger.Info("Инициализация ETL Runner")

	return &ETLRunner{
		config:      etlConfig,
		logger:      logger,
		extractor:   extractors.NewExtractor(fs, logger),
		transformer: transform.NewTransformer(logger),
		openWriter:  load.NewTableWriter,
	}
}

// ExecuteETL выполняет полный ETL процесс для одного файла.
// Отсутствующий входной файл не считается ошибкой запуска: загрузка просто не выполняется
func (r *ETLRunner) ExecuteETL(ctx context.Context, sourcePath string) error {
	startTime := time.Now()
	runID := uuid.NewString()
	logger := r.logger.With("run_id", runID)
	logger.LogETLStart(sourcePath)

	runLog := models.ETLRunLog{
		RunID:      runID,
		SourceFile: sourcePath,
		StartTime:  startTime,
	}

	// 1. Фаза извлечения данных (Extract)
	extractedData, err := r.extractor.Extract(sourcePath)
	if errors.Is(err, extractors.ErrInputNotFound) {
		logger.Error("Входной файл не найден: %s. Загрузка не выполняется", sourcePath)
		return nil
	}
	if err != nil {
		r.journalFailure(ctx, logger, nil, runLog, err)
		return fmt.Errorf("ошибка в фазе Extract: %w", err)
	}
	runLog.RowsRead = extractedData.RowsRead

	if len(extractedData.Capabilities.Missing()) > 0 {
		logger.Warn("Во входном файле отсутствуют колонки: %v", extractedData.Capabilities.Missing())
	}

	// 2. Фаза трансформации данных (Transform)
	schema, err := r.transformer.Transform(extractedData)
	if err != nil {
		r.journalFailure(ctx, logger, nil, runLog, err)
		return fmt.Errorf("ошибка в фазе Transform: %w", err)
	}

	// 3. Фаза загрузки данных (Load)
	writer, err := r.openWriter(ctx, r.config.Store)
	if err != nil {
		logger.Error("Ошибка подключения к хранилищу: %v", err)
		return fmt.Errorf("ошибка подключения к хранилищу: %w", err)
	}
	defer writer.Close()

	result, err := load.NewLoadManager(writer, logger).Load(ctx, schema)
	if err != nil {
		r.journalFailure(ctx, logger, writer, runLog, err)
		return fmt.Errorf("ошибка в фазе Load: %w", err)
	}

	runLog.NotificationsLoaded = int(result[load.TableNotifications])
	runLog.EndTime = time.Now()
	runLog.Status = models.RunStatusSuccess
	r.journal(ctx, logger, writer, runLog)

	logger.LogETLComplete(startTime, len(schema.Notifications), len(schema.Tests))
	return nil
}

// journalFailure записывает неудачный запуск в журнал
func (r *ETLRunner) journalFailure(ctx context.Context, logger *utils.ETLLogger, writer load.TableWriter, runLog models.ETLRunLog, cause error) {
	logger.Error("ETL процесс завершился с ошибкой: %v", cause)

	runLog.EndTime = time.Now()
	runLog.Status = models.RunStatusFailed
	runLog.ErrorMessage = cause.Error()
	r.journal(ctx, logger, writer, runLog)
}

// journal добавляет запись в etl_run_log, если журнал включен.
// Если подключение еще не открыто, оно открывается только для записи журнала
func (r *ETLRunner) journal(ctx context.Context, logger *utils.ETLLogger, writer load.TableWriter, runLog models.ETLRunLog) {
	if !r.config.EnableRunJournal {
		return
	}

	if writer == nil {
		w, err := r.openWriter(ctx, r.config.Store)
		if err != nil {
			logger.Error("Не удалось открыть хранилище для журнала запусков: %v", err)
			return
		}
		defer w.Close()
		writer = w
	}

	if err := load.AppendRunLog(ctx, writer, runLog); err != nil {
		logger.Error("Ошибка при записи в журнал запусков: %v", err)
	}
}

func runCommand() *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "загрузить выгрузку уведомлений SRAG в звездную схему",
		ArgsUsage: "[путь к CSV-файлу]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "путь к YAML-файлу конфигурации",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "подробное логирование",
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("необходимо указать путь к входному CSV-файлу", 1)
			}

			fs := afero.NewOsFs()
			etlConfig, err := config.Load(fs, c.String("config"))
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}

			logger, err := utils.NewETLLogger(etlConfig.EnableDetailedLogging || c.Bool("debug"), etlConfig.LogDir)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			defer logger.Sync()

			runner := NewETLRunner(etlConfig, fs, logger)
			if err := runner.ExecuteETL(c.Context, c.Args().Get(0)); err != nil {
				logger.Error("Ошибка при выполнении ETL: %v", err)
				return cli.Exit("", 1)
			}
			return nil
		},
	}
}

func main() {
	app := &cli.App{
		Name:     "srag-etl",
		Usage:    "ETL уведомлений SRAG в аналитическое хранилище",
		Commands: []*cli.Command{runCommand()},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
