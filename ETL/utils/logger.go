package utils

import (
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ETLLogger представляет логгер для ETL-процесса
type ETLLogger struct {
	sugar     *zap.SugaredLogger
	isVerbose bool
}

// NewETLLogger создает новый экземпляр логгера для ETL.
// Если logDir не пуст, сообщения дополнительно пишутся в файл etl_log_<дата>.log
func NewETLLogger(verbose bool, logDir string) (*ETLLogger, error) {
	config := zap.NewProductionConfig()
	config.Encoding = "console"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.OutputPaths = []string{"stderr"}
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	if logDir != "" {
		logFileName := filepath.Join(logDir, fmt.Sprintf("etl_log_%s.log", time.Now().Format("2006-01-02")))
		config.OutputPaths = append(config.OutputPaths, logFileName)
	}

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("не удалось инициализировать логгер: %w", err)
	}

	return FromZap(logger, verbose), nil
}

// FromZap оборачивает готовый zap-логгер
func FromZap(logger *zap.Logger, verbose bool) *ETLLogger {
	return &ETLLogger{
		sugar:     logger.Sugar(),
		isVerbose: verbose,
	}
}

// NewNopLogger возвращает логгер, который ничего не пишет
func NewNopLogger() *ETLLogger {
	return FromZap(zap.NewNop(), false)
}

// With возвращает логгер с дополнительными полями (например, run_id)
func (l *ETLLogger) With(keysAndValues ...interface{}) *ETLLogger {
	return &ETLLogger{
		sugar:     l.sugar.With(keysAndValues...),
		isVerbose: l.isVerbose,
	}
}

// Info логирует информационное сообщение
func (l *ETLLogger) Info(format string, v ...interface{}) {
	l.sugar.Infof(format, v...)
}

// Warn логирует предупреждение
func (l *ETLLogger) Warn(format string, v ...interface{}) {
	l.sugar.Warnf(format, v...)
}

// Error логирует сообщение об ошибке
func (l *ETLLogger) Error(format string, v ...interface{}) {
	l.sugar.Errorf(format, v...)
}

// Debug логирует отладочное сообщение (только если включен verbose режим)
func (l *ETLLogger) Debug(format string, v ...interface{}) {
	if !l.isVerbose {
		return
	}
	l.sugar.Debugf(format, v...)
}

// Sync сбрасывает буферы логгера
func (l *ETLLogger) Sync() {
	_ = l.sugar.Sync()
}

// LogETLStart логирует начало ETL-процесса
func (l *ETLLogger) LogETLStart(sourcePath string) {
	l.Info("Начало выполнения ETL-процесса, файл: %s", sourcePath)
}

// LogETLComplete логирует завершение ETL-процесса
func (l *ETLLogger) LogETLComplete(startTime time.Time, notifications, tests int) {
	l.Info("ETL-процесс завершён. Длительность: %v", time.Since(startTime))
	l.Info("Загружено: %d уведомлений, %d тестов", notifications, tests)
}

// LogExtractStart логирует начало фазы извлечения данных
func (l *ETLLogger) LogExtractStart(sourcePath string) {
	l.Info("Начало фазы Extract (чтение файла %s)", sourcePath)
}

// LogExtractComplete логирует завершение фазы извлечения данных
func (l *ETLLogger) LogExtractComplete(rows int, dropped []string, duration time.Duration) {
	l.Info("Фаза Extract завершена. Длительность: %v", duration)
	l.Info("Прочитано строк: %d, удалено колонок: %d %v", rows, len(dropped), dropped)
}
