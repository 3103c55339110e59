package utils

import (
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogConfig содержит настройки логгера ETL
type LogConfig struct {
	Level       string
	Environment string
	// FileDir - каталог для ежедневного файла лога, пустая строка отключает файл
	FileDir string
	Verbose bool
}

// ETLLogger представляет логгер для ETL-процесса
type ETLLogger struct {
	sugar     *zap.SugaredLogger
	isVerbose bool
}

// NewETLLogger создает новый экземпляр логгера для ETL
func NewETLLogger(config LogConfig) (*ETLLogger, error) {
	level := parseLevel(config.Level)
	if config.Verbose {
		level = zapcore.DebugLevel
	}

	var zapConfig zap.Config
	if config.Environment == "production" {
		zapConfig = zap.NewProductionConfig()
		zapConfig.EncoderConfig.TimeKey = "timestamp"
		zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}
	zapConfig.Level = zap.NewAtomicLevelAt(level)

	// Ежедневный файл лога рядом со стандартным выводом
	zapConfig.OutputPaths = []string{"stdout"}
	if config.FileDir != "" {
		logFileName := fmt.Sprintf("etl_log_%s.log", time.Now().Format("2006-01-02"))
		zapConfig.OutputPaths = append(zapConfig.OutputPaths, filepath.Join(config.FileDir, logFileName))
	}

	logger, err := zapConfig.Build(zap.AddCallerSkip(1), zap.Fields(zap.String("component", "etl")))
	if err != nil {
		return nil, fmt.Errorf("не удалось создать логгер: %w", err)
	}

	return &ETLLogger{
		sugar:     logger.Sugar(),
		isVerbose: config.Verbose,
	}, nil
}

// WrapLogger оборачивает готовый zap-логгер, например zaptest.NewLogger в тестах
func WrapLogger(logger *zap.Logger) *ETLLogger {
	return &ETLLogger{
		sugar:     logger.WithOptions(zap.AddCallerSkip(1)).Sugar(),
		isVerbose: true,
	}
}

// NewNopLogger возвращает логгер, который ничего не пишет
func NewNopLogger() *ETLLogger {
	return WrapLogger(zap.NewNop())
}

func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// With возвращает логгер с дополнительными полями
func (l *ETLLogger) With(args ...interface{}) *ETLLogger {
	return &ETLLogger{sugar: l.sugar.With(args...), isVerbose: l.isVerbose}
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
func (l *ETLLogger) LogETLStart(runID string) {
	l.Info("Начало выполнения ETL-процесса (запуск %s)", runID)
}

// LogETLComplete логирует завершение ETL-процесса
func (l *ETLLogger) LogETLComplete(startTime time.Time, salesRows, marketingRows, supportRows int) {
	duration := time.Since(startTime)
	l.Info("ETL-процесс завершён. Длительность: %v", duration)
	l.Info("Загружено: %d строк sales_mart, %d строк marketing_mart, %d строк support_mart", salesRows, marketingRows, supportRows)
}

// LogExtractStart логирует начало фазы извлечения данных
func (l *ETLLogger) LogExtractStart(source string) {
	l.Info("Начало фазы Extract (Извлечение данных) из %s", source)
}

// LogExtractComplete логирует завершение фазы извлечения данных
func (l *ETLLogger) LogExtractComplete(rows map[string]int, duration time.Duration) {
	l.Info("Фаза Extract завершена. Длительность: %v", duration)
	for entity, count := range rows {
		l.Debug("Извлечено %d строк %s", count, entity)
	}
}
