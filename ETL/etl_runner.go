package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/LilVoxy/retail_pipeline/ETL/config"
	"github.com/LilVoxy/retail_pipeline/ETL/extractors"
	"github.com/LilVoxy/retail_pipeline/ETL/generator"
	"github.com/LilVoxy/retail_pipeline/ETL/load"
	"github.com/LilVoxy/retail_pipeline/ETL/metrics"
	"github.com/LilVoxy/retail_pipeline/ETL/models"
	"github.com/LilVoxy/retail_pipeline/ETL/transform"
	"github.com/LilVoxy/retail_pipeline/ETL/utils"
)

type ETLRunner struct {
	config      config.ETLConfig
	logger      *utils.ETLLogger
	registry    *prometheus.Registry
	metrics     *metrics.ETLMetrics
	source      extractors.Source
	extractor   *extractors.Extractor
	transformer *transform.Transformer
	loadManager *load.LoadManager
	etlLogRepo  models.ETLLogRepository
}

// NewETLRunner создает новый экземпляр ETLRunner
func NewETLRunner(ctx context.Context, etlConfig config.ETLConfig, logger *utils.ETLLogger) (*ETLRunner, error) {
	logger.Info("Инициализация ETL Runner")

	if err := etlConfig.Validate(); err != nil {
		return nil, fmt.Errorf("некорректная конфигурация: %w", err)
	}

	// Источник исходных файлов
	source, err := extractors.NewSource(ctx, etlConfig.DataPath, etlConfig.GCPCredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к источнику данных: %w", err)
	}

	// Хранилище витрин
	sink, err := load.NewSink(etlConfig, logger)
	if err != nil {
		source.Close()
		return nil, err
	}

	// Журнал запусков не обязателен: без него ETL продолжает работу
	var etlLogRepo models.ETLLogRepository
	if etlConfig.EnableRunLog {
		etlLogRepo, err = config.OpenRunLogRepository(ctx, etlConfig)
		if err != nil {
			logger.Warn("Журнал запусков недоступен, запуски не будут записаны: %v", err)
			etlLogRepo = nil
		}
	}

	return newETLRunner(etlConfig, logger, source, sink, etlLogRepo), nil
}

func newETLRunner(
	etlConfig config.ETLConfig,
	logger *utils.ETLLogger,
	source extractors.Source,
	sink load.Sink,
	etlLogRepo models.ETLLogRepository,
) *ETLRunner {
	registry := prometheus.NewRegistry()
	m := metrics.NewETLMetrics(registry)

	martOptions := transform.MartOptions{
		QuantityColumn: etlConfig.Marts.QuantityColumn,
		PriceColumn:    etlConfig.Marts.PriceColumn,
		ChurnWindow:    etlConfig.Marts.ChurnWindow,
	}

	return &ETLRunner{
		config:      etlConfig,
		logger:      logger,
		registry:    registry,
		metrics:     m,
		source:      source,
		extractor:   extractors.NewExtractor(source, logger, m),
		transformer: transform.NewTransformer(logger, m, martOptions),
		loadManager: load.NewLoadManager(sink, etlConfig.Tables, logger, m),
		etlLogRepo:  etlLogRepo,
	}
}

// Close освобождает источник данных и журнал запусков
func (r *ETLRunner) Close() {
	r.logger.Info("Завершение работы ETL Runner")
	if r.etlLogRepo != nil {
		if err := r.etlLogRepo.Close(); err != nil {
			r.logger.Warn("Ошибка при закрытии журнала запусков: %v", err)
		}
	}
	if err := r.source.Close(); err != nil {
		r.logger.Warn("Ошибка при закрытии источника данных: %v", err)
	}
	r.logger.Sync()
}

// ExecuteETL выполняет полный ETL процесс: извлечение, очистку и построение витрин, загрузку
func (r *ETLRunner) ExecuteETL(ctx context.Context) error {
	startTime := time.Now()
	runLog := &models.ETLRunLog{
		RunID:     uuid.NewString(),
		StartTime: startTime,
		Status:    models.RunStatusInProgress,
	}
	r.logger.LogETLStart(runLog.RunID)

	// Создаем запись в журнале ETL
	if r.etlLogRepo != nil {
		if err := r.etlLogRepo.CreateLogEntry(ctx, runLog); err != nil {
			r.logger.Error("Ошибка при создании записи в журнале ETL: %v", err)
		}
	}

	// 1. Фаза извлечения данных (Extract)
	extractedData, err := r.extractor.Extract(ctx)
	if err != nil {
		r.finishRun(ctx, runLog, models.RunStatusFailed, err)
		return fmt.Errorf("ошибка в фазе Extract: %w", err)
	}

	// 2. Фаза трансформации данных (Transform)
	transformedData, err := r.transformer.Transform(extractedData)
	if err != nil {
		r.finishRun(ctx, runLog, models.RunStatusFailed, err)
		return fmt.Errorf("ошибка в фазе Transform: %w", err)
	}

	// 3. Фаза загрузки данных (Load)
	loaded, loadErr := r.loadManager.Load(ctx, transformedData)
	runLog.SalesRows = loaded[models.SalesMart]
	runLog.MarketingRows = loaded[models.MarketingMart]
	runLog.SupportRows = loaded[models.SupportMart]

	status := models.RunStatusSuccess
	if loadErr != nil {
		status = models.RunStatusPartial
		if len(loaded) == 0 {
			status = models.RunStatusFailed
		}
	}
	r.finishRun(ctx, runLog, status, loadErr)

	r.logger.LogETLComplete(startTime, runLog.SalesRows, runLog.MarketingRows, runLog.SupportRows)
	if loadErr != nil {
		return fmt.Errorf("ошибка в фазе Load: %w", loadErr)
	}
	return nil
}

// finishRun фиксирует итог запуска в журнале и метриках
func (r *ETLRunner) finishRun(ctx context.Context, runLog *models.ETLRunLog, status string, runErr error) {
	runLog.Finish(status, time.Now())
	if runErr != nil {
		runLog.ErrorMessage = runErr.Error()
		r.logger.Error("ETL процесс завершен со статусом %s: %v", status, runErr)
	}
	r.metrics.ObserveRun(status, runLog.ExecutionTimeSeconds)

	if r.etlLogRepo == nil || runLog.ID == 0 {
		return
	}
	if err := r.etlLogRepo.UpdateLogEntry(ctx, runLog); err != nil {
		r.logger.Error("Ошибка при обновлении записи в журнале ETL: %v", err)
	}
}

// StartScheduler запускает планировщик для регулярного выполнения ETL
func (r *ETLRunner) StartScheduler(ctx context.Context) error {
	scheduler := gocron.NewScheduler(time.UTC)
	// Следующий запуск не начнется, пока не завершился предыдущий
	scheduler.SingletonModeAll()

	r.logger.Info("Запуск планировщика ETL с интервалом %v", r.config.RunInterval)

	_, err := scheduler.Every(r.config.RunInterval).Do(func() {
		r.logger.Info("Запланированный запуск ETL процесса")
		if err := r.ExecuteETL(ctx); err != nil {
			r.logger.Error("Ошибка при выполнении запланированного ETL: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("ошибка при настройке планировщика: %w", err)
	}

	r.serveMetrics(ctx)

	// Запускаем планировщик
	scheduler.StartAsync()

	// Ожидаем сигнал остановки из контекста
	<-ctx.Done()

	// Останавливаем планировщик
	scheduler.Stop()
	r.logger.Info("Планировщик ETL остановлен")
	return nil
}

// serveMetrics запускает HTTP-сервер метрик до отмены контекста
func (r *ETLRunner) serveMetrics(ctx context.Context) {
	if r.config.MetricsAddr == "" {
		return
	}

	server := &http.Server{
		Addr:              r.config.MetricsAddr,
		Handler:           metrics.NewRouter(r.registry),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		r.logger.Info("Сервер метрик слушает %s", r.config.MetricsAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			r.logger.Error("Ошибка сервера метрик: %v", err)
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			r.logger.Warn("Ошибка при остановке сервера метрик: %v", err)
		}
	}()
}

// RunOnce запускает ETL процесс один раз
func RunOnce(etlConfig config.ETLConfig, logger *utils.ETLLogger) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	runner, err := NewETLRunner(ctx, etlConfig, logger)
	if err != nil {
		return fmt.Errorf("ошибка при создании ETL Runner: %w", err)
	}
	defer runner.Close()

	return runner.ExecuteETL(ctx)
}

// RunScheduled запускает ETL процесс по расписанию до получения сигнала завершения
func RunScheduled(etlConfig config.ETLConfig, logger *utils.ETLLogger) error {
	// Контекст отменяется при получении сигнала завершения
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	runner, err := NewETLRunner(ctx, etlConfig, logger)
	if err != nil {
		return fmt.Errorf("ошибка при создании ETL Runner: %w", err)
	}
	defer runner.Close()

	return runner.StartScheduler(ctx)
}

// RunGenerate записывает синтетические исходные файлы в каталог out
func RunGenerate(out string, options generator.Options, logger *utils.ETLLogger) error {
	logger.Info("Генерация синтетических данных в %s (seed=%d)", out, options.Seed)
	counts, err := generator.NewGenerator(options, logger).Generate(out)
	if err != nil {
		return fmt.Errorf("ошибка генерации данных: %w", err)
	}
	logger.Info("Сгенерировано файлов: %d", len(counts))
	return nil
}

func main() {
	defaults := generator.DefaultOptions()

	// Параметры командной строки
	modePtr := flag.String("mode", "scheduled", "Режим работы: scheduled, once или generate")
	outPtr := flag.String("out", "", "Каталог для синтетических данных (только для режима generate), по умолчанию DATA_PATH")
	seedPtr := flag.Int64("seed", defaults.Seed, "Зерно генератора (только для режима generate)")
	salesPtr := flag.Int("sales", defaults.Sales, "Количество заказов (только для режима generate)")
	compressPtr := flag.Bool("compress", false, "Сжимать файлы snappy (только для режима generate)")

	flag.Parse()

	etlConfig := config.GetConfig()
	logger, err := utils.NewETLLogger(etlConfig.Log)
	if err != nil {
		log.Fatalf("Ошибка при создании логгера: %v", err)
	}

	logger.Info("Запуск ETL Runner в режиме: %s", *modePtr)

	switch *modePtr {
	case "once":
		err = RunOnce(etlConfig, logger)
	case "scheduled":
		err = RunScheduled(etlConfig, logger)
	case "generate":
		out := *outPtr
		if out == "" {
			out = etlConfig.DataPath
		}
		options := defaults
		options.Seed = *seedPtr
		options.Sales = *salesPtr
		options.Compress = *compressPtr
		err = RunGenerate(out, options, logger)
	default:
		logger.Error("Неизвестный режим работы: %s. Доступные режимы: scheduled, once, generate", *modePtr)
		logger.Sync()
		os.Exit(2)
	}

	if err != nil {
		logger.Error("ETL Runner завершился с ошибкой: %v", err)
		logger.Sync()
		os.Exit(1)
	}

	logger.Info("ETL Runner завершил работу")
	logger.Sync()
}
