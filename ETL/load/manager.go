package load

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/LilVoxy/retail_pipeline/ETL/config"
	"github.com/LilVoxy/retail_pipeline/ETL/dataset"
	"github.com/LilVoxy/retail_pipeline/ETL/metrics"
	"github.com/LilVoxy/retail_pipeline/ETL/models"
	"github.com/LilVoxy/retail_pipeline/ETL/utils"
)

// LoadManager отвечает за управление процессом загрузки витрин в хранилище
type LoadManager struct {
	sink    Sink
	tables  config.MartTables
	logger  *utils.ETLLogger
	metrics *metrics.ETLMetrics
}

// NewLoadManager создает новый экземпляр LoadManager
func NewLoadManager(sink Sink, tables config.MartTables, logger *utils.ETLLogger, m *metrics.ETLMetrics) *LoadManager {
	return &LoadManager{
		sink:    sink,
		tables:  tables,
		logger:  logger,
		metrics: m,
	}
}

// Load выполняет фазу загрузки данных ETL-процесса.
// Ошибка одной витрины не останавливает загрузку остальных: возвращаются
// количества загруженных строк по витринам и объединенная ошибка неудачных витрин
func (m *LoadManager) Load(ctx context.Context, transformedData *models.TransformedData) (map[models.Mart]int, error) {
	startTime := time.Now()
	m.logger.Info("Начало фазы Load (Загрузка данных) в %s", m.sink)

	loaded := make(map[models.Mart]int, len(models.AllMarts))
	var errs error

	for _, mart := range models.AllMarts {
		data := transformedData.Get(mart)
		if data == nil {
			m.logger.Warn("Витрина %s не построена, загрузка пропущена", mart)
			continue
		}

		table := m.tables.For(mart)
		m.logger.Info("Загрузка витрины %s в таблицу %s (%d строк)...", mart, table, data.Len())

		rows, err := m.loadMart(ctx, table, data)
		if err != nil {
			m.logger.Error("Ошибка при загрузке витрины %s: %v", mart, err)
			m.metrics.ObserveLoadFailure(mart.String())
			errs = multierr.Append(errs, fmt.Errorf("ошибка при загрузке витрины %s: %w", mart, err))
			continue
		}
		loaded[mart] = rows
	}

	duration := time.Since(startTime)
	m.logger.Info("Фаза Load завершена. Длительность: %v", duration)

	return loaded, errs
}

// loadMart открывает сессию на одну витрину и закрывает ее при любом исходе
func (m *LoadManager) loadMart(ctx context.Context, table string, data *dataset.Dataset) (rows int, err error) {
	session, err := m.sink.Open(ctx)
	if err != nil {
		return 0, fmt.Errorf("ошибка подключения к хранилищу: %w", err)
	}
	defer func() {
		if closeErr := session.Close(); closeErr != nil {
			m.logger.Warn("Ошибка при закрытии подключения к хранилищу: %v", closeErr)
		}
	}()

	return session.Append(ctx, table, data)
}
