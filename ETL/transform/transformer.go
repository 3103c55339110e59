package transform

import (
	"fmt"
	"time"

	"github.com/LilVoxy/retail_pipeline/ETL/metrics"
	"github.com/LilVoxy/retail_pipeline/ETL/models"
	"github.com/LilVoxy/retail_pipeline/ETL/utils"
)

// Transformer координирует очистку исходных данных и построение витрин
type Transformer struct {
	logger           *utils.ETLLogger
	metrics          *metrics.ETLMetrics
	cleaner          *Cleaner
	salesBuilder     *SalesMartBuilder
	marketingBuilder *MarketingMartBuilder
	supportBuilder   *SupportMartBuilder
}

// NewTransformer создает новый экземпляр Transformer
func NewTransformer(logger *utils.ETLLogger, m *metrics.ETLMetrics, options MartOptions) *Transformer {
	return &Transformer{
		logger:           logger,
		metrics:          m,
		cleaner:          NewCleaner(logger, m),
		salesBuilder:     NewSalesMartBuilder(logger, options),
		marketingBuilder: NewMarketingMartBuilder(logger),
		supportBuilder:   NewSupportMartBuilder(logger),
	}
}

// Transform очищает шесть исходных наборов и строит витрины продаж, маркетинга и поддержки.
// Проблемы качества данных не прерывают преобразование
func (t *Transformer) Transform(extractedData *models.ExtractedData) (*models.TransformedData, error) {
	startTime := time.Now()
	t.logger.Info("Начало фазы Transform (Преобразование данных)")

	// 1. Очистка каждой сущности
	var cleaned models.ExtractedData
	for _, entity := range models.AllEntities {
		data, err := t.cleaner.Clean(entity, extractedData.Get(entity))
		if err != nil {
			t.logger.Error("Ошибка при очистке %s: %v", entity, err)
			return nil, fmt.Errorf("ошибка при очистке %s: %w", entity, err)
		}
		cleaned.Set(entity, data)
	}

	// 2. Построение витрин
	t.logger.Info("Формирование витрины продаж...")
	transformedData := &models.TransformedData{}
	transformedData.Sales = t.salesBuilder.Build(
		cleaned.Customers,
		cleaned.SalesTransactions,
		cleaned.Products,
		cleaned.Payments,
	)

	t.logger.Info("Формирование витрины маркетинга...")
	transformedData.Marketing = t.marketingBuilder.Build(cleaned.MarketingAds)

	t.logger.Info("Формирование витрины поддержки...")
	transformedData.Support = t.supportBuilder.Build(cleaned.CustomerSupport)

	for _, mart := range models.AllMarts {
		t.metrics.SetMartRows(mart.String(), transformedData.Get(mart).Len())
	}

	duration := time.Since(startTime)
	t.logger.Info("Фаза Transform завершена. Длительность: %v", duration)

	return transformedData, nil
}
