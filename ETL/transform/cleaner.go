package transform

import (
	"github.com/LilVoxy/retail_pipeline/ETL/dataset"
	"github.com/LilVoxy/retail_pipeline/ETL/metrics"
	"github.com/LilVoxy/retail_pipeline/ETL/models"
	"github.com/LilVoxy/retail_pipeline/ETL/utils"
)

// Cleaner применяет политики очистки к исходным наборам данных
type Cleaner struct {
	logger  *utils.ETLLogger
	metrics *metrics.ETLMetrics
}

// NewCleaner создает новый экземпляр Cleaner
func NewCleaner(logger *utils.ETLLogger, m *metrics.ETLMetrics) *Cleaner {
	return &Cleaner{
		logger:  logger,
		metrics: m,
	}
}

// Clean возвращает очищенную копию набора данных сущности. Входной набор не изменяется.
// Для отсутствующего набора (nil) возвращается nil.
//
// Порядок шагов фиксирован: удаление строк без обязательных полей, расчет медиан и средних
// по оставшимся строкам, заполнение пропусков, разбор дат
func (c *Cleaner) Clean(entity models.Entity, data *dataset.Dataset) (*dataset.Dataset, error) {
	policy, err := PolicyFor(entity)
	if err != nil {
		return nil, err
	}

	if data == nil {
		c.logger.Debug("Нет данных %s для очистки", entity)
		return nil, nil
	}

	c.logger.Debug("Очистка данных %s...", entity)
	cleaned := data.Clone()

	// 1. Удаляем строки без обязательных полей
	dropped := cleaned.DropNull(policy.Required...)
	c.metrics.ObserveDropped(entity.String(), dropped)

	// 2. Статистики считаются до любых заполнений
	stats := make(map[string]float64)
	for _, fill := range policy.Fills {
		var (
			value float64
			ok    bool
		)
		switch fill.Strategy {
		case FillMedian:
			value, ok = cleaned.Median(fill.Column)
		case FillMean:
			value, ok = cleaned.Mean(fill.Column)
		default:
			continue
		}
		if !ok {
			c.logger.Debug("Столбец %s.%s не содержит значений, пропуски останутся пустыми", entity, fill.Column)
			continue
		}
		stats[fill.Column] = value
	}

	// 3. Заполняем пропуски
	for _, fill := range policy.Fills {
		if !cleaned.Has(fill.Column) {
			c.logger.Debug("Столбец %s.%s отсутствует, заполнение пропущено", entity, fill.Column)
			continue
		}

		var filled int
		switch fill.Strategy {
		case FillConstant:
			filled = cleaned.FillNull(fill.Column, fill.Value)
		case FillMedian, FillMean:
			if value, ok := stats[fill.Column]; ok {
				filled = cleaned.FillNull(fill.Column, value)
			}
		case FillFromColumn:
			filled = cleaned.FillNullFrom(fill.Column, fill.Source)
		}
		if filled > 0 {
			c.metrics.ObserveFilled(entity.String(), fill.Column, filled)
		}
	}

	// 4. Разбираем даты, нераспознанные значения становятся пустыми
	for _, column := range policy.Dates {
		if invalid := cleaned.ParseDates(column); invalid > 0 {
			c.logger.Debug("Столбец %s.%s: %d значений не распознаны как даты", entity, column, invalid)
		}
	}

	c.logger.Info("Очищены данные %s: %d строк, удалено %d", entity, cleaned.Len(), dropped)
	return cleaned, nil
}
