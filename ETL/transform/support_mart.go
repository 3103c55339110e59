package transform

import (
	"github.com/LilVoxy/retail_pipeline/ETL/dataset"
	"github.com/LilVoxy/retail_pipeline/ETL/utils"
)

// SupportMartBuilder строит витрину поддержки
type SupportMartBuilder struct {
	logger *utils.ETLLogger
}

// NewSupportMartBuilder создает новый экземпляр SupportMartBuilder
func NewSupportMartBuilder(logger *utils.ETLLogger) *SupportMartBuilder {
	return &SupportMartBuilder{logger: logger}
}

// Build возвращает независимую копию очищенных обращений
func (b *SupportMartBuilder) Build(tickets *dataset.Dataset) *dataset.Dataset {
	if tickets == nil {
		b.logger.Error("Нет очищенных обращений, витрина поддержки не построена")
		return nil
	}

	mart := tickets.Clone()
	b.logger.Info("Построена витрина поддержки: %d строк", mart.Len())
	return mart
}
