package transform

import (
	"github.com/LilVoxy/retail_pipeline/ETL/dataset"
	"github.com/LilVoxy/retail_pipeline/ETL/utils"
)

const (
	clicksColumn       = "clicks"
	costPerClickColumn = "cost_per_click"
	costColumn         = "cost"
)

// MarketingMartBuilder строит витрину маркетинга
type MarketingMartBuilder struct {
	logger *utils.ETLLogger
}

// NewMarketingMartBuilder создает новый экземпляр MarketingMartBuilder
func NewMarketingMartBuilder(logger *utils.ETLLogger) *MarketingMartBuilder {
	return &MarketingMartBuilder{logger: logger}
}

// Build добавляет к рекламным данным столбец cost = clicks * cost_per_click
func (b *MarketingMartBuilder) Build(ads *dataset.Dataset) *dataset.Dataset {
	if ads == nil {
		b.logger.Error("Нет очищенных рекламных данных, витрина маркетинга не построена")
		return nil
	}

	mart := ads.Clone()
	cost := make([]any, mart.Len())

	if mart.Has(clicksColumn) && mart.Has(costPerClickColumn) {
		for i := range cost {
			clicks, cok := dataset.AsFloat(mart.Value(i, clicksColumn))
			cpc, pok := dataset.AsFloat(mart.Value(i, costPerClickColumn))
			if cok && pok {
				cost[i] = clicks * cpc
			}
		}
	} else {
		b.logger.Warn("В рекламных данных нет столбцов %s и/или %s, cost будет пустым", clicksColumn, costPerClickColumn)
	}

	mart.WithColumn(costColumn, cost)

	b.logger.Info("Построена витрина маркетинга: %d строк", mart.Len())
	return mart
}
