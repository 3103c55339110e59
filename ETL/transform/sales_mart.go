package transform

import (
	"time"

	"github.com/LilVoxy/retail_pipeline/ETL/dataset"
	"github.com/LilVoxy/retail_pipeline/ETL/utils"
)

const (
	orderDateColumn  = "order_date"
	customerIDColumn = "customer_id"
	revenueColumn    = "revenue"
	churnedColumn    = "churned"
)

// MartOptions содержит параметры расчета производных полей витрин
type MartOptions struct {
	// Столбцы для revenue = quantity * price
	QuantityColumn string
	PriceColumn    string

	// Клиент ушел, если его последний заказ старше общего последнего заказа более чем на ChurnWindow
	ChurnWindow time.Duration
}

// DefaultMartOptions возвращает параметры по умолчанию
func DefaultMartOptions() MartOptions {
	return MartOptions{
		QuantityColumn: "quantity",
		PriceColumn:    "price",
		ChurnWindow:    30 * 24 * time.Hour,
	}
}

// salesCapabilities фиксирует, какие производные поля можно вычислить по схеме соединения
type salesCapabilities struct {
	revenue bool
	churn   bool
}

// SalesMartBuilder строит витрину продаж
type SalesMartBuilder struct {
	logger  *utils.ETLLogger
	options MartOptions
}

// NewSalesMartBuilder создает новый экземпляр SalesMartBuilder
func NewSalesMartBuilder(logger *utils.ETLLogger, options MartOptions) *SalesMartBuilder {
	return &SalesMartBuilder{
		logger:  logger,
		options: options,
	}
}

// Build соединяет продажи с клиентами, товарами и платежами (левые соединения)
// и добавляет столбцы revenue и churned. Каждая строка продаж попадает в витрину
func (b *SalesMartBuilder) Build(customers, sales, products, payments *dataset.Dataset) *dataset.Dataset {
	if sales == nil {
		b.logger.Error("Нет очищенных данных продаж, витрина продаж не построена")
		return nil
	}

	b.logger.Debug("Соединение продаж с клиентами, товарами и платежами...")
	mart := dataset.LeftJoin(sales, customers, "customer_id")
	mart = dataset.LeftJoin(mart, products, "product_id")
	mart = dataset.LeftJoin(mart, payments, "order_id")

	caps := b.capabilities(mart)

	mart.WithColumn(revenueColumn, b.revenue(mart, caps))
	mart.WithColumn(churnedColumn, b.churned(mart, caps))

	b.logger.Info("Построена витрина продаж: %d строк", mart.Len())
	return mart
}

// capabilities проверяет схему соединения один раз на всю витрину
func (b *SalesMartBuilder) capabilities(mart *dataset.Dataset) salesCapabilities {
	caps := salesCapabilities{
		revenue: mart.Has(b.options.QuantityColumn) && mart.Has(b.options.PriceColumn),
		churn:   mart.Has(orderDateColumn),
	}

	if !caps.revenue {
		// Ни одна исходная сущность не содержит quantity, поэтому revenue обычно пуст
		b.logger.Warn("В витрине продаж нет столбцов %s и/или %s, revenue будет пустым",
			b.options.QuantityColumn, b.options.PriceColumn)
	}
	if !caps.churn {
		b.logger.Warn("В витрине продаж нет столбца %s, churned будет false", orderDateColumn)
	}
	return caps
}

func (b *SalesMartBuilder) revenue(mart *dataset.Dataset, caps salesCapabilities) []any {
	values := make([]any, mart.Len())
	if !caps.revenue {
		return values
	}

	for i := range values {
		quantity, qok := dataset.AsFloat(mart.Value(i, b.options.QuantityColumn))
		price, pok := dataset.AsFloat(mart.Value(i, b.options.PriceColumn))
		if qok && pok {
			values[i] = quantity * price
		}
	}
	return values
}

func (b *SalesMartBuilder) churned(mart *dataset.Dataset, caps salesCapabilities) []any {
	values := make([]any, mart.Len())
	for i := range values {
		values[i] = false
	}
	if !caps.churn {
		return values
	}

	mart.ParseDates(orderDateColumn)

	// Последний заказ в данных и последний заказ каждого клиента
	var lastDate time.Time
	customerLast := make(map[any]time.Time)
	for i := 0; i < mart.Len(); i++ {
		orderDate, ok := mart.Value(i, orderDateColumn).(time.Time)
		if !ok {
			continue
		}
		if orderDate.After(lastDate) {
			lastDate = orderDate
		}

		customerID := mart.Value(i, customerIDColumn)
		if customerID == nil {
			continue
		}
		if last, exists := customerLast[customerID]; !exists || orderDate.After(last) {
			customerLast[customerID] = orderDate
		}
	}

	if lastDate.IsZero() {
		return values
	}

	threshold := lastDate.Add(-b.options.ChurnWindow)
	churnedCount := 0
	for i := range values {
		customerID := mart.Value(i, customerIDColumn)
		if customerID == nil {
			continue
		}
		if last, exists := customerLast[customerID]; exists && last.Before(threshold) {
			values[i] = true
			churnedCount++
		}
	}

	b.logger.Debug("Отмечено %d строк ушедших клиентов", churnedCount)
	return values
}
