package models

import (
	"time"

	"github.com/LilVoxy/retail_pipeline/ETL/dataset"
)

// ExtractedData содержит шесть исходных наборов данных одного запуска.
// nil означает, что набор отсутствует в источнике
type ExtractedData struct {
	Customers         *dataset.Dataset
	SalesTransactions *dataset.Dataset
	Products          *dataset.Dataset
	Payments          *dataset.Dataset
	MarketingAds      *dataset.Dataset
	CustomerSupport   *dataset.Dataset
	ExtractedAt       time.Time
}

// Get возвращает набор данных сущности
func (d *ExtractedData) Get(e Entity) *dataset.Dataset {
	switch e {
	case Customers:
		return d.Customers
	case SalesTransactions:
		return d.SalesTransactions
	case Products:
		return d.Products
	case Payments:
		return d.Payments
	case MarketingAds:
		return d.MarketingAds
	case CustomerSupport:
		return d.CustomerSupport
	default:
		return nil
	}
}

// Set сохраняет набор данных сущности
func (d *ExtractedData) Set(e Entity, data *dataset.Dataset) {
	switch e {
	case Customers:
		d.Customers = data
	case SalesTransactions:
		d.SalesTransactions = data
	case Products:
		d.Products = data
	case Payments:
		d.Payments = data
	case MarketingAds:
		d.MarketingAds = data
	case CustomerSupport:
		d.CustomerSupport = data
	}
}

// TransformedData содержит витрины, готовые к загрузке
type TransformedData struct {
	Sales     *dataset.Dataset
	Marketing *dataset.Dataset
	Support   *dataset.Dataset
}

// Get возвращает витрину по ее виду
func (d *TransformedData) Get(m Mart) *dataset.Dataset {
	switch m {
	case SalesMart:
		return d.Sales
	case MarketingMart:
		return d.Marketing
	case SupportMart:
		return d.Support
	default:
		return nil
	}
}
