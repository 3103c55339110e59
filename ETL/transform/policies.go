package transform

import (
	"fmt"

	"github.com/LilVoxy/retail_pipeline/ETL/models"
)

// FillStrategy определяет, откуда берется значение для пустой ячейки
type FillStrategy int

const (
	// FillConstant подставляет фиксированное значение
	FillConstant FillStrategy = iota
	// FillMedian подставляет медиану непустых значений столбца
	FillMedian
	// FillMean подставляет среднее непустых значений столбца
	FillMean
	// FillFromColumn подставляет значение другого столбца той же строки
	FillFromColumn
)

// Fill описывает правило заполнения одного столбца
type Fill struct {
	Column   string
	Strategy FillStrategy
	Value    any
	Source   string
}

// CleaningPolicy - фиксированный набор правил очистки одной сущности
type CleaningPolicy struct {
	Entity   models.Entity
	Required []string
	Fills    []Fill
	Dates    []string
}

func constant(column string, value any) Fill {
	return Fill{Column: column, Strategy: FillConstant, Value: value}
}

func median(column string) Fill {
	return Fill{Column: column, Strategy: FillMedian}
}

func mean(column string) Fill {
	return Fill{Column: column, Strategy: FillMean}
}

func fromColumn(column, source string) Fill {
	return Fill{Column: column, Strategy: FillFromColumn, Source: source}
}

// PolicyFor возвращает политику очистки сущности
func PolicyFor(entity models.Entity) (CleaningPolicy, error) {
	switch entity {
	case models.Customers:
		return CleaningPolicy{
			Entity:   entity,
			Required: []string{"signup_date"},
			Fills: []Fill{
				constant("name", "Unknown"),
				constant("email", "Unknown"),
				constant("phone_number", "000-000000"),
				fromColumn("last_active_date", "signup_date"),
				constant("location", "Unknown"),
				constant("churn_status", "Active"),
			},
			Dates: []string{"signup_date", "last_active_date"},
		}, nil

	case models.SalesTransactions:
		return CleaningPolicy{
			Entity:   entity,
			Required: []string{"customer_id", "product_id", "order_date", "total_amount"},
			Fills: []Fill{
				constant("payment_id", "Unknown"),
			},
			Dates: []string{"order_date"},
		}, nil

	case models.Products:
		return CleaningPolicy{
			Entity: entity,
			Fills: []Fill{
				constant("name", "Unknown Product"),
				constant("category", "Other"),
				median("price"),
				constant("stock_quantity", 0.0),
				constant("supplier", "Unknown Supplier"),
				mean("rating"),
				constant("reviews_count", 0.0),
			},
		}, nil

	case models.Payments:
		return CleaningPolicy{
			Entity:   entity,
			Required: []string{"order_id", "payment_date", "total_paid"},
			Fills: []Fill{
				constant("payment_method", "Unknown"),
				median("transaction_fee"),
				constant("payment_status", "Pending"),
			},
			Dates: []string{"payment_date"},
		}, nil

	case models.MarketingAds:
		return CleaningPolicy{
			Entity: entity,
			Fills: []Fill{
				constant("ad_source", "Unknown"),
				constant("campaign_name", "Unnamed Campaign"),
				constant("clicks", 0.0),
				constant("conversions", 0.0),
				mean("cost_per_click"),
				median("return_on_ad_spend"),
			},
		}, nil

	case models.CustomerSupport:
		return CleaningPolicy{
			Entity:   entity,
			Required: []string{"ticket_id", "customer_id"},
			Fills: []Fill{
				constant("issue_type", "Unknown"),
				constant("response_time", "Unknown"),
				constant("resolution_status", "Pending"),
				median("feedback_rating"),
			},
		}, nil

	default:
		return CleaningPolicy{}, fmt.Errorf("%w: нет политики очистки для %v", models.ErrUnknownEntity, entity)
	}
}
