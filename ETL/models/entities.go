package models

import (
	"errors"
	"fmt"
)

// ErrUnknownEntity возвращается для тега, не соответствующего ни одной сущности
var ErrUnknownEntity = errors.New("неизвестная сущность")

// Entity перечисляет виды исходных наборов данных
type Entity int

const (
	Customers Entity = iota + 1
	SalesTransactions
	Products
	Payments
	MarketingAds
	CustomerSupport
)

// AllEntities содержит все сущности в порядке извлечения и очистки
var AllEntities = []Entity{
	Customers,
	SalesTransactions,
	Products,
	Payments,
	MarketingAds,
	CustomerSupport,
}

// String возвращает тег сущности, он же имя исходного файла без расширения
func (e Entity) String() string {
	switch e {
	case Customers:
		return "customers"
	case SalesTransactions:
		return "sales_transactions"
	case Products:
		return "products"
	case Payments:
		return "payments"
	case MarketingAds:
		return "marketing_ads"
	case CustomerSupport:
		return "customer_support"
	default:
		return fmt.Sprintf("Entity(%d)", int(e))
	}
}

// ParseEntity находит сущность по тегу
func ParseEntity(tag string) (Entity, error) {
	for _, e := range AllEntities {
		if e.String() == tag {
			return e, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownEntity, tag)
}

// ColumnKind определяет, как значение столбца читается из исходного файла
type ColumnKind int

const (
	KindString ColumnKind = iota
	KindNumber
	KindDate
)

// Column описывает столбец исходной схемы
type Column struct {
	Name string
	Kind ColumnKind
}

// Schema возвращает столбцы сущности в порядке исходного файла
func (e Entity) Schema() ([]Column, error) {
	switch e {
	case Customers:
		return []Column{
			{"customer_id", KindString},
			{"name", KindString},
			{"gender", KindString},
			{"email", KindString},
			{"phone_number", KindString},
			{"signup_date", KindDate},
			{"last_active_date", KindDate},
			{"location", KindString},
			{"churn_status", KindString},
		}, nil
	case SalesTransactions:
		return []Column{
			{"order_id", KindString},
			{"customer_id", KindString},
			{"product_id", KindString},
			{"order_date", KindDate},
			{"total_amount", KindNumber},
			{"payment_id", KindString},
		}, nil
	case Products:
		return []Column{
			{"product_id", KindString},
			{"name", KindString},
			{"category", KindString},
			{"price", KindNumber},
			{"stock_quantity", KindNumber},
			{"supplier", KindString},
			{"rating", KindNumber},
			{"reviews_count", KindNumber},
		}, nil
	case Payments:
		return []Column{
			{"payment_id", KindString},
			{"order_id", KindString},
			{"user_id", KindString},
			{"payment_date", KindDate},
			{"payment_method", KindString},
			{"total_paid", KindNumber},
			{"transaction_fee", KindNumber},
			{"payment_status", KindString},
		}, nil
	case MarketingAds:
		return []Column{
			{"ad_source", KindString},
			{"campaign_name", KindString},
			{"clicks", KindNumber},
			{"conversions", KindNumber},
			{"cost_per_click", KindNumber},
			{"return_on_ad_spend", KindNumber},
		}, nil
	case CustomerSupport:
		return []Column{
			{"ticket_id", KindString},
			{"customer_id", KindString},
			{"issue_type", KindString},
			{"response_time", KindString},
			{"resolution_status", KindString},
			{"feedback_rating", KindNumber},
		}, nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownEntity, e)
	}
}

// ColumnNames возвращает имена столбцов схемы
func ColumnNames(columns []Column) []string {
	names := make([]string, len(columns))
	for i, c := range columns {
		names[i] = c.Name
	}
	return names
}

// Mart перечисляет итоговые витрины
type Mart int

const (
	SalesMart Mart = iota + 1
	MarketingMart
	SupportMart
)

// AllMarts содержит витрины в порядке загрузки
var AllMarts = []Mart{SalesMart, MarketingMart, SupportMart}

// String возвращает имя витрины, совпадающее с таблицей по умолчанию
func (m Mart) String() string {
	switch m {
	case SalesMart:
		return "sales_mart"
	case MarketingMart:
		return "marketing_mart"
	case SupportMart:
		return "support_mart"
	default:
		return fmt.Sprintf("Mart(%d)", int(m))
	}
}
