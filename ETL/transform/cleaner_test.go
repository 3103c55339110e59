package transform

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/LilVoxy/retail_pipeline/ETL/dataset"
	"github.com/LilVoxy/retail_pipeline/ETL/metrics"
	"github.com/LilVoxy/retail_pipeline/ETL/models"
	"github.com/LilVoxy/retail_pipeline/ETL/utils"
)

func newTestLogger(t *testing.T) *utils.ETLLogger {
	return utils.WrapLogger(zaptest.NewLogger(t))
}

func newDataset(t *testing.T, entity models.Entity, rows ...[]any) *dataset.Dataset {
	t.Helper()
	schema, err := entity.Schema()
	require.NoError(t, err)
	d := dataset.New(models.ColumnNames(schema)...)
	for _, row := range rows {
		require.NoError(t, d.AppendRow(row...))
	}
	return d
}

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func rawCustomers(t *testing.T) *dataset.Dataset {
	return newDataset(t, models.Customers,
		// customer_id, name, gender, email, phone_number, signup_date, last_active_date, location, churn_status
		[]any{"C00001", nil, "Female", nil, nil, "2024-01-10", nil, nil, nil},
		[]any{"C00002", "Ann", "Female", "ann@gmail.com", "0123 456 78", nil, "2024-02-01", "City_2", "Active"},
		[]any{"C00003", "Bob", "Male", "bob@gmail.com", "0987 654 32", "2024-02-01", "2024-03-01", "City_3", "Churned"},
		[]any{"C00003", "Bob", "Male", "bob@gmail.com", "0987 654 32", "2024-02-01", "2024-03-01", "City_3", "Churned"},
	)
}

func rawPayments(t *testing.T) *dataset.Dataset {
	return newDataset(t, models.Payments,
		// payment_id, order_id, user_id, payment_date, payment_method, total_paid, transaction_fee, payment_status
		[]any{"PY000001", "R0000001", "U00001", "2024-01-01", "PayPal", 10.0, 1.0, "Completed"},
		[]any{"PY000002", "R0000002", "U00002", "2024-01-02", nil, 20.0, 3.0, nil},
		[]any{"PY000003", nil, "U00003", "2024-01-03", "Cash on Delivery", 30.0, 100.0, "Failed"},
		[]any{"PY000004", "R0000004", "U00004", "2024-01-04", "Bank Transfer", 40.0, nil, "Refunded"},
		[]any{"PY000005", "R0000005", "U00005", nil, "Bank Transfer", 50.0, 2.0, "Completed"},
		[]any{"PY000006", "R0000006", "U00006", "2024-01-06", "PayPal", nil, 2.0, "Completed"},
	)
}

func TestCleanCustomers(t *testing.T) {
	cleaner := NewCleaner(newTestLogger(t), nil)
	raw := rawCustomers(t)

	cleaned, err := cleaner.Clean(models.Customers, raw)
	require.NoError(t, err)

	// Дубликаты не удаляются, строка без signup_date удаляется
	require.Equal(t, 3, cleaned.Len())
	for i := 0; i < cleaned.Len(); i++ {
		assert.IsType(t, time.Time{}, cleaned.Value(i, "signup_date"))
		assert.IsType(t, time.Time{}, cleaned.Value(i, "last_active_date"))
	}

	assert.Equal(t, "Unknown", cleaned.Value(0, "name"))
	assert.Equal(t, "Unknown", cleaned.Value(0, "email"))
	assert.Equal(t, "000-000000", cleaned.Value(0, "phone_number"))
	assert.Equal(t, "Unknown", cleaned.Value(0, "location"))
	assert.Equal(t, "Active", cleaned.Value(0, "churn_status"))
	assert.Equal(t, date("2024-01-10"), cleaned.Value(0, "last_active_date"))
	assert.Equal(t, date("2024-03-01"), cleaned.Value(1, "last_active_date"))

	// Входной набор не изменился
	assert.Equal(t, 4, raw.Len())
	assert.Nil(t, raw.Value(0, "name"))
	assert.Equal(t, "2024-01-10", raw.Value(0, "signup_date"))
}

func TestCleanCustomersUnparsableDateBecomesNull(t *testing.T) {
	cleaner := NewCleaner(newTestLogger(t), nil)
	raw := newDataset(t, models.Customers,
		[]any{"C00001", "Ann", "Female", "ann@gmail.com", "0123", "2024-01-10", "yesterday", "City_1", "Active"},
	)

	cleaned, err := cleaner.Clean(models.Customers, raw)
	require.NoError(t, err)
	require.Equal(t, 1, cleaned.Len())
	assert.Nil(t, cleaned.Value(0, "last_active_date"))
}

func TestCleanPaymentsMedianAfterDrops(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewETLMetrics(reg)
	cleaner := NewCleaner(newTestLogger(t), m)

	cleaned, err := cleaner.Clean(models.Payments, rawPayments(t))
	require.NoError(t, err)

	require.Equal(t, 3, cleaned.Len())
	for i := 0; i < cleaned.Len(); i++ {
		assert.NotNil(t, cleaned.Value(i, "order_id"))
		assert.IsType(t, time.Time{}, cleaned.Value(i, "payment_date"))
		assert.NotNil(t, cleaned.Value(i, "total_paid"))
		assert.NotNil(t, cleaned.Value(i, "transaction_fee"))
	}

	// Медиана [1, 3] без удаленной строки с комиссией 100
	assert.Equal(t, 2.0, cleaned.Value(2, "transaction_fee"))
	assert.Equal(t, "Unknown", cleaned.Value(1, "payment_method"))
	assert.Equal(t, "Pending", cleaned.Value(1, "payment_status"))

	assert.Equal(t, 3.0, testutil.ToFloat64(m.RowsDropped.WithLabelValues("payments")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ValuesFilled.WithLabelValues("payments", "transaction_fee")))
}

func TestCleanSalesTransactions(t *testing.T) {
	cleaner := NewCleaner(newTestLogger(t), nil)
	raw := newDataset(t, models.SalesTransactions,
		// order_id, customer_id, product_id, order_date, total_amount, payment_id
		[]any{"R0000001", "C00001", "P0001", "2024-01-01", 100.0, nil},
		[]any{"R0000002", nil, "P0001", "2024-01-01", 100.0, "PY000002"},
		[]any{"R0000003", "C00001", nil, "2024-01-01", 100.0, "PY000003"},
		[]any{"R0000004", "C00001", "P0001", nil, 100.0, "PY000004"},
		[]any{"R0000005", "C00001", "P0001", "2024-01-05", nil, "PY000005"},
		[]any{nil, "C00002", "P0002", "2024-01-06", 50.0, "PY000006"},
	)

	cleaned, err := cleaner.Clean(models.SalesTransactions, raw)
	require.NoError(t, err)

	require.Equal(t, 2, cleaned.Len())
	assert.Equal(t, "Unknown", cleaned.Value(0, "payment_id"))
	assert.Equal(t, date("2024-01-01"), cleaned.Value(0, "order_date"))
	assert.Nil(t, cleaned.Value(1, "order_id"))
}

func TestCleanProductsStatisticsAreIndependent(t *testing.T) {
	cleaner := NewCleaner(newTestLogger(t), nil)
	raw := newDataset(t, models.Products,
		// product_id, name, category, price, stock_quantity, supplier, rating, reviews_count
		[]any{"P0001", nil, nil, 10.0, nil, nil, 4.0, nil},
		[]any{"P0002", "Super Bag", "Bag", 30.0, 100.0, "Supplier_1", nil, 12.0},
		[]any{"P0003", "Mega Toys", "Toys", nil, 20.0, "Supplier_2", 5.0, 7.0},
		[]any{"P0004", "Classic Food", "Food", 20.0, 5.0, "Supplier_3", 3.0, 1.0},
	)

	cleaned, err := cleaner.Clean(models.Products, raw)
	require.NoError(t, err)

	require.Equal(t, 4, cleaned.Len())
	assert.Equal(t, "Unknown Product", cleaned.Value(0, "name"))
	assert.Equal(t, "Other", cleaned.Value(0, "category"))
	assert.Equal(t, 0.0, cleaned.Value(0, "stock_quantity"))
	assert.Equal(t, "Unknown Supplier", cleaned.Value(0, "supplier"))
	assert.Equal(t, 0.0, cleaned.Value(0, "reviews_count"))
	assert.Equal(t, 20.0, cleaned.Value(2, "price"))
	assert.Equal(t, 4.0, cleaned.Value(1, "rating"))
}

func TestCleanMarketingAds(t *testing.T) {
	cleaner := NewCleaner(newTestLogger(t), nil)
	raw := newDataset(t, models.MarketingAds,
		// ad_source, campaign_name, clicks, conversions, cost_per_click, return_on_ad_spend
		[]any{nil, nil, nil, nil, nil, nil},
		[]any{"Facebook", "Spring", 100.0, 10.0, 1.0, 2.0},
		[]any{"Google Ads", "Summer", 200.0, 20.0, 2.0, 4.0},
		[]any{"TikTok", "Autumn", 300.0, 30.0, 4.5, 5.0},
	)

	cleaned, err := cleaner.Clean(models.MarketingAds, raw)
	require.NoError(t, err)

	require.Equal(t, 4, cleaned.Len())
	assert.Equal(t, "Unknown", cleaned.Value(0, "ad_source"))
	assert.Equal(t, "Unnamed Campaign", cleaned.Value(0, "campaign_name"))
	assert.Equal(t, 0.0, cleaned.Value(0, "clicks"))
	assert.Equal(t, 0.0, cleaned.Value(0, "conversions"))
	assert.Equal(t, 2.5, cleaned.Value(0, "cost_per_click"))
	assert.Equal(t, 4.0, cleaned.Value(0, "return_on_ad_spend"))
}

func TestCleanCustomerSupport(t *testing.T) {
	cleaner := NewCleaner(newTestLogger(t), nil)
	raw := newDataset(t, models.CustomerSupport,
		// ticket_id, customer_id, issue_type, response_time, resolution_status, feedback_rating
		[]any{"T0001", "C00001", nil, nil, nil, nil},
		[]any{nil, "C00002", "Order Delay", "4 hours", "Resolved", 1.0},
		[]any{"T0003", nil, "Order Delay", "4 hours", "Resolved", 1.0},
		[]any{"T0004", "C00004", "Refund Request", "2 hours", "Escalated", 4.0},
		[]any{"T0005", "C00005", "Account Issue", "1 hours", "Resolved", 5.0},
	)

	cleaned, err := cleaner.Clean(models.CustomerSupport, raw)
	require.NoError(t, err)

	require.Equal(t, 3, cleaned.Len())
	assert.Equal(t, "Unknown", cleaned.Value(0, "issue_type"))
	assert.Equal(t, "Unknown", cleaned.Value(0, "response_time"))
	assert.Equal(t, "Pending", cleaned.Value(0, "resolution_status"))
	assert.Equal(t, 4.5, cleaned.Value(0, "feedback_rating"))
}

func TestCleanIsIdempotent(t *testing.T) {
	cleaner := NewCleaner(newTestLogger(t), nil)

	fixtures := map[models.Entity]*dataset.Dataset{
		models.Customers: rawCustomers(t),
		models.Payments:  rawPayments(t),
	}

	for entity, raw := range fixtures {
		once, err := cleaner.Clean(entity, raw)
		require.NoError(t, err)
		twice, err := cleaner.Clean(entity, once)
		require.NoError(t, err)

		assert.Equal(t, once.Records(), twice.Records(), entity.String())
	}
}

func TestCleanNilAndUnknownEntity(t *testing.T) {
	cleaner := NewCleaner(newTestLogger(t), nil)

	cleaned, err := cleaner.Clean(models.Customers, nil)
	assert.NoError(t, err)
	assert.Nil(t, cleaned)

	_, err = cleaner.Clean(models.Entity(99), dataset.New("a"))
	assert.ErrorIs(t, err, models.ErrUnknownEntity)
}

func TestPolicyForCoversAllEntities(t *testing.T) {
	for _, entity := range models.AllEntities {
		policy, err := PolicyFor(entity)
		require.NoError(t, err)
		assert.Equal(t, entity, policy.Entity)
	}
}
