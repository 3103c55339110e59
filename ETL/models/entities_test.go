package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEntityRoundTrip(t *testing.T) {
	for _, e := range AllEntities {
		parsed, err := ParseEntity(e.String())
		require.NoError(t, err)
		assert.Equal(t, e, parsed)
	}
}

func TestParseEntityRejectsUnknownTag(t *testing.T) {
	_, err := ParseEntity("customer")
	assert.ErrorIs(t, err, ErrUnknownEntity)
}

func TestSchemaCoversEveryEntity(t *testing.T) {
	want := map[Entity][]string{
		Customers:         {"customer_id", "name", "gender", "email", "phone_number", "signup_date", "last_active_date", "location", "churn_status"},
		Products:          {"product_id", "name", "category", "price", "stock_quantity", "supplier", "rating", "reviews_count"},
		SalesTransactions: {"order_id", "customer_id", "product_id", "order_date", "total_amount", "payment_id"},
		Payments:          {"payment_id", "order_id", "user_id", "payment_date", "payment_method", "total_paid", "transaction_fee", "payment_status"},
		MarketingAds:      {"ad_source", "campaign_name", "clicks", "conversions", "cost_per_click", "return_on_ad_spend"},
		CustomerSupport:   {"ticket_id", "customer_id", "issue_type", "response_time", "resolution_status", "feedback_rating"},
	}

	for e, columns := range want {
		schema, err := e.Schema()
		require.NoError(t, err, e.String())
		assert.Equal(t, columns, ColumnNames(schema), e.String())
	}

	_, err := Entity(42).Schema()
	assert.ErrorIs(t, err, ErrUnknownEntity)
}

func TestExtractedDataGetSet(t *testing.T) {
	var data ExtractedData
	for _, e := range AllEntities {
		assert.Nil(t, data.Get(e))
	}
	assert.Nil(t, data.Get(Entity(0)))
}

func TestRunLogFinish(t *testing.T) {
	start := time.Date(2025, 3, 24, 10, 0, 0, 0, time.UTC)
	runLog := &ETLRunLog{StartTime: start, Status: RunStatusInProgress}

	runLog.Finish(RunStatusPartial, start.Add(90*time.Second))

	assert.Equal(t, RunStatusPartial, runLog.Status)
	assert.Equal(t, 90.0, runLog.ExecutionTimeSeconds)
}
