package generator

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/LilVoxy/retail_pipeline/ETL/extractors"
	"github.com/LilVoxy/retail_pipeline/ETL/models"
	"github.com/LilVoxy/retail_pipeline/ETL/utils"
)

func smallOptions() Options {
	options := DefaultOptions()
	options.Customers = 40
	options.Products = 20
	options.Sales = 100
	options.Ads = 20
	options.Tickets = 40
	options.Now = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	return options
}

func TestGenerateWritesAllEntities(t *testing.T) {
	dir := t.TempDir()
	logger := utils.WrapLogger(zaptest.NewLogger(t))

	counts, err := NewGenerator(smallOptions(), logger).Generate(dir)
	require.NoError(t, err)

	// 5% дубликатов, у платежей дубликатов нет
	assert.Equal(t, 42, counts[models.Customers])
	assert.Equal(t, 21, counts[models.Products])
	assert.Equal(t, 105, counts[models.SalesTransactions])
	assert.Equal(t, 100, counts[models.Payments])
	assert.Equal(t, 21, counts[models.MarketingAds])
	assert.Equal(t, 42, counts[models.CustomerSupport])

	extracted, err := extractors.NewExtractor(extractors.NewLocalSource(dir), logger, nil).Extract(context.Background())
	require.NoError(t, err)

	for _, entity := range models.AllEntities {
		data := extracted.Get(entity)
		require.NotNil(t, data, entity.String())
		assert.Equal(t, counts[entity], data.Len(), entity.String())
	}

	for i := 0; i < extracted.Customers.Len(); i++ {
		assert.Regexp(t, `^C\d{5}$`, extracted.Customers.Value(i, "customer_id"))
	}
	for i := 0; i < extracted.Products.Len(); i++ {
		assert.Regexp(t, `^P\d{4}$`, extracted.Products.Value(i, "product_id"))
	}
	for i := 0; i < extracted.SalesTransactions.Len(); i++ {
		assert.Regexp(t, `^R\d{7}$`, extracted.SalesTransactions.Value(i, "order_id"))
	}
	for i := 0; i < extracted.Payments.Len(); i++ {
		assert.Regexp(t, `^PY\d{6}$`, extracted.Payments.Value(i, "payment_id"))
		assert.Regexp(t, `^U\d{5}$`, extracted.Payments.Value(i, "user_id"))
	}
	for i := 0; i < extracted.CustomerSupport.Len(); i++ {
		assert.Regexp(t, `^T\d{4}$`, extracted.CustomerSupport.Value(i, "ticket_id"))
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	first, second := t.TempDir(), t.TempDir()
	logger := utils.NewNopLogger()

	_, err := NewGenerator(smallOptions(), logger).Generate(first)
	require.NoError(t, err)
	_, err = NewGenerator(smallOptions(), logger).Generate(second)
	require.NoError(t, err)

	for _, entity := range models.AllEntities {
		name := entity.String() + ".csv"
		a, err := os.ReadFile(filepath.Join(first, name))
		require.NoError(t, err)
		b, err := os.ReadFile(filepath.Join(second, name))
		require.NoError(t, err)
		assert.Equal(t, a, b, name)
	}
}

func TestGenerateCompressed(t *testing.T) {
	dir := t.TempDir()
	options := smallOptions()
	options.Compress = true
	logger := utils.NewNopLogger()

	counts, err := NewGenerator(options, logger).Generate(dir)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "customers.csv.sz"))
	require.NoError(t, err)

	extracted, err := extractors.NewExtractor(extractors.NewLocalSource(dir), logger, nil).Extract(context.Background())
	require.NoError(t, err)
	assert.Equal(t, counts[models.Payments], extracted.Payments.Len())
}

func TestGenerateRejectsEmptyVolumes(t *testing.T) {
	options := smallOptions()
	options.Customers = 0

	_, err := NewGenerator(options, utils.NewNopLogger()).Generate(t.TempDir())
	assert.Error(t, err)
}
