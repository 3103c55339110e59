package extractors

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/golang/snappy"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/LilVoxy/retail_pipeline/ETL/metrics"
	"github.com/LilVoxy/retail_pipeline/ETL/models"
	"github.com/LilVoxy/retail_pipeline/ETL/utils"
)

const customersCSV = `customer_id,name,gender,email,phone_number,signup_date,last_active_date,location,churn_status
C00001,Ann,Female,ann@gmail.com,0123 456 78,2024-01-10,,City_1,Active
C00002,,Male,NaN,0987,2024-02-01,2024-03-01,City_2,
`

const productsCSV = `product_id,name,category,price,stock_quantity,supplier,rating,reviews_count
P0001,Super Bag,Bag,10.5,5,Supplier_1,4.2,3
P0002,Mega Toys,Toys,cheap,,Supplier_2,NA,8
`

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func writeSnappyFile(t *testing.T, dir, name, content string) {
	t.Helper()
	f, err := os.Create(filepath.Join(dir, name))
	require.NoError(t, err)
	defer f.Close()

	w := snappy.NewBufferedWriter(f)
	_, err = w.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())
}

func TestReadCSVParsesNumbersAndNulls(t *testing.T) {
	schema, err := models.Products.Schema()
	require.NoError(t, err)

	data, invalid, err := ReadCSV(strings.NewReader(productsCSV), schema)
	require.NoError(t, err)

	require.Equal(t, 2, data.Len())
	assert.Equal(t, 1, invalid)
	assert.Equal(t, 10.5, data.Value(0, "price"))
	assert.Equal(t, 5.0, data.Value(0, "stock_quantity"))
	assert.Equal(t, "Super Bag", data.Value(0, "name"))
	assert.Nil(t, data.Value(1, "price"))
	assert.Nil(t, data.Value(1, "stock_quantity"))
	assert.Nil(t, data.Value(1, "rating"))
}

func TestReadCSVKeepsDatesAsText(t *testing.T) {
	schema, err := models.Customers.Schema()
	require.NoError(t, err)

	data, _, err := ReadCSV(strings.NewReader("\ufeff"+customersCSV), schema)
	require.NoError(t, err)

	assert.Equal(t, models.ColumnNames(schema), data.Columns())
	assert.Equal(t, "2024-01-10", data.Value(0, "signup_date"))
	assert.Nil(t, data.Value(0, "last_active_date"))
	assert.Nil(t, data.Value(1, "name"))
	assert.Nil(t, data.Value(1, "email"))
	assert.Nil(t, data.Value(1, "churn_status"))
}

func TestReadCSVPadsShortRows(t *testing.T) {
	data, _, err := ReadCSV(strings.NewReader("a,b,c\n1,2\n"), nil)
	require.NoError(t, err)
	require.Equal(t, 1, data.Len())
	assert.Equal(t, "2", data.Value(0, "b"))
	assert.Nil(t, data.Value(0, "c"))
}

func TestReadCSVRejectsEmptyFile(t *testing.T) {
	_, _, err := ReadCSV(strings.NewReader(""), nil)
	assert.Error(t, err)
}

func TestExtractFromLocalDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "customers.csv", customersCSV)
	writeSnappyFile(t, dir, "products.csv.sz", productsCSV)

	reg := prometheus.NewRegistry()
	m := metrics.NewETLMetrics(reg)
	extractor := NewExtractor(NewLocalSource(dir), utils.WrapLogger(zaptest.NewLogger(t)), m)

	extracted, err := extractor.Extract(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, extracted.Customers.Len())
	assert.Equal(t, 2, extracted.Products.Len())
	assert.Equal(t, 10.5, extracted.Products.Value(0, "price"))

	// Отсутствующие файлы дают пустые наборы
	assert.Nil(t, extracted.SalesTransactions)
	assert.Nil(t, extracted.Payments)
	assert.Nil(t, extracted.MarketingAds)
	assert.Nil(t, extracted.CustomerSupport)
	assert.False(t, extracted.ExtractedAt.IsZero())

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RowsExtracted.WithLabelValues("products")))
}

func TestExtractPrefersPlainCSV(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "products.csv", productsCSV)
	writeSnappyFile(t, dir, "products.csv.sz", "product_id,name\n")

	extractor := NewExtractor(NewLocalSource(dir), utils.WrapLogger(zaptest.NewLogger(t)), nil)
	extracted, err := extractor.Extract(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, extracted.Products.Len())
}

func TestExtractStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	extractor := NewExtractor(NewLocalSource(t.TempDir()), utils.NewNopLogger(), nil)
	_, err := extractor.Extract(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLocalSourceNotFound(t *testing.T) {
	_, err := NewLocalSource(t.TempDir()).Open(context.Background(), "missing.csv")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestParseGCSURI(t *testing.T) {
	bucket, prefix, err := parseGCSURI("gs://retail-raw/daily/2024/")
	require.NoError(t, err)
	assert.Equal(t, "retail-raw", bucket)
	assert.Equal(t, "daily/2024", prefix)

	bucket, prefix, err = parseGCSURI("gs://retail-raw")
	require.NoError(t, err)
	assert.Equal(t, "retail-raw", bucket)
	assert.Empty(t, prefix)

	_, _, err = parseGCSURI("gs://")
	assert.Error(t, err)
}
