package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LilVoxy/retail_pipeline/ETL/models"
)

func TestGetConfigDefaults(t *testing.T) {
	config := GetConfig()

	assert.Equal(t, DriverPostgres, config.Sink.Driver)
	assert.Equal(t, 24*time.Hour, config.RunInterval)
	assert.Equal(t, 30*24*time.Hour, config.Marts.ChurnWindow)
	assert.Equal(t, "quantity", config.Marts.QuantityColumn)
	assert.Equal(t, "sales_mart", config.Tables.For(models.SalesMart))
	assert.Equal(t, "support_mart", config.Tables.For(models.SupportMart))
	require.NoError(t, config.Validate())
}

func TestGetConfigFromEnvironment(t *testing.T) {
	t.Setenv("SINK_DRIVER", "mysql")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("RUN_INTERVAL", "6h")
	t.Setenv("CHURN_WINDOW_DAYS", "45")
	t.Setenv("MARKETING_MART_TABLE", "ads_mart")
	t.Setenv("LOAD_BATCH_SIZE", "not-a-number")

	config := GetConfig()

	assert.Equal(t, DriverMySQL, config.Sink.Driver)
	assert.Equal(t, 3306, config.Sink.Port)
	assert.Equal(t, "db.internal", config.Sink.Host)
	assert.Equal(t, 6*time.Hour, config.RunInterval)
	assert.Equal(t, 45*24*time.Hour, config.Marts.ChurnWindow)
	assert.Equal(t, "ads_mart", config.Tables.For(models.MarketingMart))
	assert.Equal(t, DefaultETLConfig.BatchSize, config.BatchSize)
}

func TestValidate(t *testing.T) {
	config := DefaultETLConfig
	config.Sink.Driver = DriverBigQuery
	assert.Error(t, config.Validate())

	config.Sink.Project = "retail-project"
	config.Sink.Dataset = "analytics"
	assert.NoError(t, config.Validate())

	config.Sink.Driver = "oracle"
	assert.Error(t, config.Validate())
}

func TestDSN(t *testing.T) {
	db := DatabaseConfig{Host: "localhost", Port: 3306, User: "root", Password: "secret", DBName: "retail", SSLMode: "disable"}

	assert.Equal(t, "host=localhost port=3306 user=root password=secret dbname=retail sslmode=disable", db.PostgresDSN())
	assert.Contains(t, db.MySQLDSN(), "root:secret@tcp(localhost:3306)/retail")
	assert.Contains(t, db.MySQLDSN(), "parseTime=true")
}
