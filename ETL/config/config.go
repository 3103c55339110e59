package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"

	"github.com/LilVoxy/retail_pipeline/ETL/models"
	"github.com/LilVoxy/retail_pipeline/ETL/utils"
)

// Поддерживаемые драйверы хранилища витрин
const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverBigQuery = "bigquery"
)

// ETLConfig содержит конфигурацию для ETL-процесса
type ETLConfig struct {
	// Каталог или gs://bucket/prefix с исходными CSV-файлами
	DataPath string

	// Файл учетных данных GCP для gs:// источника и BigQuery, пусто - учетные данные по умолчанию
	GCPCredentialsFile string

	// Конфигурация хранилища витрин
	Sink DatabaseConfig

	// Имена целевых таблиц витрин
	Tables MartTables

	// Параметры построения витрин
	Marts MartConfig

	// Интервал запуска ETL
	RunInterval time.Duration

	// Количество строк в одной вставке при загрузке
	BatchSize int

	// Адрес HTTP-сервера метрик, пусто - сервер не запускается
	MetricsAddr string

	// Настройки логгера
	Log utils.LogConfig

	// Ведение журнала запусков в базе хранилища
	EnableRunLog bool
}

// DatabaseConfig содержит настройки подключения к хранилищу
type DatabaseConfig struct {
	Driver   string `json:"driver"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"dbname"`
	SSLMode  string `json:"sslmode"`

	// Только для BigQuery
	Project string `json:"project"`
	Dataset string `json:"dataset"`
}

// MartTables содержит имена таблиц для загрузки витрин
type MartTables struct {
	Sales     string `json:"sales"`
	Marketing string `json:"marketing"`
	Support   string `json:"support"`
}

// For возвращает таблицу для витрины
func (t MartTables) For(m models.Mart) string {
	switch m {
	case models.SalesMart:
		return t.Sales
	case models.MarketingMart:
		return t.Marketing
	case models.SupportMart:
		return t.Support
	default:
		return m.String()
	}
}

// MartConfig содержит параметры расчета производных полей витрин
type MartConfig struct {
	// Клиент считается ушедшим, если его последний заказ старше последнего заказа в данных на этот период
	ChurnWindow time.Duration

	// Столбцы для расчета revenue = quantity * price
	QuantityColumn string
	PriceColumn    string
}

// PostgresDSN возвращает строку подключения PostgreSQL
func (c DatabaseConfig) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// MySQLDSN возвращает строку подключения MySQL
func (c DatabaseConfig) MySQLDSN() string {
	cfg := mysql.NewConfig()
	cfg.User = c.User
	cfg.Passwd = c.Password
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
	cfg.DBName = c.DBName
	cfg.ParseTime = true
	return cfg.FormatDSN()
}

// Значения конфигурации по умолчанию
var (
	DefaultSinkConfig = DatabaseConfig{
		Driver:   DriverPostgres,
		Host:     "localhost",
		Port:     5432,
		User:     "user",
		Password: "password",
		DBName:   "retail",
		SSLMode:  "disable",
	}

	DefaultMartTables = MartTables{
		Sales:     models.SalesMart.String(),
		Marketing: models.MarketingMart.String(),
		Support:   models.SupportMart.String(),
	}

	DefaultMartConfig = MartConfig{
		ChurnWindow:    30 * 24 * time.Hour,
		QuantityColumn: "quantity",
		PriceColumn:    "price",
	}

	DefaultETLConfig = ETLConfig{
		DataPath:    "../Data",
		Sink:        DefaultSinkConfig,
		Tables:      DefaultMartTables,
		Marts:       DefaultMartConfig,
		RunInterval: 24 * time.Hour,
		BatchSize:   1000,
		MetricsAddr: ":9100",
		Log: utils.LogConfig{
			Level:       "info",
			Environment: "development",
			FileDir:     ".",
		},
		EnableRunLog: true,
	}
)

// GetConfig возвращает конфигурацию ETL: значения по умолчанию, переопределенные переменными окружения.
// Файл .env загружается, если он существует
func GetConfig() ETLConfig {
	_ = godotenv.Load()

	config := DefaultETLConfig

	config.DataPath = getEnv("DATA_PATH", config.DataPath)
	config.GCPCredentialsFile = getEnv("GCP_CREDENTIALS_FILE", config.GCPCredentialsFile)

	config.Sink.Driver = getEnv("SINK_DRIVER", config.Sink.Driver)
	if config.Sink.Driver == DriverMySQL {
		config.Sink.Port = 3306
	}
	config.Sink.Host = getEnv("DB_HOST", config.Sink.Host)
	config.Sink.Port = getEnvAsInt("DB_PORT", config.Sink.Port)
	config.Sink.User = getEnv("DB_USER", config.Sink.User)
	config.Sink.Password = getEnv("DB_PASSWORD", config.Sink.Password)
	config.Sink.DBName = getEnv("DB_NAME", config.Sink.DBName)
	config.Sink.SSLMode = getEnv("DB_SSL_MODE", config.Sink.SSLMode)
	config.Sink.Project = getEnv("BQ_PROJECT", config.Sink.Project)
	config.Sink.Dataset = getEnv("BQ_DATASET", config.Sink.Dataset)

	config.Tables.Sales = getEnv("SALES_MART_TABLE", config.Tables.Sales)
	config.Tables.Marketing = getEnv("MARKETING_MART_TABLE", config.Tables.Marketing)
	config.Tables.Support = getEnv("SUPPORT_MART_TABLE", config.Tables.Support)

	config.Marts.ChurnWindow = time.Duration(getEnvAsInt("CHURN_WINDOW_DAYS", 30)) * 24 * time.Hour
	config.Marts.QuantityColumn = getEnv("REVENUE_QUANTITY_COLUMN", config.Marts.QuantityColumn)
	config.Marts.PriceColumn = getEnv("REVENUE_PRICE_COLUMN", config.Marts.PriceColumn)

	config.RunInterval = getEnvAsDuration("RUN_INTERVAL", config.RunInterval)
	config.BatchSize = getEnvAsInt("LOAD_BATCH_SIZE", config.BatchSize)
	config.MetricsAddr = getEnv("METRICS_ADDR", config.MetricsAddr)

	config.Log.Level = getEnv("LOG_LEVEL", config.Log.Level)
	config.Log.Environment = getEnv("APP_ENV", config.Log.Environment)
	config.Log.FileDir = getEnv("LOG_FILE_DIR", config.Log.FileDir)
	config.Log.Verbose = getEnvAsBool("ENABLE_DETAILED_LOGGING", config.Log.Verbose)

	config.EnableRunLog = getEnvAsBool("ENABLE_RUN_LOG", config.EnableRunLog)

	return config
}

// Validate проверяет согласованность конфигурации
func (c ETLConfig) Validate() error {
	switch c.Sink.Driver {
	case DriverPostgres, DriverMySQL:
	case DriverBigQuery:
		if c.Sink.Project == "" || c.Sink.Dataset == "" {
			return fmt.Errorf("для драйвера bigquery необходимо задать BQ_PROJECT и BQ_DATASET")
		}
	default:
		return fmt.Errorf("неизвестный драйвер хранилища: %q", c.Sink.Driver)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("размер пакета загрузки должен быть положительным: %d", c.BatchSize)
	}
	if c.RunInterval <= 0 {
		return fmt.Errorf("интервал запуска должен быть положительным: %v", c.RunInterval)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}
