package config

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/LilVoxy/retail_pipeline/ETL/models"
)

// ConnectPostgres устанавливает подключение к PostgreSQL через gorm
func ConnectPostgres(ctx context.Context, config DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  config.PostgresDSN(),
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к PostgreSQL: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("ошибка получения пула соединений PostgreSQL: %w", err)
	}

	// Загрузка идет последовательно, большой пул не нужен
	sqlDB.SetMaxOpenConns(2)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("не удалось установить соединение с PostgreSQL: %w", err)
	}

	return db, nil
}

// ConnectMySQL устанавливает подключение к MySQL
func ConnectMySQL(ctx context.Context, config DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open(DriverMySQL, config.MySQLDSN())
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к MySQL: %w", err)
	}

	db.SetMaxOpenConns(2)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("не удалось установить соединение с MySQL: %w", err)
	}

	return db, nil
}

// OpenRunLogRepository подключает журнал запусков к базе хранилища.
// Для BigQuery журнал не ведется и возвращается nil
func OpenRunLogRepository(ctx context.Context, config ETLConfig) (models.ETLLogRepository, error) {
	var repo models.ETLLogRepository

	switch config.Sink.Driver {
	case DriverPostgres:
		db, err := ConnectPostgres(ctx, config.Sink)
		if err != nil {
			return nil, err
		}
		repo = models.NewGormETLLogRepository(db)
	case DriverMySQL:
		db, err := ConnectMySQL(ctx, config.Sink)
		if err != nil {
			return nil, err
		}
		repo = models.NewMySQLETLLogRepository(db)
	default:
		return nil, nil
	}

	if err := repo.CreateETLLogTable(ctx); err != nil {
		repo.Close()
		return nil, err
	}
	return repo, nil
}
