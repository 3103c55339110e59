package models

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// GormETLLogRepository реализация ETLLogRepository поверх gorm (PostgreSQL)
type GormETLLogRepository struct {
	db *gorm.DB
}

// NewGormETLLogRepository создает новый экземпляр GormETLLogRepository
func NewGormETLLogRepository(db *gorm.DB) *GormETLLogRepository {
	return &GormETLLogRepository{db: db}
}

// CreateETLLogTable создает или дополняет таблицу журнала через AutoMigrate
func (r *GormETLLogRepository) CreateETLLogTable(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&ETLRunLog{}); err != nil {
		return fmt.Errorf("ошибка при миграции таблицы etl_run_log: %w", err)
	}
	return nil
}

// CreateLogEntry создает новую запись о запуске ETL
func (r *GormETLLogRepository) CreateLogEntry(ctx context.Context, runLog *ETLRunLog) error {
	if err := r.db.WithContext(ctx).Create(runLog).Error; err != nil {
		return fmt.Errorf("ошибка при создании записи о запуске ETL: %w", err)
	}
	return nil
}

// UpdateLogEntry обновляет запись по завершении ETL
func (r *GormETLLogRepository) UpdateLogEntry(ctx context.Context, runLog *ETLRunLog) error {
	err := r.db.WithContext(ctx).
		Model(&ETLRunLog{}).
		Where("id = ?", runLog.ID).
		Updates(map[string]interface{}{
			"end_time":               runLog.EndTime,
			"status":                 runLog.Status,
			"sales_rows":             runLog.SalesRows,
			"marketing_rows":         runLog.MarketingRows,
			"support_rows":           runLog.SupportRows,
			"error_message":          runLog.ErrorMessage,
			"execution_time_seconds": runLog.ExecutionTimeSeconds,
		}).Error
	if err != nil {
		return fmt.Errorf("ошибка при обновлении записи о запуске ETL: %w", err)
	}
	return nil
}

// Close закрывает пул соединений gorm
func (r *GormETLLogRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
