package models

import (
	"context"
	"database/sql"
	"fmt"
)

// MySQLETLLogRepository реализация ETLLogRepository для MySQL
type MySQLETLLogRepository struct {
	db *sql.DB
}

// NewMySQLETLLogRepository создает новый экземпляр MySQLETLLogRepository
func NewMySQLETLLogRepository(db *sql.DB) *MySQLETLLogRepository {
	return &MySQLETLLogRepository{
		db: db,
	}
}

// CreateETLLogTable создает таблицу для логирования ETL процесса, если она не существует
func (r *MySQLETLLogRepository) CreateETLLogTable(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS etl_run_log (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		run_id CHAR(36) NOT NULL UNIQUE,
		start_time TIMESTAMP NOT NULL,
		end_time TIMESTAMP NULL,
		status ENUM('success', 'partial', 'failed', 'in_progress') NOT NULL DEFAULT 'in_progress',
		sales_rows INT DEFAULT 0,
		marketing_rows INT DEFAULT 0,
		support_rows INT DEFAULT 0,
		error_message TEXT,
		execution_time_seconds FLOAT
	);
	`

	_, err := r.db.ExecContext(ctx, query)
	if err != nil {
		return fmt.Errorf("ошибка при создании таблицы etl_run_log: %w", err)
	}

	return nil
}

// CreateLogEntry создает новую запись о запуске ETL
func (r *MySQLETLLogRepository) CreateLogEntry(ctx context.Context, runLog *ETLRunLog) error {
	query := `
	INSERT INTO etl_run_log (run_id, start_time, status)
	VALUES (?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query, runLog.RunID, runLog.StartTime, runLog.Status)
	if err != nil {
		return fmt.Errorf("ошибка при создании записи о запуске ETL: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("ошибка при получении ID созданной записи: %w", err)
	}

	runLog.ID = id
	return nil
}

// UpdateLogEntry обновляет запись по завершении ETL
func (r *MySQLETLLogRepository) UpdateLogEntry(ctx context.Context, runLog *ETLRunLog) error {
	query := `
	UPDATE etl_run_log
	SET
		end_time = ?,
		status = ?,
		sales_rows = ?,
		marketing_rows = ?,
		support_rows = ?,
		error_message = ?,
		execution_time_seconds = ?
	WHERE id = ?
	`

	_, err := r.db.ExecContext(ctx,
		query,
		runLog.EndTime,
		runLog.Status,
		runLog.SalesRows,
		runLog.MarketingRows,
		runLog.SupportRows,
		runLog.ErrorMessage,
		runLog.ExecutionTimeSeconds,
		runLog.ID,
	)
	if err != nil {
		return fmt.Errorf("ошибка при обновлении записи о запуске ETL: %w", err)
	}

	return nil
}

// Close закрывает соединение с базой данных журнала
func (r *MySQLETLLogRepository) Close() error {
	return r.db.Close()
}
