package models

import (
	"context"
	"time"
)

// Статусы запуска ETL
const (
	RunStatusInProgress = "in_progress"
	RunStatusSuccess    = "success"
	RunStatusPartial    = "partial"
	RunStatusFailed     = "failed"
)

// ETLRunLog представляет запись о запуске ETL процесса
type ETLRunLog struct {
	ID                   int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	RunID                string    `json:"run_id" gorm:"size:36;uniqueIndex;not null"`
	StartTime            time.Time `json:"start_time" gorm:"not null"`
	EndTime              time.Time `json:"end_time"`
	Status               string    `json:"status" gorm:"size:16;not null;default:in_progress"` // "success", "partial", "failed", "in_progress"
	SalesRows            int       `json:"sales_rows"`
	MarketingRows        int       `json:"marketing_rows"`
	SupportRows          int       `json:"support_rows"`
	ErrorMessage         string    `json:"error_message,omitempty" gorm:"type:text"`
	ExecutionTimeSeconds float64   `json:"execution_time_seconds"`
}

// TableName задает имя таблицы журнала для gorm
func (ETLRunLog) TableName() string {
	return "etl_run_log"
}

// Finish фиксирует окончание запуска
func (l *ETLRunLog) Finish(status string, endTime time.Time) {
	l.Status = status
	l.EndTime = endTime
	l.ExecutionTimeSeconds = endTime.Sub(l.StartTime).Seconds()
}

// ETLLogRepository представляет репозиторий для работы с журналом запусков ETL
type ETLLogRepository interface {
	// CreateETLLogTable создает таблицу журнала, если она еще не существует
	CreateETLLogTable(ctx context.Context) error

	// CreateLogEntry создает новую запись о запуске ETL и заполняет runLog.ID
	CreateLogEntry(ctx context.Context, runLog *ETLRunLog) error

	// UpdateLogEntry сохраняет итоговое состояние запуска
	UpdateLogEntry(ctx context.Context, runLog *ETLRunLog) error

	// Close освобождает соединение с базой данных журнала
	Close() error
}
