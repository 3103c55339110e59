package load

import (
	"context"
	"fmt"

	"github.com/LilVoxy/retail_pipeline/ETL/config"
	"github.com/LilVoxy/retail_pipeline/ETL/dataset"
	"github.com/LilVoxy/retail_pipeline/ETL/utils"
)

// Session - подключение к хранилищу на время загрузки одной витрины
type Session interface {
	// Append дописывает строки набора в существующую таблицу, не изменяя ее схему.
	// Возвращает количество записанных строк
	Append(ctx context.Context, table string, data *dataset.Dataset) (int, error)

	// Close освобождает подключение
	Close() error
}

// Sink открывает сессии хранилища витрин
type Sink interface {
	Open(ctx context.Context) (Session, error)
	String() string
}

// NewSink создает хранилище по драйверу из конфигурации
func NewSink(cfg config.ETLConfig, logger *utils.ETLLogger) (Sink, error) {
	switch cfg.Sink.Driver {
	case config.DriverPostgres:
		return NewPostgresSink(cfg.Sink, cfg.BatchSize, logger), nil
	case config.DriverMySQL:
		return NewMySQLSink(cfg.Sink, cfg.BatchSize, logger), nil
	case config.DriverBigQuery:
		return NewBigQuerySink(cfg.Sink, cfg.GCPCredentialsFile, cfg.BatchSize, logger), nil
	default:
		return nil, fmt.Errorf("неизвестный драйвер хранилища: %q", cfg.Sink.Driver)
	}
}

// batchBounds делит n строк на отрезки [start, end) не длиннее size
func batchBounds(n, size int) [][2]int {
	if size <= 0 {
		size = n
	}
	var bounds [][2]int
	for start := 0; start < n; start += size {
		end := start + size
		if end > n {
			end = n
		}
		bounds = append(bounds, [2]int{start, end})
	}
	return bounds
}
