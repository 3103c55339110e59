package load

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/LilVoxy/retail_pipeline/ETL/config"
	"github.com/LilVoxy/retail_pipeline/ETL/dataset"
	"github.com/LilVoxy/retail_pipeline/ETL/utils"
)

// PostgresSink загружает витрины в PostgreSQL через gorm
type PostgresSink struct {
	config    config.DatabaseConfig
	batchSize int
	logger    *utils.ETLLogger
}

// NewPostgresSink создает новый экземпляр PostgresSink
func NewPostgresSink(cfg config.DatabaseConfig, batchSize int, logger *utils.ETLLogger) *PostgresSink {
	return &PostgresSink{
		config:    cfg,
		batchSize: batchSize,
		logger:    logger,
	}
}

// Open подключается к PostgreSQL
func (s *PostgresSink) Open(ctx context.Context) (Session, error) {
	db, err := config.ConnectPostgres(ctx, s.config)
	if err != nil {
		return nil, err
	}
	return &postgresSession{db: db, batchSize: s.batchSize, logger: s.logger}, nil
}

func (s *PostgresSink) String() string {
	return fmt.Sprintf("postgres://%s:%d/%s", s.config.Host, s.config.Port, s.config.DBName)
}

type postgresSession struct {
	db        *gorm.DB
	batchSize int
	logger    *utils.ETLLogger
}

// Append вставляет строки пачками в одной транзакции
func (s *postgresSession) Append(ctx context.Context, table string, data *dataset.Dataset) (int, error) {
	records := data.Records()
	if len(records) == 0 {
		return 0, nil
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, b := range batchBounds(len(records), s.batchSize) {
			if err := tx.Table(table).Create(records[b[0]:b[1]]).Error; err != nil {
				return fmt.Errorf("ошибка вставки строк %d-%d в %s: %w", b[0], b[1], table, err)
			}
			s.logger.Debug("Вставлено строк в %s: %d", table, b[1])
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(records), nil
}

func (s *postgresSession) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
