package load

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"github.com/google/uuid"
	"google.golang.org/api/option"

	"github.com/LilVoxy/retail_pipeline/ETL/config"
	"github.com/LilVoxy/retail_pipeline/ETL/dataset"
	"github.com/LilVoxy/retail_pipeline/ETL/utils"
)

// BigQuerySink загружает витрины в набор данных BigQuery потоковой вставкой
type BigQuerySink struct {
	config          config.DatabaseConfig
	credentialsFile string
	batchSize       int
	logger          *utils.ETLLogger
}

// NewBigQuerySink создает новый экземпляр BigQuerySink
func NewBigQuerySink(cfg config.DatabaseConfig, credentialsFile string, batchSize int, logger *utils.ETLLogger) *BigQuerySink {
	return &BigQuerySink{
		config:          cfg,
		credentialsFile: credentialsFile,
		batchSize:       batchSize,
		logger:          logger,
	}
}

// Open создает клиент BigQuery
func (s *BigQuerySink) Open(ctx context.Context) (Session, error) {
	var opts []option.ClientOption
	if s.credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(s.credentialsFile))
	}

	client, err := bigquery.NewClient(ctx, s.config.Project, opts...)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания клиента BigQuery: %w", err)
	}
	return &bigQuerySession{
		client:    client,
		dataset:   s.config.Dataset,
		batchSize: s.batchSize,
		logger:    s.logger,
	}, nil
}

func (s *BigQuerySink) String() string {
	return fmt.Sprintf("bigquery://%s/%s", s.config.Project, s.config.Dataset)
}

type bigQuerySession struct {
	client    *bigquery.Client
	dataset   string
	batchSize int
	logger    *utils.ETLLogger
}

// martRow - строка витрины для потоковой вставки
type martRow struct {
	values   map[string]bigquery.Value
	insertID string
}

// Save реализует bigquery.ValueSaver
func (r *martRow) Save() (map[string]bigquery.Value, string, error) {
	return r.values, r.insertID, nil
}

func toMartRows(data *dataset.Dataset) []*martRow {
	columns := data.Columns()
	rows := make([]*martRow, data.Len())
	for i := range rows {
		values := make(map[string]bigquery.Value, len(columns))
		for j, v := range data.Row(i) {
			values[columns[j]] = v
		}
		rows[i] = &martRow{values: values, insertID: uuid.NewString()}
	}
	return rows
}

// Append отправляет строки пачками через Inserter
func (s *bigQuerySession) Append(ctx context.Context, table string, data *dataset.Dataset) (int, error) {
	if data.Len() == 0 {
		return 0, nil
	}

	inserter := s.client.Dataset(s.dataset).Table(table).Inserter()
	rows := toMartRows(data)

	for _, b := range batchBounds(len(rows), s.batchSize) {
		if err := inserter.Put(ctx, rows[b[0]:b[1]]); err != nil {
			return b[0], fmt.Errorf("ошибка вставки строк %d-%d в %s.%s: %w", b[0], b[1], s.dataset, table, err)
		}
		s.logger.Debug("Отправлено строк в %s.%s: %d", s.dataset, table, b[1])
	}
	return len(rows), nil
}

func (s *bigQuerySession) Close() error {
	return s.client.Close()
}
