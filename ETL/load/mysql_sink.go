package load

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/LilVoxy/retail_pipeline/ETL/config"
	"github.com/LilVoxy/retail_pipeline/ETL/dataset"
	"github.com/LilVoxy/retail_pipeline/ETL/utils"
)

// MySQLSink загружает витрины в MySQL
type MySQLSink struct {
	config    config.DatabaseConfig
	batchSize int
	logger    *utils.ETLLogger
}

// NewMySQLSink создает новый экземпляр MySQLSink
func NewMySQLSink(cfg config.DatabaseConfig, batchSize int, logger *utils.ETLLogger) *MySQLSink {
	return &MySQLSink{
		config:    cfg,
		batchSize: batchSize,
		logger:    logger,
	}
}

// Open подключается к MySQL
func (s *MySQLSink) Open(ctx context.Context) (Session, error) {
	db, err := config.ConnectMySQL(ctx, s.config)
	if err != nil {
		return nil, err
	}
	return &mysqlSession{db: db, batchSize: s.batchSize, logger: s.logger}, nil
}

func (s *MySQLSink) String() string {
	return fmt.Sprintf("mysql://%s:%d/%s", s.config.Host, s.config.Port, s.config.DBName)
}

type mysqlSession struct {
	db        *sql.DB
	batchSize int
	logger    *utils.ETLLogger
}

// Append вставляет строки многострочными INSERT в одной транзакции
func (s *mysqlSession) Append(ctx context.Context, table string, data *dataset.Dataset) (int, error) {
	if data.Len() == 0 {
		return 0, nil
	}
	columns := data.Columns()

	// Начинаем транзакцию
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("ошибка при начале транзакции: %w", err)
	}

	for _, b := range batchBounds(data.Len(), s.batchSize) {
		query := buildInsertQuery(table, columns, b[1]-b[0])

		args := make([]any, 0, len(columns)*(b[1]-b[0]))
		for i := b[0]; i < b[1]; i++ {
			args = append(args, data.Row(i)...)
		}

		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("ошибка вставки строк %d-%d в %s: %w", b[0], b[1], table, err)
		}
		s.logger.Debug("Вставлено строк в %s: %d", table, b[1])
	}

	// Фиксируем транзакцию
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("ошибка при фиксации транзакции: %w", err)
	}
	return data.Len(), nil
}

func (s *mysqlSession) Close() error {
	return s.db.Close()
}

// buildInsertQuery строит INSERT для rows строк с плейсхолдерами
func buildInsertQuery(table string, columns []string, rows int) string {
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = quoteIdentifier(c)
	}

	placeholders := "(" + strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ") + ")"
	values := make([]string, rows)
	for i := range values {
		values[i] = placeholders
	}

	return fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
		quoteIdentifier(table), strings.Join(quoted, ", "), strings.Join(values, ", "))
}

func quoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}
