package extractors

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/LilVoxy/retail_pipeline/ETL/dataset"
	"github.com/LilVoxy/retail_pipeline/ETL/metrics"
	"github.com/LilVoxy/retail_pipeline/ETL/models"
	"github.com/LilVoxy/retail_pipeline/ETL/utils"
)

// Extractor координирует процесс извлечения исходных CSV-файлов
type Extractor struct {
	source  Source
	logger  *utils.ETLLogger
	metrics *metrics.ETLMetrics
}

// NewExtractor создает новый экземпляр Extractor
func NewExtractor(source Source, logger *utils.ETLLogger, m *metrics.ETLMetrics) *Extractor {
	return &Extractor{
		source:  source,
		logger:  logger,
		metrics: m,
	}
}

// Extract читает исходные файлы всех сущностей.
// Отсутствующий файл дает пустой (nil) набор и предупреждение, остальные ошибки прерывают извлечение
func (e *Extractor) Extract(ctx context.Context) (*models.ExtractedData, error) {
	startTime := time.Now()
	e.logger.LogExtractStart(e.source.String())

	var extractedData models.ExtractedData
	rows := make(map[string]int, len(models.AllEntities))

	for _, entity := range models.AllEntities {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("извлечение прервано: %w", err)
		}

		data, err := e.extractEntity(ctx, entity)
		if err != nil {
			e.logger.Error("Ошибка при извлечении %s: %v", entity, err)
			return nil, fmt.Errorf("ошибка извлечения %s: %w", entity, err)
		}

		extractedData.Set(entity, data)
		rows[entity.String()] = data.Len()
		e.metrics.ObserveExtracted(entity.String(), data.Len())
	}

	// Записываем время извлечения
	extractedData.ExtractedAt = time.Now()

	e.logger.LogExtractComplete(rows, time.Since(startTime))

	return &extractedData, nil
}

// extractEntity читает <тег>.csv, а при его отсутствии <тег>.csv.sz
func (e *Extractor) extractEntity(ctx context.Context, entity models.Entity) (*dataset.Dataset, error) {
	schema, err := entity.Schema()
	if err != nil {
		return nil, err
	}

	for _, name := range fileNames(entity) {
		data, err := e.readFile(ctx, name, schema)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return data, nil
	}

	e.logger.Warn("Файл %s.csv не найден в %s, данные %s отсутствуют", entity, e.source, entity)
	return nil, nil
}

func (e *Extractor) readFile(ctx context.Context, name string, schema []models.Column) (*dataset.Dataset, error) {
	r, err := e.source.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	data, invalid, err := ReadCSV(decompress(name, r), schema)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения %s: %w", name, err)
	}
	if invalid > 0 {
		e.logger.Debug("Файл %s: %d числовых значений не распознаны и заменены пустыми", name, invalid)
	}

	e.logger.Debug("Прочитан файл %s: %d строк", name, data.Len())
	return data, nil
}

func fileNames(entity models.Entity) []string {
	name := entity.String() + ".csv"
	return []string{name, name + snappySuffix}
}
