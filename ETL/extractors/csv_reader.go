package extractors

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/golang/snappy"

	"github.com/LilVoxy/retail_pipeline/ETL/dataset"
	"github.com/LilVoxy/retail_pipeline/ETL/models"
)

// snappySuffix - расширение сжатых исходных файлов (snappy framing format)
const snappySuffix = ".sz"

// nullTokens - значения ячеек, которые считаются пустыми
var nullTokens = map[string]struct{}{
	"":      {},
	"#N/A":  {},
	"#NA":   {},
	"<NA>":  {},
	"N/A":   {},
	"n/a":   {},
	"NA":    {},
	"NULL":  {},
	"null":  {},
	"NaN":   {},
	"nan":   {},
	"-NaN":  {},
	"-nan":  {},
	"None":  {},
	"none":  {},
}

// decompress оборачивает reader распаковщиком snappy для файлов .sz
func decompress(name string, r io.Reader) io.Reader {
	if strings.HasSuffix(name, snappySuffix) {
		return snappy.NewReader(r)
	}
	return r
}

// ReadCSV читает CSV с заголовком в набор данных. Столбцы берутся из заголовка файла.
// Числовые столбцы схемы разбираются в float64, нераспознанные числа становятся пустыми.
// Даты остаются строками до очистки. Возвращает набор и количество нераспознанных чисел
func ReadCSV(r io.Reader, schema []models.Column) (*dataset.Dataset, int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, 0, errors.New("пустой файл без заголовка")
		}
		return nil, 0, fmt.Errorf("ошибка чтения заголовка: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	kinds := make(map[string]models.ColumnKind, len(schema))
	for _, c := range schema {
		kinds[c.Name] = c.Kind
	}

	data := dataset.New(header...)
	invalid := 0
	line := 1

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, invalid, fmt.Errorf("ошибка чтения строки %d: %w", line, err)
		}

		values := make([]any, len(header))
		for i, column := range header {
			if i >= len(record) {
				break
			}
			value, ok := parseCell(record[i], kinds[column])
			if !ok {
				invalid++
			}
			values[i] = value
		}

		if err := data.AppendRow(values...); err != nil {
			return nil, invalid, fmt.Errorf("ошибка добавления строки %d: %w", line, err)
		}
	}

	return data, invalid, nil
}

// parseCell преобразует ячейку по виду столбца. ok=false для нераспознанного числа
func parseCell(raw string, kind models.ColumnKind) (any, bool) {
	s := strings.TrimSpace(raw)
	if _, isNull := nullTokens[s]; isNull {
		return nil, true
	}

	if kind == models.KindNumber {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, false
		}
		return f, true
	}
	return raw, true
}
