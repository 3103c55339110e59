package dataset

import (
	"sort"
)

// AsFloat приводит числовое значение ячейки к float64
func AsFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// numbers собирает непустые числовые значения столбца
func (d *Dataset) numbers(column string) []float64 {
	idx, ok := d.index[column]
	if !ok {
		return nil
	}
	var values []float64
	for _, row := range d.rows {
		if f, ok := AsFloat(row[idx]); ok {
			values = append(values, f)
		}
	}
	return values
}

// Median возвращает медиану непустых значений столбца.
// При четном количестве значений берется среднее двух центральных
func (d *Dataset) Median(column string) (float64, bool) {
	values := d.numbers(column)
	if len(values) == 0 {
		return 0, false
	}
	sort.Float64s(values)
	mid := len(values) / 2
	if len(values)%2 == 1 {
		return values[mid], true
	}
	return (values[mid-1] + values[mid]) / 2, true
}

// Mean возвращает среднее арифметическое непустых значений столбца
func (d *Dataset) Mean(column string) (float64, bool) {
	values := d.numbers(column)
	if len(values) == 0 {
		return 0, false
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values)), true
}
