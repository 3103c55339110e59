package dataset

import (
	"strings"
	"time"
)

// dateLayouts перечисляет поддерживаемые форматы дат в исходных файлах
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006/01/02",
	"01/02/2006",
}

// ParseDate преобразует значение ячейки в дату. Значения time.Time возвращаются как есть
func ParseDate(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		s := strings.TrimSpace(t)
		for _, layout := range dateLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				return parsed, true
			}
		}
	}
	return time.Time{}, false
}

// ParseDates преобразует столбец в даты. Нераспознанные значения становятся пустыми.
// Возвращает количество значений, которые не удалось распознать
func (d *Dataset) ParseDates(column string) int {
	idx, ok := d.index[column]
	if !ok {
		return 0
	}
	invalid := 0
	for _, row := range d.rows {
		if row[idx] == nil {
			continue
		}
		if t, ok := ParseDate(row[idx]); ok {
			row[idx] = t
		} else {
			row[idx] = nil
			invalid++
		}
	}
	return invalid
}
