package dataset

import (
	"fmt"
)

// Row представляет одну строку набора данных. nil в ячейке означает отсутствие значения
type Row []any

// Dataset представляет табличный набор данных с упорядоченными именованными столбцами.
// Значения ячеек: nil, string, float64, bool или time.Time
type Dataset struct {
	columns []string
	index   map[string]int
	rows    []Row
}

// New создает пустой набор данных с указанными столбцами
func New(columns ...string) *Dataset {
	d := &Dataset{
		columns: make([]string, len(columns)),
		index:   make(map[string]int, len(columns)),
	}
	copy(d.columns, columns)
	for i, col := range d.columns {
		d.index[col] = i
	}
	return d
}

// AppendRow добавляет строку в конец набора данных
func (d *Dataset) AppendRow(values ...any) error {
	if len(values) != len(d.columns) {
		return fmt.Errorf("ожидалось %d значений, получено %d", len(d.columns), len(values))
	}
	row := make(Row, len(values))
	copy(row, values)
	d.rows = append(d.rows, row)
	return nil
}

// Columns возвращает копию списка столбцов в исходном порядке
func (d *Dataset) Columns() []string {
	cols := make([]string, len(d.columns))
	copy(cols, d.columns)
	return cols
}

// Has проверяет наличие столбца в схеме
func (d *Dataset) Has(column string) bool {
	_, ok := d.index[column]
	return ok
}

// Len возвращает количество строк
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.rows)
}

// Value возвращает значение ячейки. Для отсутствующего столбца возвращается nil
func (d *Dataset) Value(row int, column string) any {
	idx, ok := d.index[column]
	if !ok {
		return nil
	}
	return d.rows[row][idx]
}

// Set записывает значение в ячейку существующего столбца
func (d *Dataset) Set(row int, column string, value any) {
	if idx, ok := d.index[column]; ok {
		d.rows[row][idx] = value
	}
}

// Row возвращает копию строки
func (d *Dataset) Row(i int) Row {
	row := make(Row, len(d.rows[i]))
	copy(row, d.rows[i])
	return row
}

// Column возвращает копию значений столбца
func (d *Dataset) Column(column string) []any {
	idx, ok := d.index[column]
	if !ok {
		return nil
	}
	values := make([]any, len(d.rows))
	for i, row := range d.rows {
		values[i] = row[idx]
	}
	return values
}

// Clone создает структурно независимую копию набора данных
func (d *Dataset) Clone() *Dataset {
	if d == nil {
		return nil
	}
	clone := New(d.columns...)
	clone.rows = make([]Row, len(d.rows))
	for i, row := range d.rows {
		clone.rows[i] = make(Row, len(row))
		copy(clone.rows[i], row)
	}
	return clone
}

// DropNull удаляет строки, в которых хотя бы один из указанных столбцов пуст.
// Отсутствующие в схеме столбцы игнорируются. Возвращает количество удаленных строк
func (d *Dataset) DropNull(columns ...string) int {
	var idxs []int
	for _, col := range columns {
		if idx, ok := d.index[col]; ok {
			idxs = append(idxs, idx)
		}
	}
	if len(idxs) == 0 {
		return 0
	}

	kept := d.rows[:0]
	dropped := 0
	for _, row := range d.rows {
		missing := false
		for _, idx := range idxs {
			if row[idx] == nil {
				missing = true
				break
			}
		}
		if missing {
			dropped++
			continue
		}
		kept = append(kept, row)
	}
	d.rows = kept
	return dropped
}

// FillNull заменяет пустые значения столбца на value. Возвращает количество заполненных ячеек
func (d *Dataset) FillNull(column string, value any) int {
	idx, ok := d.index[column]
	if !ok || value == nil {
		return 0
	}
	filled := 0
	for _, row := range d.rows {
		if row[idx] == nil {
			row[idx] = value
			filled++
		}
	}
	return filled
}

// FillNullFrom заменяет пустые значения столбца значениями столбца source той же строки
func (d *Dataset) FillNullFrom(column, source string) int {
	idx, ok := d.index[column]
	srcIdx, srcOK := d.index[source]
	if !ok || !srcOK {
		return 0
	}
	filled := 0
	for _, row := range d.rows {
		if row[idx] == nil && row[srcIdx] != nil {
			row[idx] = row[srcIdx]
			filled++
		}
	}
	return filled
}

// WithColumn добавляет столбец или заменяет значения существующего
func (d *Dataset) WithColumn(column string, values []any) error {
	if len(values) != len(d.rows) {
		return fmt.Errorf("столбец %s: ожидалось %d значений, получено %d", column, len(d.rows), len(values))
	}
	if idx, ok := d.index[column]; ok {
		for i, row := range d.rows {
			row[idx] = values[i]
		}
		return nil
	}

	d.index[column] = len(d.columns)
	d.columns = append(d.columns, column)
	for i := range d.rows {
		d.rows[i] = append(d.rows[i], values[i])
	}
	return nil
}

// Records возвращает строки в виде отображений столбец → значение
func (d *Dataset) Records() []map[string]any {
	records := make([]map[string]any, len(d.rows))
	for i, row := range d.rows {
		record := make(map[string]any, len(d.columns))
		for j, col := range d.columns {
			record[col] = row[j]
		}
		records[i] = record
	}
	return records
}
