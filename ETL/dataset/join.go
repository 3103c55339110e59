package dataset

const (
	leftSuffix  = "_x"
	rightSuffix = "_y"
)

// LeftJoin соединяет left и right по столбцу key, сохраняя все строки left.
// Строка left, для которой нашлось несколько строк right, размножается.
// Столбцы right без пары получают пустые значения, пустые ключи не сопоставляются.
// Совпадающие имена столбцов (кроме ключа) получают суффиксы _x и _y
func LeftJoin(left, right *Dataset, key string) *Dataset {
	if left == nil {
		return nil
	}
	if right == nil {
		return left.Clone()
	}

	// Определяем итоговые имена столбцов
	leftCols := make([]string, len(left.columns))
	for i, col := range left.columns {
		if col != key && right.Has(col) {
			leftCols[i] = col + leftSuffix
		} else {
			leftCols[i] = col
		}
	}

	var rightIdxs []int
	var rightCols []string
	for i, col := range right.columns {
		if col == key {
			continue
		}
		rightIdxs = append(rightIdxs, i)
		if left.Has(col) {
			rightCols = append(rightCols, col+rightSuffix)
		} else {
			rightCols = append(rightCols, col)
		}
	}

	result := New(append(leftCols, rightCols...)...)

	// Индекс строк right по значению ключа
	matches := make(map[any][]int)
	rightKey, rightHasKey := right.index[key]
	leftKey, leftHasKey := left.index[key]
	if rightHasKey && leftHasKey {
		for i, row := range right.rows {
			if row[rightKey] == nil {
				continue
			}
			matches[row[rightKey]] = append(matches[row[rightKey]], i)
		}
	}

	width := len(leftCols) + len(rightCols)
	for _, lrow := range left.rows {
		var found []int
		if leftHasKey && lrow[leftKey] != nil {
			found = matches[lrow[leftKey]]
		}

		if len(found) == 0 {
			row := make(Row, width)
			copy(row, lrow)
			result.rows = append(result.rows, row)
			continue
		}

		for _, ri := range found {
			row := make(Row, width)
			copy(row, lrow)
			for j, idx := range rightIdxs {
				row[len(leftCols)+j] = right.rows[ri][idx]
			}
			result.rows = append(result.rows, row)
		}
	}

	return result
}
