package xlsx

import "strconv"

// Row is an ordered sequence of cell values destined for one worksheet
// row. Cells map left-to-right to columns starting at index 0.
type Row struct {
	cells []CellValue
}

// NewRow builds a row from heterogeneous literal values, converting
// each one with the rules of toCellValue. Use Blank(n) inline to skip
// columns without enumerating each one.
func NewRow(values ...any) Row {
	var r Row
	for _, v := range values {
		r.Add(toCellValue(v))
	}
	return r
}

// Add appends one cell value to the row.
func (r *Row) Add(c CellValue) {
	r.cells = append(r.cells, c)
}

// Len is the number of cell slots the row occupies, counting the full
// width of blank runs.
func (r *Row) Len() int {
	n := 0
	for _, c := range r.cells {
		if c.typ == CellTypeBlank {
			n += c.spanOrOne()
		} else {
			n++
		}
	}
	return n
}

// ColumnLetters encodes a zero-based column index as base-26 letters:
// 0 -> "A", 25 -> "Z", 26 -> "AA", 702 -> "AAA".
func ColumnLetters(index int) string {
	if index < 0 {
		panic("xlsx: negative column index")
	}
	var s string
	n := index + 1
	for n > 0 {
		s = string(rune('A'+(n-1)%26)) + s
		n = (n - 1) / 26
	}
	return s
}

// CellRef is the A1-style address of a cell: zero-based column index,
// 1-based row number.
func CellRef(col, row int) string {
	if row < 1 {
		panic("xlsx: invalid row number")
	}
	return ColumnLetters(col) + strconv.Itoa(row)
}
