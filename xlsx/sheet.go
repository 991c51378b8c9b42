package xlsx

import "bytes"

// Column holds the width, in character units, of one worksheet column.
type Column struct {
	Width float64
}

type mergedRange struct {
	from, to string
}

type sheetState int

const (
	sheetOpen sheetState = iota
	sheetWritten
	sheetFailed
)

// Sheet is one worksheet, owned exclusively by its Workbook. Rows are
// appended through the SheetWriter passed to Workbook.WriteSheet; once
// the sheet has been written (or its write failed) it cannot be
// mutated again.
type Sheet struct {
	name        string
	id          int // 1-based position within the workbook
	columns     []Column
	autoFilter  string // "A1:D21" form, empty when unset
	merges      []mergedRange
	formulaRefs []string // cell references, in emission order

	part    bytes.Buffer // rendered worksheet XML
	nextRow int          // row cursor, 1-based
	state   sheetState
}

// Name returns the validated sheet name.
func (s *Sheet) Name() string { return s.name }

// AddColumn appends a column definition. Widths map to cells left to
// right; call before the sheet is written for them to take effect.
func (s *Sheet) AddColumn(width float64) {
	s.columns = append(s.columns, Column{Width: width})
}

// SetAutoFilter puts a filter dropdown on the given inclusive range.
// Columns are zero-based indices, rows 1-based numbers. Must be called
// before the sheet is written.
func (s *Sheet) SetAutoFilter(firstCol, firstRow, lastCol, lastRow int) error {
	if s.state != sheetOpen {
		return validationf("sheet %q can no longer be modified", s.name)
	}
	if firstCol < 0 || firstRow < 1 || lastCol < firstCol || lastRow < firstRow {
		return validationf("invalid auto filter range (%d,%d)-(%d,%d)",
			firstCol, firstRow, lastCol, lastRow)
	}
	s.autoFilter = CellRef(firstCol, firstRow) + ":" + CellRef(lastCol, lastRow)
	return nil
}
