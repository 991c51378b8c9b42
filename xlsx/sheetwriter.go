package xlsx

import "github.com/adnsv/srw/xml"

// SheetWriter appends rows to one sheet while Workbook.WriteSheet runs.
// It streams worksheet XML into the sheet's part buffer and registers
// text cells with the workbook's shared string table. A SheetWriter is
// only valid inside the body callback it was handed to.
type SheetWriter struct {
	sheet  *Sheet
	shared *SharedStrings
	x      *xml.Writer
	err    error
	done   bool
}

func newSheetWriter(sheet *Sheet, shared *SharedStrings) *SheetWriter {
	x := xml.NewWriter(&sheet.part, xml.WriterConfig{Indent: xml.Indent2Spaces})

	x.XmlStandaloneDecl()
	x.OTag("worksheet")
	x.Attr("xmlns", nsMain)
	x.Attr("xmlns:r", nsDocRels)

	if len(sheet.columns) > 0 {
		x.OTag("+cols")
		for i, col := range sheet.columns {
			x.OTag("+col").Attr("min", i+1).Attr("max", i+1)
			if col.Width > 0 {
				x.Attr("width", col.Width).Attr("customWidth", 1)
			}
			x.CTag()
		}
		x.CTag()
	}

	x.OTag("+sheetData")

	return &SheetWriter{sheet: sheet, shared: shared, x: x}
}

// AppendRow writes row at the current cursor row number, then advances
// the cursor. A failed append makes the writer, and its sheet,
// unusable.
func (w *SheetWriter) AppendRow(row Row) error {
	if w.done {
		return validationf("sheet writer for %q is closed", w.sheet.name)
	}
	if w.err != nil {
		return w.err
	}
	for _, c := range row.cells {
		if err := c.validate(); err != nil {
			w.err = err
			return err
		}
	}

	r := w.sheet.nextRow
	w.sheet.nextRow++

	x := w.x
	x.OTag("+row").Attr("r", r)
	col := 0
	for _, c := range row.cells {
		if c.typ == CellTypeBlank {
			col += c.spanOrOne()
			continue
		}
		ref := CellRef(col, r)
		x.OTag("+c").Attr("r", ref)

		switch c.typ {
		case CellTypeBool:
			x.Attr("t", "b")
			v := "0"
			if c.truth {
				v = "1"
			}
			x.OTag("v").Write(v).CTag()
		case CellTypeNumber:
			x.OTag("v").Write(c.num).CTag()
		case CellTypeDate:
			x.Attr("s", styleDate)
			x.OTag("v").Write(c.num).CTag()
		case CellTypeDateTime:
			x.Attr("s", styleDateTime)
			x.OTag("v").Write(c.num).CTag()
		case CellTypeSharedString:
			x.Attr("t", "s")
			x.OTag("v").Write(w.shared.Add(c.text)).CTag()
		case CellTypeFormula:
			x.Attr("t", "str")
			x.OTag("f").Write(c.text).CTag()
			if c.hasRes {
				x.OTag("v").Write(c.cached).CTag()
			}
			w.sheet.formulaRefs = append(w.sheet.formulaRefs, ref)
		}

		x.CTag() // c
		col++
	}
	x.CTag() // row

	return nil
}

// AppendBlankRows advances the row cursor by n without emitting any
// row content; the next AppendRow lands n rows further down.
func (w *SheetWriter) AppendBlankRows(n int) {
	if w.done || w.err != nil || n < 1 {
		return
	}
	w.sheet.nextRow += n
}

// MergeCells merges the inclusive range between start and end.
// Columns are zero-based indices, rows 1-based numbers.
func (w *SheetWriter) MergeCells(startCol, startRow, endCol, endRow int) error {
	if w.done {
		return validationf("sheet writer for %q is closed", w.sheet.name)
	}
	if startCol < 0 || startRow < 1 || endCol < startCol || endRow < startRow {
		return validationf("invalid merge range (%d,%d)-(%d,%d)",
			startCol, startRow, endCol, endRow)
	}
	w.sheet.merges = append(w.sheet.merges, mergedRange{
		from: CellRef(startCol, startRow),
		to:   CellRef(endCol, endRow),
	})
	return nil
}

// MergeRange merges cells between two A1-style references, e.g. "B3"
// and "C5".
func (w *SheetWriter) MergeRange(from, to string) {
	w.sheet.merges = append(w.sheet.merges, mergedRange{from: from, to: to})
}

// finish closes the worksheet document. It runs on every exit path of
// WriteSheet, success or failure.
func (w *SheetWriter) finish() {
	if w.done {
		return
	}
	w.done = true

	x := w.x
	x.CTag() // sheetData

	if w.sheet.autoFilter != "" {
		x.OTag("+autoFilter").Attr("ref", w.sheet.autoFilter).CTag()
	}
	if len(w.sheet.merges) > 0 {
		x.OTag("+mergeCells").Attr("count", len(w.sheet.merges))
		for _, m := range w.sheet.merges {
			x.OTag("+mergeCell").Attr("ref", m.from+":"+m.to).CTag()
		}
		x.CTag()
	}

	x.CTag() // worksheet
}
