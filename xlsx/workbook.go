// Package xlsx produces spreadsheet documents in the OOXML package
// format (a zip archive of XML parts) from an in-memory description of
// workbook, sheets, and rows of typed cell values.
//
// A Workbook targets either a file path or an in-memory buffer, fixed
// at creation. Sheets are filled through the scoped writer passed to
// WriteSheet, and Close packages everything:
//
//	wb := xlsx.New("/tmp/report.xlsx")
//	sheet, err := wb.AddSheet("Report")
//	...
//	sheet.AddColumn(30)
//	err = wb.WriteSheet(sheet, func(sw *xlsx.SheetWriter) error {
//		if err := sw.AppendRow(xlsx.NewRow("Name", "Title")); err != nil {
//			return err
//		}
//		return sw.AppendRow(xlsx.NewRow("Amy", nil, true))
//	})
//	...
//	_, err = wb.Close()
//
// A Workbook is not safe for concurrent use; it expects exclusive
// ownership by one goroutine.
package xlsx

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// Workbook owns an ordered set of uniquely named sheets and the
// document-wide shared string table. Close is terminal: no mutation is
// valid afterward.
type Workbook struct {
	// AppName, when set, is recorded in the document's extended
	// properties.
	AppName string

	path     string // empty in memory mode
	sheets   []*Sheet
	sheetMap map[string]*Sheet
	shared   *SharedStrings
	closed   bool
}

// New opens a workbook targeting the given file path. Nothing is
// written to disk until Close; the destination is then replaced
// atomically, so no partial file is ever observable at path.
func New(path string) *Workbook {
	return &Workbook{
		path:     path,
		sheetMap: map[string]*Sheet{},
		shared:   newSharedStrings(),
	}
}

// NewInMemory opens a workbook that accumulates all output in memory;
// Close returns the completed archive bytes instead of writing a file.
func NewInMemory() *Workbook {
	return &Workbook{
		sheetMap: map[string]*Sheet{},
		shared:   newSharedStrings(),
	}
}

// AddSheet validates name and appends a new empty sheet. On violation
// it returns a ValidationError and creates nothing.
func (wb *Workbook) AddSheet(name string) (*Sheet, error) {
	if wb.closed {
		return nil, validationf("workbook is closed")
	}
	if _, exists := wb.sheetMap[name]; exists {
		return nil, validationf("duplicate sheet name %q", name)
	}
	if err := validateSheetName(name); err != nil {
		return nil, err
	}

	sheet := &Sheet{
		name:    name,
		id:      len(wb.sheets) + 1,
		nextRow: 1,
	}

	wb.sheets = append(wb.sheets, sheet)
	wb.sheetMap[name] = sheet

	return sheet, nil
}

func validateSheetName(s string) error {
	n := utf8.RuneCountInString(s)
	if n == 0 {
		return validationf("empty sheet name is not allowed")
	}
	if n > 31 {
		return validationf("sheet name %q is longer than 31 characters", s)
	}
	if strings.HasPrefix(s, "'") || strings.HasSuffix(s, "'") {
		return validationf("the first or last character of a sheet name can not be a single quote")
	}
	if strings.ContainsAny(s, ":\\/?*[]") {
		return validationf(`sheet name %q contains one of the characters :\/?*[]`, s)
	}
	return nil
}

// WriteSheet invokes body with a scoped writer bound to sheet and the
// workbook's shared string table. The worksheet document is finalized
// on every exit path; if body fails, its error is returned and the
// sheet permits no further mutation. Each sheet can be written exactly
// once.
func (wb *Workbook) WriteSheet(sheet *Sheet, body func(*SheetWriter) error) error {
	if wb.closed {
		return validationf("workbook is closed")
	}
	if sheet == nil || wb.sheetMap[sheet.name] != sheet {
		return validationf("sheet does not belong to this workbook")
	}
	switch sheet.state {
	case sheetWritten:
		return validationf("sheet %q has already been written", sheet.name)
	case sheetFailed:
		return validationf("sheet %q is unusable after a failed write", sheet.name)
	}

	sw := newSheetWriter(sheet, wb.shared)
	err := func() error {
		defer sw.finish()
		if err := body(sw); err != nil {
			return err
		}
		return sw.err
	}()
	if err != nil {
		sheet.state = sheetFailed
		return err
	}
	sheet.state = sheetWritten
	return nil
}

// hasFormulas reports whether any written sheet contains formula cells.
func (wb *Workbook) hasFormulas() bool {
	for _, s := range wb.sheets {
		if len(s.formulaRefs) > 0 {
			return true
		}
	}
	return false
}

// Close finalizes all sheets, serializes every package part, and
// packages them. In memory mode it returns the completed archive
// bytes; in file mode it returns nil bytes and flushes the archive to
// the destination path. Close is terminal, and a workbook with zero
// sheets cannot be closed.
func (wb *Workbook) Close() ([]byte, error) {
	if wb.closed {
		return nil, validationf("workbook is already closed")
	}
	wb.closed = true

	if len(wb.sheets) == 0 {
		return nil, validationf("workbook has no sheets")
	}
	for _, sheet := range wb.sheets {
		switch sheet.state {
		case sheetFailed:
			return nil, validationf("sheet %q was not written successfully", sheet.name)
		case sheetOpen:
			// Created but never written: finalize as an empty worksheet
			// so the manifest stays consistent.
			newSheetWriter(sheet, wb.shared).finish()
			sheet.state = sheetWritten
		}
	}

	if wb.path == "" {
		var buf bytes.Buffer
		if err := wb.writeArchive(&buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	return nil, wb.flushFile()
}

func (wb *Workbook) writeArchive(out io.Writer) error {
	zs := NewZipStorage(out)
	if err := newPartWriter(zs, wb).writeAll(); err != nil {
		return err
	}
	return ioErr("finalize archive", zs.Close())
}

// flushFile writes the archive to a temporary file next to the
// destination and renames it into place only after a clean finish. The
// handle is released on every path; on failure the temporary file is
// removed and the destination is left untouched.
func (wb *Workbook) flushFile() error {
	tmp, err := os.CreateTemp(filepath.Dir(wb.path), ".xlsx-*")
	if err != nil {
		return ioErr("create temporary file for "+wb.path, err)
	}
	name := tmp.Name()

	err = wb.writeArchive(tmp)
	if cerr := tmp.Close(); err == nil {
		err = ioErr("flush "+name, cerr)
	}
	if err == nil {
		err = ioErr("rename to "+wb.path, os.Rename(name, wb.path))
	}
	if err != nil {
		os.Remove(name)
	}
	return err
}
