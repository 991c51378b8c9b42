package xlsx

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddSheetNameValidation(t *testing.T) {
	wb := NewInMemory()

	_, err := wb.AddSheet("Sheet1")
	require.NoError(t, err)

	cases := []struct {
		name  string
		value string
	}{
		{"empty", ""},
		{"too long", strings.Repeat("a", 32)},
		{"slash", "bad/name"},
		{"backslash", `bad\name`},
		{"colon", "bad:name"},
		{"question mark", "bad?name"},
		{"asterisk", "bad*name"},
		{"brackets", "bad[name]"},
		{"leading quote", "'quoted"},
		{"duplicate", "Sheet1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := wb.AddSheet(tc.value)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
		})
	}

	// 31 runes is still fine, and a distinct name is accepted
	_, err = wb.AddSheet(strings.Repeat("b", 31))
	assert.NoError(t, err)
	_, err = wb.AddSheet("Sheet2")
	assert.NoError(t, err)
}

func TestAddSheetFailureCreatesNothing(t *testing.T) {
	wb := NewInMemory()
	_, err := wb.AddSheet("no/good")
	require.Error(t, err)
	assert.Empty(t, wb.sheets)
}

func TestCloseWithZeroSheets(t *testing.T) {
	wb := NewInMemory()
	_, err := wb.Close()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestCloseIsTerminal(t *testing.T) {
	wb := NewInMemory()
	sheet, err := wb.AddSheet("Sheet1")
	require.NoError(t, err)

	_, err = wb.Close()
	require.NoError(t, err)

	_, err = wb.Close()
	assert.Error(t, err)

	_, err = wb.AddSheet("Sheet2")
	assert.Error(t, err)

	err = wb.WriteSheet(sheet, func(sw *SheetWriter) error { return nil })
	assert.Error(t, err)
}

func TestWriteSheetBodyFailureAbortsSheet(t *testing.T) {
	wb := NewInMemory()
	sheet, err := wb.AddSheet("Sheet1")
	require.NoError(t, err)

	boom := errors.New("boom")
	err = wb.WriteSheet(sheet, func(sw *SheetWriter) error {
		require.NoError(t, sw.AppendRow(NewRow("a")))
		return boom
	})
	require.ErrorIs(t, err, boom)

	// the sheet permits no further mutation
	err = wb.WriteSheet(sheet, func(sw *SheetWriter) error { return nil })
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	// a workbook with an aborted sheet cannot close successfully
	_, err = wb.Close()
	require.ErrorAs(t, err, &verr)
}

func TestWriteSheetRejectsForeignSheet(t *testing.T) {
	wb1 := NewInMemory()
	wb2 := NewInMemory()
	sheet, err := wb2.AddSheet("Sheet1")
	require.NoError(t, err)

	err = wb1.WriteSheet(sheet, func(sw *SheetWriter) error { return nil })
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	err = wb1.WriteSheet(nil, func(sw *SheetWriter) error { return nil })
	require.ErrorAs(t, err, &verr)
}

func TestWriteSheetTwice(t *testing.T) {
	wb := NewInMemory()
	sheet, err := wb.AddSheet("Sheet1")
	require.NoError(t, err)

	require.NoError(t, wb.WriteSheet(sheet, func(sw *SheetWriter) error {
		return sw.AppendRow(NewRow(1))
	}))
	err = wb.WriteSheet(sheet, func(sw *SheetWriter) error { return nil })
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestAppendRowRejectsControlCharacters(t *testing.T) {
	wb := NewInMemory()
	sheet, err := wb.AddSheet("Sheet1")
	require.NoError(t, err)

	err = wb.WriteSheet(sheet, func(sw *SheetWriter) error {
		err := sw.AppendRow(NewRow("bad\x01text"))
		var eerr *EncodingError
		require.ErrorAs(t, err, &eerr)
		assert.Equal(t, rune(0x01), eerr.Rune)

		// the writer stays poisoned
		err2 := sw.AppendRow(NewRow("fine"))
		assert.Equal(t, err, err2)
		return err
	})
	require.Error(t, err)
}

func TestTabAndNewlineAreLegalText(t *testing.T) {
	wb := NewInMemory()
	sheet, err := wb.AddSheet("Sheet1")
	require.NoError(t, err)

	err = wb.WriteSheet(sheet, func(sw *SheetWriter) error {
		return sw.AppendRow(NewRow("line1\nline2\tend\r"))
	})
	assert.NoError(t, err)
}

func TestSetAutoFilterRanges(t *testing.T) {
	wb := NewInMemory()
	sheet, err := wb.AddSheet("Sheet1")
	require.NoError(t, err)

	var verr *ValidationError
	require.ErrorAs(t, sheet.SetAutoFilter(0, 0, 0, 0), &verr)
	require.ErrorAs(t, sheet.SetAutoFilter(0, 3, 2, 2), &verr)
	require.ErrorAs(t, sheet.SetAutoFilter(23, 1, 2, 2), &verr)
	assert.Empty(t, sheet.autoFilter)

	require.NoError(t, sheet.SetAutoFilter(0, 1, 0, 1))
	assert.Equal(t, "A1:A1", sheet.autoFilter)

	require.NoError(t, sheet.SetAutoFilter(0, 1, 3, 21))
	assert.Equal(t, "A1:D21", sheet.autoFilter)

	require.NoError(t, sheet.SetAutoFilter(3, 1, 19, 455))
	assert.Equal(t, "D1:T455", sheet.autoFilter)
}

func TestMergeCellsValidation(t *testing.T) {
	wb := NewInMemory()
	sheet, err := wb.AddSheet("Sheet1")
	require.NoError(t, err)

	err = wb.WriteSheet(sheet, func(sw *SheetWriter) error {
		var verr *ValidationError
		require.ErrorAs(t, sw.MergeCells(2, 2, 1, 2), &verr)
		require.ErrorAs(t, sw.MergeCells(0, 2, 0, 1), &verr)
		require.NoError(t, sw.MergeCells(0, 1, 1, 2))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []mergedRange{{from: "A1", to: "B2"}}, sheet.merges)
}
