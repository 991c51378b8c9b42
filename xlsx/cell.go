package xlsx

import (
	"fmt"
	"strconv"
	"time"
)

// CellType is the type of cell value type.
type CellType int

// Cell value types enumeration.
const (
	CellTypeBlank CellType = iota
	CellTypeBool
	CellTypeNumber
	CellTypeSharedString
	CellTypeDate
	CellTypeDateTime
	CellTypeFormula
)

// CellValue is one cell's content together with the rules for encoding
// it. The zero value is a single blank cell.
type CellValue struct {
	typ    CellType
	text   string // shared string content or formula expression
	num    string // rendered numeric form
	truth  bool
	cached string // cached formula result
	hasRes bool
	span   int // blank run length
}

// Type reports how the value will be encoded.
func (c CellValue) Type() CellType { return c.typ }

// Text makes a cell whose content goes through the workbook's shared
// string table.
func Text(s string) CellValue {
	return CellValue{typ: CellTypeSharedString, text: s}
}

// Bool makes a boolean cell, serialized as "1" or "0".
func Bool(v bool) CellValue {
	return CellValue{typ: CellTypeBool, truth: v}
}

// Number makes a numeric cell.
func Number(v float64) CellValue {
	return CellValue{typ: CellTypeNumber, num: formatNumber(v)}
}

// Int makes a numeric cell from an integer.
func Int(v int64) CellValue {
	return CellValue{typ: CellTypeNumber, num: strconv.FormatInt(v, 10)}
}

// Blank makes a run of span consecutive blank cells. Blank cells emit
// no element; they only advance the column position within a row.
func Blank(span int) CellValue {
	if span < 1 {
		span = 1
	}
	return CellValue{typ: CellTypeBlank, span: span}
}

// Date makes a date cell. Only the calendar day of t is kept; the value
// is written as an Excel serial number with the built-in date format.
func Date(t time.Time) CellValue {
	return CellValue{typ: CellTypeDate, num: formatNumber(dateSerial(t))}
}

// DateTime makes a date-time cell, written as an Excel serial number
// with a fractional day component and the built-in date-time format.
func DateTime(t time.Time) CellValue {
	return CellValue{typ: CellTypeDateTime, num: formatNumber(dateTimeSerial(t))}
}

// Formula makes a cell holding the literal formula expression. The
// expression is stored, not evaluated.
func Formula(expr string) CellValue {
	return CellValue{typ: CellTypeFormula, text: expr}
}

// FormulaValue is Formula with a pre-computed result, emitted alongside
// the expression so readers without formula evaluation can display it.
func FormulaValue(expr, result string) CellValue {
	return CellValue{typ: CellTypeFormula, text: expr, cached: result, hasRes: true}
}

func (c CellValue) spanOrOne() int {
	if c.span < 1 {
		return 1
	}
	return c.span
}

// validate rejects text content that cannot be encoded in XML 1.0.
func (c CellValue) validate() error {
	switch c.typ {
	case CellTypeSharedString, CellTypeFormula:
		if err := validXMLText(c.text); err != nil {
			return err
		}
		if c.hasRes {
			return validXMLText(c.cached)
		}
	}
	return nil
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'G', -1, 64)
}

// toCellValue maps a literal value to its cell encoding: strings become
// shared strings, booleans booleans, integers and floats numbers,
// time.Time date-times, nil a single blank. Anything else is
// stringified.
func toCellValue(v any) CellValue {
	switch x := v.(type) {
	case CellValue:
		return x
	case nil:
		return Blank(1)
	case string:
		return Text(x)
	case bool:
		return Bool(x)
	case int:
		return Int(int64(x))
	case int8:
		return Int(int64(x))
	case int16:
		return Int(int64(x))
	case int32:
		return Int(int64(x))
	case int64:
		return Int(x)
	case uint:
		return Int(int64(x))
	case uint8:
		return Int(int64(x))
	case uint16:
		return Int(int64(x))
	case uint32:
		return Int(int64(x))
	case uint64:
		return Int(int64(x))
	case float32:
		return Number(float64(x))
	case float64:
		return Number(x)
	case time.Time:
		return DateTime(x)
	default:
		return Text(fmt.Sprint(x))
	}
}
