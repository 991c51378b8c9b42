package xlsx

import "fmt"

// ValidationError reports structural misuse of the workbook API: an
// invalid or duplicate sheet name, writing after close, a bad range.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return "xlsx: " + e.Reason }

func validationf(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// EncodingError reports cell text that cannot appear in well-formed
// XML 1.0 output.
type EncodingError struct {
	Rune rune // offending character
	Pos  int  // byte offset within the text
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("xlsx: character %U at byte %d is not representable in XML 1.0", e.Rune, e.Pos)
}

// IOError wraps a failure to create, write, or flush the destination.
type IOError struct {
	Op  string
	Err error
}

func (e *IOError) Error() string { return "xlsx: " + e.Op + ": " + e.Err.Error() }
func (e *IOError) Unwrap() error { return e.Err }

// ioErr returns nil when err is nil, so call sites can wrap
// unconditionally.
func ioErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &IOError{Op: op, Err: err}
}

// validXMLText rejects control characters that XML 1.0 cannot encode,
// even as entities. Tab, newline and carriage return stay legal.
func validXMLText(s string) error {
	for i, r := range s {
		if r < 0x20 && r != '\t' && r != '\n' && r != '\r' {
			return &EncodingError{Rune: r, Pos: i}
		}
	}
	return nil
}
