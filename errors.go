package wbxml

import (
	"fmt"
	"io"
)

func errf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}

// unexpectedEOF turns a plain io.EOF encountered mid-element into
// io.ErrUnexpectedEOF; io.EOF itself is only tolerated at the very top
// level of parseInner.
func unexpectedEOF(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}

// SchemaError is returned when a record type cannot be reflected into a
// schema: duplicate tags, non-contiguous indices, or a field type outside
// the kinds this codec understands.
type SchemaError struct {
	Type string
	Msg  string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("wbxml: schema %s: %s", e.Type, e.Msg)
}

// MalformedTokenError is returned when a token appears where the grammar
// does not allow it: an inline string where a tag was expected, a tag
// opener inside a string body, or an unrecognized content byte.
type MalformedTokenError struct {
	Offset int
	Msg    string
}

func (e *MalformedTokenError) Error() string {
	return fmt.Sprintf("wbxml: malformed token at offset %d: %s", e.Offset, e.Msg)
}

// ContentFormatError is returned when an integer field's inline-string
// content is not valid decimal.
type ContentFormatError struct {
	Tag   uint16
	Value string
	Err   error
}

func (e *ContentFormatError) Error() string {
	return fmt.Sprintf("wbxml: tag %#x: %q is not valid decimal: %s", e.Tag, e.Value, e.Err)
}

func (e *ContentFormatError) Unwrap() error {
	return e.Err
}
