package wbxml

import (
	"bytes"
	"io"
	"reflect"
	"testing"
)

func typeOf(v interface{}) reflect.Type {
	return reflect.TypeOf(v)
}

// Fixture record types exercising each field kind this codec supports,
// rather than any real EAS payload — schema definitions for mail,
// contacts, or calendar records are out of this codec's scope.

// simpleName covers the single-string-field case: a lone string field
// at tag 0x45 (page 1, id 5), empty or not.
type simpleName struct {
	Name string `wbxml:"tag=0x45,index=0"`
}

// simpleInt covers a single integer field: tag 0x05 (page 0, id 5).
type simpleInt struct {
	N int `wbxml:"tag=0x05,index=0"`
}

// flagAndString covers a boolean field followed by a string field, both
// on page 0 (tags 0x06 and 0x07).
type flagAndString struct {
	Flag bool   `wbxml:"tag=0x06,index=0"`
	S    string `wbxml:"tag=0x07,index=1"`
}

// outer/inner cover a nested record: both tags decompose to page 1
// (0x45 -> id 5, 0x46 -> id 6), so entering Inner needs no extra
// SWITCH_PAGE.
type outer struct {
	Inner *inner `wbxml:"tag=0x45,index=0"`
}

type inner struct {
	X string `wbxml:"tag=0x46,index=0"`
}

// withList exercises list<string>.
type withList struct {
	Items []string `wbxml:"tag=0x45,index=0"`
}

// withIntList exercises list<integer>.
type withIntList struct {
	Nums []int `wbxml:"tag=0x45,index=0"`
}

// record/line exercise list<nested(R)>.
type record struct {
	Lines []line `wbxml:"tag=0x45,index=0"`
}

type line struct {
	Text string `wbxml:"tag=0x46,index=0"`
}

// blob implements Streamable over an in-memory byte slice, the simplest
// possible streamable hook: copy bytes in, copy bytes out.
type blob struct {
	Data []byte
}

func (b *blob) ReadFromStream(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	b.Data = data
	return nil
}

func (b *blob) WriteToStream(w io.Writer) error {
	_, err := w.Write(b.Data)
	return err
}

type withBlob struct {
	Blob *blob `wbxml:"tag=0x45,index=0"`
}

// The schema-error types below are used only to exercise deriveSchema
// failure paths; they are never encoded or decoded.

type dupTagSchema struct {
	A string `wbxml:"tag=0x45,index=0"`
	B string `wbxml:"tag=0x45,index=1"`
}

type gapIndexSchema struct {
	A string `wbxml:"tag=0x45,index=0"`
	B string `wbxml:"tag=0x46,index=2"`
}

type badTagRangeSchema struct {
	A string `wbxml:"tag=0x04,index=0"` // id 4 is reserved
}

type unsupportedFieldSchema struct {
	A float64 `wbxml:"tag=0x45,index=0"`
}

type pageOutOfRangeSchema struct {
	A string `wbxml:"tag=0x4005,index=0"` // page 256, beyond SWITCH_PAGE's single byte
}

func mustEncode(t *testing.T, v interface{}) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := Serialize(v, &buf); err != nil {
		t.Fatalf("Serialize: %s", err)
	}
	return buf.Bytes()
}
