// Package wbxml maps schema-annotated Go record types to and from the
// subset of WAP Binary XML used by Exchange ActiveSync: inline strings
// only, no string table, no OPAQUE, no attributes, no entities, no
// extension tokens, no processing instructions.
//
// A record's wire shape is declared with a struct tag naming a 16-bit
// composite tag and a field index:
//
//	type Contact struct {
//		Name  string `wbxml:"tag=0x45,index=0"`
//		Email string `wbxml:"tag=0x46,index=1"`
//	}
//
// Serialize writes a record to a byte sink; Parse reads one back from a
// byte source. Both consult a process-wide schema cache keyed by the
// record's Go type, computed once per type and retained for the life of
// the process.
package wbxml

const (
	tokSwitchPage = 0x00 // next byte selects the new tag code page
	tokEnd        = 0x01 // closes the current element
	tokStrI       = 0x03 // inline NUL-terminated UTF-8 string follows

	tagContentMask = 0x40 // set in a tag id byte when the element has content
	tagPageShift   = 6
	tagPageMask    = 0x3F

	// wbxmlVersion, publicIDUnknown and charsetUTF8 are the fixed
	// prologue values this subset always writes and always expects.
	wbxmlVersion    = 0x03
	publicIDUnknown = 0x01
	charsetUTF8     = 106

	// initialEncodePage is a sentinel distinct from any real page
	// number, forcing a SWITCH_PAGE on the very first emitted tag
	// regardless of which page it belongs to.
	initialEncodePage = 2220
)

// prologue is the fixed 4-byte sequence every serialized document begins
// with: version, public id, charset, and an empty string-table length.
var prologue = [4]byte{wbxmlVersion, publicIDUnknown, charsetUTF8, 0x00}

// tag is a composite of a code page number and an id within that page,
// packed as (page<<6)|id. It is widened to 16 bits, rather than the
// single byte a wire id occupies, so a schema entry can name its page
// and id together ahead of any SWITCH_PAGE the encoder or decoder
// emits or consumes for it.
type tag uint16

func newTag(page int, id byte) tag {
	return tag(page<<tagPageShift) | tag(id&tagPageMask)
}

func (t tag) page() int {
	return int(t >> tagPageShift)
}

func (t tag) id() byte {
	return byte(t) & tagPageMask
}

// tagFromIDByte combines a raw WBXML id byte (as read from the wire,
// still carrying its content bit) with the decoder's currently active
// page — an unshifted page number — into a full 16-bit tag.
func tagFromIDByte(activePage int, idByte byte) tag {
	return tag(activePage<<tagPageShift) | tag(idByte&tagPageMask)
}
