package wbxml

import (
	"fmt"
	"io"
	"strings"
)

// Dump writes a human-readable rendering of a raw WBXML document read
// from r to w, without requiring a Go record type to interpret it
// against — useful for inspecting a captured payload by hand. It is a
// diagnostic tool, not part of the Serialize/Parse path, and walks the
// raw tag/page/id structure directly since nothing here carries
// field-kind information.
func Dump(w io.Writer, r io.Reader) error {
	d := &dumpReader{r: r}
	if err := d.prologue(w); err != nil {
		return err
	}
	return d.elements(w, 0)
}

type dumpReader struct {
	r          io.Reader
	activePage int
	offset     int
}

func (d *dumpReader) readByte() (byte, error) {
	var b [1]byte
	n, err := io.ReadFull(d.r, b[:])
	d.offset += n
	if err == io.ErrUnexpectedEOF {
		err = io.EOF
	}
	return b[0], err
}

func (d *dumpReader) prologue(w io.Writer) error {
	version, err := d.readByte()
	if err != nil {
		return unexpectedEOF(err)
	}
	publicID, err := mbUint(d, maxVarintBytes)
	if err != nil {
		return unexpectedEOF(err)
	}
	charset, err := mbUint(d, maxVarintBytes)
	if err != nil {
		return unexpectedEOF(err)
	}
	length, err := mbUint(d, maxVarintBytes)
	if err != nil {
		return unexpectedEOF(err)
	}
	for i := uint64(0); i < length; i++ {
		if _, err := d.readByte(); err != nil {
			return unexpectedEOF(err)
		}
	}
	_, err = fmt.Fprintf(w, "version=%#x publicid=%d charset=%d strtbl=%d\n", version, publicID, charset, length)
	return err
}

// elements walks tokens until END or EOF, recursing one level per nested
// content-form element — the same shape as Decoder.skipTag, but printing
// instead of discarding.
func (d *dumpReader) elements(w io.Writer, depth int) error {
	for {
		b, err := d.readByte()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		switch b {
		case tokSwitchPage:
			p, err := d.readByte()
			if err != nil {
				return unexpectedEOF(err)
			}
			d.activePage = int(p)
		case tokEnd:
			return nil
		case tokStrI:
			s, err := readCStringFrom(d)
			if err != nil {
				return unexpectedEOF(err)
			}
			if _, err := fmt.Fprintf(w, "%sSTR %q\n", pad(depth), string(s)); err != nil {
				return err
			}
		default:
			hasContent := b&tagContentMask != 0
			tg := tagFromIDByte(d.activePage, b)
			if _, err := fmt.Fprintf(w, "%sTAG page=%d id=%#x content=%v\n", pad(depth), tg.page(), tg.id(), hasContent); err != nil {
				return err
			}
			if hasContent {
				if err := d.elements(w, depth+1); err != nil {
					return err
				}
			}
		}
	}
}

func pad(depth int) string {
	return strings.Repeat("  ", depth)
}
