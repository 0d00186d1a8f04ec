package wbxml

import (
	"io"
	"reflect"
	"strconv"
)

// maxVarintBytes bounds the multi-byte varints in the prologue; WBXML
// allows arbitrarily long encodings but this subset only ever emits a
// single byte per prologue field, so anything beyond a handful of
// continuation bytes is almost certainly a corrupt stream.
const maxVarintBytes = 5

// Decoder reads a single record from a byte source as a WBXML document.
// It is not safe for concurrent use by multiple goroutines.
type Decoder struct {
	r          io.Reader
	activePage int // unshifted page number, shared across the whole parse tree
	offset     int
}

// Parse reads a WBXML document from source into a freshly constructed
// value of record's pointed-to type, and closes source on every exit
// path. record must be a non-nil pointer to a struct.
func Parse(source io.Reader, record interface{}) error {
	val := reflect.ValueOf(record)
	if val.Kind() != reflect.Ptr || val.IsNil() {
		return errf("wbxml: Parse requires a non-nil pointer, got %T", record)
	}

	defer func() {
		if c, ok := source.(io.Closer); ok {
			c.Close()
		}
	}()

	d := &Decoder{r: source}
	if err := d.readPrologue(); err != nil {
		return err
	}

	out, err := d.parseInner(val.Elem().Type())
	if err != nil {
		return err
	}
	val.Elem().Set(out)
	return nil
}

// readPrologue consumes the version byte and the three multi-byte
// varints (public id, charset, string-table length), then skips the
// string-table bytes themselves. Apart from the string-table length used
// for that skip, none of these values are interpreted: this subset never
// produces or expects a populated string table.
func (d *Decoder) readPrologue() error {
	if _, err := d.readByte(); err != nil { // version
		return unexpectedEOF(err)
	}
	if _, err := mbUint(d, maxVarintBytes); err != nil { // public id
		return unexpectedEOF(err)
	}
	if _, err := mbUint(d, maxVarintBytes); err != nil { // charset
		return unexpectedEOF(err)
	}
	length, err := mbUint(d, maxVarintBytes) // string-table length
	if err != nil {
		return unexpectedEOF(err)
	}
	for i := uint64(0); i < length; i++ {
		if _, err := d.readByte(); err != nil {
			return unexpectedEOF(err)
		}
	}
	return nil
}

// parseInner is the token-driven parse loop. It allocates a
// fresh value of t, dispatches known tags to their field-kind reader,
// skips unknown tags' balanced subtrees, and returns on END or on an EOF
// read where a tag is expected. EOF is tolerated this way in every frame,
// nested records included; EOF inside a field's content is an error.
func (d *Decoder) parseInner(t reflect.Type) (reflect.Value, error) {
	schema, err := schemaFor(t)
	if err != nil {
		return reflect.Value{}, err
	}

	out := reflect.New(t).Elem()

	for {
		b, err := d.readByte()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return reflect.Value{}, err
		}

		switch b {
		case tokSwitchPage:
			p, err := d.readByte()
			if err != nil {
				return reflect.Value{}, unexpectedEOF(err)
			}
			d.activePage = int(p)
		case tokEnd:
			return out, nil
		case tokStrI:
			return reflect.Value{}, &MalformedTokenError{Offset: d.offset, Msg: "inline string outside element content"}
		default:
			hasContent := b&tagContentMask != 0
			tg := tagFromIDByte(d.activePage, b)
			entry, ok := schema.byTag[tg]
			if !ok {
				if hasContent {
					if err := d.skipTag(); err != nil {
						return reflect.Value{}, err
					}
				}
				continue
			}
			if err := d.readFieldEntry(out.Field(entry.fieldIndex), *entry, hasContent); err != nil {
				return reflect.Value{}, err
			}
		}
	}
}

// skipTag discards a balanced element whose opener byte has already been
// consumed by the caller.
func (d *Decoder) skipTag() error {
	for {
		b, err := d.readByte()
		if err != nil {
			return unexpectedEOF(err)
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
			if _, err := d.readCString(); err != nil {
				return unexpectedEOF(err)
			}
		default:
			if b&tagContentMask != 0 {
				if err := d.skipTag(); err != nil {
					return err
				}
			}
		}
	}
}

func (d *Decoder) readFieldEntry(fv reflect.Value, entry schemaEntry, hasContent bool) error {
	switch entry.kind {
	case kindString:
		s, err := d.readStringContent(hasContent)
		if err != nil {
			return err
		}
		fv.SetString(s)
		return nil

	case kindInteger:
		n, err := d.readIntContent(entry.tag, hasContent)
		if err != nil {
			return err
		}
		fv.SetInt(n)
		return nil

	case kindBoolean:
		fv.SetBool(true)
		if hasContent {
			// Defensive: a well-formed `true` is empty-form, but if a
			// producer ever emitted a content-form boolean, consume it
			// rather than misaligning the stream.
			_, err := d.readStringContent(true)
			return err
		}
		return nil

	case kindNested:
		if !hasContent {
			return nil
		}
		val, err := d.parseInner(entry.elemType)
		if err != nil {
			return err
		}
		ptr := reflect.New(entry.elemType)
		ptr.Elem().Set(val)
		fv.Set(ptr)
		return nil

	case kindStreamable:
		if !hasContent {
			return nil
		}
		ptr := reflect.New(entry.elemType)
		stream := ptr.Interface().(Streamable)
		br := &boundedReader{d: d}
		if err := stream.ReadFromStream(br); err != nil {
			return err
		}
		if err := br.drain(); err != nil {
			return err
		}
		end, err := d.readByte()
		if err != nil {
			return unexpectedEOF(err)
		}
		if end != tokEnd {
			return &MalformedTokenError{Offset: d.offset, Msg: "expected END after streamable content"}
		}
		fv.Set(ptr)
		return nil

	case kindListString:
		if !hasContent {
			return nil
		}
		s, err := d.readStringContent(true)
		if err != nil {
			return err
		}
		fv.Set(reflect.Append(fv, reflect.ValueOf(s)))
		return nil

	case kindListInteger:
		if !hasContent {
			return nil
		}
		n, err := d.readIntContent(entry.tag, true)
		if err != nil {
			return err
		}
		elem := reflect.New(fv.Type().Elem()).Elem()
		elem.SetInt(n)
		fv.Set(reflect.Append(fv, elem))
		return nil

	case kindListNested:
		if !hasContent {
			return nil
		}
		val, err := d.parseInner(entry.elemType)
		if err != nil {
			return err
		}
		fv.Set(reflect.Append(fv, val))
		return nil

	default:
		return errf("unreachable field kind %d", entry.kind)
	}
}

func (d *Decoder) readIntContent(tg tag, hasContent bool) (int64, error) {
	s, err := d.readStringContent(hasContent)
	if err != nil {
		return 0, err
	}
	if s == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, &ContentFormatError{Tag: uint16(tg), Value: s, Err: err}
	}
	return n, nil
}

// readStringContent reads an inline-string element body given whether
// its opener carried the content bit. A content-form opener immediately
// followed by END (rather than STR_I) is treated as an empty string
// whose closing END has already been consumed — not as requiring a
// second END.
func (d *Decoder) readStringContent(hasContent bool) (string, error) {
	if !hasContent {
		return "", nil
	}

	b, err := d.readByte()
	if err != nil {
		return "", unexpectedEOF(err)
	}
	if b == tokEnd {
		return "", nil
	}
	if b != tokStrI {
		return "", &MalformedTokenError{Offset: d.offset, Msg: "expected inline string"}
	}

	buf, err := d.readCString()
	if err != nil {
		return "", unexpectedEOF(err)
	}

	end, err := d.readByte()
	if err != nil {
		return "", unexpectedEOF(err)
	}
	if end != tokEnd {
		return "", &MalformedTokenError{Offset: d.offset, Msg: "expected END after inline string"}
	}
	return string(buf), nil
}
