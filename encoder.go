package wbxml

import (
	"io"
	"reflect"
	"strconv"
)

// flusher is implemented by sinks that buffer and need an explicit flush
// (e.g. *bufio.Writer). Encoder duck-types it rather than requiring every
// io.Writer to satisfy a richer interface.
type flusher interface {
	Flush() error
}

// Encoder writes a single record to a byte sink as a WBXML document.
// It is not safe for concurrent use by multiple goroutines.
type Encoder struct {
	w          io.Writer
	activePage int
}

// NewEncoder returns an Encoder that writes to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w, activePage: initialEncodePage}
}

// Serialize writes record to sink as a complete WBXML document: the
// fixed prologue followed by one element per schema entry of record's
// type, and flushes the sink. record must be a struct or a pointer to
// one; its type's schema is derived (and cached) on first use.
func Serialize(record interface{}, sink io.Writer) error {
	return NewEncoder(sink).Serialize(record)
}

// Serialize is the Encoder method form of the package-level Serialize.
func (e *Encoder) Serialize(record interface{}) error {
	val := reflect.ValueOf(record)
	for val.Kind() == reflect.Ptr {
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		return &SchemaError{Type: val.Type().String(), Msg: "record must be a struct or pointer to struct"}
	}

	if _, err := e.w.Write(prologue[:]); err != nil {
		return err
	}

	if err := e.emitFields(val); err != nil {
		return err
	}

	if f, ok := e.w.(flusher); ok {
		return f.Flush()
	}
	return nil
}

func (e *Encoder) emitFields(val reflect.Value) error {
	schema, err := schemaFor(val.Type())
	if err != nil {
		return err
	}
	for _, entry := range schema.entries {
		if err := e.emitFieldEntry(val.Field(entry.fieldIndex), entry); err != nil {
			return err
		}
	}
	return nil
}

func (e *Encoder) emitFieldEntry(fv reflect.Value, entry schemaEntry) error {
	switch entry.kind {
	case kindString:
		return e.emitString(entry.tag, fv.String())
	case kindInteger:
		return e.emitString(entry.tag, strconv.FormatInt(fv.Int(), 10))
	case kindBoolean:
		return e.emitBool(entry.tag, fv.Bool())
	case kindNested:
		if fv.IsNil() {
			return nil
		}
		return e.emitNested(entry.tag, fv.Elem())
	case kindStreamable:
		if fv.IsNil() {
			return nil
		}
		return e.emitStreamable(entry.tag, fv.Interface().(Streamable))
	case kindListString:
		for i := 0; i < fv.Len(); i++ {
			if err := e.emitString(entry.tag, fv.Index(i).String()); err != nil {
				return err
			}
		}
		return nil
	case kindListInteger:
		for i := 0; i < fv.Len(); i++ {
			if err := e.emitString(entry.tag, strconv.FormatInt(fv.Index(i).Int(), 10)); err != nil {
				return err
			}
		}
		return nil
	case kindListNested:
		for i := 0; i < fv.Len(); i++ {
			if err := e.emitNested(entry.tag, fv.Index(i)); err != nil {
				return err
			}
		}
		return nil
	default:
		return errf("unreachable field kind %d", entry.kind)
	}
}

// switchPage emits SWITCH_PAGE when tg's page differs from the active
// one. activePage is a single field carried across the whole recursive
// emission, including into and out of nested records.
func (e *Encoder) switchPage(tg tag) error {
	page := tg.page()
	if page == e.activePage {
		return nil
	}
	e.activePage = page
	if err := writeByte(e.w, tokSwitchPage); err != nil {
		return err
	}
	return writeByte(e.w, byte(page))
}

func (e *Encoder) emitBool(tg tag, v bool) error {
	if !v {
		return nil
	}
	if err := e.switchPage(tg); err != nil {
		return err
	}
	return writeByte(e.w, tg.id())
}

func (e *Encoder) emitString(tg tag, s string) error {
	if err := e.switchPage(tg); err != nil {
		return err
	}
	if err := writeByte(e.w, tg.id()|tagContentMask); err != nil {
		return err
	}
	if err := writeByte(e.w, tokStrI); err != nil {
		return err
	}
	if _, err := io.WriteString(e.w, s); err != nil {
		return err
	}
	if err := writeByte(e.w, 0x00); err != nil {
		return err
	}
	return writeByte(e.w, tokEnd)
}

func (e *Encoder) emitStreamable(tg tag, s Streamable) error {
	if err := e.switchPage(tg); err != nil {
		return err
	}
	if err := writeByte(e.w, tg.id()|tagContentMask); err != nil {
		return err
	}
	if err := writeByte(e.w, tokStrI); err != nil {
		return err
	}
	if err := s.WriteToStream(streamWriter{e.w}); err != nil {
		return err
	}
	if err := writeByte(e.w, 0x00); err != nil {
		return err
	}
	return writeByte(e.w, tokEnd)
}

func (e *Encoder) emitNested(tg tag, val reflect.Value) error {
	if err := e.switchPage(tg); err != nil {
		return err
	}
	if err := writeByte(e.w, tg.id()|tagContentMask); err != nil {
		return err
	}
	if err := e.emitFields(val); err != nil {
		return err
	}
	return writeByte(e.w, tokEnd)
}
