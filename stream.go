package wbxml

import (
	"io"
	"reflect"
)

// Streamable is implemented by field types whose wire form is an inline
// string but whose bytes are produced or consumed by the caller rather
// than buffered as a single string value — large opaque blobs embedded
// in an EAS payload, for instance.
type Streamable interface {
	// ReadFromStream reads this value's content from a source that
	// behaves as though it ends at the first NUL byte of the
	// underlying WBXML stream: once that NUL is reached, further reads
	// return io.EOF.
	ReadFromStream(r io.Reader) error

	// WriteToStream writes this value's content. Implementations must
	// not emit a NUL byte: doing so would prematurely terminate the
	// inline string on decode.
	WriteToStream(w io.Writer) error
}

// streamableType is used by the schema reflector to recognize a pointer
// field whose pointer type implements Streamable (typically through
// methods on *T), distinguishing it from an ordinary nested record.
var streamableType = reflect.TypeOf((*Streamable)(nil)).Elem()

// boundedReader exposes the bytes of an inline string to a Streamable's
// ReadFromStream hook. It reads from the underlying decoder stream until
// it observes the terminating NUL, consumes that NUL, and returns
// io.EOF on every read after.
type boundedReader struct {
	d    *Decoder
	done bool
}

func (b *boundedReader) Read(p []byte) (int, error) {
	if b.done {
		return 0, io.EOF
	}
	n := 0
	for n < len(p) {
		c, err := b.d.readByte()
		if err != nil {
			return n, unexpectedEOF(err)
		}
		if c == 0 {
			b.done = true
			return n, io.EOF
		}
		p[n] = c
		n++
	}
	return n, nil
}

// drain consumes any bytes the hook left unread, up to and including the
// terminating NUL, so the decoder's position is always aligned on the
// trailing END regardless of how much of the stream the hook actually
// read.
func (b *boundedReader) drain() error {
	for !b.done {
		if _, err := b.Read(make([]byte, 64)); err != nil && err != io.EOF {
			return err
		}
	}
	return nil
}

// streamWriter hands the encoder's sink to a Streamable's WriteToStream
// hook directly; the caller is trusted not to emit a NUL byte.
type streamWriter struct {
	w io.Writer
}

func (s streamWriter) Write(p []byte) (int, error) {
	return s.w.Write(p)
}
