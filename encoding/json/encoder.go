package json

import (
	"errors"
	"fmt"
	"io"

	"github.com/arnodel/jtlstream/internal/format"
	"github.com/arnodel/jtlstream/token"
)

// ErrMalformedStream is returned when the token stream given to an Encoder
// does not encode a sequence of JSON values.
var ErrMalformedStream = errors.New("malformed token stream")

// An Encoder writes JSON values as JSON lines: each value is printed compactly
// on a single line, followed by the Printer's line separator.
type Encoder struct {
	format.Printer
	*format.Colorizer
}

var _ token.StreamSink = &Encoder{}

// NewEncoder returns an Encoder writing to w with "\n" line separators and no
// colors.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{Printer: &format.DefaultPrinter{Writer: w}}
}

// Consume writes every value in the stream, one per line, until the stream is
// closed.
//
// An error is returned if the stream is malformed or if the Printer could
// not perform some writing operation, e.g. when writing to a closed pipe.
func (e *Encoder) Consume(stream <-chan token.Token) (err error) {
	defer format.CatchPrinterError(&err)
	r := token.ChannelReadStream(stream)
	for {
		tok := r.Next()
		if tok == nil {
			return nil
		}
		if err := e.writeValue(tok, r); err != nil {
			return err
		}
		e.NewLine()
	}
}

// Encode reads exactly one value from r and writes it as a line.
func (e *Encoder) Encode(r token.ReadStream) (err error) {
	defer format.CatchPrinterError(&err)
	if err := e.writeValue(r.Next(), r); err != nil {
		return err
	}
	e.NewLine()
	return nil
}

func (e *Encoder) writeValue(tok token.Token, r token.ReadStream) error {
	switch t := tok.(type) {
	case *token.Scalar:
		if t.IsKey() {
			return fmt.Errorf("%w: key %s outside of an object", ErrMalformedStream, t)
		}
		e.Colorizer.PrintScalar(e.Printer, t)
		return nil
	case *token.StartObject:
		return e.writeObject(r)
	case *token.StartArray:
		return e.writeArray(r)
	default:
		return fmt.Errorf("%w: expected a value, got %v", ErrMalformedStream, tok)
	}
}

func (e *Encoder) writeObject(r token.ReadStream) error {
	e.PrintBytes(openObjectBytes)
	for first := true; ; first = false {
		tok := r.Next()
		switch t := tok.(type) {
		case *token.EndObject:
			e.PrintBytes(closeObjectBytes)
			return nil
		case *token.Scalar:
			if !t.IsKey() {
				return fmt.Errorf("%w: expected a key, got %s", ErrMalformedStream, t)
			}
			if !first {
				e.PrintBytes(itemSeparatorBytes)
			}
			e.Colorizer.PrintScalar(e.Printer, t)
			e.PrintBytes(keyValueSeparatorBytes)
			if err := e.writeValue(r.Next(), r); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%w: expected a key or end of object, got %v", ErrMalformedStream, tok)
		}
	}
}

func (e *Encoder) writeArray(r token.ReadStream) error {
	e.PrintBytes(openArrayBytes)
	for first := true; ; first = false {
		tok := r.Next()
		if _, ok := tok.(*token.EndArray); ok {
			e.PrintBytes(closeArrayBytes)
			return nil
		}
		if !first {
			e.PrintBytes(itemSeparatorBytes)
		}
		if err := e.writeValue(tok, r); err != nil {
			return err
		}
	}
}

var (
	openObjectBytes        = []byte("{")
	closeObjectBytes       = []byte("}")
	openArrayBytes         = []byte("[")
	closeArrayBytes        = []byte("]")
	itemSeparatorBytes     = []byte(",")
	keyValueSeparatorBytes = []byte(":")
)
