package jtl

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/arnodel/jtlstream/encoding/json"
	"github.com/arnodel/jtlstream/internal/format"
	"github.com/arnodel/jtlstream/token"
)

// A Transcoder converts an XML test results log into JSON lines, one line per
// top-level sample.
type Transcoder struct {
	decoder *Decoder
	out     *bufio.Writer
	encoder *json.Encoder
	acc     *token.AccumulatorStream
}

func NewTranscoder(in io.Reader, out io.Writer, opts ...Option) *Transcoder {
	return newTranscoder(in, out, newOptions(opts))
}

func newTranscoder(in io.Reader, out io.Writer, opts *options) *Transcoder {
	w := bufio.NewWriter(out)
	printer := &format.DefaultPrinter{
		Writer:        w,
		LineSeparator: opts.lineSeparator,
	}
	if opts.flushLines {
		printer.Flusher = w
	}
	return &Transcoder{
		decoder: newDecoder(in, opts),
		out:     w,
		encoder: &json.Encoder{Printer: printer, Colorizer: opts.colorizer},
		acc:     token.NewAccumulatorStream(),
	}
}

// Run converts the whole input.  Output is flushed before returning, also
// when an error stops the conversion, so the lines written so far are
// complete.  The context is checked between top-level samples.
func (t *Transcoder) Run(ctx context.Context) (Stats, error) {
	err := t.run(ctx)
	if flushErr := t.out.Flush(); flushErr != nil && err == nil {
		err = fmt.Errorf("writing output: %w", flushErr)
	}
	return t.decoder.Stats(), err
}

func (t *Transcoder) run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		s, err := t.decoder.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		t.acc.Reset()
		s.WriteTokens(t.acc)
		if err := t.encoder.Encode(token.NewSliceReadStream(t.acc.GetTokens())); err != nil {
			return fmt.Errorf("writing sample %d: %w", t.decoder.Stats().TopLevelSamples, err)
		}
	}
}
