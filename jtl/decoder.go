package jtl

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/arnodel/jtlstream/sample"
	"github.com/arnodel/jtlstream/token"
	"golang.org/x/net/html/charset"
)

// A Decoder reads an XML test results log and returns its top-level samples
// one at a time.
//
// Only the samples that are currently open are held in memory, as a stack of
// builders whose depth is the nesting depth of sample elements at the current
// input position.  A completed top-level sample is handed to the caller and
// forgotten.
type Decoder struct {
	xml            *xml.Decoder
	opts           *options
	stack          []*sample.Builder
	versionChecked bool
	stats          Stats
}

var _ token.StreamSource = &Decoder{}

// NewDecoder sets up a new Decoder instance to read from the given input.
// Documents declaring an encoding other than UTF-8 are converted to UTF-8.
func NewDecoder(in io.Reader, opts ...Option) *Decoder {
	return newDecoder(in, newOptions(opts))
}

func newDecoder(in io.Reader, opts *options) *Decoder {
	d := xml.NewDecoder(in)
	d.CharsetReader = charset.NewReaderLabel
	return &Decoder{xml: d, opts: opts}
}

// Next returns the next top-level sample.  At the end of a well-formed input
// it returns io.EOF.  If the input ends while a sample is still open, it
// returns a *StructuralError wrapping ErrUnclosedSample.
func (d *Decoder) Next() (*sample.Sample, error) {
	for {
		tok, err := d.xml.Token()
		if err != nil {
			return nil, d.inputError(err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if err := d.handleStartElement(t); err != nil {
				return nil, err
			}
		case xml.EndElement:
			if s := d.handleEndElement(t); s != nil {
				return s, nil
			}
		}
	}
}

// Produce streams the JSON encoding of every top-level sample, until it runs
// out of input or encounters an error.
func (d *Decoder) Produce(out chan<- token.Token) error {
	w := token.ChannelWriteStream(out)
	for {
		s, err := d.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		s.WriteTokens(w)
	}
}

// Stats returns counts of what has been decoded so far.
func (d *Decoder) Stats() Stats {
	return d.stats
}

// Depth is the number of samples currently open.
func (d *Decoder) Depth() int {
	return len(d.stack)
}

func (d *Decoder) handleStartElement(start xml.StartElement) error {
	name := start.Name.Local
	switch {
	case d.opts.sampleElements[name]:
		d.stack = append(d.stack, sample.NewBuilder())
		d.stats.Samples++
		d.stats.MaxDepth = max(d.stats.MaxDepth, len(d.stack))
	case name == d.opts.responseDataElement:
		return d.handleResponseData()
	case name == d.opts.resultsElement:
		d.checkVersion(start)
	}
	return nil
}

func (d *Decoder) handleEndElement(end xml.EndElement) *sample.Sample {
	n := len(d.stack)
	if n == 0 || !d.opts.sampleElements[end.Name.Local] {
		return nil
	}
	builder := d.stack[n-1]
	d.stack[n-1] = nil
	d.stack = d.stack[:n-1]
	s := builder.Build()
	if n > 1 {
		d.stack[n-2].AddChild(s)
		return nil
	}
	d.stats.TopLevelSamples++
	return s
}

func (d *Decoder) handleResponseData() error {
	if len(d.stack) == 0 {
		return d.structuralError(ErrResponseDataOutsideSample)
	}
	text, err := d.readElementText()
	if err != nil {
		return err
	}
	d.stack[len(d.stack)-1].SetResponseData(text)
	d.stats.ResponseDataBytes += int64(len(text))
	return nil
}

// readElementText returns the text content of the element just started,
// consuming its end tag.  Comments and processing instructions are skipped.
func (d *Decoder) readElementText() (string, error) {
	var b strings.Builder
	for {
		tok, err := d.xml.Token()
		if err != nil {
			return "", d.inputError(err)
		}
		switch t := tok.(type) {
		case xml.CharData:
			b.Write(t)
		case xml.EndElement:
			return b.String(), nil
		case xml.StartElement:
			return "", d.structuralError(ErrUnexpectedElementInResponseData)
		}
	}
}

// checkVersion warns once if the results element does not carry the expected
// version.  Decoding carries on regardless.
func (d *Decoder) checkVersion(start xml.StartElement) {
	if d.versionChecked {
		return
	}
	d.versionChecked = true
	version, ok := attrValue(start, versionAttribute)
	d.stats.Version = version
	if ok && version == d.opts.expectedVersion {
		return
	}
	d.opts.logger.Warn("unexpected test results version, output may be incomplete",
		slog.String("element", start.Name.Local),
		slog.String("version", version),
		slog.Bool("present", ok),
		slog.String("expected", d.opts.expectedVersion),
	)
}

// inputError turns an error from the XML reader into the error reported to
// the caller.  Running out of input while samples are open is a structural
// error; a clean end of input is io.EOF.
func (d *Decoder) inputError(err error) error {
	if len(d.stack) > 0 && isEndOfInput(err) {
		return d.structuralError(ErrUnclosedSample)
	}
	if err == io.EOF {
		return err
	}
	return fmt.Errorf("reading XML: %w", err)
}

func (d *Decoder) structuralError(err error) *StructuralError {
	line, column := d.xml.InputPos()
	return &StructuralError{
		Line:   line,
		Column: column,
		Depth:  len(d.stack),
		Err:    err,
	}
}

func isEndOfInput(err error) bool {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	var syntaxErr *xml.SyntaxError
	return errors.As(err, &syntaxErr) && syntaxErr.Msg == "unexpected EOF"
}

func attrValue(start xml.StartElement, name string) (string, bool) {
	for _, attr := range start.Attr {
		if attr.Name.Local == name && attr.Name.Space == "" {
			return attr.Value, true
		}
	}
	return "", false
}
