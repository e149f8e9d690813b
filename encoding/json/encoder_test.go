package json

import (
	"bytes"
	"errors"
	"syscall"
	"testing"

	"github.com/arnodel/jtlstream/internal/format"
	"github.com/arnodel/jtlstream/token"
)

// TestEncoderValues tests encoding single values
func TestEncoderValues(t *testing.T) {
	tests := []struct {
		name     string
		tokens   []token.Token
		expected string
	}{
		{
			name:     "null",
			tokens:   []token.Token{token.NullScalar},
			expected: "null\n",
		},
		{
			name:     "string",
			tokens:   []token.Token{token.StringScalar("hello")},
			expected: "\"hello\"\n",
		},
		{
			name:     "empty array",
			tokens:   []token.Token{&token.StartArray{}, &token.EndArray{}},
			expected: "[]\n",
		},
		{
			name:     "empty object",
			tokens:   []token.Token{&token.StartObject{}, &token.EndObject{}},
			expected: "{}\n",
		},
		{
			name: "array with multiple elements",
			tokens: []token.Token{
				&token.StartArray{},
				token.TrueScalar,
				token.StringScalar("a\nb"),
				token.NullScalar,
				&token.EndArray{},
			},
			expected: "[true,\"a\\nb\",null]\n",
		},
		{
			name: "nested object",
			tokens: []token.Token{
				&token.StartObject{},
				token.StringKey("responseData"),
				token.NullScalar,
				token.StringKey("samples"),
				&token.StartArray{},
				&token.StartObject{},
				token.StringKey("samples"),
				&token.StartArray{},
				&token.EndArray{},
				&token.EndObject{},
				&token.EndArray{},
				&token.EndObject{},
			},
			expected: "{\"responseData\":null,\"samples\":[{\"samples\":[]}]}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := NewEncoder(&buf).Encode(token.NewSliceReadStream(tt.tokens))
			if err != nil {
				t.Fatalf("unexpected error: %s", err)
			}
			if buf.String() != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, buf.String())
			}
		})
	}
}

// TestEncoderConsume tests that a stream of values gives one line per value
func TestEncoderConsume(t *testing.T) {
	toks := []token.Token{
		token.StringScalar("first"),
		&token.StartArray{},
		token.FalseScalar,
		&token.EndArray{},
		&token.StartObject{},
		&token.EndObject{},
	}
	var buf bytes.Buffer
	encoder := &Encoder{
		Printer: &format.DefaultPrinter{Writer: &buf, LineSeparator: "\r\n"},
	}
	if err := encoder.Consume(tokenChannel(toks)); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	expected := "\"first\"\r\n[false]\r\n{}\r\n"
	if buf.String() != expected {
		t.Errorf("expected %q, got %q", expected, buf.String())
	}
}

// TestEncoderMalformed tests that invalid token sequences are rejected
func TestEncoderMalformed(t *testing.T) {
	tests := []struct {
		name   string
		tokens []token.Token
	}{
		{"empty stream", nil},
		{"stray end of array", []token.Token{&token.EndArray{}}},
		{"key as value", []token.Token{token.StringKey("k")}},
		{"value as key", []token.Token{&token.StartObject{}, token.NullScalar, token.NullScalar, &token.EndObject{}}},
		{"unterminated array", []token.Token{&token.StartArray{}, token.NullScalar}},
		{"unterminated object", []token.Token{&token.StartObject{}, token.StringKey("k"), token.NullScalar}},
		{"missing object value", []token.Token{&token.StartObject{}, token.StringKey("k"), &token.EndObject{}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := NewEncoder(&buf).Encode(token.NewSliceReadStream(tt.tokens))
			if !errors.Is(err, ErrMalformedStream) {
				t.Errorf("expected ErrMalformedStream, got %v", err)
			}
		})
	}
}

type brokenPipe struct{}

func (brokenPipe) Write([]byte) (int, error) {
	return 0, syscall.EPIPE
}

// TestEncoderWriteError tests that write errors are reported and not panicked
func TestEncoderWriteError(t *testing.T) {
	err := NewEncoder(brokenPipe{}).Encode(token.NewSliceReadStream([]token.Token{token.NullScalar}))
	var perr *format.PrinterError
	if !errors.As(err, &perr) {
		t.Fatalf("expected a *format.PrinterError, got %v", err)
	}
	if !errors.Is(err, syscall.EPIPE) {
		t.Errorf("expected EPIPE to be wrapped, got %v", err)
	}
}

// TestEncoderColors tests that keys and scalars get colored
func TestEncoderColors(t *testing.T) {
	var buf bytes.Buffer
	encoder := &Encoder{
		Printer:   &format.DefaultPrinter{Writer: &buf},
		Colorizer: &format.Colorizer{KeyColorCode: []byte("<k>"), ScalarColorCodes: [4][]byte{[]byte("<n>"), nil, nil, []byte("<s>")}, ResetCode: []byte("</>")},
	}
	toks := []token.Token{
		&token.StartObject{},
		token.StringKey("a"),
		token.StringScalar("b"),
		token.StringKey("c"),
		token.NullScalar,
		&token.EndObject{},
	}
	if err := encoder.Encode(token.NewSliceReadStream(toks)); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	expected := "{<k>\"a\"</>:<s>\"b\"</>,<k>\"c\"</>:<n>null</>}\n"
	if buf.String() != expected {
		t.Errorf("expected %q, got %q", expected, buf.String())
	}
}

func tokenChannel(toks []token.Token) <-chan token.Token {
	ch := make(chan token.Token, len(toks))
	for _, tok := range toks {
		ch <- tok
	}
	close(ch)
	return ch
}
