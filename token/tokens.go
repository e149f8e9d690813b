package token

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// A Token is an item in a stream that encodes a JSON value.  A converted
// sample such as
//
//	{"responseData": "ok", "samples": []}
//
// is represented by the stream of Token (in pseudocode for clarity):
//
//	{               -> StartObject
//	"responseData": -> Key("responseData")
//	"ok",           -> Scalar("ok", String)
//	"samples":      -> Key("samples")
//	[               -> StartArray
//	]               -> EndArray
//	}               -> EndObject
//
// Producers only ever hold the tokens of the value they are currently
// emitting, so a stream of values can be written out one at a time.
type Token interface {
	fmt.Stringer
}

// StartObject represents the start of a JSON object (introduced by '{').
type StartObject struct{}

func (s *StartObject) String() string {
	return "StartObject"
}

var _ Token = &StartObject{}

// EndObject represents the end of a JSON object (introduced by '}').
type EndObject struct{}

func (e *EndObject) String() string {
	return "EndObject"
}

var _ Token = &EndObject{}

// StartArray represents the start of a JSON array (introduced by '[').
type StartArray struct{}

func (s *StartArray) String() string {
	return "StartArray"
}

var _ Token = &StartArray{}

// EndArray represents the end of a JSON array (introduced by ']').
type EndArray struct{}

func (e *EndArray) String() string {
	return "EndArray"
}

var _ Token = &EndArray{}

// Scalar is the type used to represent all scalar JSON values, i.e.
// - strings
// - numbers
// - booleans
// - null
//
// The type is encoded in the TypeAndFlags field, while the Bytes fields
// contains the literal JSON representation of the value.
type Scalar struct {

	// Literal representation of the value, e.g.
	// - the string "foo" is represented as []byte("\"foo\"")
	// - the boolean true is represented as []byte("true")
	Bytes []byte

	// Type of the value, plus KeyMask when the scalar is an object key
	TypeAndFlags uint8
}

func NewScalar(tp ScalarType, bytes []byte) *Scalar {
	return &Scalar{
		Bytes:        bytes,
		TypeAndFlags: uint8(tp),
	}
}

func NewKey(tp ScalarType, bytes []byte) *Scalar {
	return &Scalar{
		Bytes:        bytes,
		TypeAndFlags: uint8(tp) | KeyMask,
	}
}

func (s *Scalar) Type() ScalarType {
	return ScalarType(s.TypeAndFlags & TypeMask)
}

func (s *Scalar) IsKey() bool {
	return KeyMask&s.TypeAndFlags != 0
}

func (s *Scalar) String() string {
	return fmt.Sprintf("Scalar(%s)", s.Bytes)
}

// ToString decodes a String scalar back to the Go string it encodes.  It
// panics if the scalar is not a string.
func (s *Scalar) ToString() string {
	var str string
	if err := json.Unmarshal(s.Bytes, &str); err != nil {
		panic(err)
	}
	return str
}

// ScalarType encodes the four possible JSON scalar types.
type ScalarType uint8

const (
	Null    ScalarType = 0x0 // the type of JSON null
	Boolean ScalarType = 0x1 // a JSON boolean
	Number  ScalarType = 0x2 // a JSON number
	String  ScalarType = 0x3 // a JSON string
)

const (
	TypeMask = 0b00011
	KeyMask  = 0b00100
)

var (
	TrueScalar  = NewScalar(Boolean, []byte("true"))
	FalseScalar = NewScalar(Boolean, []byte("false"))
	NullScalar  = NewScalar(Null, []byte("null"))
)

// StringScalar returns a String scalar encoding s.  Quotes, backslashes and
// control characters are escaped; everything else, including '<', '>' and
// '&', is kept as is so that recorded HTML bodies stay readable.
func StringScalar(s string) *Scalar {
	return NewScalar(String, encodeString(s))
}

// StringKey returns a String scalar flagged as an object key.
func StringKey(s string) *Scalar {
	return NewKey(String, encodeString(s))
}

func encodeString(s string) []byte {
	var b bytes.Buffer
	encoder := json.NewEncoder(&b)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(s); err != nil {
		panic(err)
	}
	var encodedBytes = b.Bytes()
	// Remove the new line at the end
	return encodedBytes[:len(encodedBytes)-1]
}
