// Package sample models one recorded request/response interaction of a test
// results log, possibly containing nested sub-samples.
//
// Samples are immutable.  They are assembled with a Builder, which collects
// child samples and the response data as they are decoded and is finalized
// with Build.
package sample

import (
	"bytes"
	"slices"

	"github.com/arnodel/jtlstream/encoding/json"
	"github.com/arnodel/jtlstream/token"
)

// JSON object keys used when serializing a Sample.
const (
	ResponseDataKey = "responseData"
	SamplesKey      = "samples"
)

// A Sample is a recorded interaction.  The zero value is a leaf sample with
// no response data.
type Sample struct {
	responseData    string
	hasResponseData bool
	children        []*Sample
}

// ResponseData returns the response body and whether it was set.
func (s *Sample) ResponseData() (string, bool) {
	return s.responseData, s.hasResponseData
}

// Children returns the sub-samples in document order.
func (s *Sample) Children() []*Sample {
	return slices.Clone(s.children)
}

func (s *Sample) ChildCount() int {
	return len(s.children)
}

// Child returns the i-th sub-sample.  It panics if i is out of range.
func (s *Sample) Child(i int) *Sample {
	return s.children[i]
}

// Depth returns the number of nesting levels in s, counting s itself.
func (s *Sample) Depth() int {
	depth := 0
	for _, child := range s.children {
		depth = max(depth, child.Depth())
	}
	return depth + 1
}

// WriteTokens emits the JSON encoding of s as a token stream:
//
//	{"responseData": <string or null>, "samples": [<sub-samples>...]}
func (s *Sample) WriteTokens(w token.WriteStream) {
	w.Put(&token.StartObject{})
	w.Put(responseDataKey)
	if s.hasResponseData {
		w.Put(token.StringScalar(s.responseData))
	} else {
		w.Put(token.NullScalar)
	}
	w.Put(samplesKey)
	w.Put(&token.StartArray{})
	for _, child := range s.children {
		child.WriteTokens(w)
	}
	w.Put(&token.EndArray{})
	w.Put(&token.EndObject{})
}

// JSON returns the compact JSON encoding of s, without a trailing new line.
func (s *Sample) JSON() ([]byte, error) {
	acc := token.NewAccumulatorStream()
	s.WriteTokens(acc)
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(token.NewSliceReadStream(acc.GetTokens())); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte{'\n'}), nil
}

// MarshalJSON implements encoding/json.Marshaler from the standard library.
func (s *Sample) MarshalJSON() ([]byte, error) {
	return s.JSON()
}

func (s *Sample) String() string {
	b, err := s.JSON()
	if err != nil {
		return "<invalid sample: " + err.Error() + ">"
	}
	return string(b)
}

var (
	responseDataKey = token.StringKey(ResponseDataKey)
	samplesKey      = token.StringKey(SamplesKey)
)
