package sample

import "slices"

// A Builder accumulates the parts of a Sample while it is being decoded.
type Builder struct {
	responseData    string
	hasResponseData bool
	children        []*Sample
}

func NewBuilder() *Builder {
	return &Builder{}
}

// AddChild appends a sub-sample.  Sub-samples keep the order of the calls.
func (b *Builder) AddChild(child *Sample) *Builder {
	b.children = append(b.children, child)
	return b
}

// SetResponseData sets the response body.  If called more than once, the last
// value wins.
func (b *Builder) SetResponseData(text string) *Builder {
	b.responseData = text
	b.hasResponseData = true
	return b
}

// Build returns a Sample with the children and response data collected so far.
// The builder can still be used afterwards without affecting the result.
func (b *Builder) Build() *Sample {
	return &Sample{
		responseData:    b.responseData,
		hasResponseData: b.hasResponseData,
		// Clipping forces a later AddChild to reallocate rather than write
		// into the returned sample's backing array.
		children: slices.Clip(b.children),
	}
}
