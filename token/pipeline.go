package token

// A StreamSource produces a stream of JSON values as tokens, e.g. by decoding
// some input format.
type StreamSource interface {
	Produce(chan<- Token) error
}

// A StreamSink consumes a stream of JSON values, e.g. by encoding it to some
// output.
type StreamSink interface {
	Consume(<-chan Token) error
}

// StartStream uses the source to start producing items and returns a new json
// stream where these items are produced.  This is always fast because the
// source is computed in a goroutine.
//
// As a source can produce errors, a handleError function can be provided.
func StartStream(source StreamSource, handleError func(error)) <-chan Token {
	out := make(chan Token)
	go func() {
		defer close(out)
		err := source.Produce(out)
		if err != nil && handleError != nil {
			handleError(err)
		}
	}()
	return out
}

func ConsumeStream(in <-chan Token, sink StreamSink) error {
	return sink.Consume(in)
}

// Pipe connects source to sink and returns the first error either of them
// reports, preferring the source's.  Whatever the sink leaves unread is
// drained so that the source goroutine always terminates.
func Pipe(source StreamSource, sink StreamSink) error {
	var sourceErr error
	stream := StartStream(source, func(err error) {
		sourceErr = err
	})
	sinkErr := ConsumeStream(stream, sink)
	for range stream {
	}
	if sourceErr != nil {
		return sourceErr
	}
	return sinkErr
}
