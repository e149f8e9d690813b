package jtl

import "log/slog"

// Stats summarizes a decoding pass.
type Stats struct {
	TopLevelSamples   int    // samples written as JSON lines
	Samples           int    // all samples started, at any depth
	MaxDepth          int    // deepest sample nesting seen
	ResponseDataBytes int64  // total size of response data captured
	Version           string // version attribute of the results element
}

// LogValue implements slog.LogValuer.
func (s Stats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("top_level_samples", s.TopLevelSamples),
		slog.Int("samples", s.Samples),
		slog.Int("max_depth", s.MaxDepth),
		slog.Int64("response_data_bytes", s.ResponseDataBytes),
		slog.String("version", s.Version),
	)
}
