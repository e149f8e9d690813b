package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/arnodel/jtlstream/jtl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderWriteTextfile(t *testing.T) {
	r := NewRecorder()
	r.Observe(jtl.Stats{TopLevelSamples: 3, Samples: 7, MaxDepth: 4, ResponseDataBytes: 128}, 1500*time.Millisecond, nil)
	r.Observe(jtl.Stats{TopLevelSamples: 1, Samples: 1, MaxDepth: 1}, time.Second, errors.New("unclosed"))

	path := filepath.Join(t.TempDir(), "jtlstream.prom")
	require.NoError(t, r.WriteTextfile(path))
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(b)

	assert.Contains(t, text, "# TYPE jtlstream_top_level_samples_total counter")
	assert.Contains(t, text, "jtlstream_top_level_samples_total 4\n")
	assert.Contains(t, text, "jtlstream_samples_total 8\n")
	assert.Contains(t, text, "jtlstream_response_data_bytes_total 128\n")
	assert.Contains(t, text, "jtlstream_max_sample_depth 1\n")
	assert.Contains(t, text, "jtlstream_conversion_duration_seconds 1\n")
	assert.Contains(t, text, `jtlstream_conversions_total{result="success"} 1`)
	assert.Contains(t, text, `jtlstream_conversions_total{result="failure"} 1`)
	assert.Contains(t, text, "jtlstream_last_success_timestamp_seconds")
}

func TestRecorderGatherer(t *testing.T) {
	r := NewRecorder()
	r.Observe(jtl.Stats{}, 0, nil)
	families, err := r.Gatherer().Gather()
	require.NoError(t, err)
	assert.Len(t, families, 7)
}
