package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arnodel/jtlstream/jtl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const results = `<?xml version="1.0" encoding="UTF-8"?>
<testResults version="1.2">
<sample lb="login"><httpSample lb="GET /"><responseData>home</responseData></httpSample></sample>
<httpSample lb="GET /about"><responseData>about</responseData></httpSample>
</testResults>
`

// runCmd executes the root command in-process with the given stdin and args.
func runCmd(t *testing.T, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	cmd := newRootCmd()
	var outBuf, errBuf bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)
	err = cmd.ExecuteContext(context.Background())
	return outBuf.String(), errBuf.String(), err
}

func TestArgumentCount(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no arguments", nil},
		{"input only", []string{"in.jtl"}},
		{"too many arguments", []string{"in.jtl", "out.jsonl", "extra"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runCmd(t, "", tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "specify an input URL and an output file")
		})
	}
}

func TestEmptyArguments(t *testing.T) {
	_, _, err := runCmd(t, "", "", "out.jsonl")
	assert.ErrorIs(t, err, jtl.ErrNoInputLocation)

	_, _, err = runCmd(t, "", "in.jtl", "")
	assert.ErrorIs(t, err, jtl.ErrNoOutputPath)
}

func TestConvertFiles(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "results.jtl")
	output := filepath.Join(dir, "results.jsonl")
	require.NoError(t, os.WriteFile(input, []byte(results), 0o644))

	_, stderr, err := runCmd(t, "", "--log-level", "info", input, output)
	require.NoError(t, err)
	assert.Contains(t, stderr, "conversion complete")

	b, err := os.ReadFile(output)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(b), "\n"), "\n")
	assert.Equal(t, []string{
		`{"responseData":null,"samples":[{"responseData":"home","samples":[]}]}`,
		`{"responseData":"about","samples":[]}`,
	}, lines)
}

func TestConvertStdio(t *testing.T) {
	stdout, _, err := runCmd(t, results, "--log-level", "error", "-", "-")
	require.NoError(t, err)
	assert.Equal(t,
		"{\"responseData\":null,\"samples\":[{\"responseData\":\"home\",\"samples\":[]}]}\n"+
			"{\"responseData\":\"about\",\"samples\":[]}\n",
		stdout)
}

func TestColorAlways(t *testing.T) {
	stdout, _, err := runCmd(t, results, "--log-level", "error", "--color", "always", "-", "-")
	require.NoError(t, err)
	assert.Contains(t, stdout, "\033[")
}

func TestSampleElementFlag(t *testing.T) {
	stdout, _, err := runCmd(t, results, "--log-level", "error", "--sample-element", "httpSample", "-", "-")
	require.NoError(t, err)
	assert.Equal(t,
		"{\"responseData\":\"home\",\"samples\":[]}\n"+
			"{\"responseData\":\"about\",\"samples\":[]}\n",
		stdout)
}

func TestVersionWarning(t *testing.T) {
	input := strings.Replace(results, `version="1.2"`, `version="1.1"`, 1)
	stdout, stderr, err := runCmd(t, input, "--log-level", "warn", "-", "-")
	require.NoError(t, err)
	assert.Contains(t, stderr, "level=WARN")
	assert.Equal(t, 2, strings.Count(stdout, "\n"))

	_, stderr, err = runCmd(t, input, "--log-level", "warn", "--expected-version", "1.1", "-", "-")
	require.NoError(t, err)
	assert.Empty(t, stderr)
}

func TestStructuralError(t *testing.T) {
	_, _, err := runCmd(t, `<testResults version="1.2"><sample>`, "--log-level", "error", "-", "-")
	assert.ErrorIs(t, err, jtl.ErrUnclosedSample)
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
sample_elements = ["httpSample"]
log_level = "error"
`), 0o644))

	stdout, stderr, err := runCmd(t, results, "--config", cfgPath, "-", "-")
	require.NoError(t, err)
	assert.Empty(t, stderr)
	assert.Equal(t, 2, strings.Count(stdout, `"samples":[]`))

	_, _, err = runCmd(t, results, "--config", cfgPath, "--color", "rainbow", "-", "-")
	assert.ErrorContains(t, err, "invalid color")
}

func TestMetricsFile(t *testing.T) {
	metricsFile := filepath.Join(t.TempDir(), "jtl.prom")
	_, _, err := runCmd(t, results, "--log-level", "error", "--metrics-file", metricsFile, "-", "-")
	require.NoError(t, err)

	b, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(b), "jtlstream_top_level_samples_total 2\n")
	assert.Contains(t, string(b), "jtlstream_samples_total 3\n")
	assert.Contains(t, string(b), `jtlstream_conversions_total{result="success"} 1`)
}
