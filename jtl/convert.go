package jtl

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"
)

// StdioLocation is the input location or output path standing for standard
// input or output.
const StdioLocation = "-"

// Convert reads the test results log at inputLocation and writes one JSON line
// per top-level sample to the file at outputPath, which is truncated first.
//
// inputLocation is an http, https or file URL, a plain file path, or "-" for
// standard input.  outputPath is a file path, or "-" for standard output.
//
// Both arguments are checked before any I/O.  Input and output are closed
// before Convert returns, whatever the outcome.  On failure, the lines already
// written are left in the output.
func Convert(ctx context.Context, inputLocation, outputPath string, opts ...Option) (stats Stats, err error) {
	if inputLocation == "" {
		return stats, ErrNoInputLocation
	}
	if outputPath == "" {
		return stats, ErrNoOutputPath
	}
	o := newOptions(opts)

	in, err := openInput(ctx, inputLocation, o)
	if err != nil {
		return stats, fmt.Errorf("opening input %s: %w", inputLocation, err)
	}
	defer in.Close()

	out, err := createOutput(outputPath, o)
	if err != nil {
		return stats, fmt.Errorf("creating output %s: %w", outputPath, err)
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing output %s: %w", outputPath, closeErr)
		}
	}()

	start := time.Now()
	o.logger.Debug("converting", "input", inputLocation, "output", outputPath)
	stats, err = newTranscoder(in, out, o).Run(ctx)
	if err != nil {
		return stats, err
	}
	o.logger.Info("conversion complete",
		"input", inputLocation,
		"output", outputPath,
		"stats", stats,
		"elapsed", time.Since(start),
	)
	return stats, nil
}

// OpenInput opens the test results log at location, as Convert does.
func OpenInput(ctx context.Context, location string, opts ...Option) (io.ReadCloser, error) {
	return openInput(ctx, location, newOptions(opts))
}

func openInput(ctx context.Context, location string, o *options) (io.ReadCloser, error) {
	if location == StdioLocation {
		return io.NopCloser(o.stdin), nil
	}
	u, err := url.Parse(location)
	if err != nil || isPlainPath(u) {
		return openFile(location)
	}
	switch u.Scheme {
	case "http", "https":
		return openHTTP(ctx, u, o.httpClient)
	case "file":
		return openFile(filePath(u))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}
}

func openFile(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func openHTTP(ctx context.Context, u *url.URL, client *http.Client) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected HTTP status %s", resp.Status)
	}
	return resp.Body, nil
}

// isPlainPath reports whether a parsed location is a file path rather than a
// URL.  Single letter schemes are Windows drive letters.
func isPlainPath(u *url.URL) bool {
	return len(u.Scheme) <= 1
}

func filePath(u *url.URL) string {
	if u.Opaque != "" {
		return u.Opaque
	}
	p := u.Path
	// file:///C:/results.jtl
	if len(p) >= 3 && p[0] == '/' && p[2] == ':' {
		p = p[1:]
	}
	return p
}

func createOutput(path string, o *options) (io.WriteCloser, error) {
	if path == StdioLocation {
		return nopWriteCloser{o.stdout}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return f, nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error {
	return nil
}
