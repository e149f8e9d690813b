package jtl

import (
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/arnodel/jtlstream/internal/format"
)

// Defaults matching the JMeter XML results format.
const (
	DefaultResultsElement      = "testResults"
	DefaultResponseDataElement = "responseData"
	DefaultExpectedVersion     = "1.2"
	versionAttribute           = "version"
)

// DefaultSampleElements are the element names treated as samples.  JMeter
// writes "httpSample" for HTTP samplers and "sample" for everything else,
// including transaction controllers wrapping other samples.
var DefaultSampleElements = []string{"sample", "httpSample"}

// An Option configures a Decoder, a Transcoder or Convert.
type Option func(*options)

type options struct {
	sampleElements      map[string]bool
	resultsElement      string
	responseDataElement string
	expectedVersion     string
	logger              *slog.Logger
	lineSeparator       string
	colorizer           *format.Colorizer
	flushLines          bool
	httpClient          *http.Client
	stdin               io.Reader
	stdout              io.Writer
}

func newOptions(opts []Option) *options {
	o := &options{
		resultsElement:      DefaultResultsElement,
		responseDataElement: DefaultResponseDataElement,
		expectedVersion:     DefaultExpectedVersion,
		lineSeparator:       lineSeparator,
		httpClient:          http.DefaultClient,
		stdin:               os.Stdin,
		stdout:              os.Stdout,
	}
	WithSampleElements(DefaultSampleElements...)(o)
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return o
}

// WithSampleElements replaces the set of element names treated as samples.
// Empty names are ignored.
func WithSampleElements(names ...string) Option {
	return func(o *options) {
		o.sampleElements = make(map[string]bool, len(names))
		for _, name := range names {
			if name != "" {
				o.sampleElements[name] = true
			}
		}
	}
}

func WithResultsElement(name string) Option {
	return func(o *options) {
		o.resultsElement = name
	}
}

func WithResponseDataElement(name string) Option {
	return func(o *options) {
		o.responseDataElement = name
	}
}

// WithExpectedVersion sets the results format version checked against the
// version attribute of the results element.
func WithExpectedVersion(version string) Option {
	return func(o *options) {
		o.expectedVersion = version
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLineSeparator overrides the platform line separator written after each
// JSON line.
func WithLineSeparator(sep string) Option {
	return func(o *options) {
		o.lineSeparator = sep
	}
}

// WithColorizer makes the Transcoder emit ANSI colors.  Only meant for
// terminal output.
func WithColorizer(c *format.Colorizer) Option {
	return func(o *options) {
		o.colorizer = c
	}
}

// WithLineFlush makes the Transcoder flush its output after every line.
func WithLineFlush(flush bool) Option {
	return func(o *options) {
		o.flushLines = flush
	}
}

func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithStdin sets the reader used for the "-" input location.
func WithStdin(stdin io.Reader) Option {
	return func(o *options) {
		o.stdin = stdin
	}
}

// WithStdout sets the writer used for the "-" output path.
func WithStdout(stdout io.Writer) Option {
	return func(o *options) {
		o.stdout = stdout
	}
}
