package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/arnodel/jtlstream/internal/config"
	"github.com/arnodel/jtlstream/internal/format"
	"github.com/arnodel/jtlstream/internal/logging"
	"github.com/arnodel/jtlstream/internal/metrics"
	"github.com/arnodel/jtlstream/jtl"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

type rootFlags struct {
	configPath      string
	logLevel        string
	color           string
	metricsFile     string
	sampleElements  []string
	expectedVersion string
}

func newRootCmd() *cobra.Command {
	var flags rootFlags
	cmd := &cobra.Command{
		Use:   "jtl2jsonl <input-location> <output-path>",
		Short: "Convert a JMeter XML results log into JSON lines",
		Long: `jtl2jsonl reads a JMeter XML results log (JTL) as a stream and writes one
JSON document per line for each top-level sample, with nested sub-samples
embedded as JSON:

  {"responseData": "<body or null>", "samples": [<sub-samples>...]}

The input location is an http(s) or file URL, a file path, or '-' for stdin.
The output path is a file, truncated first, or '-' for stdout.`,
		Example: `  jtl2jsonl results.jtl results.jsonl
  jtl2jsonl https://ci.example.com/job/42/results.jtl - | head -1
  jtl2jsonl --sample-element sample --metrics-file /var/lib/node_exporter/jtl.prom - out.jsonl < results.jtl`,
		Version:       version,
		Args:          checkArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, &flags, args[0], args[1])
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.configPath, "config", "", "TOML config file (default ~/.config/jtlstream/config.toml if present)")
	f.StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn, error")
	f.StringVar(&flags.color, "color", "", "colorize stdout output: auto, always, never")
	f.StringVar(&flags.metricsFile, "metrics-file", "", "write Prometheus metrics to this file after converting")
	f.StringArrayVar(&flags.sampleElements, "sample-element", nil, "element name treated as a sample (repeatable)")
	f.StringVar(&flags.expectedVersion, "expected-version", "", "expected version attribute of the results element")

	return cmd
}

func checkArgs(cmd *cobra.Command, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("specify an input URL and an output file (got %d arguments)", len(args))
	}
	if args[0] == "" {
		return jtl.ErrNoInputLocation
	}
	if args[1] == "" {
		return jtl.ErrNoOutputPath
	}
	return nil
}

func runConvert(cmd *cobra.Command, flags *rootFlags, input, output string) error {
	cfg, err := loadConfig(cmd, flags)
	if err != nil {
		return err
	}
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger := logging.New(cmd.ErrOrStderr(), level)

	opts := append(cfg.Options(), jtl.WithLogger(logger))
	if output == jtl.StdioLocation {
		opts = append(opts, stdoutOptions(cmd.OutOrStdout(), cfg.Color)...)
	}
	opts = append(opts, jtl.WithStdin(cmd.InOrStdin()))

	start := time.Now()
	stats, err := jtl.Convert(cmd.Context(), input, output, opts...)
	if cfg.MetricsFile != "" {
		recorder := metrics.NewRecorder()
		recorder.Observe(stats, time.Since(start), err)
		if writeErr := recorder.WriteTextfile(cfg.MetricsFile); writeErr != nil {
			logger.Error("writing metrics", "file", cfg.MetricsFile, "error", writeErr)
		}
	}
	return err
}

// loadConfig reads the config file and applies the flags given on the command
// line on top of it.
func loadConfig(cmd *cobra.Command, flags *rootFlags) (*config.Config, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	changed := cmd.Flags().Changed
	if changed("log-level") {
		cfg.LogLevel = flags.logLevel
	}
	if changed("color") {
		cfg.Color = flags.color
	}
	if changed("metrics-file") {
		cfg.MetricsFile = flags.metricsFile
	}
	if changed("sample-element") {
		cfg.SampleElements = flags.sampleElements
	}
	if changed("expected-version") {
		cfg.ExpectedVersion = flags.expectedVersion
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// stdoutOptions sets up colors and line flushing when writing JSON lines to a
// terminal.
func stdoutOptions(stdout io.Writer, colorMode string) []jtl.Option {
	file, isFile := stdout.(*os.File)
	terminal := isFile && (isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd()))

	useColor := colorMode == config.ColorAlways || (colorMode == config.ColorAuto && terminal)
	var opts []jtl.Option
	if useColor {
		opts = append(opts, jtl.WithColorizer(&format.DefaultColorizer))
		if isFile {
			stdout = colorable.NewColorable(file)
		}
	}
	if terminal {
		// Flush after each line so the user gets feedback early.
		opts = append(opts, jtl.WithLineFlush(true))
	}
	return append(opts, jtl.WithStdout(stdout))
}
