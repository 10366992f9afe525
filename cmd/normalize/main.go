package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"roidlecraft/internal/config"
	"roidlecraft/internal/crafts"
	"roidlecraft/internal/logging"
	"roidlecraft/internal/skiplog"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run returns 0 on success, 2 for bad flags or config and 1 when the
// export cannot be normalized.
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("normalize", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		configPath = fs.String("config", "", "path to normalize.yaml (optional)")
		inPath     = fs.String("in", config.DefaultInput, "raw craft export (.json or .json.zst)")
		outPath    = fs.String("out", config.DefaultOutput, "normalized output path")
		skipPath   = fs.String("skip_log", "", "write skipped entries as JSONL (.zst to compress)")
		logLevel   = fs.String("log_level", "info", "debug, info, warn or error")
		validate   = fs.Bool("validate_schema", true, "validate the document against the bundled schema before writing")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(stderr, "load config:", err)
		return 2
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "in":
			cfg.Input = *inPath
		case "out":
			cfg.Output = *outPath
		case "skip_log":
			cfg.SkipLog = *skipPath
		case "log_level":
			cfg.LogLevel = *logLevel
		case "validate_schema":
			cfg.ValidateSchema = *validate
		}
	})
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(stderr, "config:", err)
		return 2
	}

	logger := logging.New(stderr, "normalize", cfg.LogLevel)

	src, err := crafts.Load(cfg.Input)
	if err != nil {
		logFailure(logger, err)
		return 1
	}

	opts := crafts.Options{
		Output:   cfg.Output,
		Source:   cfg.Source,
		Validate: cfg.ValidateSchema,
		Logger:   logger,
	}
	// Opened only once the export parsed, so a bad input leaves any previous
	// audit file untouched.
	var skips *skiplog.Writer
	if cfg.SkipLog != "" {
		skips, err = skiplog.Open(cfg.SkipLog)
		if err != nil {
			logger.Error("open skip log", "path", cfg.SkipLog, "err", err)
			return 1
		}
		opts.Skips = skips
	}

	_, runErr := crafts.Process(src, opts)
	if skips != nil {
		if err := skips.Close(); err != nil && runErr == nil {
			runErr = fmt.Errorf("close skip log: %w", err)
		}
		logger.Debug("skip log written", "path", cfg.SkipLog, "records", skips.Count())
	}
	if runErr != nil {
		logFailure(logger, runErr)
		return 1
	}
	fmt.Fprintln(stdout, "Wrote", cfg.Output)
	return 0
}

func logFailure(logger *log.Logger, err error) {
	var shapeErr *crafts.ShapeError
	var fieldErr *crafts.FieldError
	switch {
	case errors.As(err, &shapeErr):
		logger.Error("unexpected export shape", "path", shapeErr.Path, "found", shapeErr.Found)
	case errors.As(err, &fieldErr):
		logger.Error("non-numeric field", "key", fieldErr.Key, "field", fieldErr.Field, "value", fieldErr.Raw)
	}
	logger.Error("normalize failed", "err", err)
}
