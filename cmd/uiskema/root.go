package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/reoring/uiskema/catalog"
	"github.com/reoring/uiskema/config"
	"github.com/reoring/uiskema/validate"
)

// errInvalid is returned when at least one document was rejected. The
// diagnostics have already been printed.
var errInvalid = errors.New("invalid document")

type app struct {
	cfgFile   string
	logLevel  string
	logFormat string
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "uiskema",
		Short: "Validate generative UI documents against a component catalog",
		Long: `uiskema checks UI documents produced by a generator against the
dashboard component catalog and reports every problem with a JSON Pointer.

  uiskema validate view.json        # validate documents
  uiskema manifest --format text    # print the catalog for prompts
  uiskema generate -- ./gen.sh      # generate, validate, feed back, retry
  uiskema serve                     # HTTP API`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "", "config file path")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "log format (json, console)")

	root.AddCommand(
		newValidateCmd(a),
		newManifestCmd(a),
		newGenerateCmd(a),
		newServeCmd(a),
	)
	return root
}

// setup loads the configuration and builds the logger and catalog.
func (a *app) setup(cmd *cobra.Command) (*config.Config, *zap.Logger, *catalog.Catalog, error) {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return nil, nil, nil, err
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}
	if a.logFormat != "" {
		cfg.Logging.Format = a.logFormat
	}
	log, err := newLogger(cfg.Logging, cmd.ErrOrStderr())
	if err != nil {
		return nil, nil, nil, err
	}
	cat, err := catalog.NewDefault(catalog.WithLogger(log))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("build catalog: %w", err)
	}
	return cfg, log, cat, nil
}

func validatorOptions(cfg *config.Config, log *zap.Logger) []validate.Option {
	return []validate.Option{
		validate.WithLimits(cfg.Limits()),
		validate.WithLanguage(cfg.Validation.Language),
		validate.WithLogger(log),
	}
}

func newLogger(c config.LoggingConfig, w io.Writer) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(c.Level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	var enc zapcore.Encoder
	switch c.Format {
	case "console":
		enc = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	case "json", "":
		enc = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	default:
		return nil, fmt.Errorf("unknown log format %q", c.Format)
	}
	return zap.New(zapcore.NewCore(enc, zapcore.AddSync(w), level)), nil
}
