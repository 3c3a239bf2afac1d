package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/iwvelando/mortgage-analytics/internal/config"
	"github.com/iwvelando/mortgage-analytics/pkg/constants"
	"github.com/iwvelando/mortgage-analytics/pkg/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// app carries the state shared by every subcommand once the root command has
// loaded configuration and built the logger.
type app struct {
	stdout       io.Writer
	configPath   string
	logLevel     string
	outputFormat string

	conf   *config.Configuration
	logger *zap.Logger
}

// initializeLogger creates a zap logger based on configuration and CLI override
func initializeLogger(loggingConfig config.LoggingConfig, logLevelOverride string) (*zap.Logger, error) {
	// Determine log level (CLI override takes precedence)
	level := loggingConfig.Level
	if logLevelOverride != "" {
		level = logLevelOverride
	}
	if level == "" {
		level = "info"
	}

	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn", "warning":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	format := loggingConfig.Format
	if format == "" {
		format = "json"
	}

	var cfg zap.Config
	switch format {
	case "console":
		cfg = zap.NewDevelopmentConfig()
	case "json":
		cfg = zap.NewProductionConfig()
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)
	// Reports go to stdout; logs stay on stderr unless a file is configured.
	cfg.OutputPaths = []string{"stderr"}

	if loggingConfig.OutputFile != "" {
		if dir := filepath.Dir(loggingConfig.OutputFile); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
			}
		}

		file, err := os.OpenFile(loggingConfig.OutputFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %w", loggingConfig.OutputFile, err)
		}
		_ = file.Close()

		cfg.OutputPaths = []string{loggingConfig.OutputFile}
		cfg.ErrorOutputPaths = []string{loggingConfig.OutputFile}
	}

	return cfg.Build()
}

func newRootCmd(stdout io.Writer) *cobra.Command {
	a := &app{stdout: stdout}

	root := &cobra.Command{
		Use:   "mortgage-analytics",
		Short: "Mortgage affordability and cash-flow analytics",
		Long: "Compares buy-to-let and residential mortgages, interest-only and capital repayment,\n" +
			"private and limited company ownership, and sweeps cash flow over price and rent.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.SetOut(stdout)

	root.PersistentFlags().StringVar(&a.configPath, "config", constants.DefaultConfigFile, "path to configuration file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&a.outputFormat, "output-format", "", "output format override: pretty, csv, json, pdf")

	root.AddCommand(analyzeCmd(a))
	root.AddCommand(surfaceCmd(a))
	root.AddCommand(scenariosCmd(a))
	root.AddCommand(serveCmd(a))
	root.AddCommand(versionCmd(a))

	return root
}

// load reads configuration and builds the logger. A missing default config
// file falls back to built-in defaults; a missing file named with --config is
// an error.
func (a *app) load(cmd *cobra.Command) error {
	var (
		conf *config.Configuration
		err  error
	)
	if cmd.Flags().Changed("config") {
		conf, err = config.LoadConfiguration(a.configPath)
	} else {
		conf, err = config.LoadConfigurationOrDefaults(a.configPath)
	}
	if err != nil {
		return fmt.Errorf("failed to load configuration at %s: %w", a.configPath, err)
	}

	logger, err := initializeLogger(conf.Logging, a.logLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	a.conf = conf
	a.logger = logger
	return nil
}

// format resolves the output format, CLI override first.
func (a *app) format() (string, error) {
	outputFormat := a.conf.Output.Format
	if a.outputFormat != "" {
		outputFormat = a.outputFormat
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		return "", err
	}
	return outputFormat, nil
}

func (a *app) warnConfiguration(op string, warnings []string) {
	for _, warning := range warnings {
		a.logger.Warn("Configuration warning: "+warning,
			zap.String("op", op),
		)
	}
}

// loggedError marks an error the logger has already reported.
type loggedError struct {
	err error
}

func (e *loggedError) Error() string { return e.err.Error() }
func (e *loggedError) Unwrap() error { return e.err }

// fail logs err and returns it so the command exits non-zero.
func (a *app) fail(op, msg string, err error) error {
	a.logger.Error(msg,
		zap.String("op", op),
		zap.Error(err),
	)
	return &loggedError{err: fmt.Errorf("%s: %w", msg, err)}
}

// reportError writes err to w unless the logger already reported it. Errors
// raised before the logger exists, and cobra usage errors, land here.
func reportError(w io.Writer, err error) {
	var logged *loggedError
	if errors.As(err, &logged) {
		return
	}
	fmt.Fprintf(w, "{\"op\": \"main\", \"level\": \"fatal\", \"error\": %q}\n", err.Error())
}

func versionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(a.stdout, "mortgage-analytics %s (commit %s, built %s)\n", version, commit, date)
			if bi, ok := debug.ReadBuildInfo(); ok && bi != nil && bi.Main.Version != "" {
				fmt.Fprintf(a.stdout, "module %s %s\n", bi.Main.Path, bi.Main.Version)
			}
		},
	}
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		reportError(os.Stderr, err)
		os.Exit(1)
	}
}
