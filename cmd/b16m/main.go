package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/eugenenazirov/b16m/internal/application"
	"github.com/eugenenazirov/b16m/internal/config"
	"github.com/eugenenazirov/b16m/internal/logging"
)

var newApplication = func(cfg config.Config, logger *zap.Logger) *application.App {
	return application.New(cfg, logger)
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	exitCode := -1
	kingpinApp := kingpin.New("b16m", "Base16 manager - resolves a base16 color scheme and the templates of your applications").
		UsageWriter(stderr).
		ErrorWriter(stderr).
		Terminate(func(code int) {
			if exitCode < 0 {
				exitCode = code
			}
		})
	configFile := kingpinApp.Flag("config", "Path to YAML configuration file (defaults to $"+config.EnvConfigPath+", then the user config directory)").String()
	logLevel := kingpinApp.Flag("log-level", "Log level (debug, info, warn, error)").String()
	positional := kingpinApp.Arg("scheme", "Scheme to use instead of the configured one, optionally followed by the scheme_repository_url to fetch it from").
		PlaceHolder("<scheme> [<scheme_repository_url>]").
		Strings()

	_, err := kingpinApp.Parse(args)
	if exitCode >= 0 {
		return exitCode
	}
	if err != nil {
		kingpinApp.Errorf("%s, try --help", err)
		return 1
	}

	if len(*positional) > 2 {
		kingpinApp.Errorf("%s, try --help", config.ErrUsage)
		return 1
	}

	cfg, err := config.Load(&config.Overrides{
		ConfigFile: *configFile,
		LogLevel:   *logLevel,
		Args:       *positional,
	})
	if err != nil {
		kingpinApp.Errorf("%s", err)
		return 1
	}

	logger, err := logging.New(cfg.LogLevel, stderr)
	if err != nil {
		kingpinApp.Errorf("initializing logger: %s", err)
		return 1
	}
	defer func() {
		_ = logger.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := newApplication(cfg, logger).Run(ctx)
	if err != nil {
		kingpinApp.Errorf("%s", err)
		return 1
	}

	if report.Err != nil {
		logger.Warn("some applications could not be resolved", zap.Int("failed", len(multierr.Errors(report.Err))))
	}

	if err := application.WriteReport(stdout, report); err != nil {
		kingpinApp.Errorf("writing report: %s", err)
		return 1
	}

	return 0
}
