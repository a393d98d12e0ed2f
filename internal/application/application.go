package application

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/eugenenazirov/b16m/internal/config"
	"github.com/eugenenazirov/b16m/internal/remote"
	"github.com/eugenenazirov/b16m/internal/scheme"
	"github.com/eugenenazirov/b16m/internal/storage"
)

const templateConfigPath = "templates/config.yaml"

// TemplateConfig is the templates/config.yaml document of a template repository.
type TemplateConfig map[string]TemplateFile

// TemplateFile describes one template declared by a template repository.
type TemplateFile struct {
	Extension string `yaml:"extension"`
	Output    string `yaml:"output"`
}

// App encapsulates the resolution pipeline dependencies.
type App struct {
	cfg     config.Config
	fetcher remote.Fetcher
	storage storage.Storage
	logger  *zap.Logger
}

// Option configures App construction.
type Option func(*App)

// WithFetcher overrides the remote fetcher (primarily for tests).
func WithFetcher(fetcher remote.Fetcher) Option {
	return func(a *App) {
		a.fetcher = fetcher
	}
}

// WithStorage overrides the list storage.
func WithStorage(store storage.Storage) Option {
	return func(a *App) {
		a.storage = store
	}
}

// New initializes the application with all dependencies from the provided configuration.
func New(cfg config.Config, logger *zap.Logger, opts ...Option) *App {
	if logger == nil {
		logger = zap.NewNop()
	}

	a := &App{
		cfg:    cfg,
		logger: logger,
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.fetcher == nil {
		a.fetcher = remote.NewClient(logger, remote.WithRateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
	}
	if a.storage == nil {
		a.storage = storage.NewMemoryStorage()
	}

	return a
}

// Storage returns the storage holding the fetched lists.
func (a *App) Storage() storage.Storage {
	return a.storage
}

// Run fetches the schemes list then the templates list, resolves the scheme
// and every application, and returns the resulting report. Failing to
// retrieve or parse a list or the scheme is fatal; failures specific to one
// application are recorded in the report and aggregated in Report.Err.
func (a *App) Run(ctx context.Context) (*Report, error) {
	report := &Report{
		SchemesListURL:   a.cfg.SchemesListURL,
		TemplatesListURL: a.cfg.TemplatesListURL,
	}

	a.logger.Debug("retrieving schemes list", zap.String("url", a.cfg.SchemesListURL))
	schemes, err := a.fetcher.FetchList(ctx, a.cfg.SchemesListURL)
	if err != nil {
		return nil, phaseError("schemes list", err)
	}
	a.storage.SetSchemes(schemes)
	report.SchemesCount = len(schemes)

	a.logger.Debug("retrieving templates list", zap.String("url", a.cfg.TemplatesListURL))
	templates, err := a.fetcher.FetchList(ctx, a.cfg.TemplatesListURL)
	if err != nil {
		return nil, phaseError("templates list", err)
	}
	a.storage.SetTemplates(templates)
	report.TemplatesCount = len(templates)

	if a.cfg.Scheme == "" {
		a.logger.Warn("skipping scheme resolution", zap.Error(ErrNoScheme))
	} else {
		schemeReport, err := a.resolveScheme(ctx)
		if err != nil {
			return nil, err
		}
		report.Scheme = schemeReport
	}

	for _, name := range slices.Sorted(maps.Keys(a.cfg.Applications)) {
		appReport, err := a.resolveApplication(ctx, name, a.cfg.Applications[name])
		if err != nil {
			a.logger.Warn("resolving application", zap.String("application", name), zap.Error(err))
			appReport.Error = err.Error()
			report.Err = multierr.Append(report.Err, fmt.Errorf("application %s: %w", name, err))
		}
		report.Applications = append(report.Applications, appReport)
	}

	return report, nil
}

func (a *App) resolveScheme(ctx context.Context) (*SchemeReport, error) {
	repositoryURL := a.cfg.SchemeRepositoryURL
	if repositoryURL == "" {
		found, err := scheme.FindRepository(a.storage.Schemes(), a.cfg.Scheme)
		if err != nil {
			return nil, fmt.Errorf("resolving scheme: %w", err)
		}
		repositoryURL = found
	}

	user, repository, err := remote.ParseGitHubRepositoryURL(repositoryURL)
	if err != nil {
		return nil, fmt.Errorf("resolving scheme: %w", err)
	}

	documentURL := config.GitHubFileURL(user, repository, scheme.FileName(a.cfg.Scheme))
	a.logger.Info("retrieving scheme",
		zap.String("scheme", a.cfg.Scheme),
		zap.String("url", documentURL),
	)

	var colors scheme.ColorScheme
	if err := a.fetcher.FetchYAML(ctx, documentURL, &colors); err != nil {
		return nil, phaseError("scheme", err)
	}

	if err := colors.Validate(); err != nil {
		a.logger.Warn("scheme has invalid colors", zap.String("scheme", a.cfg.Scheme), zap.Error(err))
	}

	return &SchemeReport{
		Name:          a.cfg.Scheme,
		RepositoryURL: repositoryURL,
		DocumentURL:   documentURL,
		Title:         colors.Name,
		Author:        colors.Author,
		Variables:     colors.Vars(),
	}, nil
}

func (a *App) resolveApplication(ctx context.Context, name string, app config.Application) (ApplicationReport, error) {
	log := a.logger.With(zap.String("application", name))
	report := ApplicationReport{
		Name: name,
		Hook: app.Hook,
	}

	repositoryURL := app.TemplateRepositoryURL
	if repositoryURL == "" {
		found, ok := a.storage.Templates()[name]
		if !ok {
			return report, ErrTemplateNotFound
		}
		repositoryURL = found
	}
	report.TemplateRepositoryURL = repositoryURL

	user, repository, err := remote.ParseGitHubRepositoryURL(repositoryURL)
	if err != nil {
		return report, err
	}

	log.Info("retrieving template configuration", zap.String("template_repository_url", repositoryURL))
	var templateCfg TemplateConfig
	if err := a.fetcher.FetchYAML(ctx, config.GitHubFileURL(user, repository, templateConfigPath), &templateCfg); err != nil {
		return report, phaseError("template configuration", err)
	}

	for _, file := range slices.Sorted(maps.Keys(templateCfg)) {
		entry := TemplateReport{
			Name:      file,
			Extension: templateCfg[file].Extension,
			Output:    templateCfg[file].Output,
		}
		if dest, ok := app.Files[file]; ok {
			entry.Destination = expandPath(dest.Destination)
			entry.Mode = dest.Mode
		} else {
			log.Debug("no destination configured", zap.String("file", file))
		}
		report.Templates = append(report.Templates, entry)
	}

	return report, nil
}

// phaseError names the phase that failed: retrieving the document or parsing it.
func phaseError(what string, err error) error {
	var decodeErr *remote.DecodeError
	if errors.As(err, &decodeErr) {
		return fmt.Errorf("parsing %s: %w", what, decodeErr.Err)
	}
	return fmt.Errorf("retrieving %s: %w", what, err)
}

// expandPath expands a leading ~ to the home directory and environment variables.
func expandPath(p string) string {
	if p == "" {
		return p
	}
	if p == "~" || strings.HasPrefix(p, "~/") {
		p = "$HOME" + p[1:]
	}
	return os.ExpandEnv(p)
}
