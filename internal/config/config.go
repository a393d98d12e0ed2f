package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	appName         = "b16m"
	configFileName  = "config.yaml"
	defaultLogLevel = "info"

	githubRawURLFormat = "https://raw.githubusercontent.com/%s/%s/master/%s"
)

// Environment variables read by Load.
const (
	EnvConfigPath = "B16M_CONFIG"
	EnvLogLevel   = "B16M_LOG_LEVEL"
)

// Config is the resolved b16m configuration.
type Config struct {
	Scheme              string                 `yaml:"scheme"`
	SchemeRepositoryURL string                 `yaml:"scheme_repository_url"`
	SchemesListURL      string                 `yaml:"schemes_list_url"`
	TemplatesListURL    string                 `yaml:"templates_list_url"`
	Applications        map[string]Application `yaml:"applications"`
	LogLevel            string                 `yaml:"log_level"`
	RateLimit           RateLimit              `yaml:"rate_limit"`
}

// Application describes a target application whose configuration follows the scheme.
type Application struct {
	Hook                  string          `yaml:"hook"`
	TemplateRepositoryURL string          `yaml:"template_repository_url"`
	Files                 map[string]File `yaml:"files"`
}

// File describes where a template output lands for an application.
type File struct {
	Destination string `yaml:"destination"`
	Mode        string `yaml:"mode"`
	StartMarker string `yaml:"start_marker"`
	EndMarker   string `yaml:"end_marker"`
}

// RateLimit paces remote requests. Zero values disable pacing.
type RateLimit struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

// Overrides holds values supplied on the command line.
type Overrides struct {
	ConfigFile string
	LogLevel   string
	Args       []string
}

// GitHubFileURL returns the raw content URL of a file on the master branch of a GitHub repository.
func GitHubFileURL(user, repository, file string) string {
	return fmt.Sprintf(githubRawURLFormat, user, repository, file)
}

// DefaultSchemesListURL returns the upstream list of scheme repositories.
func DefaultSchemesListURL() string {
	return GitHubFileURL("chriskempson", "base16-schemes-source", "list.yaml")
}

// DefaultTemplatesListURL returns the upstream list of template repositories.
func DefaultTemplatesListURL() string {
	return GitHubFileURL("chriskempson", "base16-templates-source", "list.yaml")
}

// DefaultPath returns the per-user location of the configuration file.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate user config directory: %w", err)
	}
	return filepath.Join(dir, appName, configFileName), nil
}

// Load resolves the configuration path, decodes the file and applies the
// environment and command-line overrides.
func Load(overrides *Overrides) (Config, error) {
	if overrides == nil {
		overrides = &Overrides{}
	}

	path, err := resolvePath(overrides.ConfigFile)
	if err != nil {
		return Config{}, err
	}

	cfg, err := LoadFile(path)
	if err != nil {
		return Config{}, err
	}

	applyEnvConfig(&cfg)

	if overrides.LogLevel != "" {
		cfg.LogLevel = overrides.LogLevel
	}

	if err := ApplyArgs(&cfg, overrides.Args); err != nil {
		return Config{}, err
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LoadFile decodes the configuration file at path on top of the defaults.
func LoadFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("opening configuration file: %w", err)
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return Config{}, fmt.Errorf("parsing configuration file: %w", err)
	}
	return cfg, nil
}

// Decode reads a YAML configuration document from r on top of the defaults.
// An empty document yields the defaults.
func Decode(r io.Reader) (Config, error) {
	cfg := defaultConfig()
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, err
	}
	normalize(&cfg)
	return cfg, nil
}

// ApplyArgs overlays the positional arguments: the first replaces the scheme
// name, the second the scheme repository URL.
func ApplyArgs(cfg *Config, args []string) error {
	switch len(args) {
	case 0:
	case 1:
		cfg.Scheme = args[0]
	case 2:
		cfg.Scheme = args[0]
		cfg.SchemeRepositoryURL = args[1]
	default:
		return ErrUsage
	}
	return nil
}

func defaultConfig() Config {
	return Config{
		SchemesListURL:   DefaultSchemesListURL(),
		TemplatesListURL: DefaultTemplatesListURL(),
		Applications:     map[string]Application{},
		LogLevel:         defaultLogLevel,
	}
}

func resolvePath(flagPath string) (string, error) {
	if flagPath != "" {
		return flagPath, nil
	}
	if envPath := strings.TrimSpace(os.Getenv(EnvConfigPath)); envPath != "" {
		return envPath, nil
	}
	return DefaultPath()
}

func normalize(cfg *Config) {
	if cfg.Applications == nil {
		cfg.Applications = map[string]Application{}
	}
	for name, app := range cfg.Applications {
		if app.Files == nil {
			app.Files = map[string]File{}
			cfg.Applications[name] = app
		}
	}
}

func applyEnvConfig(cfg *Config) {
	if level := strings.TrimSpace(os.Getenv(EnvLogLevel)); level != "" {
		cfg.LogLevel = level
	}
}

func validateConfig(cfg Config) error {
	if cfg.RateLimit.RPS < 0 || cfg.RateLimit.Burst < 0 {
		return ErrInvalidRateLimit
	}
	return nil
}
