package application

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Report summarises a run.
type Report struct {
	SchemesListURL   string              `yaml:"schemes_list_url"`
	TemplatesListURL string              `yaml:"templates_list_url"`
	SchemesCount     int                 `yaml:"schemes_count"`
	TemplatesCount   int                 `yaml:"templates_count"`
	Scheme           *SchemeReport       `yaml:"scheme,omitempty"`
	Applications     []ApplicationReport `yaml:"applications,omitempty"`

	// Err aggregates the per-application failures.
	Err error `yaml:"-"`
}

// SchemeReport describes the resolved scheme.
type SchemeReport struct {
	Name          string         `yaml:"name"`
	RepositoryURL string         `yaml:"repository_url"`
	DocumentURL   string         `yaml:"document_url"`
	Title         string         `yaml:"title"`
	Author        string         `yaml:"author"`
	Variables     map[string]any `yaml:"variables"`
}

// ApplicationReport describes a resolved application.
type ApplicationReport struct {
	Name                  string           `yaml:"name"`
	TemplateRepositoryURL string           `yaml:"template_repository_url,omitempty"`
	Hook                  string           `yaml:"hook,omitempty"`
	Templates             []TemplateReport `yaml:"templates,omitempty"`
	Error                 string           `yaml:"error,omitempty"`
}

// TemplateReport describes one template file of an application.
type TemplateReport struct {
	Name        string `yaml:"name"`
	Extension   string `yaml:"extension,omitempty"`
	Output      string `yaml:"output,omitempty"`
	Destination string `yaml:"destination,omitempty"`
	Mode        string `yaml:"mode,omitempty"`
}

// WriteReport encodes the report as YAML.
func WriteReport(w io.Writer, report *Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return enc.Close()
}
