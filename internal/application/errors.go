package application

import "errors"

var (
	// ErrTemplateNotFound is returned when an application has no template
	// repository configured and the templates list has no entry for it.
	ErrTemplateNotFound = errors.New("can't find template in list")
	// ErrNoScheme is recorded when the configuration names no scheme.
	ErrNoScheme = errors.New("no scheme configured")
)
