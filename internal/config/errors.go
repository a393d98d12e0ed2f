package config

import "errors"

var (
	// ErrUsage is returned when more positional arguments are given than the
	// scheme name and the scheme repository URL.
	ErrUsage = errors.New("too many arguments")
	// ErrInvalidRateLimit is returned when the rate_limit section holds negative values.
	ErrInvalidRateLimit = errors.New("rate_limit rps and burst must be >= 0")
)
