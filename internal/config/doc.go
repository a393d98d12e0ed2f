// Package config loads the b16m configuration from its YAML file, applies
// environment variables and positional arguments on top of it with
// precedence: arguments > environment > YAML config > defaults. Every key of
// the file is optional; missing keys keep their default value and unknown
// keys are ignored.
package config
