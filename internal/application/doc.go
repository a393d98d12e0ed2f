// Package application provides dependency wiring and the resolution pipeline.
// It loads the schemes and templates lists, resolves the configured scheme and
// every configured application's template repository, and summarises the
// outcome in a Report, keeping the main package focused on CLI parsing and
// orchestration.
package application
