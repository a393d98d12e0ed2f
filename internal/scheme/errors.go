package scheme

import "errors"

var (
	// ErrSchemeNotFound is returned when no list entry matches the scheme name.
	ErrSchemeNotFound = errors.New("scheme not found in schemes list")
	// ErrInvalidColor is returned when a base color is not a 6 digit hexadecimal value.
	ErrInvalidColor = errors.New("color must be a 6 digit hexadecimal value")
)
