package configuration

import "errors"

var (
	ErrNotFound   = errors.New("configuration not found")
	ErrValidation = errors.New("configuration validation failed")
	ErrOverlap    = errors.New("configuration overlaps an existing one")
)
