package domain

import "errors"

// Sentinel errors used across layers.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnconfigured  = errors.New("restaurant profile is not configured")
	ErrNoIngredients = errors.New("no ingredients selected")
	ErrUnsupported   = errors.New("unsupported image type")
	ErrTooLarge      = errors.New("image exceeds size limit")
)
