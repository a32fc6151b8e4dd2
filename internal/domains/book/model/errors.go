package model

import "errors"

var (
	ErrEmptyInput       = errors.New("input contains no book entries")
	ErrUnsupportedInput = errors.New("unsupported input format (use .json or .xlsx)")
	ErrMissingColumn    = errors.New("missing required column")
	ErrInvalidPrice     = errors.New("invalid price")
	ErrMissingTitle     = errors.New("book entry has no title")
)
