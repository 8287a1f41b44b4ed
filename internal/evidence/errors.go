package evidence

import "errors"

var (
	ErrNotFound     = errors.New("evidence not found")
	ErrInvalidInput = errors.New("invalid input")
)
