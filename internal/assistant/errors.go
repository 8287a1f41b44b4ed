package assistant

import "errors"

var (
	// ErrInvalidInput means a request precondition failed before any LLM
	// call was made.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUpstream means the LLM call failed or returned output that could
	// not be parsed.
	ErrUpstream = errors.New("upstream LLM failure")
)
