package strategy

import "errors"

var (
	// ErrNotFound means no persisted record exists for a profile id.
	ErrNotFound = errors.New("strategy not found")
	// ErrNoActiveStrategy means a mutation was attempted before a profile
	// was selected for the session.
	ErrNoActiveStrategy = errors.New("no active strategy")
	// ErrNoTemplateInstance means AddInstance was called on a criterion with
	// zero instances, so there is no field shape to clone.
	ErrNoTemplateInstance = errors.New("criterion has no template instance")
	// ErrPersistence wraps a failed repo write during a mutation.
	ErrPersistence = errors.New("strategy persistence failed")
)
