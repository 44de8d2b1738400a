package positions

import (
	"errors"
	"fmt"
)

// ErrNoSnapshot is returned by a Repository when no snapshot has ever
// been persisted. The store falls back to the seed portfolio.
var ErrNoSnapshot = errors.New("no position snapshot stored")

// ValidationError reports malformed position input. The offending call
// creates no partial state.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid position: %s %s", e.Field, e.Reason)
}

// NotFoundError reports an operation against a nonexistent position id
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("position not found: %s", e.ID)
}
