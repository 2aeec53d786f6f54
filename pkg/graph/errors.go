package graph

import (
	"errors"
	"fmt"
)

// Sentinel errors for graph construction and lookups.
var (
	ErrDuplicateID      = errors.New("duplicate supplier id")
	ErrMissingReference = errors.New("missing reference")
	ErrUnknownCountry   = errors.New("unknown country code")
	ErrMalformedSchema  = errors.New("malformed record")
	ErrCyclicGraph      = errors.New("dependency graph contains a cycle")
	ErrNodeNotFound     = errors.New("supplier not found")
)

// ValidationError reports why a build was rejected. Builds are all-or-nothing:
// the first violation aborts and no partial graph is returned.
type ValidationError struct {
	Kind   error  // one of the sentinel errors above
	ID     string // offending supplier/dependency id, if applicable
	Field  string // offending field, for schema violations
	Detail string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	switch {
	case e.ID != "" && e.Field != "":
		return fmt.Sprintf("%v: %s (field %s): %s", e.Kind, e.ID, e.Field, e.Detail)
	case e.ID != "":
		return fmt.Sprintf("%v: %s: %s", e.Kind, e.ID, e.Detail)
	case e.Detail != "":
		return fmt.Sprintf("%v: %s", e.Kind, e.Detail)
	default:
		return e.Kind.Error()
	}
}

// Unwrap returns the sentinel kind for errors.Is matching.
func (e *ValidationError) Unwrap() error {
	return e.Kind
}

func validationErr(kind error, id, field, format string, args ...any) *ValidationError {
	return &ValidationError{
		Kind:   kind,
		ID:     id,
		Field:  field,
		Detail: fmt.Sprintf(format, args...),
	}
}
