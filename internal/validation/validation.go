package validation

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by stores and services when the addressed row does not exist.
var ErrNotFound = errors.New("not found")

// ValidationError is a single rejected field. Its message is what the client sees.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return e.Message
}

// Required builds the "<field> is required" error.
func Required(field string) ValidationError {
	return ValidationError{Field: field, Message: fmt.Sprintf("%s is required", field)}
}

// Problems collects several issues under one headline, reported as {error, details}.
type Problems struct {
	Message string
	Details []string
}

func (p *Problems) Error() string {
	return fmt.Sprintf("%s: %d issue(s)", p.Message, len(p.Details))
}

// Add appends a formatted issue.
func (p *Problems) Add(format string, args ...any) {
	p.Details = append(p.Details, fmt.Sprintf(format, args...))
}

// Err returns p when it holds at least one issue, nil otherwise.
func (p *Problems) Err() error {
	if len(p.Details) == 0 {
		return nil
	}
	return p
}
