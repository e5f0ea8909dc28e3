package contact

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingField is wrapped by every *MissingFieldError.
	ErrMissingField = errors.New("contact: missing required field")

	// ErrInvalidEmail is returned when the email field fails IsValidEmail.
	ErrInvalidEmail = errors.New("contact: invalid email")
)

// MissingFieldError names a required field that was empty after trimming.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("contact: missing required field %q", e.Field)
}

// Unwrap lets errors.Is(err, ErrMissingField) match.
func (e *MissingFieldError) Unwrap() error { return ErrMissingField }

// ValidationError collects every problem found in a Form, in field order.
type ValidationError struct {
	Problems []error
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		parts = append(parts, p.Error())
	}
	return strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() []error { return e.Problems }

// Fields returns the form field name behind each problem ("name", "email", "message").
func (e *ValidationError) Fields() []string {
	out := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		out = append(out, FieldOf(p))
	}
	return out
}

// FieldOf maps a validation error to the form field it concerns.
// It returns "" for errors that did not come from this package.
func FieldOf(err error) string {
	var mf *MissingFieldError
	switch {
	case errors.As(err, &mf):
		return mf.Field
	case errors.Is(err, ErrInvalidEmail):
		return "email"
	}
	return ""
}

// Notice turns a list of problems into one sentence a visitor can act on.
//
//	Notice([name, email, message]) == "Please provide your name, a valid email, and a short message."
func Notice(problems []error) string {
	if len(problems) == 0 {
		return ""
	}
	items := make([]string, 0, len(problems))
	for _, p := range problems {
		switch FieldOf(p) {
		case "name":
			items = append(items, "your name")
		case "email":
			items = append(items, "a valid email")
		case "message":
			items = append(items, "a short message")
		default:
			items = append(items, p.Error())
		}
	}

	var list string
	switch len(items) {
	case 1:
		list = items[0]
	case 2:
		list = items[0] + " and " + items[1]
	default:
		list = strings.Join(items[:len(items)-1], ", ") + ", and " + items[len(items)-1]
	}
	return "Please provide " + list + "."
}
