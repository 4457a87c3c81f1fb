package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Terminal outcomes of the authentication and admin flows. Controllers
// map these onto HTTP statuses; everything else is treated as an
// internal error and collapsed to a generic message.
var (
	// ErrInvalidCredentials covers both unknown email and wrong
	// password so responses cannot be used for user enumeration.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountLocked      = errors.New("account is temporarily locked due to too many failed login attempts")
	ErrAccountInactive    = errors.New("account is deactivated")
	ErrDuplicateAccount   = errors.New("user with this email already exists")
	ErrForbidden          = errors.New("you do not have permission to perform this action")
	ErrNotFound           = errors.New("user not found")
)

// ValidationErrors collects every violated field of a request. The
// caller always gets the full list, not just the first failure.
type ValidationErrors struct {
	Fields map[string]string
}

func newValidationErrors() *ValidationErrors {
	return &ValidationErrors{Fields: map[string]string{}}
}

func (e *ValidationErrors) add(field, msg string) {
	if _, dup := e.Fields[field]; !dup {
		e.Fields[field] = msg
	}
}

func (e *ValidationErrors) empty() bool {
	return len(e.Fields) == 0
}

func (e *ValidationErrors) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, e.Fields[f]))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// AsValidationErrors unwraps err into field-level validation failures.
func AsValidationErrors(err error) (*ValidationErrors, bool) {
	var ve *ValidationErrors
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
