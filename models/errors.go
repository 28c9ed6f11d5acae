package models

import "fmt"

// Error types consumed by helper.GetStatusCode. Services translate store and
// policy failures into these; handlers never invent their own wording.

type ErrorUnauthorized struct {
	Message string
}

func (e ErrorUnauthorized) Error() string {
	return e.Message
}

type ErrorForbidden struct {
	Message string
	Reason  string
}

func (e ErrorForbidden) Error() string {
	return e.Message
}

type ErrorNotFound struct {
	Message string
}

func (e ErrorNotFound) Error() string {
	return e.Message
}

// ErrorConflict covers self-targeted admin actions (self delete, bulk action
// on no one but yourself), distinct from a plain authorization denial.
type ErrorConflict struct {
	Message string
}

func (e ErrorConflict) Error() string {
	return e.Message
}

type ErrorValidation struct {
	Fields map[string][]string
}

func (e ErrorValidation) Error() string {
	for field, msgs := range e.Fields {
		if len(msgs) > 0 {
			return fmt.Sprintf("%s: %s", field, msgs[0])
		}
	}
	return "validation failed"
}

func NewFieldError(field, message string) ErrorValidation {
	return ErrorValidation{Fields: map[string][]string{field: {message}}}
}

type ErrorInternalServer struct {
	Message string
}

func (e ErrorInternalServer) Error() string {
	return e.Message
}
