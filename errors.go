package schemamodel

import (
	"errors"
	"fmt"
	"strings"

	"github.com/openbindings/schemamodel-go/validator"
)

var (
	// ErrSchemaNotDefined is returned when a kind was never bound to a schema.
	ErrSchemaNotDefined = errors.New("schemamodel: schema not defined")

	// ErrValidationFailed is returned when validation fails without a message
	// or missing references to report.
	ErrValidationFailed = errors.New("schemamodel: validation failed")

	// ErrNoKind is returned when decoding into a Model that was not created by a Kind.
	ErrNoKind = errors.New("schemamodel: model has no kind")
)

// ValidationError is returned by Set when the candidate data does not satisfy
// the kind's schema. The model is left unchanged.
type ValidationError struct {
	Kind    string
	Message string
	// Cause is the structured validator error, including nested causes.
	Cause *validator.Error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "validation error"
	}
	if e.Kind == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *ValidationError) Unwrap() error {
	if e == nil || e.Cause == nil {
		return nil
	}
	return e.Cause
}

// MissingRefError is returned by Set when the schema references sub-schemas
// that cannot be resolved.
type MissingRefError struct {
	Kind string
	Refs []string
}

func (e *MissingRefError) Error() string {
	if e == nil {
		return "missing $ref schemas"
	}
	msg := "missing $ref schemas: " + strings.Join(e.Refs, ", ")
	if e.Kind == "" {
		return msg
	}
	return e.Kind + ": " + msg
}

// resultError turns a failed validation result into the error Set returns.
func resultError(kind string, res validator.Result) error {
	if res.Error != nil && res.Error.Message != "" {
		return &ValidationError{Kind: kind, Message: res.Error.Message, Cause: res.Error}
	}
	if len(res.Missing) > 0 {
		return &MissingRefError{Kind: kind, Refs: append([]string(nil), res.Missing...)}
	}
	return ErrValidationFailed
}
