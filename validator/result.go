package validator

import (
	"errors"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Result is the outcome of validating data against a schema.
type Result struct {
	Valid bool
	// Error describes why data is invalid. It may be nil when the failure is
	// only due to Missing references.
	Error *Error
	// Missing lists references that could not be resolved.
	Missing []string
}

// Error is a validation failure, optionally with nested causes.
type Error struct {
	// Message is a readable summary; for the root error it joins the leaf causes.
	Message          string
	InstanceLocation string
	KeywordLocation  string
	Causes           []*Error
}

func (e *Error) Error() string {
	if e == nil || e.Message == "" {
		return "validation failed"
	}
	return e.Message
}

// Leaves returns the innermost causes, in order. An error without causes is its own leaf.
func (e *Error) Leaves() []*Error {
	if e == nil {
		return nil
	}
	if len(e.Causes) == 0 {
		return []*Error{e}
	}
	var out []*Error
	for _, c := range e.Causes {
		out = append(out, c.Leaves()...)
	}
	return out
}

func valid() Result { return Result{Valid: true} }

func invalid(msg string) Result {
	return Result{Error: &Error{Message: msg}}
}

func missing(refs []string) Result {
	return Result{Missing: refs}
}

// fromEngine converts an error returned by jsonschema.Schema.Validate.
func fromEngine(err error) Result {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return invalid(err.Error())
	}
	root := convert(ve)
	leaves := root.Leaves()
	msgs := make([]string, 0, len(leaves))
	for _, l := range leaves {
		msgs = append(msgs, locationOrRoot(l.InstanceLocation)+": "+l.Message)
	}
	root.Message = strings.Join(msgs, "; ")
	return Result{Error: root}
}

func convert(ve *jsonschema.ValidationError) *Error {
	e := &Error{
		Message:          ve.Message,
		InstanceLocation: ve.InstanceLocation,
		KeywordLocation:  ve.KeywordLocation,
	}
	for _, c := range ve.Causes {
		e.Causes = append(e.Causes, convert(c))
	}
	return e
}

func locationOrRoot(loc string) string {
	if loc == "" {
		return "<root>"
	}
	return loc
}
