package schemamodel

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/openbindings/schemamodel-go/canonicaljson"
	"github.com/openbindings/schemamodel-go/internal/store"
	"github.com/openbindings/schemamodel-go/structural"
	"github.com/openbindings/schemamodel-go/validator"
)

// Result is the outcome of a validation.
type Result = validator.Result

// Transform is the hook Clone applies to every member before recursing.
type Transform = structural.Transform

// Clone deep-copies plain data. See package structural.
func Clone(v any, fn Transform) any { return structural.Clone(v, fn) }

// Merge deep-merges overlay onto a copy of base. See package structural.
func Merge(base, overlay map[string]any) map[string]any { return structural.Merge(base, overlay) }

// Model is an instance of a Kind.
//
// Public values satisfy the kind's schema, unless they were written
// WithoutValidation or a Set replaced part of a nested object (see Set). Internal values are stored apart and never validated.
// A Model is not safe for concurrent mutation.
type Model struct {
	kind  *Kind
	store store.Store
}

// Kind returns the kind the model was created by.
func (m *Model) Kind() *Kind { return m.kind }

// Get returns the value of a property, or nil if it is undefined.
func (m *Model) Get(name string, opts ...Option) any {
	v, _ := m.Lookup(name, opts...)
	return v
}

// Lookup returns the value of a property and whether it is defined.
// Objects, sequences and times are returned as copies; nested models are not.
func (m *Model) Lookup(name string, opts ...Option) (any, bool) {
	o := resolveOptions(opts)
	v, ok := m.store.Get(name, o.internal)
	if !ok {
		return nil, false
	}
	return structural.Clone(v, nil), true
}

// SetField sets a single property. It is shorthand for Set(map[string]any{name: value}).
func (m *Model) SetField(name string, value any, opts ...Option) error {
	return m.Set(map[string]any{name: value}, opts...)
}

// Set writes every entry of data.
//
// Unless WithInternal or WithoutValidation is given, the model's current data
// merged with data is validated first; if it does not satisfy the schema the
// model is left untouched and a *ValidationError, a *MissingRefError or
// ErrValidationFailed is returned.
//
// Each entry replaces the stored value as given, while validation sees nested
// objects deep-merged onto the current ones. Setting part of a nested object
// can therefore pass validation yet leave the model's data invalid, for
// example when the omitted members were required.
func (m *Model) Set(data map[string]any, opts ...Option) error {
	o := resolveOptions(opts)
	if !o.internal && o.validate {
		if err := m.check(data); err != nil {
			return err
		}
	}
	m.store.Set(structural.CloneMap(data, nil), o.internal)
	return nil
}

func (m *Model) check(data map[string]any) error {
	if _, err := m.kind.Schema(); err != nil {
		return err
	}
	current, err := m.ToJSON(true)
	if err != nil {
		return err
	}
	incoming, err := serialize(data, true)
	if err != nil {
		return err
	}
	res := m.kind.Validate(structural.Merge(current, incoming))
	if res.Valid {
		return nil
	}
	err = resultError(m.kind.name, res)
	m.kind.log().Debug("schemamodel: mutation rejected", "kind", m.kind.name, "properties", sortedKeys(data), "defined", m.store.Keys(), "error", err)
	return err
}

// Validate checks the model's current public data against the schema.
func (m *Model) Validate() Result {
	data, err := m.ToJSON(true)
	if err != nil {
		return Result{Error: &validator.Error{Message: err.Error()}}
	}
	return m.kind.Validate(data)
}

// ValidateData checks data against the model's schema without touching the model.
// Nested models within data are validated through their serialized form.
func (m *Model) ValidateData(data map[string]any) Result {
	plain, err := serialize(data, true)
	if err != nil {
		return Result{Error: &validator.Error{Message: err.Error()}}
	}
	return m.kind.Validate(plain)
}

// ToJSON returns the public value of every declared property as plain data.
// With stripUndefined, properties that were never set are omitted; otherwise
// they are present with a nil value. Nested models are replaced by their own
// ToJSON(stripUndefined) output.
func (m *Model) ToJSON(stripUndefined bool) (map[string]any, error) {
	names, err := m.kind.PropertyNames()
	if err != nil {
		return nil, err
	}
	res := make(map[string]any, len(names))
	for _, name := range names {
		v, ok := m.store.Get(name, false)
		if !ok && stripUndefined {
			continue
		}
		res[name] = v
	}
	return serialize(res, stripUndefined)
}

// MarshalJSON encodes ToJSON(true) as canonical JSON.
func (m *Model) MarshalJSON() ([]byte, error) {
	data, err := m.ToJSON(true)
	if err != nil {
		return nil, err
	}
	return canonicaljson.Marshal(data)
}

// UnmarshalJSON sets the properties of a JSON object on a model created by a Kind.
func (m *Model) UnmarshalJSON(b []byte) error {
	if m.kind == nil {
		return ErrNoKind
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var data map[string]any
	if err := dec.Decode(&data); err != nil {
		return fmt.Errorf("schemamodel: decode: %w", err)
	}
	return m.Set(data)
}

// serialize deep-copies data, replacing nested models by their ToJSON output.
func serialize(data map[string]any, stripUndefined bool) (map[string]any, error) {
	var firstErr error
	out := structural.CloneMap(data, func(_ any, _ any, v any) any {
		nested, ok := v.(*Model)
		if !ok {
			return v
		}
		if nested == nil {
			return nil
		}
		plain, err := nested.ToJSON(stripUndefined)
		if err != nil && firstErr == nil {
			firstErr = err
		}
		return plain
	})
	if firstErr != nil {
		return nil, firstErr
	}
	return out, nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
