package schemaprops

import (
	"errors"
	"fmt"
	"strings"

	"github.com/openbindings/schemamodel-go/structural"
	"github.com/openbindings/schemamodel-go/validator"
)

// Registry stores the named sub-schemas $refs are resolved against.
// *validator.Registry implements it.
type Registry interface {
	AddSchema(id string, schema map[string]any)
	GetSchema(id string) (map[string]any, bool)
}

// Resolver resolves property sets against a single registry.
//
// A Resolver is not safe for concurrent use.
type Resolver struct {
	// Registry receives the root schema and its definitions.
	Registry Registry

	// Fallback, when set, is consulted for absolute-URL refs the Registry
	// does not know. It is never written to.
	Fallback Registry

	// Missing collects the refs that could not be resolved during the last
	// Resolve call. Unresolved refs contribute no properties.
	Missing []string

	// refStack tracks $ref resolution to detect cycles within a single call.
	refStack map[string]bool
}

// New returns a Resolver over a fresh registry derived from base
// (validator.Default when base is nil). Refs to absolute URLs registered on
// base remain resolvable.
func New(base *validator.Registry) *Resolver {
	if base == nil {
		base = validator.Default
	}
	return &Resolver{Registry: base.Fresh(), Fallback: base}
}

// Resolve returns the flattened properties of schema using a fresh registry.
func Resolve(schema map[string]any) (map[string]any, error) {
	return New(nil).Resolve(schema)
}

// Resolve treats schema as a root: it is registered under "" and its
// definitions under "#/definitions/<name>" before any $ref is followed.
// The result is a deep copy the caller may modify.
func (r *Resolver) Resolve(schema map[string]any) (map[string]any, error) {
	if r == nil || r.Registry == nil {
		return nil, errors.New("schemaprops: nil resolver")
	}
	r.refStack = map[string]bool{}
	r.Missing = nil
	if schema == nil {
		return map[string]any{}, nil
	}
	r.Registry.AddSchema("", schema)
	return r.properties(schema, "", true)
}

// Properties resolves a nested schema against the registry populated by a
// previous Resolve call. Root-only rules (oneOf flattening) do not apply.
func (r *Resolver) Properties(schema map[string]any) (map[string]any, error) {
	if r == nil || r.Registry == nil {
		return nil, errors.New("schemaprops: nil resolver")
	}
	if r.refStack == nil {
		r.refStack = map[string]bool{}
	}
	if schema == nil {
		return map[string]any{}, nil
	}
	return r.properties(schema, "", false)
}

// RefError indicates a $ref resolution problem.
type RefError struct {
	Path string
	Ref  string
	Err  error
}

func (e *RefError) Error() string {
	if e == nil {
		return "ref error"
	}
	if e.Path == "" {
		return fmt.Sprintf("$ref %q: %v", e.Ref, e.Err)
	}
	return fmt.Sprintf("%s.$ref %q: %v", e.Path, e.Ref, e.Err)
}

func (e *RefError) Unwrap() error { return e.Err }

// SchemaError indicates a malformed composition keyword.
type SchemaError struct {
	Path    string
	Message string
}

func (e *SchemaError) Error() string {
	if e == nil {
		return "schema error"
	}
	return fmt.Sprintf("schema error at %s: %s", pathOrRoot(e.Path), e.Message)
}

// ErrCycle is wrapped by RefError when a $ref leads back to itself.
var ErrCycle = errors.New("cycle detected")

// compositions lists the keywords whose branches are folded, by precedence.
// Only the first one present in a schema is used; oneOf only at the root.
var compositions = []string{"anyOf", "allOf", "oneOf"}

func (r *Resolver) properties(schema map[string]any, path string, root bool) (map[string]any, error) {
	if err := r.register(schema, path); err != nil {
		return nil, err
	}

	if ref, ok := schema["$ref"].(string); ok && strings.TrimSpace(ref) != "" {
		if r.refStack[ref] {
			return nil, &RefError{Path: pathOrRoot(path), Ref: ref, Err: ErrCycle}
		}
		target, ok := r.lookup(ref)
		if !ok {
			r.Missing = append(r.Missing, ref)
			return map[string]any{}, nil
		}
		r.refStack[ref] = true
		defer delete(r.refStack, ref)
		return r.properties(target, path, root)
	}

	if props, ok := schema["properties"]; ok {
		pm, ok := asMap(props)
		if !ok {
			return nil, &SchemaError{Path: ptrJoin(path, "properties"), Message: "must be object"}
		}
		return structural.CloneMap(pm, nil), nil
	}

	res := map[string]any{}
	k, v, ok := composition(schema, root)
	if !ok {
		return res, nil
	}
	arr, ok := asSlice(v)
	if !ok {
		return nil, &SchemaError{Path: ptrJoin(path, k), Message: "must be array"}
	}
	for idx, item := range arr {
		branchPath := ptrJoin(path, fmt.Sprintf("%s[%d]", k, idx))
		branch, ok := asMap(item)
		if !ok {
			return nil, &SchemaError{Path: branchPath, Message: "must be object"}
		}
		props, err := r.properties(branch, branchPath, false)
		if err != nil {
			return nil, err
		}
		res = structural.Merge(res, props)
	}
	return res, nil
}

// composition returns the composition keyword of schema that contributes
// properties, and its value.
func composition(schema map[string]any, root bool) (string, any, bool) {
	for _, k := range compositions {
		if k == "oneOf" && !root {
			continue
		}
		if v, ok := schema[k]; ok && v != nil {
			return k, v, true
		}
	}
	return "", nil, false
}

// register adds the definitions declared by schema to the registry.
func (r *Resolver) register(schema map[string]any, path string) error {
	defs, ok := schema["definitions"]
	if !ok {
		return nil
	}
	dm, ok := asMap(defs)
	if !ok {
		return &SchemaError{Path: ptrJoin(path, "definitions"), Message: "must be object"}
	}
	for name, def := range dm {
		if d, ok := asMap(def); ok {
			r.Registry.AddSchema("#/definitions/"+escapePointerToken(name), d)
		}
	}
	return nil
}

func (r *Resolver) lookup(ref string) (map[string]any, bool) {
	if s, ok := r.Registry.GetSchema(ref); ok {
		return s, true
	}
	if r.Fallback != nil && !strings.HasPrefix(ref, "#") {
		return r.Fallback.GetSchema(ref)
	}
	return nil, false
}
