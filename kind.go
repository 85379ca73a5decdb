package schemamodel

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/openbindings/schemamodel-go/schemaprops"
	"github.com/openbindings/schemamodel-go/structural"
	"github.com/openbindings/schemamodel-go/validator"
)

// Kind binds one schema to a model type. Models are created with New.
//
// A Kind resolves its property set once, on first use, and keeps its schema
// compiled after the first successful compilation. It is safe for concurrent use. The zero Kind is not
// bound: every operation that needs its schema fails with ErrSchemaNotDefined.
type Kind struct {
	name     string
	schema   Schema
	logger   *slog.Logger
	registry *validator.Registry

	propsOnce sync.Once
	props     map[string]any
	propNames []string
	propsErr  error

	compileMu sync.Mutex
	compiled  *validator.Compiled
}

// NewKind binds schema to a new model kind. The schema must not be modified afterwards.
func NewKind(schema Schema, opts ...KindOption) *Kind {
	k := &Kind{schema: schema}
	for _, opt := range opts {
		if opt != nil {
			opt(k)
		}
	}
	return k
}

// Name returns the name given with WithName, if any.
func (k *Kind) Name() string { return k.name }

// Schema returns the bound schema.
func (k *Kind) Schema() (Schema, error) {
	if k == nil || k.schema == nil {
		return nil, ErrSchemaNotDefined
	}
	return k.schema, nil
}

// Properties returns the flattened property declarations of the schema, keyed
// by property name. The result is a copy.
func (k *Kind) Properties() (map[string]any, error) {
	if err := k.resolve(); err != nil {
		return nil, err
	}
	return structural.CloneMap(k.props, nil), nil
}

// PropertyNames returns the sorted names of the declared properties.
func (k *Kind) PropertyNames() ([]string, error) {
	if err := k.resolve(); err != nil {
		return nil, err
	}
	return append([]string(nil), k.propNames...), nil
}

func (k *Kind) resolve() error {
	schema, err := k.Schema()
	if err != nil {
		return err
	}
	k.propsOnce.Do(func() {
		r := schemaprops.New(k.validator())
		k.props, k.propsErr = r.Resolve(schema)
		if k.propsErr != nil {
			k.log().Debug("schemamodel: property resolution failed", "kind", k.name, "error", k.propsErr)
			return
		}
		if len(r.Missing) > 0 {
			k.log().Debug("schemamodel: unresolved $ref ignored", "kind", k.name, "refs", r.Missing)
		}
		k.propNames = make([]string, 0, len(k.props))
		for name := range k.props {
			k.propNames = append(k.propNames, name)
		}
		sort.Strings(k.propNames)
	})
	return k.propsErr
}

// New creates a model of this kind. Non-empty data is set as if by Set,
// with the same options; an empty model is not validated.
func (k *Kind) New(data map[string]any, opts ...Option) (*Model, error) {
	m := &Model{kind: k}
	if len(data) > 0 {
		if err := m.Set(data, opts...); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Decode creates a model from a JSON or YAML object document.
func (k *Kind) Decode(b []byte, opts ...Option) (*Model, error) {
	data, err := decodeObject(b)
	if err != nil {
		return nil, err
	}
	return k.New(data, opts...)
}

// Validate checks data against the kind's schema. It never fails loudly:
// problems are reported in the Result.
func (k *Kind) Validate(data any) Result {
	schema, err := k.Schema()
	if err != nil {
		return Result{Error: &validator.Error{Message: err.Error()}}
	}
	compiled, res := k.compile(schema)
	if compiled == nil {
		return res
	}
	res = compiled.Validate(data)
	if res.Valid && len(res.Missing) > 0 {
		res.Valid = false
	}
	return res
}

// compile returns the cached compiled schema, compiling it if needed. Failed
// compilations are not cached: schemas registered later may satisfy them.
func (k *Kind) compile(schema Schema) (*validator.Compiled, Result) {
	k.compileMu.Lock()
	defer k.compileMu.Unlock()
	if k.compiled != nil {
		return k.compiled, Result{Valid: true}
	}
	compiled, res := k.validator().Compile(schema)
	if compiled != nil {
		k.compiled = compiled
	}
	return compiled, res
}

func (k *Kind) validator() *validator.Registry {
	if k.registry != nil {
		return k.registry
	}
	return validator.Default
}

func (k *Kind) log() *slog.Logger {
	if k.logger != nil {
		return k.logger
	}
	return slog.Default()
}
