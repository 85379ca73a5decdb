package validator

import (
	"bytes"
	"fmt"
	"io"
	"net/url"
	"sort"
	"strings"
	"sync"

	"github.com/go-openapi/jsonpointer"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/openbindings/schemamodel-go/canonicaljson"
)

// rootURL names the schema under validation inside a single compilation.
const rootURL = "mem://schemamodel/root.json"

// Default is the registry used by model kinds without their own.
var Default = New()

// Option configures a Registry.
type Option func(*Registry)

// WithDraft sets the draft used for schemas without $schema. Draft 7 by default.
func WithDraft(d *jsonschema.Draft) Option {
	return func(r *Registry) {
		if d != nil {
			r.draft = d
		}
	}
}

// WithFormat registers an additional format checker.
func WithFormat(name string, fn FormatChecker) Option {
	return func(r *Registry) {
		if fn != nil {
			r.formats[name] = fn
		}
	}
}

// Registry holds named schemas and format checkers.
type Registry struct {
	mu      sync.RWMutex
	draft   *jsonschema.Draft
	formats map[string]FormatChecker
	schemas map[string]map[string]any
}

// New returns a registry with the date-time format registered.
func New(opts ...Option) *Registry {
	r := &Registry{
		draft:   jsonschema.Draft7,
		formats: map[string]FormatChecker{"date-time": DateTime},
		schemas: map[string]map[string]any{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Fresh returns an empty registry sharing r's draft and a copy of its formats.
func (r *Registry) Fresh() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := &Registry{
		draft:   r.draft,
		formats: make(map[string]FormatChecker, len(r.formats)),
		schemas: map[string]map[string]any{},
	}
	for k, v := range r.formats {
		out.formats[k] = v
	}
	return out
}

// AddFormat registers (or replaces) the checker for a format name.
func (r *Registry) AddFormat(name string, fn FormatChecker) {
	if fn == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.formats[name] = fn
}

// AddSchema registers schema under id. Ids that are absolute URLs can be the
// target of remote $refs during validation; any id can be looked up with GetSchema.
func (r *Registry) AddSchema(id string, schema map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.schemas[id] = schema
}

// GetSchema returns the schema registered under id. When id is not registered
// as such, its fragment is resolved as a JSON Pointer into the schema
// registered under the part before '#' ("" for local references).
func (r *Registry) GetSchema(id string) (map[string]any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if s, ok := r.schemas[id]; ok {
		return s, true
	}
	base, frag, hasFrag := strings.Cut(id, "#")
	doc, ok := r.schemas[base]
	if !ok {
		return nil, false
	}
	if !hasFrag || frag == "" {
		return doc, true
	}
	return lookupPointer(doc, frag)
}

// IDs returns the registered ids, sorted.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.schemas))
	for id := range r.schemas {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func lookupPointer(doc map[string]any, frag string) (map[string]any, bool) {
	if unescaped, err := url.PathUnescape(frag); err == nil {
		frag = unescaped
	}
	p, err := jsonpointer.New(frag)
	if err != nil {
		return nil, false
	}
	v, _, err := p.Get(doc)
	if err != nil {
		return nil, false
	}
	m, ok := v.(map[string]any)
	return m, ok
}

// Compiled is a schema ready to validate data repeatedly.
type Compiled struct {
	schema *jsonschema.Schema
}

// Validate checks data against the compiled schema.
func (c *Compiled) Validate(data any) Result {
	p, err := Plain(data)
	if err != nil {
		return invalid(fmt.Sprintf("data is not JSON compatible: %v", err))
	}
	if err := c.schema.Validate(p); err != nil {
		return fromEngine(err)
	}
	return valid()
}

// Compile prepares schema for validation. If the returned Result is not
// valid, the Compiled is nil and the result says why: unresolved
// references in Missing, anything else in Error.
func (r *Registry) Compile(schema map[string]any) (*Compiled, Result) {
	if refs := r.unresolvedRefs(schema); len(refs) > 0 {
		return nil, missing(refs)
	}

	r.mu.RLock()
	c := jsonschema.NewCompiler()
	c.Draft = r.draft
	if c.Formats == nil {
		c.Formats = make(map[string]func(any) bool, len(r.formats))
	}
	for name, fn := range r.formats {
		c.Formats[name] = engineFormat(fn)
	}
	var refused []string
	c.LoadURL = func(s string) (io.ReadCloser, error) {
		refused = append(refused, s)
		return nil, fmt.Errorf("remote schema %q is not registered", s)
	}
	var err error
	for id, s := range r.schemas {
		if !isAbsoluteURL(id) {
			continue
		}
		if err = addResource(c, id, s); err != nil {
			break
		}
	}
	r.mu.RUnlock()
	if err != nil {
		return nil, invalid(err.Error())
	}

	if err := addResource(c, rootURL, schema); err != nil {
		return nil, invalid(err.Error())
	}
	compiled, err := c.Compile(rootURL)
	if len(refused) > 0 {
		return nil, missing(refused)
	}
	if err != nil {
		return nil, invalid(err.Error())
	}
	return &Compiled{schema: compiled}, valid()
}

// ValidateResult compiles schema and validates data against it.
func (r *Registry) ValidateResult(data any, schema map[string]any) Result {
	c, res := r.Compile(schema)
	if !res.Valid {
		return res
	}
	return c.Validate(data)
}

func addResource(c *jsonschema.Compiler, id string, schema map[string]any) error {
	b, err := canonicaljson.Marshal(schema)
	if err != nil {
		return fmt.Errorf("schema %q: %w", id, err)
	}
	return c.AddResource(id, bytes.NewReader(b))
}

func isAbsoluteURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.IsAbs()
}
