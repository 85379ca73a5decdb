package validator

import (
	"sort"
	"strings"
)

// unresolvedRefs lists the $ref values in schema that neither point into
// schema itself nor at a registered document. Subschemas declaring their own
// $id change the resolution base and are not inspected.
func (r *Registry) unresolvedRefs(schema map[string]any) []string {
	seen := map[string]struct{}{}
	var out []string
	var walk func(v any, root, names bool)
	walk = func(v any, root, names bool) {
		switch x := v.(type) {
		case map[string]any:
			if names {
				// keys are property or definition names, values are schemas
				for _, child := range x {
					walk(child, false, false)
				}
				return
			}
			if _, hasID := x["$id"]; hasID && !root {
				return
			}
			if ref, ok := x["$ref"].(string); ok {
				if !r.resolvable(schema, ref) {
					if _, dup := seen[ref]; !dup {
						seen[ref] = struct{}{}
						out = append(out, ref)
					}
				}
			}
			for k, child := range x {
				switch k {
				case "enum", "const", "default", "examples":
					// data, not schema
				case "properties", "patternProperties", "definitions", "$defs", "dependentSchemas":
					walk(child, false, true)
				default:
					walk(child, false, false)
				}
			}
		case []any:
			for _, child := range x {
				walk(child, false, false)
			}
		}
	}
	walk(schema, true, false)
	sort.Strings(out)
	return out
}

func (r *Registry) resolvable(schema map[string]any, ref string) bool {
	if strings.HasPrefix(ref, "#") {
		frag := strings.TrimPrefix(ref, "#")
		if frag == "" {
			return true
		}
		_, ok := lookupPointer(schema, frag)
		return ok
	}
	if self, ok := schema["$id"].(string); ok && strings.TrimSuffix(self, "#") == strings.SplitN(ref, "#", 2)[0] {
		return true
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	base, frag, _ := strings.Cut(ref, "#")
	doc, ok := r.schemas[base]
	if !ok || !isAbsoluteURL(base) {
		return false
	}
	if frag == "" {
		return true
	}
	_, ok = lookupPointer(doc, frag)
	return ok
}
