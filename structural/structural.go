// Package structural deep-copies and merges plain structured data.
//
// Structural values are the shapes produced by decoding JSON or YAML:
// map[string]any objects, []any sequences, plus time.Time instants. Slices and
// maps of other types ([]string, map[string]int, ...) are copied element by
// element too. Every other value (strings, numbers, booleans, nil,
// json.Number, pointers, structs) is treated as a scalar and copied by value.
//
// Only map[string]any objects take part in key-by-key merging.
package structural

import (
	"fmt"
	"reflect"
	"time"
)

// Transform intercepts a value before Clone decides whether to recurse into it.
// container is the map or slice being cloned, key is the string key or int
// index of value within it. The returned value is what gets cloned/inserted.
type Transform func(container any, key any, value any) any

func identity(_ any, _ any, value any) any { return value }

// IsStructural reports whether v is an object, a sequence or a time value.
// Slices and maps of any type count.
func IsStructural(v any) bool {
	switch v.(type) {
	case map[string]any, []any, time.Time, *time.Time:
		return true
	case nil:
		return false
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Slice, reflect.Map:
		return true
	default:
		return false
	}
}

// isObject reports whether v takes part in key-by-key merging.
func isObject(v any) bool {
	_, ok := v.(map[string]any)
	return ok
}

// Clone returns a deep copy of v. If fn is nil the identity transform is used.
//
// fn is applied to every member (map value or slice element) of every
// container reached, never to v itself.
func Clone(v any, fn Transform) any {
	if fn == nil {
		fn = identity
	}
	return cloneValue(v, fn)
}

func cloneValue(v any, fn Transform) any {
	switch x := v.(type) {
	case []any:
		if x == nil {
			return []any(nil)
		}
		out := make([]any, len(x))
		for i, entry := range x {
			entry = fn(x, i, entry)
			if IsStructural(entry) {
				entry = cloneValue(entry, fn)
			}
			out[i] = entry
		}
		return out
	case time.Time:
		// time.Time is a value; the copy carries the same instant.
		return x
	case *time.Time:
		if x == nil {
			return (*time.Time)(nil)
		}
		t := *x
		return &t
	case map[string]any:
		if x == nil {
			return map[string]any(nil)
		}
		out := make(map[string]any, len(x))
		for k, val := range x {
			val = fn(x, k, val)
			if IsStructural(val) {
				val = cloneValue(val, fn)
			}
			out[k] = val
		}
		return out
	default:
		return cloneTyped(v, fn)
	}
}

// cloneTyped copies slices and maps whose static type is not []any or
// map[string]any. The copy keeps the original type unless fn produced a
// member that does not fit it, in which case it degrades to []any or
// map[string]any.
func cloneTyped(v any, fn Transform) any {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice:
		if rv.IsNil() {
			return v
		}
		elem := rv.Type().Elem()
		out := make([]any, rv.Len())
		fits := true
		for i := range out {
			entry := fn(v, i, rv.Index(i).Interface())
			if IsStructural(entry) {
				entry = cloneValue(entry, fn)
			}
			fits = fits && assignable(entry, elem)
			out[i] = entry
		}
		if !fits {
			return out
		}
		typed := reflect.MakeSlice(rv.Type(), len(out), len(out))
		for i, entry := range out {
			set(typed.Index(i), entry)
		}
		return typed.Interface()
	case reflect.Map:
		if rv.IsNil() {
			return v
		}
		elem := rv.Type().Elem()
		keys := make([]reflect.Value, 0, rv.Len())
		vals := make([]any, 0, rv.Len())
		fits := true
		iter := rv.MapRange()
		for iter.Next() {
			entry := fn(v, iter.Key().Interface(), iter.Value().Interface())
			if IsStructural(entry) {
				entry = cloneValue(entry, fn)
			}
			fits = fits && assignable(entry, elem)
			keys = append(keys, iter.Key())
			vals = append(vals, entry)
		}
		if !fits {
			out := make(map[string]any, len(keys))
			for i, k := range keys {
				out[fmt.Sprint(k.Interface())] = vals[i]
			}
			return out
		}
		typed := reflect.MakeMapWithSize(rv.Type(), len(keys))
		for i, k := range keys {
			val := reflect.New(elem).Elem()
			set(val, vals[i])
			typed.SetMapIndex(k, val)
		}
		return typed.Interface()
	default:
		return v
	}
}

func assignable(v any, t reflect.Type) bool {
	if v == nil {
		switch t.Kind() {
		case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return true
		}
		return false
	}
	return reflect.TypeOf(v).AssignableTo(t)
}

// set stores v, already checked with assignable, into dst.
func set(dst reflect.Value, v any) {
	if v == nil {
		dst.Set(reflect.Zero(dst.Type()))
		return
	}
	dst.Set(reflect.ValueOf(v))
}

// CloneMap is Clone specialised to objects. A nil input yields an empty map.
func CloneMap(m map[string]any, fn Transform) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return Clone(m, fn).(map[string]any)
}

// Merge returns a new object holding base with overlay merged on top.
//
// Objects present on both sides are merged key by key; any other overlay
// value (sequences and times included) replaces the base value wholesale.
// Neither input is modified and the result shares no mutable state with them.
func Merge(base, overlay map[string]any) map[string]any {
	res := CloneMap(base, nil)
	for key, ov := range overlay {
		if isObject(ov) {
			if isObject(res[key]) {
				res[key] = Merge(res[key].(map[string]any), ov.(map[string]any))
				continue
			}
		}
		res[key] = Clone(ov, nil)
	}
	return res
}
