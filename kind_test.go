package schemamodel

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openbindings/schemamodel-go/schemaprops"
	"github.com/openbindings/schemamodel-go/validator"
)

func TestKind_UnboundSchema(t *testing.T) {
	_, err := NewKind(nil).Schema()
	require.ErrorIs(t, err, ErrSchemaNotDefined)

	var k *Kind
	_, err = k.Schema()
	require.ErrorIs(t, err, ErrSchemaNotDefined)

	_, err = NewKind(nil).Properties()
	require.ErrorIs(t, err, ErrSchemaNotDefined)
}

func TestKind_PropertiesFromComposition(t *testing.T) {
	k := NewKind(Schema{"allOf": []any{
		map[string]any{"properties": map[string]any{"a": stringProp()}},
		map[string]any{"properties": map[string]any{"b": numberProp()}},
	}})
	names, err := k.PropertyNames()
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, names)
}

func TestKind_PropertiesMemoizedAndCopied(t *testing.T) {
	k := personKind()
	p1, err := k.Properties()
	require.NoError(t, err)
	p1["injected"] = map[string]any{}
	delete(p1, "name")

	p2, err := k.Properties()
	require.NoError(t, err)
	require.Contains(t, p2, "name")
	require.NotContains(t, p2, "injected")

	names, err := k.PropertyNames()
	require.NoError(t, err)
	names[0] = "mutated"
	again, _ := k.PropertyNames()
	require.Equal(t, []string{"age", "name"}, again)
}

func TestKind_PropertiesConcurrentFirstUse(t *testing.T) {
	k := personKind()
	var wg sync.WaitGroup
	results := make([][]string, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = k.PropertyNames()
		}(i)
	}
	wg.Wait()
	for _, r := range results {
		require.Equal(t, []string{"age", "name"}, r)
	}
}

func TestKind_ResolutionErrorSurfaces(t *testing.T) {
	k := NewKind(Schema{"$ref": "#"})
	_, err := k.Properties()
	require.ErrorIs(t, err, schemaprops.ErrCycle)

	m := mustNew(t, k, nil)
	_, err = m.ToJSON(true)
	require.ErrorIs(t, err, schemaprops.ErrCycle)
}

func TestKind_UnresolvedRefLogged(t *testing.T) {
	logger, buf := captureLogger()
	k := NewKind(Schema{"allOf": []any{
		map[string]any{"$ref": "#/definitions/gone"},
		map[string]any{"properties": map[string]any{"a": stringProp()}},
	}}, WithLogger(logger))
	names, err := k.PropertyNames()
	require.NoError(t, err)
	require.Equal(t, []string{"a"}, names)
	require.Contains(t, buf.String(), "unresolved $ref ignored")
}

func TestKind_ValidateMissingRefIsInvalid(t *testing.T) {
	k := NewKind(Schema{"properties": map[string]any{"a": map[string]any{"$ref": "#/definitions/nope"}}})
	res := k.Validate(map[string]any{})
	require.False(t, res.Valid)
	require.Equal(t, []string{"#/definitions/nope"}, res.Missing)

	res.Missing[0] = "changed"
	require.Equal(t, []string{"#/definitions/nope"}, k.Validate(map[string]any{}).Missing)
}

func TestKind_WithValidatorRemoteRef(t *testing.T) {
	reg := validator.New()
	reg.AddSchema("https://example.com/address.json", map[string]any{
		"type":       "object",
		"properties": map[string]any{"street": stringProp()},
	})
	k := NewKind(Schema{"allOf": []any{
		map[string]any{"$ref": "https://example.com/address.json"},
		map[string]any{"properties": map[string]any{"zip": stringProp()}},
	}}, WithValidator(reg))

	names, err := k.PropertyNames()
	require.NoError(t, err)
	require.Equal(t, []string{"street", "zip"}, names)

	m := mustNew(t, k, map[string]any{"street": "s", "zip": "z"})
	require.Error(t, m.SetField("street", 1))
}

func TestKind_LateRegistrationTakesEffect(t *testing.T) {
	reg := validator.New()
	k := NewKind(Schema{"properties": map[string]any{
		"a": map[string]any{"$ref": "https://example.com/a.json"},
	}}, WithValidator(reg))
	m := mustNew(t, k, nil)

	var mr *MissingRefError
	require.ErrorAs(t, m.SetField("a", "x"), &mr)
	require.Equal(t, []string{"https://example.com/a.json"}, mr.Refs)

	reg.AddSchema("https://example.com/a.json", map[string]any{"type": "string"})
	require.NoError(t, m.SetField("a", "x"))
	require.Error(t, m.SetField("a", 1))
	require.True(t, k.Validate(map[string]any{"a": "y"}).Valid)
}

func TestKind_DecodeJSONAndYAML(t *testing.T) {
	k := personKind()

	m, err := k.Decode([]byte(`{"name":"j","age":2}`))
	require.NoError(t, err)
	require.Equal(t, map[string]any{"name": "j", "age": json.Number("2")}, mustToJSON(t, m, true))

	m, err = k.Decode([]byte("name: y\nage: 3\n"))
	require.NoError(t, err)
	require.Equal(t, map[string]any{"name": "y", "age": 3}, mustToJSON(t, m, true))

	_, err = k.Decode([]byte("name: 5\n"))
	require.Error(t, err)

	_, err = k.Decode([]byte(`[1,2]`))
	require.Error(t, err)

	_, err = k.Decode([]byte("  "))
	require.Error(t, err)
}

func TestParseSchema_YAML(t *testing.T) {
	s, err := ParseSchema([]byte(`
definitions:
  named:
    properties:
      name: {type: string}
allOf:
  - $ref: "#/definitions/named"
  - properties:
      count: {type: integer, minimum: 0}
`))
	require.NoError(t, err)

	k := NewKind(s)
	names, err := k.PropertyNames()
	require.NoError(t, err)
	require.Equal(t, []string{"count", "name"}, names)

	_, err = k.New(map[string]any{"count": -1})
	require.Error(t, err)
	m := mustNew(t, k, map[string]any{"name": "n", "count": 2})
	require.Equal(t, 2, m.Get("count"))
}

func TestParseSchema_JSONAndErrors(t *testing.T) {
	s, err := ParseSchema([]byte(`{"properties":{"a":{"type":"string","maxLength":3}}}`))
	require.NoError(t, err)
	require.Equal(t, json.Number("3"), s["properties"].(map[string]any)["a"].(map[string]any)["maxLength"])

	_, err = ParseSchema([]byte(`{"a":1} trailing`))
	require.Error(t, err)

	_, err = ParseSchema([]byte("- a\n- b\n"))
	require.Error(t, err)
}

func TestFromYAML_NonStringKeys(t *testing.T) {
	out := fromYAML(map[any]any{1: "one", true: []any{map[any]any{"k": "v"}}})
	require.Equal(t, map[string]any{"1": "one", "true": []any{map[string]any{"k": "v"}}}, out)
}
