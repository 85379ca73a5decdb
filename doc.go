// Package schemamodel turns JSON Schema documents into self-validating data models.
//
// A Kind binds a schema; its models hold one value per declared property and
// validate every public mutation against the schema before committing it.
//
// # Quick Start
//
//	person := schemamodel.NewKind(schemamodel.Schema{
//	    "properties": map[string]any{
//	        "name": map[string]any{"type": "string"},
//	        "age":  map[string]any{"type": "number"},
//	    },
//	}, schemamodel.WithName("person"))
//
//	p, err := person.New(map[string]any{"name": "Ada"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := p.SetField("age", "old"); err != nil {
//	    fmt.Println(err) // the model still has no age
//	}
//	data, _ := p.ToJSON(true) // map[name:Ada]
//
// # Declared Properties
//
// The properties of a kind are the union of every `properties` object
// reachable from the schema root through `$ref`, `anyOf`, `allOf` and, at
// the root only, `oneOf` (see package schemaprops for precedence). ToJSON
// reports exactly these properties.
//
// # Validate Before Commit
//
// Set merges the incoming data onto the model's current data, validates the
// result and only then writes. A failed Set leaves the model unchanged.
// Validate and ValidateData never fail loudly; they return a Result.
//
// # Internal Values
//
// Values written WithInternal bypass validation and are kept apart from
// public values: Get without WithInternal never sees them, and neither does
// ToJSON.
//
// # Undefined Versus Null
//
// A property is undefined until it is written. Writing nil stores a JSON
// null, which the schema must allow.
//
// # Concurrency
//
// Kinds are safe for concurrent use. A single Model is not safe for
// concurrent mutation; distinct models are independent.
//
// # Subpackages
//
//   - structural: deep clone and merge of plain data
//   - schemaprops: property-set resolution
//   - validator: JSON Schema validation adapter
//   - canonicaljson: RFC 8785 (JCS) deterministic JSON serialization
package schemamodel
