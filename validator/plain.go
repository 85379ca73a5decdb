package validator

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"

	"github.com/openbindings/schemamodel-go/structural"
)

// Plain converts v into the value model the engine validates: objects,
// sequences, strings, booleans, nil and json.Number.
//
// Times become RFC 3339 strings, Go integers and float32 become json.Number,
// and values of any other type are passed through encoding/json.
func Plain(v any) (any, error) {
	var firstErr error
	wrapped := structural.Clone([]any{v}, func(_ any, _ any, val any) any {
		p, err := plainScalar(val)
		if err != nil && firstErr == nil {
			firstErr = err
		}
		return p
	}).([]any)
	if firstErr != nil {
		return nil, firstErr
	}
	return wrapped[0], nil
}

func plainScalar(v any) (any, error) {
	switch x := v.(type) {
	case nil, bool, string, float64, json.Number, map[string]any, []any:
		return v, nil
	case time.Time:
		return x.Format(time.RFC3339Nano), nil
	case *time.Time:
		if x == nil {
			return nil, nil
		}
		return x.Format(time.RFC3339Nano), nil
	case float32:
		return json.Number(strconv.FormatFloat(float64(x), 'g', -1, 32)), nil
	case int:
		return json.Number(strconv.FormatInt(int64(x), 10)), nil
	case int8:
		return json.Number(strconv.FormatInt(int64(x), 10)), nil
	case int16:
		return json.Number(strconv.FormatInt(int64(x), 10)), nil
	case int32:
		return json.Number(strconv.FormatInt(int64(x), 10)), nil
	case int64:
		return json.Number(strconv.FormatInt(x, 10)), nil
	case uint:
		return json.Number(strconv.FormatUint(uint64(x), 10)), nil
	case uint8:
		return json.Number(strconv.FormatUint(uint64(x), 10)), nil
	case uint16:
		return json.Number(strconv.FormatUint(uint64(x), 10)), nil
	case uint32:
		return json.Number(strconv.FormatUint(uint64(x), 10)), nil
	case uint64:
		return json.Number(strconv.FormatUint(x, 10)), nil
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		dec := json.NewDecoder(bytes.NewReader(b))
		dec.UseNumber()
		var out any
		if err := dec.Decode(&out); err != nil {
			return nil, err
		}
		return out, nil
	}
}
