// Package canonicaljson encodes plain data as RFC 8785 (JCS) canonical JSON.
//
// Model snapshots and schemas are handed to this package instead of
// encoding/json whenever stable bytes matter: schema resources given to the
// validator, model MarshalJSON output, golden tests.
//
// Values are encoded natively where their JSON shape is known (maps, slices,
// numbers, strings, time.Time). Anything else goes through encoding/json
// first and the result is canonicalised.
package canonicaljson

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf16"
)

// Marshal returns the canonical encoding of v.
//
//   - Object members are sorted by UTF-16 code units of their names.
//   - Numbers use the ECMAScript serialization JCS requires; NaN and Inf fail.
//   - time.Time is written as an RFC 3339 string with nanoseconds.
//   - json.RawMessage and []byte are parsed as JSON documents.
//   - Output is compact.
func Marshal(v any) ([]byte, error) {
	var e encoder
	if err := e.encode(v); err != nil {
		return nil, err
	}
	return e.buf.Bytes(), nil
}

type encoder struct {
	buf bytes.Buffer
}

func (e *encoder) encode(v any) error {
	switch x := v.(type) {
	case nil:
		e.buf.WriteString("null")
	case bool:
		if x {
			e.buf.WriteString("true")
		} else {
			e.buf.WriteString("false")
		}
	case string:
		e.str(x)
	case json.Number:
		f, err := strconv.ParseFloat(x.String(), 64)
		if err != nil {
			return err
		}
		return e.float(f)
	case float64:
		return e.float(x)
	case float32:
		return e.float(float64(x))
	case int:
		return e.float(float64(x))
	case int8:
		return e.float(float64(x))
	case int16:
		return e.float(float64(x))
	case int32:
		return e.float(float64(x))
	case int64:
		return e.float(float64(x))
	case uint:
		return e.float(float64(x))
	case uint8:
		return e.float(float64(x))
	case uint16:
		return e.float(float64(x))
	case uint32:
		return e.float(float64(x))
	case uint64:
		return e.float(float64(x))
	case time.Time:
		e.str(x.Format(time.RFC3339Nano))
	case []any:
		e.buf.WriteByte('[')
		for i, item := range x {
			if i > 0 {
				e.buf.WriteByte(',')
			}
			if err := e.encode(item); err != nil {
				return err
			}
		}
		e.buf.WriteByte(']')
	case map[string]any:
		return e.object(x)
	case json.RawMessage:
		return e.raw(x)
	case []byte:
		return e.raw(x)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		return e.raw(b)
	}
	return nil
}

func (e *encoder) raw(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return err
	}
	var extra any
	if err := dec.Decode(&extra); err != io.EOF {
		if err == nil {
			return errors.New("invalid JSON: trailing data")
		}
		return err
	}
	return e.encode(v)
}

func (e *encoder) object(m map[string]any) error {
	type member struct {
		name  string
		units []uint16
	}
	members := make([]member, 0, len(m))
	for k := range m {
		members = append(members, member{name: k, units: utf16.Encode([]rune(k))})
	}
	sort.Slice(members, func(i, j int) bool {
		return lessUTF16(members[i].units, members[j].units)
	})

	e.buf.WriteByte('{')
	for i, mb := range members {
		if i > 0 {
			e.buf.WriteByte(',')
		}
		e.str(mb.name)
		e.buf.WriteByte(':')
		if err := e.encode(m[mb.name]); err != nil {
			return err
		}
	}
	e.buf.WriteByte('}')
	return nil
}

func lessUTF16(a, b []uint16) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}

func (e *encoder) str(s string) {
	e.buf.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			e.buf.WriteString(`\\`)
		case '"':
			e.buf.WriteString(`\"`)
		case '\b':
			e.buf.WriteString(`\b`)
		case '\t':
			e.buf.WriteString(`\t`)
		case '\n':
			e.buf.WriteString(`\n`)
		case '\f':
			e.buf.WriteString(`\f`)
		case '\r':
			e.buf.WriteString(`\r`)
		default:
			if r <= 0x1F {
				var u [6]byte
				copy(u[:], `\u00`)
				hex.Encode(u[4:], []byte{byte(r)})
				e.buf.Write(u[:])
				continue
			}
			e.buf.WriteRune(r)
		}
	}
	e.buf.WriteByte('"')
}

func (e *encoder) float(f float64) error {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return errors.New("invalid JSON number: NaN or Infinity")
	}
	if f == 0 {
		// covers -0
		e.buf.WriteByte('0')
		return nil
	}
	if abs := math.Abs(f); abs >= 1e21 || abs < 1e-6 {
		e.buf.WriteString(trimExponent(strconv.FormatFloat(f, 'e', -1, 64)))
		return nil
	}
	e.buf.WriteString(strconv.FormatFloat(f, 'f', -1, 64))
	return nil
}

// trimExponent turns Go's 1e-06 into the ECMAScript 1e-6.
func trimExponent(s string) string {
	i := strings.IndexByte(s, 'e')
	if i < 0 || i+2 >= len(s) {
		return s
	}
	exp := strings.TrimLeft(s[i+2:], "0")
	if exp == "" {
		exp = "0"
	}
	return s[:i+2] + exp
}
