package canonicaljson

import (
	"bytes"
	"encoding/json"
	"math"
	"testing"
	"time"
)

func TestMarshal_SameBytesForNativeAndDecodedValues(t *testing.T) {
	native := map[string]any{
		"b":   1,
		"a":   map[string]any{"y": int64(2), "x": 1.0},
		"arr": []any{map[string]any{"b": 2, "a": uint8(1)}},
	}
	decoded := json.RawMessage(`{
  "arr": [{"a":1,"b":2}],
  "a": {"x":1,"y":2},
  "b": 1
}`)

	ca, err := Marshal(native)
	if err != nil {
		t.Fatalf("canonical native: %v", err)
	}
	cb, err := Marshal(decoded)
	if err != nil {
		t.Fatalf("canonical decoded: %v", err)
	}
	if !bytes.Equal(ca, cb) {
		t.Fatalf("expected identical canonical JSON\nnative:  %s\ndecoded: %s", ca, cb)
	}
	if string(ca) != `{"a":{"x":1,"y":2},"arr":[{"a":1,"b":2}],"b":1}` {
		t.Fatalf("unexpected output %s", ca)
	}
}

func TestMarshal_ControlCharEscapes(t *testing.T) {
	out, err := Marshal(map[string]any{"tab": "\t", "nl": "\n", "nul": "\x00", "esc": "\x1b"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, want := range []string{`"tab":"\t"`, `"nl":"\n"`, `"nul":"\u0000"`, `"esc":"\u001b"`} {
		if !bytes.Contains(out, []byte(want)) {
			t.Errorf("expected %s in %s", want, out)
		}
	}
	if bytes.Contains(out, []byte(`\u0009`)) {
		t.Errorf("tab must use shorthand escape, got %s", out)
	}
}

func TestMarshal_NumberExponentPaddingNormalized(t *testing.T) {
	out, err := Marshal(map[string]any{"n": 1e-6, "m": 1e-7, "big": 1e21, "neg": math.Copysign(0, -1)})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"big":1e+21,"m":1e-7,"n":0.000001,"neg":0}` {
		t.Fatalf("unexpected number formatting: %s", out)
	}
}

func TestMarshal_RejectsNaN(t *testing.T) {
	if _, err := Marshal(map[string]any{"x": math.NaN()}); err == nil {
		t.Fatalf("expected error for NaN")
	}
}

func TestMarshal_TimeAsRFC3339(t *testing.T) {
	when := time.Date(2024, 5, 6, 7, 8, 9, 500, time.UTC)
	out, err := Marshal([]any{when})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `["2024-05-06T07:08:09.0000005Z"]` {
		t.Fatalf("unexpected time encoding: %s", out)
	}
}

type point struct {
	Y int `json:"y"`
	X int `json:"x"`
}

func TestMarshal_ForeignValuesGoThroughEncodingJSON(t *testing.T) {
	out, err := Marshal(map[string]any{"p": point{X: 1, Y: 2}})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"p":{"x":1,"y":2}}` {
		t.Fatalf("unexpected output %s", out)
	}
}

func TestMarshal_TrailingDataRejected(t *testing.T) {
	if _, err := Marshal(json.RawMessage(`{} {}`)); err == nil {
		t.Fatalf("expected trailing data error")
	}
}
