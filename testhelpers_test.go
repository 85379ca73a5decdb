package schemamodel

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func stringProp() map[string]any { return map[string]any{"type": "string"} }
func numberProp() map[string]any { return map[string]any{"type": "number"} }

func personKind(opts ...KindOption) *Kind {
	return NewKind(Schema{
		"type": "object",
		"properties": map[string]any{
			"name": stringProp(),
			"age":  numberProp(),
		},
	}, opts...)
}

func mustNew(t *testing.T, k *Kind, data map[string]any, opts ...Option) *Model {
	t.Helper()
	m, err := k.New(data, opts...)
	require.NoError(t, err)
	return m
}

func mustToJSON(t *testing.T, m *Model, strip bool) map[string]any {
	t.Helper()
	out, err := m.ToJSON(strip)
	require.NoError(t, err)
	return out
}

// captureLogger returns a debug-level logger writing text records to the buffer.
func captureLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}
