package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJSONLogger(buf *bytes.Buffer) Logger {
	return NewLogger(&Config{
		Level:      LevelDebug,
		Component:  "test",
		JSONFormat: true,
		Output:     buf,
	})
}

func TestLoggerJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	log := newJSONLogger(&buf)

	log.Info("contact merged", F("contact_id", "abc"), F("count", 3))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "contact merged", entry["message"])
	assert.Equal(t, "abc", entry["contact_id"])
	assert.Equal(t, float64(3), entry["count"])
	assert.Equal(t, "test", entry["component"])
}

func TestLoggerWith(t *testing.T) {
	var buf bytes.Buffer
	log := newJSONLogger(&buf).With(F("user_id", "u1"))

	log.Warn("scan raced")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "u1", entry["user_id"])
}

func TestLoggerWithContext(t *testing.T) {
	var buf bytes.Buffer
	log := newJSONLogger(&buf)

	ctx := context.WithValue(context.Background(), SessionIDKey, "sess-9")
	log.WithContext(ctx).Info("generated suggestions")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "sess-9", entry["session_id"])
}

func TestNopLogger(t *testing.T) {
	log := NewNopLogger()
	// Must not panic and must chain.
	log.With(F("k", "v")).WithContext(context.Background()).Error("ignored", Err(nil))
}
