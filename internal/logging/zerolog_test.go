package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newZerologTestLogger() (*ZerologLogger, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewZerologLogger(zerolog.New(&buf)), &buf
}

func TestZerologLogger_Levels_WriteExpectedOutput(t *testing.T) {
	log, buf := newZerologTestLogger()
	ctx := context.Background()

	log.Info(ctx, "inf", "a", 1)
	log.Warn(ctx, "wrn", "b", 2)
	log.Error(ctx, "err", "c", 3)

	out := buf.String()
	assert.True(t, strings.Contains(out, `"message":"inf"`))
	assert.True(t, strings.Contains(out, `"message":"wrn"`))
	assert.True(t, strings.Contains(out, `"message":"err"`))
	assert.True(t, strings.Contains(out, `"a":1`))
}

func TestZerologLogger_With_AddsPersistentFields(t *testing.T) {
	log, buf := newZerologTestLogger()
	child := log.With("component", "httpapi")

	child.Info(context.Background(), "ready")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "httpapi", entry["component"])
	assert.Equal(t, "ready", entry["message"])
}
