package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInitialize(t *testing.T) {
	tests := []struct {
		name       string
		jsonOutput bool
	}{
		{name: "JSON output mode", jsonOutput: true},
		{name: "Console output mode", jsonOutput: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Logger = nil
			JSONOutput = false

			var buf bytes.Buffer
			require.NoError(t, InitializeWithWriter(&buf, VerbosityInfo, tt.jsonOutput))
			require.NotNil(t, Logger)
			assert.Equal(t, tt.jsonOutput, JSONOutput)

			Logger.Infow("hello", FieldCount, 1)
			Cleanup()

			if tt.jsonOutput {
				var entry map[string]interface{}
				require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
				assert.Equal(t, "hello", entry["msg"])
			} else {
				assert.Contains(t, buf.String(), "hello")
				assert.Contains(t, buf.String(), "count=1")
			}
		})
	}
}

func TestInitializeRespectsVerbosity(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, InitializeWithWriter(&buf, VerbosityUser, false))

	Infow("hidden")
	Debugw("hidden too")
	Warnw("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestVerbosityToLevel(t *testing.T) {
	tests := []struct {
		verbosity int
		want      zapcore.Level
		name      string
	}{
		{-1, zapcore.WarnLevel, "user"},
		{0, zapcore.WarnLevel, "user"},
		{1, zapcore.InfoLevel, "info"},
		{2, zapcore.DebugLevel, "debug"},
		{7, zapcore.DebugLevel, "debug"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, VerbosityToLevel(tt.verbosity))
		assert.Equal(t, tt.name, LevelName(tt.verbosity))
	}
}

func TestComponentLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	Logger = zap.New(core).Sugar()
	t.Cleanup(func() { Logger = zap.NewNop().Sugar() })

	ComponentLogger("input").Infow("opened", FieldFile, "a.dat")
	ChildLogger(ComponentLogger("pipeline"), FieldRecordID, "123").Warnw("invalid")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "input", entries[0].LoggerName)
	assert.Equal(t, "input", entries[0].ContextMap()[FieldComponent])
	assert.Equal(t, "a.dat", entries[0].ContextMap()[FieldFile])
	assert.Equal(t, "pipeline", entries[1].LoggerName)
	assert.Equal(t, "pipeline", entries[1].ContextMap()[FieldComponent])
	assert.Equal(t, "123", entries[1].ContextMap()[FieldRecordID])
}
