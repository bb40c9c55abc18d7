package logger

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

var bufferPool = buffer.NewPool()

// minimalEncoder implements a compact console encoder for stderr diagnostics.
// Format: "13:04:35  WARN  pipeline  Record failed validation  error_count=2 record_id=123"
//
// Context fields added through With() are collected in the embedded map
// encoder and printed with every entry.
type minimalEncoder struct {
	*zapcore.MapObjectEncoder
}

func newMinimalEncoder() *minimalEncoder {
	return &minimalEncoder{MapObjectEncoder: zapcore.NewMapObjectEncoder()}
}

func (enc *minimalEncoder) Clone() zapcore.Encoder {
	clone := newMinimalEncoder()
	for k, v := range enc.Fields {
		clone.Fields[k] = v
	}
	return clone
}

func (enc *minimalEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	final := bufferPool.Get()

	final.AppendString(ent.Time.Format("15:04:05"))

	// Level: only show when it is not INFO
	if ent.Level != zapcore.InfoLevel {
		final.AppendString("  ")
		final.AppendString(ent.Level.CapitalString())
	}

	if ent.LoggerName != "" {
		final.AppendString("  ")
		final.AppendString(ent.LoggerName)
	}

	final.AppendString("  ")
	final.AppendString(ent.Message)

	merged := enc.Clone().(*minimalEncoder)
	for _, f := range fields {
		f.AddTo(merged)
	}
	if rendered := renderFields(merged.Fields); rendered != "" {
		final.AppendString("  ")
		final.AppendString(rendered)
	}

	final.AppendString("\n")
	return final, nil
}

// renderFields prints every field as key=value, sorted by key.
// Fields are never dropped.
func renderFields(fields map[string]interface{}) string {
	if len(fields) == 0 {
		return ""
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, fields[k]))
	}
	return strings.Join(parts, " ")
}
