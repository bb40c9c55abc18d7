package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New("test error")
	require.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestWrap(t *testing.T) {
	original := New("original")
	wrapped := Wrap(original, "wrapped")

	assert.Contains(t, wrapped.Error(), "wrapped")
	assert.Contains(t, wrapped.Error(), "original")
	assert.True(t, Is(wrapped, original))
}

func TestWithHint(t *testing.T) {
	err := WithHint(New("error"), "try this fix")

	hints := GetAllHints(err)
	require.Len(t, hints, 1)
	assert.Equal(t, "try this fix", hints[0])
}

func TestStackTrace(t *testing.T) {
	err := New("with stack")

	detailed := fmt.Sprintf("%+v", err)
	assert.Contains(t, detailed, "errors_test.go")
}

func TestMarkf(t *testing.T) {
	err := Markf(ErrUnknownType, "unknown type %q", "foo")

	assert.Equal(t, `unknown type "foo"`, err.Error())
	assert.True(t, Is(err, ErrUnknownType))
	assert.False(t, Is(err, ErrParse))
}

func TestMarkSurvivesWrapping(t *testing.T) {
	err := Wrap(Markf(ErrParse, "bad field"), "record 3")
	err = WithHint(err, "check the input format")

	assert.True(t, Is(err, ErrParse))
	assert.Contains(t, err.Error(), "record 3")
	assert.Contains(t, err.Error(), "bad field")
}

func TestClassification(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantConfig bool
		wantStream bool
	}{
		{"nil", nil, false, false},
		{"unknown type", Markf(ErrUnknownType, "x"), true, false},
		{"invalid path", Markf(ErrInvalidPath, "x"), true, false},
		{"invalid schema", Markf(ErrInvalidSchema, "x"), true, false},
		{"unreadable input", Markf(ErrUnreadableInput, "x"), true, false},
		{"invalid config", Markf(ErrInvalidConfig, "x"), true, false},
		{"parse", Markf(ErrParse, "x"), false, true},
		{"write", Wrap(Markf(ErrWrite, "x"), "ctx"), false, true},
		{"plain", New("x"), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantConfig, IsConfigurationError(tt.err))
			assert.Equal(t, tt.wantStream, IsStreamError(tt.err))
		})
	}
}

func TestNilHandling(t *testing.T) {
	assert.Nil(t, Wrap(nil, "context"))
	assert.Nil(t, Wrapf(nil, "context %d", 1))
	assert.Nil(t, WithHint(nil, "hint"))
}
