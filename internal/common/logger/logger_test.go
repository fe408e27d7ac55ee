package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("info"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("verbose"))
}

func TestZapAdapter_FieldsAndComponent(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := Component(NewZapAdapter(zap.New(core)), "waitlist")

	log.WithError(errors.New("boom")).Warn("load failed", map[string]interface{}{
		"screen": "abc",
	})

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		ctx := entries[0].ContextMap()
		assert.Equal(t, "waitlist", ctx["component"])
		assert.Equal(t, "abc", ctx["screen"])
		assert.Equal(t, "boom", ctx["error"])
		assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	}
}

func TestMapToZapFields_Empty(t *testing.T) {
	assert.Nil(t, mapToZapFields(nil))
	assert.Len(t, mapToZapFields(map[string]interface{}{"a": 1, "err": errors.New("x")}), 2)
}

func TestNew_InvalidOutputFallsBack(t *testing.T) {
	l := New(Options{Level: "info", Format: "json", Output: "/nonexistent-dir/x/y.log"})
	assert.NotNil(t, l)
}
