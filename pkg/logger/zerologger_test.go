package logger

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZeroLogger_Info(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter("development", buf)

	log.Info("screen loaded", Field{Key: "screen", Value: "airlines"})

	output := buf.String()
	assert.Contains(t, output, "screen loaded")
	assert.Contains(t, output, `"screen":"airlines"`)
	assert.Contains(t, output, `"level":"info"`)
}

func TestZeroLogger_DebugShownInDev(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter("development", buf)

	log.Debug("debug-test")

	assert.Contains(t, buf.String(), "debug-test")
}

func TestZeroLogger_DebugHiddenInProduction(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter("production", buf)

	log.Debug("debug-hidden")

	assert.Empty(t, buf.String())
}

func TestZeroLogger_ErrorField(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter("development", buf)

	log.Error("backend call failed", Err(errors.New("connection refused")))

	output := buf.String()
	assert.Contains(t, output, `"level":"error"`)
	assert.Contains(t, output, `"err":"connection refused"`)
}

func TestZeroLogger_With(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter("development", buf).With(Field{Key: "session", Value: "s-1"})

	log.Warn("stale response discarded", Field{Key: "generation", Value: 3})

	output := buf.String()
	assert.Contains(t, output, `"session":"s-1"`)
	assert.Contains(t, output, `"generation":3`)
	assert.Contains(t, output, `"level":"warn"`)
}
