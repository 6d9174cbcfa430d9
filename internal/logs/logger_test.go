package logs

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestDefaultLogger_Level(t *testing.T) {
	buf := &bytes.Buffer{}
	l := NewLogger(buf, Warn)
	ctx := context.Background()
	l.Debug(ctx, "debug line:%v", 1)
	l.Info(ctx, "info line:%v", 2)
	l.Warn(ctx, "warn line:%v", 3)
	l.Error(ctx, "error line:%v", 4)

	out := buf.String()
	assert.NotContains(t, out, "debug line")
	assert.NotContains(t, out, "info line")
	assert.Contains(t, out, "[WARN]")
	assert.Contains(t, out, "warn line:3")
	assert.Contains(t, out, "error line:4")
	assert.Equal(t, 2, strings.Count(out, "\n"))
	assert.Contains(t, out, "logger_test.go")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, Debug, ParseLevel("debug"))
	assert.Equal(t, Error, ParseLevel("ERROR"))
	assert.Equal(t, Off, ParseLevel("off"))
	assert.Equal(t, Info, ParseLevel("verbose"))
}

func TestZerologLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	l := NewZerologLogger(zerolog.New(buf).Level(zerolog.InfoLevel))
	ctx := context.Background()
	l.Debug(ctx, "hidden")
	l.Info(ctx, "run finished, chunks:%v", 3)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"level":"info"`)
	assert.Contains(t, out, "run finished, chunks:3")
}

func TestConsoleLogger_Off(t *testing.T) {
	buf := &bytes.Buffer{}
	l := NewConsoleLogger(buf, Off)
	l.Error(context.Background(), "nothing")
	assert.Equal(t, 0, buf.Len())
}
