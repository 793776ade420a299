package log

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func capture(t *testing.T, level Level) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	SetMinLevel(level)
	t.Cleanup(func() {
		SetOutput(nil)
		SetMinLevel(LevelWarn)
	})
	return &buf
}

func TestParseLevel(t *testing.T) {
	require.Equal(t, LevelDebug, ParseLevel("debug"))
	require.Equal(t, LevelInfo, ParseLevel("INFO"))
	require.Equal(t, LevelWarn, ParseLevel("warning"))
	require.Equal(t, LevelError, ParseLevel(" error "))
	require.Equal(t, LevelWarn, ParseLevel("verbose"))
}

func TestLevelFiltering(t *testing.T) {
	buf := capture(t, LevelWarn)

	Debug(CatEngine, "too quiet")
	Info(CatEngine, "still too quiet")
	Warn(CatEngine, "heard")

	out := buf.String()
	require.NotContains(t, out, "too quiet")
	require.Contains(t, out, "heard")
}

func TestFieldFormatting(t *testing.T) {
	buf := capture(t, LevelDebug)

	Warn(CatConfig, "Invalid value", "key", "app_launch_wait", "default", 1)

	out := buf.String()
	require.Contains(t, out, "[WARN]")
	require.Contains(t, out, "[config]")
	require.Contains(t, out, "Invalid value")
	require.Contains(t, out, "key=app_launch_wait")
	require.Contains(t, out, "default=1")
}

func TestErrorErr(t *testing.T) {
	buf := capture(t, LevelDebug)

	ErrorErr(CatDB, "Query failed", errDummy{}, "table", "runs")

	out := buf.String()
	require.Contains(t, out, "[ERROR]")
	require.Contains(t, out, "error=dummy")
	require.Contains(t, out, "table=runs")
}

type errDummy struct{}

func (errDummy) Error() string { return "dummy" }
