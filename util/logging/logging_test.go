package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	require.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	require.Equal(t, slog.LevelWarn, ParseLevel("WARN"))
	require.Equal(t, slog.LevelInfo, ParseLevel("loud"))
}

func TestNew_StdoutOnly(t *testing.T) {
	var buf bytes.Buffer
	log, closeFn, err := New(&buf, slog.LevelInfo, "")
	require.NoError(t, err)
	defer closeFn()

	log.Debug("hidden")
	log.Info("shown")
	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), `"msg":"shown"`)
}

func TestNew_FileSinks(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	var buf bytes.Buffer
	log, closeFn, err := New(&buf, slog.LevelInfo, dir)
	require.NoError(t, err)

	log.With("req_id", "r1").Info("request served")
	log.Error("db down")
	require.NoError(t, closeFn())

	app, err := os.ReadFile(filepath.Join(dir, AppLogFile))
	require.NoError(t, err)
	require.Contains(t, string(app), `"msg":"request served"`)
	require.Contains(t, string(app), `"req_id":"r1"`)
	require.Contains(t, string(app), `"msg":"db down"`)

	errs, err := os.ReadFile(filepath.Join(dir, ErrorLogFile))
	require.NoError(t, err)
	require.NotContains(t, string(errs), "request served")
	require.Contains(t, string(errs), `"msg":"db down"`)

	require.Contains(t, buf.String(), "request served")
}
