package obslog

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHandleWritesTimestampLevelAndMessage(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	logger := slog.New(h)
	logger.Info("round complete", "winner", 1)
	out := buf.String()
	require.Contains(t, out, "INFO:")
	require.Contains(t, out, "round complete")
	require.Contains(t, out, "winner=1")
}

func TestHandleWithNilFileStillSucceeds(t *testing.T) {
	h := NewHandler(nil, nil)
	logger := slog.New(h)
	logger.Warn("no log file configured")
}
