package logger

import (
	"bytes"
	"context"
	log "log/slog"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextHandler_AddsTraceID(t *testing.T) {
	var buf bytes.Buffer
	l := log.New(&ContextHandler{log.NewJSONHandler(&buf, nil)})

	l.InfoContext(WithTraceID(context.Background(), "abc-123"), "hello")

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "abc-123", got[TraceIDKey])
	assert.Equal(t, "hello", got["msg"])
}

func TestRemoteFilterHandler(t *testing.T) {
	var local, remote bytes.Buffer
	h := NewTeeHandler(
		log.NewJSONHandler(&local, nil),
		&RemoteFilterHandler{next: log.NewJSONHandler(&remote, nil)},
	)
	l := log.New(&ContextHandler{h})

	l.Info("startup")
	assert.NotEmpty(t, local.String())
	assert.Empty(t, remote.String(), "无 trace_id 的日志不上报")

	l.InfoContext(WithTraceID(context.Background(), "t-1"), "request")
	assert.Contains(t, remote.String(), `"trace_id":"t-1"`)
}

func TestParseLevel(t *testing.T) {
	testCases := []struct {
		in   string
		want log.Level
	}{
		{"debug", log.LevelDebug},
		{"WARN", log.LevelWarn},
		{" error ", log.LevelError},
		{"", log.LevelInfo},
		{"verbose", log.LevelInfo},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseLevel(tc.in))
		})
	}
}
