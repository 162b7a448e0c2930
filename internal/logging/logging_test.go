package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lastRecord(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	var rec map[string]any
	require.NoError(t, json.Unmarshal(lines[len(lines)-1], &rec))
	return rec
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{in: "debug", want: slog.LevelDebug},
		{in: " WARN ", want: slog.LevelWarn},
		{in: "warning", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "info", want: slog.LevelInfo},
		{in: "", want: slog.LevelInfo},
		{in: "verbose", want: slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestNewWithWriter_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, "warn")

	l.Info("login_successful")
	assert.Zero(t, buf.Len())

	l.Warn("login_failed", "status", 401)
	rec := lastRecord(t, &buf)
	assert.Equal(t, "login_failed", rec["msg"])
	assert.Equal(t, "voting_auth", rec["service"])
	assert.EqualValues(t, 401, rec["status"])
}

func TestNewWithWriter_RedactsCredentials(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, "info")

	l.Info("debug_dump",
		"username", "alice",
		"password", "Secret123!",
		"refresh_token", "eyJhbGciOi",
		"Authorization", "Bearer abc",
	)

	rec := lastRecord(t, &buf)
	assert.Equal(t, "alice", rec["username"])
	assert.Equal(t, redacted, rec["password"])
	assert.Equal(t, redacted, rec["refresh_token"])
	assert.Equal(t, redacted, rec["Authorization"])
	assert.NotContains(t, buf.String(), "Secret123!")
}

func TestFromContext(t *testing.T) {
	assert.Same(t, slog.Default(), FromContext(context.Background()))

	var buf bytes.Buffer
	l := NewWithWriter(&buf, "info")
	ctx := IntoContext(context.Background(), l)
	assert.Same(t, l, FromContext(ctx))
}

func TestWithUser(t *testing.T) {
	var buf bytes.Buffer
	ctx := IntoContext(context.Background(), NewWithWriter(&buf, "info"))

	FromContext(WithUser(ctx, "user-1", true)).Info("successful_logout")

	rec := lastRecord(t, &buf)
	assert.Equal(t, "user-1", rec["user_id"])
	assert.Equal(t, true, rec["is_admin"])
}
