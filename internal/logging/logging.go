// Package logging configures structured logging for the explain functions.
package logging

import (
	"io"
	"log/slog"
	"net/url"
	"strings"
)

// New returns a JSON slog logger writing to w. Unknown levels fall back to info.
func New(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: ParseLevel(level),
	}))
}

// ParseLevel maps debug|info|warn|error (case-insensitive) to a slog level.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

const redacted = "[REDACTED]"

// RedactKey replaces the value of the "key" query parameter in a path or URL.
// Strings without a query are returned unchanged.
func RedactKey(s string) string {
	i := strings.IndexByte(s, '?')
	if i < 0 {
		return s
	}
	q, err := url.ParseQuery(s[i+1:])
	if err != nil || !q.Has("key") {
		// fall back to a blunt cut rather than risk leaking the key
		if strings.Contains(s[i+1:], "key=") {
			return s[:i] + "?key=" + redacted
		}
		return s
	}
	q.Set("key", redacted)
	return s[:i+1] + strings.ReplaceAll(q.Encode(), url.QueryEscape(redacted), redacted)
}
