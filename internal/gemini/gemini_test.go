package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"explainer/internal/transport"
)

func TestEncodeRequest_WireFormat(t *testing.T) {
	body, err := EncodeRequest(BuildRequest("a < b & c"))
	require.NoError(t, err)
	assert.Equal(t, `{"contents":[{"parts":[{"text":"Explain this text: a < b & c"}]}]}`, body)
}

func TestPath(t *testing.T) {
	assert.Equal(t, "/v1beta/models/gemini-pro:generateContent?key=AIzaSyA-123_x", Path("AIzaSyA-123_x"))
	assert.Equal(t, "/v1beta/models/gemini-pro:generateContent?key=a%26b", Path("a&b"))
}

func parse(t *testing.T, raw string) *GenerateResponse {
	t.Helper()
	var r GenerateResponse
	require.NoError(t, json.Unmarshal([]byte(raw), &r))
	return &r
}

func TestParseAnswer(t *testing.T) {
	got, err := ParseAnswer(parse(t, `{"candidates":[{"content":{"parts":[{"text":"Hello explained."}]}}]}`))
	require.NoError(t, err)
	assert.Equal(t, "Hello explained.", got)

	got, err = ParseAnswer(parse(t, `{"candidates":[{"content":{"parts":[{"text":""}]}}]}`))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestParseAnswer_UnexpectedShape(t *testing.T) {
	cases := map[string]string{
		"no candidates":    `{"promptFeedback":{"blockReason":"SAFETY"}}`,
		"empty candidates": `{"candidates":[]}`,
		"no content":       `{"candidates":[{"finishReason":"SAFETY"}]}`,
		"no parts":         `{"candidates":[{"content":{"role":"model"}}]}`,
		"no text":          `{"candidates":[{"content":{"parts":[{"inlineData":{}}]}}]}`,
		"null document":    `null`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseAnswer(parse(t, raw))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrUnexpectedShape))
		})
	}

	_, err := ParseAnswer(nil)
	assert.ErrorIs(t, err, ErrUnexpectedShape)
}

func TestClient_Explain(t *testing.T) {
	var (
		gotPath string
		gotKey  string
		gotCT   string
		gotBody string
	)
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		gotCT = r.Header.Get("Content-Type")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Hello explained."}]}}]}`))
	}))
	defer srv.Close()

	tr := transport.New(srv.Client(), slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	c := NewClient(tr, WithHost(strings.TrimPrefix(srv.URL, "https://")))

	got, err := c.Explain(context.Background(), "test-key", "hello")
	require.NoError(t, err)

	assert.Equal(t, "Hello explained.", got)
	assert.Equal(t, "/v1beta/models/gemini-pro:generateContent", gotPath)
	assert.Equal(t, "test-key", gotKey)
	assert.Equal(t, "application/json", gotCT)
	assert.Equal(t, `{"contents":[{"parts":[{"text":"Explain this text: hello"}]}]}`, gotBody)
}

func TestClient_ExplainPropagatesStatus(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	tr := transport.New(srv.Client(), slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	c := NewClient(tr, WithHost(strings.TrimPrefix(srv.URL, "https://")))

	_, err := c.Explain(context.Background(), "test-key", "hello")
	var se *transport.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusTooManyRequests, se.StatusCode)
}

func TestNewClient_DefaultHost(t *testing.T) {
	c := NewClient(transport.New(nil, nil))
	assert.Equal(t, DefaultHost, c.host)
}
