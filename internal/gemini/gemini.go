// Package gemini speaks the generateContent REST call used to explain text.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"explainer/internal/transport"
)

const (
	// DefaultHost is the generative-language API host.
	DefaultHost = "generativelanguage.googleapis.com"

	generatePath = "/v1beta/models/gemini-pro:generateContent"
	promptPrefix = "Explain this text: "
)

// ErrUnexpectedShape is wrapped by ParseAnswer when the response lacks
// candidates[0].content.parts[0].text.
var ErrUnexpectedShape = errors.New("unexpected response shape")

// Part is one piece of request content.
type Part struct {
	Text string `json:"text"`
}

// Content is one turn of the request; only a single user turn is sent.
type Content struct {
	Parts []Part `json:"parts"`
}

// GenerateRequest is the generateContent request body.
type GenerateRequest struct {
	Contents []Content `json:"contents"`
}

// GenerateResponse mirrors the fields of the response we read. Pointers let
// ParseAnswer tell a missing field from an empty one.
type GenerateResponse struct {
	Candidates []struct {
		Content *struct {
			Parts []struct {
				Text *string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// BuildRequest wraps text in the fixed explain prompt.
func BuildRequest(text string) GenerateRequest {
	return GenerateRequest{
		Contents: []Content{{
			Parts: []Part{{Text: promptPrefix + text}},
		}},
	}
}

// EncodeRequest serializes r without HTML escaping, so the body carries the
// input text as typed.
func EncodeRequest(r GenerateRequest) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(r); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// Path returns the generateContent path with apiKey as the key query parameter.
func Path(apiKey string) string {
	return generatePath + "?key=" + url.QueryEscape(apiKey)
}

// ParseAnswer extracts candidates[0].content.parts[0].text.
func ParseAnswer(r *GenerateResponse) (string, error) {
	switch {
	case r == nil || len(r.Candidates) == 0:
		return "", fmt.Errorf("%w: no candidates", ErrUnexpectedShape)
	case r.Candidates[0].Content == nil:
		return "", fmt.Errorf("%w: candidate has no content", ErrUnexpectedShape)
	case len(r.Candidates[0].Content.Parts) == 0:
		return "", fmt.Errorf("%w: content has no parts", ErrUnexpectedShape)
	case r.Candidates[0].Content.Parts[0].Text == nil:
		return "", fmt.Errorf("%w: part has no text", ErrUnexpectedShape)
	}
	return *r.Candidates[0].Content.Parts[0].Text, nil
}

// Client explains text through the generateContent endpoint.
type Client struct {
	host string
	tr   *transport.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHost overrides DefaultHost.
func WithHost(host string) Option {
	return func(c *Client) {
		c.host = host
	}
}

// NewClient returns a Client sending through tr.
func NewClient(tr *transport.Client, opts ...Option) *Client {
	c := &Client{host: DefaultHost, tr: tr}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Explain asks the model to explain text and returns its answer.
func (c *Client) Explain(ctx context.Context, apiKey, text string) (string, error) {
	body, err := EncodeRequest(BuildRequest(text))
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	res, err := transport.Post[GenerateResponse](ctx, c.tr, transport.Request{
		Hostname: c.host,
		Path:     Path(apiKey),
		Headers:  map[string]string{"Content-Type": "application/json"},
		Body:     body,
	})
	if err != nil {
		return "", err
	}

	return ParseAnswer(res)
}
