package geoip

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Info is the pass-through record returned by the lookup provider. All
// fields are optional; absence means unknown.
type Info struct {
	CountryName string `json:"country_name"`
	City        string `json:"city"`
	Postal      string `json:"postal"`
	Org         string `json:"org"`
}

// StatusError is a structured lookup failure carrying the HTTP status and
// the raw response body. Unstructured failures (transport errors, malformed
// bodies) stay plain errors.
type StatusError struct {
	Code int
	Body []byte
}

// Error renders the single human-readable message forwarded to callers:
// status code, status text, and the body-embedded error message or the raw
// body itself.
func (e *StatusError) Error() string {
	return fmt.Sprintf("%d - %s %s", e.Code, http.StatusText(e.Code), messageFromBody(e.Body))
}

// StatusCode reports the HTTP status carried by the failure.
func (e *StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

// messageFromBody extracts an embedded "error" string from a JSON body,
// falling back to the compacted body itself.
func messageFromBody(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return ""
	}
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return trimmed
}

// Client fetches a best-effort location/organization guess for the visitor's
// network address, caching the last successful body.
type Client struct {
	opts Options
}

// New constructs a Client with default options plus any overrides.
func New(fns ...OptionFn) *Client {
	return &Client{opts: NewOptions(fns...)}
}

// Options returns a copy of the client configuration.
func (c *Client) Options() Options {
	if c == nil {
		return DefaultOptions()
	}
	return NewOptions(func(o *Options) { *o = c.opts })
}

// Lookup issues one GET to the configured endpoint and decodes the reply.
// It does not consult or update the cache; Prefill owns that sequence.
func (c *Client) Lookup(ctx context.Context) (Info, error) {
	raw, err := c.fetch(ctx)
	if err != nil {
		return Info{}, err
	}
	return decodeInfo(raw)
}

func (c *Client) fetch(ctx context.Context) ([]byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.opts.Endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("geoip: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.opts.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geoip: lookup: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("geoip: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Code: resp.StatusCode, Body: body}
	}
	return body, nil
}

func decodeInfo(raw []byte) (Info, error) {
	if len(raw) == 0 {
		return Info{}, nil
	}
	var info Info
	if err := json.Unmarshal(raw, &info); err != nil {
		return Info{}, fmt.Errorf("geoip: decode response: %w", err)
	}
	return info, nil
}

// IsStatusError reports whether err is a structured failure and returns it.
func IsStatusError(err error) (*StatusError, bool) {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr, true
	}
	return nil, false
}
