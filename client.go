package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
)

// UnknownValuePolicy controls how the decoder treats protocol values outside
// the known set: unrecognized streaming event types and unrecognized content
// block types. The API adds new variants over time; the default is to skip
// them so older clients keep working against newer servers.
type UnknownValuePolicy int

const (
	// UnknownIgnore silently skips unrecognized events and passes
	// unrecognized content blocks through with only their type tag decoded.
	UnknownIgnore UnknownValuePolicy = iota
	// UnknownError treats any unrecognized value as a decode error.
	UnknownError
)

// Client issues requests against the Anthropic API. It is safe for
// concurrent use.
type Client struct {
	creds         Credentials
	httpClient    *http.Client
	unknownPolicy UnknownValuePolicy
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying *http.Client. The default client has no
// timeout: streaming responses stay open for the lifetime of the stream.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithUnknownValuePolicy sets how unrecognized protocol values are handled.
func WithUnknownValuePolicy(p UnknownValuePolicy) Option {
	return func(c *Client) {
		c.unknownPolicy = p
	}
}

// NewClient creates a client with the given credentials.
func NewClient(creds Credentials, opts ...Option) (*Client, error) {
	if creds.APIKey() == "" {
		return nil, ErrMissingAPIKey
	}
	c := &Client{
		creds:      creds,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Credentials returns the credentials the client was built with.
func (c *Client) Credentials() Credentials {
	return c.creds
}

// newRequest builds an HTTP request for the given route relative to the base
// URL, with the standard headers and an optional JSON body.
func (c *Client) newRequest(ctx context.Context, method, route string, query url.Values, body any) (*http.Request, error) {
	u := c.creds.BaseURL() + route
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, &RequestError{Err: err}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, &RequestError{Err: err}
	}
	req.Header.Set("x-api-key", c.creds.APIKey())
	req.Header.Set("anthropic-version", apiVersion)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// do sends the request and decodes the success-or-error envelope into out.
// A body whose type tag is "error" decodes to *APIError regardless of HTTP
// status; a non-2xx response without the envelope shape becomes a
// *RequestError.
func (c *Client) do(ctx context.Context, method, route string, query url.Values, body, out any) error {
	req, err := c.newRequest(ctx, method, route, query, body)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &RequestError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &RequestError{StatusCode: resp.StatusCode, Err: err}
	}

	if gjson.GetBytes(raw, "type").String() == "error" {
		return decodeErrorEnvelope(raw, resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &RequestError{StatusCode: resp.StatusCode, Body: bodySnippet(raw)}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &DecodeError{Raw: raw, Err: err}
	}
	return nil
}

// Get issues a GET request against the given route and decodes the envelope
// into out. Exported for the admin subpackage.
func (c *Client) Get(ctx context.Context, route string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, route, query, nil, out)
}

// Post issues a POST request with a JSON body against the given route and
// decodes the envelope into out. Exported for the admin subpackage.
func (c *Client) Post(ctx context.Context, route string, body, out any) error {
	return c.do(ctx, http.MethodPost, route, nil, body, out)
}

// Delete issues a DELETE request against the given route and decodes the
// envelope into out. Exported for the admin subpackage.
func (c *Client) Delete(ctx context.Context, route string, out any) error {
	return c.do(ctx, http.MethodDelete, route, nil, nil, out)
}

func decodeErrorEnvelope(raw []byte, statusCode int) error {
	var envelope struct {
		Type  string   `json:"type"`
		Error APIError `json:"error"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil || envelope.Error.Type == "" {
		if err == nil {
			err = ErrUnknownEvent
		}
		return &DecodeError{Raw: raw, Err: err}
	}
	apiErr := envelope.Error
	apiErr.StatusCode = statusCode
	return &apiErr
}

func bodySnippet(raw []byte) string {
	s := strings.TrimSpace(string(raw))
	if len(s) > 512 {
		s = s[:512]
	}
	return s
}
