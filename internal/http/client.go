// Package http provides the HTTP transport shared by the paste backends.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"
)

// DefaultTimeout bounds a single request, connect to last body byte.
const DefaultTimeout = 30 * time.Second

// Client performs single-shot HTTP requests. It never retries: a paste is
// either uploaded once or reported as failed.
type Client struct {
	httpClient *http.Client
	userAgent  string
	logger     *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new HTTP client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Response wraps an HTTP response with convenience methods.
type Response struct {
	StatusCode int
	Body       []byte
	Headers    http.Header
	// URL is the final request URL, after any redirects were followed.
	URL *url.URL
}

// OK reports whether the status code is 2xx.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Text returns the body as a string.
func (r *Response) Text() string {
	return string(r.Body)
}

// RequestOption adjusts an outgoing request.
type RequestOption func(*http.Request)

// WithBasicAuth sets HTTP basic authentication on the request.
func WithBasicAuth(username, password string) RequestOption {
	return func(r *http.Request) {
		r.SetBasicAuth(username, password)
	}
}

// Do performs an HTTP request once.
func (c *Client) Do(ctx context.Context, req *http.Request) (*Response, error) {
	req = req.WithContext(ctx)
	if c.userAgent != "" && req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	c.logger.Debug("HTTP request",
		"method", req.Method,
		"url", req.URL.String(),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Redacted(), err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	c.logger.Debug("HTTP response",
		"status", resp.StatusCode,
		"url", resp.Request.URL.String(),
		"bytes", len(body),
	)

	return &Response{
		StatusCode: resp.StatusCode,
		Body:       body,
		Headers:    resp.Header,
		URL:        resp.Request.URL,
	}, nil
}

// Post performs a POST request with a raw body.
func (c *Client) Post(ctx context.Context, url string, contentType string, body []byte, opts ...RequestOption) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	for _, opt := range opts {
		opt(req)
	}
	return c.Do(ctx, req)
}

// PostJSON marshals v and POSTs it as application/json.
func (c *Client) PostJSON(ctx context.Context, url string, v any, opts ...RequestOption) (*Response, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	return c.Post(ctx, url, "application/json", body, opts...)
}

// PostForm POSTs form as multipart/form-data.
func (c *Client) PostForm(ctx context.Context, url string, form *Form, opts ...RequestOption) (*Response, error) {
	contentType, body, err := form.Encode()
	if err != nil {
		return nil, fmt.Errorf("failed to encode form: %w", err)
	}
	return c.Post(ctx, url, contentType, body, opts...)
}

// Form is an ordered set of multipart text fields.
type Form struct {
	fields []formField
}

type formField struct {
	name  string
	value string
}

// NewForm creates an empty form.
func NewForm() *Form {
	return &Form{}
}

// Text appends a text field and returns the form for chaining.
func (f *Form) Text(name, value string) *Form {
	f.fields = append(f.fields, formField{name: name, value: value})
	return f
}

// TextIfSet appends the field only when value is non-nil.
func (f *Form) TextIfSet(name string, value *string) *Form {
	if value != nil {
		f.Text(name, *value)
	}
	return f
}

// Encode renders the form, returning its content type and body.
func (f *Form) Encode() (string, []byte, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, field := range f.fields {
		if err := w.WriteField(field.name, field.value); err != nil {
			return "", nil, err
		}
	}
	if err := w.Close(); err != nil {
		return "", nil, err
	}
	return w.FormDataContentType(), buf.Bytes(), nil
}
