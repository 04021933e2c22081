// Package backend implements the paste service backends and the registry that
// maps a backend kind to its schema, documentation and constructor.
//
// Every backend is a plain record of its configuration fields that decodes
// from a [servers.<name>] table of the config file. Configure applies the
// per-invocation command-line overrides to a copy of that record, and Upload
// performs exactly one paste against the configured endpoint.
package backend

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/sharkusmanch/pc/internal/domain"
	"github.com/sharkusmanch/pc/internal/http"
)

// Backend is the contract every paste service implements.
type Backend interface {
	// Kind returns the registry name of the backend, the value of the
	// `backend` key in the config file.
	Kind() string

	// Configure applies command-line overrides and returns a new, fully
	// resolved backend. args[0] is the server name; the rest are flags. The
	// receiver is not modified.
	Configure(args []string) (Backend, error)

	// Upload sends payload and returns the URL of the new paste.
	Upload(ctx context.Context, client *http.Client, payload []byte) (*url.URL, error)

	// Describe returns static documentation for the backend.
	Describe() string

	// String returns a one-line summary, "<kind> | <endpoint>".
	String() string
}

// URL is an absolute URL that marshals to and from its string form.
type URL struct {
	raw url.URL
}

// ParseURL parses s, requiring a scheme and a host.
func ParseURL(s string) (URL, error) {
	u, err := url.Parse(s)
	if err != nil {
		return URL{}, fmt.Errorf("could not parse %q as a url: %w", s, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return URL{}, fmt.Errorf("could not parse %q as a url: missing scheme or host", s)
	}
	return URL{raw: *u}, nil
}

// MustParseURL is like ParseURL but panics on error. For tests and
// compiled-in values.
func MustParseURL(s string) URL {
	u, err := ParseURL(s)
	if err != nil {
		panic(err)
	}
	return u
}

// IsZero reports whether the URL is unset.
func (u URL) IsZero() bool {
	return u.raw.Host == ""
}

// String returns the URL as text.
func (u URL) String() string {
	return u.raw.String()
}

// URL returns a copy as a *url.URL.
func (u URL) URL() *url.URL {
	c := u.raw
	return &c
}

// WithPath returns a copy with the path replaced by p.
func (u URL) WithPath(p string) *url.URL {
	c := u.raw
	c.Path = p
	c.RawPath = ""
	return &c
}

// MarshalText implements encoding.TextMarshaler.
func (u URL) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (u *URL) UnmarshalText(text []byte) error {
	parsed, err := ParseURL(string(text))
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}

func requireURL(u URL) error {
	if u.IsZero() {
		return errors.New("missing required field url")
	}
	return nil
}

// checkPair rejects a companion pair of fields where only one is set.
func checkPair(kind, first string, a *string, second string, b *string) error {
	if (a == nil) != (b == nil) {
		return &domain.PairedFieldError{Backend: kind, First: first, Second: second}
	}
	return nil
}

func uploadError(kind, message string, err error) error {
	return &domain.UploadError{Backend: kind, Message: message, Err: err}
}

// checkStatus turns a non-2xx response into an UploadError.
func checkStatus(kind string, resp *http.Response) error {
	if resp.OK() {
		return nil
	}
	return &domain.UploadError{
		Backend: kind,
		Message: fmt.Sprintf("server returned status %d", resp.StatusCode),
		Body:    resp.Text(),
	}
}

// urlFromBody parses a plain-text response body holding the paste URL.
func urlFromBody(kind string, resp *http.Response) (*url.URL, error) {
	if err := checkStatus(kind, resp); err != nil {
		return nil, err
	}
	text := strings.TrimSpace(resp.Text())
	u, err := ParseURL(text)
	if err != nil {
		return nil, &domain.UploadError{
			Backend: kind,
			Message: "could not parse response as url",
			Body:    resp.Text(),
			Err:     err,
		}
	}
	return u.URL(), nil
}

func summary(kind string, endpoint fmt.Stringer) string {
	return fmt.Sprintf("%s | %s", kind, endpoint)
}
