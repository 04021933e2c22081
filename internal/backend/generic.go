package backend

import (
	"context"
	"net/url"

	"github.com/sharkusmanch/pc/internal/http"
)

const genericDoc = `Generic paste service backend. Supports any pastebin services with the following two
properties:

1. data is uploaded via plain text in the POST request body to the base url.
2. the generated paste url is returned in plain text as the response body.

Example config block:

    [servers.paste_rs]
    backend = "generic"
    url = "https://paste.rs/"
`

// Generic POSTs the raw payload to URL and reads the paste URL back from the
// response body.
type Generic struct {
	URL URL `toml:"url"`
}

func newGeneric() *Generic { return &Generic{} }

func (b *Generic) Kind() string     { return "generic" }
func (b *Generic) Describe() string { return genericDoc }
func (b *Generic) String() string   { return summary(b.Kind(), b.URL) }

func (b *Generic) bind(o *overrides) {
	o.url(&b.URL, "url to POST the paste to")
}

func (b *Generic) validate() error {
	return requireURL(b.URL)
}

func (b *Generic) Configure(args []string) (Backend, error) {
	next := *b
	if err := parseOverrides(b.Kind(), args, next.bind); err != nil {
		return nil, err
	}
	return &next, nil
}

func (b *Generic) Upload(ctx context.Context, client *http.Client, payload []byte) (*url.URL, error) {
	return postPlain(ctx, client, b.Kind(), b.URL.URL(), payload)
}

// postPlain sends payload as the request body and parses the body of the
// response as the paste URL.
func postPlain(ctx context.Context, client *http.Client, kind string, endpoint *url.URL, payload []byte) (*url.URL, error) {
	resp, err := client.Post(ctx, endpoint.String(), "text/plain; charset=utf-8", payload)
	if err != nil {
		return nil, uploadError(kind, "request failed", err)
	}
	return urlFromBody(kind, resp)
}
