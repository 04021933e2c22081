package backend

import (
	"context"
	"net/url"

	"github.com/sharkusmanch/pc/internal/http"
)

const pasteRsDoc = `paste.rs paste service backend. Supports https://paste.rs/ and any other pastebin services
with the following two properties:

1. data is uploaded via plain text in the POST request body to the base url.
2. the generated paste url is returned in plain text as the response body.

Example config block:

    [servers.rs]
    backend = "paste_rs"
    url = "https://paste.rs/"
`

// PasteRs talks to paste.rs. The protocol is the same as Generic.
type PasteRs struct {
	URL URL `toml:"url"`
}

func newPasteRs() *PasteRs { return &PasteRs{} }

func (b *PasteRs) Kind() string     { return "paste_rs" }
func (b *PasteRs) Describe() string { return pasteRsDoc }
func (b *PasteRs) String() string   { return summary(b.Kind(), b.URL) }

func (b *PasteRs) bind(o *overrides) {
	o.url(&b.URL, "url to POST the paste to")
}

func (b *PasteRs) validate() error {
	return requireURL(b.URL)
}

func (b *PasteRs) Configure(args []string) (Backend, error) {
	next := *b
	if err := parseOverrides(b.Kind(), args, next.bind); err != nil {
		return nil, err
	}
	return &next, nil
}

func (b *PasteRs) Upload(ctx context.Context, client *http.Client, payload []byte) (*url.URL, error) {
	return postPlain(ctx, client, b.Kind(), b.URL.URL(), payload)
}
