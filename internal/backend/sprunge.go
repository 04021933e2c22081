package backend

import (
	"context"
	"net/url"

	"github.com/sharkusmanch/pc/internal/http"
)

const sprungeDoc = `Sprunge backend. Supports any servers running sprunge <https://github.com/rupa/sprunge>.

Example config block:

    [servers.sprunge]
    backend = "sprunge"
    url = "http://sprunge.us/"

    # optional; language for syntax highlighting, added to the url as the query string
    language = "py"
`

// Sprunge uploads a multipart "sprunge" field. Syntax highlighting is chosen
// by the query string of the returned URL.
type Sprunge struct {
	URL      URL     `toml:"url"`
	Language *string `toml:"language,omitempty"`
}

func newSprunge() *Sprunge { return &Sprunge{} }

func (b *Sprunge) Kind() string     { return "sprunge" }
func (b *Sprunge) Describe() string { return sprungeDoc }
func (b *Sprunge) String() string   { return summary(b.Kind(), b.URL) }

func (b *Sprunge) bind(o *overrides) {
	o.url(&b.URL, "override url in config")
	o.nullableString(&b.Language, "l", "language", "language", "language for syntax highlighting (default plain text; NONE forces the default)")
}

func (b *Sprunge) validate() error {
	return requireURL(b.URL)
}

func (b *Sprunge) Configure(args []string) (Backend, error) {
	next := *b
	if err := parseOverrides(b.Kind(), args, next.bind); err != nil {
		return nil, err
	}
	return &next, nil
}

func (b *Sprunge) Upload(ctx context.Context, client *http.Client, payload []byte) (*url.URL, error) {
	form := http.NewForm().Text("sprunge", string(payload))

	resp, err := client.PostForm(ctx, b.URL.String(), form)
	if err != nil {
		return nil, uploadError(b.Kind(), "request failed", err)
	}

	u, err := urlFromBody(b.Kind(), resp)
	if err != nil {
		return nil, err
	}
	if b.Language != nil {
		u.RawQuery = *b.Language
	}
	return u, nil
}
