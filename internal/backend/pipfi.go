package backend

import (
	"context"
	"net/url"

	"github.com/sharkusmanch/pc/internal/http"
)

const pipfiDoc = `Pipfi backend. Supports <http://p.ip.fi/>.

Example config block:

    [servers.pip]
    backend = "pipfi"
    url = "http://p.ip.fi/"
`

// Pipfi uploads a multipart "paste" field.
type Pipfi struct {
	URL URL `toml:"url"`
}

func newPipfi() *Pipfi { return &Pipfi{} }

func (b *Pipfi) Kind() string     { return "pipfi" }
func (b *Pipfi) Describe() string { return pipfiDoc }
func (b *Pipfi) String() string   { return summary(b.Kind(), b.URL) }

func (b *Pipfi) bind(o *overrides) {
	o.url(&b.URL, "override url in config")
}

func (b *Pipfi) validate() error {
	return requireURL(b.URL)
}

func (b *Pipfi) Configure(args []string) (Backend, error) {
	next := *b
	if err := parseOverrides(b.Kind(), args, next.bind); err != nil {
		return nil, err
	}
	return &next, nil
}

func (b *Pipfi) Upload(ctx context.Context, client *http.Client, payload []byte) (*url.URL, error) {
	form := http.NewForm().Text("paste", string(payload))

	resp, err := client.PostForm(ctx, b.URL.String(), form)
	if err != nil {
		return nil, uploadError(b.Kind(), "request failed", err)
	}
	return urlFromBody(b.Kind(), resp)
}
