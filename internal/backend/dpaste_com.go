package backend

import (
	"context"
	"net/url"

	"github.com/sharkusmanch/pc/internal/http"
)

const dpasteComDoc = `Dpaste.com backend. Supports <http://dpaste.com/>.

Example config block:

    [servers.dpastecom]
    backend = "dpaste_com"
    url = "http://dpaste.com/"
`

// DpasteCom uploads to the v2 API of dpaste.com.
type DpasteCom struct {
	URL URL `toml:"url"`
}

func newDpasteCom() *DpasteCom { return &DpasteCom{} }

func (b *DpasteCom) Kind() string     { return "dpaste_com" }
func (b *DpasteCom) Describe() string { return dpasteComDoc }
func (b *DpasteCom) String() string   { return summary(b.Kind(), b.URL) }

func (b *DpasteCom) bind(o *overrides) {
	o.url(&b.URL, "override url in config")
}

func (b *DpasteCom) validate() error {
	return requireURL(b.URL)
}

func (b *DpasteCom) Configure(args []string) (Backend, error) {
	next := *b
	if err := parseOverrides(b.Kind(), args, next.bind); err != nil {
		return nil, err
	}
	return &next, nil
}

func (b *DpasteCom) Upload(ctx context.Context, client *http.Client, payload []byte) (*url.URL, error) {
	form := http.NewForm().Text("content", string(payload))

	resp, err := client.PostForm(ctx, b.URL.WithPath("/api/v2/").String(), form)
	if err != nil {
		return nil, uploadError(b.Kind(), "request failed", err)
	}
	return urlFromBody(b.Kind(), resp)
}
