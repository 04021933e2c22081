package backend

import (
	"context"
	"net/url"

	"github.com/sharkusmanch/pc/internal/http"
)

const vpasteDoc = `Vpaste backend. Supports any servers running Vpaste <http://vpaste.net/>.

Example config block:

    [servers.vp]
    backend = "vpaste"
    url = "http://vpaste.net/"
`

// Vpaste uploads a multipart "text" field. The server redirects to the new
// paste, so the paste URL is the final URL of the request.
type Vpaste struct {
	URL URL `toml:"url"`
}

func newVpaste() *Vpaste { return &Vpaste{} }

func (b *Vpaste) Kind() string     { return "vpaste" }
func (b *Vpaste) Describe() string { return vpasteDoc }
func (b *Vpaste) String() string   { return summary(b.Kind(), b.URL) }

func (b *Vpaste) bind(o *overrides) {
	o.url(&b.URL, "override url in config")
}

func (b *Vpaste) validate() error {
	return requireURL(b.URL)
}

func (b *Vpaste) Configure(args []string) (Backend, error) {
	next := *b
	if err := parseOverrides(b.Kind(), args, next.bind); err != nil {
		return nil, err
	}
	return &next, nil
}

func (b *Vpaste) Upload(ctx context.Context, client *http.Client, payload []byte) (*url.URL, error) {
	form := http.NewForm().Text("text", string(payload))

	resp, err := client.PostForm(ctx, b.URL.String(), form)
	if err != nil {
		return nil, uploadError(b.Kind(), "request failed", err)
	}
	if err := checkStatus(b.Kind(), resp); err != nil {
		return nil, err
	}
	return resp.URL, nil
}
