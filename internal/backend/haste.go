package backend

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/sharkusmanch/pc/internal/domain"
	"github.com/sharkusmanch/pc/internal/http"
)

const hasteDoc = `Hastebin backend. Supports any servers running Haste
<https://github.com/seejohnrun/haste-server>. Official publicly available server for this is
<https://hastebin.com/>.

Example config block:

    [servers.hastebin]
    backend = "haste"
    url = "https://hastebin.com/"
`

// Haste POSTs to <url>/documents and builds the paste URL from the returned
// document key.
type Haste struct {
	URL URL `toml:"url"`
}

type hasteResponse struct {
	Key string `json:"key"`
}

func newHaste() *Haste { return &Haste{} }

func (b *Haste) Kind() string     { return "haste" }
func (b *Haste) Describe() string { return hasteDoc }
func (b *Haste) String() string   { return summary(b.Kind(), b.URL) }

func (b *Haste) bind(o *overrides) {
	o.url(&b.URL, "base url of the haste server")
}

func (b *Haste) validate() error {
	return requireURL(b.URL)
}

func (b *Haste) Configure(args []string) (Backend, error) {
	next := *b
	if err := parseOverrides(b.Kind(), args, next.bind); err != nil {
		return nil, err
	}
	return &next, nil
}

func (b *Haste) Upload(ctx context.Context, client *http.Client, payload []byte) (*url.URL, error) {
	endpoint := b.URL.WithPath("/documents")

	resp, err := client.Post(ctx, endpoint.String(), "text/plain; charset=utf-8", payload)
	if err != nil {
		return nil, uploadError(b.Kind(), "request failed", err)
	}
	if err := checkStatus(b.Kind(), resp); err != nil {
		return nil, err
	}

	var info hasteResponse
	if err := json.Unmarshal(resp.Body, &info); err != nil || info.Key == "" {
		return nil, &domain.UploadError{
			Backend: b.Kind(),
			Message: "unexpected api response",
			Body:    resp.Text(),
			Err:     err,
		}
	}

	return b.URL.WithPath("/" + info.Key), nil
}
