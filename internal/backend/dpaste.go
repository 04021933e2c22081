package backend

import (
	"context"
	"net/url"

	"github.com/sharkusmanch/pc/internal/http"
)

const dpasteDoc = `Dpaste backend. Supports any server running <https://github.com/bartTC/dpaste>.

Example config block:

    [servers.dpaste]
    backend = "dpaste"
    url = "https://dpaste.de/"

    # optional; syntax highlighting / filetype (default is set by server)
    lexer = "python"

    # optional; lifetime in seconds. Default server config also supports special values like
    # "onetime" and "never".
    expires = "2592000"
`

// Dpaste uploads to the /api/ endpoint of a dpaste server.
type Dpaste struct {
	URL     URL     `toml:"url"`
	Lexer   *string `toml:"lexer,omitempty"`
	Expires *string `toml:"expires,omitempty"`
}

func newDpaste() *Dpaste { return &Dpaste{} }

func (b *Dpaste) Kind() string     { return "dpaste" }
func (b *Dpaste) Describe() string { return dpasteDoc }
func (b *Dpaste) String() string   { return summary(b.Kind(), b.URL) }

func (b *Dpaste) bind(o *overrides) {
	o.url(&b.URL, "override url in config")
	o.nullableString(&b.Lexer, "l", "lexer", "lexer", "syntax/filetype; NONE uses the server default, overriding any set in config file")
	o.nullableString(&b.Expires, "e", "expires", "seconds", "lifetime of paste in seconds; see server config for extra supported values (eg. onetime, never); NONE disables")
}

func (b *Dpaste) validate() error {
	return requireURL(b.URL)
}

func (b *Dpaste) Configure(args []string) (Backend, error) {
	next := *b
	if err := parseOverrides(b.Kind(), args, next.bind); err != nil {
		return nil, err
	}
	return &next, nil
}

func (b *Dpaste) Upload(ctx context.Context, client *http.Client, payload []byte) (*url.URL, error) {
	form := http.NewForm().
		Text("content", string(payload)).
		Text("format", "url").
		TextIfSet("lexer", b.Lexer).
		TextIfSet("expires", b.Expires)

	resp, err := client.PostForm(ctx, b.URL.WithPath("/api/").String(), form)
	if err != nil {
		return nil, uploadError(b.Kind(), "request failed", err)
	}
	return urlFromBody(b.Kind(), resp)
}
