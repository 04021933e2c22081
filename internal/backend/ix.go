package backend

import (
	"context"
	"net/url"
	"strings"

	"github.com/sharkusmanch/pc/internal/domain"
	"github.com/sharkusmanch/pc/internal/http"
)

const ixDoc = `ix backend.
Supports ix.io.

Example config block:

    [servers.ix]
    backend = "ix"
    url = "http://ix.io/"

    # Optional values

    # Filetype for syntax highlighting.
    syntax = "python"

    # Username and password for authenticated pastes; if these are both provided,
    # the program will attempt to authenticate with them. From ix.io: "If the login
    # does not exist, it will be created." Note that either both must be provided,
    # or neither. It is ok to provide them in stages - eg. username in the config
    # file and apikey on the command line.
    username = "me"
    apikey = "hunter2"
`

// Ix uploads to ix.io, optionally authenticated with HTTP basic auth.
type Ix struct {
	URL      URL     `toml:"url"`
	Syntax   *string `toml:"syntax,omitempty"`
	Username *string `toml:"username,omitempty"`
	APIKey   *string `toml:"apikey,omitempty"`
}

func newIx() *Ix { return &Ix{} }

func (b *Ix) Kind() string     { return "ix" }
func (b *Ix) Describe() string { return ixDoc }
func (b *Ix) String() string   { return summary(b.Kind(), b.URL) }

func (b *Ix) bind(o *overrides) {
	o.url(&b.URL, "overrides url set in config")
	o.nullableString(&b.Syntax, "s", "syntax", "filetype", "filetype for syntax highlighting")
	o.nullableString(&b.Username, "U", "username", "username", "username to authenticate uploads (required if apikey set)")
	o.nullableString(&b.APIKey, "k", "apikey", "apikey", "api key to authenticate uploads (required if username set)")
}

func (b *Ix) validate() error {
	return requireURL(b.URL)
}

func (b *Ix) Configure(args []string) (Backend, error) {
	next := *b
	if err := parseOverrides(b.Kind(), args, next.bind); err != nil {
		return nil, err
	}
	if err := checkPair(b.Kind(), "username", next.Username, "apikey", next.APIKey); err != nil {
		return nil, err
	}
	return &next, nil
}

func (b *Ix) Upload(ctx context.Context, client *http.Client, payload []byte) (*url.URL, error) {
	if err := checkPair(b.Kind(), "username", b.Username, "apikey", b.APIKey); err != nil {
		return nil, err
	}

	form := http.NewForm().Text("f:1", string(payload))

	var opts []http.RequestOption
	if b.Username != nil {
		opts = append(opts, http.WithBasicAuth(*b.Username, *b.APIKey))
	}

	resp, err := client.PostForm(ctx, b.URL.String(), form, opts...)
	if err != nil {
		return nil, uploadError(b.Kind(), "request failed", err)
	}

	// Validate the bare response before appending anything to it.
	u, err := urlFromBody(b.Kind(), resp)
	if err != nil || b.Syntax == nil {
		return u, err
	}

	withSyntax := strings.TrimSpace(resp.Text()) + "/" + *b.Syntax
	parsed, err := ParseURL(withSyntax)
	if err != nil {
		return nil, &domain.UploadError{
			Backend: b.Kind(),
			Message: "could not parse response as url after adding syntax url param",
			Body:    withSyntax,
			Err:     err,
		}
	}
	return parsed.URL(), nil
}
