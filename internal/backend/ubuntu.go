package backend

import (
	"context"
	"fmt"
	"net/url"

	"github.com/sharkusmanch/pc/internal/domain"
	"github.com/sharkusmanch/pc/internal/http"
)

const ubuntuDoc = `Ubuntu paste backend.
Supports <https://paste.ubuntu.com/>.

Example config block:

    [servers.ubuntu]
    backend = "ubuntu"
    url = "https://paste.ubuntu.com/"

    # Optional values

    # Filetype for syntax highlighting.
    syntax = "js"

    # Approximate time to live. Default is use server default (no expiration, but not guaranteed).
    # Supported values are day, week, month, and year.
    expires = "week"

    # Username to publish as. Default is anonymous author.
    author = "my name"
`

// UbuntuExpires is the lifetime of a paste on paste.ubuntu.com.
type UbuntuExpires string

const (
	UbuntuExpiresDay   UbuntuExpires = "day"
	UbuntuExpiresWeek  UbuntuExpires = "week"
	UbuntuExpiresMonth UbuntuExpires = "month"
	UbuntuExpiresYear  UbuntuExpires = "year"
)

// ParseUbuntuExpires validates s as an expiry value.
func ParseUbuntuExpires(s string) (UbuntuExpires, error) {
	switch e := UbuntuExpires(s); e {
	case UbuntuExpiresDay, UbuntuExpiresWeek, UbuntuExpiresMonth, UbuntuExpiresYear:
		return e, nil
	default:
		return "", fmt.Errorf("invalid value for expires: %s", s)
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (e *UbuntuExpires) UnmarshalText(text []byte) error {
	parsed, err := ParseUbuntuExpires(string(text))
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

// Ubuntu uploads to paste.ubuntu.com. The server redirects to the new paste
// on success and back to the form when it rejects the paste.
type Ubuntu struct {
	URL     URL            `toml:"url"`
	Syntax  *string        `toml:"syntax,omitempty"`
	Author  *string        `toml:"author,omitempty"`
	Title   *string        `toml:"title,omitempty"`
	Expires *UbuntuExpires `toml:"expires,omitempty"`
}

func newUbuntu() *Ubuntu { return &Ubuntu{} }

func (b *Ubuntu) Kind() string     { return "ubuntu" }
func (b *Ubuntu) Describe() string { return ubuntuDoc }
func (b *Ubuntu) String() string   { return summary(b.Kind(), b.URL) }

func (b *Ubuntu) bind(o *overrides) {
	o.url(&b.URL, "overrides url set in config")
	o.nullableString(&b.Syntax, "s", "syntax", "filetype", "filetype for syntax highlighting")
	o.nullableString(&b.Author, "a", "author", "author", "sets a name for the paste author")
	o.nullableString(&b.Title, "t", "title", "title", "title of the paste")
	bindNullable(o, &b.Expires, ParseUbuntuExpires, FieldSpec{
		Name:      "expires",
		Short:     "e",
		ValueName: "day|week|month|year",
		Usage:     "time to live",
	})
}

func (b *Ubuntu) validate() error {
	return requireURL(b.URL)
}

func (b *Ubuntu) Configure(args []string) (Backend, error) {
	next := *b
	if err := parseOverrides(b.Kind(), args, next.bind); err != nil {
		return nil, err
	}
	return &next, nil
}

func (b *Ubuntu) Upload(ctx context.Context, client *http.Client, payload []byte) (*url.URL, error) {
	syntax := "text"
	if b.Syntax != nil {
		syntax = *b.Syntax
	}

	form := http.NewForm().
		Text("content", string(payload)).
		Text("syntax", syntax).
		TextIfSet("poster", b.Author).
		TextIfSet("title", b.Title)
	if b.Expires != nil {
		form.Text("expiration", string(*b.Expires))
	}

	resp, err := client.PostForm(ctx, b.URL.String(), form)
	if err != nil {
		return nil, uploadError(b.Kind(), "request failed", err)
	}
	if err := checkStatus(b.Kind(), resp); err != nil {
		return nil, err
	}

	// A rejected paste (e.g. unknown syntax) lands back on the form.
	if resp.URL.String() == b.URL.String() {
		return nil, &domain.UploadError{
			Backend: b.Kind(),
			Message: "paste failed; check parameters, it is possible that the syntax name provided wasn't recognized",
		}
	}
	return resp.URL, nil
}
