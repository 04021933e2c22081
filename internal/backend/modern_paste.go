package backend

import (
	"context"
	"encoding/json"
	"net/url"
	"time"

	"github.com/sharkusmanch/pc/internal/domain"
	"github.com/sharkusmanch/pc/internal/http"
)

const modernPasteDoc = `Modern Paste backend.
modern-paste source: <https://github.com/LINKIWI/modern-paste/>.
Example popular instance of this is <https://paste.fedoraproject.org/>.

Example config block:

    [servers.fedora]
    backend = "modern_paste"
    url = "https://paste.fedoraproject.org/"

    # Optional values

    # Title of the paste. Server default is "Untitled".
    title = "build log"

    # Language for syntax highlighting. Server default is plain text.
    language = "python"

    # Password protect the paste.
    password = "hunter2"

    # Lifetime of the paste, eg. "3600s", "1day", "2 weeks". Default is no expiry.
    expiry = "1day"
`

// ModernPaste submits a JSON document to the modern-paste API.
type ModernPaste struct {
	URL      URL       `toml:"url"`
	Title    *string   `toml:"title,omitempty"`
	Language *string   `toml:"language,omitempty"`
	Password *string   `toml:"password,omitempty"`
	Expiry   *Duration `toml:"expiry,omitempty"`

	now func() time.Time
}

type modernPasteRequest struct {
	Contents   string  `json:"contents"`
	ExpiryTime *int64  `json:"expiry_time,omitempty"`
	Language   *string `json:"language,omitempty"`
	Password   *string `json:"password,omitempty"`
	Title      *string `json:"title,omitempty"`
}

type modernPasteResponse struct {
	Success *bool  `json:"success"`
	Message string `json:"message"`
	URL     string `json:"url"`
}

func newModernPaste() *ModernPaste { return &ModernPaste{} }

func (b *ModernPaste) Kind() string     { return "modern_paste" }
func (b *ModernPaste) Describe() string { return modernPasteDoc }
func (b *ModernPaste) String() string   { return summary(b.Kind(), b.URL) }

func (b *ModernPaste) bind(o *overrides) {
	o.url(&b.URL, "overrides url set in config")
	o.nullableString(&b.Title, "t", "title", "title", "title of the paste")
	o.nullableString(&b.Language, "l", "language", "language", "language for syntax highlighting")
	o.nullableString(&b.Password, "p", "password", "password", "password protect the paste")
	o.duration(&b.Expiry, "e", "expiry", "lifetime of the paste, eg. 3600s or 1day")
}

func (b *ModernPaste) validate() error {
	return requireURL(b.URL)
}

func (b *ModernPaste) Configure(args []string) (Backend, error) {
	next := *b
	if err := parseOverrides(b.Kind(), args, next.bind); err != nil {
		return nil, err
	}
	return &next, nil
}

func (b *ModernPaste) Upload(ctx context.Context, client *http.Client, payload []byte) (*url.URL, error) {
	req := modernPasteRequest{
		Contents: string(payload),
		Language: b.Language,
		Password: b.Password,
		Title:    b.Title,
	}
	if b.Expiry != nil {
		now := time.Now
		if b.now != nil {
			now = b.now
		}
		expires := now().Add(b.Expiry.Std()).Unix()
		req.ExpiryTime = &expires
	}

	resp, err := client.PostJSON(ctx, b.URL.WithPath("/api/paste/submit").String(), req)
	if err != nil {
		return nil, uploadError(b.Kind(), "request failed", err)
	}
	if err := checkStatus(b.Kind(), resp); err != nil {
		return nil, err
	}

	var data modernPasteResponse
	if err := json.Unmarshal(resp.Body, &data); err != nil {
		return nil, &domain.UploadError{
			Backend: b.Kind(),
			Message: "unexpected api response",
			Body:    resp.Text(),
			Err:     err,
		}
	}
	if data.Success != nil && !*data.Success {
		return nil, &domain.UploadError{
			Backend: b.Kind(),
			Message: "api returned success: false: " + data.Message,
			Body:    resp.Text(),
		}
	}

	u, err := ParseURL(data.URL)
	if err != nil {
		return nil, &domain.UploadError{
			Backend: b.Kind(),
			Message: "could not parse response url",
			Body:    resp.Text(),
			Err:     err,
		}
	}
	return u.URL(), nil
}
