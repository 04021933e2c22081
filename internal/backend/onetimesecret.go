package backend

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/sharkusmanch/pc/internal/domain"
	"github.com/sharkusmanch/pc/internal/http"
)

const onetimesecretDoc = `Paste backend to send text to onetimesecret servers <https://github.com/onetimesecret/onetimesecret>.

Example config block:

    [servers.ots]
    backend = "onetimesecret"
    url = "https://onetimesecret.com/"

    # Optional values

    # Password protect the secret. Default is no password.
    passphrase = "password123"

    # Time to live in seconds. 0 or absent uses the server default.
    ttl = 86400

    # Email address the server should send the link to.
    recipient = "user@example.com"

    # Credentials for authenticated uploads. Either both or neither.
    username = "myuser@example.com"
    api_key = "DEADBEEF"
`

// Onetimesecret shares the payload as a secret on a onetimesecret server.
type Onetimesecret struct {
	URL        URL     `toml:"url"`
	Passphrase *string `toml:"passphrase,omitempty"`
	TTL        uint64  `toml:"ttl,omitempty"`
	Recipient  *string `toml:"recipient,omitempty"`
	Username   *string `toml:"username,omitempty"`
	APIKey     *string `toml:"api_key,omitempty"`
}

type onetimesecretResponse struct {
	SecretKey string `json:"secret_key"`
}

func newOnetimesecret() *Onetimesecret { return &Onetimesecret{} }

func (b *Onetimesecret) Kind() string     { return "onetimesecret" }
func (b *Onetimesecret) Describe() string { return onetimesecretDoc }
func (b *Onetimesecret) String() string   { return summary(b.Kind(), b.URL) }

func (b *Onetimesecret) bind(o *overrides) {
	o.url(&b.URL, "overrides url set in config")
	o.nullableString(&b.Passphrase, "p", "passphrase", "passphrase", "password protect the secret; default is no password")
	o.uint64Field(&b.TTL, "t", "ttl", "seconds", "time to live in seconds; 0 forces the server default")
	o.nullableString(&b.Recipient, "r", "recipient", "email", "email that the server should notify with the link")
	o.nullableString(&b.Username, "n", "username", "username", "username for authenticated uploads")
	o.nullableString(&b.APIKey, "k", "api-key", "apikey", "api key for authenticated uploads")
}

func (b *Onetimesecret) validate() error {
	return requireURL(b.URL)
}

func (b *Onetimesecret) Configure(args []string) (Backend, error) {
	next := *b
	if err := parseOverrides(b.Kind(), args, next.bind); err != nil {
		return nil, err
	}
	if err := checkPair(b.Kind(), "username", next.Username, "api_key", next.APIKey); err != nil {
		return nil, err
	}
	return &next, nil
}

func (b *Onetimesecret) Upload(ctx context.Context, client *http.Client, payload []byte) (*url.URL, error) {
	if err := checkPair(b.Kind(), "username", b.Username, "api_key", b.APIKey); err != nil {
		return nil, err
	}

	form := http.NewForm().
		Text("secret", string(payload)).
		TextIfSet("passphrase", b.Passphrase)
	if b.TTL != 0 {
		form.Text("ttl", strconv.FormatUint(b.TTL, 10))
	}
	form.TextIfSet("recipient", b.Recipient)

	var opts []http.RequestOption
	if b.Username != nil {
		opts = append(opts, http.WithBasicAuth(*b.Username, *b.APIKey))
	}

	resp, err := client.PostForm(ctx, b.URL.WithPath("/api/v1/share").String(), form, opts...)
	if err != nil {
		return nil, uploadError(b.Kind(), "request failed", err)
	}
	if err := checkStatus(b.Kind(), resp); err != nil {
		return nil, err
	}

	var data onetimesecretResponse
	if err := json.Unmarshal(resp.Body, &data); err != nil || data.SecretKey == "" {
		return nil, &domain.UploadError{
			Backend: b.Kind(),
			Message: "unexpected api response",
			Body:    resp.Text(),
			Err:     err,
		}
	}

	return b.URL.WithPath("/secret/" + data.SecretKey), nil
}
