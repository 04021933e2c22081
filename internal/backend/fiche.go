package backend

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/sharkusmanch/pc/internal/domain"
	"github.com/sharkusmanch/pc/internal/http"
)

const ficheDoc = `Fiche backend.
Supports any servers running fiche <https://github.com/solusipse/fiche>.
(for example: termbin.com)

Example config block:

    [servers.tb]
    backend = "fiche"
    domain = "termbin.com"

    # Optional values

    # Default port if not provided: 9999
    port = 9999
`

// DefaultFichePort is the port fiche listens on unless configured otherwise.
const DefaultFichePort uint16 = 9999

// Fiche writes the payload to a raw TCP socket and reads the paste URL back.
type Fiche struct {
	Domain string `toml:"domain"`
	Port   uint16 `toml:"port"`
}

func newFiche() *Fiche { return &Fiche{Port: DefaultFichePort} }

func (b *Fiche) Kind() string     { return "fiche" }
func (b *Fiche) Describe() string { return ficheDoc }
func (b *Fiche) String() string   { return fmt.Sprintf("%s | %s", b.Kind(), b.address()) }

func (b *Fiche) address() string {
	return net.JoinHostPort(b.Domain, strconv.Itoa(int(b.Port)))
}

func (b *Fiche) bind(o *overrides) {
	o.str(&b.Domain, "d", "domain", "domain", "domain name of the fiche server")
	o.uint16Field(&b.Port, "p", "port", "port", "port number of the fiche server")
}

func (b *Fiche) validate() error {
	if b.Domain == "" {
		return errors.New("missing required field domain")
	}
	return nil
}

func (b *Fiche) Configure(args []string) (Backend, error) {
	next := *b
	if err := parseOverrides(b.Kind(), args, next.bind); err != nil {
		return nil, err
	}
	return &next, nil
}

// Upload ignores client: fiche speaks plain TCP, not HTTP.
func (b *Fiche) Upload(ctx context.Context, _ *http.Client, payload []byte) (*url.URL, error) {
	dialer := net.Dialer{Timeout: http.DefaultTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", b.address())
	if err != nil {
		return nil, uploadError(b.Kind(), "connect failed", err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	if _, err := conn.Write(payload); err != nil {
		return nil, uploadError(b.Kind(), "write failed", err)
	}
	if tcp, ok := conn.(*net.TCPConn); ok {
		if err := tcp.CloseWrite(); err != nil {
			return nil, uploadError(b.Kind(), "write failed", err)
		}
	}

	resp, err := io.ReadAll(conn)
	if err != nil {
		return nil, uploadError(b.Kind(), "read failed", err)
	}

	text := strings.TrimSpace(string(bytes.TrimRight(resp, "\x00")))
	u, err := ParseURL(text)
	if err != nil {
		return nil, &domain.UploadError{
			Backend: b.Kind(),
			Message: "could not parse response as url",
			Body:    string(resp),
			Err:     err,
		}
	}
	return u.URL(), nil
}
