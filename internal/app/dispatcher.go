// Package app wires configuration, backends and I/O into a single paste run.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"

	"github.com/sharkusmanch/pc/internal/backend"
	"github.com/sharkusmanch/pc/internal/config"
	"github.com/sharkusmanch/pc/internal/domain"
	"github.com/sharkusmanch/pc/internal/http"
)

const noServersMessage = `No servers defined in configuration!
Define one in the config file like:

    [servers.rs]
    backend = "generic"
    url = "https://paste.rs/"`

// Dispatcher selects a server, resolves its backend against the command-line
// overrides and performs one upload.
type Dispatcher struct {
	config config.Config
	client *http.Client
	stdin  io.Reader
	stdout io.Writer
	logger *slog.Logger
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithHTTPClient sets the client handed to backends.
func WithHTTPClient(c *http.Client) DispatcherOption {
	return func(d *Dispatcher) {
		d.client = c
	}
}

// WithStdin sets where the paste payload is read from.
func WithStdin(r io.Reader) DispatcherOption {
	return func(d *Dispatcher) {
		d.stdin = r
	}
}

// WithStdout sets where the paste URL and help output are written.
func WithStdout(w io.Writer) DispatcherOption {
	return func(d *Dispatcher) {
		d.stdout = w
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		d.logger = l
	}
}

// NewDispatcher creates a Dispatcher for a config with the top-level
// overrides already applied.
func NewDispatcher(cfg config.Config, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		config: cfg,
		stdin:  os.Stdin,
		stdout: os.Stdout,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(d)
	}

	if d.client == nil {
		d.client = http.NewClient(http.WithLogger(d.logger))
	}

	return d
}

// Run selects, resolves and uploads. args are the backend flags that followed
// the server name on the command line. It returns domain.ErrHelpDisplayed
// when backend help was printed instead.
func (d *Dispatcher) Run(ctx context.Context, args []string) error {
	name, entry, err := d.SelectServer()
	if err != nil {
		return err
	}

	resolved, err := d.Resolve(name, entry, args)
	if err != nil {
		return err
	}

	_, err = d.Execute(ctx, resolved)
	return err
}

// SelectServer picks the server named by main.server, or the first server
// in sorted order when none is named.
func (d *Dispatcher) SelectServer() (string, backend.Backend, error) {
	if len(d.config.Servers) == 0 {
		return "", nil, &domain.SelectionError{Message: noServersMessage}
	}

	var name string
	if d.config.Main.Server != nil {
		name = *d.config.Main.Server
	} else {
		name = d.config.ServerNames()[0]
	}

	entry, ok := d.config.Servers[name]
	if !ok {
		return "", nil, &domain.SelectionError{
			Server: name,
			Message: fmt.Sprintf(`No corresponding server config for %s
Add one to the config file like:

    [servers.%s]
    backend = "generic"
    url = "https://paste.rs/"`, name, name),
		}
	}

	d.logger.Debug("selected server", "server", name, "backend", entry.String())
	return name, entry, nil
}

// Resolve applies args to entry. The server name is passed first so the
// backend can show it in its usage text.
func (d *Dispatcher) Resolve(name string, entry backend.Backend, args []string) (backend.Backend, error) {
	resolved, err := entry.Configure(append([]string{name}, args...))

	var help *domain.HelpRequest
	if errors.As(err, &help) {
		if err := d.printHelp(name, entry, help.Usage); err != nil {
			return nil, err
		}
		return nil, domain.ErrHelpDisplayed
	}
	if err != nil {
		return nil, err
	}

	d.logger.Debug("resolved backend", "server", name, "backend", resolved.String())
	return resolved, nil
}

func (d *Dispatcher) printHelp(name string, entry backend.Backend, usage string) error {
	current, err := config.DumpServer(name, entry)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(d.stdout, "Current configuration for server %q:\n\n%s\n%s\n%s",
		name, current, entry.Describe(), usage)
	return err
}

// Execute reads the whole payload, uploads it, prints the paste URL and
// records it in the history file when one is configured.
func (d *Dispatcher) Execute(ctx context.Context, b backend.Backend) (*url.URL, error) {
	payload, err := io.ReadAll(d.stdin)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	d.logger.Debug("uploading", "backend", b.String(), "bytes", len(payload))

	pasteURL, err := b.Upload(ctx, d.client, payload)
	if err != nil {
		return nil, err
	}

	if _, err := fmt.Fprintln(d.stdout, pasteURL.String()); err != nil {
		return pasteURL, fmt.Errorf("failed to write paste url: %w", err)
	}

	d.logger.Info("paste uploaded", "url", pasteURL.String())

	if histfile := d.config.Main.Histfile; histfile != nil {
		if err := appendHistory(*histfile, pasteURL); err != nil {
			return pasteURL, err
		}
	}

	return pasteURL, nil
}

func appendHistory(path string, pasteURL *url.URL) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return &domain.HistoryWriteError{Path: path, Err: err}
	}

	_, err = fmt.Fprintf(f, "%s\n", pasteURL)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return &domain.HistoryWriteError{Path: path, Err: err}
	}
	return nil
}
