package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sort"

	"github.com/pelletier/go-toml/v2"

	"github.com/sharkusmanch/pc/internal/backend"
	"github.com/sharkusmanch/pc/internal/domain"
)

// Config is the root of the config file.
type Config struct {
	Main    MainConfig
	Servers map[string]backend.Backend
}

// MainConfig holds the [main] table.
type MainConfig struct {
	// Server is the server used when none is named on the command line.
	Server *string `toml:"server,omitempty"`
	// Histfile receives one line per successful paste.
	Histfile *string `toml:"histfile,omitempty"`
}

// ServerNames returns the configured server names in lexicographic order.
func (c Config) ServerNames() []string {
	names := make([]string, 0, len(c.Servers))
	for name := range c.Servers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// rawConfig is the first decoding pass. Server tables stay generic until the
// backend tag selects their schema.
type rawConfig struct {
	Main    MainConfig                `toml:"main"`
	Servers map[string]map[string]any `toml:"servers"`
}

// Loader reads config files.
type Loader struct {
	registry *backend.Registry
	logger   *slog.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithRegistry sets the backend registry used to decode server tables.
func WithRegistry(r *backend.Registry) LoaderOption {
	return func(l *Loader) {
		l.registry = r
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) {
		l.logger = logger
	}
}

// NewLoader creates a new configuration loader.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		registry: backend.Default,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load resolves the config file selected by override and reads it. With no
// file selected the compiled-in defaults are returned. The returned path is
// empty when the defaults are used.
func (l *Loader) Load(override domain.Override[string]) (Config, string, error) {
	path, err := ChooseFile(override)
	if err != nil {
		return Config{}, "", err
	}
	if path == "" {
		l.logger.Debug("using compiled-in default config")
		return Default(), "", nil
	}

	cfg, err := l.LoadFile(path)
	if err != nil {
		return Config{}, "", err
	}
	return cfg, path, nil
}

// LoadFile reads and parses the config file at path.
func (l *Loader) LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, &domain.ConfigError{Path: path, Err: err}
	}

	cfg, err := l.Parse(data)
	if err != nil {
		return Config{}, &domain.ConfigError{Path: path, Err: err}
	}

	l.logger.Debug("loaded config", "path", path, "servers", len(cfg.Servers))
	return cfg, nil
}

// Parse decodes a config document. Unknown keys anywhere are errors.
func (l *Loader) Parse(data []byte) (Config, error) {
	var raw rawConfig
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&raw); err != nil {
		return Config{}, describeDecodeError(err)
	}

	cfg := Config{
		Main:    raw.Main,
		Servers: make(map[string]backend.Backend, len(raw.Servers)),
	}

	names := make([]string, 0, len(raw.Servers))
	for name := range raw.Servers {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		b, err := l.decodeServer(raw.Servers[name])
		if err != nil {
			return Config{}, fmt.Errorf("servers.%s: %w", name, err)
		}
		cfg.Servers[name] = b
	}

	return cfg, nil
}

func (l *Loader) decodeServer(fields map[string]any) (backend.Backend, error) {
	tag, ok := fields["backend"]
	if !ok {
		return nil, errors.New("missing field backend")
	}
	kind, ok := tag.(string)
	if !ok {
		return nil, fmt.Errorf("field backend must be a string, got %T", tag)
	}

	body := make(map[string]any, len(fields)-1)
	for k, v := range fields {
		if k != "backend" {
			body[k] = v
		}
	}

	data, err := toml.Marshal(body)
	if err != nil {
		return nil, err
	}
	return l.registry.Decode(kind, data)
}

func describeDecodeError(err error) error {
	var strict *toml.StrictMissingError
	if errors.As(err, &strict) {
		return fmt.Errorf("unknown field:\n%s", strict.String())
	}
	var decodeErr *toml.DecodeError
	if errors.As(err, &decodeErr) {
		return errors.New(decodeErr.String())
	}
	return err
}

// ChooseFile returns the config file to read. A set override must name an
// existing file; a cleared one selects the compiled-in defaults. Without an
// override the default path is used if it exists. An empty path means
// "use the defaults".
func ChooseFile(override domain.Override[string]) (string, error) {
	if override.IsClear() {
		return "", nil
	}

	if path, ok := override.Value(); ok {
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return "", &domain.ConfigError{Path: path, Err: errors.New("config file not found")}
			}
			return "", &domain.ConfigError{Path: path, Err: err}
		}
		return path, nil
	}

	path, err := DefaultConfigPath()
	if err != nil {
		return "", &domain.ConfigError{Err: err}
	}
	if _, err := os.Stat(path); err != nil {
		return "", nil
	}
	return path, nil
}

// Dump serializes cfg as a config document that Parse accepts.
func Dump(cfg Config) ([]byte, error) {
	doc := map[string]any{}

	mainTable := map[string]any{}
	if cfg.Main.Server != nil {
		mainTable["server"] = *cfg.Main.Server
	}
	if cfg.Main.Histfile != nil {
		mainTable["histfile"] = *cfg.Main.Histfile
	}
	if len(mainTable) > 0 {
		doc["main"] = mainTable
	}

	if len(cfg.Servers) > 0 {
		servers := make(map[string]any, len(cfg.Servers))
		for name, b := range cfg.Servers {
			table, err := serverTable(b)
			if err != nil {
				return nil, fmt.Errorf("servers.%s: %w", name, err)
			}
			servers[name] = table
		}
		doc["servers"] = servers
	}

	return toml.Marshal(doc)
}

// DumpServer serializes a single [servers.<name>] table.
func DumpServer(name string, b backend.Backend) ([]byte, error) {
	table, err := serverTable(b)
	if err != nil {
		return nil, fmt.Errorf("servers.%s: %w", name, err)
	}
	return toml.Marshal(map[string]any{
		"servers": map[string]any{name: table},
	})
}

func serverTable(b backend.Backend) (map[string]any, error) {
	data, err := backend.Encode(b)
	if err != nil {
		return nil, err
	}

	table := map[string]any{}
	if err := toml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("failed to re-read encoded %s backend: %w", b.Kind(), err)
	}
	table["backend"] = b.Kind()
	return table, nil
}
