package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sharkusmanch/pc/internal/backend"
	"github.com/sharkusmanch/pc/internal/domain"
)

const fullConfig = `
[main]
server = "rs"
histfile = "/tmp/pc_history"

[servers.rs]
backend = "generic"
url = "https://paste.rs/"

[servers.tb]
backend = "fiche"
domain = "termbin.com"
port = 9999

[servers.dp]
backend = "dpaste"
url = "https://dpaste.de/"
lexer = "python"
expires = "3600"

[servers.ix]
backend = "ix"
url = "http://ix.io/"
syntax = "go"
username = "me"
apikey = "hunter2"

[servers.fedora]
backend = "modern_paste"
url = "https://paste.fedoraproject.org/"
title = "log"
expiry = "1 week"

[servers.ots]
backend = "onetimesecret"
url = "https://onetimesecret.com/"
ttl = 600
passphrase = "pw"

[servers.ubuntu]
backend = "ubuntu"
url = "https://paste.ubuntu.com/"
expires = "month"
author = "me"

[servers.hb]
backend = "haste"
url = "https://hastebin.com/"

[servers.dc]
backend = "dpaste_com"
url = "https://dpaste.com/"

[servers.prs]
backend = "paste_rs"
url = "https://paste.rs/"

[servers.pf]
backend = "pipfi"
url = "https://p.ip.fi/"

[servers.sp]
backend = "sprunge"
url = "http://sprunge.us/"
language = "rust"

[servers.vp]
backend = "vpaste"
url = "http://vpaste.net/"

[servers."with.dot"]
backend = "generic"
url = "https://paste.example/"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoader_Parse(t *testing.T) {
	cfg, err := NewLoader().Parse([]byte(fullConfig))
	require.NoError(t, err)

	require.NotNil(t, cfg.Main.Server)
	assert.Equal(t, "rs", *cfg.Main.Server)
	require.NotNil(t, cfg.Main.Histfile)
	assert.Equal(t, "/tmp/pc_history", *cfg.Main.Histfile)

	assert.Len(t, cfg.Servers, 14)
	assert.Equal(t, "generic", cfg.Servers["rs"].Kind())
	assert.Equal(t, "generic", cfg.Servers["with.dot"].Kind())
	assert.Equal(t, &backend.Fiche{Domain: "termbin.com", Port: 9999}, cfg.Servers["tb"])

	kinds := map[string]bool{}
	for _, b := range cfg.Servers {
		kinds[b.Kind()] = true
	}
	for _, name := range backend.Default.Names() {
		assert.True(t, kinds[name], "fixture should cover backend %s", name)
	}
}

func TestLoader_Parse_MainOptional(t *testing.T) {
	cfg, err := NewLoader().Parse([]byte(`
[servers.rs]
backend = "generic"
url = "https://paste.rs/"
`))
	require.NoError(t, err)
	assert.Nil(t, cfg.Main.Server)
	assert.Nil(t, cfg.Main.Histfile)
	assert.Len(t, cfg.Servers, 1)
}

func TestLoader_Parse_Empty(t *testing.T) {
	cfg, err := NewLoader().Parse(nil)
	require.NoError(t, err)
	assert.Empty(t, cfg.Servers)
}

func TestLoader_Parse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "unknown top-level key",
			content: "colour = true\n",
			wantErr: "unknown field",
		},
		{
			name:    "unknown main key",
			content: "[main]\ndefault = \"rs\"\n",
			wantErr: "unknown field",
		},
		{
			name:    "unknown backend field",
			content: "[servers.rs]\nbackend = \"generic\"\nurl = \"https://paste.rs/\"\nlexer = \"go\"\n",
			wantErr: "servers.rs: unknown field for backend generic",
		},
		{
			name:    "missing backend tag",
			content: "[servers.rs]\nurl = \"https://paste.rs/\"\n",
			wantErr: "servers.rs: missing field backend",
		},
		{
			name:    "backend tag not a string",
			content: "[servers.rs]\nbackend = 3\n",
			wantErr: "field backend must be a string",
		},
		{
			name:    "unknown backend kind",
			content: "[servers.rs]\nbackend = \"pastebin_com\"\n",
			wantErr: "pastebin_com is not a valid backend",
		},
		{
			name:    "missing url",
			content: "[servers.rs]\nbackend = \"generic\"\n",
			wantErr: "missing required field url",
		},
		{
			name:    "bad duration",
			content: "[servers.mp]\nbackend = \"modern_paste\"\nurl = \"https://p.example/\"\nexpiry = \"soon\"\n",
			wantErr: "invalid duration",
		},
		{
			name:    "malformed toml",
			content: "[servers.rs\n",
			wantErr: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLoader().Parse([]byte(tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDump_RoundTrip(t *testing.T) {
	loader := NewLoader()
	cfg, err := loader.Parse([]byte(fullConfig))
	require.NoError(t, err)

	data, err := Dump(cfg)
	require.NoError(t, err)

	again, err := loader.Parse(data)
	require.NoError(t, err, "dumped config:\n%s", data)
	assert.Equal(t, cfg, again)
}

func TestDump_RoundTripDefaults(t *testing.T) {
	cfg := Default()

	data, err := Dump(cfg)
	require.NoError(t, err)

	again, err := NewLoader().Parse(data)
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func TestDump_EmptyMain(t *testing.T) {
	cfg := Config{Servers: map[string]backend.Backend{
		"rs": &backend.Generic{URL: backend.MustParseURL("https://paste.rs/")},
	}}

	data, err := Dump(cfg)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "main")

	again, err := NewLoader().Parse(data)
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func TestDumpServer(t *testing.T) {
	b := &backend.Fiche{Domain: "termbin.com", Port: 9999}

	data, err := DumpServer("tb", b)
	require.NoError(t, err)

	cfg, err := NewLoader().Parse(data)
	require.NoError(t, err)
	assert.Equal(t, map[string]backend.Backend{"tb": b}, cfg.Servers)
}

func TestDefault(t *testing.T) {
	cfg := Default()

	require.NotNil(t, cfg.Main.Server)
	assert.Equal(t, "paste_rs", *cfg.Main.Server)
	assert.Nil(t, cfg.Main.Histfile)
	assert.Contains(t, cfg.Servers, "paste_rs")
	assert.Equal(t, "https://paste.rs/", cfg.Servers["paste_rs"].(*backend.Generic).URL.String())
	assert.Equal(t, &backend.Fiche{Domain: "termbin.com", Port: 9999}, cfg.Servers["termbin"])
}

func TestConfig_ServerNames(t *testing.T) {
	cfg, err := NewLoader().Parse([]byte(fullConfig))
	require.NoError(t, err)

	names := cfg.ServerNames()
	assert.Len(t, names, 14)
	assert.IsIncreasing(t, names)
}

func TestChooseFile(t *testing.T) {
	t.Run("clear selects defaults", func(t *testing.T) {
		path, err := ChooseFile(domain.Clear[string]())
		require.NoError(t, err)
		assert.Empty(t, path)
	})

	t.Run("explicit existing file", func(t *testing.T) {
		want := writeConfig(t, "")
		path, err := ChooseFile(domain.SetTo(want))
		require.NoError(t, err)
		assert.Equal(t, want, path)
	})

	t.Run("explicit missing file", func(t *testing.T) {
		missing := filepath.Join(t.TempDir(), "nope.toml")
		_, err := ChooseFile(domain.SetTo(missing))

		var cfgErr *domain.ConfigError
		require.True(t, errors.As(err, &cfgErr))
		assert.Equal(t, missing, cfgErr.Path)
		assert.ErrorContains(t, err, "config file not found")
	})

	t.Run("xdg config home", func(t *testing.T) {
		xdg := t.TempDir()
		t.Setenv("XDG_CONFIG_HOME", xdg)
		want := filepath.Join(xdg, AppName, ConfigFileName)
		require.NoError(t, os.MkdirAll(filepath.Dir(want), 0750))
		require.NoError(t, os.WriteFile(want, nil, 0600))

		path, err := ChooseFile(domain.Unset[string]())
		require.NoError(t, err)
		assert.Equal(t, want, path)
	})

	t.Run("home fallback", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("XDG_CONFIG_HOME", "")
		t.Setenv("HOME", home)
		want := filepath.Join(home, ".config", AppName, ConfigFileName)
		require.NoError(t, os.MkdirAll(filepath.Dir(want), 0750))
		require.NoError(t, os.WriteFile(want, nil, 0600))

		path, err := ChooseFile(domain.Unset[string]())
		require.NoError(t, err)
		assert.Equal(t, want, path)
	})

	t.Run("no default file", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", t.TempDir())

		path, err := ChooseFile(domain.Unset[string]())
		require.NoError(t, err)
		assert.Empty(t, path)
	})
}

func TestLoader_Load(t *testing.T) {
	t.Run("explicit file", func(t *testing.T) {
		path := writeConfig(t, fullConfig)

		cfg, used, err := NewLoader().Load(domain.SetTo(path))
		require.NoError(t, err)
		assert.Equal(t, path, used)
		assert.Len(t, cfg.Servers, 14)
	})

	t.Run("loaded file replaces defaults entirely", func(t *testing.T) {
		path := writeConfig(t, "[servers.only]\nbackend = \"generic\"\nurl = \"https://paste.rs/\"\n")

		cfg, _, err := NewLoader().Load(domain.SetTo(path))
		require.NoError(t, err)
		assert.Equal(t, []string{"only"}, cfg.ServerNames())
		assert.Nil(t, cfg.Main.Server)
	})

	t.Run("cleared uses defaults", func(t *testing.T) {
		cfg, used, err := NewLoader().Load(domain.Clear[string]())
		require.NoError(t, err)
		assert.Empty(t, used)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("invalid file", func(t *testing.T) {
		path := writeConfig(t, "[servers.rs]\nbackend = \"generic\"\n")

		_, _, err := NewLoader().Load(domain.SetTo(path))
		var cfgErr *domain.ConfigError
		require.True(t, errors.As(err, &cfgErr))
		assert.Equal(t, path, cfgErr.Path)
	})
}

func TestDefaultConfigDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	dir, err := DefaultConfigDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/xdg", AppName), dir)
}

func TestDefaultConfigPath(t *testing.T) {
	path, err := DefaultConfigPath()
	require.NoError(t, err)
	assert.NotEmpty(t, path)
	assert.Contains(t, path, ConfigFileName)
}
