package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sharkusmanch/pc/internal/backend"
	"github.com/sharkusmanch/pc/internal/config"
	"github.com/sharkusmanch/pc/internal/domain"
)

// execute runs pc with args and returns what it wrote to stdout.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := cmd.Execute()
	return stdout.String(), err
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func pasteServer(t *testing.T, response string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestPaste(t *testing.T) {
	server := pasteServer(t, "https://paste.rs/abc\n")
	path := writeConfig(t, `
[servers.rs]
backend = "generic"
url = "`+server.URL+`/"
`)

	out, err := execute(t, "hello", "-c", path, "rs")
	require.NoError(t, err)
	assert.Equal(t, "https://paste.rs/abc\n", out)
}

func TestPaste_ServerNamedLikeSubcommand(t *testing.T) {
	server := pasteServer(t, "https://paste.rs/help\n")
	path := writeConfig(t, `
[servers.help]
backend = "generic"
url = "`+server.URL+`/"
`)

	out, err := execute(t, "hello", "-c", path, "--", "help")
	require.NoError(t, err)
	assert.Equal(t, "https://paste.rs/help\n", out)

	out, err = execute(t, "hello", "-c", path, "help")
	require.NoError(t, err)
	assert.NotContains(t, out, "https://paste.rs/help")
}

func TestPaste_BackendFlagsAfterServer(t *testing.T) {
	good := pasteServer(t, "https://good.example/1\n")
	path := writeConfig(t, `
[servers.rs]
backend = "generic"
url = "https://unreachable.invalid/"
`)

	out, err := execute(t, "hello", "--config", path, "rs", "-u", good.URL+"/")
	require.NoError(t, err)
	assert.Equal(t, "https://good.example/1\n", out)
}

func TestPaste_Histfile(t *testing.T) {
	server := pasteServer(t, "https://paste.rs/abc")
	histfile := filepath.Join(t.TempDir(), "history")
	path := writeConfig(t, `
[main]
histfile = "/nonexistent/dir/history"

[servers.rs]
backend = "generic"
url = "`+server.URL+`/"
`)

	_, err := execute(t, "hello", "-c", path, "-H", histfile)
	require.NoError(t, err)

	data, err := os.ReadFile(histfile)
	require.NoError(t, err)
	assert.Equal(t, "https://paste.rs/abc\n", string(data))

	_, err = execute(t, "hello", "-c", path, "-H", "NONE")
	require.NoError(t, err, "NONE disables the configured histfile")
}

func TestPaste_UnknownServer(t *testing.T) {
	path := writeConfig(t, `
[servers.rs]
backend = "generic"
url = "https://paste.rs/"
`)

	_, err := execute(t, "hello", "-c", path, "nosuchserver")

	var sel *domain.SelectionError
	require.True(t, errors.As(err, &sel))
	assert.Contains(t, err.Error(), "No corresponding server config for nosuchserver")
}

func TestPaste_MissingConfigFile(t *testing.T) {
	_, err := execute(t, "hello", "-c", filepath.Join(t.TempDir(), "missing.toml"))

	var cfgErr *domain.ConfigError
	assert.True(t, errors.As(err, &cfgErr))
}

func TestPaste_BackendHelp(t *testing.T) {
	path := writeConfig(t, `
[servers.tb]
backend = "fiche"
domain = "termbin.com"
`)

	out, err := execute(t, "", "-c", path, "tb", "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "[servers.tb]")
	assert.Contains(t, out, "termbin.com")
	assert.Contains(t, out, "Fiche backend")
	assert.Contains(t, out, "--port")
}

func TestPaste_BadBackendFlag(t *testing.T) {
	path := writeConfig(t, `
[servers.tb]
backend = "fiche"
domain = "termbin.com"
`)

	_, err := execute(t, "", "-c", path, "tb", "--url", "https://x.example/")

	var argErr *domain.ArgError
	require.True(t, errors.As(err, &argErr))
	assert.Equal(t, "tb", argErr.Server)
}

func TestList(t *testing.T) {
	path := writeConfig(t, `
[main]
server = "rs"

[servers.rs]
backend = "generic"
url = "https://paste.rs/"

[servers.tb]
backend = "fiche"
domain = "termbin.com"
`)

	out, err := execute(t, "", "-c", path, "list")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "* rs"))
	assert.Contains(t, lines[0], "generic | https://paste.rs/")
	assert.True(t, strings.HasPrefix(lines[1], "  tb"))
	assert.Contains(t, lines[1], "fiche | termbin.com:9999")
}

func TestListBackends(t *testing.T) {
	out, err := execute(t, "", "list-backends")
	require.NoError(t, err)
	assert.Equal(t, strings.Join(backend.Default.Names(), "\n")+"\n", out)
}

func TestShowBackend(t *testing.T) {
	out, err := execute(t, "", "show-backend", "onetimesecret")
	require.NoError(t, err)
	assert.Contains(t, out, "onetimesecret")
	assert.Contains(t, out, "-k, --api-key <apikey|NONE>")
	assert.Contains(t, out, "-t, --ttl <seconds>")

	_, err = execute(t, "", "show-backend", "nope")
	assert.EqualError(t, err, "nope is not a valid backend")
}

func TestDumpConfig(t *testing.T) {
	t.Run("defaults with NONE", func(t *testing.T) {
		out, err := execute(t, "", "-c", "NONE", "dump-config")
		require.NoError(t, err)

		cfg, err := config.NewLoader().Parse([]byte(out))
		require.NoError(t, err)
		assert.Equal(t, config.Default(), cfg)
	})

	t.Run("histfile override is included", func(t *testing.T) {
		out, err := execute(t, "", "-c", "NONE", "-H", "/tmp/pc_hist", "dump-config")
		require.NoError(t, err)

		cfg, err := config.NewLoader().Parse([]byte(out))
		require.NoError(t, err)
		require.NotNil(t, cfg.Main.Histfile)
		assert.Equal(t, "/tmp/pc_hist", *cfg.Main.Histfile)
	})

	t.Run("round trips a file", func(t *testing.T) {
		path := writeConfig(t, `
[main]
server = "ots"

[servers.ots]
backend = "onetimesecret"
url = "https://onetimesecret.com/"
ttl = 3600
username = "me"
api_key = "k"
`)
		out, err := execute(t, "", "-c", path, "dump-config")
		require.NoError(t, err)

		want, err := config.NewLoader().LoadFile(path)
		require.NoError(t, err)
		got, err := config.NewLoader().Parse([]byte(out))
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "pc "))

	out, err = execute(t, "", "version", "--json")
	require.NoError(t, err)

	var info map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Contains(t, info, "version")
	assert.Equal(t, "pc", info["name"])
}

func TestLogLevel(t *testing.T) {
	t.Run("invalid flag", func(t *testing.T) {
		_, err := execute(t, "", "--log-level", "loud", "list-backends")
		assert.ErrorContains(t, err, "log level must be one of")
	})

	t.Run("invalid env", func(t *testing.T) {
		t.Setenv("PC_LOG_LEVEL", "loud")
		_, err := execute(t, "", "list-backends")
		assert.ErrorContains(t, err, "log level must be one of")
	})

	t.Run("log file", func(t *testing.T) {
		logFile := filepath.Join(t.TempDir(), "logs", "pc.log")
		_, err := execute(t, "", "--log-level", "debug", "--log-file", logFile, "-c", "NONE", "list")
		require.NoError(t, err)

		data, err := os.ReadFile(logFile)
		require.NoError(t, err)
		assert.Contains(t, string(data), "level=DEBUG")
	})
}
