package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	outC := make(chan string)
	go func() {
		var buf bytes.Buffer
		io.Copy(&buf, r)
		outC <- buf.String()
	}()

	fn()

	w.Close()
	os.Stdout = old
	return <-outC
}

// execute runs the command tree with fresh flag state.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	configPath, dbPath, apiKey, logLevel = "", "", "", ""
	quiet, allowLocal = false, false
	historyLimit = 20

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return out.String(), err
}

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("GIFR_API_KEY", "")
	t.Setenv("GIPHY_API_KEY", "")
	t.Setenv("GIFR_API_ENDPOINT", "")
	return home
}

func TestVersionCommand(t *testing.T) {
	out := captureStdout(t, func() { versionCmd.Run(nil, nil) })

	assert.Contains(t, out, "gifr dev")
	assert.Contains(t, out, "GIF Topic Browser")
	assert.Contains(t, out, "github.com/pders01/gifr")
}

func TestGenerateConfigCommand(t *testing.T) {
	home := isolate(t)
	configPath = ""
	configFile := filepath.Join(home, ".config", "gifr", "config.toml")

	out := captureStdout(t, func() { configGenCmd.Run(nil, nil) })

	_, err := os.Stat(configFile)
	require.NoError(t, err, "config file was not created at %s", configFile)
	assert.Contains(t, out, "Generated default configuration at:")

	data, err := os.ReadFile(configFile)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "api_key")
}

func giphyServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("api_key") != "cli-key" {
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"meta":{"status":403,"msg":"Forbidden"}}`))
			return
		}
		q := r.URL.Query().Get("q")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[{"rating":"pg","images":{"original_still":{"url":"https://media.example/` + q + `_s.gif"},"original":{"url":"https://media.example/` + q + `.gif"}}}],"meta":{"status":200,"msg":"OK"}}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSearchCommandPrintsResults(t *testing.T) {
	home := isolate(t)
	srv := giphyServer(t)
	t.Setenv("GIFR_API_ENDPOINT", srv.URL)
	t.Setenv("GIFR_API_KEY", "cli-key")
	db := filepath.Join(home, "gifr.db")

	out, err := execute(t, "search", "kiwi", "--allow-local", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "PG\thttps://media.example/kiwi_s.gif\thttps://media.example/kiwi.gif")

	out, err = execute(t, "history", "--allow-local", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "kiwi")
}

func TestSearchCommandRejectsLocalEndpointByDefault(t *testing.T) {
	isolate(t)
	srv := giphyServer(t)
	t.Setenv("GIFR_API_ENDPOINT", srv.URL)
	t.Setenv("GIFR_API_KEY", "cli-key")

	_, err := execute(t, "search", "kiwi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api.endpoint")
}

func TestSearchCommandMissingKey(t *testing.T) {
	home := isolate(t)
	srv := giphyServer(t)
	t.Setenv("GIFR_API_ENDPOINT", srv.URL)

	_, err := execute(t, "search", "kiwi", "--allow-local", "--db", filepath.Join(home, "gifr.db"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GIFR_API_KEY")
}

func TestSearchCommandAPIKeyFlag(t *testing.T) {
	home := isolate(t)
	srv := giphyServer(t)
	t.Setenv("GIFR_API_ENDPOINT", srv.URL)

	out, err := execute(t, "search", "plum", "--allow-local", "--api-key", "cli-key", "--db", filepath.Join(home, "gifr.db"))
	require.NoError(t, err)
	assert.Contains(t, out, "plum.gif")
}

func TestTopicsAddAndList(t *testing.T) {
	home := isolate(t)
	db := filepath.Join(home, "gifr.db")

	out, err := execute(t, "topics", "add", "kiwi", "--allow-local", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "Added topic 'kiwi'")

	out, err = execute(t, "topics", "add", "", "--allow-local", "--db", db)
	require.NoError(t, err)
	assert.Empty(t, out)

	out, err = execute(t, "topics", "list", "--allow-local", "--db", db)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 6)
	assert.Contains(t, lines[0], "banana")
	assert.Contains(t, lines[5], "kiwi")
}

func TestHistoryEmpty(t *testing.T) {
	home := isolate(t)

	out, err := execute(t, "history", "--allow-local", "--db", filepath.Join(home, "gifr.db"))
	require.NoError(t, err)
	assert.Contains(t, out, "No searches yet")
}
