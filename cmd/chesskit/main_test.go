package main

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chesskit/pkg/config"
	"chesskit/pkg/openings"
	"chesskit/pkg/ui"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	var buf bytes.Buffer
	ui.SetOutput(&buf)
	t.Cleanup(func() { ui.SetOutput(nil) })

	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestDiagramsCommand(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")

	out, err := run(t, "diagrams", "--output", dir, "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "5/5 diagrams generated")

	for _, o := range openings.Defaults() {
		assert.FileExists(t, filepath.Join(dir, o.Name+".svg"))
		assert.FileExists(t, filepath.Join(dir, o.Name+".png"))
	}

	_, err = run(t, "diagrams", "--output", dir, "--policy", "fail-if-exists", "--log-level", "error")
	assert.Error(t, err)
}

func TestDownloadRejectsMalformedDates(t *testing.T) {
	_, err := run(t, "download", "hikaru", "--start-date", "2023/01")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "start date")
	startDate = ""
}

func TestDownloadCommand(t *testing.T) {
	mux := http.NewServeMux()
	var server *httptest.Server
	mux.HandleFunc("/pub/player/tester", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"username":"tester"}`))
	})
	mux.HandleFunc("/pub/player/tester/games/archives", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"archives":["%s/pub/player/tester/games/2023/05"]}`, server.URL)
	})
	mux.HandleFunc("/pub/player/tester/games/2023/05", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"games":[{"pgn":"a"},{"pgn":"b"},{"pgn":"c"}]}`))
	})
	mux.HandleFunc("/pub/player/priv", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	server = httptest.NewServer(mux)
	defer server.Close()

	t.Setenv("CHESSKIT_API_BASE_URL", server.URL)
	t.Setenv("CHESSKIT_MAX_RETRIES", "0")
	t.Setenv("CHESSKIT_RATE_LIMIT_INTERVAL", "0s")

	t.Run("saves the month and reports the total", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "games")

		out, err := run(t, "download", "tester", "-o", dir, "--log-level", "error")
		require.NoError(t, err)
		assert.Contains(t, out, "Download complete! Total games downloaded: 3")

		data, err := os.ReadFile(filepath.Join(dir, "2023-05.pgn"))
		require.NoError(t, err)
		assert.Equal(t, "a\n\nb\n\nc\n\n", string(data))
	})

	t.Run("private account fails without writing", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "games")

		out, err := run(t, "download", "priv", "-o", dir, "--log-level", "error")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "private")
		assert.NotContains(t, out, "Download complete")
		assert.NoDirExists(t, dir)
	})
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chesskit.yaml")

	_, err := run(t, "config", "init", "--config", path)
	require.NoError(t, err)

	cfg := config.DefaultConfig()
	require.NoError(t, cfg.LoadFromFile(path))
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, config.DefaultConfig().API, cfg.API)
	assert.Equal(t, config.DefaultConfig().Diagrams, cfg.Diagrams)

	_, err = run(t, "config", "init", "--config", path)
	assert.Error(t, err)

	_, err = run(t, "config", "validate", "--config", path)
	assert.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("diagrams:\n  size: 401\n"), 0644))
	_, err = run(t, "config", "validate", "--config", path)
	assert.Error(t, err)
	configFile = ""
}
