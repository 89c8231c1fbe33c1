package main

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bodgit/pxlsdump"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testInfo = `{"canvasCode":"80a","width":2,"height":1,"palette":[{"value":"#000000"},{"value":"#FFFFFF"}]}`

func newServer(t *testing.T, boardData []byte) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/info", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(testInfo))
	})
	mux.HandleFunc("/boarddata", func(w http.ResponseWriter, r *http.Request) {
		w.Write(boardData)
	})

	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)

	return ts
}

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()

	out := new(bytes.Buffer)
	app := newApp()
	app.Writer = out

	err := app.Run(append([]string{"pxlsdump"}, args...))

	return out.String(), err
}

func TestDownload(t *testing.T) {
	ts := newServer(t, []byte{0, 255})
	dir := t.TempDir()
	db := filepath.Join(dir, "history.db")

	out, err := runApp(t,
		"--info-url", ts.URL+"/info",
		"--board-url", ts.URL+"/boarddata",
		"--path", filepath.Join(dir, "canvas.png"),
		"-c",
		"--db", db,
	)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "canvas-80a.png")+"\n", out)

	_, err = os.Stat(filepath.Join(dir, "canvas-80a.png"))
	assert.NoError(t, err)

	out, err = runApp(t, "--db", db, "history")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "80a")
	assert.Contains(t, lines[1], "2x1")
	assert.Contains(t, lines[1], "canvas-80a.png")
}

func TestDownloadConfigFile(t *testing.T) {
	ts := newServer(t, []byte{1, 1})
	dir := t.TempDir()

	cfg := filepath.Join(dir, "pxlsdump.yml")
	require.NoError(t, os.WriteFile(cfg, []byte(
		"info_url: "+ts.URL+"/info\n"+
			"board_url: "+ts.URL+"/boarddata\n"+
			"path: "+filepath.Join(dir, "ignored.png")+"\n"+
			"tag_filename: true\n"), 0o644))

	// The flag wins over the file
	out, err := runApp(t, "--config", cfg, "--path", filepath.Join(dir, "canvas.png"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "canvas-80a.png")+"\n", out)
}

func TestDownloadFailure(t *testing.T) {
	ts := newServer(t, []byte{0, 7})
	dir := t.TempDir()

	_, err := runApp(t,
		"--info-url", ts.URL+"/info",
		"--board-url", ts.URL+"/boarddata",
		"--path", filepath.Join(dir, "canvas.png"),
	)
	require.Error(t, err)

	var e *pxlsdump.Error
	require.True(t, errors.As(err, &e), "got %v", err)
	assert.Equal(t, pxlsdump.StageMap, e.Stage)
	assert.Equal(t, 1+int(pxlsdump.StageMap), pxlsdump.ExitCode(err))

	_, err = os.Stat(filepath.Join(dir, "canvas.png"))
	assert.True(t, os.IsNotExist(err))
}

func TestRender(t *testing.T) {
	dir := t.TempDir()

	infoFile := filepath.Join(dir, "info.json")
	require.NoError(t, os.WriteFile(infoFile, []byte(testInfo), 0o644))
	boardFile := filepath.Join(dir, "boarddata")
	require.NoError(t, os.WriteFile(boardFile, []byte{1, 0}, 0o644))

	out, err := runApp(t, "--path", filepath.Join(dir, "out.png"), "render", infoFile, boardFile)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "out.png")+"\n", out)
}

func TestHistoryWithoutDB(t *testing.T) {
	_, err := runApp(t, "history")
	assert.Error(t, err)
	assert.Equal(t, 1, pxlsdump.ExitCode(err))
}

func TestInvalidTimeout(t *testing.T) {
	_, err := runApp(t, "--timeout", "0s")
	assert.Error(t, err)
}
