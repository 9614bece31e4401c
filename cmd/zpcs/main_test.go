package main

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zpcs/internal/devserver"
	"zpcs/internal/infra"
)

type harness struct {
	cfg    *infra.Config
	server *devserver.Server
	stdout bytes.Buffer
	stderr bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	srv := devserver.New()
	ts := httptest.NewServer(srv.Router(devserver.RouterConfig{}))
	t.Cleanup(ts.Close)
	return &harness{
		cfg: &infra.Config{
			APIBaseURL:      ts.URL,
			HTTPTimeout:     5 * time.Second,
			OptionsCacheTTL: time.Minute,
			DownloadDir:     t.TempDir(),
		},
		server: srv,
	}
}

func (h *harness) run(args ...string) int {
	h.stdout.Reset()
	h.stderr.Reset()
	return run(context.Background(), args, h.cfg, zerolog.New(io.Discard), &h.stdout, &h.stderr)
}

func TestRunWithoutCommand(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, exitUsage, h.run())
	assert.Contains(t, h.stderr.String(), "commands:")
	assert.Equal(t, exitUsage, h.run("paint"))
	assert.Contains(t, h.stderr.String(), `unknown command "paint"`)
}

func TestGenerateAndSave(t *testing.T) {
	h := newHarness(t)
	code := h.run("generate", "-style", "cinematic", "-save", "-name", "cat.png", "a", "cat")
	require.Equal(t, exitOK, code, h.stderr.String())

	lines := strings.Split(strings.TrimSpace(h.stdout.String()), "\n")
	require.Len(t, lines, 2)
	fields := strings.Split(lines[0], "\t")
	require.Len(t, fields, 4)
	assert.Equal(t, "a cat, cinematic", fields[3])
	assert.Equal(t, filepath.Join(h.cfg.DownloadDir, "cat.png"), lines[1])

	data, err := os.ReadFile(lines[1])
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))
	assert.Equal(t, 1, h.server.Len())
}

func TestGenerateRejectsBlankSubject(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, exitFailure, h.run("generate", "-subject", "   "))
	assert.Contains(t, h.stderr.String(), "subject")
	assert.Equal(t, 0, h.server.Len())
}

func TestGenerateUnknownOptionIsRejectedBeforeDispatch(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, exitFailure, h.run("generate", "-lens", "tilt_shift", "a cat"))
	assert.Contains(t, h.stderr.String(), "lensEffect")
	assert.Equal(t, 0, h.server.Len())
}

func TestGenerateWithPreset(t *testing.T) {
	h := newHarness(t)
	preset := filepath.Join(t.TempDir(), "noir.yaml")
	require.NoError(t, os.WriteFile(preset, []byte("aestheticStyle: CINEMATIC\ncolorPalette: HIGH_CONTRAST_BW\n"), 0o644))

	code := h.run("generate", "-preset", preset, "-palette", "sepia", "-json", "a", "street")
	require.Equal(t, exitOK, code, h.stderr.String())
	assert.Contains(t, h.stdout.String(), `"prompt": "a street, cinematic, sepia"`)
}

func TestEditNeedsImage(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, exitUsage, h.run("edit", "make it blue"))

	img := filepath.Join(t.TempDir(), "src.txt")
	require.NoError(t, os.WriteFile(img, []byte("x"), 0o644))
	assert.Equal(t, exitFailure, h.run("edit", "-image", img, "make it blue"))
	assert.Contains(t, h.stderr.String(), "unsupported image format")
}

func TestOptionsCheck(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, exitOK, h.run("options", "-check"), h.stderr.String())
	assert.Contains(t, h.stdout.String(), "options match")

	require.Equal(t, exitOK, h.run("options"))
	assert.Contains(t, h.stdout.String(), "RATIO_16_9")
	assert.Contains(t, h.stdout.String(), "[16:9]")
}

func TestGalleryDeleteDownload(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, exitOK, h.run("generate", "a cat"), h.stderr.String())
	id := strings.Split(h.stdout.String(), "\t")[0]

	require.Equal(t, exitOK, h.run("gallery"))
	assert.Contains(t, h.stdout.String(), id)
	assert.Contains(t, h.stdout.String(), "page 1/1, 1 images")

	require.Equal(t, exitOK, h.run("download", id))
	saved := strings.TrimSpace(h.stdout.String())
	assert.True(t, strings.HasPrefix(filepath.Base(saved), "zpcs-"))
	assert.FileExists(t, saved)

	require.Equal(t, exitOK, h.run("delete", "-id", id))
	assert.Equal(t, exitFailure, h.run("delete", id))
	assert.Contains(t, h.stderr.String(), "not found")
	assert.Equal(t, exitUsage, h.run("download"))
}

func TestExportGallery(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, exitFailure, h.run("export"))

	for _, subject := range []string{"one", "two"} {
		require.Equal(t, exitOK, h.run("generate", subject), h.stderr.String())
	}
	require.Equal(t, exitOK, h.run("export", "-name", "out.zip"), h.stderr.String())

	zr, err := zip.OpenReader(filepath.Join(h.cfg.DownloadDir, "out.zip"))
	require.NoError(t, err)
	defer zr.Close()
	assert.Len(t, zr.File, 3)
}
