package main

import (
	"bytes"
	"context"
	"image/png"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/gogpu/bottleclip"
	"github.com/gogpu/bottleclip/server"
)

// repoRoot holds the bundled logos.
const repoRoot = "../.."

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(func() { bottleclip.SetLogger(nil) })

	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestPresetsCommand(t *testing.T) {
	out, err := run(t, "presets")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "NAME"))
	assert.Contains(t, lines[3], "steinie")
	assert.Contains(t, lines[3], "17.5")
	assert.True(t, strings.HasSuffix(lines[3], "no"))
}

func TestSCADCommand(t *testing.T) {
	out, err := run(t, "scad", "--dir", repoRoot, "--name", "Ada", "--segments", "16")
	require.NoError(t, err)
	assert.Contains(t, out, `// bottle clip "Ada"`)
	assert.Contains(t, out, "$fn = 16;")
	assert.Contains(t, out, `color("white")`)
	assert.NotContains(t, out, "import(")
}

func TestSCADCommandKeepImports(t *testing.T) {
	file := filepath.Join(t.TempDir(), "ada.scad")
	_, err := run(t, "scad", "--dir", repoRoot, "--name", "Ada", "--keep-imports", "-o", file)
	require.NoError(t, err)

	src, err := os.ReadFile(file)
	require.NoError(t, err)
	root, err := filepath.Abs(repoRoot)
	require.NoError(t, err)
	assert.Contains(t, string(src), `import("`+filepath.ToSlash(filepath.Join(root, bottleclip.DefaultLogo))+`");`)
}

func TestSCADCommandPreset(t *testing.T) {
	out, err := run(t, "scad", "--preset", "steinie", "--name", "Ada")
	require.NoError(t, err)
	assert.Contains(t, out, "cylinder(h = 13, r1 = 20, r2 = 15.5);")

	_, err = run(t, "scad", "--preset", "magnum")
	assert.ErrorContains(t, err, "magnum")
}

func TestExportCommandNoRender(t *testing.T) {
	dir := t.TempDir()
	out, err := run(t, "export", "--dir", repoRoot, "--name", "Ada", "--out", dir, "--no-render", "--text-color", "navy")
	require.NoError(t, err)

	for _, name := range []string{"ada-white.scad", "ada-navy.scad"} {
		assert.FileExists(t, filepath.Join(dir, name))
		assert.Contains(t, out, name)
	}
	assert.Contains(t, out, "navy\t")
}

func TestExportCommandJob(t *testing.T) {
	dir := t.TempDir()
	job := filepath.Join(dir, "job.yaml")
	require.NoError(t, os.WriteFile(job, []byte("preset: steinie\nsegments: 24\nnames: [Ada, Grace]\n"), 0o600))

	outDir := filepath.Join(dir, "labels")
	_, err := run(t, "export", "--dir", repoRoot, "--job", job, "--out", outDir, "--no-render")
	require.NoError(t, err)

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"ada-white.scad", "ada-black.scad", "grace-white.scad", "grace-black.scad"}, names)

	src, err := os.ReadFile(filepath.Join(outDir, "grace-white.scad"))
	require.NoError(t, err)
	assert.Contains(t, string(src), "$fn = 24;")
}

func TestExportCommandRendererMissing(t *testing.T) {
	_, err := run(t, "export", "--dir", repoRoot, "--out", t.TempDir(), "--openscad", "no-such-openscad-binary")
	assert.Error(t, err)
}

func TestPreviewCommand(t *testing.T) {
	file := filepath.Join(t.TempDir(), "ada.png")
	out, err := run(t, "preview", "--dir", repoRoot, "--name", "Ada", "--logo", "", "--px", "0.5", "-o", file)
	require.NoError(t, err)
	assert.Equal(t, file+"\n", out)

	f, err := os.Open(file)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Greater(t, img.Bounds().Dx(), 50)
}

func TestLogLevel(t *testing.T) {
	_, err := run(t, "presets", "--log-level", "loud")
	assert.ErrorContains(t, err, "loud")

	_, err = run(t, "presets", "--log-level", "debug")
	assert.NoError(t, err)
}

func TestLoggerRenamesErrorKey(t *testing.T) {
	var buf bytes.Buffer
	l, err := newLogger(&buf, "info")
	require.NoError(t, err)

	l.Debug("hidden")
	l.Warn("export failed", "error", io.EOF)
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "err=EOF")
	assert.NotContains(t, buf.String(), "error=")
}

func TestServe(t *testing.T) {
	defer goleak.VerifyNone(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- serve(ctx, ln, server.NewHandler(server.Options{Dir: repoRoot}))
	}()

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get("http://" + ln.Addr().String() + "/presets")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "longneck")
	client.CloseIdleConnections()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("serve did not return")
	}
}
