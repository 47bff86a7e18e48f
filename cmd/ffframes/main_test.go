//go:build !ios && !android && (amd64 || arm64)

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/obinnaokechukwu/ffframes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
	"go.uber.org/goleak"
)

// run executes the command line args and returns what it printed.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &errOut
	app.ExitErrHandler = func(*cli.Context, error) {}

	err := app.Run(append([]string{"ffframes"}, args...))
	t.Logf("stderr:\n%s", errOut.String())
	return out.String(), err
}

// video renders a short test pattern with the ffmpeg CLI.
func video(t *testing.T, name string, width, height int) string {
	t.Helper()
	if err := ffframes.Init(); err != nil {
		t.Skipf("FFmpeg not available: %v", err)
	}
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg CLI not available")
	}

	out := filepath.Join(t.TempDir(), name)
	src := fmt.Sprintf("testsrc=duration=0.4:size=%dx%d:rate=25", width, height)
	cmd := exec.Command("ffmpeg", "-y", "-loglevel", "error",
		"-f", "lavfi", "-i", src, "-c:v", "mpeg4", "-pix_fmt", "yuv420p", out)
	if msg, err := cmd.CombinedOutput(); err != nil {
		t.Skipf("ffmpeg failed: %v: %s", err, msg)
	}
	return out
}

func listFrames(t *testing.T, dir string) []string {
	t.Helper()
	names, err := filepath.Glob(filepath.Join(dir, "*", "frame_*"))
	require.NoError(t, err)
	return names
}

func TestNoInputs(t *testing.T) {
	_, err := run(t, "probe")
	assert.Error(t, err)
	_, err = run(t, "extract")
	assert.Error(t, err)
}

func TestProbeText(t *testing.T) {
	path := video(t, "clip.mp4", 160, 120)

	out, err := run(t, "probe", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)
	assert.Contains(t, out, "160x120")
	assert.Contains(t, out, "mpeg4")
}

func TestProbeJSON(t *testing.T) {
	a := video(t, "a.mp4", 160, 120)
	b := video(t, "b.mkv", 64, 48)

	out, err := run(t, "--log-level", "debug", "probe", "--json", a, b)
	require.NoError(t, err)

	var infos []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &infos))
	require.Len(t, infos, 2)
	assert.Equal(t, a, infos[0]["filename"])
	assert.EqualValues(t, 160, infos[0]["width"])
	assert.EqualValues(t, 48, infos[1]["height"])
	assert.Equal(t, "mpeg4", infos[1]["codec"])
}

func TestProbeMissingFile(t *testing.T) {
	if err := ffframes.Init(); err != nil {
		t.Skipf("FFmpeg not available: %v", err)
	}
	_, err := run(t, "probe", filepath.Join(t.TempDir(), "missing.mp4"))
	assert.ErrorIs(t, err, ffframes.ErrOpen)
}

func TestExtract(t *testing.T) {
	path := video(t, "clip.mp4", 160, 120)
	dir := t.TempDir()

	out, err := run(t, "extract", "-o", dir, "--format", "ppm", "--every", "2", "--max", "3", path)
	require.NoError(t, err)
	assert.Contains(t, out, path+": 3 frames")

	frames := listFrames(t, dir)
	require.Len(t, frames, 3)
	assert.Equal(t, "frame_000000.ppm", filepath.Base(frames[0]))
	assert.Equal(t, "frame_000002.ppm", filepath.Base(frames[1]))
	assert.Equal(t, "frame_000004.ppm", filepath.Base(frames[2]))

	data, err := os.ReadFile(frames[0])
	require.NoError(t, err)
	header := []byte("P6\n160 120\n255\n")
	require.True(t, bytes.HasPrefix(data, header))
	assert.Len(t, data, len(header)+160*120*3)
}

func TestExtractResized(t *testing.T) {
	path := video(t, "clip.mp4", 160, 120)
	dir := t.TempDir()

	_, err := run(t, "extract", "-o", dir, "--format", "ppm", "--width", "32", "--height", "24", "--max", "1", path)
	require.NoError(t, err)

	frames := listFrames(t, dir)
	require.Len(t, frames, 1)
	data, err := os.ReadFile(frames[0])
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("P6\n32 24\n255\n")))
}

func TestExtractConcurrentInputs(t *testing.T) {
	defer goleak.VerifyNone(t)

	inputs := []string{
		video(t, "one.mp4", 64, 48),
		video(t, "two.mp4", 96, 64),
		video(t, "three.mp4", 128, 96),
	}
	dir := t.TempDir()

	args := append([]string{"extract", "-o", dir, "-j", "3", "--format", "bmp"}, inputs...)
	out, err := run(t, args...)
	require.NoError(t, err)
	for _, in := range inputs {
		assert.Contains(t, out, in+": 10 frames")
	}
	assert.Len(t, listFrames(t, dir), 30)
}

func TestExtractSameBaseName(t *testing.T) {
	a := video(t, "clip.mp4", 64, 48)
	b := video(t, "clip.mp4", 96, 64)
	require.NotEqual(t, a, b)
	dir := t.TempDir()

	out, err := run(t, "extract", "-o", dir, "--format", "ppm", a, b)
	require.NoError(t, err)
	assert.Contains(t, out, a+": 10 frames")
	assert.Contains(t, out, b+": 10 frames")

	assert.Len(t, listFrames(t, dir), 20)
	dirs, err := filepath.Glob(filepath.Join(dir, "clip-*"))
	require.NoError(t, err)
	assert.Len(t, dirs, 2)
}

func TestExtractRejectsRepeatedInput(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, "extract", "-o", dir, "x/clip.mp4", "x/./clip.mp4")
	assert.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestExtractConfigFile(t *testing.T) {
	path := video(t, "clip.mp4", 64, 48)
	dir := t.TempDir()

	cfgPath := filepath.Join(t.TempDir(), "ffframes.yaml")
	cfg := fmt.Sprintf("extract:\n  output_dir: %s\n  format: tiff\n  max: 2\n", dir)
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o600))

	_, err := run(t, "--config", cfgPath, "extract", path)
	require.NoError(t, err)
	frames := listFrames(t, dir)
	require.Len(t, frames, 2)
	assert.Equal(t, ".tiff", filepath.Ext(frames[0]))

	// Flags win over the file.
	_, err = run(t, "--config", cfgPath, "extract", "--format", "png", "--max", "1", path)
	require.NoError(t, err)
	pngs, err := filepath.Glob(filepath.Join(dir, "*", "*.png"))
	require.NoError(t, err)
	assert.Len(t, pngs, 1)
}

func TestExtractEnv(t *testing.T) {
	path := video(t, "clip.mp4", 64, 48)
	dir := t.TempDir()
	t.Setenv("FFFRAMES_OUTPUT", dir)
	t.Setenv("FFFRAMES_FORMAT", "bmp")

	_, err := run(t, "extract", "--max", "1", path)
	require.NoError(t, err)
	frames := listFrames(t, dir)
	require.Len(t, frames, 1)
	assert.Equal(t, ".bmp", filepath.Ext(frames[0]))
}

func TestExtractRejectsBadSettings(t *testing.T) {
	tests := [][]string{
		{"extract", "--format", "gif", "x.mp4"},
		{"extract", "--every", "0", "x.mp4"},
		{"extract", "--width", "-5", "x.mp4"},
		{"extract", "--scale", "blurry", "x.mp4"},
	}
	for _, args := range tests {
		_, err := run(t, args...)
		assert.Error(t, err, "%v", args)
	}
}

func TestBadConfigFile(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("extract: [1, 2"), 0o600))

	_, err := run(t, "--config", cfgPath, "probe", "x.mp4")
	assert.Error(t, err)
}

func TestMetricsServer(t *testing.T) {
	path := video(t, "clip.mp4", 64, 48)

	_, err := run(t, "--metrics-addr", "127.0.0.1:0", "probe", path)
	require.NoError(t, err)
}
