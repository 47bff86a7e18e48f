//go:build !ios && !android && (amd64 || arm64)

package shim

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/obinnaokechukwu/ffframes/internal/platform"
)

func TestFindShimLibraryRespectsDirEnv(t *testing.T) {
	names := platform.ShimLibraryNames()
	if len(names) == 0 {
		t.Skip("unsupported OS for this test")
	}

	dir := t.TempDir()
	fake := filepath.Join(dir, names[0])
	if err := os.WriteFile(fake, []byte("not a real shim"), 0o644); err != nil {
		t.Fatalf("write fake shim: %v", err)
	}
	t.Setenv(DirEnv, dir)

	got, err := findShimLibrary()
	if err != nil {
		t.Fatalf("findShimLibrary error: %v", err)
	}
	if got != fake {
		t.Fatalf("expected %q, got %q", fake, got)
	}
}

func TestFindShimLibraryDirEnvNotFound(t *testing.T) {
	t.Setenv(DirEnv, t.TempDir())

	_, err := findShimLibrary()
	if !errors.Is(err, ErrShimNotFound) {
		t.Fatalf("expected ErrShimNotFound, got %v", err)
	}
	if !strings.Contains(err.Error(), DirEnv) {
		t.Errorf("error should mention %s: %v", DirEnv, err)
	}
}

func TestNilContextHelpers(t *testing.T) {
	if w, err := CodecCtxWidth(nil); w != 0 || err != nil {
		t.Errorf("CodecCtxWidth(nil) = %d, %v", w, err)
	}
	if h, err := CodecCtxHeight(nil); h != 0 || err != nil {
		t.Errorf("CodecCtxHeight(nil) = %d, %v", h, err)
	}
	if f, err := CodecCtxPixFmt(nil); f != -1 || err != nil {
		t.Errorf("CodecCtxPixFmt(nil) = %d, %v", f, err)
	}
	if err := CodecCtxSetTimeBase(nil, 1, 25); err != nil {
		t.Errorf("CodecCtxSetTimeBase(nil) = %v", err)
	}
}

func TestLoadIsOptional(t *testing.T) {
	if err := Load(); err != nil {
		t.Fatalf("Load should never fail, got %v", err)
	}
	if IsLoaded() {
		t.Logf("shim loaded from %s", Path())
		return
	}
	if LoadError() == nil {
		t.Error("LoadError should explain a missing shim")
	}
	if err := SetLogCallback(0); !errors.Is(err, ErrShimNotLoaded) {
		t.Errorf("SetLogCallback without shim = %v, want ErrShimNotLoaded", err)
	}
}
