//go:build !ios && !android && (amd64 || arm64)

// Package shim binds the optional ffshim helper library.
//
// The shim wraps the parts of FFmpeg purego cannot reach directly: the
// va_list log callback and a few AVCodecContext fields whose offsets move
// between releases. Decoding works without it; only log forwarding is lost
// and field reads fall back to AVOptions and known offsets.
//
// The shim is looked up next to the FFmpeg libraries, or only in
// FFFRAMES_SHIM_DIR when that is set.
package shim

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
	"github.com/obinnaokechukwu/ffframes/internal/platform"
)

// ErrShimNotLoaded is returned when shim functions are called but the shim is not available.
var ErrShimNotLoaded = errors.New("ffframes: shim library not loaded")

// ErrShimNotFound is returned when the shim library cannot be found.
var ErrShimNotFound = errors.New("ffframes: shim library not found")

// DirEnv names a directory that must contain the shim. When set, no other
// location is searched.
const DirEnv = "FFFRAMES_SHIM_DIR"

var (
	libShim  uintptr
	loaded   bool
	loadErr  error
	loadMu   sync.Mutex
	shimPath string

	shimLogSetCallback func(cb uintptr)
	shimLogSetLevel    func(level int32)

	shimCodecCtxWidth       func(ctx uintptr) int32
	shimCodecCtxHeight      func(ctx uintptr) int32
	shimCodecCtxPixFmt      func(ctx uintptr) int32
	shimCodecCtxTimeBase    func(ctx uintptr, outNum, outDen *int32)
	shimCodecCtxSetTimeBase func(ctx uintptr, num, den int32)

	shimFormatCtxDuration func(ctx uintptr) int64
	shimFormatCtxBitRate  func(ctx uintptr) int64
)

// Load attempts to load the ffshim library. A missing shim is not an
// error; LoadError reports why it was not found.
func Load() error {
	loadMu.Lock()
	defer loadMu.Unlock()

	if loaded || loadErr != nil {
		return nil
	}

	path, err := findShimLibrary()
	if err != nil {
		loadErr = err
		return nil
	}

	lib, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		loadErr = fmt.Errorf("failed to load shim at %s: %w", path, err)
		return nil
	}

	libShim = lib
	shimPath = path
	registerBindings()
	loaded = true
	return nil
}

// IsLoaded returns true if the shim library was successfully loaded.
func IsLoaded() bool {
	loadMu.Lock()
	defer loadMu.Unlock()
	return loaded
}

// Path returns the path where the shim was loaded from, or empty string if not loaded.
func Path() string {
	loadMu.Lock()
	defer loadMu.Unlock()
	return shimPath
}

// LoadError returns why the shim is unavailable, or nil.
func LoadError() error {
	loadMu.Lock()
	defer loadMu.Unlock()
	return loadErr
}

func registerBindings() {
	// Partial shim builds exist; every symbol is optional.
	register := func(fptr any, name string) {
		defer func() { _ = recover() }()
		purego.RegisterLibFunc(fptr, libShim, name)
	}

	register(&shimLogSetCallback, "ffshim_log_set_callback")
	register(&shimLogSetLevel, "ffshim_log_set_level")

	register(&shimCodecCtxWidth, "ffshim_codecctx_width")
	register(&shimCodecCtxHeight, "ffshim_codecctx_height")
	register(&shimCodecCtxPixFmt, "ffshim_codecctx_pix_fmt")
	register(&shimCodecCtxTimeBase, "ffshim_codecctx_time_base")
	register(&shimCodecCtxSetTimeBase, "ffshim_codecctx_set_time_base")

	register(&shimFormatCtxDuration, "ffshim_formatctx_duration")
	register(&shimFormatCtxBitRate, "ffshim_formatctx_bit_rate")
}

// SetLogCallback installs cb, a purego callback, as FFmpeg's log callback.
func SetLogCallback(cb uintptr) error {
	if !loaded || shimLogSetCallback == nil {
		return fmt.Errorf("%w: log forwarding unavailable", ErrShimNotLoaded)
	}
	shimLogSetCallback(cb)
	return nil
}

// SetLogLevel sets the level below which the shim drops messages before
// calling back into Go.
func SetLogLevel(level int32) error {
	if !loaded || shimLogSetLevel == nil {
		return ErrShimNotLoaded
	}
	shimLogSetLevel(level)
	return nil
}

func CodecCtxWidth(ctx unsafe.Pointer) (int32, error) {
	if ctx == nil {
		return 0, nil
	}
	if !loaded || shimCodecCtxWidth == nil {
		return 0, ErrShimNotLoaded
	}
	return shimCodecCtxWidth(uintptr(ctx)), nil
}

func CodecCtxHeight(ctx unsafe.Pointer) (int32, error) {
	if ctx == nil {
		return 0, nil
	}
	if !loaded || shimCodecCtxHeight == nil {
		return 0, ErrShimNotLoaded
	}
	return shimCodecCtxHeight(uintptr(ctx)), nil
}

func CodecCtxPixFmt(ctx unsafe.Pointer) (int32, error) {
	if ctx == nil {
		return -1, nil
	}
	if !loaded || shimCodecCtxPixFmt == nil {
		return 0, ErrShimNotLoaded
	}
	return shimCodecCtxPixFmt(uintptr(ctx)), nil
}

func CodecCtxTimeBase(ctx unsafe.Pointer) (num, den int32, err error) {
	if ctx == nil {
		return 0, 0, nil
	}
	if !loaded || shimCodecCtxTimeBase == nil {
		return 0, 0, ErrShimNotLoaded
	}
	shimCodecCtxTimeBase(uintptr(ctx), &num, &den)
	return num, den, nil
}

func CodecCtxSetTimeBase(ctx unsafe.Pointer, num, den int32) error {
	if ctx == nil {
		return nil
	}
	if !loaded || shimCodecCtxSetTimeBase == nil {
		return ErrShimNotLoaded
	}
	shimCodecCtxSetTimeBase(uintptr(ctx), num, den)
	return nil
}

func FormatCtxDuration(ctx unsafe.Pointer) (int64, error) {
	if ctx == nil {
		return 0, nil
	}
	if !loaded || shimFormatCtxDuration == nil {
		return 0, ErrShimNotLoaded
	}
	return shimFormatCtxDuration(uintptr(ctx)), nil
}

func FormatCtxBitRate(ctx unsafe.Pointer) (int64, error) {
	if ctx == nil {
		return 0, nil
	}
	if !loaded || shimFormatCtxBitRate == nil {
		return 0, ErrShimNotLoaded
	}
	return shimFormatCtxBitRate(uintptr(ctx)), nil
}

// findShimLibrary looks for the shim library in standard locations.
func findShimLibrary() (string, error) {
	names := platform.ShimLibraryNames()
	if len(names) == 0 {
		return "", fmt.Errorf("%w: unsupported platform %s/%s", ErrShimNotFound, runtime.GOOS, runtime.GOARCH)
	}

	if dir := os.Getenv(DirEnv); dir != "" {
		for _, name := range names {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
		}
		return "", fmt.Errorf("%w: %s=%s does not contain %s", ErrShimNotFound, DirEnv, dir, names[0])
	}

	searched := searchPaths()
	for _, dir := range searched {
		for _, name := range names {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
		}
	}

	return "", fmt.Errorf("%w: %s not in %v", ErrShimNotFound, names[0], searched)
}

func searchPaths() []string {
	var paths []string

	envVar := "LD_LIBRARY_PATH"
	switch runtime.GOOS {
	case "darwin":
		envVar = "DYLD_LIBRARY_PATH"
	case "windows":
		envVar = "PATH"
	}
	if v := os.Getenv(envVar); v != "" {
		paths = append(paths, filepath.SplitList(v)...)
	}

	if runtime.GOOS != "windows" {
		paths = append(paths, "/usr/local/lib", "/usr/lib")
	}
	if runtime.GOOS == "darwin" {
		paths = append(paths, "/opt/homebrew/lib")
	}

	if exe, err := os.Executable(); err == nil {
		paths = append(paths, filepath.Dir(exe))
	}
	if _, file, _, ok := runtime.Caller(0); ok {
		// internal/shim/shim.go -> module root
		root := filepath.Dir(filepath.Dir(filepath.Dir(file)))
		paths = append(paths,
			filepath.Join(root, "shim", "prebuilt", runtime.GOOS+"-"+runtime.GOARCH),
			filepath.Join(root, "shim"),
		)
	}
	if wd, err := os.Getwd(); err == nil {
		paths = append(paths, wd)
	}

	return paths
}
