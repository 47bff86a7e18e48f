//go:build !ios && !android && (amd64 || arm64)

// Package bindings handles loading the FFmpeg shared libraries used by a
// decode session and exposes their handles to the binding packages.
package bindings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/ebitengine/purego"
	"github.com/obinnaokechukwu/ffframes/internal/platform"
)

// ErrNotLoaded is returned when FFmpeg functions are called before Load().
var ErrNotLoaded = errors.New("ffframes: FFmpeg libraries not loaded; call ffframes.Init() first")

// ErrLibraryNotFound is returned when a required FFmpeg library cannot be found.
var ErrLibraryNotFound = errors.New("ffframes: FFmpeg library not found")

// LibDirEnv names an extra directory searched before the platform defaults.
const LibDirEnv = "FFFRAMES_LIB_DIR"

// Library major versions tried in order, newest first.
var (
	avutilVersions   = []int{60, 59, 58, 57, 56}
	avcodecVersions  = []int{62, 61, 60, 59, 58}
	avformatVersions = []int{62, 61, 60, 59, 58}
	swscaleVersions  = []int{9, 8, 7, 6, 5}
)

var (
	libAVUtil   uintptr
	libAVCodec  uintptr
	libAVFormat uintptr
	libSWScale  uintptr

	libPaths = map[string]string{}

	loaded   bool
	loadOnce sync.Once
	loadErr  error
)

var (
	avutilVersion   func() uint32
	avcodecVersion  func() uint32
	avformatVersion func() uint32
	swscaleVersion  func() uint32
)

// IsLoaded returns true if FFmpeg libraries have been successfully loaded.
func IsLoaded() bool {
	return loaded
}

// Load loads the FFmpeg libraries once per process.
// Later calls return the result of the first one.
func Load() error {
	loadOnce.Do(func() {
		loadErr = doLoad()
		if loadErr == nil {
			loaded = true
		}
	})
	return loadErr
}

func doLoad() error {
	// avutil first; the others resolve symbols against it.
	var err error

	libAVUtil, err = loadLibrary("avutil", avutilVersions)
	if err != nil {
		return fmt.Errorf("loading libavutil: %w", err)
	}

	libAVCodec, err = loadLibrary("avcodec", avcodecVersions)
	if err != nil {
		return fmt.Errorf("loading libavcodec: %w", err)
	}

	libAVFormat, err = loadLibrary("avformat", avformatVersions)
	if err != nil {
		return fmt.Errorf("loading libavformat: %w", err)
	}

	// Every session converts to RGB24, so swscale is not optional here.
	libSWScale, err = loadLibrary("swscale", swscaleVersions)
	if err != nil {
		return fmt.Errorf("loading libswscale: %w", err)
	}

	purego.RegisterLibFunc(&avutilVersion, libAVUtil, "avutil_version")
	purego.RegisterLibFunc(&avcodecVersion, libAVCodec, "avcodec_version")
	purego.RegisterLibFunc(&avformatVersion, libAVFormat, "avformat_version")
	purego.RegisterLibFunc(&swscaleVersion, libSWScale, "swscale_version")

	return nil
}

// loadLibrary attempts to load a library by trying versioned names.
func loadLibrary(name string, versions []int) (uintptr, error) {
	for _, searchPath := range LibrarySearchPaths() {
		for _, ver := range versions {
			fullPath := filepath.Join(searchPath, platform.FormatLibraryName(name, ver))
			if lib, err := tryOpen(fullPath); err == nil {
				libPaths[name] = fullPath
				return lib, nil
			}
		}

		fullPath := filepath.Join(searchPath, platform.FormatLibraryName(name, 0))
		if lib, err := tryOpen(fullPath); err == nil {
			libPaths[name] = fullPath
			return lib, nil
		}
	}

	// Let the dynamic loader resolve bare names.
	for _, ver := range versions {
		libName := platform.FormatLibraryName(name, ver)
		if lib, err := tryOpen(libName); err == nil {
			libPaths[name] = libName
			return lib, nil
		}
	}

	libName := platform.FormatLibraryName(name, 0)
	if lib, err := tryOpen(libName); err == nil {
		libPaths[name] = libName
		return lib, nil
	}

	return 0, fmt.Errorf("%w: %s", ErrLibraryNotFound, name)
}

// tryOpen opens a library with RTLD_NOW | RTLD_GLOBAL.
// RTLD_GLOBAL is required: the FFmpeg libraries reference each other's symbols.
func tryOpen(path string) (uintptr, error) {
	return purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
}

// LibrarySearchPaths returns platform-specific library search paths.
func LibrarySearchPaths() []string {
	var paths []string

	if dir := os.Getenv(LibDirEnv); dir != "" {
		paths = append(paths, dir)
	}

	switch runtime.GOOS {
	case "linux":
		if ldPath := os.Getenv("LD_LIBRARY_PATH"); ldPath != "" {
			paths = append(paths, filepath.SplitList(ldPath)...)
		}
		paths = append(paths,
			"/usr/lib/x86_64-linux-gnu",
			"/usr/lib/aarch64-linux-gnu",
			"/usr/local/lib",
			"/usr/lib",
			"/lib/x86_64-linux-gnu",
			"/lib",
		)

	case "darwin":
		if dyldPath := os.Getenv("DYLD_LIBRARY_PATH"); dyldPath != "" {
			paths = append(paths, filepath.SplitList(dyldPath)...)
		}
		paths = append(paths,
			"/opt/homebrew/lib",
			"/usr/local/lib",
			"/opt/homebrew/opt/ffmpeg/lib",
			"/usr/local/opt/ffmpeg/lib",
		)

	case "windows":
		if winPath := os.Getenv("PATH"); winPath != "" {
			paths = append(paths, filepath.SplitList(winPath)...)
		}
		if exe, err := os.Executable(); err == nil {
			paths = append(paths, filepath.Dir(exe))
		}
		paths = append(paths,
			"C:\\ffmpeg\\bin",
			"C:\\Program Files\\ffmpeg\\bin",
		)

	case "freebsd":
		if ldPath := os.Getenv("LD_LIBRARY_PATH"); ldPath != "" {
			paths = append(paths, filepath.SplitList(ldPath)...)
		}
		paths = append(paths,
			"/usr/local/lib",
			"/usr/lib",
		)
	}

	return paths
}

// LibraryPaths returns where each library was loaded from, keyed by short
// name ("avutil", "avcodec", ...). Empty before a successful Load.
func LibraryPaths() map[string]string {
	out := make(map[string]string, len(libPaths))
	if !loaded {
		return out
	}
	for k, v := range libPaths {
		out[k] = v
	}
	return out
}

// AVUtilVersion returns the avutil library version, or 0 if not loaded.
func AVUtilVersion() uint32 {
	if !loaded || avutilVersion == nil {
		return 0
	}
	return avutilVersion()
}

// AVCodecVersion returns the avcodec library version, or 0 if not loaded.
func AVCodecVersion() uint32 {
	if !loaded || avcodecVersion == nil {
		return 0
	}
	return avcodecVersion()
}

// AVFormatVersion returns the avformat library version, or 0 if not loaded.
func AVFormatVersion() uint32 {
	if !loaded || avformatVersion == nil {
		return 0
	}
	return avformatVersion()
}

// SWScaleVersion returns the swscale library version, or 0 if not loaded.
func SWScaleVersion() uint32 {
	if !loaded || swscaleVersion == nil {
		return 0
	}
	return swscaleVersion()
}

// LibAVUtil returns the avutil library handle.
func LibAVUtil() uintptr {
	return libAVUtil
}

// LibAVCodec returns the avcodec library handle.
func LibAVCodec() uintptr {
	return libAVCodec
}

// LibAVFormat returns the avformat library handle.
func LibAVFormat() uintptr {
	return libAVFormat
}

// LibSWScale returns the swscale library handle.
func LibSWScale() uintptr {
	return libSWScale
}

// RegisterOptional registers a symbol that may be missing from older or
// trimmed FFmpeg builds. The function pointer stays nil when it is absent.
func RegisterOptional(fptr any, handle uintptr, name string) {
	defer func() { _ = recover() }()
	purego.RegisterLibFunc(fptr, handle, name)
}
