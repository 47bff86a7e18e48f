//go:build !ios && !android && (amd64 || arm64)

// Package platform knows how shared libraries are named on each OS.
package platform

import (
	"fmt"
	"runtime"
	"unsafe"
)

// Is64Bit reports whether pointers are 8 bytes. The FFmpeg struct offsets
// used by the binding packages assume a 64-bit layout.
const Is64Bit = unsafe.Sizeof(uintptr(0)) == 8

// LibraryExtension is the file extension for shared libraries on this platform.
var LibraryExtension = libraryExtension(runtime.GOOS)

// LibraryPrefix is the prefix for shared library names on this platform.
var LibraryPrefix = libraryPrefix(runtime.GOOS)

func libraryExtension(goos string) string {
	switch goos {
	case "darwin":
		return ".dylib"
	case "windows":
		return ".dll"
	default:
		return ".so"
	}
}

func libraryPrefix(goos string) string {
	if goos == "windows" {
		return ""
	}
	return "lib"
}

// FormatLibraryName returns the platform-specific library filename.
// If version is 0, returns the unversioned library name.
//
// Examples:
//   - Linux:   FormatLibraryName("avcodec", 60) -> "libavcodec.so.60"
//   - macOS:   FormatLibraryName("avcodec", 60) -> "libavcodec.60.dylib"
//   - Windows: FormatLibraryName("avcodec", 60) -> "avcodec-60.dll"
func FormatLibraryName(name string, version int) string {
	return formatLibraryName(runtime.GOOS, name, version)
}

func formatLibraryName(goos, name string, version int) string {
	prefix, ext := libraryPrefix(goos), libraryExtension(goos)
	switch goos {
	case "darwin":
		if version > 0 {
			return fmt.Sprintf("%s%s.%d%s", prefix, name, version, ext)
		}
	case "windows":
		if version > 0 {
			return fmt.Sprintf("%s%s-%d%s", prefix, name, version, ext)
		}
	default: // linux, freebsd
		if version > 0 {
			return fmt.Sprintf("%s%s%s.%d", prefix, name, ext, version)
		}
	}
	return prefix + name + ext
}

// ShimLibraryNames returns the candidate filenames of the optional ffshim
// helper library, most specific last.
func ShimLibraryNames() []string {
	return shimLibraryNames(runtime.GOOS)
}

func shimLibraryNames(goos string) []string {
	switch goos {
	case "darwin":
		return []string{"libffshim.dylib", "libffshim.1.dylib"}
	case "windows":
		return []string{"ffshim.dll", "libffshim.dll"}
	case "linux", "freebsd", "openbsd", "netbsd":
		return []string{"libffshim.so", "libffshim.so.1"}
	default:
		return nil
	}
}
