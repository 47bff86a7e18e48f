//go:build !ios && !android && (amd64 || arm64)

// Package ffframes decodes the first video stream of a media file into
// fixed-format RGB24 frames, optionally resized, ready for numeric use.
// It drives FFmpeg without CGO using purego.
//
// A Session owns every FFmpeg resource it needs from Open to Close:
//
//	s, err := ffframes.Open("clip.mp4", ffframes.WithSize(224, 224))
//	if err != nil {
//		return err
//	}
//	defer s.Close()
//	for {
//		f, err := s.Next()
//		if err == io.EOF {
//			break
//		}
//		if err != nil {
//			return err
//		}
//		use(f.Data())
//	}
//
// The low-level packages (avutil, avcodec, avformat, swscale) expose the
// thin bindings the session is built on.
package ffframes

import (
	"fmt"

	"github.com/obinnaokechukwu/ffframes/avcodec"
	"github.com/obinnaokechukwu/ffframes/avutil"
	"github.com/obinnaokechukwu/ffframes/internal/bindings"
	"github.com/obinnaokechukwu/ffframes/internal/shim"
)

// Init loads the FFmpeg libraries. Open calls it implicitly; call it
// explicitly to surface loading problems early. Only the first call does
// any work; later calls return its result.
func Init() error {
	if err := bindings.Load(); err != nil {
		return fmt.Errorf("%w: %w", ErrNotLoaded, err)
	}
	// The shim is optional; Load only records why it is missing.
	_ = shim.Load()
	return nil
}

// IsLoaded returns true if FFmpeg libraries have been successfully loaded.
func IsLoaded() bool {
	return bindings.IsLoaded()
}

// Version returns the loaded library versions as FFmpeg packs them
// (major<<16 | minor<<8 | micro), or zeros before Init.
func Version() (avutil, avcodec, avformat, swscale uint32) {
	return bindings.AVUtilVersion(), bindings.AVCodecVersion(), bindings.AVFormatVersion(), bindings.SWScaleVersion()
}

// Libraries returns the file each FFmpeg library was loaded from, keyed by
// short name ("avutil", "avcodec", "avformat", "swscale", and "ffshim"
// when the helper is present).
func Libraries() map[string]string {
	libs := bindings.LibraryPaths()
	if p := shim.Path(); p != "" {
		libs["ffshim"] = p
	}
	return libs
}

// Re-export common types for convenience
type (
	// Rational represents a rational number (fraction).
	Rational = avutil.Rational

	// PixelFormat represents video pixel formats.
	PixelFormat = avutil.PixelFormat

	// CodecID represents codec identifiers.
	CodecID = avcodec.CodecID
)

// PixelFormatRGB24 is the layout of every converted frame.
const PixelFormatRGB24 = avutil.PixelFormatRGB24
