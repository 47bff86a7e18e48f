//go:build !ios && !android && (amd64 || arm64)

package avutil

import (
	"fmt"
	"strconv"
)

// PixelFormat represents FFmpeg pixel formats.
type PixelFormat int32

// Pixel formats the decode path names explicitly (from FFmpeg's pixfmt.h).
const (
	PixelFormatNone     PixelFormat = -1
	PixelFormatYUV420P  PixelFormat = 0  // Planar YUV 4:2:0
	PixelFormatRGB24    PixelFormat = 2  // Packed RGB 8:8:8
	PixelFormatGray8    PixelFormat = 8  // 8-bit grayscale
	PixelFormatYUVJ420P PixelFormat = 12 // Planar YUV 4:2:0 (JPEG)
	PixelFormatRGBA     PixelFormat = 26 // Packed RGBA 8:8:8:8
)

// String returns FFmpeg's name for the format, or its number when
// libavutil is not loaded or does not know it.
func (p PixelFormat) String() string {
	if p == PixelFormatNone {
		return "none"
	}
	if avGetPixFmtName != nil {
		if name := avGetPixFmtName(int32(p)); name != "" {
			return name
		}
	}
	return "pix_fmt(" + strconv.Itoa(int(p)) + ")"
}

// MediaType represents FFmpeg media types.
type MediaType int32

const (
	MediaTypeUnknown MediaType = -1
	MediaTypeVideo   MediaType = 0
	MediaTypeAudio   MediaType = 1
)

// Rational mirrors AVRational.
type Rational struct {
	Num int32 // Numerator
	Den int32 // Denominator
}

// Float64 converts the rational to a float64.
// Returns 0 if the denominator is 0.
func (r Rational) Float64() float64 {
	if r.Den == 0 {
		return 0
	}
	return float64(r.Num) / float64(r.Den)
}

func (r Rational) String() string {
	return fmt.Sprintf("%d/%d", r.Num, r.Den)
}

// MarshalText encodes the rational as "num/den".
func (r Rational) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}
