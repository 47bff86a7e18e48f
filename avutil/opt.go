//go:build !ios && !android && (amd64 || arm64)

package avutil

import (
	"unsafe"

	"github.com/ebitengine/purego"
	"github.com/obinnaokechukwu/ffframes/internal/bindings"
)

var (
	avOptSetQ         func(obj unsafe.Pointer, name string, val uint64, flags int32) int32
	avOptGetImageSize func(obj unsafe.Pointer, name string, flags int32, w, h *int32) int32
	avOptGetPixelFmt  func(obj unsafe.Pointer, name string, flags int32, out *int32) int32
	avOptGetQ         func(obj unsafe.Pointer, name string, flags int32, out *Rational) int32
)

func registerOptBindings(lib uintptr) {
	purego.RegisterLibFunc(&avOptSetQ, lib, "av_opt_set_q")
	purego.RegisterLibFunc(&avOptGetImageSize, lib, "av_opt_get_image_size")
	purego.RegisterLibFunc(&avOptGetPixelFmt, lib, "av_opt_get_pixel_fmt")
	purego.RegisterLibFunc(&avOptGetQ, lib, "av_opt_get_q")
}

// OptSetRational sets a rational AVOption such as "time_base".
//
// av_opt_set_q takes AVRational by value. Two int32s fit one integer
// register on every supported ABI, num in the low half.
func OptSetRational(obj unsafe.Pointer, name string, r Rational) error {
	if avOptSetQ == nil {
		return bindings.ErrNotLoaded
	}
	packed := uint64(uint32(r.Num)) | uint64(uint32(r.Den))<<32
	ret := avOptSetQ(obj, name, packed, 0)
	if ret < 0 {
		return NewError(ret, "av_opt_set_q "+name)
	}
	return nil
}

// OptGetImageSize reads an image-size AVOption such as "video_size".
func OptGetImageSize(obj unsafe.Pointer, name string) (width, height int32, err error) {
	if avOptGetImageSize == nil {
		return 0, 0, bindings.ErrNotLoaded
	}
	ret := avOptGetImageSize(obj, name, 0, &width, &height)
	if ret < 0 {
		return 0, 0, NewError(ret, "av_opt_get_image_size "+name)
	}
	return width, height, nil
}

// OptGetPixelFormat reads a pixel-format AVOption such as "pixel_format".
func OptGetPixelFormat(obj unsafe.Pointer, name string) (PixelFormat, error) {
	if avOptGetPixelFmt == nil {
		return PixelFormatNone, bindings.ErrNotLoaded
	}
	var out int32
	ret := avOptGetPixelFmt(obj, name, 0, &out)
	if ret < 0 {
		return PixelFormatNone, NewError(ret, "av_opt_get_pixel_fmt "+name)
	}
	return PixelFormat(out), nil
}

// OptGetRational reads a rational AVOption such as "time_base".
func OptGetRational(obj unsafe.Pointer, name string) (Rational, error) {
	if avOptGetQ == nil {
		return Rational{}, bindings.ErrNotLoaded
	}
	var out Rational
	ret := avOptGetQ(obj, name, 0, &out)
	if ret < 0 {
		return Rational{}, NewError(ret, "av_opt_get_q "+name)
	}
	return out, nil
}
