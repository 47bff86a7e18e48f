//go:build !ios && !android && (amd64 || arm64)

// Package swscale provides bindings to FFmpeg's libswscale library for
// pixel format conversion and resizing.
package swscale

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/ebitengine/purego"
	"github.com/obinnaokechukwu/ffframes/avutil"
	"github.com/obinnaokechukwu/ffframes/internal/bindings"
)

// Context is an opaque SwsContext pointer.
type Context = unsafe.Pointer

// Flag selects the scaling algorithm.
type Flag int32

// Scaling algorithm flags
const (
	FlagFastBilinear Flag = 1    // Fast bilinear scaling
	FlagBilinear     Flag = 2    // Bilinear scaling
	FlagBicubic      Flag = 4    // Bicubic scaling
	FlagPoint        Flag = 0x10 // Nearest neighbor (point sampling)
	FlagArea         Flag = 0x20 // Area averaging
	FlagGauss        Flag = 0x80 // Gaussian
	FlagLanczos      Flag = 0x200
	FlagSpline       Flag = 0x400 // Natural bicubic spline
)

var flagNames = map[string]Flag{
	"fast_bilinear": FlagFastBilinear,
	"bilinear":      FlagBilinear,
	"bicubic":       FlagBicubic,
	"point":         FlagPoint,
	"area":          FlagArea,
	"gauss":         FlagGauss,
	"lanczos":       FlagLanczos,
	"spline":        FlagSpline,
}

// ParseFlag maps an algorithm name as used by ffmpeg's -sws_flags
// ("bicubic", "lanczos", ...) to its flag.
func ParseFlag(name string) (Flag, error) {
	if f, ok := flagNames[strings.ToLower(strings.TrimSpace(name))]; ok {
		return f, nil
	}
	return 0, fmt.Errorf("unknown scaling algorithm %q", name)
}

func (f Flag) String() string {
	for name, v := range flagNames {
		if v == f {
			return name
		}
	}
	return fmt.Sprintf("flags(%#x)", int32(f))
}

var (
	swsGetContext     func(srcW, srcH int32, srcFormat int32, dstW, dstH int32, dstFormat int32, flags int32, srcFilter, dstFilter, param unsafe.Pointer) uintptr
	swsScale          func(ctx unsafe.Pointer, srcSlice, srcStride unsafe.Pointer, srcSliceY, srcSliceH int32, dst, dstStride unsafe.Pointer) int32
	swsFreeContext    func(ctx unsafe.Pointer)
	swsIsSupportedIn  func(format int32) int32
	swsIsSupportedOut func(format int32) int32

	bindingsRegistered bool
)

func init() {
	registerBindings()
}

func registerBindings() {
	if bindingsRegistered {
		return
	}

	if err := bindings.Load(); err != nil {
		return
	}

	lib := bindings.LibSWScale()
	if lib == 0 {
		return
	}

	purego.RegisterLibFunc(&swsGetContext, lib, "sws_getContext")
	purego.RegisterLibFunc(&swsScale, lib, "sws_scale")
	purego.RegisterLibFunc(&swsFreeContext, lib, "sws_freeContext")
	purego.RegisterLibFunc(&swsIsSupportedIn, lib, "sws_isSupportedInput")
	purego.RegisterLibFunc(&swsIsSupportedOut, lib, "sws_isSupportedOutput")

	bindingsRegistered = true
}

// GetContext creates a context converting srcW x srcH frames in srcFormat
// to dstW x dstH frames in dstFormat. Returns nil if the combination is
// unsupported.
func GetContext(srcW, srcH int, srcFormat avutil.PixelFormat, dstW, dstH int, dstFormat avutil.PixelFormat, flags Flag) Context {
	if swsGetContext == nil {
		return nil
	}
	return unsafe.Pointer(swsGetContext(
		int32(srcW), int32(srcH), int32(srcFormat),
		int32(dstW), int32(dstH), int32(dstFormat),
		int32(flags),
		nil, nil, nil,
	))
}

// FreeContext frees a scaling context.
// Safe to call with nil.
func FreeContext(ctx Context) {
	if ctx == nil || swsFreeContext == nil {
		return
	}
	swsFreeContext(ctx)
}

// ScaleFrame converts the whole of src into dst's existing planes and
// returns the number of output rows written.
//
// sws_scale_frame is not used: it allocates new buffers for a dst frame
// that carries no buf[0] reference, which is how image arrays filled over
// caller memory look.
func ScaleFrame(ctx Context, dst, src avutil.Frame) (int, error) {
	if swsScale == nil {
		return 0, bindings.ErrNotLoaded
	}
	if ctx == nil || dst == nil || src == nil {
		return 0, avutil.NewError(avutil.AVERROR_EINVAL, "sws_scale")
	}
	ret := swsScale(ctx,
		unsafe.Pointer(avutil.FrameDataArray(src)), unsafe.Pointer(avutil.FrameLinesizeArray(src)),
		0, avutil.GetFrameHeight(src),
		unsafe.Pointer(avutil.FrameDataArray(dst)), unsafe.Pointer(avutil.FrameLinesizeArray(dst)),
	)
	if ret < 0 {
		return 0, avutil.NewError(ret, "sws_scale")
	}
	return int(ret), nil
}

// IsSupportedInput returns true if the pixel format is supported as input.
func IsSupportedInput(format avutil.PixelFormat) bool {
	if swsIsSupportedIn == nil {
		return false
	}
	return swsIsSupportedIn(int32(format)) > 0
}

// IsSupportedOutput returns true if the pixel format is supported as output.
func IsSupportedOutput(format avutil.PixelFormat) bool {
	if swsIsSupportedOut == nil {
		return false
	}
	return swsIsSupportedOut(int32(format)) > 0
}
