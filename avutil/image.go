//go:build !ios && !android && (amd64 || arm64)

package avutil

import (
	"unsafe"

	"github.com/ebitengine/purego"
	"github.com/obinnaokechukwu/ffframes/internal/bindings"
)

var (
	avImageGetBufferSize func(pixFmt, width, height, align int32) int32
	avImageFillArrays    func(dstData *[8]unsafe.Pointer, dstLinesize *[8]int32, src unsafe.Pointer, pixFmt, width, height, align int32) int32
)

func registerImageBindings(lib uintptr) {
	purego.RegisterLibFunc(&avImageGetBufferSize, lib, "av_image_get_buffer_size")
	purego.RegisterLibFunc(&avImageFillArrays, lib, "av_image_fill_arrays")
}

// ImageBufferSize returns the number of bytes needed to hold an image of the
// given format and size with rows aligned to align bytes.
func ImageBufferSize(pixFmt PixelFormat, width, height, align int32) (int, error) {
	if avImageGetBufferSize == nil {
		return 0, bindings.ErrNotLoaded
	}
	ret := avImageGetBufferSize(int32(pixFmt), width, height, align)
	if ret < 0 {
		return 0, NewError(ret, "av_image_get_buffer_size")
	}
	return int(ret), nil
}

// ImageFillFrame points the data and linesize arrays of frame into buf,
// which must hold at least ImageBufferSize bytes. The frame does not take
// ownership of buf.
func ImageFillFrame(frame Frame, buf unsafe.Pointer, pixFmt PixelFormat, width, height, align int32) error {
	if avImageFillArrays == nil {
		return bindings.ErrNotLoaded
	}
	ret := avImageFillArrays(FrameDataArray(frame), FrameLinesizeArray(frame), buf, int32(pixFmt), width, height, align)
	if ret < 0 {
		return NewError(ret, "av_image_fill_arrays")
	}
	return nil
}
