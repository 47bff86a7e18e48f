//go:build !ios && !android && (amd64 || arm64)

package ffframes

import (
	"unsafe"

	"github.com/obinnaokechukwu/ffframes/avutil"
)

// effectiveSize picks the conversion target: the request when both sides
// are positive, else the native size.
func effectiveSize(nativeW, nativeH, reqW, reqH int) (int, int) {
	if reqW > 0 && reqH > 0 {
		return reqW, reqH
	}
	return nativeW, nativeH
}

// frameBuffers are the per-session frames and the RGB24 pixel store the
// converted frame points into.
type frameBuffers struct {
	raw    avutil.Frame
	rgb    avutil.Frame
	buffer unsafe.Pointer
	size   int
}

// allocateBuffers allocates the decode frame, the converted frame and one
// contiguous width x height RGB24 buffer bound to the converted frame with
// 1-byte row alignment. On failure nothing stays allocated.
func allocateBuffers(width, height int) (*frameBuffers, error) {
	b := &frameBuffers{}

	b.raw = avutil.FrameAlloc()
	if b.raw == nil {
		return nil, wrap(ErrAllocation, "raw frame", nil)
	}

	b.rgb = avutil.FrameAlloc()
	if b.rgb == nil {
		b.release()
		return nil, wrap(ErrAllocation, "converted frame", nil)
	}

	size, err := avutil.ImageBufferSize(avutil.PixelFormatRGB24, int32(width), int32(height), 1)
	if err != nil {
		b.release()
		return nil, wrap(ErrAllocation, "buffer size", err)
	}

	b.buffer = avutil.Malloc(uintptr(size))
	if b.buffer == nil {
		b.release()
		return nil, wrap(ErrAllocation, "pixel buffer", nil)
	}
	b.size = size

	if err := avutil.ImageFillFrame(b.rgb, b.buffer, avutil.PixelFormatRGB24, int32(width), int32(height), 1); err != nil {
		b.release()
		return nil, wrap(ErrAllocation, "bind pixel buffer", err)
	}
	avutil.SetFrameWidth(b.rgb, int32(width))
	avutil.SetFrameHeight(b.rgb, int32(height))
	avutil.SetFrameFormat(b.rgb, int32(avutil.PixelFormatRGB24))

	return b, nil
}

// bytes views the converted frame's pixel plane, which is the buffer bound
// by allocateBuffers. The slice aliases C memory and is valid until release.
func (b *frameBuffers) bytes() []byte {
	if b == nil || b.buffer == nil {
		return nil
	}
	return unsafe.Slice((*byte)(avutil.GetFrameDataPlane(b.rgb, 0)), b.size)
}

// release frees the buffer, then the converted frame, then the raw frame.
func (b *frameBuffers) release() {
	if b == nil {
		return
	}
	if b.buffer != nil {
		avutil.Free(b.buffer)
		b.buffer = nil
		b.size = 0
	}
	if b.rgb != nil {
		avutil.FrameFree(&b.rgb)
	}
	if b.raw != nil {
		avutil.FrameFree(&b.raw)
	}
}
