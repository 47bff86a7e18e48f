//go:build !ios && !android && (amd64 || arm64)

package ffframes

import (
	"fmt"
	"image"
)

// Frame is one decoded frame converted to packed RGB24, rows top to bottom
// with no padding between them.
//
// A Frame returned by Session.Next views the session's buffer and is only
// valid until the next call to Next or Close. Clone makes a copy that owns
// its pixels.
type Frame struct {
	data   []byte
	width  int
	height int
	stride int
	index  int64
	pts    int64
}

// Data returns the pixels, Width*Height*3 bytes in R, G, B order.
func (f *Frame) Data() []byte {
	return f.data
}

// Width returns the frame width in pixels.
func (f *Frame) Width() int {
	return f.width
}

// Height returns the frame height in pixels.
func (f *Frame) Height() int {
	return f.height
}

// Stride returns the number of bytes per row.
func (f *Frame) Stride() int {
	return f.stride
}

// Index returns the frame's position in decode order, starting at 0.
func (f *Frame) Index() int64 {
	return f.index
}

// PTS returns the presentation timestamp in the stream's time base, or
// avutil.NoPTSValue when the decoder did not provide one.
func (f *Frame) PTS() int64 {
	return f.pts
}

// Clone returns a copy of f that owns its pixels.
func (f *Frame) Clone() *Frame {
	c := *f
	c.data = append([]byte(nil), f.data...)
	return &c
}

// Image copies the frame into an opaque NRGBA image.
func (f *Frame) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, f.width, f.height))
	for y := 0; y < f.height; y++ {
		src := f.data[y*f.stride : y*f.stride+f.width*3]
		dst := img.Pix[y*img.Stride : y*img.Stride+f.width*4]
		for x := 0; x < f.width; x++ {
			dst[x*4+0] = src[x*3+0]
			dst[x*4+1] = src[x*3+1]
			dst[x*4+2] = src[x*3+2]
			dst[x*4+3] = 0xff
		}
	}
	return img
}

// CopyFloat32 writes the frame into dst as planar channel-major data
// (all R, then all G, then all B) scaled to [0, 1]. dst must hold exactly
// 3*Width*Height values.
func (f *Frame) CopyFloat32(dst []float32) error {
	return copyPlanar(f, dst)
}

// CopyFloat64 is CopyFloat32 for float64 destinations.
func (f *Frame) CopyFloat64(dst []float64) error {
	return copyPlanar(f, dst)
}

func copyPlanar[T float32 | float64](f *Frame, dst []T) error {
	plane := f.width * f.height
	if len(dst) != 3*plane {
		return fmt.Errorf("%w: have %d, need %d", ErrShortBuffer, len(dst), 3*plane)
	}
	r, g, b := dst[:plane], dst[plane:2*plane], dst[2*plane:]
	for y := 0; y < f.height; y++ {
		row := f.data[y*f.stride:]
		for x := 0; x < f.width; x++ {
			i := y*f.width + x
			r[i] = T(row[x*3+0]) / 255
			g[i] = T(row[x*3+1]) / 255
			b[i] = T(row[x*3+2]) / 255
		}
	}
	return nil
}
