// Package dump writes packed RGB24 frames as image files.
package dump

import (
	"bufio"
	"fmt"
	"image"
	"image/png"
	"io"
	"path/filepath"

	"github.com/google/uuid"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// RGB is a packed 8-bit RGB picture, rows top to bottom.
type RGB struct {
	Pix    []byte
	Width  int
	Height int
	Stride int
}

// NRGBA copies the picture into an opaque NRGBA image.
func (r RGB) NRGBA() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, r.Width, r.Height))
	for y := 0; y < r.Height; y++ {
		src := r.Pix[y*r.Stride:]
		dst := img.Pix[y*img.Stride:]
		for x := 0; x < r.Width; x++ {
			copy(dst[x*4:x*4+3], src[x*3:x*3+3])
			dst[x*4+3] = 0xff
		}
	}
	return img
}

// Encode writes r to w in format: "png", "bmp", "tiff" or "ppm".
func Encode(w io.Writer, format string, r RGB) error {
	if len(r.Pix) < r.Stride*(r.Height-1)+r.Width*3 {
		return fmt.Errorf("dump: %d bytes cannot hold a %dx%d frame", len(r.Pix), r.Width, r.Height)
	}

	switch format {
	case "png":
		return png.Encode(w, r.NRGBA())
	case "bmp":
		return bmp.Encode(w, r.NRGBA())
	case "tiff":
		return tiff.Encode(w, r.NRGBA(), &tiff.Options{Compression: tiff.Deflate})
	case "ppm":
		return encodePPM(w, r)
	}
	return fmt.Errorf("dump: unknown format %q", format)
}

// encodePPM writes a binary (P6) portable pixmap.
func encodePPM(w io.Writer, r RGB) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "P6\n%d %d\n255\n", r.Width, r.Height)
	for y := 0; y < r.Height; y++ {
		if _, err := bw.Write(r.Pix[y*r.Stride : y*r.Stride+r.Width*3]); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Dir is the directory frames of input are written to: the input's base
// name plus a tag derived from its cleaned path, e.g. dir/clip-1b4e28ba.
// Inputs that share a base name in different directories get different
// directories.
func Dir(dir, input string) string {
	clean := filepath.Clean(input)
	base := filepath.Base(clean)
	base = base[:len(base)-len(filepath.Ext(base))]
	tag := uuid.NewSHA1(uuid.NameSpaceURL, []byte("file://"+filepath.ToSlash(clean)))
	return filepath.Join(dir, base+"-"+tag.String()[:8])
}

// Path names frame index of input inside Dir(dir, input), e.g.
// dir/clip-1b4e28ba/frame_000042.png.
func Path(dir, input string, index int64, format string) string {
	return filepath.Join(Dir(dir, input), fmt.Sprintf("frame_%06d.%s", index, format))
}
