//go:build !ios && !android && (amd64 || arm64)

package ffframes

import (
	"errors"
	"fmt"

	"github.com/obinnaokechukwu/ffframes/avutil"
)

// FFmpegError is an error from FFmpeg operations.
// It contains the raw FFmpeg error code and a human-readable message.
type FFmpegError = avutil.Error

// Session errors. FFmpeg failures are wrapped so that both errors.Is with
// these sentinels and errors.As with *FFmpegError work.
var (
	// ErrOpen indicates the input could not be opened.
	ErrOpen = errors.New("ffframes: cannot open input")

	// ErrStreamInfo indicates the container's stream information could not be read.
	ErrStreamInfo = errors.New("ffframes: cannot read stream info")

	// ErrNoVideoStream indicates the container has no video stream.
	ErrNoVideoStream = errors.New("ffframes: no video stream")

	// ErrUnsupportedCodec indicates no decoder is available for the stream's codec.
	ErrUnsupportedCodec = errors.New("ffframes: unsupported codec")

	// ErrCodecOpen indicates the decoder could not be configured or opened.
	ErrCodecOpen = errors.New("ffframes: cannot open codec")

	// ErrAllocation indicates FFmpeg could not allocate a frame, buffer or context.
	ErrAllocation = errors.New("ffframes: allocation failed")

	// ErrNotOpen indicates the session has been closed.
	ErrNotOpen = errors.New("ffframes: session is not open")

	// ErrInvalidSize indicates a negative destination size.
	ErrInvalidSize = errors.New("ffframes: invalid destination size")

	// ErrShortBuffer indicates a destination slice of the wrong length.
	ErrShortBuffer = errors.New("ffframes: destination has wrong length")

	// ErrNotLoaded indicates the FFmpeg shared libraries could not be loaded.
	ErrNotLoaded = errors.New("ffframes: FFmpeg libraries not loaded")
)

// wrap attaches a sentinel to an underlying FFmpeg error.
func wrap(sentinel error, what string, err error) error {
	if err == nil {
		return fmt.Errorf("%w: %s", sentinel, what)
	}
	return fmt.Errorf("%w: %s: %w", sentinel, what, err)
}

// ErrorCode returns the FFmpeg error code from an error, or 0 if not an FFmpeg error.
func ErrorCode(err error) int32 {
	return avutil.Code(err)
}
