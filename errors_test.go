//go:build !ios && !android && (amd64 || arm64)

package ffframes

import (
	"testing"

	"github.com/obinnaokechukwu/ffframes/avutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapKeepsBothChains(t *testing.T) {
	ffErr := &avutil.Error{Code: avutil.AVERROR_ENOENT, Message: "No such file or directory", Op: "avformat_open_input"}
	err := wrap(ErrOpen, "missing.mp4", ffErr)

	assert.ErrorIs(t, err, ErrOpen)
	var got *FFmpegError
	require.ErrorAs(t, err, &got)
	assert.Equal(t, avutil.AVERROR_ENOENT, got.Code)
	assert.Equal(t, avutil.AVERROR_ENOENT, ErrorCode(err))
}

func TestWrapWithoutCause(t *testing.T) {
	err := wrap(ErrAllocation, "raw frame", nil)
	assert.ErrorIs(t, err, ErrAllocation)
	assert.Zero(t, ErrorCode(err), "a non-FFmpeg error has no code")
}

func TestSentinelsAreDistinct(t *testing.T) {
	all := []error{
		ErrOpen, ErrStreamInfo, ErrNoVideoStream, ErrUnsupportedCodec,
		ErrCodecOpen, ErrAllocation, ErrNotOpen, ErrInvalidSize,
		ErrShortBuffer, ErrNotLoaded,
	}
	for i, a := range all {
		for j, b := range all {
			if i != j {
				assert.NotErrorIs(t, a, b)
			}
		}
	}
}
