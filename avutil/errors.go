//go:build !ios && !android && (amd64 || arm64)

package avutil

import (
	"errors"
	"fmt"
	"io"
	"syscall"
)

// AVERROR codes the decode path tests for. FFmpeg's own tags are
// FFERRTAG values; the rest are negated errno values.
const (
	AVERROR_EOF               int32 = -541478725 // FFERRTAG('E','O','F',' ')
	AVERROR_EAGAIN            int32 = -int32(syscall.EAGAIN)
	AVERROR_EINVAL            int32 = -int32(syscall.EINVAL)
	AVERROR_ENOMEM            int32 = -int32(syscall.ENOMEM)
	AVERROR_ENOENT            int32 = -int32(syscall.ENOENT)
	AVERROR_DECODER_NOT_FOUND int32 = -1128613112 // FFERRTAG(0xF8,'D','E','C')
	AVERROR_STREAM_NOT_FOUND  int32 = -1381258232 // FFERRTAG(0xF8,'S','T','R')
	AVERROR_INVALIDDATA       int32 = -1094995529 // FFERRTAG('I','N','D','A')
)

// Error is a failed FFmpeg call: the negative code it returned, FFmpeg's
// text for that code and the function that returned it.
type Error struct {
	Code    int32
	Message string
	Op      string
}

func (e *Error) Error() string {
	return fmt.Sprintf("ffmpeg %s: %s (code %d)", e.Op, e.Message, e.Code)
}

// Is makes AVERROR_EOF match io.EOF, so errors.Is(err, io.EOF) works on
// values returned by demux and decode calls.
func (e *Error) Is(target error) bool {
	return target == io.EOF && e.Code == AVERROR_EOF
}

// NewError returns nil for non-negative codes and an *Error otherwise.
func NewError(code int32, op string) error {
	if code >= 0 {
		return nil
	}
	return &Error{Code: code, Message: ErrorString(code), Op: op}
}

// Code extracts the FFmpeg code from anywhere in err's chain, or 0.
func Code(err error) int32 {
	var ffErr *Error
	if errors.As(err, &ffErr) {
		return ffErr.Code
	}
	return 0
}

// IsEOF reports whether err carries AVERROR_EOF.
func IsEOF(err error) bool {
	return Code(err) == AVERROR_EOF
}

// IsAgain reports whether err carries AVERROR(EAGAIN): the decoder wants
// more input before it can produce output.
func IsAgain(err error) bool {
	return Code(err) == AVERROR_EAGAIN
}
