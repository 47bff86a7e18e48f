//go:build !ios && !android && (amd64 || arm64)

package avutil

import (
	"errors"
	"fmt"
	"io"
	"os"
	"testing"

	"github.com/obinnaokechukwu/ffframes/internal/bindings"
)

var ffmpegAvailable bool

func TestMain(m *testing.M) {
	if err := bindings.Load(); err == nil {
		ffmpegAvailable = true
	}
	os.Exit(m.Run())
}

func skipIfNoFFmpeg(t *testing.T) {
	t.Helper()
	if !ffmpegAvailable {
		t.Skip("FFmpeg not available")
	}
}

func TestFrameFree(t *testing.T) {
	skipIfNoFFmpeg(t)
	frame := FrameAlloc()
	if frame == nil {
		t.Fatal("FrameAlloc returned nil")
	}

	FrameFree(&frame)

	if frame != nil {
		t.Error("Frame should be nil after free")
	}

	// Double free should be safe
	FrameFree(&frame)
}

func TestFrameFields(t *testing.T) {
	skipIfNoFFmpeg(t)
	frame := FrameAlloc()
	if frame == nil {
		t.Fatal("FrameAlloc returned nil")
	}
	defer FrameFree(&frame)

	if GetFramePTS(frame) != NoPTSValue {
		t.Errorf("fresh frame PTS = %d, want NoPTSValue", GetFramePTS(frame))
	}

	SetFrameWidth(frame, 352)
	SetFrameHeight(frame, 288)
	SetFrameFormat(frame, int32(PixelFormatRGB24))

	if GetFrameWidth(frame) != 352 {
		t.Errorf("Width: expected 352, got %d", GetFrameWidth(frame))
	}
	if GetFrameHeight(frame) != 288 {
		t.Errorf("Height: expected 288, got %d", GetFrameHeight(frame))
	}
	if GetFrameFormat(frame) != int32(PixelFormatRGB24) {
		t.Errorf("Format: expected %d, got %d", PixelFormatRGB24, GetFrameFormat(frame))
	}
}

func TestNilFrameAccessors(t *testing.T) {
	if GetFrameWidth(nil) != 0 || GetFrameHeight(nil) != 0 {
		t.Error("nil frame should report zero size")
	}
	if GetFrameFormat(nil) != -1 {
		t.Error("nil frame should report format -1")
	}
	if GetFrameDataPlane(nil, 0) != nil || GetFrameLinesizePlane(nil, 0) != 0 {
		t.Error("nil frame should have no planes")
	}
}

func TestImageFillFrame(t *testing.T) {
	skipIfNoFFmpeg(t)

	size, err := ImageBufferSize(PixelFormatRGB24, 320, 240, 1)
	if err != nil {
		t.Fatalf("ImageBufferSize: %v", err)
	}
	if size != 320*240*3 {
		t.Fatalf("ImageBufferSize = %d, want %d", size, 320*240*3)
	}

	buf := Malloc(uintptr(size))
	if buf == nil {
		t.Fatal("Malloc returned nil")
	}
	defer Free(buf)

	frame := FrameAlloc()
	defer FrameFree(&frame)

	if err := ImageFillFrame(frame, buf, PixelFormatRGB24, 320, 240, 1); err != nil {
		t.Fatalf("ImageFillFrame: %v", err)
	}
	if GetFrameDataPlane(frame, 0) != buf {
		t.Error("plane 0 should point at the buffer")
	}
	if got := GetFrameLinesizePlane(frame, 0); got != 320*3 {
		t.Errorf("linesize[0] = %d, want %d", got, 320*3)
	}
	if GetFrameDataPlane(frame, 1) != nil {
		t.Error("packed RGB24 should use a single plane")
	}
}

func TestPixelFormatString(t *testing.T) {
	if PixelFormatNone.String() != "none" {
		t.Errorf("PixelFormatNone = %q", PixelFormatNone.String())
	}

	skipIfNoFFmpeg(t)
	if got := PixelFormatRGB24.String(); got != "rgb24" {
		t.Errorf("RGB24 name = %q, want rgb24", got)
	}
	if got := PixelFormatYUV420P.String(); got != "yuv420p" {
		t.Errorf("YUV420P name = %q, want yuv420p", got)
	}
}

func TestRational(t *testing.T) {
	r := Rational{Num: 30000, Den: 1001}

	fps := r.Float64()
	expected := 29.97002997
	if fps < expected-0.0001 || fps > expected+0.0001 {
		t.Errorf("Expected ~%f, got %f", expected, fps)
	}
	if r.String() != "30000/1001" {
		t.Errorf("String() = %q", r.String())
	}

	if (Rational{Num: 1}).Float64() != 0 {
		t.Error("Zero denominator should return 0")
	}
}

func TestErrorHelpers(t *testing.T) {
	if NewError(0, "noop") != nil {
		t.Error("NewError should return nil for non-negative codes")
	}

	err := fmt.Errorf("decode: %w", &Error{Code: AVERROR_EOF, Op: "read"})
	if !IsEOF(err) {
		t.Error("IsEOF should see through wrapping")
	}
	if IsAgain(err) {
		t.Error("EOF is not EAGAIN")
	}
	if !errors.Is(err, io.EOF) {
		t.Error("AVERROR_EOF should match io.EOF")
	}
	if errors.Is(&Error{Code: AVERROR_EAGAIN}, io.EOF) {
		t.Error("EAGAIN should not match io.EOF")
	}
	if Code(errors.New("plain")) != 0 {
		t.Error("Code of a non-FFmpeg error should be 0")
	}
}

func TestErrorString(t *testing.T) {
	skipIfNoFFmpeg(t)
	msg := ErrorString(AVERROR_EOF)
	if msg == "" {
		t.Error("ErrorString should return non-empty string for AVERROR_EOF")
	}
	t.Logf("AVERROR_EOF message: %s", msg)

	msg = ErrorString(-999999)
	if msg == "" {
		t.Error("ErrorString should return non-empty string for unknown error")
	}
}

func TestLogLevel(t *testing.T) {
	skipIfNoFFmpeg(t)
	prev := LogGetLevel()
	defer LogSetLevel(prev)

	if err := LogSetLevel(16); err != nil {
		t.Fatalf("LogSetLevel: %v", err)
	}
	if got := LogGetLevel(); got != 16 {
		t.Errorf("LogGetLevel = %d, want 16", got)
	}
}
