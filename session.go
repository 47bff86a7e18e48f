//go:build !ios && !android && (amd64 || arm64)

package ffframes

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/obinnaokechukwu/ffframes/avcodec"
	"github.com/obinnaokechukwu/ffframes/avformat"
	"github.com/rs/zerolog"
)

type sessionState int

const (
	stateClosed sessionState = iota
	stateOpen
)

// Session decodes the first video stream of one input into RGB24 frames.
//
// A Session is not safe for concurrent use. Independent sessions share
// nothing and may be used from different goroutines.
type Session struct {
	path        string
	requestedW  int
	requestedH  int
	rawW, rawH  int
	dstW, dstH  int
	scaleFlags  ScaleFlags
	info        Info
	state       sessionState
	formatCtx   avformat.FormatContext
	codecCtx    avcodec.Context
	streamIndex int
	packet      avcodec.Packet
	bufs        *frameBuffers
	scaler      *converter // nil until the first frame is decoded
	frame       Frame
	decoded     int64
	draining    bool
	eof         bool
	log         zerolog.Logger
	metrics     *Metrics
}

// Open opens path, selects its first video stream and prepares a decoder
// and an RGB24 frame buffer. Frames have the stream's native size unless
// WithSize requests another one.
//
// On failure every resource acquired so far is released and the error
// wraps one of ErrOpen, ErrStreamInfo, ErrNoVideoStream,
// ErrUnsupportedCodec, ErrCodecOpen, ErrAllocation, ErrInvalidSize or
// ErrNotLoaded.
func Open(path string, opts ...Option) (*Session, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	logger := o.logger.With().
		Str("session", uuid.NewString()).
		Str("path", path).
		Logger()

	s, err := open(path, o, logger)
	o.metrics.opened(outcomeFor(err))
	if err != nil {
		logger.Debug().Err(err).Msg("open failed")
		return nil, err
	}
	return s, nil
}

func open(path string, o options, logger zerolog.Logger) (*Session, error) {
	if o.width < 0 || o.height < 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, o.width, o.height)
	}
	if err := Init(); err != nil {
		return nil, err
	}

	s := &Session{
		path:       path,
		requestedW: o.width,
		requestedH: o.height,
		scaleFlags: o.scaleFlags,
		log:        logger,
		metrics:    o.metrics,
	}

	var err error
	s.formatCtx, err = openContainer(path)
	if err != nil {
		return nil, err
	}

	s.streamIndex, err = findVideoStream(s.formatCtx)
	if err != nil {
		s.release()
		return nil, fmt.Errorf("%w: %s", err, path)
	}
	w, h, pf := streamGeometry(s.formatCtx, s.streamIndex)
	logger.Debug().
		Int("stream", s.streamIndex).
		Int("width", w).Int("height", h).Stringer("pixel_format", pf).
		Msg("video stream selected")

	s.codecCtx, err = openCodec(s.formatCtx, s.streamIndex)
	if err != nil {
		s.release()
		return nil, err
	}

	s.rawW, s.rawH, _ = codecSize(s.codecCtx)
	s.dstW, s.dstH = effectiveSize(s.rawW, s.rawH, s.requestedW, s.requestedH)

	s.bufs, err = allocateBuffers(s.dstW, s.dstH)
	if err != nil {
		s.release()
		return nil, err
	}

	s.packet = avcodec.PacketAlloc()
	if s.packet == nil {
		s.release()
		return nil, wrap(ErrAllocation, "packet", nil)
	}

	s.info = describe(path, s.formatCtx, s.streamIndex, s.codecCtx)
	logger.Debug().
		Object("info", s.info).
		Int("dst_width", s.dstW).
		Int("dst_height", s.dstH).
		Msg("session open")

	s.state = stateOpen
	return s, nil
}

// Close releases every FFmpeg resource the session owns. It is safe to
// call more than once and always returns nil.
func (s *Session) Close() error {
	if s == nil || s.state == stateClosed {
		return nil
	}
	s.release()
	s.metrics.closed()
	s.log.Debug().Int64("frames", s.decoded).Msg("session closed")
	return nil
}

// release frees the buffer, the converted frame, the raw frame, the
// conversion context, the codec, the container and the packet, in that
// order, skipping whatever was never acquired.
func (s *Session) release() {
	s.state = stateClosed

	if s.bufs != nil {
		s.bufs.release()
		s.bufs = nil
		s.log.Debug().Msg("frames and pixel buffer released")
	}
	if s.scaler != nil {
		s.scaler.free()
		s.scaler = nil
		s.log.Debug().Msg("conversion context released")
	}
	if s.codecCtx != nil {
		avcodec.FreeContext(&s.codecCtx)
		s.log.Debug().Msg("codec released")
	}
	if s.formatCtx != nil {
		avformat.CloseInput(&s.formatCtx)
		s.log.Debug().Msg("container released")
	}
	if s.packet != nil {
		avcodec.PacketFree(&s.packet)
		s.log.Debug().Msg("packet released")
	}
	s.frame = Frame{}
}

// RawWidth returns the width of the decoded stream.
func (s *Session) RawWidth() (int, error) {
	if err := s.check(); err != nil {
		return 0, err
	}
	return s.rawW, nil
}

// RawHeight returns the height of the decoded stream.
func (s *Session) RawHeight() (int, error) {
	if err := s.check(); err != nil {
		return 0, err
	}
	return s.rawH, nil
}

// DstWidth returns the width of converted frames: the requested width when
// WithSize set both sides, the native width otherwise. It is never 0 on an
// open session; RequestedWidth returns the stored request, 0 if none.
func (s *Session) DstWidth() (int, error) {
	if err := s.check(); err != nil {
		return 0, err
	}
	return s.dstW, nil
}

// DstHeight returns the height of converted frames. See DstWidth; the
// stored request is RequestedHeight.
func (s *Session) DstHeight() (int, error) {
	if err := s.check(); err != nil {
		return 0, err
	}
	return s.dstH, nil
}

// RequestedWidth returns the width passed to WithSize, or 0.
func (s *Session) RequestedWidth() (int, error) {
	if err := s.check(); err != nil {
		return 0, err
	}
	return s.requestedW, nil
}

// RequestedHeight returns the height passed to WithSize, or 0.
func (s *Session) RequestedHeight() (int, error) {
	if err := s.check(); err != nil {
		return 0, err
	}
	return s.requestedH, nil
}

// Filename returns the path the session was opened with.
func (s *Session) Filename() (string, error) {
	if err := s.check(); err != nil {
		return "", err
	}
	return s.path, nil
}

// Info describes the input and the selected stream.
func (s *Session) Info() (Info, error) {
	if err := s.check(); err != nil {
		return Info{}, err
	}
	return s.info, nil
}

func (s *Session) check() error {
	if s == nil || s.state != stateOpen {
		return ErrNotOpen
	}
	return nil
}

func outcomeFor(err error) string {
	switch {
	case err == nil:
		return outcomeOK
	case errors.Is(err, ErrOpen):
		return outcomeOpen
	case errors.Is(err, ErrStreamInfo):
		return outcomeStreamInfo
	case errors.Is(err, ErrNoVideoStream):
		return outcomeNoVideo
	case errors.Is(err, ErrUnsupportedCodec):
		return outcomeUnsupported
	case errors.Is(err, ErrCodecOpen):
		return outcomeCodecOpen
	case errors.Is(err, ErrAllocation):
		return outcomeAllocation
	case errors.Is(err, ErrNotLoaded):
		return outcomeNotLoaded
	default:
		return outcomeInvalidInput
	}
}
