//go:build !ios && !android && (amd64 || arm64)

package ffframes

import (
	"fmt"
	"io"
	"time"

	"github.com/obinnaokechukwu/ffframes/avcodec"
	"github.com/obinnaokechukwu/ffframes/avformat"
	"github.com/obinnaokechukwu/ffframes/avutil"
	"github.com/obinnaokechukwu/ffframes/swscale"
)

// Pipeline stages, used as the metrics label for skipped failures.
const (
	stageRead     = "read"
	stageSend     = "send"
	stageReceive  = "receive"
	stageGeometry = "geometry"
	stageScale    = "scale"
)

// converter turns decoded frames of one fixed geometry into the session's
// RGB24 frame.
type converter struct {
	ctx    swscale.Context
	srcW   int
	srcH   int
	srcFmt avutil.PixelFormat
}

func newConverter(srcW, srcH int, srcFmt avutil.PixelFormat, dstW, dstH int, flags ScaleFlags) (*converter, error) {
	if !swscale.IsSupportedInput(srcFmt) || !swscale.IsSupportedOutput(avutil.PixelFormatRGB24) {
		return nil, wrap(ErrAllocation, fmt.Sprintf("conversion context: swscale cannot convert %s to rgb24", srcFmt), nil)
	}
	ctx := swscale.GetContext(srcW, srcH, srcFmt, dstW, dstH, avutil.PixelFormatRGB24, flags)
	if ctx == nil {
		return nil, wrap(ErrAllocation, fmt.Sprintf("conversion context %dx%d %s -> %dx%d rgb24", srcW, srcH, srcFmt, dstW, dstH), nil)
	}
	return &converter{ctx: ctx, srcW: srcW, srcH: srcH, srcFmt: srcFmt}, nil
}

func (c *converter) matches(w, h int, pf avutil.PixelFormat) bool {
	return c.srcW == w && c.srcH == h && c.srcFmt == pf
}

func (c *converter) convert(dst, src avutil.Frame) error {
	_, err := swscale.ScaleFrame(c.ctx, dst, src)
	return err
}

func (c *converter) free() {
	if c == nil || c.ctx == nil {
		return
	}
	swscale.FreeContext(c.ctx)
	c.ctx = nil
}

// Next decodes the next frame of the video stream and returns it converted
// to RGB24 at the session's effective size. The returned Frame views the
// session's buffer and is only valid until the next call to Next or Close;
// use Frame.Clone to keep it.
//
// At the end of the stream Next returns io.EOF, and keeps doing so.
// Packets or frames FFmpeg rejects are skipped; only allocation failures
// end decoding with an error.
func (s *Session) Next() (*Frame, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	if s.eof {
		return nil, io.EOF
	}

	for {
		err := avcodec.ReceiveFrame(s.codecCtx, s.bufs.raw)
		switch {
		case err == nil:
			frame, err := s.convert()
			avutil.FrameUnref(s.bufs.raw)
			if err != nil {
				return nil, err
			}
			if frame != nil {
				return frame, nil
			}
			continue

		case avutil.IsEOF(err):
			return nil, s.endOfStream()

		case avutil.IsAgain(err):
			if s.draining {
				return nil, s.endOfStream()
			}

		default:
			s.skip(stageReceive, err)
			if s.draining {
				return nil, s.endOfStream()
			}
		}

		s.feed()
	}
}

// feed sends the next packet of the video stream to the decoder, or puts
// the decoder into draining mode once the input is exhausted.
func (s *Session) feed() {
	for {
		if err := avformat.ReadFrame(s.formatCtx, s.packet); err != nil {
			s.readFailed(err)
			s.draining = true
			if err := avcodec.SendPacket(s.codecCtx, nil); err != nil {
				s.skip(stageSend, err)
			}
			return
		}

		if int(avcodec.GetPacketStreamIndex(s.packet)) != s.streamIndex {
			avcodec.PacketUnref(s.packet)
			continue
		}

		err := avcodec.SendPacket(s.codecCtx, s.packet)
		avcodec.PacketUnref(s.packet)
		if err != nil {
			s.skip(stageSend, err)
			continue
		}
		return
	}
}

// convert turns the decoded frame into the session's RGB24 frame. A nil
// frame with a nil error means the decoded frame was skipped.
func (s *Session) convert() (*Frame, error) {
	w := int(avutil.GetFrameWidth(s.bufs.raw))
	h := int(avutil.GetFrameHeight(s.bufs.raw))
	pf := avutil.PixelFormat(avutil.GetFrameFormat(s.bufs.raw))

	if s.scaler == nil {
		c, err := newConverter(w, h, pf, s.dstW, s.dstH, s.scaleFlags)
		if err != nil {
			return nil, err
		}
		s.scaler = c
		s.log.Debug().
			Int("src_width", w).Int("src_height", h).Stringer("src_format", pf).
			Int("dst_width", s.dstW).Int("dst_height", s.dstH).Stringer("flags", s.scaleFlags).
			Msg("conversion context ready")
	} else if !s.scaler.matches(w, h, pf) {
		s.skip(stageGeometry, fmt.Errorf("frame %dx%d %s does not match conversion context %dx%d %s",
			w, h, pf, s.scaler.srcW, s.scaler.srcH, s.scaler.srcFmt))
		return nil, nil
	}

	start := time.Now()
	if err := s.scaler.convert(s.bufs.rgb, s.bufs.raw); err != nil {
		s.skip(stageScale, err)
		return nil, nil
	}
	s.metrics.frameDecoded(time.Since(start))

	s.frame = Frame{
		data:   s.bufs.bytes(),
		width:  s.dstW,
		height: s.dstH,
		stride: int(avutil.GetFrameLinesizePlane(s.bufs.rgb, 0)),
		index:  s.decoded,
		pts:    avutil.GetFramePTS(s.bufs.raw),
	}
	s.decoded++
	return &s.frame, nil
}

func (s *Session) skip(stage string, err error) {
	s.metrics.transient(stage)
	s.log.Debug().Err(err).Str("stage", stage).Msg("skipping undecodable input")
}

// readFailed records why the input stopped. A read error other than end of
// file still ends the stream, so it is logged at warn level.
func (s *Session) readFailed(err error) {
	if avutil.IsEOF(err) {
		return
	}
	s.metrics.transient(stageRead)
	s.log.Warn().Err(err).Int64("frames", s.decoded).Msg("input ended early")
}

func (s *Session) endOfStream() error {
	if !s.eof {
		s.eof = true
		s.log.Debug().Int64("frames", s.decoded).Msg("end of stream")
	}
	return io.EOF
}
