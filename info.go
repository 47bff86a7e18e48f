//go:build !ios && !android && (amd64 || arm64)

package ffframes

import (
	"time"

	"github.com/obinnaokechukwu/ffframes/avcodec"
	"github.com/obinnaokechukwu/ffframes/avformat"
	"github.com/rs/zerolog"
)

// Info describes the container and the video stream a session decodes.
type Info struct {
	Filename       string  `json:"filename"`
	Format         string  `json:"format"`
	FormatLongName string  `json:"format_long_name,omitempty"`
	StreamIndex    int     `json:"stream_index"`
	StreamCount    int     `json:"stream_count"`
	CodecID        CodecID `json:"codec_id"`
	Codec          string  `json:"codec"`
	PixelFormat    string  `json:"pixel_format"`
	Width          int     `json:"width"`
	Height         int     `json:"height"`

	// TimeBase is the decoder's time base after correction.
	TimeBase       Rational      `json:"time_base"`
	StreamTimeBase Rational      `json:"stream_time_base"`
	FrameRate      Rational      `json:"frame_rate"`
	Frames         int64         `json:"frames,omitempty"`
	Duration       time.Duration `json:"duration"`
	BitRate        int64         `json:"bit_rate"`
}

// describe gathers Info once the codec is open.
func describe(path string, ctx avformat.FormatContext, index int, codecCtx avcodec.Context) Info {
	stream := avformat.GetStream(ctx, index)
	par := avformat.GetStreamCodecPar(stream)
	id := avformat.GetCodecParCodecID(par)
	w, h, pf := codecSize(codecCtx)

	info := Info{
		Filename:       path,
		Format:         avformat.GetInputFormatName(ctx),
		FormatLongName: avformat.GetInputFormatLongName(ctx),
		StreamIndex:    index,
		StreamCount:    avformat.GetNumStreams(ctx),
		CodecID:        id,
		Codec:          id.String(),
		PixelFormat:    pf.String(),
		Width:          w,
		Height:         h,
		TimeBase:       avcodec.GetCtxTimeBase(codecCtx),
		StreamTimeBase: avformat.GetStreamTimeBase(stream),
		FrameRate:      avformat.GetStreamAvgFrameRate(stream),
		Frames:         avformat.GetStreamNbFrames(stream),
		BitRate:        avformat.GetBitRate(ctx),
	}
	if d := avformat.GetDuration(ctx); d > 0 {
		info.Duration = time.Duration(d) * (time.Second / avformat.TimeBase)
	}
	return info
}

// MarshalZerologObject logs the description as one event dictionary.
func (i Info) MarshalZerologObject(e *zerolog.Event) {
	e.Str("format", i.Format).
		Int("stream", i.StreamIndex).
		Int("streams", i.StreamCount).
		Str("codec", i.Codec).
		Str("pix_fmt", i.PixelFormat).
		Int("width", i.Width).
		Int("height", i.Height).
		Stringer("time_base", i.TimeBase).
		Stringer("frame_rate", i.FrameRate).
		Dur("duration", i.Duration).
		Int64("bit_rate", i.BitRate)
}
