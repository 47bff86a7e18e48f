//go:build !ios && !android && (amd64 || arm64)

package ffframes

import (
	"fmt"

	"github.com/obinnaokechukwu/ffframes/avcodec"
	"github.com/obinnaokechukwu/ffframes/avformat"
	"github.com/obinnaokechukwu/ffframes/avutil"
)

// correctTimeBase repairs the bogus time bases some codecs report, such as
// 90000/1, by giving them a millisecond denominator. Any other value is
// returned unchanged.
func correctTimeBase(tb Rational) Rational {
	if tb.Num > 1000 && tb.Den == 1 {
		return Rational{Num: tb.Num, Den: 1000}
	}
	return tb
}

// openCodec opens a decoder for stream index of ctx. The returned context
// already carries the corrected time base.
func openCodec(ctx avformat.FormatContext, index int) (avcodec.Context, error) {
	par := avformat.GetStreamCodecPar(avformat.GetStream(ctx, index))
	id := avformat.GetCodecParCodecID(par)

	codec := avcodec.FindDecoder(id)
	if codec == nil {
		return nil, wrap(ErrUnsupportedCodec, fmt.Sprintf("%s (id %d)", id, int32(id)), nil)
	}

	codecCtx := avcodec.AllocContext3(codec)
	if codecCtx == nil {
		return nil, wrap(ErrAllocation, "codec context", nil)
	}

	if err := avcodec.ParametersToContext(codecCtx, par); err != nil {
		avcodec.FreeContext(&codecCtx)
		return nil, wrap(ErrCodecOpen, "copy stream parameters", err)
	}

	if err := avcodec.Open2(codecCtx, codec); err != nil {
		avcodec.FreeContext(&codecCtx)
		return nil, wrap(ErrCodecOpen, avcodec.GetCodecName(codec), err)
	}

	tb := avcodec.GetCtxTimeBase(codecCtx)
	if fixed := correctTimeBase(tb); fixed != tb {
		avcodec.SetCtxTimeBase(codecCtx, fixed)
	}

	return codecCtx, nil
}

// codecSize returns the decoder's native frame size and pixel format.
func codecSize(codecCtx avcodec.Context) (width, height int, pf avutil.PixelFormat) {
	return int(avcodec.GetCtxWidth(codecCtx)), int(avcodec.GetCtxHeight(codecCtx)), avcodec.GetCtxPixFmt(codecCtx)
}
