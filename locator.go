//go:build !ios && !android && (amd64 || arm64)

package ffframes

import (
	"github.com/obinnaokechukwu/ffframes/avformat"
	"github.com/obinnaokechukwu/ffframes/avutil"
)

// openContainer opens path and reads enough of it to describe its streams.
// On failure nothing stays allocated.
func openContainer(path string) (avformat.FormatContext, error) {
	var ctx avformat.FormatContext
	if err := avformat.OpenInput(&ctx, path); err != nil {
		return nil, wrap(ErrOpen, path, err)
	}

	if err := avformat.FindStreamInfo(ctx); err != nil {
		avformat.CloseInput(&ctx)
		return nil, wrap(ErrStreamInfo, path, err)
	}

	return ctx, nil
}

// findVideoStream returns the index of the first video stream in container
// order. Later video streams are never considered.
func findVideoStream(ctx avformat.FormatContext) (int, error) {
	n := avformat.GetNumStreams(ctx)
	for i := 0; i < n; i++ {
		stream := avformat.GetStream(ctx, i)
		par := avformat.GetStreamCodecPar(stream)
		if avformat.GetCodecParType(par) == avutil.MediaTypeVideo {
			return int(avformat.GetStreamIndex(stream)), nil
		}
	}
	return -1, ErrNoVideoStream
}

// streamGeometry reports the size and pixel format the container declares
// for stream index, before any decoder is opened.
func streamGeometry(ctx avformat.FormatContext, index int) (width, height int, pf avutil.PixelFormat) {
	par := avformat.GetStreamCodecPar(avformat.GetStream(ctx, index))
	return int(avformat.GetCodecParWidth(par)), int(avformat.GetCodecParHeight(par)), avformat.GetCodecParFormat(par)
}
