//go:build !ios && !android && (amd64 || arm64)

// Package avformat provides bindings to the demuxing half of FFmpeg's
// libavformat library.
package avformat

import (
	"runtime"
	"unsafe"

	"github.com/ebitengine/purego"
	"github.com/obinnaokechukwu/ffframes/avcodec"
	"github.com/obinnaokechukwu/ffframes/avutil"
	"github.com/obinnaokechukwu/ffframes/internal/bindings"
	ffshim "github.com/obinnaokechukwu/ffframes/internal/shim"
)

// FormatContext is an opaque FFmpeg AVFormatContext pointer.
type FormatContext = unsafe.Pointer

// InputFormat is an opaque FFmpeg AVInputFormat pointer.
type InputFormat = unsafe.Pointer

// Stream is an opaque FFmpeg AVStream pointer.
type Stream = unsafe.Pointer

// MediaType aliases for convenience
const (
	MediaTypeUnknown = avutil.MediaTypeUnknown
	MediaTypeVideo   = avutil.MediaTypeVideo
	MediaTypeAudio   = avutil.MediaTypeAudio
)

// TimeBase is AV_TIME_BASE, the unit of container-level durations.
const TimeBase = 1000000

var (
	avformatOpenInput      func(ctx *unsafe.Pointer, url string, fmt, options unsafe.Pointer) int32
	avformatCloseInput     func(ctx *unsafe.Pointer)
	avformatFindStreamInfo func(ctx unsafe.Pointer, options *unsafe.Pointer) int32

	avReadFrame func(ctx, pkt unsafe.Pointer) int32

	bindingsRegistered bool
)

func init() {
	registerBindings()
}

func registerBindings() {
	if bindingsRegistered {
		return
	}

	if err := bindings.Load(); err != nil {
		return
	}

	lib := bindings.LibAVFormat()
	if lib == 0 {
		return
	}

	purego.RegisterLibFunc(&avformatOpenInput, lib, "avformat_open_input")
	purego.RegisterLibFunc(&avformatCloseInput, lib, "avformat_close_input")
	purego.RegisterLibFunc(&avformatFindStreamInfo, lib, "avformat_find_stream_info")
	purego.RegisterLibFunc(&avReadFrame, lib, "av_read_frame")

	bindingsRegistered = true
}

// OpenInput opens a media file and reads its header. On failure *ctx is
// left nil; FFmpeg frees a partially opened context itself.
func OpenInput(ctx *FormatContext, url string) error {
	if avformatOpenInput == nil {
		return bindings.ErrNotLoaded
	}
	ret := avformatOpenInput(ctx, url, nil, nil)
	runtime.KeepAlive(url)
	if ret < 0 {
		return avutil.NewError(ret, "avformat_open_input")
	}
	return nil
}

// CloseInput closes an input file and frees the context.
func CloseInput(ctx *FormatContext) {
	if ctx == nil || *ctx == nil || avformatCloseInput == nil {
		return
	}
	avformatCloseInput(ctx)
	*ctx = nil
}

// FindStreamInfo reads packets to get stream info.
func FindStreamInfo(ctx FormatContext) error {
	if avformatFindStreamInfo == nil {
		return bindings.ErrNotLoaded
	}
	ret := avformatFindStreamInfo(ctx, nil)
	if ret < 0 {
		return avutil.NewError(ret, "avformat_find_stream_info")
	}
	return nil
}

// ReadFrame reads the next packet of any stream into pkt.
// End of input comes back as an *avutil.Error satisfying avutil.IsEOF.
func ReadFrame(ctx FormatContext, pkt avcodec.Packet) error {
	if avReadFrame == nil {
		return bindings.ErrNotLoaded
	}
	ret := avReadFrame(ctx, pkt)
	if ret < 0 {
		return avutil.NewError(ret, "av_read_frame")
	}
	return nil
}

// AVFormatContext field offsets. Everything up to streams is stable
// across avformat 59-62; duration and bit_rate moved when stream groups
// were added in avformat 61.
const (
	offsetInputFormat = 8  // const AVInputFormat *iformat
	offsetNumStreams  = 44 // unsigned int nb_streams
	offsetStreams     = 48 // AVStream **streams

	offsetDuration60 = 72 // int64_t duration
	offsetBitRate60  = 80 // int64_t bit_rate

	offsetDuration61 = 104
	offsetBitRate61  = 112
)

func durationOffsets() (duration, bitRate uintptr) {
	if bindings.AVFormatVersion()>>16 >= 61 {
		return offsetDuration61, offsetBitRate61
	}
	return offsetDuration60, offsetBitRate60
}

// GetNumStreams returns the number of streams in the context.
func GetNumStreams(ctx FormatContext) int {
	if ctx == nil {
		return 0
	}
	return int(*(*uint32)(unsafe.Add(ctx, offsetNumStreams)))
}

// GetStream returns the stream at the given index.
func GetStream(ctx FormatContext, index int) Stream {
	if ctx == nil || index < 0 {
		return nil
	}
	numStreams := GetNumStreams(ctx)
	if index >= numStreams {
		return nil
	}
	streamsPtr := *(*unsafe.Pointer)(unsafe.Add(ctx, offsetStreams))
	if streamsPtr == nil {
		return nil
	}
	return unsafe.Slice((*unsafe.Pointer)(streamsPtr), numStreams)[index]
}

// GetDuration returns the container duration in TimeBase units.
func GetDuration(ctx FormatContext) int64 {
	if ctx == nil {
		return 0
	}
	if v, err := ffshim.FormatCtxDuration(ctx); err == nil {
		return v
	}
	off, _ := durationOffsets()
	return *(*int64)(unsafe.Add(ctx, off))
}

// GetBitRate returns the total stream bit rate in bit/s, or 0 if unknown.
func GetBitRate(ctx FormatContext) int64 {
	if ctx == nil {
		return 0
	}
	if v, err := ffshim.FormatCtxBitRate(ctx); err == nil {
		return v
	}
	_, off := durationOffsets()
	return *(*int64)(unsafe.Add(ctx, off))
}

// AVInputFormat begins with name and long_name.
const (
	offsetInputFormatName     = 0
	offsetInputFormatLongName = 8
)

// GetInputFormatName returns the demuxer's short name, such as
// "mov,mp4,m4a,3gp,3g2,mj2".
func GetInputFormatName(ctx FormatContext) string {
	return inputFormatString(ctx, offsetInputFormatName)
}

// GetInputFormatLongName returns the demuxer's descriptive name.
func GetInputFormatLongName(ctx FormatContext) string {
	return inputFormatString(ctx, offsetInputFormatLongName)
}

func inputFormatString(ctx FormatContext, off uintptr) string {
	if ctx == nil {
		return ""
	}
	ifmt := *(*unsafe.Pointer)(unsafe.Add(ctx, offsetInputFormat))
	if ifmt == nil {
		return ""
	}
	return goString(*(*unsafe.Pointer)(unsafe.Add(ifmt, off)))
}

func goString(ptr unsafe.Pointer) string {
	if ptr == nil {
		return ""
	}
	var n int
	for *(*byte)(unsafe.Add(ptr, n)) != 0 {
		n++
	}
	return string(unsafe.Slice((*byte)(ptr), n))
}

// AVStream field offsets, stable since avformat 59.
const (
	offsetStreamIndex        = 8  // int index
	offsetStreamCodecPar     = 16 // AVCodecParameters *codecpar
	offsetStreamTimeBase     = 32 // AVRational time_base
	offsetStreamNbFrames     = 56 // int64_t nb_frames
	offsetStreamAvgFrameRate = 88 // AVRational avg_frame_rate
)

// GetStreamIndex returns the stream index.
func GetStreamIndex(stream Stream) int32 {
	if stream == nil {
		return -1
	}
	return *(*int32)(unsafe.Add(stream, offsetStreamIndex))
}

// GetStreamCodecPar returns the codec parameters for the stream.
func GetStreamCodecPar(stream Stream) avcodec.Parameters {
	if stream == nil {
		return nil
	}
	return *(*unsafe.Pointer)(unsafe.Add(stream, offsetStreamCodecPar))
}

// GetStreamTimeBase returns the unit of the stream's packet timestamps.
func GetStreamTimeBase(stream Stream) avutil.Rational {
	if stream == nil {
		return avutil.Rational{}
	}
	return *(*avutil.Rational)(unsafe.Add(stream, offsetStreamTimeBase))
}

// GetStreamAvgFrameRate returns the demuxer's average frame rate, 0/0 if unknown.
func GetStreamAvgFrameRate(stream Stream) avutil.Rational {
	if stream == nil {
		return avutil.Rational{}
	}
	return *(*avutil.Rational)(unsafe.Add(stream, offsetStreamAvgFrameRate))
}

// GetStreamNbFrames returns the frame count the container declares, or 0.
func GetStreamNbFrames(stream Stream) int64 {
	if stream == nil {
		return 0
	}
	return *(*int64)(unsafe.Add(stream, offsetStreamNbFrames))
}

// AVCodecParameters field offsets, stable since avcodec 59.
const (
	offsetCodecParType    = 0  // enum AVMediaType codec_type
	offsetCodecParCodecID = 4  // enum AVCodecID codec_id
	offsetCodecParFormat  = 28 // int format
	offsetCodecParWidth   = 56 // int width
	offsetCodecParHeight  = 60 // int height
)

// GetCodecParType returns the media type of the parameters.
func GetCodecParType(par avcodec.Parameters) avutil.MediaType {
	if par == nil {
		return avutil.MediaTypeUnknown
	}
	return avutil.MediaType(*(*int32)(unsafe.Add(par, offsetCodecParType)))
}

// GetCodecParCodecID returns the codec ID of the parameters.
func GetCodecParCodecID(par avcodec.Parameters) avcodec.CodecID {
	if par == nil {
		return avcodec.CodecIDNone
	}
	return avcodec.CodecID(*(*int32)(unsafe.Add(par, offsetCodecParCodecID)))
}

// GetCodecParWidth returns the coded width.
func GetCodecParWidth(par avcodec.Parameters) int32 {
	if par == nil {
		return 0
	}
	return *(*int32)(unsafe.Add(par, offsetCodecParWidth))
}

// GetCodecParHeight returns the coded height.
func GetCodecParHeight(par avcodec.Parameters) int32 {
	if par == nil {
		return 0
	}
	return *(*int32)(unsafe.Add(par, offsetCodecParHeight))
}

// GetCodecParFormat returns the pixel format of video parameters.
func GetCodecParFormat(par avcodec.Parameters) avutil.PixelFormat {
	if par == nil {
		return avutil.PixelFormatNone
	}
	return avutil.PixelFormat(*(*int32)(unsafe.Add(par, offsetCodecParFormat)))
}
