//go:build !ios && !android && (amd64 || arm64)

// Package avcodec provides bindings to the decoding half of FFmpeg's
// libavcodec library.
package avcodec

import (
	"runtime"
	"unsafe"

	"github.com/ebitengine/purego"
	"github.com/obinnaokechukwu/ffframes/avutil"
	"github.com/obinnaokechukwu/ffframes/internal/bindings"
	ffshim "github.com/obinnaokechukwu/ffframes/internal/shim"
)

// Codec is an opaque FFmpeg AVCodec pointer.
type Codec = unsafe.Pointer

// Context is an opaque FFmpeg AVCodecContext pointer.
type Context = unsafe.Pointer

// Packet is an opaque FFmpeg AVPacket pointer.
type Packet = unsafe.Pointer

// Parameters is an opaque FFmpeg AVCodecParameters pointer.
type Parameters = unsafe.Pointer

var (
	avcodecFindDecoder     func(id int32) uintptr
	avcodecAllocContext3   func(codec uintptr) uintptr
	avcodecFreeContext     func(ctx *unsafe.Pointer)
	avcodecOpen2           func(ctx, codec uintptr, options *unsafe.Pointer) int32
	avcodecSendPacket      func(ctx, pkt uintptr) int32
	avcodecReceiveFrame    func(ctx, frame uintptr) int32
	avcodecParametersToCtx func(ctx, par uintptr) int32
	avcodecGetName         func(id int32) string

	avPacketAlloc func() uintptr
	avPacketFree  func(pkt *unsafe.Pointer)
	avPacketUnref func(pkt uintptr)

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

	lib := bindings.LibAVCodec()
	if lib == 0 {
		return
	}

	purego.RegisterLibFunc(&avcodecFindDecoder, lib, "avcodec_find_decoder")
	purego.RegisterLibFunc(&avcodecAllocContext3, lib, "avcodec_alloc_context3")
	purego.RegisterLibFunc(&avcodecFreeContext, lib, "avcodec_free_context")
	purego.RegisterLibFunc(&avcodecOpen2, lib, "avcodec_open2")
	purego.RegisterLibFunc(&avcodecSendPacket, lib, "avcodec_send_packet")
	purego.RegisterLibFunc(&avcodecReceiveFrame, lib, "avcodec_receive_frame")
	purego.RegisterLibFunc(&avcodecParametersToCtx, lib, "avcodec_parameters_to_context")
	bindings.RegisterOptional(&avcodecGetName, lib, "avcodec_get_name")

	purego.RegisterLibFunc(&avPacketAlloc, lib, "av_packet_alloc")
	purego.RegisterLibFunc(&avPacketFree, lib, "av_packet_free")
	purego.RegisterLibFunc(&avPacketUnref, lib, "av_packet_unref")

	bindingsRegistered = true
}

// FindDecoder finds a decoder by codec ID.
func FindDecoder(id CodecID) Codec {
	if avcodecFindDecoder == nil {
		return nil
	}
	return unsafe.Pointer(avcodecFindDecoder(int32(id)))
}

// AllocContext3 allocates a codec context.
func AllocContext3(codec Codec) Context {
	if avcodecAllocContext3 == nil {
		return nil
	}
	return unsafe.Pointer(avcodecAllocContext3(uintptr(codec)))
}

// FreeContext closes and frees a codec context and sets *ctx to nil.
func FreeContext(ctx *Context) {
	if ctx == nil || *ctx == nil || avcodecFreeContext == nil {
		return
	}

	// Stage the pointer-to-pointer in FFmpeg memory; handing foreign code a
	// pointer into Go memory that it writes through aborts on some purego
	// backends.
	tmp := avutil.Malloc(unsafe.Sizeof(uintptr(0)))
	if tmp != nil {
		*(*unsafe.Pointer)(tmp) = *ctx
		avcodecFreeContext((*unsafe.Pointer)(tmp))
		avutil.Free(tmp)
		*ctx = nil
		return
	}

	avcodecFreeContext(ctx)
	*ctx = nil
}

// Open2 opens a codec context with default options.
func Open2(ctx Context, codec Codec) error {
	if avcodecOpen2 == nil {
		return bindings.ErrNotLoaded
	}
	ret := avcodecOpen2(uintptr(ctx), uintptr(codec), nil)
	if ret < 0 {
		return avutil.NewError(ret, "avcodec_open2")
	}
	return nil
}

// SendPacket sends a packet to the decoder.
// Pass nil to enter draining mode.
func SendPacket(ctx Context, pkt Packet) error {
	if avcodecSendPacket == nil {
		return bindings.ErrNotLoaded
	}
	ret := avcodecSendPacket(uintptr(ctx), uintptr(pkt))
	runtime.KeepAlive(pkt)
	if ret < 0 && ret != avutil.AVERROR_EAGAIN && ret != avutil.AVERROR_EOF {
		return avutil.NewError(ret, "avcodec_send_packet")
	}
	return nil
}

// ReceiveFrame receives a decoded frame from the decoder.
// EAGAIN (more input needed) and EOF (drained) come back as *avutil.Error;
// test them with avutil.IsAgain and avutil.IsEOF.
func ReceiveFrame(ctx Context, frame avutil.Frame) error {
	if avcodecReceiveFrame == nil {
		return bindings.ErrNotLoaded
	}
	ret := avcodecReceiveFrame(uintptr(ctx), uintptr(frame))
	if ret < 0 {
		return avutil.NewError(ret, "avcodec_receive_frame")
	}
	return nil
}

// ParametersToContext copies codec parameters to a context.
func ParametersToContext(ctx Context, par Parameters) error {
	if avcodecParametersToCtx == nil {
		return bindings.ErrNotLoaded
	}
	ret := avcodecParametersToCtx(uintptr(ctx), uintptr(par))
	if ret < 0 {
		return avutil.NewError(ret, "avcodec_parameters_to_context")
	}
	return nil
}

// PacketAlloc allocates a packet.
func PacketAlloc() Packet {
	if avPacketAlloc == nil {
		return nil
	}
	return unsafe.Pointer(avPacketAlloc())
}

// PacketFree frees a packet.
func PacketFree(pkt *Packet) {
	if pkt == nil || *pkt == nil || avPacketFree == nil {
		return
	}
	avPacketFree(pkt)
	*pkt = nil
}

// PacketUnref unreferences a packet's buffers.
func PacketUnref(pkt Packet) {
	if pkt == nil || avPacketUnref == nil {
		return
	}
	avPacketUnref(uintptr(pkt))
}

// AVCodec begins with const char *name.
const offsetCodecName = 0

// GetCodecName returns the short name of the codec implementation.
func GetCodecName(codec Codec) string {
	if codec == nil {
		return ""
	}
	return goString(*(*unsafe.Pointer)(unsafe.Add(codec, offsetCodecName)))
}

// goString converts a C string to a Go string.
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

// offsetPacketStreamIndex locates AVPacket.stream_index, stable since
// avcodec 59.
const offsetPacketStreamIndex = 36

// GetPacketStreamIndex returns the stream index.
func GetPacketStreamIndex(pkt Packet) int32 {
	if pkt == nil {
		return -1
	}
	return *(*int32)(unsafe.Add(pkt, offsetPacketStreamIndex))
}

// AVCodecContext field offsets for avcodec 60. They are the last resort:
// the getters below try the shim, then AVOptions, before reading memory.
const (
	offsetCtxTimeBase = 100 // AVRational time_base
	offsetCtxWidth    = 116 // int width
	offsetCtxHeight   = 120 // int height
	offsetCtxPixFmt   = 136 // enum AVPixelFormat pix_fmt
)

// GetCtxWidth returns the width from codec context.
func GetCtxWidth(ctx Context) int32 {
	if ctx == nil {
		return 0
	}
	if v, err := ffshim.CodecCtxWidth(ctx); err == nil {
		return v
	}
	if w, _, err := avutil.OptGetImageSize(ctx, "video_size"); err == nil {
		return w
	}
	return *(*int32)(unsafe.Add(ctx, offsetCtxWidth))
}

// GetCtxHeight returns the height from codec context.
func GetCtxHeight(ctx Context) int32 {
	if ctx == nil {
		return 0
	}
	if v, err := ffshim.CodecCtxHeight(ctx); err == nil {
		return v
	}
	if _, h, err := avutil.OptGetImageSize(ctx, "video_size"); err == nil {
		return h
	}
	return *(*int32)(unsafe.Add(ctx, offsetCtxHeight))
}

// GetCtxPixFmt returns the pixel format from codec context.
func GetCtxPixFmt(ctx Context) avutil.PixelFormat {
	if ctx == nil {
		return avutil.PixelFormatNone
	}
	if v, err := ffshim.CodecCtxPixFmt(ctx); err == nil {
		return avutil.PixelFormat(v)
	}
	if f, err := avutil.OptGetPixelFormat(ctx, "pixel_format"); err == nil {
		return f
	}
	return avutil.PixelFormat(*(*int32)(unsafe.Add(ctx, offsetCtxPixFmt)))
}

// GetCtxTimeBase returns the time base from codec context.
func GetCtxTimeBase(ctx Context) avutil.Rational {
	if ctx == nil {
		return avutil.Rational{}
	}
	if num, den, err := ffshim.CodecCtxTimeBase(ctx); err == nil {
		return avutil.Rational{Num: num, Den: den}
	}
	if q, err := avutil.OptGetRational(ctx, "time_base"); err == nil {
		return q
	}
	return *(*avutil.Rational)(unsafe.Add(ctx, offsetCtxTimeBase))
}

// SetCtxTimeBase sets the time base in codec context.
func SetCtxTimeBase(ctx Context, tb avutil.Rational) {
	if ctx == nil {
		return
	}
	if err := ffshim.CodecCtxSetTimeBase(ctx, tb.Num, tb.Den); err == nil {
		return
	}
	if err := avutil.OptSetRational(ctx, "time_base", tb); err == nil {
		return
	}
	*(*avutil.Rational)(unsafe.Add(ctx, offsetCtxTimeBase)) = tb
}
