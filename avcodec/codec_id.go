//go:build !ios && !android && (amd64 || arm64)

package avcodec

import "strconv"

// CodecID represents FFmpeg codec identifiers.
type CodecID int32

// Video codec IDs seen in the common containers.
const (
	CodecIDNone       CodecID = 0
	CodecIDMPEG1VIDEO CodecID = 1
	CodecIDMPEG2VIDEO CodecID = 2
	CodecIDH263       CodecID = 4
	CodecIDMJPEG      CodecID = 7
	CodecIDMPEG4      CodecID = 12
	CodecIDRAWVIDEO   CodecID = 13
	CodecIDH264       CodecID = 27
	CodecIDVP8        CodecID = 139
	CodecIDVP9        CodecID = 167
	CodecIDHEVC       CodecID = 173 // H.265
	CodecIDAV1        CodecID = 226
)

// String returns FFmpeg's descriptor name for the codec ID, such as "h264".
func (id CodecID) String() string {
	if avcodecGetName != nil {
		return avcodecGetName(int32(id))
	}
	switch id {
	case CodecIDNone:
		return "none"
	case CodecIDMPEG1VIDEO:
		return "mpeg1video"
	case CodecIDMPEG2VIDEO:
		return "mpeg2video"
	case CodecIDH263:
		return "h263"
	case CodecIDMJPEG:
		return "mjpeg"
	case CodecIDMPEG4:
		return "mpeg4"
	case CodecIDRAWVIDEO:
		return "rawvideo"
	case CodecIDH264:
		return "h264"
	case CodecIDVP8:
		return "vp8"
	case CodecIDVP9:
		return "vp9"
	case CodecIDHEVC:
		return "hevc"
	case CodecIDAV1:
		return "av1"
	}
	return "codec(" + strconv.Itoa(int(id)) + ")"
}
