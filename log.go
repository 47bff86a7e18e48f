//go:build !ios && !android && (amd64 || arm64)

package ffframes

import (
	"fmt"
	"strings"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
	"github.com/obinnaokechukwu/ffframes/avutil"
	"github.com/obinnaokechukwu/ffframes/internal/shim"
	"github.com/rs/zerolog"
)

// LogLevel represents FFmpeg log levels.
type LogLevel int32

// Log level constants matching FFmpeg's AV_LOG_* values.
const (
	LogQuiet   LogLevel = -8 // Print no output
	LogPanic   LogLevel = 0  // Something went really wrong, crash
	LogFatal   LogLevel = 8  // Something went wrong, exit now
	LogError   LogLevel = 16 // Something went wrong, recovery possible
	LogWarning LogLevel = 24 // Something unexpected but recovery possible
	LogInfo    LogLevel = 32 // Standard information
	LogVerbose LogLevel = 40 // Detailed information
	LogDebug   LogLevel = 48 // Stuff for debugging
	LogTrace   LogLevel = 56 // Extremely verbose debugging
)

// String returns the string representation of the log level.
func (l LogLevel) String() string {
	switch {
	case l <= LogQuiet:
		return "quiet"
	case l <= LogPanic:
		return "panic"
	case l <= LogFatal:
		return "fatal"
	case l <= LogError:
		return "error"
	case l <= LogWarning:
		return "warning"
	case l <= LogInfo:
		return "info"
	case l <= LogVerbose:
		return "verbose"
	case l <= LogDebug:
		return "debug"
	default:
		return "trace"
	}
}

// ParseLogLevel parses the names String returns. "warn" is accepted for
// "warning".
func ParseLogLevel(s string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "quiet":
		return LogQuiet, nil
	case "panic":
		return LogPanic, nil
	case "fatal":
		return LogFatal, nil
	case "error":
		return LogError, nil
	case "warning", "warn":
		return LogWarning, nil
	case "info":
		return LogInfo, nil
	case "verbose":
		return LogVerbose, nil
	case "debug":
		return LogDebug, nil
	case "trace":
		return LogTrace, nil
	}
	return 0, fmt.Errorf("ffframes: unknown FFmpeg log level %q", s)
}

// zerologLevel maps an FFmpeg level onto the closest zerolog level.
func (l LogLevel) zerologLevel() zerolog.Level {
	switch {
	case l <= LogPanic:
		return zerolog.PanicLevel
	case l <= LogFatal:
		return zerolog.FatalLevel
	case l <= LogError:
		return zerolog.ErrorLevel
	case l <= LogWarning:
		return zerolog.WarnLevel
	case l <= LogInfo:
		return zerolog.InfoLevel
	case l <= LogDebug:
		return zerolog.DebugLevel
	default:
		return zerolog.TraceLevel
	}
}

var (
	forwardMu     sync.Mutex
	forwardLogger *zerolog.Logger
	forwardHandle uintptr
)

// SetLogLevel sets the level of messages FFmpeg emits, on its own stderr
// output and through ForwardLogs alike.
func SetLogLevel(level LogLevel) error {
	if err := Init(); err != nil {
		return err
	}
	if err := avutil.LogSetLevel(int32(level)); err != nil {
		return err
	}
	if shim.IsLoaded() {
		return shim.SetLogLevel(int32(level))
	}
	return nil
}

// GetLogLevel returns the level FFmpeg currently logs at.
func GetLogLevel() (LogLevel, error) {
	if err := Init(); err != nil {
		return LogQuiet, err
	}
	return LogLevel(avutil.LogGetLevel()), nil
}

// ForwardLogs sends FFmpeg's log messages to l instead of stderr. Pass a
// disabled logger (zerolog.Nop()) to restore FFmpeg's default output.
// Forwarding needs the ffshim helper library; without it ForwardLogs
// returns an error and FFmpeg keeps writing to stderr. Messages longer than
// 4096 bytes are cut and marked " [truncated]".
func ForwardLogs(l zerolog.Logger) error {
	if err := Init(); err != nil {
		return err
	}
	if !shim.IsLoaded() {
		return fmt.Errorf("%w: %v", shim.ErrShimNotLoaded, shim.LoadError())
	}

	forwardMu.Lock()
	defer forwardMu.Unlock()

	if l.GetLevel() == zerolog.Disabled {
		forwardLogger = nil
		return shim.SetLogCallback(0)
	}

	l = l.With().Str("component", "ffmpeg").Logger()
	forwardLogger = &l
	if forwardHandle == 0 {
		forwardHandle = purego.NewCallback(logTrampoline)
	}
	return shim.SetLogCallback(forwardHandle)
}

// logTrampoline is called by the shim with an already formatted message.
// Signature: void (*)(void *avcl, int level, const char *msg)
func logTrampoline(_ purego.CDecl, _ unsafe.Pointer, level int32, msg *byte) {
	forwardMu.Lock()
	l := forwardLogger
	forwardMu.Unlock()

	if l == nil || msg == nil {
		return
	}

	text := strings.TrimRight(cString(msg), "\n")
	if text == "" {
		return
	}
	l.WithLevel(LogLevel(level).zerologLevel()).Int32("av_level", level).Msg(text)
}

// maxLogLine bounds how much of one FFmpeg log message is copied.
const maxLogLine = 4096

// cString copies a NUL-terminated C string. Longer strings are cut at
// maxLogLine bytes and end in " [truncated]".
func cString(p *byte) string {
	n := 0
	for *(*byte)(unsafe.Add(unsafe.Pointer(p), n)) != 0 {
		if n == maxLogLine {
			return string(unsafe.Slice(p, n)) + " [truncated]"
		}
		n++
	}
	return string(unsafe.Slice(p, n))
}
