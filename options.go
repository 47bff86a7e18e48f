//go:build !ios && !android && (amd64 || arm64)

package ffframes

import (
	"github.com/obinnaokechukwu/ffframes/swscale"
	"github.com/rs/zerolog"
)

// ScaleFlags controls the scaling algorithm.
type ScaleFlags = swscale.Flag

const (
	// ScaleFastBilinear uses fast bilinear scaling (lowest quality, fastest).
	ScaleFastBilinear = swscale.FlagFastBilinear

	// ScaleBilinear uses bilinear scaling (good balance of quality/speed).
	ScaleBilinear = swscale.FlagBilinear

	// ScaleBicubic uses bicubic scaling. This is the default.
	ScaleBicubic = swscale.FlagBicubic

	// ScaleLanczos uses Lanczos scaling (highest quality, slowest).
	ScaleLanczos = swscale.FlagLanczos

	// ScalePoint uses nearest neighbor (fastest, no interpolation).
	ScalePoint = swscale.FlagPoint

	// ScaleArea averages source pixels; good for large reductions.
	ScaleArea = swscale.FlagArea
)

type options struct {
	width, height int
	logger        zerolog.Logger
	scaleFlags    ScaleFlags
	metrics       *Metrics
}

func defaultOptions() options {
	return options{
		logger:     zerolog.Nop(),
		scaleFlags: ScaleBicubic,
	}
}

// Option configures a Session.
type Option func(*options)

// WithSize requests converted frames of width x height. The request only
// takes effect when both values are positive; otherwise frames keep the
// stream's native size. Negative values make Open fail with ErrInvalidSize.
func WithSize(width, height int) Option {
	return func(o *options) {
		o.width = width
		o.height = height
	}
}

// WithLogger sets the logger for session events. The session adds its own
// "session" and "path" fields.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithScaleFlags selects the algorithm used when the frame is resized.
func WithScaleFlags(flags ScaleFlags) Option {
	return func(o *options) {
		o.scaleFlags = flags
	}
}

// WithMetrics records the session's activity in m.
func WithMetrics(m *Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// ParseScaleFlags parses a scaling algorithm name such as "bicubic" or
// "lanczos".
func ParseScaleFlags(name string) (ScaleFlags, error) {
	return swscale.ParseFlag(name)
}
