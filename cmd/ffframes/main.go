//go:build !ios && !android && (amd64 || arm64)

// Command ffframes probes video files and extracts their frames as images.
//
// Usage:
//
//	ffframes probe [--json] <file>...
//	ffframes extract [-o dir] [--format png] [--width W --height H] <file>...
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/obinnaokechukwu/ffframes"
	"github.com/obinnaokechukwu/ffframes/internal/config"
	ffflog "github.com/obinnaokechukwu/ffframes/internal/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "ffframes:", err)
		os.Exit(1)
	}
}

// runner carries what the global flags set up to the subcommands.
type runner struct {
	cfg     config.Config
	log     zerolog.Logger
	metrics *ffframes.Metrics
	server  *http.Server
}

func newApp() *cli.App {
	r := &runner{log: zerolog.Nop()}

	return &cli.App{
		Name:    "ffframes",
		Usage:   "decode video frames to RGB24 images",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML configuration file",
				EnvVars: []string{"FFFRAMES_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "log level (trace, debug, info, warn, error)",
				EnvVars: []string{"FFFRAMES_LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "ffmpeg-log-level",
				Usage:   "FFmpeg's own log level (quiet, error, warning, info, debug, ...)",
				EnvVars: []string{"FFFRAMES_FFMPEG_LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "metrics-addr",
				Usage:   "serve Prometheus metrics on this address, e.g. :9090",
				EnvVars: []string{"FFFRAMES_METRICS_ADDR"},
			},
		},
		Before: r.before,
		After:  r.after,
		Commands: []*cli.Command{
			r.probeCommand(),
			r.extractCommand(),
		},
	}
}

func (r *runner) before(c *cli.Context) error {
	cfg := config.Defaults()
	if path := c.String("config"); path != "" {
		var err error
		if cfg, err = config.LoadFromFile(path); err != nil {
			return err
		}
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if c.IsSet("ffmpeg-log-level") {
		cfg.FFmpegLogLevel = c.String("ffmpeg-log-level")
	}
	if c.IsSet("metrics-addr") {
		cfg.MetricsAddr = c.String("metrics-addr")
	}
	r.cfg = cfg

	r.log = ffflog.New(ffflog.Config{Level: cfg.LogLevel, Output: c.App.ErrWriter})

	reg := prometheus.NewRegistry()
	r.metrics = ffframes.NewMetrics(reg)
	if cfg.MetricsAddr != "" {
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		return r.serveMetrics(cfg.MetricsAddr, reg)
	}
	return nil
}

func (r *runner) after(_ *cli.Context) error {
	if r.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := r.server.Shutdown(ctx)
	r.server = nil
	return err
}

// initFFmpeg loads FFmpeg and applies the FFmpeg log settings. It runs
// only for commands that decode, so --help works without FFmpeg.
func (r *runner) initFFmpeg() error {
	if err := ffframes.Init(); err != nil {
		return err
	}

	level, err := ffframes.ParseLogLevel(r.cfg.FFmpegLogLevel)
	if err != nil {
		return err
	}
	if err := ffframes.SetLogLevel(level); err != nil {
		return err
	}
	if err := ffframes.ForwardLogs(r.log); err != nil {
		r.log.Debug().Err(err).Msg("FFmpeg logs stay on stderr")
	}
	return nil
}
