//go:build !ios && !android && (amd64 || arm64)

package main

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	ffflog "github.com/obinnaokechukwu/ffframes/internal/log"
)

// metricsRouter serves reg on /metrics and a liveness probe on /healthz.
func metricsRouter(reg *prometheus.Registry) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	return r
}

// serveMetrics starts the metrics endpoint in the background; after
// shuts it down.
func (r *runner) serveMetrics(addr string, reg *prometheus.Registry) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("metrics listener: %w", err)
	}

	r.server = &http.Server{Handler: metricsRouter(reg), ReadHeaderTimeout: 5 * time.Second}

	log := ffflog.WithComponent(r.log, "metrics")
	log.Info().Str("addr", ln.Addr().String()).Msg("serving metrics")
	go func(srv *http.Server) {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("metrics server stopped")
		}
	}(r.server)
	return nil
}
