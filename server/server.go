package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/theoremus-urban-solutions/siri-stop-finder/config"
	"github.com/theoremus-urban-solutions/siri-stop-finder/search"
)

// Server serves the search API. It owns the engine and serializes all
// access to it; see the package comment.
type Server struct {
	engine  *search.Engine
	mu      sync.Mutex
	httpSrv *http.Server
}

// New wires the routes and returns a Server ready to Start.
func New(cfg config.ServerConfig, engine *search.Engine) *Server {
	s := &Server{engine: engine}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", instrument("/api/health", s.handleHealth))
	mux.HandleFunc("/api/search.json", instrument("/api/search.json", s.handleSearch))
	mux.HandleFunc("/api/lines.json", instrument("/api/lines.json", s.handleLines))
	mux.HandleFunc("/api/stops.json", instrument("/api/stops.json", s.handleStops))
	mux.HandleFunc("/api/departures.json", instrument("/api/departures.json", s.handleDepartures))
	mux.Handle("/metrics", promhttp.Handler())

	s.httpSrv = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Start begins serving in the background.
func (s *Server) Start() {
	go func() {
		if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()
	log.Info().Str("addr", s.httpSrv.Addr).Msg("server listening")
}

// HandleGracefulShutdown blocks until SIGINT or SIGTERM, then drains
// in-flight requests for up to 10 seconds.
func (s *Server) HandleGracefulShutdown() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	log.Info().Msg("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.httpSrv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	} else {
		log.Info().Msg("server shut down")
	}
}
