// Package server exposes block decompression over HTTP.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/EchoTools/texblock/pkg/decompress"
)

// DefaultMaxBodyBytes caps request bodies, after zstd decoding.
const DefaultMaxBodyBytes = 64 << 20

// Server routes decode requests to the decompressor.
type Server struct {
	log     *logrus.Logger
	sched   decompress.Scheduler
	opts    []decompress.Option
	maxBody int64

	router  *mux.Router
	handler http.Handler
	access  io.Closer
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger used for access and error logs.
func WithLogger(l *logrus.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// WithScheduler sets the scheduler for parallel decodes.
func WithScheduler(sched decompress.Scheduler) Option {
	return func(s *Server) {
		s.sched = sched
	}
}

// WithDecompressOptions sets the options passed to every decode.
func WithDecompressOptions(opts ...decompress.Option) Option {
	return func(s *Server) {
		s.opts = opts
	}
}

// WithMaxBodyBytes caps the decoded request body size.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBody = n
		}
	}
}

// New creates a server with its routes and middleware in place.
func New(opts ...Option) *Server {
	s := &Server{
		log:     logrus.StandardLogger(),
		maxBody: DefaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.sched == nil {
		s.sched = decompress.NewPool(0)
	}

	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/v1/formats", s.handleFormats).Methods(http.MethodGet)
	r.HandleFunc("/v1/decode/{format}", s.handleDecode).Methods(http.MethodPost)
	s.router = r

	access := s.log.WriterLevel(logrus.InfoLevel)
	s.access = access

	var h http.Handler = r
	h = handlers.CompressHandler(h)
	h = handlers.CombinedLoggingHandler(access, h)
	h = handlers.RecoveryHandler(handlers.RecoveryLogger(s.log), handlers.PrintRecoveryStack(true))(h)
	s.handler = h
	return s
}

// Handler returns the root handler with middleware applied.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Close releases the access log writer.
func (s *Server) Close() error {
	return s.access.Close()
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.WithField("listen", addr).Info("starting server")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info("shutting down server")
		return srv.Shutdown(shutdownCtx)
	}
}
