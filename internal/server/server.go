// Package server exposes the compiler over HTTP.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"wyweb/internal/config"
	"wyweb/web"
)

// Routes builds the request mux: POST / and POST /compile compile,
// GET /healthz answers ok, and GET / serves the playground when enabled.
func Routes(c Compiler, cfg config.ServerConfig, log *zap.Logger) http.Handler {
	h := PostOnly(&Handler{Compiler: c, MaxBodyBytes: cfg.MaxBodyBytes, Logger: log})
	mux := http.NewServeMux()
	mux.Handle("/{$}", h)
	mux.Handle("/compile", h)
	mux.HandleFunc("GET /healthz", Health)
	if cfg.Playground {
		static := http.FileServerFS(web.Static)
		mux.Handle("GET /{$}", static)
		mux.Handle("GET /static/", http.StripPrefix("/static", static))
	}
	return Chain(mux, AccessLog(log), Recover(log), CORS(cfg.CORSOrigins))
}

type Server struct {
	httpServer *http.Server
	shutdown   time.Duration
	log        *zap.Logger
}

func New(c Compiler, cfg config.ServerConfig, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		httpServer: &http.Server{
			Addr:              cfg.Addr,
			Handler:           h2c.NewHandler(Routes(c, cfg, log), &http2.Server{}),
			ReadTimeout:       cfg.ReadTimeout,
			ReadHeaderTimeout: cfg.ReadTimeout,
			WriteTimeout:      cfg.WriteTimeout,
			ErrorLog:          zap.NewStdLog(log),
		},
		shutdown: cfg.ShutdownTimeout,
		log:      log,
	}
}

// Serve accepts on l until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	errc := make(chan error, 1)
	go func() {
		s.log.Info("listening", zap.String("addr", l.Addr().String()))
		err := s.httpServer.Serve(l)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		errc <- err
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	grace := s.shutdown
	if grace <= 0 {
		grace = 10 * time.Second
	}
	sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), grace)
	defer cancel()
	s.log.Info("shutting down")
	if err := s.httpServer.Shutdown(sctx); err != nil {
		return err
	}
	return <-errc
}

// ListenAndServe listens on the configured address.
func (s *Server) ListenAndServe(ctx context.Context) error {
	l, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, l)
}
