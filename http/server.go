// Package http serves the data module generator over HTTP.
package http

import (
	"context"
	"embed"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/fwojciec/s1000d"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// DefaultMaxUploadSize is the largest accepted upload.
const DefaultMaxUploadSize = 16 << 20

// ShutdownTimeout bounds graceful shutdown in Close.
const ShutdownTimeout = 10 * time.Second

//go:embed index.html
var templateFS embed.FS

var indexTmpl = template.Must(template.ParseFS(templateFS, "index.html"))

// Server serves the upload form, the conversion endpoint and the module
// history. Dependencies are set on the exported fields before Open or
// ServeHTTP is called.
type Server struct {
	ln     net.Listener
	server *http.Server
	router chi.Router

	// Addr is the listen address, e.g. ":5000".
	Addr string

	Converter s1000d.Converter
	Modules   s1000d.ModuleService
	Parser    s1000d.Parser
	Exporter  s1000d.Exporter

	// Limiter throttles conversions per client. Nil disables throttling.
	Limiter *ClientLimiter

	// TrustProxy takes the client address from X-Real-IP, True-Client-IP
	// or X-Forwarded-For. Enable only behind a proxy that sets them.
	TrustProxy bool

	// MaxUploadSize is the largest accepted file in bytes.
	MaxUploadSize int64

	Logger *slog.Logger
}

// NewServer returns a new Server with its routes registered.
func NewServer() *Server {
	s := &Server{
		router:        chi.NewRouter(),
		MaxUploadSize: DefaultMaxUploadSize,
		Logger:        slog.Default(),
	}
	s.server = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(s.realIP)
	s.router.Use(s.logRequests)
	s.router.Use(middleware.Recoverer)

	s.router.Get("/", s.handleIndex)
	s.router.Get("/healthz", s.handleHealth)
	s.router.Post("/convert", s.handleConvert)
	s.router.Get("/modules", s.handleModuleList)
	s.router.Get("/modules.zip", s.handleModuleArchive)
	s.router.Route("/modules/{id}", func(r chi.Router) {
		r.Get("/", s.handleModuleView)
		r.Get("/markdown", s.handleModuleMarkdown)
		r.Delete("/", s.handleModuleDelete)
	})

	return s
}

// ServeHTTP dispatches to the router.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Open starts listening on Addr and serves in the background.
func (s *Server) Open() (err error) {
	if s.ln, err = net.Listen("tcp", s.Addr); err != nil {
		return err
	}

	go func() {
		if err := s.server.Serve(s.ln); err != nil && err != http.ErrServerClosed {
			s.Logger.Error("serve", "err", err)
		}
	}()
	return nil
}

// URL returns the base URL of a listening server.
func (s *Server) URL() string {
	if s.ln == nil {
		return ""
	}
	return "http://" + s.ln.Addr().String()
}

// Close gracefully shuts down the server.
func (s *Server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// realIP rewrites RemoteAddr from forwarding headers when TrustProxy is set.
// Otherwise clients could pick their own address and dodge the limiter.
func (s *Server) realIP(next http.Handler) http.Handler {
	forwarded := middleware.RealIP(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.TrustProxy {
			forwarded.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// logRequests logs one line per request once the response is written.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		defer func(begin time.Time) {
			s.Logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"remote", r.RemoteAddr,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"request_id", middleware.GetReqID(r.Context()),
				"duration", time.Since(begin),
			)
		}(time.Now())
		next.ServeHTTP(ww, r)
	})
}
