// Package server exposes the resume matcher over HTTP.
//
// Routes:
//
//	POST /index_resumes  multipart upload, repeated field "files"
//	POST /query          form or JSON: job_description, top_k
//	GET  /resumes        catalog listing: ?contains=word&limit=n
//	GET  /healthz        document count and vector dimension
package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vinayprograms/resumerag/catalog"
	"github.com/vinayprograms/resumerag/logging"
	"github.com/vinayprograms/resumerag/matcher"
)

// Matcher is the service the HTTP layer drives.
type Matcher interface {
	IndexBatch(ctx context.Context, uploads []matcher.Upload) []matcher.FileResult
	Match(ctx context.Context, q matcher.Query) ([]matcher.Result, error)
	List(filter string, limit int) ([]catalog.Entry, error)
	Stats() matcher.Stats
}

var _ Matcher = (*matcher.Service)(nil)

// Config holds HTTP layer settings.
type Config struct {
	// RequestTimeout bounds each request's context. Default: 60s.
	RequestTimeout time.Duration

	// MaxUploadBytes caps the body of an ingestion request. Default: 32 MiB.
	MaxUploadBytes int64

	// DefaultTopK applies when a query omits top_k. Default: 3.
	DefaultTopK int

	// Release switches gin to release mode.
	Release bool
}

// DefaultConfig returns the settings the service starts with.
func DefaultConfig() Config {
	return Config{
		RequestTimeout: 60 * time.Second,
		MaxUploadBytes: 32 << 20,
		DefaultTopK:    3,
		Release:        true,
	}
}

// Server is the HTTP front of a Matcher.
type Server struct {
	config Config
	svc    Matcher
	logger *logging.Logger
	router *gin.Engine

	mu   sync.Mutex
	http *http.Server
}

// New builds the router. logger may be nil.
func New(svc Matcher, config Config, logger *logging.Logger) *Server {
	def := DefaultConfig()
	if config.RequestTimeout <= 0 {
		config.RequestTimeout = def.RequestTimeout
	}
	if config.MaxUploadBytes <= 0 {
		config.MaxUploadBytes = def.MaxUploadBytes
	}
	if config.DefaultTopK <= 0 {
		config.DefaultTopK = def.DefaultTopK
	}
	if logger == nil {
		logger = logging.New()
	}
	if config.Release {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		config: config,
		svc:    svc,
		logger: logger.WithComponent("http"),
		router: gin.New(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(recoveryMiddleware(s.logger))
	s.router.Use(requestIDMiddleware())
	s.router.Use(loggingMiddleware(s.logger))
	s.router.Use(corsMiddleware())
	s.router.Use(timeoutMiddleware(s.config.RequestTimeout))
}

func (s *Server) setupRoutes() {
	s.router.POST("/index_resumes", s.indexResumes)
	s.router.POST("/query", s.query)
	s.router.GET("/resumes", s.listResumes)
	s.router.GET("/healthz", s.health)
}

// Handler returns the router for embedding in another server or tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until Shutdown is called.
func (s *Server) ListenAndServe(addr string) error {
	hs := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.mu.Lock()
	s.http = hs
	s.mu.Unlock()

	s.logger.Info("listening", map[string]interface{}{"addr": addr})
	err := hs.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	hs := s.http
	s.mu.Unlock()
	if hs == nil {
		return nil
	}
	return hs.Shutdown(ctx)
}
