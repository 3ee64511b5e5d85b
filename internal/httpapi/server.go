package httpapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"ridgeid/internal/config"
	"ridgeid/internal/logging"
	"ridgeid/internal/reader"
	"ridgeid/internal/roster"
)

// Store is the roster surface the API reads and writes.
type Store interface {
	reader.Store
	ListStudents(ctx context.Context) ([]roster.Student, error)
	GetStudent(ctx context.Context, id string) (*roster.Student, error)
	Ping(ctx context.Context) error
}

// Options configures a Server.
type Options struct {
	Bind        string
	BodyLimitMB int
	Token       string
	Store       Store
	Logger      *slog.Logger
}

// OptionsFromConfig fills Options from the [api] section.
func OptionsFromConfig(cfg *config.Config, store Store, logger *slog.Logger) Options {
	return Options{
		Bind:        cfg.API.Bind,
		BodyLimitMB: cfg.API.BodyLimitMB,
		Token:       cfg.API.Token,
		Store:       store,
		Logger:      logger,
	}
}

// Server owns the fiber app and the serialized workflow it drives.
type Server struct {
	app    *fiber.App
	bind   string
	store  Store
	reader *reader.Reader
	logger *slog.Logger

	mu sync.Mutex
}

// New builds a Server with all routes registered.
func New(opts Options) (*Server, error) {
	if opts.Store == nil {
		return nil, errors.New("httpapi: store is required")
	}
	logger := logging.NewComponentLogger(opts.Logger, "api-server")
	limit := opts.BodyLimitMB
	if limit <= 0 {
		limit = 16
	}

	s := &Server{
		bind:   strings.TrimSpace(opts.Bind),
		store:  opts.Store,
		reader: reader.New(nil, opts.Store, opts.Logger),
		logger: logger,
	}
	s.app = fiber.New(fiber.Config{
		AppName:               "ridgeid",
		BodyLimit:             limit * 1024 * 1024,
		DisableStartupMessage: true,
		ReadTimeout:           15 * time.Second,
		WriteTimeout:          30 * time.Second,
		IdleTimeout:           60 * time.Second,
		ErrorHandler:          s.handleError,
	})

	s.app.Use(recover.New())
	s.app.Use(cors.New())
	s.app.Use(s.requestContext)
	s.app.Use(authMiddleware(opts.Token))
	s.app.Use(s.serialize)

	s.app.Get("/health", s.handleHealth)
	s.app.Get("/students", s.handleStudents)
	s.app.Get("/students/:id", s.handleStudent)
	s.app.Post("/students/:id/enroll", s.handleEnroll)
	s.app.Post("/identify", s.handleIdentify)
	s.app.Post("/compare", s.handleCompare)
	return s, nil
}

// App exposes the underlying fiber app, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Run listens on the configured bind address until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	return s.Serve(ctx, listener)
}

// Serve accepts connections on listener until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := s.app.ShutdownWithContext(shutdownCtx); err != nil {
				s.logger.Warn("api shutdown incomplete", logging.Error(err))
			}
			// Shutdown is a no-op if serving has not started yet.
			_ = listener.Close()
		case <-done:
		}
	}()

	s.logger.Info("api server listening", logging.String("address", listener.Addr().String()))
	err := s.app.Listener(listener)
	if ctx.Err() != nil {
		s.logger.Info("api server stopped")
		return nil
	}
	if err != nil {
		return fmt.Errorf("api serve: %w", err)
	}
	return nil
}
