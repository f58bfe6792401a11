// Package web provides the HTTP control API and live status stream for the cleaner.
package web

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"github.com/teslashibe/go-cleaner/internal/log"
	"github.com/teslashibe/go-cleaner/pkg/hub"
	"github.com/teslashibe/go-cleaner/pkg/protocol"
	"github.com/teslashibe/go-cleaner/pkg/service"
	"github.com/teslashibe/go-cleaner/pkg/telemetry"
)

// Server is the HTTP control server
type Server struct {
	app *fiber.App
	svc *service.Service
	log *slog.Logger

	// Fan-out of service events to /ws/status clients
	statusHub *hub.Hub
}

// Option configures a Server.
type Option func(*options)

type options struct {
	accessLog bool
}

// WithAccessLog logs every request.
func WithAccessLog() Option {
	return func(o *options) { o.accessLog = true }
}

// NewServer creates a server exposing svc.
func NewServer(svc *service.Service, opts ...Option) *Server {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	s := &Server{
		svc:       svc,
		log:       log.With("component", "web"),
		statusHub: hub.New("status"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "Cleaner",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(cors.New())
	if o.accessLog {
		app.Use(logger.New())
	}

	// API routes
	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Post("/reset", s.handleReset)
	api.Post("/commands", s.handleSequence)
	api.Post("/commands/:token", s.handleCommand)
	api.Post("/dirt/:level", s.handleDirt)
	api.Post("/power", s.handlePower)
	api.Post("/return", s.handleReturn)

	// WebSocket upgrade middleware
	app.Use("/ws/status", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/status", websocket.New(s.handleStatusWS))

	svc.Subscribe(s.broadcastEvent)

	s.app = app
	return s
}

// App returns the underlying fiber app so other surfaces can mount routes.
func (s *Server) App() *fiber.App {
	return s.app
}

// Start runs the status hub and serves on addr until ctx is done.
func (s *Server) Start(ctx context.Context, addr string) error {
	go s.statusHub.Run(ctx)
	go func() {
		<-ctx.Done()
		if err := s.app.Shutdown(); err != nil {
			s.log.Error("shutdown failed", "err", err)
		}
	}()

	s.log.Info("control API listening", "addr", addr)
	return s.app.Listen(addr)
}

// StatusClients returns the number of connected status stream clients.
func (s *Server) StatusClients() int {
	return s.statusHub.ClientCount()
}

// broadcastEvent forwards a service event to every status client.
func (s *Server) broadcastEvent(ev telemetry.Event) {
	msg, err := protocol.NewMessage(protocol.TypeEvent, ev)
	if err != nil {
		s.log.Error("encode event failed", "err", err)
		return
	}
	if err := s.statusHub.BroadcastMessage(msg); err != nil {
		s.log.Error("broadcast failed", "err", err)
	}
}
