// Package remote provides the WebSocket control channel for the cleaner.
//
// Each connection sends protocol requests (command, sequence, dirt, power,
// return, reset, status, ping) and receives exactly one reply per request,
// stamped with the request's ID.
package remote

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/teslashibe/go-cleaner/internal/log"
	"github.com/teslashibe/go-cleaner/internal/metrics"
	"github.com/teslashibe/go-cleaner/pkg/protocol"
	"github.com/teslashibe/go-cleaner/pkg/service"
)

// Session is a connected controller
type Session struct {
	ID        string
	Conn      *websocket.Conn
	Connected time.Time
	LastSeen  time.Time

	mu sync.Mutex
}

// Send writes a message to the controller
func (s *Session) Send(msg *protocol.Message) error {
	data, err := msg.Bytes()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Conn.WriteMessage(websocket.TextMessage, data)
}

func (s *Session) touch() {
	s.mu.Lock()
	s.LastSeen = time.Now()
	s.mu.Unlock()
}

// Controller manages control sessions against a single service
type Controller struct {
	svc     *service.Service
	log     *slog.Logger
	metrics *metrics.Metrics

	mu       sync.RWMutex
	sessions map[string]*Session

	// Stats
	messagesReceived atomic.Uint64
	messagesSent     atomic.Uint64
	errorsSent       atomic.Uint64
}

// Option configures a Controller
type Option func(*Controller)

// WithMetrics records requests and rejections on m
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Controller) {
		c.metrics = m
	}
}

// New creates a controller bound to svc
func New(svc *service.Service, opts ...Option) *Controller {
	c := &Controller{
		svc:      svc,
		log:      log.With("component", "remote"),
		sessions: make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RegisterRoutes registers the control socket and its stats endpoint
func (c *Controller) RegisterRoutes(app *fiber.App) {
	app.Use("/ws/control", func(ctx *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(ctx) {
			return ctx.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws/control", websocket.New(c.handleSession))
	app.Get("/ws/control/:id", websocket.New(c.handleSession))

	app.Get("/api/remote/stats", func(ctx *fiber.Ctx) error {
		return ctx.JSON(c.Stats())
	})
}

// handleSession runs the read loop for one controller connection
func (c *Controller) handleSession(conn *websocket.Conn) {
	id := conn.Params("id")
	if id == "" {
		id = uuid.NewString()
	}

	now := time.Now()
	sess := &Session{ID: id, Conn: conn, Connected: now, LastSeen: now}

	c.mu.Lock()
	if old, ok := c.sessions[id]; ok {
		old.Conn.Close()
	}
	c.sessions[id] = sess
	count := len(c.sessions)
	c.mu.Unlock()

	c.log.Info("controller connected", "session", id, "sessions", count)

	defer func() {
		c.mu.Lock()
		if c.sessions[id] == sess {
			delete(c.sessions, id)
		}
		count := len(c.sessions)
		c.mu.Unlock()
		c.log.Info("controller disconnected", "session", id, "sessions", count)
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			c.log.Debug("read ended", "session", id, "err", err)
			return
		}

		sess.touch()
		c.messagesReceived.Add(1)

		reply := c.Handle(context.Background(), data)
		if reply == nil {
			continue
		}
		if reply.Type == protocol.TypeError {
			c.errorsSent.Add(1)
		}
		c.messagesSent.Add(1)
		if err := sess.Send(reply); err != nil {
			c.log.Warn("send failed", "session", id, "err", err)
			return
		}
	}
}

// Handle decodes one request and returns the reply to send back.
func (c *Controller) Handle(ctx context.Context, data []byte) *protocol.Message {
	msg, err := protocol.ParseMessage(data)
	if err != nil {
		c.metrics.ControlRequest("unparsed")
		c.metrics.ControlError(protocol.CodeBadRequest)
		return c.errorReply("", protocol.CodeBadRequest, err.Error())
	}
	c.metrics.ControlRequest(string(msg.Type))

	reply, err := c.dispatch(ctx, msg)
	if err != nil {
		code := service.ErrorCode(err)
		c.metrics.ControlError(code)
		return c.errorReply(msg.ID, code, err.Error())
	}
	return reply.Reply(msg.ID)
}

func (c *Controller) dispatch(ctx context.Context, msg *protocol.Message) (*protocol.Message, error) {
	switch msg.Type {
	case protocol.TypeCommand:
		var req protocol.CommandData
		if err := msg.ParseData(&req); err != nil {
			return nil, badRequest(err)
		}
		res, err := c.svc.Execute(ctx, req.Token)
		if err != nil {
			return nil, err
		}
		return protocol.NewResultMessage(service.ResultData(res))

	case protocol.TypeSequence:
		var req protocol.SequenceData
		if err := msg.ParseData(&req); err != nil {
			return nil, badRequest(err)
		}
		// Partial results are still reported alongside the error
		results, err := c.svc.ExecuteSequence(ctx, req.Tokens)
		return protocol.NewMessage(protocol.TypeResults, service.ResultsData(results, err))

	case protocol.TypeDirt:
		var req protocol.DirtData
		if err := msg.ParseData(&req); err != nil {
			return nil, badRequest(err)
		}
		state, err := c.svc.DetectDirtLevel(ctx, req.Level)
		if err != nil {
			return nil, err
		}
		return protocol.NewStateMessage(state)

	case protocol.TypePower:
		report, err := c.svc.ManageCleaningSystem(ctx)
		if err != nil {
			return nil, err
		}
		return protocol.NewMessage(protocol.TypePowerReport, service.PowerData(report))

	case protocol.TypeReturn:
		return protocol.NewStateMessage(c.svc.ReturnToStart(ctx))

	case protocol.TypeReset:
		return protocol.NewStateMessage(c.svc.Reset(ctx))

	case protocol.TypeStatus:
		return protocol.NewStateMessage(c.svc.Status())

	case protocol.TypePing:
		var ping protocol.PingData
		if err := msg.ParseData(&ping); err != nil {
			return nil, badRequest(err)
		}
		return protocol.NewPongMessage(ping.ClientTS, time.Now().UnixMilli())

	default:
		return nil, &requestError{msg: "unsupported message type: " + string(msg.Type)}
	}
}

func (c *Controller) errorReply(id, code, text string) *protocol.Message {
	msg, err := protocol.NewErrorMessage(code, text)
	if err != nil {
		c.log.Error("encode error reply failed", "err", err)
		return nil
	}
	return msg.Reply(id)
}

// requestError marks a malformed request
type requestError struct {
	msg string
}

func (e *requestError) Error() string { return e.msg }

func badRequest(err error) error {
	return &requestError{msg: "malformed data: " + err.Error()}
}

// SessionCount returns the number of connected controllers
func (c *Controller) SessionCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.sessions)
}

// Session returns a connected controller by ID
func (c *Controller) Session(id string) *Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sessions[id]
}

// Stats contains controller statistics
type Stats struct {
	Sessions         int    `json:"sessions"`
	MessagesReceived uint64 `json:"messages_received"`
	MessagesSent     uint64 `json:"messages_sent"`
	ErrorsSent       uint64 `json:"errors_sent"`
}

// Stats returns controller statistics
func (c *Controller) Stats() Stats {
	return Stats{
		Sessions:         c.SessionCount(),
		MessagesReceived: c.messagesReceived.Load(),
		MessagesSent:     c.messagesSent.Load(),
		ErrorsSent:       c.errorsSent.Load(),
	}
}
