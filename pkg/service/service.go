// Package service serializes access to a cleaner.Robot and reports every
// operation as a telemetry event.
//
// The robot itself is single-threaded; the HTTP and WebSocket surfaces call
// it concurrently through a Service. The Service also runs the power monitor
// loop that periodically re-evaluates the cleaning system.
package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/teslashibe/go-cleaner/internal/log"
	"github.com/teslashibe/go-cleaner/pkg/cleaner"
	"github.com/teslashibe/go-cleaner/pkg/protocol"
	"github.com/teslashibe/go-cleaner/pkg/telemetry"
)

// DefaultPublishTimeout bounds each sink delivery.
const DefaultPublishTimeout = 2 * time.Second

// Config configures a Service.
type Config struct {
	// RobotID identifies the robot in events. A UUID is generated when empty.
	RobotID string

	// PowerInterval is the power monitor period. Zero disables the loop.
	PowerInterval time.Duration

	// Sink receives every event. Defaults to telemetry.Nop.
	Sink telemetry.Sink

	// PublishTimeout bounds each sink delivery.
	PublishTimeout time.Duration

	// OnReturn runs under the robot lock whenever the robot is put back on
	// the origin by ReturnToStart or Reset. Board adapters that track pose
	// use it to stay in step with the robot.
	OnReturn func()

	Logger *slog.Logger
}

// Service is a concurrency-safe front for one robot.
type Service struct {
	mu    sync.Mutex
	robot *cleaner.Robot

	// emitMu is taken before mu is released so subscribers see events in
	// the order the state changed.
	emitMu   sync.Mutex
	onReturn func()

	id             string
	interval       time.Duration
	sink           telemetry.Sink
	publishTimeout time.Duration
	log            *slog.Logger

	subMu sync.RWMutex
	subs  []func(telemetry.Event)

	lastPower *cleaner.PowerReport
}

// New wraps robot.
func New(robot *cleaner.Robot, cfg Config) *Service {
	s := &Service{
		robot:          robot,
		id:             cfg.RobotID,
		interval:       cfg.PowerInterval,
		sink:           cfg.Sink,
		publishTimeout: cfg.PublishTimeout,
		log:            cfg.Logger,
		onReturn:       cfg.OnReturn,
	}
	if s.id == "" {
		s.id = uuid.NewString()
	}
	if s.sink == nil {
		s.sink = telemetry.Nop{}
	}
	if s.publishTimeout == 0 {
		s.publishTimeout = DefaultPublishTimeout
	}
	if s.log == nil {
		s.log = log.With("component", "service")
	}
	s.log = s.log.With("robot_id", s.id)
	return s
}

// ID returns the robot id used in events.
func (s *Service) ID() string {
	return s.id
}

// Subscribe registers fn to receive every event. Events are delivered one
// at a time in state order on the caller's goroutine. fn must not block and
// must not call back into the Service.
func (s *Service) Subscribe(fn func(telemetry.Event)) {
	s.subMu.Lock()
	s.subs = append(s.subs, fn)
	s.subMu.Unlock()
}

// Status returns the current state.
func (s *Service) Status() protocol.StateData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return StateData(s.robot.State())
}

// LastPower returns the most recent power report, if any.
func (s *Service) LastPower() (cleaner.PowerReport, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastPower == nil {
		return cleaner.PowerReport{}, false
	}
	return *s.lastPower, true
}

// Execute runs one command token.
func (s *Service) Execute(ctx context.Context, token string) (cleaner.Result, error) {
	s.mu.Lock()
	res, err := s.robot.Execute(token)
	state := s.robot.State()
	s.emitMu.Lock()
	s.mu.Unlock()

	ev := s.event(telemetry.KindCommand, state, err)
	if err == nil {
		ev.Status = res.String()
		ev.Outcome = res.Outcome.String()
	}
	s.emit(ctx, ev)
	return res, err
}

// ExecuteSequence runs tokens in order under one lock.
func (s *Service) ExecuteSequence(ctx context.Context, tokens []string) ([]cleaner.Result, error) {
	s.mu.Lock()
	results, err := s.robot.ExecuteSequence(tokens)
	state := s.robot.State()
	s.emitMu.Lock()
	s.mu.Unlock()

	ev := s.event(telemetry.KindSequence, state, err)
	if n := len(results); n > 0 {
		ev.Status = results[n-1].String()
		ev.Outcome = results[n-1].Outcome.String()
	}
	s.emit(ctx, ev)
	return results, err
}

// DetectDirtLevel adapts the cleaning speed.
func (s *Service) DetectDirtLevel(ctx context.Context, level string) (protocol.StateData, error) {
	s.mu.Lock()
	err := s.robot.DetectDirtLevel(level)
	state := s.robot.State()
	s.emitMu.Lock()
	s.mu.Unlock()

	s.emit(ctx, s.event(telemetry.KindDirt, state, err))
	return StateData(state), err
}

// ManageCleaningSystem runs the power subsystem check.
func (s *Service) ManageCleaningSystem(ctx context.Context) (cleaner.PowerReport, error) {
	s.mu.Lock()
	report, err := s.robot.ManageCleaningSystem()
	if err == nil {
		s.lastPower = &report
	}
	state := s.robot.State()
	s.emitMu.Lock()
	s.mu.Unlock()

	ev := s.event(telemetry.KindPower, state, err)
	if err == nil {
		p := PowerData(report)
		ev.Power = &p
	}
	s.emit(ctx, ev)
	return report, err
}

// ReturnToStart puts the robot back on the origin.
func (s *Service) ReturnToStart(ctx context.Context) protocol.StateData {
	s.mu.Lock()
	s.robot.ReturnToStart()
	s.returned()
	state := s.robot.State()
	s.emitMu.Lock()
	s.mu.Unlock()

	s.emit(ctx, s.event(telemetry.KindReturn, state, nil))
	return StateData(state)
}

// Reset re-initializes the robot.
func (s *Service) Reset(ctx context.Context) protocol.StateData {
	s.mu.Lock()
	s.robot.Initialize()
	s.returned()
	state := s.robot.State()
	s.emitMu.Lock()
	s.mu.Unlock()

	s.emit(ctx, s.event(telemetry.KindReset, state, nil))
	return StateData(state)
}

// Run starts the power monitor loop. Blocks until ctx is done.
// Returns immediately when the power interval is zero.
func (s *Service) Run(ctx context.Context) error {
	if s.interval <= 0 {
		return nil
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.Info("power monitor started", "interval", s.interval)
	for {
		select {
		case <-ctx.Done():
			s.log.Info("power monitor stopped")
			return ctx.Err()
		case <-ticker.C:
			if _, err := s.ManageCleaningSystem(ctx); err != nil {
				s.log.Error("power check failed", "err", err)
			}
		}
	}
}

// Close closes the telemetry sink.
func (s *Service) Close() error {
	return s.sink.Close()
}

func (s *Service) event(kind telemetry.Kind, state cleaner.State, err error) telemetry.Event {
	ev := telemetry.NewEvent(s.id, kind)
	ev.State = StateData(state)
	ev.Status = state.String()
	if err != nil {
		ev.Error = err.Error()
	}
	return ev
}

func (s *Service) returned() {
	if s.onReturn != nil {
		s.onReturn()
	}
}

// emit delivers ev to subscribers and the sink. The caller holds emitMu;
// it is released once subscribers have run so a slow sink does not hold
// up other operations.
func (s *Service) emit(ctx context.Context, ev telemetry.Event) {
	s.subMu.RLock()
	subs := s.subs
	s.subMu.RUnlock()
	for _, fn := range subs {
		fn(ev)
	}
	s.emitMu.Unlock()

	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.publishTimeout)
	defer cancel()
	if err := s.sink.Publish(pctx, ev); err != nil {
		s.log.Warn("telemetry publish failed", "kind", ev.Kind, "err", err)
	}
}
