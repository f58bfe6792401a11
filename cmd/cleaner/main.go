// cleaner: runs the cleaning robot controller against a board daemon or
// the built-in simulator, and serves the HTTP control API, the status
// stream and the control socket.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/google/uuid"
	"github.com/teslashibe/go-cleaner/internal/config"
	"github.com/teslashibe/go-cleaner/internal/log"
	"github.com/teslashibe/go-cleaner/internal/metrics"
	"github.com/teslashibe/go-cleaner/pkg/cleaner"
	"github.com/teslashibe/go-cleaner/pkg/hw"
	"github.com/teslashibe/go-cleaner/pkg/remote"
	"github.com/teslashibe/go-cleaner/pkg/service"
	"github.com/teslashibe/go-cleaner/pkg/telemetry"
	"github.com/teslashibe/go-cleaner/pkg/web"
)

var version = "1.0.0"

func main() {
	port := flag.String("port", "", "HTTP server port (overrides CLEANER_PORT)")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Configuration error: %v\n", err)
		os.Exit(1)
	}
	if *port != "" {
		cfg.Port = *port
	}
	if *debug {
		cfg.LogLevel = "debug"
	}
	if cfg.RobotID == "" {
		cfg.RobotID = uuid.NewString()
	}

	log.Init(cfg.LogLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, *debug); err != nil {
		log.Error("cleaner stopped", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, debug bool) error {
	var (
		board hw.Board
		sim   *hw.Sim
	)
	if cfg.BoardURL != "" {
		board = hw.NewHTTPBoard(cfg.BoardURL)
		log.Info("using board daemon", "url", cfg.BoardURL)
	} else {
		obstacles, err := hw.ParseObstacles(cfg.SimObstacles)
		if err != nil {
			return fmt.Errorf("sim obstacles: %w", err)
		}
		sim = hw.NewSim(hw.SimConfig{
			InfraredPin: hw.Pin(cfg.PinInfrared),
			Charge:      cfg.SimCharge,
			Drain:       cfg.SimDrain,
			Obstacles:   obstacles,
		})
		board = sim
		log.Info("using simulated board", "obstacles", len(obstacles))
	}

	robot := cleaner.New(board, board, board, cleaner.WithPins(cleaner.Pins{
		RechargeLED:    hw.Pin(cfg.PinRecharge),
		CleaningSystem: hw.Pin(cfg.PinCleaning),
		Infrared:       hw.Pin(cfg.PinInfrared),
	}))

	sink, err := buildSink(cfg)
	if err != nil {
		return err
	}

	svcCfg := service.Config{
		RobotID:       cfg.RobotID,
		PowerInterval: cfg.PowerInterval,
		Sink:          sink,
	}
	// Returning to start moves the robot without driving, so the simulated
	// wheels are put back on the origin too.
	if sim != nil {
		svcCfg.OnReturn = sim.Reset
	}
	svc := service.New(robot, svcCfg)
	defer svc.Close()

	reg := metrics.New()
	svc.Subscribe(reg.ObserveEvent)

	var webOpts []web.Option
	if debug {
		webOpts = append(webOpts, web.WithAccessLog())
	}
	srv := web.NewServer(svc, webOpts...)
	app := srv.App()

	ctl := remote.New(svc, remote.WithMetrics(reg))
	ctl.RegisterRoutes(app)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":   "ok",
			"version":  version,
			"robot_id": svc.ID(),
			"state":    svc.Status().Status,
		})
	})

	reg.Gauge("cleaner_status_clients", "Connected status stream clients.", srv.StatusClients)
	reg.Gauge("cleaner_control_sessions", "Connected control sessions.", ctl.SessionCount)
	app.Get("/metrics", adaptor.HTTPHandler(reg.Handler()))

	go func() {
		if err := svc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("power monitor stopped", "err", err)
		}
	}()

	log.Info("cleaner starting",
		"version", version,
		"robot_id", svc.ID(),
		"port", cfg.Port,
	)

	if err := srv.Start(ctx, ":"+cfg.Port); err != nil {
		return err
	}
	log.Info("cleaner stopped")
	return nil
}

// buildSink connects the configured telemetry sinks.
func buildSink(cfg config.Config) (telemetry.Sink, error) {
	var sinks telemetry.Multi

	if cfg.MQTTBroker != "" {
		s, err := telemetry.NewMQTTSink(telemetry.MQTTConfig{
			Broker:      cfg.MQTTBroker,
			ClientID:    "cleaner-" + cfg.RobotID,
			TopicPrefix: cfg.MQTTTopic,
			QoS:         0,
		})
		if err != nil {
			return nil, err
		}
		log.Info("mqtt telemetry enabled", "broker", cfg.MQTTBroker, "topic", s.Topic(cfg.RobotID))
		sinks = append(sinks, s)
	}

	if len(cfg.KafkaBrokers) > 0 {
		sinks = append(sinks, telemetry.NewKafkaSink(cfg.KafkaBrokers, cfg.KafkaTopic))
		log.Info("kafka telemetry enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}

	if len(sinks) == 0 {
		return telemetry.Nop{}, nil
	}
	return sinks, nil
}
