package web

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/teslashibe/go-cleaner/pkg/hub"
	"github.com/teslashibe/go-cleaner/pkg/protocol"
	"github.com/teslashibe/go-cleaner/pkg/service"
)

// handleStatus returns the current state
func (s *Server) handleStatus(c *fiber.Ctx) error {
	return c.JSON(s.svc.Status())
}

// handleReset re-initializes the robot
func (s *Server) handleReset(c *fiber.Ctx) error {
	return c.JSON(s.svc.Reset(c.UserContext()))
}

// handleCommand executes a single command token
func (s *Server) handleCommand(c *fiber.Ctx) error {
	res, err := s.svc.Execute(c.UserContext(), c.Params("token"))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(service.ResultData(res))
}

// handleSequence executes the commands in the request body in order
func (s *Server) handleSequence(c *fiber.Ctx) error {
	var req protocol.SequenceData
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(protocol.ErrorData{
			Code:    protocol.CodeBadRequest,
			Message: err.Error(),
		})
	}

	results, err := s.svc.ExecuteSequence(c.UserContext(), req.Tokens)
	body := service.ResultsData(results, err)
	if err != nil {
		return c.Status(statusFor(err)).JSON(body)
	}
	return c.JSON(body)
}

// handleDirt applies a sensed dirt level
func (s *Server) handleDirt(c *fiber.Ctx) error {
	state, err := s.svc.DetectDirtLevel(c.UserContext(), c.Params("level"))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(state)
}

// handlePower runs the power subsystem check
func (s *Server) handlePower(c *fiber.Ctx) error {
	report, err := s.svc.ManageCleaningSystem(c.UserContext())
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(service.PowerData(report))
}

// handleReturn sends the robot back to the origin
func (s *Server) handleReturn(c *fiber.Ctx) error {
	return c.JSON(s.svc.ReturnToStart(c.UserContext()))
}

// handleStatusWS streams service events, starting with a state snapshot
func (s *Server) handleStatusWS(c *websocket.Conn) {
	hub.NewClientWithGreeting(s.statusHub, c, s.statusSnapshot).Run()
}

// statusSnapshot encodes the current state as the first status frame.
func (s *Server) statusSnapshot() []byte {
	msg, err := protocol.NewStateMessage(s.svc.Status())
	if err != nil {
		s.log.Error("encode state failed", "err", err)
		return nil
	}
	data, err := msg.Bytes()
	if err != nil {
		s.log.Error("encode state failed", "err", err)
		return nil
	}
	return data
}

func (s *Server) fail(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	if status >= fiber.StatusInternalServerError {
		s.log.Error("request failed", "path", c.Path(), "err", err)
	}
	return c.Status(status).JSON(protocol.ErrorData{
		Code:    service.ErrorCode(err),
		Message: err.Error(),
	})
}

func statusFor(err error) int {
	if service.ErrorCode(err) == protocol.CodeHardware {
		return fiber.StatusInternalServerError
	}
	return fiber.StatusBadRequest
}
