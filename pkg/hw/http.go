package hw

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/teslashibe/go-cleaner/internal/httpc"
)

// DefaultHTTPTimeout bounds each board request so a stalled daemon cannot
// block the robot.
const DefaultHTTPTimeout = 2 * time.Second

// HTTPBoard implements Board against a board daemon's HTTP API:
//
//	GET  /api/gpio/{pin}        -> {"level":"HIGH"}
//	POST /api/gpio/{pin}        <- {"level":"LOW"}
//	GET  /api/battery           -> {"charge":87}
//	POST /api/drive/translate
//	POST /api/drive/rotate      <- {"direction":"l"}
type HTTPBoard struct {
	BaseURL string
	// Timeout bounds each request, including reading the reply.
	Timeout time.Duration
	client  *http.Client
}

// NewHTTPBoard creates a board client for the daemon at baseURL.
func NewHTTPBoard(baseURL string) *HTTPBoard {
	return &HTTPBoard{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Timeout: DefaultHTTPTimeout,
		client:  httpc.NewClient(0),
	}
}

func (b *HTTPBoard) requestContext() (context.Context, context.CancelFunc) {
	timeout := b.Timeout
	if timeout <= 0 {
		timeout = DefaultHTTPTimeout
	}
	return context.WithTimeout(context.Background(), timeout)
}

type levelBody struct {
	Level string `json:"level"`
}

// Read samples pin.
func (b *HTTPBoard) Read(pin Pin) (Level, error) {
	var body levelBody
	if err := b.get(fmt.Sprintf("/api/gpio/%d", pin), &body); err != nil {
		return Low, err
	}
	switch strings.ToUpper(body.Level) {
	case "HIGH", "1":
		return High, nil
	case "LOW", "0":
		return Low, nil
	default:
		return Low, fmt.Errorf("hw: %s reported level %q", pin, body.Level)
	}
}

// Write drives pin to level.
func (b *HTTPBoard) Write(pin Pin, level Level) error {
	return b.post(fmt.Sprintf("/api/gpio/%d", pin), levelBody{Level: level.String()})
}

// ChargeLeft returns the battery percentage.
func (b *HTTPBoard) ChargeLeft() (int, error) {
	var body struct {
		Charge int `json:"charge"`
	}
	if err := b.get("/api/battery", &body); err != nil {
		return 0, err
	}
	return body.Charge, nil
}

// Translate drives one cell forward.
func (b *HTTPBoard) Translate() error {
	return b.post("/api/drive/translate", nil)
}

// Rotate turns the base a quarter turn in direction.
func (b *HTTPBoard) Rotate(direction string) error {
	return b.post("/api/drive/rotate", map[string]string{"direction": direction})
}

func (b *HTTPBoard) get(path string, out interface{}) error {
	ctx, cancel := b.requestContext()
	defer cancel()

	resp, err := httpc.Get(ctx, b.client, b.BaseURL+path)
	if err != nil {
		return fmt.Errorf("hw: GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("hw: GET %s: status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("hw: decode %s: %w", path, err)
	}
	return nil
}

func (b *HTTPBoard) post(path string, payload interface{}) error {
	var data []byte
	if payload != nil {
		var err error
		data, err = json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("hw: marshal %s payload: %w", path, err)
		}
	}

	ctx, cancel := b.requestContext()
	defer cancel()

	resp, err := httpc.Post(ctx, b.client, b.BaseURL+path, "application/json", data)
	if err != nil {
		return fmt.Errorf("hw: POST %s: %w", path, err)
	}
	resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("hw: POST %s: status %d", path, resp.StatusCode)
	}
	return nil
}
