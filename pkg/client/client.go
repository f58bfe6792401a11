// Package client is a Go client for the cleaner control API.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/teslashibe/go-cleaner/internal/httpc"
	"github.com/teslashibe/go-cleaner/pkg/protocol"
)

// APIError is a non-2xx response from the control API
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("cleaner api: status %d", e.StatusCode)
	}
	return fmt.Sprintf("cleaner api: %s: %s", e.Code, e.Message)
}

// Client talks to a running cleaner over HTTP
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the server at baseURL, e.g. "http://localhost:8080".
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpc.Client,
	}
}

// WithTimeout returns a copy of c using its own http client with timeout.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	cp := *c
	cp.http = httpc.NewClient(timeout)
	return &cp
}

// Status returns the current robot state.
func (c *Client) Status(ctx context.Context) (protocol.StateData, error) {
	var out protocol.StateData
	resp, err := httpc.Get(ctx, c.http, c.baseURL+"/api/status")
	if err != nil {
		return out, err
	}
	return out, decode(resp, &out)
}

// Command executes a single command token.
func (c *Client) Command(ctx context.Context, token string) (protocol.ResultData, error) {
	var out protocol.ResultData
	err := c.post(ctx, "/api/commands/"+url.PathEscape(token), nil, &out)
	return out, err
}

// Sequence executes tokens in order. On failure the results executed before
// the failing token are returned alongside the error.
func (c *Client) Sequence(ctx context.Context, tokens []string) ([]protocol.ResultData, error) {
	body, err := json.Marshal(protocol.SequenceData{Tokens: tokens})
	if err != nil {
		return nil, err
	}

	resp, err := httpc.Post(ctx, c.http, c.baseURL+"/api/commands", "application/json", body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	var out protocol.ResultsData
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, &APIError{StatusCode: resp.StatusCode}
	}
	if resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: out.Error}
		var e protocol.ErrorData
		if json.Unmarshal(data, &e) == nil && e.Code != "" {
			apiErr.Code, apiErr.Message = e.Code, e.Message
		}
		return out.Results, apiErr
	}
	return out.Results, nil
}

// Dirt reports a sensed dirt level.
func (c *Client) Dirt(ctx context.Context, level string) (protocol.StateData, error) {
	var out protocol.StateData
	err := c.post(ctx, "/api/dirt/"+url.PathEscape(level), nil, &out)
	return out, err
}

// Power runs the power subsystem check.
func (c *Client) Power(ctx context.Context) (protocol.PowerData, error) {
	var out protocol.PowerData
	err := c.post(ctx, "/api/power", nil, &out)
	return out, err
}

// Return sends the robot back to the origin.
func (c *Client) Return(ctx context.Context) (protocol.StateData, error) {
	var out protocol.StateData
	err := c.post(ctx, "/api/return", nil, &out)
	return out, err
}

// Reset re-initializes the robot.
func (c *Client) Reset(ctx context.Context) (protocol.StateData, error) {
	var out protocol.StateData
	err := c.post(ctx, "/api/reset", nil, &out)
	return out, err
}

// Watch streams /ws/status messages to fn until ctx is done or the
// connection drops.
func (c *Client) Watch(ctx context.Context, fn func(*protocol.Message)) error {
	wsURL := "ws" + strings.TrimPrefix(c.baseURL, "http") + "/ws/status"
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", wsURL, err)
	}
	defer conn.Close()

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		msg, err := protocol.ParseMessage(data)
		if err != nil {
			continue
		}
		fn(msg)
	}
}

func (c *Client) post(ctx context.Context, path string, body []byte, out interface{}) error {
	resp, err := httpc.Post(ctx, c.http, c.baseURL+path, "application/json", body)
	if err != nil {
		return err
	}
	return decode(resp, out)
}

func decode(resp *http.Response, out interface{}) error {
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var e protocol.ErrorData
		if json.NewDecoder(resp.Body).Decode(&e) == nil {
			apiErr.Code, apiErr.Message = e.Code, e.Message
		}
		return apiErr
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
