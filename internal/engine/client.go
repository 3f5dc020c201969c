// Package engine implements the command channel to the scene engine: a
// local Unix stream socket speaking one newline-terminated JSON request and
// one newline-terminated JSON response per connection.
package engine

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net"
	"time"

	"github.com/pkg/errors"

	"github.com/fpt/scenebridge/pkg/command"
	pkgLogger "github.com/fpt/scenebridge/pkg/logger"
)

// DefaultTimeout bounds one full request/response exchange with the engine.
const DefaultTimeout = 5 * time.Second

// Response is the engine's tagged result for one command.
type Response struct {
	Status  string          `json:"status"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
}

// OK reports whether the engine accepted the command.
func (r Response) OK() bool { return r.Status == "ok" }

// Client executes commands against the engine socket. It opens a fresh
// connection per call; the engine handles one request per connection and
// call volume is low enough that pooling buys nothing.
type Client struct {
	socketPath string
	timeout    time.Duration
	logger     *pkgLogger.Logger
}

// NewClient creates a command channel client for the given socket path.
// A non-positive timeout falls back to DefaultTimeout.
func NewClient(socketPath string, timeout time.Duration, logger *pkgLogger.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		socketPath: socketPath,
		timeout:    timeout,
		logger:     logger.WithComponent("engine"),
	}
}

// Execute sends one command and returns the engine's response. Transport
// failures (connect refused, timeout, malformed reply) are converted into
// an error-status response; a transiently unavailable engine must never
// crash the bridge.
func (c *Client) Execute(ctx context.Context, cmd command.Command) Response {
	return c.call(ctx, cmd.Request())
}

func (c *Client) call(ctx context.Context, req map[string]any) Response {
	payload, err := json.Marshal(req)
	if err != nil {
		return errorResponse(errors.Wrap(err, "failed to encode request"))
	}

	dialer := net.Dialer{Timeout: c.timeout}
	conn, err := dialer.DialContext(ctx, "unix", c.socketPath)
	if err != nil {
		return errorResponse(errors.Wrap(err, "failed to connect to engine"))
	}
	defer conn.Close()

	deadline := time.Now().Add(c.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	_ = conn.SetDeadline(deadline)

	if _, err := conn.Write(append(payload, '\n')); err != nil {
		return errorResponse(errors.Wrap(err, "failed to write request"))
	}

	// Read until the newline terminator or connection close. A reply cut
	// off by close is still decoded if any bytes arrived.
	line, err := bufio.NewReader(conn).ReadBytes('\n')
	if err != nil && len(line) == 0 {
		return errorResponse(errors.Wrap(err, "failed to read response"))
	}

	var resp Response
	if err := json.Unmarshal(bytes.TrimSpace(line), &resp); err != nil {
		return errorResponse(errors.Wrap(err, "malformed engine reply"))
	}
	return resp
}

func errorResponse(err error) Response {
	return Response{Status: "error", Message: err.Error()}
}
