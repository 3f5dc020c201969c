// Package telegram is a minimal Telegram Bot API client covering the three
// calls the bridge consumes: getMe, getUpdates, and sendMessage.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pkg/errors"

	pkgLogger "github.com/fpt/scenebridge/pkg/logger"
)

const (
	apiBase = "https://api.telegram.org"

	// requestTimeout bounds the short calls (getMe, sendMessage). The
	// long-poll getUpdates call derives its own bound from the poll timeout.
	requestTimeout = 15 * time.Second
)

// User identifies the bot account, as returned by getMe.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// Chat identifies where a reply goes. The id is pass-through only; the
// bridge never interprets it.
type Chat struct {
	ID int64 `json:"id"`
}

// Message is the text-bearing part of an update.
type Message struct {
	Text string `json:"text"`
	Chat Chat   `json:"chat"`
}

// Update is one chat update with its transport-assigned sequence number.
type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message"`
}

type apiResponse struct {
	OK          bool            `json:"ok"`
	Result      json.RawMessage `json:"result"`
	Description string          `json:"description"`
}

// Client calls the Telegram Bot API over JSON/HTTPS.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *pkgLogger.Logger
}

// NewClient creates a Bot API client for the given bot token.
func NewClient(token string, logger *pkgLogger.Logger) *Client {
	return NewClientWithBaseURL(token, apiBase, logger)
}

// NewClientWithBaseURL creates a client against a non-default API host.
// Tests use this to point at a local server.
func NewClientWithBaseURL(token, baseURL string, logger *pkgLogger.Logger) *Client {
	return &Client{
		baseURL: fmt.Sprintf("%s/bot%s", baseURL, token),
		http:    &http.Client{},
		logger:  logger.WithComponent("telegram"),
	}
}

// GetMe validates the bot credential and returns the bot identity.
func (c *Client) GetMe(ctx context.Context) (User, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	var user User
	if err := c.request(ctx, "getMe", nil, &user); err != nil {
		return User{}, err
	}
	return user, nil
}

// GetUpdates long-polls for message updates starting at offset. The server
// holds the request up to timeoutSec; the local deadline leaves headroom on
// top of that so a healthy long poll is never cut off client-side.
func (c *Client) GetUpdates(ctx context.Context, offset int64, timeoutSec int) ([]Update, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(timeoutSec)*time.Second+requestTimeout)
	defer cancel()

	params := map[string]any{
		"offset":          offset,
		"timeout":         timeoutSec,
		"allowed_updates": []string{"message"},
	}

	var updates []Update
	if err := c.request(ctx, "getUpdates", params, &updates); err != nil {
		return nil, err
	}
	return updates, nil
}

// SendMessage delivers text to a conversation.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	params := map[string]any{
		"chat_id": chatID,
		"text":    text,
	}
	return c.request(ctx, "sendMessage", params, nil)
}

func (c *Client) request(ctx context.Context, method string, params any, result any) error {
	url := fmt.Sprintf("%s/%s", c.baseURL, method)

	var req *http.Request
	var err error
	if params != nil {
		body, marshalErr := json.Marshal(params)
		if marshalErr != nil {
			return errors.Wrapf(marshalErr, "failed to encode %s params", method)
		}
		req, err = http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if req != nil {
			req.Header.Set("Content-Type", "application/json")
		}
	} else {
		req, err = http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	}
	if err != nil {
		return errors.Wrapf(err, "failed to build %s request", method)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s request failed", method)
	}
	defer resp.Body.Close()

	var envelope apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return errors.Wrapf(err, "failed to decode %s response", method)
	}
	if !envelope.OK {
		return errors.Errorf("%s returned not-ok (%d): %s", method, resp.StatusCode, envelope.Description)
	}

	if result != nil {
		if err := json.Unmarshal(envelope.Result, result); err != nil {
			return errors.Wrapf(err, "failed to decode %s result", method)
		}
	}
	return nil
}
