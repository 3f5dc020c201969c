// Package interpret turns free-text operator messages into scene engine
// commands via the Anthropic Messages API.
package interpret

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/pkg/errors"

	"github.com/fpt/scenebridge/internal/engine"
	"github.com/fpt/scenebridge/pkg/command"
	pkgLogger "github.com/fpt/scenebridge/pkg/logger"
)

const (
	// maxContextEntities caps the entity summary to bound token size.
	maxContextEntities = 40

	defaultMaxTokens = 2048

	// DefaultTimeout bounds one interpretation-service call. Language-model
	// responses are slower than the engine socket, so this is the longest
	// per-call wait in the pipeline.
	DefaultTimeout = 30 * time.Second
)

// messageCreator isolates the single interpretation-service call so tests
// can substitute the service.
type messageCreator interface {
	createMessage(ctx context.Context, system, user string) (string, error)
}

// Translator converts user text plus scene context into an ordered command
// sequence. All failures degrade to an empty sequence: a confused
// interpretation service must result in "no action", never a crash or a
// half-understood command reaching the engine.
type Translator struct {
	api      messageCreator
	contract *Contract
	timeout  time.Duration
	logger   *pkgLogger.Logger
}

// NewTranslator creates a translator backed by the Anthropic Messages API.
func NewTranslator(apiKey, model string, maxTokens int, contract *Contract, logger *pkgLogger.Logger) *Translator {
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &Translator{
		api: &anthropicCreator{
			client:    &client,
			model:     model,
			maxTokens: maxTokens,
		},
		contract: contract,
		timeout:  DefaultTimeout,
		logger:   logger.WithComponent("interpret"),
	}
}

// Translate returns the ordered command sequence for the user text, or an
// empty sequence if the service fails or replies with anything that is not
// a well-formed command batch. Failures are logged here, never propagated.
func (t *Translator) Translate(ctx context.Context, userText string, entities []engine.Entity) []command.Command {
	ids := engine.IDs(entities)
	if len(ids) > maxContextEntities {
		ids = ids[:maxContextEntities]
	}
	user := fmt.Sprintf("Scene entities: [%s]\n\nUser request: %s", strings.Join(ids, ", "), userText)

	callCtx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	reply, err := t.api.createMessage(callCtx, t.contract.SystemPrompt(), user)
	if err != nil {
		t.logger.Error("interpretation service call failed", "error", err)
		return nil
	}

	cmds, err := command.ParseBatch([]byte(stripFence(strings.TrimSpace(reply))))
	if err != nil {
		t.logger.Error("interpretation reply rejected", "error", err, "reply_len", len(reply))
		return nil
	}

	t.logger.Debug("translated user text", "commands", len(cmds))
	return cmds
}

type anthropicCreator struct {
	client    *anthropic.Client
	model     string
	maxTokens int
}

func (a *anthropicCreator) createMessage(ctx context.Context, system, user string) (string, error) {
	msg, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: int64(a.maxTokens),
		System: []anthropic.TextBlockParam{
			{Text: system},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(user)),
		},
	})
	if err != nil {
		return "", errors.Wrap(err, "anthropic message create failed")
	}

	for _, block := range msg.Content {
		if text, ok := block.AsAny().(anthropic.TextBlock); ok {
			return text.Text, nil
		}
	}
	return "", errors.New("no text content in interpretation reply")
}

// stripFence removes a single surrounding markdown code fence. The contract
// forbids prose around the reply, but fenced JSON is a common enough
// failure mode to tolerate before giving up on a reply.
func stripFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	rest := s[3:]
	idx := strings.IndexByte(rest, '\n')
	if idx < 0 {
		return s
	}
	rest = strings.TrimSpace(rest[idx+1:])
	rest = strings.TrimSuffix(rest, "```")
	return strings.TrimSpace(rest)
}
