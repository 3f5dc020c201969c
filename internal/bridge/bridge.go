// Package bridge runs the message-processing pipeline: long-poll the chat
// transport, translate free text into engine commands, execute them, and
// report back to the conversation.
package bridge

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fpt/scenebridge/internal/engine"
	"github.com/fpt/scenebridge/internal/telegram"
	"github.com/fpt/scenebridge/pkg/command"
	pkgLogger "github.com/fpt/scenebridge/pkg/logger"
)

// Transport is the chat-side surface the loop consumes.
type Transport interface {
	GetUpdates(ctx context.Context, offset int64, timeoutSec int) ([]telegram.Update, error)
	SendMessage(ctx context.Context, chatID int64, text string) error
}

// Engine is the command channel surface the pipeline executes against.
type Engine interface {
	Execute(ctx context.Context, cmd command.Command) engine.Response
	ListEntities(ctx context.Context) []engine.Entity
}

// Translator converts free text plus scene context into commands.
type Translator interface {
	Translate(ctx context.Context, userText string, entities []engine.Entity) []command.Command
}

const (
	startReply = "Scene Engine Control\n\n" +
		"Send me natural language commands and I'll control the running scene engine in real-time.\n\n" +
		"Examples:\n" +
		"  \"make it rain\"\n" +
		"  \"turn all lights red\"\n" +
		"  \"add a giant glowing sphere\"\n" +
		"  \"make everything dark\"\n" +
		"  \"sunrise\"\n" +
		"  \"chaos mode\"\n" +
		"  \"spawn a neon cube at the center\"\n"

	engineDownReply = "Scene engine is not running or no scene loaded."

	cannotInterpretReply = "Could not interpret that command. " +
		"Try something like \"make the lights blue\" or \"add a spotlight\"."
)

const (
	// DefaultPollTimeoutSec is how long one getUpdates call may be held by
	// the transport before returning empty.
	DefaultPollTimeoutSec = 30

	// DefaultBackoff is the fixed delay after a failed fetch.
	DefaultBackoff = 2 * time.Second
)

// Bridge is the update ingestion loop. One update is processed fully before
// the next batch is fetched, so command order toward the engine matches
// message arrival order without any locking.
type Bridge struct {
	transport      Transport
	engine         Engine
	translator     Translator
	dispatcher     *Dispatcher
	pollTimeoutSec int
	backoff        time.Duration
	logger         *pkgLogger.Logger

	// offset is the cursor: the id of the next unseen update. In-memory
	// only; a restart may redeliver backlog, which is accepted.
	offset int64
}

// New wires the pipeline together.
func New(transport Transport, eng Engine, translator Translator, pollTimeoutSec int, backoff time.Duration, logger *pkgLogger.Logger) *Bridge {
	if pollTimeoutSec <= 0 {
		pollTimeoutSec = DefaultPollTimeoutSec
	}
	if backoff <= 0 {
		backoff = DefaultBackoff
	}
	return &Bridge{
		transport:      transport,
		engine:         eng,
		translator:     translator,
		dispatcher:     NewDispatcher(eng, logger),
		pollTimeoutSec: pollTimeoutSec,
		backoff:        backoff,
		logger:         logger.WithComponent("bridge"),
	}
}

// Run polls for updates until ctx is cancelled. Fetch failures are logged
// and followed by a fixed backoff; nothing below a cancelled context ends
// the loop.
func (b *Bridge) Run(ctx context.Context) error {
	b.logger.Info("bridge running, polling for messages")
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		updates, err := b.transport.GetUpdates(ctx, b.offset, b.pollTimeoutSec)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			b.logger.Error("update fetch failed", "error", err)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(b.backoff):
			}
			continue
		}

		for _, update := range updates {
			// Claim the update before processing it. A crash mid-processing
			// loses at most this update instead of redelivering it forever.
			b.offset = update.UpdateID + 1
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bridge) handleUpdate(ctx context.Context, update telegram.Update) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("panic while handling update", "update_id", update.UpdateID, "panic", r)
		}
	}()

	if update.Message == nil {
		return
	}
	text := strings.TrimSpace(update.Message.Text)
	chatID := update.Message.Chat.ID
	if text == "" || chatID == 0 {
		return
	}

	switch {
	case strings.HasPrefix(text, "/start"):
		b.reply(ctx, chatID, startReply)
	case strings.HasPrefix(text, "/entities"):
		names := engine.IDs(b.engine.ListEntities(ctx))
		b.reply(ctx, chatID, fmt.Sprintf("Scene entities (%d):\n%s", len(names), strings.Join(names, "\n")))
	default:
		b.processMessage(ctx, chatID, text)
	}
}

// processMessage runs the full pipeline for one free-text message. Each
// stage degrades to a fixed operator-facing reply; in particular a dead or
// empty engine stops the pipeline before the interpretation service is
// called at all.
func (b *Bridge) processMessage(ctx context.Context, chatID int64, text string) {
	b.logger.Info("received message", "chat", chatID, "text", text)

	entities := b.engine.ListEntities(ctx)
	if len(entities) == 0 {
		b.reply(ctx, chatID, engineDownReply)
		return
	}

	b.reply(ctx, chatID, fmt.Sprintf("Processing: %q...", text))

	cmds := b.translator.Translate(ctx, text, entities)
	if len(cmds) == 0 {
		b.reply(ctx, chatID, cannotInterpretReply)
		return
	}

	outcomes := b.dispatcher.RunAll(ctx, cmds)
	b.reply(ctx, chatID, RenderSummary(outcomes))
}

func (b *Bridge) reply(ctx context.Context, chatID int64, text string) {
	if err := b.transport.SendMessage(ctx, chatID, text); err != nil {
		b.logger.Error("failed to send reply", "chat", chatID, "error", err)
	}
}
