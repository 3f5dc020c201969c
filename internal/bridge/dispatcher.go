package bridge

import (
	"context"
	"fmt"
	"strings"

	"github.com/fpt/scenebridge/pkg/command"
	pkgLogger "github.com/fpt/scenebridge/pkg/logger"
)

// Outcome records the independent result of one executed command.
type Outcome struct {
	Kind   command.Kind
	Target string
	Status string
	Detail string
}

// Dispatcher executes command batches against the engine.
type Dispatcher struct {
	engine Engine
	logger *pkgLogger.Logger
}

// NewDispatcher creates a dispatcher over the given engine.
func NewDispatcher(eng Engine, logger *pkgLogger.Logger) *Dispatcher {
	return &Dispatcher{
		engine: eng,
		logger: logger.WithComponent("dispatch"),
	}
}

// RunAll executes commands strictly in the order received and captures one
// outcome per command. A failure never cancels the remaining commands:
// chat-driven scene edits are exploratory, not transactional.
func (d *Dispatcher) RunAll(ctx context.Context, cmds []command.Command) []Outcome {
	outcomes := make([]Outcome, 0, len(cmds))
	for _, cmd := range cmds {
		resp := d.engine.Execute(ctx, cmd)

		status := resp.Status
		if status == "" {
			status = "unknown"
		}
		outcome := Outcome{
			Kind:   cmd.Kind(),
			Target: cmd.Target(),
			Status: status,
			Detail: resp.Message,
		}
		outcomes = append(outcomes, outcome)

		if resp.OK() {
			d.logger.Debug("command executed", "kind", outcome.Kind, "target", outcome.Target)
		} else {
			d.logger.Warn("command failed", "kind", outcome.Kind, "target", outcome.Target, "error", resp.Message)
		}
	}
	return outcomes
}

// RenderSummary turns an outcome sequence into the multi-line reply sent
// back to the conversation.
func RenderSummary(outcomes []Outcome) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Executed %d command(s):", len(outcomes))
	for _, o := range outcomes {
		b.WriteString("\n  ")
		b.WriteString(string(o.Kind))
		if o.Target != "" {
			b.WriteString(" ")
			b.WriteString(o.Target)
		}
		b.WriteString(": ")
		b.WriteString(o.Status)
	}
	return b.String()
}
