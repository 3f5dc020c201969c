package bridge

import (
	"context"
	"io"
	"testing"

	"github.com/fpt/scenebridge/internal/engine"
	"github.com/fpt/scenebridge/pkg/command"
	pkgLogger "github.com/fpt/scenebridge/pkg/logger"
)

func testLogger() *pkgLogger.Logger {
	return pkgLogger.NewLoggerWithWriter(pkgLogger.LogLevelError, io.Discard)
}

type fakeEngine struct {
	entities  []engine.Entity
	listCalls int
	executed  []command.Command
	respond   func(cmd command.Command) engine.Response
}

func (f *fakeEngine) Execute(ctx context.Context, cmd command.Command) engine.Response {
	f.executed = append(f.executed, cmd)
	if f.respond != nil {
		return f.respond(cmd)
	}
	return engine.Response{Status: "ok"}
}

func (f *fakeEngine) ListEntities(ctx context.Context) []engine.Entity {
	f.listCalls++
	return f.entities
}

func TestRunAllPartialFailure(t *testing.T) {
	eng := &fakeEngine{
		respond: func(cmd command.Command) engine.Response {
			if cmd.Target() == "broken" {
				return engine.Response{Status: "error", Message: "unknown entity"}
			}
			return engine.Response{Status: "ok"}
		},
	}
	dispatcher := NewDispatcher(eng, testLogger())

	cmds := []command.Command{
		command.NewModify("a", command.Components{"point_light": {"intensity": 5.0}}),
		command.NewDestroy("broken"),
		command.NewModify("b", command.Components{"point_light": {"intensity": 5.0}}),
	}
	outcomes := dispatcher.RunAll(context.Background(), cmds)

	if len(outcomes) != 3 {
		t.Fatalf("RunAll returned %d outcomes, want 3", len(outcomes))
	}
	if len(eng.executed) != 3 {
		t.Fatalf("engine executed %d commands, want all 3 despite the failure", len(eng.executed))
	}

	wantStatus := []string{"ok", "error", "ok"}
	wantTarget := []string{"a", "broken", "b"}
	for i, o := range outcomes {
		if o.Status != wantStatus[i] {
			t.Errorf("outcome %d status = %s, want %s", i, o.Status, wantStatus[i])
		}
		if o.Target != wantTarget[i] {
			t.Errorf("outcome %d target = %s, want %s", i, o.Target, wantTarget[i])
		}
	}
	if outcomes[1].Detail != "unknown entity" {
		t.Errorf("failing outcome detail = %q, want the engine message", outcomes[1].Detail)
	}
}

func TestRunAllNormalizesMissingStatus(t *testing.T) {
	eng := &fakeEngine{
		respond: func(cmd command.Command) engine.Response {
			return engine.Response{}
		},
	}
	dispatcher := NewDispatcher(eng, testLogger())

	outcomes := dispatcher.RunAll(context.Background(), []command.Command{command.NewList()})
	if outcomes[0].Status != "unknown" {
		t.Errorf("status = %q, want unknown for a statusless reply", outcomes[0].Status)
	}
}

func TestRenderSummary(t *testing.T) {
	outcomes := []Outcome{
		{Kind: command.KindModify, Target: "sun_light", Status: "ok"},
		{Kind: command.KindDestroy, Target: "rain_1", Status: "error", Detail: "unknown entity"},
		{Kind: command.KindList, Status: "ok"},
	}

	want := "Executed 3 command(s):\n" +
		"  modify_entity sun_light: ok\n" +
		"  destroy_entity rain_1: error\n" +
		"  list_entities: ok"
	if got := RenderSummary(outcomes); got != want {
		t.Errorf("RenderSummary = %q, want %q", got, want)
	}
}
