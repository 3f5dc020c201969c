package interpret

import (
	"strings"
	"testing"
)

func TestLoadContract(t *testing.T) {
	contract, err := LoadContract()
	if err != nil {
		t.Fatalf("LoadContract failed: %v", err)
	}

	if contract.Version < 1 {
		t.Errorf("contract version = %d, want >= 1", contract.Version)
	}

	wantKinds := []string{"spawn_entity", "modify_entity", "destroy_entity", "emit_event", "list_entities"}
	got := make(map[string]bool, len(contract.Commands))
	for _, cmd := range contract.Commands {
		got[cmd.Name] = true
		if strings.TrimSpace(cmd.Example) == "" {
			t.Errorf("command %s has no wire example", cmd.Name)
		}
	}
	for _, kind := range wantKinds {
		if !got[kind] {
			t.Errorf("contract missing command %s", kind)
		}
	}
}

func TestSystemPromptContent(t *testing.T) {
	contract, err := LoadContract()
	if err != nil {
		t.Fatalf("LoadContract failed: %v", err)
	}

	prompt := contract.SystemPrompt()
	for _, fragment := range []string{
		"modify_entity",
		"spawn_entity",
		"destroy_entity",
		"emit_event",
		"Available materials:",
		"Return ONLY a JSON array",
	} {
		if !strings.Contains(prompt, fragment) {
			t.Errorf("system prompt missing %q", fragment)
		}
	}
}
