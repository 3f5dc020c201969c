package command

import (
	"reflect"
	"testing"
)

func TestParseValidCommands(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Command
	}{
		{
			name: "modify entity",
			raw:  `{"cmd":"modify_entity","entity_id":"sun_light","components":{"point_light":{"color":[1,0,0]}}}`,
			want: NewModify("sun_light", Components{"point_light": {"color": []any{1.0, 0.0, 0.0}}}),
		},
		{
			name: "spawn entity",
			raw:  `{"cmd":"spawn_entity","entity_id":"rain_1","components":{"transform":{"position":[0,5,0]}}}`,
			want: NewSpawn("rain_1", Components{"transform": {"position": []any{0.0, 5.0, 0.0}}}),
		},
		{
			name: "destroy entity",
			raw:  `{"cmd":"destroy_entity","entity_id":"rain_1"}`,
			want: NewDestroy("rain_1"),
		},
		{
			name: "emit event with data",
			raw:  `{"cmd":"emit_event","event_type":"sunrise","data":{"duration":3.5}}`,
			want: NewEmitEvent("sunrise", map[string]any{"duration": 3.5}),
		},
		{
			name: "emit event without data",
			raw:  `{"cmd":"emit_event","event_type":"sunrise"}`,
			want: NewEmitEvent("sunrise", nil),
		},
		{
			name: "list entities",
			raw:  `{"cmd":"list_entities"}`,
			want: NewList(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse([]byte(tt.raw))
			if err != nil {
				t.Fatalf("Parse(%s) returned error: %v", tt.raw, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse(%s) = %#v, want %#v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParseRejectsMalformedCommands(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "unknown kind", raw: `{"cmd":"teleport_entity","entity_id":"x"}`},
		{name: "empty kind", raw: `{"entity_id":"x"}`},
		{name: "modify without entity", raw: `{"cmd":"modify_entity","components":{"transform":{}}}`},
		{name: "modify without components", raw: `{"cmd":"modify_entity","entity_id":"x"}`},
		{name: "spawn without components", raw: `{"cmd":"spawn_entity","entity_id":"x"}`},
		{name: "modify with event fields", raw: `{"cmd":"modify_entity","entity_id":"x","components":{"a":{}},"event_type":"boom"}`},
		{name: "destroy with components", raw: `{"cmd":"destroy_entity","entity_id":"x","components":{"a":{}}}`},
		{name: "emit event without type", raw: `{"cmd":"emit_event","data":{}}`},
		{name: "emit event with entity", raw: `{"cmd":"emit_event","event_type":"boom","entity_id":"x"}`},
		{name: "list with arguments", raw: `{"cmd":"list_entities","entity_id":"x"}`},
		{name: "not an object", raw: `[1,2,3]`},
		{name: "not json", raw: `make it rain`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got, err := Parse([]byte(tt.raw)); err == nil {
				t.Errorf("Parse(%s) = %#v, want error", tt.raw, got)
			}
		})
	}
}

func TestParseBatchArray(t *testing.T) {
	raw := `[
		{"cmd":"spawn_entity","entity_id":"a","components":{"transform":{}}},
		{"cmd":"modify_entity","entity_id":"a","components":{"point_light":{"intensity":5}}},
		{"cmd":"destroy_entity","entity_id":"b"}
	]`

	cmds, err := ParseBatch([]byte(raw))
	if err != nil {
		t.Fatalf("ParseBatch returned error: %v", err)
	}
	if len(cmds) != 3 {
		t.Fatalf("ParseBatch returned %d commands, want 3", len(cmds))
	}

	wantKinds := []Kind{KindSpawn, KindModify, KindDestroy}
	wantTargets := []string{"a", "a", "b"}
	for i, cmd := range cmds {
		if cmd.Kind() != wantKinds[i] {
			t.Errorf("command %d kind = %s, want %s", i, cmd.Kind(), wantKinds[i])
		}
		if cmd.Target() != wantTargets[i] {
			t.Errorf("command %d target = %s, want %s", i, cmd.Target(), wantTargets[i])
		}
	}
}

func TestParseBatchNormalizesSingleObject(t *testing.T) {
	raw := `{"cmd":"destroy_entity","entity_id":"rain_1"}`

	cmds, err := ParseBatch([]byte(raw))
	if err != nil {
		t.Fatalf("ParseBatch returned error: %v", err)
	}
	if len(cmds) != 1 {
		t.Fatalf("ParseBatch returned %d commands, want 1", len(cmds))
	}
	if !reflect.DeepEqual(cmds[0], NewDestroy("rain_1")) {
		t.Errorf("ParseBatch single object = %#v, want destroy rain_1", cmds[0])
	}
}

func TestParseBatchEmptyArray(t *testing.T) {
	cmds, err := ParseBatch([]byte(`[]`))
	if err != nil {
		t.Fatalf("ParseBatch([]) returned error: %v", err)
	}
	if len(cmds) != 0 {
		t.Errorf("ParseBatch([]) returned %d commands, want 0", len(cmds))
	}
}

func TestParseBatchRejectsBadShapes(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "prose", raw: `I made the lights red for you!`},
		{name: "string array", raw: `["modify_entity"]`},
		{name: "one bad element fails the batch", raw: `[{"cmd":"destroy_entity","entity_id":"a"},{"cmd":"explode"}]`},
		{name: "number", raw: `42`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got, err := ParseBatch([]byte(tt.raw)); err == nil {
				t.Errorf("ParseBatch(%s) = %#v, want error", tt.raw, got)
			}
		})
	}
}

func TestRequestWireShapes(t *testing.T) {
	tests := []struct {
		name string
		cmd  Command
		want map[string]any
	}{
		{
			name: "modify",
			cmd:  NewModify("x", Components{"point_light": {"intensity": 5.0}}),
			want: map[string]any{"cmd": "modify_entity", "entity_id": "x", "components": Components{"point_light": {"intensity": 5.0}}},
		},
		{
			name: "destroy",
			cmd:  NewDestroy("x"),
			want: map[string]any{"cmd": "destroy_entity", "entity_id": "x"},
		},
		{
			name: "emit event",
			cmd:  NewEmitEvent("boom", map[string]any{"power": 1.0}),
			want: map[string]any{"cmd": "emit_event", "event_type": "boom", "data": map[string]any{"power": 1.0}},
		},
		{
			name: "list",
			cmd:  NewList(),
			want: map[string]any{"cmd": "list_entities"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cmd.Request(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Request() = %#v, want %#v", got, tt.want)
			}
		})
	}
}
