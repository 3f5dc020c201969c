// Package command defines the closed set of structured commands the scene
// engine accepts over its command channel. Commands are transient: built
// from one interpretation-service reply, executed once, then discarded.
package command

// Kind discriminates the command variants. The values are the wire-level
// "cmd" strings of the engine's socket protocol.
type Kind string

const (
	KindSpawn     Kind = "spawn_entity"
	KindModify    Kind = "modify_entity"
	KindDestroy   Kind = "destroy_entity"
	KindEmitEvent Kind = "emit_event"
	KindList      Kind = "list_entities"
)

// Components maps a component group name (e.g. "point_light", "transform")
// to its property values. Values are forwarded to the engine untouched; the
// engine is the authority on property validation.
type Components map[string]map[string]any

// Command is one structured instruction for the scene engine.
type Command interface {
	// Kind returns the variant discriminator
	Kind() Kind

	// Target returns the entity id or event type the command addresses,
	// or "" for commands without a target
	Target() string

	// Request returns the wire request for the engine command channel
	Request() map[string]any
}

// Spawn creates a new entity with the given component groups.
type Spawn struct {
	EntityID   string
	Components Components
}

func NewSpawn(entityID string, components Components) *Spawn {
	return &Spawn{EntityID: entityID, Components: components}
}

func (c *Spawn) Kind() Kind     { return KindSpawn }
func (c *Spawn) Target() string { return c.EntityID }

func (c *Spawn) Request() map[string]any {
	return map[string]any{
		"cmd":        string(KindSpawn),
		"entity_id":  c.EntityID,
		"components": c.Components,
	}
}

// Modify changes component properties of an existing entity.
type Modify struct {
	EntityID   string
	Components Components
}

func NewModify(entityID string, components Components) *Modify {
	return &Modify{EntityID: entityID, Components: components}
}

func (c *Modify) Kind() Kind     { return KindModify }
func (c *Modify) Target() string { return c.EntityID }

func (c *Modify) Request() map[string]any {
	return map[string]any{
		"cmd":        string(KindModify),
		"entity_id":  c.EntityID,
		"components": c.Components,
	}
}

// Destroy removes an entity from the scene.
type Destroy struct {
	EntityID string
}

func NewDestroy(entityID string) *Destroy {
	return &Destroy{EntityID: entityID}
}

func (c *Destroy) Kind() Kind     { return KindDestroy }
func (c *Destroy) Target() string { return c.EntityID }

func (c *Destroy) Request() map[string]any {
	return map[string]any{
		"cmd":       string(KindDestroy),
		"entity_id": c.EntityID,
	}
}

// EmitEvent publishes an event on the engine's event bus.
type EmitEvent struct {
	EventType string
	Data      map[string]any
}

func NewEmitEvent(eventType string, data map[string]any) *EmitEvent {
	if data == nil {
		data = map[string]any{}
	}
	return &EmitEvent{EventType: eventType, Data: data}
}

func (c *EmitEvent) Kind() Kind     { return KindEmitEvent }
func (c *EmitEvent) Target() string { return c.EventType }

func (c *EmitEvent) Request() map[string]any {
	return map[string]any{
		"cmd":        string(KindEmitEvent),
		"event_type": c.EventType,
		"data":       c.Data,
	}
}

// List asks the engine for its current set of addressable entities.
type List struct{}

func NewList() *List { return &List{} }

func (c *List) Kind() Kind     { return KindList }
func (c *List) Target() string { return "" }

func (c *List) Request() map[string]any {
	return map[string]any{
		"cmd": string(KindList),
	}
}
