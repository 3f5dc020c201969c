package command

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// envelope is the superset of fields any command variant may carry on the
// wire. Parse maps it onto exactly one variant or rejects it.
type envelope struct {
	Cmd        string         `json:"cmd"`
	EntityID   string         `json:"entity_id"`
	Components Components     `json:"components"`
	EventType  string         `json:"event_type"`
	Data       map[string]any `json:"data"`
}

// Parse decodes a single JSON command object into its variant. Elements
// that carry an unknown kind, miss a required field, or mix in fields that
// do not belong to their kind are rejected rather than coerced.
func Parse(raw []byte) (Command, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, errors.Wrap(err, "not a command object")
	}

	switch Kind(env.Cmd) {
	case KindSpawn:
		if err := env.requireEntity(); err != nil {
			return nil, err
		}
		if err := env.requireComponents(); err != nil {
			return nil, err
		}
		if err := env.forbidEvent(); err != nil {
			return nil, err
		}
		return NewSpawn(env.EntityID, env.Components), nil
	case KindModify:
		if err := env.requireEntity(); err != nil {
			return nil, err
		}
		if err := env.requireComponents(); err != nil {
			return nil, err
		}
		if err := env.forbidEvent(); err != nil {
			return nil, err
		}
		return NewModify(env.EntityID, env.Components), nil
	case KindDestroy:
		if err := env.requireEntity(); err != nil {
			return nil, err
		}
		if err := env.forbidComponents(); err != nil {
			return nil, err
		}
		if err := env.forbidEvent(); err != nil {
			return nil, err
		}
		return NewDestroy(env.EntityID), nil
	case KindEmitEvent:
		if env.EventType == "" {
			return nil, errors.Errorf("%s requires event_type", env.Cmd)
		}
		if env.EntityID != "" {
			return nil, errors.Errorf("%s does not take entity_id", env.Cmd)
		}
		if err := env.forbidComponents(); err != nil {
			return nil, err
		}
		return NewEmitEvent(env.EventType, env.Data), nil
	case KindList:
		if env.EntityID != "" || env.Components != nil || env.EventType != "" || env.Data != nil {
			return nil, errors.Errorf("%s takes no arguments", env.Cmd)
		}
		return NewList(), nil
	default:
		return nil, errors.Errorf("unknown command kind %q", env.Cmd)
	}
}

// ParseBatch decodes an interpretation-service reply into an ordered
// command sequence. A reply that is a single command object rather than an
// array is normalized into a one-element sequence. A batch with any
// malformed element fails as a whole.
func ParseBatch(data []byte) ([]Command, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		cmd, objErr := Parse(data)
		if objErr != nil {
			return nil, errors.Wrap(objErr, "reply is neither a command array nor a single command")
		}
		return []Command{cmd}, nil
	}

	cmds := make([]Command, 0, len(raws))
	for i, raw := range raws {
		cmd, err := Parse(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "element %d", i)
		}
		cmds = append(cmds, cmd)
	}
	return cmds, nil
}

func (e *envelope) requireEntity() error {
	if e.EntityID == "" {
		return errors.Errorf("%s requires entity_id", e.Cmd)
	}
	return nil
}

func (e *envelope) requireComponents() error {
	if len(e.Components) == 0 {
		return errors.Errorf("%s requires components", e.Cmd)
	}
	return nil
}

func (e *envelope) forbidComponents() error {
	if e.Components != nil {
		return errors.Errorf("%s does not take components", e.Cmd)
	}
	return nil
}

func (e *envelope) forbidEvent() error {
	if e.EventType != "" || e.Data != nil {
		return errors.Errorf("%s does not take event fields", e.Cmd)
	}
	return nil
}
