package engine

import (
	"context"
	"encoding/json"

	"github.com/fpt/scenebridge/pkg/command"
)

// Entity summarizes one addressable object in the engine scene. The bridge
// only ever reads the identifier; everything else about the entity stays
// inside the engine.
type Entity struct {
	ID string `json:"id"`
}

type entityList struct {
	Entities []Entity `json:"entities"`
}

// ListEntities returns the engine's current entity summaries in engine
// order. Any failure yields an empty slice; callers treat empty as "cannot
// determine liveness" and must not proceed with interpretation on it.
func (c *Client) ListEntities(ctx context.Context) []Entity {
	resp := c.Execute(ctx, command.NewList())
	if !resp.OK() {
		c.logger.Debug("list_entities failed", "error", resp.Message)
		return nil
	}
	if len(resp.Data) == 0 {
		return nil
	}

	var payload entityList
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		c.logger.Debug("list_entities payload malformed", "error", err)
		return nil
	}
	return payload.Entities
}

// IDs extracts the identifiers from entity summaries, preserving order.
func IDs(entities []Entity) []string {
	ids := make([]string, 0, len(entities))
	for _, e := range entities {
		ids = append(ids, e.ID)
	}
	return ids
}
