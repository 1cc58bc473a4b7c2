package domain

import (
	"encoding/json"
	"fmt"

	"github.com/poiesic/quire/core"
)

// payloadPreparer lets an entity adjust its payload map just before a
// write, e.g. to derive a stored field from another.
type payloadPreparer interface {
	preparePayload(data map[string]any)
}

// encodeToMap serializes v through its JSON tags to a plain map.
func encodeToMap(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, err
	}
	return data, nil
}

// buildPayload serializes an entity to the map sent to the store. The
// id never travels in the payload; it is addressed separately.
func buildPayload(m Model) (map[string]any, error) {
	data, err := encodeToMap(m)
	if err != nil {
		return nil, fmt.Errorf("%w: encode %s: %w", core.ErrInvalidInput, m.Table(), err)
	}
	delete(data, "id")

	if p, ok := m.(payloadPreparer); ok {
		p.preparePayload(data)
	}
	return data, nil
}

// decodeRow populates v from a stored row.
func decodeRow(row map[string]any, v any) error {
	raw, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("%w: decode row: %w", core.ErrDatabaseOperation, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: decode row: %w", core.ErrDatabaseOperation, err)
	}
	return nil
}
