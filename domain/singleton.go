package domain

import (
	"context"
	"fmt"

	"github.com/poiesic/quire/core"
)

// Singleton is implemented by records that live at one fixed id, such
// as application settings. The value itself carries its defaults; load
// and save operate on a pre-constructed instance.
type Singleton interface {
	// RecordKey returns the fixed "table:key" id of the record.
	RecordKey() string
}

// LoadRecord populates rec from its fixed record, when one exists.
// An absent record leaves rec's defaults untouched. A store failure is
// logged and the defaults kept, so callers can run against a cold or
// unreachable database. Only a record that exists but cannot be
// decoded is an error.
func (c *Catalog) LoadRecord(ctx context.Context, rec Singleton) error {
	id := rec.RecordKey()
	rows, err := c.store.Query(ctx, "SELECT * FROM type::record($id)", map[string]any{"id": id})
	if err != nil {
		c.logger.Warn("keeping defaults, record unavailable", "id", id, "error", err)
		return nil
	}
	if len(rows) == 0 {
		return nil
	}

	row := rows[0]
	delete(row, "id")
	delete(row, "record_id")
	if err := decodeRow(row, rec); err != nil {
		return fmt.Errorf("%w: record %s: %w", core.ErrDatabaseOperation, id, err)
	}
	return nil
}

// SaveRecord writes rec to its fixed id, creating or replacing it.
func (c *Catalog) SaveRecord(ctx context.Context, rec Singleton) error {
	id := rec.RecordKey()

	raw, err := buildSingletonPayload(rec)
	if err != nil {
		return err
	}
	raw["record_id"] = id

	if _, err := c.store.Upsert(ctx, id, raw); err != nil {
		return err
	}
	c.logger.Debug("saved record", "id", id)
	return nil
}

func buildSingletonPayload(rec Singleton) (map[string]any, error) {
	data, err := encodeToMap(rec)
	if err != nil {
		return nil, fmt.Errorf("%w: encode record %s: %w", core.ErrInvalidInput, rec.RecordKey(), err)
	}
	delete(data, "id")
	return data, nil
}
