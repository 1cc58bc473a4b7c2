package surreal

import (
	"github.com/surrealdb/surrealdb.go/pkg/models"
)

// normalizeRow converts driver-specific value types in a result row to
// plain Go values so callers never import the driver. Record ids become
// "table:key" strings and datetimes become time.Time.
func normalizeRow(row map[string]any) map[string]any {
	if row == nil {
		return nil
	}
	out := make(map[string]any, len(row))
	for k, v := range row {
		out[k] = normalizeValue(v)
	}
	return out
}

func normalizeValue(v any) any {
	switch val := v.(type) {
	case models.RecordID:
		return val.String()
	case *models.RecordID:
		if val == nil {
			return nil
		}
		return val.String()
	case models.CustomDateTime:
		return val.Time
	case *models.CustomDateTime:
		if val == nil {
			return nil
		}
		return val.Time
	case map[string]any:
		return normalizeRow(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalizeValue(item)
		}
		return out
	default:
		return v
	}
}
