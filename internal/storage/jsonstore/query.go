package jsonstore

import (
	"fmt"
	"sort"
	"time"

	"cmstore/internal/storage"
)

// fieldSet maps a record's JSON field names to accessors. Each entity
// declares its fields explicitly so filters and sorts hit typed values
// instead of reflecting over struct tags; an unknown field in a query
// is a validation error, not a silent no-match.
type fieldSet[T any] map[string]func(T) any

// applyQuery filters, sorts and paginates a snapshot. The base order
// is ascending by id (ids sort by creation time), which makes results
// deterministic and gives OrderBy a stable tie-break.
func applyQuery[T any](items map[string]T, fields fieldSet[T], q storage.ListQuery) ([]T, error) {
	ids := make([]string, 0, len(items))
	for id := range items {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]T, 0, len(ids))
	for _, id := range ids {
		rec := items[id]
		match, err := matches(rec, fields, q.Where)
		if err != nil {
			return nil, err
		}
		if match {
			out = append(out, rec)
		}
	}

	if q.OrderBy != nil {
		accessor, ok := fields[q.OrderBy.Field]
		if !ok {
			return nil, &storage.ValidationError{Field: q.OrderBy.Field, Reason: "unknown sort field"}
		}
		desc := q.OrderBy.Desc
		sort.SliceStable(out, func(i, j int) bool {
			less := lessValue(accessor(out[i]), accessor(out[j]))
			if desc {
				return lessValue(accessor(out[j]), accessor(out[i]))
			}
			return less
		})
	}

	if q.Skip > 0 {
		if q.Skip >= len(out) {
			return []T{}, nil
		}
		out = out[q.Skip:]
	}
	if q.Take > 0 && q.Take < len(out) {
		out = out[:q.Take]
	}
	return out, nil
}

func matches[T any](rec T, fields fieldSet[T], where map[string]any) (bool, error) {
	for field, want := range where {
		accessor, ok := fields[field]
		if !ok {
			return false, &storage.ValidationError{Field: field, Reason: "unknown filter field"}
		}
		if !equalValue(accessor(rec), want) {
			return false, nil
		}
	}
	return true, nil
}

// normalize folds the handful of value kinds the models carry into
// comparable forms. Numbers arriving from decoded JSON are float64;
// stored ints must compare equal to them.
func normalize(v any) any {
	switch x := v.(type) {
	case int:
		return float64(x)
	case int32:
		return float64(x)
	case int64:
		return float64(x)
	case float32:
		return float64(x)
	case float64:
		return x
	case bool:
		return x
	case time.Time:
		return x.UTC().Format(time.RFC3339Nano)
	case string:
		return x
	default:
		// Named string types (Role, ContactStatus) and anything else.
		return fmt.Sprintf("%v", x)
	}
}

func equalValue(a, b any) bool {
	return normalize(a) == normalize(b)
}

func lessValue(a, b any) bool {
	na, nb := normalize(a), normalize(b)
	switch x := na.(type) {
	case float64:
		y, ok := nb.(float64)
		return ok && x < y
	case bool:
		y, ok := nb.(bool)
		return ok && !x && y
	case string:
		y, ok := nb.(string)
		return ok && x < y
	}
	return false
}
