package store

import (
	"fmt"
	"sort"
	"strings"
)

type fieldKind int

const (
	kindText fieldKind = iota
	kindBool
	kindInt
	kindReal
	kindJSON
)

type fieldSpec struct {
	column string
	kind   fieldKind
}

// buildUpdate turns a decoded JSON patch into SET clauses. Fields outside the
// whitelist are dropped; a whitelisted field with the wrong type is an error.
func buildUpdate(allowed map[string]fieldSpec, updates map[string]any) ([]string, []any, error) {
	keys := make([]string, 0, len(updates))
	for k := range updates {
		if _, ok := allowed[k]; ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	sets := make([]string, 0, len(keys))
	args := make([]any, 0, len(keys))
	for _, k := range keys {
		spec := allowed[k]
		v, err := convertField(spec.kind, updates[k])
		if err != nil {
			return nil, nil, fmt.Errorf("%w: field %q: %v", ErrInvalidUpdate, k, err)
		}
		sets = append(sets, spec.column+" = ?")
		args = append(args, v)
	}
	return sets, args, nil
}

func convertField(kind fieldKind, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch kind {
	case kindText:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("want string, got %T", v)
		}
		return s, nil
	case kindBool:
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("want bool, got %T", v)
		}
		return boolToInt(b), nil
	case kindInt:
		f, ok := v.(float64)
		if !ok {
			return nil, fmt.Errorf("want number, got %T", v)
		}
		return int64(f), nil
	case kindReal:
		f, ok := v.(float64)
		if !ok {
			return nil, fmt.Errorf("want number, got %T", v)
		}
		return f, nil
	case kindJSON:
		return nullableJSON(v)
	}
	return nil, fmt.Errorf("unsupported field kind %d", kind)
}

func joinSets(sets []string) string {
	return strings.Join(sets, ", ")
}
