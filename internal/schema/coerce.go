package schema

import (
	"strconv"
	"strings"

	"github.com/ohler55/ojg/oj"
	"github.com/spf13/cast"
)

// coerce — "лестница" приведения значения к ожидаемому типу.
// ok=false: привести нельзя, путь попадает в ошибки.
func coerce(t Tags, v any) (any, bool) {
	if v == nil {
		return nil, false
	}
	switch t.Primary() {
	case Bool:
		if !isScalar(v) {
			return nil, false
		}
		b, err := cast.ToBoolE(v)
		return b, err == nil
	case String:
		if !isScalar(v) {
			return nil, false
		}
		s, err := cast.ToStringE(v)
		return s, err == nil
	case Int:
		if !isScalar(v) {
			return nil, false
		}
		return toInt(v)
	case Float:
		if !isScalar(v) {
			return nil, false
		}
		f, err := cast.ToFloat64E(v)
		return f, err == nil
	case List:
		return coerceList(t, v)
	}
	return nil, false
}

func coerceList(t Tags, v any) (any, bool) {
	if len(t.Types) < 2 {
		return nil, false
	}
	switch t.Types[1] {
	case List:
		// список списков принимается только как JSON-литерал в строке
		s, ok := v.(string)
		if !ok {
			return nil, false
		}
		parsed, err := oj.ParseString(s)
		if err != nil {
			return nil, false
		}
		list, ok := parsed.([]any)
		return list, ok
	case String:
		s, ok := v.(string)
		if !ok {
			return nil, false
		}
		out := []any{}
		if s == "" {
			return out, true
		}
		for _, part := range strings.Split(s, ",") {
			if part != "" {
				out = append(out, part)
			}
		}
		return out, true
	case Int:
		if !isScalar(v) {
			return nil, false
		}
		n, ok := toInt(v)
		if !ok {
			return nil, false
		}
		return []any{n}, true
	}
	return nil, false
}

// toInt: строки только в десятичной записи ("010" → 10, "0x10" — ошибка),
// целое с ".0" допускается. Остальные скаляры через cast.
func toInt(v any) (int64, bool) {
	s, ok := v.(string)
	if !ok {
		n, err := cast.ToInt64E(v)
		return n, err == nil
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), ".0")
	n, err := strconv.ParseInt(s, 10, 64)
	return n, err == nil
}

func isScalar(v any) bool {
	switch KindOf(v) {
	case Bool, String, Int, Float:
		return true
	}
	return false
}
