package schema

// Kind — тип значения в дереве документа.
type Kind int

const (
	Invalid Kind = iota
	Bool
	String
	Int
	Float
	List
	Dict
)

var kindNames = [...]string{
	Invalid: "null",
	Bool:    "bool",
	String:  "str",
	Int:     "int",
	Float:   "float",
	List:    "list",
	Dict:    "dict",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// ParseKind понимает имена типов из таблиц правил: bool, str, int, float, list, dict.
func ParseKind(s string) (Kind, bool) {
	for k, name := range kindNames {
		if k != int(Invalid) && name == s {
			return Kind(k), true
		}
	}
	return Invalid, false
}

// KindOf определяет тип значения. Для nil и неизвестных типов — Invalid.
func KindOf(v any) Kind {
	switch v.(type) {
	case bool:
		return Bool
	case string:
		return String
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return Int
	case float32, float64:
		return Float
	case []any:
		return List
	case map[string]any:
		return Dict
	}
	return Invalid
}
