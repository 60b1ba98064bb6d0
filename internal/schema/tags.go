package schema

import (
	"fmt"
	"strings"
)

// Tags — разобранный список тегов правила.
//
// Types: первый элемент — ожидаемый тип, следующие — типы элементов
// для вложенных списков ([list, list, str] — список списков строк).
type Tags struct {
	Types         []Kind
	CanBeNone     bool
	CanExtend     bool
	CanBeMultiple bool
	Select        []string
	MultiSelect   []string
	// Records — имя таблицы, применяемой к каждой записи списка.
	Records string
	Check   *Check
}

func (t Tags) Primary() Kind {
	if len(t.Types) == 0 {
		return Invalid
	}
	return t.Types[0]
}

// Elem — теги элемента списка: "хвост" списка типов, остальное наследуется.
func (t Tags) Elem() (Tags, bool) {
	if len(t.Types) < 2 {
		return Tags{}, false
	}
	e := t
	e.Types = t.Types[1:]
	return e, true
}

func (t Tags) accepts(v any) bool {
	if v == nil {
		return t.CanBeNone
	}
	k := KindOf(v)
	return k == t.Primary() || (t.Primary() == Float && k == Int)
}

func (t Tags) expected() string {
	s := t.Primary().String()
	if t.CanBeNone {
		s += ", null"
	}
	return s
}

// ParseTags разбирает теги из таблицы правил. Типы идут первыми.
func ParseTags(words []string, preds *Predicates) (Tags, error) {
	var t Tags
	typesDone := false
	for _, w := range words {
		w = strings.TrimSpace(w)
		if k, ok := ParseKind(w); ok {
			if typesDone {
				return Tags{}, fmt.Errorf("schema: type %q after modifiers", w)
			}
			t.Types = append(t.Types, k)
			continue
		}
		typesDone = true
		switch {
		case w == "can_be_none":
			t.CanBeNone = true
		case w == "can_extend":
			t.CanExtend = true
		case w == "can_be_multiple":
			t.CanBeMultiple = true
		case strings.HasPrefix(w, "multiple_select_"):
			t.MultiSelect = append(t.MultiSelect, strings.TrimPrefix(w, "multiple_select_"))
		case strings.HasPrefix(w, "select_"):
			t.Select = append(t.Select, strings.TrimPrefix(w, "select_"))
		case strings.HasPrefix(w, "records:"):
			t.Records = strings.TrimPrefix(w, "records:")
		case strings.HasPrefix(w, "check:"):
			if preds == nil {
				return Tags{}, fmt.Errorf("schema: %q needs a predicate registry", w)
			}
			c, err := preds.Compile(strings.TrimPrefix(w, "check:"))
			if err != nil {
				return Tags{}, err
			}
			t.Check = c
		default:
			return Tags{}, fmt.Errorf("schema: unknown tag %q", w)
		}
	}
	if len(t.Types) == 0 {
		return Tags{}, fmt.Errorf("schema: tags %v: no type", words)
	}
	if t.Records != "" && t.Primary() != List {
		return Tags{}, fmt.Errorf("schema: records:%s on non-list", t.Records)
	}
	return t, nil
}
