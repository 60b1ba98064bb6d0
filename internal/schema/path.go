package schema

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ohler55/ojg/jp"
)

// Path — адрес значения в документе: string — ключ словаря, int — индекс списка.
type Path []any

var errEmptyPath = errors.New("schema: empty path")

// ParsePath разбирает запись вида ['fortnite']['party'][0].
func ParsePath(s string) (Path, error) {
	var p Path
	rest := strings.TrimSpace(s)
	for rest != "" {
		if rest[0] != '[' {
			return nil, fmt.Errorf("schema: path %q: expected '[' at %q", s, rest)
		}
		rest = rest[1:]
		if rest == "" {
			return nil, fmt.Errorf("schema: path %q: unexpected end", s)
		}
		switch q := rest[0]; q {
		case '\'', '"':
			end := strings.IndexByte(rest[1:], q)
			if end < 0 || len(rest) < end+3 || rest[end+2] != ']' {
				return nil, fmt.Errorf("schema: path %q: unterminated key", s)
			}
			p = append(p, rest[1:end+1])
			rest = rest[end+3:]
		default:
			end := strings.IndexByte(rest, ']')
			if end < 0 {
				return nil, fmt.Errorf("schema: path %q: unterminated index", s)
			}
			n, err := strconv.Atoi(strings.TrimSpace(rest[:end]))
			if err != nil {
				return nil, fmt.Errorf("schema: path %q: bad index: %w", s, err)
			}
			p = append(p, n)
			rest = rest[end+1:]
		}
	}
	return p, nil
}

func (p Path) String() string {
	var b strings.Builder
	for _, k := range p {
		switch k := k.(type) {
		case string:
			b.WriteString("['")
			b.WriteString(k)
			b.WriteString("']")
		case int:
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(k))
			b.WriteByte(']')
		}
	}
	return b.String()
}

// Key/Index/Join всегда копируют: пути часто растут от общего префикса.
func (p Path) Key(k string) Path { return p.Join(Path{k}) }

func (p Path) Index(i int) Path { return p.Join(Path{i}) }

func (p Path) Join(q Path) Path {
	out := make(Path, 0, len(p)+len(q))
	out = append(out, p...)
	return append(out, q...)
}

func (p Path) Parent() Path {
	if len(p) == 0 {
		return nil
	}
	return append(Path(nil), p[:len(p)-1]...)
}

func (p Path) expr() jp.Expr {
	x := jp.R()
	for _, k := range p {
		switch k := k.(type) {
		case string:
			x = x.C(k)
		case int:
			x = x.N(k)
		}
	}
	return x
}

// Get возвращает значение по пути. ok=false — пути нет (null — это значение).
func (p Path) Get(doc any) (any, bool) {
	if len(p) == 0 {
		return doc, true
	}
	got := p.expr().Get(doc)
	if len(got) == 0 {
		return nil, false
	}
	return got[0], true
}

// Set записывает значение по пути. Родитель должен существовать.
func (p Path) Set(doc, value any) error {
	if len(p) == 0 {
		return errEmptyPath
	}
	parent, ok := p.Parent().Get(doc)
	if !ok {
		return fmt.Errorf("schema: set %s: parent is missing", p)
	}
	switch k := p[len(p)-1].(type) {
	case string:
		if _, ok := parent.(map[string]any); !ok {
			return fmt.Errorf("schema: set %s: parent is not a dict", p)
		}
	case int:
		list, ok := parent.([]any)
		if !ok || k < 0 || k >= len(list) {
			return fmt.Errorf("schema: set %s: index out of range", p)
		}
	}
	if err := p.expr().SetOne(doc, value); err != nil {
		return fmt.Errorf("schema: set %s: %w", p, err)
	}
	return nil
}
