package schema

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/spf13/cast"
)

// Predicate — именованная проверка значения, заменяет произвольные выражения.
type Predicate func(value any) bool

// PredicateFactory строит Predicate по аргументам из таблицы правил.
type PredicateFactory func(args ...string) (Predicate, error)

// Check — скомпилированная проверка из тега check:<spec>.
type Check struct {
	Spec string
	fn   Predicate
}

func (c *Check) Eval(v any) bool { return c.fn(v) }

// EmailPattern — формат логина аккаунта.
var EmailPattern = regexp.MustCompile(`^[a-zA-Z0-9.+-]+@[a-zA-Z0-9]+\.[a-zA-Z0-9]+`)

type Predicates struct {
	factories map[string]PredicateFactory
	patterns  map[string]*regexp.Regexp
}

// NewPredicates регистрирует встроенные проверки:
//
//	non_empty            строка/список/словарь не пуст
//	in_range(min, max)   число в отрезке [min, max]
//	matches(name|regex)  строка совпадает с шаблоном (email — встроенный)
//	avatar_color         "r,g,b[,...]" или имя Kairos-пресета
func NewPredicates() *Predicates {
	p := &Predicates{
		factories: map[string]PredicateFactory{},
		patterns:  map[string]*regexp.Regexp{"email": EmailPattern},
	}
	p.Register("non_empty", nonEmpty)
	p.Register("in_range", inRange)
	p.Register("matches", p.matches)
	p.Register("avatar_color", avatarColor)
	return p
}

func (p *Predicates) Register(name string, f PredicateFactory) { p.factories[name] = f }

// Compile разбирает "name" или "name(arg, arg)".
func (p *Predicates) Compile(spec string) (*Check, error) {
	name, args, err := splitCall(spec)
	if err != nil {
		return nil, err
	}
	f, ok := p.factories[name]
	if !ok {
		return nil, fmt.Errorf("schema: unknown check %q", name)
	}
	fn, err := f(args...)
	if err != nil {
		return nil, fmt.Errorf("schema: check %q: %w", spec, err)
	}
	return &Check{Spec: spec, fn: fn}, nil
}

func splitCall(spec string) (string, []string, error) {
	spec = strings.TrimSpace(spec)
	open := strings.IndexByte(spec, '(')
	if open < 0 {
		return spec, nil, nil
	}
	if !strings.HasSuffix(spec, ")") {
		return "", nil, fmt.Errorf("schema: check %q: missing ')'", spec)
	}
	name := strings.TrimSpace(spec[:open])
	inner := strings.TrimSpace(spec[open+1 : len(spec)-1])
	if inner == "" {
		return name, nil, nil
	}
	var args []string
	for _, a := range strings.Split(inner, ",") {
		args = append(args, strings.Trim(strings.TrimSpace(a), `'"`))
	}
	return name, args, nil
}

func nonEmpty(args ...string) (Predicate, error) {
	if len(args) != 0 {
		return nil, fmt.Errorf("takes no arguments")
	}
	return func(v any) bool {
		switch v := v.(type) {
		case string:
			return v != ""
		case []any:
			return len(v) > 0
		case map[string]any:
			return len(v) > 0
		}
		return false
	}, nil
}

func inRange(args ...string) (Predicate, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("want 2 arguments, got %d", len(args))
	}
	lo, err := cast.ToFloat64E(args[0])
	if err != nil {
		return nil, err
	}
	hi, err := cast.ToFloat64E(args[1])
	if err != nil {
		return nil, err
	}
	return func(v any) bool {
		switch v.(type) {
		case string, bool:
			return false
		}
		f, err := cast.ToFloat64E(v)
		return err == nil && lo <= f && f <= hi
	}, nil
}

func (p *Predicates) matches(args ...string) (Predicate, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("want 1 argument, got %d", len(args))
	}
	re, ok := p.patterns[args[0]]
	if !ok {
		var err error
		if re, err = regexp.Compile(args[0]); err != nil {
			return nil, err
		}
	}
	return func(v any) bool {
		s, ok := v.(string)
		return ok && re.MatchString(s)
	}, nil
}

func avatarColor(args ...string) (Predicate, error) {
	if len(args) != 0 {
		return nil, fmt.Errorf("takes no arguments")
	}
	return func(v any) bool {
		s, ok := v.(string)
		if !ok {
			return false
		}
		if strings.Contains(s, ",") {
			return len(strings.Split(s, ",")) >= 3
		}
		return slices.Contains(AvatarColorPresets, strings.ToUpper(s))
	}, nil
}
