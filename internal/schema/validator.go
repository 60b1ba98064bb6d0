package schema

import (
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Validator применяет таблицы правил к документам.
type Validator struct {
	options *Registry
	tables  map[string]*Table
	log     log.FieldLogger
}

func NewValidator(options *Registry, logger log.FieldLogger) *Validator {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Validator{
		options: options,
		tables:  map[string]*Table{},
		log:     logger,
	}
}

// Register делает таблицы доступными для ссылок records:<name>.
func (v *Validator) Register(tables ...*Table) {
	for _, t := range tables {
		v.tables[t.Name] = t
	}
}

func (v *Validator) Options() *Registry { return v.options }

// Validate проверяет весь документ по таблице t и возвращает отчёт.
// Документ меняется на месте (умолчания, приведения типов, нормализация).
func (v *Validator) Validate(doc any, t *Table) *Report {
	r := &Report{}
	v.Apply(doc, nil, t, r)
	return r
}

// Apply применяет таблицу к поддереву по адресу prefix. Пути в отчёте
// абсолютные: prefix + путь правила.
func (v *Validator) Apply(doc any, prefix Path, t *Table, r *Report) {
	for _, rule := range t.Rules {
		p := prefix.Join(rule.Path)
		value, ok := p.Get(doc)
		if !ok && rule.HasDefault {
			def := cloneValue(rule.Default)
			if err := p.Set(doc, def); err == nil {
				v.log.WithField("path", p.String()).Debug("default value inserted")
				value, ok = def, true
			}
		}
		if !ok {
			v.log.WithField("path", p.String()).Error("key is missing")
			r.Add(MissingKey, p.String(), "")
			continue
		}
		v.check(doc, p, rule.Tags, value, r)
	}
}

func (v *Validator) check(doc any, p Path, tags Tags, value any, r *Report) {
	key := p.String()
	if tags.CanBeNone {
		for _, name := range tags.Select {
			_ = v.options.AllowNone(name)
		}
		for _, name := range tags.MultiSelect {
			_ = v.options.AllowNone(name)
		}
	}

	if !tags.accepts(value) {
		fields := log.Fields{
			"path":     key,
			"expected": tags.expected(),
			"provided": KindOf(value).String(),
		}
		fixed, ok := coerce(tags, value)
		if ok {
			if err := p.Set(doc, fixed); err != nil {
				ok = false
			}
		}
		if !ok {
			v.log.WithFields(fields).Error("type mismatch")
			r.Add(TypeMismatchFatal, key, fmt.Sprintf("expected %s, provided %s", fields["expected"], fields["provided"]))
			return
		}
		v.log.WithFields(fields).WithField("fixed", fixed).Warn("type mismatch, fixed")
		r.Add(TypeMismatchFixed, key, fmt.Sprintf("%v -> %v", value, fixed))
		value = fixed
	}

	if list, ok := value.([]any); ok && tags.Primary() == List {
		if clean := cleanupList(list); len(clean) != len(list) {
			if err := p.Set(doc, clean); err == nil {
				list, value = clean, clean
			}
		}
		switch {
		case tags.Records != "":
			v.records(doc, p, list, tags.Records, r)
		default:
			if elem, ok := tags.Elem(); ok {
				for i, e := range list {
					v.check(doc, p.Index(i), elem, e, r)
				}
			}
		}
	}

	switch {
	case len(tags.Select) > 0:
		for _, name := range tags.Select {
			opt, ok, err := v.options.Match(name, value)
			if err != nil || !ok {
				v.enumMismatch(key, name, value, err, r)
				return
			}
			if err := p.Set(doc, opt.RealValue); err != nil {
				v.enumMismatch(key, name, value, err, r)
				return
			}
			value = opt.RealValue
		}
	case len(tags.MultiSelect) > 0:
		for _, name := range tags.MultiSelect {
			fixed, ok, err := v.matchMultiple(name, value)
			if err != nil || !ok {
				v.enumMismatch(key, name, value, err, r)
				return
			}
			if err := p.Set(doc, fixed); err != nil {
				v.enumMismatch(key, name, value, err, r)
				return
			}
			value = fixed
		}
	}

	if tags.Check != nil && value != nil && !r.Has(key) && !tags.Check.Eval(value) {
		v.log.WithFields(log.Fields{"path": key, "value": value, "check": tags.Check.Spec}).Error("check failed")
		r.Add(PredicateFailed, key, tags.Check.Spec)
	}
}

// records — общий случай "список записей": к каждой записи применяется
// таблица name, вложенность не ограничена.
func (v *Validator) records(doc any, p Path, list []any, name string, r *Report) {
	t, ok := v.tables[name]
	if !ok {
		v.log.WithFields(log.Fields{"path": p.String(), "table": name}).Error("unknown rule table")
		r.Add(TypeMismatchFatal, p.String(), "unknown rule table "+name)
		return
	}
	for i := range list {
		v.Apply(doc, p.Index(i), t, r)
	}
}

// matchMultiple: строка режется по запятым, список берётся как есть.
// Один неподходящий токен — ошибка всего пути, документ не трогаем.
func (v *Validator) matchMultiple(name string, value any) (any, bool, error) {
	var tokens []any
	switch val := value.(type) {
	case nil:
		_, ok, err := v.options.Match(name, nil)
		return nil, ok, err
	case []any:
		tokens = val
	case string:
		for _, s := range strings.Split(val, ",") {
			tokens = append(tokens, s)
		}
	default:
		tokens = []any{val}
	}

	fixed := make([]any, len(tokens))
	for i, tok := range tokens {
		opt, ok, err := v.options.Match(name, tok)
		if err != nil || !ok {
			return nil, false, err
		}
		fixed[i] = opt.RealValue
	}
	if _, ok := value.(string); ok {
		parts := make([]string, len(fixed))
		for i, f := range fixed {
			parts[i] = fmt.Sprint(f)
		}
		return strings.Join(parts, ","), true, nil
	}
	return fixed, true, nil
}

func (v *Validator) enumMismatch(key, set string, value any, err error, r *Report) {
	fields := log.Fields{"path": key, "value": value, "set": set}
	if err != nil {
		v.log.WithFields(fields).WithError(err).Error("option set lookup failed")
		r.Add(EnumMismatch, key, err.Error())
		return
	}
	if opts, ok := v.options.Options(set); ok {
		fields["allowed"] = realValues(opts)
	}
	v.log.WithFields(fields).Error("value is not in option set")
	r.Add(EnumMismatch, key, fmt.Sprintf("%v is not in %s", value, set))
}

// cleanupList убирает из списка null и пустые строки.
func cleanupList(list []any) []any {
	out := make([]any, 0, len(list))
	for _, e := range list {
		if e == nil || e == "" {
			continue
		}
		out = append(out, e)
	}
	return out
}

func cloneValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, e := range v {
			out[k] = cloneValue(e)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = cloneValue(e)
		}
		return out
	}
	return v
}
