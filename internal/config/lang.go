package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/ohler55/ojg/oj"
)

// LangOptions — доступные локализации: lang/*.json без *_old.json.
func LangOptions(dir string) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, err
	}
	var langs []string
	for _, f := range files {
		if strings.HasSuffix(f, "_old.json") {
			continue
		}
		langs = append(langs, strings.TrimSuffix(filepath.Base(f), ".json"))
	}
	sort.Strings(langs)
	return langs, nil
}

// Locale — тексты одной локализации: раздел → ключ → шаблон с {0}, {1}...
type Locale struct {
	Lang     string
	sections map[string]map[string]string
}

func LoadLocale(dir, lang string) (*Locale, error) {
	b, err := os.ReadFile(filepath.Join(dir, lang+".json"))
	if err != nil {
		return nil, err
	}
	v, err := oj.Parse(b)
	if err != nil {
		return nil, fmt.Errorf("failed to load '%s/%s' file: %w", dir, lang, err)
	}
	root, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s/%s.json: top level must be an object", dir, lang)
	}
	loc := &Locale{Lang: lang, sections: map[string]map[string]string{}}
	for name, sec := range root {
		m, ok := sec.(map[string]any)
		if !ok {
			continue
		}
		texts := map[string]string{}
		for k, t := range m {
			if s, ok := t.(string); ok {
				texts[k] = s
			}
		}
		loc.sections[name] = texts
	}
	return loc, nil
}

// L — текст из раздела main. Неизвестный ключ возвращается как есть.
func (l *Locale) L(key string, args ...any) string {
	return l.Section("main", key, args...)
}

func (l *Locale) Section(section, key string, args ...any) string {
	tmpl := key
	if l != nil {
		if t, ok := l.sections[section][key]; ok {
			tmpl = t
		}
	}
	return format(tmpl, args...)
}

func format(tmpl string, args ...any) string {
	if len(args) == 0 {
		return tmpl
	}
	pairs := make([]string, 0, len(args)*2)
	for i, a := range args {
		pairs = append(pairs, "{"+strconv.Itoa(i)+"}", fmt.Sprint(a))
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}
