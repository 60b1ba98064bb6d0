package schema

import (
	"fmt"
	"strings"
	"sync"
)

// Option — одно допустимое значение набора: RealValue пишется в документ,
// Value — сериализованная форма, Display — подпись для формы в дашборде.
type Option struct {
	RealValue any    `json:"real_value"`
	Value     string `json:"value"`
	Display   string `json:"display_value"`
}

// NoneOption добавляется в набор, когда правило разрешает null.
var NoneOption = Option{RealValue: nil, Value: "None", Display: "null"}

// StringOptions строит набор, где все три поля совпадают.
func StringOptions(values ...string) []Option {
	opts := make([]Option, len(values))
	for i, v := range values {
		opts[i] = Option{RealValue: v, Value: v, Display: v}
	}
	return opts
}

// Registry хранит именованные наборы вариантов (select_* / multiple_select_*).
// Наборы дополняются во время проверки (NoneOption), поэтому доступ под мьютексом.
type Registry struct {
	mu   sync.RWMutex
	sets map[string][]Option
}

func NewRegistry() *Registry {
	return &Registry{sets: map[string][]Option{}}
}

// Kairos-пресеты фона аватара.
var AvatarColorPresets = []string{
	"TEAL", "SWEET_RED", "LIGHT_ORANGE", "GREEN", "LIGHT_BLUE", "DARK_BLUE",
	"PINK", "RED", "GRAY", "ORANGE", "DARK_PURPLE", "LIME", "INDIGO",
}

// Platforms — коды платформ аккаунта.
var Platforms = []string{"WIN", "MAC", "PS4", "PS5", "XBL", "XBX", "XBS", "SWT", "IOS", "AND"}

// DefaultRegistry — все наборы, на которые ссылаются встроенные таблицы.
// lang заполняется отдельно (SetLangs) по каталогу локализаций.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Define("bool", []Option{
		{RealValue: true, Value: "True", Display: "true"},
		{RealValue: false, Value: "False", Display: "false"},
	})
	r.Define("event", StringOptions("me", "user"))
	r.Define("platform", StringOptions(Platforms...))
	r.Define("privacy", StringOptions(
		"PUBLIC", "FRIENDS_ALLOW_FRIENDS_OF_FRIENDS", "FRIENDS",
		"PRIVATE_ALLOW_FRIENDS_OF_FRIENDS", "PRIVATE",
	))
	r.Define("status", StringOptions("playing", "streaming", "listening", "watching", "competing"))
	r.Define("matchmethod", StringOptions("full", "contains", "starts", "ends"))
	r.Define("lang", StringOptions("en"))
	r.Define("api_lang", StringOptions(
		"ar", "de", "en", "es", "es-419", "fr", "it", "ja",
		"ko", "pl", "pt-BR", "ru", "tr", "zh-CN", "zh-Hant",
	))
	r.Define("api", StringOptions("BenBot", "Fortnite-API", "FortniteApi.io"))
	r.Define("loglevel", StringOptions("normal", "info", "debug"))
	r.Define("user_type", StringOptions("user", "whitelist", "blacklist", "owner", "bot"))
	r.Define("user_operation", StringOptions("kick", "chatban", "remove", "block", "blacklist"))
	r.Define("avatar_color", StringOptions(AvatarColorPresets...))
	return r
}

// Define заменяет набор целиком.
func (r *Registry) Define(name string, opts []Option) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sets[name] = append([]Option(nil), opts...)
}

// SetLangs заменяет набор lang, сохраняя NoneOption, если он уже был добавлен.
func (r *Registry) SetLangs(langs []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	opts := StringOptions(langs...)
	for _, o := range r.sets["lang"] {
		if o == NoneOption {
			opts = append(opts, NoneOption)
			break
		}
	}
	r.sets["lang"] = opts
}

func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.sets[name]
	return ok
}

// Options возвращает копию набора.
func (r *Registry) Options(name string) ([]Option, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	opts, ok := r.sets[name]
	if !ok {
		return nil, false
	}
	return append([]Option(nil), opts...), true
}

// AllowNone добавляет NoneOption в набор ровно один раз.
func (r *Registry) AllowNone(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	opts, ok := r.sets[name]
	if !ok {
		return fmt.Errorf("schema: unknown option set %q", name)
	}
	for _, o := range opts {
		if o == NoneOption {
			return nil
		}
	}
	r.sets[name] = append(opts, NoneOption)
	return nil
}

// Match ищет вариант, равный v. Строки сравниваются без учёта регистра.
func (r *Registry) Match(name string, v any) (Option, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	opts, ok := r.sets[name]
	if !ok {
		return Option{}, false, fmt.Errorf("schema: unknown option set %q", name)
	}
	for _, o := range opts {
		if sameOption(o.RealValue, v) {
			return o, true, nil
		}
	}
	return Option{}, false, nil
}

func sameOption(real, v any) bool {
	switch real := real.(type) {
	case nil:
		return v == nil
	case string:
		s, ok := v.(string)
		return ok && strings.EqualFold(real, s)
	case bool:
		b, ok := v.(bool)
		return ok && real == b
	}
	return false
}

// realValues — для диагностики "не входит в ...".
func realValues(opts []Option) []any {
	out := make([]any, len(opts))
	for i, o := range opts {
		out[i] = o.RealValue
	}
	return out
}
