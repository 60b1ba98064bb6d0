package config

import (
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/EgorLis/lobbybot/internal/schema"
)

// ErrInvalid — документ прошёл проверку с ошибками.
var ErrInvalid = errors.New("config: invalid document")

const (
	APIBenBot       = "BenBot"
	APIFortniteAPI  = "Fortnite-API"
	APIFortniteAPIo = "FortniteApi.io"
)

// Document — проверенный документ и отчёт о проверке.
type Document struct {
	Data   map[string]any
	Report *schema.Report
}

func (d *Document) OK() bool { return d.Report.OK() }

// Errors — пути, которые не удалось сделать валидными.
func (d *Document) Errors() []string { return d.Report.Errors() }

// Err — nil или ErrInvalid с перечнем путей.
func (d *Document) Err() error {
	if d.Report.OK() {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(d.Report.Errors(), ", "))
}

// Loader загружает и проверяет config.json / commands.json.
type Loader struct {
	validator *schema.Validator
	tables    schema.Tables
	log       log.FieldLogger

	// Public: {ip} в web.ip раскрывается в 0.0.0.0, иначе в localhost.
	Public bool
}

func NewLoader(v *schema.Validator, tables schema.Tables, logger log.FieldLogger) (*Loader, error) {
	if logger == nil {
		logger = log.StandardLogger()
	}
	for _, name := range []string{"config", "client", "ng_words"} {
		if _, ok := tables[name]; !ok {
			return nil, fmt.Errorf("config: rule table %q is not loaded", name)
		}
	}
	v.Register(tables.Values()...)
	return &Loader{validator: v, tables: tables, log: logger}, nil
}

func (l *Loader) Validator() *schema.Validator { return l.validator }

// OptionSets — варианты для select-полей config.json (с вложенными таблицами),
// в том виде, в каком их показывает форма дашборда.
func (l *Loader) OptionSets() map[string][]schema.Option {
	reg := l.validator.Options()
	out := map[string][]schema.Option{}
	for _, t := range l.tables.Values() {
		for _, name := range t.OptionSets() {
			if opts, ok := reg.Options(name); ok {
				out[name] = opts
			}
		}
	}
	return out
}

// LoadConfig читает config.json, проверяет и сохраняет исправленный документ.
func (l *Loader) LoadConfig(s *Store) (*Document, error) {
	data, err := s.Load()
	if err != nil {
		return nil, err
	}
	doc := &Document{Data: data, Report: l.CheckConfig(data)}
	if err := s.Save(data); err != nil {
		return doc, fmt.Errorf("save %s: %w", s.Path(), err)
	}
	return doc, nil
}

// CheckConfig проверяет документ настроек на месте, без записи на диск.
func (l *Loader) CheckConfig(data map[string]any) *schema.Report {
	r := l.validator.Validate(data, l.tables["config"])

	if web, ok := data["web"].(map[string]any); ok {
		if ip, ok := web["ip"].(string); ok {
			web["ip"] = strings.ReplaceAll(ip, "{ip}", l.bindHost())
		}
	}
	if level, _ := data["loglevel"].(string); level == "debug" {
		l.log.Debugf("config:\n%s", Encode(data))
	}
	if api, _ := data["api"].(string); api == APIFortniteAPIo {
		if key, _ := data["api_key"].(string); key == "" {
			l.log.WithField("path", "['api_key']").Error("api_key is required for FortniteApi.io")
			r.Add(schema.PredicateFailed, "['api_key']", "required for "+APIFortniteAPIo)
		}
	}
	return r
}

func (l *Loader) bindHost() string {
	if l.Public {
		return "0.0.0.0"
	}
	return "localhost"
}

// LoadCommands читает commands.json. commands — имена зарегистрированных команд.
func (l *Loader) LoadCommands(s *Store, commands []string) (*Document, error) {
	data, err := s.Load()
	if err != nil {
		return nil, err
	}
	doc := &Document{Data: data, Report: l.CheckCommands(data, commands)}
	if err := s.Save(data); err != nil {
		return doc, fmt.Errorf("save %s: %w", s.Path(), err)
	}
	return doc, nil
}

func (l *Loader) CheckCommands(data map[string]any, commands []string) *schema.Report {
	r := l.validator.Validate(data, schema.CommandsTable(commands))
	l.log.Debugf("commands:\n%s", Encode(data))
	return r
}
