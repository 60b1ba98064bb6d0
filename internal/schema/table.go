package schema

import (
	"embed"
	"fmt"
	"path"
	"sort"

	"gopkg.in/yaml.v3"
)

// Rule — путь и его теги. Default вставляется, если ключа нет.
type Rule struct {
	Path       Path
	Tags       Tags
	Default    any
	HasDefault bool
}

// Table — упорядоченный набор правил. Порядок важен: родитель с default
// должен идти раньше детей.
type Table struct {
	Name  string
	Rules []Rule
}

// OptionSets — имена наборов, на которые ссылается таблица.
func (t *Table) OptionSets() []string {
	seen := map[string]struct{}{}
	var out []string
	for _, r := range t.Rules {
		for _, n := range append(append([]string(nil), r.Tags.Select...), r.Tags.MultiSelect...) {
			if _, ok := seen[n]; !ok {
				seen[n] = struct{}{}
				out = append(out, n)
			}
		}
	}
	return out
}

type Tables map[string]*Table

func (ts Tables) Values() []*Table {
	out := make([]*Table, 0, len(ts))
	for _, t := range ts {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

//go:embed rules/*.yaml
var rulesFS embed.FS

type rawTable struct {
	Name  string    `yaml:"name"`
	Rules []rawRule `yaml:"rules"`
}

type rawRule struct {
	Path    string    `yaml:"path"`
	Tags    []string  `yaml:"tags"`
	Default yaml.Node `yaml:"default"`
}

// LoadTables читает встроенные таблицы (config, client, ng_words).
func LoadTables(preds *Predicates) (Tables, error) {
	entries, err := rulesFS.ReadDir("rules")
	if err != nil {
		return nil, err
	}
	tables := Tables{}
	for _, e := range entries {
		b, err := rulesFS.ReadFile(path.Join("rules", e.Name()))
		if err != nil {
			return nil, err
		}
		t, err := ParseTable(b, preds)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.Name(), err)
		}
		tables[t.Name] = t
	}
	return tables, nil
}

// ParseTable разбирает одну YAML-таблицу правил.
func ParseTable(data []byte, preds *Predicates) (*Table, error) {
	var raw rawTable
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if raw.Name == "" {
		return nil, fmt.Errorf("schema: table without name")
	}
	t := &Table{Name: raw.Name}
	for i, rr := range raw.Rules {
		p, err := ParsePath(rr.Path)
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}
		tags, err := ParseTags(rr.Tags, preds)
		if err != nil {
			return nil, fmt.Errorf("rule %s: %w", rr.Path, err)
		}
		rule := Rule{Path: p, Tags: tags}
		if rr.Default.Kind != 0 {
			var def any
			if err := rr.Default.Decode(&def); err != nil {
				return nil, fmt.Errorf("rule %s: default: %w", rr.Path, err)
			}
			rule.Default = normalizeYAML(def)
			rule.HasDefault = true
		}
		t.Rules = append(t.Rules, rule)
	}
	return t, nil
}

// normalizeYAML приводит значения yaml.v3 к типам документа (int64, map[string]any).
func normalizeYAML(v any) any {
	switch v := v.(type) {
	case int:
		return int64(v)
	case map[string]any:
		for k, e := range v {
			v[k] = normalizeYAML(e)
		}
		return v
	case []any:
		for i, e := range v {
			v[i] = normalizeYAML(e)
		}
		return v
	}
	return v
}

// CommandWords — служебные ключи commands.json помимо самих команд.
var CommandWords = []string{
	"whitelist_commands", "user_commands",
	"true", "false", "accept", "decline", "me",
	"public", "friends_allow_friends_of_friends", "friends",
	"private_allow_friends_of_friends", "private",
}

// CommandsTable строит таблицу для commands.json по списку зарегистрированных команд.
func CommandsTable(commands []string) *Table {
	words := Tags{Types: []Kind{List, String}, CanBeMultiple: true}
	t := &Table{Name: "commands"}
	for _, w := range CommandWords {
		t.Rules = append(t.Rules, Rule{Path: Path{w}, Tags: words})
	}
	t.Rules = append(t.Rules, Rule{Path: Path{"commands"}, Tags: Tags{Types: []Kind{Dict}}})
	for _, c := range commands {
		t.Rules = append(t.Rules, Rule{Path: Path{"commands", c}, Tags: words})
	}
	return t
}
