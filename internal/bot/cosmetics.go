package bot

import (
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/EgorLis/lobbybot/internal/catalog"
	"github.com/EgorLis/lobbybot/internal/schema"
	"github.com/EgorLis/lobbybot/internal/search"
)

// Группы категорий для слотов: первый тип задаёт ключ слота.
var cosmeticGroups = []string{
	"AthenaCharacter",
	"AthenaBackpack,AthenaPet,AthenaPetCarrier",
	"AthenaPickaxe",
	"AthenaDance,AthenaEmoji,AthenaToy",
}

var slotPrefixes = []string{"", "join_", "leave_"}

// slotKey: "AthenaBackpack,AthenaPet" → "backpack".
func slotKey(group string) string {
	first, _, _ := strings.Cut(group, ",")
	return catalog.BackendToAPI[first]
}

// FixCosmetics заменяет имена косметики и плейлиста в записи клиента на
// строки <Item ...>/<Playlist ...>/<Variant ...>. Неразрешённые имена
// остаются как есть. Возвращает true, если запись изменилась.
func FixCosmetics(client map[string]any, s *search.Searcher, logger log.FieldLogger) bool {
	f := &cosmeticFixer{client: client, s: s, log: logger}
	f.playlist()
	for _, group := range cosmeticGroups {
		key := slotKey(group)
		for _, prefix := range slotPrefixes {
			f.slot(group, prefix+key)
		}
		f.ngList(group, "ng_"+key+"s")
	}
	return f.changed
}

type cosmeticFixer struct {
	client  map[string]any
	s       *search.Searcher
	log     log.FieldLogger
	changed bool
}

func fortniteKey(key string) schema.Path { return schema.Path{"fortnite", key} }

func (f *cosmeticFixer) str(p schema.Path) string {
	v, _ := p.Get(f.client)
	s, _ := v.(string)
	return s
}

func (f *cosmeticFixer) set(p schema.Path, v any) {
	if err := p.Set(f.client, v); err != nil {
		f.log.WithError(err).WithField("path", p.String()).Warn("cannot rewrite cosmetic")
		return
	}
	f.changed = true
}

func (f *cosmeticFixer) notFound(kind, value string) {
	f.log.WithFields(log.Fields{"kind": kind, "value": value}).Warn("not_found")
}

func (f *cosmeticFixer) playlist() {
	p := schema.Path{"fortnite", "party", "playlist"}
	value := f.str(p)
	if value == "" {
		return
	}
	if _, ok := catalog.ConfigPlaylistID(value); ok {
		return
	}
	pl, ok := f.s.GetPlaylist(value)
	if !ok {
		if found := f.s.SearchPlaylistNameID(value); len(found) > 0 {
			pl, ok = found[0], true
		}
	}
	if !ok {
		f.notFound("playlist", value)
		return
	}
	f.set(p, catalog.PlaylistString(pl))
}

// resolve: точный id, затем поиск по имени/id внутри группы.
func (f *cosmeticFixer) resolve(value, group string) (catalog.Item, bool) {
	if it, ok := f.s.GetItem(value); ok {
		return it, true
	}
	if found := f.s.SearchItemNameID(value, group); len(found) > 0 {
		return found[0], true
	}
	return catalog.Item{}, false
}

func (f *cosmeticFixer) slot(group, key string) {
	p := fortniteKey(key)
	value := f.str(p)
	if value == "" {
		return
	}
	id, ok := catalog.ConfigItemID(value)
	if !ok {
		it, found := f.resolve(value, group)
		if !found {
			f.notFound(slotKey(group), value)
			return
		}
		f.set(p, catalog.ItemString(it))
		id = it.ID
	}
	if !strings.Contains(group, "AthenaDance") {
		f.styles(id, key+"_style")
	}
}

func (f *cosmeticFixer) styles(id, key string) {
	p := fortniteKey(key)
	v, _ := p.Get(f.client)
	list, _ := v.([]any)
	for i, raw := range list {
		name, _ := raw.(string)
		if name == "" {
			continue
		}
		if _, ok := catalog.ConfigVariant(name); ok {
			continue
		}
		found := f.s.SearchStyle(id, name)
		if len(found) == 0 {
			f.notFound("style", name)
			continue
		}
		f.set(p.Index(i), catalog.VariantString(found[0]))
	}
}

func (f *cosmeticFixer) ngList(group, key string) {
	p := fortniteKey(key)
	v, _ := p.Get(f.client)
	list, _ := v.([]any)
	for i, raw := range list {
		value, _ := raw.(string)
		if value == "" {
			continue
		}
		if _, ok := catalog.ConfigItemID(value); ok {
			continue
		}
		it, found := f.resolve(value, group)
		if !found {
			f.notFound(slotKey(group), value)
			continue
		}
		f.set(p.Index(i), catalog.ItemString(it))
	}
}
