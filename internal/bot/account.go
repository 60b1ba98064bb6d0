package bot

import (
	"context"
	"fmt"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/EgorLis/lobbybot/internal/catalog"
	"github.com/EgorLis/lobbybot/internal/config"
	"github.com/EgorLis/lobbybot/internal/schema"
	"github.com/EgorLis/lobbybot/internal/search"
)

// Account — один клиент из clients[i] со своей сессией.
type Account struct {
	bot     *LobbyBot
	index   int
	client  config.Client
	session Session
	folder  *search.Folder
	log     *log.Entry

	mu       sync.Mutex
	lists    map[ListKind][]string
	pending  map[string][]choice
	current  map[string]catalog.Item
	searcher *search.Searcher
}

type choice struct {
	label string
	run   func(ctx context.Context) error
}

func newAccount(b *LobbyBot, index int, client config.Client, session Session) *Account {
	var kanji search.Converter
	if client.ConvertKanji {
		kanji = b.opts.Kanji
	}
	f := client.Fortnite
	a := &Account{
		bot:     b,
		index:   index,
		client:  client,
		session: session,
		folder:  search.NewFolder(client.CaseInsensitive, kanji),
		log:     b.log.WithField("account", client.Fortnite.Email),
		lists: map[ListKind][]string{
			Owner:      f.Owner,
			Whitelist:  f.Whitelist,
			Blacklist:  f.Blacklist,
			Botlist:    f.Botlist,
			Invitelist: f.Invitelist,
		},
		pending: map[string][]choice{},
		current: map[string]catalog.Item{},
	}
	a.searcher = search.FromSnapshot(nil, a.folder)
	return a
}

func (a *Account) Name() string { return a.client.Fortnite.Email }

func (a *Account) Index() int { return a.index }

func (a *Account) Session() Session { return a.session }

func (a *Account) Searcher() *search.Searcher {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.searcher
}

func (a *Account) setSnapshot(s *catalog.Snapshot) {
	srch := search.FromSnapshot(s, a.folder)
	a.mu.Lock()
	a.searcher = srch
	a.mu.Unlock()
}

// clientDoc — запись clients[index] текущего документа (после замены
// через дашборд уже новая). Вызывается под bot.docMu.
func (a *Account) clientDoc() (map[string]any, bool) {
	doc := a.bot.configDoc
	if doc == nil {
		return nil, false
	}
	clients, _ := doc.Data["clients"].([]any)
	if a.index >= len(clients) {
		return nil, false
	}
	raw, ok := clients[a.index].(map[string]any)
	return raw, ok
}

// lookup ищет key сначала в разделе fortnite, затем в самой записи клиента.
func (a *Account) lookup(key string) (any, bool) {
	a.bot.docMu.RLock()
	defer a.bot.docMu.RUnlock()
	raw, ok := a.clientDoc()
	if !ok {
		return nil, false
	}
	if v, ok := (schema.Path{"fortnite", key}).Get(raw); ok {
		return v, true
	}
	return (schema.Path{key}).Get(raw)
}

func (a *Account) stringList(key string) []string {
	v, _ := a.lookup(key)
	list, _ := v.([]any)
	out := make([]string, 0, len(list))
	for _, e := range list {
		if s, ok := e.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// setConfig меняет fortnite.<key> (или <key> клиента) и сохраняет документ.
func (a *Account) setConfig(key string, value any) error {
	return a.bot.updateConfig(func() error {
		raw, ok := a.clientDoc()
		if !ok {
			return fmt.Errorf("clients[%d] is missing in the current config", a.index)
		}
		p := schema.Path{"fortnite", key}
		if _, ok := p.Get(raw); !ok {
			p = schema.Path{key}
		}
		return p.Set(raw, value)
	})
}

func (a *Account) searchMax() int {
	if a.client.SearchMax == nil {
		return 0
	}
	return *a.client.SearchMax
}

func (a *Account) l(key string, args ...any) string {
	return a.bot.Locale().L(key, args...)
}

func (a *Account) emit(typ string, data map[string]any) {
	a.bot.emit(Event{Account: a.Name(), Type: typ, Data: data})
}

// Ready применяет косметику, плейлист, статус и приватность из конфига и
// выполняет команды fortnite.exec.ready.
func (a *Account) Ready(ctx context.Context) {
	f := a.client.Fortnite
	slots := []struct {
		key    string
		value  string
		styles []string
	}{
		{"outfit", deref(f.Outfit), f.OutfitStyle},
		{"backpack", deref(f.Backpack), f.BackpackStyle},
		{"pickaxe", deref(f.Pickaxe), f.PickaxeStyle},
		{"emote", f.Emote, nil},
	}
	for _, s := range slots {
		if s.value == "" {
			continue
		}
		id, ok := catalog.ConfigItemID(s.value)
		if !ok {
			id = s.value
		}
		it, ok := a.Searcher().GetItem(id)
		if !ok {
			a.log.WithFields(log.Fields{"slot": s.key, "value": s.value}).Warn("not_found")
			continue
		}
		var variants []catalog.Variant
		for _, st := range s.styles {
			if v, ok := catalog.ConfigVariant(st); ok {
				variants = append(variants, v)
			}
		}
		if err := a.setCosmetic(ctx, s.key, it, variants); err != nil {
			a.log.WithError(err).WithField("slot", s.key).Warn("cannot set cosmetic")
		}
	}

	if id, ok := catalog.ConfigPlaylistID(f.Party.Playlist); ok {
		if p, ok := a.Searcher().GetPlaylist(id); ok {
			if err := a.session.SetPlaylist(ctx, p); err != nil {
				a.log.WithError(err).Warn("cannot set playlist")
			}
		}
	}
	if f.Status != "" {
		if err := a.session.SetStatus(ctx, f.Status); err != nil {
			a.log.WithError(err).Warn("cannot set status")
		}
	}
	if f.Party.Privacy != "" {
		if err := a.session.SetPrivacy(ctx, f.Party.Privacy); err != nil {
			a.log.WithError(err).Warn("cannot set privacy")
		}
	}

	a.Exec(ctx, f.Exec.Ready)
	a.emit("ready", map[string]any{"display_name": a.session.Me().DisplayName})
}

// Exec выполняет строки команд от имени самого бота без проверки прав.
func (a *Account) Exec(ctx context.Context, lines []string) {
	me := a.session.Me()
	for _, line := range lines {
		err := a.dispatch(ctx, me, line, func(s string) {
			a.log.WithField("exec", line).Info(s)
		}, true)
		if err != nil {
			a.log.WithError(err).WithField("exec", line).Warn("exec failed")
		}
	}
}

func (a *Account) setCosmetic(ctx context.Context, slot string, it catalog.Item, variants []catalog.Variant) error {
	if err := a.session.SetCosmetic(ctx, slot, it, variants); err != nil {
		return err
	}
	a.mu.Lock()
	a.current[slot] = it
	a.mu.Unlock()
	return nil
}

// Current — предмет, надетый в слот.
func (a *Account) Current(slot string) (catalog.Item, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	it, ok := a.current[slot]
	return it, ok
}

// OnMessage — входящее сообщение пользователя (шёпот или чат пати).
// Запрещённые слова обрабатываются до команд.
func (a *Account) OnMessage(ctx context.Context, from search.User, text string) error {
	if !a.client.NoLogs && !a.bot.settingsNoLogs() {
		a.log.WithField("user", from.DisplayName).Info(text)
	}
	if a.CheckNGWords(ctx, from, text) {
		return nil
	}
	reply := func(s string) {
		if err := a.session.Send(ctx, from.ID, s); err != nil {
			a.log.WithError(err).Warn("cannot reply")
		}
	}
	return a.HandleCommand(ctx, from, text, reply)
}

// CheckNGWords применяет ng_word_operation, если сообщение нарушает
// правило ng_words и пользователь попадает в ng_word_for.
func (a *Account) CheckNGWords(ctx context.Context, from search.User, text string) bool {
	if !a.IsFor("ng_word_for", from) {
		return false
	}
	rules := make([]search.NGWord, 0, len(a.client.NGWords))
	for _, w := range a.client.NGWords {
		m, err := search.ParseMatchMethod(w.MatchMethod)
		if err != nil {
			continue
		}
		rules = append(rules, search.NGWord{Count: w.Count, Method: m, Words: w.Words})
	}
	rule, ok := search.MatchNGWords(rules, text, a.folder)
	if !ok {
		return false
	}
	a.log.WithFields(log.Fields{"user": from.ID, "words": rule.Words}).Warn("ng word")
	a.RunOperations(ctx, "ng_word_operation", from)
	a.emit("ng_word", map[string]any{"user": from.ID, "message": text})
	return true
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (a *Account) String() string {
	return fmt.Sprintf("account[%d] %s", a.index, strings.TrimSpace(a.Name()))
}
