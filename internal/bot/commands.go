package bot

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/EgorLis/lobbybot/internal/catalog"
	"github.com/EgorLis/lobbybot/internal/config"
	"github.com/EgorLis/lobbybot/internal/search"
)

// сплит с поддержкой кавычек: status "в лобби"
var reArg = regexp.MustCompile(`"([^"]*)"|(\S+)`)

var (
	// ErrUnknownCommand — текст не команда и ничего не нашлось по имени.
	ErrUnknownCommand = errors.New("bot: unknown command")
	ErrReloading      = errors.New("bot: reload already in progress")
)

// commandNames — зарегистрированные команды в порядке вывода help.
var commandNames = []string{
	"help", "ping", "reload",
	"add_blacklist", "remove_blacklist", "add_whitelist", "remove_whitelist",
	"add_invitelist", "remove_invitelist",
	"get_user", "kick", "chatban", "status", "privacy", "new_items",
	"cid", "bid", "petcarrier", "pickaxe_id", "eid", "emoji_id", "toy_id", "id",
	"outfit", "backpack", "pet", "pickaxe", "emote", "emoji", "toy", "item",
	"playlist_id", "playlist", "set", "set_style",
}

func CommandNames() []string { return slices.Clone(commandNames) }

// Поиск по id внутри категории: команда → backendType ("" — все).
var idCommands = map[string]string{
	"cid":        "AthenaCharacter",
	"bid":        "AthenaBackpack",
	"petcarrier": "AthenaPetCarrier",
	"pickaxe_id": "AthenaPickaxe",
	"eid":        "AthenaDance",
	"emoji_id":   "AthenaEmoji",
	"toy_id":     "AthenaToy",
	"id":         "",
}

var nameCommands = map[string]string{
	"outfit":   "AthenaCharacter",
	"backpack": "AthenaBackpack",
	"pet":      "AthenaPet",
	"pickaxe":  "AthenaPickaxe",
	"emote":    "AthenaDance",
	"emoji":    "AthenaEmoji",
	"toy":      "AthenaToy",
	"item":     "",
}

var privacyWords = []string{
	"public", "friends_allow_friends_of_friends", "friends",
	"private_allow_friends_of_friends", "private",
}

type call struct {
	a          *Account
	from       search.User
	name       string
	args       []string
	rest       string
	reply      func(string)
	privileged bool
}

type handler func(ctx context.Context, c *call) error

var handlers map[string]handler

func init() {
	handlers = map[string]handler{
		"help":              cmdHelp,
		"ping":              cmdPing,
		"reload":            cmdReload,
		"add_blacklist":     listCommand(Blacklist, true),
		"remove_blacklist":  listCommand(Blacklist, false),
		"add_whitelist":     listCommand(Whitelist, true),
		"remove_whitelist":  listCommand(Whitelist, false),
		"add_invitelist":    listCommand(Invitelist, true),
		"remove_invitelist": listCommand(Invitelist, false),
		"get_user":          cmdGetUser,
		"kick":              cmdKick,
		"chatban":           cmdChatban,
		"status":            cmdStatus,
		"privacy":           cmdPrivacy,
		"new_items":         cmdNewItems,
		"playlist_id":       playlistCommand(search.ModeID),
		"playlist":          playlistCommand(search.ModeName),
		"set":               cmdSet,
		"set_style":         cmdSetStyle,
	}
	for name, types := range idCommands {
		handlers[name] = itemCommand(search.ModeID, types)
	}
	for name, types := range nameCommands {
		handlers[name] = itemCommand(search.ModeName, types)
	}
}

// HandleCommand разбирает строку пользователя: выбор номера из прошлого
// списка, команда по алиасу, затем id предмета, id плейлиста и поиск
// предмета по имени.
func (a *Account) HandleCommand(ctx context.Context, from search.User, text string, reply func(string)) error {
	return a.dispatch(ctx, from, text, reply, false)
}

func (a *Account) dispatch(ctx context.Context, from search.User, text string, reply func(string), privileged bool) error {
	text = strings.TrimSpace(text)
	fields := splitArgs(text)
	if len(fields) == 0 {
		return nil
	}

	if len(fields) == 1 {
		if n, err := strconv.Atoi(fields[0]); err == nil {
			if ch, ok := a.takeChoice(from.ID, n); ok {
				return ch.run(ctx)
			}
		}
	}

	cmds := a.bot.Commands()
	if name, ok := a.commandByAlias(cmds, fields[0]); ok {
		if !privileged && !a.allowed(cmds, name, from) {
			// чёрному списку не отвечаем
			if a.UserType(from) != TypeBlacklist {
				reply(a.l("not_allowed"))
			}
			return nil
		}
		c := &call{
			a:          a,
			from:       from,
			name:       name,
			args:       fields[1:],
			rest:       strings.Join(fields[1:], " "),
			reply:      reply,
			privileged: privileged,
		}
		a.emit("command", map[string]any{"command": name, "user": from.ID})
		return handlers[name](ctx, c)
	}

	if !privileged && a.UserType(from) == TypeBlacklist {
		return nil
	}
	c := &call{a: a, from: from, rest: text, reply: reply, privileged: privileged}
	return a.fallback(ctx, c)
}

func (a *Account) fallback(ctx context.Context, c *call) error {
	if backend, ok := catalog.BackendByIDPrefix(c.rest); ok {
		it, found := a.Searcher().GetItem(c.rest)
		if !found {
			it = catalog.Item{ID: c.rest, Name: c.rest, Type: catalog.ItemType{BackendValue: backend}}
		}
		return a.applyItem(ctx, c, it)
	}
	if strings.HasPrefix(strings.ToLower(c.rest), "playlist_") {
		p, found := a.Searcher().GetPlaylist(c.rest)
		if !found {
			p = catalog.Playlist{ID: c.rest, Name: c.rest}
		}
		return a.applyPlaylist(ctx, c, p)
	}
	items := a.Searcher().SearchItemNameID(c.rest, "")
	if len(items) == 0 {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, c.rest)
	}
	return a.choose(ctx, c, c.rest, a.itemChoices(c, items))
}

// commandByAlias сравнивает слово с алиасами после свёртки аккаунта
// (case_insensitive, convert_kanji) с обеих сторон.
func (a *Account) commandByAlias(cmds *config.Commands, word string) (string, bool) {
	word = a.folder.Fold(word)
	for _, name := range commandNames {
		for _, alias := range cmds.Aliases[name] {
			if a.folder.Fold(alias) == word {
				return name, true
			}
		}
	}
	return "", false
}

// allowed: владельцу доступно всё, чёрному списку ничего, белому списку
// whitelist_commands и user_commands, остальным только user_commands.
func (a *Account) allowed(cmds *config.Commands, name string, from search.User) bool {
	switch a.UserType(from) {
	case TypeOwner:
		return true
	case TypeBlacklist:
		return false
	case TypeWhitelist:
		return slices.Contains(cmds.WhitelistCommands, name) || slices.Contains(cmds.UserCommands, name)
	}
	return slices.Contains(cmds.UserCommands, name)
}

func (a *Account) takeChoice(userID string, n int) (choice, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	choices := a.pending[userID]
	if n < 1 || n > len(choices) {
		return choice{}, false
	}
	delete(a.pending, userID)
	return choices[n-1], true
}

// choose выполняет единственный вариант сразу, иначе выводит нумерованный
// список и ждёт номер от пользователя.
func (a *Account) choose(ctx context.Context, c *call, query string, choices []choice) error {
	limit := a.searchMax()
	switch {
	case len(choices) == 0:
		c.reply(a.l("not_found", query))
		return nil
	case len(choices) == 1:
		return choices[0].run(ctx)
	case limit > 0 && len(choices) > limit:
		c.reply(a.l("too_many", len(choices)))
		return nil
	}
	a.mu.Lock()
	a.pending[c.from.ID] = choices
	a.mu.Unlock()

	lines := make([]string, 0, len(choices)+1)
	for i, ch := range choices {
		lines = append(lines, fmt.Sprintf("%d: %s", i+1, ch.label))
	}
	lines = append(lines, a.l("enter_number"))
	c.reply(strings.Join(lines, "\n"))
	return nil
}

func (a *Account) itemChoices(c *call, items []catalog.Item) []choice {
	out := make([]choice, 0, len(items))
	for _, it := range items {
		it := it
		out = append(out, choice{
			label: fmt.Sprintf("%s | %s | %s", it.Name, it.ID, it.Type.DisplayValue),
			run:   func(ctx context.Context) error { return a.applyItem(ctx, c, it) },
		})
	}
	return out
}

func (a *Account) applyItem(ctx context.Context, c *call, it catalog.Item) error {
	slot := catalog.BackendToKey[it.Type.BackendValue]
	if !c.privileged && a.IsFor(slot+"_lock_for", c.from) {
		c.reply(a.l("locked", slot))
		return nil
	}
	if err := a.setCosmetic(ctx, slot, it, nil); err != nil {
		return fmt.Errorf("set %s: %w", slot, err)
	}
	c.reply(a.l("item_set", slot, it.Name))
	return nil
}

func (a *Account) applyPlaylist(ctx context.Context, c *call, p catalog.Playlist) error {
	if err := a.session.SetPlaylist(ctx, p); err != nil {
		return fmt.Errorf("set playlist: %w", err)
	}
	c.reply(a.l("playlist_set", p.Name))
	return nil
}

// knownUsers — друзья и участники пати без повторов.
func (a *Account) knownUsers() []search.User {
	users := a.session.Friends()
	for _, m := range a.session.PartyMembers() {
		if !containsUser(users, m.ID) {
			users = append(users, m)
		}
	}
	return users
}

// findUsers понимает алиасы "me" из commands.json.
func (a *Account) findUsers(c *call, query string, users []search.User) []search.User {
	q := a.folder.Fold(query)
	for _, me := range a.bot.Commands().Words["me"] {
		if a.folder.Fold(me) == q {
			return []search.User{c.from}
		}
	}
	return search.FindUsers(query, users, search.UserByNameID, search.MatchContains, a.folder)
}

func userChoices(users []search.User, run func(ctx context.Context, u search.User) error) []choice {
	out := make([]choice, 0, len(users))
	for _, u := range users {
		u := u
		out = append(out, choice{
			label: fmt.Sprintf("%s | %s", u.DisplayName, u.ID),
			run:   func(ctx context.Context) error { return run(ctx, u) },
		})
	}
	return out
}

func usage(c *call, args string) error {
	c.reply(c.a.l("usage", strings.TrimSpace(c.name+" "+args)))
	return nil
}

func cmdHelp(_ context.Context, c *call) error {
	cmds := c.a.bot.Commands()
	lines := []string{c.a.l("help_header")}
	for _, name := range commandNames {
		aliases := cmds.Aliases[name]
		if len(aliases) == 0 || !(c.privileged || c.a.allowed(cmds, name, c.from)) {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %s", name, strings.Join(aliases, ", ")))
	}
	c.reply(strings.Join(lines, "\n"))
	return nil
}

func cmdPing(_ context.Context, c *call) error {
	c.reply(c.a.l("pong"))
	return nil
}

func cmdReload(ctx context.Context, c *call) error {
	if err := c.a.bot.Reload(ctx); err != nil {
		c.reply(c.a.l("reload_failed", err))
		return err
	}
	c.reply(c.a.l("reloaded"))
	return nil
}

func listCommand(k ListKind, add bool) handler {
	return func(ctx context.Context, c *call) error {
		if c.rest == "" {
			return usage(c, "<user>")
		}
		users := c.a.findUsers(c, c.rest, c.a.knownUsers())
		return c.a.choose(ctx, c, c.rest, userChoices(users, func(_ context.Context, u search.User) error {
			if add {
				ok, err := c.a.AddToList(k, u)
				if err != nil {
					return err
				}
				if !ok {
					c.reply(c.a.l("list_already", u.DisplayName, k))
					return nil
				}
				c.reply(c.a.l("list_added", u.DisplayName, k))
				return nil
			}
			ok, err := c.a.RemoveFromList(k, u)
			if err != nil {
				return err
			}
			if !ok {
				c.reply(c.a.l("list_missing", u.DisplayName, k))
				return nil
			}
			c.reply(c.a.l("list_removed", u.DisplayName, k))
			return nil
		}))
	}
}

func cmdGetUser(_ context.Context, c *call) error {
	if c.rest == "" {
		return usage(c, "<user>")
	}
	users := c.a.findUsers(c, c.rest, c.a.knownUsers())
	if len(users) == 0 {
		c.reply(c.a.l("not_found", c.rest))
		return nil
	}
	if limit := c.a.searchMax(); limit > 0 && len(users) > limit {
		c.reply(c.a.l("too_many", len(users)))
		return nil
	}
	lines := make([]string, 0, len(users))
	for _, u := range users {
		lines = append(lines, c.a.l("user_info", u.DisplayName, u.ID))
	}
	c.reply(strings.Join(lines, "\n"))
	return nil
}

// partyUsers — участники пати кроме самого бота.
func (a *Account) partyUsers() []search.User {
	me := a.session.Me().ID
	var out []search.User
	for _, m := range a.session.PartyMembers() {
		if m.ID != me {
			out = append(out, m)
		}
	}
	return out
}

func cmdKick(ctx context.Context, c *call) error {
	if c.rest == "" {
		return usage(c, "<user>")
	}
	users := c.a.findUsers(c, c.rest, c.a.partyUsers())
	return c.a.choose(ctx, c, c.rest, userChoices(users, func(ctx context.Context, u search.User) error {
		if err := c.a.session.Kick(ctx, u.ID); err != nil {
			return err
		}
		c.reply(c.a.l("kicked", u.DisplayName))
		return nil
	}))
}

func cmdChatban(ctx context.Context, c *call) error {
	if len(c.args) == 0 {
		return usage(c, "<user> [reason]")
	}
	reason := strings.Join(c.args[1:], " ")
	users := c.a.findUsers(c, c.args[0], c.a.partyUsers())
	return c.a.choose(ctx, c, c.args[0], userChoices(users, func(ctx context.Context, u search.User) error {
		if err := c.a.session.Chatban(ctx, u.ID, reason); err != nil {
			return err
		}
		c.reply(c.a.l("chatbanned", u.DisplayName))
		return nil
	}))
}

func cmdStatus(ctx context.Context, c *call) error {
	if c.rest == "" {
		return usage(c, "<text>")
	}
	if err := c.a.session.SetStatus(ctx, c.rest); err != nil {
		return err
	}
	c.reply(c.a.l("status_set", c.rest))
	return nil
}

func cmdPrivacy(ctx context.Context, c *call) error {
	if len(c.args) == 0 {
		return usage(c, "<"+strings.Join(privacyWords, "|")+">")
	}
	words := c.a.bot.Commands().Words
	for _, key := range privacyWords {
		aliases := append([]string{key}, words[key]...)
		if !slices.ContainsFunc(aliases, func(s string) bool { return strings.EqualFold(s, c.args[0]) }) {
			continue
		}
		privacy := strings.ToUpper(key)
		if err := c.a.session.SetPrivacy(ctx, privacy); err != nil {
			return err
		}
		c.reply(c.a.l("privacy_set", privacy))
		return nil
	}
	c.reply(c.a.l("privacy_unknown", c.args[0]))
	return nil
}

func cmdNewItems(_ context.Context, c *call) error {
	snap := c.a.bot.Snapshot()
	if snap == nil || len(snap.NewItems) == 0 {
		c.reply(c.a.l("new_items_empty"))
		return nil
	}
	items := snap.NewItems
	if limit := c.a.searchMax(); limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	lines := make([]string, 0, len(items))
	for _, it := range items {
		lines = append(lines, fmt.Sprintf("%s | %s", it.Name, it.ID))
	}
	c.reply(strings.Join(lines, "\n"))
	return nil
}

func itemCommand(mode search.Mode, types string) handler {
	return func(ctx context.Context, c *call) error {
		if c.rest == "" {
			return usage(c, "<"+string(mode)+">")
		}
		items := c.a.Searcher().SearchItem(mode, c.rest, types)
		return c.a.choose(ctx, c, c.rest, c.a.itemChoices(c, items))
	}
}

func cmdSet(ctx context.Context, c *call) error {
	return itemCommand(search.ModeSet, "")(ctx, c)
}

func playlistCommand(mode search.Mode) handler {
	return func(ctx context.Context, c *call) error {
		if c.rest == "" {
			return usage(c, "<"+string(mode)+">")
		}
		found := c.a.Searcher().SearchPlaylist(mode, c.rest)
		choices := make([]choice, 0, len(found))
		for _, p := range found {
			p := p
			choices = append(choices, choice{
				label: fmt.Sprintf("%s | %s", p.Name, p.ID),
				run:   func(ctx context.Context) error { return c.a.applyPlaylist(ctx, c, p) },
			})
		}
		return c.a.choose(ctx, c, c.rest, choices)
	}
}

// set_style <outfit|backpack|pickaxe> <стиль>
func cmdSetStyle(ctx context.Context, c *call) error {
	if len(c.args) < 2 {
		return usage(c, "<outfit|backpack|pickaxe> <style>")
	}
	slot, ok := c.a.commandByAlias(c.a.bot.Commands(), c.args[0])
	if !ok || (slot != "outfit" && slot != "backpack" && slot != "pickaxe") {
		return usage(c, "<outfit|backpack|pickaxe> <style>")
	}
	cur, ok := c.a.Current(slot)
	if !ok {
		c.reply(c.a.l("no_cosmetic", slot))
		return nil
	}
	if len(c.a.Searcher().GetStyle(cur.ID)) == 0 {
		c.reply(c.a.l("no_style", cur.Name))
		return nil
	}
	text := strings.Join(c.args[1:], " ")
	styles := c.a.Searcher().SearchStyle(cur.ID, text)
	choices := make([]choice, 0, len(styles))
	for _, v := range styles {
		v := v
		choices = append(choices, choice{
			label: fmt.Sprintf("%s | %s | %s", v.Name, v.Channel, v.Tag),
			run: func(ctx context.Context) error {
				if !c.privileged && c.a.IsFor(slot+"_lock_for", c.from) {
					c.reply(c.a.l("locked", slot))
					return nil
				}
				if err := c.a.setCosmetic(ctx, slot, cur, []catalog.Variant{v}); err != nil {
					return err
				}
				c.reply(c.a.l("style_set", slot, v.Name))
				return nil
			},
		})
	}
	return c.a.choose(ctx, c, text, choices)
}

func splitArgs(s string) []string {
	var out []string
	for _, m := range reArg.FindAllStringSubmatch(s, -1) {
		if m[1] != "" {
			out = append(out, m[1])
		} else {
			out = append(out, m[2])
		}
	}
	return out
}
