package bot

import (
	"context"
	"slices"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/EgorLis/lobbybot/internal/search"
)

// ListKind — списки пользователей в конфиге клиента.
type ListKind int

const (
	Owner ListKind = iota
	Whitelist
	Blacklist
	Botlist
	Invitelist
)

var listKeys = [...]string{
	Owner:      "owner",
	Whitelist:  "whitelist",
	Blacklist:  "blacklist",
	Botlist:    "botlist",
	Invitelist: "invitelist",
}

// Key — ключ списка в разделе fortnite.
func (k ListKind) Key() string {
	if int(k) < 0 || int(k) >= len(listKeys) {
		return "unknown"
	}
	return listKeys[k]
}

func (k ListKind) String() string { return k.Key() }

// UserType — роль пользователя для *_for настроек.
type UserType string

const (
	TypeOwner     UserType = "owner"
	TypeWhitelist UserType = "whitelist"
	TypeBlacklist UserType = "blacklist"
	TypeBot       UserType = "bot"
	TypeUser      UserType = "user"
)

// Порядок проверки: первый подходящий список определяет роль.
var typeOrder = []struct {
	kind ListKind
	typ  UserType
}{
	{Owner, TypeOwner},
	{Whitelist, TypeWhitelist},
	{Blacklist, TypeBlacklist},
	{Botlist, TypeBot},
}

// inList: запись списка — id или отображаемое имя (без учёта регистра).
func inList(list []string, u search.User) bool {
	return slices.ContainsFunc(list, func(e string) bool {
		return e == u.ID || (u.DisplayName != "" && strings.EqualFold(e, u.DisplayName))
	})
}

func (a *Account) List(k ListKind) []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return slices.Clone(a.lists[k])
}

func (a *Account) InList(k ListKind, u search.User) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return inList(a.lists[k], u)
}

func (a *Account) UserType(u search.User) UserType {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, t := range typeOrder {
		if inList(a.lists[t.kind], u) {
			return t.typ
		}
	}
	return TypeUser
}

// AddToList добавляет id в список и сохраняет конфиг. false — уже был.
func (a *Account) AddToList(k ListKind, u search.User) (bool, error) {
	a.mu.Lock()
	if inList(a.lists[k], u) {
		a.mu.Unlock()
		return false, nil
	}
	a.lists[k] = append(a.lists[k], u.ID)
	list := slices.Clone(a.lists[k])
	a.mu.Unlock()
	return true, a.persistList(k, list)
}

// RemoveFromList убирает и запись по id, и запись по имени.
func (a *Account) RemoveFromList(k ListKind, u search.User) (bool, error) {
	a.mu.Lock()
	before := len(a.lists[k])
	a.lists[k] = slices.DeleteFunc(a.lists[k], func(e string) bool {
		return inList([]string{e}, u)
	})
	removed := len(a.lists[k]) != before
	list := slices.Clone(a.lists[k])
	a.mu.Unlock()
	if !removed {
		return false, nil
	}
	return true, a.persistList(k, list)
}

func (a *Account) persistList(k ListKind, list []string) error {
	items := make([]any, len(list))
	for i, s := range list {
		items[i] = s
	}
	return a.setConfig(k.Key(), items)
}

// IsFor: роль пользователя входит в список типов по ключу key
// (fortnite.<key> или <key> клиента). null — никому.
func (a *Account) IsFor(key string, u search.User) bool {
	types := a.stringList(key)
	return slices.Contains(types, string(a.UserType(u)))
}

// Operation — одно действие над пользователем.
type Operation struct {
	Name string
	Run  func(ctx context.Context) error
}

// Operations собирает действия из списка key (multiple_select_user_operation).
// kick и chatban требуют участника пати, remove — друга.
func (a *Account) Operations(key string, u search.User) []Operation {
	isMember := containsUser(a.session.PartyMembers(), u.ID)
	isFriend := containsUser(a.session.Friends(), u.ID)

	var ops []Operation
	for _, name := range a.stringList(key) {
		switch name {
		case "kick":
			if isMember {
				ops = append(ops, Operation{name, func(ctx context.Context) error {
					return a.session.Kick(ctx, u.ID)
				}})
			}
		case "chatban":
			if isMember {
				ops = append(ops, Operation{name, func(ctx context.Context) error {
					return a.session.Chatban(ctx, u.ID, "")
				}})
			}
		case "remove":
			if isFriend {
				ops = append(ops, Operation{name, func(ctx context.Context) error {
					return a.session.RemoveFriend(ctx, u.ID)
				}})
			}
		case "block":
			ops = append(ops, Operation{name, func(ctx context.Context) error {
				return a.session.Block(ctx, u.ID)
			}})
		case "blacklist":
			ops = append(ops, Operation{name, func(context.Context) error {
				_, err := a.AddToList(Blacklist, u)
				return err
			}})
		}
	}
	return ops
}

// RunOperations выполняет действия; ошибка одного не останавливает остальные.
func (a *Account) RunOperations(ctx context.Context, key string, u search.User) {
	for _, op := range a.Operations(key, u) {
		if err := op.Run(ctx); err != nil {
			a.log.WithError(err).WithFields(log.Fields{"operation": op.Name, "user": u.ID}).Warn("user operation failed")
		}
	}
}

func containsUser(users []search.User, id string) bool {
	return slices.ContainsFunc(users, func(u search.User) bool { return u.ID == id })
}
