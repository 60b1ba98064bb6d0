package bot

import (
	"context"
	"fmt"
	"slices"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/EgorLis/lobbybot/internal/catalog"
	"github.com/EgorLis/lobbybot/internal/search"
)

// Session — подключение одного аккаунта к игровому сервису. Протокол
// (авторизация, XMPP, мета пати) живёт в реализации, бот только вызывает
// операции.
type Session interface {
	Start(ctx context.Context) error
	Close() error

	Me() search.User
	Friends() []search.User
	PartyMembers() []search.User

	Kick(ctx context.Context, userID string) error
	Chatban(ctx context.Context, userID, reason string) error
	RemoveFriend(ctx context.Context, userID string) error
	Block(ctx context.Context, userID string) error

	SetStatus(ctx context.Context, status string) error
	SetPrivacy(ctx context.Context, privacy string) error
	SetCosmetic(ctx context.Context, slot string, it catalog.Item, variants []catalog.Variant) error
	SetPlaylist(ctx context.Context, p catalog.Playlist) error

	Send(ctx context.Context, userID, text string) error
}

// ConsoleSession — локальная сессия без сети: операции пишутся в лог
// и запоминаются. Используется для локального запуска.
type ConsoleSession struct {
	log log.FieldLogger

	mu        sync.Mutex
	me        search.User
	friends   []search.User
	members   []search.User
	blocked   []string
	status    string
	privacy   string
	playlist  catalog.Playlist
	cosmetics map[string]catalog.Item
	variants  map[string][]catalog.Variant
	sent      []string
}

func NewConsoleSession(me search.User, logger log.FieldLogger) *ConsoleSession {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &ConsoleSession{
		log:       logger.WithField("account", me.DisplayName),
		me:        me,
		members:   []search.User{me},
		cosmetics: map[string]catalog.Item{},
		variants:  map[string][]catalog.Variant{},
	}
}

func (s *ConsoleSession) Start(context.Context) error {
	s.log.Info("console session started")
	return nil
}

func (s *ConsoleSession) Close() error { return nil }

func (s *ConsoleSession) Me() search.User { return s.me }

func (s *ConsoleSession) Friends() []search.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.friends)
}

func (s *ConsoleSession) PartyMembers() []search.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.members)
}

// AddFriend и Join имитируют входящие события.
func (s *ConsoleSession) AddFriend(u search.User) {
	s.mu.Lock()
	s.friends = append(s.friends, u)
	s.mu.Unlock()
}

func (s *ConsoleSession) Join(u search.User) {
	s.mu.Lock()
	s.members = append(s.members, u)
	s.mu.Unlock()
}

func removeUser(users []search.User, id string) ([]search.User, bool) {
	i := slices.IndexFunc(users, func(u search.User) bool { return u.ID == id })
	if i < 0 {
		return users, false
	}
	return slices.Delete(users, i, i+1), true
}

func (s *ConsoleSession) Kick(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ok bool
	if s.members, ok = removeUser(s.members, userID); !ok {
		return fmt.Errorf("user %s is not a party member", userID)
	}
	s.log.WithField("user", userID).Info("kick")
	return nil
}

func (s *ConsoleSession) Chatban(_ context.Context, userID, reason string) error {
	s.log.WithFields(log.Fields{"user": userID, "reason": reason}).Info("chatban")
	return nil
}

func (s *ConsoleSession) RemoveFriend(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ok bool
	if s.friends, ok = removeUser(s.friends, userID); !ok {
		return fmt.Errorf("user %s is not a friend", userID)
	}
	s.log.WithField("user", userID).Info("remove friend")
	return nil
}

func (s *ConsoleSession) Block(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blocked = append(s.blocked, userID)
	s.log.WithField("user", userID).Info("block")
	return nil
}

func (s *ConsoleSession) SetStatus(_ context.Context, status string) error {
	s.mu.Lock()
	s.status = status
	s.mu.Unlock()
	s.log.WithField("status", status).Info("status")
	return nil
}

func (s *ConsoleSession) SetPrivacy(_ context.Context, privacy string) error {
	s.mu.Lock()
	s.privacy = privacy
	s.mu.Unlock()
	s.log.WithField("privacy", privacy).Info("privacy")
	return nil
}

func (s *ConsoleSession) SetCosmetic(_ context.Context, slot string, it catalog.Item, variants []catalog.Variant) error {
	s.mu.Lock()
	s.cosmetics[slot] = it
	s.variants[slot] = variants
	s.mu.Unlock()
	s.log.WithFields(log.Fields{"slot": slot, "id": it.ID, "variants": len(variants)}).Info("cosmetic")
	return nil
}

func (s *ConsoleSession) SetPlaylist(_ context.Context, p catalog.Playlist) error {
	s.mu.Lock()
	s.playlist = p
	s.mu.Unlock()
	s.log.WithField("playlist", p.ID).Info("playlist")
	return nil
}

func (s *ConsoleSession) Send(_ context.Context, userID, text string) error {
	s.mu.Lock()
	s.sent = append(s.sent, text)
	s.mu.Unlock()
	s.log.WithField("to", userID).Info(text)
	return nil
}

// State — снимок для проверок и консольного вывода.
type State struct {
	Status    string
	Privacy   string
	Playlist  catalog.Playlist
	Cosmetics map[string]catalog.Item
	Variants  map[string][]catalog.Variant
	Blocked   []string
	Sent      []string
}

func (s *ConsoleSession) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := State{
		Status:    s.status,
		Privacy:   s.privacy,
		Playlist:  s.playlist,
		Cosmetics: make(map[string]catalog.Item, len(s.cosmetics)),
		Variants:  make(map[string][]catalog.Variant, len(s.variants)),
		Blocked:   slices.Clone(s.blocked),
		Sent:      slices.Clone(s.sent),
	}
	for k, v := range s.cosmetics {
		st.Cosmetics[k] = v
	}
	for k, v := range s.variants {
		st.Variants[k] = v
	}
	return st
}
