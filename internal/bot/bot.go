package bot

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/EgorLis/lobbybot/internal/catalog"
	"github.com/EgorLis/lobbybot/internal/config"
	"github.com/EgorLis/lobbybot/internal/search"
)

// ErrNoSession — нет аккаунта с таким номером или бот не загружен.
var ErrNoSession = errors.New("bot: no such session")

// Catalog — источник снимков каталога, обычно *catalog.Updater.
type Catalog interface {
	Update(ctx context.Context, force bool) error
	Load(ctx context.Context) (*catalog.Snapshot, error)
	Start(interval time.Duration, notify func(*catalog.Snapshot)) error
	Stop()
}

type Options struct {
	LangDir string
	// NewCatalog строит каталог по настройкам. nil — без каталога.
	NewCatalog      func(s *config.Settings) (Catalog, error)
	RefreshInterval time.Duration
	// NewSession подключает аккаунт. nil — ConsoleSession.
	NewSession func(c config.Client) (Session, error)
	Kanji      search.Converter
}

// Event — событие для дашборда и метрик.
type Event struct {
	Time    time.Time
	Account string
	Type    string
	Data    map[string]any
}

type LobbyBot struct {
	opts          Options
	loader        *config.Loader
	configStore   *config.Store
	commandsStore *config.Store
	log           *log.Logger

	OnEvent func(Event)

	docMu       sync.RWMutex
	configDoc   *config.Document
	commandsDoc *config.Document

	mu       sync.RWMutex
	settings *config.Settings
	commands *config.Commands
	locale   *config.Locale
	catalog  Catalog
	snapshot *catalog.Snapshot
	accounts []*Account

	reloadMu sync.Mutex
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

func New(loader *config.Loader, configStore, commandsStore *config.Store, opts Options, logger *log.Logger) *LobbyBot {
	if logger == nil {
		logger = log.StandardLogger()
	}
	if opts.RefreshInterval <= 0 {
		opts.RefreshInterval = 30 * time.Minute
	}
	return &LobbyBot{
		opts:          opts,
		loader:        loader,
		configStore:   configStore,
		commandsStore: commandsStore,
		log:           logger,
	}
}

// LogLevel: normal → Warn, info → Info, debug → Debug; debug: true всегда Debug.
func LogLevel(s *config.Settings) log.Level {
	if s.Debug {
		return log.DebugLevel
	}
	switch s.LogLevel {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	}
	return log.WarnLevel
}

// Load проверяет документы, загружает локализацию и каталог и собирает
// аккаунты. Сессии не запускаются.
func (b *LobbyBot) Load(ctx context.Context) error {
	cfgDoc, cmdDoc, err := b.loadDocuments()
	if err != nil {
		return err
	}
	settings, err := cfgDoc.Settings()
	if err != nil {
		return err
	}
	b.log.SetLevel(LogLevel(settings))

	commands, err := cmdDoc.Commands()
	if err != nil {
		return err
	}

	locale, err := config.LoadLocale(b.opts.LangDir, settings.Lang)
	if err != nil {
		b.log.WithError(err).WithField("lang", settings.Lang).Warn("locale not loaded")
	}

	var (
		cat  Catalog
		snap *catalog.Snapshot
	)
	if b.opts.NewCatalog != nil {
		if cat, err = b.opts.NewCatalog(settings); err != nil {
			return fmt.Errorf("catalog: %w", err)
		}
		if err := cat.Update(ctx, false); err != nil {
			return fmt.Errorf("catalog update: %w", err)
		}
		if snap, err = cat.Load(ctx); err != nil {
			return fmt.Errorf("catalog load: %w", err)
		}
	}

	b.mu.Lock()
	b.settings, b.commands, b.locale = settings, commands, locale
	b.catalog, b.snapshot = cat, snap
	b.mu.Unlock()

	accounts, err := b.buildAccounts(cfgDoc, settings, snap)
	if err != nil {
		return err
	}
	b.mu.Lock()
	b.accounts = accounts
	b.mu.Unlock()
	return nil
}

func (b *LobbyBot) buildAccounts(doc *config.Document, settings *config.Settings, snap *catalog.Snapshot) ([]*Account, error) {
	rawClients, _ := doc.Data["clients"].([]any)
	accounts := make([]*Account, 0, len(settings.Clients))
	fixed := false
	for i, client := range settings.Clients {
		raw, ok := rawClients[i].(map[string]any)
		if !ok {
			return nil, fmt.Errorf("clients[%d]: not an object", i)
		}
		session, err := b.newSession(client)
		if err != nil {
			return nil, fmt.Errorf("clients[%d]: %w", i, err)
		}
		a := newAccount(b, i, client, session)
		a.setSnapshot(snap)

		b.docMu.Lock()
		if FixCosmetics(raw, a.Searcher(), a.log) {
			fixed = true
			if err := config.Decode(raw, &a.client); err != nil {
				b.docMu.Unlock()
				return nil, fmt.Errorf("clients[%d]: %w", i, err)
			}
		}
		b.docMu.Unlock()
		accounts = append(accounts, a)
	}
	if fixed {
		if err := b.updateConfig(func() error { return nil }); err != nil {
			return nil, fmt.Errorf("save fixed cosmetics: %w", err)
		}
	}
	return accounts, nil
}

func (b *LobbyBot) newSession(c config.Client) (Session, error) {
	if b.opts.NewSession != nil {
		return b.opts.NewSession(c)
	}
	me := search.User{ID: c.Fortnite.Email, DisplayName: c.Fortnite.Email}
	return NewConsoleSession(me, b.log), nil
}

func (b *LobbyBot) Start(ctx context.Context) error {
	b.mu.Lock()
	if b.stopCh != nil {
		b.mu.Unlock()
		return errors.New("уже запущен")
	}
	b.stopCh = make(chan struct{})
	stopCh := b.stopCh
	b.mu.Unlock()

	if err := b.Load(ctx); err != nil {
		b.Stop()
		return err
	}
	if err := b.startAccounts(ctx); err != nil {
		b.stopAccounts()
		b.Stop()
		return err
	}

	// сторож для остановки
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		<-stopCh
		b.stopAccounts()
	}()
	return nil
}

// Stop останавливает обновление каталога и закрывает сессии.
func (b *LobbyBot) Stop() {
	b.mu.Lock()
	ch := b.stopCh
	b.stopCh = nil
	b.mu.Unlock()

	if ch != nil {
		close(ch)
		b.wg.Wait()
	}
}

func (b *LobbyBot) startAccounts(ctx context.Context) error {
	for _, a := range b.Accounts() {
		if err := a.session.Start(ctx); err != nil {
			return fmt.Errorf("%s: %w", a, err)
		}
		a.Ready(ctx)
	}
	b.mu.RLock()
	cat := b.catalog
	b.mu.RUnlock()
	if cat != nil {
		return cat.Start(b.opts.RefreshInterval, b.setSnapshot)
	}
	return nil
}

func (b *LobbyBot) stopAccounts() {
	b.mu.RLock()
	cat := b.catalog
	accounts := slices.Clone(b.accounts)
	b.mu.RUnlock()
	if cat != nil {
		cat.Stop()
	}
	for _, a := range accounts {
		if err := a.session.Close(); err != nil {
			a.log.WithError(err).Warn("session close failed")
		}
	}
}

// Reload перечитывает оба документа и пересобирает аккаунты.
func (b *LobbyBot) Reload(ctx context.Context) error {
	if !b.reloadMu.TryLock() {
		return ErrReloading
	}
	defer b.reloadMu.Unlock()

	b.mu.RLock()
	running := b.stopCh != nil
	b.mu.RUnlock()
	if !running {
		// первый запуск не удался: дашборд поднят, бот ещё нет
		if err := b.Start(ctx); err != nil {
			b.emit(Event{Type: "reload", Data: map[string]any{"error": err.Error()}})
			return err
		}
		b.emit(Event{Type: "reload", Data: map[string]any{"accounts": len(b.Accounts())}})
		return nil
	}

	b.stopAccounts()
	if err := b.Load(ctx); err != nil {
		b.emit(Event{Type: "reload", Data: map[string]any{"error": err.Error()}})
		return err
	}
	if err := b.startAccounts(ctx); err != nil {
		return err
	}
	b.emit(Event{Type: "reload", Data: map[string]any{"accounts": len(b.Accounts())}})
	return nil
}

func (b *LobbyBot) setSnapshot(s *catalog.Snapshot) {
	b.mu.Lock()
	b.snapshot = s
	accounts := slices.Clone(b.accounts)
	b.mu.Unlock()
	for _, a := range accounts {
		a.setSnapshot(s)
	}
	b.emit(Event{Type: "catalog", Data: map[string]any{
		"items":     len(s.MainItems),
		"new_items": len(s.NewItems),
		"playlists": len(s.MainPlaylists),
	}})
}

func (b *LobbyBot) emit(e Event) {
	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	if b.OnEvent != nil {
		b.OnEvent(e)
	}
}

func (b *LobbyBot) Settings() *config.Settings {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.settings
}

func (b *LobbyBot) settingsNoLogs() bool {
	s := b.Settings()
	return s != nil && s.NoLogs
}

// Commands никогда не возвращает nil: без commands.json алиасов просто нет.
func (b *LobbyBot) Commands() *config.Commands {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.commands == nil {
		return &config.Commands{}
	}
	return b.commands
}

func (b *LobbyBot) Locale() *config.Locale {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.locale
}

func (b *LobbyBot) Snapshot() *catalog.Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.snapshot
}

func (b *LobbyBot) Accounts() []*Account {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Clone(b.accounts)
}

func (b *LobbyBot) Account(i int) (*Account, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if i < 0 || i >= len(b.accounts) {
		return nil, fmt.Errorf("%w: %d", ErrNoSession, i)
	}
	return b.accounts[i], nil
}

// Execute выполняет строку команды от имени аккаунта i и возвращает ответы.
func (b *LobbyBot) Execute(ctx context.Context, i int, text string) ([]string, error) {
	a, err := b.Account(i)
	if err != nil {
		return nil, err
	}
	var out []string
	err = a.dispatch(ctx, a.session.Me(), text, func(s string) { out = append(out, s) }, true)
	return out, err
}

// Searcher — поиск первого аккаунта, без аккаунтов строится по снимку.
func (b *LobbyBot) Searcher() *search.Searcher {
	if a, err := b.Account(0); err == nil {
		if s := a.Searcher(); s != nil {
			return s
		}
	}
	return search.FromSnapshot(b.Snapshot(), search.NewFolder(true, b.opts.Kanji))
}
