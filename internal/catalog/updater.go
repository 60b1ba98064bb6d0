package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Snapshot — всё, что нужно поисковику и боту, на один момент времени.
type Snapshot struct {
	Provider      Provider
	MainLang      string
	SubLang       string
	MainItems     []Item
	SubItems      []Item
	NewItems      []Item
	MainPlaylists []Playlist
	SubPlaylists  []Playlist
	Banners       map[string]string
	LoadedAt      time.Time
}

type Updater struct {
	client   *Client
	cache    *Cache
	mainLang string
	subLang  string
	log      log.FieldLogger
	now      func() time.Time

	// OnRefresh вызывается после каждой попытки обновить запись кэша.
	OnRefresh func(kind, lang string, err error)

	mu      sync.RWMutex
	snap    *Snapshot
	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

func NewUpdater(client *Client, cache *Cache, mainLang, subLang string, logger log.FieldLogger) *Updater {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Updater{
		client:   client,
		cache:    cache,
		mainLang: mainLang,
		subLang:  subLang,
		log:      logger.WithField("provider", client.Provider()),
		now:      time.Now,
	}
}

func (u *Updater) langs() []string {
	if u.subLang == "" || u.subLang == u.mainLang {
		return []string{u.mainLang}
	}
	return []string{u.mainLang, u.subLang}
}

// Update перекачивает устаревшие записи (force — все). Ошибка возвращается,
// только если без неё работать нельзя: нет кэша предметов или плейлистов.
func (u *Updater) Update(ctx context.Context, force bool) error {
	p := u.client.Provider()

	g, gctx := errgroup.WithContext(ctx)
	for _, lang := range u.langs() {
		lang := lang
		g.Go(func() error {
			return u.refresh(gctx, KindItems, lang, force, func(ctx context.Context, old *Entry) (any, error) {
				fresh, err := u.client.Items(ctx, lang)
				if err != nil {
					return nil, err
				}
				prev, err := decodePayload[[]Item](old)
				if err != nil {
					return nil, err
				}
				return MergeItems(p, prev, fresh), nil
			})
		})
	}
	if err := g.Wait(); err != nil {
		u.log.WithError(err).Error("failed to get item data")
		if missing := u.missing(ctx, KindItems); missing != "" {
			return fmt.Errorf("no item cache for %s: %w", missing, err)
		}
	}

	err := u.refresh(ctx, KindNewItems, u.mainLang, force, func(ctx context.Context, old *Entry) (any, error) {
		fresh, err := u.client.NewItems(ctx, u.mainLang)
		if err != nil {
			return nil, err
		}
		prev, err := decodePayload[[]Item](old)
		if err != nil {
			return nil, err
		}
		return MergeNewItems(p, prev, fresh), nil
	})
	if err != nil {
		u.log.WithError(err).Error("failed to get new item data")
	}

	g, gctx = errgroup.WithContext(ctx)
	for _, lang := range u.langs() {
		lang := lang
		g.Go(func() error {
			return u.refresh(gctx, KindPlaylists, lang, force, func(ctx context.Context, old *Entry) (any, error) {
				fresh, err := u.client.Playlists(ctx, lang)
				if err != nil {
					return nil, err
				}
				prev, err := decodePayload[[]Playlist](old)
				if err != nil {
					return nil, err
				}
				return MergePlaylists(prev, fresh), nil
			})
		})
	}
	if err := g.Wait(); err != nil {
		u.log.WithError(err).Error("failed to get playlist data")
		if missing := u.missing(ctx, KindPlaylists); missing != "" {
			return fmt.Errorf("no playlist cache for %s: %w", missing, err)
		}
		return nil
	}

	err = u.refresh(ctx, KindBanners, "", force, func(ctx context.Context, old *Entry) (any, error) {
		fresh, err := u.client.Banners(ctx)
		if err != nil {
			return nil, err
		}
		prev, err := decodePayload[map[string]string](old)
		if err != nil {
			return nil, err
		}
		return MergeBanners(prev, fresh), nil
	})
	if err != nil {
		u.log.WithError(err).Error("failed to get banner data")
	}
	return nil
}

func (u *Updater) refresh(ctx context.Context, kind, lang string, force bool,
	fetch func(ctx context.Context, old *Entry) (any, error)) (err error) {
	defer func() {
		if u.OnRefresh != nil {
			u.OnRefresh(kind, lang, err)
		}
	}()

	old, err := u.cache.Get(ctx, kind, lang)
	if err != nil && !errors.Is(err, ErrNotCached) {
		return err
	}
	if old != nil && !force {
		if old.Check(u.client.Provider(), MaxAge, u.now()) == nil {
			return nil
		}
	}
	u.log.WithFields(log.Fields{"kind": kind, "lang": lang}).Info("fetching catalog")
	v, err := fetch(ctx, old)
	if err != nil {
		return fmt.Errorf("%s/%s: %w", kind, lang, err)
	}
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return u.cache.Put(ctx, Entry{
		Kind:      kind,
		Lang:      lang,
		Provider:  u.client.Provider(),
		FetchedAt: u.now(),
		Payload:   payload,
	})
}

// missing — первый язык без записи kind в кэше, "" если все на месте.
func (u *Updater) missing(ctx context.Context, kind string) string {
	for _, lang := range u.langs() {
		if _, err := u.cache.Get(ctx, kind, lang); err != nil {
			return lang
		}
	}
	return ""
}

func decodePayload[T any](e *Entry) (T, error) {
	var v T
	if e == nil {
		return v, nil
	}
	if err := json.Unmarshal(e.Payload, &v); err != nil {
		return v, fmt.Errorf("decode cached %s/%s: %w", e.Kind, e.Lang, err)
	}
	return v, nil
}

// Load собирает Snapshot из кэша и делает его текущим.
func (u *Updater) Load(ctx context.Context) (*Snapshot, error) {
	s := &Snapshot{
		Provider: u.client.Provider(),
		MainLang: u.mainLang,
		SubLang:  u.subLang,
		LoadedAt: u.now(),
	}
	if u.subLang == "" {
		s.SubLang = u.mainLang
	}
	var err error
	if s.MainItems, err = u.load(ctx, KindItems, s.MainLang, true); err != nil {
		return nil, err
	}
	if s.SubItems, err = u.load(ctx, KindItems, s.SubLang, true); err != nil {
		return nil, err
	}
	if s.NewItems, err = u.load(ctx, KindNewItems, s.MainLang, false); err != nil {
		return nil, err
	}
	if s.MainPlaylists, err = loadAs[[]Playlist](ctx, u.cache, KindPlaylists, s.MainLang, true); err != nil {
		return nil, err
	}
	if s.SubPlaylists, err = loadAs[[]Playlist](ctx, u.cache, KindPlaylists, s.SubLang, true); err != nil {
		return nil, err
	}
	if s.Banners, err = loadAs[map[string]string](ctx, u.cache, KindBanners, "", false); err != nil {
		return nil, err
	}

	u.mu.Lock()
	u.snap = s
	u.mu.Unlock()
	return s, nil
}

func (u *Updater) load(ctx context.Context, kind, lang string, required bool) ([]Item, error) {
	return loadAs[[]Item](ctx, u.cache, kind, lang, required)
}

func loadAs[T any](ctx context.Context, c *Cache, kind, lang string, required bool) (T, error) {
	var zero T
	e, err := c.Get(ctx, kind, lang)
	if err != nil {
		if errors.Is(err, ErrNotCached) && !required {
			return zero, nil
		}
		return zero, err
	}
	return decodePayload[T](e)
}

// Snapshot — последний загруженный снимок (nil до первого Load).
func (u *Updater) Snapshot() *Snapshot {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.snap
}

// Start запускает фоновое обновление. notify получает каждый новый снимок.
func (u *Updater) Start(interval time.Duration, notify func(*Snapshot)) error {
	u.mu.Lock()
	if u.running {
		u.mu.Unlock()
		return nil
	}
	u.running = true
	u.stopCh = make(chan struct{})
	stopCh := u.stopCh
	u.mu.Unlock()

	u.wg.Add(1)
	go func() {
		defer u.wg.Done()
		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-t.C:
				ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
				go func() {
					select {
					case <-stopCh:
						cancel()
					case <-ctx.Done():
					}
				}()
				if err := u.Update(ctx, false); err != nil {
					u.log.WithError(err).Error("catalog update failed")
					cancel()
					continue
				}
				s, err := u.Load(ctx)
				cancel()
				if err != nil {
					u.log.WithError(err).Error("catalog load failed")
					continue
				}
				if notify != nil {
					notify(s)
				}
			case <-stopCh:
				return
			}
		}
	}()
	return nil
}

func (u *Updater) Stop() {
	u.mu.Lock()
	if !u.running {
		u.mu.Unlock()
		return
	}
	close(u.stopCh)
	u.running = false
	u.mu.Unlock()
	u.wg.Wait()
}
