package search

import (
	"strings"

	"github.com/RoaringBitmap/roaring"

	"github.com/EgorLis/lobbybot/internal/catalog"
)

// ItemIndex — предметы в порядке вставки, ключ id без учёта регистра.
// byType хранит позиции по backendType для фильтра категорий.
type ItemIndex struct {
	items  []catalog.Item
	byID   map[string]int
	byType map[string]*roaring.Bitmap
}

func NewItemIndex(items []catalog.Item) *ItemIndex {
	ix := &ItemIndex{
		byID:   make(map[string]int, len(items)),
		byType: map[string]*roaring.Bitmap{},
	}
	for _, it := range items {
		ix.Put(it)
	}
	return ix
}

// Put добавляет предмет или заменяет предмет с тем же id на его месте.
func (ix *ItemIndex) Put(it catalog.Item) {
	key := casefold(it.ID)
	pos, ok := ix.byID[key]
	if ok {
		if old := ix.items[pos].Type.BackendValue; old != it.Type.BackendValue {
			if bm := ix.byType[old]; bm != nil {
				bm.Remove(uint32(pos))
			}
		}
		ix.items[pos] = it
	} else {
		pos = len(ix.items)
		ix.byID[key] = pos
		ix.items = append(ix.items, it)
	}
	bm := ix.byType[it.Type.BackendValue]
	if bm == nil {
		bm = roaring.New()
		ix.byType[it.Type.BackendValue] = bm
	}
	bm.Add(uint32(pos))
}

func (ix *ItemIndex) Get(id string) (catalog.Item, bool) {
	if ix == nil {
		return catalog.Item{}, false
	}
	pos, ok := ix.byID[casefold(id)]
	if !ok {
		return catalog.Item{}, false
	}
	return ix.items[pos], true
}

// each обходит предметы в порядке вставки; types — допустимые backendType.
func (ix *ItemIndex) each(types []string, fn func(catalog.Item)) {
	if ix == nil {
		return
	}
	if len(types) == 0 {
		for _, it := range ix.items {
			fn(it)
		}
		return
	}
	union := roaring.New()
	for _, t := range types {
		if bm := ix.byType[t]; bm != nil {
			union.Or(bm)
		}
	}
	it := union.Iterator()
	for it.HasNext() {
		fn(ix.items[it.Next()])
	}
}

// ParseTypes разбирает фильтр вида "AthenaBackpack,AthenaPet".
func ParseTypes(s string) []string {
	var out []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

type PlaylistIndex struct {
	playlists []catalog.Playlist
	byID      map[string]int
}

func NewPlaylistIndex(playlists []catalog.Playlist) *PlaylistIndex {
	ix := &PlaylistIndex{byID: make(map[string]int, len(playlists))}
	for _, p := range playlists {
		key := casefold(p.ID)
		if pos, ok := ix.byID[key]; ok {
			ix.playlists[pos] = p
			continue
		}
		ix.byID[key] = len(ix.playlists)
		ix.playlists = append(ix.playlists, p)
	}
	return ix
}

func (ix *PlaylistIndex) Get(id string) (catalog.Playlist, bool) {
	if ix == nil {
		return catalog.Playlist{}, false
	}
	pos, ok := ix.byID[casefold(id)]
	if !ok {
		return catalog.Playlist{}, false
	}
	return ix.playlists[pos], true
}

func (ix *PlaylistIndex) all() []catalog.Playlist {
	if ix == nil {
		return nil
	}
	return ix.playlists
}
