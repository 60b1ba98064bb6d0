package search

import (
	"fmt"
	"strings"

	"github.com/EgorLis/lobbybot/internal/catalog"
)

// Mode — по какому полю ищется предмет или плейлист.
type Mode string

const (
	ModeName Mode = "name"
	ModeID   Mode = "id"
	ModeSet  Mode = "set"
)

func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(s)); m {
	case ModeName, ModeID, ModeSet:
		return m, nil
	}
	return "", fmt.Errorf("search: unknown mode %q", s)
}

// Searcher — поиск по основному и запасному языку. Неизменяем после
// создания, безопасен для конкурентного чтения.
type Searcher struct {
	main, sub     *ItemIndex
	mainPl, subPl *PlaylistIndex
	folder        *Folder
}

func NewSearcher(main, sub []catalog.Item, mainPl, subPl []catalog.Playlist, folder *Folder) *Searcher {
	return &Searcher{
		main:   NewItemIndex(main),
		sub:    NewItemIndex(sub),
		mainPl: NewPlaylistIndex(mainPl),
		subPl:  NewPlaylistIndex(subPl),
		folder: folder,
	}
}

func FromSnapshot(s *catalog.Snapshot, folder *Folder) *Searcher {
	if s == nil {
		return NewSearcher(nil, nil, nil, nil, folder)
	}
	return NewSearcher(s.MainItems, s.SubItems, s.MainPlaylists, s.SubPlaylists, folder)
}

func (s *Searcher) Folder() *Folder { return s.folder }

// GetItem — точный поиск по id, только основной язык.
func (s *Searcher) GetItem(id string) (catalog.Item, bool) {
	return s.main.Get(id)
}

// SearchItem ищет подстроку text в поле mode. types — фильтр backendType
// через запятую, пустая строка — все категории.
func (s *Searcher) SearchItem(mode Mode, text, types string) []catalog.Item {
	text = s.folder.Fold(text)
	filter := ParseTypes(types)
	if out := s.searchIndex(s.main, mode, text, filter); len(out) > 0 {
		return out
	}
	return s.searchIndex(s.sub, mode, text, filter)
}

// SearchItemNameID — сначала по имени, при пустом результате по id.
func (s *Searcher) SearchItemNameID(text, types string) []catalog.Item {
	if out := s.SearchItem(ModeName, text, types); len(out) > 0 {
		return out
	}
	return s.SearchItem(ModeID, text, types)
}

func (s *Searcher) searchIndex(ix *ItemIndex, mode Mode, text string, types []string) []catalog.Item {
	var out []catalog.Item
	ix.each(types, func(it catalog.Item) {
		if s.matchItem(it, mode, text) {
			out = append(out, it)
		}
	})
	return out
}

// matchItem: предметы без имени не находятся ни в одном режиме.
func (s *Searcher) matchItem(it catalog.Item, mode Mode, text string) bool {
	if it.Name == "" {
		return false
	}
	switch mode {
	case ModeName:
		return strings.Contains(s.folder.Fold(it.Name), text)
	case ModeID:
		return strings.Contains(casefold(it.ID), text)
	case ModeSet:
		return it.Set != nil && strings.Contains(s.folder.Fold(*it.Set), text)
	}
	return false
}

// GetStyle возвращает стили предмета основного языка. nil — предмет не
// найден или стили неизвестны.
func (s *Searcher) GetStyle(id string) []catalog.Variant {
	it, ok := s.main.Get(id)
	if !ok {
		return nil
	}
	return it.Variants
}

func (s *Searcher) SearchStyle(id, text string) []catalog.Variant {
	text = s.folder.Fold(text)
	var out []catalog.Variant
	for _, v := range s.GetStyle(id) {
		if strings.Contains(s.folder.Fold(v.Name), text) {
			out = append(out, v)
		}
	}
	return out
}

func (s *Searcher) GetPlaylist(id string) (catalog.Playlist, bool) {
	return s.mainPl.Get(id)
}

// SearchPlaylist поддерживает ModeName и ModeID.
func (s *Searcher) SearchPlaylist(mode Mode, text string) []catalog.Playlist {
	text = s.folder.Fold(text)
	if out := s.searchPlaylists(s.mainPl, mode, text); len(out) > 0 {
		return out
	}
	return s.searchPlaylists(s.subPl, mode, text)
}

func (s *Searcher) SearchPlaylistNameID(text string) []catalog.Playlist {
	if out := s.SearchPlaylist(ModeName, text); len(out) > 0 {
		return out
	}
	return s.SearchPlaylist(ModeID, text)
}

func (s *Searcher) searchPlaylists(ix *PlaylistIndex, mode Mode, text string) []catalog.Playlist {
	var out []catalog.Playlist
	for _, p := range ix.all() {
		var ok bool
		switch mode {
		case ModeName:
			ok = p.Name != "" && strings.Contains(s.folder.Fold(p.Name), text)
		case ModeID:
			ok = strings.Contains(casefold(p.ID), text)
		}
		if ok {
			out = append(out, p)
		}
	}
	return out
}
