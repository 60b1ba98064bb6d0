package catalog

import (
	"maps"
	"strings"
)

func idKey(id string) string { return strings.ToLower(id) }

// MergeItems дополняет кэш свежими данными: порядок старых записей
// сохраняется, новые идут в конец. У FortniteApi.io нет стилей, поэтому
// предмет со стилями из старого кэша сохраняет их, а без стилей не меняется.
func MergeItems(p Provider, old, fresh []Item) []Item {
	out := make([]Item, len(old), len(old)+len(fresh))
	copy(out, old)
	pos := make(map[string]int, len(out))
	for i, it := range out {
		pos[idKey(it.ID)] = i
	}
	for _, it := range fresh {
		i, ok := pos[idKey(it.ID)]
		switch {
		case !ok:
			pos[idKey(it.ID)] = len(out)
			out = append(out, it)
		case p != FortniteAPIIO:
			out[i] = it
		case out[i].Variants != nil:
			it.Variants = out[i].Variants
			out[i] = it
		}
	}
	return out
}

// MergeNewItems: список новинок заменяется целиком, но стили из прошлого
// списка переносятся для FortniteApi.io.
func MergeNewItems(p Provider, old, fresh []Item) []Item {
	out := make([]Item, len(fresh))
	copy(out, fresh)
	if p != FortniteAPIIO {
		return out
	}
	prev := make(map[string][]Variant, len(old))
	for _, it := range old {
		if it.Variants != nil {
			prev[idKey(it.ID)] = it.Variants
		}
	}
	for i := range out {
		if v, ok := prev[idKey(out[i].ID)]; ok {
			out[i].Variants = v
		}
	}
	return out
}

func MergePlaylists(old, fresh []Playlist) []Playlist {
	out := make([]Playlist, len(old), len(old)+len(fresh))
	copy(out, old)
	pos := make(map[string]int, len(out))
	for i, pl := range out {
		pos[idKey(pl.ID)] = i
	}
	for _, pl := range fresh {
		if i, ok := pos[idKey(pl.ID)]; ok {
			out[i] = pl
			continue
		}
		pos[idKey(pl.ID)] = len(out)
		out = append(out, pl)
	}
	return out
}

func MergeBanners(old, fresh map[string]string) map[string]string {
	out := make(map[string]string, len(old)+len(fresh))
	maps.Copy(out, old)
	for id, url := range fresh {
		out[idKey(id)] = url
	}
	return out
}
