package catalog

import (
	"encoding/json"
	"fmt"
	"slices"
	"sort"
	"strings"
)

type rawVariantGroup struct {
	Channel string `json:"channel"`
	Options []struct {
		Tag  string `json:"tag"`
		Name string `json:"name"`
	} `json:"options"`
}

type benbotItem struct {
	ID               string            `json:"id"`
	Name             *string           `json:"name"`
	BackendType      string            `json:"backendType"`
	ShortDescription string            `json:"shortDescription"`
	Set              *string           `json:"set"`
	Variants         []rawVariantGroup `json:"variants"`
}

type fortniteAPIItem struct {
	ID   string   `json:"id"`
	Name *string  `json:"name"`
	Type ItemType `json:"type"`
	Set  *struct {
		Value string `json:"value"`
	} `json:"set"`
	Variants []rawVariantGroup `json:"variants"`
}

type ioItem struct {
	ID   string  `json:"id"`
	Name *string `json:"name"`
	Type string  `json:"type"`
	Set  any     `json:"set"`
}

// convertVariants раскладывает группы стилей на отдельные варианты.
func convertVariants(groups []rawVariantGroup) []Variant {
	if groups == nil {
		return nil
	}
	out := []Variant{}
	for _, g := range groups {
		for _, o := range g.Options {
			out = append(out, Variant{Name: o.Name, Channel: g.Channel, Tag: o.Tag})
		}
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// FormatItems приводит ответ провайдера (массив предметов) к []Item:
// сортировка по id, только CosmeticTypes.
func FormatItems(p Provider, data []byte) ([]Item, error) {
	var items []Item
	switch p {
	case BenBot:
		var raw []benbotItem
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("decode %s items: %w", p, err)
		}
		sort.SliceStable(raw, func(i, j int) bool { return raw[i].ID < raw[j].ID })
		for _, r := range raw {
			items = append(items, Item{
				ID:   r.ID,
				Name: deref(r.Name),
				Type: ItemType{
					Value:        BackendToAPI[r.BackendType],
					DisplayValue: r.ShortDescription,
					BackendValue: r.BackendType,
				},
				Set:      r.Set,
				Variants: convertVariants(r.Variants),
			})
		}
	case FortniteAPI:
		var raw []fortniteAPIItem
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("decode %s items: %w", p, err)
		}
		sort.SliceStable(raw, func(i, j int) bool { return raw[i].ID < raw[j].ID })
		for _, r := range raw {
			it := Item{ID: r.ID, Name: deref(r.Name), Type: r.Type, Variants: convertVariants(r.Variants)}
			if r.Set != nil {
				set := r.Set.Value
				it.Set = &set
			}
			items = append(items, it)
		}
	case FortniteAPIIO:
		var raw []ioItem
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("decode %s items: %w", p, err)
		}
		sort.SliceStable(raw, func(i, j int) bool { return raw[i].ID < raw[j].ID })
		for _, r := range raw {
			it := Item{
				ID:   r.ID,
				Name: deref(r.Name),
				Type: ItemType{
					Value:        r.Type,
					DisplayValue: r.Type,
					BackendValue: APIToBackend[r.Type],
				},
			}
			if s, ok := r.Set.(string); ok && s != "" {
				it.Set = &s
			}
			items = append(items, it)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, p)
	}
	return slices.DeleteFunc(items, func(it Item) bool {
		return !slices.Contains(CosmeticTypes, it.Type.BackendValue)
	}), nil
}

// ioSkippedGroups — группы FortniteApi.io, которые не являются косметикой.
var ioSkippedGroups = []string{"bannertoken", "bundle", "cosmeticvariant"}

// flattenIOGroups склеивает {"outfit": [...], "emote": [...]} в один массив.
func flattenIOGroups(groups map[string]json.RawMessage) ([]byte, error) {
	var all []json.RawMessage
	for k, v := range groups {
		if slices.Contains(ioSkippedGroups, k) {
			continue
		}
		var part []json.RawMessage
		if err := json.Unmarshal(v, &part); err != nil {
			return nil, fmt.Errorf("group %s: %w", k, err)
		}
		all = append(all, part...)
	}
	if all == nil {
		all = []json.RawMessage{}
	}
	return json.Marshal(all)
}

type rawPlaylist struct {
	ID   string  `json:"id"`
	Name *string `json:"name"`
}

// FormatPlaylists — сортировка по id; у FortniteApi.io id получает префикс Playlist_.
func FormatPlaylists(p Provider, data []byte) ([]Playlist, error) {
	var raw []rawPlaylist
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode %s playlists: %w", p, err)
	}
	sort.SliceStable(raw, func(i, j int) bool { return raw[i].ID < raw[j].ID })
	out := make([]Playlist, 0, len(raw))
	for _, r := range raw {
		id := r.ID
		if p == FortniteAPIIO {
			id = "Playlist_" + id
		}
		out = append(out, Playlist{ID: id, Name: deref(r.Name)})
	}
	return out, nil
}

const benbotBannerPrefix = "FortniteGame/Content/Items/BannerIcons/"

// benbotBanners: пути ассетов → id баннера и ссылка на иконку.
func benbotBanners(host string, paths []string) map[string]string {
	out := make(map[string]string, len(paths))
	for _, p := range paths {
		id := strings.TrimSuffix(strings.TrimPrefix(p, benbotBannerPrefix), ".uasset")
		out[id] = fmt.Sprintf("%s/api/v1/exportAsset?path=%s&rawIcon=true", host, p)
	}
	return out
}
