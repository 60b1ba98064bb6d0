package catalog

import (
	"fmt"
	"regexp"
	"strings"
)

// BackendToAPI — backendType → короткий тип API.
var BackendToAPI = map[string]string{
	"AthenaBackpack":        "backpack",
	"AthenaPickaxe":         "pickaxe",
	"AthenaItemWrap":        "wrap",
	"AthenaGlider":          "glider",
	"AthenaCharacter":       "outfit",
	"AthenaPet":             "pet",
	"AthenaMusicPack":       "music",
	"AthenaLoadingScreen":   "loadingscreen",
	"AthenaDance":           "emote",
	"AthenaSpray":           "spray",
	"AthenaEmoji":           "emoji",
	"AthenaSkyDiveContrail": "contrail",
	"AthenaPetCarrier":      "petcarrier",
	"AthenaToy":             "toy",
	"AthenaConsumableEmote": "consumableemote",
	"AthenaBattleBus":       "battlebus",
	"AthenaVictoryPose":     "ridethepony",
	"BannerToken":           "banner",
}

// APIToBackend — обратная к BackendToAPI.
var APIToBackend = func() map[string]string {
	m := make(map[string]string, len(BackendToAPI))
	for k, v := range BackendToAPI {
		m[v] = k
	}
	return m
}()

// BackendToKey — backendType → ключ слота в конфиге клиента.
var BackendToKey = map[string]string{
	"AthenaBackpack":        "backpack",
	"AthenaPickaxe":         "pickaxe",
	"AthenaItemWrap":        "wrap",
	"AthenaGlider":          "glider",
	"AthenaCharacter":       "outfit",
	"AthenaPet":             "backpack",
	"AthenaMusicPack":       "music",
	"AthenaLoadingScreen":   "loadingscreen",
	"AthenaDance":           "emote",
	"AthenaSpray":           "emote",
	"AthenaEmoji":           "emote",
	"AthenaSkyDiveContrail": "contrail",
	"AthenaPetCarrier":      "backpack",
	"AthenaToy":             "emote",
	"AthenaConsumableEmote": "emote",
	"AthenaBattleBus":       "battlebus",
	"AthenaVictoryPose":     "emote",
	"BannerToken":           "banner",
}

// BackendToID — backendType → префикс id предмета (CID_, BID_, ...).
var BackendToID = map[string]string{
	"AthenaCharacter":       "CID",
	"AthenaBackpack":        "BID",
	"AthenaPetCarrier":      "PetCarrier",
	"AthenaPet":             "PetID",
	"AthenaPickaxe":         "Pickaxe_ID",
	"AthenaDance":           "EID",
	"AthenaEmoji":           "Emoji",
	"AthenaToy":             "Toy",
	"AthenaConsumableEmote": "EID",
}

// BackendByIDPrefix возвращает backendType по id вида "cid_028".
func BackendByIDPrefix(id string) (string, bool) {
	lower := strings.ToLower(id)
	for backend, prefix := range BackendToID {
		if backend == "AthenaConsumableEmote" {
			continue
		}
		if strings.HasPrefix(lower, strings.ToLower(prefix)+"_") {
			return backend, true
		}
	}
	return "", false
}

var (
	itemPattern     = regexp.MustCompile(`^<Item name='(?P<name>.+)' id='(?P<id>.+)'>`)
	playlistPattern = regexp.MustCompile(`^<Playlist name='(?P<name>.+)' id='(?P<id>.+)'>`)
	variantPattern  = regexp.MustCompile(`^<Variant name='(?P<name>.+)' channel='(?P<channel>.+)' tag='(?P<tag>.+)'>`)
)

// ItemString — запись предмета в конфиге после разрешения по имени.
func ItemString(it Item) string {
	return fmt.Sprintf("<Item name='%s' id='%s'>", it.Name, it.ID)
}

func PlaylistString(p Playlist) string {
	return fmt.Sprintf("<Playlist name='%s' id='%s'>", p.Name, p.ID)
}

func VariantString(v Variant) string {
	return fmt.Sprintf("<Variant name='%s' channel='%s' tag='%s'>", v.Name, v.Channel, v.Tag)
}

// ConfigItemID — id из строки <Item ...>, ok=false если это не такая строка.
func ConfigItemID(s string) (string, bool) {
	m := itemPattern.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	return m[itemPattern.SubexpIndex("id")], true
}

func ConfigPlaylistID(s string) (string, bool) {
	m := playlistPattern.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	return m[playlistPattern.SubexpIndex("id")], true
}

func ConfigVariant(s string) (Variant, bool) {
	m := variantPattern.FindStringSubmatch(s)
	if m == nil {
		return Variant{}, false
	}
	return Variant{
		Name:    m[variantPattern.SubexpIndex("name")],
		Channel: m[variantPattern.SubexpIndex("channel")],
		Tag:     m[variantPattern.SubexpIndex("tag")],
	}, true
}
