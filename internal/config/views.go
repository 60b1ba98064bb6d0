package config

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ohler55/ojg/oj"

	"github.com/EgorLis/lobbybot/internal/schema"
)

type Settings struct {
	Clients       []Client  `json:"clients"`
	Discord       Discord   `json:"discord"`
	Web           WebConfig `json:"web"`
	Lang          string    `json:"lang"`
	SearchLang    string    `json:"search_lang"`
	SubSearchLang string    `json:"sub_search_lang"`
	API           string    `json:"api"`
	APIKey        *string   `json:"api_key"`
	DiscordLog    *string   `json:"discord_log"`
	HideEmail     bool      `json:"hide_email"`
	HidePassword  bool      `json:"hide_password"`
	HideToken     bool      `json:"hide_token"`
	HideWebhook   bool      `json:"hide_webhook"`
	NoLogs        bool      `json:"no_logs"`
	LogLevel      string    `json:"loglevel"`
	Debug         bool      `json:"debug"`
}

type WebConfig struct {
	Enabled       bool   `json:"enabled"`
	IP            string `json:"ip"`
	Port          int    `json:"port"`
	Password      string `json:"password"`
	LoginRequired bool   `json:"login_required"`
	CommandWeb    bool   `json:"command_web"`
	AccessLog     bool   `json:"access_log"`
}

func (w WebConfig) Addr() string { return fmt.Sprintf("%s:%d", w.IP, w.Port) }

type Discord struct {
	Enabled          bool     `json:"enabled"`
	Token            string   `json:"token"`
	Owner            []int64  `json:"owner"`
	Channels         []string `json:"channels"`
	Status           string   `json:"status"`
	StatusType       string   `json:"status_type"`
	CommandEnableFor []string `json:"command_enable_for"`
	Blacklist        []int64  `json:"blacklist"`
	Whitelist        []int64  `json:"whitelist"`
}

// Client — одна запись clients[i].
type Client struct {
	Fortnite        Fortnite `json:"fortnite"`
	Discord         Discord  `json:"discord"`
	NGWords         []NGWord `json:"ng_words"`
	NGWordFor       []string `json:"ng_word_for"`
	NGWordOperation []string `json:"ng_word_operation"`
	RestartIn       *int     `json:"restart_in"`
	Lang            string   `json:"lang"`
	SearchMax       *int     `json:"search_max"`
	NoLogs          bool     `json:"no_logs"`
	DiscordLog      *string  `json:"discord_log"`
	OmitOver2000    bool     `json:"omit_over2000"`
	SkipIfOverflow  bool     `json:"skip_if_overflow"`
	CaseInsensitive bool     `json:"case_insensitive"`
	ConvertKanji    bool     `json:"convert_kanji"`
}

type NGWord struct {
	Count       int      `json:"count"`
	MatchMethod string   `json:"matchmethod"`
	Words       []string `json:"word"`
}

type Party struct {
	Privacy          string `json:"privacy"`
	MaxSize          int    `json:"max_size"`
	AllowSwap        bool   `json:"allow_swap"`
	Playlist         string `json:"playlist"`
	DisableVoiceChat bool   `json:"disable_voice_chat"`
}

type Exec struct {
	Ready []string `json:"ready"`
}

type Fortnite struct {
	Email string   `json:"email"`
	Owner []string `json:"owner"`

	Outfit          *string  `json:"outfit"`
	OutfitStyle     []string `json:"outfit_style"`
	NGOutfits       []string `json:"ng_outfits"`
	NGOutfitFor     []string `json:"ng_outfit_for"`
	NGOutfitOp      []string `json:"ng_outfit_operation"`
	OutfitMimicFor  []string `json:"outfit_mimic_for"`
	OutfitLockFor   []string `json:"outfit_lock_for"`
	Backpack        *string  `json:"backpack"`
	BackpackStyle   []string `json:"backpack_style"`
	NGBackpacks     []string `json:"ng_backpacks"`
	NGBackpackFor   []string `json:"ng_backpack_for"`
	NGBackpackOp    []string `json:"ng_backpack_operation"`
	BackpackLockFor []string `json:"backpack_lock_for"`
	Pickaxe         *string  `json:"pickaxe"`
	PickaxeStyle    []string `json:"pickaxe_style"`
	NGPickaxes      []string `json:"ng_pickaxes"`
	NGPickaxeFor    []string `json:"ng_pickaxe_for"`
	NGPickaxeOp     []string `json:"ng_pickaxe_operation"`
	PickaxeLockFor  []string `json:"pickaxe_lock_for"`
	Emote           string   `json:"emote"`
	EmoteSection    *int     `json:"emote_section"`
	NGEmotes        []string `json:"ng_emotes"`
	NGEmoteFor      []string `json:"ng_emote_for"`
	NGEmoteOp       []string `json:"ng_emote_operation"`
	EmoteLockFor    []string `json:"emote_lock_for"`

	LeaveDelayFor   float64 `json:"leave_delay_for"`
	RefreshOnReload bool    `json:"refresh_on_reload"`
	Party           Party   `json:"party"`

	AvatarID      *string  `json:"avatar_id"`
	AvatarColor   *string  `json:"avatar_color"`
	BannerID      string   `json:"banner_id"`
	BannerColor   string   `json:"banner_color"`
	Level         int      `json:"level"`
	Tier          int      `json:"tier"`
	Platform      string   `json:"platform"`
	NGPlatforms   []string `json:"ng_platforms"`
	NGPlatformFor []string `json:"ng_platform_for"`
	NGPlatformOp  []string `json:"ng_platform_operation"`
	Status        string   `json:"status"`

	AcceptInviteFor    []string   `json:"accept_invite_for"`
	DeclineInviteWhen  []string   `json:"decline_invite_when"`
	AcceptFriendFor    []string   `json:"accept_friend_for"`
	SendFriendRequest  bool       `json:"send_friend_request"`
	WhisperEnableFor   []string   `json:"whisper_enable_for"`
	PartyChatEnableFor []string   `json:"party_chat_enable_for"`
	AcceptJoinFor      []string   `json:"accept_join_for"`
	JoinMessage        []string   `json:"join_message"`
	RandomMessage      [][]string `json:"random_message"`
	ChatMax            int        `json:"chat_max"`
	HideFor            []string   `json:"hide_for"`

	Blacklist          []string `json:"blacklist"`
	BlacklistOperation []string `json:"blacklist_operation"`
	Whitelist          []string `json:"whitelist"`
	Invitelist         []string `json:"invitelist"`
	Botlist            []string `json:"botlist"`
	BotlistOperation   []string `json:"botlist_operation"`

	Exec Exec `json:"exec"`
}

// Commands — представление commands.json.
type Commands struct {
	WhitelistCommands []string `json:"whitelist_commands"`
	UserCommands      []string `json:"user_commands"`
	// Words — служебные слова (true, false, accept, ..., privacy).
	Words map[string][]string `json:"-"`
	// Aliases — имя команды → её вызовы в чате.
	Aliases map[string][]string `json:"commands"`
}

// Decode переносит значение документа в типизированную структуру.
func Decode(v any, out any) error {
	b, err := oj.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}

// Settings строит представление; документ с ошибками не декодируется.
func (d *Document) Settings() (*Settings, error) {
	if err := d.Err(); err != nil {
		return nil, err
	}
	var s Settings
	if err := Decode(d.Data, &s); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	return &s, nil
}

// Web читает только раздел web: дашборд должен подняться и с ошибками
// в остальном документе, чтобы их можно было исправить.
func (d *Document) Web() (WebConfig, error) {
	var w WebConfig
	for _, p := range d.Report.Errors() {
		if strings.HasPrefix(p, "['web']") {
			return w, fmt.Errorf("%w: %s", ErrInvalid, p)
		}
	}
	err := Decode(d.Data["web"], &w)
	return w, err
}

func (d *Document) Commands() (*Commands, error) {
	if err := d.Err(); err != nil {
		return nil, err
	}
	var c Commands
	if err := Decode(d.Data, &c); err != nil {
		return nil, fmt.Errorf("decode commands: %w", err)
	}
	c.Words = map[string][]string{}
	for _, w := range schema.CommandWords {
		if w == "whitelist_commands" || w == "user_commands" {
			continue
		}
		var words []string
		if err := Decode(d.Data[w], &words); err != nil {
			return nil, fmt.Errorf("decode %s: %w", w, err)
		}
		c.Words[w] = words
	}
	return &c, nil
}
