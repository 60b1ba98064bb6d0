package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Hosts — базовые адреса провайдеров; в тестах подменяются на httptest.
type Hosts struct {
	BenBot        string
	FortniteAPI   string
	FortniteAPIIO string
}

var DefaultHosts = Hosts{
	BenBot:        "https://benbotfn.tk",
	FortniteAPI:   "https://fortnite-api.com",
	FortniteAPIIO: "https://fortniteapi.io",
}

// Client ходит к одному провайдеру и отдаёт уже отформатированные данные.
type Client struct {
	http     *http.Client
	provider Provider
	apiKey   string

	Hosts Hosts
}

func NewClient(provider Provider, apiKey string) *Client {
	return &Client{
		http:     &http.Client{Timeout: 10 * time.Second},
		provider: provider,
		apiKey:   apiKey,
		Hosts:    DefaultHosts,
	}
}

func (c *Client) Provider() Provider { return c.provider }

func (c *Client) Items(ctx context.Context, lang string) ([]Item, error) {
	switch c.provider {
	case BenBot:
		b, err := c.get(ctx, c.Hosts.BenBot+"/api/v1/cosmetics/br", url.Values{"lang": {lang}})
		if err != nil {
			return nil, err
		}
		return FormatItems(c.provider, b)
	case FortniteAPI:
		var resp struct {
			Data json.RawMessage `json:"data"`
		}
		if err := c.getJSON(ctx, c.Hosts.FortniteAPI+"/v2/cosmetics/br", url.Values{"language": {lang}}, &resp); err != nil {
			return nil, err
		}
		return FormatItems(c.provider, resp.Data)
	case FortniteAPIIO:
		var resp struct {
			Items map[string]json.RawMessage `json:"items"`
		}
		if err := c.getJSON(ctx, c.Hosts.FortniteAPIIO+"/v1/items/list", url.Values{"lang": {lang}}, &resp); err != nil {
			return nil, err
		}
		flat, err := flattenIOGroups(resp.Items)
		if err != nil {
			return nil, err
		}
		return FormatItems(c.provider, flat)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, c.provider)
}

func (c *Client) NewItems(ctx context.Context, lang string) ([]Item, error) {
	switch c.provider {
	case BenBot:
		b, err := c.get(ctx, c.Hosts.BenBot+"/api/v1/newCosmetics", url.Values{"lang": {lang}})
		if err != nil {
			return nil, err
		}
		return FormatItems(c.provider, b)
	case FortniteAPI:
		var resp struct {
			Data struct {
				Items json.RawMessage `json:"items"`
			} `json:"data"`
		}
		if err := c.getJSON(ctx, c.Hosts.FortniteAPI+"/v2/cosmetics/br/new", url.Values{"language": {lang}}, &resp); err != nil {
			return nil, err
		}
		return FormatItems(c.provider, resp.Data.Items)
	case FortniteAPIIO:
		var resp struct {
			Items json.RawMessage `json:"items"`
		}
		if err := c.getJSON(ctx, c.Hosts.FortniteAPIIO+"/v1/items/upcoming", url.Values{"lang": {lang}}, &resp); err != nil {
			return nil, err
		}
		return FormatItems(c.provider, resp.Items)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, c.provider)
}

// Playlists: у BenBot плейлистов нет, возвращается пустой список.
func (c *Client) Playlists(ctx context.Context, lang string) ([]Playlist, error) {
	switch c.provider {
	case BenBot:
		return []Playlist{}, nil
	case FortniteAPI:
		var resp struct {
			Data json.RawMessage `json:"data"`
		}
		if err := c.getJSON(ctx, c.Hosts.FortniteAPI+"/v1/playlists", url.Values{"lang": {lang}}, &resp); err != nil {
			return nil, err
		}
		return FormatPlaylists(c.provider, resp.Data)
	case FortniteAPIIO:
		var resp struct {
			Modes json.RawMessage `json:"modes"`
		}
		if err := c.getJSON(ctx, c.Hosts.FortniteAPIIO+"/v1/game/modes", url.Values{"lang": {lang}}, &resp); err != nil {
			return nil, err
		}
		return FormatPlaylists(c.provider, resp.Modes)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, c.provider)
}

// Banners — id баннера → ссылка на иконку.
func (c *Client) Banners(ctx context.Context) (map[string]string, error) {
	switch c.provider {
	case BenBot:
		var paths []string
		params := url.Values{"matchMethod": {"starts"}, "path": {benbotBannerPrefix}}
		if err := c.getJSON(ctx, c.Hosts.BenBot+"/api/v1/files/search", params, &paths); err != nil {
			return nil, err
		}
		return benbotBanners(c.Hosts.BenBot, paths), nil
	case FortniteAPI:
		var resp struct {
			Data []struct {
				ID     string `json:"id"`
				Images struct {
					Icon string `json:"icon"`
				} `json:"images"`
			} `json:"data"`
		}
		if err := c.getJSON(ctx, c.Hosts.FortniteAPI+"/v1/banners", nil, &resp); err != nil {
			return nil, err
		}
		out := make(map[string]string, len(resp.Data))
		for _, b := range resp.Data {
			out[b.ID] = b.Images.Icon
		}
		return out, nil
	case FortniteAPIIO:
		return map[string]string{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, c.provider)
}

func (c *Client) getJSON(ctx context.Context, endpoint string, params url.Values, out any) error {
	b, err := c.get(ctx, endpoint, params)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("decode %s: %w", endpoint, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	u := endpoint
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.provider == FortniteAPIIO {
		req.Header.Set("Authorization", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("%s %s: status %d", c.provider, endpoint, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
