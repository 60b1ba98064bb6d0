package catalog

import (
	"errors"
	"fmt"
	"strings"
)

type Provider string

const (
	BenBot        Provider = "BenBot"
	FortniteAPI   Provider = "Fortnite-API"
	FortniteAPIIO Provider = "FortniteApi.io"
)

var ErrUnknownProvider = errors.New("catalog: unknown provider")

func ParseProvider(s string) (Provider, error) {
	for _, p := range []Provider{BenBot, FortniteAPI, FortniteAPIIO} {
		if strings.EqualFold(string(p), s) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownProvider, s)
}

type ItemType struct {
	Value        string `json:"value"`
	DisplayValue string `json:"displayValue"`
	BackendValue string `json:"backendValue"`
}

type Item struct {
	ID   string   `json:"id"`
	Name string   `json:"name"`
	Type ItemType `json:"type"`
	Set  *string  `json:"set"`
	// Variants == nil — стили неизвестны (FortniteApi.io их не отдаёт).
	Variants []Variant `json:"variants"`
}

// Variant — один стиль: канал и тег, которые уходят в мету участника.
type Variant struct {
	Name    string `json:"name"`
	Channel string `json:"channel"`
	Tag     string `json:"tag"`
}

type Playlist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CosmeticTypes — категории, которые остаются после форматирования.
var CosmeticTypes = []string{
	"AthenaCharacter",
	"AthenaBackpack",
	"AthenaPet",
	"AthenaPetCarrier",
	"AthenaPickaxe",
	"AthenaDance",
	"AthenaEmoji",
	"AthenaToy",
}
