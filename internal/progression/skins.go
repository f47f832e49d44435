package progression

import (
	"errors"
	"strings"
)

// Rarity grades skins and achievements.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// DefaultSkinColor is the free skin every player owns.
const DefaultSkinColor = "#2ecc40"

// Skin is a cosmetic snake color sold for stars.
type Skin struct {
	Color  string `json:"color"`
	Name   string `json:"name"`
	Price  int    `json:"price"`
	Rarity Rarity `json:"rarity"`
}

// Free reports whether the skin costs nothing.
func (s Skin) Free() bool {
	return s.Price == 0
}

// Skins is the static shop catalog. Classic is the only free entry.
var Skins = []Skin{
	{Color: DefaultSkinColor, Name: "Classic", Price: 0, Rarity: RarityCommon},
	{Color: "#e67e22", Name: "Orange", Price: 50, Rarity: RarityCommon},
	{Color: "#9b59b6", Name: "Purple", Price: 75, Rarity: RarityRare},
	{Color: "#3498db", Name: "Blue", Price: 50, Rarity: RarityCommon},
	{Color: "#f1c40f", Name: "Gold", Price: 100, Rarity: RarityRare},
	{Color: "#e84393", Name: "Pink", Price: 60, Rarity: RarityCommon},
	{Color: "#1abc9c", Name: "Turquoise", Price: 80, Rarity: RarityRare},
	{Color: "#e74c3c", Name: "Red", Price: 40, Rarity: RarityCommon},
	{Color: "#16a085", Name: "Teal", Price: 70, Rarity: RarityRare},
	{Color: "#2c3e50", Name: "Midnight", Price: 90, Rarity: RarityEpic},
	{Color: "#c0392b", Name: "Crimson", Price: 85, Rarity: RarityRare},
	{Color: "#8e44ad", Name: "Wisteria", Price: 95, Rarity: RarityEpic},
	{Color: "#27ae60", Name: "Emerald", Price: 110, Rarity: RarityEpic},
	{Color: "#d35400", Name: "Pumpkin", Price: 65, Rarity: RarityCommon},
	{Color: "#7f8c8d", Name: "Silver", Price: 120, Rarity: RarityLegendary},
	{Color: "#00cec9", Name: "Cyan", Price: 75, Rarity: RarityRare},
	{Color: "#fd79a8", Name: "Magenta", Price: 80, Rarity: RarityRare},
	{Color: "#6c5ce7", Name: "Indigo", Price: 100, Rarity: RarityEpic},
}

// Skin shop errors.
var (
	ErrUnknownSkin    = errors.New("progression: skin not found")
	ErrSkinFree       = errors.New("progression: skin is free and already unlocked")
	ErrSkinOwned      = errors.New("progression: skin already owned")
	ErrNotEnoughStars = errors.New("progression: not enough stars")
	ErrSkinNotOwned   = errors.New("progression: skin not owned")
)

// SkinByColor looks up a catalog entry. Colors compare case-insensitively.
func SkinByColor(color string) (Skin, bool) {
	for _, s := range Skins {
		if strings.EqualFold(s.Color, color) {
			return s, true
		}
	}
	return Skin{}, false
}

// BuySkin spends stars on a catalog skin and adds it to the profile.
// The input profile is not modified.
func BuySkin(p PlayerProfile, color string) (PlayerProfile, error) {
	skin, ok := SkinByColor(color)
	if !ok {
		return p, ErrUnknownSkin
	}
	if skin.Free() {
		return p, ErrSkinFree
	}
	if p.Owns(skin.Color) {
		return p, ErrSkinOwned
	}
	if p.Stars < skin.Price {
		return p, ErrNotEnoughStars
	}

	out := p.clone()
	out.Stars -= skin.Price
	out.Skins = append(out.Skins, skin.Color)
	out.Stats.SkinsOwned = len(out.Skins)
	return out, nil
}

// SelectSkin makes an owned skin the active one.
func SelectSkin(p PlayerProfile, color string) (PlayerProfile, error) {
	skin, ok := SkinByColor(color)
	if !ok {
		return p, ErrUnknownSkin
	}
	if !p.Owns(skin.Color) {
		return p, ErrSkinNotOwned
	}
	out := p.clone()
	out.SelectedSkin = skin.Color
	return out, nil
}
