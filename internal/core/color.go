package core

import (
	"strconv"
	"strings"
)

// Color is a foreground color for a screen cell, indexed into a small
// ANSI palette the platform knows how to style.
type Color uint8

const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightWhite
	ColorOrange
	ColorGray
)

// paletteRGB holds approximate RGB values for each palette entry, used to map
// catalog hex colors (skins, ranks, boosters) onto the terminal palette.
var paletteRGB = map[Color][3]int{
	ColorRed:           {192, 57, 43},
	ColorGreen:         {39, 174, 96},
	ColorYellow:        {241, 196, 15},
	ColorBlue:          {41, 128, 185},
	ColorMagenta:       {142, 68, 173},
	ColorCyan:          {22, 160, 133},
	ColorWhite:         {200, 200, 200},
	ColorBrightRed:     {231, 76, 60},
	ColorBrightGreen:   {46, 204, 64},
	ColorBrightYellow:  {255, 215, 0},
	ColorBrightBlue:    {52, 152, 219},
	ColorBrightMagenta: {232, 67, 147},
	ColorBrightCyan:    {0, 206, 201},
	ColorBrightWhite:   {255, 255, 255},
	ColorOrange:        {230, 126, 34},
	ColorGray:          {127, 140, 141},
}

// ColorFromHex maps a "#rrggbb" string to the nearest palette color.
// Malformed input yields ColorDefault.
func ColorFromHex(hex string) Color {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return ColorDefault
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return ColorDefault
	}
	r, g, b := int(v>>16&0xff), int(v>>8&0xff), int(v&0xff)

	best := ColorDefault
	bestDist := -1
	// iterate in palette order so ties resolve deterministically
	for c := ColorRed; c <= ColorGray; c++ {
		rgb := paletteRGB[c]
		dr, dg, db := r-rgb[0], g-rgb[1], b-rgb[2]
		d := dr*dr + dg*dg + db*db
		if bestDist < 0 || d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}
