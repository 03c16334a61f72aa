package gamedata

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
)

// Palette maps colour tags used by entity definitions and log messages to hex codes.
var Palette = map[string]string{
	"default":   "#E0E0E0",
	"white":     "#FFFFFF",
	"gray":      "#808080",
	"dark_gray": "#404040",
	"wall":      "#6E6E6E",
	"floor":     "#3A3A3A",
	"player":    "#FFD75F",
	"door":      "#A0522D",
	"dark_red":  "#8B0000",
	"red":       "#D75F5F",
	"green":     "#5FAF5F",
	"yellow":    "#D7D75F",
	"blue":      "#5F87D7",
	"cyan":      "#5FD7D7",
	"purple":    "#AF5FD7",
	"brown":     "#8B5A2B",
}

// HexColor resolves a palette tag or hex code to a "#RRGGBB" string.
// Unknown tags resolve to the default colour.
func HexColor(tag string) string {
	if hex, ok := Palette[strings.ToLower(tag)]; ok {
		return hex
	}
	if _, err := ParseHexColor(tag); err == nil {
		return "#" + strings.ToUpper(strings.TrimPrefix(tag, "#"))
	}
	return Palette["default"]
}

// Color resolves a palette tag or hex code to a tcell.Color.
func Color(tag string) tcell.Color {
	color, err := ParseHexColor(HexColor(tag))
	if err != nil {
		return tcell.ColorWhite // fallback
	}
	return color
}

// ParseHexColor converts a hex color string (e.g., "#FF0000" or "FF0000") to a tcell.Color.
func ParseHexColor(hex string) (tcell.Color, error) {
	// Remove leading # if present
	hex = strings.TrimPrefix(hex, "#")

	if len(hex) != 6 {
		return tcell.ColorDefault, fmt.Errorf("invalid hex color length: %s", hex)
	}

	rgb, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return tcell.ColorDefault, fmt.Errorf("invalid hex color %s: %w", hex, err)
	}

	return tcell.NewHexColor(int32(rgb)), nil
}
