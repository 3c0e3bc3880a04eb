package printers

import (
	"fmt"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/termenv"
	"github.com/shopspring/decimal"
)

// Money renders an amount as dollars with thousands separators and cents.
func Money(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return fmt.Sprintf("$%v", amount)
	}
	fixed := decimal.NewFromFloat(amount).StringFixed(2)
	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign, fixed = "-", fixed[1:]
	}
	whole, cents, _ := strings.Cut(fixed, ".")
	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + "$" + b.String() + "." + cents
}

// Grams renders a weight, dropping the decimal for whole grams.
func Grams(g float64) string {
	if g == math.Trunc(g) && !math.IsInf(g, 0) {
		return fmt.Sprintf("%d g", int64(g))
	}
	return fmt.Sprintf("%.1f g", g)
}

// PerGram renders a price per gram with the precision small unit prices need.
func PerGram(p float64) string {
	return fmt.Sprintf("%.4f", p)
}

var namedColors = map[string]string{
	"black":  "#1a1a1a",
	"white":  "#f5f5f5",
	"grey":   "#808080",
	"gray":   "#808080",
	"silver": "#c0c0c0",
	"red":    "#d32f2f",
	"orange": "#f57c00",
	"yellow": "#fbc02d",
	"gold":   "#d4af37",
	"green":  "#388e3c",
	"blue":   "#1976d2",
	"navy":   "#1a237e",
	"purple": "#7b1fa2",
	"pink":   "#e91e63",
	"brown":  "#6d4c41",
	"beige":  "#d7ccc8",
	"cyan":   "#00bcd4",
	"teal":   "#00897b",
}

// ColorHex resolves a roll color to a hex code. Hex codes are accepted as
// written, otherwise the last word naming a known color wins ("Galaxy
// Black" is black).
func ColorHex(name string) (string, bool) {
	name = strings.TrimSpace(name)
	if c, err := colorful.Hex(name); err == nil {
		return c.Hex(), true
	}
	words := strings.Fields(strings.ToLower(name))
	for i := len(words) - 1; i >= 0; i-- {
		if hex, ok := namedColors[words[i]]; ok {
			c, _ := colorful.Hex(hex)
			return c.Hex(), true
		}
	}
	return "", false
}

// profile is the color support of stdout.
var profile = termenv.ColorProfile()

// Swatch is a colored dot for a roll color, or a blank of the same width
// when the color is unknown or the terminal has no colors.
func Swatch(name string) string {
	hex, ok := ColorHex(name)
	if !ok || profile == termenv.Ascii {
		return " "
	}
	return termenv.String("●").Foreground(profile.Color(hex)).String()
}
