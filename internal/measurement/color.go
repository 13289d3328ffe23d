package measurement

import (
	"fmt"
	"image/color"
	"math/rand"
	"strconv"
	"strings"
)

// Color is a "#rrggbb" string shared by a pair's markers and segment
type Color string

// fallbackGray is drawn for colors that do not parse
var fallbackGray = color.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}

// RandomColor returns a uniformly random opaque color
func RandomColor() Color {
	return Color(fmt.Sprintf("#%06x", rand.Intn(0xffffff)))
}

// NRGBA parses the color; ok is false for anything but "#rrggbb"
func (c Color) NRGBA() (color.NRGBA, bool) {
	s := string(c)
	if len(s) != 7 || !strings.HasPrefix(s, "#") {
		return fallbackGray, false
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return fallbackGray, false
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, true
}

// Valid reports whether c is a "#rrggbb" color
func (c Color) Valid() bool {
	_, ok := c.NRGBA()
	return ok
}

// RGBA implements color.Color
func (c Color) RGBA() (r, g, b, a uint32) {
	n, _ := c.NRGBA()
	return n.RGBA()
}
