// Package colour provides the colour value types shared by the bead pattern engine.
package colour

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// RGB represents an opaque colour in 8-bit RGB format.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// RGBA represents a colour with an 8-bit non-premultiplied alpha channel.
type RGBA struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

// Transparent is the fully transparent sample.
var Transparent = RGBA{}

// String returns the RGB colour as a string in the format "rgb(r, g, b)".
func (rgb RGB) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", rgb.R, rgb.G, rgb.B)
}

// Hex returns the normalised lookup form of the colour (e.g., "#1A2B3C").
func (rgb RGB) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", rgb.R, rgb.G, rgb.B)
}

// RGBA returns the colour with full opacity.
func (rgb RGB) RGBA() RGBA {
	return RGBA{R: rgb.R, G: rgb.G, B: rgb.B, A: 255}
}

// Color converts the colour to the standard library representation.
func (rgb RGB) Color() color.NRGBA {
	return color.NRGBA{R: rgb.R, G: rgb.G, B: rgb.B, A: 255}
}

// RGB drops the alpha channel.
func (c RGBA) RGB() RGB {
	return RGB{R: c.R, G: c.G, B: c.B}
}

// IsTransparent reports whether the sample has no opacity at all.
func (c RGBA) IsTransparent() bool {
	return c.A == 0
}

// ToRGB converts a color.Color to RGB, un-premultiplying alpha where needed.
func ToRGB(c color.Color) RGB {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return RGB{R: n.R, G: n.G, B: n.B}
}

// NormaliseHex folds a hex colour string into the "#RRGGBB" uppercase form.
// Accepted inputs are "RRGGBB", "#RRGGBB", "#RGB" and "RGB", with surrounding
// whitespace and any letter case. The boolean is false when the input cannot
// be resolved to a colour.
func NormaliseHex(s string) (string, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "#")
	s = strings.ToUpper(s)

	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return "", false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'A' || c > 'F') {
			return "", false
		}
	}
	return "#" + s, true
}

// ParseHex parses a hex colour string in any form accepted by NormaliseHex.
func ParseHex(s string) (RGB, error) {
	norm, ok := NormaliseHex(s)
	if !ok {
		return RGB{}, fmt.Errorf("invalid hex colour: %q", s)
	}

	c, err := colorful.Hex(strings.ToLower(norm))
	if err != nil {
		return RGB{}, fmt.Errorf("invalid hex colour %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return RGB{R: r, G: g, B: b}, nil
}

// MustParseHex is like ParseHex but panics on malformed input.
// It is intended for colour literals in tables and tests.
func MustParseHex(s string) RGB {
	rgb, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return rgb
}

// DistanceSq returns the squared Euclidean distance between two colours in RGB space.
func DistanceSq(a, b RGB) int {
	dr := int(a.R) - int(b.R)
	dg := int(a.G) - int(b.G)
	db := int(a.B) - int(b.B)
	return dr*dr + dg*dg + db*db
}

// Distance returns the Euclidean distance between two colours in RGB space.
// The result lies in [0, ~441.67].
func Distance(a, b RGB) float64 {
	return math.Sqrt(float64(DistanceSq(a, b)))
}
