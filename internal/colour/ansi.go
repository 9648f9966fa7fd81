package colour

import (
	"fmt"
	"strings"
)

// ANSI escape codes for terminal colours.
const (
	ansiReset    = "\033[0m"
	ansiFgPrefix = "\033[38;2;"
	ansiBgPrefix = "\033[48;2;"
	ansiSuffix   = "m"
	defaultWidth = 2
)

// Block returns an ANSI-coloured block for a colour.
// Width specifies how many characters wide the block should be.
func Block(c RGB, width int) string {
	if width <= 0 {
		width = defaultWidth
	}

	bg := fmt.Sprintf("%s%d;%d;%d%s", ansiBgPrefix, c.R, c.G, c.B, ansiSuffix)
	return bg + strings.Repeat(" ", width) + ansiReset
}

// BlockWithText returns a colour block with centred text drawn over it.
// The text colour is black or white, whichever contrasts with the background.
func BlockWithText(c RGB, text string, width int) string {
	if width <= 0 {
		width = defaultWidth
	}

	var fg RGB
	if Luminance(c) <= 0.5 {
		fg = RGB{R: 255, G: 255, B: 255}
	}

	bg := fmt.Sprintf("%s%d;%d;%d%s", ansiBgPrefix, c.R, c.G, c.B, ansiSuffix)
	fgSeq := fmt.Sprintf("%s%d;%d;%d%s", ansiFgPrefix, fg.R, fg.G, fg.B, ansiSuffix)

	display := text
	if len(text) > width {
		display = text[:width]
	} else if len(text) < width {
		padding := (width - len(text)) / 2
		display = strings.Repeat(" ", padding) + text + strings.Repeat(" ", width-len(text)-padding)
	}

	return bg + fgSeq + display + ansiReset
}
