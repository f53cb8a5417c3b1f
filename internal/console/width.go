package console

import (
	"strings"

	"golang.org/x/text/width"
)

// displayWidth counts terminal columns, two for wide East Asian runes.
func displayWidth(s string) int {
	n := 0
	for _, r := range s {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			n += 2
		default:
			n++
		}
	}
	return n
}

func pad(s string, cols int) string {
	if w := displayWidth(s); w < cols {
		return s + strings.Repeat(" ", cols-w)
	}
	return s
}
