package layout

import (
	"fmt"
	"strings"
)

// Font selects one of the fixed presentation variants.
type Font int

const (
	FontOric Font = iota
	FontKC854
	FontZ1013
	fontCount
)

var fontNames = [fontCount]string{"oric", "kc854", "z1013"}

// String returns the font's name.
func (f Font) String() string {
	if f < 0 || f >= fontCount {
		return fmt.Sprintf("font(%d)", int(f))
	}
	return fontNames[f]
}

// Next steps through the variants, wrapping around in both directions.
// Any step, negative or larger than the set, yields a valid font.
func (f Font) Next(step int) Font {
	n := int(fontCount)
	return Font(((int(f)+step)%n + n) % n)
}

// Fonts lists every variant in order.
func Fonts() []Font {
	out := make([]Font, fontCount)
	for i := range out {
		out[i] = Font(i)
	}
	return out
}

// ParseFont resolves a font by name, case-insensitively.
func ParseFont(s string) (Font, error) {
	for i, name := range fontNames {
		if strings.EqualFold(s, name) {
			return Font(i), nil
		}
	}
	return FontOric, fmt.Errorf("unknown font %q: must be one of %s", s, strings.Join(fontNames[:], ", "))
}
