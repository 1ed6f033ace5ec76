package card

import (
	"html/template"
	"strings"
)

const (
	ThemeLight = "light"
	ThemeDark  = "dark"
	ThemeAuto  = "auto"
)

// Palette is the fixed colour table applied to every card element.
type Palette struct {
	Bg            template.CSS
	BgHover       template.CSS
	Border        template.CSS
	Text          template.CSS
	TextSecondary template.CSS
	Link          template.CSS
	Red           template.CSS
	Blue          template.CSS
}

var lightPalette = Palette{
	Bg:            "#fff",
	BgHover:       "rgb(247,249,249)",
	Border:        "rgb(207,217,222)",
	Text:          "rgb(15,20,25)",
	TextSecondary: "rgb(83,100,113)",
	Link:          "rgb(29,155,240)",
	Red:           "rgb(249,24,128)",
	Blue:          "rgb(29,155,240)",
}

var darkPalette = Palette{
	Bg:            "rgb(21,32,43)",
	BgHover:       "rgb(30,39,50)",
	Border:        "rgb(66,83,100)",
	Text:          "rgb(247,249,249)",
	TextSecondary: "rgb(139,152,165)",
	Link:          "rgb(107,201,251)",
	Red:           "rgb(249,24,128)",
	Blue:          "rgb(29,155,240)",
}

// PaletteFor returns the dark palette for "dark" and the light palette for
// anything else. "auto" is left to the host page.
func PaletteFor(theme string) Palette {
	if strings.EqualFold(strings.TrimSpace(theme), ThemeDark) {
		return darkPalette
	}
	return lightPalette
}
