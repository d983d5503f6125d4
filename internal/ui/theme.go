package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// Brand colors of the downloader
var (
	BrandRed        = color.NRGBA{R: 0xCC, G: 0x00, B: 0x00, A: 0xFF}
	BrandRedPressed = color.NRGBA{R: 0x99, G: 0x00, B: 0x00, A: 0xFF}
	BrandRedDark    = color.NRGBA{R: 0xE5, G: 0x39, B: 0x35, A: 0xFF}
)

// shade holds the light and dark variant of one theme color
type shade struct {
	light, dark color.Color
}

func same(c color.Color) shade {
	return shade{light: c, dark: c}
}

var palette = map[fyne.ThemeColorName]shade{
	theme.ColorNamePrimary:         {light: BrandRed, dark: BrandRedDark},
	theme.ColorNamePressed:         same(withAlpha(BrandRedPressed, 0x66)),
	theme.ColorNameHover:           same(withAlpha(BrandRed, 0x1F)),
	theme.ColorNameFocus:           same(withAlpha(BrandRed, 0x7F)),
	theme.ColorNameSelection:       same(withAlpha(BrandRed, 0x3F)),
	theme.ColorNameHyperlink:       {light: color.NRGBA{R: 0x19, G: 0x76, B: 0xD2, A: 0xFF}, dark: color.NRGBA{R: 0x64, G: 0xB5, B: 0xF6, A: 0xFF}},
	theme.ColorNameSuccess:         same(color.NRGBA{R: 0x2E, G: 0xA0, B: 0x43, A: 0xFF}),
	theme.ColorNameError:           {light: color.NRGBA{R: 0xB7, G: 0x1C, B: 0x1C, A: 0xFF}, dark: color.NRGBA{R: 0xEF, G: 0x53, B: 0x50, A: 0xFF}},
	theme.ColorNameBackground:      {light: color.NRGBA{R: 0xFA, G: 0xFA, B: 0xFA, A: 0xFF}, dark: color.NRGBA{R: 0x12, G: 0x12, B: 0x12, A: 0xFF}},
	theme.ColorNameInputBackground: {light: color.NRGBA{R: 0xF0, G: 0xF0, B: 0xF0, A: 0xFF}, dark: color.NRGBA{R: 0x2A, G: 0x2A, B: 0x2A, A: 0xFF}},
}

var sizes = map[fyne.ThemeSizeName]float32{
	theme.SizeNameHeadingText:     20,
	theme.SizeNameSubHeadingText:  16,
	theme.SizeNameInputRadius:     6,
	theme.SizeNameSelectionRadius: 4,
}

func withAlpha(c color.NRGBA, a uint8) color.NRGBA {
	c.A = a
	return c
}

// BrandTheme paints the default Fyne theme in the downloader's red
type BrandTheme struct{}

// NewBrandTheme creates the application theme
func NewBrandTheme() fyne.Theme {
	return &BrandTheme{}
}

// Color returns the brand color for name, falling back to the default theme
func (t *BrandTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	if s, ok := palette[name]; ok {
		if variant == theme.VariantDark {
			return s.dark
		}
		return s.light
	}
	return theme.DefaultTheme().Color(name, variant)
}

func (t *BrandTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *BrandTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

// Size enlarges headings and rounds inputs; everything else is the default
func (t *BrandTheme) Size(name fyne.ThemeSizeName) float32 {
	if s, ok := sizes[name]; ok {
		return s
	}
	return theme.DefaultTheme().Size(name)
}
