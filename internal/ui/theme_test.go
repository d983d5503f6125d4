package ui

import (
	"image/color"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

func TestBrandTheme_Color(t *testing.T) {
	th := NewBrandTheme()

	tests := []struct {
		name     fyne.ThemeColorName
		variant  fyne.ThemeVariant
		expected color.Color
	}{
		{theme.ColorNamePrimary, theme.VariantLight, BrandRed},
		{theme.ColorNamePrimary, theme.VariantDark, BrandRedDark},
		{theme.ColorNamePressed, theme.VariantLight, color.NRGBA{R: 0x99, A: 0x66}},
		{theme.ColorNameInputBackground, theme.VariantLight, color.NRGBA{R: 0xF0, G: 0xF0, B: 0xF0, A: 0xFF}},
		{theme.ColorNameBackground, theme.VariantDark, color.NRGBA{R: 0x12, G: 0x12, B: 0x12, A: 0xFF}},
		{theme.ColorNameForeground, theme.VariantLight, theme.DefaultTheme().Color(theme.ColorNameForeground, theme.VariantLight)},
		{theme.ColorNameForeground, theme.VariantDark, theme.DefaultTheme().Color(theme.ColorNameForeground, theme.VariantDark)},
	}

	for _, test := range tests {
		if got := th.Color(test.name, test.variant); got != test.expected {
			t.Errorf("Color(%s, %d) = %v, expected %v", test.name, test.variant, got, test.expected)
		}
	}
}

func TestBrandTheme_Size(t *testing.T) {
	th := NewBrandTheme()

	if got := th.Size(theme.SizeNameHeadingText); got != 20 {
		t.Errorf("heading size = %v, expected 20", got)
	}
	if got, def := th.Size(theme.SizeNamePadding), theme.DefaultTheme().Size(theme.SizeNamePadding); got != def {
		t.Errorf("padding = %v, expected default %v", got, def)
	}
}
