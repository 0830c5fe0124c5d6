package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

var (
	// StudyColor is the accent used for primary controls.
	StudyColor = color.NRGBA{R: 0x2e, G: 0x9e, B: 0x6b, A: 0xff}
	// BackgroundColor is the window background.
	BackgroundColor = color.NRGBA{R: 0x1e, G: 0x1e, B: 0x1e, A: 0xff}
)

// CustomTheme keeps the default theme but applies the application palette.
type CustomTheme struct {
	fyne.Theme
}

// NewCustomTheme creates a new instance of the custom theme.
func NewCustomTheme() fyne.Theme {
	return &CustomTheme{Theme: theme.DefaultTheme()}
}

// Color returns the palette color for name, always in the dark variant.
func (t *CustomTheme) Color(name fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNamePrimary, theme.ColorNameFocus:
		return StudyColor
	case theme.ColorNameBackground:
		return BackgroundColor
	}
	return t.Theme.Color(name, theme.VariantDark)
}
