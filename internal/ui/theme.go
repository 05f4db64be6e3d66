// Package ui draws pipeline frames and chrome (status bar, compass,
// help overlay) onto a tcell screen.
package ui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// Theme holds the fixed styles for everything that is not map imagery.
type Theme struct {
	Map       tcell.Style
	Status    tcell.Style
	Compass   tcell.Style
	Help      tcell.Style
	Crosshair tcell.Style
}

// DefaultTheme derives the chrome palette from a single accent hue so
// the bar, compass and overlay stay visually related.
func DefaultTheme() *Theme {
	const accentHue = 145.0 // green, matches the classic phosphor look

	accent := colorful.Hsl(accentHue, 0.9, 0.55)
	barBg := colorful.Hsl(accentHue, 0.25, 0.14)
	helpBg := colorful.Hsl(accentHue, 0.15, 0.10)

	return &Theme{
		Map:       tcell.StyleDefault.Background(tcell.ColorBlack),
		Status:    tcell.StyleDefault.Foreground(toTcell(accent)).Background(toTcell(barBg)),
		Compass:   tcell.StyleDefault.Foreground(toTcell(accent)).Background(toTcell(barBg)).Bold(true),
		Help:      tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(toTcell(helpBg)),
		Crosshair: tcell.StyleDefault.Foreground(toTcell(accent)).Bold(true),
	}
}

func toTcell(c colorful.Color) tcell.Color {
	r, g, b := c.Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}
