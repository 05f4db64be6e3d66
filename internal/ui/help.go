package ui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

var helpLines = []string{
	" Key bindings ",
	"",
	"  ↑ ↓ ← → / h j k l   pan",
	"  + / -               zoom in / out",
	"  m                   cycle render mode",
	"  p                   cycle glyph palette",
	"  c                   toggle color",
	"  x                   toggle crosshair",
	"  ?                   toggle this help",
	"  q / Esc             quit",
	"",
	"  The compass shows the last pan direction.",
	"  The status bar shows position and render time.",
}

// DrawHelp paints the help overlay centered in the region.
func DrawHelp(screen tcell.Screen, r Rect, theme *Theme) {
	boxW := 0
	for _, l := range helpLines {
		if w := runewidth.StringWidth(l); w > boxW {
			boxW = w
		}
	}
	boxW += 4
	boxH := len(helpLines) + 2
	if boxW > r.W {
		boxW = r.W
	}
	if boxH > r.H {
		boxH = r.H
	}

	x0 := r.X + (r.W-boxW)/2
	y0 := r.Y + (r.H-boxH)/2

	for y := 0; y < boxH; y++ {
		for x := 0; x < boxW; x++ {
			screen.SetContent(x0+x, y0+y, ' ', nil, theme.Help)
		}
	}
	for i, l := range helpLines {
		if i+1 >= boxH {
			break
		}
		drawText(screen, x0+2, y0+1+i, runewidth.Truncate(l, boxW-4, ""), theme.Help)
	}
}
