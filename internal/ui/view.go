package ui

import (
	"github.com/gdamore/tcell/v2"

	"termatlas/internal/pipeline"
	"termatlas/internal/render"
)

// Rect is a cell-addressed screen region.
type Rect struct {
	X, Y, W, H int
}

type cell struct {
	ch rune
	st render.Style
}

// BlitFrame paints a rendered frame into the region. When the frame's
// cell dimensions do not match the region (a stale frame shown while a
// resized job is in flight) rows and columns are sampled nearest so the
// old imagery stretches or shrinks instead of flashing blank.
func BlitFrame(screen tcell.Screen, f *pipeline.Frame, r Rect, theme *Theme) {
	if f == nil || f.CellW <= 0 || f.CellH <= 0 || r.W <= 0 || r.H <= 0 {
		fillRegion(screen, r, theme.Map)
		return
	}

	grid := flattenRows(f.Rows, f.CellW)
	if len(grid) == 0 {
		fillRegion(screen, r, theme.Map)
		return
	}

	for y := 0; y < r.H; y++ {
		fy := y * f.CellH / r.H
		if fy >= len(grid) {
			fy = len(grid) - 1
		}
		row := grid[fy]
		for x := 0; x < r.W; x++ {
			fx := x * f.CellW / r.W
			c := cell{ch: ' '}
			if fx < len(row) {
				c = row[fx]
			}
			screen.SetContent(r.X+x, r.Y+y, c.ch, nil, styleFor(c.st, theme))
		}
	}
}

// DrawCrosshair overlays the center marker. A space glyph disables it.
func DrawCrosshair(screen tcell.Screen, r Rect, glyph rune, theme *Theme) {
	if glyph == 0 || glyph == ' ' || r.W <= 0 || r.H <= 0 {
		return
	}
	screen.SetContent(r.X+r.W/2, r.Y+r.H/2, glyph, nil, theme.Crosshair)
}

func fillRegion(screen tcell.Screen, r Rect, st tcell.Style) {
	for y := 0; y < r.H; y++ {
		for x := 0; x < r.W; x++ {
			screen.SetContent(r.X+x, r.Y+y, ' ', nil, st)
		}
	}
}

// flattenRows expands run-length rows into per-cell grids for sampling.
func flattenRows(rows []render.Row, width int) [][]cell {
	grid := make([][]cell, 0, len(rows))
	for _, row := range rows {
		line := make([]cell, 0, width)
		for _, run := range row {
			for _, ch := range run.Text {
				line = append(line, cell{ch: ch, st: run.Style})
			}
		}
		grid = append(grid, line)
	}
	return grid
}

func styleFor(st render.Style, theme *Theme) tcell.Style {
	if !st.Colored {
		return theme.Map.Foreground(tcell.ColorWhite)
	}
	return theme.Map.Foreground(tcell.NewRGBColor(int32(st.R), int32(st.G), int32(st.B)))
}
