package ui

import (
	"fmt"
	"math"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// StatusInfo is everything the bottom bar shows for one refresh.
type StatusInfo struct {
	Lat, Lon float64
	Zoom     int
	Heading  float64
	Latency  time.Duration
	Mode     string
	Palette  string
	Colored  bool
	Info     string
}

var compassPoints = []struct {
	deg   float64
	label string
}{
	{0, "↑N"},
	{45, "↗NE"},
	{90, "→E"},
	{135, "↘SE"},
	{180, "↓S"},
	{225, "↙SW"},
	{270, "←W"},
	{315, "↖NW"},
}

// CompassLabel returns the arrow and cardinal name nearest the heading.
func CompassLabel(headingDeg float64) string {
	deg := math.Mod(headingDeg, 360)
	if deg < 0 {
		deg += 360
	}

	best := compassPoints[0].label
	bestDist := math.MaxFloat64
	for _, p := range compassPoints {
		d := math.Abs(p.deg - deg)
		if d > 180 {
			d = 360 - d
		}
		if d < bestDist {
			bestDist = d
			best = p.label
		}
	}
	return best
}

// FormatStatus builds the status line, truncated or padded with
// runewidth so it fills exactly width display cells.
func FormatStatus(info StatusInfo, width int) string {
	colorTag := "mono"
	if info.Colored {
		colorTag = "color"
	}

	line := fmt.Sprintf(" lat=%.5f lon=%.5f z=%d render=%.1fms mode=%s/%s pal=%s",
		info.Lat, info.Lon, info.Zoom,
		float64(info.Latency.Microseconds())/1000.0,
		info.Mode, colorTag, info.Palette)
	if info.Info != "" {
		line += "  " + info.Info
	}

	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(line) > width {
		return runewidth.Truncate(line, width, "…")
	}
	return runewidth.FillRight(line, width)
}

// DrawStatusBar renders the status line across screen row y, with the
// compass label right-aligned.
func DrawStatusBar(screen tcell.Screen, y, width int, info StatusInfo, theme *Theme) {
	compass := fmt.Sprintf(" %s %03.0f° ", CompassLabel(info.Heading), math.Mod(info.Heading+360, 360))
	compassW := runewidth.StringWidth(compass)
	if compassW > width {
		compass = ""
		compassW = 0
	}

	line := FormatStatus(info, width-compassW)
	drawText(screen, 0, y, line, theme.Status)
	drawText(screen, width-compassW, y, compass, theme.Compass)
}

func drawText(screen tcell.Screen, x, y int, text string, st tcell.Style) {
	col := x
	for _, ch := range text {
		screen.SetContent(col, y, ch, nil, st)
		col += runewidth.RuneWidth(ch)
	}
}
