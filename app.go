package main

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"termatlas/internal/composite"
	"termatlas/internal/config"
	"termatlas/internal/mapstate"
	"termatlas/internal/pipeline"
	"termatlas/internal/render"
	"termatlas/internal/tilecache"
	"termatlas/internal/ui"
)

const (
	refreshInterval = 33 * time.Millisecond
	stopTimeout     = 2 * time.Second
)

// App owns the terminal session: state, render pipeline and the
// interactive event loop.
type App struct {
	settings     *config.UserSettings
	settingsPath string
	log          *zap.Logger
	screen       tcell.Screen
	theme        *ui.Theme

	state    *mapstate.State
	store    *tilecache.Store
	renderer *render.Renderer
	coord    *pipeline.Coordinator

	crosshair bool
	showHelp  bool
	lastFrame *pipeline.Frame
}

// NewApp wires the application from loaded settings. settingsPath is
// where session state is persisted on exit; empty means the default.
func NewApp(settings *config.UserSettings, settingsPath string, log *zap.Logger) (*App, error) {
	cacheDir := settings.CacheDir
	if cacheDir == "" {
		cacheDir = config.GetCacheDir()
	}

	store, err := tilecache.New(tilecache.Config{
		URLTemplate:    settings.TileURL,
		BaseDir:        cacheDir,
		UserAgent:      settings.UserAgent,
		ConnectTimeout: time.Duration(settings.ConnectTimeoutSec * float64(time.Second)),
		ReadTimeout:    time.Duration(settings.ReadTimeoutSec * float64(time.Second)),
		Retries:        settings.Retries,
		PoolSize:       settings.ParallelDownloads,
		MemoryTiles:    settings.MemoryTiles,
	}, log.Named("tilecache"))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tile cache: %w", err)
	}

	renderer := render.New()

	coord := pipeline.New(pipeline.Config{
		HMult:          settings.CellPxX,
		VMult:          settings.CellPxY,
		MaxCompositePx: settings.MaxCompositePx,
	}, store, renderer, pipeline.RenderOptions{
		Mode:    settings.Mode,
		Palette: settings.Palette,
		Color:   settings.Color,
		Composite: composite.Options{
			OverzoomLevels:   settings.Overzoom,
			Contrast:         settings.Contrast,
			EdgeBoost:        settings.EdgeBoost,
			SharpenPercent:   settings.SharpenPercent,
			SharpenRadius:    settings.SharpenRadius,
			SharpenThreshold: settings.SharpenThreshold,
			Invert:           settings.Invert,
		},
	}, log.Named("pipeline"))

	state := mapstate.New(settings.CenterLat, settings.CenterLon,
		settings.Zoom, settings.MinZoom, settings.MaxZoom)

	return &App{
		settings:     settings,
		settingsPath: settingsPath,
		log:          log,
		theme:        ui.DefaultTheme(),
		state:        state,
		store:        store,
		renderer:     renderer,
		coord:        coord,
		crosshair:    settings.Crosshair != "" && settings.Crosshair != " ",
	}, nil
}

// Run drives the interactive session until the user quits.
func (a *App) Run() error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize screen: %w", err)
	}
	a.screen = screen
	defer screen.Fini()

	a.coord.Start()
	defer a.shutdown()

	// Cache pruning is best-effort housekeeping, off the hot path.
	go a.store.Prune(a.settings.CacheMaxBytes, a.settings.PruneWatermark)

	a.submitView()

	events := make(chan tcell.Event, 8)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	ticker := time.NewTicker(refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if quit := a.handleEvent(ev); quit {
				return nil
			}
		case <-ticker.C:
			a.pollFrame()
			a.draw()
		}
	}
}

func (a *App) shutdown() {
	if !a.coord.Stop(stopTimeout) {
		a.log.Warn("render worker did not stop in time")
	}
	a.persistSettings()
	_ = a.log.Sync()
}

// persistSettings writes the session's view and presentation state back
// to the settings file so the next launch resumes where this one ended.
func (a *App) persistSettings() {
	lat, lon := a.state.Center()
	a.settings.CenterLat = lat
	a.settings.CenterLon = lon
	a.settings.Zoom = a.state.Zoom()

	opts := a.coord.Options()
	a.settings.Mode = opts.Mode
	a.settings.Palette = opts.Palette
	a.settings.Color = opts.Color

	if err := config.SaveSettings(a.settingsPath, a.settings); err != nil {
		a.log.Warn("failed to save settings", zap.Error(err))
	}
}

// mapRegion is the screen area above the status bar.
func (a *App) mapRegion() ui.Rect {
	w, h := a.screen.Size()
	mapH := h - 1
	if mapH < 1 {
		mapH = h
	}
	return ui.Rect{X: 0, Y: 0, W: w, H: mapH}
}

// submitView enqueues a render job for the current view. A newer job
// silently supersedes any job the worker has not picked up yet.
func (a *App) submitView() {
	r := a.mapRegion()
	lat, lon := a.state.Center()
	a.coord.Submit(pipeline.Job{
		CellW: r.W,
		CellH: r.H,
		Lat:   lat,
		Lon:   lon,
		Zoom:  a.state.Zoom(),
	})
}

func (a *App) pollFrame() {
	if f, ok := a.coord.Latest(); ok {
		a.lastFrame = &f
		a.state.SetLatency(f.Latency)
	}
}

func (a *App) draw() {
	r := a.mapRegion()

	ui.BlitFrame(a.screen, a.lastFrame, r, a.theme)
	if a.lastFrame == nil || a.lastFrame.CellW != r.W || a.lastFrame.CellH != r.H {
		// Stale or missing frame for this size, ask for a fresh one.
		a.submitView()
	}

	if a.crosshair {
		ui.DrawCrosshair(a.screen, r, crosshairGlyph(a.settings.Crosshair), a.theme)
	}
	if a.showHelp {
		ui.DrawHelp(a.screen, r, a.theme)
	}

	a.drawStatusBar()
	a.screen.Show()
}

func (a *App) drawStatusBar() {
	w, h := a.screen.Size()
	if h < 2 {
		return
	}
	lat, lon, zoom, heading, info, latency := a.state.Snapshot()
	opts := a.coord.Options()
	ui.DrawStatusBar(a.screen, h-1, w, ui.StatusInfo{
		Lat: lat, Lon: lon, Zoom: zoom,
		Heading: heading,
		Latency: latency,
		Mode:    opts.Mode, Palette: opts.Palette, Colored: opts.Color,
		Info: info,
	}, a.theme)
}

func crosshairGlyph(s string) rune {
	for _, ch := range s {
		return ch
	}
	return '+'
}

// handleEvent processes one tcell event. Returns true to quit.
func (a *App) handleEvent(ev tcell.Event) bool {
	switch e := ev.(type) {
	case *tcell.EventResize:
		a.screen.Sync()
		a.submitView()
	case *tcell.EventKey:
		return a.handleKey(e)
	}
	return false
}

func (a *App) handleKey(e *tcell.EventKey) bool {
	switch e.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyUp:
		a.pan(0, -1)
	case tcell.KeyDown:
		a.pan(0, 1)
	case tcell.KeyLeft:
		a.pan(-1, 0)
	case tcell.KeyRight:
		a.pan(1, 0)
	case tcell.KeyRune:
		return a.handleRune(e.Rune())
	}
	return false
}

func (a *App) handleRune(ch rune) bool {
	switch ch {
	case 'q':
		return true
	case 'k':
		a.pan(0, -1)
	case 'j':
		a.pan(0, 1)
	case 'h':
		a.pan(-1, 0)
	case 'l':
		a.pan(1, 0)
	case '+', '=':
		a.zoom(1)
	case '-', '_':
		a.zoom(-1)
	case 'm':
		a.cycleMode()
	case 'p':
		a.cyclePalette()
	case 'c':
		a.toggleColor()
	case 'x':
		a.crosshair = !a.crosshair
	case '?':
		a.showHelp = !a.showHelp
	}
	return false
}

func (a *App) pan(dx, dy int) {
	a.state.Pan(dx, dy)
	a.submitView()
}

func (a *App) zoom(dz int) {
	z := a.state.ZoomDelta(dz)
	a.state.SetInfo(fmt.Sprintf("zoom %d", z))
	a.submitView()
}

func (a *App) cycleMode() {
	opts := a.coord.Options()
	opts.Mode = nextIn(a.renderer.Modes(), opts.Mode)
	a.coord.SetOptions(opts)
	a.state.SetInfo("mode " + opts.Mode)
	a.submitView()
}

func (a *App) cyclePalette() {
	opts := a.coord.Options()
	opts.Palette = nextIn(a.renderer.PaletteNames(), opts.Palette)
	a.coord.SetOptions(opts)
	a.state.SetInfo("palette " + opts.Palette)
	a.submitView()
}

func (a *App) toggleColor() {
	opts := a.coord.Options()
	opts.Color = !opts.Color
	a.coord.SetOptions(opts)
	a.submitView()
}

// nextIn returns the element after current, wrapping around. An
// unknown current maps to the first element.
func nextIn(values []string, current string) string {
	if len(values) == 0 {
		return current
	}
	for i, v := range values {
		if v == current {
			return values[(i+1)%len(values)]
		}
	}
	return values[0]
}
