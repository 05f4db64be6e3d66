// Package pipeline runs the background render worker that turns view
// requests into terminal frames without blocking the interactive loop.
package pipeline

import (
	"image"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"termatlas/internal/composite"
	"termatlas/internal/render"
)

// Job is one render request. A newer job replaces any job still
// waiting in the inbound slot.
type Job struct {
	ID    string
	CellW int
	CellH int
	Lat   float64
	Lon   float64
	Zoom  int
}

// Frame is one completed render, tagged with the cell dimensions it
// was produced for.
type Frame struct {
	CellW   int
	CellH   int
	Rows    []render.Row
	Latency time.Duration
}

// RenderOptions are the presentation knobs the UI can change between
// jobs. They are read once per job under the coordinator lock.
type RenderOptions struct {
	Mode      string
	Palette   string
	Color     bool
	Composite composite.Options
}

// Config sizes the pixel canvas derived from cell dimensions. The
// vertical multiplier is roughly double the horizontal one to
// approximate the aspect ratio of a monospace cell.
type Config struct {
	HMult          int // pixels per cell horizontally
	VMult          int // pixels per cell vertically
	MinCompositePx int
	MaxCompositePx int
}

// Coordinator owns the single render worker and the two latest-wins
// hand-off slots between it and the interactive loop.
type Coordinator struct {
	cfg      Config
	src      composite.TileSource
	renderer *render.Renderer
	log      *zap.Logger

	jobs   *Slot[Job]
	frames *Slot[Frame]
	done   chan struct{}

	mu   sync.Mutex
	opts RenderOptions
}

// New creates a coordinator. Start must be called before Submit.
func New(cfg Config, src composite.TileSource, renderer *render.Renderer, opts RenderOptions, log *zap.Logger) *Coordinator {
	if cfg.HMult <= 0 {
		cfg.HMult = 8
	}
	if cfg.VMult <= 0 {
		cfg.VMult = cfg.HMult * 2
	}
	if cfg.MinCompositePx <= 0 {
		cfg.MinCompositePx = 64
	}
	if cfg.MaxCompositePx <= 0 {
		cfg.MaxCompositePx = 1200
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Coordinator{
		cfg:      cfg,
		src:      src,
		renderer: renderer,
		log:      log,
		jobs:     NewSlot[Job](),
		frames:   NewSlot[Frame](),
		done:     make(chan struct{}),
	}
}

// Start launches the render worker.
func (c *Coordinator) Start() {
	go c.worker()
}

// Submit hands a job to the worker, superseding any job it has not yet
// started. Never blocks.
func (c *Coordinator) Submit(job Job) {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	c.jobs.Put(job)
}

// Latest removes and returns the newest completed frame, if any. Never
// blocks.
func (c *Coordinator) Latest() (Frame, bool) {
	return c.frames.TryTake()
}

// SetOptions replaces the presentation options used for subsequent jobs.
func (c *Coordinator) SetOptions(opts RenderOptions) {
	c.mu.Lock()
	c.opts = opts
	c.mu.Unlock()
}

// Options returns the current presentation options.
func (c *Coordinator) Options() RenderOptions {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.opts
}

// Stop closes the inbound slot and waits for the worker to drain, up
// to timeout. Returns false when the worker did not finish in time.
func (c *Coordinator) Stop(timeout time.Duration) bool {
	c.jobs.Close()
	select {
	case <-c.done:
		return true
	case <-time.After(timeout):
		return false
	}
}

func (c *Coordinator) worker() {
	defer close(c.done)
	for {
		job, ok := c.jobs.Take()
		if !ok {
			return
		}
		frame := c.process(job)
		c.frames.Put(frame)
	}
}

// canvasSize derives the pixel canvas dimensions for a cell grid,
// clamped to the configured bounds.
func (c *Coordinator) canvasSize(cellW, cellH int) (int, int) {
	clamp := func(v int) int {
		if v < c.cfg.MinCompositePx {
			return c.cfg.MinCompositePx
		}
		if v > c.cfg.MaxCompositePx {
			return c.cfg.MaxCompositePx
		}
		return v
	}
	return clamp(cellW * c.cfg.HMult), clamp(cellH * c.cfg.VMult)
}

// process runs one job to completion. Every failure path still yields
// a frame: compositing faults degrade to a solid black canvas of the
// expected size so the consumer is never starved.
func (c *Coordinator) process(job Job) Frame {
	start := time.Now()
	opts := c.Options()
	pxW, pxH := c.canvasSize(job.CellW, job.CellH)

	img := c.compose(job, pxW, pxH, opts)
	rows := c.renderer.Render(img, job.CellW, job.CellH, opts.Color, opts.Mode, opts.Palette)

	latency := time.Since(start)
	c.log.Debug("rendered frame",
		zap.String("job", job.ID),
		zap.Int("cell_w", job.CellW), zap.Int("cell_h", job.CellH),
		zap.Int("zoom", job.Zoom),
		zap.Duration("latency", latency))

	return Frame{CellW: job.CellW, CellH: job.CellH, Rows: rows, Latency: latency}
}

// compose assembles the pixel canvas, falling back to black on any
// fault, including panics from a misbehaving source.
func (c *Coordinator) compose(job Job, pxW, pxH int, opts RenderOptions) (img *image.RGBA) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Warn("composite panic", zap.String("job", job.ID), zap.Any("panic", r))
			img = image.NewRGBA(image.Rect(0, 0, pxW, pxH))
		}
	}()

	img, err := composite.FromTiles(c.src, job.Lat, job.Lon, job.Zoom, pxW, pxH, opts.Composite)
	if err != nil {
		c.log.Warn("composite failed", zap.String("job", job.ID), zap.Error(err))
		return image.NewRGBA(image.Rect(0, 0, pxW, pxH))
	}
	return img
}
