// Package mapstate holds the mutable view state shared between the
// interactive loop and the render worker.
package mapstate

import (
	"math"
	"sync"
	"time"

	"termatlas/internal/geodesy"
)

// State is the single mutex-guarded struct both execution contexts
// read and write. Every exported method is safe for concurrent use;
// all fields are cross-thread-mutable and must only be touched through
// methods.
type State struct {
	mu sync.Mutex

	lat, lon float64
	zoom     int
	minZoom  int
	maxZoom  int

	heading float64 // degrees, 0 = north, clockwise
	info    string
	latency time.Duration
}

// New creates a state clamped to the given zoom bounds.
func New(lat, lon float64, zoom, minZoom, maxZoom int) *State {
	s := &State{
		lat:     lat,
		lon:     lon,
		zoom:    zoom,
		minZoom: minZoom,
		maxZoom: maxZoom,
	}
	s.normalize()
	return s
}

// normalize clamps the center and zoom. Callers hold s.mu or own s
// exclusively.
func (s *State) normalize() {
	s.lat = geodesy.ClampLat(s.lat)
	s.lon = geodesy.WrapLon(s.lon)
	if s.zoom < s.minZoom {
		s.zoom = s.minZoom
	}
	if s.zoom > s.maxZoom {
		s.zoom = s.maxZoom
	}
}

// Center returns the current view center.
func (s *State) Center() (lat, lon float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lat, s.lon
}

// Zoom returns the current zoom level.
func (s *State) Zoom() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.zoom
}

// SetCenter moves the view center, clamping and wrapping.
func (s *State) SetCenter(lat, lon float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lat = lat
	s.lon = lon
	s.normalize()
}

// ZoomDelta shifts zoom by dz, clamped to the configured bounds.
func (s *State) ZoomDelta(dz int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.zoom += dz
	s.normalize()
	return s.zoom
}

// Pan moves the center by whole terminal cells and records the pan
// vector for the compass heading. Step size halves per zoom level.
func (s *State) Pan(dxCells, dyCells int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	step := 0.1 * math.Pow(2, -float64(s.zoom))
	s.lat -= float64(dyCells) * step
	s.lon += float64(dxCells) * step
	s.normalize()

	if dxCells != 0 || dyCells != 0 {
		// Screen-up is north: atan2 with dy negated, 0 at north.
		ang := math.Atan2(float64(dxCells), -float64(dyCells)) * 180.0 / math.Pi
		if ang < 0 {
			ang += 360.0
		}
		s.heading = ang
	}
}

// Heading returns the compass heading derived from the last pan.
func (s *State) Heading() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.heading
}

// SetInfo records the one-line status message.
func (s *State) SetInfo(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.info = msg
}

// SetLatency records the last measured render latency.
func (s *State) SetLatency(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latency = d
}

// Snapshot returns a consistent copy of everything the status line and
// render submission need.
func (s *State) Snapshot() (lat, lon float64, zoom int, heading float64, info string, latency time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lat, s.lon, s.zoom, s.heading, s.info, s.latency
}
