// Package config loads and persists user settings as a single JSON
// file in the platform config directory.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	goruntime "runtime"

	json "github.com/goccy/go-json"
)

// UserSettings represents persistent user preferences.
type UserSettings struct {
	// Tile source
	TileURL   string `json:"tileURL"` // XYZ template with {z}/{x}/{y}
	UserAgent string `json:"userAgent"`

	// HTTP
	ConnectTimeoutSec float64 `json:"connectTimeoutSec"`
	ReadTimeoutSec    float64 `json:"readTimeoutSec"`
	Retries           int     `json:"retries"`
	ParallelDownloads int     `json:"parallelDownloads"`

	// Cache
	CacheDir       string  `json:"cacheDir"` // empty = OS cache dir
	CacheMaxBytes  int64   `json:"cacheMaxBytes"`
	PruneWatermark float64 `json:"pruneWatermark"`
	MemoryTiles    int     `json:"memoryTiles"`

	// Map view
	CenterLat float64 `json:"centerLat"`
	CenterLon float64 `json:"centerLon"`
	Zoom      int     `json:"zoom"`
	MinZoom   int     `json:"minZoom"`
	MaxZoom   int     `json:"maxZoom"`
	Overzoom  int     `json:"overzoom"`

	// Rendering
	Mode             string  `json:"mode"`    // ascii | quadrant | braille
	Palette          string  `json:"palette"` // glyph ramp name
	Color            bool    `json:"color"`
	Contrast         float64 `json:"contrast"`
	SharpenPercent   int     `json:"sharpenPercent"`
	SharpenRadius    float64 `json:"sharpenRadius"`
	SharpenThreshold int     `json:"sharpenThreshold"`
	EdgeBoost        bool    `json:"edgeBoost"`
	Invert           bool    `json:"invert"`

	// Pixels composited per terminal cell; vertical roughly double
	// horizontal to match monospace cell aspect ratio.
	CellPxX        int `json:"cellPxX"`
	CellPxY        int `json:"cellPxY"`
	MaxCompositePx int `json:"maxCompositePx"`

	// UI
	Crosshair     string `json:"crosshair"`
	ShowStatusbar bool   `json:"showStatusbar"`
	ShowCompass   bool   `json:"showCompass"`

	// Logging
	LogLevel string `json:"logLevel"`
	LogFile  string `json:"logFile"` // empty = logging disabled
}

// DefaultSettings returns default user settings.
func DefaultSettings() *UserSettings {
	return &UserSettings{
		TileURL:           "https://tile.openstreetmap.org/{z}/{x}/{y}.png",
		UserAgent:         "termatlas/1.0 (+https://example.invalid)",
		ConnectTimeoutSec: 5.0,
		ReadTimeoutSec:    15.0,
		Retries:           3,
		ParallelDownloads: 8,
		CacheMaxBytes:     256 * 1024 * 1024,
		PruneWatermark:    0.85,
		MemoryTiles:       256,
		CenterLat:         42.3601,
		CenterLon:         -71.0589,
		Zoom:              4,
		MinZoom:           0,
		MaxZoom:           19,
		Overzoom:          2,
		Mode:              "ascii",
		Palette:           "ascii_dense",
		Color:             true,
		Contrast:          1.0,
		SharpenPercent:    200,
		SharpenRadius:     2.0,
		SharpenThreshold:  3,
		CellPxX:           8,
		CellPxY:           16,
		MaxCompositePx:    1200,
		Crosshair:         "+",
		ShowStatusbar:     true,
		ShowCompass:       true,
		LogLevel:          "info",
	}
}

// GetSettingsPath returns the OS-specific settings file path.
func GetSettingsPath() string {
	homeDir, _ := os.UserHomeDir()

	var baseDir string
	switch goruntime.GOOS {
	case "darwin":
		baseDir = filepath.Join(homeDir, "Library", "Application Support", "termatlas")
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData == "" {
			appData = filepath.Join(homeDir, "AppData", "Roaming")
		}
		baseDir = filepath.Join(appData, "termatlas")
	default:
		configHome := os.Getenv("XDG_CONFIG_HOME")
		if configHome == "" {
			configHome = filepath.Join(homeDir, ".config")
		}
		baseDir = filepath.Join(configHome, "termatlas")
	}

	return filepath.Join(baseDir, "settings.json")
}

// GetCacheDir returns the OS-specific tile cache directory.
func GetCacheDir() string {
	homeDir, _ := os.UserHomeDir()

	switch goruntime.GOOS {
	case "darwin":
		return filepath.Join(homeDir, "Library", "Caches", "termatlas", "tiles")
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData == "" {
			appData = filepath.Join(homeDir, "AppData", "Roaming")
		}
		return filepath.Join(appData, "termatlas", "cache", "tiles")
	default:
		cacheHome := os.Getenv("XDG_CACHE_HOME")
		if cacheHome == "" {
			cacheHome = filepath.Join(homeDir, ".cache")
		}
		return filepath.Join(cacheHome, "termatlas", "tiles")
	}
}

// LoadSettings loads user settings from path, merging defaults for any
// missing fields. A missing file returns pure defaults.
func LoadSettings(path string) (*UserSettings, error) {
	if path == "" {
		path = GetSettingsPath()
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultSettings(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	var settings UserSettings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}

	mergeDefaults(&settings)
	return &settings, nil
}

// mergeDefaults fills zero-valued fields from DefaultSettings.
func mergeDefaults(s *UserSettings) {
	d := DefaultSettings()
	if s.TileURL == "" {
		s.TileURL = d.TileURL
	}
	if s.UserAgent == "" {
		s.UserAgent = d.UserAgent
	}
	if s.ConnectTimeoutSec <= 0 {
		s.ConnectTimeoutSec = d.ConnectTimeoutSec
	}
	if s.ReadTimeoutSec <= 0 {
		s.ReadTimeoutSec = d.ReadTimeoutSec
	}
	if s.Retries <= 0 {
		s.Retries = d.Retries
	}
	if s.ParallelDownloads <= 0 {
		s.ParallelDownloads = d.ParallelDownloads
	}
	if s.CacheMaxBytes <= 0 {
		s.CacheMaxBytes = d.CacheMaxBytes
	}
	if s.PruneWatermark <= 0 || s.PruneWatermark > 1 {
		s.PruneWatermark = d.PruneWatermark
	}
	if s.MemoryTiles <= 0 {
		s.MemoryTiles = d.MemoryTiles
	}
	if s.MaxZoom <= 0 {
		s.MaxZoom = d.MaxZoom
	}
	if s.Mode == "" {
		s.Mode = d.Mode
	}
	if s.Palette == "" {
		s.Palette = d.Palette
	}
	if s.Contrast <= 0 {
		s.Contrast = d.Contrast
	}
	if s.SharpenPercent <= 0 {
		s.SharpenPercent = d.SharpenPercent
	}
	if s.SharpenRadius <= 0 {
		s.SharpenRadius = d.SharpenRadius
	}
	if s.CellPxX <= 0 {
		s.CellPxX = d.CellPxX
	}
	if s.CellPxY <= 0 {
		s.CellPxY = d.CellPxY
	}
	if s.MaxCompositePx <= 0 {
		s.MaxCompositePx = d.MaxCompositePx
	}
	if s.LogLevel == "" {
		s.LogLevel = d.LogLevel
	}
}

// SaveSettings saves user settings to path atomically.
func SaveSettings(path string, settings *UserSettings) error {
	if path == "" {
		path = GetSettingsPath()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to rename settings file: %w", err)
	}

	return nil
}
