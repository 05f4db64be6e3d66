// Package tilecache provides a persistent, per-source tile store with
// network fetch, overzoom fallback and size-budget pruning.
package tilecache

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"image"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	xdraw "golang.org/x/image/draw"

	_ "image/jpeg"
	_ "image/png"

	"termatlas/internal/geodesy"
)

// TileSize is the native pixel resolution of a map tile.
const TileSize = 256

// Config holds the parameters for a tile store.
type Config struct {
	URLTemplate    string // XYZ template with {z}, {x}, {y} placeholders
	BaseDir        string
	UserAgent      string
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
	Retries        int
	PoolSize       int
	MemoryTiles    int // decoded tiles kept in memory, 0 disables
}

// Store caches tiles on disk under a directory derived from the source
// URL template, so switching sources never collides. Decoded tiles are
// additionally kept in a small in-memory LRU.
type Store struct {
	cfg     Config
	rootDir string
	ext     string
	client  *http.Client
	log     *zap.Logger

	// mu serializes disk read-then-write sequences. Network calls run
	// outside the lock so concurrent fetches overlap.
	mu  sync.Mutex
	mem *lru.Cache[geodesy.TileCoord, *image.RGBA]
}

// styleFingerprint derives a short deterministic cache namespace from a
// source URL template.
func styleFingerprint(urlTemplate string) string {
	h := sha1.Sum([]byte(urlTemplate))
	return hex.EncodeToString(h[:])[:10]
}

// templateExt returns the raster file extension implied by the URL
// template, defaulting to ".png".
func templateExt(urlTemplate string) string {
	ext := filepath.Ext(urlTemplate)
	switch ext {
	case ".png", ".jpg", ".jpeg", ".webp":
		return ext
	}
	return ".png"
}

// New creates a tile store rooted at baseDir/<fingerprint>.
func New(cfg Config, log *zap.Logger) (*Store, error) {
	if cfg.URLTemplate == "" {
		return nil, fmt.Errorf("tilecache: URL template is required")
	}
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = 5 * time.Second
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = 15 * time.Second
	}
	if cfg.PoolSize <= 0 {
		cfg.PoolSize = 8
	}

	rootDir := filepath.Join(cfg.BaseDir, styleFingerprint(cfg.URLTemplate))
	if err := os.MkdirAll(rootDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConnsPerHost: cfg.PoolSize,
	}

	s := &Store{
		cfg:     cfg,
		rootDir: rootDir,
		ext:     templateExt(cfg.URLTemplate),
		client: &http.Client{
			Timeout:   cfg.ConnectTimeout + cfg.ReadTimeout,
			Transport: transport,
		},
		log: log,
	}

	if cfg.MemoryTiles > 0 {
		mem, err := lru.New[geodesy.TileCoord, *image.RGBA](cfg.MemoryTiles)
		if err != nil {
			return nil, fmt.Errorf("failed to create memory cache: %w", err)
		}
		s.mem = mem
	}

	return s, nil
}

// RootDir returns the namespaced cache directory for this source.
func (s *Store) RootDir() string {
	return s.rootDir
}

// tilePath returns the on-disk path for a tile: rootDir/z/x/y.<ext>.
func (s *Store) tilePath(tc geodesy.TileCoord) string {
	return filepath.Join(s.rootDir, strconv.Itoa(tc.Z), strconv.Itoa(tc.X),
		strconv.Itoa(tc.Y)+s.ext)
}

// tileURL substitutes the tile index into the source URL template.
func (s *Store) tileURL(tc geodesy.TileCoord) string {
	url := s.cfg.URLTemplate
	url = strings.Replace(url, "{z}", strconv.Itoa(tc.Z), 1)
	url = strings.Replace(url, "{x}", strconv.Itoa(tc.X), 1)
	url = strings.Replace(url, "{y}", strconv.Itoa(tc.Y), 1)
	return url
}

// GetExact returns the tile at exactly the requested index, from memory,
// disk, or network. Out-of-range indices return false immediately with
// zero I/O. All failures degrade to a false result, never an error.
func (s *Store) GetExact(tc geodesy.TileCoord) (*image.RGBA, bool) {
	if !tc.Valid() {
		return nil, false
	}

	if s.mem != nil {
		if img, ok := s.mem.Get(tc); ok {
			return img, true
		}
	}

	path := s.tilePath(tc)

	s.mu.Lock()
	data, err := os.ReadFile(path)
	s.mu.Unlock()
	if err == nil {
		if img, derr := decodeRGBA(data); derr == nil {
			s.remember(tc, img)
			return img, true
		}
		// Corrupt on disk: evict and fall through to network.
		s.mu.Lock()
		os.Remove(path)
		s.mu.Unlock()
		s.log.Debug("evicted corrupt tile", zap.String("path", path))
	}

	data, err = s.fetch(tc)
	if err != nil {
		s.log.Debug("tile fetch failed",
			zap.Int("z", tc.Z), zap.Int("x", tc.X), zap.Int("y", tc.Y),
			zap.Error(err))
		return nil, false
	}

	img, err := decodeRGBA(data)
	if err != nil {
		s.log.Debug("tile decode failed",
			zap.Int("z", tc.Z), zap.Int("x", tc.X), zap.Int("y", tc.Y),
			zap.Error(err))
		return nil, false
	}

	s.mu.Lock()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err == nil {
		if werr := os.WriteFile(path, data, 0644); werr != nil {
			s.log.Debug("failed to persist tile", zap.String("path", path), zap.Error(werr))
		}
	}
	s.mu.Unlock()

	s.remember(tc, img)
	return img, true
}

// GetWithOverzoom returns the tile at the requested index, synthesizing
// it from an ancestor when the exact tile is unavailable: the ancestor
// is fetched via the exact lookup only, the sub-region this tile covers
// is cropped out and upscaled back to native resolution.
func (s *Store) GetWithOverzoom(tc geodesy.TileCoord, levels int) (*image.RGBA, bool) {
	if img, ok := s.GetExact(tc); ok {
		return img, true
	}

	for step := 1; step <= levels; step++ {
		parentZ := tc.Z - step
		if parentZ < 0 {
			break
		}
		factor := 1 << step
		parent := geodesy.TileCoord{Z: parentZ, X: tc.X / factor, Y: tc.Y / factor}
		pimg, ok := s.GetExact(parent)
		if !ok {
			continue
		}

		subW := pimg.Bounds().Dx() / factor
		subH := pimg.Bounds().Dy() / factor
		if subW < 1 || subH < 1 {
			continue
		}
		ox := (tc.X % factor) * subW
		oy := (tc.Y % factor) * subH

		sub := pimg.SubImage(image.Rect(
			pimg.Bounds().Min.X+ox, pimg.Bounds().Min.Y+oy,
			pimg.Bounds().Min.X+ox+subW, pimg.Bounds().Min.Y+oy+subH))

		out := image.NewRGBA(image.Rect(0, 0, pimg.Bounds().Dx(), pimg.Bounds().Dy()))
		xdraw.CatmullRom.Scale(out, out.Bounds(), sub, sub.Bounds(), xdraw.Src, nil)
		return out, true
	}
	return nil, false
}

// Prune deletes the oldest-modified tiles until the store total drops
// to maxBytes*watermark, no-op when already within budget. Individual
// I/O errors are skipped, never fatal.
func (s *Store) Prune(maxBytes int64, watermark float64) {
	type fileInfo struct {
		path  string
		size  int64
		mtime time.Time
	}

	var files []fileInfo
	var total int64
	filepath.Walk(s.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() || filepath.Ext(path) != s.ext {
			return nil
		}
		files = append(files, fileInfo{path: path, size: info.Size(), mtime: info.ModTime()})
		total += info.Size()
		return nil
	})

	if total <= maxBytes {
		return
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].mtime.Before(files[j].mtime)
	})

	target := int64(float64(maxBytes) * watermark)
	removed := 0
	for _, f := range files {
		if total <= target {
			break
		}
		if err := os.Remove(f.path); err != nil {
			continue
		}
		total -= f.size
		removed++
	}
	if removed > 0 {
		s.log.Info("pruned tile cache",
			zap.Int("files", removed), zap.Int64("bytes", total))
	}
}

// remember stores a decoded tile in the memory layer.
func (s *Store) remember(tc geodesy.TileCoord, img *image.RGBA) {
	if s.mem != nil {
		s.mem.Add(tc, img)
	}
}
