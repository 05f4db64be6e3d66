package tilecache

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"io"
	"net/http"
	"time"

	"termatlas/internal/geodesy"
)

// retryableStatus lists the transient HTTP statuses worth retrying.
var retryableStatus = map[int]bool{
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

// backoffBase is the first retry delay; each attempt doubles it.
const backoffBase = 300 * time.Millisecond

// fetch downloads one tile with bounded retry and exponential backoff.
// Connection errors and transient statuses are retried; anything else
// fails immediately.
func (s *Store) fetch(tc geodesy.TileCoord) ([]byte, error) {
	url := s.tileURL(tc)

	var lastErr error
	attempts := s.cfg.Retries + 1
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			time.Sleep(backoffBase << (attempt - 1))
		}

		req, err := http.NewRequest(http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("User-Agent", s.cfg.UserAgent)

		resp, err := s.client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			lastErr = fmt.Errorf("tile request failed with status: %d", resp.StatusCode)
			if retryableStatus[resp.StatusCode] {
				continue
			}
			return nil, lastErr
		}

		data, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}
		if len(data) == 0 {
			lastErr = fmt.Errorf("empty tile body")
			continue
		}
		return data, nil
	}
	return nil, fmt.Errorf("tile fetch exhausted %d attempts: %w", attempts, lastErr)
}

// decodeRGBA decodes raster bytes into an RGBA image.
func decodeRGBA(data []byte) (*image.RGBA, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode tile: %w", err)
	}
	if rgba, ok := src.(*image.RGBA); ok {
		return rgba, nil
	}
	out := image.NewRGBA(src.Bounds())
	draw.Draw(out, out.Bounds(), src, src.Bounds().Min, draw.Src)
	return out, nil
}
