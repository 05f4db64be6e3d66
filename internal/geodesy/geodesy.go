// Package geodesy converts between WGS84 coordinates and Web Mercator
// XYZ tile indices.
package geodesy

import "math"

// MaxLat is the Web Mercator valid latitude limit.
const MaxLat = 85.05112878

// ClampLat clamps latitude to the Web Mercator valid range.
func ClampLat(lat float64) float64 {
	return math.Max(math.Min(lat, MaxLat), -MaxLat)
}

// WrapLon wraps longitude to [-180, 180).
func WrapLon(lon float64) float64 {
	lon = math.Mod(lon+180.0, 360.0)
	if lon < 0 {
		lon += 360.0
	}
	lon -= 180.0
	// Avoid -180 exact to keep XYZ math stable
	if lon <= -180.0 {
		return -179.999999
	}
	return lon
}

// LatLonToTileXY converts lat/lon to fractional tile coordinates at a
// given zoom level.
func LatLonToTileXY(lat, lon float64, zoom int) (x, y float64) {
	lat = ClampLat(lat)
	n := math.Pow(2, float64(zoom))
	x = (lon + 180.0) / 360.0 * n
	latRad := lat * math.Pi / 180.0
	y = (1.0 - math.Log(math.Tan(latRad)+1.0/math.Cos(latRad))/math.Pi) / 2.0 * n
	return x, y
}

// TileXYToLatLon converts a fractional tile coordinate back to lat/lon.
// Pass x+0.5, y+0.5 for a tile center.
func TileXYToLatLon(x, y float64, zoom int) (lat, lon float64) {
	n := math.Pow(2, float64(zoom))
	lon = x/n*360.0 - 180.0
	latRad := math.Atan(math.Sinh(math.Pi * (1 - 2*y/n)))
	lat = latRad * 180.0 / math.Pi
	return lat, lon
}

// TileBounds returns the bounding box (latMin, lonMin, latMax, lonMax)
// of tile (x, y) at a zoom level.
func TileBounds(x, y, zoom int) (latMin, lonMin, latMax, lonMax float64) {
	latMin, lonMin = TileXYToLatLon(float64(x), float64(y+1), zoom)
	latMax, lonMax = TileXYToLatLon(float64(x+1), float64(y), zoom)
	return latMin, lonMin, latMax, lonMax
}

// TileCoord identifies one tile on the Web Mercator grid.
type TileCoord struct {
	Z, X, Y int
}

// Valid reports whether the tile index lies on the grid for its zoom.
func (t TileCoord) Valid() bool {
	if t.Z < 0 {
		return false
	}
	n := 1 << t.Z
	return t.X >= 0 && t.X < n && t.Y >= 0 && t.Y < n
}

// Parent returns the tile one zoom level up that contains this tile.
func (t TileCoord) Parent() TileCoord {
	return TileCoord{Z: t.Z - 1, X: t.X / 2, Y: t.Y / 2}
}
