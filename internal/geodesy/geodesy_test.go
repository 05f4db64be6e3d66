package geodesy

import (
	"math"
	"testing"
)

func TestClampLat(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{45.5, 45.5},
		{90, MaxLat},
		{-90, -MaxLat},
		{85.05112878, MaxLat},
	}
	for _, tt := range tests {
		if got := ClampLat(tt.in); got != tt.want {
			t.Errorf("ClampLat(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestWrapLon(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{179.5, 179.5},
		{181, -179},
		{-181, 179},
		{360, 0},
		{539, 179},
	}
	for _, tt := range tests {
		if got := WrapLon(tt.in); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("WrapLon(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if got := WrapLon(-180); got <= -180 {
		t.Errorf("WrapLon(-180) = %v, must stay inside [-180, 180)", got)
	}
}

func TestLatLonToTileXYKnownPoints(t *testing.T) {
	// Zoom 0 has a single tile; the origin maps to its center.
	x, y := LatLonToTileXY(0, 0, 0)
	if math.Abs(x-0.5) > 1e-9 || math.Abs(y-0.5) > 1e-9 {
		t.Errorf("origin at z0 = (%v, %v), want (0.5, 0.5)", x, y)
	}

	// North-west corner of the grid.
	x, y = LatLonToTileXY(MaxLat, -180, 2)
	if math.Abs(x) > 1e-6 || math.Abs(y) > 1e-6 {
		t.Errorf("NW corner at z2 = (%v, %v), want (0, 0)", x, y)
	}
}

func TestRoundTrip(t *testing.T) {
	points := []struct{ lat, lon float64 }{
		{42.3601, -71.0589},
		{-33.8688, 151.2093},
		{0, 0},
		{84.9, 179.0},
		{-84.9, -179.0},
	}
	for z := 0; z <= 22; z += 2 {
		for _, p := range points {
			x, y := LatLonToTileXY(p.lat, p.lon, z)
			lat, lon := TileXYToLatLon(x, y, z)
			if math.Abs(lat-p.lat) > 1e-6 || math.Abs(lon-p.lon) > 1e-6 {
				t.Errorf("z=%d round trip (%v,%v) -> (%v,%v)", z, p.lat, p.lon, lat, lon)
			}
		}
	}
}

func TestTileBounds(t *testing.T) {
	latMin, lonMin, latMax, lonMax := TileBounds(0, 0, 0)
	if latMin >= latMax || lonMin >= lonMax {
		t.Fatalf("degenerate bounds: %v %v %v %v", latMin, lonMin, latMax, lonMax)
	}
	if math.Abs(lonMin+180) > 1e-9 || math.Abs(lonMax-180) > 1e-9 {
		t.Errorf("z0 tile lon bounds = [%v, %v], want [-180, 180]", lonMin, lonMax)
	}
}

func TestTileCoordValid(t *testing.T) {
	tests := []struct {
		tc   TileCoord
		want bool
	}{
		{TileCoord{0, 0, 0}, true},
		{TileCoord{2, 3, 3}, true},
		{TileCoord{2, 4, 0}, false},
		{TileCoord{2, 0, -1}, false},
		{TileCoord{20, 1 << 20, 0}, false},
		{TileCoord{-1, 0, 0}, false},
	}
	for _, tt := range tests {
		if got := tt.tc.Valid(); got != tt.want {
			t.Errorf("%+v Valid() = %v, want %v", tt.tc, got, tt.want)
		}
	}
}

func TestTileCoordParent(t *testing.T) {
	p := TileCoord{Z: 5, X: 13, Y: 27}.Parent()
	want := TileCoord{Z: 4, X: 6, Y: 13}
	if p != want {
		t.Errorf("Parent = %+v, want %+v", p, want)
	}
}
