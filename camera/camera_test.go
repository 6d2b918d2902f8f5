package camera

import (
	"math"
	"testing"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 0.01
}

func TestNew(t *testing.T) {
	cam := New(1280, 720, 200, 120, 10)

	// Should be centered on world
	if cam.X != 100 || cam.Y != 60 {
		t.Errorf("expected camera at (100, 60), got (%f, %f)", cam.X, cam.Y)
	}
	if cam.Zoom != 10 {
		t.Errorf("expected zoom 10, got %f", cam.Zoom)
	}
}

func TestNewClampsStartZoom(t *testing.T) {
	// 1200x720 over 200x120 fits at 6 pixels per cell.
	cam := New(1200, 720, 200, 120, 2)
	if !near(cam.MinZoom, 6) {
		t.Fatalf("expected MinZoom 6, got %f", cam.MinZoom)
	}
	if !near(cam.Zoom, 6) {
		t.Errorf("expected start zoom raised to 6, got %f", cam.Zoom)
	}
}

func TestWorldToScreenCentered(t *testing.T) {
	cam := New(1280, 720, 200, 120, 10)

	// Camera center should map to screen center
	sx, sy := cam.WorldToScreen(100, 60)
	if !near(sx, 640) || !near(sy, 360) {
		t.Errorf("expected screen center (640, 360), got (%f, %f)", sx, sy)
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	cam := New(1280, 720, 200, 120, 10)

	testCases := []struct{ sx, sy float32 }{
		{640, 360},  // center
		{100, 100},  // top-left
		{1200, 600}, // near bottom-right
	}

	for _, tc := range testCases {
		wx, wy := cam.ScreenToWorld(tc.sx, tc.sy)
		sx, sy := cam.WorldToScreen(wx, wy)
		if !near(sx, tc.sx) || !near(sy, tc.sy) {
			t.Errorf("roundtrip failed: (%f,%f) -> (%f,%f) -> (%f,%f)",
				tc.sx, tc.sy, wx, wy, sx, sy)
		}
	}
}

func TestScreenToCell(t *testing.T) {
	cam := New(1280, 720, 200, 120, 10)

	tests := []struct {
		name   string
		sx, sy float32
		x, y   int
		ok     bool
	}{
		{"center", 640, 360, 100, 60, true},
		{"one cell right", 651, 360, 101, 60, true},
		{"left of world", -5000, 360, 0, 0, false},
		{"below world", 640, 9000, 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y, ok := cam.ScreenToCell(tt.sx, tt.sy)
			if ok != tt.ok || (ok && (x != tt.x || y != tt.y)) {
				t.Errorf("ScreenToCell(%v,%v) = (%d,%d,%v), want (%d,%d,%v)", tt.sx, tt.sy, x, y, ok, tt.x, tt.y, tt.ok)
			}
		})
	}
}

func TestPanClampsToWorld(t *testing.T) {
	cam := New(1280, 720, 200, 120, 10)

	cam.Pan(-100000, 0)
	minX, _, _, _ := cam.VisibleWorldBounds()
	if !near(minX, 0) {
		t.Errorf("expected left edge pinned at 0, got %f", minX)
	}

	cam.Pan(100000, 100000)
	_, _, maxX, maxY := cam.VisibleWorldBounds()
	if !near(maxX, 200) || !near(maxY, 120) {
		t.Errorf("expected bottom-right pinned at (200,120), got (%f,%f)", maxX, maxY)
	}
}

func TestSmallWorldStaysCentered(t *testing.T) {
	// At min zoom the world fits on one axis and is letterboxed on the other.
	cam := New(1280, 720, 100, 100, 1)
	cam.Pan(500, 0)
	if !near(cam.X, 50) {
		t.Errorf("expected X held at world center 50, got %f", cam.X)
	}
}

func TestZoomClamp(t *testing.T) {
	cam := New(1200, 720, 200, 120, 10)

	cam.SetZoom(0.1) // Below min
	if !near(cam.Zoom, cam.MinZoom) {
		t.Errorf("expected zoom clamped to %f, got %f", cam.MinZoom, cam.Zoom)
	}

	cam.SetZoom(1000) // Above max
	if cam.Zoom != cam.MaxZoom {
		t.Errorf("expected zoom clamped to %f, got %f", cam.MaxZoom, cam.Zoom)
	}
}

func TestZoomAtKeepsCursorPoint(t *testing.T) {
	cam := New(1280, 720, 200, 120, 10)
	wx, wy := cam.ScreenToWorld(800, 400)

	cam.ZoomAt(800, 400, 1.5)

	sx, sy := cam.WorldToScreen(wx, wy)
	if !near(sx, 800) || !near(sy, 400) {
		t.Errorf("point under cursor moved to (%f,%f)", sx, sy)
	}
}

func TestIsVisible(t *testing.T) {
	cam := New(1280, 720, 200, 120, 10)

	// Visible range: (36, 24) to (164, 96)
	if !cam.IsVisible(100, 60, 1) {
		t.Error("center should be visible")
	}
	if cam.IsVisible(195, 5, 1) {
		t.Error("far point should not be visible")
	}
	if !cam.IsVisible(30, 60, 10) {
		t.Error("edge point with large radius should be visible")
	}
}

func TestResizeRaisesMinZoom(t *testing.T) {
	cam := New(600, 360, 200, 120, 3)
	cam.Resize(1200, 720)
	if !near(cam.MinZoom, 6) || cam.Zoom < cam.MinZoom {
		t.Errorf("after resize MinZoom=%f Zoom=%f", cam.MinZoom, cam.Zoom)
	}
}

func TestReset(t *testing.T) {
	cam := New(1280, 720, 200, 120, 10)
	cam.Pan(300, 200)
	cam.SetZoom(25)

	cam.Reset()

	if cam.X != 100 || cam.Y != 60 {
		t.Errorf("expected position (100, 60), got (%f, %f)", cam.X, cam.Y)
	}
	if cam.Zoom != 10 {
		t.Errorf("expected zoom 10, got %f", cam.Zoom)
	}
}
