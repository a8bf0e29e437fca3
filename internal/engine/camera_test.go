package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCamera_ScreenWorldRoundTrip(t *testing.T) {
	cams := []Camera{
		{Zoom: 1, ViewportW: 800, ViewportH: 600},
		{Zoom: 2.5, OffsetX: 120, OffsetY: -44, ViewportW: 800, ViewportH: 600},
		{Zoom: 0.3, OffsetX: -9.25, OffsetY: 300.5, ViewportW: 101, ViewportH: 57},
	}
	points := [][2]float64{{0, 0}, {400, 300}, {799, 1}, {-50, 620.5}}

	for _, cam := range cams {
		for _, p := range points {
			wx, wy := ScreenToWorld(cam, p[0], p[1])
			sx, sy := WorldToScreen(cam, wx, wy)
			assert.InDelta(t, p[0], sx, 1e-9)
			assert.InDelta(t, p[1], sy, 1e-9)
		}
	}
}

func TestCamera_PanIsZoomIndependent(t *testing.T) {
	cam := Camera{Zoom: 2, ViewportW: 100, ViewportH: 100}
	cam.Pan(10, -4)
	assert.InDelta(t, 5.0, cam.OffsetX, 1e-9)
	assert.InDelta(t, -2.0, cam.OffsetY, 1e-9)

	cam = Camera{Zoom: 0.5, ViewportW: 100, ViewportH: 100}
	cam.Pan(10, 0)
	assert.InDelta(t, 20.0, cam.OffsetX, 1e-9)
}

func TestCamera_ZoomPreservesPivot(t *testing.T) {
	cam := Camera{Zoom: 1, OffsetX: 33, OffsetY: -7, ViewportW: 640, ViewportH: 480}
	pivotX, pivotY := 100.0, 420.0

	beforeX, beforeY := ScreenToWorld(cam, pivotX, pivotY)
	cam.ZoomAt(3, pivotX, pivotY, 0.2, 8)
	afterX, afterY := ScreenToWorld(cam, pivotX, pivotY)

	assert.InDelta(t, beforeX, afterX, 1e-9)
	assert.InDelta(t, beforeY, afterY, 1e-9)
	assert.Greater(t, cam.Zoom, 1.0)
}

func TestCamera_ZoomClamped(t *testing.T) {
	cam := Camera{Zoom: 1, ViewportW: 100, ViewportH: 100}
	for i := 0; i < 100; i++ {
		cam.ZoomAt(5, 50, 50, 0.2, 8)
	}
	assert.InDelta(t, 8.0, cam.Zoom, 1e-9)

	for i := 0; i < 200; i++ {
		cam.ZoomAt(-5, 50, 50, 0.2, 8)
	}
	assert.InDelta(t, 0.2, cam.Zoom, 1e-9)
}

func TestCamera_ResizeTouchesViewportOnly(t *testing.T) {
	cam := Camera{Zoom: 3, OffsetX: 5, OffsetY: 6, ViewportW: 10, ViewportH: 10}
	cam.Resize(1920, 1080)
	assert.Equal(t, 1920, cam.ViewportW)
	assert.Equal(t, 1080, cam.ViewportH)
	assert.Equal(t, 3.0, cam.Zoom)
	assert.Equal(t, 5.0, cam.OffsetX)
	assert.Equal(t, 6.0, cam.OffsetY)
}
