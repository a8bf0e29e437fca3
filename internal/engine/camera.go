package engine

// Camera holds the pan/zoom transform and viewport dimensions. The
// renderer maps world to screen as
//
//	screen = (world + offset) * zoom + viewportCenter
//
// and ScreenToWorld is the exact algebraic inverse of that, so
// hit-testing can never drift from what is drawn.
type Camera struct {
	OffsetX   float64
	OffsetY   float64
	Zoom      float64
	ViewportW int
	ViewportH int
}

func newCamera() Camera {
	return Camera{Zoom: 1}
}

// Pan applies a screen-space delta. The delta is divided by the
// current zoom so perceived pan speed is constant at every zoom level.
func (c *Camera) Pan(dxScreen, dyScreen float64) {
	c.OffsetX += dxScreen / c.Zoom
	c.OffsetY += dyScreen / c.Zoom
}

// ZoomAt applies a wheel delta with the zoom clamped to [min, max],
// then adjusts the offset so the world point under the pivot stays
// under the pivot.
func (c *Camera) ZoomAt(wheelDelta, pivotX, pivotY, min, max float64) {
	newZoom := c.Zoom * zoomFactor(wheelDelta)
	if newZoom < min {
		newZoom = min
	}
	if newZoom > max {
		newZoom = max
	}
	if newZoom == c.Zoom {
		return
	}
	cx := float64(c.ViewportW) / 2
	cy := float64(c.ViewportH) / 2
	// Solve newOffset from: (pivot-center)/zoom - offset ==
	// (pivot-center)/newZoom - newOffset.
	c.OffsetX += (pivotX-cx)/newZoom - (pivotX-cx)/c.Zoom
	c.OffsetY += (pivotY-cy)/newZoom - (pivotY-cy)/c.Zoom
	c.Zoom = newZoom
}

// Resize updates the viewport dimensions only; zoom and offset are
// untouched.
func (c *Camera) Resize(width, height int) {
	c.ViewportW = width
	c.ViewportH = height
}

// zoomWheelStep converts one wheel unit into a multiplicative zoom
// step of about 10%.
const zoomWheelStep = 0.1

func zoomFactor(wheelDelta float64) float64 {
	f := 1 + wheelDelta*zoomWheelStep
	if f < 0.1 {
		f = 0.1
	}
	return f
}

// ScreenToWorld converts a screen point into world coordinates under
// the given camera. Pure; safe for host-side pointer handling.
func ScreenToWorld(c Camera, screenX, screenY float64) (float64, float64) {
	cx := float64(c.ViewportW) / 2
	cy := float64(c.ViewportH) / 2
	return (screenX-cx)/c.Zoom - c.OffsetX, (screenY-cy)/c.Zoom - c.OffsetY
}

// WorldToScreen is the inverse of ScreenToWorld.
func WorldToScreen(c Camera, worldX, worldY float64) (float64, float64) {
	cx := float64(c.ViewportW) / 2
	cy := float64(c.ViewportH) / 2
	return (worldX+c.OffsetX)*c.Zoom + cx, (worldY+c.OffsetY)*c.Zoom + cy
}
