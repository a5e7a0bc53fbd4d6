package spritegraph

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Rect is an axis-aligned rectangle.
type Rect struct {
	X, Y, W, H float32
}

// scrollAnim holds active scroll-to tweens for camera X and Y.
type scrollAnim struct {
	tweenX *gween.Tween
	tweenY *gween.Tween
	doneX  bool
	doneY  bool
}

// Camera produces the projection matrix handed to the Renderer each frame:
// an orthographic projection of the viewport composed with a view that
// centres (X, Y) and applies Zoom.
type Camera struct {
	// X and Y are the world-space position the camera centers on.
	X, Y float32
	// Zoom is the scale factor (1 = no zoom, >1 = zoom in).
	Zoom float32
	// Width and Height are the logical viewport size in pixels.
	Width, Height float32

	// BoundsEnabled clamps the camera so the visible area stays within Bounds.
	BoundsEnabled bool
	Bounds        Rect

	follow        *Transform
	followOffsetX float32
	followOffsetY float32
	followLerp    float32

	scroll *scrollAnim
}

// NewCamera creates a camera for a w×h viewport looking at its centre.
func NewCamera(w, h float32) *Camera {
	return &Camera{X: w / 2, Y: h / 2, Zoom: 1, Width: w, Height: h}
}

// OrthoProjection maps pixel space (origin top-left, y down) of a w×h
// viewport to clip space. Depth runs from 0 (far) to 100 (near) with the z
// axis flipped so a larger z is closer to the viewer.
func OrthoProjection(w, h float32) mgl32.Mat4 {
	m := mgl32.Ortho(0, w, h, 0, 100, 0)
	m[10] *= -1
	return m
}

// View returns Translate(viewport centre) * Scale(zoom) * Translate(-X, -Y).
func (c *Camera) View() mgl32.Mat4 {
	z := c.Zoom
	if z == 0 {
		z = 1
	}
	return mgl32.Translate3D(c.Width/2, c.Height/2, 0).
		Mul4(mgl32.Scale3D(z, z, 1)).
		Mul4(mgl32.Translate3D(-c.X, -c.Y, 0))
}

// Projection returns OrthoProjection(Width, Height) * View().
func (c *Camera) Projection() mgl32.Mat4 {
	return OrthoProjection(c.Width, c.Height).Mul4(c.View())
}

// WorldToScreen converts world coordinates to viewport pixels.
func (c *Camera) WorldToScreen(wx, wy float32) (float32, float32) {
	p := c.View().Mul4x1(mgl32.Vec4{wx, wy, 0, 1})
	return p[0], p[1]
}

// ScreenToWorld converts viewport pixels to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float32) (float32, float32) {
	p := c.View().Inv().Mul4x1(mgl32.Vec4{sx, sy, 0, 1})
	return p[0], p[1]
}

// VisibleBounds returns the world-space rectangle the camera sees.
func (c *Camera) VisibleBounds() Rect {
	x0, y0 := c.ScreenToWorld(0, 0)
	x1, y1 := c.ScreenToWorld(c.Width, c.Height)
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Follow makes the camera track t's resolved absolute position plus an
// offset. A lerp of 1 snaps; lower values smooth.
func (c *Camera) Follow(t *Transform, offsetX, offsetY, lerp float32) {
	c.follow = t
	c.followOffsetX = offsetX
	c.followOffsetY = offsetY
	c.followLerp = lerp
}

// Unfollow stops tracking.
func (c *Camera) Unfollow() {
	c.follow = nil
}

// ScrollTo animates the camera to the given world position over duration seconds.
func (c *Camera) ScrollTo(x, y, duration float32, easeFn ease.TweenFunc) {
	c.scroll = &scrollAnim{
		tweenX: gween.New(c.X, x, duration, easeFn),
		tweenY: gween.New(c.Y, y, duration, easeFn),
	}
}

// Scrolling reports whether a ScrollTo animation is in progress.
func (c *Camera) Scrolling() bool {
	return c.scroll != nil
}

// SetBounds enables bounds clamping.
func (c *Camera) SetBounds(b Rect) {
	c.BoundsEnabled = true
	c.Bounds = b
}

// ClearBounds disables bounds clamping.
func (c *Camera) ClearBounds() {
	c.BoundsEnabled = false
}

// Update advances follow, scroll, and bounds clamping by dt seconds.
func (c *Camera) Update(dt float32) {
	if c.follow != nil {
		p := c.follow.AbsolutePos()
		c.X += (p[0] + c.followOffsetX - c.X) * c.followLerp
		c.Y += (p[1] + c.followOffsetY - c.Y) * c.followLerp
	}

	if c.scroll != nil {
		if !c.scroll.doneX {
			c.X, c.scroll.doneX = c.scroll.tweenX.Update(dt)
		}
		if !c.scroll.doneY {
			c.Y, c.scroll.doneY = c.scroll.tweenY.Update(dt)
		}
		if c.scroll.doneX && c.scroll.doneY {
			c.scroll = nil
		}
	}

	if c.BoundsEnabled {
		c.clampToBounds()
	}
}

// clampToBounds restricts the camera so the visible area stays within Bounds.
// Bounds smaller than the visible area centre the camera.
func (c *Camera) clampToBounds() {
	z := c.Zoom
	if z == 0 {
		z = 1
	}
	halfW := c.Width / (2 * z)
	halfH := c.Height / (2 * z)

	minX := c.Bounds.X + halfW
	maxX := c.Bounds.X + c.Bounds.W - halfW
	minY := c.Bounds.Y + halfH
	maxY := c.Bounds.Y + c.Bounds.H - halfH

	if minX > maxX {
		c.X = c.Bounds.X + c.Bounds.W/2
	} else {
		c.X = mgl32.Clamp(c.X, minX, maxX)
	}
	if minY > maxY {
		c.Y = c.Bounds.Y + c.Bounds.H/2
	} else {
		c.Y = mgl32.Clamp(c.Y, minY, maxY)
	}
}
