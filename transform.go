package spritegraph

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/yohamta/donburi"
)

// Transform holds an entity's local spatial attributes. Z doubles as depth and
// as the sibling draw-order key (see Node.SortChildren).
//
// The cached absolute position is only valid while Dirty reports false. Every
// local-position setter marks the transform dirty; the traversal driver
// refreshes the cache each frame through SetAbsolutePos.
type Transform struct {
	pos mgl32.Vec3

	// W and H are the declared size in pixels. Used for untextured quads and
	// hit testing.
	W, H uint16

	// Visible gates rendering of this entity and its whole subtree.
	Visible bool

	// FlipX mirrors the sprite horizontally by swapping its U coordinates.
	FlipX bool

	absolute mgl32.Vec3
	dirty    bool
}

// NewTransform creates a transform at (x, y, z) with the given size.
func NewTransform(x, y, z float32, w, h uint16, visible bool) Transform {
	return Transform{
		pos:      mgl32.Vec3{x, y, z},
		W:        w,
		H:        h,
		Visible:  visible,
		absolute: mgl32.Vec3{x, y, z},
		dirty:    true,
	}
}

// VisibleTransform creates a visible transform at (x, y, z) with the given size.
func VisibleTransform(x, y, z float32, w, h uint16) Transform {
	return NewTransform(x, y, z, w, h, true)
}

// IdentityTransform creates a visible, zero-sized transform at the origin.
// Typical for grouping entities that only carry children.
func IdentityTransform() Transform {
	return VisibleTransform(0, 0, 0, 0, 0)
}

// Pos returns the local position.
func (t *Transform) Pos() mgl32.Vec3 {
	return t.pos
}

// SetPos sets the local position and marks the transform dirty.
func (t *Transform) SetPos(x, y, z float32) {
	t.pos = mgl32.Vec3{x, y, z}
	t.dirty = true
}

// SetPos2 sets the local x and y, keeping z, and marks the transform dirty.
func (t *Transform) SetPos2(x, y float32) {
	t.pos[0] = x
	t.pos[1] = y
	t.dirty = true
}

// Translate offsets the local position and marks the transform dirty.
func (t *Transform) Translate(dx, dy float32) {
	t.pos[0] += dx
	t.pos[1] += dy
	t.dirty = true
}

// Contains reports whether (x, y) lies inside the rectangle spanned by the
// local position and size. Points on the edge are inside. Only meaningful in
// the parent's coordinate space; used for hit testing before absolute
// positions are resolved.
func (t *Transform) Contains(x, y float32) bool {
	w := float32(t.W)
	h := float32(t.H)
	return t.pos[0] <= x && t.pos[0]+w >= x &&
		t.pos[1] <= y && t.pos[1]+h >= y
}

// AbsolutePos returns the cached absolute position. Check Dirty first.
func (t *Transform) AbsolutePos() mgl32.Vec3 {
	return t.absolute
}

// SetAbsolutePos stores a resolved absolute position and clears the dirty flag.
func (t *Transform) SetAbsolutePos(pos mgl32.Vec3) {
	t.absolute = pos
	t.dirty = false
}

// Dirty reports whether the local position changed since the absolute
// position was last resolved.
func (t *Transform) Dirty() bool {
	return t.dirty
}

// MarkDirty invalidates the cached absolute position.
func (t *Transform) MarkDirty() {
	t.dirty = true
}

// AbsolutePosition walks from e up through parent links, summing each local
// position, until an entity without a parent is reached. Entities without a
// Transform contribute nothing; a missing Node ends the walk.
//
// The sum is recomputed on every call. The render traversal accumulates the
// same value top-down instead, so this is for queries made outside of it.
func AbsolutePosition(e donburi.Entity, nodes NodeLookup, transforms TransformLookup) mgl32.Vec3 {
	var pos mgl32.Vec3
	next := e
	for {
		if t := transforms(next); t != nil {
			pos = pos.Add(t.pos)
		}
		n := nodes(next)
		if n == nil || !n.HasParent() {
			break
		}
		next = n.parent
	}
	return pos
}
