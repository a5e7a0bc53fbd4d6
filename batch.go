package spritegraph

import "github.com/go-gl/mathgl/mgl32"

// Vertex is one corner of a quad or triangle: position, normalized texture
// coordinate, and straight-alpha RGBA color.
type Vertex struct {
	Pos   mgl32.Vec3
	UV    mgl32.Vec2
	Color mgl32.Vec4
}

// uvRect is a normalized texture rectangle. U0 > U1 when flipped.
type uvRect struct {
	U0, V0, U1, V1 float32
}

// fullUV samples the whole texture.
var fullUV = uvRect{0, 0, 1, 1}

// frameUV normalizes a frame's pixel rectangle by the sheet's dimensions.
// Plain float division, no rounding or half-texel inset.
func frameUV(f Frame, sheetW, sheetH int) uvRect {
	sw := float32(sheetW)
	sh := float32(sheetH)
	return uvRect{
		U0: float32(f.X) / sw,
		V0: float32(f.Y) / sh,
		U1: float32(f.X+f.W) / sw,
		V1: float32(f.Y+f.H) / sh,
	}
}

// flipped swaps the rectangle's U coordinates left-right.
func (r uvRect) flipped() uvRect {
	r.U0, r.U1 = r.U1, r.U0
	return r
}

// appendQuad appends 4 vertices for a w×h quad whose top-left corner is at
// pos. Order is TL, TR, BR, BL with matching UVs.
func appendQuad(verts []Vertex, pos mgl32.Vec3, w, h float32, uv uvRect, color mgl32.Vec4) []Vertex {
	x, y, z := pos[0], pos[1], pos[2]
	return append(verts,
		Vertex{Pos: mgl32.Vec3{x, y, z}, UV: mgl32.Vec2{uv.U0, uv.V0}, Color: color},
		Vertex{Pos: mgl32.Vec3{x + w, y, z}, UV: mgl32.Vec2{uv.U1, uv.V0}, Color: color},
		Vertex{Pos: mgl32.Vec3{x + w, y + h, z}, UV: mgl32.Vec2{uv.U1, uv.V1}, Color: color},
		Vertex{Pos: mgl32.Vec3{x, y + h, z}, UV: mgl32.Vec2{uv.U0, uv.V1}, Color: color},
	)
}

// appendQuadIndices appends fan-triangulated indices (0,1,2),(2,3,0) for
// every quad from vertex firstVert up to numVerts. Trailing vertices that do
// not form a whole quad are ignored.
func appendQuadIndices(inds []uint32, firstVert, numVerts int) []uint32 {
	for base := firstVert; base+4 <= numVerts; base += 4 {
		b := uint32(base)
		inds = append(inds,
			b+0, b+1, b+2,
			b+2, b+3, b+0,
		)
	}
	return inds
}

// quadIndices builds the index buffer for a run of consecutive quads.
func quadIndices(dst []uint32, numVerts int) []uint32 {
	return appendQuadIndices(dst[:0], 0, numVerts)
}
