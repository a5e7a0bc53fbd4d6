package spritegraph

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Shape is untextured geometry drawn with the white texture. Vertices are in
// the owning entity's local space; the traversal's model translation places
// them. Empty Indices means consecutive quads.
type Shape struct {
	Vertices []Vertex
	Indices  []uint32
}

// RectShape builds a filled w×h rectangle with its top-left corner at origin.
func RectShape(w, h, z float32, c Color) Shape {
	verts := appendQuad(nil, mgl32.Vec3{0, 0, z}, w, h, fullUV, c.vec4())
	return Shape{Vertices: verts, Indices: quadIndices(nil, len(verts))}
}

// PolygonShape builds a filled convex polygon as a triangle fan from the
// first point. Fewer than 3 points yield an empty shape.
func PolygonShape(points []mgl32.Vec2, z float32, c Color) Shape {
	n := len(points)
	if n < 3 {
		return Shape{}
	}
	col := c.vec4()
	verts := make([]Vertex, n)
	for i, p := range points {
		verts[i] = Vertex{Pos: mgl32.Vec3{p[0], p[1], z}, Color: col}
	}
	inds := make([]uint32, 0, (n-2)*3)
	for i := 1; i < n-1; i++ {
		inds = append(inds, 0, uint32(i), uint32(i+1))
	}
	return Shape{Vertices: verts, Indices: inds}
}

// CircleShape approximates a filled circle centred on (cx, cy) with the given
// number of segments (minimum 3).
func CircleShape(cx, cy, radius, z float32, segments int, c Color) Shape {
	if segments < 3 {
		segments = 3
	}
	points := make([]mgl32.Vec2, segments)
	step := 2 * math.Pi / float64(segments)
	for i := range points {
		a := float64(i) * step
		points[i] = mgl32.Vec2{
			cx + radius*float32(math.Cos(a)),
			cy + radius*float32(math.Sin(a)),
		}
	}
	return PolygonShape(points, z, c)
}

// LineShape builds a segment from a to b as a quad of the given thickness.
func LineShape(a, b mgl32.Vec2, thickness, z float32, c Color) Shape {
	d := b.Sub(a)
	l := d.Len()
	if l == 0 {
		return Shape{}
	}
	// half-thickness normal
	nx := -d[1] / l * thickness / 2
	ny := d[0] / l * thickness / 2
	return PolygonShape([]mgl32.Vec2{
		{a[0] + nx, a[1] + ny},
		{b[0] + nx, b[1] + ny},
		{b[0] - nx, b[1] - ny},
		{a[0] - nx, a[1] - ny},
	}, z, c)
}
