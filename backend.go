package spritegraph

import "github.com/go-gl/mathgl/mgl32"

// Texture is a drawable texture handle owned by a Backend.
type Texture interface {
	// Size returns the texture's pixel dimensions.
	Size() (width, height int)
}

// Pipeline is the fixed-function state a Backend is configured with once,
// when the Renderer is created.
type Pipeline struct {
	Blend      BlendMode
	Depth      DepthFunc
	DepthWrite bool
}

// DefaultPipeline is alpha blending with a less-or-equal depth test that
// writes depth.
var DefaultPipeline = Pipeline{
	Blend:      BlendAlpha,
	Depth:      DepthLessEqual,
	DepthWrite: true,
}

// Uniforms are the per-draw matrices shared by every draw kind.
type Uniforms struct {
	Projection mgl32.Mat4
	Model      mgl32.Mat4
}

// MVP returns Projection * Model.
func (u Uniforms) MVP() mgl32.Mat4 {
	return u.Projection.Mul4(u.Model)
}

// DrawCall is one GPU submission: an indexed triangle list sampled from a
// single texture.
type DrawCall struct {
	Vertices []Vertex
	Indices  []uint32
	Texture  Texture
	Filter   Filter
	Uniforms Uniforms
}

// Backend is the graphics API the Renderer draws through.
//
// Implementations must not retain DrawCall slices after DrawTriangles
// returns; the Renderer reuses them.
type Backend interface {
	// Init applies the pipeline state and returns a 1x1 opaque white
	// texture used for untextured quads and shapes.
	Init(p Pipeline) (white Texture, err error)

	// DrawTriangles issues one draw call.
	DrawTriangles(call *DrawCall) error
}
