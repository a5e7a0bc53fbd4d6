package spritegraph

import (
	"fmt"
	"image/color"
	_ "image/png" // register PNG decoder for sheet textures
	"io/fs"
	"path"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// EbitenTexture wraps an *ebiten.Image as a Texture. Sub-images are fine;
// UVs are mapped into the image's bounds.
type EbitenTexture struct {
	Image *ebiten.Image
}

// Size returns the pixel size of the image's bounds.
func (t *EbitenTexture) Size() (int, int) {
	b := t.Image.Bounds()
	return b.Dx(), b.Dy()
}

// EbitenBackend draws through ebiten's DrawTriangles32 onto a target image.
//
// Vertices are projected on the CPU: the call's MVP takes them to normalized
// device coordinates, which are then mapped onto the target's pixel grid.
// ebiten has no depth buffer, so the pipeline's depth settings are accepted
// but painter order (the traversal's z sort) decides overlap.
type EbitenBackend struct {
	target *ebiten.Image
	blend  ebiten.Blend
	white  *EbitenTexture

	verts []ebiten.Vertex
	op    ebiten.DrawTrianglesOptions
}

// NewEbitenBackend creates a backend with no target. Call SetTarget before
// each frame.
func NewEbitenBackend() *EbitenBackend {
	return &EbitenBackend{blend: ebiten.BlendSourceOver}
}

// SetTarget sets the image subsequent draws render into.
func (b *EbitenBackend) SetTarget(img *ebiten.Image) {
	b.target = img
}

// Target returns the current target image.
func (b *EbitenBackend) Target() *ebiten.Image {
	return b.target
}

// Init stores the blend mode and creates the 1x1 white texture.
func (b *EbitenBackend) Init(p Pipeline) (Texture, error) {
	b.blend = p.Blend.EbitenBlend()
	if b.white == nil {
		img := ebiten.NewImage(1, 1)
		img.Fill(color.RGBA{R: 255, G: 255, B: 255, A: 255})
		b.white = &EbitenTexture{Image: img}
	}
	return b.white, nil
}

// DrawTriangles projects the call's vertices into target pixels and issues a
// single DrawTriangles32.
func (b *EbitenBackend) DrawTriangles(call *DrawCall) error {
	if b.target == nil {
		return ErrNoTarget
	}
	tex, ok := call.Texture.(*EbitenTexture)
	if !ok || tex == nil || tex.Image == nil {
		return fmt.Errorf("spritegraph: ebiten backend cannot draw texture %T", call.Texture)
	}
	if len(call.Vertices) == 0 || len(call.Indices) == 0 {
		return nil
	}

	tb := b.target.Bounds()
	tw, th := float32(tb.Dx()), float32(tb.Dy())
	src := tex.Image.Bounds()
	sw, sh := float32(src.Dx()), float32(src.Dy())
	sx, sy := float32(src.Min.X), float32(src.Min.Y)
	mvp := call.Uniforms.MVP()

	if cap(b.verts) < len(call.Vertices) {
		b.verts = make([]ebiten.Vertex, len(call.Vertices))
	}
	out := b.verts[:len(call.Vertices)]
	for i := range call.Vertices {
		v := &call.Vertices[i]
		x, y := projectVertex(mvp, v.Pos, tw, th)
		a := v.Color[3]
		out[i] = ebiten.Vertex{
			DstX:   x + float32(tb.Min.X),
			DstY:   y + float32(tb.Min.Y),
			SrcX:   sx + v.UV[0]*sw,
			SrcY:   sy + v.UV[1]*sh,
			ColorR: v.Color[0] * a,
			ColorG: v.Color[1] * a,
			ColorB: v.Color[2] * a,
			ColorA: a,
		}
	}

	b.op = ebiten.DrawTrianglesOptions{}
	b.op.Blend = b.blend
	b.op.Filter = call.Filter.ebitenFilter()
	b.op.ColorScaleMode = ebiten.ColorScaleModePremultipliedAlpha
	b.target.DrawTriangles32(out, call.Indices, tex.Image, &b.op)
	return nil
}

// projectVertex maps a model-space position through mvp to pixel coordinates
// on a w x h target. NDC y points up; pixel y points down.
func projectVertex(mvp mgl32.Mat4, pos mgl32.Vec3, w, h float32) (float32, float32) {
	clip := mvp.Mul4x1(pos.Vec4(1))
	if clip[3] != 0 && clip[3] != 1 {
		clip = clip.Mul(1 / clip[3])
	}
	return (clip[0] + 1) * 0.5 * w, (1 - clip[1]) * 0.5 * h
}

// LoadEbitenTexture decodes an image file from fsys.
func LoadEbitenTexture(fsys fs.FS, name string) (*EbitenTexture, error) {
	img, _, err := ebitenutil.NewImageFromFileSystem(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("spritegraph: load texture %q: %w", name, err)
	}
	return &EbitenTexture{Image: img}, nil
}

// EbitenTextureLoader returns a TextureLoader reading "<dir>/<sheet>.png".
func EbitenTextureLoader(fsys fs.FS, dir string) TextureLoader {
	return func(sheet string) (Texture, error) {
		return LoadEbitenTexture(fsys, path.Join(dir, sheet+".png"))
	}
}
