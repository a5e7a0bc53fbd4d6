package spritegraph

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// WhiteSheet is the pseudo-sheet name for untextured quads. Its texture is
// the backend's 1x1 white fallback.
const WhiteSheet = "white_texture"

// FrameStats counts the work submitted during one frame.
type FrameStats struct {
	DrawCalls     int // every backend submission
	SpriteBatches int // flushes of the pending quad batch
	Quads         int // quads appended through Render
	TileBatches   int // DrawBatch submissions
	TextDraws     int
	ShapeDraws    int
}

// Renderer batches textured quads and submits them through a Backend.
//
// Quads accumulate for the active sheet. The batch is flushed exactly when a
// quad needs a different texture, when DrawBatch or a model-matrix change
// requires it, or when the caller forces it at the end of the frame. Every
// vertex in the pending batch therefore belongs to the active sheet.
//
// A Renderer is owned by one Scene and used from one goroutine.
type Renderer struct {
	backend  Backend
	pipeline Pipeline
	white    Texture
	glyphs   GlyphRenderer
	filter   Filter

	projection mgl32.Mat4
	model      mgl32.Mat4

	// text scaling, see SetTextScale
	hidpi     float32
	baseScale mgl32.Vec2

	activeSheet string
	activeTex   Texture
	batch       []Vertex
	batchInds   []uint32
	extraInds   []uint32

	call  DrawCall
	stats FrameStats
}

// RendererOption configures a Renderer at construction.
type RendererOption func(*Renderer)

// WithPipeline overrides DefaultPipeline.
func WithPipeline(p Pipeline) RendererOption {
	return func(r *Renderer) { r.pipeline = p }
}

// WithGlyphRenderer sets the collaborator used by RenderText. Without one,
// text components are skipped.
func WithGlyphRenderer(g GlyphRenderer) RendererOption {
	return func(r *Renderer) { r.glyphs = g }
}

// WithSheetFilter sets the sampler filter for sheet textures. Default linear.
func WithSheetFilter(f Filter) RendererOption {
	return func(r *Renderer) { r.filter = f }
}

// WithProjection sets the initial projection matrix. Default identity.
func WithProjection(m mgl32.Mat4) RendererOption {
	return func(r *Renderer) { r.projection = m }
}

// NewRenderer configures the backend pipeline once and obtains the white
// fallback texture.
func NewRenderer(b Backend, opts ...RendererOption) (*Renderer, error) {
	r := &Renderer{
		backend:    b,
		pipeline:   DefaultPipeline,
		filter:     FilterLinear,
		projection: mgl32.Ident4(),
		model:      mgl32.Ident4(),
		hidpi:      1,
		baseScale:  mgl32.Vec2{1, 1},
		batch:      make([]Vertex, 0, 4*256),
		batchInds:  make([]uint32, 0, 6*256),
	}
	for _, opt := range opts {
		opt(r)
	}
	white, err := b.Init(r.pipeline)
	if err != nil {
		return nil, fmt.Errorf("spritegraph: init backend: %w", err)
	}
	r.white = white
	return r, nil
}

// Render appends one quad for t to the pending batch.
//
// With a frame name, the quad samples that frame and takes the frame's
// untrimmed source size. Without one (""), it is an untextured quad of the
// transform's declared size on the white pseudo-sheet. If the quad's sheet
// differs from the active one, the pending batch is flushed before the
// active sheet changes. color overrides opaque white when non-nil. The
// quad's top-left corner is placed at abs.
//
// Unknown frame names fail with ErrUnknownFrame and nothing is appended.
func (r *Renderer) Render(t *Transform, frameName string, sheets *SheetIndex, color *Color, abs mgl32.Vec3) error {
	w := float32(t.W)
	h := float32(t.H)
	uv := fullUV

	if frameName != "" {
		if sheets == nil {
			return fmt.Errorf("spritegraph: frame %q without a sheet index: %w", frameName, ErrUnknownFrame)
		}
		f, sheet, err := sheets.Frame(frameName)
		if err != nil {
			return err
		}
		if err := r.switchSheet(sheet.Name, sheet.Texture); err != nil {
			return err
		}
		uv = frameUV(f, sheet.Width, sheet.Height)
		w = float32(f.SourceW)
		h = float32(f.SourceH)
	} else if err := r.switchSheet(WhiteSheet, r.white); err != nil {
		return err
	}

	if t.FlipX {
		uv = uv.flipped()
	}

	c := ColorWhite
	if color != nil {
		c = *color
	}
	r.batch = appendQuad(r.batch, abs, w, h, uv, c.vec4())
	r.stats.Quads++
	return nil
}

// switchSheet flushes the pending batch if sheet is not the active sheet,
// then makes it active.
func (r *Renderer) switchSheet(sheet string, tex Texture) error {
	if r.activeSheet == sheet {
		return nil
	}
	if err := r.Flush(sheet, false); err != nil {
		return err
	}
	r.activeSheet = sheet
	r.activeTex = tex
	return nil
}

// Flush submits the pending batch as one draw call and clears it, if the
// batch is non-empty and either force is set or the active sheet differs from
// current. Call with force at the end of every frame.
func (r *Renderer) Flush(current string, force bool) error {
	if len(r.batch) == 0 {
		return nil
	}
	if r.activeSheet == current && !force {
		return nil
	}

	tex, filter := r.activeTex, r.filter
	if r.activeSheet == WhiteSheet {
		tex, filter = r.white, FilterNearest
	}
	if tex == nil {
		return fmt.Errorf("spritegraph: sheet %q has no texture: %w", r.activeSheet, ErrInvalidSheet)
	}

	r.batchInds = quadIndices(r.batchInds, len(r.batch))
	err := r.draw(r.batch, r.batchInds, tex, filter)
	r.batch = r.batch[:0]
	if err != nil {
		return err
	}
	r.stats.SpriteBatches++
	return nil
}

// Discard drops the pending batch without drawing it. Used when a frame is
// aborted part way through.
func (r *Renderer) Discard() {
	r.batch = r.batch[:0]
}

// DrawBatch draws pre-triangulated quads (4 vertices each, such as a baked
// tile map) with tex in a call of their own. Any pending sprite batch is
// flushed first; afterwards sheet is the active sheet.
func (r *Renderer) DrawBatch(vertices []Vertex, sheet string, tex Texture) error {
	if err := r.Flush(sheet, true); err != nil {
		return err
	}
	r.activeSheet = sheet
	r.activeTex = tex
	if len(vertices) < 4 {
		return nil
	}
	r.extraInds = quadIndices(r.extraInds, len(vertices))
	if err := r.draw(vertices, r.extraInds, tex, r.filter); err != nil {
		return err
	}
	r.stats.TileBatches++
	return nil
}

// RenderShape draws a shape's own vertex and index buffers with the white
// texture, immediately. The pending sprite batch is not touched, so callers
// that need strict painter order flush first.
func (r *Renderer) RenderShape(s *Shape) error {
	if len(s.Vertices) == 0 {
		return nil
	}
	inds := s.Indices
	if len(inds) == 0 {
		r.extraInds = quadIndices(r.extraInds, len(s.Vertices))
		inds = r.extraInds
	}
	if err := r.draw(s.Vertices, inds, r.white, FilterNearest); err != nil {
		return err
	}
	r.stats.ShapeDraws++
	return nil
}

// RenderText draws text at abs through the glyph collaborator, immediately.
// Like RenderShape, it leaves the pending sprite batch alone. Empty or
// hidden text and a Renderer without a GlyphRenderer draw nothing.
func (r *Renderer) RenderText(t *Text, abs mgl32.Vec3, color Color) error {
	if t.Content == "" || !t.Visible {
		return nil
	}
	if r.glyphs == nil {
		if globalDebug {
			debugf("warning: text %q skipped, no glyph renderer", t.Content)
		}
		return nil
	}
	req := TextDraw{
		Content: t.Content,
		Pos:     abs,
		Size:    t.Size * r.hidpi * r.baseScale[1],
		Bounds: mgl32.Vec2{
			t.Bounds[0] * r.hidpi * r.baseScale[0],
			t.Bounds[1] * r.hidpi * r.baseScale[1],
		},
		Align: t.Align,
		Color: color,
	}
	if err := r.glyphs.DrawText(&req, r.uniforms()); err != nil {
		return fmt.Errorf("spritegraph: draw text: %w", err)
	}
	r.stats.DrawCalls++
	r.stats.TextDraws++
	return nil
}

// Transform composes a translation by delta into the model matrix, or its
// inverse when undo is set. A pending batch is flushed first so that one
// draw call never spans two model matrices.
func (r *Renderer) Transform(delta mgl32.Vec3, undo bool) error {
	if delta == (mgl32.Vec3{}) {
		return nil
	}
	if err := r.Flush(r.activeSheet, true); err != nil {
		return err
	}
	if undo {
		delta = delta.Mul(-1)
	}
	r.model = r.model.Mul4(mgl32.Translate3D(delta[0], delta[1], delta[2]))
	return nil
}

// ResetTransform flushes and restores the identity model matrix.
func (r *Renderer) ResetTransform() error {
	if err := r.Flush(r.activeSheet, true); err != nil {
		return err
	}
	r.model = mgl32.Ident4()
	return nil
}

// Model returns the current model matrix.
func (r *Renderer) Model() mgl32.Mat4 {
	return r.model
}

// SetProjection replaces the projection matrix used by subsequent draws.
func (r *Renderer) SetProjection(m mgl32.Mat4) {
	r.projection = m
}

// SetTextScale sets the HiDPI factor and base-resolution scale applied to
// text sizes and bounds.
func (r *Renderer) SetTextScale(hidpi float32, base mgl32.Vec2) {
	r.hidpi = hidpi
	r.baseScale = base
}

// ActiveSheet returns the name of the sheet the pending batch belongs to.
func (r *Renderer) ActiveSheet() string {
	return r.activeSheet
}

// Pending returns the number of quads waiting in the batch.
func (r *Renderer) Pending() int {
	return len(r.batch) / 4
}

// Stats returns the counters accumulated since the last ResetStats.
func (r *Renderer) Stats() FrameStats {
	return r.stats
}

// ResetStats zeroes the counters and returns their previous values.
func (r *Renderer) ResetStats() FrameStats {
	s := r.stats
	r.stats = FrameStats{}
	return s
}

func (r *Renderer) uniforms() Uniforms {
	return Uniforms{Projection: r.projection, Model: r.model}
}

func (r *Renderer) draw(verts []Vertex, inds []uint32, tex Texture, filter Filter) error {
	r.call = DrawCall{
		Vertices: verts,
		Indices:  inds,
		Texture:  tex,
		Filter:   filter,
		Uniforms: r.uniforms(),
	}
	err := r.backend.DrawTriangles(&r.call)
	r.call = DrawCall{}
	if err != nil {
		return fmt.Errorf("spritegraph: draw: %w", err)
	}
	r.stats.DrawCalls++
	return nil
}
