package spritegraph

import (
	"bytes"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

// Text is a text label attached to an entity. It is drawn only when the
// entity also has a Color component.
type Text struct {
	Content string
	Size    float32    // font size in pixels at base resolution
	Bounds  mgl32.Vec2 // layout box; width is used for alignment
	Align   TextAlign
	Visible bool
}

// NewText creates a visible, left-aligned label.
func NewText(content string, size float32, bounds mgl32.Vec2) Text {
	return Text{Content: content, Size: size, Bounds: bounds, Visible: true}
}

// TextDraw is one glyph-run request. Size and Bounds are already scaled for
// HiDPI and base resolution; Pos is in model space.
type TextDraw struct {
	Content string
	Pos     mgl32.Vec3
	Size    float32
	Bounds  mgl32.Vec2
	Align   TextAlign
	Color   Color
}

// GlyphRenderer rasterizes text. Implementations draw immediately using the
// given matrices.
type GlyphRenderer interface {
	DrawText(req *TextDraw, u Uniforms) error
}

// EbitenGlyphs renders text with ebiten's text/v2 onto an EbitenBackend's
// current target.
type EbitenGlyphs struct {
	backend *EbitenBackend
	source  *text.GoTextFaceSource
	faces   map[float32]*text.GoTextFace
	op      text.DrawOptions
}

// NewEbitenGlyphs parses ttf (Go Regular when nil) and draws onto backend's
// target.
func NewEbitenGlyphs(backend *EbitenBackend, ttf []byte) (*EbitenGlyphs, error) {
	if ttf == nil {
		ttf = goregular.TTF
	}
	source, err := text.NewGoTextFaceSource(bytes.NewReader(ttf))
	if err != nil {
		return nil, fmt.Errorf("spritegraph: parse font: %w", err)
	}
	return &EbitenGlyphs{
		backend: backend,
		source:  source,
		faces:   make(map[float32]*text.GoTextFace),
	}, nil
}

// face returns the cached face for size, creating it on first use.
func (g *EbitenGlyphs) face(size float32) *text.GoTextFace {
	f, ok := g.faces[size]
	if !ok {
		f = &text.GoTextFace{Source: g.source, Size: float64(size)}
		g.faces[size] = f
	}
	return f
}

// Measure returns the laid-out size of content at the given font size.
func (g *EbitenGlyphs) Measure(content string, size float32) (w, h float64) {
	f := g.face(size)
	return text.Measure(content, f, lineHeight(f))
}

// DrawText projects req.Pos to target pixels and draws the string there,
// aligned within req.Bounds.
func (g *EbitenGlyphs) DrawText(req *TextDraw, u Uniforms) error {
	target := g.backend.Target()
	if target == nil {
		return ErrNoTarget
	}
	tb := target.Bounds()
	x, y := projectVertex(u.MVP(), req.Pos, float32(tb.Dx()), float32(tb.Dy()))
	x += float32(tb.Min.X)
	y += float32(tb.Min.Y)

	f := g.face(req.Size)
	g.op = text.DrawOptions{}
	switch req.Align {
	case TextAlignCenter:
		g.op.PrimaryAlign = text.AlignCenter
		x += req.Bounds[0] / 2
	case TextAlignRight:
		g.op.PrimaryAlign = text.AlignEnd
		x += req.Bounds[0]
	}
	g.op.GeoM.Translate(float64(x), float64(y))
	g.op.ColorScale.ScaleWithColor(req.Color.toRGBA())
	g.op.LineSpacing = lineHeight(f)
	text.Draw(target, req.Content, f, &g.op)
	return nil
}

func lineHeight(f *text.GoTextFace) float64 {
	m := f.Metrics()
	return m.HAscent + m.HDescent + m.HLineGap
}
