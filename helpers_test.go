package spritegraph

import (
	"errors"
	"testing"

	"github.com/yohamta/donburi"
)

// --- Stub backend ---

type stubTexture struct {
	name string
	w, h int
}

func (t *stubTexture) Size() (int, int) { return t.w, t.h }

type recordedCall struct {
	verts  []Vertex
	inds   []uint32
	tex    Texture
	filter Filter
	u      Uniforms
}

// stubBackend records every draw call. Slices are copied because the
// Renderer reuses its buffers.
type stubBackend struct {
	white    *stubTexture
	pipeline Pipeline
	inits    int
	calls    []recordedCall
	fail     error
}

func newStubBackend() *stubBackend {
	return &stubBackend{white: &stubTexture{name: "white", w: 1, h: 1}}
}

func (b *stubBackend) Init(p Pipeline) (Texture, error) {
	b.inits++
	b.pipeline = p
	return b.white, nil
}

func (b *stubBackend) DrawTriangles(call *DrawCall) error {
	if b.fail != nil {
		return b.fail
	}
	b.calls = append(b.calls, recordedCall{
		verts:  append([]Vertex(nil), call.Vertices...),
		inds:   append([]uint32(nil), call.Indices...),
		tex:    call.Texture,
		filter: call.Filter,
		u:      call.Uniforms,
	})
	return nil
}

func newTestRenderer(t *testing.T, opts ...RendererOption) (*Renderer, *stubBackend) {
	t.Helper()
	b := newStubBackend()
	r, err := NewRenderer(b, opts...)
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	return r, b
}

// --- Sheet fixtures ---

// testSheet builds a 200x100 sheet whose frames are 10x10 squares named
// after the given names, laid out left to right.
func testSheet(t *testing.T, name string, frames ...string) *SpriteSheet {
	t.Helper()
	fs := make([]Frame, len(frames))
	for i, f := range frames {
		fs[i] = Frame{Name: f, X: i * 10, Y: 0, W: 10, H: 10, SourceW: 10, SourceH: 10}
	}
	s, err := NewSpriteSheet(name, 200, 100, fs, &stubTexture{name: name, w: 200, h: 100})
	if err != nil {
		t.Fatalf("NewSpriteSheet: %v", err)
	}
	return s
}

// --- World fixtures ---

func spawnAt(w donburi.World, parent donburi.Entity, x, y, z float32) donburi.Entity {
	return Spawn(w, parent, VisibleTransform(x, y, z, 8, 8))
}

func setSprite(w donburi.World, e donburi.Entity, frame string) {
	entry := w.Entry(e)
	if !entry.HasComponent(SpriteComponent) {
		entry.AddComponent(SpriteComponent)
	}
	SpriteComponent.SetValue(w.Entry(e), Sprite{FrameName: frame})
}

func wantErrIs(t *testing.T, err, target error) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Errorf("err = %v, want %v", err, target)
	}
}
