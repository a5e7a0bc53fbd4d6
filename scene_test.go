package spritegraph

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/yohamta/donburi"
)

func newTestScene(t *testing.T) (*Scene, *stubBackend) {
	t.Helper()
	r, b := newTestRenderer(t)
	x := NewSheetIndex(testSheet(t, "s1", "a", "b"), testSheet(t, "s2", "c"))
	return NewScene(donburi.NewWorld(), r, x, 320, 240), b
}

func TestNewSceneRegistersRoot(t *testing.T) {
	s, _ := newTestScene(t)
	e, ok := s.Lookup.Get(RootName)
	if !ok || e != s.Root() {
		t.Errorf("lookup root = %v, %v, want %v", e, ok, s.Root())
	}
	if TransformOf(s.World, s.Root()) == nil {
		t.Error("root should carry a transform")
	}
}

func TestSceneDraw(t *testing.T) {
	s, b := newTestScene(t)
	for i, name := range []string{"a", "a", "c"} {
		e := s.Spawn(donburi.Null, VisibleTransform(float32(i*10), 0, float32(i), 8, 8), SpriteComponent)
		SpriteComponent.SetValue(s.World.Entry(e), Sprite{FrameName: name})
	}

	if err := s.Draw(); err != nil {
		t.Fatal(err)
	}
	st := s.LastStats()
	if st.DrawCalls != 2 || st.Quads != 3 || st.SpriteBatches != 2 {
		t.Errorf("stats = %+v, want 2 draws 3 quads 2 batches", st)
	}
	if s.Frame() != 1 {
		t.Errorf("Frame = %d, want 1", s.Frame())
	}
	if b.calls[0].u.Projection != s.Camera.Projection() {
		t.Error("draws should use the camera projection")
	}

	// a second frame reports its own counts
	if err := s.Draw(); err != nil {
		t.Fatal(err)
	}
	if s.LastStats() != st {
		t.Errorf("second frame = %+v, want %+v", s.LastStats(), st)
	}
}

func TestSceneDrawErrorDiscards(t *testing.T) {
	s, b := newTestScene(t)
	ok := s.Spawn(donburi.Null, VisibleTransform(0, 0, 1, 8, 8), SpriteComponent)
	SpriteComponent.SetValue(s.World.Entry(ok), Sprite{FrameName: "a"})
	bad := s.Spawn(donburi.Null, VisibleTransform(0, 0, 2, 8, 8), SpriteComponent)
	SpriteComponent.SetValue(s.World.Entry(bad), Sprite{FrameName: "missing"})

	err := s.Draw()
	wantErrIs(t, err, ErrUnknownFrame)
	if s.Renderer.Pending() != 0 {
		t.Errorf("Pending = %d, want 0", s.Renderer.Pending())
	}
	if len(b.calls) != 0 {
		t.Errorf("draws = %d, want 0", len(b.calls))
	}
	if s.Frame() != 0 {
		t.Error("an aborted frame should not count")
	}
}

func TestSceneBackendError(t *testing.T) {
	s, b := newTestScene(t)
	e := s.Spawn(donburi.Null, VisibleTransform(0, 0, 1, 8, 8), SpriteComponent)
	SpriteComponent.SetValue(s.World.Entry(e), Sprite{FrameName: "a"})
	boom := errors.New("device lost")
	b.fail = boom
	wantErrIs(t, s.Draw(), boom)
}

func TestSceneTileMaps(t *testing.T) {
	s, b := newTestScene(t)
	tiles := &stubTexture{name: "terrain"}
	s.AddTileset("terrain", tiles)

	layer := BuildTileLayer([]uint32{1, 2}, 2, 16, 16, 1, testTileset)
	es := s.AddTileMaps(donburi.Null, []TileMap{layer})
	if len(es) != 1 {
		t.Fatalf("entities = %d, want 1", len(es))
	}
	if err := s.Draw(); err != nil {
		t.Fatal(err)
	}
	if s.LastStats().TileBatches != 1 || b.calls[0].tex != tiles {
		t.Errorf("stats = %+v, want one tile batch with the terrain texture", s.LastStats())
	}
}

func TestSceneUpdateAdvancesAnimations(t *testing.T) {
	s, _ := newTestScene(t)
	e := s.Spawn(donburi.Null, VisibleTransform(0, 0, 1, 8, 8), AnimationComponent)
	a := NewAnimationSheet(0.5)
	a.AddAnimation("blink", "a", "b")
	a.Play()
	AnimationComponent.SetValue(s.World.Entry(e), *a)

	s.Update(0.5)
	if got := AnimationComponent.Get(s.World.Entry(e)).CurrentFrame(); got != "b" {
		t.Errorf("frame = %s, want b", got)
	}
}

func TestSceneDebugLog(t *testing.T) {
	var buf bytes.Buffer
	prev := debugOut
	debugOut = &buf
	t.Cleanup(func() {
		debugOut = prev
		globalDebug = false
	})

	s, _ := newTestScene(t)
	s.SetDebugMode(true)
	e := s.Spawn(donburi.Null, VisibleTransform(0, 0, 1, 8, 8), SpriteComponent)
	SpriteComponent.SetValue(s.World.Entry(e), Sprite{FrameName: "a"})
	if err := s.Draw(); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	if !strings.Contains(out, "[spritegraph] frame 1") || !strings.Contains(out, "quads: 1") {
		t.Errorf("debug output = %q", out)
	}
}

func TestSheetIndexWarnsOnDuplicatesInDebug(t *testing.T) {
	var buf bytes.Buffer
	prev := debugOut
	debugOut = &buf
	globalDebug = true
	t.Cleanup(func() {
		debugOut = prev
		globalDebug = false
	})

	NewSheetIndex(testSheet(t, "s1", "x"), testSheet(t, "s2", "x"))
	if !strings.Contains(buf.String(), `frame "x" in sheet "s2" shadows sheet "s1"`) {
		t.Errorf("debug output = %q", buf.String())
	}
}
