package ecs

import (
	"errors"
	"testing"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"

	"github.com/phanxgames/spritegraph"
)

type nopTexture struct{}

func (nopTexture) Size() (int, int) { return 1, 1 }

// countingBackend counts draw calls and can be told to fail.
type countingBackend struct {
	draws int
	fail  error
}

func (b *countingBackend) Init(spritegraph.Pipeline) (spritegraph.Texture, error) {
	return nopTexture{}, nil
}

func (b *countingBackend) DrawTriangles(*spritegraph.DrawCall) error {
	if b.fail != nil {
		return b.fail
	}
	b.draws++
	return nil
}

func newTestScene(t *testing.T, w donburi.World, frame string) (*spritegraph.Scene, *countingBackend) {
	t.Helper()
	b := &countingBackend{}
	r, err := spritegraph.NewRenderer(b)
	if err != nil {
		t.Fatal(err)
	}
	frames := []spritegraph.Frame{{Name: "a", W: 8, H: 8, SourceW: 8, SourceH: 8}}
	sheet, err := spritegraph.NewSpriteSheet("s", 8, 8, frames, nopTexture{})
	if err != nil {
		t.Fatal(err)
	}
	scene := spritegraph.NewScene(w, r, spritegraph.NewSheetIndex(sheet), 320, 240)
	e := scene.Spawn(donburi.Null, spritegraph.VisibleTransform(0, 0, 1, 8, 8), spritegraph.SpriteComponent)
	spritegraph.SpriteComponent.SetValue(w.Entry(e), spritegraph.Sprite{FrameName: frame})
	return scene, b
}

func TestRenderSystemPublishesStats(t *testing.T) {
	w := donburi.NewWorld()
	scene, b := newTestScene(t, w, "a")
	e := ecs.NewECS(w)
	rs := Install(e, 0, scene, nil)

	var got []spritegraph.FrameStats
	FrameStatsEvent.Subscribe(w, func(_ donburi.World, s spritegraph.FrameStats) {
		got = append(got, s)
	})

	rs.Draw(e, nil)
	rs.Draw(e, nil)
	ProcessEvents(w)

	if len(got) != 2 {
		t.Fatalf("expected 2 stats events, got %d", len(got))
	}
	if got[0].Quads != 1 || got[0].DrawCalls != 1 {
		t.Errorf("stats: %+v", got[0])
	}
	if b.draws != 2 {
		t.Errorf("draws = %d, want 2", b.draws)
	}
	if rs.Err() != nil {
		t.Errorf("Err = %v", rs.Err())
	}
}

func TestRenderSystemPublishesError(t *testing.T) {
	w := donburi.NewWorld()
	scene, _ := newTestScene(t, w, "missing")
	e := ecs.NewECS(w)
	rs := NewRenderSystem(scene, nil)

	var errs []error
	FrameErrorEvent.Subscribe(w, func(_ donburi.World, err error) {
		errs = append(errs, err)
	})
	statsEvents := 0
	FrameStatsEvent.Subscribe(w, func(donburi.World, spritegraph.FrameStats) {
		statsEvents++
	})

	rs.Draw(e, nil)
	ProcessEvents(w)

	if len(errs) != 1 {
		t.Fatalf("expected 1 error event, got %d", len(errs))
	}
	if rs.Err() == nil {
		t.Error("Err should keep the failed frame's error")
	}
	if statsEvents != 0 {
		t.Errorf("a failed frame published %d stats events", statsEvents)
	}
}

func TestRenderSystemErrClearsAfterCleanFrame(t *testing.T) {
	w := donburi.NewWorld()
	scene, b := newTestScene(t, w, "a")
	e := ecs.NewECS(w)
	rs := NewRenderSystem(scene, nil)

	b.fail = errors.New("device lost")
	rs.Draw(e, nil)
	if rs.Err() == nil {
		t.Fatal("Err should report the failed frame")
	}

	b.fail = nil
	rs.Draw(e, nil)
	if rs.Err() != nil {
		t.Errorf("Err = %v after a clean frame, want nil", rs.Err())
	}
}
