package spritegraph

import (
	"testing"
	"testing/fstest"

	"github.com/go-gl/mathgl/mgl32"
)

const arraySheetJSON = `{
	"frames": [
		{"filename": "hero_idle", "frame": {"x": 10, "y": 20, "w": 50, "h": 25},
		 "rotated": false, "trimmed": true,
		 "spriteSourceSize": {"x": 2, "y": 3, "w": 50, "h": 25},
		 "sourceSize": {"w": 54, "h": 30}},
		{"filename": "hero_walk", "frame": {"x": 60, "y": 20, "w": 50, "h": 25}}
	],
	"meta": {"image": "hero.png", "size": {"w": 200, "h": 100}}
}`

const hashSheetJSON = `{
	"frames": {
		"tree": {"frame": {"x": 0, "y": 0, "w": 32, "h": 64}, "sourceSize": {"w": 32, "h": 64}},
		"bush": {"frame": {"x": 32, "y": 0, "w": 16, "h": 16}, "sourceSize": {"w": 16, "h": 16}}
	},
	"meta": {"size": {"w": 64, "h": 64}}
}`

func TestParseSpriteSheetArray(t *testing.T) {
	s, err := ParseSpriteSheet("hero", []byte(arraySheetJSON), nil)
	if err != nil {
		t.Fatalf("ParseSpriteSheet: %v", err)
	}
	if s.Width != 200 || s.Height != 100 {
		t.Errorf("size = %dx%d, want 200x100", s.Width, s.Height)
	}
	if len(s.Frames()) != 2 {
		t.Fatalf("frames = %d, want 2", len(s.Frames()))
	}

	f, ok := s.Frame("hero_idle")
	if !ok {
		t.Fatal("hero_idle missing")
	}
	if f.X != 10 || f.Y != 20 || f.W != 50 || f.H != 25 {
		t.Errorf("rect = %d,%d %dx%d, want 10,20 50x25", f.X, f.Y, f.W, f.H)
	}
	if f.SourceW != 54 || f.SourceH != 30 {
		t.Errorf("source = %dx%d, want 54x30", f.SourceW, f.SourceH)
	}
	if f.OffsetX != 2 || f.OffsetY != 3 || !f.Trimmed {
		t.Errorf("trim = %d,%d trimmed=%v, want 2,3 true", f.OffsetX, f.OffsetY, f.Trimmed)
	}

	// no sourceSize: falls back to the frame rect
	walk, _ := s.Frame("hero_walk")
	if walk.SourceW != 50 || walk.SourceH != 25 {
		t.Errorf("walk source = %dx%d, want 50x25", walk.SourceW, walk.SourceH)
	}
}

func TestParseSpriteSheetHash(t *testing.T) {
	s, err := ParseSpriteSheet("env", []byte(hashSheetJSON), nil)
	if err != nil {
		t.Fatalf("ParseSpriteSheet: %v", err)
	}
	frames := s.Frames()
	if len(frames) != 2 {
		t.Fatalf("frames = %d, want 2", len(frames))
	}
	if frames[0].Name != "bush" || frames[1].Name != "tree" {
		t.Errorf("order = %s, %s, want bush, tree", frames[0].Name, frames[1].Name)
	}
	tree, _ := s.Frame("tree")
	if tree.H != 64 {
		t.Errorf("tree.H = %d, want 64", tree.H)
	}
}

func TestParseSpriteSheetSizeFromTexture(t *testing.T) {
	data := `{"frames": [{"filename": "a", "frame": {"x": 0, "y": 0, "w": 8, "h": 8}}]}`
	s, err := ParseSpriteSheet("a", []byte(data), &stubTexture{w: 128, h: 32})
	if err != nil {
		t.Fatalf("ParseSpriteSheet: %v", err)
	}
	if s.Width != 128 || s.Height != 32 {
		t.Errorf("size = %dx%d, want 128x32", s.Width, s.Height)
	}
}

func TestParseSpriteSheetErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"no frames", `{"meta": {"size": {"w": 8, "h": 8}}}`},
		{"frames scalar", `{"frames": 3, "meta": {"size": {"w": 8, "h": 8}}}`},
		{"no size", `{"frames": []}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSpriteSheet("bad", []byte(tt.data), nil)
			wantErrIs(t, err, ErrInvalidSheet)
		})
	}

	if _, err := ParseSpriteSheet("bad", []byte("{"), nil); err == nil {
		t.Error("malformed JSON should fail")
	}
}

func TestSheetIndexLookup(t *testing.T) {
	x := NewSheetIndex(testSheet(t, "s1", "a", "b"), testSheet(t, "s2", "c"))

	if got, err := x.FrameToSheet("c"); err != nil || got != "s2" {
		t.Errorf("FrameToSheet(c) = %q, %v, want s2", got, err)
	}
	f, s, err := x.Frame("b")
	if err != nil {
		t.Fatalf("Frame(b): %v", err)
	}
	if s.Name != "s1" || f.X != 10 {
		t.Errorf("Frame(b) = sheet %s x %d, want s1 x 10", s.Name, f.X)
	}
	if x.NumFrames() != 3 {
		t.Errorf("NumFrames = %d, want 3", x.NumFrames())
	}

	_, err = x.FrameToSheet("missing")
	wantErrIs(t, err, ErrUnknownFrame)
	_, err = x.Sheet("missing")
	wantErrIs(t, err, ErrUnknownSheet)
}

func TestSheetIndexDuplicatesLastWins(t *testing.T) {
	x := NewSheetIndex(testSheet(t, "s1", "shared", "a"), testSheet(t, "s2", "shared"))

	if got, _ := x.FrameToSheet("shared"); got != "s2" {
		t.Errorf("FrameToSheet(shared) = %q, want s2", got)
	}
	dups := x.Duplicates()
	if len(dups) != 1 || dups[0] != "shared" {
		t.Errorf("Duplicates = %v, want [shared]", dups)
	}
}

func TestSheetIndexRepeatedSheetName(t *testing.T) {
	x := NewSheetIndex(testSheet(t, "s", "hero"), testSheet(t, "s", "tree"))

	if dups := x.DuplicateSheets(); len(dups) != 1 || dups[0] != "s" {
		t.Errorf("DuplicateSheets = %v, want [s]", dups)
	}
	_, _, err := x.Frame("hero")
	wantErrIs(t, err, ErrUnknownFrame)
	if _, s, err := x.Frame("tree"); err != nil || s.Name != "s" {
		t.Errorf("Frame(tree) = %v, %v, want sheet s", s, err)
	}

	// nothing degenerate reaches the batch
	r, _ := newTestRenderer(t)
	tr := VisibleTransform(0, 0, 0, 8, 8)
	err = r.Render(&tr, "hero", x, nil, mgl32.Vec3{})
	wantErrIs(t, err, ErrUnknownFrame)
	if r.Pending() != 0 {
		t.Errorf("Pending = %d, want 0", r.Pending())
	}
}

func TestLoadSheetIndex(t *testing.T) {
	fsys := fstest.MapFS{
		"hero.json": {Data: []byte(arraySheetJSON)},
		"env.json":  {Data: []byte(hashSheetJSON)},
	}
	var loaded []string
	load := func(name string) (Texture, error) {
		loaded = append(loaded, name)
		return &stubTexture{name: name, w: 1, h: 1}, nil
	}

	x, err := LoadSheetIndex(fsys, load, "hero", "env")
	if err != nil {
		t.Fatalf("LoadSheetIndex: %v", err)
	}
	if len(loaded) != 2 || loaded[0] != "hero" || loaded[1] != "env" {
		t.Errorf("loaded = %v, want [hero env]", loaded)
	}
	if got, _ := x.FrameToSheet("tree"); got != "env" {
		t.Errorf("FrameToSheet(tree) = %q, want env", got)
	}
	s, _ := x.Sheet("hero")
	if s.Texture == nil {
		t.Error("hero sheet should carry its texture")
	}

	if _, err := LoadSheetIndex(fsys, nil, "nope"); err == nil {
		t.Error("missing json should fail")
	}
	_, err = LoadSheetIndex(fsys, nil, "hero", "hero")
	wantErrIs(t, err, ErrInvalidSheet)
}

func TestNewSpriteSheetInvalidSize(t *testing.T) {
	_, err := NewSpriteSheet("zero", 0, 10, nil, nil)
	wantErrIs(t, err, ErrInvalidSheet)
}
