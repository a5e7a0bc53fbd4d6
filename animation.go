package spritegraph

import (
	"fmt"
	"sort"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// FrameResolver supplies the frame name to draw for an entity this frame.
type FrameResolver interface {
	CurrentFrame() string
}

// AnimationSheet is a set of named frame sequences with a playhead. The
// traversal draws CurrentFrame; Update advances it.
type AnimationSheet struct {
	animations map[string][]string
	current    string
	index      int

	// FrameLength is the time each frame is shown, in seconds.
	FrameLength float32
	elapsed     float32
	playing     bool

	// Loop wraps the playhead to the first frame. When false, playback stops
	// on the last frame.
	Loop bool
}

// NewAnimationSheet creates an empty, stopped, looping sheet.
func NewAnimationSheet(frameLength float32) *AnimationSheet {
	return &AnimationSheet{
		animations:  make(map[string][]string),
		FrameLength: frameLength,
		Loop:        true,
	}
}

// AddAnimation registers frames under name. The first animation added
// becomes current.
func (a *AnimationSheet) AddAnimation(name string, frames ...string) {
	if a.animations == nil {
		a.animations = make(map[string][]string)
	}
	if a.current == "" {
		a.current = name
	}
	a.animations[name] = frames
}

// Animations returns the registered names, sorted.
func (a *AnimationSheet) Animations() []string {
	names := make([]string, 0, len(a.animations))
	for n := range a.animations {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// SetCurrentAnimation switches to name and rewinds to its first frame.
// Unknown names fail with ErrUnknownAnimation and leave the sheet unchanged.
func (a *AnimationSheet) SetCurrentAnimation(name string) error {
	if _, ok := a.animations[name]; !ok {
		return fmt.Errorf("spritegraph: animation %q: %w", name, ErrUnknownAnimation)
	}
	a.current = name
	a.index = 0
	a.elapsed = 0
	return nil
}

// CurrentAnimation returns the name of the current animation.
func (a *AnimationSheet) CurrentAnimation() string {
	return a.current
}

// CurrentIndex returns the playhead position within the current animation.
func (a *AnimationSheet) CurrentIndex() int {
	return a.index
}

// CurrentFrame returns the frame under the playhead, or "" when the sheet
// has no frames.
func (a *AnimationSheet) CurrentFrame() string {
	frames := a.animations[a.current]
	if a.index >= len(frames) {
		return ""
	}
	return frames[a.index]
}

// Play starts advancing the playhead.
func (a *AnimationSheet) Play() { a.playing = true }

// Stop freezes the playhead on the current frame.
func (a *AnimationSheet) Stop() { a.playing = false }

// Playing reports whether Update advances the playhead.
func (a *AnimationSheet) Playing() bool { return a.playing }

// Update advances the playhead by dt seconds, possibly over several frames.
func (a *AnimationSheet) Update(dt float32) {
	if !a.playing || a.FrameLength <= 0 {
		return
	}
	frames := a.animations[a.current]
	if len(frames) == 0 {
		return
	}
	a.elapsed += dt
	for a.elapsed >= a.FrameLength {
		a.elapsed -= a.FrameLength
		if a.index+1 < len(frames) {
			a.index++
			continue
		}
		if !a.Loop {
			a.playing = false
			a.elapsed = 0
			return
		}
		a.index = 0
	}
}

// --- Tweens ---

// TweenGroup animates up to 4 float32 values simultaneously and hands them
// to an apply func after every step. Create one via TweenPosition or
// TweenColor and call Update(dt) each frame.
//
// There is no global animation manager; callers drive Update themselves.
type TweenGroup struct {
	tweens [4]*gween.Tween
	count  int
	values [4]float32
	apply  func(v [4]float32)
	Done   bool
}

// Update advances all tweens by dt seconds and applies the new values.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		g.values[i] = val
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone
	g.apply(g.values)
}

// TweenPosition animates t's local x and y. Each step goes through SetPos2,
// so the transform is marked dirty.
func TweenPosition(t *Transform, toX, toY, duration float32, fn ease.TweenFunc) *TweenGroup {
	p := t.Pos()
	g := &TweenGroup{count: 2}
	g.tweens[0] = gween.New(p[0], toX, duration, fn)
	g.tweens[1] = gween.New(p[1], toY, duration, fn)
	g.apply = func(v [4]float32) { t.SetPos2(v[0], v[1]) }
	return g
}

// TweenColor animates all four components of c to the target color.
func TweenColor(c *Color, to Color, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 4}
	g.tweens[0] = gween.New(c.R, to.R, duration, fn)
	g.tweens[1] = gween.New(c.G, to.G, duration, fn)
	g.tweens[2] = gween.New(c.B, to.B, duration, fn)
	g.tweens[3] = gween.New(c.A, to.A, duration, fn)
	g.apply = func(v [4]float32) { *c = Color{v[0], v[1], v[2], v[3]} }
	return g
}
