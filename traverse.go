package spritegraph

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/yohamta/donburi"
)

// RenderContext carries what one traversal needs. Build it with
// NewRenderContext; a Scene keeps one and reuses it every frame.
type RenderContext struct {
	World    donburi.World
	Renderer *Renderer
	Sheets   *SheetIndex
	// Tilesets maps TileMap.Tileset names to textures.
	Tilesets map[string]Texture

	// Visited and Skipped count entities reached and invisible subtrees
	// pruned since the last ResetCounters.
	Visited int
	Skipped int

	alive      LivenessFunc
	transforms TransformLookup
}

// NewRenderContext creates a context with lookups bound to w.
func NewRenderContext(w donburi.World, r *Renderer, sheets *SheetIndex, tilesets map[string]Texture) *RenderContext {
	alive, _, transforms := Lookups(w)
	if tilesets == nil {
		tilesets = make(map[string]Texture)
	}
	return &RenderContext{
		World:      w,
		Renderer:   r,
		Sheets:     sheets,
		Tilesets:   tilesets,
		alive:      alive,
		transforms: transforms,
	}
}

// ResetCounters zeroes Visited and Skipped.
func (ctx *RenderContext) ResetCounters() {
	ctx.Visited = 0
	ctx.Skipped = 0
}

// RenderFromNode draws e and its subtree depth-first, pre-order.
//
// An entity whose Transform is not visible is skipped along with its whole
// subtree. Otherwise its local position is added to offset, its components
// are drawn at the resulting absolute position, its children are re-sorted
// and visited in order, and the local position is subtracted again. offset
// is therefore unchanged when RenderFromNode returns, error or not.
//
// Dead entities are ignored. The first draw error aborts the traversal.
func RenderFromNode(ctx *RenderContext, e donburi.Entity, offset *mgl32.Vec3) error {
	if !ctx.alive(e) {
		return nil
	}
	entry := ctx.World.Entry(e)

	var local mgl32.Vec3
	t := ctx.transforms(e)
	if t != nil {
		if !t.Visible {
			ctx.Skipped++
			return nil
		}
		local = t.Pos()
		*offset = offset.Add(local)
		defer func() { *offset = offset.Sub(local) }()

		t.SetAbsolutePos(*offset)
		if err := renderEntity(ctx, entry, t, *offset); err != nil {
			return fmt.Errorf("spritegraph: entity %v: %w", e, err)
		}
	}
	ctx.Visited++

	if !entry.HasComponent(NodeComponent) {
		return nil
	}
	n := NodeComponent.Get(entry)
	n.SortChildren(ctx.alive, ctx.transforms)
	for _, child := range n.Children() {
		if err := RenderFromNode(ctx, child, offset); err != nil {
			return err
		}
	}
	return nil
}

// renderEntity draws e's own components in fixed order: sprite, animation,
// particles, text, shape, tile map.
func renderEntity(ctx *RenderContext, entry *donburi.Entry, t *Transform, abs mgl32.Vec3) error {
	r := ctx.Renderer

	var color *Color
	if entry.HasComponent(ColorComponent) {
		color = ColorComponent.Get(entry)
	}

	if entry.HasComponent(SpriteComponent) {
		s := SpriteComponent.Get(entry)
		if err := r.Render(t, s.FrameName, ctx.Sheets, color, abs); err != nil {
			return err
		}
	}

	if entry.HasComponent(AnimationComponent) {
		a := AnimationComponent.Get(entry)
		frame := a.CurrentFrame()
		if frame == "" {
			return fmt.Errorf("spritegraph: animation %q has no frame: %w", a.CurrentAnimation(), ErrUnknownAnimation)
		}
		if err := r.Render(t, frame, ctx.Sheets, color, abs); err != nil {
			return err
		}
	}

	if entry.HasComponent(EmitterComponent) {
		if err := EmitterComponent.Get(entry).render(r, ctx.Sheets, abs); err != nil {
			return err
		}
	}

	// Text, shapes, and tile maps draw immediately. Flushing first keeps
	// painter order equal to traversal order.
	if color != nil && entry.HasComponent(TextComponent) {
		txt := TextComponent.Get(entry)
		if txt.Content != "" && txt.Visible {
			if err := r.Flush(r.ActiveSheet(), true); err != nil {
				return err
			}
			if err := r.RenderText(txt, abs, *color); err != nil {
				return err
			}
		}
	}

	if entry.HasComponent(ShapeComponent) {
		s := ShapeComponent.Get(entry)
		if err := r.Flush(r.ActiveSheet(), true); err != nil {
			return err
		}
		if err := drawAt(r, abs, func() error { return r.RenderShape(s) }); err != nil {
			return err
		}
	}

	if entry.HasComponent(TileMapComponent) {
		tm := TileMapComponent.Get(entry)
		tex, ok := ctx.Tilesets[tm.Tileset]
		if !ok {
			return fmt.Errorf("spritegraph: tileset %q: %w", tm.Tileset, ErrUnknownTileset)
		}
		if err := drawAt(r, abs, func() error { return r.DrawBatch(tm.Vertices, tm.Tileset, tex) }); err != nil {
			return err
		}
	}
	return nil
}

// drawAt runs draw with the model matrix translated to abs, then restores it.
func drawAt(r *Renderer, abs mgl32.Vec3, draw func() error) error {
	if err := r.Transform(abs, false); err != nil {
		return err
	}
	err := draw()
	if uerr := r.Transform(abs, true); err == nil {
		err = uerr
	}
	return err
}
