package spritegraph

import "github.com/yohamta/donburi"

// Sprite draws a single frame from the scene's sheets.
type Sprite struct {
	FrameName string
}

// Component types. An entity takes part in the hierarchy through
// NodeComponent and is positioned and drawn only if it has a
// TransformComponent.
var (
	TransformComponent = donburi.NewComponentType[Transform]()
	NodeComponent      = donburi.NewComponentType[Node]()
	SpriteComponent    = donburi.NewComponentType[Sprite]()
	AnimationComponent = donburi.NewComponentType[AnimationSheet]()
	ColorComponent     = donburi.NewComponentType[Color]()
	TextComponent      = donburi.NewComponentType[Text]()
	ShapeComponent     = donburi.NewComponentType[Shape]()
	TileMapComponent   = donburi.NewComponentType[TileMap]()
)

// getComponent returns e's T, or nil if e is dead or lacks it.
func getComponent[T any](w donburi.World, e donburi.Entity, c *donburi.ComponentType[T]) *T {
	if e == donburi.Null || !w.Valid(e) {
		return nil
	}
	entry := w.Entry(e)
	if !entry.HasComponent(c) {
		return nil
	}
	return c.Get(entry)
}

// TransformOf returns e's Transform, or nil.
func TransformOf(w donburi.World, e donburi.Entity) *Transform {
	return getComponent(w, e, TransformComponent)
}

// NodeOf returns e's Node, or nil.
func NodeOf(w donburi.World, e donburi.Entity) *Node {
	return getComponent(w, e, NodeComponent)
}

// Lookups returns the liveness, node, and transform lookups backed by w.
func Lookups(w donburi.World) (LivenessFunc, NodeLookup, TransformLookup) {
	alive := func(e donburi.Entity) bool { return e != donburi.Null && w.Valid(e) }
	nodes := func(e donburi.Entity) *Node { return NodeOf(w, e) }
	transforms := func(e donburi.Entity) *Transform { return TransformOf(w, e) }
	return alive, nodes, transforms
}

// ensureNode adds an empty root Node to e if it has none.
func ensureNode(w donburi.World, e donburi.Entity) {
	entry := w.Entry(e)
	if !entry.HasComponent(NodeComponent) {
		n := NewNode()
		donburi.Add(entry, NodeComponent, &n)
	}
}

// AddChild links child under parent, giving either entity a Node if it has
// none. Both links are set so parent lookups and traversal agree. A child
// that already has a parent is not unlinked from it.
func AddChild(w donburi.World, parent, child donburi.Entity) {
	ensureNode(w, parent)
	ensureNode(w, child)
	// Adding components can move entries; fetch after both exist.
	NodeComponent.Get(w.Entry(child)).SetParent(parent)
	NodeComponent.Get(w.Entry(parent)).Add(child)
}

// Spawn creates an entity with t, a Node, and any extra component types
// (zero valued; set them with SetValue), linked under parent unless parent
// is donburi.Null.
func Spawn(w donburi.World, parent donburi.Entity, t Transform, extra ...donburi.IComponentType) donburi.Entity {
	comps := append([]donburi.IComponentType{TransformComponent, NodeComponent}, extra...)
	e := w.Create(comps...)
	entry := w.Entry(e)
	TransformComponent.SetValue(entry, t)
	NodeComponent.SetValue(entry, NewNode())
	if parent != donburi.Null {
		AddChild(w, parent, e)
	}
	return e
}

// UpdateAnimations advances every AnimationSheet in w by dt seconds.
func UpdateAnimations(w donburi.World, dt float32) {
	AnimationComponent.Each(w, func(entry *donburi.Entry) {
		AnimationComponent.Get(entry).Update(dt)
	})
}
