// Package spritegraph is a scene-graph sprite renderer for 2D tile and sprite
// games on [Ebitengine].
//
// Entities live in a [Donburi] world. Hierarchy is carried by [Node]
// components and position by [Transform] components; every frame the scene
// walks the tree from its root, accumulates absolute positions, and hands
// quads to a [Renderer] that batches them per spritesheet and only issues a
// draw call when the texture changes.
//
// # Quick start
//
//	world := donburi.NewWorld()
//	sheets, _ := spritegraph.LoadSheetIndex(assets, spritegraph.EbitenTextureLoader(assets, "."), "hero")
//	scene, backend, _ := spritegraph.NewEbitenScene(world, sheets, spritegraph.DefaultSettings())
//
//	hero := scene.Spawn(donburi.Null, spritegraph.VisibleTransform(100, 50, 1, 32, 32), spritegraph.SpriteComponent)
//	spritegraph.SpriteComponent.SetValue(world.Entry(hero), spritegraph.Sprite{FrameName: "hero_idle"})
//
//	game := spritegraph.NewGame(scene, backend, spritegraph.RunConfig{Settings: spritegraph.DefaultSettings()})
//	log.Fatal(spritegraph.Run(game))
//
// # Draw order
//
// Siblings draw in ascending truncated z. Within one entity the order is
// sprite, animation, particles, text, shape, tile map. Particles share the
// sprite batch. Text, shapes, and tile maps bypass
// the sprite batch; the pending batch is flushed before each of them so what
// is drawn first stays underneath.
//
// # Errors
//
// Unknown frame, sheet, tileset, and animation names are content errors.
// They abort the frame and surface as wrapped sentinel errors ([ErrUnknownFrame]
// and friends). Destroyed entities are pruned from child lists silently.
//
// Set Scene debug mode to log per-frame stats to stderr.
//
// [Ebitengine]: https://ebitengine.org
// [Donburi]: https://github.com/yohamta/donburi
package spritegraph
