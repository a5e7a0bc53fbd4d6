// Package ecs runs a spritegraph scene inside a [Donburi] ecs.ECS.
//
// [Install] registers a system that advances the scene's animations, particle
// emitters and camera, and a renderer that draws the scene on a layer. After
// each frame the renderer publishes the frame's counters as a
// [FrameStatsEvent]:
//
//	e := ecs.NewECS(world)
//	rs := sgecs.Install(e, 0, scene, backend)
//	sgecs.FrameStatsEvent.Subscribe(world, func(w donburi.World, s spritegraph.FrameStats) { ... })
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
