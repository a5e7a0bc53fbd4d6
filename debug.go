package spritegraph

import (
	"fmt"
	"io"
	"os"
	"time"
)

// globalDebug mirrors the most recently set Scene debug flag so that code
// without a Scene pointer (sheet indexing, the renderer) can check it
// cheaply. Only valid with a single Scene.
var globalDebug bool

// debugOut is where debug output goes. Tests swap it.
var debugOut io.Writer = os.Stderr

// debugf prints one prefixed line to debugOut.
func debugf(format string, args ...any) {
	_, _ = fmt.Fprintf(debugOut, "[spritegraph] "+format+"\n", args...)
}

// debugStats holds per-frame timing and draw metrics.
// Only populated when Scene.debug is true.
type debugStats struct {
	frame        uint64
	traverseTime time.Duration
	flushTime    time.Duration
	visited      int
	skipped      int
	render       FrameStats
}

// debugLog prints timing and draw-call stats.
func (s *Scene) debugLog(stats debugStats) {
	if !s.debug {
		return
	}
	debugf("frame %d | traverse: %v | flush: %v | total: %v",
		stats.frame, stats.traverseTime, stats.flushTime, stats.traverseTime+stats.flushTime)
	debugf("nodes: %d (skipped %d) | quads: %d | batches: %d | tiles: %d | text: %d | shapes: %d | draw calls: %d",
		stats.visited, stats.skipped, stats.render.Quads, stats.render.SpriteBatches,
		stats.render.TileBatches, stats.render.TextDraws, stats.render.ShapeDraws, stats.render.DrawCalls)
}

// debugMaxChildCount is the child count above which a warning is printed.
const debugMaxChildCount = 1000

// debugCheckChildCount warns if n has more than debugMaxChildCount children.
func debugCheckChildCount(name string, n *Node) {
	if n.NumChildren() > debugMaxChildCount {
		debugf("warning: node %q has %d children (threshold %d)", name, n.NumChildren(), debugMaxChildCount)
	}
}
