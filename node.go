package spritegraph

import (
	"math"

	"github.com/yohamta/donburi"
)

// LivenessFunc reports whether an entity handle still refers to a live entity.
type LivenessFunc func(e donburi.Entity) bool

// TransformLookup returns the entity's Transform, or nil if it has none.
type TransformLookup func(e donburi.Entity) *Transform

// NodeLookup returns the entity's Node, or nil if it has none.
type NodeLookup func(e donburi.Entity) *Node

// Node holds an entity's place in the hierarchy. The tree is distributed
// across Node components: each one owns its child list and a parent handle.
//
// An entity must not be a child of two parents. Node does not enforce this;
// use AddChild to keep both links consistent.
type Node struct {
	children []donburi.Entity
	parent   donburi.Entity
	dirty    bool

	// reused by SortChildren
	sortKeys []int
}

// NewNode creates a root node (no parent).
func NewNode() Node {
	return Node{parent: donburi.Null}
}

// NodeWithParent creates a node linked to the given parent.
func NodeWithParent(parent donburi.Entity) Node {
	return Node{parent: parent}
}

// Add appends e to the child list and marks the order stale.
// No duplicate detection.
func (n *Node) Add(e donburi.Entity) {
	n.children = append(n.children, e)
	n.dirty = true
}

// AddMany appends all entities to the child list and marks the order stale.
func (n *Node) AddMany(es ...donburi.Entity) {
	n.children = append(n.children, es...)
	n.dirty = true
}

// Children returns the child list in its current order. The returned slice
// MUST NOT be mutated by the caller and is only render-ordered after
// SortChildren.
func (n *Node) Children() []donburi.Entity {
	return n.children
}

// NumChildren returns the number of children, live or not.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// Parent returns the parent handle, or donburi.Null for a root.
func (n *Node) Parent() donburi.Entity {
	return n.parent
}

// HasParent reports whether the node is linked to a parent.
func (n *Node) HasParent() bool {
	return n.parent != donburi.Null
}

// SetParent links the node to parent. Pass donburi.Null to make it a root.
func (n *Node) SetParent(parent donburi.Entity) {
	n.parent = parent
}

// Dirty reports whether the child order is stale.
func (n *Node) Dirty() bool {
	return n.dirty
}

// MarkDirty forces a re-sort on the next SortChildren call. Needed after
// changing a child's z through its Transform.
func (n *Node) MarkDirty() {
	n.dirty = true
}

// SortChildren drops children that are no longer alive and, if the order is
// stale, stable-sorts the rest by the truncated z of their Transform.
// Children without a Transform sort after every child that has one.
//
// Removing a dead child marks the order stale. The dirty flag gates the sort,
// so calling this again without an intervening mutation does nothing.
// Reports whether a sort pass ran.
func (n *Node) SortChildren(alive LivenessFunc, transform TransformLookup) bool {
	if n.pruneDead(alive) {
		n.dirty = true
	}
	if !n.dirty {
		return false
	}

	nc := len(n.children)
	if cap(n.sortKeys) < nc {
		n.sortKeys = make([]int, nc)
	}
	keys := n.sortKeys[:nc]
	for i, e := range n.children {
		if t := transform(e); t != nil {
			keys[i] = int(t.pos[2])
		} else {
			keys[i] = math.MaxInt
		}
	}

	// Stable insertion sort: few children, usually nearly sorted.
	for i := 1; i < nc; i++ {
		key, e := keys[i], n.children[i]
		j := i - 1
		for j >= 0 && keys[j] > key {
			keys[j+1] = keys[j]
			n.children[j+1] = n.children[j]
			j--
		}
		keys[j+1] = key
		n.children[j+1] = e
	}

	n.dirty = false
	return true
}

// pruneDead removes dead children in place, preserving order.
// Reports whether anything was removed.
func (n *Node) pruneDead(alive LivenessFunc) bool {
	kept := n.children[:0]
	for _, e := range n.children {
		if alive(e) {
			kept = append(kept, e)
		}
	}
	if len(kept) == len(n.children) {
		return false
	}
	for i := len(kept); i < len(n.children); i++ {
		n.children[i] = donburi.Null
	}
	n.children = kept
	return true
}
