package spritegraph

import (
	"sort"

	"github.com/yohamta/donburi"
)

// RootName is the lookup name a Scene registers its root entity under.
const RootName = "root"

// EntityLookup maps names to entities so scene builders and game code can
// find well-known nodes without holding handles.
type EntityLookup struct {
	entities map[string]donburi.Entity
}

// NewEntityLookup creates an empty lookup.
func NewEntityLookup() *EntityLookup {
	return &EntityLookup{entities: make(map[string]donburi.Entity)}
}

// Set registers e under name, replacing any previous entry.
func (l *EntityLookup) Set(name string, e donburi.Entity) {
	l.entities[name] = e
}

// Get returns the entity registered under name.
func (l *EntityLookup) Get(name string) (donburi.Entity, bool) {
	e, ok := l.entities[name]
	return e, ok
}

// Delete removes name.
func (l *EntityLookup) Delete(name string) {
	delete(l.entities, name)
}

// Prune drops names whose entity is no longer alive and returns them sorted.
func (l *EntityLookup) Prune(alive LivenessFunc) []string {
	var removed []string
	for name, e := range l.entities {
		if !alive(e) {
			removed = append(removed, name)
			delete(l.entities, name)
		}
	}
	sort.Strings(removed)
	return removed
}

// Len returns the number of names registered.
func (l *EntityLookup) Len() int {
	return len(l.entities)
}
