// Package hierarchy turns flat category rows into hierarchy-aware projections
// and descendant closures.
//
// Nodes are addressed by id and parent/child links are resolved through map
// lookups, never through embedded pointers. The parent relation is expected to
// be acyclic but storage does not enforce it, so every walk carries its own
// visited set.
package hierarchy

import (
	"sort"

	"github.com/ValentynKoval/easybuy-catalog-service/internal/apperr"
	"github.com/ValentynKoval/easybuy-catalog-service/internal/model"
)

const (
	PathSeparator = " > "

	// UnknownLevel is reported when the parent chain of a node loops back on
	// itself and no depth can be assigned.
	UnknownLevel = -1
)

type Option func(*Arena)

// WithCycleHandler registers fn to be called with the id of every node whose
// ancestor chain turns out to be cyclic.
func WithCycleHandler(fn func(categoryID string)) Option {
	return func(a *Arena) {
		a.onCycle = fn
	}
}

// Arena is an immutable snapshot of the category table. It is safe for
// concurrent use; traversals keep all their state on the stack.
type Arena struct {
	nodes    map[string]model.Category
	children map[string][]string
	onCycle  func(string)
}

func NewArena(nodes []model.Category, opts ...Option) *Arena {
	a := &Arena{
		nodes:    make(map[string]model.Category, len(nodes)),
		children: make(map[string][]string),
	}
	for _, opt := range opts {
		opt(a)
	}

	for _, n := range nodes {
		a.nodes[n.ID] = n
	}
	for _, n := range nodes {
		if n.ParentID != nil {
			a.children[*n.ParentID] = append(a.children[*n.ParentID], n.ID)
		}
	}
	for parent, ids := range a.children {
		sort.Slice(ids, func(i, j int) bool { return a.less(ids[i], ids[j]) })
		a.children[parent] = ids
	}
	return a
}

func (a *Arena) less(x, y string) bool {
	nx, ny := a.nodes[x], a.nodes[y]
	if nx.Name != ny.Name {
		return nx.Name < ny.Name
	}
	return nx.ID < ny.ID
}

func (a *Arena) Has(id string) bool {
	_, ok := a.nodes[id]
	return ok
}

func (a *Arena) Len() int {
	return len(a.nodes)
}

// Children returns the ids of the direct children of id ordered by name.
func (a *Arena) Children(id string) []string {
	return append([]string(nil), a.children[id]...)
}

// Closure returns id together with every transitive descendant, sorted.
func (a *Arena) Closure(id string) ([]string, error) {
	if !a.Has(id) {
		return nil, apperr.NotFound("category", id)
	}

	acc := make(map[string]struct{})
	a.collect(id, acc)

	ids := make([]string, 0, len(acc))
	for k := range acc {
		ids = append(ids, k)
	}
	sort.Strings(ids)
	return ids, nil
}

// collect follows ownership edges only. The membership check doubles as a
// guard should a corrupted row link a node under its own descendant.
func (a *Arena) collect(id string, acc map[string]struct{}) {
	if _, ok := acc[id]; ok {
		return
	}
	acc[id] = struct{}{}
	for _, child := range a.children[id] {
		a.collect(child, acc)
	}
}

// IsAncestor reports whether candidate lies on the parent chain of id.
func (a *Arena) IsAncestor(candidate, id string) bool {
	seen := make(map[string]struct{})
	cur, ok := a.nodes[id]
	for ok && cur.ParentID != nil {
		if _, dup := seen[cur.ID]; dup {
			return false
		}
		seen[cur.ID] = struct{}{}
		if *cur.ParentID == candidate {
			return true
		}
		cur, ok = a.nodes[*cur.ParentID]
	}
	return false
}
