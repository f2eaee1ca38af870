package hierarchy

import (
	"sort"
	"strings"

	"github.com/ValentynKoval/easybuy-catalog-service/internal/apperr"
	"github.com/ValentynKoval/easybuy-catalog-service/internal/model"
)

// Projection is a read-only view of a category enriched with its position in
// the tree. Parent and Children are nested projections; a nested entry that
// would revisit a node already on the current path is left out.
type Projection struct {
	ID               string        `json:"id"`
	Name             string        `json:"name"`
	Description      *string       `json:"description,omitempty"`
	Enabled          bool          `json:"enabled"`
	ParentID         *string       `json:"parent_id,omitempty"`
	Level            int           `json:"level"`
	Path             string        `json:"path"`
	HasSubcategories bool          `json:"has_subcategories"`
	Parent           *Projection   `json:"parent,omitempty"`
	Children         []*Projection `json:"children,omitempty"`
}

// Project builds the projection of id.
func (a *Arena) Project(id string) (*Projection, error) {
	if !a.Has(id) {
		return nil, apperr.NotFound("category", id)
	}
	return a.project(id, make(map[string]struct{})), nil
}

// ProjectAll projects every node, each with its own traversal state, ordered
// by path.
func (a *Arena) ProjectAll() []*Projection {
	out := make([]*Projection, 0, len(a.nodes))
	for id := range a.nodes {
		out = append(out, a.project(id, make(map[string]struct{})))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// project returns nil when id was already visited on this traversal.
// The parent is projected with the shared visited set so a loop through the
// ancestors stops; every child gets its own copy so siblings do not hide each
// other while a loop back to an ancestor is still caught.
func (a *Arena) project(id string, visited map[string]struct{}) *Projection {
	if _, seen := visited[id]; seen {
		return nil
	}
	node, ok := a.nodes[id]
	if !ok {
		return nil
	}
	visited[id] = struct{}{}

	p := a.describe(node)

	if node.ParentID != nil && a.Has(*node.ParentID) {
		p.Parent = a.project(*node.ParentID, visited)
	}

	for _, childID := range a.children[id] {
		if child := a.project(childID, clone(visited)); child != nil {
			p.Children = append(p.Children, child)
		}
	}
	return p
}

func (a *Arena) describe(node model.Category) *Projection {
	names, cyclic := a.ancestry(node.ID)

	level := len(names) - 1
	if cyclic {
		level = UnknownLevel
		if a.onCycle != nil {
			a.onCycle(node.ID)
		}
	}

	return &Projection{
		ID:               node.ID,
		Name:             node.Name,
		Description:      node.Description,
		Enabled:          node.Enabled,
		ParentID:         node.ParentID,
		Level:            level,
		Path:             strings.Join(names, PathSeparator),
		HasSubcategories: len(a.children[node.ID]) > 0,
	}
}

// ancestry returns the names from the root down to id. It stops at the first
// revisited node and reports the chain as cyclic; the names gathered up to
// that point are still returned.
func (a *Arena) ancestry(id string) ([]string, bool) {
	var names []string
	seen := make(map[string]struct{})

	cur, ok := a.nodes[id]
	for ok {
		if _, dup := seen[cur.ID]; dup {
			reverse(names)
			return names, true
		}
		seen[cur.ID] = struct{}{}
		names = append(names, cur.Name)
		if cur.ParentID == nil {
			break
		}
		cur, ok = a.nodes[*cur.ParentID]
	}

	reverse(names)
	return names, false
}

func reverse(s []string) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

func clone(m map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{}, len(m)+1)
	for k := range m {
		out[k] = struct{}{}
	}
	return out
}
