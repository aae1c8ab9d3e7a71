package area

import (
	"sort"
	"strings"

	"github.com/google/uuid"
)

// Tree is an immutable index over a snapshot of areas: id→node and
// id→children built in one pass. A node whose declared parent is absent
// from the snapshot is treated as a root so partial snapshots still
// produce a usable forest.
type Tree struct {
	byID     map[uuid.UUID]Area
	children map[uuid.UUID][]uuid.UUID
	roots    []uuid.UUID
}

func NewTree(areas []Area) *Tree {
	t := &Tree{
		byID:     make(map[uuid.UUID]Area, len(areas)),
		children: make(map[uuid.UUID][]uuid.UUID, len(areas)),
	}
	for _, a := range areas {
		t.byID[a.ID()] = a
	}
	for _, a := range areas {
		if t.isRoot(a) {
			t.roots = append(t.roots, a.ID())
			continue
		}
		t.children[a.ParentID()] = append(t.children[a.ParentID()], a.ID())
	}
	t.sortSiblings()
	return t
}

func (t *Tree) isRoot(a Area) bool {
	if a.ParentID() == uuid.Nil {
		return true
	}
	_, ok := t.byID[a.ParentID()]
	return !ok
}

func (t *Tree) sortSiblings() {
	less := func(ids []uuid.UUID) func(i, j int) bool {
		return func(i, j int) bool {
			ni := strings.TrimSpace(t.byID[ids[i]].Name())
			nj := strings.TrimSpace(t.byID[ids[j]].Name())
			if ni != nj {
				return ni < nj
			}
			return ids[i].String() < ids[j].String()
		}
	}
	sort.SliceStable(t.roots, less(t.roots))
	for parentID := range t.children {
		siblings := t.children[parentID]
		sort.SliceStable(siblings, less(siblings))
		t.children[parentID] = siblings
	}
}

func (t *Tree) Len() int {
	return len(t.byID)
}

// Get returns the node for id; the second value reports presence.
func (t *Tree) Get(id uuid.UUID) (Area, bool) {
	a, ok := t.byID[id]
	return a, ok
}

// Roots returns the root ids in display order.
func (t *Tree) Roots() []uuid.UUID {
	out := make([]uuid.UUID, len(t.roots))
	copy(out, t.roots)
	return out
}

// ChildrenOf returns the direct children of id in display order.
func (t *Tree) ChildrenOf(id uuid.UUID) []uuid.UUID {
	siblings := t.children[id]
	out := make([]uuid.UUID, len(siblings))
	copy(out, siblings)
	return out
}

// AncestorsOf walks parent pointers from id, returning ancestors
// nearest-first, excluding id itself. A visited set guards against
// corrupt snapshots containing a parent cycle.
func (t *Tree) AncestorsOf(id uuid.UUID) []Area {
	node, ok := t.byID[id]
	if !ok {
		return nil
	}

	var path []Area
	visited := map[uuid.UUID]struct{}{id: {}}
	for !t.isRoot(node) {
		parent, ok := t.byID[node.ParentID()]
		if !ok {
			break
		}
		if _, seen := visited[parent.ID()]; seen {
			break
		}
		visited[parent.ID()] = struct{}{}
		path = append(path, parent)
		node = parent
	}
	return path
}

// DepthOf returns the number of ancestors of id.
func (t *Tree) DepthOf(id uuid.UUID) int {
	return len(t.AncestorsOf(id))
}

// DescendantsOf returns the ids of every node below id via BFS.
func (t *Tree) DescendantsOf(id uuid.UUID) map[uuid.UUID]struct{} {
	out := make(map[uuid.UUID]struct{})
	queue := append([]uuid.UUID(nil), t.children[id]...)
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if _, seen := out[next]; seen {
			continue
		}
		out[next] = struct{}{}
		queue = append(queue, t.children[next]...)
	}
	return out
}

// WouldCreateCycle reports whether re-parenting nodeID under
// proposedParentID would make nodeID its own ancestor. This is the
// client-side fast-fail guard; the backing store keeps the
// authoritative check.
func (t *Tree) WouldCreateCycle(nodeID, proposedParentID uuid.UUID) bool {
	if proposedParentID == uuid.Nil {
		return false
	}
	if proposedParentID == nodeID {
		return true
	}
	_, isDescendant := t.DescendantsOf(nodeID)[proposedParentID]
	return isDescendant
}
