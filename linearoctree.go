package octree

import (
	"fmt"
	"sort"
)

// LinearOctree is a sorted bag of octants inside a single root domain,
// supporting deferred bulk replace/remove and lower-bound search. Leaves are
// appended and old leaves are tombstoned; SortAndCompact applies both in a
// single pass.
//
// has-leaf and maximum-lower-bound are only valid between a SortAndCompact
// call and the next mutation.
type LinearOctree struct {
	root    OctantID
	leaves  []OctantID
	removed map[tombstoneKey]struct{}
	sorted  bool
}

type tombstoneKey struct {
	code  MortonCode
	level uint
}

// NewLinearOctree creates an empty tree rooted at root.
func NewLinearOctree(root OctantID) *LinearOctree {
	return &LinearOctree{root: root, sorted: true}
}

// NewLinearOctreeWithLeaves creates a tree rooted at root, pre-populated
// with leaves. The leaves are not sorted until SortAndCompact is called.
func NewLinearOctreeWithLeaves(root OctantID, leaves []OctantID) *LinearOctree {
	t := &LinearOctree{root: root, leaves: append([]OctantID(nil), leaves...)}
	return t
}

// Root returns the tree's root octant.
func (t *LinearOctree) Root() OctantID { return t.root }

// LLF implements Bounds.
func (t *LinearOctree) LLF() Coord { return t.root.LLF() }

// URB implements Bounds.
func (t *LinearOctree) URB() Coord { return t.root.URB() }

// DeepestFirstDescendant is the level-0 octant at the root's corner.
func (t *LinearOctree) DeepestFirstDescendant() OctantID {
	return OctantID{code: t.root.code, level: 0}
}

// DeepestLastDescendant is the level-0 octant at root.LLF + (2^root.level - 1).
func (t *LinearOctree) DeepestLastDescendant() OctantID {
	s := t.root.Side() - 1
	corner := t.root.LLF().Add(Coord{s, s, s})
	return OctantID{code: mortonOf(corner), level: 0}
}

// InsideBounds reports whether o lies between the deepest-first and
// deepest-last descendant of the root, inclusive.
func (t *LinearOctree) InsideBounds(o OctantID) bool {
	return insideBounds(o, t)
}

// Len returns the number of leaves currently staged (including any not yet
// compacted out by a pending removal).
func (t *LinearOctree) Len() int { return len(t.leaves) }

// LeafAt returns the leaf at the given index. Valid at any time; the order
// is only meaningful after SortAndCompact.
func (t *LinearOctree) LeafAt(i int) OctantID { return t.leaves[i] }

// Leaves returns the underlying leaf slice. Callers must not retain it
// across further mutation of t.
func (t *LinearOctree) Leaves() []OctantID { return t.leaves }

// Insert appends octant to the leaf sequence. Requires octant inside bounds.
func (t *LinearOctree) Insert(octant OctantID) error {
	if !t.InsideBounds(octant) {
		return fmt.Errorf("%w: %s outside root domain %s", ErrInvalidArgument, octant, t.root)
	}
	t.leaves = append(t.leaves, octant)
	t.sorted = false
	return nil
}

// InsertUnchecked appends octant without a bounds check, for internal
// callers that have already established the invariant.
func (t *LinearOctree) InsertUnchecked(octant OctantID) {
	t.leaves = append(t.leaves, octant)
	t.sorted = false
}

func (t *LinearOctree) tombstone(octant OctantID) {
	if t.removed == nil {
		t.removed = make(map[tombstoneKey]struct{})
	}
	t.removed[tombstoneKey{octant.code, octant.level}] = struct{}{}
}

// ReplaceWithChildren appends octant's eight children and marks octant for
// removal at the next compaction. Idempotent until the next SortAndCompact.
func (t *LinearOctree) ReplaceWithChildren(octant OctantID) error {
	children, err := octant.Children()
	if err != nil {
		return err
	}
	return t.ReplaceWithSubtree(octant, children[:])
}

// ReplaceWithSubtree appends sub and marks octant for removal at the next
// compaction. Requires octant inside bounds; octant need not already be
// present — a removal of an absent octant is harmless. A second call for
// the same octant before the next SortAndCompact is a no-op.
func (t *LinearOctree) ReplaceWithSubtree(octant OctantID, sub []OctantID) error {
	if !t.InsideBounds(octant) {
		return fmt.Errorf("%w: %s outside root domain %s", ErrInvalidArgument, octant, t.root)
	}
	if _, pending := t.removed[tombstoneKey{octant.code, octant.level}]; pending {
		return nil
	}
	t.tombstone(octant)
	t.leaves = append(t.leaves, sub...)
	t.sorted = false
	return nil
}

// SortAndCompact drops every leaf marked for removal, clears the pending
// removals, and stable-sorts the remaining leaves by the OctantID order.
// After this call HasLeaf and MaximumLowerBound are valid until the next
// mutation.
func (t *LinearOctree) SortAndCompact() {
	if len(t.removed) > 0 {
		kept := t.leaves[:0]
		for _, leaf := range t.leaves {
			if _, gone := t.removed[tombstoneKey{leaf.code, leaf.level}]; gone {
				continue
			}
			kept = append(kept, leaf)
		}
		t.leaves = kept
		t.removed = nil
	}
	sort.SliceStable(t.leaves, func(i, j int) bool {
		return t.leaves[i].Less(t.leaves[j])
	})
	t.sorted = true
}

// HasLeaf reports whether an exact (code, level) match exists. Valid only
// between a SortAndCompact call and the next mutation.
func (t *LinearOctree) HasLeaf(o OctantID) bool {
	i := sort.Search(len(t.leaves), func(i int) bool { return !t.leaves[i].Less(o) })
	return i < len(t.leaves) && t.leaves[i].Equal(o)
}

// MaximumLowerBound finds the greatest stored leaf strictly less than o.
// Returns ok=false if o is less than or equal to the first leaf. Valid only
// between a SortAndCompact call and the next mutation.
func (t *LinearOctree) MaximumLowerBound(o OctantID) (leaf OctantID, ok bool) {
	i := sort.Search(len(t.leaves), func(i int) bool { return !t.leaves[i].Less(o) })
	if i == 0 {
		return OctantID{}, false
	}
	return t.leaves[i-1], true
}

// Sorted reports whether the tree is currently known to be sorted (i.e. no
// mutation has happened since the last SortAndCompact).
func (t *LinearOctree) Sorted() bool { return t.sorted }
