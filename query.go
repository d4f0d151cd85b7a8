package octree

import "fmt"

// Face enumerates the six faces of an octant, each with a unit outward
// normal on the indicated axis.
type Face int

const (
	Left   Face = iota // -x
	Right              // +x
	Front              // -y
	Back               // +y
	Bottom             // -z
	Top                // +z
)

func (f Face) String() string {
	switch f {
	case Left:
		return "LEFT"
	case Right:
		return "RIGHT"
	case Front:
		return "FRONT"
	case Back:
		return "BACK"
	case Bottom:
		return "BOTTOM"
	case Top:
		return "TOP"
	default:
		return "INVALID_FACE"
	}
}

// normalOf returns the unit outward normal of f.
func normalOf(f Face) Coord {
	switch f {
	case Left:
		return Coord{-1, 0, 0}
	case Right:
		return Coord{1, 0, 0}
	case Front:
		return Coord{0, -1, 0}
	case Back:
		return Coord{0, 1, 0}
	case Bottom:
		return Coord{0, 0, -1}
	case Top:
		return Coord{0, 0, 1}
	default:
		return Coord{}
	}
}

// faceChildIndices lists, for each face, the indices (in the canonical
// children() order, bit0=x bit1=y bit2=z) of the four children of the
// would-be same-level neighbor that actually touch n across that face. A
// neighbor reached by crossing face lies on the opposite side of its own
// domain from n, so e.g. crossing Left lands on a candidate whose adjoining
// half is its own +x side, not its -x side.
var faceChildIndices = map[Face][4]uint{
	Left:   {1, 3, 5, 7},
	Right:  {0, 2, 4, 6},
	Front:  {2, 3, 6, 7},
	Back:   {0, 1, 4, 5},
	Bottom: {4, 5, 6, 7},
	Top:    {0, 1, 2, 3},
}

// Node is the user-facing projection of an OctantID.
type Node struct {
	id    OctantID
	valid bool
}

// InvalidNode compares unequal to every node, including itself.
var InvalidNode = Node{}

func nodeFrom(id OctantID) Node { return Node{id: id, valid: true} }

// Valid reports whether n refers to a real octant.
func (n Node) Valid() bool { return n.valid }

// LLF returns n's lower-left-front corner.
func (n Node) LLF() Coord { return n.id.LLF() }

// Code returns n's Morton code.
func (n Node) Code() MortonCode { return n.id.Code() }

// Level returns n's level.
func (n Node) Level() uint { return n.id.Level() }

// Side returns n's side length.
func (n Node) Side() int64 { return n.id.Side() }

// Equal reports whether n and other are the same valid node. An invalid
// node is never equal to anything, including another invalid node.
func (n Node) Equal(other Node) bool {
	return n.valid && other.valid && n.id.Equal(other.id)
}

func (n Node) String() string {
	if !n.valid {
		return "Node{invalid}"
	}
	return fmt.Sprintf("Node%s", n.id)
}

// State is the result of CheckState.
type State int

const (
	Valid State = iota
	Incomplete
	Overlapping
	Unsorted
	Unbalanced
)

func (s State) String() string {
	switch s {
	case Valid:
		return "VALID"
	case Incomplete:
		return "INCOMPLETE"
	case Overlapping:
		return "OVERLAPPING"
	case Unsorted:
		return "UNSORTED"
	case Unbalanced:
		return "UNBALANCED"
	default:
		return "UNKNOWN"
	}
}

// QueryOctree is a frozen octree supporting O(1) corner/level lookup and
// face-neighbor queries, backed by one hash set of codes per level.
type QueryOctree struct {
	root    OctantID
	ordered []OctantID
	byLevel []map[MortonCode]struct{} // indexed 0..root.Level()
}

// NewQueryOctree consumes tree (which must already be sorted and compact)
// and builds the per-level index.
func NewQueryOctree(tree *LinearOctree) *QueryOctree {
	root := tree.Root()
	q := &QueryOctree{
		root:    root,
		ordered: append([]OctantID(nil), tree.Leaves()...),
		byLevel: make([]map[MortonCode]struct{}, root.Level()+1),
	}
	counts := make([]int, root.Level()+1)
	for _, leaf := range q.ordered {
		counts[leaf.Level()]++
	}
	for lvl, c := range counts {
		q.byLevel[lvl] = make(map[MortonCode]struct{}, c)
	}
	for _, leaf := range q.ordered {
		q.byLevel[leaf.Level()][leaf.Code()] = struct{}{}
	}
	T().Debugf("query octree frozen: %d leaves, depth %d", len(q.ordered), root.Level())
	return q
}

// Root returns the domain root octant.
func (q *QueryOctree) Root() OctantID { return q.root }

// NodeCount returns the number of leaves.
func (q *QueryOctree) NodeCount() int { return len(q.ordered) }

// Node returns the leaf at ordered index i. Out-of-range is a programmer
// error and panics, matching the "out-of-range is fatal" contract.
func (q *QueryOctree) Node(i int) Node {
	if i < 0 || i >= len(q.ordered) {
		panic(fmt.Errorf("%w: node index %d out of range [0,%d)", ErrInvariantViolation, i, len(q.ordered)))
	}
	return nodeFrom(q.ordered[i])
}

// MaxLevel returns the highest level with at least one leaf.
func (q *QueryOctree) MaxLevel() uint {
	for lvl := len(q.byLevel) - 1; lvl >= 0; lvl-- {
		if len(q.byLevel[lvl]) > 0 {
			return uint(lvl)
		}
	}
	return 0
}

// TryNodeAt probes for a leaf at exactly (llf, level).
func (q *QueryOctree) TryNodeAt(llf Coord, level int) (Node, bool) {
	if level < 0 || level >= len(q.byLevel) || !canEncode(llf) {
		return InvalidNode, false
	}
	code := maskLowBits(mortonOf(llf), uint(level))
	if _, ok := q.byLevel[level][code]; ok {
		return nodeFrom(OctantID{code: code, level: uint(level)}), true
	}
	return InvalidNode, false
}

func (q *QueryOctree) probe(id OctantID) (Node, bool) {
	if int(id.Level()) >= len(q.byLevel) {
		return InvalidNode, false
	}
	if _, ok := q.byLevel[id.Level()][id.Code()]; ok {
		return nodeFrom(id), true
	}
	return InvalidNode, false
}

// Neighbors returns the 0, 1 or 4 leaves sharing part of n's given face.
func (q *QueryOctree) Neighbors(n Node, face Face) ([]Node, error) {
	candidate := n.LLF().Add(normalOf(face).Scale(n.Side()))
	if !canEncode(candidate) || !componentGE(candidate, q.root.LLF()) || !componentLE(candidate.Add(Coord{1, 1, 1}), q.root.URB()) {
		return nil, nil
	}

	sameLevel := OctantID{code: mortonOf(candidate), level: n.Level()}
	if node, ok := q.probe(sameLevel); ok {
		return []Node{node}, nil
	}

	parentLevel := n.Level() + 1
	if int(parentLevel) < len(q.byLevel) {
		coarser := OctantID{code: maskLowBits(mortonOf(candidate), parentLevel), level: parentLevel}
		if node, ok := q.probe(coarser); ok {
			return []Node{node}, nil
		}
	}

	if n.Level() == 0 {
		return nil, nil
	}
	indices, ok := faceChildIndices[face]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported face enumerant %v", ErrInvalidArgument, face)
	}
	children, err := sameLevel.Children()
	if err != nil {
		return nil, nil
	}
	var found []Node
	for _, idx := range indices {
		if node, ok := q.probe(children[idx]); ok {
			found = append(found, node)
		}
	}
	if len(found) > 0 && len(found) != 4 {
		return nil, fmt.Errorf("%w: expected 4 finer neighbors across %v, found %d", ErrInvariantViolation, face, len(found))
	}
	return found, nil
}

// CheckState validates sortedness, completeness, disjointness, and 2:1
// balance.
func (q *QueryOctree) CheckState() State {
	leaves := q.ordered
	if len(leaves) == 0 {
		return Incomplete
	}
	for i := 1; i < len(leaves); i++ {
		if leaves[i].Less(leaves[i-1]) {
			return Unsorted
		}
	}

	tmp := NewLinearOctreeWithLeaves(q.root, leaves)
	tmp.SortAndCompact()
	for i := range tmp.Leaves() {
		if !tmp.LeafAt(i).Equal(leaves[i]) {
			return Unsorted
		}
	}

	first := leaves[0]
	expectedFirst := OctantID{code: q.root.Code(), level: 0}
	if !first.Equal(expectedFirst) && !codeContains(first, expectedFirst) {
		return Incomplete
	}
	last := leaves[len(leaves)-1]
	lastDescendant := deepestLastDescendantOf(q.root)
	if !codeContains(last, lastDescendant) && !last.Equal(lastDescendant) {
		return Incomplete
	}

	for i := 1; i < len(leaves); i++ {
		prevLastDescendant := deepestLastDescendantOf(leaves[i-1])
		wantNext := MortonCode(uint64(prevLastDescendant.Code()) + 1)
		gotNext := deepestFirstDescendantOf(leaves[i]).Code()
		if gotNext < wantNext {
			return Overlapping
		}
		if gotNext > wantNext {
			return Incomplete
		}
	}

	for _, leaf := range leaves {
		for _, key := range leaf.SearchKeys(q.root) {
			u, ok := tmp.MaximumLowerBound(key)
			if !ok {
				continue
			}
			if key.IsDescendantOf(u) && u.Level() > leaf.Level()+1 {
				return Unbalanced
			}
		}
	}
	return Valid
}

func codeContains(ancestor, descendant OctantID) bool {
	return descendant.IsDescendantOf(ancestor)
}
