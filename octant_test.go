package octree

import (
	"testing"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func setupTest(t *testing.T) func() {
	gtrace.CoreTracer = gotestingadapter.New(t)
	teardown := gotestingadapter.RedirectTracing(t)
	gtrace.CoreTracer.SetTraceLevel(tracing.LevelDebug)
	return teardown
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	defer setupTest(t)()
	coords := []Coord{
		{0, 0, 0}, {1, 2, 3}, {7, 7, 7}, {1 << 20, 1 << 19, 1 << 18},
	}
	for _, c := range coords {
		code := mortonOf(c)
		got := coordOf(code)
		if got != c {
			t.Errorf("decode(encode(%s)) = %s, want %s", c, got, c)
		}
	}
}

func TestParentOfChild(t *testing.T) {
	defer setupTest(t)()
	o, err := NewOctantID(Coord{4, 4, 4}, 2)
	if err != nil {
		t.Fatal(err)
	}
	children, err := o.Children()
	if err != nil {
		t.Fatal(err)
	}
	for i, c := range children {
		if p := c.Parent(); !p.Equal(o) {
			t.Errorf("parent(child_%d(o)) = %s, want %s", i, p, o)
		}
	}
}

func TestChildrenOfLevelZeroFails(t *testing.T) {
	defer setupTest(t)()
	o, _ := NewOctantID(Coord{0, 0, 0}, 0)
	if _, err := o.Children(); err == nil {
		t.Error("expected error calling Children() on a level-0 octant")
	}
}

func TestAncestorAtLevel(t *testing.T) {
	defer setupTest(t)()
	o, _ := NewOctantID(Coord{5, 2, 0}, 0)
	for level := uint(0); level <= 3; level++ {
		a, err := o.AncestorAtLevel(level)
		if err != nil {
			t.Fatal(err)
		}
		if !o.IsDescendantOf(a) && level != 0 {
			t.Errorf("ancestorAtLevel(%d) = %s does not contain %s", level, a, o)
		}
		if level == 0 && !a.Equal(o) {
			t.Errorf("ancestorAtLevel(0) should equal self, got %s", a)
		}
	}
}

func TestAncestorBelowSelfFails(t *testing.T) {
	defer setupTest(t)()
	o, _ := NewOctantID(Coord{0, 0, 0}, 2)
	if _, err := o.AncestorAtLevel(1); err == nil {
		t.Error("expected error for ancestor level below self level")
	}
}

func TestNearestCommonAncestorContainsBoth(t *testing.T) {
	defer setupTest(t)()
	a, _ := NewOctantID(Coord{0, 0, 0}, 0)
	b, _ := NewOctantID(Coord{7, 7, 7}, 0)
	nca := NearestCommonAncestor(a, b)
	if !a.IsDescendantOf(nca) && !a.Equal(nca) {
		t.Errorf("NCA(%s,%s)=%s does not contain a", a, b, nca)
	}
	if !b.IsDescendantOf(nca) && !b.Equal(nca) {
		t.Errorf("NCA(%s,%s)=%s does not contain b", a, b, nca)
	}
}

func TestOrderingAncestorsPrecedeDescendants(t *testing.T) {
	defer setupTest(t)()
	parent, _ := NewOctantID(Coord{0, 0, 0}, 2)
	children, _ := parent.Children()
	if !parent.Less(children[0]) {
		t.Errorf("expected ancestor %s to sort before descendant %s", parent, children[0])
	}
}

func TestPotentialNeighborsBounds(t *testing.T) {
	defer setupTest(t)()
	root, _ := NewOctantID(Coord{0, 0, 0}, 3)
	o, _ := NewOctantID(Coord{3, 3, 3}, 0)
	ns := o.PotentialNeighbors(root)
	if len(ns) > 26 {
		t.Errorf("potentialNeighbors returned %d, want <= 26", len(ns))
	}
	nsNoSib := o.PotentialNeighborsWithoutSiblings(root)
	if len(nsNoSib) > 19 {
		t.Errorf("potentialNeighborsWithoutSiblings returned %d, want <= 19", len(nsNoSib))
	}
}
