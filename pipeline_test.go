package octree

import "testing"

func TestParallelBuildMatchesSequentialBuild(t *testing.T) {
	defer setupTest(t)()
	root, _ := NewOctantID(Coord{0, 0, 0}, 3)
	var seeds []OctantID
	for _, c := range []Coord{{5, 2, 0}, {1, 1, 1}, {6, 6, 6}, {0, 0, 0}} {
		seeds = append(seeds, mustOctant(t, c, 0))
	}

	seq, _, err := SequentialBuild(root, append([]OctantID(nil), seeds...), root.Level())
	if err != nil {
		t.Fatal(err)
	}
	seq.SortAndCompact()

	for _, threads := range []int{1, 2, 4} {
		par, stats, err := ParallelBuild(root, append([]OctantID(nil), seeds...), threads, root.Level())
		if err != nil {
			t.Fatalf("threads=%d: %v", threads, err)
		}
		if stats.Blocks < 1 {
			t.Errorf("threads=%d: got Blocks=%d, want at least 1", threads, stats.Blocks)
		}
		if par.Len() != seq.Len() {
			t.Fatalf("threads=%d: got %d leaves, want %d", threads, par.Len(), seq.Len())
		}
		for i := range seq.Leaves() {
			if !par.LeafAt(i).Equal(seq.LeafAt(i)) {
				t.Errorf("threads=%d: leaf %d = %s, want %s", threads, i, par.LeafAt(i), seq.LeafAt(i))
			}
		}
	}
}

func TestParallelBuildResultIsValid(t *testing.T) {
	defer setupTest(t)()
	root, _ := NewOctantID(Coord{0, 0, 0}, 4)
	var seeds []OctantID
	for x := int64(3); x <= 4; x++ {
		for y := int64(3); y <= 4; y++ {
			for z := int64(3); z <= 4; z++ {
				seeds = append(seeds, mustOctant(t, Coord{x, y, z}, 0))
			}
		}
	}
	tree, _, err := ParallelBuild(root, seeds, 4, root.Level())
	if err != nil {
		t.Fatal(err)
	}
	q := NewQueryOctree(tree)
	if state := q.CheckState(); state != Valid {
		t.Errorf("S4: check-state = %s, want VALID", state)
	}
}
