package octree

import "testing"

func TestBuilderSequentialFinishIsValid(t *testing.T) {
	defer setupTest(t)()
	b, err := NewSequentialBuilder(Coord{7, 7, 7})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := b.AddLeaf(Coord{0, 0, 0}); err != nil {
		t.Fatal(err)
	}
	tree, err := b.Finish()
	if err != nil {
		t.Fatal(err)
	}
	if state := tree.CheckState(); state != Valid {
		t.Errorf("got state %s, want VALID", state)
	}
}

func TestBuilderParallelMatchesSequential(t *testing.T) {
	defer setupTest(t)()
	coords := []Coord{{5, 2, 0}, {1, 1, 1}, {6, 6, 6}, {0, 0, 0}}

	seq, err := NewSequentialBuilder(Coord{7, 7, 7})
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range coords {
		if _, err := seq.AddLeaf(c); err != nil {
			t.Fatal(err)
		}
	}
	seqTree, err := seq.Finish()
	if err != nil {
		t.Fatal(err)
	}

	par, err := NewParallelBuilder(Coord{7, 7, 7}, 4)
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range coords {
		if _, err := par.AddLeaf(c); err != nil {
			t.Fatal(err)
		}
	}
	parTree, err := par.Finish()
	if err != nil {
		t.Fatal(err)
	}

	if parTree.NodeCount() != seqTree.NodeCount() {
		t.Fatalf("got %d nodes, want %d", parTree.NodeCount(), seqTree.NodeCount())
	}
	for i := 0; i < seqTree.NodeCount(); i++ {
		if !parTree.Node(i).Equal(seqTree.Node(i)) {
			t.Errorf("node %d = %s, want %s", i, parTree.Node(i), seqTree.Node(i))
		}
	}
}

func TestBuilderRejectsNegativeCoordinate(t *testing.T) {
	defer setupTest(t)()
	b, err := NewSequentialBuilder(Coord{7, 7, 7})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := b.AddLeaf(Coord{-1, 0, 0}); err == nil {
		t.Error("expected an error for a negative coordinate")
	}
}

func TestBuilderRejectsOutOfDomainCoordinate(t *testing.T) {
	defer setupTest(t)()
	b, err := NewSequentialBuilder(Coord{7, 7, 7})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := b.AddLeaf(Coord{100, 0, 0}); err == nil {
		t.Error("expected an error for a coordinate outside the domain")
	}
}

func TestBuilderDedupsRepeatedLeaf(t *testing.T) {
	defer setupTest(t)()
	b, err := NewSequentialBuilder(Coord{7, 7, 7})
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if _, err := b.AddLeaf(Coord{0, 0, 0}); err != nil {
			t.Fatal(err)
		}
	}
	tree, err := b.Finish()
	if err != nil {
		t.Fatal(err)
	}
	if tree.CheckState() != Valid {
		t.Errorf("duplicate seeds should still yield a valid tree, got %s", tree.CheckState())
	}
}

func TestBuilderRejectsAddAfterFinish(t *testing.T) {
	defer setupTest(t)()
	b, err := NewSequentialBuilder(Coord{7, 7, 7})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := b.AddLeaf(Coord{0, 0, 0}); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Finish(); err != nil {
		t.Fatal(err)
	}
	if _, err := b.AddLeaf(Coord{1, 0, 0}); err == nil {
		t.Error("expected AddLeaf to fail after Finish")
	}
}

func TestBuilderFinishIsIdempotent(t *testing.T) {
	defer setupTest(t)()
	b, err := NewSequentialBuilder(Coord{7, 7, 7})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := b.AddLeaf(Coord{0, 0, 0}); err != nil {
		t.Fatal(err)
	}
	first, err := b.Finish()
	if err != nil {
		t.Fatal(err)
	}
	second, err := b.Finish()
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Error("expected repeated Finish calls without new leaves to return the cached result")
	}
}

func TestBuilderStatsReflectsFinish(t *testing.T) {
	defer setupTest(t)()
	b, err := NewSequentialBuilder(Coord{7, 7, 7})
	if err != nil {
		t.Fatal(err)
	}
	if s := b.Stats(); s.Seeds != 0 || s.Leaves != 0 {
		t.Errorf("expected zero stats before Finish, got %+v", s)
	}
	if _, err := b.AddLeaf(Coord{0, 0, 0}); err != nil {
		t.Fatal(err)
	}
	tree, err := b.Finish()
	if err != nil {
		t.Fatal(err)
	}
	stats := b.Stats()
	if stats.Seeds != 1 {
		t.Errorf("got Seeds=%d, want 1", stats.Seeds)
	}
	if stats.Leaves != tree.NodeCount() {
		t.Errorf("got Leaves=%d, want %d", stats.Leaves, tree.NodeCount())
	}
	if stats.Blocks != 1 {
		t.Errorf("got Blocks=%d, want 1 for a sequential build", stats.Blocks)
	}
	if stats.BoundaryOctants != 0 {
		t.Errorf("got BoundaryOctants=%d, want 0 for a sequential build", stats.BoundaryOctants)
	}
}

func TestBuilderStatsReflectsParallelFinish(t *testing.T) {
	defer setupTest(t)()
	b, err := NewParallelBuilder(Coord{7, 7, 7}, 4)
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range []Coord{{5, 2, 0}, {1, 1, 1}, {6, 6, 6}, {0, 0, 0}} {
		if _, err := b.AddLeaf(c); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := b.Finish(); err != nil {
		t.Fatal(err)
	}
	stats := b.Stats()
	if stats.Blocks < 1 {
		t.Errorf("got Blocks=%d, want at least 1", stats.Blocks)
	}
	if stats.BoundaryOctants < 0 {
		t.Errorf("got BoundaryOctants=%d, want non-negative", stats.BoundaryOctants)
	}
}

func TestBuilderWithMaxLevelCapsResult(t *testing.T) {
	defer setupTest(t)()
	b, err := NewSequentialBuilder(Coord{7, 7, 7}, WithMaxLevel(1))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := b.AddLeaf(Coord{5, 2, 0}); err != nil {
		t.Fatal(err)
	}
	tree, err := b.Finish()
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < tree.NodeCount(); i++ {
		if tree.Node(i).Level() > 1 {
			t.Errorf("node %d exceeds the configured max level: %s", i, tree.Node(i))
		}
	}
}
