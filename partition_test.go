package octree

import "testing"

func TestComputePartitionFallsBackToSingleBlock(t *testing.T) {
	defer setupTest(t)()
	root, _ := NewOctantID(Coord{0, 0, 0}, 3)
	seeds := []OctantID{mustOctant(t, Coord{0, 0, 0}, 0), mustOctant(t, Coord{7, 7, 7}, 0)}
	sortOctantIDs(seeds)
	partition, err := ComputePartition(root, seeds, 4)
	if err != nil {
		t.Fatal(err)
	}
	if len(partition.Blocks) != 1 {
		t.Errorf("expected fallback to a single block for %d seeds, got %d blocks", len(seeds), len(partition.Blocks))
	}
}

func TestComputePartitionCoversAllSeeds(t *testing.T) {
	defer setupTest(t)()
	root, _ := NewOctantID(Coord{0, 0, 0}, 4)
	var seeds []OctantID
	for x := int64(0); x < 16; x += 2 {
		seeds = append(seeds, mustOctant(t, Coord{x, x, x}, 0))
	}
	sortOctantIDs(seeds)
	partition, err := ComputePartition(root, seeds, 4)
	if err != nil {
		t.Fatal(err)
	}
	if err := checkPartitionCoverage(partition, seeds); err != nil {
		t.Error(err)
	}
	total := 0
	for _, b := range partition.Blocks {
		total += b.Len()
	}
	if total != len(seeds) {
		t.Errorf("blocks hold %d seeds total, want %d", total, len(seeds))
	}
}

func mustOctant(t *testing.T, c Coord, level uint) OctantID {
	t.Helper()
	o, err := NewOctantID(c, level)
	if err != nil {
		t.Fatal(err)
	}
	return o
}
