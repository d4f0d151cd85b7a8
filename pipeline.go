package octree

import (
	"fmt"

	"golang.org/x/sync/errgroup"
)

// PipelineStats records the partition- and boundary-phase counts a build
// pass produced, for Builder.Finish to fold into BuildStats.
type PipelineStats struct {
	Blocks          int // partitions the seeds were split across
	BoundaryOctants int // octants collected and rebalanced across partition edges
}

// SequentialBuild inserts all seeds into a LinearOctree rooted at root and
// grows a 2:1 balanced complete subtree from them.
func SequentialBuild(root OctantID, seeds []OctantID, maxLevel uint) (*LinearOctree, PipelineStats, error) {
	T().Debugf("sequential build: root=%s seeds=%d maxLevel=%d", root, len(seeds), maxLevel)
	tree, err := CreateBalancedSubtree(root, seeds, maxLevel)
	if err != nil {
		return nil, PipelineStats{}, err
	}
	return tree, PipelineStats{Blocks: 1}, nil
}

// ParallelBuild runs the full parallel construction pipeline: sort seeds,
// partition them across threads, build each partition's balanced subtree
// independently, collect and balance the boundary octants that straddle
// partitions, and merge everything back into one global balanced tree.
func ParallelBuild(root OctantID, seeds []OctantID, threads int, maxLevel uint) (*LinearOctree, PipelineStats, error) {
	if threads < 1 {
		threads = 1
	}
	T().Debugf("parallel build: root=%s seeds=%d threads=%d maxLevel=%d", root, len(seeds), threads, maxLevel)

	sorted := dedupeOctantIDs(seeds)
	parallelStableSort(sorted, threads)

	partition, err := ComputePartition(root, sorted, threads)
	if err != nil {
		return nil, PipelineStats{}, err
	}
	T().Debugf("partitioned into %d blocks", len(partition.Blocks))

	balancedBlocks := make([]*LinearOctree, len(partition.Blocks))
	{
		g := new(errgroup.Group)
		g.SetLimit(threads)
		for i, block := range partition.Blocks {
			i, block := i, block
			g.Go(func() error {
				blockMax := maxLevel
				if block.Root().Level() < blockMax {
					blockMax = block.Root().Level()
				}
				balanced, err := CreateBalancedSubtree(block.Root(), block.Leaves(), blockMax)
				if err != nil {
					return err
				}
				balancedBlocks[i] = balanced
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, PipelineStats{}, err
		}
	}

	boundaryPerBlock := make([][]OctantID, len(balancedBlocks))
	{
		g := new(errgroup.Group)
		g.SetLimit(threads)
		for i, block := range balancedBlocks {
			i, block := i, block
			g.Go(func() error {
				boundaryPerBlock[i] = collectBoundaryLeafs(block, root)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, PipelineStats{}, err
		}
	}

	var boundaryLeaves []OctantID
	for _, bs := range boundaryPerBlock {
		boundaryLeaves = append(boundaryLeaves, bs...)
	}
	boundaryTree := NewLinearOctreeWithLeaves(root, boundaryLeaves)
	if err := BalanceTree(boundaryTree); err != nil {
		return nil, PipelineStats{}, err
	}
	T().Debugf("boundary tree balanced: %d leaves", boundaryTree.Len())

	var flattened []OctantID
	for _, block := range balancedBlocks {
		flattened = append(flattened, block.Leaves()...)
	}
	sortOctantIDs(flattened)

	merged := mergePartitionsAndBoundary(flattened, boundaryTree.Leaves())
	result := NewLinearOctreeWithLeaves(root, merged)
	result.SortAndCompact()
	T().Debugf("merged build complete: %d leaves", result.Len())
	stats := PipelineStats{Blocks: len(partition.Blocks), BoundaryOctants: boundaryTree.Len()}
	return result, stats, nil
}

// collectBoundaryLeafs returns block's leaves that touch the edge of block
// but not the edge of the global domain.
func collectBoundaryLeafs(block *LinearOctree, globalRoot OctantID) []OctantID {
	var boundary []OctantID
	for _, leaf := range block.Leaves() {
		if leaf.IsBoundaryOctant(block, globalRoot) {
			boundary = append(boundary, leaf)
		}
	}
	return boundary
}

// mergePartitionsAndBoundary interleaves the sorted, complete set of
// per-partition leaves with the sorted, balanced boundary-octants tree in
// one linear pass: every partition leaf not shadowed by the boundary tree
// is kept unchanged; every partition leaf that the boundary tree refines
// (equals or has descendants of) is replaced by that finer run of boundary
// leaves.
func mergePartitionsAndBoundary(partitionLeaves, boundaryLeaves []OctantID) []OctantID {
	result := make([]OctantID, 0, len(partitionLeaves)+len(boundaryLeaves))
	bi := 0
	for _, p := range partitionLeaves {
		if bi < len(boundaryLeaves) && shadows(boundaryLeaves[bi], p) {
			for bi < len(boundaryLeaves) && shadows(boundaryLeaves[bi], p) {
				result = append(result, boundaryLeaves[bi])
				bi++
			}
			continue
		}
		result = append(result, p)
	}
	result = append(result, boundaryLeaves[bi:]...)
	return result
}

func shadows(b, p OctantID) bool {
	return b.Equal(p) || b.IsDescendantOf(p)
}

// checkPartitionCoverage is an assertion helper used by tests to verify
// every seed lies inside the domain of at least one block; production code relies on
// ComputePartition's own ErrInvariantViolation instead.
func checkPartitionCoverage(partition *Partition, seeds []OctantID) error {
	for _, s := range seeds {
		found := false
		for _, b := range partition.Blocks {
			if b.InsideBounds(s) {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("%w: seed %s matched no block", ErrInvariantViolation, s)
		}
	}
	return nil
}
