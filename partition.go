package octree

import "fmt"

// Partition is the result of splitting a sorted seed sequence into
// non-overlapping blocks whose union tiles the global root domain, each
// owning a contiguous range of seeds.
type Partition struct {
	Root   OctantID
	Blocks []*LinearOctree
}

// ComputePartition slices sortedSeeds (sorted, deduplicated) into up to
// threads contiguous groups, completes the region between each group's
// first and last seed, stitches the resulting coarse octants into a single
// tiling of root's domain (filling any gap between consecutive blocks with
// the coarsest octants that fit), and assigns every seed to the block whose
// domain contains it.
//
// If there are too few seeds per thread to make partitioning worthwhile,
// ComputePartition falls back to a single block covering the whole domain.
func ComputePartition(root OctantID, sortedSeeds []OctantID, threads int) (*Partition, error) {
	if threads < 1 {
		threads = 1
	}
	n := len(sortedSeeds)
	groups := threads
	if n/3 < groups {
		groups = n / 3
	}
	if groups < 2 {
		block := NewLinearOctree(root)
		for _, s := range sortedSeeds {
			if err := block.Insert(s); err != nil {
				return nil, err
			}
		}
		return &Partition{Root: root, Blocks: []*LinearOctree{block}}, nil
	}

	groupSize := n / groups
	type groupRange struct{ lo, hi int }
	ranges := make([]groupRange, groups)
	lo := 0
	for g := 0; g < groups; g++ {
		hi := lo + groupSize
		if g == groups-1 {
			hi = n
		}
		ranges[g] = groupRange{lo, hi}
		lo = hi
	}

	var boundaries []OctantID
	for i, r := range ranges {
		a, b := sortedSeeds[r.lo], sortedSeeds[r.hi-1]
		region, err := CompleteRegion(a, b)
		if err != nil {
			return nil, err
		}
		boundaries = append(boundaries, filterMaxLevel(region)...)
		if i+1 < len(ranges) {
			next := sortedSeeds[ranges[i+1].lo]
			boundaries = append(boundaries, b)
			link, err := CompleteRegion(b, next)
			if err != nil {
				return nil, err
			}
			boundaries = append(boundaries, link...)
			boundaries = append(boundaries, next)
		}
	}
	sortOctantIDs(boundaries)
	boundaries = dedupeOctantIDs(boundaries)

	deepestFirst := deepestFirstDescendantOf(root)
	deepestLast := deepestLastDescendantOf(root)
	if len(boundaries) == 0 {
		boundaries = []OctantID{root}
	} else {
		if !boundaries[0].Equal(deepestFirst) {
			nca := NearestCommonAncestor(deepestFirst, boundaries[0])
			if !nca.Equal(boundaries[0]) {
				children, err := nca.Children()
				if err != nil {
					return nil, err
				}
				boundaries = append([]OctantID{children[0]}, boundaries...)
			}
		}
		last := boundaries[len(boundaries)-1]
		if !last.Equal(deepestLast) {
			nca := NearestCommonAncestor(deepestLast, last)
			if !nca.Equal(last) {
				children, err := nca.Children()
				if err != nil {
					return nil, err
				}
				boundaries = append(boundaries, children[7])
			}
		}
	}
	sortOctantIDs(boundaries)
	boundaries = dedupeOctantIDs(boundaries)

	// Fill every gap between consecutive blocks (a region's octants below its
	// highest level are not kept above) with the coarsest octants tiling it.
	filled := boundaries[:1:1]
	for _, blk := range boundaries[1:] {
		gapStart := deepestLastDescendantOf(filled[len(filled)-1])
		gapEnd := deepestFirstDescendantOf(blk)
		if uint64(gapEnd.Code()) > uint64(gapStart.Code())+1 {
			gap, err := CompleteRegion(gapStart, gapEnd)
			if err != nil {
				return nil, err
			}
			filled = append(filled, gap...)
		}
		filled = append(filled, blk)
	}
	boundaries = filled

	blocks := make([]*LinearOctree, len(boundaries))
	for i, b := range boundaries {
		blocks[i] = NewLinearOctree(b)
	}

	blockIdx := 0
	for _, seed := range sortedSeeds {
		for blockIdx < len(blocks)-1 && !blocks[blockIdx].InsideBounds(seed) {
			blockIdx++
		}
		if !blocks[blockIdx].InsideBounds(seed) {
			return nil, fmt.Errorf("%w: seed %s fits no partition block", ErrInvariantViolation, seed)
		}
		if err := blocks[blockIdx].Insert(seed); err != nil {
			return nil, err
		}
	}

	return &Partition{Root: root, Blocks: blocks}, nil
}

// filterMaxLevel keeps only the elements of region at its highest level
// (the coarsest octants present), which become the candidate block
// boundaries for that group's span.
func filterMaxLevel(region []OctantID) []OctantID {
	if len(region) == 0 {
		return nil
	}
	max := region[0].Level()
	for _, o := range region[1:] {
		if o.Level() > max {
			max = o.Level()
		}
	}
	out := make([]OctantID, 0, len(region))
	for _, o := range region {
		if o.Level() == max {
			out = append(out, o)
		}
	}
	return out
}

func deepestFirstDescendantOf(o OctantID) OctantID {
	return OctantID{code: o.Code(), level: 0}
}

func deepestLastDescendantOf(o OctantID) OctantID {
	s := o.Side() - 1
	corner := o.LLF().Add(Coord{s, s, s})
	return OctantID{code: mortonOf(corner), level: 0}
}
