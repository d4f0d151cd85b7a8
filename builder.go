package octree

import "fmt"

// Builder stages level-zero seed leaves and, on Finish, grows them into a
// complete, 2:1-balanced QueryOctree. The sequential and parallel variants
// share this one type and contract; sequential is a degenerate case of the
// parallel pipeline with a single worker and no partitioning.
type Builder struct {
	root     OctantID
	maxLevel uint
	threads  int // 0 means sequential
	seeds    map[OctantID]bool
	order    []OctantID

	done   bool
	dirty  bool
	result *QueryOctree
	stats  BuildStats
}

// BuildStats records per-phase counts from the most recent Finish call, for
// callers that want to log or report on a build without re-deriving them
// from the resulting QueryOctree.
type BuildStats struct {
	Seeds           int // distinct level-zero leaves staged before Finish
	Leaves          int // leaves in the finished, balanced QueryOctree
	Blocks          int // partitions the seeds were split across (1 for a sequential build)
	BoundaryOctants int // octants collected and rebalanced across partition edges (0 for a sequential build)
}

// Option configures a Builder at construction time.
type Option func(*Builder)

// WithMaxLevel caps the coarsest octant the builder will ever produce. The
// default is the domain's own depth (no cap).
func WithMaxLevel(level uint) Option {
	return func(b *Builder) { b.maxLevel = level }
}

// NewSequentialBuilder creates a builder that grows its tree on a single
// thread.
func NewSequentialBuilder(maxXYZ Coord, opts ...Option) (*Builder, error) {
	return newBuilder(maxXYZ, 0, opts...)
}

// NewParallelBuilder creates a builder that partitions its seeds across up
// to threads workers during Finish.
func NewParallelBuilder(maxXYZ Coord, threads int, opts ...Option) (*Builder, error) {
	if threads < 1 {
		threads = 1
	}
	return newBuilder(maxXYZ, threads, opts...)
}

func newBuilder(maxXYZ Coord, threads int, opts ...Option) (*Builder, error) {
	if !canEncode(maxXYZ) {
		return nil, fmt.Errorf("%w: maxXYZ %s exceeds 21-bit Morton capacity", ErrOutOfDomain, maxXYZ)
	}
	depth := domainDepthFor(maxXYZ)
	root := OctantID{code: 0, level: depth}
	b := &Builder{
		root:     root,
		maxLevel: depth,
		threads:  threads,
		seeds:    make(map[OctantID]bool),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.maxLevel > depth {
		b.maxLevel = depth
	}
	return b, nil
}

// domainDepthFor returns the smallest D such that a cube of side 2^D
// rooted at the origin contains maxXYZ.
func domainDepthFor(maxXYZ Coord) uint {
	highest := maxXYZ.X
	if maxXYZ.Y > highest {
		highest = maxXYZ.Y
	}
	if maxXYZ.Z > highest {
		highest = maxXYZ.Z
	}
	depth := uint(0)
	for (int64(1) << depth) <= highest {
		depth++
	}
	return depth
}

// AddLeaf stages coord as a level-zero seed and returns its Morton code.
// Forbidden once Finish has been called.
func (b *Builder) AddLeaf(coord Coord) (MortonCode, error) {
	if b.done {
		return 0, fmt.Errorf("%w: cannot add leaf after builder finished", ErrInvalidArgument)
	}
	if coord.X < 0 || coord.Y < 0 || coord.Z < 0 {
		return 0, fmt.Errorf("%w: negative coordinate %s", ErrOutOfDomain, coord)
	}
	if !canEncode(coord) {
		return 0, fmt.Errorf("%w: coordinate %s exceeds 21-bit Morton capacity", ErrOutOfDomain, coord)
	}
	leaf, err := NewOctantID(coord, 0)
	if err != nil {
		return 0, err
	}
	if !insideBounds(leaf, b.root) {
		return 0, fmt.Errorf("%w: coordinate %s outside domain %s", ErrOutOfDomain, coord, b.root)
	}
	if !b.seeds[leaf] {
		b.seeds[leaf] = true
		b.order = append(b.order, leaf)
	}
	b.dirty = true
	return leaf.Code(), nil
}

// Finish grows the staged seeds into a balanced QueryOctree. Calling Finish
// twice without adding leaves in between returns the same result.
func (b *Builder) Finish() (*QueryOctree, error) {
	if b.done && !b.dirty {
		return b.result, nil
	}
	var tree *LinearOctree
	var pipeline PipelineStats
	var err error
	if b.threads == 0 {
		tree, pipeline, err = SequentialBuild(b.root, b.order, b.maxLevel)
	} else {
		tree, pipeline, err = ParallelBuild(b.root, b.order, b.threads, b.maxLevel)
	}
	if err != nil {
		return nil, err
	}
	b.result = NewQueryOctree(tree)
	b.stats = BuildStats{
		Seeds:           len(b.order),
		Leaves:          b.result.NodeCount(),
		Blocks:          pipeline.Blocks,
		BoundaryOctants: pipeline.BoundaryOctants,
	}
	T().Debugf("builder finished: seeds=%d leaves=%d blocks=%d boundary=%d",
		b.stats.Seeds, b.stats.Leaves, b.stats.Blocks, b.stats.BoundaryOctants)
	b.done = true
	b.dirty = false
	return b.result, nil
}

// Stats returns the counts from the most recent Finish call. Zero-valued
// before the first Finish.
func (b *Builder) Stats() BuildStats { return b.stats }
