package octree

import "fmt"

// OctantID identifies an octant by its Morton code and level. Level 0 is a
// unit cube; level L has side 2^L. The code field always holds the code of
// the octant's lower-left-front corner with its low 3*level bits cleared.
type OctantID struct {
	code  MortonCode
	level uint
}

// NewOctantID builds the OctantID for the octant of the given level whose
// domain contains llf. llf need not itself be aligned to the level's side;
// the returned OctantID's corner is llf's level-`level` ancestor corner.
func NewOctantID(llf Coord, level uint) (OctantID, error) {
	if !canEncode(llf) {
		return OctantID{}, fmt.Errorf("%w: %s exceeds 21-bit Morton capacity", ErrOutOfDomain, llf)
	}
	return OctantID{code: maskLowBits(mortonOf(llf), level), level: level}, nil
}

// Code returns the octant's aligned Morton code.
func (o OctantID) Code() MortonCode { return o.code }

// Level returns the octant's level.
func (o OctantID) Level() uint { return o.level }

// Side returns the octant's side length, 2^level.
func (o OctantID) Side() int64 { return int64(1) << o.level }

// LLF returns the octant's lower-left-front corner.
func (o OctantID) LLF() Coord { return coordOf(o.code) }

// URB returns the octant's upper-right-back corner, LLF + side.
func (o OctantID) URB() Coord {
	s := o.Side()
	return o.LLF().Add(Coord{s, s, s})
}

// Equal reports whether o and other have the same code and level.
func (o OctantID) Equal(other OctantID) bool {
	return o.code == other.code && o.level == other.level
}

// Less implements the total order: compare codes ascending; on ties, the
// larger level sorts first so that ancestors precede their descendants.
func (o OctantID) Less(other OctantID) bool {
	if o.code != other.code {
		return o.code < other.code
	}
	return o.level > other.level
}

func (o OctantID) String() string {
	return fmt.Sprintf("Octant{code=%d,level=%d,llf=%s}", o.code, o.level, o.LLF())
}

// Parent returns the octant one level coarser that contains o.
func (o OctantID) Parent() OctantID {
	return OctantID{code: maskLowBits(o.code, o.level+1), level: o.level + 1}
}

// AncestorAtLevel returns o's ancestor at the given level. Fails with
// ErrInvalidArgument if level < o.Level().
func (o OctantID) AncestorAtLevel(level uint) (OctantID, error) {
	if level < o.level {
		return OctantID{}, fmt.Errorf("%w: ancestor level %d below self level %d", ErrInvalidArgument, level, o.level)
	}
	return OctantID{code: maskLowBits(o.code, level), level: level}, nil
}

// Children returns o's eight children at level-1. Fails with
// ErrInvalidArgument if o is at level 0.
func (o OctantID) Children() ([8]OctantID, error) {
	var children [8]OctantID
	if o.level == 0 {
		return children, fmt.Errorf("%w: children() called on level-0 octant %s", ErrInvalidArgument, o)
	}
	childLevel := o.level - 1
	for i := uint(0); i < 8; i++ {
		children[i] = OctantID{code: childTriplet(o.code, childLevel, i), level: childLevel}
	}
	return children, nil
}

// IsDescendantOf reports whether o is strictly inside a's domain.
func (o OctantID) IsDescendantOf(a OctantID) bool {
	if o.level >= a.level {
		return false
	}
	return maskLowBits(o.code, a.level) == a.code
}

// NearestCommonAncestor returns the smallest octant containing both a and b.
func NearestCommonAncestor(a, b OctantID) OctantID {
	d := uint64(a.code ^ b.code)
	if d == 0 {
		level := a.level
		if b.level > level {
			level = b.level
		}
		return OctantID{code: a.code, level: level}
	}
	p := mostSignificantSetBit(d)
	level := uint((p + 3) / 3) // ceil((p+1)/3)
	if a.level > level {
		level = a.level
	}
	if b.level > level {
		level = b.level
	}
	return OctantID{code: maskLowBits(a.code, level), level: level}
}

// searchCornerOffsets maps the low 3-bit child triplet (bit0=x, bit1=y,
// bit2=z) to the local offset of the corner the occupying child does not
// share with any sibling.
var searchCornerOffsets = [8]Coord{
	{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {1, 1, 0},
	{0, 0, 1}, {1, 0, 1}, {0, 1, 1}, {1, 1, 1},
}

// SearchCorner returns the corner of o that it does not share with any
// sibling under its parent.
func (o OctantID) SearchCorner() Coord {
	slot := tripletAt(o.code, o.level)
	return o.LLF().Add(searchCornerOffsets[slot].Scale(o.Side()))
}

// Bounds describes a cuboid domain an octant can be tested against: the
// global tree's domain for potential-neighbor queries, or a partition
// block's domain for boundary-octant detection.
type Bounds interface {
	LLF() Coord
	URB() Coord
}

// insideBounds reports whether o lies entirely within b.
func insideBounds(o OctantID, b Bounds) bool {
	llf, urb := o.LLF(), o.URB()
	bllf, burb := b.LLF(), b.URB()
	return componentGE(llf, bllf) && componentLE(urb, burb)
}

func componentGE(a, b Coord) bool { return a.X >= b.X && a.Y >= b.Y && a.Z >= b.Z }
func componentLE(a, b Coord) bool { return a.X <= b.X && a.Y <= b.Y && a.Z <= b.Z }

// neighborOffsets is the 26-entry Moore neighborhood, excluding (0,0,0).
var neighborOffsets = func() [26]Coord {
	var offs [26]Coord
	i := 0
	for dx := int64(-1); dx <= 1; dx++ {
		for dy := int64(-1); dy <= 1; dy++ {
			for dz := int64(-1); dz <= 1; dz++ {
				if dx == 0 && dy == 0 && dz == 0 {
					continue
				}
				offs[i] = Coord{dx, dy, dz}
				i++
			}
		}
	}
	return offs
}()

// PotentialNeighbors returns, among the 26 same-level octants adjacent to o
// by at least a vertex, those lying inside bounds.
func (o OctantID) PotentialNeighbors(bounds Bounds) []OctantID {
	result := make([]OctantID, 0, 26)
	side := o.Side()
	llf := o.LLF()
	for _, off := range neighborOffsets {
		cand := llf.Add(off.Scale(side))
		if !canEncode(cand) {
			continue
		}
		candidate := OctantID{code: mortonOf(cand), level: o.level}
		if insideBounds(candidate, bounds) {
			result = append(result, candidate)
		}
	}
	return result
}

// PotentialNeighborsWithoutSiblings is PotentialNeighbors with candidates
// sharing o's parent excluded.
func (o OctantID) PotentialNeighborsWithoutSiblings(bounds Bounds) []OctantID {
	parent := o.Parent()
	all := o.PotentialNeighbors(bounds)
	result := make([]OctantID, 0, len(all))
	for _, cand := range all {
		if cand.Parent().Equal(parent) {
			continue
		}
		result = append(result, cand)
	}
	return result
}

// IsBoundaryOctant reports whether o touches the edge of block but not the
// edge of global: at least one LLF component matches block's LLF but not
// global's, or at least one URB component matches block's URB but not
// global's.
func (o OctantID) IsBoundaryOctant(block, global Bounds) bool {
	llf, urb := o.LLF(), o.URB()
	bllf, burb := block.LLF(), block.URB()
	gllf, gurb := global.LLF(), global.URB()
	if (llf.X == bllf.X && llf.X != gllf.X) ||
		(llf.Y == bllf.Y && llf.Y != gllf.Y) ||
		(llf.Z == bllf.Z && llf.Z != gllf.Z) {
		return true
	}
	if (urb.X == burb.X && urb.X != gurb.X) ||
		(urb.Y == burb.Y && urb.Y != gurb.Y) ||
		(urb.Z == burb.Z && urb.Z != gurb.Z) {
		return true
	}
	return false
}

// SearchKeys returns up to seven level-0 OctantIDs at the corners of the
// 2x2x2 cube of unit cubes centered on o's search corner, excluding the
// corner equal to o itself or descending from it, filtered to bounds.
func (o OctantID) SearchKeys(bounds Bounds) []OctantID {
	corner := o.SearchCorner()
	keys := make([]OctantID, 0, 7)
	for _, off := range [8]Coord{
		{0, 0, 0}, {-1, 0, 0}, {0, -1, 0}, {0, 0, -1},
		{-1, -1, 0}, {-1, 0, -1}, {0, -1, -1}, {-1, -1, -1},
	} {
		cand := corner.Add(off)
		if !canEncode(cand) {
			continue
		}
		key := OctantID{code: mortonOf(cand), level: 0}
		if key.IsDescendantOf(o) || key.Equal(o) {
			continue
		}
		if !insideBounds(key, bounds) {
			continue
		}
		keys = append(keys, key)
	}
	return keys
}
