package octree

import "fmt"

// Coord is a signed integer 3-vector. Components must fit in 21 bits
// unsigned to be Morton-encodable; negative components are rejected at the
// builder boundary rather than by this type itself.
type Coord struct {
	X, Y, Z int64
}

// Add returns c + o.
func (c Coord) Add(o Coord) Coord {
	return Coord{c.X + o.X, c.Y + o.Y, c.Z + o.Z}
}

// Scale returns c scaled by s.
func (c Coord) Scale(s int64) Coord {
	return Coord{c.X * s, c.Y * s, c.Z * s}
}

// Min returns the component-wise minimum of c and o.
func (c Coord) Min(o Coord) Coord {
	return Coord{min64(c.X, o.X), min64(c.Y, o.Y), min64(c.Z, o.Z)}
}

// Max returns the component-wise maximum of c and o.
func (c Coord) Max(o Coord) Coord {
	return Coord{max64(c.X, o.X), max64(c.Y, o.Y), max64(c.Z, o.Z)}
}

// Less orders coordinates lexicographically by (X, Y, Z).
func (c Coord) Less(o Coord) bool {
	if c.X != o.X {
		return c.X < o.X
	}
	if c.Y != o.Y {
		return c.Y < o.Y
	}
	return c.Z < o.Z
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d,%d)", c.X, c.Y, c.Z)
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
