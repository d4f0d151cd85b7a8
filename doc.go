/*
Package octree builds linear, 2:1-balanced, complete octrees over an integer
3D voxel domain.

An octree tiles a cubic domain with axis-aligned cubes ("octants") whose side
lengths are powers of two. A complete octree covers its domain exactly once;
a 2:1 balanced octree additionally guarantees that any two octants sharing at
least a vertex differ in refinement level by at most one. Building one from a
sparse set of seed unit cubes means growing the seeds into a full,
non-overlapping tiling while keeping the balance property everywhere,
including across the boundaries of however the construction work was split up
for parallel execution.

Construction, order

The package represents an octant as an OctantID: a 64-bit Morton code
together with a level. Morton codes interleave the bits of a 3D coordinate so
that ancestry reduces to masking off low bits and children reduce to
inserting a 3-bit triplet — no floating point and no pointer-chasing tree is
needed to decide containment, parentage, or ordering between two octants.

A LinearOctree stores a sorted run of OctantIDs with deferred removal: leaves
are appended and old leaves are tombstoned, and a single sort-and-compact
pass applies both at once. This amortizes the cost of the many "replace one
octant by its finer children" rewrites construction performs.

Construction proceeds bottom-up from seeds (growing a balanced subtree),
optionally in parallel across a space-filling-curve partition of the seeds,
followed by a "ripple" pass that repairs balance violations introduced at
partition boundaries and a merge back into one global tree. The result is
frozen into a QueryOctree supporting O(1) corner/level lookup and
same/coarser/finer neighbor queries across any face.

BSD 3-Clause License

Copyright (c) 2024, the octreebuilder authors

All rights reserved.

Redistribution and use in source and binary forms, with or without
modification, are permitted provided that the following conditions are met:

1. Redistributions of source code must retain the above copyright notice, this
list of conditions and the following disclaimer.

2. Redistributions in binary form must reproduce the above copyright notice,
this list of conditions and the following disclaimer in the documentation
and/or other materials provided with the distribution.

3. Neither the name of the copyright holder nor the names of its
contributors may be used to endorse or promote products derived from
this software without specific prior written permission.

THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS "AS IS"
AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT LIMITED TO, THE
IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR A PARTICULAR PURPOSE ARE
DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT HOLDER OR CONTRIBUTORS BE LIABLE
FOR ANY DIRECT, INDIRECT, INCIDENTAL, SPECIAL, EXEMPLARY, OR CONSEQUENTIAL
DAMAGES (INCLUDING, BUT NOT LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR
SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER
CAUSED AND ON ANY THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY,
OR TORT (INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE.
*/
package octree

import (
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
)

// T traces to a global core-tracer.
func T() tracing.Trace {
	return gtrace.CoreTracer
}

// Error is the error type for the octree module. Every failure raised by
// this package wraps one of the sentinels below.
type Error string

func (e Error) Error() string {
	return string(e)
}

// ErrOutOfDomain signals a coordinate that cannot be Morton-encoded (a
// component at or above 2^21) or that lies outside the builder's configured
// bounding box. Raised at build setup; aborts the build.
const ErrOutOfDomain = Error("coordinate out of domain")

// ErrInvalidArgument signals logical misuse of an operation: children() at
// level 0, ancestorAtLevel() below self's level, completeRegion(a, b) with
// a > b, and similar contract violations.
const ErrInvalidArgument = Error("invalid argument")

// ErrInvariantViolation signals an internal bug: a partition leaf that
// cannot be placed in any block during merge, a neighbor query whose
// supposedly-present finer neighbor is missing, and similar states that
// should be unreachable. Fatal; always carries a diagnostic via %w wrapping.
const ErrInvariantViolation = Error("invariant violation")
