package octree

import (
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"
)

// sortOctantIDs stable-sorts a slice of OctantIDs by the total order.
func sortOctantIDs(ids []OctantID) {
	sort.SliceStable(ids, func(i, j int) bool { return ids[i].Less(ids[j]) })
}

// parallelStableSort sorts ids by the total order, splitting the work
// across up to `threads` goroutines when the input is large enough to make
// that worthwhile. It is the "data-parallel stable sort over a
// random-access sequence" primitive the parallel build pipeline needs: each
// goroutine sorts a contiguous chunk, and the chunks are merged pairwise.
//
// The result is always identical to sort.SliceStable(ids, ...); threads
// only affects how the work is scheduled, never the outcome.
func parallelStableSort(ids []OctantID, threads int) {
	if threads < 1 {
		threads = 1
	}
	if len(ids) < 2*threads || threads == 1 {
		sortOctantIDs(ids)
		return
	}
	if threads > runtime.NumCPU() {
		threads = runtime.NumCPU()
	}
	chunkSize := (len(ids) + threads - 1) / threads
	type span struct{ lo, hi int }
	var spans []span
	for lo := 0; lo < len(ids); lo += chunkSize {
		hi := lo + chunkSize
		if hi > len(ids) {
			hi = len(ids)
		}
		spans = append(spans, span{lo, hi})
	}

	var g errgroup.Group
	g.SetLimit(threads)
	for _, sp := range spans {
		sp := sp
		g.Go(func() error {
			sortOctantIDs(ids[sp.lo:sp.hi])
			return nil
		})
	}
	_ = g.Wait() // sorting goroutines never return an error

	merged := make([]OctantID, 0, len(ids))
	for _, sp := range spans {
		merged = mergeSortedOctantIDs(merged, ids[sp.lo:sp.hi])
	}
	copy(ids, merged)
}

// mergeSortedOctantIDs merges two already-sorted slices into a new slice,
// preserving stability (elements of a before equal-ordered elements of b).
func mergeSortedOctantIDs(a, b []OctantID) []OctantID {
	out := make([]OctantID, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if b[j].Less(a[i]) {
			out = append(out, b[j])
			j++
		} else {
			out = append(out, a[i])
			i++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}
