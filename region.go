package octree

import "fmt"

// CompleteRegion fills the open interval (a, b) between two level-0 octants
// with the maximal-level octants that fit entirely between them, such that
// none of the returned octants contains a or b. Requires a < b; a == b
// returns an empty result.
func CompleteRegion(a, b OctantID) ([]OctantID, error) {
	if b.Less(a) {
		return nil, fmt.Errorf("%w: completeRegion requires a <= b, got a=%s b=%s", ErrInvalidArgument, a, b)
	}
	if a.Equal(b) {
		return nil, nil
	}
	root := NearestCommonAncestor(a, b)
	children, err := root.Children()
	if err != nil {
		// root == a or root == b (NCA at level 0): no room for a region.
		return nil, nil
	}
	var result []OctantID
	var walk func(candidates []OctantID)
	walk = func(candidates []OctantID) {
		for _, c := range candidates {
			switch {
			case a.Less(c) && c.Less(b) && !b.IsDescendantOf(c):
				result = append(result, c)
			case b.IsDescendantOf(c) || a.IsDescendantOf(c) || a.Equal(c) || b.Equal(c):
				grandchildren, err := c.Children()
				if err == nil {
					walk(grandchildren[:])
				}
			default:
				// entirely outside (a, b); discard.
			}
		}
	}
	walk(children[:])
	sortOctantIDs(result)
	return result, nil
}
