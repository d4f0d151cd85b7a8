package octree

// BalanceTree repairs 2:1 balance violations in a sorted, possibly
// incomplete octree by splitting violating ancestors ("ripple
// propagation"). It does not need the tree to be complete, only sorted: it
// is used to balance the boundary-octants tree collected from independently
// built partitions, which is complete within no single domain but whose
// elements are still ordered and individually well-formed octants.
func BalanceTree(tree *LinearOctree) error {
	tree.SortAndCompact()
	depth := tree.Root().Level()
	if depth < 3 {
		return nil
	}
	for level := uint(0); level+3 <= depth; level++ {
		violators := make(map[OctantID][]OctantID) // u -> its key ancestors at level+1
		var order []OctantID
		for _, leaf := range tree.Leaves() {
			if leaf.Level() != level {
				continue
			}
			for _, key := range leaf.SearchKeys(tree) {
				u, ok := tree.MaximumLowerBound(key)
				if !ok {
					continue
				}
				if !key.IsDescendantOf(u) {
					continue
				}
				if u.Level() <= level+1 {
					continue
				}
				ancestor, err := key.AncestorAtLevel(level + 1)
				if err != nil {
					return err
				}
				if _, seen := violators[u]; !seen {
					order = append(order, u)
				}
				violators[u] = append(violators[u], ancestor)
			}
		}

		for _, u := range order {
			keyAncestors := dedupeOctantIDs(violators[u])
			sub := completeSiblingClosure(u, keyAncestors, level+1)
			if err := tree.ReplaceWithSubtree(u, sub); err != nil {
				return err
			}
		}
		tree.SortAndCompact()
	}
	return nil
}

// completeSiblingClosure tiles root exactly with octants descending from
// seedsAtLevel (all at seedLevel, inside root): seeds stay as final leaves,
// and climbing from seedLevel to root.Level()-1 fills in each newly
// discovered parent's other seven children as leaves of that level. No
// neighbor/guard expansion happens — the result is bounded strictly by
// root's own domain.
func completeSiblingClosure(root OctantID, seedsAtLevel []OctantID, seedLevel uint) []OctantID {
	nonEmpty := dedupeOctantIDs(seedsAtLevel)
	leaves := append([]OctantID(nil), nonEmpty...)

	for level := seedLevel; level < root.Level(); level++ {
		childrenOfParent := make(map[OctantID][]OctantID)
		var newParents []OctantID
		seenParent := make(map[OctantID]bool)
		for _, n := range nonEmpty {
			p := n.Parent()
			if !seenParent[p] {
				seenParent[p] = true
				newParents = append(newParents, p)
			}
			childrenOfParent[p] = append(childrenOfParent[p], n)
		}
		for _, p := range newParents {
			children, err := p.Children()
			if err != nil {
				continue
			}
			present := make(map[OctantID]bool, len(childrenOfParent[p]))
			for _, c := range childrenOfParent[p] {
				present[c] = true
			}
			for _, c := range children {
				if !present[c] {
					leaves = append(leaves, c)
				}
			}
		}
		nonEmpty = newParents
	}
	return leaves
}

func dedupeOctantIDs(ids []OctantID) []OctantID {
	seen := make(map[OctantID]bool, len(ids))
	out := make([]OctantID, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
