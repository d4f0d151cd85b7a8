package octree

// CreateBalancedSubtree grows a 2:1-balanced, complete subtree rooted at
// root that contains every seed (deduplicated, assumed inside root's
// domain) and fills the remainder with octants up to level maxLevel
// (maxLevel <= root.Level()).
//
// The algorithm climbs level by level: at each level L it groups the
// currently active octants by parent, fills in each new parent's other
// seven children as level-L leaves, and enforces the 2:1 rule by promoting
// every same-level neighbor of a new parent that is neither its sibling nor
// itself active (a "guard") to a leaf of its own. Activity propagates upward as long newly
// discovered parents or guards keep appearing, capped at maxLevel.
func CreateBalancedSubtree(root OctantID, seeds []OctantID, maxLevel uint) (*LinearOctree, error) {
	tree := NewLinearOctree(root)

	seen := make(map[OctantID]bool, len(seeds))
	nonEmpty := make([]OctantID, 0, len(seeds))
	for _, s := range seeds {
		if seen[s] {
			continue
		}
		seen[s] = true
		tree.InsertUnchecked(s)
		nonEmpty = append(nonEmpty, s)
	}

	for level := uint(0); level < maxLevel; level++ {
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
				return nil, err
			}
			present := make(map[OctantID]bool, len(childrenOfParent[p]))
			for _, c := range childrenOfParent[p] {
				present[c] = true
			}
			for _, c := range children {
				if !present[c] {
					tree.InsertUnchecked(c)
				}
			}
		}

		active := make(map[OctantID]bool, len(newParents))
		for _, p := range newParents {
			active[p] = true
		}
		nextLevel := append([]OctantID(nil), newParents...)
		for _, p := range newParents {
			for _, g := range p.PotentialNeighborsWithoutSiblings(tree) {
				if active[g] {
					continue
				}
				active[g] = true
				nextLevel = append(nextLevel, g)
				tree.InsertUnchecked(g)
			}
		}
		nonEmpty = nextLevel
	}

	if maxLevel < root.Level() || len(nonEmpty) == 0 {
		occupied := make(map[MortonCode]bool, len(nonEmpty))
		for _, o := range nonEmpty {
			occupied[o.code] = true
		}
		fillGrid(tree, root, maxLevel, occupied)
	}

	tree.SortAndCompact()
	return tree, nil
}

// fillGrid tiles root's domain with axis-aligned grid octants of side
// 2^level, skipping any whose code (masked to level) is already occupied.
func fillGrid(tree *LinearOctree, root OctantID, level uint, occupied map[MortonCode]bool) {
	side := int64(1) << level
	start := root.LLF()
	extent := root.Side()
	for x := start.X; x < start.X+extent; x += side {
		for y := start.Y; y < start.Y+extent; y += side {
			for z := start.Z; z < start.Z+extent; z += side {
				code := mortonOf(Coord{x, y, z})
				if occupied[code] {
					continue
				}
				tree.InsertUnchecked(OctantID{code: code, level: level})
			}
		}
	}
}
