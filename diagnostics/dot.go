// Package diagnostics renders a built octree for human inspection: a
// Graphviz DOT export of its leaves and a colorized per-level summary for
// terminal output.
package diagnostics

import (
	"fmt"
	"io"

	octree "github.com/mbrt/octreebuilder"
)

// levelColors cycles a small palette of DOT fill colors by level, wrapping
// around for domains deeper than the palette.
var levelColors = []string{
	"#f0f8ff", "#add8e6", "#87ceeb", "#4682b4", "#1e90ff",
	"#0000cd", "#191970", "#000080", "#2f4f4f",
}

func colorFor(level uint) string {
	return levelColors[int(level)%len(levelColors)]
}

// DOT writes a Graphviz DOT graph of tree's leaves to w: one node per leaf,
// labeled with its corner and level and filled by level.
func DOT(tree *octree.QueryOctree, w io.Writer) error {
	if _, err := fmt.Fprintln(w, "graph octree {"); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "  node [shape=box, style=filled];"); err != nil {
		return err
	}
	for i := 0; i < tree.NodeCount(); i++ {
		n := tree.Node(i)
		_, err := fmt.Fprintf(w, "  n%d [label=\"%s L%d\", fillcolor=\"%s\"];\n",
			i, n.LLF(), n.Level(), colorFor(n.Level()))
		if err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "}")
	return err
}
