package diagnostics

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"

	octree "github.com/mbrt/octreebuilder"
)

// levelPalette assigns a terminal color per level, cycling for deep trees.
var levelPalette = []*color.Color{
	color.New(color.FgBlue),
	color.New(color.FgCyan),
	color.New(color.FgGreen),
	color.New(color.FgYellow),
	color.New(color.FgMagenta),
	color.New(color.FgRed),
}

func paletteFor(level uint) *color.Color {
	return levelPalette[int(level)%len(levelPalette)]
}

// terminalWidth returns stdout's column width if it is a terminal,
// otherwise a sane fallback for piped output.
func terminalWidth() int {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return 80
	}
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return 80
	}
	return w
}

// DumpLevels writes a per-level leaf-count summary to w, one colorized bar
// per level. Each bar is cut to at most stdout's terminal width minus 10
// columns (80 when stdout is not a terminal), whatever w is; bars are not
// wrapped.
func DumpLevels(tree *octree.QueryOctree, w io.Writer) error {
	counts := make([]int, tree.MaxLevel()+1)
	for i := 0; i < tree.NodeCount(); i++ {
		counts[tree.Node(i).Level()]++
	}
	width := terminalWidth()
	for level, count := range counts {
		bar := strings.Repeat("#", min(count, width-10))
		line := paletteFor(uint(level)).Sprintf("L%-2d %4d %s\n", level, count, bar)
		if _, err := fmt.Fprint(w, line); err != nil {
			return err
		}
	}
	return nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
