// Command octreeviz builds a balanced octree from a single seed cube given
// on the command line and prints diagnostics for it: a per-level summary to stdout, and
// optionally a Graphviz DOT export to a file.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"

	octree "github.com/mbrt/octreebuilder"
	"github.com/mbrt/octreebuilder/diagnostics"
)

func main() {
	dotPath := flag.String("dot", "", "write a Graphviz DOT export of the tree to this path")
	seedX := flag.Int64("x", 0, "seed cube X coordinate")
	seedY := flag.Int64("y", 0, "seed cube Y coordinate")
	seedZ := flag.Int64("z", 0, "seed cube Z coordinate")
	maxXYZ := flag.Int64("domain", 7, "domain extent on every axis")
	flag.Parse()

	gtrace.CoreTracer = gologadapter.New()
	gtrace.CoreTracer.SetTraceLevel(tracing.LevelInfo)

	b, err := octree.NewSequentialBuilder(octree.Coord{X: *maxXYZ, Y: *maxXYZ, Z: *maxXYZ})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if _, err := b.AddLeaf(octree.Coord{X: *seedX, Y: *seedY, Z: *seedZ}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	tree, err := b.Finish()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Printf("state: %s, nodes: %d\n", tree.CheckState(), tree.NodeCount())
	if err := diagnostics.DumpLevels(tree, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if *dotPath != "" {
		f, err := os.Create(*dotPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		defer f.Close()
		if err := diagnostics.DOT(tree, f); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
}
