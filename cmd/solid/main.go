// Command solid renders implicit shapes from the solid kernel to
// STL meshes and PNG slice images. It is the export/driver collaborator
// around the in-memory kernel: all geometry is produced by solid.Render
// and solid.RenderContour, and this command only serializes the result.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/gogpu/solid"
)

var (
	shapeName string
	shapeSize float64
	bound     float64
	depth     int
	workers   int
	verbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "solid",
	Short: "Render implicit solids to meshes and slice images",
	Long: `solid renders shapes modeled as implicit functions.

A shape is selected by name and rendered over the cubic region
[-bound, bound] on every axis. The mesh subcommand writes a binary STL
file; the slice subcommand writes a PNG cross-section.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			solid.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			})))
		}
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&shapeName, "shape", "sphere", "shape to render: sphere, cube, cylinder, csg")
	pf.Float64Var(&shapeSize, "size", 1, "characteristic size of the shape (radius or half-width)")
	pf.Float64Var(&bound, "bound", 2, "half-extent of the render region")
	pf.IntVar(&depth, "depth", solid.DefaultDepth, "octree subdivision depth")
	pf.IntVar(&workers, "workers", 0, "parallel workers (0 = all CPUs)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// selectedShape builds the tree for the --shape flag.
func selectedShape() (solid.Tree, error) {
	switch shapeName {
	case "sphere":
		return solid.Sphere(shapeSize), nil
	case "cube":
		return solid.Cube(shapeSize), nil
	case "cylinder":
		return solid.Cylinder(shapeSize, -shapeSize, shapeSize), nil
	case "csg":
		// A cube with a sphere bite taken out of one corner.
		return solid.Difference(
			solid.Cube(shapeSize),
			solid.Move(solid.Sphere(shapeSize*0.8), solid.V3(shapeSize, shapeSize, shapeSize)),
		), nil
	default:
		return solid.Tree{}, fmt.Errorf("unknown shape %q", shapeName)
	}
}

func renderRegion() solid.Region3 {
	return solid.NewRegion3(
		solid.V3(-bound, -bound, -bound),
		solid.V3(bound, bound, bound),
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
