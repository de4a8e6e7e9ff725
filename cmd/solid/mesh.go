package main

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gogpu/solid"
)

var meshOutput string

var meshCmd = &cobra.Command{
	Use:   "mesh",
	Short: "Render the shape to a binary STL file",
	RunE:  runMesh,
}

func init() {
	meshCmd.Flags().StringVarP(&meshOutput, "output", "o", "out.stl", "output STL path")
	rootCmd.AddCommand(meshCmd)
}

func runMesh(cmd *cobra.Command, args []string) error {
	shape, err := selectedShape()
	if err != nil {
		return err
	}

	mesh, err := solid.Render(shape, renderRegion(),
		solid.WithDepth(depth), solid.WithWorkers(workers))
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	if mesh.Empty() {
		return fmt.Errorf("shape %q has no surface inside the region", shapeName)
	}

	if err := writeSTL(meshOutput, mesh); err != nil {
		return fmt.Errorf("write %s: %w", meshOutput, err)
	}
	cmd.Printf("wrote %s: %d vertices, %d triangles\n",
		meshOutput, len(mesh.Verts), len(mesh.Branes))
	return nil
}

// writeSTL serializes the mesh as binary STL: an 80-byte header, a
// triangle count, and per-triangle normal, vertices and attribute word.
func writeSTL(path string, mesh *solid.Mesh) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	var header [80]byte
	copy(header[:], "solid kernel export")
	if _, err := w.Write(header[:]); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(mesh.Branes))); err != nil {
		return err
	}

	for _, tri := range mesh.Branes {
		a := mesh.Verts[tri[0]]
		b := mesh.Verts[tri[1]]
		c := mesh.Verts[tri[2]]
		n := b.Sub(a).Cross(c.Sub(a)).Normalize()

		for _, v := range []solid.Vec3{n, a, b, c} {
			for _, f := range []float64{v.X, v.Y, v.Z} {
				if err := binary.Write(w, binary.LittleEndian, float32(f)); err != nil {
					return err
				}
			}
		}
		if err := binary.Write(w, binary.LittleEndian, uint16(0)); err != nil {
			return err
		}
	}
	return w.Flush()
}
