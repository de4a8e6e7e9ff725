package main

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/image/draw"

	"github.com/gogpu/solid"
)

var (
	sliceOutput string
	sliceZ      float64
	sliceSize   int
)

var sliceCmd = &cobra.Command{
	Use:   "slice",
	Short: "Render a horizontal cross-section of the shape to a PNG",
	Long: `Renders the signed value field of the shape on the plane z = --z
as a grayscale image: the surface sits at mid-gray, the inside is darker
and the outside lighter. The contour of the slice is overlaid in black.`,
	RunE: runSlice,
}

func init() {
	sliceCmd.Flags().StringVarP(&sliceOutput, "output", "o", "slice.png", "output PNG path")
	sliceCmd.Flags().Float64Var(&sliceZ, "z", 0, "slice plane coordinate")
	sliceCmd.Flags().IntVar(&sliceSize, "pixels", 512, "output image size in pixels")
	rootCmd.AddCommand(sliceCmd)
}

func runSlice(cmd *cobra.Command, args []string) error {
	shape, err := selectedShape()
	if err != nil {
		return err
	}

	region := solid.NewRegion2(
		solid.V2(-bound, -bound),
		solid.V2(bound, bound),
		sliceZ,
	)

	contour, err := solid.RenderContour(shape, region,
		solid.WithDepth(depth), solid.WithWorkers(workers))
	if err != nil {
		return fmt.Errorf("contour failed: %w", err)
	}

	img := rasterizeField(shape, region)
	drawContour(img, contour, region)

	// The field is sampled at lattice resolution and scaled up to the
	// requested size with a Catmull-Rom kernel.
	out := image.NewRGBA(image.Rect(0, 0, sliceSize, sliceSize))
	draw.CatmullRom.Scale(out, out.Bounds(), img, img.Bounds(), draw.Src, nil)

	f, err := os.Create(sliceOutput)
	if err != nil {
		return fmt.Errorf("write %s: %w", sliceOutput, err)
	}
	defer f.Close()
	if err := png.Encode(f, out); err != nil {
		return err
	}
	cmd.Printf("wrote %s: %d contour segments at z=%g\n",
		sliceOutput, len(contour.Segments), sliceZ)
	return nil
}

// fieldResolution is the sample grid for the grayscale field; the image
// is upscaled from here.
const fieldResolution = 128

func rasterizeField(shape solid.Tree, region solid.Region2) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, fieldResolution, fieldResolution))
	ev := solid.NewEvaluator(shape)

	points := make([]solid.Vec3, fieldResolution*fieldResolution)
	w := region.Upper.X - region.Lower.X
	h := region.Upper.Y - region.Lower.Y
	for py := range fieldResolution {
		for px := range fieldResolution {
			points[py*fieldResolution+px] = solid.V3(
				region.Lower.X+w*(float64(px)+0.5)/fieldResolution,
				// Image Y grows downward; geometry Y grows upward.
				region.Upper.Y-h*(float64(py)+0.5)/fieldResolution,
				region.Perpendicular(),
			)
		}
	}
	ev.Bind(points)
	for i, v := range ev.Values() {
		// Map value to gray with a soft ramp around the surface.
		g := 0.5 + 0.5*math.Tanh(v*2)
		img.Pix[i] = uint8(math.Round(g * 255))
	}
	return img
}

func drawContour(img *image.Gray, contour *solid.Contour, region solid.Region2) {
	w := region.Upper.X - region.Lower.X
	h := region.Upper.Y - region.Lower.Y
	toPixel := func(p solid.Vec2) (int, int) {
		x := int((p.X - region.Lower.X) / w * fieldResolution)
		y := int((region.Upper.Y - p.Y) / h * fieldResolution)
		return x, y
	}
	set := func(x, y int) {
		if x >= 0 && x < fieldResolution && y >= 0 && y < fieldResolution {
			img.SetGray(x, y, color.Gray{Y: 0})
		}
	}
	for _, seg := range contour.Segments {
		x0, y0 := toPixel(contour.Verts[seg[0]])
		x1, y1 := toPixel(contour.Verts[seg[1]])
		steps := max(abs(x1-x0), abs(y1-y0)) + 1
		for s := 0; s <= steps; s++ {
			t := float64(s) / float64(steps)
			set(
				x0+int(math.Round(t*float64(x1-x0))),
				y0+int(math.Round(t*float64(y1-y0))),
			)
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
