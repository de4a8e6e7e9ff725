package solid

import (
	"time"

	"github.com/gogpu/solid/internal/parallel"
)

// square edges by corner index pairs (bit 0 = X, bit 1 = Y).
// Edges 0-1 run along X, 2-3 along Y.
var squareEdges = [4][2]int{
	{0, 1}, {2, 3},
	{0, 2}, {1, 3},
}

// square is a surface cell of the quadtree.
type square struct {
	ix, iy  int
	corners [4]float64
	vert    Vec2
	hasVert bool
	index   int
}

type contourBuilder struct {
	tree  Tree
	root  Region2
	n     int
	size  Vec2
	inv   float64
	perp  float64
	cells map[[2]int]*square
}

// RenderContour extracts the zero level set of the tree restricted to a
// 2D slice as a set of line segments: the silhouette of the solid in the
// slice plane. The region's Perpendicular coordinate positions the slice
// along the remaining axis.
//
// Subdivision, pruning and determinism follow the same rules as Render.
// Sharp corners in a slice are captured well enough by plain QEF
// placement, so contouring does not split cells per feature.
func RenderContour(t Tree, r Region2, opts ...Option) (*Contour, error) {
	if t.n == nil {
		return nil, ErrEmptyTree
	}
	o := makeOptions(opts)
	if r.Empty() {
		return &Contour{}, nil
	}

	start := time.Now()
	n := 1 << o.depth
	b := &contourBuilder{
		tree: t,
		root: r,
		n:    n,
		size: r.Upper.Sub(r.Lower),
		inv:  1 / float64(n),
		perp: r.Perpendicular(),
	}

	pool := parallel.NewWorkerPool(o.workers)
	defer pool.Close()

	squares := b.collectSquares()
	b.processSquares(pool, squares)
	contour := b.stitch(squares)

	Logger().Debug("contour complete",
		"squares", len(squares),
		"verts", len(contour.Verts),
		"segments", len(contour.Segments),
		"elapsed", time.Since(start))
	return contour, nil
}

func (b *contourBuilder) latticePos(i, j int) Vec2 {
	return Vec2{
		X: b.root.Lower.X + b.size.X*(float64(i)*b.inv),
		Y: b.root.Lower.Y + b.size.Y*(float64(j)*b.inv),
	}
}

func (b *contourBuilder) spanRegion(x, y, w int) Region3 {
	lo := b.latticePos(x, y)
	hi := b.latticePos(x+w, y+w)
	return Region3{
		Lower: Vec3{X: lo.X, Y: lo.Y, Z: b.perp},
		Upper: Vec3{X: hi.X, Y: hi.Y, Z: b.perp},
	}
}

// collectSquares builds the pruned quadtree serially: a slice has far
// fewer cells than a volume, so fanning subdivision out across workers
// is not worth the bookkeeping.
func (b *contourBuilder) collectSquares() []*square {
	ev := NewEvaluator(b.tree)
	var out []*square
	var descend func(x, y, w int)
	descend = func(x, y, w int) {
		if !ev.Interval(b.spanRegion(x, y, w)).StraddlesZero() {
			return
		}
		if w == 1 {
			out = append(out, &square{ix: x, iy: y})
			return
		}
		h := w / 2
		for i := range 4 {
			descend(x+(i&1)*h, y+(i>>1&1)*h, h)
		}
	}
	descend(0, 0, b.n)
	return out
}

func (b *contourBuilder) processSquares(pool *parallel.WorkerPool, squares []*square) {
	if len(squares) == 0 {
		return
	}
	chunk := len(squares) / (pool.Workers() * 4)
	if chunk < 1 {
		chunk = 1
	}
	var work []func()
	for lo := 0; lo < len(squares); lo += chunk {
		hi := min(lo+chunk, len(squares))
		batch := squares[lo:hi]
		work = append(work, func() {
			ev := NewEvaluator(b.tree)
			for _, sq := range batch {
				b.processSquare(ev, sq)
			}
		})
	}
	pool.ExecuteAll(work)
}

func (b *contourBuilder) processSquare(ev *Evaluator, sq *square) {
	pts2 := make([]Vec2, 4)
	pts3 := make([]Vec3, 4)
	for c := range 4 {
		pts2[c] = b.latticePos(sq.ix+c&1, sq.iy+c>>1&1)
		pts3[c] = Vec3{X: pts2[c].X, Y: pts2[c].Y, Z: b.perp}
	}
	ev.Bind(pts3)
	copy(sq.corners[:], ev.Values())

	var positions []Vec2
	for _, pair := range squareEdges {
		va, vb := sq.corners[pair[0]], sq.corners[pair[1]]
		if (va < 0) == (vb < 0) {
			continue
		}
		inside, outside := pts3[pair[0]], pts3[pair[1]]
		if va >= 0 {
			inside, outside = outside, inside
		}
		p := bisect2(ev, inside, outside)
		positions = append(positions, Vec2{X: p.X, Y: p.Y})
	}
	if len(positions) == 0 {
		return
	}

	pts := make([]Vec3, len(positions))
	for i, p := range positions {
		pts[i] = Vec3{X: p.X, Y: p.Y, Z: b.perp}
	}
	ev.Bind(pts)
	normals := make([]Vec2, len(positions))
	for i := range positions {
		d := ev.Deriv(i)
		n := Vec2{X: d.X, Y: d.Y}
		if l := n.Length(); l > 0 {
			n = n.Mul(1 / l)
		}
		normals[i] = n
	}

	lower := b.latticePos(sq.ix, sq.iy)
	upper := b.latticePos(sq.ix+1, sq.iy+1)
	sq.vert = solveQEF2(positions, normals, lower, upper)
	sq.hasVert = true
}

func bisect2(ev *Evaluator, inside, outside Vec3) Vec3 {
	mid := inside
	for range bisectIterations {
		mid = inside.Lerp(outside, 0.5)
		ev.Bind([]Vec3{mid})
		if ev.Value(0) < 0 {
			inside = mid
		} else {
			outside = mid
		}
	}
	return mid
}

// stitch emits one segment per sign-changing lattice edge, connecting
// the vertices of the two cells that share it, oriented so the inside of
// the shape stays on the left.
func (b *contourBuilder) stitch(squares []*square) *Contour {
	contour := &Contour{}
	byCoord := make(map[[2]int]*square, len(squares))
	for _, sq := range squares {
		byCoord[[2]int{sq.ix, sq.iy}] = sq
		if sq.hasVert {
			sq.index = len(contour.Verts)
			contour.Verts = append(contour.Verts, sq.vert)
		}
	}

	// Minimal edges per axis, as in the 3D mesher: each lattice edge
	// belongs to exactly one cell.
	for _, sq := range squares {
		if !sq.hasVert {
			continue
		}
		for axis := range 2 {
			var pair [2]int
			var other *square
			var ok bool
			if axis == 0 {
				pair = squareEdges[0] // along X
				other, ok = byCoord[[2]int{sq.ix, sq.iy - 1}]
			} else {
				pair = squareEdges[2] // along Y
				other, ok = byCoord[[2]int{sq.ix - 1, sq.iy}]
			}
			if !ok || !other.hasVert {
				continue
			}
			va, vb := sq.corners[pair[0]], sq.corners[pair[1]]
			if (va < 0) == (vb < 0) {
				continue
			}

			// For an X edge the neighbor sits below; walking from it
			// into this cell keeps the inside on the left when the
			// lower lattice end is inside. The Y edge mirrors this.
			a, c := other.index, sq.index
			insideAtLower := va < 0
			if axis == 1 {
				insideAtLower = !insideAtLower
			}
			if !insideAtLower {
				a, c = c, a
			}
			contour.Segments = append(contour.Segments, [2]int{a, c})
		}
	}
	return contour
}
