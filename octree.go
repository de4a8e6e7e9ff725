package solid

import (
	"errors"
	"time"

	"github.com/gogpu/solid/internal/parallel"
)

// ErrEmptyTree is returned by Render and RenderContour when given the
// zero Tree value.
var ErrEmptyTree = errors.New("solid: empty tree")

// DefaultDepth is the default octree subdivision depth: cells that still
// straddle the surface at this depth are meshed directly.
const DefaultDepth = 4

// bisectIterations is the fixed number of bisection steps used to locate
// the zero crossing on a cell edge. A fixed count keeps crossing
// positions deterministic.
const bisectIterations = 16

type renderOptions struct {
	workers int
	depth   int
}

// Option configures Render and RenderContour.
type Option func(*renderOptions)

// WithWorkers sets the number of parallel workers. Zero or negative
// selects GOMAXPROCS. The worker count never affects the output mesh,
// only how fast it is produced.
func WithWorkers(n int) Option {
	return func(o *renderOptions) { o.workers = n }
}

// WithDepth sets the subdivision depth: the region is divided into
// 2^depth cells per axis, and cells that still straddle the surface at
// that size are meshed directly.
func WithDepth(d int) Option {
	return func(o *renderOptions) { o.depth = d }
}

func makeOptions(opts []Option) renderOptions {
	o := renderOptions{depth: DefaultDepth}
	for _, fn := range opts {
		fn(&o)
	}
	if o.depth < 1 {
		o.depth = 1
	}
	return o
}

// edge (a, b) pairs of cell corner indices joined along each axis, in
// the Region3.Corner bit convention. Edges 0-3 run along X, 4-7 along Y,
// 8-11 along Z.
var cellEdges = [12][2]int{
	{0, 1}, {2, 3}, {4, 5}, {6, 7},
	{0, 2}, {1, 3}, {4, 6}, {5, 7},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

// leafVertex is one mesh vertex owned by a leaf cell, tagged with the
// feature direction it represents so that face stitching can route each
// edge to the right vertex of an ambiguous cell.
type leafVertex struct {
	pos     Vec3
	feature Vec3
	index   int
}

// edgeCrossing is the surface intersection on one cell edge.
type edgeCrossing struct {
	ok     bool
	pos    Vec3
	normal Vec3
}

// leaf is a surface cell of the octree, at the finest subdivision level.
type leaf struct {
	ix, iy, iz int
	corners    [8]float64
	crossings  [12]edgeCrossing
	verts      []leafVertex
}

// builder carries the shared geometry of one render: the root region and
// the lattice resolution. Lattice positions are always computed from
// integer coordinates with one formula, so adjacent cells see bit-equal
// corner coordinates.
type builder struct {
	tree  Tree
	root  Region3
	n     int // cells per axis: 1 << depth
	size  Vec3
	inv   float64 // 1 / n
	depth int
}

func (b *builder) latticePos(i, j, k int) Vec3 {
	return Vec3{
		X: b.root.Lower.X + b.size.X*(float64(i)*b.inv),
		Y: b.root.Lower.Y + b.size.Y*(float64(j)*b.inv),
		Z: b.root.Lower.Z + b.size.Z*(float64(k)*b.inv),
	}
}

// spanRegion returns the region covered by the w-cell cube at lattice
// origin (x, y, z).
func (b *builder) spanRegion(x, y, z, w int) Region3 {
	return Region3{
		Lower: b.latticePos(x, y, z),
		Upper: b.latticePos(x+w, y+w, z+w),
	}
}

// span is a cubic block of cells during subdivision.
type span struct {
	x, y, z, w int
}

// Render extracts the boundary mesh of the tree's zero level set over
// the region. It adaptively subdivides the region, pruning cells whose
// interval bound proves them entirely inside or outside, places one
// vertex per surface cell (or one per feature at sharp cells) by
// quadratic error minimization, and stitches faces across neighboring
// cells.
//
// Render either succeeds with a complete mesh or returns an error; it
// never returns partial geometry. A region that is empty or entirely
// outside the shape yields an empty mesh and no error. Output is
// deterministic for a given tree, region and depth, independent of the
// worker count.
func Render(t Tree, r Region3, opts ...Option) (*Mesh, error) {
	if t.n == nil {
		return nil, ErrEmptyTree
	}
	o := makeOptions(opts)
	if r.Empty() {
		return &Mesh{}, nil
	}

	start := time.Now()
	n := 1 << o.depth
	b := &builder{
		tree:  t,
		root:  r,
		n:     n,
		size:  r.Size(),
		inv:   1 / float64(n),
		depth: o.depth,
	}

	pool := parallel.NewWorkerPool(o.workers)
	defer pool.Close()

	leaves := b.collectLeaves(pool)
	b.processLeaves(pool, leaves)
	mesh := b.stitch(leaves)

	Logger().Debug("render complete",
		"leaves", len(leaves),
		"verts", len(mesh.Verts),
		"branes", len(mesh.Branes),
		"workers", pool.Workers(),
		"elapsed", time.Since(start))
	return mesh, nil
}

// collectLeaves builds the pruned octree and returns its surface cells
// in canonical traversal order. The top levels are descended serially to
// fan out into independent subtree tasks; each task then subdivides its
// block with its own evaluator.
func (b *builder) collectLeaves(pool *parallel.WorkerPool) []*leaf {
	// Fan out at most two levels deep (64 tasks).
	fanW := b.n
	for fanW > 1 && b.n/fanW < 4 {
		fanW /= 2
	}

	ev := NewEvaluator(b.tree)
	var tasks []span
	var leaves []*leaf
	b.descend(ev, span{0, 0, 0, b.n}, fanW, &tasks, &leaves)

	if len(tasks) == 0 {
		return leaves
	}

	results := make([][]*leaf, len(tasks))
	work := make([]func(), len(tasks))
	for i, s := range tasks {
		work[i] = func() {
			tev := NewEvaluator(b.tree)
			var out []*leaf
			b.descend(tev, s, 0, nil, &out)
			results[i] = out
		}
	}
	pool.ExecuteAll(work)

	// Fanned-out tasks were emitted in canonical order, and every task
	// block sorts entirely after the leaves found above it, so plain
	// concatenation preserves the canonical order.
	for _, out := range results {
		leaves = append(leaves, out...)
	}
	return leaves
}

// descend subdivides the block s, pruning where the interval bound does
// not straddle zero. Blocks of width fanW are appended to tasks instead
// of being descended (fanW of 0 disables fan-out). Surface cells are
// appended to out.
func (b *builder) descend(ev *Evaluator, s span, fanW int, tasks *[]span, out *[]*leaf) {
	iv := ev.Interval(b.spanRegion(s.x, s.y, s.z, s.w))
	if !iv.StraddlesZero() {
		return
	}
	if s.w == 1 {
		*out = append(*out, &leaf{ix: s.x, iy: s.y, iz: s.z})
		return
	}
	if fanW != 0 && s.w == fanW {
		*tasks = append(*tasks, s)
		return
	}
	h := s.w / 2
	for i := range 8 {
		child := span{
			x: s.x + (i&1)*h,
			y: s.y + (i>>1&1)*h,
			z: s.z + (i>>2&1)*h,
			w: h,
		}
		b.descend(ev, child, fanW, tasks, out)
	}
}

// processLeaves fills in corner values, edge crossings and vertices for
// every leaf, in parallel chunks. Results land in per-leaf slots, so
// scheduling cannot affect the output.
func (b *builder) processLeaves(pool *parallel.WorkerPool, leaves []*leaf) {
	if len(leaves) == 0 {
		return
	}
	chunk := len(leaves) / (pool.Workers() * 4)
	if chunk < 1 {
		chunk = 1
	}
	var work []func()
	for lo := 0; lo < len(leaves); lo += chunk {
		hi := min(lo+chunk, len(leaves))
		batch := leaves[lo:hi]
		work = append(work, func() {
			ev := NewEvaluator(b.tree)
			for _, lf := range batch {
				b.processLeaf(ev, lf)
			}
		})
	}
	pool.ExecuteAll(work)
}

func (b *builder) processLeaf(ev *Evaluator, lf *leaf) {
	corners := make([]Vec3, 8)
	for c := range 8 {
		corners[c] = b.latticePos(lf.ix+c&1, lf.iy+c>>1&1, lf.iz+c>>2&1)
	}
	ev.Bind(corners)
	copy(lf.corners[:], ev.Values())

	cell := b.spanRegion(lf.ix, lf.iy, lf.iz, 1)

	// Locate the zero crossing on every edge with a sign change.
	var active []int
	for e, pair := range cellEdges {
		va, vb := lf.corners[pair[0]], lf.corners[pair[1]]
		if (va < 0) == (vb < 0) {
			continue
		}
		inside, outside := corners[pair[0]], corners[pair[1]]
		if va >= 0 {
			inside, outside = outside, inside
		}
		lf.crossings[e] = edgeCrossing{ok: true, pos: b.bisect(ev, inside, outside)}
		active = append(active, e)
	}
	if len(active) == 0 {
		return
	}

	// Normals and ambiguity over the crossing batch.
	pts := make([]Vec3, len(active))
	for i, e := range active {
		pts[i] = lf.crossings[e].pos
	}
	ev.Bind(pts)
	amb := ev.Ambiguous()
	anyAmb := false
	for i, e := range active {
		lf.crossings[e].normal = ev.Deriv(i).Normalize()
		if amb[i] {
			anyAmb = true
		}
	}

	cs := make([]crossing, len(active))
	for i, e := range active {
		cs[i] = crossing{pos: lf.crossings[e].pos, normal: lf.crossings[e].normal}
	}

	if !anyAmb {
		lf.verts = []leafVertex{{pos: solveQEF(cs, cell)}}
		return
	}

	// Sharp cell: one vertex per feature. Features are gathered from
	// the ambiguous crossings in batch order, then every crossing is
	// assigned to the best-aligned feature.
	var dirs []Vec3
	for i, e := range active {
		if !amb[i] {
			continue
		}
		for _, f := range ev.FeaturesAt(lf.crossings[e].pos) {
			dup := false
			for _, d := range dirs {
				if d == f.Deriv {
					dup = true
					break
				}
			}
			if !dup {
				dirs = append(dirs, f.Deriv)
			}
		}
	}
	if len(dirs) < 2 {
		// The mask was conservative; treat as smooth.
		lf.verts = []leafVertex{{pos: solveQEF(cs, cell)}}
		return
	}

	groups := make([][]crossing, len(dirs))
	for _, c := range cs {
		g := bestFeature(dirs, c.normal)
		groups[g] = append(groups[g], c)
	}
	for g, dir := range dirs {
		if len(groups[g]) == 0 {
			continue
		}
		lf.verts = append(lf.verts, leafVertex{
			pos:     solveQEF(groups[g], cell),
			feature: dir,
		})
	}
}

// bisect refines the zero crossing between an inside point (value < 0)
// and an outside point over a fixed number of iterations.
func (b *builder) bisect(ev *Evaluator, inside, outside Vec3) Vec3 {
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

// bestFeature returns the index of the feature direction most aligned
// with the normal. Ties resolve to the lowest index.
func bestFeature(dirs []Vec3, normal Vec3) int {
	best, bestDot := 0, dirs[0].Dot(normal)
	for i := 1; i < len(dirs); i++ {
		if d := dirs[i].Dot(normal); d > bestDot {
			best, bestDot = i, d
		}
	}
	return best
}

// stitch assigns vertex indices in canonical leaf order and emits two
// triangles around every sign-changing lattice edge, connecting the
// vertices of the four cells that share it.
func (b *builder) stitch(leaves []*leaf) *Mesh {
	mesh := &Mesh{}
	byCoord := make(map[[3]int]*leaf, len(leaves))
	for _, lf := range leaves {
		byCoord[[3]int{lf.ix, lf.iy, lf.iz}] = lf
		for i := range lf.verts {
			lf.verts[i].index = len(mesh.Verts)
			mesh.Verts = append(mesh.Verts, lf.verts[i].pos)
		}
	}

	// Every lattice edge is the minimal edge (the one leaving the
	// cell's lower corner) of exactly one cell, so iterating minimal
	// edges visits each edge once.
	minimalEdge := [3]int{0, 4, 8} // index into cellEdges per axis
	for _, lf := range leaves {
		if len(lf.verts) == 0 {
			continue
		}
		for axis := range 3 {
			e := minimalEdge[axis]
			pair := cellEdges[e]
			va, vb := lf.corners[pair[0]], lf.corners[pair[1]]
			if (va < 0) == (vb < 0) {
				continue
			}

			// The four cells around this edge, in cyclic order in the
			// plane perpendicular to it.
			cells, ok := edgeNeighbors(byCoord, lf, axis)
			if !ok {
				continue
			}

			n := lf.crossings[e].normal
			var quad [4]int
			for i, c := range cells {
				quad[i] = vertexFor(c, n)
			}
			if va >= 0 {
				// Outside at the lower corner: flip winding so the
				// faces stay outward-oriented.
				quad[0], quad[1], quad[2], quad[3] = quad[3], quad[2], quad[1], quad[0]
			}
			mesh.Branes = append(mesh.Branes,
				[3]int{quad[0], quad[1], quad[2]},
				[3]int{quad[0], quad[2], quad[3]})
		}
	}
	return mesh
}

// edgeNeighbors returns the four leaves around the minimal edge of lf
// along the axis, cyclically ordered counter-clockwise when viewed from
// the positive axis direction. It reports false if any neighbor is
// missing (edges on the region boundary).
func edgeNeighbors(byCoord map[[3]int]*leaf, lf *leaf, axis int) ([4]*leaf, bool) {
	u := (axis + 1) % 3
	v := (axis + 2) % 3
	offsets := [4][2]int{{-1, -1}, {0, -1}, {0, 0}, {-1, 0}}
	var out [4]*leaf
	for i, off := range offsets {
		coord := [3]int{lf.ix, lf.iy, lf.iz}
		coord[u] += off[0]
		coord[v] += off[1]
		c, ok := byCoord[coord]
		if !ok || len(c.verts) == 0 {
			return out, false
		}
		out[i] = c
	}
	return out, true
}

// vertexFor selects the cell vertex to use for an edge whose crossing
// has the given normal: the single vertex for smooth cells, the
// best-aligned feature vertex for sharp ones.
func vertexFor(lf *leaf, normal Vec3) int {
	if len(lf.verts) == 1 {
		return lf.verts[0].index
	}
	best, bestDot := 0, lf.verts[0].feature.Dot(normal)
	for i := 1; i < len(lf.verts); i++ {
		if d := lf.verts[i].feature.Dot(normal); d > bestDot {
			best, bestDot = i, d
		}
	}
	return lf.verts[best].index
}
