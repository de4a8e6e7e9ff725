package solid

// Region3 is an axis-aligned bounding box in 3D space.
//
// Regions are plain values: subdivision returns new child regions and
// never mutates the parent, so they can be passed freely down a parallel
// subdivision recursion.
type Region3 struct {
	Lower, Upper Vec3
}

// NewRegion3 creates a region from its lower and upper corners.
func NewRegion3(lower, upper Vec3) Region3 {
	return Region3{Lower: lower, Upper: upper}
}

// Center returns the center point of the region.
func (r Region3) Center() Vec3 {
	return r.Lower.Add(r.Upper).Mul(0.5)
}

// Size returns the extent of the region along each axis.
func (r Region3) Size() Vec3 {
	return r.Upper.Sub(r.Lower)
}

// Empty returns true if the region has zero or negative extent along any
// axis. Empty regions render to an empty mesh.
func (r Region3) Empty() bool {
	return r.Upper.X <= r.Lower.X ||
		r.Upper.Y <= r.Lower.Y ||
		r.Upper.Z <= r.Lower.Z
}

// Split subdivides the region into 8 equal children sharing the parent's
// center. Children are ordered by octant index: bit 0 selects the upper
// half in X, bit 1 in Y, bit 2 in Z. This ordering is the canonical
// traversal order used by the mesher.
func (r Region3) Split() [8]Region3 {
	c := r.Center()
	var out [8]Region3
	for i := range 8 {
		lo, hi := r.Lower, r.Upper
		if i&1 != 0 {
			lo.X = c.X
		} else {
			hi.X = c.X
		}
		if i&2 != 0 {
			lo.Y = c.Y
		} else {
			hi.Y = c.Y
		}
		if i&4 != 0 {
			lo.Z = c.Z
		} else {
			hi.Z = c.Z
		}
		out[i] = Region3{Lower: lo, Upper: hi}
	}
	return out
}

// Corner returns the corner of the region selected by the octant index,
// using the same bit convention as Split.
func (r Region3) Corner(i int) Vec3 {
	v := r.Lower
	if i&1 != 0 {
		v.X = r.Upper.X
	}
	if i&2 != 0 {
		v.Y = r.Upper.Y
	}
	if i&4 != 0 {
		v.Z = r.Upper.Z
	}
	return v
}

// Contains returns true if p lies within the region (inclusive).
func (r Region3) Contains(p Vec3) bool {
	return p.X >= r.Lower.X && p.X <= r.Upper.X &&
		p.Y >= r.Lower.Y && p.Y <= r.Upper.Y &&
		p.Z >= r.Lower.Z && p.Z <= r.Upper.Z
}

// Region2 is an axis-aligned rectangle spanning the X and Y axes,
// positioned at a fixed coordinate along the remaining axis. It is the
// domain for 2D slice contouring of a 3D function.
type Region2 struct {
	Lower, Upper Vec2

	// perp is the coordinate along the axis the rectangle does not span.
	perp float64
}

// NewRegion2 creates a 2D region at the given out-of-plane coordinate.
func NewRegion2(lower, upper Vec2, perp float64) Region2 {
	return Region2{Lower: lower, Upper: upper, perp: perp}
}

// Perpendicular returns the coordinate along the axis not spanned by the
// region. Slice evaluation uses it to lift 2D sample points into 3D.
func (r Region2) Perpendicular() float64 {
	return r.perp
}

// Center returns the center point of the region.
func (r Region2) Center() Vec2 {
	return r.Lower.Add(r.Upper).Mul(0.5)
}

// Empty returns true if the region has zero or negative extent along
// either axis.
func (r Region2) Empty() bool {
	return r.Upper.X <= r.Lower.X || r.Upper.Y <= r.Lower.Y
}

// Split subdivides the region into 4 equal children sharing the parent's
// center. Children are ordered by quadrant index: bit 0 selects the
// upper half in X, bit 1 in Y.
func (r Region2) Split() [4]Region2 {
	c := r.Center()
	var out [4]Region2
	for i := range 4 {
		lo, hi := r.Lower, r.Upper
		if i&1 != 0 {
			lo.X = c.X
		} else {
			hi.X = c.X
		}
		if i&2 != 0 {
			lo.Y = c.Y
		} else {
			hi.Y = c.Y
		}
		out[i] = Region2{Lower: lo, Upper: hi, perp: r.perp}
	}
	return out
}

// lift converts a 2D point in the region's plane to the 3D point the
// evaluator samples.
func (r Region2) lift(p Vec2) Vec3 {
	return Vec3{X: p.X, Y: p.Y, Z: r.perp}
}

// region3 returns the 3D region occupied by the slice: flat along the
// perpendicular axis.
func (r Region2) region3() Region3 {
	return Region3{
		Lower: Vec3{X: r.Lower.X, Y: r.Lower.Y, Z: r.perp},
		Upper: Vec3{X: r.Upper.X, Y: r.Upper.Y, Z: r.perp},
	}
}
