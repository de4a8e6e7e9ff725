package solid

// Primitive shapes and CSG combinators, expressed as ordinary trees.
// Distances are exact for the sphere and cylinder wall; Min/Max CSG
// yields the usual (non-Euclidean but sign-correct) distance bounds.

// Sphere returns a sphere of the given radius centered at the origin:
// √(x² + y² + z²) - r.
func Sphere(radius float64) Tree {
	return Sub(
		Sqrt(Add(Add(Square(X()), Square(Y())), Square(Z()))),
		Const(radius),
	)
}

// Box returns an axis-aligned box as the intersection of six half-space
// planes, two per axis. Its edges and corners are genuine sharp
// features: the gradient is multi-valued wherever two or more planes
// tie.
func Box(lower, upper Vec3) Tree {
	plane := func(axis Tree, lo, hi float64) Tree {
		return Max(
			Neg(Sub(axis, Const(lo))),
			Sub(axis, Const(hi)),
		)
	}
	return Max(
		Max(
			plane(X(), lower.X, upper.X),
			plane(Y(), lower.Y, upper.Y),
		),
		plane(Z(), lower.Z, upper.Z),
	)
}

// Cube returns an axis-aligned cube centered at the origin with the
// given half-width.
func Cube(half float64) Tree {
	return Box(V3(-half, -half, -half), V3(half, half, half))
}

// Cylinder returns a Z-aligned cylinder of the given radius spanning
// [zmin, zmax].
func Cylinder(radius, zmin, zmax float64) Tree {
	wall := Sub(Sqrt(Add(Square(X()), Square(Y()))), Const(radius))
	return Max(wall, Max(
		Neg(Sub(Z(), Const(zmin))),
		Sub(Z(), Const(zmax)),
	))
}

// Union returns the union of the shapes (pointwise minimum).
func Union(first Tree, rest ...Tree) Tree {
	out := first
	for _, t := range rest {
		out = Min(out, t)
	}
	return out
}

// Intersection returns the intersection of the shapes (pointwise
// maximum).
func Intersection(first Tree, rest ...Tree) Tree {
	out := first
	for _, t := range rest {
		out = Max(out, t)
	}
	return out
}

// Difference returns a with b removed.
func Difference(a, b Tree) Tree {
	return Max(a, Neg(b))
}

// Offset grows the shape outward by o (or shrinks it for negative o).
func Offset(t Tree, o float64) Tree {
	return Sub(t, Const(o))
}

// Move translates the shape by delta, by remapping the coordinate
// leaves.
func Move(t Tree, delta Vec3) Tree {
	return t.Remap(
		Sub(X(), Const(delta.X)),
		Sub(Y(), Const(delta.Y)),
		Sub(Z(), Const(delta.Z)),
	)
}
