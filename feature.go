package solid

// Feature is one locally valid gradient at a point where the implicit
// surface is not smooth. At a cube edge, for example, two features exist:
// one per incident face.
//
// Besides its direction, a feature records the epsilon half-spaces in
// which it is valid: each epsilon is a unit direction such that moving
// infinitesimally along it keeps this feature's branch of a Min/Max
// selected. Accumulating epsilons while walking nested Min/Max ties
// prunes gradient combinations that no actual displacement can realize.
type Feature struct {
	// Deriv is the gradient direction of this feature.
	Deriv Vec3

	epsilons []Vec3
}

// NewFeature creates a feature with the given gradient and no epsilon
// constraints.
func NewFeature(deriv Vec3) Feature {
	return Feature{Deriv: deriv}
}

// epsilonTol is the angular tolerance for comparing epsilon directions:
// dot products within it of ±1 count as duplicate or opposed, and cross
// products below it count as coplanar.
const epsilonTol = 1e-8

// Check reports whether the direction v is compatible with the
// constraint set: some displacement satisfies every accumulated epsilon
// strictly and also has a positive component along v. Push uses this to
// decide whether adding v as a constraint keeps the set satisfiable, and
// IsInside uses it to ask whether a gradient is a realizable direction
// of increase.
//
// Compatibility is satisfiability of the joint open half-space system,
// not a pairwise angle test: orthogonal or obtuse constraints such as
// (0,1,0) and (0,0,1) are compatible, since (0,1,1) satisfies both.
func (f Feature) Check(v Vec3) bool {
	n := v.Length()
	if n == 0 {
		return false
	}
	return compatibleEpsilon(f.epsilons, v.Mul(1/n))
}

// Push adds an epsilon constraint. It returns false (leaving the feature
// unchanged) if the constraint is degenerate or makes the accumulated
// system unsatisfiable, meaning this branch combination is unrealizable.
func (f *Feature) Push(e Vec3) bool {
	n := e.Length()
	if n == 0 {
		return false
	}
	e = e.Mul(1 / n)
	if !compatibleEpsilon(f.epsilons, e) {
		return false
	}
	f.epsilons = append(f.epsilons, e)
	return true
}

// compatibleEpsilon reports whether the open half-space system formed by
// the unit epsilons plus e has a solution, that is, whether some
// direction has a strictly positive dot product with every constraint.
func compatibleEpsilon(epsilons []Vec3, e Vec3) bool {
	// A duplicate of an existing constraint changes nothing.
	for _, i := range epsilons {
		if e.Dot(i) > 1-epsilonTol {
			return true
		}
	}
	// An exactly opposed pair can never be satisfied together.
	for _, i := range epsilons {
		if e.Dot(i) < -(1 - epsilonTol) {
			return false
		}
	}
	// Up to two non-opposed constraints always intersect: the sum of the
	// two directions satisfies both.
	if len(epsilons) <= 1 {
		return true
	}

	// General case: the system is satisfiable exactly when all the
	// constraint directions fit in one open half-space. Try each pair as
	// the supporting plane of that half-space: every other constraint
	// must sit on a single side of the plane the pair spans, and any
	// constraint lying in the plane must fall inside the pair's angular
	// span.
	es := make([]Vec3, 0, len(epsilons)+1)
	es = append(es, epsilons...)
	es = append(es, e)
	for i := 0; i < len(es); i++ {
		for j := i + 1; j < len(es); j++ {
			c := es[i].Cross(es[j])
			if c.Length() < epsilonTol {
				continue
			}
			if oneSided(es, i, j, c) {
				return true
			}
		}
	}
	return false
}

// oneSided reports whether every constraint other than the pair (i, j)
// lies on one side of the plane with normal c, with coplanar constraints
// confined to the cone the pair spans.
func oneSided(es []Vec3, i, j int, c Vec3) bool {
	sign := 0
	for k, ek := range es {
		if k == i || k == j {
			continue
		}
		d := c.Dot(ek)
		switch {
		case d > epsilonTol:
			if sign < 0 {
				return false
			}
			sign = 1
		case d < -epsilonTol:
			if sign > 0 {
				return false
			}
			sign = -1
		default:
			if !withinSpan(es[i], es[j], ek) {
				return false
			}
		}
	}
	return true
}

// withinSpan reports whether p, coplanar with a and b, lies inside the
// cone spanned by a and b.
func withinSpan(a, b, p Vec3) bool {
	ab := a.Cross(b)
	return a.Cross(p).Dot(ab) > -epsilonTol &&
		b.Cross(p).Dot(ab) < epsilonTol
}

// withDeriv returns a copy of f carrying a new gradient but the same
// epsilon constraints. Used by chain-rule propagation, where the
// gradient transforms but the validity region does not.
func (f Feature) withDeriv(d Vec3) Feature {
	out := Feature{Deriv: d}
	out.epsilons = append(out.epsilons, f.epsilons...)
	return out
}

// mergeFeatures combines the epsilon constraints of two child features
// under a new gradient, as required by binary operations whose result
// depends on both children. It returns false if the constraint sets are
// incompatible.
func mergeFeatures(deriv Vec3, a, b Feature) (Feature, bool) {
	out := Feature{Deriv: deriv}
	for _, e := range a.epsilons {
		if !out.Push(e) {
			return Feature{}, false
		}
	}
	for _, e := range b.epsilons {
		if !out.Push(e) {
			return Feature{}, false
		}
	}
	return out, true
}

// dedupFeatures returns the features with distinct gradients, preserving
// first-seen order.
func dedupFeatures(fs []Feature) []Feature {
	out := make([]Feature, 0, len(fs))
	for _, f := range fs {
		dup := false
		for _, g := range out {
			if g.Deriv == f.Deriv {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, f)
		}
	}
	return out
}
