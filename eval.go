package solid

import "math"

// Evaluator walks a tree over batches of sample points, delegating to an
// Oracle wherever one is embedded and combining results through
// interval-arithmetic and batched-array rules.
//
// An Evaluator is one evaluation context: it owns one Oracle instance
// per oracle node, created from the node's clause at construction, and
// is not safe for concurrent use. Parallel meshing gives each worker its
// own Evaluator.
//
// Usage: Bind a batch of points, then query Value, Deriv and Ambiguous
// by sample index. Interval is independent of the bound batch and
// queries a region instead.
type Evaluator struct {
	// nodes lists the unique nodes of the tree in post-order, children
	// before parents. The root is last. The order is deterministic for
	// a given tree, so all evaluation modes visit nodes identically.
	nodes []*node
	slot  map[*node]int

	// oracles holds the per-context oracle instance for each OpOracle
	// slot, nil elsewhere.
	oracles []Oracle

	points []Vec3

	// vals[s][i] is the value of node s at sample i.
	vals [][]float64

	// derivs[s][i] is a gradient of node s at sample i; computed
	// lazily on the first Deriv or Ambiguous query after a Bind.
	derivs [][]Vec3

	iv    []Interval
	feats [][]Feature
}

// NewEvaluator creates an evaluation context for the tree. Every oracle
// node gets a fresh Oracle instance from its clause, owned by this
// evaluator for its whole lifetime.
func NewEvaluator(t Tree) *Evaluator {
	nodes := walk(t.n, make(map[*node]bool), nil)
	e := &Evaluator{
		nodes:   nodes,
		slot:    make(map[*node]int, len(nodes)),
		oracles: make([]Oracle, len(nodes)),
		vals:    make([][]float64, len(nodes)),
		derivs:  make([][]Vec3, len(nodes)),
		iv:      make([]Interval, len(nodes)),
		feats:   make([][]Feature, len(nodes)),
	}
	for s, n := range nodes {
		e.slot[n] = s
		if n.op == OpOracle {
			e.oracles[s] = n.clause.Oracle()
		}
	}
	return e
}

// Bind attaches a batch of sample points and evaluates every node of the
// tree across the batch. The slice is borrowed, not copied; the caller
// must not mutate it until the next Bind.
func (e *Evaluator) Bind(points []Vec3) {
	e.points = points
	for s, n := range e.nodes {
		if cap(e.vals[s]) < len(points) {
			e.vals[s] = make([]float64, len(points))
		} else {
			e.vals[s] = e.vals[s][:len(points)]
		}
		e.derivs[s] = nil
		if n.op == OpOracle {
			e.oracles[s].Bind(points)
		}
	}
	for s, n := range e.nodes {
		e.evalValues(s, n)
	}
}

func (e *Evaluator) evalValues(s int, n *node) {
	out := e.vals[s]
	switch n.op {
	case OpConst:
		for i := range out {
			out[i] = n.value
		}
	case OpAxis:
		for i, p := range e.points {
			out[i] = p.Component(n.axis)
		}
	case OpOracle:
		o := e.oracles[s]
		for i := range out {
			out[i] = o.Value(i)
		}
	case OpNeg:
		a := e.vals[e.slot[n.lhs]]
		for i := range out {
			out[i] = -a[i]
		}
	case OpSquare:
		a := e.vals[e.slot[n.lhs]]
		for i := range out {
			out[i] = a[i] * a[i]
		}
	case OpSqrt:
		a := e.vals[e.slot[n.lhs]]
		for i := range out {
			out[i] = math.Sqrt(a[i])
		}
	case OpAbs:
		a := e.vals[e.slot[n.lhs]]
		for i := range out {
			out[i] = math.Abs(a[i])
		}
	case OpSin:
		a := e.vals[e.slot[n.lhs]]
		for i := range out {
			out[i] = math.Sin(a[i])
		}
	case OpCos:
		a := e.vals[e.slot[n.lhs]]
		for i := range out {
			out[i] = math.Cos(a[i])
		}
	case OpExp:
		a := e.vals[e.slot[n.lhs]]
		for i := range out {
			out[i] = math.Exp(a[i])
		}
	case OpAdd:
		a, b := e.vals[e.slot[n.lhs]], e.vals[e.slot[n.rhs]]
		for i := range out {
			out[i] = a[i] + b[i]
		}
	case OpSub:
		a, b := e.vals[e.slot[n.lhs]], e.vals[e.slot[n.rhs]]
		for i := range out {
			out[i] = a[i] - b[i]
		}
	case OpMul:
		a, b := e.vals[e.slot[n.lhs]], e.vals[e.slot[n.rhs]]
		for i := range out {
			out[i] = a[i] * b[i]
		}
	case OpDiv:
		a, b := e.vals[e.slot[n.lhs]], e.vals[e.slot[n.rhs]]
		for i := range out {
			out[i] = a[i] / b[i]
		}
	case OpMin:
		a, b := e.vals[e.slot[n.lhs]], e.vals[e.slot[n.rhs]]
		for i := range out {
			out[i] = math.Min(a[i], b[i])
		}
	case OpMax:
		a, b := e.vals[e.slot[n.lhs]], e.vals[e.slot[n.rhs]]
		for i := range out {
			out[i] = math.Max(a[i], b[i])
		}
	}
}

// Value returns the tree's value at bound sample i.
func (e *Evaluator) Value(i int) float64 {
	return e.vals[len(e.nodes)-1][i]
}

// Values returns the tree's values across the whole bound batch. The
// slice is owned by the evaluator and valid until the next Bind.
func (e *Evaluator) Values() []float64 {
	return e.vals[len(e.nodes)-1]
}

// Interval returns a conservative bound on the tree's value over the
// region, combining child bounds with interval arithmetic and delegating
// to oracles at oracle nodes. The bound contains every value achievable
// at any point inside the region.
func (e *Evaluator) Interval(r Region3) Interval {
	for s, n := range e.nodes {
		if n.op == OpOracle {
			e.oracles[s].SetRegion(r.Lower, r.Upper)
		}
	}
	for s, n := range e.nodes {
		e.iv[s] = e.evalInterval(s, n, r)
	}
	return e.iv[len(e.nodes)-1]
}

func (e *Evaluator) evalInterval(s int, n *node, r Region3) Interval {
	switch n.op {
	case OpConst:
		return Interval{Lo: n.value, Hi: n.value}
	case OpAxis:
		return Interval{
			Lo: r.Lower.Component(n.axis),
			Hi: r.Upper.Component(n.axis),
		}
	case OpOracle:
		return e.oracles[s].Interval()
	}
	a := e.iv[e.slot[n.lhs]]
	switch n.op {
	case OpNeg:
		return a.Neg()
	case OpSquare:
		return a.Square()
	case OpSqrt:
		return a.Sqrt()
	case OpAbs:
		return a.Abs()
	case OpSin:
		return a.Sin()
	case OpCos:
		return a.Cos()
	case OpExp:
		return a.Exp()
	}
	b := e.iv[e.slot[n.rhs]]
	switch n.op {
	case OpAdd:
		return a.Add(b)
	case OpSub:
		return a.Sub(b)
	case OpMul:
		return a.Mul(b)
	case OpDiv:
		return a.Div(b)
	case OpMin:
		return a.Min(b)
	case OpMax:
		return a.Max(b)
	}
	return Interval{Lo: math.Inf(-1), Hi: math.Inf(1)}
}

// Deriv returns a gradient of the tree at bound sample i. At smooth
// points this is the gradient; at ambiguous points it is one of the
// valid feature gradients (ties in Min/Max resolve to the right operand,
// matching the feature rules).
func (e *Evaluator) Deriv(i int) Vec3 {
	e.ensureDerivs()
	return e.derivs[len(e.nodes)-1][i]
}

func (e *Evaluator) ensureDerivs() {
	if len(e.nodes) > 0 && e.derivs[len(e.nodes)-1] != nil {
		return
	}
	for s, n := range e.nodes {
		e.derivs[s] = make([]Vec3, len(e.points))
		e.evalDerivs(s, n)
	}
}

func (e *Evaluator) evalDerivs(s int, n *node) {
	out := e.derivs[s]
	switch n.op {
	case OpConst:
		return
	case OpAxis:
		u := UnitAxis(n.axis)
		for i := range out {
			out[i] = u
		}
		return
	case OpOracle:
		o := e.oracles[s]
		for i := range out {
			out[i] = o.Deriv(i)
		}
		return
	}
	av := e.vals[e.slot[n.lhs]]
	da := e.derivs[e.slot[n.lhs]]
	switch n.op {
	case OpNeg:
		for i := range out {
			out[i] = da[i].Neg()
		}
		return
	case OpSquare:
		for i := range out {
			out[i] = da[i].Mul(2 * av[i])
		}
		return
	case OpSqrt:
		ov := e.vals[s]
		for i := range out {
			if av[i] <= 0 {
				out[i] = Vec3{}
			} else {
				out[i] = da[i].Mul(1 / (2 * ov[i]))
			}
		}
		return
	case OpAbs:
		for i := range out {
			if av[i] > 0 {
				out[i] = da[i]
			} else {
				out[i] = da[i].Neg()
			}
		}
		return
	case OpSin:
		for i := range out {
			out[i] = da[i].Mul(math.Cos(av[i]))
		}
		return
	case OpCos:
		for i := range out {
			out[i] = da[i].Mul(-math.Sin(av[i]))
		}
		return
	case OpExp:
		for i := range out {
			out[i] = da[i].Mul(math.Exp(av[i]))
		}
		return
	}
	bv := e.vals[e.slot[n.rhs]]
	db := e.derivs[e.slot[n.rhs]]
	switch n.op {
	case OpAdd:
		for i := range out {
			out[i] = da[i].Add(db[i])
		}
	case OpSub:
		for i := range out {
			out[i] = da[i].Sub(db[i])
		}
	case OpMul:
		// Product rule.
		for i := range out {
			out[i] = da[i].Mul(bv[i]).Add(db[i].Mul(av[i]))
		}
	case OpDiv:
		// Quotient rule.
		for i := range out {
			out[i] = da[i].Mul(bv[i]).Sub(db[i].Mul(av[i])).Mul(1 / (bv[i] * bv[i]))
		}
	case OpMin:
		for i := range out {
			if av[i] < bv[i] {
				out[i] = da[i]
			} else {
				out[i] = db[i]
			}
		}
	case OpMax:
		for i := range out {
			if av[i] > bv[i] {
				out[i] = da[i]
			} else {
				out[i] = db[i]
			}
		}
	}
}

// Ambiguous returns a mask over the bound batch marking samples at which
// the tree has multiple valid gradients: Min/Max ties whose operands
// carry different gradients, Abs of zero with a non-zero inner gradient,
// and whatever each oracle reports. A marked sample is exactly one whose
// feature set has two or more distinct gradients.
//
// Only nodes that actually contribute to the output at a sample count:
// a tie buried in the losing branch of an outer Min/Max does not make
// the sample ambiguous, since the feature walk never descends into it.
func (e *Evaluator) Ambiguous() []bool {
	e.ensureDerivs()
	np := len(e.points)
	active := e.activeMask()

	out := make([]bool, np)
	var oracleBuf []bool
	for s, n := range e.nodes {
		switch n.op {
		case OpMin, OpMax:
			if n.lhs == n.rhs {
				continue
			}
			av := e.vals[e.slot[n.lhs]]
			bv := e.vals[e.slot[n.rhs]]
			da := e.derivs[e.slot[n.lhs]]
			db := e.derivs[e.slot[n.rhs]]
			for i := range out {
				if active[s][i] && av[i] == bv[i] && da[i] != db[i] {
					out[i] = true
				}
			}
		case OpAbs:
			av := e.vals[e.slot[n.lhs]]
			da := e.derivs[e.slot[n.lhs]]
			for i := range out {
				if active[s][i] && av[i] == 0 && !da[i].IsZero() {
					out[i] = true
				}
			}
		case OpOracle:
			if oracleBuf == nil {
				oracleBuf = make([]bool, np)
			} else {
				clear(oracleBuf)
			}
			e.oracles[s].Ambiguous(oracleBuf)
			for i := range out {
				if active[s][i] && oracleBuf[i] {
					out[i] = true
				}
			}
		}
	}
	return out
}

// activeMask computes, per node and sample, whether the node's value
// reaches the root: everything propagates through ordinary operators,
// while Min/Max forward only the winning branch (both on a tie). Nodes
// shared by several parents are active wherever any parent keeps them.
func (e *Evaluator) activeMask() [][]bool {
	np := len(e.points)
	active := make([][]bool, len(e.nodes))
	for s := range active {
		active[s] = make([]bool, np)
	}
	root := active[len(e.nodes)-1]
	for i := range root {
		root[i] = true
	}

	// Post-order puts every parent after its children, so a reverse
	// sweep sees parents first.
	for s := len(e.nodes) - 1; s >= 0; s-- {
		n := e.nodes[s]
		if n.lhs == nil {
			continue
		}
		la := active[e.slot[n.lhs]]
		switch n.op {
		case OpMin, OpMax:
			ra := active[e.slot[n.rhs]]
			av := e.vals[e.slot[n.lhs]]
			bv := e.vals[e.slot[n.rhs]]
			for i := range np {
				if !active[s][i] {
					continue
				}
				aWins := av[i] < bv[i]
				if n.op == OpMax {
					aWins = av[i] > bv[i]
				}
				tie := av[i] == bv[i]
				if aWins || tie {
					la[i] = true
				}
				if !aWins || tie {
					ra[i] = true
				}
			}
		default:
			for i := range np {
				if active[s][i] {
					la[i] = true
				}
			}
			if n.rhs != nil {
				ra := active[e.slot[n.rhs]]
				for i := range np {
					if active[s][i] {
						ra[i] = true
					}
				}
			}
		}
	}
	return active
}

// FeaturesAt returns the distinct feature gradients of the tree at p.
// A smooth point yields exactly one feature; an ambiguous point two or
// more.
//
// FeaturesAt rebinds the evaluator to a single-sample batch; any
// previously bound batch must be re-Bound before further index queries.
func (e *Evaluator) FeaturesAt(p Vec3) []Feature {
	return dedupFeatures(e.rawFeaturesAt(p))
}

func (e *Evaluator) rawFeaturesAt(p Vec3) []Feature {
	e.Bind([]Vec3{p})
	for s, n := range e.nodes {
		e.feats[s] = e.evalFeatures(s, n)
	}
	return e.feats[len(e.nodes)-1]
}

func (e *Evaluator) evalFeatures(s int, n *node) []Feature {
	switch n.op {
	case OpConst:
		return []Feature{NewFeature(Vec3{})}
	case OpAxis:
		return []Feature{NewFeature(UnitAxis(n.axis))}
	case OpOracle:
		return e.oracles[s].Features()
	}

	av := e.vals[e.slot[n.lhs]][0]
	fas := e.feats[e.slot[n.lhs]]
	var out []Feature

	// Unary chain rules: the gradient transforms, the epsilon
	// constraints carry over.
	switch n.op {
	case OpNeg:
		for _, f := range fas {
			out = append(out, f.withDeriv(f.Deriv.Neg()))
		}
		return out
	case OpSquare:
		for _, f := range fas {
			out = append(out, f.withDeriv(f.Deriv.Mul(2*av)))
		}
		return out
	case OpSqrt:
		ov := e.vals[s][0]
		for _, f := range fas {
			if av <= 0 {
				out = append(out, f.withDeriv(Vec3{}))
			} else {
				out = append(out, f.withDeriv(f.Deriv.Mul(1/(2*ov))))
			}
		}
		return out
	case OpAbs:
		switch {
		case av > 0:
			return fas
		case av < 0:
			for _, f := range fas {
				out = append(out, f.withDeriv(f.Deriv.Neg()))
			}
			return out
		default:
			// |a| at a == 0 behaves like max(a, -a) at a tie: both
			// signs are locally valid where compatible.
			for _, f := range fas {
				if f.Deriv.IsZero() {
					out = append(out, f)
					continue
				}
				fa := f.withDeriv(f.Deriv)
				if fa.Push(f.Deriv) {
					out = append(out, fa)
				}
				fb := f.withDeriv(f.Deriv.Neg())
				if fb.Push(f.Deriv.Neg()) {
					out = append(out, fb)
				}
			}
			return out
		}
	case OpSin:
		for _, f := range fas {
			out = append(out, f.withDeriv(f.Deriv.Mul(math.Cos(av))))
		}
		return out
	case OpCos:
		for _, f := range fas {
			out = append(out, f.withDeriv(f.Deriv.Mul(-math.Sin(av))))
		}
		return out
	case OpExp:
		for _, f := range fas {
			out = append(out, f.withDeriv(f.Deriv.Mul(math.Exp(av))))
		}
		return out
	}

	bv := e.vals[e.slot[n.rhs]][0]
	fbs := e.feats[e.slot[n.rhs]]

	// Binary rules combining every compatible pair of child features.
	store2 := func(deriv func(ad, bd Vec3) Vec3) {
		for _, fa := range fas {
			for _, fb := range fbs {
				if f, ok := mergeFeatures(deriv(fa.Deriv, fb.Deriv), fa, fb); ok {
					out = append(out, f)
				}
			}
		}
	}
	switch n.op {
	case OpAdd:
		store2(func(ad, bd Vec3) Vec3 { return ad.Add(bd) })
	case OpSub:
		store2(func(ad, bd Vec3) Vec3 { return ad.Sub(bd) })
	case OpMul:
		store2(func(ad, bd Vec3) Vec3 { return ad.Mul(bv).Add(bd.Mul(av)) })
	case OpDiv:
		store2(func(ad, bd Vec3) Vec3 {
			return ad.Mul(bv).Sub(bd.Mul(av)).Mul(1 / (bv * bv))
		})
	case OpMin:
		switch {
		case av < bv || n.lhs == n.rhs:
			return fas
		case av > bv:
			return fbs
		default:
			return tieFeatures(fas, fbs, false)
		}
	case OpMax:
		switch {
		case av > bv || n.lhs == n.rhs:
			return fas
		case av < bv:
			return fbs
		default:
			return tieFeatures(fas, fbs, true)
		}
	}
	return out
}

// tieFeatures resolves a Min/Max tie: each branch's features remain
// valid only in the half-space of displacements that keep that branch
// selected. For Max the left branch wins along ad-bd; for Min along
// bd-ad.
func tieFeatures(fas, fbs []Feature, isMax bool) []Feature {
	var out []Feature
	for _, fa := range fas {
		for _, fb := range fbs {
			eps := fa.Deriv.Sub(fb.Deriv)
			if !isMax {
				eps = eps.Neg()
			}
			if eps.IsZero() {
				out = append(out, fa)
				continue
			}
			f1 := fa.withDeriv(fa.Deriv)
			if f1.Push(eps) {
				out = append(out, f1)
			}
			f2 := fb.withDeriv(fb.Deriv)
			if f2.Push(eps.Neg()) {
				out = append(out, f2)
			}
		}
	}
	return out
}

// IsInside reports whether p is inside the shape. Negative values are
// inside and positive outside; exact zero crossings are resolved by
// feature analysis, so a surface point of a solid (rather than a shell
// of zero thickness) counts as inside.
func (e *Evaluator) IsInside(p Vec3) bool {
	e.Bind([]Vec3{p})
	v := e.Value(0)
	if v < 0 {
		return true
	}
	if v > 0 {
		return false
	}
	fs := e.rawFeaturesAt(p)
	if len(fs) == 1 {
		return fs[0].Deriv.Length() > 0
	}
	pos, neg := false, false
	for _, f := range fs {
		if f.Check(f.Deriv) {
			pos = true
		}
		if f.Check(f.Deriv.Neg()) {
			neg = true
		}
	}
	return !(pos && !neg)
}
