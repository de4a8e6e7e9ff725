package solid

// AxisOracleClause manufactures oracles that mimic a single coordinate
// axis exactly: the oracle's value is the Axis-th coordinate, its
// interval is the region's extent along that axis, its gradient is the
// unit vector along it, and it is never ambiguous.
//
// Axis oracles are the reference implementation of the oracle contract
// and the workhorse of the equivalence tests: substituting them for the
// native axes of any tree must leave the rendered mesh bit-identical.
type AxisOracleClause struct {
	// Axis selects the mimicked coordinate: 0=X, 1=Y, 2=Z.
	Axis int
}

// Oracle returns a fresh AxisOracle for the clause's axis.
func (c AxisOracleClause) Oracle() Oracle {
	return &AxisOracle{axis: c.Axis}
}

// AxisOracle evaluates the coordinate selected at construction. See
// AxisOracleClause.
type AxisOracle struct {
	OracleStorage
	axis int
}

// Interval returns the region's extent along the oracle's axis.
func (o *AxisOracle) Interval() Interval {
	return Interval{
		Lo: o.Lower().Component(o.axis),
		Hi: o.Upper().Component(o.axis),
	}
}

// Value returns the sample's coordinate along the oracle's axis.
func (o *AxisOracle) Value(i int) float64 {
	return o.Point(i).Component(o.axis)
}

// Ambiguous is a no-op: a bare coordinate is smooth everywhere.
func (o *AxisOracle) Ambiguous(out []bool) {}

// Deriv returns the unit vector along the oracle's axis.
func (o *AxisOracle) Deriv(i int) Vec3 {
	return UnitAxis(o.axis)
}

// Features returns the single feature along the oracle's axis.
func (o *AxisOracle) Features() []Feature {
	return []Feature{NewFeature(UnitAxis(o.axis))}
}

// ToOracleAxes returns t with every coordinate leaf replaced by an
// axis-mimicking oracle. The result is mathematically identical to t and
// must render to an identical mesh; it exists to exercise the oracle
// path end to end.
func ToOracleAxes(t Tree) Tree {
	return t.Remap(
		NewOracleTree(AxisOracleClause{Axis: 0}),
		NewOracleTree(AxisOracleClause{Axis: 1}),
		NewOracleTree(AxisOracleClause{Axis: 2}),
	)
}
