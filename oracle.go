package solid

// OracleClause is the descriptor attached to an oracle tree node. It is
// the kernel's one open-ended extension point: any value implementing
// this interface can stand in for a subtree of the implicit function.
//
// A clause must be stateless and immutable. Multiple evaluation contexts
// (one per mesher worker) request instances from the same clause
// concurrently, so all per-evaluation state belongs in the Oracle it
// manufactures, never in the clause itself.
type OracleClause interface {
	// Oracle returns a freshly constructed Oracle, bound to no batch.
	// Each call must return a new instance.
	Oracle() Oracle
}

// Oracle is a stateful evaluator for one oracle node within one
// evaluation context. The kernel binds it to a batch of sample points
// (or a query region) and then issues index-based queries, so an oracle
// can amortize setup and vectorize its internals across the batch.
//
// An Oracle is owned exclusively by the evaluator that created it and is
// never shared across workers. The five query modes must be mutually
// consistent:
//
//   - Interval must contain every value achievable inside the region set
//     by SetRegion. It may be loose, but never unsound: the mesher prunes
//     space based on it.
//   - Value must be a deterministic, pure function of the sample's
//     coordinates.
//   - Ambiguous must mark exactly the samples for which Features would
//     report two or more distinct gradients.
//   - Deriv must be a valid gradient at smooth points; at ambiguous
//     points any one of the features' gradients is acceptable.
//   - Features reports every locally valid gradient at the first bound
//     sample, with at least two entries exactly when that sample is
//     ambiguous.
//
// Violating these contracts is not detected at runtime; it surfaces as
// malformed meshes or equivalence-test failures.
type Oracle interface {
	// SetRegion sets the axis-aligned region for a following Interval
	// query.
	SetRegion(lower, upper Vec3)

	// Interval returns a conservative bound on the oracle's value over
	// the region most recently set with SetRegion.
	Interval() Interval

	// Bind attaches a batch of sample points for the index-based
	// queries below. The slice is owned by the caller and must not be
	// mutated by the oracle. Bind replaces any previously bound batch.
	Bind(points []Vec3)

	// Value returns the oracle's value at bound sample i.
	Value(i int) float64

	// Ambiguous sets out[i] to true for every bound sample at which the
	// oracle's function has multiple valid gradients. Entries for
	// unambiguous samples are left untouched, so masks from several
	// sources can be accumulated in one slice. len(out) matches the
	// bound batch.
	Ambiguous(out []bool)

	// Deriv returns a gradient of the oracle's function at bound
	// sample i.
	Deriv(i int) Vec3

	// Features returns every locally valid gradient at bound sample 0.
	// Evaluators bind a single-point batch before querying features.
	Features() []Feature
}

// OracleStorage is the common base for oracle implementations. It stores
// the bound batch and query region and provides the corresponding
// accessors, so a concrete oracle only implements the five query modes.
// Embed it by value:
//
//	type myOracle struct {
//	    solid.OracleStorage
//	}
type OracleStorage struct {
	lower, upper Vec3
	points       []Vec3
}

// SetRegion records the query region for Interval.
func (s *OracleStorage) SetRegion(lower, upper Vec3) {
	s.lower, s.upper = lower, upper
}

// Bind records the batch of sample points.
func (s *OracleStorage) Bind(points []Vec3) {
	s.points = points
}

// Lower returns the lower corner of the current query region.
func (s *OracleStorage) Lower() Vec3 { return s.lower }

// Upper returns the upper corner of the current query region.
func (s *OracleStorage) Upper() Vec3 { return s.upper }

// Point returns bound sample i.
func (s *OracleStorage) Point(i int) Vec3 { return s.points[i] }

// Points returns the currently bound batch.
func (s *OracleStorage) Points() []Vec3 { return s.points }
