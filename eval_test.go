package solid

import (
	"math"
	"math/rand"
	"testing"
)

func TestEvaluator_PointValues(t *testing.T) {
	tests := []struct {
		name string
		tree Tree
		p    Vec3
		want float64
	}{
		{"constant", Const(3.5), V3(1, 2, 3), 3.5},
		{"x axis", X(), V3(1, 2, 3), 1},
		{"y axis", Y(), V3(1, 2, 3), 2},
		{"z axis", Z(), V3(1, 2, 3), 3},
		{"sum", Add(X(), Y()), V3(1, 2, 0), 3},
		{"product", Mul(X(), Z()), V3(2, 0, 4), 8},
		{"division", Div(X(), Y()), V3(1, 4, 0), 0.25},
		{"negation", Neg(X()), V3(2, 0, 0), -2},
		{"square", Square(Y()), V3(0, -3, 0), 9},
		{"sqrt", Sqrt(X()), V3(16, 0, 0), 4},
		{"abs", Abs(X()), V3(-2.5, 0, 0), 2.5},
		{"min", Min(X(), Y()), V3(2, -1, 0), -1},
		{"max", Max(X(), Y()), V3(2, -1, 0), 2},
		{"sphere center", Sphere(0.5), V3(0, 0, 0), -0.5},
		{"sphere surface", Sphere(0.5), V3(0.5, 0, 0), 0},
		{"sphere outside", Sphere(0.5), V3(1, 0, 0), 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := NewEvaluator(tt.tree)
			ev.Bind([]Vec3{tt.p})
			if got := ev.Value(0); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Value(0) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEvaluator_BatchMatchesPointwise(t *testing.T) {
	shape := Union(Sphere(0.5), Cube(0.3))
	rng := rand.New(rand.NewSource(7))

	points := make([]Vec3, 64)
	for i := range points {
		points[i] = V3(rng.Float64()*2-1, rng.Float64()*2-1, rng.Float64()*2-1)
	}

	batch := NewEvaluator(shape)
	batch.Bind(points)
	vals := append([]float64(nil), batch.Values()...)

	single := NewEvaluator(shape)
	for i, p := range points {
		single.Bind([]Vec3{p})
		if single.Value(0) != vals[i] {
			t.Errorf("point %d: batch %v != single %v", i, vals[i], single.Value(0))
		}
	}
}

func TestEvaluator_Deriv(t *testing.T) {
	tests := []struct {
		name string
		tree Tree
		p    Vec3
		want Vec3
	}{
		{"x axis", X(), V3(1, 2, 3), V3(1, 0, 0)},
		{"constant", Const(5), V3(1, 2, 3), V3(0, 0, 0)},
		{"sum", Add(X(), Y()), V3(0, 0, 0), V3(1, 1, 0)},
		{"square", Square(X()), V3(3, 0, 0), V3(6, 0, 0)},
		{"product", Mul(X(), Y()), V3(2, 5, 0), V3(5, 2, 0)},
		{"sphere +x", Sphere(0.5), V3(0.5, 0, 0), V3(1, 0, 0)},
		{"sphere -y", Sphere(0.5), V3(0, -0.5, 0), V3(0, -1, 0)},
		{"sphere diagonal", Sphere(1), V3(0.6, 0.8, 0), V3(0.6, 0.8, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := NewEvaluator(tt.tree)
			ev.Bind([]Vec3{tt.p})
			if got := ev.Deriv(0); !got.Approx(tt.want, 1e-9) {
				t.Errorf("Deriv(0) = %v, want %v", got, tt.want)
			}
		})
	}
}

// The interval bound over any region must contain the value at every
// point inside the region.
func TestEvaluator_IntervalSoundness(t *testing.T) {
	shapes := map[string]Tree{
		"sphere":   Sphere(0.5),
		"cube":     scenarioCube(),
		"cylinder": Cylinder(0.7, -0.5, 0.5),
		"csg": Difference(
			Cube(0.8),
			Move(Sphere(0.5), V3(0.8, 0.8, 0.8)),
		),
	}
	rng := rand.New(rand.NewSource(42))

	for name, shape := range shapes {
		t.Run(name, func(t *testing.T) {
			ev := NewEvaluator(shape)
			for trial := 0; trial < 50; trial++ {
				lo := V3(rng.Float64()*4-2, rng.Float64()*4-2, rng.Float64()*4-2)
				size := V3(rng.Float64()*2, rng.Float64()*2, rng.Float64()*2)
				r := NewRegion3(lo, lo.Add(size))

				bound := ev.Interval(r)

				points := make([]Vec3, 16)
				for i := range points {
					points[i] = V3(
						lo.X+rng.Float64()*size.X,
						lo.Y+rng.Float64()*size.Y,
						lo.Z+rng.Float64()*size.Z,
					)
				}
				ev.Bind(points)
				for i := range points {
					v := ev.Value(i)
					if !bound.Contains(v) {
						t.Fatalf("trial %d: value %v at %v outside bound [%v, %v] for region %+v",
							trial, v, points[i], bound.Lo, bound.Hi, r)
					}
				}
			}
		})
	}
}

// A sample is ambiguous exactly when its feature set has two or more
// distinct gradients.
func TestEvaluator_AmbiguityFeatureConsistency(t *testing.T) {
	shape := scenarioCube()
	points := []Vec3{
		V3(0, 0, 1.5),        // face: smooth
		V3(1.5, 0, 0),        // face: smooth
		V3(1.5, 1.5, 0),      // edge: two features
		V3(1.5, -1.5, 0.3),   // edge: two features
		V3(1.5, 1.5, 1.5),    // corner: three features
		V3(-1.5, -1.5, -1.5), // corner: three features
		V3(0.3, 0.7, 0.2),    // interior, off the symmetry planes
		V3(2, 0.1, 0.2),      // exterior
	}

	ev := NewEvaluator(shape)
	ev.Bind(points)
	amb := append([]bool(nil), ev.Ambiguous()...)

	for i, p := range points {
		features := ev.FeaturesAt(p)
		if got, want := amb[i], len(features) >= 2; got != want {
			t.Errorf("point %v: ambiguous=%v but %d distinct features", p, got, len(features))
		}
	}
}

// A sum of two independently tied Min/Max nodes combines every pair of
// child gradients: the children's epsilon constraints are orthogonal, so
// all combinations survive the merge and the feature set matches the
// ambiguity mask.
func TestEvaluator_AmbiguityAcrossSum(t *testing.T) {
	shape := Add(Max(X(), Y()), Max(Z(), Neg(Z())))
	p := V3(0.5, 0.5, 0)

	ev := NewEvaluator(shape)
	ev.Bind([]Vec3{p})
	amb := append([]bool(nil), ev.Ambiguous()...)
	if !amb[0] {
		t.Fatal("two active ties must mark the sample ambiguous")
	}

	fs := ev.FeaturesAt(p)
	if len(fs) < 2 {
		t.Fatalf("ambiguous sample has %d features, want at least 2", len(fs))
	}
	// Both ties contribute both branches: 2x2 combined gradients.
	want := map[Vec3]bool{
		V3(1, 0, 1):  true,
		V3(1, 0, -1): true,
		V3(0, 1, 1):  true,
		V3(0, 1, -1): true,
	}
	if len(fs) != len(want) {
		dirs := make([]Vec3, len(fs))
		for i, f := range fs {
			dirs[i] = f.Deriv
		}
		t.Fatalf("got %d features %v, want %d", len(fs), dirs, len(want))
	}
	for _, f := range fs {
		if !want[f.Deriv] {
			t.Errorf("unexpected feature gradient %v", f.Deriv)
		}
	}
}

func TestEvaluator_FeatureCounts(t *testing.T) {
	shape := scenarioCube()
	ev := NewEvaluator(shape)

	tests := []struct {
		name string
		p    Vec3
		want int
	}{
		{"face", V3(1.5, 0, 0), 1},
		{"edge", V3(1.5, 1.5, 0), 2},
		{"corner", V3(1.5, 1.5, 1.5), 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := ev.FeaturesAt(tt.p)
			if len(fs) != tt.want {
				dirs := make([]Vec3, len(fs))
				for i, f := range fs {
					dirs[i] = f.Deriv
				}
				t.Errorf("got %d features %v, want %d", len(fs), dirs, tt.want)
			}
		})
	}
}

func TestEvaluator_IsInside(t *testing.T) {
	shape := Sphere(0.5)
	ev := NewEvaluator(shape)

	tests := []struct {
		name string
		p    Vec3
		want bool
	}{
		{"center", V3(0, 0, 0), true},
		{"inside", V3(0.3, 0, 0), true},
		{"outside", V3(0.8, 0, 0), false},
		{"far outside", V3(5, 5, 5), false},
		// A point exactly on the surface of a solid is inside.
		{"surface", V3(0.5, 0, 0), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ev.IsInside(tt.p); got != tt.want {
				t.Errorf("IsInside(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestEvaluator_MinMaxTieDeriv(t *testing.T) {
	// At a Min/Max tie the evaluator resolves to the right operand's
	// gradient; the full gradient set is available through FeaturesAt.
	ev := NewEvaluator(Max(X(), Y()))
	p := V3(0.5, 0.5, 0)
	ev.Bind([]Vec3{p})
	if got := ev.Deriv(0); got != V3(0, 1, 0) {
		t.Errorf("Deriv at tie = %v, want right operand gradient", got)
	}
	if fs := ev.FeaturesAt(p); len(fs) != 2 {
		t.Errorf("features at tie = %d, want 2", len(fs))
	}
}
