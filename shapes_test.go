package solid

import (
	"math"
	"testing"
)

func evalAt(t *testing.T, shape Tree, p Vec3) float64 {
	t.Helper()
	ev := NewEvaluator(shape)
	ev.Bind([]Vec3{p})
	return ev.Value(0)
}

func TestShapes_Values(t *testing.T) {
	tests := []struct {
		name string
		tree Tree
		p    Vec3
		want float64
	}{
		{"box center", Box(V3(-1, -2, -3), V3(1, 2, 3)), V3(0, 0, 0), -1},
		{"box face", Box(V3(-1, -2, -3), V3(1, 2, 3)), V3(1, 0, 0), 0},
		{"box outside", Box(V3(-1, -2, -3), V3(1, 2, 3)), V3(2, 0, 0), 1},
		{"cube corner sign", Cube(1), V3(2, 2, 2), 1},
		{"cylinder axis", Cylinder(0.5, -1, 1), V3(0, 0, 0), -0.5},
		{"cylinder wall", Cylinder(0.5, -1, 1), V3(0.5, 0, 0), 0},
		{"cylinder cap", Cylinder(0.5, -1, 1), V3(0, 0, 1), 0},
		{"cylinder above cap", Cylinder(0.5, -1, 1), V3(0, 0, 2), 1},
		{"union picks closer", Union(Sphere(0.5), Sphere(1)), V3(0, 0, 0), -1},
		{"intersection picks farther", Intersection(Sphere(0.5), Sphere(1)), V3(0, 0, 0), -0.5},
		{"difference carves", Difference(Sphere(1), Sphere(0.5)), V3(0, 0, 0), 0.5},
		{"difference keeps shell", Difference(Sphere(1), Sphere(0.5)), V3(0.75, 0, 0), -0.25},
		{"offset grows", Offset(Sphere(0.5), 0.25), V3(0.75, 0, 0), 0},
		{"offset shrinks", Offset(Sphere(0.5), -0.25), V3(0.25, 0, 0), 0},
		{"move", Move(Sphere(0.5), V3(0, 2, 0)), V3(0, 2, 0), -0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := evalAt(t, tt.tree, tt.p); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("value at %v = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestUnion_SingleAndMany(t *testing.T) {
	// Union of one shape is that shape.
	one := Union(Sphere(0.5))
	if got := evalAt(t, one, V3(0, 0, 0)); got != -0.5 {
		t.Errorf("single union = %v", got)
	}

	// Variadic folds: the value is the minimum over all operands.
	many := Union(Sphere(0.2), Sphere(0.4), Sphere(0.6))
	if got := evalAt(t, many, V3(0, 0, 0)); got != -0.6 {
		t.Errorf("variadic union = %v, want -0.6", got)
	}
}

func TestSphere_IsExactDistance(t *testing.T) {
	// The sphere primitive is a true signed distance field.
	shape := Sphere(0.5)
	ev := NewEvaluator(shape)
	pts := []Vec3{V3(0.1, 0.2, 0.2), V3(1, 1, 1), V3(0, -0.7, 0)}
	ev.Bind(pts)
	for i, p := range pts {
		want := p.Length() - 0.5
		if got := ev.Value(i); math.Abs(got-want) > 1e-12 {
			t.Errorf("value at %v = %v, want %v", p, got, want)
		}
	}
}
