package solid

import (
	"math"
	"testing"
)

func TestVec3_Arithmetic(t *testing.T) {
	a := V3(1, 2, 3)
	b := V3(4, -5, 6)

	if got := a.Add(b); got != V3(5, -3, 9) {
		t.Errorf("Add = %v", got)
	}
	if got := a.Sub(b); got != V3(-3, 7, -3) {
		t.Errorf("Sub = %v", got)
	}
	if got := a.Mul(2); got != V3(2, 4, 6) {
		t.Errorf("Mul = %v", got)
	}
	if got := a.Neg(); got != V3(-1, -2, -3) {
		t.Errorf("Neg = %v", got)
	}
	if got := a.Dot(b); got != 1*4+2*-5+3*6.0 {
		t.Errorf("Dot = %v", got)
	}
}

func TestVec3_Cross(t *testing.T) {
	x, y, z := V3(1, 0, 0), V3(0, 1, 0), V3(0, 0, 1)
	if got := x.Cross(y); got != z {
		t.Errorf("x cross y = %v, want z", got)
	}
	if got := y.Cross(x); got != z.Neg() {
		t.Errorf("y cross x = %v, want -z", got)
	}
	if got := x.Cross(x); !got.IsZero() {
		t.Errorf("x cross x = %v, want zero", got)
	}
}

func TestVec3_LengthNormalize(t *testing.T) {
	v := V3(3, 4, 0)
	if got := v.Length(); got != 5 {
		t.Errorf("Length = %v", got)
	}
	if got := v.LengthSq(); got != 25 {
		t.Errorf("LengthSq = %v", got)
	}
	n := v.Normalize()
	if !n.Approx(V3(0.6, 0.8, 0), 1e-15) {
		t.Errorf("Normalize = %v", n)
	}
	if got := (Vec3{}).Normalize(); !got.IsZero() {
		t.Errorf("Normalize(zero) = %v, want zero", got)
	}
}

func TestVec3_Lerp(t *testing.T) {
	a, b := V3(0, 0, 0), V3(2, 4, 8)
	if got := a.Lerp(b, 0); got != a {
		t.Errorf("Lerp(0) = %v", got)
	}
	if got := a.Lerp(b, 1); got != b {
		t.Errorf("Lerp(1) = %v", got)
	}
	if got := a.Lerp(b, 0.5); got != V3(1, 2, 4) {
		t.Errorf("Lerp(0.5) = %v", got)
	}
}

func TestVec3_ComponentAndUnitAxis(t *testing.T) {
	v := V3(7, 8, 9)
	for axis := range 3 {
		u := UnitAxis(axis)
		if math.Abs(u.Length()-1) > 1e-15 {
			t.Errorf("UnitAxis(%d) not unit: %v", axis, u)
		}
		if got := v.Component(axis); got != v.Dot(u) {
			t.Errorf("Component(%d) = %v, want %v", axis, got, v.Dot(u))
		}
	}
}

func TestVec2_Basics(t *testing.T) {
	a := V2(3, 4)
	if got := a.Length(); got != 5 {
		t.Errorf("Length = %v", got)
	}
	if got := a.Add(V2(1, 1)); got != V2(4, 5) {
		t.Errorf("Add = %v", got)
	}
	if got := a.Sub(V2(1, 1)); got != V2(2, 3) {
		t.Errorf("Sub = %v", got)
	}
	if got := a.Mul(0.5); got != V2(1.5, 2) {
		t.Errorf("Mul = %v", got)
	}
	if got := a.Dot(V2(2, -1)); got != 2 {
		t.Errorf("Dot = %v", got)
	}
	if !a.Approx(V2(3+1e-12, 4-1e-12), 1e-9) {
		t.Error("Approx rejected a near-equal vector")
	}
}
