package solid

import "testing"

func TestRegion3_Split(t *testing.T) {
	r := NewRegion3(V3(0, 0, 0), V3(2, 4, 6))
	children := r.Split()

	center := V3(1, 2, 3)
	if got := r.Center(); got != center {
		t.Fatalf("Center() = %v, want %v", got, center)
	}

	for i, c := range children {
		// Octant bits pick the half along each axis.
		wantLo, wantHi := r.Lower, r.Upper
		if i&1 != 0 {
			wantLo.X = center.X
		} else {
			wantHi.X = center.X
		}
		if i&2 != 0 {
			wantLo.Y = center.Y
		} else {
			wantHi.Y = center.Y
		}
		if i&4 != 0 {
			wantLo.Z = center.Z
		} else {
			wantHi.Z = center.Z
		}
		if c.Lower != wantLo || c.Upper != wantHi {
			t.Errorf("child %d = %+v, want [%v, %v]", i, c, wantLo, wantHi)
		}
		if c.Empty() {
			t.Errorf("child %d is empty", i)
		}
	}
}

func TestRegion3_Corner(t *testing.T) {
	r := NewRegion3(V3(-1, -2, -3), V3(1, 2, 3))
	tests := []struct {
		i    int
		want Vec3
	}{
		{0, V3(-1, -2, -3)},
		{1, V3(1, -2, -3)},
		{2, V3(-1, 2, -3)},
		{4, V3(-1, -2, 3)},
		{7, V3(1, 2, 3)},
	}
	for _, tt := range tests {
		if got := r.Corner(tt.i); got != tt.want {
			t.Errorf("Corner(%d) = %v, want %v", tt.i, got, tt.want)
		}
	}
}

func TestRegion3_CornersMatchSplitCorners(t *testing.T) {
	// The i-th child of a split touches the parent's i-th corner.
	r := NewRegion3(V3(-1, -1, -1), V3(1, 1, 1))
	for i, c := range r.Split() {
		if got, want := c.Corner(i), r.Corner(i); got != want {
			t.Errorf("child %d corner %d = %v, want parent corner %v", i, i, got, want)
		}
	}
}

func TestRegion3_Contains(t *testing.T) {
	r := NewRegion3(V3(0, 0, 0), V3(1, 1, 1))
	tests := []struct {
		name string
		p    Vec3
		want bool
	}{
		{"center", V3(0.5, 0.5, 0.5), true},
		{"lower corner", V3(0, 0, 0), true},
		{"upper corner", V3(1, 1, 1), true},
		{"outside x", V3(1.1, 0.5, 0.5), false},
		{"outside negative", V3(0.5, -0.1, 0.5), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Contains(tt.p); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestRegion3_Empty(t *testing.T) {
	if NewRegion3(V3(0, 0, 0), V3(1, 1, 1)).Empty() {
		t.Error("proper region reported empty")
	}
	if !NewRegion3(V3(0, 0, 0), V3(1, 0, 1)).Empty() {
		t.Error("flat region not reported empty")
	}
	if !NewRegion3(V3(1, 1, 1), V3(0, 0, 0)).Empty() {
		t.Error("inverted region not reported empty")
	}
}

func TestRegion2_Split(t *testing.T) {
	r := NewRegion2(V2(0, 0), V2(2, 4), 0.5)
	c := r.Center()
	if c != V2(1, 2) {
		t.Fatalf("Center() = %v", c)
	}
	for i, child := range r.Split() {
		wantLo, wantHi := r.Lower, r.Upper
		if i&1 != 0 {
			wantLo.X = c.X
		} else {
			wantHi.X = c.X
		}
		if i&2 != 0 {
			wantLo.Y = c.Y
		} else {
			wantHi.Y = c.Y
		}
		if child.Lower != wantLo || child.Upper != wantHi {
			t.Errorf("child %d = %+v, want [%v, %v]", i, child, wantLo, wantHi)
		}
		if child.Perpendicular() != 0.5 {
			t.Errorf("child %d lost perpendicular coordinate", i)
		}
	}
}

func TestRegion2_Lift(t *testing.T) {
	r := NewRegion2(V2(-1, -1), V2(1, 1), 0.25)
	if got := r.lift(V2(0.5, -0.5)); got != V3(0.5, -0.5, 0.25) {
		t.Errorf("lift = %v", got)
	}
	r3 := r.region3()
	if r3.Lower.Z != 0.25 || r3.Upper.Z != 0.25 {
		t.Errorf("region3 not flat at the slice plane: %+v", r3)
	}
}
