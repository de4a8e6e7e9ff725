package solid

import (
	"math"
	"testing"
)

func iv(lo, hi float64) Interval { return NewInterval(lo, hi) }

func TestInterval_Arithmetic(t *testing.T) {
	tests := []struct {
		name string
		got  Interval
		want Interval
	}{
		{"add", iv(1, 2).Add(iv(10, 20)), iv(11, 22)},
		{"add negative", iv(-3, 2).Add(iv(-1, 1)), iv(-4, 3)},
		{"sub", iv(1, 2).Sub(iv(10, 20)), iv(-19, -8)},
		{"mul positive", iv(2, 3).Mul(iv(4, 5)), iv(8, 15)},
		{"mul mixed", iv(-2, 3).Mul(iv(-5, 4)), iv(-15, 12)},
		{"mul negative", iv(-3, -2).Mul(iv(-5, -4)), iv(8, 15)},
		{"div", iv(1, 2).Div(iv(4, 8)), iv(0.125, 0.5)},
		{"neg", iv(-1, 3).Neg(), iv(-3, 1)},
		{"min", iv(1, 5).Min(iv(2, 3)), iv(1, 3)},
		{"max", iv(1, 5).Max(iv(2, 3)), iv(2, 5)},
		{"square straddling", iv(-2, 3).Square(), iv(0, 9)},
		{"square negative", iv(-3, -2).Square(), iv(4, 9)},
		{"sqrt", iv(4, 9).Sqrt(), iv(2, 3)},
		{"sqrt clamped", iv(-4, 9).Sqrt(), iv(0, 3)},
		{"abs straddling", iv(-2, 5).Abs(), iv(0, 5)},
		{"abs negative", iv(-5, -2).Abs(), iv(2, 5)},
		{"abs positive", iv(2, 5).Abs(), iv(2, 5)},
		{"exp", iv(0, 1).Exp(), iv(1, math.Exp(1))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got [%v, %v], want [%v, %v]",
					tt.got.Lo, tt.got.Hi, tt.want.Lo, tt.want.Hi)
			}
		})
	}
}

func TestInterval_DivByStraddlingZero(t *testing.T) {
	got := iv(1, 2).Div(iv(-1, 1))
	if !math.IsInf(got.Lo, -1) || !math.IsInf(got.Hi, 1) {
		t.Errorf("division by interval containing zero must be unbounded, got [%v, %v]",
			got.Lo, got.Hi)
	}
}

func TestInterval_SinCosAreSound(t *testing.T) {
	// The trig bounds are the full output range; verify soundness, not
	// tightness.
	in := iv(0.1, 0.2)
	for x := 0.1; x <= 0.2; x += 0.01 {
		if !in.Sin().Contains(math.Sin(x)) {
			t.Errorf("sin(%v) outside bound", x)
		}
		if !in.Cos().Contains(math.Cos(x)) {
			t.Errorf("cos(%v) outside bound", x)
		}
	}
}

func TestInterval_StraddlesZero(t *testing.T) {
	tests := []struct {
		name string
		i    Interval
		want bool
	}{
		{"straddles", iv(-1, 1), true},
		{"touches from below", iv(-1, 0), true},
		{"touches from above", iv(0, 1), true},
		{"positive", iv(0.5, 2), false},
		{"negative", iv(-2, -0.5), false},
		{"nan lower", Interval{Lo: math.NaN(), Hi: 1}, true},
		{"nan upper", Interval{Lo: -1, Hi: math.NaN()}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.i.StraddlesZero(); got != tt.want {
				t.Errorf("StraddlesZero() = %v, want %v", got, tt.want)
			}
		})
	}
}
