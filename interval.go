package solid

import "math"

// Interval is a closed interval [Lo, Hi] of function values over a region.
//
// Interval arithmetic computes conservative bounds: combining two sound
// intervals with any of the operations below yields an interval that
// contains every value the operation can produce from points inside the
// operands. The mesher relies on this soundness to prune regions whose
// bound does not straddle zero (no surface can exist there). Bounds may
// be loose, but must never exclude an achievable value.
type Interval struct {
	Lo, Hi float64
}

// NewInterval creates the interval [lo, hi].
func NewInterval(lo, hi float64) Interval {
	return Interval{Lo: lo, Hi: hi}
}

// Contains returns true if v lies within the interval.
func (i Interval) Contains(v float64) bool {
	return v >= i.Lo && v <= i.Hi
}

// StraddlesZero returns true if the interval contains zero, or if either
// bound is NaN (an unknown bound must be treated as possibly zero).
func (i Interval) StraddlesZero() bool {
	if math.IsNaN(i.Lo) || math.IsNaN(i.Hi) {
		return true
	}
	return i.Lo <= 0 && i.Hi >= 0
}

// Add returns the interval sum: bounds add componentwise.
func (i Interval) Add(j Interval) Interval {
	return Interval{Lo: i.Lo + j.Lo, Hi: i.Hi + j.Hi}
}

// Sub returns the interval difference.
func (i Interval) Sub(j Interval) Interval {
	return Interval{Lo: i.Lo - j.Hi, Hi: i.Hi - j.Lo}
}

// Mul returns the interval product: the min and max of the four corner
// products.
func (i Interval) Mul(j Interval) Interval {
	a := i.Lo * j.Lo
	b := i.Lo * j.Hi
	c := i.Hi * j.Lo
	d := i.Hi * j.Hi
	return Interval{
		Lo: math.Min(math.Min(a, b), math.Min(c, d)),
		Hi: math.Max(math.Max(a, b), math.Max(c, d)),
	}
}

// Div returns the interval quotient. A divisor that straddles zero yields
// the whole real line, since the quotient is unbounded.
func (i Interval) Div(j Interval) Interval {
	if j.Lo <= 0 && j.Hi >= 0 {
		return Interval{Lo: math.Inf(-1), Hi: math.Inf(1)}
	}
	a := i.Lo / j.Lo
	b := i.Lo / j.Hi
	c := i.Hi / j.Lo
	d := i.Hi / j.Hi
	return Interval{
		Lo: math.Min(math.Min(a, b), math.Min(c, d)),
		Hi: math.Max(math.Max(a, b), math.Max(c, d)),
	}
}

// Neg returns the negated interval.
func (i Interval) Neg() Interval {
	return Interval{Lo: -i.Hi, Hi: -i.Lo}
}

// Min returns the componentwise minimum of two intervals.
func (i Interval) Min(j Interval) Interval {
	return Interval{Lo: math.Min(i.Lo, j.Lo), Hi: math.Min(i.Hi, j.Hi)}
}

// Max returns the componentwise maximum of two intervals.
func (i Interval) Max(j Interval) Interval {
	return Interval{Lo: math.Max(i.Lo, j.Lo), Hi: math.Max(i.Hi, j.Hi)}
}

// Square returns the interval of squared values. The result is always
// non-negative; an interval straddling zero has a lower bound of zero.
func (i Interval) Square() Interval {
	a := i.Lo * i.Lo
	b := i.Hi * i.Hi
	if i.Lo <= 0 && i.Hi >= 0 {
		return Interval{Lo: 0, Hi: math.Max(a, b)}
	}
	return Interval{Lo: math.Min(a, b), Hi: math.Max(a, b)}
}

// Sqrt returns the interval of square roots. Negative portions of the
// input are clamped to zero; an entirely negative interval yields NaN
// bounds, which the mesher treats conservatively.
func (i Interval) Sqrt() Interval {
	if i.Hi < 0 {
		return Interval{Lo: math.NaN(), Hi: math.NaN()}
	}
	lo := i.Lo
	if lo < 0 {
		lo = 0
	}
	return Interval{Lo: math.Sqrt(lo), Hi: math.Sqrt(i.Hi)}
}

// Abs returns the interval of absolute values.
func (i Interval) Abs() Interval {
	if i.Lo >= 0 {
		return i
	}
	if i.Hi <= 0 {
		return i.Neg()
	}
	return Interval{Lo: 0, Hi: math.Max(-i.Lo, i.Hi)}
}

// Sin returns a bound on the sine of the interval. The bound is the full
// output range [-1, 1]: loose, but sound for any input.
func (i Interval) Sin() Interval {
	return Interval{Lo: -1, Hi: 1}
}

// Cos returns a bound on the cosine of the interval, as for Sin.
func (i Interval) Cos() Interval {
	return Interval{Lo: -1, Hi: 1}
}

// Exp returns the interval of exponentials. Exp is monotone, so the
// bound is exact.
func (i Interval) Exp() Interval {
	return Interval{Lo: math.Exp(i.Lo), Hi: math.Exp(i.Hi)}
}
