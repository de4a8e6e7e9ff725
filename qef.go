package solid

import "math"

// Quadratic error minimization for dual-contouring vertex placement.
//
// Each leaf cell has a set of surface crossings, every crossing carrying
// a position and a normal. The placed vertex minimizes the sum of squared
// distances to the crossing planes:
//
//	E(x) = Σ (nᵢ · (x - pᵢ))²
//
// solved through the normal equations AᵀA x = Aᵀb with b_i = nᵢ·pᵢ.
// A near-singular system (flat or degenerate crossing sets) falls back
// to the mass point, so a cell never fails outright.

// pivotEpsilon is the smallest pivot magnitude accepted during
// elimination before the system is declared degenerate.
const pivotEpsilon = 1e-10

// crossing is one surface intersection on a cell edge.
type crossing struct {
	pos    Vec3
	normal Vec3
}

// solveQEF places a vertex for the given crossings, constrained to the
// cell. Degenerate systems and out-of-cell solutions fall back to the
// mass point (the mean crossing position), which always lies in the cell.
func solveQEF(crossings []crossing, cell Region3) Vec3 {
	mass := Vec3{}
	for _, c := range crossings {
		mass = mass.Add(c.pos)
	}
	mass = mass.Mul(1 / float64(len(crossings)))

	// Accumulate AᵀA (symmetric) and Aᵀb, with positions expressed
	// relative to the mass point for conditioning.
	var ata [3][3]float64
	var atb [3]float64
	for _, c := range crossings {
		n := [3]float64{c.normal.X, c.normal.Y, c.normal.Z}
		d := c.pos.Sub(mass)
		b := c.normal.Dot(d)
		for r := range 3 {
			for col := range 3 {
				ata[r][col] += n[r] * n[col]
			}
			atb[r] += n[r] * b
		}
	}

	x, ok := solve3x3(ata, atb)
	if !ok {
		return mass
	}
	v := mass.Add(Vec3{X: x[0], Y: x[1], Z: x[2]})
	if !cell.Contains(v) {
		return mass
	}
	return v
}

// solve3x3 solves a 3x3 linear system by Gaussian elimination with
// partial pivoting. It reports failure on degenerate (rank-deficient)
// systems instead of producing wild solutions.
func solve3x3(a [3][3]float64, b [3]float64) ([3]float64, bool) {
	var m [3][4]float64
	for r := range 3 {
		copy(m[r][:3], a[r][:])
		m[r][3] = b[r]
	}

	for col := range 3 {
		// Partial pivot: largest magnitude in this column.
		pivot := col
		for r := col + 1; r < 3; r++ {
			if math.Abs(m[r][col]) > math.Abs(m[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(m[pivot][col]) < pivotEpsilon {
			return [3]float64{}, false
		}
		m[col], m[pivot] = m[pivot], m[col]

		for r := range 3 {
			if r == col {
				continue
			}
			f := m[r][col] / m[col][col]
			for k := col; k < 4; k++ {
				m[r][k] -= f * m[col][k]
			}
		}
	}

	var x [3]float64
	for r := range 3 {
		x[r] = m[r][3] / m[r][r]
		if !isFinite(x[r]) {
			return [3]float64{}, false
		}
	}
	return x, true
}

// solveQEF2 is the 2D analog of solveQEF for slice contouring: it
// minimizes the same error over the slice plane.
func solveQEF2(positions []Vec2, normals []Vec2, lower, upper Vec2) Vec2 {
	mass := Vec2{}
	for _, p := range positions {
		mass = mass.Add(p)
	}
	mass = mass.Mul(1 / float64(len(positions)))

	var a00, a01, a11, b0, b1 float64
	for i, p := range positions {
		n := normals[i]
		d := p.Sub(mass)
		bd := n.Dot(d)
		a00 += n.X * n.X
		a01 += n.X * n.Y
		a11 += n.Y * n.Y
		b0 += n.X * bd
		b1 += n.Y * bd
	}

	det := a00*a11 - a01*a01
	if math.Abs(det) < pivotEpsilon {
		return mass
	}
	v := Vec2{
		X: mass.X + (a11*b0-a01*b1)/det,
		Y: mass.Y + (a00*b1-a01*b0)/det,
	}
	if v.X < lower.X || v.X > upper.X || v.Y < lower.Y || v.Y > upper.Y {
		return mass
	}
	return v
}

// isFinite returns true if x is neither infinite nor NaN.
func isFinite(x float64) bool {
	return !math.IsInf(x, 0) && !math.IsNaN(x)
}
