package sparse

// BFGS applies a damped (Powell) BFGS rank-two update directly to the dense
// Hessian approximation B stored under sp:
//
//	s := step                 (primal search direction actually taken)
//	y := yNew - yOld          (change in the Lagrangian gradient)
//	Bs := B*s
//	sBs := s.Bs, sy := s.y
//	theta = 1                         if sy >= 0.2*sBs
//	theta = 0.8*sBs/(sBs-sy)          otherwise
//	q = theta*y + (1-theta)*Bs
//	B += (q q^T)/(s.q) - (Bs Bs^T)/sBs
//
// This is the damped-BFGS formula used to keep B positive definite even
// when the raw secant pair (s,y) fails the curvature condition s.y > 0,
// grounded on the doc comment of the teacher's slsqp.sqpSolver.updateBFGS
// (curioloop-optimizer/slsqp/solver.go), restated here for a dense matrix
// stored under an arbitrary Pattern rather than the teacher's packed LDL^T
// factor representation. B is left unmodified when s.Bs or s.q is zero
// (in particular when s is all-zero); an all-zero y still applies the
// damped update with theta = 0.8. work must have length >= 2*sp.Rows.
func BFGS(sp Pattern, B []float64, s, yNew, yOld, work []float64) {
	n := sp.Rows
	if len(work) < 2*n {
		panic("bfgs: work buffer too small")
	}
	Bs := work[:n]
	q := work[n : 2*n]

	Zero(Bs)
	SparseMV(B, sp, s, Bs, false)

	sBs := Dot(s, Bs)
	sy := 0.0
	for i := 0; i < n; i++ {
		sy += s[i] * (yNew[i] - yOld[i])
	}

	if sBs == 0 {
		return
	}

	theta := 1.0
	if sy < 0.2*sBs {
		theta = 0.8 * sBs / (sBs - sy)
	}

	for i := 0; i < n; i++ {
		q[i] = theta*(yNew[i]-yOld[i]) + (1-theta)*Bs[i]
	}

	sq := Dot(s, q)
	if sq == 0 {
		return
	}

	for c := 0; c < n; c++ {
		for r := 0; r < n; r++ {
			idx := sp.At(r, c)
			B[idx] += q[r]*q[c]/sq - Bs[r]*Bs[c]/sBs
		}
	}
}
