// Copyright ©2026 The sparselin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package refine

import (
	"math"
	"testing"
)

// spdOps builds Ops over A = [[4,1],[1,3]] with an identity
// preconditioner, spec.md §8 scenario 1's matrix (exact solution [1,1]
// for b = [5,4]).
func spdOps() Ops[float64] {
	return Ops[float64]{
		ApplyA: func(dst, src []float64) {
			dst[0] = 4*src[0] + 1*src[1]
			dst[1] = 1*src[0] + 3*src[1]
		},
		ApplyMInv: func(dst, src []float64) {
			copy(dst, src)
		},
	}
}

func checkSolution(t *testing.T, name string, x []float64, res Result) {
	t.Helper()
	if math.Abs(x[0]-1) > 1e-6 || math.Abs(x[1]-1) > 1e-6 {
		t.Errorf("%s: x = %v, want [1 1] (residual %v after %d iters)", name, x, res.ResidualNorm, res.Iterations)
	}
}

func TestSimpleConverges(t *testing.T) {
	ops := spdOps()
	// x ← x + M⁻¹·(b − A·x) diverges for this A with M = I (the
	// eigenvalues of I − A are about −3.6 and −1.4), so this test uses the
	// Jacobi preconditioner M = diag(4, 3), for which I − M⁻¹·A has
	// spectral radius √(1/12) ≈ 0.29.
	ops.ApplyMInv = func(dst, src []float64) {
		dst[0] = src[0] / 4
		dst[1] = src[1] / 3
	}
	b := []float64{5, 4}
	x := []float64{0, 0}
	res := Simple(ops, b, x, 1e-10, 200)
	checkSolution(t, "Simple", x, res)
}

func TestCGConverges(t *testing.T) {
	ops := spdOps()
	b := []float64{5, 4}
	x := []float64{0, 0}
	res := CG(ops, b, x, 1e-10, 50)
	checkSolution(t, "CG", x, res)
}

func TestBiCGStabConverges(t *testing.T) {
	ops := spdOps()
	b := []float64{5, 4}
	x := []float64{0, 0}
	res := BiCGStab(ops, b, x, 1e-10, 50)
	checkSolution(t, "BiCGStab", x, res)
}

func TestGMRESConverges(t *testing.T) {
	ops := spdOps()
	b := []float64{5, 4}
	x := []float64{0, 0}
	res := GMRES(ops, b, x, 1e-10, 50, 5)
	checkSolution(t, "GMRES", x, res)
}

func TestSimpleAlreadyConverged(t *testing.T) {
	ops := spdOps()
	b := []float64{5, 4}
	x := []float64{1, 1}
	res := Simple(ops, b, x, 1e-10, 200)
	if res.Iterations != 0 {
		t.Errorf("Iterations = %d, want 0 for an already-converged start", res.Iterations)
	}
}
