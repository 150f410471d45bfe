// Copyright ©2026 The sparselin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package refine

import (
	"math"

	"github.com/ArtNlk/sparselin/kernel"
)

// GMRES runs right-preconditioned GMRES(m) (spec.md §4.6): modified
// Gram-Schmidt Arnoldi on a Krylov basis of dimension up to m, Givens
// rotations maintaining the Hessenberg factorization incrementally, and
// an outer restart loop until ‖r‖/‖b‖ ≤ eps or itermax total inner
// iterations are spent. x is updated in place.
func GMRES[T kernel.Numeric](ops Ops[T], b, x []T, eps float64, itermax, m int) Result {
	n := len(b)

	bnorm := ops.Norm2(b)
	if bnorm == 0 {
		bnorm = 1
	}

	V := make([][]T, m+1) // Krylov basis
	Z := make([][]T, m)   // Z[j] = M⁻¹·V[j], accumulated directly into the solution correction
	for i := range V {
		V[i] = make([]T, n)
	}
	for i := range Z {
		Z[i] = make([]T, n)
	}

	H := make([][]T, m+1) // upper Hessenberg, H[i][j]
	for i := range H {
		H[i] = make([]T, m)
	}
	cs := make([]T, m) // Givens cosines
	sn := make([]T, m) // Givens sines
	g := make([]T, m+1)

	ax := make([]T, n)
	w := make([]T, n)

	relres := math.Inf(1)
	totalIter := 0

	for totalIter < itermax {
		ops.ApplyA(ax, x)
		r := sub(b, ax)
		beta := ops.Norm2(r)
		relres = beta / bnorm
		if relres <= eps {
			break
		}

		ops.Scal(kernel.FromFloat64[T](1/beta), r)
		ops.Copy(V[0], r)
		for i := range g {
			g[i] = kernel.FromFloat64[T](0)
		}
		g[0] = kernel.FromFloat64[T](beta)

		k := 0
		for ; k < m && totalIter < itermax; k++ {
			totalIter++
			ops.ApplyMInv(Z[k], V[k])
			ops.ApplyA(w, Z[k])

			// Modified Gram-Schmidt against V[0..k].
			for i := 0; i <= k; i++ {
				H[i][k] = ops.Dot(w, V[i])
				ops.Axpy(-H[i][k], V[i], w)
			}
			hNext := ops.Norm2(w)
			H[k+1][k] = kernel.FromFloat64[T](hNext)

			if hNext > 1e-14 {
				ops.Scal(kernel.FromFloat64[T](1/hNext), w)
				ops.Copy(V[k+1], w)
			}

			// Apply prior Givens rotations to column k.
			for i := 0; i < k; i++ {
				tmp := cs[i]*H[i][k] + sn[i]*H[i+1][k]
				H[i+1][k] = -kernel.Conj(sn[i])*H[i][k] + kernel.Conj(cs[i])*H[i+1][k]
				H[i][k] = tmp
			}

			// New rotation zeroing H[k+1][k].
			c, s := givens(H[k][k], H[k+1][k])
			cs[k], sn[k] = c, s
			H[k][k] = c*H[k][k] + s*H[k+1][k]
			H[k+1][k] = kernel.FromFloat64[T](0)

			g[k+1] = -kernel.Conj(sn[k]) * g[k]
			g[k] = cs[k] * g[k]

			if kernel.Abs(g[k+1])/bnorm <= eps {
				k++
				break
			}
		}

		// Back-substitute H(0:k,0:k)·y = g(0:k).
		y := make([]T, k)
		for i := k - 1; i >= 0; i-- {
			sum := g[i]
			for j := i + 1; j < k; j++ {
				sum = sum - H[i][j]*y[j]
			}
			y[i] = sum / H[i][i]
		}

		// x ← x + Σ y_i·Z[i]
		for i := 0; i < k; i++ {
			ops.Axpy(y[i], Z[i], x)
		}
	}

	ops.ApplyA(ax, x)
	r := sub(b, ax)
	relres = ops.Norm2(r) / bnorm
	return Result{Iterations: totalIter, ResidualNorm: relres}
}

// givens computes a Givens rotation (c,s) such that
// [c s; -conj(s) conj(c)] · [a;b] = [r;0].
func givens[T kernel.Numeric](a, b T) (c, s T) {
	if kernel.Abs(b) == 0 {
		return kernel.FromFloat64[T](1), kernel.FromFloat64[T](0)
	}
	denom := math.Hypot(kernel.Abs(a), kernel.Abs(b))
	return kernel.Conj(a) / kernel.FromFloat64[T](denom), kernel.Conj(b) / kernel.FromFloat64[T](denom)
}
