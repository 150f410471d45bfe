// Copyright ©2026 The sparselin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package refine

import "github.com/ArtNlk/sparselin/kernel"

// CG runs preconditioned conjugate gradient (spec.md §4.6): symmetric
// positive definite systems only. x is updated in place.
func CG[T kernel.Numeric](ops Ops[T], b, x []T, eps float64, itermax int) Result {
	n := len(b)
	bnorm := ops.Norm2(b)
	if bnorm == 0 {
		bnorm = 1
	}

	ax := make([]T, n)
	ops.ApplyA(ax, x)
	r := sub(b, ax)

	relres := ops.Norm2(r) / bnorm
	if relres <= eps {
		return Result{Iterations: 0, ResidualNorm: relres}
	}

	z := make([]T, n)
	ops.ApplyMInv(z, r)
	p := make([]T, n)
	ops.Copy(p, z)
	rz := ops.Dot(r, z)

	q := make([]T, n)
	iter := 0
	for ; iter < itermax; iter++ {
		ops.ApplyA(q, p)
		pq := ops.Dot(p, q)
		alpha := rz / pq

		ops.Axpy(alpha, p, x)
		ops.Axpy(-alpha, q, r)

		relres = ops.Norm2(r) / bnorm
		if relres <= eps {
			iter++
			break
		}

		ops.ApplyMInv(z, r)
		rzNew := ops.Dot(r, z)
		beta := rzNew / rz

		// p ← z + beta·p
		ops.Scal(beta, p)
		ops.Axpy(kernel.FromFloat64[T](1), z, p)
		rz = rzNew
	}
	return Result{Iterations: iter, ResidualNorm: relres}
}
