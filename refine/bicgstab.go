// Copyright ©2026 The sparselin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package refine

import "github.com/ArtNlk/sparselin/kernel"

// BiCGStab runs preconditioned BiCGStab (spec.md §4.6): general, not
// limited to symmetric systems. x is updated in place.
func BiCGStab[T kernel.Numeric](ops Ops[T], b, x []T, eps float64, itermax int) Result {
	n := len(b)
	one := kernel.FromFloat64[T](1)

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

	rhat := make([]T, n)
	ops.Copy(rhat, r)

	rho := one
	alpha := one
	omega := one

	v := make([]T, n)
	p := make([]T, n)
	y := make([]T, n)
	s := make([]T, n)
	z := make([]T, n)
	tt := make([]T, n)

	iter := 0
	for ; iter < itermax; iter++ {
		rhoNew := ops.Dot(rhat, r)
		if rho == 0 || omega == 0 {
			break // breakdown
		}
		beta := (rhoNew / rho) * (alpha / omega)

		// p ← r + beta·(p − omega·v)
		ops.Axpy(-omega, v, p)
		ops.Scal(beta, p)
		ops.Axpy(one, r, p)

		ops.ApplyMInv(y, p)
		ops.ApplyA(v, y)

		alpha = rhoNew / ops.Dot(rhat, v)

		ops.Copy(s, r)
		ops.Axpy(-alpha, v, s)

		if ops.Norm2(s)/bnorm <= eps {
			ops.Axpy(alpha, y, x)
			relres = ops.Norm2(s) / bnorm
			iter++
			break
		}

		ops.ApplyMInv(z, s)
		ops.ApplyA(tt, z)

		omega = ops.Dot(tt, s) / ops.Dot(tt, tt)

		ops.Axpbypcz(alpha, y, omega, z, x)

		ops.Copy(r, s)
		ops.Axpy(-omega, tt, r)

		relres = ops.Norm2(r) / bnorm
		if relres <= eps {
			iter++
			break
		}
		rho = rhoNew
	}
	return Result{Iterations: iter, ResidualNorm: relres}
}
