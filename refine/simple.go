// Copyright ©2026 The sparselin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package refine

import "github.com/ArtNlk/sparselin/kernel"

// Simple runs spec.md §4.6's simple iterative refinement:
// x ← x + M⁻¹·(b − A·x), repeated until the relative residual drops
// below eps or itermax is reached. x is updated in place.
func Simple[T kernel.Numeric](ops Ops[T], b, x []T, eps float64, itermax int) Result {
	n := len(b)
	bnorm := ops.Norm2(b)
	if bnorm == 0 {
		bnorm = 1
	}

	ax := make([]T, n)
	r := make([]T, n)
	d := make([]T, n)

	iter := 0
	relres := 0.0
	for ; iter < itermax; iter++ {
		ops.ApplyA(ax, x)
		r = sub(b, ax)
		relres = ops.Norm2(r) / bnorm
		if relres <= eps {
			break
		}
		ops.ApplyMInv(d, r)
		ops.Axpy(kernel.FromFloat64[T](1), d, x)
	}
	return Result{Iterations: iter, ResidualNorm: relres}
}
