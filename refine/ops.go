// Copyright ©2026 The sparselin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package refine implements the iterative refinement engine: GMRES(m),
// conjugate gradient, BiCGStab, and simple refinement, each built over
// the small abstract operation set of spec.md §4.6 rather than inlined
// BLAS calls, so a caller can swap apply_A/apply_M_inv without touching
// the Krylov driver itself.
package refine

import (
	"math"

	"github.com/ArtNlk/sparselin/kernel"
	"gonum.org/v1/gonum/floats"
)

// Ops is the capability set spec.md §4.6 requires of a refinement
// driver: dot/axpy/scal/copy/norm2 reductions over a vector of length n,
// plus the two solver callbacks (ApplyA: y ← A·x, ApplyMInv: y ←
// M⁻¹·x, i.e. one triangular-solve sweep). The vector reductions have
// working generic defaults; only ApplyA and ApplyMInv are caller-supplied.
type Ops[T kernel.Numeric] struct {
	ApplyA    func(dst, src []T)
	ApplyMInv func(dst, src []T)
}

// Dot computes Σ x_i · conj(y_i).
func (Ops[T]) Dot(x, y []T) T {
	var sum T
	for i, xi := range x {
		sum = sum + xi*kernel.Conj(y[i])
	}
	return sum
}

// Axpy computes y ← alpha·x + y.
func (Ops[T]) Axpy(alpha T, x, y []T) {
	for i, xi := range x {
		y[i] = y[i] + alpha*xi
	}
}

// Scal computes x ← alpha·x.
func (Ops[T]) Scal(alpha T, x []T) {
	for i := range x {
		x[i] = alpha * x[i]
	}
}

// Copy copies src into dst, overwriting it.
func (Ops[T]) Copy(dst, src []T) { copy(dst, src) }

// Axpbypcz computes z ← alpha·x + beta·y + z, the fused update BiCGStab
// uses to combine two correction directions in one pass.
func (Ops[T]) Axpbypcz(alpha T, x []T, beta T, y []T, z []T) {
	for i := range z {
		z[i] = z[i] + alpha*x[i] + beta*y[i]
	}
}

// Norm2 computes the Euclidean norm. At Real64 it delegates to
// gonum/floats.Norm; other scalar kinds fall back to a generic
// magnitude-squared reduction via kernel.Abs (see DESIGN.md).
func (Ops[T]) Norm2(x []T) float64 {
	if xs, ok := any(x).([]float64); ok {
		return floats.Norm(xs, 2)
	}
	var sum float64
	for _, v := range x {
		a := kernel.Abs(v)
		sum += a * a
	}
	return math.Sqrt(sum)
}

// sub computes dst = a - b, element-wise, into a freshly allocated slice.
func sub[T kernel.Numeric](a, b []T) []T {
	out := make([]T, len(a))
	for i := range a {
		out[i] = a[i] - b[i]
	}
	return out
}

// Result reports the outcome of a refinement driver: spec.md §4.6's
// "iteration count, final ‖r‖/‖b‖".
type Result struct {
	Iterations   int
	ResidualNorm float64 // relative: ‖r‖ / ‖b‖
}
