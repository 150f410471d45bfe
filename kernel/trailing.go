// Copyright ©2026 The sparselin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kernel

// TrsmTrailingLowerT solves trailing·Lᵀ = trailing (real/symmetric) or
// trailing·Lᴴ = trailing (Hermitian) in place, where diagL's strict lower
// triangle holds L (unitDiag true when L's diagonal is the implicit 1 of
// a Getrf/Sytrf factorization; false for a Potrf factorization, whose
// stored diagonal is the real Cholesky pivot). This is spec.md §4.4 step
// 3: "apply the triangular solve with the diagonal block" for every
// off-diagonal block of the panel, done here for all of them at once as
// a single (trailing.Rows × n) solve.
func TrsmTrailingLowerT[T Numeric](diagL, trailing Dense[T], hermitian, unitDiag bool) {
	if trailing.Rows == 0 {
		return
	}
	if trsmFast(diagL, trailing, false, true, unitDiag) {
		return
	}
	if trsmFastC128(diagL, trailing, false, true, hermitian, unitDiag) {
		return
	}
	trsmTrailingLowerTReference(diagL, trailing, hermitian, unitDiag)
}

func trsmTrailingLowerTReference[T Numeric](diagL, trailing Dense[T], hermitian, unitDiag bool) {
	n := diagL.Rows
	for r := 0; r < trailing.Rows; r++ {
		for j := 0; j < n; j++ {
			sum := trailing.At(r, j)
			for k := 0; k < j; k++ {
				ljk := diagL.At(j, k)
				if hermitian {
					ljk = Conj(ljk)
				}
				sum = sum - trailing.At(r, k)*ljk
			}
			if !unitDiag {
				sum = sum / diagL.At(j, j)
			}
			trailing.Set(r, j, sum)
		}
	}
}

// ScaleColumnsByD returns a new Dense holding trailing scaled column-wise
// by d (trailing.Cols == len(d)): spec.md §4.4 step 4's "DL" intermediate
// used by the LDLᵀ/LDLᴴ outer-product (GEMDM) update.
func ScaleColumnsByD[T Numeric](trailing Dense[T], d []T) Dense[T] {
	out := NewDense[T](trailing.Rows, trailing.Cols)
	for r := 0; r < trailing.Rows; r++ {
		for j := 0; j < trailing.Cols; j++ {
			out.Set(r, j, trailing.At(r, j)*d[j])
		}
	}
	return out
}

// GemmUpdate computes dst -= a·bᵀ (hermitian=false) or dst -= a·bᴴ
// (hermitian=true), the Schur-complement outer-product update of spec.md
// §4.4 step 5. For LU/LLᵀ, a and b are blocks of the same factored
// trailing panel (a plain GEMM); for LDLᵀ/LDLᴴ, the caller passes a as a
// slice of the ScaleColumnsByD intermediate (the GEMDM variant — the
// same primitive applied to a pre-scaled operand, not a structurally
// different kernel).
func GemmUpdate[T Numeric](dst, a, b Dense[T], hermitian bool) {
	if dst.Rows == 0 || dst.Cols == 0 {
		return
	}
	if gemmFast(dst, a, b, true) {
		return
	}
	if gemmFastC128(dst, a, b, true, hermitian) {
		return
	}
	gemmUpdateReference(dst, a, b, hermitian)
}

func gemmUpdateReference[T Numeric](dst, a, b Dense[T], hermitian bool) {
	k := a.Cols
	for i := 0; i < dst.Rows; i++ {
		for j := 0; j < dst.Cols; j++ {
			var sum T
			for p := 0; p < k; p++ {
				bv := b.At(j, p)
				if hermitian {
					bv = Conj(bv)
				}
				sum = sum + a.At(i, p)*bv
			}
			dst.Set(i, j, dst.At(i, j)-sum)
		}
	}
}
