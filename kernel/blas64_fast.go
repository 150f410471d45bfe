// Copyright ©2026 The sparselin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kernel

import (
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/lapack/lapack64"
)

// fastResult is the outcome of an accelerated (gonum-backed) kernel
// attempt. The bool returned beside it reports whether the result
// stands: false means the scalar kind has no wired fast path or the
// attempt was declined, and the portable reference algorithm runs
// instead.
type fastResult struct {
	nbpivot int
	err     error
}

// potrfFast attempts gonum's lapack64.Potrf on a float64 diagonal block.
// It runs against a scratch copy first: lapack64.Potrf partially
// overwrites a non-positive-definite matrix before reporting failure, and
// a failure here must fall through to potrfReference's static-pivoting
// behavior against the original, untouched data.
func potrfFast[T Numeric](a Dense[T], eps float64) (fastResult, bool) {
	data, ok := any(a.Data).([]float64)
	if !ok {
		return fastResult{}, false
	}
	scratch := append([]float64(nil), data...)
	sym := blas64.Symmetric{N: a.Rows, Stride: a.Stride, Data: scratch, Uplo: blas.Lower}
	if !lapack64.Potrf(sym) {
		return fastResult{}, false
	}
	// A pivot L(k,k)² at or below eps has to be clamped and counted,
	// which only potrfReference does.
	for k := 0; k < a.Rows; k++ {
		if lkk := scratch[k*a.Stride+k]; lkk*lkk <= eps {
			return fastResult{}, false
		}
	}
	copy(data, scratch)
	return fastResult{}, true
}

// getrfFast attempts gonum's lapack64.Getrf (without keeping its pivot
// sequence: spec.md §4.4 factors without row pivoting). Like potrfFast it
// stages into a scratch buffer so a singular pivot falls through to
// getrfReference's clamp-and-count behavior against untouched data.
func getrfFast[T Numeric](a Dense[T], eps float64) (fastResult, bool) {
	data, ok := any(a.Data).([]float64)
	if !ok {
		return fastResult{}, false
	}
	scratch := append([]float64(nil), data...)
	gen := blas64.General{Rows: a.Rows, Cols: a.Cols, Stride: a.Stride, Data: scratch}
	ipiv := make([]int, a.Rows)
	ok2 := lapack64.Getrf(gen, ipiv)
	if !ok2 {
		return fastResult{}, false
	}
	for k, p := range ipiv {
		if p != k {
			// lapack64.Getrf pivoted; spec.md §4.4 factors without row
			// exchange, so this attempt does not correspond to the
			// static-pivoting factorization we must produce. Fall back.
			return fastResult{}, false
		}
	}
	// A pivot with |U(k,k)| ≤ eps has to be clamped and counted, which
	// only getrfReference does.
	for k := 0; k < a.Rows; k++ {
		if absFloat64(scratch[k*a.Stride+k]) <= eps {
			return fastResult{}, false
		}
	}
	copy(data, scratch)
	return fastResult{}, true
}

// gemmFast computes c -= a·bᵀ (transB) or c -= a·b via blas64.Gemm for
// float64 operands; it returns false for any other scalar kind.
func gemmFast[T Numeric](c, a, b Dense[T], transB bool) bool {
	cd, ok := any(c.Data).([]float64)
	if !ok {
		return false
	}
	ad := any(a.Data).([]float64)
	bd := any(b.Data).([]float64)
	tb := blas.NoTrans
	if transB {
		tb = blas.Trans
	}
	blas64.Gemm(blas.NoTrans, tb,
		-1,
		blas64.General{Rows: a.Rows, Cols: a.Cols, Stride: a.Stride, Data: ad},
		blas64.General{Rows: b.Rows, Cols: b.Cols, Stride: b.Stride, Data: bd},
		1,
		blas64.General{Rows: c.Rows, Cols: c.Cols, Stride: c.Stride, Data: cd},
	)
	return true
}

// trsmFast solves x·op(T) = b in place for the trailing panel x, via
// blas64.Trsm, for float64 operands: T is diag's lower triangle (upper
// when upper is set) and op transposes T when trans is set.
func trsmFast[T Numeric](diag, trailing Dense[T], upper, trans, unitDiag bool) bool {
	dd, ok := any(diag.Data).([]float64)
	if !ok {
		return false
	}
	td := any(trailing.Data).([]float64)
	uplo := blas.Lower
	if upper {
		uplo = blas.Upper
	}
	tr := blas.NoTrans
	if trans {
		tr = blas.Trans
	}
	diagFlag := blas.NonUnit
	if unitDiag {
		diagFlag = blas.Unit
	}
	blas64.Trsm(blas.Right, tr, 1,
		blas64.Triangular{N: diag.Rows, Stride: diag.Stride, Data: dd, Uplo: uplo, Diag: diagFlag},
		blas64.General{Rows: trailing.Rows, Cols: trailing.Cols, Stride: trailing.Stride, Data: td},
	)
	return true
}
