// Copyright ©2026 The sparselin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kernel

import (
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/cblas128"
)

// gemmFastC128 computes c -= a·bᵀ or c -= a·bᴴ via cblas128.Gemm for
// complex128 operands. gonum wraps no complex LAPACK (lapack/lapack64 is
// real64 only), so unlike the float64 path there is no corresponding
// potrfFastC128/getrfFastC128: the diagonal-block factorizations always
// run the portable reference algorithm at Complex64 (complex128
// component) width. Only the O(n³) GEMM/TRSM updates are wired here.
func gemmFastC128[T Numeric](c, a, b Dense[T], transB, conjB bool) bool {
	cd, ok := any(c.Data).([]complex128)
	if !ok {
		return false
	}
	ad := any(a.Data).([]complex128)
	bd := any(b.Data).([]complex128)
	tb := blas.NoTrans
	if conjB {
		tb = blas.ConjTrans
	} else if transB {
		tb = blas.Trans
	}
	cblas128.Gemm(blas.NoTrans, tb,
		-1,
		cblas128.General{Rows: a.Rows, Cols: a.Cols, Stride: a.Stride, Data: ad},
		cblas128.General{Rows: b.Rows, Cols: b.Cols, Stride: b.Stride, Data: bd},
		1,
		cblas128.General{Rows: c.Rows, Cols: c.Cols, Stride: c.Stride, Data: cd},
	)
	return true
}

// trsmFastC128 solves x·op(A) = b in place via cblas128.Trsm for
// complex128 operands.
func trsmFastC128[T Numeric](diag, trailing Dense[T], upper, trans, conj, unitDiag bool) bool {
	dd, ok := any(diag.Data).([]complex128)
	if !ok {
		return false
	}
	td := any(trailing.Data).([]complex128)
	uplo := blas.Lower
	if upper {
		uplo = blas.Upper
	}
	tr := blas.NoTrans
	if conj {
		tr = blas.ConjTrans
	} else if trans {
		tr = blas.Trans
	}
	diagFlag := blas.NonUnit
	if unitDiag {
		diagFlag = blas.Unit
	}
	cblas128.Trsm(blas.Right, tr, 1,
		cblas128.Triangular{N: diag.Rows, Stride: diag.Stride, Data: dd, Uplo: uplo, Diag: diagFlag},
		cblas128.General{Rows: trailing.Rows, Cols: trailing.Cols, Stride: trailing.Stride, Data: td},
	)
	return true
}
