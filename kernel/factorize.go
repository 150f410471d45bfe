// Copyright ©2026 The sparselin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kernel

import "fmt"

// ErrNonPositiveDefinite is returned by Potrf when static pivoting is
// disabled (eps == 0) and a non-positive pivot is encountered.
type ErrNonPositiveDefinite struct{ Index int }

func (e *ErrNonPositiveDefinite) Error() string {
	return fmt.Sprintf("kernel: non-positive pivot at diagonal index %d", e.Index)
}

// Potrf factors the n×n diagonal block a in place as L·Lᴴ (Hermitian) or
// L·Lᵀ (symmetric real), lower triangular, overwriting a's lower triangle
// with L; the strict upper triangle is left untouched. A pivot whose real
// part is ≤ eps is replaced by eps and counted in nbpivot, implementing
// spec.md §4.4's static pivoting rather than failing outright, unless
// eps == 0.
//
// At Real64 width this dispatches to gonum's lapack64.Potrf when no
// clamp is required (the common case); the unblocked reference loop
// below is always correct and is what runs whenever a clamp occurs or at
// Real32, Complex32 or Complex64 width.
func Potrf[T Numeric](a Dense[T], eps float64) (nbpivot int, err error) {
	if fast, ok := potrfFast(a, eps); ok {
		return fast.nbpivot, fast.err
	}
	return potrfReference(a, eps)
}

func potrfReference[T Numeric](a Dense[T], eps float64) (nbpivot int, err error) {
	n := a.Rows
	for k := 0; k < n; k++ {
		akk := real128(a.At(k, k))
		if akk <= eps {
			if eps <= 0 {
				return nbpivot, &ErrNonPositiveDefinite{Index: k}
			}
			a.Set(k, k, FromFloat64[T](eps))
			nbpivot++
			akk = eps
		}
		lkk := FromFloat64[T](sqrt(akk))
		a.Set(k, k, lkk)
		for i := k + 1; i < n; i++ {
			a.Set(i, k, a.At(i, k) / lkk)
		}
		for j := k + 1; j < n; j++ {
			ljk := Conj(a.At(j, k))
			for i := j; i < n; i++ {
				a.Set(i, j, a.At(i, j) - a.At(i, k)*ljk)
			}
		}
	}
	return nbpivot, nil
}

// Getrf factors the n×n diagonal block a in place as L·U with unit-diagonal
// L stored strictly below the diagonal and U stored on and above it,
// without row pivoting (static pivoting only, per spec.md §4.4): a pivot
// with |U(k,k)| ≤ eps is clamped to ε with its sign preserved and counted.
func Getrf[T Numeric](a Dense[T], eps float64) (nbpivot int, err error) {
	if fast, ok := getrfFast(a, eps); ok {
		return fast.nbpivot, fast.err
	}
	return getrfReference(a, eps)
}

func getrfReference[T Numeric](a Dense[T], eps float64) (nbpivot int, err error) {
	n := a.Rows
	for k := 0; k < n; k++ {
		ukk := a.At(k, k)
		if Abs(ukk) <= eps {
			if eps <= 0 {
				return nbpivot, &ErrNonPositiveDefinite{Index: k}
			}
			sign := Sign(ukk)
			ukk = sign * FromFloat64[T](eps)
			a.Set(k, k, ukk)
			nbpivot++
		}
		for i := k + 1; i < n; i++ {
			lik := a.At(i, k) / ukk
			a.Set(i, k, lik)
			for j := k + 1; j < n; j++ {
				a.Set(i, j, a.At(i, j) - lik*a.At(k, j))
			}
		}
	}
	return nbpivot, nil
}

// Sytrf factors the n×n diagonal block a in place, spec.md §4.4's
// "1×1-pivot-only variant" of the symmetric/Hermitian indefinite
// factorization: L is unit lower triangular, stored strictly below the
// diagonal of a, and D (returned separately, length n) is diagonal, so
// that a = L·D·Lᵀ (symmetric) or L·D·Lᴴ (hermitian). No 2×2 pivot blocks
// are ever formed; a pivot with |d_k| ≤ eps is clamped to ε with its sign
// preserved and counted.
func Sytrf[T Numeric](a Dense[T], eps float64, hermitian bool) (d []T, nbpivot int, err error) {
	n := a.Rows
	d = make([]T, n)
	// v holds L(k+1:n,k) * d_k, the scratch column used to update the
	// trailing submatrix without re-reading already-scaled entries.
	v := make([]T, n)
	for k := 0; k < n; k++ {
		dk := a.At(k, k)
		if hermitian {
			dk = FromFloat64[T](real128(dk))
		}
		if Abs(dk) <= eps {
			if eps <= 0 {
				return d, nbpivot, &ErrNonPositiveDefinite{Index: k}
			}
			sign := Sign(dk)
			dk = sign * FromFloat64[T](eps)
			nbpivot++
		}
		d[k] = dk
		a.Set(k, k, dk)
		for i := k + 1; i < n; i++ {
			lik := a.At(i, k) / dk
			v[i] = lik * dk
			a.Set(i, k, lik)
		}
		for j := k + 1; j < n; j++ {
			var ljkd T
			if hermitian {
				ljkd = Conj(v[j])
			} else {
				ljkd = v[j]
			}
			for i := j; i < n; i++ {
				a.Set(i, j, a.At(i, j) - a.At(i, k)*ljkd)
			}
		}
	}
	return d, nbpivot, nil
}
