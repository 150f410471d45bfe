// Copyright ©2026 The sparselin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package kernel implements the numeric building blocks shared by the
// factorization (package factor) and triangular solve (package
// triangular) engines: the diagonal-block factorizations (potrf-like,
// getrf-like, a simplified 1×1-pivot sytrf/hetrf), the panel triangular
// solve, and the GEMM/GEMDM Schur-complement update.
//
// Rather than the four near-duplicate s/d/c/z translation units a
// Fortran-lineage solver generates per precision, every kernel here is a
// single generic algorithm parameterized by the Numeric type parameter
// (spec §9's "Scalar trait" strategy). At Real64 and at Complex64 (i.e.
// complex128-component) width, the generic algorithm dispatches to
// gonum's blas64/cblas128/lapack64 for the O(n³) operations; at Real32
// and Complex32 width, where gonum exposes no BLAS wrapper, the same
// algorithm runs as portable Go arithmetic (see DESIGN.md).
package kernel

import (
	"math/cmplx"

	"golang.org/x/exp/constraints"
)

// Real is the constraint for the two real scalar kinds.
type Real interface {
	constraints.Float
}

// Complex is the constraint for the two complex scalar kinds.
type Complex interface {
	constraints.Complex
}

// Numeric is the constraint satisfied by every scalar kind the solver
// supports: Real32, Real64, Complex32, Complex64 of spec.md §3, mapped
// onto Go's float32, float64, complex64, complex128 respectively.
type Numeric interface {
	Real | Complex
}

// FloatKind names the scalar kind a solver instance is parameterized
// over, per spec.md §3.
type FloatKind int

const (
	Real32 FloatKind = iota
	Real64
	Complex32
	Complex64
)

func (k FloatKind) String() string {
	switch k {
	case Real32:
		return "real32"
	case Real64:
		return "real64"
	case Complex32:
		return "complex32"
	case Complex64:
		return "complex64"
	default:
		return "unknown"
	}
}

// IsComplex reports whether k is a complex scalar kind.
func (k FloatKind) IsComplex() bool { return k == Complex32 || k == Complex64 }

// KindOf returns the FloatKind matching the Go type T.
func KindOf[T Numeric]() FloatKind {
	var z T
	switch any(z).(type) {
	case float32:
		return Real32
	case float64:
		return Real64
	case complex64:
		return Complex32
	case complex128:
		return Complex64
	default:
		panic("kernel: unsupported scalar type")
	}
}

// Conj returns the complex conjugate of x; for a real T it returns x
// unchanged, so call sites do not need a separate real/complex path.
func Conj[T Numeric](x T) T {
	switch v := any(x).(type) {
	case complex64:
		return any(complex64(cmplx.Conj(complex128(v)))).(T)
	case complex128:
		return any(cmplx.Conj(v)).(T)
	default:
		return x
	}
}

// Abs returns the magnitude of x as a float64, for pivot-threshold
// comparisons.
func Abs[T Numeric](x T) float64 {
	switch v := any(x).(type) {
	case float32:
		return absFloat64(float64(v))
	case float64:
		return absFloat64(v)
	case complex64:
		return cmplx.Abs(complex128(v))
	case complex128:
		return cmplx.Abs(v)
	default:
		panic("kernel: unsupported scalar type")
	}
}

func absFloat64(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// Sign returns a scalar of magnitude one with the same sign/phase as x,
// or one if x is zero. Used when clamping a small pivot to ε while
// preserving its sign (real) or phase (complex).
func Sign[T Numeric](x T) T {
	switch v := any(x).(type) {
	case float32:
		if v < 0 {
			return any(float32(-1)).(T)
		}
		return any(float32(1)).(T)
	case float64:
		if v < 0 {
			return any(-1.0).(T)
		}
		return any(1.0).(T)
	case complex64:
		a := cmplx.Abs(complex128(v))
		if a == 0 {
			return any(complex64(complex(1, 0))).(T)
		}
		return any(complex64(complex128(v) / complex(a, 0))).(T)
	case complex128:
		a := cmplx.Abs(v)
		if a == 0 {
			return any(complex(1, 0)).(T)
		}
		return any(v / complex(a, 0)).(T)
	default:
		panic("kernel: unsupported scalar type")
	}
}

// FromFloat64 constructs a T from a real value.
func FromFloat64[T Numeric](x float64) T {
	var z T
	switch any(z).(type) {
	case float32:
		return any(float32(x)).(T)
	case float64:
		return any(x).(T)
	case complex64:
		return any(complex64(complex(x, 0))).(T)
	case complex128:
		return any(complex(x, 0)).(T)
	default:
		panic("kernel: unsupported scalar type")
	}
}
