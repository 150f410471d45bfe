// Copyright ©2026 The sparselin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kernel

// Dense is a row-major dense matrix view over a flat buffer, the shape
// every block and panel coefficient buffer in package blockmatrix takes.
// Row-major (element (i,j) at Data[i*Stride+j]) is chosen, rather than
// the column-major layout spec.md §4.4's offset formula is written in, so
// that the Real64/Complex64 fast paths hand the buffer to gonum's
// blas64/cblas128 without a transpose; see DESIGN.md.
type Dense[T Numeric] struct {
	Rows, Cols, Stride int
	Data               []T
}

// NewDense allocates a zeroed r×c Dense with Stride == c.
func NewDense[T Numeric](r, c int) Dense[T] {
	return Dense[T]{Rows: r, Cols: c, Stride: c, Data: make([]T, r*c)}
}

// At returns the (i,j) element.
func (d Dense[T]) At(i, j int) T { return d.Data[i*d.Stride+j] }

// Set assigns the (i,j) element.
func (d Dense[T]) Set(i, j int, v T) { d.Data[i*d.Stride+j] = v }

// Row returns row i as a slice of length d.Cols sharing d's storage.
func (d Dense[T]) Row(i int) []T { return d.Data[i*d.Stride : i*d.Stride+d.Cols] }

// Sub returns the r0:r1, c0:c1 submatrix view, sharing storage with d.
func (d Dense[T]) Sub(r0, r1, c0, c1 int) Dense[T] {
	return Dense[T]{
		Rows:   r1 - r0,
		Cols:   c1 - c0,
		Stride: d.Stride,
		Data:   d.Data[r0*d.Stride+c0:],
	}
}
