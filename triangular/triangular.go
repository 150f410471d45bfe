// Copyright ©2026 The sparselin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package triangular implements the block triangular solver (spec.md
// §4.5): forward substitution, the LDLᵀ/LDLᴴ diagonal scale, and
// backward substitution, each a tree-ordered sweep over a factored
// SolverMatrix applied to one or more right-hand sides.
package triangular

import (
	"github.com/ArtNlk/sparselin/blockmatrix"
	"github.com/ArtNlk/sparselin/graphorder"
	"github.com/ArtNlk/sparselin/kernel"
	"github.com/ArtNlk/sparselin/symbolic"
)

// RHS is the right-hand-side / solution buffer, shape (n, nrhs),
// row-major like kernel.Dense so that a block's rows are contiguous.
type RHS[T kernel.Numeric] = kernel.Dense[T]

// NewRHS allocates a zeroed (n, nrhs) buffer.
func NewRHS[T kernel.Numeric](n, nrhs int) RHS[T] {
	return kernel.NewDense[T](n, nrhs)
}

// Forward solves L·y = b in place over x: spec.md §4.5's forward sweep.
// A supernode's off-diagonal blocks reach into its ancestors, so a
// supernode must be solved, and its contributions subtracted into its
// facing panels, before those facing panels are themselves solved —
// exactly tree.LeavesFirst's order.
func Forward[T kernel.Numeric](sm *blockmatrix.SolverMatrix[T], tree *graphorder.Tree, x RHS[T]) error {
	order, err := tree.LeavesFirst()
	if err != nil {
		return err
	}
	unitDiag := sm.Kind != blockmatrix.LLT
	for _, c := range order {
		f, l := sm.Sym.Cblktab[c].Fcolnum, sm.Sym.Cblktab[c].Lcolnum
		diag := sm.Dense(sm.Sym.Cblktab[c].Bloknum)
		solveLowerInPlace(diag, x.Sub(f, l+1, 0, x.Cols), unitDiag)

		for _, b := range sm.Sym.Bloks(c) {
			if b.Fcblknm == c {
				continue
			}
			subtractForward(sm, c, b, x)
		}
	}
	return nil
}

// ScaleDiagonal implements the LDLᵀ/LDLᴴ elementwise divide by D
// (spec.md §4.5's "Diagonal" step); a no-op for LU/LLᵀ.
func ScaleDiagonal[T kernel.Numeric](sm *blockmatrix.SolverMatrix[T], x RHS[T]) {
	if sm.Kind != blockmatrix.LDLT && sm.Kind != blockmatrix.LDLH {
		return
	}
	for c := 0; c < sm.Sym.Cblknbr(); c++ {
		f := sm.Sym.Cblktab[c].Fcolnum
		for i, dv := range sm.Panels[c].D {
			row := f + i
			for col := 0; col < x.Cols; col++ {
				x.Set(row, col, x.At(row, col)/dv)
			}
		}
	}
}

// Backward: for LU it solves U·x = y directly against
// the separately stored upper factor; for LLᵀ/LDLᵀ/LDLᴴ it solves
// Lᵀ·x = y (or Lᴴ·x = y for Hermitian) against the shared L/diag
// storage — spec.md §4.5's backward sweep, and its note that "for LU,
// the backward pass uses the separately stored U panels." A supernode's
// diagonal solve needs its ancestors' contributions subtracted first,
// so the traversal runs root-to-leaves: tree.RootFirst.
func Backward[T kernel.Numeric](sm *blockmatrix.SolverMatrix[T], tree *graphorder.Tree, x RHS[T]) error {
	order, err := tree.RootFirst()
	if err != nil {
		return err
	}
	lu := sm.Kind == blockmatrix.LU
	unitDiag := sm.Kind != blockmatrix.LLT
	hermitian := sm.Kind == blockmatrix.LDLH
	for _, c := range order {
		f, l := sm.Sym.Cblktab[c].Fcolnum, sm.Sym.Cblktab[c].Lcolnum
		for _, b := range sm.Sym.Bloks(c) {
			if b.Fcblknm == c {
				continue
			}
			if lu {
				subtractBackwardU(sm, c, b, x)
			} else {
				subtractBackward(sm, c, b, x, hermitian)
			}
		}
		diag := sm.Dense(sm.Sym.Cblktab[c].Bloknum)
		rhs := x.Sub(f, l+1, 0, x.Cols)
		if lu {
			solveUpperDirectInPlace(diag, rhs)
		} else {
			solveUpperInPlace(diag, rhs, unitDiag, hermitian)
		}
	}
	return nil
}

func blockDense[T kernel.Numeric](sm *blockmatrix.SolverMatrix[T], c int, b symbolic.Blok) kernel.Dense[T] {
	for i, bb := range sm.Sym.Bloks(c) {
		if bb == b {
			start, _ := sm.Sym.BlokIndices(c)
			return sm.Dense(start + i)
		}
	}
	panic("triangular: block not found in panel")
}

// blockDenseU is blockDense's twin over the separately stored U buffer.
func blockDenseU[T kernel.Numeric](sm *blockmatrix.SolverMatrix[T], c int, b symbolic.Blok) kernel.Dense[T] {
	for i, bb := range sm.Sym.Bloks(c) {
		if bb == b {
			start, _ := sm.Sym.BlokIndices(c)
			return sm.DenseU(start + i)
		}
	}
	panic("triangular: block not found in panel")
}

// subtractForward applies y(rows(b)) -= L(b)·y(c).
func subtractForward[T kernel.Numeric](sm *blockmatrix.SolverMatrix[T], c int, b symbolic.Blok, x RHS[T]) {
	lb := blockDense(sm, c, b)
	f, l := sm.Sym.Cblktab[c].Fcolnum, sm.Sym.Cblktab[c].Lcolnum
	yc := x.Sub(f, l+1, 0, x.Cols)
	yrows := x.Sub(b.Frownum, b.Lrownum+1, 0, x.Cols)
	for row := 0; row < lb.Rows; row++ {
		for col := 0; col < x.Cols; col++ {
			var sum T
			for k := 0; k < lb.Cols; k++ {
				sum = sum + lb.At(row, k)*yc.At(k, col)
			}
			yrows.Set(row, col, yrows.At(row, col)-sum)
		}
	}
}

// subtractBackward applies x(c) -= L(b)ᵀ·x(rows(b)) (or L(b)ᴴ for
// hermitian).
func subtractBackward[T kernel.Numeric](sm *blockmatrix.SolverMatrix[T], c int, b symbolic.Blok, x RHS[T], hermitian bool) {
	lb := blockDense(sm, c, b)
	f, l := sm.Sym.Cblktab[c].Fcolnum, sm.Sym.Cblktab[c].Lcolnum
	xc := x.Sub(f, l+1, 0, x.Cols)
	xrows := x.Sub(b.Frownum, b.Lrownum+1, 0, x.Cols)
	for row := 0; row < lb.Cols; row++ {
		for col := 0; col < x.Cols; col++ {
			var sum T
			for k := 0; k < lb.Rows; k++ {
				lkr := lb.At(k, row)
				if hermitian {
					lkr = kernel.Conj(lkr)
				}
				sum = sum + lkr*xrows.At(k, col)
			}
			xc.Set(row, col, xc.At(row, col)-sum)
		}
	}
}

// subtractBackwardU is subtractBackward's LU twin: it applies
// x(c) -= U(b)ᵀ·x(rows(b)), reading the facing block from the
// separately stored U panel (Scatter's transposed twin-storage
// convention for U makes this the same accumulation shape as the L
// case, without the conjugate-transpose step since Scatter already
// applied any conjugation needed at write time).
func subtractBackwardU[T kernel.Numeric](sm *blockmatrix.SolverMatrix[T], c int, b symbolic.Blok, x RHS[T]) {
	ub := blockDenseU(sm, c, b)
	f, l := sm.Sym.Cblktab[c].Fcolnum, sm.Sym.Cblktab[c].Lcolnum
	xc := x.Sub(f, l+1, 0, x.Cols)
	xrows := x.Sub(b.Frownum, b.Lrownum+1, 0, x.Cols)
	for row := 0; row < ub.Cols; row++ {
		for col := 0; col < x.Cols; col++ {
			var sum T
			for k := 0; k < ub.Rows; k++ {
				sum = sum + ub.At(k, row)*xrows.At(k, col)
			}
			xc.Set(row, col, xc.At(row, col)-sum)
		}
	}
}

// solveLowerInPlace solves diag·y = rhs in place, diag lower triangular
// with an explicit diagonal (LLT) or implicit unit diagonal (LU, LDLT,
// LDLH storage convention).
func solveLowerInPlace[T kernel.Numeric](diag, rhs kernel.Dense[T], unitDiag bool) {
	n := diag.Rows
	for col := 0; col < rhs.Cols; col++ {
		for i := 0; i < n; i++ {
			sum := rhs.At(i, col)
			for k := 0; k < i; k++ {
				sum = sum - diag.At(i, k)*rhs.At(k, col)
			}
			if !unitDiag {
				sum = sum / diag.At(i, i)
			}
			rhs.Set(i, col, sum)
		}
	}
}

// solveUpperInPlace solves diagᵀ·x = rhs (or diagᴴ·x = rhs) in place,
// where diag's lower triangle (as stored) holds L.
func solveUpperInPlace[T kernel.Numeric](diag, rhs kernel.Dense[T], unitDiag, hermitian bool) {
	n := diag.Rows
	for col := 0; col < rhs.Cols; col++ {
		for i := n - 1; i >= 0; i-- {
			sum := rhs.At(i, col)
			for k := i + 1; k < n; k++ {
				lki := diag.At(k, i)
				if hermitian {
					lki = kernel.Conj(lki)
				}
				sum = sum - lki*rhs.At(k, col)
			}
			if !unitDiag {
				sum = sum / diag.At(i, i)
			}
			rhs.Set(i, col, sum)
		}
	}
}

// solveUpperDirectInPlace solves diag·x = rhs in place where diag's
// upper triangle (on and above the diagonal, as Getrf leaves it) holds
// the actual U factor directly — unlike solveUpperInPlace, no
// transpose and no unit-diagonal case apply: U's diagonal is the
// genuine pivot.
func solveUpperDirectInPlace[T kernel.Numeric](diag, rhs kernel.Dense[T]) {
	n := diag.Rows
	for col := 0; col < rhs.Cols; col++ {
		for i := n - 1; i >= 0; i-- {
			sum := rhs.At(i, col)
			for k := i + 1; k < n; k++ {
				sum = sum - diag.At(i, k)*rhs.At(k, col)
			}
			sum = sum / diag.At(i, i)
			rhs.Set(i, col, sum)
		}
	}
}
