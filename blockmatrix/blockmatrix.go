// Copyright ©2026 The sparselin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package blockmatrix allocates the SolverMatrix (spec.md §4.3): the
// numeric overlay on a frozen Symbol — per-block coefficient offsets
// and strides, the factor task table with its ready-counters, and
// theoretical flop accounting.
package blockmatrix

import (
	"github.com/ArtNlk/sparselin/kernel"
	"github.com/ArtNlk/sparselin/symbolic"
)

// FactorKind mirrors params.FactorKind without importing the root
// package (which itself will import blockmatrix), so flop accounting
// can stay local to this package.
type FactorKind int

const (
	LU FactorKind = iota
	LLT
	LDLT
	LDLH
)

// Task is one factor-panel task: cblk index plus the ready-counter the
// scheduler watches.
type Task struct {
	Cblk    int
	Ctrbcnt int32 // atomically decremented by GEMM-update tasks
}

// Panel is the per-column-block numeric state.
type Panel[T kernel.Numeric] struct {
	Stride int
	// Coef holds the packed (Stride × width) buffer, row-major (row r,
	// column c at Coef[r*width+c]); allocated lazily by Allocate to let a
	// future out-of-core mode reuse buffers (spec.md §4.3).
	Coef []T
	// U holds the separate upper-factor storage for LU; nil otherwise.
	U []T
	// D holds the diagonal of the LDLᵀ/LDLᴴ factorization (length =
	// panel width); nil for LU/LLᵀ.
	D []T
	// DL holds the D-scaled trailing panel (ScaleColumnsByD's output),
	// the "DL" intermediate spec.md §4.4 step 4 describes, consumed by
	// the GEMDM outer-product update; nil until the panel's factor task
	// reaches that step.
	DL kernel.Dense[T]
}

// SolverMatrix is the numeric overlay on a symbolic.Symbol.
type SolverMatrix[T kernel.Numeric] struct {
	Sym    *symbolic.Symbol
	Kind   FactorKind
	Coefind []int // per-block row offset within its panel's Coef buffer
	Panels []Panel[T]
	Tasks  []Task

	TheoreticalFlops float64
	RealFlops        float64
}

// Build computes strides, coefind offsets, the task table with its
// ctrbcnt initial values, and theoretical flop counts, but does not
// allocate any coefficient buffer (spec.md §4.3: "allocate ... lazily").
func Build[T kernel.Numeric](sym *symbolic.Symbol, kind FactorKind) *SolverMatrix[T] {
	cblknbr := sym.Cblknbr()
	bloknbr := sym.Bloknbr()

	sm := &SolverMatrix[T]{
		Sym:     sym,
		Kind:    kind,
		Coefind: make([]int, bloknbr),
		Panels:  make([]Panel[T], cblknbr),
		Tasks:   make([]Task, cblknbr),
	}

	for k := 0; k < cblknbr; k++ {
		start, end := sym.BlokIndices(k)
		stride := 0
		for i := start; i < end; i++ {
			b := sym.Bloktab[i]
			sm.Coefind[i] = stride
			stride += b.Lrownum - b.Frownum + 1
		}
		sm.Panels[k].Stride = stride

		width := sym.Cblktab[k].Lcolnum - sym.Cblktab[k].Fcolnum + 1
		sm.Tasks[k] = Task{
			Cblk:    k,
			Ctrbcnt: int32(sym.Cblktab[k+1].Brownum - sym.Cblktab[k].Brownum),
		}
		sm.TheoreticalFlops += panelFlops(kind, stride, width)
	}

	for k := 0; k < cblknbr; k++ {
		for _, b := range sym.Bloks(k) {
			if b.Fcblknm == k {
				continue
			}
			m := b.Lrownum - b.Frownum + 1
			n := sym.Cblktab[k].Lcolnum - sym.Cblktab[k].Fcolnum + 1
			sm.TheoreticalFlops += 2 * float64(m) * float64(n) * float64(n)
		}
	}

	return sm
}

// panelFlops estimates the diagonal-factor + panel-TRSM flop count for
// an (stride × width) panel (spec.md §4.3's "standard operation counts").
func panelFlops(kind FactorKind, stride, width int) float64 {
	m, n := float64(stride), float64(width)
	switch kind {
	case LLT:
		return n * n * (m - n/3)
	case LU:
		return 2 * n * n * (m - n/3)
	default: // LDLT, LDLH
		return n * n * (m - n/3)
	}
}

// Allocate reserves the packed coefficient buffer (and, for LU, the
// separate U buffer) for panel k.
func (sm *SolverMatrix[T]) Allocate(k int) {
	p := &sm.Panels[k]
	width := sm.Sym.Cblktab[k].Lcolnum - sm.Sym.Cblktab[k].Fcolnum + 1
	if p.Coef == nil {
		p.Coef = make([]T, p.Stride*width)
	}
	if sm.Kind == LU && p.U == nil {
		p.U = make([]T, p.Stride*width)
	}
}

// Width returns the column count of panel k.
func (sm *SolverMatrix[T]) Width(k int) int {
	return sm.Sym.Cblktab[k].Lcolnum - sm.Sym.Cblktab[k].Fcolnum + 1
}

// Grow extends panel k's row capacity by extraRows, preserving every
// already-allocated row, for the case where the incomplete (ILU) engine
// discovers fill at runtime beyond what the symbolic pattern predicted.
// A no-op if extraRows is non-positive. If the panel has not been
// allocated yet, only Stride grows (the later Allocate call sizes the
// buffer from it).
func (sm *SolverMatrix[T]) Grow(k int, extraRows int) {
	if extraRows <= 0 {
		return
	}
	p := &sm.Panels[k]
	newStride := p.Stride + extraRows
	if p.Coef == nil {
		p.Stride = newStride
		return
	}
	width := sm.Width(k)
	grown := make([]T, newStride*width)
	for row := 0; row < p.Stride; row++ {
		copy(grown[row*width:(row+1)*width], p.Coef[row*width:(row+1)*width])
	}
	p.Coef = grown
	if sm.Kind == LU && p.U != nil {
		grownU := make([]T, newStride*width)
		for row := 0; row < p.Stride; row++ {
			copy(grownU[row*width:(row+1)*width], p.U[row*width:(row+1)*width])
		}
		p.U = grownU
	}
	p.Stride = newStride
}

// Dense returns a kernel.Dense view over the rows of block i (within
// its owning panel's Coef buffer), sized (rowcount × panel width).
func (sm *SolverMatrix[T]) Dense(blok int) kernel.Dense[T] {
	b := sm.Sym.Bloktab[blok]
	k := b.Lcblknm
	width := sm.Width(k)
	rows := b.Lrownum - b.Frownum + 1
	off := sm.Coefind[blok] * width
	return kernel.Dense[T]{Rows: rows, Cols: width, Stride: width, Data: sm.Panels[k].Coef[off : off+rows*width]}
}

// DenseU is Dense's twin over the separately stored U buffer (LU only):
// the upper-factor entries Scatter stores at the same (block,
// row-offset, col-offset) address as the corresponding L entry, per
// spec.md §4.5.
func (sm *SolverMatrix[T]) DenseU(blok int) kernel.Dense[T] {
	b := sm.Sym.Bloktab[blok]
	k := b.Lcblknm
	width := sm.Width(k)
	rows := b.Lrownum - b.Frownum + 1
	off := sm.Coefind[blok] * width
	return kernel.Dense[T]{Rows: rows, Cols: width, Stride: width, Data: sm.Panels[k].U[off : off+rows*width]}
}
