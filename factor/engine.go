// Copyright ©2026 The sparselin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package factor

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/ArtNlk/sparselin/blockmatrix"
	"github.com/ArtNlk/sparselin/kernel"
	"github.com/ArtNlk/sparselin/schedule"
)

// Kind mirrors blockmatrix.FactorKind for readability at call sites.
type Kind = blockmatrix.FactorKind

const (
	LU   = blockmatrix.LU
	LLT  = blockmatrix.LLT
	LDLT = blockmatrix.LDLT
	LDLH = blockmatrix.LDLH
)

// Options controls the factor engine.
type Options struct {
	Eps        float64
	PivotLimit int // 0 means unlimited
	// ILU relaxes FindFacingBlock to the intersect-or-skip rule spec.md
	// §4.1 describes for incomplete factorization.
	ILU bool
	// SchurFrom, if > 0, marks cblks [SchurFrom, cblknbr) as the Schur
	// complement: their own factor step (diagonal/TRSM/D-scale) is
	// skipped, but they still receive GEMM updates from lower-numbered
	// panels (spec.md §4.4's Schur-complement mode).
	SchurFrom int
}

// Result reports the outcome of a numeric factorization.
type Result struct {
	NbPivot int
	Dropped int
}

// Engine runs the numeric factor tasks of a SolverMatrix over a
// schedule.Scheduler, following the ctrbcnt-driven readiness protocol
// of spec.md §4.3/§4.4: a panel's factor task becomes runnable only
// once every GEMM contribution targeting it has been applied.
type Engine[T kernel.Numeric] struct {
	SM        *blockmatrix.SolverMatrix[T]
	Opts      Options

	mu      []sync.Mutex // one per panel, guarding GEMM accumulation
	nbpivot int32
	dropped int32
}

// Run factors every panel, dispatching ready panels through sched.
func (e *Engine[T]) Run(ctx context.Context, sched schedule.Scheduler) (Result, error) {
	cblknbr := e.SM.Sym.Cblknbr()
	e.mu = make([]sync.Mutex, cblknbr)

	ctrbcnt := make([]int32, cblknbr)
	for k := 0; k < cblknbr; k++ {
		ctrbcnt[k] = e.SM.Tasks[k].Ctrbcnt
	}

	tg := schedule.NewTaskGraph(sched.Workers(), cblknbr)

	var submit func(k int)
	submit = func(k int) {
		tg.Submit(func(ctx context.Context) error {
			if err := e.factorPanel(k); err != nil {
				return err
			}
			return e.scatterUpdates(k, ctrbcnt, submit)
		})
	}

	for k := 0; k < cblknbr; k++ {
		if ctrbcnt[k] == 0 {
			submit(k)
		}
	}

	result := Result{}
	runErr := tg.Run(ctx)
	result.NbPivot = int(atomic.LoadInt32(&e.nbpivot))
	result.Dropped = int(atomic.LoadInt32(&e.dropped))
	return result, runErr
}

// factorPanel runs steps 2-4 of spec.md §4.4 for panel k: the diagonal
// factor, the panel TRSM, and (for LDLT/LDLH) the D-scale producing the
// DL intermediate used by GEMDM.
func (e *Engine[T]) factorPanel(k int) error {
	sm := e.SM
	if e.Opts.SchurFrom > 0 && k >= e.Opts.SchurFrom {
		return nil
	}
	sm.Allocate(k)
	width := sm.Width(k)
	diag := sm.Dense(sm.Sym.Cblktab[k].Bloknum)
	if diag.Rows == 0 {
		return &StructuralError{Cblk: k}
	}

	var nbpivot int
	var err error
	switch sm.Kind {
	case blockmatrix.LLT:
		nbpivot, err = kernel.Potrf(diag, e.Opts.Eps)
	case blockmatrix.LU:
		nbpivot, err = kernel.Getrf(diag, e.Opts.Eps)
	default: // LDLT, LDLH
		var d []T
		d, nbpivot, err = kernel.Sytrf(diag, e.Opts.Eps, sm.Kind == blockmatrix.LDLH)
		if err == nil {
			sm.Panels[k].D = d
		}
	}
	if err != nil {
		if _, ok := err.(*kernel.ErrNonPositiveDefinite); ok {
			return &StructuralError{Cblk: k}
		}
		return err
	}
	if nbpivot > 0 {
		n := atomic.AddInt32(&e.nbpivot, int32(nbpivot))
		if e.Opts.PivotLimit > 0 && int(n) > e.Opts.PivotLimit {
			return &PivotLimitExceeded{Limit: e.Opts.PivotLimit, Count: int(n)}
		}
	}

	start, end := sm.Sym.BlokIndices(k)
	if end-start <= 1 {
		return nil
	}
	firstOff := sm.Coefind[start+1]
	trailing := kernel.Dense[T]{
		Rows: sm.Panels[k].Stride - firstOff, Cols: width, Stride: width,
		Data: sm.Panels[k].Coef[firstOff*width:],
	}
	hermitian := sm.Kind == blockmatrix.LDLH
	unitDiag := sm.Kind != blockmatrix.LLT
	kernel.TrsmTrailingLowerT(diag, trailing, hermitian, unitDiag)

	if sm.Kind == blockmatrix.LDLT || sm.Kind == blockmatrix.LDLH {
		sm.Panels[k].DL = kernel.ScaleColumnsByD(trailing, sm.Panels[k].D)
	}

	if sm.Kind == blockmatrix.LU {
		// Scatter stores the off-diagonal U entries at the same
		// (block, row-offset, col-offset) address as the twin L
		// entry, transposed (U[r][c] = A(panel-col c, facing-row r)).
		// Solving the same X·Lᵀ = B sweep used above for the U
		// buffer therefore produces the matching U_kj block: it is
		// the transpose of the natural U_kj = L_kk⁻¹·A_kj solve.
		uTrailing := kernel.Dense[T]{
			Rows: sm.Panels[k].Stride - firstOff, Cols: width, Stride: width,
			Data: sm.Panels[k].U[firstOff*width:],
		}
		kernel.TrsmTrailingLowerT(diag, uTrailing, false, true)
	}
	return nil
}

// scatterUpdates implements step 5 of spec.md §4.4 for panel k: for
// every off-diagonal block b_i (destination d = fcblknm(b_i)), subtract
// L(b_j)·L(b_i)ᵀ into the block of panel d that faces b_j, for every
// b_j at or after b_i in the panel's off-diagonal list — the face-found
// destination being the diagonal block of d when j==i, an off-diagonal
// block of d otherwise. ready is called (via submit) for any panel
// whose ctrbcnt reaches zero.
func (e *Engine[T]) scatterUpdates(k int, ctrbcnt []int32, submit func(int)) error {
	sm := e.SM
	off := sm.Sym.Bloks(k)
	if len(off) <= 1 {
		return nil
	}
	off = off[1:] // strip the diagonal block
	start, _ := sm.Sym.BlokIndices(k)
	bIdx := func(i int) int { return start + 1 + i } // index into Bloktab

	hermitian := sm.Kind == blockmatrix.LDLH
	ldl := sm.Kind == blockmatrix.LDLT || sm.Kind == blockmatrix.LDLH

	rowOffsetInTrailing := func(i int) int {
		return sm.Coefind[bIdx(i)] - sm.Coefind[bIdx(0)]
	}

	for i, bi := range off {
		d := bi.Fcblknm
		ai := sm.Dense(bIdx(i))
		for j := i; j < len(off); j++ {
			bj := off[j]
			target, ok := sm.Sym.FindFacingBlock(d, bj.Frownum, bj.Lrownum, e.Opts.ILU)
			if !ok {
				atomic.AddInt32(&e.dropped, 1)
				continue
			}
			tb := sm.Sym.Bloktab[target]

			var src kernel.Dense[T]
			if ldl {
				ro := rowOffsetInTrailing(j)
				src = sm.Panels[k].DL.Sub(ro, ro+bj.Lrownum-bj.Frownum+1, 0, sm.Panels[k].DL.Cols)
			} else {
				src = sm.Dense(bIdx(j))
			}

			rowOff := bj.Frownum - tb.Frownum
			colOff := bi.Frownum - sm.Sym.Cblktab[d].Fcolnum

			e.mu[d].Lock()
			dst := sm.Dense(target).Sub(rowOff, rowOff+src.Rows, colOff, colOff+ai.Rows)
			kernel.GemmUpdate(dst, src, ai, hermitian)
			if sm.Kind == blockmatrix.LU {
				// U is Coef's twin (same block/offset addressing, transposed
				// values; see Scatter and factorPanel), so it absorbs the
				// same outer-product update at the identical address.
				dstU := sm.DenseU(target).Sub(rowOff, rowOff+src.Rows, colOff, colOff+ai.Rows)
				kernel.GemmUpdate(dstU, sm.DenseU(bIdx(j)), sm.DenseU(bIdx(i)), false)
			}
			e.mu[d].Unlock()
		}
		if n := atomic.AddInt32(&ctrbcnt[d], -1); n == 0 {
			submit(d)
		}
	}
	return nil
}
