// Copyright ©2026 The sparselin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sparselin

import (
	"context"

	"github.com/ArtNlk/sparselin/analyze"
	"github.com/ArtNlk/sparselin/blockmatrix"
	"github.com/ArtNlk/sparselin/factor"
	"github.com/ArtNlk/sparselin/graphorder"
	"github.com/ArtNlk/sparselin/kernel"
	"github.com/ArtNlk/sparselin/refine"
	"github.com/ArtNlk/sparselin/schedule"
	"github.com/ArtNlk/sparselin/symbolic"
	"github.com/ArtNlk/sparselin/triangular"
)

// Step names the last task_* entry point a Handle has successfully
// completed, enforcing spec.md §6's task ordering: calling an earlier
// task implicitly restarts the chain from that point, invalidating
// everything after it.
type Step int

const (
	StepNone Step = iota
	StepOrdered
	StepSymbolic
	StepAnalyzed
	StepFactored
	StepSolved
	StepRefined
)

func (s Step) String() string {
	switch s {
	case StepNone:
		return "none"
	case StepOrdered:
		return "ordered"
	case StepSymbolic:
		return "symbolic"
	case StepAnalyzed:
		return "analyzed"
	case StepFactored:
		return "factored"
	case StepSolved:
		return "solved"
	case StepRefined:
		return "refined"
	default:
		return "unknown"
	}
}

// Handle is the solver instance: spec.md §6's "monolithic pastix_data_t"
// collapsed into a plain record owning sub-records, per spec.md §9's
// strategy note. One Handle drives one factorization/solve/refine
// pipeline for one scalar kind T.
type Handle[T kernel.Numeric] struct {
	Params Params

	log *Logger
	env envOverrides
	sch schedule.Scheduler

	step Step

	graph         *graphorder.Graph
	order         *graphorder.Order
	tree          *graphorder.Tree
	schurUnknowns []int

	sym *symbolic.Symbol
	sm  *blockmatrix.SolverMatrix[T]
	csc *graphorder.CSC[T] // retained for refine's apply_A

	nbpivot int
	dropped int
}

// Init allocates a Handle with p's defaults (zero-value Params falls
// back to DefaultParams' fields implicitly via the caller), reads the
// environment overrides once (spec.md §9's "global mutable state"
// strategy), and builds the worker-pool scheduler thread_nbr selects.
func Init[T kernel.Numeric](p Params) *Handle[T] {
	h := &Handle[T]{
		Params: p,
		log:    newLogger(p.Verbose),
		env:    readEnvOverrides(),
		step:   StepNone,
	}
	if p.ThreadNbr > 1 {
		h.sch = schedule.NewPool(p.ThreadNbr, schedule.BindAuto)
	} else {
		h.sch = schedule.Sequential{}
	}
	return h
}

// Finalize releases every owned structure. The Handle is not usable
// afterwards.
func (h *Handle[T]) Finalize() {
	h.graph, h.order, h.tree = nil, nil, nil
	h.sym, h.sm, h.csc = nil, nil, nil
	h.schurUnknowns = nil
	h.step = StepNone
}

// SetSchurUnknowns marks the (0-based, original-numbering) vertex
// indices that form the Schur complement. Must be called before
// TaskOrder (spec.md §6's Schur API).
func (h *Handle[T]) SetSchurUnknowns(indices []int) error {
	if h.step >= StepOrdered {
		return newError("set_schur_unknowns", StepOrder, nil)
	}
	h.schurUnknowns = append([]int(nil), indices...)
	return nil
}

// TaskOrder records the externally produced Graph/Order pair (spec.md
// §6 task 1; the ordering heuristic itself is an external collaborator,
// out of scope per spec.md §1's Non-goals).
func (h *Handle[T]) TaskOrder(g *graphorder.Graph, ord *graphorder.Order) error {
	if err := ord.Validate(); err != nil {
		return newError("task_order", Matrix, err)
	}
	if g.N != ord.N() {
		return newError("task_order", Matrix, symbolic.ErrGraphMismatch)
	}
	h.graph, h.order = g, ord
	h.tree = graphorder.NewTree(ord.Treetab)
	h.step = StepOrdered
	h.log.Summary("task_order: n=%d cblknbr=%d", g.N, ord.Cblknbr())
	return nil
}

// TaskSymbfact builds the symbol matrix (spec.md §6 task 2): FaxGraph
// when Params.Incomplete is false, Kass otherwise.
func (h *Handle[T]) TaskSymbfact() error {
	if h.step < StepOrdered {
		return newError("task_symbfact", StepOrder, nil)
	}
	var sym *symbolic.Symbol
	var err error
	if h.Params.Incomplete {
		sym, err = symbolic.Kass(h.graph, h.order, symbolic.KassOptions{
			LevelOfFill: h.Params.LevelOfFill,
			AmalgCblk:   h.Params.AmalgCblk,
			AmalgBlas:   h.Params.AmalgBlas,
		})
	} else {
		sym, err = symbolic.FaxGraph(h.graph, h.order)
	}
	if err != nil {
		return newError("task_symbfact", Matrix, err)
	}
	h.sym = sym
	h.step = StepSymbolic
	h.log.Detailed("task_symbfact: bloknbr=%d", sym.Bloknbr())
	return nil
}

// TaskAnalyze runs symbol analysis (spec.md §6 task 3): compact, the
// rustine patch, and browtab construction.
func (h *Handle[T]) TaskAnalyze() error {
	if h.step < StepSymbolic {
		return newError("task_analyze", StepOrder, nil)
	}
	sym, err := analyze.Analyze(h.sym, analyze.Options{
		MinBlocksize: h.Params.MinBlocksize,
		MaxBlocksize: h.Params.MaxBlocksize,
	})
	if err != nil {
		return newError("task_analyze", Matrix, err)
	}
	h.sym = sym
	h.step = StepAnalyzed
	h.log.Detailed("task_analyze: panels=%d", sym.Cblknbr())
	return nil
}

// TaskNumfact scatters csc's values into a freshly built SolverMatrix
// and runs the numeric factorization (spec.md §6 task 4).
func (h *Handle[T]) TaskNumfact(csc *graphorder.CSC[T]) error {
	if h.step < StepAnalyzed {
		return newError("task_numfact", StepOrder, nil)
	}
	kind := blockmatrix.FactorKind(h.Params.Factorization)
	sm := blockmatrix.Build[T](h.sym, kind)

	hermitian := h.Params.Sym == Hermitian
	factor.Scatter(sm, csc, h.order, hermitian)

	schurFrom := 0
	if h.Params.Schur && len(h.schurUnknowns) > 0 {
		schurFrom = h.schurCblkStart()
	}

	eng := &factor.Engine[T]{
		SM: sm,
		Opts: factor.Options{
			Eps:        h.Params.EpsPivot,
			PivotLimit: h.Params.PivotLimit,
			ILU:        h.Params.Incomplete,
			SchurFrom:  schurFrom,
		},
	}
	res, err := eng.Run(context.Background(), h.sch)
	h.nbpivot, h.dropped = res.NbPivot, res.Dropped
	if err != nil {
		return newError("task_numfact", Matrix, err)
	}

	h.sm, h.csc = sm, csc
	h.step = StepFactored
	h.log.Summary("task_numfact: nbpivot=%d dropped=%d theoreticalFlops=%.3e",
		res.NbPivot, res.Dropped, sm.TheoreticalFlops)
	return nil
}

// schurCblkStart returns the lowest supernode index whose column range
// lies entirely within the Schur unknown set, assuming the caller's
// ordering placed the Schur unknowns last (the conventional layout an
// external ordering routine produces when honoring SetSchurUnknowns).
func (h *Handle[T]) schurCblkStart() int {
	cblknbr := h.sym.Cblknbr()
	schur := make(map[int]bool, len(h.schurUnknowns))
	for _, v := range h.schurUnknowns {
		schur[h.order.Permtab[v]] = true
	}
	for k := 0; k < cblknbr; k++ {
		c := h.sym.Cblktab[k]
		allSchur := true
		for col := c.Fcolnum; col <= c.Lcolnum; col++ {
			if !schur[col] {
				allSchur = false
				break
			}
		}
		if allSchur {
			return k
		}
	}
	return cblknbr
}

// GetSchur returns, after TaskNumfact in Schur mode (spec.md §6's Schur
// API), the unfactored diagonal block of the first Schur panel
// (schurCblkStart). When the Schur unknowns span several panels, the
// blocks of the later panels are not part of the returned matrix.
func (h *Handle[T]) GetSchur() (kernel.Dense[T], error) {
	if h.step < StepFactored || !h.Params.Schur {
		return kernel.Dense[T]{}, newError("get_schur", StepOrder, nil)
	}
	start := h.schurCblkStart()
	return h.sm.Dense(h.sym.Cblktab[start].Bloknum), nil
}

// TaskSolve applies the forward/diagonal/backward sweeps (spec.md §6
// task 5) to b (shape (n, nrhs), original numbering) and returns x in
// the same numbering.
func (h *Handle[T]) TaskSolve(b kernel.Dense[T]) (kernel.Dense[T], error) {
	if h.step < StepFactored {
		return kernel.Dense[T]{}, newError("task_solve", StepOrder, nil)
	}
	y := h.permuteForward(b)
	if err := triangular.Forward(h.sm, h.tree, y); err != nil {
		return kernel.Dense[T]{}, newError("task_solve", Internal, err)
	}
	triangular.ScaleDiagonal(h.sm, y)
	if err := triangular.Backward(h.sm, h.tree, y); err != nil {
		return kernel.Dense[T]{}, newError("task_solve", Internal, err)
	}
	x := h.permuteBackward(y)
	h.step = StepSolved
	return x, nil
}

// permuteForward maps b from original to internal (permuted) numbering:
// permuted[Permtab[old]] = b[old].
func (h *Handle[T]) permuteForward(b kernel.Dense[T]) kernel.Dense[T] {
	n, nrhs := b.Rows, b.Cols
	out := kernel.NewDense[T](n, nrhs)
	for old := 0; old < n; old++ {
		nu := h.order.Permtab[old]
		for c := 0; c < nrhs; c++ {
			out.Set(nu, c, b.At(old, c))
		}
	}
	return out
}

// permuteBackward maps y from internal to original numbering:
// x[old] = y[Permtab[old]].
func (h *Handle[T]) permuteBackward(y kernel.Dense[T]) kernel.Dense[T] {
	n, nrhs := y.Rows, y.Cols
	out := kernel.NewDense[T](n, nrhs)
	for old := 0; old < n; old++ {
		nu := h.order.Permtab[old]
		for c := 0; c < nrhs; c++ {
			out.Set(old, c, y.At(nu, c))
		}
	}
	return out
}

// TaskRefine runs the configured Krylov/simple driver (spec.md §6 task
// 6), preconditioned by one TaskSolve-equivalent sweep per application,
// over b and the starting guess x (both original numbering, single
// right-hand side). x is returned refined in place.
func (h *Handle[T]) TaskRefine(b, x []T) (refine.Result, error) {
	if h.step < StepFactored {
		return refine.Result{}, newError("task_refine", StepOrder, nil)
	}
	n := h.csc.N
	ops := refine.Ops[T]{
		ApplyA: func(dst, src []T) {
			h.matvecOriginal(dst, src)
		},
		ApplyMInv: func(dst, src []T) {
			in := kernel.NewDense[T](n, 1)
			for i := 0; i < n; i++ {
				in.Set(i, 0, src[i])
			}
			out, _ := h.TaskSolve(in)
			for i := 0; i < n; i++ {
				dst[i] = out.At(i, 0)
			}
		},
	}

	var res refine.Result
	switch h.Params.Refinement {
	case GMRES:
		res = refine.GMRES(ops, b, x, h.Params.EpsRefinement, h.Params.Itermax, h.Params.GMRESIm)
	case CG:
		res = refine.CG(ops, b, x, h.Params.EpsRefinement, h.Params.Itermax)
	case BiCGStab:
		res = refine.BiCGStab(ops, b, x, h.Params.EpsRefinement, h.Params.Itermax)
	default:
		res = refine.Simple(ops, b, x, h.Params.EpsRefinement, h.Params.Itermax)
	}
	h.step = StepRefined
	h.log.Summary("task_refine: iterations=%d residual=%.3e", res.Iterations, res.ResidualNorm)
	return res, nil
}

// matvecOriginal computes dst ← A·src where src and dst are both in
// original (caller-facing) numbering, matching TaskSolve's contract
// (spec.md §6 task 5/6: TaskRefine's b/x are original numbering too).
// It permutes into the internal numbering h.csc is stored in, runs
// matvec, and permutes the result back.
func (h *Handle[T]) matvecOriginal(dst, src []T) {
	n := h.csc.N
	permuted := make([]T, n)
	for old := 0; old < n; old++ {
		permuted[h.order.Permtab[old]] = src[old]
	}
	out := make([]T, n)
	h.matvec(out, permuted)
	for old := 0; old < n; old++ {
		dst[old] = out[h.order.Permtab[old]]
	}
}

// matvec computes dst ← A·src using the retained (permuted) CSC and the
// symmetry class, expanding the stored lower triangle when A is
// symmetric or Hermitian (only the lower triangle is stored per
// graphorder.CSC's contract). src and dst are both in the same
// (permuted) numbering as h.csc.
func (h *Handle[T]) matvec(dst, src []T) {
	for i := range dst {
		dst[i] = kernel.FromFloat64[T](0)
	}
	csc := h.csc
	symmetric := h.Params.Sym != General
	hermitian := h.Params.Sym == Hermitian
	for j := 0; j < csc.N; j++ {
		for idx := csc.Colptr[j]; idx < csc.Colptr[j+1]; idx++ {
			i := csc.Rowind[idx]
			v := csc.Values[idx]
			dst[i] = dst[i] + v*src[j]
			if symmetric && i != j {
				vt := v
				if hermitian {
					vt = kernel.Conj(v)
				}
				dst[j] = dst[j] + vt*src[i]
			}
		}
	}
}

// TaskClean releases every owned structure (spec.md §6 task 7); an
// alias of Finalize kept distinct so callers following the task_*
// naming convention have a matching symbol.
func (h *Handle[T]) TaskClean() error {
	h.Finalize()
	return nil
}

// NbPivot returns the static-pivoting count from the last TaskNumfact.
func (h *Handle[T]) NbPivot() int { return h.nbpivot }

// Dropped returns the ILU dropped-update count from the last TaskNumfact.
func (h *Handle[T]) Dropped() int { return h.dropped }

// Step returns the last successfully completed task.
func (h *Handle[T]) Step() Step { return h.step }
