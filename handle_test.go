// Copyright ©2026 The sparselin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sparselin

import (
	"math"
	"testing"

	"github.com/ArtNlk/sparselin/graphorder"
	"github.com/ArtNlk/sparselin/kernel"
)

// spd2x2Graph returns A = [[4,1],[1,3]], spec.md §8 scenario 1 (exact solution
// [1,1] for b = [5,4]), already wrapped in the lower-triangle-only CSC
// format TaskNumfact expects.
func spd2x2Graph(t *testing.T) (*graphorder.Graph, *graphorder.Order, *graphorder.CSC[float64]) {
	t.Helper()
	g, err := graphorder.NewGraph(2, []int{0, 1, 2}, []int{1, 0})
	if err != nil {
		t.Fatalf("NewGraph: %v", err)
	}
	ord := &graphorder.Order{
		Permtab: []int{0, 1},
		Peritab: []int{0, 1},
		Rangtab: []int{0, 1, 2},
		Treetab: []int{1, -1},
	}
	csc := &graphorder.CSC[float64]{
		N:      2,
		Colptr: []int{0, 2, 3},
		Rowind: []int{0, 1, 1},
		Values: []float64{4, 1, 3},
	}
	return g, ord, csc
}

func TestHandlePipelineEndToEnd(t *testing.T) {
	g, ord, csc := spd2x2Graph(t)

	p := DefaultParams()
	p.Factorization = LLT
	p.Sym = Symmetric
	h := Init[float64](p)
	defer h.TaskClean()

	if err := h.TaskOrder(g, ord); err != nil {
		t.Fatalf("TaskOrder: %v", err)
	}
	if err := h.TaskSymbfact(); err != nil {
		t.Fatalf("TaskSymbfact: %v", err)
	}
	if err := h.TaskAnalyze(); err != nil {
		t.Fatalf("TaskAnalyze: %v", err)
	}
	if err := h.TaskNumfact(csc); err != nil {
		t.Fatalf("TaskNumfact: %v", err)
	}

	b := kernel.NewDense[float64](2, 1)
	b.Set(0, 0, 5)
	b.Set(1, 0, 4)
	x, err := h.TaskSolve(b)
	if err != nil {
		t.Fatalf("TaskSolve: %v", err)
	}
	if math.Abs(x.At(0, 0)-1) > 1e-9 || math.Abs(x.At(1, 0)-1) > 1e-9 {
		t.Fatalf("x = [%v %v], want [1 1]", x.At(0, 0), x.At(1, 0))
	}

	rb := []float64{5, 4}
	rx := []float64{0, 0}
	res, err := h.TaskRefine(rb, rx)
	if err != nil {
		t.Fatalf("TaskRefine: %v", err)
	}
	if math.Abs(rx[0]-1) > 1e-6 || math.Abs(rx[1]-1) > 1e-6 {
		t.Errorf("refined x = %v, want [1 1] (residual %v after %d iters)", rx, res.ResidualNorm, res.Iterations)
	}

	if h.Step() != StepRefined {
		t.Errorf("Step() = %v, want %v", h.Step(), StepRefined)
	}
	if err := h.TaskClean(); err != nil {
		t.Fatalf("TaskClean: %v", err)
	}
	if h.Step() != StepNone {
		t.Errorf("Step() after TaskClean = %v, want %v", h.Step(), StepNone)
	}
}

func TestTaskSolveBeforeNumfactReturnsStepOrderError(t *testing.T) {
	g, ord, _ := spd2x2Graph(t)
	h := Init[float64](DefaultParams())
	defer h.TaskClean()

	if err := h.TaskOrder(g, ord); err != nil {
		t.Fatalf("TaskOrder: %v", err)
	}
	b := kernel.NewDense[float64](2, 1)
	if _, err := h.TaskSolve(b); err == nil {
		t.Fatal("want error calling TaskSolve before TaskNumfact")
	}
}

func TestSetSchurUnknownsAfterOrderRejected(t *testing.T) {
	g, ord, _ := spd2x2Graph(t)
	h := Init[float64](DefaultParams())
	defer h.TaskClean()

	if err := h.TaskOrder(g, ord); err != nil {
		t.Fatalf("TaskOrder: %v", err)
	}
	if err := h.SetSchurUnknowns([]int{0}); err == nil {
		t.Fatal("want error calling SetSchurUnknowns after TaskOrder")
	}
}

func TestEarlierTaskReOrderRestartsChain(t *testing.T) {
	g, ord, csc := spd2x2Graph(t)
	p := DefaultParams()
	p.Factorization = LLT
	h := Init[float64](p)
	defer h.TaskClean()

	if err := h.TaskOrder(g, ord); err != nil {
		t.Fatalf("TaskOrder: %v", err)
	}
	if err := h.TaskSymbfact(); err != nil {
		t.Fatalf("TaskSymbfact: %v", err)
	}
	if err := h.TaskAnalyze(); err != nil {
		t.Fatalf("TaskAnalyze: %v", err)
	}
	if err := h.TaskNumfact(csc); err != nil {
		t.Fatalf("TaskNumfact: %v", err)
	}
	if h.Step() != StepFactored {
		t.Fatalf("Step() = %v, want %v", h.Step(), StepFactored)
	}

	if err := h.TaskOrder(g, ord); err != nil {
		t.Fatalf("re-TaskOrder: %v", err)
	}
	if h.Step() != StepOrdered {
		t.Errorf("Step() after re-TaskOrder = %v, want %v", h.Step(), StepOrdered)
	}
}
