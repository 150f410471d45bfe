// Copyright ©2026 The sparselin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package factor

import (
	"context"
	"math"
	"testing"

	"github.com/ArtNlk/sparselin/analyze"
	"github.com/ArtNlk/sparselin/blockmatrix"
	"github.com/ArtNlk/sparselin/graphorder"
	"github.com/ArtNlk/sparselin/schedule"
	"github.com/ArtNlk/sparselin/symbolic"
)

// spdFixture builds the symbol/solver-matrix machinery for spec.md §8
// scenario 1: A = [[4,1],[1,3]].
func spdFixture(t *testing.T) (*blockmatrix.SolverMatrix[float64], *graphorder.Order) {
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
	sym, err := symbolic.FaxGraph(g, ord)
	if err != nil {
		t.Fatalf("FaxGraph: %v", err)
	}
	sym, err = analyze.Analyze(sym, analyze.Options{})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	sm := blockmatrix.Build[float64](sym, blockmatrix.LLT)

	csc := &graphorder.CSC[float64]{
		N:      2,
		Colptr: []int{0, 2, 3},
		Rowind: []int{0, 1, 1},
		Values: []float64{4, 1, 3},
	}
	Scatter(sm, csc, ord, false)
	return sm, ord
}

func TestEngineFactorsSPD2x2(t *testing.T) {
	sm, _ := spdFixture(t)
	eng := &Engine[float64]{SM: sm, Opts: Options{Eps: 1e-12}}
	res, err := eng.Run(context.Background(), schedule.Sequential{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.NbPivot != 0 {
		t.Fatalf("NbPivot = %d, want 0", res.NbPivot)
	}
	l00 := sm.Dense(sm.Sym.Cblktab[0].Bloknum).At(0, 0)
	if math.Abs(l00-2) > 1e-9 {
		t.Errorf("L[0][0] = %v, want 2", l00)
	}
	l10 := sm.Dense(sm.Sym.Cblktab[0].Bloknum + 1).At(0, 0)
	if math.Abs(l10-0.5) > 1e-9 {
		t.Errorf("L[1][0] = %v, want 0.5", l10)
	}
	l11 := sm.Dense(sm.Sym.Cblktab[1].Bloknum).At(0, 0)
	if math.Abs(l11-math.Sqrt(2.75)) > 1e-9 {
		t.Errorf("L[1][1] = %v, want sqrt(2.75)", l11)
	}
}

func TestEngineWithPoolScheduler(t *testing.T) {
	sm, _ := spdFixture(t)
	eng := &Engine[float64]{SM: sm, Opts: Options{Eps: 1e-12}}
	res, err := eng.Run(context.Background(), schedule.NewPool(2, schedule.BindAuto))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.NbPivot != 0 {
		t.Fatalf("NbPivot = %d, want 0", res.NbPivot)
	}
}

func TestEngineReportsStructuralError(t *testing.T) {
	g, _ := graphorder.NewGraph(2, []int{0, 0, 0}, nil)
	ord := &graphorder.Order{Permtab: []int{0, 1}, Peritab: []int{0, 1}, Rangtab: []int{0, 1, 2}, Treetab: []int{-1, -1}}
	sym, err := symbolic.FaxGraph(g, ord)
	if err != nil {
		t.Fatalf("FaxGraph: %v", err)
	}
	sym, err = analyze.Analyze(sym, analyze.Options{})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	sm := blockmatrix.Build[float64](sym, blockmatrix.LLT)
	// Leave the diagonal at its zero value and a eps of 0 to force failure.
	sm.Allocate(0)
	sm.Allocate(1)

	eng := &Engine[float64]{SM: sm, Opts: Options{Eps: 0}}
	_, err = eng.Run(context.Background(), schedule.Sequential{})
	if err == nil {
		t.Fatal("want error for zero pivot with eps=0")
	}
}
