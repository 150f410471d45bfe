// Copyright ©2026 The sparselin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package blockmatrix

import (
	"testing"

	"github.com/ArtNlk/sparselin/analyze"
	"github.com/ArtNlk/sparselin/graphorder"
	"github.com/ArtNlk/sparselin/symbolic"
)

// chainSymbol builds the same 4-vertex path fixture package analyze and
// package persist test against, already compacted/patched/browtab-built.
func chainSymbol(t *testing.T) *symbolic.Symbol {
	t.Helper()
	g, err := graphorder.NewGraph(4,
		[]int{0, 1, 3, 5, 6},
		[]int{1, 0, 2, 1, 3, 2},
	)
	if err != nil {
		t.Fatalf("NewGraph: %v", err)
	}
	ord := &graphorder.Order{
		Permtab: []int{0, 1, 2, 3},
		Peritab: []int{0, 1, 2, 3},
		Rangtab: []int{0, 1, 2, 3, 4},
		Treetab: []int{1, 2, 3, -1},
	}
	sym, err := symbolic.FaxGraph(g, ord)
	if err != nil {
		t.Fatalf("FaxGraph: %v", err)
	}
	sym, err = analyze.Analyze(sym, analyze.Options{})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	return sym
}

func TestBuildAllocatesStridesAndTasks(t *testing.T) {
	sym := chainSymbol(t)
	sm := Build[float64](sym, LLT)
	if len(sm.Panels) != sym.Cblknbr() {
		t.Fatalf("Panels len = %d, want %d", len(sm.Panels), sym.Cblknbr())
	}
	for k, task := range sm.Tasks {
		if task.Cblk != k {
			t.Errorf("Tasks[%d].Cblk = %d, want %d", k, task.Cblk, k)
		}
	}
	sm.Allocate(0)
	if len(sm.Panels[0].Coef) != sm.Panels[0].Stride*sm.Width(0) {
		t.Fatalf("Coef len = %d, want %d", len(sm.Panels[0].Coef), sm.Panels[0].Stride*sm.Width(0))
	}
}

func TestGrowPreservesExistingRows(t *testing.T) {
	sym := chainSymbol(t)
	sm := Build[float64](sym, LU)
	sm.Allocate(0)

	width := sm.Width(0)
	oldStride := sm.Panels[0].Stride
	for i := range sm.Panels[0].Coef {
		sm.Panels[0].Coef[i] = float64(i + 1)
		sm.Panels[0].U[i] = float64(i + 1)
	}
	want := append([]float64(nil), sm.Panels[0].Coef...)

	sm.Grow(0, 2)

	if sm.Panels[0].Stride != oldStride+2 {
		t.Fatalf("Stride = %d, want %d", sm.Panels[0].Stride, oldStride+2)
	}
	for row := 0; row < oldStride; row++ {
		for c := 0; c < width; c++ {
			got := sm.Panels[0].Coef[row*width+c]
			if got != want[row*width+c] {
				t.Errorf("Coef[%d,%d] = %v, want %v", row, c, got, want[row*width+c])
			}
			if sm.Panels[0].U[row*width+c] != want[row*width+c] {
				t.Errorf("U[%d,%d] changed under Grow", row, c)
			}
		}
	}
	for row := oldStride; row < sm.Panels[0].Stride; row++ {
		for c := 0; c < width; c++ {
			if sm.Panels[0].Coef[row*width+c] != 0 {
				t.Errorf("Coef[%d,%d] = %v, want 0 in newly grown rows", row, c, sm.Panels[0].Coef[row*width+c])
			}
		}
	}
}

func TestGrowNoopWhenNonPositive(t *testing.T) {
	sym := chainSymbol(t)
	sm := Build[float64](sym, LLT)
	sm.Allocate(0)
	before := sm.Panels[0].Stride
	sm.Grow(0, 0)
	if sm.Panels[0].Stride != before {
		t.Fatalf("Stride changed on a non-positive Grow: got %d, want %d", sm.Panels[0].Stride, before)
	}
}

func TestGrowBeforeAllocateOnlyAdjustsStride(t *testing.T) {
	sym := chainSymbol(t)
	sm := Build[float64](sym, LLT)
	before := sm.Panels[0].Stride
	sm.Grow(0, 3)
	if sm.Panels[0].Stride != before+3 {
		t.Fatalf("Stride = %d, want %d", sm.Panels[0].Stride, before+3)
	}
	if sm.Panels[0].Coef != nil {
		t.Fatalf("Coef should remain nil until Allocate is called")
	}
}
