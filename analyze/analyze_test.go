// Copyright ©2026 The sparselin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package analyze

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ArtNlk/sparselin/graphorder"
	"github.com/ArtNlk/sparselin/symbolic"
)

func chainSymbol(t *testing.T) (*symbolic.Symbol, *graphorder.Order) {
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
	return sym, ord
}

func TestAnalyzeBuildsBrowtabAndRustine(t *testing.T) {
	sym, _ := chainSymbol(t)
	out, err := Analyze(sym, Options{Rustine: TargetNext})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if out.Cblktab[out.Cblknbr()].Brownum != out.Bloknbr()-out.Cblknbr() {
		t.Fatalf("browtab total = %d, want %d", out.Cblktab[out.Cblknbr()].Brownum, out.Bloknbr()-out.Cblknbr())
	}
	for k := 0; k < out.Cblknbr()-1; k++ {
		count := out.Cblktab[k+2].Brownum - out.Cblktab[k+1].Brownum
		if count == 0 {
			t.Errorf("panel %d has no incoming block after rustine patch", k+1)
		}
	}
}

func TestAnalyzeIdempotent(t *testing.T) {
	sym, _ := chainSymbol(t)
	first, err := Analyze(sym, Options{})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	before := append([]symbolic.Blok(nil), first.Bloktab...)
	second, err := Analyze(first, Options{})
	if err != nil {
		t.Fatalf("Analyze (2nd pass): %v", err)
	}
	if diff := cmp.Diff(before, second.Bloktab); diff != "" {
		t.Fatalf("second Analyze changed Bloktab (-before +after):\n%s", diff)
	}
}

func TestReorderOrderPreservesBijection(t *testing.T) {
	sym, ord := chainSymbol(t)
	if err := ReorderOrder(sym, ord, 0); err != nil {
		t.Fatalf("ReorderOrder: %v", err)
	}
	if err := ord.Validate(); err != nil {
		t.Fatalf("Validate after reorder: %v", err)
	}
}
