// Copyright ©2026 The sparselin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package symbolic

import (
	"testing"

	"github.com/ArtNlk/sparselin/graphorder"
)

// A 1-D (3-point) Laplacian-style 4-vertex chain: 0-1-2-3, ordered naturally,
// one supernode per vertex (spec.md §8 scenario 2's shape, simplified).
func chainFixture() (*graphorder.Graph, *graphorder.Order) {
	g, _ := graphorder.NewGraph(4,
		[]int{0, 1, 3, 5, 6},
		[]int{1, 0, 2, 1, 3, 2},
	)
	ord := &graphorder.Order{
		Permtab: []int{0, 1, 2, 3},
		Peritab: []int{0, 1, 2, 3},
		Rangtab: []int{0, 1, 2, 3, 4},
		Treetab: []int{1, 2, 3, -1},
	}
	return g, ord
}

func TestFaxGraphTrivialN1(t *testing.T) {
	g, _ := graphorder.NewGraph(1, []int{0, 0}, nil)
	ord := &graphorder.Order{Permtab: []int{0}, Peritab: []int{0}, Rangtab: []int{0, 1}, Treetab: []int{-1}}

	sym, err := FaxGraph(g, ord)
	if err != nil {
		t.Fatalf("FaxGraph: %v", err)
	}
	if sym.Cblknbr() != 1 {
		t.Fatalf("Cblknbr() = %d, want 1", sym.Cblknbr())
	}
	if sym.Bloknbr() != 1 {
		t.Fatalf("Bloknbr() = %d, want 1", sym.Bloknbr())
	}
	diag := sym.Bloks(0)[0]
	if diag.Frownum != 0 || diag.Lrownum != 0 || diag.Fcblknm != 0 || diag.Lcblknm != 0 {
		t.Errorf("diag block = %+v, want the single 1x1 diagonal", diag)
	}
}

func TestFaxGraphChainFillsIn(t *testing.T) {
	g, ord := chainFixture()
	sym, err := FaxGraph(g, ord)
	if err != nil {
		t.Fatalf("FaxGraph: %v", err)
	}
	if sym.Cblknbr() != 4 {
		t.Fatalf("Cblknbr() = %d, want 4", sym.Cblknbr())
	}
	// supernode 0 (vertex 0) gets its diagonal plus one block facing
	// supernode 1: a chain eliminated in natural order produces no fill.
	bloks0 := sym.Bloks(0)
	if len(bloks0) != 2 {
		t.Fatalf("Bloks(0) = %+v, want 2 blocks (diag + fill into 1)", bloks0)
	}
	if bloks0[0].Frownum != 0 || bloks0[0].Lrownum != 0 {
		t.Errorf("Bloks(0)[0] (diag) = %+v, want [0,0]", bloks0[0])
	}
	if bloks0[1].Fcblknm != 1 {
		t.Errorf("Bloks(0)[1].Fcblknm = %d, want 1", bloks0[1].Fcblknm)
	}
}

func TestFaxGraphRejectsMismatchedSizes(t *testing.T) {
	g, _ := graphorder.NewGraph(2, []int{0, 0, 0}, nil)
	ord := &graphorder.Order{Permtab: []int{0}, Peritab: []int{0}, Rangtab: []int{0, 1}, Treetab: []int{-1}}
	if _, err := FaxGraph(g, ord); err != ErrGraphMismatch {
		t.Fatalf("FaxGraph error = %v, want ErrGraphMismatch", err)
	}
}

func TestFindFacingBlockExactAndMiss(t *testing.T) {
	sym := &Symbol{
		Cblktab: []Cblk{{Fcolnum: 0, Lcolnum: 0, Bloknum: 0}, {Bloknum: 2}},
		Bloktab: []Blok{
			{Frownum: 0, Lrownum: 0, Lcblknm: 0, Fcblknm: 0},
			{Frownum: 3, Lrownum: 5, Lcblknm: 0, Fcblknm: 1},
		},
	}
	if idx, ok := sym.FindFacingBlock(0, 0, 0, false); !ok || idx != 0 {
		t.Fatalf("FindFacingBlock diag = (%d,%v), want (0,true)", idx, ok)
	}
	if _, ok := sym.FindFacingBlock(0, 2, 2, false); ok {
		t.Fatalf("FindFacingBlock should miss a row never fetched")
	}
}

func TestKassAmalgamatesChain(t *testing.T) {
	g, ord := chainFixture()
	sym, err := Kass(g, ord, KassOptions{LevelOfFill: -1, AmalgCblk: 0.99})
	if err != nil {
		t.Fatalf("Kass: %v", err)
	}
	if sym.Cblknbr() >= 4 {
		t.Fatalf("Kass with aggressive amalgamation left Cblknbr() = %d, want fewer than 4", sym.Cblknbr())
	}
}

func TestKassLevelZeroDropsDistantFill(t *testing.T) {
	g, ord := chainFixture()
	full, err := Kass(g, ord, KassOptions{LevelOfFill: -1})
	if err != nil {
		t.Fatalf("Kass(unbounded): %v", err)
	}
	level0, err := Kass(g, ord, KassOptions{LevelOfFill: 0})
	if err != nil {
		t.Fatalf("Kass(level 0): %v", err)
	}
	total := func(s *Symbol) int { return s.Bloknbr() }
	if total(level0) > total(full) {
		t.Fatalf("level-0 ILU produced more blocks (%d) than complete factorization (%d)", total(level0), total(full))
	}
}
