// Copyright ©2026 The sparselin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package symbolic

import (
	"sort"

	"github.com/ArtNlk/sparselin/graphorder"
)

// FaxGraph performs exact symbolic factorization (spec.md §4.1): given
// a symmetrized adjacency graph and a supernode partition with its
// elimination tree, it computes, for every supernode in topological
// (leaves-first) order, the union of
//
//  1. the graph's own structural nonzeros in rows at or below the
//     panel's first column, and
//  2. the filled row pattern contributed by each child in the
//     elimination tree (the rows that child's factorization pushed
//     past its own column range),
//
// and segments that union by which supernode owns each row, producing
// one diagonal block plus one off-diagonal block per distinct facing
// supernode touched — matching the row-range of each facing supernode
// densely between the lowest and highest row touched, which is the
// standard supernodal fill assumption. The result already satisfies
// the fcolnum-ascending, diagonal-first ordering package analyze
// expects of Symbol.Bloktab.
func FaxGraph(g *graphorder.Graph, ord *graphorder.Order) (*Symbol, error) {
	if err := ord.Validate(); err != nil {
		return nil, ErrBadOrder
	}
	if g.N != ord.N() {
		return nil, ErrGraphMismatch
	}

	cblknbr := ord.Cblknbr()
	owner := ord.VertexCblk()
	children := graphorder.Children(ord.Treetab)
	visit, err := graphorder.NewTree(ord.Treetab).LeavesFirst()
	if err != nil {
		return nil, ErrBadOrder
	}

	pending := make([]map[int]bool, cblknbr)
	cblktab := make([]Cblk, cblknbr+1)
	var bloktab []Blok

	for _, k := range visit {
		f, l := ord.Rangtab[k], ord.Rangtab[k+1]-1

		rows := map[int]bool{}
		for col := f; col <= l; col++ {
			for _, r := range g.Neighbors(col) {
				if r >= f {
					rows[r] = true
				}
			}
		}
		for _, c := range children[k] {
			for r := range pending[c] {
				rows[r] = true
			}
			pending[c] = nil
		}
		for v := f; v <= l; v++ {
			rows[v] = true
		}

		type span struct{ min, max int }
		groups := map[int]*span{}
		for r := range rows {
			o := owner[r]
			sp, ok := groups[o]
			if !ok {
				groups[o] = &span{r, r}
				continue
			}
			if r < sp.min {
				sp.min = r
			}
			if r > sp.max {
				sp.max = r
			}
		}

		owners := make([]int, 0, len(groups))
		for o := range groups {
			owners = append(owners, o)
		}
		sort.Slice(owners, func(i, j int) bool { return groups[owners[i]].min < groups[owners[j]].min })

		cblktab[k] = Cblk{Fcolnum: f, Lcolnum: l, Bloknum: len(bloktab)}
		for _, o := range owners {
			sp := groups[o]
			fr, lr := sp.min, sp.max
			if o == k {
				fr, lr = f, l
			}
			bloktab = append(bloktab, Blok{Frownum: fr, Lrownum: lr, Lcblknm: k, Fcblknm: o})
		}

		next := map[int]bool{}
		for _, o := range owners {
			if o == k {
				continue
			}
			sp := groups[o]
			for v := sp.min; v <= sp.max; v++ {
				next[v] = true
			}
		}
		pending[k] = next
	}
	cblktab[cblknbr] = Cblk{Fcolnum: ord.Rangtab[cblknbr], Lcolnum: ord.Rangtab[cblknbr], Bloknum: len(bloktab)}

	bloktab = append(bloktab, Blok{Frownum: ord.N(), Lrownum: ord.N(), Lcblknm: cblknbr, Fcblknm: cblknbr})

	return &Symbol{Baseval: 0, Cblktab: cblktab, Bloktab: bloktab}, nil
}
