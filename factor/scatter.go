// Copyright ©2026 The sparselin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package factor

import (
	"github.com/ArtNlk/sparselin/blockmatrix"
	"github.com/ArtNlk/sparselin/graphorder"
	"github.com/ArtNlk/sparselin/kernel"
)

// Scatter implements spec.md §4.4's scattering contract: every CSC
// entry a_ij is located within the SolverMatrix and written at its
// block-relative offset. For i ≥ j (lower triangle) the entry lands in
// L's storage (Coef); for LU with i < j it lands in U's separate
// storage, conjugated for Hermitian transposes. Entries outside the
// symbolic pattern are dropped and reported (ILU mode only — the exact
// case's pattern always contains A's own nonzeros).
func Scatter[T kernel.Numeric](sm *blockmatrix.SolverMatrix[T], csc *graphorder.CSC[T], ord interface{ VertexCblk() []int }, hermitian bool) []error {
	owner := ord.VertexCblk()
	var dropped []error

	for j := 0; j < csc.N; j++ {
		p := owner[j]
		sm.Allocate(p)
		width := sm.Width(p)
		fcol := sm.Sym.Cblktab[p].Fcolnum

		for idx := csc.Colptr[j]; idx < csc.Colptr[j+1]; idx++ {
			i := csc.Rowind[idx]
			v := csc.Values[idx]

			if i >= j {
				blok, ok := sm.Sym.FindFacingBlock(p, i, i, false)
				if !ok {
					dropped = append(dropped, &DroppedEntry{Row: i, Col: j})
					continue
				}
				b := sm.Sym.Bloktab[blok]
				row := sm.Coefind[blok] + (i - b.Frownum)
				col := j - fcol
				sm.Panels[p].Coef[row*width+col] = v
				continue
			}

			// i < j: upper triangle, only meaningful for LU's separate U
			// storage (symmetric/Hermitian factorizations only ever see
			// the lower triangle per graphorder.CSC's own contract). U is
			// stored as a twin of L with i and j's roles swapped: i is the
			// earlier supernode here, so the facing block is found in
			// owner[i]'s panel searching for row j, mirroring how the
			// lower-triangle branch above finds row i in owner[j]'s panel.
			if sm.Kind != blockmatrix.LU {
				continue
			}
			pu := owner[i]
			sm.Allocate(pu)
			widthU := sm.Width(pu)
			fcolU := sm.Sym.Cblktab[pu].Fcolnum
			blok, ok := sm.Sym.FindFacingBlock(pu, j, j, false)
			if !ok {
				dropped = append(dropped, &DroppedEntry{Row: i, Col: j})
				continue
			}
			b := sm.Sym.Bloktab[blok]
			row := sm.Coefind[blok] + (j - b.Frownum)
			col := i - fcolU
			if hermitian {
				v = kernel.Conj(v)
			}
			sm.Panels[pu].U[row*widthU+col] = v
		}
	}
	return dropped
}
