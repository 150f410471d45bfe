// Copyright ©2026 The sparselin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package symbolic builds the symbol matrix: the combinatorial
// description of the factor's nonzero block pattern, derived from a
// graph and supernode partition (package graphorder) without touching
// any numeric value. Two algorithms are provided, matching spec.md
// §4.1: FaxGraph (direct, from an already-amalgamated partition) and
// Kass (ILU(k)/amalgamation from scratch).
package symbolic

// Cblk describes one supernode's column range and where its blocks
// start in the block table. Brownum is filled in later by package
// analyze; it is zero here.
type Cblk struct {
	Fcolnum, Lcolnum int
	Bloknum          int
	Brownum          int
}

// Blok describes one dense rectangular block of L within a column-block.
type Blok struct {
	Frownum, Lrownum int
	Lcblknm          int
	Fcblknm          int
}

// Symbol is the symbol matrix: Cblktab has length cblknbr+1 (the last
// entry is a sentinel holding end offsets), Bloktab has length
// bloknbr+1 likewise. Browtab is populated by package analyze.
type Symbol struct {
	Baseval int
	Cblktab []Cblk
	Bloktab []Blok
	Browtab []int
}

// Cblknbr returns the number of supernodes.
func (s *Symbol) Cblknbr() int { return len(s.Cblktab) - 1 }

// Bloknbr returns the number of blocks.
func (s *Symbol) Bloknbr() int { return len(s.Bloktab) - 1 }

// Bloks returns the blocks belonging to supernode k (excluding the
// sentinel), sorted by Frownum with the diagonal block first.
func (s *Symbol) Bloks(k int) []Blok {
	return s.Bloktab[s.Cblktab[k].Bloknum:s.Cblktab[k+1].Bloknum]
}

// BlokIndices returns the half-open [start,end) index range into Bloktab
// for supernode k's blocks.
func (s *Symbol) BlokIndices(k int) (start, end int) {
	return s.Cblktab[k].Bloknum, s.Cblktab[k+1].Bloknum
}

// FindFacingBlock implements spec.md §4.1's face-finding rule: within
// facing column-block fcblk's own block list, locate the block whose
// row range contains [fr,lr] (the exact, non-ILU case always finds one).
// In ILU mode it accepts the first block whose range intersects [fr,lr],
// or reports "not found" at the first block with Frownum > lr, meaning
// the update must be dropped (no facing block — see spec.md §9's open
// question on this exact behavior).
func (s *Symbol) FindFacingBlock(fcblk, fr, lr int, ilu bool) (idx int, found bool) {
	start, end := s.BlokIndices(fcblk)
	for i := start; i < end; i++ {
		b := s.Bloktab[i]
		if !ilu {
			if b.Frownum <= fr && lr <= b.Lrownum {
				return i, true
			}
			continue
		}
		if b.Frownum <= lr && fr <= b.Lrownum {
			return i, true
		}
		if b.Frownum > lr {
			return -1, false
		}
	}
	return -1, false
}
