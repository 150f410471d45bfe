// Copyright ©2026 The sparselin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package analyze implements symbol analysis (spec.md §4.2): realigning
// the symbol tables, building the browtab reverse structure, patching
// the elimination tree so every non-root supernode has an incoming
// block ("rustine"), and the optional in-panel row-reordering heuristic.
package analyze

import (
	"fmt"
	"sort"

	"github.com/ArtNlk/sparselin/graphorder"
	"github.com/ArtNlk/sparselin/symbolic"
)

// RustinePolicy selects where the rustine patch targets its sentinel
// block when supernode k+1 has no incoming block. The source
// variants disagree (see spec.md §9's open question); TargetNext (k+1)
// is the default, TargetRoot is the documented alternative.
type RustinePolicy int

const (
	TargetNext RustinePolicy = iota
	TargetRoot
)

// Options controls symbol analysis.
type Options struct {
	Rustine RustinePolicy
	// MinBlocksize/MaxBlocksize carry the panel-width bounds from
	// Params. Analysis does not split panels (the partition is fixed by
	// C2) and does not check panel widths against these bounds.
	MinBlocksize, MaxBlocksize int
}

// Analyze runs the three C3 responsibilities that operate on an already
// final symbol: realign/compact, the rustine patch, and browtab
// construction. The fourth responsibility, in-panel row reordering, is
// exposed separately as ReorderOrder because it must run *before* the
// symbol it improves is built (reordering changes which rows are
// contiguous within a panel, which only takes effect once C2 is re-run
// over the reordered Order — see ReorderOrder's doc comment).
func Analyze(sym *symbolic.Symbol, opts Options) (*symbolic.Symbol, error) {
	compact(sym)
	patchRustine(sym, opts.Rustine)
	BuildBrowtab(sym)

	if err := Validate(sym); err != nil {
		return nil, err
	}
	return sym, nil
}

// compact re-sorts each panel's blocks by Frownum (diagonal first) and
// rebuilds Bloknum offsets into a freshly packed Bloktab, satisfying
// spec.md §4.2(a)'s exact-size storage requirement.
func compact(sym *symbolic.Symbol) {
	cblknbr := sym.Cblknbr()
	packed := make([]symbolic.Blok, 0, len(sym.Bloktab))
	for k := 0; k < cblknbr; k++ {
		bloks := append([]symbolic.Blok(nil), sym.Bloks(k)...)
		sort.SliceStable(bloks, func(i, j int) bool {
			if bloks[i].Fcblknm == k && bloks[j].Fcblknm != k {
				return true
			}
			if bloks[j].Fcblknm == k && bloks[i].Fcblknm != k {
				return false
			}
			return bloks[i].Frownum < bloks[j].Frownum
		})
		sym.Cblktab[k].Bloknum = len(packed)
		packed = append(packed, bloks...)
	}
	sym.Cblktab[cblknbr].Bloknum = len(packed)
	packed = append(packed, sym.Bloktab[len(sym.Bloktab)-1])
	sym.Bloktab = packed
}

// patchRustine implements spec.md §4.2(c): every supernode other than
// the root must be the facing cblk of at least one off-diagonal block.
// For each panel k below the last, it inserts into panel k a single-row
// (Frownum==Lrownum) sentinel at fcolnum(target) whenever supernode k+1
// has no incoming off-diagonal block from any panel.
func patchRustine(sym *symbolic.Symbol, policy RustinePolicy) {
	cblknbr := sym.Cblknbr()
	if cblknbr == 0 {
		return
	}
	hasIncoming := make([]bool, cblknbr)
	for k := 0; k < cblknbr; k++ {
		for _, b := range sym.Bloks(k) {
			if b.Fcblknm != k {
				hasIncoming[b.Fcblknm] = true
			}
		}
	}

	var inserts []struct {
		panel int
		blok  symbolic.Blok
	}
	for k := 0; k < cblknbr-1; k++ {
		if hasIncoming[k+1] {
			continue
		}
		target := k + 1
		if policy == TargetRoot {
			target = cblknbr - 1
		}
		if target == k {
			continue
		}
		fr := sym.Cblktab[target].Fcolnum
		inserts = append(inserts, struct {
			panel int
			blok  symbolic.Blok
		}{k, symbolic.Blok{Frownum: fr, Lrownum: fr, Lcblknm: k, Fcblknm: target}})
		hasIncoming[target] = true
	}
	if len(inserts) == 0 {
		return
	}

	byPanel := make(map[int][]symbolic.Blok)
	for _, ins := range inserts {
		byPanel[ins.panel] = append(byPanel[ins.panel], ins.blok)
	}

	packed := make([]symbolic.Blok, 0, len(sym.Bloktab)+len(inserts))
	for k := 0; k < cblknbr; k++ {
		bloks := append([]symbolic.Blok(nil), sym.Bloks(k)...)
		bloks = append(bloks, byPanel[k]...)
		sort.SliceStable(bloks, func(i, j int) bool {
			if bloks[i].Fcblknm == k && bloks[j].Fcblknm != k {
				return true
			}
			if bloks[j].Fcblknm == k && bloks[i].Fcblknm != k {
				return false
			}
			return bloks[i].Frownum < bloks[j].Frownum
		})
		sym.Cblktab[k].Bloknum = len(packed)
		packed = append(packed, bloks...)
	}
	sym.Cblktab[cblknbr].Bloknum = len(packed)
	packed = append(packed, sym.Bloktab[len(sym.Bloktab)-1])
	sym.Bloktab = packed
}

// BuildBrowtab implements spec.md §4.2(b)'s two-pass construction.
// Exported so package persist can rebuild Browtab after loading a
// dumped symbol, which the text format of spec.md §6 omits.
func BuildBrowtab(sym *symbolic.Symbol) {
	cblknbr := sym.Cblknbr()
	bloknbr := sym.Bloknbr()

	counts := make([]int, cblknbr)
	for i := 0; i < bloknbr; i++ {
		b := sym.Bloktab[i]
		if b.Fcblknm != b.Lcblknm {
			counts[b.Fcblknm]++
		}
	}
	brownum := make([]int, cblknbr+1)
	for k := 0; k < cblknbr; k++ {
		brownum[k+1] = brownum[k] + counts[k]
	}
	for k := 0; k <= cblknbr; k++ {
		if k < cblknbr {
			sym.Cblktab[k].Brownum = brownum[k]
		}
	}
	sym.Cblktab[cblknbr].Brownum = brownum[cblknbr]

	cursor := append([]int(nil), brownum...)
	browtab := make([]int, brownum[cblknbr])
	for i := 0; i < bloknbr; i++ {
		b := sym.Bloktab[i]
		if b.Fcblknm == b.Lcblknm {
			continue
		}
		browtab[cursor[b.Fcblknm]] = i
		cursor[b.Fcblknm]++
	}
	sym.Browtab = browtab
}

// Validate checks the §3 panel-layout and browtab-total invariants.
func Validate(sym *symbolic.Symbol) error {
	cblknbr := sym.Cblknbr()
	bloknbr := sym.Bloknbr()
	for k := 0; k < cblknbr; k++ {
		bloks := sym.Bloks(k)
		if len(bloks) == 0 {
			return fmt.Errorf("analyze: panel %d has no diagonal block", k)
		}
		if bloks[0].Fcblknm != k {
			return fmt.Errorf("analyze: panel %d's first block is not its diagonal", k)
		}
		for i := 1; i < len(bloks); i++ {
			if bloks[i].Frownum <= bloks[i-1].Lrownum {
				return fmt.Errorf("analyze: panel %d blocks %d,%d not strictly increasing", k, i-1, i)
			}
		}
	}
	edges := bloknbr - cblknbr
	if got := sym.Cblktab[cblknbr].Brownum; got != edges && cblknbr > 0 {
		return fmt.Errorf("analyze: browtab total %d, want bloknbr-cblknbr = %d", got, edges)
	}
	return nil
}
