// Copyright ©2026 The sparselin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package persist implements the plain-text symbol dump/load format of
// spec.md §6: a header line, then fixed tables for Cblktab and Bloktab.
// The format omits Browtab and Lcblknm (both are mechanically derivable
// from the tables it does store), so Load reconstructs them the same
// way package analyze does when building a fresh symbol.
package persist

import (
	"bufio"
	"fmt"
	"io"

	"github.com/ArtNlk/sparselin/analyze"
	"github.com/ArtNlk/sparselin/symbolic"
)

// Dump writes sym to w in the layout:
//
//	<baseval> <cblknbr> <bloknbr> <nodenbr>
//	(cblknbr+1 lines) <fcolnum> <lcolnum> <bloknum>
//	(bloknbr lines)   <frownum> <lrownum> <fcblknm>
func Dump(w io.Writer, sym *symbolic.Symbol) error {
	cblknbr := sym.Cblknbr()
	bloknbr := sym.Bloknbr()
	nodenbr := sym.Cblktab[cblknbr].Fcolnum

	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "%d %d %d %d\n", sym.Baseval, cblknbr, bloknbr, nodenbr); err != nil {
		return err
	}
	for k := 0; k <= cblknbr; k++ {
		c := sym.Cblktab[k]
		if _, err := fmt.Fprintf(bw, "%d %d %d\n", c.Fcolnum, c.Lcolnum, c.Bloknum); err != nil {
			return err
		}
	}
	for i := 0; i < bloknbr; i++ {
		b := sym.Bloktab[i]
		if _, err := fmt.Fprintf(bw, "%d %d %d\n", b.Frownum, b.Lrownum, b.Fcblknm); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Load reads a symbol previously written by Dump, reconstructs Lcblknm
// (from block position relative to Cblktab's Bloknum ranges) and
// Browtab (via analyze.BuildBrowtab), then runs analyze.Validate before
// returning. That check covers the panel layout (diagonal block first,
// strictly increasing row ranges) and the browtab total; it does not
// check that each block's rows lie inside its facing cblk's column
// range, nor the per-cblk browtab counts.
func Load(r io.Reader) (*symbolic.Symbol, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var baseval, cblknbr, bloknbr, nodenbr int
	if !sc.Scan() {
		return nil, fmt.Errorf("persist: empty input")
	}
	if _, err := fmt.Sscanf(sc.Text(), "%d %d %d %d", &baseval, &cblknbr, &bloknbr, &nodenbr); err != nil {
		return nil, fmt.Errorf("persist: bad header: %w", err)
	}
	if cblknbr < 0 || bloknbr < 0 {
		return nil, fmt.Errorf("persist: negative cblknbr/bloknbr in header")
	}

	sym := &symbolic.Symbol{
		Baseval: baseval,
		Cblktab: make([]symbolic.Cblk, cblknbr+1),
		Bloktab: make([]symbolic.Blok, bloknbr+1),
	}

	for k := 0; k <= cblknbr; k++ {
		if !sc.Scan() {
			return nil, fmt.Errorf("persist: truncated cblktab at line %d", k)
		}
		var fc, lc, bn int
		if _, err := fmt.Sscanf(sc.Text(), "%d %d %d", &fc, &lc, &bn); err != nil {
			return nil, fmt.Errorf("persist: bad cblktab line %d: %w", k, err)
		}
		sym.Cblktab[k] = symbolic.Cblk{Fcolnum: fc, Lcolnum: lc, Bloknum: bn}
	}

	for i := 0; i < bloknbr; i++ {
		if !sc.Scan() {
			return nil, fmt.Errorf("persist: truncated bloktab at line %d", i)
		}
		var fr, lr, fcblknm int
		if _, err := fmt.Sscanf(sc.Text(), "%d %d %d", &fr, &lr, &fcblknm); err != nil {
			return nil, fmt.Errorf("persist: bad bloktab line %d: %w", i, err)
		}
		sym.Bloktab[i] = symbolic.Blok{Frownum: fr, Lrownum: lr, Fcblknm: fcblknm}
	}
	// Sentinel block: end-of-table marker.
	sym.Bloktab[bloknbr] = symbolic.Blok{Frownum: nodenbr, Lrownum: nodenbr, Lcblknm: cblknbr, Fcblknm: cblknbr}

	for k := 0; k < cblknbr; k++ {
		start, end := sym.Cblktab[k].Bloknum, sym.Cblktab[k+1].Bloknum
		for i := start; i < end; i++ {
			sym.Bloktab[i].Lcblknm = k
		}
	}

	analyze.BuildBrowtab(sym)
	if err := analyze.Validate(sym); err != nil {
		return nil, fmt.Errorf("persist: loaded symbol failed validation: %w", err)
	}
	return sym, nil
}
