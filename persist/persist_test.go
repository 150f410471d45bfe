// Copyright ©2026 The sparselin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package persist

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ArtNlk/sparselin/analyze"
	"github.com/ArtNlk/sparselin/graphorder"
	"github.com/ArtNlk/sparselin/symbolic"
)

// chainSymbol builds the same 4-vertex path fixture package analyze
// tests against, already compacted/patched/browtab-built.
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

func TestDumpLoadRoundTrip(t *testing.T) {
	want := chainSymbol(t)

	var buf bytes.Buffer
	if err := Dump(&buf, want); err != nil {
		t.Fatalf("Dump: %v", err)
	}

	got, err := Load(&buf)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if diff := cmp.Diff(want.Cblktab, got.Cblktab); diff != "" {
		t.Errorf("Cblktab mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want.Bloktab, got.Bloktab); diff != "" {
		t.Errorf("Bloktab mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want.Browtab, got.Browtab); diff != "" {
		t.Errorf("Browtab mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadRejectsTruncatedInput(t *testing.T) {
	_, err := Load(bytes.NewBufferString("0 2 3 4\n0 0 0\n"))
	if err == nil {
		t.Fatal("want error for truncated input")
	}
}

func TestLoadRejectsBadHeader(t *testing.T) {
	_, err := Load(bytes.NewBufferString("not a header\n"))
	if err == nil {
		t.Fatal("want error for malformed header")
	}
}
