// Copyright ©2026 The sparselin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package graphorder

import "fmt"

// Order is the fill-reducing permutation together with the supernode
// partition and elimination tree that an external ordering routine
// derives from a Graph. The solver core only consumes these tables; it
// never computes the permutation itself.
type Order struct {
	// Permtab maps old vertex index to new index: new = Permtab[old].
	Permtab []int
	// Peritab is the inverse permutation: old = Peritab[new].
	Peritab []int
	// Rangtab holds cblknbr+1 strictly increasing supernode boundaries in
	// the new numbering; supernode k covers [Rangtab[k], Rangtab[k+1]).
	Rangtab []int
	// Treetab holds the elimination-tree parent of each supernode; the
	// root (there may be several, forming a forest) has parent -1.
	Treetab []int
}

// N returns the number of vertices.
func (o *Order) N() int { return len(o.Permtab) }

// Cblknbr returns the number of supernodes.
func (o *Order) Cblknbr() int { return len(o.Rangtab) - 1 }

// Validate checks every invariant spec.md §3 requires of an Order:
// permtab is a bijection over [0,n), rangtab is strictly increasing from
// 0 to n, treetab encodes a forest, and permtab∘peritab is the identity.
func (o *Order) Validate() error {
	n := len(o.Permtab)
	if len(o.Peritab) != n {
		return fmt.Errorf("graphorder: peritab length %d, want %d", len(o.Peritab), n)
	}
	seen := make([]bool, n)
	for old, nu := range o.Permtab {
		if nu < 0 || nu >= n {
			return fmt.Errorf("graphorder: permtab[%d] = %d out of range", old, nu)
		}
		if seen[nu] {
			return fmt.Errorf("graphorder: permtab is not injective at new index %d", nu)
		}
		seen[nu] = true
	}
	for i := 0; i < n; i++ {
		old := o.Peritab[i]
		if old < 0 || old >= n {
			return fmt.Errorf("graphorder: peritab[%d] = %d out of range", i, old)
		}
		if o.Permtab[old] != i {
			return fmt.Errorf("graphorder: permtab[peritab[%d]] = %d, want %d", i, o.Permtab[old], i)
		}
	}

	if len(o.Rangtab) < 1 {
		return fmt.Errorf("graphorder: rangtab must have at least one entry")
	}
	if o.Rangtab[0] != 0 {
		return fmt.Errorf("graphorder: rangtab[0] = %d, want 0", o.Rangtab[0])
	}
	for k := 0; k < len(o.Rangtab)-1; k++ {
		if o.Rangtab[k] >= o.Rangtab[k+1] {
			return fmt.Errorf("graphorder: rangtab not strictly increasing at %d", k)
		}
	}
	if last := o.Rangtab[len(o.Rangtab)-1]; last != n {
		return fmt.Errorf("graphorder: rangtab[cblknbr] = %d, want n = %d", last, n)
	}

	cblknbr := o.Cblknbr()
	if len(o.Treetab) != cblknbr {
		return fmt.Errorf("graphorder: treetab length %d, want cblknbr = %d", len(o.Treetab), cblknbr)
	}
	for k, p := range o.Treetab {
		if p == -1 {
			continue
		}
		if p < 0 || p >= cblknbr {
			return fmt.Errorf("graphorder: treetab[%d] = %d out of range", k, p)
		}
		if p == k {
			return fmt.Errorf("graphorder: treetab[%d] points to itself", k)
		}
	}
	if hasCycle(o.Treetab) {
		return fmt.Errorf("graphorder: treetab contains a cycle")
	}
	return nil
}

func hasCycle(parent []int) bool {
	state := make([]int8, len(parent)) // 0 unvisited, 1 in-progress, 2 done
	var visit func(k int) bool
	visit = func(k int) bool {
		switch state[k] {
		case 2:
			return false
		case 1:
			return true
		}
		state[k] = 1
		if p := parent[k]; p != -1 {
			if visit(p) {
				return true
			}
		}
		state[k] = 2
		return false
	}
	for k := range parent {
		if state[k] == 0 && visit(k) {
			return true
		}
	}
	return false
}

// VertexCblk returns, for each of the Order's n vertices (new numbering),
// the index of the supernode (in Rangtab) that contains it.
func (o *Order) VertexCblk() []int {
	n := o.N()
	owner := make([]int, n)
	cblknbr := o.Cblknbr()
	for k := 0; k < cblknbr; k++ {
		for v := o.Rangtab[k]; v < o.Rangtab[k+1]; v++ {
			owner[v] = k
		}
	}
	return owner
}
