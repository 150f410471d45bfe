// Copyright ©2026 The sparselin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package graphorder holds the symbolic inputs to the solver core: the
// symmetrized adjacency graph of A's nonzero pattern, and the Order
// (permutation, supernode partition, elimination tree) that an external
// fill-reducing ordering routine produces from it. Neither the ordering
// heuristic nor matrix I/O is implemented here; this package only defines
// and validates the data these external collaborators hand to the rest of
// the solver.
package graphorder

import "fmt"

// Graph is the 0-based, symmetrized adjacency of A's nonzero structure.
// Colptr has length N+1; Rowind[Colptr[j]:Colptr[j+1]] lists the neighbors
// of vertex j, excluding j itself.
type Graph struct {
	N      int
	Colptr []int
	Rowind []int
}

// NewGraph validates and wraps colptr/rowind as a Graph. It does not
// symmetrize or sort; use Symmetrize for that.
func NewGraph(n int, colptr, rowind []int) (*Graph, error) {
	if n < 0 {
		return nil, fmt.Errorf("graphorder: negative vertex count %d", n)
	}
	if len(colptr) != n+1 {
		return nil, fmt.Errorf("graphorder: colptr length %d, want %d", len(colptr), n+1)
	}
	for j := 0; j < n; j++ {
		if colptr[j] > colptr[j+1] {
			return nil, fmt.Errorf("graphorder: colptr not monotone at %d", j)
		}
	}
	if colptr[0] != 0 {
		return nil, fmt.Errorf("graphorder: colptr[0] = %d, want 0", colptr[0])
	}
	if colptr[n] != len(rowind) {
		return nil, fmt.Errorf("graphorder: colptr[n] = %d, want len(rowind) = %d", colptr[n], len(rowind))
	}
	for _, r := range rowind {
		if r < 0 || r >= n {
			return nil, fmt.Errorf("graphorder: rowind entry %d out of range [0,%d)", r, n)
		}
	}
	return &Graph{N: n, Colptr: colptr, Rowind: rowind}, nil
}

// Degree returns the number of neighbors of vertex v.
func (g *Graph) Degree(v int) int {
	return g.Colptr[v+1] - g.Colptr[v]
}

// Neighbors returns the adjacency slice of vertex v.
func (g *Graph) Neighbors(v int) []int {
	return g.Rowind[g.Colptr[v]:g.Colptr[v+1]]
}

// Symmetrize returns a new Graph whose pattern is the union of g's pattern
// and its transpose, with self-loops removed and each adjacency list
// sorted and deduplicated. The symbol builder (package symbolic) requires
// a symmetrized graph; an asymmetric input pattern (as in a general,
// non-structurally-symmetric A) is a legitimate input here, handled by
// this union rather than by rejecting it.
func (g *Graph) Symmetrize() *Graph {
	adj := make([][]int, g.N)
	for v := 0; v < g.N; v++ {
		for _, u := range g.Neighbors(v) {
			if u == v {
				continue
			}
			adj[v] = append(adj[v], u)
			adj[u] = append(adj[u], v)
		}
	}
	colptr := make([]int, g.N+1)
	var rowind []int
	for v := 0; v < g.N; v++ {
		seen := make(map[int]struct{}, len(adj[v]))
		start := len(rowind)
		for _, u := range adj[v] {
			if _, dup := seen[u]; dup {
				continue
			}
			seen[u] = struct{}{}
			rowind = append(rowind, u)
		}
		sortInts(rowind[start:])
		colptr[v+1] = len(rowind)
	}
	return &Graph{N: g.N, Colptr: colptr, Rowind: rowind}
}

func sortInts(s []int) {
	// insertion sort: adjacency lists are short relative to n for the
	// sparse patterns this solver targets.
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}
