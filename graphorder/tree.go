// Copyright ©2026 The sparselin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package graphorder

import (
	"fmt"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// Tree presents Treetab as a gonum directed graph, edges running from a
// supernode to its elimination-tree parent, so the standard topological
// sort gives the leaves-before-parents order the numeric factorization
// (package factor) and the forward solve sweep (package triangular)
// traverse in, and its reverse gives the root-before-children order the
// backward solve sweep traverses in.
type Tree struct {
	g       *simple.DirectedGraph
	cblknbr int
}

// NewTree builds a Tree from an elimination-tree parent array.
func NewTree(treetab []int) *Tree {
	g := simple.NewDirectedGraph()
	for k := range treetab {
		g.AddNode(simple.Node(k))
	}
	for k, p := range treetab {
		if p == -1 {
			continue
		}
		g.SetEdge(g.NewEdge(simple.Node(k), simple.Node(p)))
	}
	return &Tree{g: g, cblknbr: len(treetab)}
}

// LeavesFirst returns a topological order of supernodes with every
// descendant preceding its ancestors: the order package factor's Engine
// and package triangular's forward solve sweep process panels in.
func (t *Tree) LeavesFirst() ([]int, error) {
	sorted, err := topo.Sort(t.g)
	if err != nil {
		return nil, fmt.Errorf("graphorder: elimination tree is not a forest: %w", err)
	}
	order := make([]int, len(sorted))
	for i, n := range sorted {
		order[i] = int(n.ID())
	}
	return order, nil
}

// RootFirst returns the reverse of LeavesFirst: the order package
// triangular's backward solve sweep traverses supernodes in.
func (t *Tree) RootFirst() ([]int, error) {
	order, err := t.LeavesFirst()
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}
	return order, nil
}

// Children returns, for every supernode, the list of its direct children
// in the elimination tree.
func Children(treetab []int) [][]int {
	children := make([][]int, len(treetab))
	for k, p := range treetab {
		if p == -1 {
			continue
		}
		children[p] = append(children[p], k)
	}
	return children
}

var _ graph.Directed = (*simple.DirectedGraph)(nil)
