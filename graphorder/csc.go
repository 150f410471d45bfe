// Copyright ©2026 The sparselin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package graphorder

import "github.com/ArtNlk/sparselin/kernel"

// CSC is the boundary type through which numeric values enter the solver:
// a 0-based compressed-sparse-column matrix already in the new (permuted)
// numbering, lower-triangular only (Rowind[i] ≥ column j for every stored
// entry) for the symmetric/Hermitian factorizations. Format conversion
// to/from CSR, IJV, or 1-based storage is an external concern; CSC only
// wraps already-converted, already-permuted arrays.
type CSC[T kernel.Numeric] struct {
	N      int
	Colptr []int
	Rowind []int
	Values []T
}

// NNZ returns the number of stored entries.
func (c *CSC[T]) NNZ() int { return len(c.Rowind) }
