// Copyright ©2026 The sparselin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package symbolic

// Error reports why FaxGraph or Kass could not produce a symbol matrix.
type Error string

func (e Error) Error() string { return string(e) }

const (
	// ErrBadOrder is returned when the supplied Order fails its own
	// invariant checks (see graphorder.Order.Validate).
	ErrBadOrder = Error("symbolic: order failed validation")
	// ErrGraphMismatch is returned when the graph and order disagree on
	// the number of vertices.
	ErrGraphMismatch = Error("symbolic: graph and order vertex counts differ")
)
