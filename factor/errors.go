// Copyright ©2026 The sparselin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package factor implements the supernodal numeric factorization engine
// (spec.md §4.4): scattering CSC values into the allocated SolverMatrix,
// then running the per-panel factor task (diagonal factor, panel TRSM,
// D-scale, GEMM/GEMDM Schur update) through a schedule.Scheduler.
package factor

import "fmt"

// StructuralError reports a required diagonal entry missing from the
// symbolic pattern (spec.md §4.4's fatal "structural zero" case).
type StructuralError struct {
	Cblk int
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("factor: structural zero on diagonal of panel %d", e.Cblk)
}

// PivotLimitExceeded reports that the running static-pivot count
// crossed the user-supplied limit.
type PivotLimitExceeded struct {
	Limit, Count int
}

func (e *PivotLimitExceeded) Error() string {
	return fmt.Sprintf("factor: pivot count %d exceeded limit %d", e.Count, e.Limit)
}

// DroppedEntry is a non-fatal warning: a CSC entry fell outside the
// symbolic pattern during scattering (only possible in ILU mode).
type DroppedEntry struct {
	Row, Col int
}

func (e *DroppedEntry) Error() string {
	return fmt.Sprintf("factor: entry (%d,%d) outside symbolic pattern, dropped", e.Row, e.Col)
}
