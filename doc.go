// Copyright ©2026 The sparselin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sparselin implements the core of a parallel supernodal sparse
// direct solver for A·x = b, where A is a square sparse matrix that may be
// general, symmetric, or Hermitian, in real or complex arithmetic.
//
// The solver factorizes A into block triangular factors (LU, LLᵀ, LDLᵀ, or
// LDLᴴ) using a supernodal, block-partitioned algorithm, then solves by
// forward/backward substitution, optionally followed by iterative
// refinement. The pipeline is split across these subpackages:
//
//   - graphorder: the input graph, the fill-reducing permutation, the
//     supernode partition, and the elimination tree (symbolic inputs
//     produced by an external ordering routine).
//   - symbolic: derives the block structure of the factor (the "symbol
//     matrix") from the graph and the supernode partition.
//   - analyze: compacts the symbol matrix, builds its reverse row table,
//     patches it so every supernode has a successor, and optionally
//     reorders rows within a supernode to shrink block counts.
//   - blockmatrix: allocates the numeric overlay (the "solver matrix") on
//     the frozen symbol: per-block coefficient offsets, the task table,
//     and flop estimates.
//   - factor: the supernodal numeric factorization engine.
//   - triangular: the block forward/backward substitution solve.
//   - refine: Krylov (GMRES, CG, BiCGStab) and simple iterative refinement
//     drivers, using the factorization as a preconditioner.
//   - schedule: the task scheduler abstraction (sequential and
//     goroutine-pool back-ends) consumed by factor, triangular, and refine.
//
// Out of scope: the fill-reducing ordering algorithm itself, matrix I/O
// drivers, raw CSC/CSR format conversion, distributed-memory transport,
// and low-rank compression (kernel.Compress is exposed only as a
// placeholder hook).
package sparselin
