// Copyright ©2026 The sparselin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package schedule provides the task-execution abstraction spec.md
// §4.7 requires: the core never spawns threads directly, it always
// goes through a Scheduler. Two back-ends are provided: Sequential
// (single-threaded, authoritative for correctness) and Pool (a worker
// pool built on golang.org/x/sync/errgroup).
package schedule

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Binding selects how workers are pinned to OS threads. Go's runtime
// schedules goroutines itself; Binding is recorded on the Pool at
// construction and not otherwise read, matching the source's pin/auto/none
// policy vocabulary without pinning OS threads or changing GOMAXPROCS (Go offers no
// portable API for that, and the solver's correctness never depends on
// it — see DESIGN.md).
type Binding int

const (
	BindNone Binding = iota
	BindAuto
	BindPin
)

// Scheduler is the capability every back-end exposes. RunParallel
// divides [0,n) into contiguous partitions, one per worker, and calls
// fn with each worker's partition; it blocks until every worker is
// done or one returns an error (in which case the first error is
// returned and anything still running is let finish, matching spec.md
// §7's "scheduler errors ... discard partial state" policy applied by
// the caller, not by cancellation, since kernels are not
// interruptible mid-flight per spec.md §5).
type Scheduler interface {
	RunParallel(ctx context.Context, n int, fn func(ctx context.Context, lo, hi int) error) error
	Workers() int
}

// Sequential runs every task-list partition inline in one goroutine;
// it is always available and is the authoritative reference for
// correctness (spec.md §5).
type Sequential struct{}

func (Sequential) Workers() int { return 1 }

func (Sequential) RunParallel(ctx context.Context, n int, fn func(ctx context.Context, lo, hi int) error) error {
	return fn(ctx, 0, n)
}

// Pool runs task-list partitions across Workers goroutines using
// errgroup, the concurrency primitive the rest of the pack (and
// gonum's own internal tooling) reaches for over a hand-rolled
// WaitGroup+channel combination.
type Pool struct {
	Workers_ int
	Binding  Binding
}

// NewPool constructs a Pool with the given worker count (at least 1).
func NewPool(workers int, binding Binding) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{Workers_: workers, Binding: binding}
}

func (p *Pool) Workers() int { return p.Workers_ }

func (p *Pool) RunParallel(ctx context.Context, n int, fn func(ctx context.Context, lo, hi int) error) error {
	if n == 0 {
		return nil
	}
	workers := p.Workers_
	if workers > n {
		workers = n
	}
	g, gctx := errgroup.WithContext(ctx)
	chunk := (n + workers - 1) / workers
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		if lo >= hi {
			continue
		}
		g.Go(func() error {
			return fn(gctx, lo, hi)
		})
	}
	return g.Wait()
}
