// Copyright ©2026 The sparselin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schedule

import (
	"context"
	"sync"
)

// TaskGraph runs an arbitrary number of named tasks whose readiness is
// signalled externally (the ctrbcnt-reaches-zero condition of spec.md
// §4.3/§4.4), rather than tasks that are all ready up front. Submit
// enqueues a ready task; Run drains the queue with workers goroutines
// until every expected task has run or a task returns an error (the
// context is handed to each task and not otherwise watched). This is the "task-submit API consumed by C5-C7" spec.md §4.7
// calls for, distinct from RunParallel's simpler fixed-partition shape.
type TaskGraph struct {
	workers int
	queue   chan func(context.Context) error

	mu       sync.Mutex
	pending  int
	err      error
	done     chan struct{}
	doneOnce sync.Once
}

// NewTaskGraph creates a TaskGraph expecting `total` tasks to be
// submitted over its lifetime, drained by `workers` goroutines.
func NewTaskGraph(workers, total int) *TaskGraph {
	if workers < 1 {
		workers = 1
	}
	if total < 0 {
		total = 0
	}
	return &TaskGraph{
		workers: workers,
		queue:   make(chan func(context.Context) error, total+1),
		pending: total,
		done:    make(chan struct{}),
	}
}

// Submit enqueues a ready task. Safe to call concurrently.
func (tg *TaskGraph) Submit(task func(context.Context) error) {
	tg.queue <- task
}

// Run starts the worker goroutines and blocks until every task
// submitted over the graph's lifetime (as declared to NewTaskGraph) has
// completed, or a task returns an error (the first error observed wins;
// the rest are dropped, matching spec.md §7's propagation policy).
func (tg *TaskGraph) Run(ctx context.Context) error {
	if tg.pending == 0 {
		return nil
	}
	var wg sync.WaitGroup
	wg.Add(tg.workers)
	for w := 0; w < tg.workers; w++ {
		go func() {
			defer wg.Done()
			for {
				select {
				case <-tg.done:
					return
				case task := <-tg.queue:
					err := task(ctx)
					tg.mu.Lock()
					if err != nil && tg.err == nil {
						tg.err = err
					}
					tg.pending--
					finished := tg.pending <= 0 || tg.err != nil
					tg.mu.Unlock()
					if finished {
						tg.doneOnce.Do(func() { close(tg.done) })
						return
					}
				}
			}
		}()
	}
	wg.Wait()
	return tg.err
}
