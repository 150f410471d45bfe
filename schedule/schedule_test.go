// Copyright ©2026 The sparselin Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schedule

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
)

func TestSequentialRunParallel(t *testing.T) {
	var sum int64
	s := Sequential{}
	err := s.RunParallel(context.Background(), 10, func(_ context.Context, lo, hi int) error {
		for i := lo; i < hi; i++ {
			atomic.AddInt64(&sum, int64(i))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("RunParallel: %v", err)
	}
	if sum != 45 {
		t.Fatalf("sum = %d, want 45", sum)
	}
}

func TestPoolRunParallelPartitions(t *testing.T) {
	p := NewPool(4, BindAuto)
	var touched int64
	err := p.RunParallel(context.Background(), 100, func(_ context.Context, lo, hi int) error {
		atomic.AddInt64(&touched, int64(hi-lo))
		return nil
	})
	if err != nil {
		t.Fatalf("RunParallel: %v", err)
	}
	if touched != 100 {
		t.Fatalf("touched = %d, want 100", touched)
	}
}

func TestPoolRunParallelPropagatesError(t *testing.T) {
	p := NewPool(2, BindNone)
	want := errors.New("boom")
	err := p.RunParallel(context.Background(), 10, func(_ context.Context, lo, hi int) error {
		if lo == 0 {
			return want
		}
		return nil
	})
	if err == nil {
		t.Fatal("want error")
	}
}

func TestTaskGraphDynamicSubmission(t *testing.T) {
	tg := NewTaskGraph(2, 3)
	var order []int32
	var next int32

	tg.Submit(func(ctx context.Context) error {
		order = append(order, atomic.AddInt32(&next, 1))
		tg.Submit(func(ctx context.Context) error {
			order = append(order, atomic.AddInt32(&next, 1))
			tg.Submit(func(ctx context.Context) error {
				order = append(order, atomic.AddInt32(&next, 1))
				return nil
			})
			return nil
		})
		return nil
	})

	if err := tg.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if next != 3 {
		t.Fatalf("ran %d tasks, want 3", next)
	}
}
