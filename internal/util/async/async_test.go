package async

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/SanatPandey22/AvereSDK/internal/errs"
)

func TestRunParallel_Success(t *testing.T) {
	var count atomic.Int32

	tasks := []Task{
		{Name: "task1", Func: func(_ context.Context) error {
			count.Add(1)
			return nil
		}},
		{Name: "task2", Func: func(_ context.Context) error {
			count.Add(1)
			return nil
		}},
		{Name: "task3", Func: func(_ context.Context) error {
			count.Add(1)
			return nil
		}},
	}

	err := RunParallel(context.Background(), tasks)
	if err != nil {
		t.Errorf("expected no error, got: %v", err)
	}

	if count.Load() != 3 {
		t.Errorf("expected 3 tasks to run, got %d", count.Load())
	}
}

func TestRunParallel_EmptyTasks(t *testing.T) {
	if err := RunParallel(context.Background(), nil); err != nil {
		t.Errorf("expected no error for empty tasks, got: %v", err)
	}

	if err := RunParallel(context.Background(), []Task{}); err != nil {
		t.Errorf("expected no error for empty slice, got: %v", err)
	}
}

func TestRunParallel_SingleError(t *testing.T) {
	expectedErr := errors.New("task failed")

	tasks := []Task{
		{Name: "success", Func: func(_ context.Context) error {
			return nil
		}},
		{Name: "failing", Func: func(_ context.Context) error {
			return expectedErr
		}},
	}

	err := RunParallel(context.Background(), tasks)
	if err == nil {
		t.Error("expected error, got nil")
	}

	if !errors.Is(err, expectedErr) {
		t.Errorf("expected error to wrap %v, got: %v", expectedErr, err)
	}
}

func TestRunParallel_AllTasksComplete(t *testing.T) {
	var completed atomic.Int32
	started := make(chan struct{}, 3)

	tasks := []Task{
		{Name: "fast-fail", Func: func(_ context.Context) error {
			started <- struct{}{}
			return errors.New("fast fail")
		}},
		{Name: "slow-success-1", Func: func(_ context.Context) error {
			started <- struct{}{}
			time.Sleep(50 * time.Millisecond)
			completed.Add(1)
			return nil
		}},
		{Name: "slow-success-2", Func: func(_ context.Context) error {
			started <- struct{}{}
			time.Sleep(50 * time.Millisecond)
			completed.Add(1)
			return nil
		}},
	}

	_ = RunParallel(context.Background(), tasks)

	// All tasks should have started
	for range 3 {
		select {
		case <-started:
		case <-time.After(100 * time.Millisecond):
			t.Fatal("not all tasks started")
		}
	}

	// All tasks should have completed even though one failed fast
	if completed.Load() != 2 {
		t.Errorf("expected 2 slow tasks to complete, got %d", completed.Load())
	}
}

func TestRunAll_CollectsEveryFailure(t *testing.T) {
	var ran atomic.Int32

	// 4 tasks, tasks 2 and 4 fail; 1 and 3 must still run to completion.
	tasks := []Task{
		{Name: "node-1", Func: func(_ context.Context) error {
			time.Sleep(20 * time.Millisecond)
			ran.Add(1)
			return nil
		}},
		{Name: "node-2", Func: func(_ context.Context) error {
			return errors.New("power state refused")
		}},
		{Name: "node-3", Func: func(_ context.Context) error {
			time.Sleep(20 * time.Millisecond)
			ran.Add(1)
			return nil
		}},
		{Name: "node-4", Func: func(_ context.Context) error {
			return errors.New("instance locked")
		}},
	}

	err := RunAll(context.Background(), tasks)
	if err == nil {
		t.Fatal("expected aggregate error, got nil")
	}

	var svc *errs.ServiceError
	if !errors.As(err, &svc) {
		t.Fatalf("expected ServiceError, got %T: %v", err, err)
	}
	if len(svc.Failures) != 2 {
		t.Fatalf("expected exactly 2 failures, got %d: %v", len(svc.Failures), svc.Failures)
	}
	if ran.Load() != 2 {
		t.Errorf("expected the 2 healthy tasks to complete, got %d", ran.Load())
	}

	names := map[string]bool{}
	for _, f := range svc.Failures {
		names[f.Description] = true
	}
	if !names["node-2"] || !names["node-4"] {
		t.Errorf("failure descriptions should name the failing tasks, got %v", svc.Failures)
	}
}

func TestRunAll_NoFailures(t *testing.T) {
	tasks := []Task{
		{Name: "a", Func: func(_ context.Context) error { return nil }},
		{Name: "b", Func: func(_ context.Context) error { return nil }},
	}
	if err := RunAll(context.Background(), tasks); err != nil {
		t.Errorf("expected nil, got: %v", err)
	}
	if err := RunAll(context.Background(), nil); err != nil {
		t.Errorf("expected nil for empty set, got: %v", err)
	}
}

func TestRunAll_OneGoroutinePerTask(t *testing.T) {
	var maxConcurrent atomic.Int32
	var current atomic.Int32

	tasks := make([]Task, 5)
	for i := range tasks {
		tasks[i] = Task{
			Name: "task",
			Func: func(_ context.Context) error {
				c := current.Add(1)
				for {
					old := maxConcurrent.Load()
					if c <= old || maxConcurrent.CompareAndSwap(old, c) {
						break
					}
				}
				time.Sleep(50 * time.Millisecond)
				current.Add(-1)
				return nil
			},
		}
	}

	if err := RunAll(context.Background(), tasks); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	if maxConcurrent.Load() != 5 {
		t.Errorf("expected 5 concurrent tasks, got %d", maxConcurrent.Load())
	}
}
