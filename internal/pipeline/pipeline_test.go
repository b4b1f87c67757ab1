package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func TestRunPreservesOrderAcrossWorkers(t *testing.T) {
	const n = 2000
	cfg := Config{Workers: 8, WorkQueue: 16, OrderedOut: 16}

	produce := func(ctx context.Context, emit func(int) error) error {
		for i := 0; i < n; i++ {
			if err := emit(i); err != nil {
				return err
			}
		}
		return nil
	}
	// process scrambles completion order: odd items return fast, even
	// items spin briefly, so a correct drain must still observe 0..n-1.
	process := func(ctx context.Context, in int) (int, error) {
		if in%2 == 0 {
			for j := 0; j < 500; j++ {
			}
		}
		return in * 2, nil
	}

	var got []int
	drain := func(ctx context.Context, out int) error {
		got = append(got, out)
		return nil
	}

	if err := Run[int, int](context.Background(), cfg, produce, process, drain); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(got) != n {
		t.Fatalf("len(got) = %d, want %d", len(got), n)
	}
	for i, v := range got {
		if v != i*2 {
			t.Fatalf("got[%d] = %d, want %d (ordering violated)", i, v, i*2)
		}
	}
}

func TestRunStopsOnFirstProcessError(t *testing.T) {
	const n = 1000
	boom := errors.New("boom at 500")
	cfg := Config{Workers: 4}

	produce := func(ctx context.Context, emit func(int) error) error {
		for i := 0; i < n; i++ {
			if err := emit(i); err != nil {
				return err
			}
		}
		return nil
	}
	process := func(ctx context.Context, in int) (int, error) {
		if in == 500 {
			return 0, boom
		}
		return in, nil
	}

	var mu sync.Mutex
	drained := 0
	drain := func(ctx context.Context, out int) error {
		mu.Lock()
		drained++
		mu.Unlock()
		return nil
	}

	err := Run[int, int](context.Background(), cfg, produce, process, drain)
	if !errors.Is(err, boom) {
		t.Fatalf("Run() error = %v, want %v", err, boom)
	}
	// The pipeline must not deliver past the failing sequence tag.
	if drained > 500 {
		t.Fatalf("drained %d items past the failing tag 500", drained)
	}
}

func TestRunStopsOnFirstDrainError(t *testing.T) {
	const n = 100
	boom := errors.New("drain boom")
	cfg := Config{Workers: 2}

	produce := func(ctx context.Context, emit func(int) error) error {
		for i := 0; i < n; i++ {
			if err := emit(i); err != nil {
				return err
			}
		}
		return nil
	}
	process := func(ctx context.Context, in int) (int, error) {
		return in, nil
	}
	drain := func(ctx context.Context, out int) error {
		if out == 10 {
			return boom
		}
		return nil
	}

	err := Run[int, int](context.Background(), cfg, produce, process, drain)
	if !errors.Is(err, boom) {
		t.Fatalf("Run() error = %v, want %v", err, boom)
	}
}

func TestRunEmptyProducerSucceeds(t *testing.T) {
	cfg := Config{Workers: 3}
	produce := func(ctx context.Context, emit func(int) error) error { return nil }
	process := func(ctx context.Context, in int) (int, error) { return in, nil }
	called := false
	drain := func(ctx context.Context, out int) error {
		called = true
		return nil
	}

	if err := Run[int, int](context.Background(), cfg, produce, process, drain); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if called {
		t.Fatal("drain should not be called for an empty producer")
	}
}
