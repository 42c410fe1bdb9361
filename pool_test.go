package mdpreview

import (
	"errors"
	"testing"
)

func TestRendererPoolLazyCreation(t *testing.T) {
	t.Parallel()

	pool := NewRendererPool(2)
	defer pool.Close()

	if pool.created != 0 {
		t.Errorf("pool created %d renderers at construction, want 0", pool.created)
	}

	r, err := pool.Acquire()
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if r == nil {
		t.Fatal("Acquire() returned nil renderer")
	}
	pool.Release(r)

	if pool.created != 1 {
		t.Errorf("pool created %d renderers, want 1", pool.created)
	}
}

func TestRendererPoolReusesReleased(t *testing.T) {
	t.Parallel()

	pool := NewRendererPool(1)
	defer pool.Close()

	r1, err := pool.Acquire()
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	pool.Release(r1)

	r2, err := pool.Acquire()
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	defer pool.Release(r2)

	if r1 != r2 {
		t.Error("pool did not reuse released renderer")
	}
	if pool.created != 1 {
		t.Errorf("pool created %d renderers, want 1", pool.created)
	}
}

func TestRendererPoolMinimumSize(t *testing.T) {
	t.Parallel()

	pool := NewRendererPool(0)
	defer pool.Close()

	if pool.size != 1 {
		t.Errorf("pool size = %d, want 1", pool.size)
	}
}

func TestRendererPoolAcquireAfterClose(t *testing.T) {
	t.Parallel()

	pool := NewRendererPool(1)
	if err := pool.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	_, err := pool.Acquire()
	if !errors.Is(err, ErrPoolClosed) {
		t.Errorf("Acquire() error = %v, want ErrPoolClosed", err)
	}
}

func TestRendererPoolCloseTwice(t *testing.T) {
	t.Parallel()

	pool := NewRendererPool(1)
	if err := pool.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := pool.Close(); err != nil {
		t.Fatalf("Close() second call error = %v", err)
	}
}

func TestRendererPoolPropagatesOptionErrors(t *testing.T) {
	t.Parallel()

	pool := NewRendererPool(1, WithStyle("no-such-style"))
	defer pool.Close()

	_, err := pool.Acquire()
	if !errors.Is(err, ErrStyleNotFound) {
		t.Errorf("Acquire() error = %v, want ErrStyleNotFound", err)
	}

	// The failed slot is reclaimed for a later attempt.
	if pool.created != 0 {
		t.Errorf("pool created = %d after failed acquire, want 0", pool.created)
	}
}

func TestDefaultPoolSizeBounds(t *testing.T) {
	t.Parallel()

	n := DefaultPoolSize()
	if n < MinPoolSize || n > MaxPoolSize {
		t.Errorf("DefaultPoolSize() = %d, want within [%d, %d]", n, MinPoolSize, MaxPoolSize)
	}
}
