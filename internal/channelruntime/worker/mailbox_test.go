package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestMailboxesKeepPerKeyOrder(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	seen := map[int][]int{}
	var wg sync.WaitGroup
	boxes := NewMailboxes[int, int](ctx, MailboxOptions[int]{
		Sem: make(chan struct{}, 4),
		Handle: func(_ context.Context, job int) {
			defer wg.Done()
			mu.Lock()
			seen[job/1000] = append(seen[job/1000], job%1000)
			mu.Unlock()
		},
	})

	const perKey = 100
	for key := 0; key < 3; key++ {
		for i := 0; i < perKey; i++ {
			wg.Add(1)
			if err := boxes.Enqueue(ctx, key, key*1000+i); err != nil {
				t.Fatalf("Enqueue() error = %v", err)
			}
		}
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	for key := 0; key < 3; key++ {
		got := seen[key]
		if len(got) != perKey {
			t.Fatalf("key %d handled %d jobs, want %d", key, len(got), perKey)
		}
		for i, v := range got {
			if v != i {
				t.Fatalf("key %d job %d = %d, out of order", key, i, v)
			}
		}
	}
}

func TestMailboxesRunKeysInParallel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	release := make(chan struct{})
	started := make(chan int, 2)
	boxes := NewMailboxes[int, int](ctx, MailboxOptions[int]{
		Handle: func(_ context.Context, job int) {
			started <- job
			<-release
		},
	})
	_ = boxes.Enqueue(ctx, 1, 1)
	_ = boxes.Enqueue(ctx, 2, 2)

	for i := 0; i < 2; i++ {
		select {
		case <-started:
		case <-time.After(2 * time.Second):
			t.Fatalf("key blocked behind another key")
		}
	}
	close(release)
}

func TestMailboxesSemaphoreBoundsHandlers(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var running, peak atomic.Int32
	var wg sync.WaitGroup
	boxes := NewMailboxes[int, int](ctx, MailboxOptions[int]{
		Sem: make(chan struct{}, 2),
		Handle: func(_ context.Context, _ int) {
			defer wg.Done()
			n := running.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			running.Add(-1)
		},
	})
	for key := 0; key < 8; key++ {
		wg.Add(1)
		_ = boxes.Enqueue(ctx, key, key)
	}
	wg.Wait()
	if p := peak.Load(); p > 2 {
		t.Fatalf("peak concurrent handlers = %d, want <= 2", p)
	}
}

func TestMailboxesIdleWorkerExitsAndRestarts(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handled := make(chan int, 4)
	boxes := NewMailboxes[string, int](ctx, MailboxOptions[int]{
		IdleTimeout: 10 * time.Millisecond,
		Handle: func(_ context.Context, job int) {
			handled <- job
		},
	})

	_ = boxes.Enqueue(ctx, "a", 1)
	<-handled
	deadline := time.Now().Add(2 * time.Second)
	for boxes.Len() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("idle worker still running")
		}
		time.Sleep(5 * time.Millisecond)
	}

	if err := boxes.Enqueue(ctx, "a", 2); err != nil {
		t.Fatalf("Enqueue() after idle exit error = %v", err)
	}
	select {
	case got := <-handled:
		if got != 2 {
			t.Fatalf("handled %d, want 2", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("restarted worker did not handle the job")
	}
}

func TestMailboxesStopWithContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	boxes := NewMailboxes[int, int](ctx, MailboxOptions[int]{
		Handle: func(context.Context, int) {},
	})
	_ = boxes.Enqueue(ctx, 1, 1)
	cancel()

	done := make(chan struct{})
	go func() {
		boxes.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Wait() did not return after cancel")
	}
	if err := boxes.Enqueue(context.Background(), 1, 2); err == nil {
		t.Fatalf("Enqueue() after cancel: expected error")
	}
}
