package stream

import (
	"context"
	"testing"
	"time"
)

func receive[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v, ok := <-ch:
		if !ok {
			t.Fatalf("channel closed, want value")
		}
		return v
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for value")
	}
	var zero T
	return zero
}

func expectClosed[T any](t *testing.T, ch <-chan T) {
	t.Helper()
	select {
	case v, ok := <-ch:
		if ok {
			t.Fatalf("received %v, want closed channel", v)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for close")
	}
}

func TestBroadcast_FansOutInOrder(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	b := New[int]()
	first := b.Subscribe(ctx)
	second := b.Subscribe(ctx)

	for i := 1; i <= 100; i++ {
		b.Publish(i)
	}

	for _, ch := range []<-chan int{first, second} {
		for want := 1; want <= 100; want++ {
			if got := receive(t, ch); got != want {
				t.Fatalf("received %d, want %d", got, want)
			}
		}
	}
}

func TestBroadcast_ReplaysLatestToLateSubscriber(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	b := NewWithInitial("Loading...")
	early := b.Subscribe(ctx)
	if got := receive(t, early); got != "Loading..." {
		t.Fatalf("initial = %q, want Loading...", got)
	}

	b.Publish("Recent Searches")
	late := b.Subscribe(ctx)
	if got := receive(t, late); got != "Recent Searches" {
		t.Fatalf("late subscriber first value = %q, want Recent Searches", got)
	}
	if got := receive(t, early); got != "Recent Searches" {
		t.Fatalf("early subscriber = %q, want Recent Searches", got)
	}
}

func TestBroadcast_CloseDrainsThenCloses(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	b := New[int]()
	ch := b.Subscribe(ctx)
	b.Publish(1)
	b.Publish(2)
	b.Close()
	b.Publish(3)

	if got := receive(t, ch); got != 1 {
		t.Fatalf("got %d, want 1", got)
	}
	if got := receive(t, ch); got != 2 {
		t.Fatalf("got %d, want 2", got)
	}
	expectClosed(t, ch)

	after := b.Subscribe(ctx)
	if got := receive(t, after); got != 2 {
		t.Fatalf("subscribe after close replayed %d, want 2", got)
	}
	expectClosed(t, after)
}

func TestBroadcast_ContextCancelDetaches(t *testing.T) {
	b := New[int]()
	ctx, cancel := context.WithCancel(context.Background())
	ch := b.Subscribe(ctx)
	cancel()
	expectClosed(t, ch)

	deadline := time.Now().Add(2 * time.Second)
	for {
		b.mu.Lock()
		n := len(b.subs)
		b.mu.Unlock()
		if n == 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("subscriber still registered after cancel")
		}
		time.Sleep(5 * time.Millisecond)
	}

	// Publishing with no subscribers must not block.
	b.Publish(1)
}

func TestBroadcast_PublishDoesNotBlockOnIdleReader(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	b := New[int]()
	_ = b.Subscribe(ctx)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10000; i++ {
			b.Publish(i)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Publish blocked on a subscriber that never reads")
	}
}
