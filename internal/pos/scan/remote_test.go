package scan

import (
	"context"
	"errors"
	"testing"
	"time"

	"retailpos/internal/domain"
)

type stubQueue struct {
	entries    []domain.QueueEntry
	pollErr    error
	clearErr   error
	clearCalls int
}

func (q *stubQueue) PollQueue(_ context.Context, _ string) ([]domain.QueueEntry, error) {
	if q.pollErr != nil {
		return nil, q.pollErr
	}
	out := make([]domain.QueueEntry, len(q.entries))
	copy(out, q.entries)
	return out, nil
}

func (q *stubQueue) ClearQueue(_ context.Context, _ string) error {
	if q.clearErr != nil {
		return q.clearErr
	}
	q.clearCalls++
	q.entries = nil
	return nil
}

func TestRemotePoller_DrainAppliesAndClears(t *testing.T) {
	q := &stubQueue{entries: []domain.QueueEntry{
		{ID: "e1", Code: "PROD-1", PushedAt: time.Now()},
		{ID: "e2", Code: "PROD-2", PushedAt: time.Now()},
	}}
	var applied []Event
	p := NewRemotePoller(q, "sess", time.Second, func(ev Event) error {
		applied = append(applied, ev)
		return nil
	}, nil)

	if err := p.DrainOnce(context.Background()); err != nil {
		t.Fatalf("drain: %v", err)
	}
	if len(applied) != 2 {
		t.Fatalf("expected 2 applied events, got %d", len(applied))
	}
	if applied[0].Source != SourceRemoteSession {
		t.Fatalf("expected remote-session source, got %s", applied[0].Source)
	}
	if q.clearCalls != 1 {
		t.Fatalf("expected one clear, got %d", q.clearCalls)
	}
}

func TestRemotePoller_RedeliveryAfterFailedClearIsNoop(t *testing.T) {
	q := &stubQueue{
		entries:  []domain.QueueEntry{{ID: "e1", Code: "PROD-1"}},
		clearErr: errors.New("network down"),
	}
	var applied int
	p := NewRemotePoller(q, "sess", time.Second, func(Event) error {
		applied++
		return nil
	}, nil)

	// First drain applies the entry but cannot acknowledge it.
	if err := p.DrainOnce(context.Background()); err != nil {
		t.Fatalf("drain: %v", err)
	}
	// The backend redelivers the identical entry id on the next poll.
	q.clearErr = nil
	if err := p.DrainOnce(context.Background()); err != nil {
		t.Fatalf("second drain: %v", err)
	}
	if applied != 1 {
		t.Fatalf("replayed entry applied %d times, want 1", applied)
	}
	if q.clearCalls != 1 {
		t.Fatalf("expected clear on second drain, got %d", q.clearCalls)
	}
}

func TestRemotePoller_ApplyFailureLeavesQueueUncleared(t *testing.T) {
	q := &stubQueue{entries: []domain.QueueEntry{{ID: "e1", Code: "PROD-1"}}}
	boom := errors.New("cart gone")
	p := NewRemotePoller(q, "sess", time.Second, func(Event) error { return boom }, nil)

	if err := p.DrainOnce(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected apply error, got %v", err)
	}
	if q.clearCalls != 0 {
		t.Fatalf("queue cleared despite failed apply")
	}
	// The entry was never marked applied, so the retry goes through.
	var ok int
	p.apply = func(Event) error { ok++; return nil }
	if err := p.DrainOnce(context.Background()); err != nil {
		t.Fatalf("retry drain: %v", err)
	}
	if ok != 1 {
		t.Fatalf("expected entry applied on retry, got %d", ok)
	}
}

func TestRemotePoller_PollErrorSurfaces(t *testing.T) {
	q := &stubQueue{pollErr: errors.New("timeout")}
	p := NewRemotePoller(q, "sess", time.Second, func(Event) error { return nil }, nil)
	if err := p.DrainOnce(context.Background()); err == nil {
		t.Fatal("expected poll error")
	}
}

func TestRemotePoller_RunStopsWithContext(t *testing.T) {
	q := &stubQueue{}
	p := NewRemotePoller(q, "sess", 10*time.Millisecond, func(Event) error { return nil }, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("poller outlived its context")
	}
}
