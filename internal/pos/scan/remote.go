package scan

import (
	"context"
	"io"
	"log"
	"time"

	"retailpos/internal/domain"
)

// Queue is the backend-mediated item queue of one remote scan session.
// Delivery is at-least-once: a failed clear means the same entries come back
// on the next poll.
type Queue interface {
	PollQueue(ctx context.Context, sessionCode string) ([]domain.QueueEntry, error)
	ClearQueue(ctx context.Context, sessionCode string) error
}

// DefaultPollInterval paces remote-session queue polling.
const DefaultPollInterval = 2 * time.Second

// RemotePoller drains a remote scan session on a fixed interval and applies
// each queued entry exactly once, keyed by the server-assigned entry id.
// The poller's lifetime is bound to the context it runs under, so it never
// outlives the dialog or terminal that owns it.
type RemotePoller struct {
	queue    Queue
	session  string
	interval time.Duration
	apply    func(Event) error
	logger   *log.Logger

	applied map[string]struct{}
}

func NewRemotePoller(queue Queue, sessionCode string, interval time.Duration, apply func(Event) error, logger *log.Logger) *RemotePoller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &RemotePoller{
		queue:    queue,
		session:  sessionCode,
		interval: interval,
		apply:    apply,
		logger:   logger,
		applied:  make(map[string]struct{}),
	}
}

// Run polls until the context is cancelled.
func (p *RemotePoller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := p.DrainOnce(ctx); err != nil {
				p.logger.Printf("remote poller: session=%s drain error=%v", p.session, err)
			}
		case <-ctx.Done():
			return
		}
	}
}

// DrainOnce performs one poll-apply-clear cycle. Entries whose ids were
// already applied are skipped, so redelivery after a failed clear is a
// no-op. The clear is only issued once every delivered entry has been
// applied.
func (p *RemotePoller) DrainOnce(ctx context.Context) error {
	entries, err := p.queue.PollQueue(ctx, p.session)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}
	for _, entry := range entries {
		if _, seen := p.applied[entry.ID]; seen {
			continue
		}
		at := entry.PushedAt
		if at.IsZero() {
			at = time.Now()
		}
		if err := p.apply(Event{Code: entry.Code, Source: SourceRemoteSession, At: at}); err != nil {
			// Leave the queue untouched; the entry is redelivered next poll.
			return err
		}
		p.applied[entry.ID] = struct{}{}
	}
	if err := p.queue.ClearQueue(ctx, p.session); err != nil {
		p.logger.Printf("remote poller: session=%s clear failed, relying on id dedup: %v", p.session, err)
	}
	return nil
}
