package notif

import (
	"context"
	"log"
	"sync"
	"time"
)

// UnreadCounter consumes one user's live notification stream and keeps
// an in-memory unread count. Each insert event is one increment; the
// counter owns reconciliation against the authoritative count via a
// periodic refetch, which bounds the drift a missed event would
// otherwise leave until the next page load.
type UnreadCounter struct {
	mu      sync.Mutex
	count   int64
	updates chan int64
	cancel  context.CancelFunc
	done    chan struct{}
}

// StartCounter seeds the counter from the authoritative count, then
// follows the live stream. A resyncInterval of zero disables the
// periodic reconciliation. Cancel the context (or call Close) to tear
// the subscription down; Updates is closed afterwards.
func StartCounter(ctx context.Context, svc Service, userID string, resyncInterval time.Duration) (*UnreadCounter, error) {
	ctx, cancel := context.WithCancel(ctx)

	sub, err := svc.Subscribe(ctx, userID)
	if err != nil {
		cancel()
		return nil, err
	}

	initial, err := svc.UnreadCount(ctx, userID)
	if err != nil {
		sub.Close()
		cancel()
		return nil, err
	}

	c := &UnreadCounter{
		count:   initial,
		updates: make(chan int64, 16),
		cancel:  cancel,
		done:    make(chan struct{}),
	}

	go func() {
		defer close(c.done)
		defer close(c.updates)
		defer sub.Close()

		var resync <-chan time.Time
		if resyncInterval > 0 {
			ticker := time.NewTicker(resyncInterval)
			defer ticker.Stop()
			resync = ticker.C
		}

		for {
			select {
			case _, ok := <-sub.Events():
				if !ok {
					return
				}
				c.set(c.Count() + 1)

			case <-resync:
				count, err := svc.UnreadCount(ctx, userID)
				if err != nil {
					log.Printf("unread resync failed for %s: %v", userID, err)
					continue
				}
				c.set(count)

			case <-ctx.Done():
				return
			}
		}
	}()

	return c, nil
}

func (c *UnreadCounter) Count() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

// Updates yields the count after every change. Slow consumers lose
// intermediate values, never the stream itself.
func (c *UnreadCounter) Updates() <-chan int64 {
	return c.updates
}

func (c *UnreadCounter) Close() {
	c.cancel()
	<-c.done
}

func (c *UnreadCounter) set(count int64) {
	c.mu.Lock()
	c.count = count
	c.mu.Unlock()

	select {
	case c.updates <- count:
	default: // drop rather than block the stream
	}
}
