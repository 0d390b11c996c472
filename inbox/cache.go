// Package inbox caches the normalized mailbox of the default account.
package inbox

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/masa23/crmmail/mailope"
	"github.com/masa23/crmmail/model"
)

const DefaultDuration = 30 * time.Second

var ErrNotFound = errors.New("email not found")

type Status string

const (
	StatusOK       Status = "ok"
	StatusDegraded Status = "degraded"
	StatusError    Status = "error"
)

type Source interface {
	Fetch(ctx context.Context) ([]model.EmailRecord, error)
}

type SourceFunc func(ctx context.Context) ([]model.EmailRecord, error)

func (f SourceFunc) Fetch(ctx context.Context) ([]model.EmailRecord, error) {
	return f(ctx)
}

// Snapshot is a copy of the cache at one point in time.
type Snapshot struct {
	Emails    []model.EmailRecord
	Status    Status
	Reason    string
	FetchedAt time.Time
}

// Cache serves the mailbox from memory for Duration after each successful
// fetch. Refreshes hold the lock, so concurrent readers of a stale cache
// wait for a single fetch.
type Cache struct {
	Duration time.Duration
	Now      func() time.Time

	mu        sync.Mutex
	source    Source
	emails    []model.EmailRecord
	lastFetch time.Time
}

func New(source Source, duration time.Duration) *Cache {
	if duration <= 0 {
		duration = DefaultDuration
	}
	return &Cache{
		Duration: duration,
		Now:      time.Now,
		source:   source,
	}
}

func (c *Cache) fresh(now time.Time) bool {
	return !c.lastFetch.IsZero() && now.Sub(c.lastFetch) < c.Duration
}

// Get returns the cached mailbox, fetching first when it is cold or stale.
//
// A failed fetch keeps the previous list and reports StatusDegraded. With
// nothing cached a single placeholder record is returned instead; it is
// never stored. A cancelled ctx reports StatusError.
func (c *Cache) Get(ctx context.Context) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.Now()
	if c.fresh(now) {
		return c.snapshotLocked(StatusOK, "")
	}
	return c.fetchLocked(ctx, now)
}

func (c *Cache) fetchLocked(ctx context.Context, now time.Time) Snapshot {
	emails, err := c.source.Fetch(ctx)
	if err == nil {
		if emails == nil {
			emails = []model.EmailRecord{}
		}
		c.emails = emails
		c.lastFetch = now
		return c.snapshotLocked(StatusOK, "")
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		log.Printf("Mailbox fetch aborted: %v", ctxErr)
		return c.snapshotLocked(StatusError, ctxErr.Error())
	}

	log.Printf("Mailbox fetch failed: %v", err)
	if len(c.emails) > 0 {
		return c.snapshotLocked(StatusDegraded, err.Error())
	}
	return Snapshot{
		Emails:    []model.EmailRecord{mailope.Placeholder(now)},
		Status:    StatusDegraded,
		Reason:    err.Error(),
		FetchedAt: now,
	}
}

func (c *Cache) snapshotLocked(status Status, reason string) Snapshot {
	emails := make([]model.EmailRecord, len(c.emails))
	copy(emails, c.emails)
	return Snapshot{
		Emails:    emails,
		Status:    status,
		Reason:    reason,
		FetchedAt: c.lastFetch,
	}
}

// Invalidate empties the cache so the next Get fetches.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.emails = nil
	c.lastFetch = time.Time{}
}

// Refresh invalidates and fetches immediately.
func (c *Cache) Refresh(ctx context.Context) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.emails = nil
	c.lastFetch = time.Time{}
	return c.fetchLocked(ctx, c.Now())
}

// Find looks id up in the cached list without fetching.
func (c *Cache) Find(id uint32) (model.EmailRecord, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.emails {
		if e.ID == id {
			return e, true
		}
	}
	return model.EmailRecord{}, false
}

// Update applies fn to the cached record id and returns the result.
// Changes are local to the cache and lost on the next fetch.
func (c *Cache) Update(id uint32, fn func(*model.EmailRecord)) (model.EmailRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.emails {
		if c.emails[i].ID == id {
			fn(&c.emails[i])
			c.emails[i].ID = id
			return c.emails[i], nil
		}
	}
	return model.EmailRecord{}, ErrNotFound
}
