// Package service implements the listing write path: normalization, id
// allocation, the multi-table sync engine, archival and the read-side
// formatter.
package service

import (
	"context"
	"sync"
	"time"

	"github.com/stevenovak55/bmnboston-sub015/internal/cdn"
	"github.com/stevenovak55/bmnboston-sub015/internal/logging"
)

// ListingChanged is published after a listing write transaction commits.
// Subscribers run strictly after commit so they can never observe or cause
// a rollback.
type ListingChanged struct {
	ListingID  int64
	ListingKey string
	DetailPath string
	Deleted    bool
}

// Subscriber reacts to committed listing changes. Handlers are best-effort;
// errors stay inside the subscriber.
type Subscriber interface {
	Name() string
	HandleListingChanged(ctx context.Context, event ListingChanged)
}

// Dispatcher fans committed change events out to subscribers, each on its
// own goroutine so one slow subscriber cannot delay the others.
type Dispatcher struct {
	subscribers []Subscriber
	timeout     time.Duration
	logger      *logging.Logger
	wg          sync.WaitGroup
}

// NewDispatcher creates a dispatcher.
func NewDispatcher(logger *logging.Logger, subscribers ...Subscriber) *Dispatcher {
	return &Dispatcher{
		subscribers: subscribers,
		timeout:     30 * time.Second,
		logger:      logger,
	}
}

// Publish delivers the event to every subscriber asynchronously. The
// deliveries get a detached context so an already-finished request cannot
// cancel them.
func (d *Dispatcher) Publish(event ListingChanged) {
	for _, sub := range d.subscribers {
		d.wg.Add(1)
		go func(sub Subscriber) {
			defer d.wg.Done()
			defer func() {
				if r := recover(); r != nil {
					d.logger.WithFields(map[string]interface{}{
						"subscriber": sub.Name(),
						"panic":      r,
					}).Error("Subscriber panicked handling listing change")
				}
			}()

			ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
			defer cancel()
			sub.HandleListingChanged(ctx, event)
		}(sub)
	}
}

// Wait blocks until all in-flight deliveries finish. Used on shutdown and
// in tests.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// ListingCache is the cache invalidation surface the subscriber needs.
type ListingCache interface {
	InvalidateListing(ctx context.Context, listingKey string) error
}

// CacheInvalidator drops the cached view variants for a changed listing.
type CacheInvalidator struct {
	cache  ListingCache
	logger *logging.Logger
}

// NewCacheInvalidator creates the cache invalidation subscriber.
func NewCacheInvalidator(cache ListingCache, logger *logging.Logger) *CacheInvalidator {
	return &CacheInvalidator{cache: cache, logger: logger}
}

// Name implements Subscriber.
func (s *CacheInvalidator) Name() string { return "cache-invalidator" }

// HandleListingChanged implements Subscriber.
func (s *CacheInvalidator) HandleListingChanged(ctx context.Context, event ListingChanged) {
	if err := s.cache.InvalidateListing(ctx, event.ListingKey); err != nil {
		s.logger.WithError(err).
			WithField("listingKey", event.ListingKey).
			Warn("Failed to invalidate listing cache, stale entry will expire via TTL")
	}
}

// CDNPurger purges the listing detail path at the edge.
type CDNPurger struct {
	purger *cdn.Purger
}

// NewCDNPurger creates the CDN purge subscriber.
func NewCDNPurger(purger *cdn.Purger) *CDNPurger {
	return &CDNPurger{purger: purger}
}

// Name implements Subscriber.
func (s *CDNPurger) Name() string { return "cdn-purger" }

// HandleListingChanged implements Subscriber.
func (s *CDNPurger) HandleListingChanged(ctx context.Context, event ListingChanged) {
	s.purger.Purge(ctx, event.DetailPath)
}
