// internal/realtime/cache.go
package realtime

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/hudzstore/backend/internal/models"
)

// State tracks a synced collection's lifecycle.
type State int

const (
	StateUninitialized State = iota
	StateLoading
	StateLive
)

// ProductLister is the authoritative initial-load source for the product
// cache.
type ProductLister interface {
	List(ctx context.Context) ([]models.Product, error)
}

// ProductCache keeps a locally held product list consistent with backend
// state: an authoritative initial load followed by incremental patches
// from the change feed. Patches are idempotent per event; no refetch is
// issued on change. A channel failure leaves the last known-good list in
// place with the error flag set.
type ProductCache struct {
	lister ProductLister

	mu       sync.RWMutex
	state    State
	products []models.Product
	err      error
	feedErr  func() error

	cancel    func()
	closeOnce sync.Once
	done      chan struct{}
}

func NewProductCache(lister ProductLister) *ProductCache {
	return &ProductCache{
		lister: lister,
		done:   make(chan struct{}),
	}
}

// Start performs the initial load and then applies events until the
// event channel closes or Close is called. cancel detaches the event
// subscription and is always invoked on teardown.
func (c *ProductCache) Start(ctx context.Context, events <-chan models.ChangeEvent, cancel func()) {
	c.mu.Lock()
	c.state = StateLoading
	c.cancel = cancel
	c.mu.Unlock()

	c.load(ctx)

	go func() {
		defer cancel()
		for {
			select {
			case <-ctx.Done():
				return
			case <-c.done:
				return
			case event, ok := <-events:
				if !ok {
					return
				}
				c.Apply(&event)
			}
		}
	}()
}

// load runs the authoritative fetch. Failure transitions to Live with an
// empty collection and a recorded error; there is no automatic retry.
func (c *ProductCache) load(ctx context.Context) {
	products, err := c.lister.List(ctx)

	c.mu.Lock()
	c.state = StateLive
	c.products = products
	c.err = err
	c.mu.Unlock()

	if err != nil {
		logrus.WithError(err).Error("Product cache initial load failed")
	}
}

// Refetch re-runs the authoritative load. Callers invoke it explicitly,
// e.g. from a manual refresh action or after a channel disruption.
func (c *ProductCache) Refetch(ctx context.Context) {
	c.load(ctx)
}

// Apply patches the local list with one change event. Events for other
// tables are ignored.
func (c *ProductCache) Apply(event *models.ChangeEvent) {
	if event.Table != models.TableProducts {
		return
	}

	switch event.Action {
	case models.ChangeActionInsert, models.ChangeActionUpdate, models.ChangeActionDelete:
	default:
		return
	}

	product, err := event.Product()
	if err != nil {
		logrus.WithError(err).Warn("Dropping undecodable product change event")
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	switch event.Action {
	case models.ChangeActionInsert:
		// Idempotent against duplicate delivery.
		for i := range c.products {
			if c.products[i].ID == product.ID {
				return
			}
		}
		// Prepend: preserves newest-first assuming inserts are observed in
		// creation order.
		c.products = append([]models.Product{*product}, c.products...)

	case models.ChangeActionUpdate:
		// Replace in place; a no-op when the row was already removed, so a
		// late update never resurrects a deleted product.
		for i := range c.products {
			if c.products[i].ID == product.ID {
				c.products[i] = *product
				return
			}
		}

	case models.ChangeActionDelete:
		for i := range c.products {
			if c.products[i].ID == product.ID {
				c.products = append(c.products[:i], c.products[i+1:]...)
				return
			}
		}
	}
}

// Products returns a copy of the current collection.
func (c *ProductCache) Products() []models.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.Product, len(c.products))
	copy(out, c.products)
	return out
}

func (c *ProductCache) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// TrackFeed registers a change-feed health check folded into Err, so a
// broken subscription degrades the read surface even while the last
// known-good data keeps serving.
func (c *ProductCache) TrackFeed(errFn func() error) {
	c.mu.Lock()
	c.feedErr = errFn
	c.mu.Unlock()
}

func (c *ProductCache) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.err != nil {
		return c.err
	}
	if c.feedErr != nil {
		return c.feedErr()
	}
	return nil
}

// Close detaches from the event feed. It runs the cleanup regardless of
// which state the cache is in.
func (c *ProductCache) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.mu.RLock()
		cancel := c.cancel
		c.mu.RUnlock()
		if cancel != nil {
			cancel()
		}
	})
}
