// internal/realtime/cache_test.go
package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hudzstore/backend/internal/models"
)

type stubLister struct {
	products []models.Product
	err      error
	calls    int
}

func (s *stubLister) List(ctx context.Context) ([]models.Product, error) {
	s.calls++
	if s.err != nil {
		return []models.Product{}, s.err
	}
	return s.products, nil
}

func makeProduct(t *testing.T, name string) models.Product {
	t.Helper()
	return models.Product{
		BaseModel: models.BaseModel{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
		},
		Name:     name,
		Category: models.CategoryPaid,
	}
}

func makeEvent(t *testing.T, action models.ChangeAction, p models.Product) models.ChangeEvent {
	t.Helper()
	row, err := json.Marshal(p)
	require.NoError(t, err)
	return models.ChangeEvent{
		Table:  models.TableProducts,
		Action: action,
		Row:    row,
	}
}

func liveCache(t *testing.T, initial ...models.Product) *ProductCache {
	t.Helper()
	cache := NewProductCache(&stubLister{products: initial})
	cache.load(context.Background())
	require.Equal(t, StateLive, cache.State())
	return cache
}

func TestProductCacheInsertIdempotent(t *testing.T) {
	cache := liveCache(t)
	p := makeProduct(t, "Kit Desain")
	event := makeEvent(t, models.ChangeActionInsert, p)

	cache.Apply(&event)
	cache.Apply(&event)

	products := cache.Products()
	require.Len(t, products, 1)
	assert.Equal(t, p.ID, products[0].ID)
}

func TestProductCacheInsertPrepends(t *testing.T) {
	older := makeProduct(t, "Older")
	cache := liveCache(t, older)

	newer := makeProduct(t, "Newer")
	event := makeEvent(t, models.ChangeActionInsert, newer)
	cache.Apply(&event)

	products := cache.Products()
	require.Len(t, products, 2)
	assert.Equal(t, newer.ID, products[0].ID)
	assert.Equal(t, older.ID, products[1].ID)
}

func TestProductCacheUpdateReplacesInPlace(t *testing.T) {
	first := makeProduct(t, "First")
	second := makeProduct(t, "Second")
	cache := liveCache(t, first, second)

	second.Name = "Second Edition"
	event := makeEvent(t, models.ChangeActionUpdate, second)
	cache.Apply(&event)

	products := cache.Products()
	require.Len(t, products, 2)
	assert.Equal(t, "First", products[0].Name)
	assert.Equal(t, "Second Edition", products[1].Name)
}

func TestProductCacheUpdateAfterDeleteIsNoOp(t *testing.T) {
	p := makeProduct(t, "Ephemeral")
	other := makeProduct(t, "Survivor")
	cache := liveCache(t, p, other)

	deleteEvent := makeEvent(t, models.ChangeActionDelete, p)
	cache.Apply(&deleteEvent)
	require.Len(t, cache.Products(), 1)

	// A late update must not resurrect the deleted product
	p.Name = "Back from the dead"
	updateEvent := makeEvent(t, models.ChangeActionUpdate, p)
	cache.Apply(&updateEvent)

	products := cache.Products()
	require.Len(t, products, 1)
	assert.Equal(t, other.ID, products[0].ID)
}

func TestProductCacheDeleteAbsentIsNoOp(t *testing.T) {
	existing := makeProduct(t, "Existing")
	cache := liveCache(t, existing)

	event := makeEvent(t, models.ChangeActionDelete, makeProduct(t, "Never seen"))
	cache.Apply(&event)

	assert.Len(t, cache.Products(), 1)
}

func TestProductCacheIgnoresOtherTables(t *testing.T) {
	cache := liveCache(t)

	event := makeEvent(t, models.ChangeActionInsert, makeProduct(t, "Settings row"))
	event.Table = models.TableSiteSettings
	cache.Apply(&event)

	assert.Empty(t, cache.Products())
}

func TestProductCacheLoadFailure(t *testing.T) {
	lister := &stubLister{err: errors.New("connection refused")}
	cache := NewProductCache(lister)

	cache.load(context.Background())

	// Live with empty collection and a recorded error, no automatic retry
	assert.Equal(t, StateLive, cache.State())
	assert.Empty(t, cache.Products())
	assert.Error(t, cache.Err())
	assert.Equal(t, 1, lister.calls)
}

func TestProductCacheRefetchRecovers(t *testing.T) {
	lister := &stubLister{err: errors.New("connection refused")}
	cache := NewProductCache(lister)
	cache.load(context.Background())
	require.Error(t, cache.Err())

	lister.err = nil
	lister.products = []models.Product{makeProduct(t, "Recovered")}
	cache.Refetch(context.Background())

	assert.NoError(t, cache.Err())
	assert.Len(t, cache.Products(), 1)
}

func TestProductCacheStartAppliesEvents(t *testing.T) {
	cache := NewProductCache(&stubLister{})
	events := make(chan models.ChangeEvent)

	cancelled := false
	cache.Start(context.Background(), events, func() { cancelled = true })
	defer cache.Close()

	p := makeProduct(t, "Streamed")
	events <- makeEvent(t, models.ChangeActionInsert, p)

	assert.Eventually(t, func() bool {
		return len(cache.Products()) == 1
	}, time.Second, 10*time.Millisecond)

	close(events)
	assert.Eventually(t, func() bool { return cancelled }, time.Second, 10*time.Millisecond)
}

func TestProductCacheCloseRunsCancel(t *testing.T) {
	cache := NewProductCache(&stubLister{})
	events := make(chan models.ChangeEvent)

	cancelled := false
	cache.Start(context.Background(), events, func() { cancelled = true })

	cache.Close()
	assert.Eventually(t, func() bool { return cancelled }, time.Second, 10*time.Millisecond)
}

func TestProductCacheNewestFirstUnderOrderedInserts(t *testing.T) {
	cache := liveCache(t)

	for i := 0; i < 5; i++ {
		p := makeProduct(t, "Product")
		p.CreatedAt = time.Now().Add(time.Duration(i) * time.Second)
		event := makeEvent(t, models.ChangeActionInsert, p)
		cache.Apply(&event)
	}

	products := cache.Products()
	require.Len(t, products, 5)
	for i := 1; i < len(products); i++ {
		assert.True(t, !products[i-1].CreatedAt.Before(products[i].CreatedAt),
			"products must be newest-first")
	}
}

func TestProductCacheTrackFeed(t *testing.T) {
	cache := liveCache(t)
	require.NoError(t, cache.Err())

	feedErr := errors.New("listener disconnected")
	cache.TrackFeed(func() error { return feedErr })
	assert.ErrorIs(t, cache.Err(), feedErr)

	// Data is retained while the feed is down.
	assert.Equal(t, StateLive, cache.State())

	feedErr = nil
	assert.NoError(t, cache.Err())
}

func TestProductCacheCloseIsIdempotent(t *testing.T) {
	cache := NewProductCache(&stubLister{})
	events := make(chan models.ChangeEvent)
	cache.Start(context.Background(), events, func() {})

	done := make(chan struct{}, 2)
	for i := 0; i < 2; i++ {
		go func() {
			cache.Close()
			done <- struct{}{}
		}()
	}
	<-done
	<-done
}
