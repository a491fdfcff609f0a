// internal/realtime/settings_cache_test.go
package realtime

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hudzstore/backend/internal/models"
)

type stubLoader struct {
	mu       sync.Mutex
	settings models.SiteSettings
	err      error
	calls    int
}

func (s *stubLoader) Load(ctx context.Context) (models.SiteSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return models.DefaultSiteSettings(), s.err
	}
	return s.settings, nil
}

func (s *stubLoader) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func TestSettingsCacheAnyEventTriggersRefetch(t *testing.T) {
	loader := &stubLoader{settings: models.DefaultSiteSettings()}
	cache := NewSettingsCache(loader)
	cache.load(context.Background())
	require.Equal(t, 1, loader.callCount())

	// Every action on the settings table refetches wholesale
	for _, action := range []models.ChangeAction{
		models.ChangeActionInsert,
		models.ChangeActionUpdate,
		models.ChangeActionDelete,
	} {
		event := models.ChangeEvent{Table: models.TableSiteSettings, Action: action}
		cache.Apply(context.Background(), &event)
	}
	assert.Equal(t, 4, loader.callCount())

	// Product events are not ours
	event := models.ChangeEvent{Table: models.TableProducts, Action: models.ChangeActionInsert}
	cache.Apply(context.Background(), &event)
	assert.Equal(t, 4, loader.callCount())
}

func TestSettingsCacheReplacesWholesale(t *testing.T) {
	updated := models.DefaultSiteSettings()
	updated.SiteName = "NewName"

	loader := &stubLoader{settings: models.DefaultSiteSettings()}
	cache := NewSettingsCache(loader)
	cache.load(context.Background())

	loader.mu.Lock()
	loader.settings = updated
	loader.mu.Unlock()

	event := models.ChangeEvent{Table: models.TableSiteSettings, Action: models.ChangeActionUpdate}
	cache.Apply(context.Background(), &event)

	assert.Equal(t, "NewName", cache.Settings().SiteName)
	// Untouched fields keep their values
	assert.Equal(t, models.DefaultSiteSettings().Tagline, cache.Settings().Tagline)
}

func TestSettingsCacheLoadFailureKeepsDefaults(t *testing.T) {
	loader := &stubLoader{err: errors.New("connection refused")}
	cache := NewSettingsCache(loader)
	cache.load(context.Background())

	assert.Equal(t, StateLive, cache.State())
	assert.Error(t, cache.Err())
	assert.Equal(t, models.DefaultSiteSettings(), cache.Settings())
}

func TestSettingsCacheTrackFeed(t *testing.T) {
	loader := &stubLoader{settings: models.DefaultSiteSettings()}
	cache := NewSettingsCache(loader)
	cache.load(context.Background())
	require.NoError(t, cache.Err())

	feedErr := errors.New("listener disconnected")
	cache.TrackFeed(func() error { return feedErr })
	assert.ErrorIs(t, cache.Err(), feedErr)
	assert.Equal(t, models.DefaultSiteSettings(), cache.Settings())
}
