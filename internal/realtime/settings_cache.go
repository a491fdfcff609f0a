// internal/realtime/settings_cache.go
package realtime

import (
	"context"
	"sync"

	"github.com/hudzstore/backend/internal/models"
)

// SettingsLoader is the authoritative source for the settings cache. The
// returned settings are always fully populated; the error marks whether
// they came from storage or from defaults.
type SettingsLoader interface {
	Load(ctx context.Context) (models.SiteSettings, error)
}

// SettingsCache keeps a locally held settings object consistent with
// backend state. Settings are few and change rarely, so any change event
// on the settings table triggers a wholesale refetch rather than
// key-level patching.
type SettingsCache struct {
	loader SettingsLoader

	mu       sync.RWMutex
	state    State
	settings models.SiteSettings
	err      error
	feedErr  func() error

	cancel    func()
	closeOnce sync.Once
	done      chan struct{}
}

func NewSettingsCache(loader SettingsLoader) *SettingsCache {
	return &SettingsCache{
		loader:   loader,
		settings: models.DefaultSiteSettings(),
		done:     make(chan struct{}),
	}
}

func (c *SettingsCache) Start(ctx context.Context, events <-chan models.ChangeEvent, cancel func()) {
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
				c.Apply(ctx, &event)
			}
		}
	}()
}

func (c *SettingsCache) load(ctx context.Context) {
	settings, err := c.loader.Load(ctx)

	c.mu.Lock()
	c.state = StateLive
	c.settings = settings
	c.err = err
	c.mu.Unlock()
}

// Apply refetches on any settings-table event, whatever its action.
func (c *SettingsCache) Apply(ctx context.Context, event *models.ChangeEvent) {
	if event.Table != models.TableSiteSettings {
		return
	}
	c.load(ctx)
}

func (c *SettingsCache) Refetch(ctx context.Context) {
	c.load(ctx)
}

func (c *SettingsCache) Settings() models.SiteSettings {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.settings
}

func (c *SettingsCache) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// TrackFeed registers a change-feed health check folded into Err.
func (c *SettingsCache) TrackFeed(errFn func() error) {
	c.mu.Lock()
	c.feedErr = errFn
	c.mu.Unlock()
}

func (c *SettingsCache) Err() error {
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

func (c *SettingsCache) Close() {
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
