// internal/services/settings_service.go
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hudzstore/backend/internal/models"
)

type SettingsService struct {
	db *gorm.DB
}

func NewSettingsService(db *gorm.DB) *SettingsService {
	return &SettingsService{db: db}
}

// Get returns the site settings, always fully populated: hardcoded
// defaults overlaid by whatever stored rows match a known key. Backend
// errors yield the defaults so a read never fails visibly.
func (s *SettingsService) Get(ctx context.Context) models.SiteSettings {
	settings, _ := s.Load(ctx)
	return settings
}

// Load is Get with the backend error exposed, for callers that record an
// error flag alongside the defaulted value.
func (s *SettingsService) Load(ctx context.Context) (models.SiteSettings, error) {
	settings := models.DefaultSiteSettings()

	var rows []models.SiteSetting
	if err := s.db.WithContext(ctx).Find(&rows).Error; err != nil {
		logrus.WithError(err).Error("Failed to fetch settings, using defaults")
		return settings, fmt.Errorf("failed to fetch settings: %w", err)
	}

	for _, row := range rows {
		settings.ApplyRow(row.Key, row.Value)
	}
	return settings, nil
}

// Update upserts each provided field as its own key/value row. The upserts
// are independent and awaited together, not sequentially dependent; a
// failed upsert never aborts its siblings, so a partial failure leaves the
// stored settings partially updated and no rollback is attempted. After all
// upserts finish the full settings object is re-read and returned.
func (s *SettingsService) Update(ctx context.Context, update *models.SiteSettingsUpdate) (models.SiteSettings, error) {
	if err := upsertPairs(ctx, update.Pairs(), s.upsertSetting); err != nil {
		logrus.WithError(err).Error("Failed to upsert settings")
		return s.Get(ctx), fmt.Errorf("failed to update settings: %w", err)
	}

	return s.Get(ctx), nil
}

func (s *SettingsService) upsertSetting(ctx context.Context, key, value string) error {
	row := models.SiteSetting{Key: key, Value: value, UpdatedAt: time.Now()}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
}

// upsertPairs runs one upsert per pair, fanned out and awaited together.
// Each upsert gets the caller's context, not a group-derived one, so the
// first failure cannot cancel writes that would have succeeded; only the
// joint result carries the error.
func upsertPairs(ctx context.Context, pairs map[string]string, upsert func(context.Context, string, string) error) error {
	var g errgroup.Group
	for key, value := range pairs {
		key, value := key, value
		g.Go(func() error {
			return upsert(ctx, key, value)
		})
	}
	return g.Wait()
}
