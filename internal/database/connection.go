// internal/database/connection.go
package database

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/hudzstore/backend/internal/config"
	"github.com/hudzstore/backend/internal/models"
)

// NotifyChannel is the LISTEN/NOTIFY channel the change triggers publish to.
const NotifyChannel = "store_changes"

func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var gormConfig *gorm.Config

	// Configure GORM logger
	if cfg.LogLevel == "silent" {
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		}
	} else {
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Info),
		}
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logrus.Info("Database connection established")
	return db, nil
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		logrus.WithError(err).Error("Error getting underlying sql.DB")
		return
	}

	if err := sqlDB.Close(); err != nil {
		logrus.WithError(err).Error("Error closing database connection")
	} else {
		logrus.Info("Database connection closed")
	}
}

func RunMigrations(db *gorm.DB) error {
	logrus.Info("Running database migrations...")

	// gen_random_uuid() needs pgcrypto on older Postgres versions
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "pgcrypto"`).Error; err != nil {
		return fmt.Errorf("failed to create pgcrypto extension: %w", err)
	}

	err := db.AutoMigrate(
		&models.Product{},
		&models.SiteSetting{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := createIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	if err := installChangeTriggers(db); err != nil {
		return fmt.Errorf("failed to install change triggers: %w", err)
	}

	logrus.Info("Database migrations completed")
	return nil
}

func createIndexes(db *gorm.DB) error {
	indexes := []string{
		// created_at is the sole sort key for listings
		"CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_products_category ON products(category)",
		// slugs are unique by convention only, so no unique constraint
		"CREATE INDEX IF NOT EXISTS idx_products_slug ON products(slug) WHERE slug IS NOT NULL",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			logrus.WithError(err).Warnf("Failed to create index: %s", index)
			// Continue with other indexes instead of failing completely
		}
	}

	return nil
}

// installChangeTriggers installs a trigger function publishing every row
// change on products and site_settings to the NotifyChannel as a JSON
// ChangeEvent. The realtime listener consumes these.
func installChangeTriggers(db *gorm.DB) error {
	function := fmt.Sprintf(`
CREATE OR REPLACE FUNCTION store_notify_change() RETURNS trigger AS $$
DECLARE
	payload JSON;
BEGIN
	IF (TG_OP = 'DELETE') THEN
		payload = json_build_object('table', TG_TABLE_NAME, 'action', TG_OP, 'row', row_to_json(OLD));
	ELSE
		payload = json_build_object('table', TG_TABLE_NAME, 'action', TG_OP, 'row', row_to_json(NEW));
	END IF;
	PERFORM pg_notify('%s', payload::text);
	RETURN NULL;
END;
$$ LANGUAGE plpgsql`, NotifyChannel)

	if err := db.Exec(function).Error; err != nil {
		return err
	}

	for _, table := range []string{models.TableProducts, models.TableSiteSettings} {
		trigger := fmt.Sprintf(`
DO $$
BEGIN
	IF NOT EXISTS (SELECT 1 FROM pg_trigger WHERE tgname = 'trg_%s_notify') THEN
		CREATE TRIGGER trg_%s_notify
			AFTER INSERT OR UPDATE OR DELETE ON %s
			FOR EACH ROW EXECUTE FUNCTION store_notify_change();
	END IF;
END
$$`, table, table, table)

		if err := db.Exec(trigger).Error; err != nil {
			return err
		}
	}

	return nil
}

// SeedInitialData inserts the default site settings rows when absent so a
// fresh database renders the stock storefront copy.
func SeedInitialData(db *gorm.DB) error {
	defaults := models.DefaultSiteSettings()
	rows := map[string]string{
		"siteName":      defaults.SiteName,
		"tagline":       defaults.Tagline,
		"communityLink": defaults.CommunityLink,
		"heroTitle":     defaults.HeroTitle,
		"heroSubtitle":  defaults.HeroSubtitle,
	}

	for key, value := range rows {
		var count int64
		if err := db.Model(&models.SiteSetting{}).Where("key = ?", key).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check setting %s: %w", key, err)
		}

		if count == 0 {
			setting := models.SiteSetting{Key: key, Value: value}
			if err := db.Create(&setting).Error; err != nil {
				logrus.WithError(err).Warnf("Failed to seed setting %s", key)
			}
		}
	}

	logrus.Info("Initial data seeding completed")
	return nil
}
