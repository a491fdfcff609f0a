// internal/models/settings_test.go
package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSiteSettingsApplyRow(t *testing.T) {
	settings := DefaultSiteSettings()

	settings.ApplyRow("siteName", "NewName")
	assert.Equal(t, "NewName", settings.SiteName)

	// Other fields keep their defaults
	defaults := DefaultSiteSettings()
	assert.Equal(t, defaults.Tagline, settings.Tagline)
	assert.Equal(t, defaults.CommunityLink, settings.CommunityLink)
	assert.Equal(t, defaults.HeroTitle, settings.HeroTitle)
	assert.Equal(t, defaults.HeroSubtitle, settings.HeroSubtitle)
}

func TestSiteSettingsApplyRowIgnoresUnknownKeys(t *testing.T) {
	settings := DefaultSiteSettings()
	before := settings

	settings.ApplyRow("adminPassword", "sneaky")
	settings.ApplyRow("", "empty")
	settings.ApplyRow("SiteName", "wrong case")

	assert.Equal(t, before, settings)
}

func TestSiteSettingsUpdatePairs(t *testing.T) {
	name := "NewName"
	hero := "Welcome"

	update := SiteSettingsUpdate{SiteName: &name, HeroTitle: &hero}
	pairs := update.Pairs()

	assert.Len(t, pairs, 2)
	assert.Equal(t, "NewName", pairs["siteName"])
	assert.Equal(t, "Welcome", pairs["heroTitle"])

	empty := SiteSettingsUpdate{}
	assert.Empty(t, empty.Pairs())
}
