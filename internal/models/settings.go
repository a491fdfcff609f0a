// internal/models/settings.go
package models

import "time"

// SiteSetting is a single key/value configuration row.
type SiteSetting struct {
	Key       string    `json:"key" gorm:"size:100;primary_key"`
	Value     string    `json:"value" gorm:"type:text;not null"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (SiteSetting) TableName() string {
	return "site_settings"
}

// SiteSettings is the fixed structured view over the key/value rows.
// Unknown stored keys are ignored; missing keys fall back to defaults.
type SiteSettings struct {
	SiteName      string `json:"siteName"`
	Tagline       string `json:"tagline"`
	CommunityLink string `json:"communityLink"`
	HeroTitle     string `json:"heroTitle"`
	HeroSubtitle  string `json:"heroSubtitle"`
}

// SiteSettingsUpdate carries a partial settings change; nil fields are
// left untouched.
type SiteSettingsUpdate struct {
	SiteName      *string `json:"siteName,omitempty"`
	Tagline       *string `json:"tagline,omitempty"`
	CommunityLink *string `json:"communityLink,omitempty"`
	HeroTitle     *string `json:"heroTitle,omitempty"`
	HeroSubtitle  *string `json:"heroSubtitle,omitempty"`
}

func DefaultSiteSettings() SiteSettings {
	return SiteSettings{
		SiteName:      "HudzStore",
		Tagline:       "Produk Digital Terbaik",
		CommunityLink: "https://t.me/yourgroup",
		HeroTitle:     "Produk Digital Premium",
		HeroSubtitle:  "Temukan berbagai produk digital berkualitas dengan harga terjangkau",
	}
}

// ApplyRow overlays a stored key/value row onto the settings. Rows with
// keys outside the fixed field set are ignored.
func (s *SiteSettings) ApplyRow(key, value string) {
	switch key {
	case "siteName":
		s.SiteName = value
	case "tagline":
		s.Tagline = value
	case "communityLink":
		s.CommunityLink = value
	case "heroTitle":
		s.HeroTitle = value
	case "heroSubtitle":
		s.HeroSubtitle = value
	}
}

// Pairs flattens the provided (non-nil) fields of an update into key/value
// pairs, one upsert row each.
func (u *SiteSettingsUpdate) Pairs() map[string]string {
	pairs := make(map[string]string)
	if u.SiteName != nil {
		pairs["siteName"] = *u.SiteName
	}
	if u.Tagline != nil {
		pairs["tagline"] = *u.Tagline
	}
	if u.CommunityLink != nil {
		pairs["communityLink"] = *u.CommunityLink
	}
	if u.HeroTitle != nil {
		pairs["heroTitle"] = *u.HeroTitle
	}
	if u.HeroSubtitle != nil {
		pairs["heroSubtitle"] = *u.HeroSubtitle
	}
	return pairs
}
