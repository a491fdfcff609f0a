// internal/models/product.go
package models

import (
	"math"
	"regexp"
	"strings"
)

type Product struct {
	BaseModel
	Name               string   `json:"name" gorm:"size:255;not null"`
	Description        string   `json:"description" gorm:"type:text"`
	Price              int64    `json:"price" gorm:"not null;default:0"`
	OriginalPrice      *int64   `json:"original_price,omitempty"`
	DiscountPercentage *int     `json:"discount_percentage,omitempty"`
	Slug               *string  `json:"slug,omitempty" gorm:"size:255;index"`
	Category           Category `json:"category" gorm:"type:varchar(20);not null;default:'produk';index"`
	Image              *string  `json:"image,omitempty" gorm:"type:text"`
	MarketplaceLink    string   `json:"marketplace_link" gorm:"type:text"`
	ButtonText         *string  `json:"button_text,omitempty" gorm:"size:100"`
}

var (
	slugInvalidRuns = regexp.MustCompile(`[^a-z0-9]+`)
	slugEdgeHyphens = regexp.MustCompile(`(^-|-$)`)
)

// GenerateSlug derives a URL-friendly address from a product name:
// lowercase, non-alphanumeric runs collapsed to a single hyphen, no
// leading or trailing hyphen.
func GenerateSlug(name string) string {
	slug := strings.ToLower(name)
	slug = slugInvalidRuns.ReplaceAllString(slug, "-")
	return slugEdgeHyphens.ReplaceAllString(slug, "")
}

// CalculateDiscountPercentage returns the rounded percentage saved when
// originalPrice is strictly greater than currentPrice, and 0 otherwise.
func CalculateDiscountPercentage(originalPrice, currentPrice int64) int {
	if originalPrice <= currentPrice || originalPrice == 0 {
		return 0
	}
	return int(math.Round(float64(originalPrice-currentPrice) / float64(originalPrice) * 100))
}

// HasDiscount reports whether the product has an active discount. Free
// products never display a discount regardless of stored price fields.
func (p *Product) HasDiscount() bool {
	if p.Category == CategoryFree {
		return false
	}
	return p.OriginalPrice != nil && *p.OriginalPrice > p.Price
}

// EffectiveDiscount returns the stored discount percentage, computing it
// from the price fields when the column is absent.
func (p *Product) EffectiveDiscount() int {
	if !p.HasDiscount() {
		return 0
	}
	if p.DiscountPercentage != nil {
		return *p.DiscountPercentage
	}
	return CalculateDiscountPercentage(*p.OriginalPrice, p.Price)
}

// Address returns the preferred public address for the product: the slug
// when present, the id otherwise.
func (p *Product) Address() string {
	if p.Slug != nil && *p.Slug != "" {
		return *p.Slug
	}
	return p.ID.String()
}

// CTALabel returns the call-to-action label: the per-product override when
// set, else the category default.
func (p *Product) CTALabel() string {
	if p.ButtonText != nil && *p.ButtonText != "" {
		return *p.ButtonText
	}
	if p.Category == CategoryFree {
		return "Ambil Gratis"
	}
	return "Beli Sekarang"
}
