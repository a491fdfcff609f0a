// internal/models/product_test.go
package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSlug(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"basic", "Template Premium 2024!", "template-premium-2024"},
		{"already clean", "kit-desain", "kit-desain"},
		{"mixed separators", "E-Book: Belajar Go!", "e-book-belajar-go"},
		{"leading and trailing junk", "  --Promo!!  ", "promo"},
		{"only symbols", "!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GenerateSlug(tt.input))
		})
	}
}

func TestCalculateDiscountPercentage(t *testing.T) {
	assert.Equal(t, 25, CalculateDiscountPercentage(100000, 75000))
	assert.Equal(t, 0, CalculateDiscountPercentage(50000, 50000))
	assert.Equal(t, 0, CalculateDiscountPercentage(0, 10))
	assert.Equal(t, 0, CalculateDiscountPercentage(40000, 50000))
	assert.Equal(t, 33, CalculateDiscountPercentage(150000, 100000))
}

func TestProductHasDiscount(t *testing.T) {
	original := int64(100000)

	paid := Product{Price: 75000, OriginalPrice: &original, Category: CategoryPaid}
	assert.True(t, paid.HasDiscount())
	assert.Equal(t, 25, paid.EffectiveDiscount())

	// Free products never display a discount
	free := Product{Price: 75000, OriginalPrice: &original, Category: CategoryFree}
	assert.False(t, free.HasDiscount())
	assert.Equal(t, 0, free.EffectiveDiscount())

	// No original price, no discount
	plain := Product{Price: 75000, Category: CategoryPaid}
	assert.False(t, plain.HasDiscount())
	assert.Equal(t, 0, plain.EffectiveDiscount())

	// Original price at or below price is not a discount
	same := int64(75000)
	notCheaper := Product{Price: 75000, OriginalPrice: &same, Category: CategoryPaid}
	assert.False(t, notCheaper.HasDiscount())
	assert.Equal(t, 0, notCheaper.EffectiveDiscount())
}

func TestProductEffectiveDiscountPrefersStoredColumn(t *testing.T) {
	original := int64(100000)
	stored := 30

	p := Product{Price: 75000, OriginalPrice: &original, DiscountPercentage: &stored, Category: CategoryPaid}
	assert.Equal(t, 30, p.EffectiveDiscount())

	p.DiscountPercentage = nil
	assert.Equal(t, 25, p.EffectiveDiscount())
}

func TestProductAddress(t *testing.T) {
	slug := "kit-desain"

	p := Product{Slug: &slug}
	assert.Equal(t, "kit-desain", p.Address())

	empty := ""
	p = Product{Slug: &empty}
	assert.Equal(t, p.ID.String(), p.Address())

	p = Product{}
	assert.Equal(t, p.ID.String(), p.Address())
}

func TestProductCTALabel(t *testing.T) {
	assert.Equal(t, "Beli Sekarang", (&Product{Category: CategoryPaid}).CTALabel())
	assert.Equal(t, "Ambil Gratis", (&Product{Category: CategoryFree}).CTALabel())

	custom := "Download"
	p := Product{Category: CategoryPaid, ButtonText: &custom}
	assert.Equal(t, "Download", p.CTALabel())
}

func TestCategoryValid(t *testing.T) {
	assert.True(t, CategoryPaid.Valid())
	assert.True(t, CategoryFree.Valid())
	assert.False(t, Category("premium").Valid())
	assert.False(t, Category("").Valid())
}
