// internal/services/product_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hudzstore/backend/internal/models"
)

func TestIsUUIDAddress(t *testing.T) {
	assert.True(t, IsUUIDAddress("550e8400-e29b-41d4-a716-446655440000"))
	assert.True(t, IsUUIDAddress("550E8400-E29B-41D4-A716-446655440000"))
	assert.False(t, IsUUIDAddress("kit-desain"))
	assert.False(t, IsUUIDAddress("550e8400-e29b-41d4-a716"))
	assert.False(t, IsUUIDAddress("550E8400-E29B-41D4-A716-446655440000-extra"))
	assert.False(t, IsUUIDAddress(""))
}

func TestResolveSlug(t *testing.T) {
	provided := "custom-slug"
	assert.Equal(t, &provided, resolveSlug(&provided, "Some Name"))

	slug := resolveSlug(nil, "Template Premium 2024!")
	require.NotNil(t, slug)
	assert.Equal(t, "template-premium-2024", *slug)

	empty := ""
	slug = resolveSlug(&empty, "Template Premium 2024!")
	require.NotNil(t, slug)
	assert.Equal(t, "template-premium-2024", *slug)

	// Names with no alphanumerics produce no slug; the id stays the address
	assert.Nil(t, resolveSlug(nil, "!!!"))
}

func TestNormalizeDiscount(t *testing.T) {
	original := int64(100000)

	gotOriginal, gotDiscount := normalizeDiscount(models.CategoryPaid, 75000, &original)
	require.NotNil(t, gotOriginal)
	require.NotNil(t, gotDiscount)
	assert.Equal(t, int64(100000), *gotOriginal)
	assert.Equal(t, 25, *gotDiscount)

	// original_price not strictly greater than price: cleared
	same := int64(75000)
	gotOriginal, gotDiscount = normalizeDiscount(models.CategoryPaid, 75000, &same)
	assert.Nil(t, gotOriginal)
	assert.Nil(t, gotDiscount)

	lower := int64(50000)
	gotOriginal, gotDiscount = normalizeDiscount(models.CategoryPaid, 75000, &lower)
	assert.Nil(t, gotOriginal)
	assert.Nil(t, gotDiscount)

	// absent original price
	gotOriginal, gotDiscount = normalizeDiscount(models.CategoryPaid, 75000, nil)
	assert.Nil(t, gotOriginal)
	assert.Nil(t, gotDiscount)

	// free products carry no discount fields
	gotOriginal, gotDiscount = normalizeDiscount(models.CategoryFree, 75000, &original)
	assert.Nil(t, gotOriginal)
	assert.Nil(t, gotDiscount)
}

func TestCreateProductRequestValidation(t *testing.T) {
	valid := CreateProductRequest{
		Name:            "Kit Desain",
		Price:           75000,
		Category:        models.CategoryPaid,
		MarketplaceLink: "https://example.com/item",
	}
	svc := NewProductService(nil)

	// Validation runs before any database access, so invalid requests are
	// rejected without touching the connection.
	_, err := svc.Create(nil, &CreateProductRequest{})
	assert.Error(t, err)

	_, err = svc.Create(nil, &CreateProductRequest{
		Name:            valid.Name,
		Price:           valid.Price,
		Category:        "premium",
		MarketplaceLink: valid.MarketplaceLink,
	})
	assert.Error(t, err)

	_, err = svc.Create(nil, &CreateProductRequest{
		Name:            valid.Name,
		Price:           valid.Price,
		Category:        valid.Category,
		MarketplaceLink: "not a url",
	})
	assert.Error(t, err)
}
