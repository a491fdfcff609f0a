// internal/services/product_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/hudzstore/backend/internal/models"
	"github.com/hudzstore/backend/internal/utils"
)

var ErrProductNotFound = errors.New("product not found")

// Canonical unique-identifier shape: 8-4-4-4-12 hex groups, either case.
var uuidPattern = regexp.MustCompile(`(?i)^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// IsUUIDAddress reports whether an address should be resolved as an
// identifier rather than a slug.
func IsUUIDAddress(addr string) bool {
	return uuidPattern.MatchString(addr)
}

type ProductService struct {
	db *gorm.DB
}

type CreateProductRequest struct {
	Name            string          `json:"name" validate:"required,max=255"`
	Description     string          `json:"description"`
	Price           int64           `json:"price" validate:"min=0"`
	OriginalPrice   *int64          `json:"original_price,omitempty"`
	Slug            *string         `json:"slug,omitempty"`
	Category        models.Category `json:"category" validate:"required,oneof=produk gratis"`
	Image           *string         `json:"image,omitempty"`
	MarketplaceLink string          `json:"marketplace_link" validate:"required,url"`
	ButtonText      *string         `json:"button_text,omitempty"`
}

type UpdateProductRequest struct {
	Name            *string          `json:"name,omitempty" validate:"omitempty,max=255"`
	Description     *string          `json:"description,omitempty"`
	Price           *int64           `json:"price,omitempty" validate:"omitempty,min=0"`
	OriginalPrice   *int64           `json:"original_price,omitempty"`
	Slug            *string          `json:"slug,omitempty"`
	Category        *models.Category `json:"category,omitempty" validate:"omitempty,oneof=produk gratis"`
	Image           *string          `json:"image,omitempty"`
	MarketplaceLink *string          `json:"marketplace_link,omitempty" validate:"omitempty,url"`
	ButtonText      *string          `json:"button_text,omitempty"`
}

func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{db: db}
}

// List returns all products newest-created first. On backend error it
// returns an empty slice alongside the error so listing callers can fail
// open without a nil check, while callers that care can still tell a
// failed load from a genuinely empty catalog.
func (s *ProductService) List(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&products).Error; err != nil {
		logrus.WithError(err).Error("Failed to fetch products")
		return []models.Product{}, fmt.Errorf("failed to fetch products: %w", err)
	}
	return products, nil
}

// ListByCategory returns products of one category, newest-created first.
func (s *ProductService) ListByCategory(ctx context.Context, category models.Category) ([]models.Product, error) {
	var products []models.Product
	if err := s.db.WithContext(ctx).
		Where("category = ?", category).
		Order("created_at DESC").
		Find(&products).Error; err != nil {
		logrus.WithError(err).Error("Failed to fetch products by category")
		return []models.Product{}, fmt.Errorf("failed to fetch products: %w", err)
	}
	return products, nil
}

// GetByAddress resolves a product by slug or identifier. UUID-shaped
// addresses go straight to an id lookup. Everything else tries the slug
// first and falls back to the id, because legacy rows may lack a slug and
// slugs are not unique at the storage layer.
func (s *ProductService) GetByAddress(ctx context.Context, addr string) (*models.Product, error) {
	if !IsUUIDAddress(addr) {
		var product models.Product
		err := s.db.WithContext(ctx).Where("slug = ?", addr).First(&product).Error
		if err == nil {
			return &product, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("database error: %w", err)
		}
	}

	var product models.Product
	err := s.db.WithContext(ctx).Where("id = ?", addr).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) || !IsUUIDAddress(addr) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &product, nil
}

func (s *ProductService) Create(ctx context.Context, req *CreateProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	slug := resolveSlug(req.Slug, req.Name)
	originalPrice, discount := normalizeDiscount(req.Category, req.Price, req.OriginalPrice)

	product := &models.Product{
		Name:               req.Name,
		Description:        req.Description,
		Price:              req.Price,
		OriginalPrice:      originalPrice,
		DiscountPercentage: discount,
		Slug:               slug,
		Category:           req.Category,
		Image:              req.Image,
		MarketplaceLink:    req.MarketplaceLink,
		ButtonText:         req.ButtonText,
	}

	if err := s.db.WithContext(ctx).Create(product).Error; err != nil {
		logrus.WithError(err).Error("Failed to create product")
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return product, nil
}

func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req *UpdateProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var product models.Product
	if err := s.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.OriginalPrice != nil {
		updates["original_price"] = req.OriginalPrice
	}
	if req.Slug != nil {
		updates["slug"] = req.Slug
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.Image != nil {
		updates["image"] = req.Image
	}
	if req.MarketplaceLink != nil {
		updates["marketplace_link"] = *req.MarketplaceLink
	}
	if req.ButtonText != nil {
		updates["button_text"] = req.ButtonText
	}

	// Re-apply the discount invariant against the merged row: original_price
	// must be absent unless strictly greater than price, and
	// discount_percentage always follows from the two.
	category := product.Category
	if req.Category != nil {
		category = *req.Category
	}
	price := product.Price
	if req.Price != nil {
		price = *req.Price
	}
	effectiveOriginal := product.OriginalPrice
	if req.OriginalPrice != nil {
		effectiveOriginal = req.OriginalPrice
	}
	originalPrice, discount := normalizeDiscount(category, price, effectiveOriginal)
	updates["original_price"] = originalPrice
	updates["discount_percentage"] = discount

	if err := s.db.WithContext(ctx).Model(&product).Updates(updates).Error; err != nil {
		logrus.WithError(err).Error("Failed to update product")
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	if err := s.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to reload product: %w", err)
	}

	return &product, nil
}

// Delete removes a product by id. A false result means the backend
// rejected the delete; callers must check it explicitly.
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	result := s.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if result.Error != nil {
		logrus.WithError(result.Error).Error("Failed to delete product")
		return false, fmt.Errorf("failed to delete product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return false, ErrProductNotFound
	}
	return true, nil
}

// resolveSlug returns the caller-supplied slug when present, else one
// generated from the product name. Empty generated slugs (names with no
// alphanumerics) stay NULL so the id remains the address.
func resolveSlug(slug *string, name string) *string {
	if slug != nil && *slug != "" {
		return slug
	}
	if generated := models.GenerateSlug(name); generated != "" {
		return &generated
	}
	return nil
}

// normalizeDiscount clears discount fields unless the original price is
// strictly greater than the current price on a paid product, and computes
// the percentage at write time when the discount is valid.
func normalizeDiscount(category models.Category, price int64, originalPrice *int64) (*int64, *int) {
	if category != models.CategoryPaid || originalPrice == nil || *originalPrice <= price || *originalPrice == 0 {
		return nil, nil
	}
	discount := models.CalculateDiscountPercentage(*originalPrice, price)
	return originalPrice, &discount
}
