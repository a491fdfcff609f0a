// internal/handlers/product.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/hudzstore/backend/internal/models"
	"github.com/hudzstore/backend/internal/realtime"
	"github.com/hudzstore/backend/internal/services"
	"github.com/hudzstore/backend/internal/utils"
)

type ProductHandler struct {
	productService *services.ProductService
	storageService *services.StorageService
	cache          *realtime.ProductCache
}

func NewProductHandler(productService *services.ProductService, storageService *services.StorageService, cache *realtime.ProductCache) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		storageService: storageService,
		cache:          cache,
	}
}

// ProductView is the presentation shape of a product: the entity plus the
// derived display fields. Free products ignore price and discount for
// display purposes.
type ProductView struct {
	models.Product
	Address  string `json:"address"`
	CTALabel string `json:"cta_label"`
	Discount int    `json:"discount"`
	IsFree   bool   `json:"is_free"`
}

func NewProductView(p models.Product) ProductView {
	return ProductView{
		Product:  p,
		Address:  p.Address(),
		CTALabel: p.CTALabel(),
		Discount: p.EffectiveDiscount(),
		IsFree:   p.Category == models.CategoryFree,
	}
}

func productViews(products []models.Product) []ProductView {
	views := make([]ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, NewProductView(p))
	}
	return views
}

// GET /v1/products
// Served from the realtime-synced cache once it is live and healthy, with
// a direct fetch otherwise. Listing fails open: a backend error still
// answers 200 with an empty list so the storefront never breaks on a read.
func (h *ProductHandler) GetProducts(c *gin.Context) {
	var category models.Category
	if q := c.Query("category"); q != "" {
		category = models.Category(q)
		if !category.Valid() {
			utils.BadRequestResponse(c, "Unknown category", nil)
			return
		}
	}

	if h.cache != nil && h.cache.State() == realtime.StateLive && h.cache.Err() == nil {
		products := h.cache.Products()
		if category != "" {
			filtered := products[:0]
			for _, p := range products {
				if p.Category == category {
					filtered = append(filtered, p)
				}
			}
			products = filtered
		}
		utils.SuccessResponse(c, gin.H{
			"products": productViews(products),
			"degraded": false,
		})
		return
	}

	var (
		products []models.Product
		err      error
	)
	if category != "" {
		products, err = h.productService.ListByCategory(c.Request.Context(), category)
	} else {
		products, err = h.productService.List(c.Request.Context())
	}

	utils.SuccessResponse(c, gin.H{
		"products": productViews(products),
		"degraded": err != nil,
	})
}

// GET /v1/products/:address
func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.productService.GetByAddress(c.Request.Context(), c.Param("address"))
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			utils.NotFoundResponse(c, "Product")
			return
		}
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, gin.H{"product": NewProductView(*product)})
}

// POST /v1/admin/products
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req services.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	product, err := h.productService.Create(c.Request.Context(), &req)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.CreatedResponse(c, gin.H{"product": NewProductView(*product)})
}

// PUT /v1/admin/products/:id
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product ID", nil)
		return
	}

	var req services.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	product, err := h.productService.Update(c.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			utils.NotFoundResponse(c, "Product")
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"product": NewProductView(*product)})
}

// DELETE /v1/admin/products/:id
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product ID", nil)
		return
	}

	// Load first so the stored image can be cleaned up after the row is
	// gone.
	product, _ := h.productService.GetByAddress(c.Request.Context(), id.String())

	deleted, err := h.productService.Delete(c.Request.Context(), id)
	if err != nil && errors.Is(err, services.ErrProductNotFound) {
		utils.NotFoundResponse(c, "Product")
		return
	}
	if !deleted {
		utils.InternalErrorResponse(c, "Failed to delete product")
		return
	}

	h.cleanupImage(product)

	utils.SuccessResponse(c, gin.H{"deleted": true})
}

// cleanupImage removes the product's stored image object when it lives in
// our bucket. A failed cleanup leaves an orphaned object, not a broken
// product, so it is logged and swallowed.
func (h *ProductHandler) cleanupImage(product *models.Product) {
	if product == nil || product.Image == nil {
		return
	}
	key, ok := h.storageService.KeyFromURL(*product.Image)
	if !ok {
		return
	}
	if err := h.storageService.DeleteFile(key); err != nil {
		logrus.WithError(err).WithField("key", key).Warn("Failed to delete product image")
	}
}

// POST /v1/admin/products/upload-image
func (h *ProductHandler) UploadProductImage(c *gin.Context) {
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		utils.BadRequestResponse(c, "Missing image file", nil)
		return
	}
	defer file.Close()

	result, err := h.storageService.UploadImage(file, header)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, gin.H{"upload": result})
}
