// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/hudzstore/backend/internal/config"
	"github.com/hudzstore/backend/internal/handlers"
	"github.com/hudzstore/backend/internal/middleware"
	"github.com/hudzstore/backend/internal/realtime"
	"github.com/hudzstore/backend/internal/services"
)

// Deps carries the shared infrastructure the router wires handlers to.
type Deps struct {
	Hub           *realtime.Hub
	ProductCache  *realtime.ProductCache
	SettingsCache *realtime.SettingsCache
}

func Initialize(db *gorm.DB, cfg *config.Config, deps Deps) (*gin.Engine, error) {
	// Initialize services
	productService := services.NewProductService(db)
	settingsService := services.NewSettingsService(db)

	storageService, err := services.NewStorageService(cfg)
	if err != nil {
		return nil, err
	}

	authService, err := services.NewAuthService(cfg)
	if err != nil {
		return nil, err
	}

	// Initialize handlers
	productHandler := handlers.NewProductHandler(productService, storageService, deps.ProductCache)
	settingsHandler := handlers.NewSettingsHandler(settingsService, deps.SettingsCache)
	authHandler := handlers.NewAuthHandler(authService)
	seoHandler := handlers.NewSEOHandler(productService, settingsService, cfg.Site)
	realtimeHandler := handlers.NewRealtimeHandler(deps.Hub)
	refreshHandler := handlers.NewRefreshHandler(deps.ProductCache, deps.SettingsCache)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS())
	r.Use(middleware.GeneralRateLimit())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// SEO surface
	r.GET("/sitemap.xml", seoHandler.Sitemap)
	r.GET("/robots.txt", seoHandler.Robots)

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Public catalog
		products := v1.Group("/products")
		{
			products.GET("", productHandler.GetProducts)
			products.GET("/:address", productHandler.GetProduct)
		}

		v1.GET("/settings", settingsHandler.GetSettings)

		// Structured data for page renders
		seo := v1.Group("/seo")
		{
			seo.GET("/site", seoHandler.SiteStructuredData)
			seo.GET("/products/:address", seoHandler.ProductStructuredData)
		}

		// Realtime change feed
		v1.GET("/realtime", realtimeHandler.ServeWS)

		// Authentication routes
		auth := v1.Group("/auth")
		{
			auth.POST("/login", middleware.LoginRateLimit(), authHandler.Login)
			auth.GET("/me", middleware.OptionalAdmin(), authHandler.Me)
		}

		// Admin routes
		admin := v1.Group("/admin")
		admin.Use(middleware.AdminRequired())
		{
			adminProducts := admin.Group("/products")
			{
				adminProducts.POST("", productHandler.CreateProduct)
				adminProducts.PUT("/:id", productHandler.UpdateProduct)
				adminProducts.DELETE("/:id", productHandler.DeleteProduct)
				adminProducts.POST("/upload-image", middleware.UploadRateLimit(), productHandler.UploadProductImage)
			}

			adminSettings := admin.Group("/settings")
			{
				adminSettings.GET("", settingsHandler.GetSettings)
				adminSettings.PUT("", settingsHandler.UpdateSettings)
			}

			admin.POST("/refresh", refreshHandler.Refresh)
		}
	}

	// Static file serving (for development)
	if cfg.Environment == "development" {
		r.Static("/uploads", "./uploads")
	}

	return r, nil
}
