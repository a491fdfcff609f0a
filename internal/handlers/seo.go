// internal/handlers/seo.go
package handlers

import (
	"encoding/xml"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hudzstore/backend/internal/config"
	"github.com/hudzstore/backend/internal/models"
	"github.com/hudzstore/backend/internal/services"
	"github.com/hudzstore/backend/internal/utils"
)

// SEOHandler produces the search-engine surface derived from the product
// and settings entities: sitemap, robots policy, and JSON-LD structured
// data documents.
type SEOHandler struct {
	productService  *services.ProductService
	settingsService *services.SettingsService
	site            config.SiteConfig
}

func NewSEOHandler(productService *services.ProductService, settingsService *services.SettingsService, site config.SiteConfig) *SEOHandler {
	return &SEOHandler{
		productService:  productService,
		settingsService: settingsService,
		site:            site,
	}
}

type sitemapURL struct {
	Loc        string  `xml:"loc"`
	LastMod    string  `xml:"lastmod"`
	ChangeFreq string  `xml:"changefreq"`
	Priority   float64 `xml:"priority"`
}

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// GET /sitemap.xml
func (h *SEOHandler) Sitemap(c *gin.Context) {
	products, _ := h.productService.List(c.Request.Context())

	urlset := sitemapURLSet{
		Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs: []sitemapURL{{
			Loc:        h.site.BaseURL,
			LastMod:    time.Now().Format("2006-01-02"),
			ChangeFreq: "daily",
			Priority:   1.0,
		}},
	}

	now := time.Now()
	for _, product := range products {
		urlset.URLs = append(urlset.URLs, sitemapURL{
			Loc:        h.productURL(&product),
			LastMod:    product.CreatedAt.Format("2006-01-02"),
			ChangeFreq: "weekly",
			Priority:   productPriority(&product, now),
		})
	}

	c.XML(http.StatusOK, urlset)
}

// productPriority ranks newer and paid products higher, mirroring the
// recency signal search engines get from created_at.
func productPriority(p *models.Product, now time.Time) float64 {
	days := now.Sub(p.CreatedAt).Hours() / 24

	priority := 0.8
	if days < 30 {
		priority = 0.9
	} else if days < 90 {
		priority = 0.85
	}

	if p.Category == models.CategoryPaid {
		priority += 0.05
		if priority > 0.95 {
			priority = 0.95
		}
	}

	return priority
}

// GET /robots.txt
func (h *SEOHandler) Robots(c *gin.Context) {
	body := fmt.Sprintf(`User-agent: *
Allow: /
Disallow: /v1/admin/
Disallow: /v1/auth/

Sitemap: %s/sitemap.xml
`, h.site.BaseURL)

	c.String(http.StatusOK, body)
}

// GET /v1/seo/site
// Organization, WebSite, and ItemList documents for the storefront home.
func (h *SEOHandler) SiteStructuredData(c *gin.Context) {
	ctx := c.Request.Context()
	settings := h.settingsService.Get(ctx)
	products, _ := h.productService.List(ctx)

	items := make([]gin.H, 0, len(products))
	for i, product := range products {
		items = append(items, gin.H{
			"@type":    "ListItem",
			"position": i + 1,
			"url":      h.productURL(&product),
			"name":     product.Name,
		})
	}

	utils.SuccessResponse(c, gin.H{
		"documents": []gin.H{
			{
				"@context":    "https://schema.org",
				"@type":       "Organization",
				"name":        settings.SiteName,
				"description": settings.Tagline,
				"url":         h.site.BaseURL,
			},
			{
				"@context": "https://schema.org",
				"@type":    "WebSite",
				"name":     settings.SiteName,
				"url":      h.site.BaseURL,
			},
			{
				"@context":        "https://schema.org",
				"@type":           "ItemList",
				"itemListElement": items,
			},
		},
	})
}

// GET /v1/seo/products/:address
// Product and BreadcrumbList documents for a product detail page.
func (h *SEOHandler) ProductStructuredData(c *gin.Context) {
	ctx := c.Request.Context()

	product, err := h.productService.GetByAddress(ctx, c.Param("address"))
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			utils.NotFoundResponse(c, "Product")
			return
		}
		utils.InternalErrorResponse(c, "")
		return
	}

	settings := h.settingsService.Get(ctx)

	offer := gin.H{
		"@type":         "Offer",
		"availability":  "https://schema.org/InStock",
		"url":           product.MarketplaceLink,
		"priceCurrency": "IDR",
		"price":         product.Price,
	}
	if product.Category == models.CategoryFree {
		offer["price"] = 0
	}

	productDoc := gin.H{
		"@context":    "https://schema.org",
		"@type":       "Product",
		"name":        product.Name,
		"description": product.Description,
		"url":         h.productURL(product),
		"offers":      offer,
	}
	if product.Image != nil {
		productDoc["image"] = *product.Image
	}

	breadcrumb := gin.H{
		"@context": "https://schema.org",
		"@type":    "BreadcrumbList",
		"itemListElement": []gin.H{
			{"@type": "ListItem", "position": 1, "name": settings.SiteName, "item": h.site.BaseURL},
			{"@type": "ListItem", "position": 2, "name": product.Name, "item": h.productURL(product)},
		},
	}

	utils.SuccessResponse(c, gin.H{
		"documents": []gin.H{productDoc, breadcrumb},
	})
}

func (h *SEOHandler) productURL(p *models.Product) string {
	return fmt.Sprintf("%s/produk/%s", h.site.BaseURL, p.Address())
}
