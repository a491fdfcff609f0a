// internal/handlers/refresh.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/hudzstore/backend/internal/realtime"
	"github.com/hudzstore/backend/internal/utils"
)

// RefreshHandler re-runs the authoritative loads for the synced
// collections. This is the manual recovery operation after a realtime
// channel disruption.
type RefreshHandler struct {
	products *realtime.ProductCache
	settings *realtime.SettingsCache
}

func NewRefreshHandler(products *realtime.ProductCache, settings *realtime.SettingsCache) *RefreshHandler {
	return &RefreshHandler{products: products, settings: settings}
}

// POST /v1/admin/refresh
func (h *RefreshHandler) Refresh(c *gin.Context) {
	ctx := c.Request.Context()
	if h.products != nil {
		h.products.Refetch(ctx)
	}
	if h.settings != nil {
		h.settings.Refetch(ctx)
	}
	utils.SuccessResponse(c, gin.H{"refreshed": true})
}
