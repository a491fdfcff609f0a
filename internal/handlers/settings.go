// internal/handlers/settings.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/hudzstore/backend/internal/models"
	"github.com/hudzstore/backend/internal/realtime"
	"github.com/hudzstore/backend/internal/services"
	"github.com/hudzstore/backend/internal/utils"
)

type SettingsHandler struct {
	settingsService *services.SettingsService
	cache           *realtime.SettingsCache
}

func NewSettingsHandler(settingsService *services.SettingsService, cache *realtime.SettingsCache) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService, cache: cache}
}

// GET /v1/settings
// Always answers 200 with a fully populated object; backend failures
// degrade to the defaults. Served from the synced cache once live.
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	if h.cache != nil && h.cache.State() == realtime.StateLive && h.cache.Err() == nil {
		utils.SuccessResponse(c, gin.H{"settings": h.cache.Settings()})
		return
	}

	settings := h.settingsService.Get(c.Request.Context())
	utils.SuccessResponse(c, gin.H{"settings": settings})
}

// PUT /v1/admin/settings
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var update models.SiteSettingsUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	settings, err := h.settingsService.Update(c.Request.Context(), &update)
	if err != nil {
		// Upserts are independent; some may have landed. Return the
		// re-read state so the caller sees what actually stuck.
		utils.ErrorResponse(c, 500, "SETTINGS_PARTIAL_FAILURE", "Failed to update settings", gin.H{"settings": settings})
		return
	}

	utils.SuccessResponse(c, gin.H{"settings": settings})
}
