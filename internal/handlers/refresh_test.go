// internal/handlers/refresh_test.go
package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/hudzstore/backend/internal/models"
	"github.com/hudzstore/backend/internal/realtime"
)

type countingLister struct {
	mu    sync.Mutex
	calls int
}

func (l *countingLister) List(ctx context.Context) ([]models.Product, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls++
	return []models.Product{}, nil
}

func (l *countingLister) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls
}

type countingLoader struct {
	mu    sync.Mutex
	calls int
}

func (l *countingLoader) Load(ctx context.Context) (models.SiteSettings, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls++
	return models.DefaultSiteSettings(), nil
}

func (l *countingLoader) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls
}

func TestRefreshRefetchesBothCollections(t *testing.T) {
	gin.SetMode(gin.TestMode)

	lister := &countingLister{}
	loader := &countingLoader{}

	productCache := realtime.NewProductCache(lister)
	productCache.Refetch(context.Background())
	settingsCache := realtime.NewSettingsCache(loader)
	settingsCache.Refetch(context.Background())

	listCalls := lister.count()
	loadCalls := loader.count()

	r := gin.New()
	r.POST("/refresh", NewRefreshHandler(productCache, settingsCache).Refresh)

	req, _ := http.NewRequest("POST", "/refresh", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, listCalls+1, lister.count())
	assert.Equal(t, loadCalls+1, loader.count())
}
