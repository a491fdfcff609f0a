// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/hudzstore/backend/internal/config"
	"github.com/hudzstore/backend/internal/database"
	"github.com/hudzstore/backend/internal/realtime"
	"github.com/hudzstore/backend/internal/router"
	"github.com/hudzstore/backend/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatal("Failed to load configuration: ", err)
	}

	if cfg.Environment == "production" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	db, err := database.Initialize(cfg.Database)
	if err != nil {
		logrus.Fatal("Failed to initialize database: ", err)
	}
	defer database.Close(db)

	// Run database migrations
	if err := database.RunMigrations(db); err != nil {
		logrus.Fatal("Failed to run migrations: ", err)
	}

	if err := database.SeedInitialData(db); err != nil {
		logrus.Fatal("Failed to seed initial data: ", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start the realtime change feed and the WebSocket hub relaying it
	listener := realtime.NewListener(cfg.Database.DSN())
	if err := listener.Start(ctx); err != nil {
		logrus.Fatal("Failed to start realtime listener: ", err)
	}
	defer listener.Close()

	hub := realtime.NewHub()
	go hub.Run()
	defer hub.Close()
	go hub.Relay(listener.Subscribe())

	// Start the synced local collections backing the public read surface
	productService := services.NewProductService(db)
	settingsService := services.NewSettingsService(db)

	productCache := realtime.NewProductCache(productService)
	productCache.TrackFeed(listener.Err)
	events, cancelSub := listener.Subscribe()
	productCache.Start(ctx, events, cancelSub)
	defer productCache.Close()

	settingsCache := realtime.NewSettingsCache(settingsService)
	settingsCache.TrackFeed(listener.Err)
	events, cancelSub = listener.Subscribe()
	settingsCache.Start(ctx, events, cancelSub)
	defer settingsCache.Close()

	// Initialize router
	r, err := router.Initialize(db, cfg, router.Deps{
		Hub:           hub,
		ProductCache:  productCache,
		SettingsCache: settingsCache,
	})
	if err != nil {
		logrus.Fatal("Failed to initialize router: ", err)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logrus.Infof("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatal("Failed to start server: ", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Fatal("Server forced to shutdown: ", err)
	}

	logrus.Info("Server exited")
}
