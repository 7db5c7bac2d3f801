package main

import (
	"context"
	"net/http"
	"os"

	"github.com/Zero-Print/zeroprint-sub006/internal/api"
	"github.com/Zero-Print/zeroprint-sub006/internal/config"
	"github.com/Zero-Print/zeroprint-sub006/internal/database"
	"github.com/Zero-Print/zeroprint-sub006/internal/handler"
	"github.com/Zero-Print/zeroprint-sub006/internal/logger"
	"github.com/Zero-Print/zeroprint-sub006/internal/middleware"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Could not load config: %v", err)
		os.Exit(1)
	}

	// Connect to PostgreSQL
	db, err := database.ConnectPostgres(cfg)
	if err != nil {
		logger.Error("Database connection failed: %v", err)
		os.Exit(1)
	}
	defer db.Close()

	// Ensure schema
	if err := database.EnsureSchema(context.Background(), db); err != nil {
		logger.Error("Schema migration failed: %v", err)
		os.Exit(1)
	}

	// External services (Cloudinary, SES, Razorpay)
	handler.InitServices(cfg)

	// Initialize routes
	router := api.SetupRouter()

	// Wrap router with CORS middleware
	h := middleware.CORSMiddleware(router)

	// Start server
	logger.Success("Server starting on port %s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, h); err != nil {
		logger.Error("Server failed: %v", err)
		os.Exit(1)
	}
}
