package main

import (
	"context"
	"log"
	"net/http"

	"gallery-backend/internal/config"
	"gallery-backend/internal/database"
	"gallery-backend/internal/handlers"
	"gallery-backend/internal/middleware"
	"gallery-backend/internal/services"
	"gallery-backend/internal/supabase"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize Supabase clients
	supabaseClient, err := supabase.NewClient(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize Supabase client: %v", err)
	}

	storageClient, err := supabase.NewStorageClient(cfg.SupabaseURL, cfg.SupabaseServiceKey, cfg.SupabaseStorageBucket, cfg.RetryAttempts, cfg.RetryBaseDelay)
	if err != nil {
		log.Fatalf("Failed to initialize storage client: %v", err)
	}

	realtimeClient := supabase.NewRealtimeClient(supabaseClient.Supabase)

	// Database client and migrations
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required; set it to the Supabase PostgreSQL connection string")
	}
	dbClient, err := supabase.NewDatabaseClient(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize database client: %v", err)
	}
	defer dbClient.Close()

	migrator, err := database.NewMigrator(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize migrator: %v", err)
	}
	if err := migrator.Run(); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	migrator.Close()
	log.Println("Migrations completed successfully")

	// Draft upload lifecycle
	manager := services.NewDraftManager(storageClient, dbClient, services.NewUploader(), realtimeClient, cfg)

	// Background sweep for drafts orphaned by a restart
	sweeper := services.NewSweeper(storageClient, manager.Has, cfg.DraftTTL, cfg.DraftSweepInterval)
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go sweeper.Run(sweepCtx)

	// Initialize handlers
	productsHandler := handlers.NewProductsHandler(dbClient, storageClient, manager)
	draftsHandler := handlers.NewDraftsHandler(manager)
	inquiriesHandler := handlers.NewInquiriesHandler(dbClient)

	// Setup router
	router := gin.Default()

	// Health check (no auth)
	router.GET("/health", handlers.HealthHandler)

	// Public gallery surface
	public := router.Group("/api/v1")
	public.GET("/products", productsHandler.ListProducts)
	public.GET("/products/:product_id", productsHandler.GetProduct)
	public.POST("/inquiries", inquiriesHandler.CreateInquiry)

	// Admin surface
	admin := router.Group("/api/v1")
	admin.Use(middleware.AuthMiddleware(cfg))
	admin.Use(middleware.AdminRequired())

	admin.POST("/drafts", draftsHandler.Upload)
	admin.GET("/drafts/:draft_id/progress", draftsHandler.Progress)
	admin.DELETE("/drafts/:draft_id", draftsHandler.Discard)
	admin.DELETE("/drafts/:draft_id/images/*image_path", draftsHandler.RemoveImage)

	admin.POST("/products", productsHandler.CreateProduct)
	admin.PATCH("/products/:product_id", productsHandler.UpdateProduct)
	admin.DELETE("/products/:product_id", productsHandler.DeleteProduct)
	admin.POST("/products/:product_id/images", productsHandler.AddImages)
	admin.DELETE("/products/:product_id/images/:image_id", productsHandler.RemoveImage)

	admin.GET("/inquiries", inquiriesHandler.ListInquiries)
	admin.PATCH("/inquiries/:inquiry_id", inquiriesHandler.UpdateInquiry)

	// Start server
	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	if err := http.ListenAndServe(":"+port, router); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
