package main

import (
	"context"
	"embed"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/renthub/renthub/config"
	"github.com/renthub/renthub/config/db"
	redisdb "github.com/renthub/renthub/config/redis"
	"github.com/renthub/renthub/logger"
	"github.com/renthub/renthub/middlewares/cors"
	"github.com/renthub/renthub/repository"
	"github.com/renthub/renthub/repository/jsonfile"
	"github.com/renthub/renthub/repository/postgres"
	"github.com/renthub/renthub/routes"
	"github.com/renthub/renthub/services/booking_lifecycle"
	"github.com/renthub/renthub/utils/mail"
)

//go:embed templates/email/*
var embeddedEmailTemplates embed.FS

func init() {
	logger.InitLoggers()
	config.LoadEnv()
}

// buildStore selects the storage backend. STORAGE_BACKEND=postgres uses the
// relational store; anything else falls back to the JSON-file store, which
// needs no external services.
func buildStore() *repository.Store {
	backend := config.GetEnv("STORAGE_BACKEND", "jsonfile")

	switch backend {
	case "postgres":
		db.Connect()
		logger.InfoLogger.Info("Using PostgreSQL storage backend")
		return postgres.NewStore(db.DB)
	case "jsonfile":
		dataDir := config.GetEnv("DATA_DIR", "data")
		store, err := jsonfile.NewStore(dataDir)
		if err != nil {
			logger.ErrorLogger.Fatalf("Failed to open JSON file store in %s: %v", dataDir, err)
		}
		logger.InfoLogger.Infof("Using JSON file storage backend in %s", dataDir)
		return store
	default:
		logger.ErrorLogger.Fatalf("Unknown STORAGE_BACKEND %q (want postgres or jsonfile)", backend)
		return nil
	}
}

func main() {
	store := buildStore()
	defer db.Close()
	defer redisdb.CloseRedis()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8081"
	}

	mail.InitTemplates(embeddedEmailTemplates)
	logger.InfoLogger.Info("Application: Email templates initialized.")

	lifecycle := booking_lifecycle.NewService(store, booking_lifecycle.NewLiveNotifier())

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.CorsMiddleware())

	routes.RegisterUserRoutes(r, store)
	routes.RegisterVehicleRoutes(r, store)
	routes.RegisterBookingRoutes(r, store, lifecycle)
	routes.RegisterAdminRoutes(r, store, lifecycle)
	routes.RegisterSOSRoutes(r, store)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "ok from renthub service"})
	})

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		fmt.Printf("Go Server listening on :%s\n", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Printf("Server failed to listen: %v\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	fmt.Println("Shutting down Go server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		fmt.Printf("Go Server forced to shutdown: %v\n", err)
	}

	fmt.Println("Go Server exited gracefully.")
}
