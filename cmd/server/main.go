package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dom/emblem-vtt/internal/api"
	"github.com/dom/emblem-vtt/internal/config"
	"github.com/dom/emblem-vtt/internal/imaging"
	"github.com/dom/emblem-vtt/internal/repository/postgres"
	"github.com/dom/emblem-vtt/internal/service"
	"github.com/dom/emblem-vtt/internal/session"
	"github.com/dom/emblem-vtt/internal/websocket"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Initialize database
	db, err := postgres.NewConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	// Initialize repositories
	repos := postgres.NewRepositories(db)

	// Initialize session store
	redisClient, err := session.NewRedisClient(cfg.RedisAddr)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	sessions := session.NewRedisStore(redisClient)

	// Initialize tile image storage
	blobs, err := imaging.NewDiskStore(cfg.TileImageDir)
	if err != nil {
		log.Fatalf("failed to initialize tile image storage: %v", err)
	}

	// Initialize WebSocket hub
	hub := websocket.NewHub(repos.Map, repos.Token)
	go hub.Run()

	// Initialize services
	services := service.NewServices(repos, sessions, imaging.NewTransformer(), blobs, hub, cfg)
	hub.Bind(services.Access, services.Token)

	// Initialize router
	router := api.NewRouter(services, hub, cfg)

	// Create server
	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	hub.Stop()

	log.Println("Server stopped")
}
