// Command main is the entry point for the Creatorr web server.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"creatorr/internal/cache"
	"creatorr/internal/config"
	"creatorr/internal/database"
	"creatorr/internal/mailer"
	"creatorr/internal/seed"
	"creatorr/internal/server"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Database, schema and the fixed template catalog
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	if err := seed.EnsureTemplates(db); err != nil {
		log.Fatalf("Failed to seed template catalog: %v", err)
	}

	cache.InitRedis(cfg.RedisURL)

	srv, err := server.NewServerWithDeps(cfg, db, cache.GetClient(), mailer.NewSMTP(cfg))
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	app := srv.BuildApp()

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := app.ShutdownWithContext(ctx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	// Start server
	log.Printf("Server starting on port %s...", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}
