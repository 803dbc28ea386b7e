package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"chatcore/internal/dbmysql"
	"chatcore/internal/di"
)

func main() {
	log.Println("Starting Chat Service...")

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	app, cleanup, err := di.InitializeApp()
	if err != nil {
		log.Fatalf("Failed to initialize chat service: %v", err)
	}
	defer cleanup()

	if err := dbmysql.AutoMigrate(app.DB); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed")

	c := cors.New(cors.Options{
		AllowedOrigins:   app.Config.Server.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost},
		AllowedHeaders:   []string{"Content-Type", "X-User-ID"},
		AllowCredentials: true,
	})

	server := &http.Server{
		Addr:    app.Config.Addr(),
		Handler: c.Handler(app.Router),
	}

	go func() {
		log.Printf("Chat Service running on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down Chat Service...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Forced shutdown: %v", err)
	}
	log.Println("Chat Service stopped")
}
