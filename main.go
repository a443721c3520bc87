package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/madatlas/madatlas-be/internal/api"
	"github.com/madatlas/madatlas-be/internal/auth"
	"github.com/madatlas/madatlas-be/internal/config"
	"github.com/madatlas/madatlas-be/internal/database"
	"github.com/madatlas/madatlas-be/internal/logger"
	"github.com/madatlas/madatlas-be/internal/mailer"
	"github.com/madatlas/madatlas-be/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Init(cfg.LogLevel)

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to apply database migrations: %v", err)
	}

	// Set up services
	userService := services.NewUserService(db)
	postService := services.NewPostService(db)
	contactService := services.NewContactService(db)
	tokenService := auth.NewTokenService(cfg.SecretKey, cfg.AccessTokenTTL())

	// Set up and run the background contact notifier
	var notifier *mailer.Notifier
	if cfg.MailEnabled() {
		notifier, err = mailer.NewNotifier(contactService, mailer.New(cfg), cfg.NotifySchedule)
		if err != nil {
			log.Fatalf("Failed to initialize contact notifier: %v", err)
		}
		go notifier.Run()
	} else {
		log.Println("SMTP not configured; contact notifications are disabled")
	}

	// Set up router
	router := api.NewRouter(cfg, userService, postService, contactService, tokenService)

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on port %d\n", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	if notifier != nil {
		notifier.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}
