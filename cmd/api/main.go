package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"database/sql"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/georgiana-ojoc/UserManagementAPI/internal/config"
	"github.com/georgiana-ojoc/UserManagementAPI/internal/handler"
	"github.com/georgiana-ojoc/UserManagementAPI/internal/middleware"
	"github.com/georgiana-ojoc/UserManagementAPI/internal/notify"
	"github.com/georgiana-ojoc/UserManagementAPI/internal/repository"
	"github.com/georgiana-ojoc/UserManagementAPI/internal/security"
	"github.com/georgiana-ojoc/UserManagementAPI/internal/service"
)

func main() {
	// Optional .env overlay; real environment variables win
	_ = godotenv.Load()

	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logLevel, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	// Initialize database
	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}

	// Initialize layers
	users := repository.NewPostgresUserRepository(db)
	sessions := repository.NewPostgresSessionRepository(db)
	hasher := security.NewBcryptHasher(cfg.BcryptCost)
	var notifier notify.Notifier = notify.NoOpSender{}
	if cfg.SMTPHost != "" {
		notifier = notify.NewSender(cfg, logger)
	}
	svc := service.NewService(users, sessions, hasher, notifier, logger, cfg.JWTSecret, cfg.SessionTTL)
	h := handler.NewHandler(svc)

	// Setup router
	r := mux.NewRouter()
	// Public routes
	r.HandleFunc("/register", h.Register).Methods("POST")
	r.HandleFunc("/login", h.Login).Methods("POST")
	// Protected routes
	authRouter := r.PathPrefix("/users").Subrouter()
	authRouter.Use(middleware.Auth(cfg, sessions, logger))
	authRouter.HandleFunc("/me", h.GetCurrentUser).Methods("GET")
	authRouter.HandleFunc("/{username}", h.GetProfile).Methods("GET")
	authRouter.HandleFunc("/{username}", h.Update).Methods("PUT")

	// Purge expired sessions hourly
	scheduler := cron.New()
	if _, err := scheduler.AddFunc("@hourly", func() {
		if _, err := svc.PurgeExpiredSessions(context.Background()); err != nil {
			logger.Errorf("Failed to purge expired sessions: %v", err)
		}
	}); err != nil {
		logger.Fatalf("Failed to schedule session purge: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infof("Starting server on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Server failed: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Errorf("Forced shutdown: %v", err)
	}
}
