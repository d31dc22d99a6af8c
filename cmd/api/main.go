package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/crudmaker/Bank-REST/configs"
	"github.com/crudmaker/Bank-REST/internal/handler"
	"github.com/crudmaker/Bank-REST/internal/middleware"
	"github.com/crudmaker/Bank-REST/internal/models"
	"github.com/crudmaker/Bank-REST/internal/repository"
	"github.com/crudmaker/Bank-REST/internal/repository/postgres"
	"github.com/crudmaker/Bank-REST/internal/service"
	"github.com/crudmaker/Bank-REST/pkg/crypto"
)

func main() {
	// Initialize logger
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)
	log.SetLevel(logrus.InfoLevel)

	// Load configuration
	cfg, err := configs.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// The card cipher fails fast on an invalid key length
	cardCipher, err := crypto.NewCardCipher([]byte(cfg.Encryption.CardKey))
	if err != nil {
		log.Fatalf("Failed to initialize card cipher: %v", err)
	}

	masker := crypto.NewMasker(cfg.Masking.VisibleDigits, []rune(cfg.Masking.MaskChar)[0])

	// Connect to database
	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Initialize repositories
	repos := &repository.Repository{
		Card: postgres.NewCardRepository(db),
		User: postgres.NewUserRepository(db),
	}

	// Initialize services
	services := service.NewService(service.Dependencies{
		Repos:  repos,
		Logger: log,
		Config: cfg,
		Cipher: cardCipher,
		Masker: masker,
	})

	// Initialize handlers
	handlers := handler.NewHandler(handler.Dependencies{
		Services: services,
		Logger:   log,
		Config:   cfg,
	})

	// Initialize router
	router := mux.NewRouter()
	router.Use(middleware.LogMiddleware(log))

	// Public routes
	router.HandleFunc("/auth/register", handlers.Auth.Register).Methods(http.MethodPost)
	router.HandleFunc("/auth/login", handlers.Auth.Login).Methods(http.MethodPost)

	// Authenticated routes
	api := router.PathPrefix("/api").Subrouter()
	api.Use(middleware.AuthMiddleware(cfg.JWT.Secret))

	api.HandleFunc("/cards", handlers.Card.GetAll).Methods(http.MethodGet)
	api.HandleFunc("/cards/{id}/block", handlers.Card.Block).Methods(http.MethodPost)
	api.HandleFunc("/transfers", handlers.Transfer.Transfer).Methods(http.MethodPost)

	// Admin routes
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.RequireRole(models.RoleAdmin))

	admin.HandleFunc("/cards", handlers.Admin.CreateCard).Methods(http.MethodPost)
	admin.HandleFunc("/cards", handlers.Admin.GetAllCards).Methods(http.MethodGet)
	admin.HandleFunc("/cards/{id}/status", handlers.Admin.UpdateCardStatus).Methods(http.MethodPut)
	admin.HandleFunc("/cards/{id}", handlers.Admin.DeleteCard).Methods(http.MethodDelete)
	admin.HandleFunc("/users", handlers.Admin.GetAllUsers).Methods(http.MethodGet)
	admin.HandleFunc("/users/{id}", handlers.Admin.GetUser).Methods(http.MethodGet)
	admin.HandleFunc("/users/{id}/role", handlers.Admin.UpdateUserRole).Methods(http.MethodPut)
	admin.HandleFunc("/users/{id}/lock", handlers.Admin.UpdateUserLock).Methods(http.MethodPut)

	// Schedule the expiry sweeper; the schedule is a deployment concern,
	// the service only exposes Run
	scheduler := cron.New()
	_, err = scheduler.AddFunc("0 1 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		count, err := services.Sweeper.Run(ctx, time.Now())
		if err != nil {
			log.Errorf("Expiry sweep failed after %d cards: %v", count, err)
		}
	})
	if err != nil {
		log.Fatalf("Failed to schedule expiry sweeper: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Configure and start server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  time.Second * 15,
		WriteTimeout: time.Second * 15,
		IdleTimeout:  time.Second * 60,
	}

	go func() {
		log.Infof("Starting server on port %d", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	log.Info("Server gracefully stopped")
}

func initDB(cfg *configs.Config) (*sql.DB, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.User, cfg.Database.Password, cfg.Database.DBName)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	if err = db.Ping(); err != nil {
		return nil, err
	}

	return db, nil
}
