package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aditya/worknearby/internal/config"
	"github.com/aditya/worknearby/internal/database"
	"github.com/aditya/worknearby/internal/handler"
	"github.com/aditya/worknearby/internal/middleware"
	"github.com/aditya/worknearby/internal/repository"
	"github.com/aditya/worknearby/internal/seed"
	"github.com/aditya/worknearby/internal/service"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize New Relic (optional)
	var nrApp *newrelic.Application
	if cfg.NewRelicEnabled && cfg.NewRelicLicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelicAppName),
			newrelic.ConfigLicense(cfg.NewRelicLicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
			newrelic.ConfigInfoLogger(os.Stdout),
		)
		if err != nil {
			log.Printf("Warning: Failed to initialize New Relic: %v", err)
		} else {
			log.Println("New Relic initialized successfully")
			if err := nrApp.WaitForConnection(10 * time.Second); err != nil {
				log.Printf("Warning: New Relic connection timeout: %v", err)
			}
		}
	}

	// Initialize Redis (optional)
	var redisDB *database.RedisDB
	var redisClient *redis.Client
	if cfg.RedisEnabled {
		redisDB, err = database.NewRedis(context.Background(), cfg.RedisURL, cfg.RedisPassword)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisDB.Close()
		redisClient = redisDB.Client
		log.Println("Connected to Redis")
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository()
	credRepo := repository.NewCredentialRepository()
	workerRepo := repository.NewWorkerRepository()
	bookingRepo := repository.NewBookingRepository()

	// Initialize services
	sessionService := service.NewSessionService(userRepo, credRepo, service.SessionConfig{
		Secret:     []byte(cfg.JWTSecret),
		TTL:        cfg.SessionTTL,
		BcryptCost: cfg.BcryptCost,
	})
	sseHandler := handler.NewSSEHandler(redisClient)
	defer sseHandler.Close()

	workerService := service.NewWorkerService(workerRepo, sessionService, cfg.AdminRequireAuth)
	bookingService := service.NewBookingService(bookingRepo, workerService, sessionService, sseHandler)
	userService := service.NewUserService(userRepo, sessionService)
	preferencesService := service.NewPreferencesService()
	sseHandler.SetBookingService(bookingService)

	if cfg.SeedDemoData {
		ctx := context.Background()
		if err := seed.Workers(ctx, workerRepo); err != nil {
			log.Fatalf("Failed to seed workers: %v", err)
		}
		if err := seed.DemoAccount(ctx, sessionService); err != nil {
			log.Fatalf("Failed to seed demo account: %v", err)
		}
	}

	if !cfg.AdminRequireAuth {
		log.Println("Warning: admin approve/reject routes are reachable without login; set ADMIN_REQUIRE_AUTH=true to close them")
	}

	api := &handler.API{
		Auth:              handler.NewAuthHandler(sessionService),
		Workers:           handler.NewWorkerHandler(workerService, bookingService),
		Admin:             handler.NewAdminHandler(workerService),
		Bookings:          handler.NewBookingHandler(bookingService),
		Events:            sseHandler,
		Users:             handler.NewUserHandler(userService),
		Preferences:       handler.NewPreferencesHandler(preferencesService),
		Sessions:          sessionService,
		AdminRequiresAuth: cfg.AdminRequireAuth,
	}

	// Create router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Recovery)
	r.Use(middleware.Logger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.IdempotencyHeader},
		ExposedHeaders:   []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// New Relic middleware
	if nrApp != nil {
		r.Use(middleware.NewRelicMiddleware(nrApp))
	}

	if redisClient != nil {
		rateLimiter := middleware.NewRateLimiter(redisClient, cfg.RateLimitRequests, time.Minute)
		r.Use(rateLimiter.Handler)

		idempotencyMw := middleware.NewIdempotencyMiddleware(redisClient)
		r.Use(idempotencyMw.Handler)
	}

	checks := map[string]func(r *http.Request) error{}
	if redisDB != nil {
		checks["redis"] = func(r *http.Request) error { return redisDB.Health(r.Context()) }
	}
	r.Get("/health", handler.Health(checks))

	api.Mount(r)

	// Create server. No write timeout: booking event streams stay open.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
		if nrApp != nil {
			nrApp.Shutdown(5 * time.Second)
		}
	}()

	// Start server
	log.Printf("Server starting on port %s (%s)", cfg.Port, cfg.Env)
	log.Println("API endpoints:")
	log.Println("  POST /v1/auth/signup                - Create account")
	log.Println("  POST /v1/auth/login                 - Log in")
	log.Println("  GET  /v1/workers                    - Search approved workers")
	log.Println("  POST /v1/workers                    - Register worker")
	log.Println("  GET  /v1/admin/workers              - Review queue")
	log.Println("  POST /v1/admin/workers/{id}/approve - Approve worker")
	log.Println("  POST /v1/bookings                   - Create booking")
	log.Println("  POST /v1/bookings/{id}/advance      - Advance booking")
	log.Println("  POST /v1/bookings/{id}/review       - Review booking")
	log.Println("  GET  /v1/bookings/{id}/events       - SSE booking updates")

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}

	log.Println("Server stopped gracefully")
}
