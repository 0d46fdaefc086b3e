package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/farmstead/farmstead-backend/internal/auth"
	authhandler "github.com/farmstead/farmstead-backend/internal/auth/handler"
	"github.com/farmstead/farmstead-backend/internal/auth/jwt"
	authrepository "github.com/farmstead/farmstead-backend/internal/auth/repository"
	authservice "github.com/farmstead/farmstead-backend/internal/auth/service"
	farmevents "github.com/farmstead/farmstead-backend/internal/farm/events"
	farmhandler "github.com/farmstead/farmstead-backend/internal/farm/handler"
	farmrepository "github.com/farmstead/farmstead-backend/internal/farm/repository"
	farmservice "github.com/farmstead/farmstead-backend/internal/farm/service"
	"github.com/farmstead/farmstead-backend/internal/inventory/events"
	"github.com/farmstead/farmstead-backend/internal/inventory/handler"
	"github.com/farmstead/farmstead-backend/internal/inventory/repository"
	"github.com/farmstead/farmstead-backend/internal/inventory/service"
	"github.com/farmstead/farmstead-backend/internal/weather"
	"github.com/farmstead/farmstead-backend/pkg/config"
	"github.com/farmstead/farmstead-backend/pkg/database"
	"github.com/farmstead/farmstead-backend/pkg/httputil"
	"github.com/farmstead/farmstead-backend/pkg/logger"
	"github.com/farmstead/farmstead-backend/pkg/messaging"
)

func main() {
	// Load configuration with validation (fails fast in production if required config is missing)
	cfg, err := config.LoadWithValidation("api")
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	log := logger.New("farmstead-api", cfg.Server.Environment)
	log.Info().Msg("starting Farmstead API")

	// Connect to database
	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Connect to RabbitMQ. Event publishing is best-effort: the API stays up
	// without a broker, publishers are nil-guarded.
	var inventoryPublisher *events.InventoryEventPublisher
	var farmPublisher *farmevents.FarmEventPublisher

	rmq, err := messaging.New(&cfg.RabbitMQ, log)
	if err != nil {
		log.Warn().Err(err).Msg("RabbitMQ unavailable, events disabled")
	} else {
		defer rmq.Close()

		inventoryPublisher, err = events.NewInventoryEventPublisher(rmq, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create inventory event publisher")
		}
		farmPublisher, err = farmevents.NewFarmEventPublisher(rmq, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create farm event publisher")
		}
	}

	// Repositories
	itemRepo := repository.NewItemRepository(db)
	locationRepo := repository.NewLocationRepository(db)
	movementRepo := repository.NewMovementRepository(db)
	batchRepo := repository.NewBatchRepository(db)
	alertRepo := repository.NewAlertRepository(db)
	farmRepo := farmrepository.NewFarmRepository(db)
	cropRepo := farmrepository.NewCropRepository(db)
	taskRepo := farmrepository.NewTaskRepository(db)
	transactionRepo := farmrepository.NewTransactionRepository(db)
	equipmentRepo := farmrepository.NewEquipmentRepository(db)
	userRepo := authrepository.NewUserRepository(db)

	// Services
	inventoryService := service.NewInventoryService(
		itemRepo, locationRepo, movementRepo, batchRepo, alertRepo, inventoryPublisher, log)
	farmService := farmservice.NewFarmService(
		farmRepo, cropRepo, taskRepo, transactionRepo, equipmentRepo, inventoryService, farmPublisher, log)

	jwtManager := jwt.NewManager(&cfg.JWT)
	authService := authservice.NewAuthService(userRepo, jwtManager, log)

	weatherService := weather.NewService(
		newWeatherProvider(cfg, log),
		cfg.Weather.Latitude, cfg.Weather.Longitude, cfg.Weather.CacheTTL, log)

	// Background alert scanner
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Alerts.SchedulerEnabled {
		scanner := service.NewAlertScanner(
			itemRepo, movementRepo, batchRepo, alertRepo, inventoryPublisher,
			time.Duration(cfg.Alerts.ExpiryWindowDays)*24*time.Hour, log)
		scheduler := service.NewAlertScheduler(scanner, cfg.Alerts.ScanInterval, log)
		scheduler.Start(ctx)
		defer scheduler.Stop()
	}

	// Handlers
	authHandler := authhandler.NewAuthHandler(authService, log)
	itemHandler := handler.NewItemHandler(inventoryService, log)
	locationHandler := handler.NewLocationHandler(inventoryService, log)
	movementHandler := handler.NewMovementHandler(inventoryService, log)
	batchHandler := handler.NewBatchHandler(inventoryService, log)
	alertHandler := handler.NewAlertHandler(inventoryService, log)
	inventoryDashboardHandler := handler.NewDashboardHandler(inventoryService, log)
	farmHandler := farmhandler.NewFarmHandler(farmService, log)
	cropHandler := farmhandler.NewCropHandler(farmService, log)
	taskHandler := farmhandler.NewTaskHandler(farmService, log)
	transactionHandler := farmhandler.NewTransactionHandler(farmService, log)
	equipmentHandler := farmhandler.NewEquipmentHandler(farmService, log)
	farmDashboardHandler := farmhandler.NewDashboardHandler(farmService, log)
	weatherHandler := weather.NewHandler(weatherService, log)

	// Router
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(httputil.RequestID)
	r.Use(httputil.Logger(log))
	r.Use(httputil.Recoverer(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		health := map[string]interface{}{
			"status":   "healthy",
			"service":  "farmstead-api",
			"database": db.Health(r.Context()),
		}
		if rmq != nil {
			health["rabbitmq"] = rmq.Health()
		}
		httputil.JSON(w, http.StatusOK, health)
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Public auth routes
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		// Everything else requires a valid access token
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(jwtManager))

			r.Get("/auth/me", authHandler.Me)

			r.Route("/farms", func(r chi.Router) {
				r.Get("/", farmHandler.List)
				r.Post("/", farmHandler.Create)
				r.Get("/{id}", farmHandler.Get)
				r.Put("/{id}", farmHandler.Update)
				r.Delete("/{id}", farmHandler.Delete)
			})

			r.Route("/crops", func(r chi.Router) {
				r.Get("/", cropHandler.List)
				r.Post("/", cropHandler.Create)
				r.Get("/{id}", cropHandler.Get)
				r.Put("/{id}", cropHandler.Update)
				r.Delete("/{id}", cropHandler.Delete)
			})

			r.Route("/tasks", func(r chi.Router) {
				r.Get("/", taskHandler.List)
				r.Post("/", taskHandler.Create)
				r.Get("/{id}", taskHandler.Get)
				r.Put("/{id}", taskHandler.Update)
				r.Delete("/{id}", taskHandler.Delete)
				r.Put("/{id}/toggle", taskHandler.Toggle)
			})

			r.Route("/transactions", func(r chi.Router) {
				r.Get("/", transactionHandler.List)
				r.Post("/", transactionHandler.Create)
				r.Get("/summary", transactionHandler.Summary)
				r.Get("/{id}", transactionHandler.Get)
				r.Put("/{id}", transactionHandler.Update)
				r.Delete("/{id}", transactionHandler.Delete)
			})

			r.Route("/equipment", func(r chi.Router) {
				r.Get("/", equipmentHandler.List)
				r.Post("/", equipmentHandler.Create)
				r.Get("/{id}", equipmentHandler.Get)
				r.Put("/{id}", equipmentHandler.Update)
				r.Delete("/{id}", equipmentHandler.Delete)
			})

			r.Route("/inventory", func(r chi.Router) {
				r.Route("/items", func(r chi.Router) {
					r.Get("/", itemHandler.List)
					r.Post("/", itemHandler.Create)
					r.Get("/low-stock", itemHandler.ListLowStock)
					r.Get("/{id}", itemHandler.Get)
					r.Put("/{id}", itemHandler.Update)
					r.Delete("/{id}", itemHandler.Delete)
					r.Get("/{id}/stock", itemHandler.GetStockLevel)
					r.Get("/{id}/batches", batchHandler.ListByItem)
				})

				r.Route("/locations", func(r chi.Router) {
					r.Get("/", locationHandler.List)
					r.Post("/", locationHandler.Create)
					r.Get("/{id}", locationHandler.Get)
					r.Put("/{id}", locationHandler.Update)
					r.Delete("/{id}", locationHandler.Delete)
				})

				r.Route("/movements", func(r chi.Router) {
					r.Get("/", movementHandler.List)
					r.Post("/", movementHandler.Create)
					r.Get("/summary", movementHandler.Summary)
				})

				r.Route("/batches", func(r chi.Router) {
					r.Post("/", batchHandler.Create)
					r.Get("/summary", batchHandler.Summary)
					r.Get("/{id}", batchHandler.Get)
					r.Put("/{id}", batchHandler.Update)
					r.Delete("/{id}", batchHandler.Delete)
					r.Post("/{id}/consume", batchHandler.Consume)
				})

				r.Get("/alerts", alertHandler.List)
				r.Put("/alerts/{id}/acknowledge", alertHandler.Acknowledge)
				r.Get("/dashboard/stats", inventoryDashboardHandler.Stats)
			})

			r.Get("/dashboard", farmDashboardHandler.Overview)
			r.Get("/weather", weatherHandler.Get)
		})
	})

	// Server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

// newWeatherProvider picks the weather backend from configuration
func newWeatherProvider(cfg *config.Config, log *logger.Logger) weather.Provider {
	switch cfg.Weather.Provider {
	case "open-meteo":
		return weather.NewOpenMeteoProvider(cfg.Weather.BaseURL, log)
	default:
		return weather.NewStaticProvider()
	}
}
