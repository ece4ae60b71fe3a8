package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/credsimples/loan-engine/internal/config"
	"github.com/credsimples/loan-engine/internal/handler"
	"github.com/credsimples/loan-engine/internal/report"
	"github.com/credsimples/loan-engine/internal/repository"
	"github.com/credsimples/loan-engine/internal/service"
	"github.com/credsimples/loan-engine/pkg/response"
)

func main() {
	// Load .env before viper reads the environment (optional file)
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database
	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Initialize Redis
	redisClient := initRedis(cfg)
	defer redisClient.Close()

	// Initialize repositories
	uow := repository.NewUnitOfWork(db)
	customerRepo := repository.NewCustomerRepository(db)
	loanRepo := repository.NewLoanRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	accountRepo := repository.NewAccountRepository(db)

	// Initialize services
	customerService := service.NewCustomerService(uow, customerRepo, loanRepo)
	loanService := service.NewLoanService(uow, loanRepo, customerRepo, redisClient, cfg)
	paymentService := service.NewPaymentService(uow, paymentRepo, loanRepo, redisClient, cfg)
	accountService := service.NewAccountService(uow, accountRepo)
	reportService := service.NewReportService(
		loanRepo, paymentRepo, accountRepo, customerRepo,
		report.NewClient(cfg.Report), redisClient, cfg,
	)

	// Initialize handlers
	customerHandler := handler.NewCustomerHandler(customerService)
	loanHandler := handler.NewLoanHandler(loanService, paymentService)
	accountHandler := handler.NewAccountHandler(accountService)
	reportHandler := handler.NewReportHandler(reportService)
	healthHandler := handler.NewHealthHandler(db, redisClient, cfg.Health.Timeout)

	// Setup routes
	router := setupRoutes(customerHandler, loanHandler, accountHandler, reportHandler, healthHandler)

	// Start server
	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

func initDB(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	return db, nil
}

func initRedis(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

func setupRoutes(
	customerHandler *handler.CustomerHandler,
	loanHandler *handler.LoanHandler,
	accountHandler *handler.AccountHandler,
	reportHandler *handler.ReportHandler,
	healthHandler *handler.HealthHandler,
) *mux.Router {
	router := mux.NewRouter()
	router.Use(response.LoggingMiddleware)
	router.Use(response.CORSMiddleware)

	// Health check
	router.HandleFunc("/health", healthHandler.Health).Methods("GET")
	router.HandleFunc("/health/ready", healthHandler.Ready).Methods("GET")

	// API routes
	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/customers", customerHandler.Create).Methods("POST")
	api.HandleFunc("/customers", customerHandler.List).Methods("GET")
	api.HandleFunc("/customers/{customerId}", customerHandler.Get).Methods("GET")
	api.HandleFunc("/customers/{customerId}", customerHandler.Update).Methods("PUT")
	api.HandleFunc("/customers/{customerId}", customerHandler.Delete).Methods("DELETE")
	api.HandleFunc("/customers/{customerId}/loans", loanHandler.GetByCustomer).Methods("GET")

	api.HandleFunc("/loans", loanHandler.Create).Methods("POST")
	api.HandleFunc("/loans/{loanId}", loanHandler.Get).Methods("GET")
	api.HandleFunc("/loans/{loanId}", loanHandler.Update).Methods("PUT")
	api.HandleFunc("/loans/{loanId}", loanHandler.Delete).Methods("DELETE")
	api.HandleFunc("/loans/{loanId}/schedule", loanHandler.GetSchedule).Methods("GET")
	api.HandleFunc("/loans/{loanId}/outstanding", loanHandler.GetOutstanding).Methods("GET")
	api.HandleFunc("/loans/{loanId}/payments", loanHandler.ApplyPayment).Methods("POST")
	api.HandleFunc("/loans/{loanId}/payments", loanHandler.ListPayments).Methods("GET")

	api.HandleFunc("/accounts", accountHandler.Create).Methods("POST")
	api.HandleFunc("/accounts", accountHandler.List).Methods("GET")
	api.HandleFunc("/accounts/{accountId}", accountHandler.Get).Methods("GET")
	api.HandleFunc("/accounts/{accountId}/transactions", accountHandler.CreateTransaction).Methods("POST")
	api.HandleFunc("/accounts/{accountId}/transactions", accountHandler.ListTransactions).Methods("GET")

	api.HandleFunc("/reports", reportHandler.Generate).Methods("POST")

	return router
}
