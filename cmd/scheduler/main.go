package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"

	"github.com/credsimples/loan-engine/internal/config"
	"github.com/credsimples/loan-engine/internal/repository"
	"github.com/credsimples/loan-engine/internal/service"
)

func main() {
	log.Println("Starting delinquency scheduler...")

	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	overdueService := service.NewOverdueService(repository.NewUnitOfWork(db))

	location, err := time.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		log.Fatalf("Invalid scheduler timezone: %v", err)
	}

	// Initialize cron scheduler
	c := cron.New(cron.WithSeconds(), cron.WithLocation(location))

	// Daily job marking past-due installments overdue and cascading the
	// loan and customer status recomputation.
	_, err = c.AddFunc(cfg.Scheduler.OverdueSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		log.Println("Running overdue installment sweep...")
		affected, err := overdueService.MarkOverdue(ctx, time.Now())
		if err != nil {
			log.Printf("Overdue sweep failed: %v", err)
			return
		}
		log.Printf("Overdue sweep finished, %d loans updated", affected)
	})
	if err != nil {
		log.Fatalf("Error scheduling overdue sweep: %v", err)
	}

	// Run once on startup so a restarted scheduler catches up immediately.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		if _, err := overdueService.MarkOverdue(ctx, time.Now()); err != nil {
			log.Printf("Startup overdue sweep failed: %v", err)
		}
	}()

	// Start the scheduler
	c.Start()
	log.Println("Scheduler started successfully")

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down scheduler...")
	c.Stop()
	log.Println("Scheduler stopped")
}
