package main

import (
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"

	_ "github.com/jackc/pgx/v5/stdlib"

	"roamers-service/internal/api"
	"roamers-service/internal/config"
	"roamers-service/internal/events"
	"roamers-service/internal/notifier"
	"roamers-service/internal/repository"
)

func main() {
	if err := godotenv.Load(".env.dev"); err != nil {
		log.Println("No .env.dev file found, reading from environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	api.SetupGlobalHandler("notification-worker", cfg.LogLevel)

	if cfg.NATSURL == "" {
		log.Fatal("NATS_URL environment variable is not set")
	}

	db, err := sqlx.Connect("pgx", cfg.DSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	client, err := notifier.NewAPNSClient(cfg.APNS)
	if err != nil {
		log.Fatalf("Failed to configure APNs: %v", err)
	}

	var pusher notifier.Pusher
	if client != nil {
		pusher = client
	} else {
		slog.Warn("APNs credentials not configured, running in mock mode")
	}

	worker := notifier.NewWorker(pusher, repository.NewPostgresDeviceTokenRepository(db), cfg.APNS.Topic)

	nc, err := nats.Connect(cfg.NATSURL)
	if err != nil {
		log.Fatalf("Failed to connect to NATS: %v", err)
	}
	defer nc.Drain()

	if _, err := events.NewSubscriber(nc, events.SubjectTourJoined, worker.HandleTourJoined).Start(); err != nil {
		log.Fatalf("Failed to subscribe to %s: %v", events.SubjectTourJoined, err)
	}

	slog.Info("notification worker started, waiting for events")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down notification worker")
}
