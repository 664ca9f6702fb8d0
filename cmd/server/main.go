package main

import (
	"context"
	"database/sql"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"

	_ "github.com/jackc/pgx/v5/stdlib"

	"roamers-service/internal/api"
	"roamers-service/internal/config"
	"roamers-service/internal/events"
	"roamers-service/internal/jwt"
	"roamers-service/internal/repository"
	"roamers-service/internal/s3"
	"roamers-service/internal/service"
	"roamers-service/internal/tracing"
	_ "roamers-service/migrations"
)

const serviceName = "roamers-service"

func main() {
	if err := godotenv.Load(".env.dev"); err != nil {
		log.Println("No .env.dev file found, reading from environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	api.SetupGlobalHandler(serviceName, cfg.LogLevel)

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "migrate":
			handleMigrations(cfg)
			return
		case "create-admin":
			handleCreateAdmin(cfg)
			return
		}
	}

	ctx := context.Background()

	shutdownTracer, err := tracing.InitTracerProvider(ctx, serviceName, cfg.OtelEndpoint, cfg.OtelEnabled)
	if err != nil {
		log.Fatalf("Failed to initialize OpenTelemetry: %v", err)
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			slog.Error("shutting down tracer provider", "error", err)
		}
	}()

	if cfg.UsesInsecureSecret() {
		slog.Warn("JWT_SECRET is not set, signing tokens with the built-in development secret")
	}

	db := connectDB(cfg)
	defer db.Close()

	var publisher events.EventPublisher = events.NopPublisher{}
	if cfg.NATSURL != "" {
		natsPublisher, nc, err := events.NewNatsPublisher(cfg.NATSURL)
		if err != nil {
			log.Fatalf("Failed to connect to NATS: %v", err)
		}
		defer nc.Drain()
		publisher = natsPublisher
		slog.Info("connected to NATS", "url", cfg.NATSURL)
	} else {
		slog.Info("NATS_URL not set, tour events are not published")
	}

	// Left as a nil interface when S3 is not configured so the upload route stays unmounted.
	var presigner api.ImagePresigner
	if cfg.S3.Enabled() {
		filePresigner, err := s3.NewFilePresigner(ctx, cfg.S3)
		if err != nil {
			log.Fatalf("Failed to configure S3 presigner: %v", err)
		}
		presigner = filePresigner
	}

	userRepo := repository.NewPostgresUserRepository(db)
	spotRepo := repository.NewPostgresSpotRepository(db)
	tourRepo := repository.NewPostgresTourRepository(db)
	reviewRepo := repository.NewPostgresReviewRepository(db)
	favoriteRepo := repository.NewPostgresFavoriteRepository(db)
	deviceRepo := repository.NewPostgresDeviceTokenRepository(db)

	tokens := jwt.NewTokenManager(cfg.SigningSecret(), cfg.JWTIssuer, cfg.JWTTTL)

	authService := service.NewAuthService(userRepo, tokens)
	userService := service.NewUserService(userRepo, deviceRepo)
	tourService := service.NewTourService(tourRepo, spotRepo, publisher)
	spotService := service.NewSpotService(spotRepo, userRepo)
	reviewService := service.NewReviewService(reviewRepo, spotRepo)
	favoriteService := service.NewFavoriteService(favoriteRepo)

	app := api.NewApp(api.AppConfig{
		ServiceName:         serviceName,
		CORSOrigins:         cfg.CORSOrigins,
		RateLimitMax:        cfg.RateLimitMax,
		RateLimitExpiration: time.Duration(cfg.RateLimitExpiration) * time.Second,
	}, authService, api.Handlers{
		Auth:     api.NewAuthHandler(authService),
		User:     api.NewUserHandler(userService),
		Tour:     api.NewTourHandler(tourService),
		Spot:     api.NewSpotHandler(spotService, presigner),
		Review:   api.NewReviewHandler(reviewService),
		Favorite: api.NewFavoriteHandler(favoriteService),
	})

	go func() {
		slog.Info("listening", "service", serviceName, "address", cfg.HTTPAddress())
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("Server stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}

func connectDB(cfg config.Config) *sqlx.DB {
	db, err := sqlx.Connect("pgx", cfg.DSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	slog.Info("connected to the database")
	return db
}

func handleMigrations(cfg config.Config) {
	slog.Info("running database migrations")

	db, err := sql.Open("pgx", cfg.DSN())
	if err != nil {
		log.Fatalf("failed to connect to database for migration: %v", err)
	}
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatalf("failed to set goose dialect: %v", err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		log.Fatalf("goose: failed to run migrations: %v", err)
	}

	slog.Info("migrations applied")
}

// handleCreateAdmin provisions the account named by ADMIN_EMAIL and ADMIN_PASSWORD.
// Running it again resets that account's password and keeps it an admin.
func handleCreateAdmin(cfg config.Config) {
	db := connectDB(cfg)
	defer db.Close()

	tokens := jwt.NewTokenManager(cfg.SigningSecret(), cfg.JWTIssuer, cfg.JWTTTL)
	authService := service.NewAuthService(repository.NewPostgresUserRepository(db), tokens)

	id, err := authService.ProvisionAdmin(context.Background(), cfg.Admin.Username, cfg.Admin.Email, cfg.Admin.Password)
	if err != nil {
		log.Fatalf("Failed to create admin: %v", err)
	}
	slog.Info("admin account ready", "user_id", id, "email", cfg.Admin.Email)
}
