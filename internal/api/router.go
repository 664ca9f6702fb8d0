package api

import (
	"strings"
	"time"

	"github.com/gofiber/contrib/otelfiber/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"roamers-service/internal/service"
)

type Handlers struct {
	Auth     *AuthHandler
	User     *UserHandler
	Tour     *TourHandler
	Spot     *SpotHandler
	Review   *ReviewHandler
	Favorite *FavoriteHandler
}

type AppConfig struct {
	ServiceName string
	CORSOrigins []string
	// RateLimitMax requests per RateLimitExpiration are allowed on /register
	// and /login per client IP. Zero disables the limiter.
	RateLimitMax        int
	RateLimitExpiration time.Duration
}

// NewApp builds the Fiber application with the full middleware stack and routes.
func NewApp(cfg AppConfig, authService service.AuthService, h Handlers) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      cfg.ServiceName,
		ErrorHandler: ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(otelfiber.Middleware())
	app.Use(PrometheusMiddleware())
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(cfg.CORSOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.ServiceName})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	SetupRoutes(app, authLimiter(cfg), authService, h)

	return app
}

func authLimiter(cfg AppConfig) fiber.Handler {
	if cfg.RateLimitMax <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return limiter.New(limiter.Config{
		Max:        cfg.RateLimitMax,
		Expiration: cfg.RateLimitExpiration,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "too many requests, please try again later",
			})
		},
	})
}

func SetupRoutes(app *fiber.App, rateLimit fiber.Handler, authService service.AuthService, h Handlers) {
	auth := AuthMiddleware(authService)
	admin := RequireAdmin()

	app.Post("/register", rateLimit, h.Auth.Register)
	app.Post("/login", rateLimit, h.Auth.Login)
	app.Get("/auth/me", auth, h.Auth.GetUserProfile)

	app.Put("/users/:id/location", auth, h.User.UpdateLocation)
	app.Post("/users/me/device-token", auth, h.User.RegisterDeviceToken)

	app.Get("/tourist-spots", h.Spot.ListSpots)
	app.Post("/tourist-spots", auth, admin, h.Spot.CreateSpot)
	if h.Spot.presigner != nil {
		app.Post("/tourist-spots/image-upload-url", auth, admin, h.Spot.ImageUploadURL)
	} else {
		// Without it the path would fall through to /tourist-spots/:id and answer 405.
		app.Post("/tourist-spots/image-upload-url", func(c *fiber.Ctx) error {
			return fiber.NewError(fiber.StatusNotFound, "image uploads are not configured")
		})
	}
	app.Get("/tourist-spots/:id", h.Spot.GetSpot)
	app.Get("/recommended/:userId", h.Spot.Recommended)
	app.Get("/mostvisitedplaces", h.Spot.MostVisited)

	app.Get("/tours", h.Tour.ListTours)
	app.Get("/community-tours", h.Tour.ListTours)
	app.Post("/tours", auth, admin, h.Tour.CreateTour)
	app.Put("/tours/:id", auth, admin, h.Tour.UpdateTour)
	app.Delete("/tours/:id", auth, admin, h.Tour.DeleteTour)
	app.Post("/tours/:id/join", auth, h.Tour.JoinTour)
	app.Get("/admin/community-tours/:id/participants", auth, admin, h.Tour.ListParticipants)

	app.Get("/reviews/:spotId", h.Review.ListReviews)
	app.Post("/reviews", auth, h.Review.CreateReview)
	app.Put("/reviews/:id", auth, h.Review.UpdateReview)
	app.Delete("/reviews/:id", auth, h.Review.DeleteReview)

	app.Get("/favorites", auth, h.Favorite.ListFavorites)
	app.Post("/favorites", auth, h.Favorite.AddFavorite)
	app.Delete("/favorites/:spotId", auth, h.Favorite.RemoveFavorite)
}
