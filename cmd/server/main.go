package main // Entry point package

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/sparkhaus/cleaning-booking/internal/booking"
	"github.com/sparkhaus/cleaning-booking/internal/catalog"
	"github.com/sparkhaus/cleaning-booking/internal/config"
	"github.com/sparkhaus/cleaning-booking/internal/handler"
	"github.com/sparkhaus/cleaning-booking/internal/middleware"
	"github.com/sparkhaus/cleaning-booking/internal/payments"
	"github.com/sparkhaus/cleaning-booking/internal/queue"
	"github.com/sparkhaus/cleaning-booking/internal/realtime"
	"github.com/sparkhaus/cleaning-booking/internal/router"
	queue_publisher "github.com/sparkhaus/cleaning-booking/internal/service"
	"github.com/sparkhaus/cleaning-booking/internal/store"
	"github.com/sparkhaus/cleaning-booking/internal/users"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	docs, err := store.OpenMySQL(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}

	userRepo := users.NewRepo(docs)
	tokenRepo := users.NewTokenRepo(docs)
	cat := catalog.New(docs)

	// Seed the default catalog and admin account on first boot.
	ctx := context.Background()
	if err := cat.Seed(ctx); err != nil {
		log.Fatalf("seed catalog: %v", err)
	}
	if err := userRepo.SeedAdmin(ctx, cfg.AdminPassword, cfg.BcryptCost); err != nil {
		log.Fatalf("seed admin: %v", err)
	}

	// Live push: registry + dispatcher, combined with the broker feed so
	// every lifecycle event also lands on the durable queue.
	registry := realtime.NewRegistry()
	dispatcher := realtime.NewDispatcher(registry)
	sink := booking.AsyncSink(booking.CombineSinks(dispatcher, queue_publisher.Sink{}))

	bookings := booking.NewStore(docs, cat, userRepo, sink)

	var gateway payments.Gateway
	if cfg.StripeAPIKey != "" {
		gateway = payments.NewStripeGateway(cfg.StripeAPIKey, "")
	} else {
		log.Printf("STRIPE_API_KEY not set; payment endpoints disabled")
	}

	// Background consumer draining the event feed into logs/booking.log.
	go func() {
		if err := queue.StartEventsConsumer(); err != nil {
			log.Printf("events consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	if rdb := config.NewRedisClient(); rdb != nil {
		e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	} else {
		log.Printf("redis unavailable; rate limiting disabled")
	}

	router.RegisterRoutes(e, handler.NewHealthHandler(docs.DB(), registry))
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, userRepo, tokenRepo), cfg.JWTSecret)
	router.RegisterCatalog(e, handler.NewCatalogHandler(cat), cfg.JWTSecret)
	bookingHandler := handler.NewBookingHandler(bookings)
	router.RegisterBookings(e, bookingHandler, cfg.JWTSecret)
	router.RegisterAdmin(e, handler.NewAdminHandler(bookings, userRepo), bookingHandler, cfg.JWTSecret)
	router.RegisterPayments(e, handler.NewPaymentHandler(cfg, gateway, bookings, docs), cfg.JWTSecret)
	router.RegisterReviews(e, handler.NewReviewHandler(bookings, docs), cfg.JWTSecret)
	router.RegisterWS(e, handler.NewWSHandler(cfg, registry))

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
