package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/iliyamo/hotel-booking-backend/internal/config"
	"github.com/iliyamo/hotel-booking-backend/internal/database"
	"github.com/iliyamo/hotel-booking-backend/internal/handler"
	"github.com/iliyamo/hotel-booking-backend/internal/middleware"
	"github.com/iliyamo/hotel-booking-backend/internal/queue"
	"github.com/iliyamo/hotel-booking-backend/internal/repository"
	"github.com/iliyamo/hotel-booking-backend/internal/router"
	"github.com/iliyamo/hotel-booking-backend/internal/service"
)

func main() {
	// .env is a local convenience; in deployed environments the
	// variables come from the process environment.
	_ = godotenv.Load()
	cfg := config.Load()

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		logger.Fatal("database connect failed", zap.Error(err))
	}
	defer db.Close()
	if err := database.Migrate(db); err != nil {
		logger.Fatal("migrations failed", zap.Error(err))
	}

	// Redis is optional; without it the rate limiter and response
	// cache degrade to pass-throughs.
	rdb := config.NewRedisClient()
	if rdb == nil {
		logger.Warn("redis unavailable, rate limiting and caching disabled")
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	hotels := repository.NewHotelRepo(db)
	rooms := repository.NewRoomRepo(db)
	bookings := repository.NewBookingRepo(db)

	bookingSvc := service.NewBookingService(bookings, service.NewConflictChecker())

	var events *queue.Publisher
	if cfg.AMQPURL != "" {
		events = queue.NewPublisher(cfg.AMQPURL, logger)
		go queue.StartBookingConsumer(cfg.AMQPURL, logger)
	} else {
		logger.Warn("AMQP_URL not set, booking events disabled")
	}

	authH := handler.NewAuthHandler(cfg, users, tokens)
	bookingH := handler.NewBookingHandler(bookingSvc, rooms, hotels, events)
	publicH := handler.NewPublicHandler(hotels, rooms, bookings)
	adminH := handler.NewAdminHandler(users)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())

	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, publicH, cache)
	router.RegisterBookings(e, bookingH, cfg.JWTSecret, limiter)
	router.RegisterAdmin(e, adminH, cfg.JWTSecret)

	addr := ":" + cfg.Port
	logger.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
	if err := e.Start(addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "prod" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
