package main

import (
	"log"

	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/tickethub/reservation-service/config"
	"github.com/tickethub/reservation-service/internal/cache"
	"github.com/tickethub/reservation-service/internal/consumer"
	"github.com/tickethub/reservation-service/internal/handler"
	"github.com/tickethub/reservation-service/internal/middleware"
	"github.com/tickethub/reservation-service/internal/queue"
	"github.com/tickethub/reservation-service/internal/repository"
	"github.com/tickethub/reservation-service/internal/service"
	"github.com/tickethub/reservation-service/pkg/database"
	"github.com/tickethub/reservation-service/pkg/rabbitmq"
)

func main() {
	cfg := config.Load()

	db := database.NewPostgresDB(cfg.DSN())

	// Optional Redis-backed event read cache
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	}
	eventCache := cache.NewEventCache(rdb, cfg.CacheTTL)

	// RabbitMQ consumer: replicate events and users from their owning services
	mqConsumer, err := rabbitmq.NewConsumer(cfg.RabbitURL)
	if err != nil {
		log.Fatalf("failed to connect to RabbitMQ: %v", err)
	}
	defer mqConsumer.Close()

	msgs, err := mqConsumer.Consume()
	if err != nil {
		log.Fatalf("failed to start consuming: %v", err)
	}

	entityConsumer := consumer.NewEntityConsumer(db, eventCache)
	entityConsumer.Start(msgs)

	// RabbitMQ publisher: reservation lifecycle events
	publisher, err := rabbitmq.NewPublisher(cfg.RabbitURL)
	if err != nil {
		log.Fatalf("failed to create RabbitMQ publisher: %v", err)
	}
	defer publisher.Close()

	// Repositories
	eventRepo := repository.NewEventRepository(db)
	reservationRepo := repository.NewReservationRepository(db)
	userRepo := repository.NewUserRepository(db)

	// Admission queue collaborator
	queueClient := queue.NewClient(cfg.QueueBaseURL)

	// Service
	reservationSvc := service.NewReservationService(reservationRepo, eventRepo, userRepo, queueClient, publisher)

	// Echo
	e := echo.New()
	e.HTTPErrorHandler = middleware.ErrorHandler
	e.Use(echoMw.RequestLoggerWithConfig(echoMw.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v echoMw.RequestLoggerValues) error {
			log.Printf("%s %s %d", v.Method, v.URI, v.Status)
			return nil
		},
	}))
	e.Use(echoMw.Recover())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok", "service": "reservation-service"})
	})

	handler.NewReservationHandler(reservationSvc).RegisterRoutes(e)
	handler.NewEventHandler(eventRepo, eventCache).RegisterRoutes(e)

	log.Printf("Reservation Service starting on :%s", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
