package main

import (
	"context"
	"log"

	"pitchpay/config"
	"pitchpay/internal/cache"
	"pitchpay/internal/database"
	"pitchpay/internal/handler"
	"pitchpay/internal/middleware"
	"pitchpay/internal/payment"
	"pitchpay/internal/queue"
	"pitchpay/internal/realtime"
	"pitchpay/internal/repository"
	"pitchpay/internal/service"
	"pitchpay/internal/worker"
	"pitchpay/pkg/logger"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.LoadConfig()

	pool, err := database.InitDatabase(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer pool.Close()

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to initialize redis: %v", err)
	}
	defer rdb.Close()

	// Repositories
	eventRepo := repository.NewEventRepository(pool)
	participantRepo := repository.NewParticipantRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	payoutRepo := repository.NewPayoutAccountRepository(pool)

	// Infrastructure
	reservations := cache.NewSlotReservationManager(rdb)
	publisher := realtime.NewRedisPublisher(rdb)
	processor := payment.NewStripeProcessor(cfg.Stripe.SecretKey, cfg.Stripe.WebhookSecret)

	confirmationQueue, err := queue.NewRedisStreamConfirmationQueue(rdb, "", nil)
	if err != nil {
		log.Fatalf("Failed to initialize confirmation queue: %v", err)
	}

	// Services
	eventService := service.NewEventService(eventRepo, participantRepo, payoutRepo)
	participantService := service.NewParticipantService(pool, participantRepo, eventRepo, publisher)
	checkoutService := service.NewCheckoutService(
		pool, eventRepo, participantRepo, payoutRepo, reservations, processor, publisher,
		service.CheckoutOptions{
			Currency:       "pln",
			PlatformFeeBps: cfg.Stripe.PlatformFeeBps,
			SuccessURL:     cfg.Stripe.SuccessURL,
			CancelURL:      cfg.Stripe.CancelURL,
			ReservationTTL: cfg.Checkout.ReservationTTL,
		},
	)
	connectService := service.NewConnectService(payoutRepo, processor, service.ConnectOptions{
		RefreshURL: cfg.Stripe.OnboardRefresh,
		ReturnURL:  cfg.Stripe.OnboardReturn,
	})
	userService := service.NewUserService(userRepo)

	// Worker
	confirmationWorker := worker.NewConfirmationWorker(checkoutService, confirmationQueue)
	if err := confirmationWorker.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start confirmation worker: %v", err)
	}

	router := gin.Default()
	router.Use(middleware.Auth(userRepo))

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	handler.NewEventHandler(eventService).RegisterRoutes(router)
	handler.NewParticipantHandler(participantService).RegisterRoutes(router)
	handler.NewCheckoutHandler(checkoutService, processor, confirmationQueue).RegisterRoutes(router)
	handler.NewConnectHandler(connectService).RegisterRoutes(router)
	handler.NewUserHandler(userService).RegisterRoutes(router)

	logger.WithComponent("server").Info("starting")
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Server exited: %v", err)
	}
}
