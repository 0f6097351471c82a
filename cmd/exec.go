package cmd

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"gatherly/config"
	"gatherly/handlers"
	"gatherly/internal/gateway"
	_ "gatherly/migrations"
	"gatherly/models"
	"gatherly/monitoring"
	"gatherly/security"
	"gatherly/services"
	"gatherly/utils"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/plugins/migratecmd"
	pubnub "github.com/pubnub/go"
)

func Start() error {
	app := pocketbase.New()

	cfg := config.LoadConfig()

	redisClient := utils.NewRedisClient(cfg.RedisURL, cfg.RedisPassword, cfg.RedisDB)
	defer redisClient.Close()

	pnConfig := pubnub.NewConfig()
	pnConfig.PublishKey = cfg.PubNubPublishKey
	pnConfig.SubscribeKey = cfg.PubNubSubscribeKey
	pnConfig.SecretKey = cfg.PubNubSecretKey

	pn := pubnub.NewPubNub(pnConfig)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gw, err := gateway.New(ctx, gateway.ProviderMockPay, &cfg.Gateway)
	if err != nil {
		return err
	}
	defer gw.Close(ctx)

	// Initialize services
	inventoryService := services.NewInventoryService(redisClient)
	promoService := services.NewPromoService(app, redisClient)
	ticketService := services.NewTicketService(app, inventoryService, promoService, cfg.FeeRate())
	paymentService := services.NewPaymentService(redisClient, pn, gw, ticketService, cfg.PaymentTimeout)
	waitlistService := services.NewWaitlistService(app, redisClient, pn)
	guestService := services.NewGuestService(app)
	eventService := services.NewEventService(app, redisClient)

	// The simulated rail settles through a local channel; a remote rail
	// would publish to the PubNub webhook channel instead.
	notifyCh := make(chan *models.PaymentNotification, 16)
	if nc, ok := gw.(interface {
		SetNotifyChannel(chan *models.PaymentNotification)
	}); ok {
		nc.SetNotifyChannel(notifyCh)
		go paymentService.ConsumeNotifications(ctx, notifyCh)
	}
	if cfg.Gateway.PNSubKey != "" {
		go paymentService.SubscribeToPaymentNotifications(cfg.Gateway.PNChannel)
	}

	// Initialize handlers
	tierHandler := handlers.NewTierHandler(app, inventoryService)
	purchaseHandler := handlers.NewPurchaseHandler(app, ticketService, paymentService, waitlistService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	promoHandler := handlers.NewPromoHandler(app, promoService)
	waitlistHandler := handlers.NewWaitlistHandler(waitlistService)
	guestHandler := handlers.NewGuestHandler(guestService)
	eventHandler := handlers.NewEventHandler(app, eventService, guestService)

	limiter := security.NewRateLimiter(redisClient)

	// Enable migrations
	migratecmd.MustRegister(app, app.RootCmd, migratecmd.Config{
		Automigrate: true,
	})

	if cfg.EnableMetrics {
		monitoring.NewMonitor(redisClient)
		ops := monitoring.NewOpsServer(redisClient, limiter, cfg.MetricsPort)
		go ops.Start()
	}

	go handleShutdown(cancel)

	app.OnServe().BindFunc(func(e *core.ServeEvent) error {
		if err := eventService.SyncTierInventory(ctx, inventoryService); err != nil {
			slog.Error("sync tier inventory", "error", err)
		}

		// Event endpoints
		e.Router.POST("/api/v1/events", eventHandler.CreateEvent)
		e.Router.POST("/api/v1/events/{eventId}/functions", eventHandler.AddFunction)
		e.Router.POST("/api/v1/events/{eventId}/publish", eventHandler.Publish)
		e.Router.DELETE("/api/v1/events/{eventId}", eventHandler.Delete)
		e.Router.GET("/api/v1/events/{eventId}/dashboard", eventHandler.Dashboard)

		// Tier endpoints
		e.Router.GET("/api/v1/events/{eventId}/tiers", tierHandler.ListTiers)
		e.Router.POST("/api/v1/tiers", tierHandler.CreateTier)
		e.Router.PATCH("/api/v1/tiers/{tierId}", tierHandler.UpdateTier)

		// Purchase endpoints
		purchaseGuard := limiter.PurchaseGuard(30)
		e.Router.POST("/api/v1/orders/quote", purchaseHandler.Quote).BindFunc(purchaseGuard)
		e.Router.POST("/api/v1/orders", purchaseHandler.Purchase).BindFunc(purchaseGuard)
		e.Router.GET("/api/v1/tickets/{ticketId}", purchaseHandler.GetTicket)
		e.Router.GET("/api/v1/events/{eventId}/tickets", purchaseHandler.ListTickets)
		e.Router.POST("/api/v1/tickets/{ticketId}/cancel", purchaseHandler.Cancel)
		e.Router.POST("/api/v1/events/{eventId}/check-in", purchaseHandler.CheckIn)

		// Payment endpoints
		e.Router.GET("/api/v1/payments/{intentId}", paymentHandler.Status)
		e.Router.POST("/api/v1/payments/{intentId}/capture", paymentHandler.Capture).BindFunc(purchaseGuard)
		e.Router.POST("/api/v1/payments/{intentId}/cancel", paymentHandler.Cancel)
		e.Router.POST("/api/v1/payments/{intentId}/refund", paymentHandler.Refund)

		// Promo endpoints
		e.Router.POST("/api/v1/promos/validate", promoHandler.Validate)
		e.Router.POST("/api/v1/promos", promoHandler.CreatePromo)
		e.Router.GET("/api/v1/events/{eventId}/promos", promoHandler.ListPromos)
		e.Router.POST("/api/v1/promos/{promoId}/deactivate", promoHandler.DeactivatePromo)

		// Waitlist endpoints
		e.Router.POST("/api/v1/waitlist", waitlistHandler.Join)
		e.Router.GET("/api/v1/events/{eventId}/waitlist", waitlistHandler.List)
		e.Router.POST("/api/v1/events/{eventId}/waitlist/notify", waitlistHandler.NotifyNext)

		// Guest endpoints
		e.Router.POST("/api/v1/events/{eventId}/guests", guestHandler.AddGuest)
		e.Router.GET("/api/v1/events/{eventId}/guests", guestHandler.ListGuests)
		e.Router.POST("/api/v1/events/{eventId}/invitations", guestHandler.Invite)
		e.Router.POST("/api/v1/invitations/{code}/respond", guestHandler.Respond)

		// Health check
		e.Router.GET("/health", func(e *core.RequestEvent) error {
			if err := utils.RedisHealthCheck(redisClient); err != nil {
				return e.JSON(503, map[string]string{
					"status": "unhealthy",
					"error":  err.Error(),
				})
			}
			return e.JSON(200, map[string]string{"status": "healthy"})
		})

		log.Println("Server routes registered")

		return e.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
	return nil
}

func handleShutdown(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	<-sigChan
	slog.Info("shutting down")
	cancel()
}
