package cmd

import (
	"log/slog"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/plugins/migratecmd"
	pubnub "github.com/pubnub/go"

	"event-booking/config"
	"event-booking/handlers"
	"event-booking/internal/ledger"
	"event-booking/internal/lock"
	"event-booking/internal/notify"
	"event-booking/internal/payment"
	"event-booking/internal/reservation"
	"event-booking/monitoring"
	"event-booking/security"
	"event-booking/utils"
)

func Start() error {
	app := pocketbase.New()

	// Load configuration
	cfg := config.LoadConfig()

	// Probe the lock backend once. With no reachable Redis the engine runs
	// with in-process locking only: fine for a single instance, unsafe for
	// more than one.
	var locker lock.Locker
	redisClient, err := utils.NewRedisClient(cfg.RedisURL)
	if err != nil {
		slog.Warn("redis unreachable, falling back to in-process locking; do not run multiple instances in this mode",
			"redis_url", cfg.RedisURL,
			"error", err,
		)
		monitoring.SetDegradedMode(true)
		locker = lock.NewMemoryLocker(cfg.LockRetryInterval, cfg.LockWaitBudget)
	} else {
		defer redisClient.Close()
		monitoring.SetDegradedMode(false)
		locker = lock.NewRedisLocker(redisClient,
			lock.WithRetryInterval(cfg.LockRetryInterval),
			lock.WithWaitBudget(cfg.LockWaitBudget),
		)
	}

	// Initialize PubNub notifications (optional)
	var notifier reservation.Notifier
	if cfg.PubNubPublishKey != "" && cfg.PubNubSubscribeKey != "" {
		pnConfig := pubnub.NewConfig()
		pnConfig.PublishKey = cfg.PubNubPublishKey
		pnConfig.SubscribeKey = cfg.PubNubSubscribeKey
		pnConfig.SecretKey = cfg.PubNubSecretKey

		notifier = notify.NewPubNub(pubnub.NewPubNub(pnConfig))
	}

	// Initialize the reservation engine
	gateway := payment.NewClient(cfg.PaymentServiceURL, cfg.PaymentTimeout)
	store := ledger.New(app)
	engine := reservation.NewEngine(locker, store, gateway, notifier, reservation.Config{
		LockLease:       cfg.LockLeaseTTL,
		PaymentTimeout:  cfg.PaymentTimeout,
		PaymentRequired: cfg.PaymentRequired,
		Currency:        cfg.Currency,
	})

	// Initialize handlers
	bookingHandler := handlers.NewBookingHandler(app, engine)
	eventHandler := handlers.NewEventHandler(app)
	rateLimiter := security.NewRateLimiter(redisClient, cfg.BookingRateLimit)

	// Enable migrations
	migratecmd.MustRegister(app, app.RootCmd, migratecmd.Config{
		Automigrate: true,
	})

	if cfg.EnableMetrics {
		monitoring.StartMetricsServer(cfg.MetricsPort)
	}

	app.OnServe().BindFunc(func(e *core.ServeEvent) error {
		// Booking endpoints
		e.Router.POST("/api/v1/bookings", bookingHandler.CreateBooking).
			BindFunc(rateLimiter.BookingRateLimit())
		e.Router.DELETE("/api/v1/bookings/{bookingId}", bookingHandler.CancelBooking)
		e.Router.GET("/api/v1/bookings", bookingHandler.GetBookingHistory)

		// Event endpoints
		e.Router.POST("/api/v1/events", eventHandler.CreateEvent)
		e.Router.GET("/api/v1/events", eventHandler.ListEvents)
		e.Router.GET("/api/v1/events/{eventId}", eventHandler.GetEvent)

		// Health check
		e.Router.GET("/health", func(e *core.RequestEvent) error {
			if redisClient == nil {
				return e.JSON(http.StatusOK, map[string]string{
					"status":    "healthy",
					"lock_mode": "degraded",
				})
			}
			if err := utils.RedisHealthCheck(redisClient); err != nil {
				return e.JSON(http.StatusServiceUnavailable, map[string]string{
					"status": "unhealthy",
					"error":  err.Error(),
				})
			}
			return e.JSON(http.StatusOK, map[string]string{
				"status":    "healthy",
				"lock_mode": "distributed",
			})
		})

		slog.Info("server routes registered", "environment", cfg.Environment)

		return e.Next()
	})

	return app.Start()
}
