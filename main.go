package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pijatku/config"
	"pijatku/cron"
	"pijatku/database"
	"pijatku/database/repository"
	"pijatku/database/seed"
	"pijatku/handlers"
	"pijatku/models"
	"pijatku/routes"
	"pijatku/services/analytics"
	"pijatku/services/booking"
	"pijatku/services/chat"
	"pijatku/services/directory"
	"pijatku/services/events"
	"pijatku/services/notification"
	"pijatku/services/payment"
	"pijatku/services/payout"
	"pijatku/services/profile"
	"pijatku/services/review"
	"pijatku/services/storage"
	"pijatku/services/tasks"
	"pijatku/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync()

	rootCtx, cancelRoot := context.WithCancel(context.Background())
	defer cancelRoot()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if config.AppConfig.JWTSecret == "" {
		if config.IsProduction() {
			logger.Fatal("JWT_SECRET must be set in production")
		}
		logger.Warn("JWT_SECRET is empty; every token will be rejected")
	}

	// repositories.
	var store *repository.Store
	if config.UseMemoryStore() {
		logger.Info("Using in-memory repositories")
		store = repository.NewMemoryStore()
	} else {
		db, err := database.InitDB(config.AppConfig.DatabaseURL, config.AppConfig.DatabaseName)
		if err != nil {
			logger.Fatal("main: failed to connect to MongoDB", zap.Error(err))
		}
		store = repository.NewMongoStore(db, logger)
	}
	if config.AppConfig.SeedMockData || config.UseMemoryStore() {
		if err := seed.Load(rootCtx, store, logger); err != nil {
			logger.Fatal("main: failed to seed mock data", zap.Error(err))
		}
	}

	// redis: directory cache, realtime events and the task queue.
	redisClients := map[string]*redis.Client{}
	if err := utils.InitCache(); err != nil {
		logger.Warn("Redis cache unavailable; running without cache and with in-process events", zap.Error(err))
	} else {
		redisClients["cache"] = utils.CacheClient
	}
	queueClient, err := utils.NewRedisClient(config.AppConfig.RedisQueueDB)
	if err != nil {
		logger.Warn("Redis queue unavailable; reminders are off and refunds run inline", zap.Error(err))
	} else {
		redisClients["queue"] = queueClient
	}

	var broker events.Broker = events.NewMemoryBroker()
	if utils.CacheClient != nil {
		broker = events.NewRedisBroker(utils.CacheClient, logger)
	}

	var notifier notification.Notifier = notification.NewLogNotifier(logger)
	if path := config.AppConfig.FirebaseCredentials; path != "" {
		client, err := utils.InitFirebaseMessaging(rootCtx, path)
		if err != nil {
			logger.Fatal("main: failed to initialize Firebase messaging", zap.Error(err))
		}
		notifier = notification.NewFCMNotifier(client, logger)
	}

	var images storage.ImageStore = storage.NewMemoryStore("memory://pijatku")
	if url := config.AppConfig.CloudinaryURL; url != "" {
		cld, err := storage.NewCloudinaryStore(url, logger)
		if err != nil {
			logger.Fatal("main: failed to initialize cloudinary storage", zap.Error(err))
		}
		images = cld
	}

	// directory, with the listing cached in Redis when available.
	var lister directory.TherapistLister = store.Users
	var directoryCache interface{ Invalidate(context.Context) }
	if utils.CacheClient != nil {
		cached := directory.NewCachedLister(store.Users, utils.CacheClient, config.AppConfig.DirectoryTTL, logger)
		lister, directoryCache = cached, cached
	}
	directoryService := directory.NewDirectoryService(lister, store.Users, logger)

	// payments.
	gateways := map[models.PaymentMethod]payment.Gateway{}
	if config.AppConfig.StripeKey != "" {
		gateways[models.MethodCreditCard] = payment.NewStripeGateway(config.AppConfig.StripeKey)
	}
	if config.AppConfig.MidtransServerKey != "" {
		mt := payment.NewMidtransGateway(config.AppConfig.MidtransServerKey, config.AppConfig.MidtransEnv == "production")
		gateways[models.MethodBankTransfer] = mt
		gateways[models.MethodEWallet] = mt
	}
	paymentService := payment.NewPaymentService(store.Payments, store.Bookings, store.Users, gateways, logger)

	// background tasks.
	var reminders booking.ReminderScheduler
	var credits booking.CreditQueue
	var asynqClient *asynq.Client
	if queueClient != nil {
		asynqClient = asynq.NewClient(cron.QueueRedisOpt())
		enqueuer := tasks.NewEnqueuer(asynqClient, config.AppConfig.ReminderLead, logger)
		paymentService.SetRefundQueue(enqueuer)
		reminders, credits = enqueuer, enqueuer
	}

	bookingService, err := booking.NewBookingService(booking.Deps{
		Users:    store.Users,
		Bookings: store.Bookings,
		Fees: booking.FeePolicy{
			PlatformPercent: config.AppConfig.PlatformFeePercent,
			PaymentPercent:  config.AppConfig.PaymentFeePercent,
		},
		Refunds:   paymentService,
		Reminders: reminders,
		Credits:   credits,
		Notifier:  notifier,
		Events:    broker,
		Logger:    logger,
	})
	if err != nil {
		logger.Fatal("main: failed to initialize booking service", zap.Error(err))
	}

	workerDeps := cron.Deps{
		Bookings: store.Bookings,
		Users:    store.Users,
		Refunds:  paymentService,
		Credits:  bookingService,
		Notifier: notifier,
		Logger:   logger,
	}
	// Pick up credits and refunds a previous run left behind.
	_ = cron.Reconcile(rootCtx, workerDeps)

	var worker *asynq.Server
	var scheduler *asynq.Scheduler
	if asynqClient != nil {
		worker = cron.StartWorker(workerDeps)
		scheduler, err = cron.StartScheduler(config.AppConfig.ReconcileInterval, logger)
		if err != nil {
			logger.Warn("Reconcile scheduler unavailable; sweeping in process", zap.Error(err))
		}
	}
	if scheduler == nil {
		go cron.RunReconcileLoop(rootCtx, config.AppConfig.ReconcileInterval, workerDeps)
	}

	reviewService := review.NewReviewService(store.Reviews, store.Bookings, store.Users, directoryCache, logger)
	chatService := chat.NewChatService(store.Messages, store.Bookings, store.Users, broker, notifier, logger)
	profileService := profile.NewProfileService(store.Users, store.Bookings, images, directoryCache, logger)
	payoutService := payout.NewPayoutService(store.Payouts, store.Users, logger)
	analyticsService := analytics.NewAnalyticsService(store.Users, store.Bookings, logger)

	storeName := config.AppConfig.Store
	handlerBundle := &handlers.HandlerBundle{
		UserRepo:  store.Users,
		JWTSecret: []byte(config.AppConfig.JWTSecret),
		Directory: handlers.NewDirectoryHandler(directoryService, directory.NewSequencer()),
		Booking:   handlers.NewBookingHandler(bookingService),
		Payment:   handlers.NewPaymentHandler(paymentService),
		Review:    handlers.NewReviewHandler(reviewService),
		Chat:      handlers.NewChatHandler(chatService),
		Events:    handlers.NewEventsHandler(broker, rootCtx.Done()),
		Profile:   handlers.NewProfileHandler(profileService),
		Payout:    handlers.NewPayoutHandler(payoutService),
		Admin:     handlers.NewAdminHandler(analyticsService, payoutService),
		Health:    handlers.NewHealthHandler(storeName),
	}

	router := gin.New()
	if err := router.SetTrustedProxies(config.TrustedProxyList()); err != nil {
		logger.Fatal("main: invalid TRUSTED_PROXIES", zap.Error(err))
	}
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	routes.RegisterRoutes(router, handlerBundle)

	utils.StartHealthMonitor(rootCtx, redisClients, database.MongoClient)

	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              "0.0.0.0:" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Starting server", zap.String("addr", srv.Addr), zap.String("store", storeName))
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("main: server failed to start", zap.Error(err))
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("main: server is shutting down...")

	// Close event streams so Shutdown can drain.
	cancelRoot()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("main: server forced to shutdown", zap.Error(err))
	}
	if scheduler != nil {
		scheduler.Shutdown()
	}
	if worker != nil {
		worker.Shutdown()
	}
	if asynqClient != nil {
		asynqClient.Close()
	}
	for name, client := range redisClients {
		if err := client.Close(); err != nil {
			logger.Warn("Failed to close Redis client", zap.String("client", name), zap.Error(err))
		}
	}
	if err := database.CloseDB(ctx); err != nil {
		logger.Warn("Failed to disconnect MongoDB", zap.Error(err))
	}

	logger.Info("main: server stopped gracefully")
}
