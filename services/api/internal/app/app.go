package internal

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"loyalty-hub/pkg/cache"
	"loyalty-hub/pkg/config"
	"loyalty-hub/pkg/database"
	"loyalty-hub/pkg/jwt"
	"loyalty-hub/pkg/logger"
	"loyalty-hub/pkg/metrics"
	"loyalty-hub/pkg/middleware"
	"loyalty-hub/pkg/queue"
	"loyalty-hub/pkg/s3"
	"loyalty-hub/pkg/whatsapp"
	apiHTTP "loyalty-hub/services/api/internal/controller/http"
	"loyalty-hub/services/api/internal/entity"
	"loyalty-hub/services/api/internal/repo/erp"
	"loyalty-hub/services/api/internal/repo/persistent"
	"loyalty-hub/services/api/internal/usecase"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "loyalty-hub/services/api/docs" // Swagger docs
)

type App struct {
	cfg         *config.Config
	log         *logger.Logger
	db          *gorm.DB
	redisClient *redis.Client
	s3Client    *s3.Client
	jwtService  *jwt.Service
	queueClient *queue.Client
	erpSource   erp.Source
	scheduler   *cron.Cron
	httpServer  *http.Server
}

func NewApp(cfg *config.Config) (*App, error) {
	log := logger.NewWithLevel(cfg.LogLevel, cfg.Environment)

	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		return nil, err
	}

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Error("Failed to connect to redis: %v (rate limiting and token revocation disabled)", err)
		redisClient = nil
	}

	s3Client, err := s3.NewClient(cfg)
	if err != nil {
		log.Error("Failed to create S3 client: %v (uploads disabled)", err)
		s3Client = nil
	}

	queueClient, err := queue.NewRabbitMQClient(cfg, log)
	if err != nil {
		log.Error("Failed to connect to RabbitMQ: %v (continuing without queue)", err)
		queueClient = nil
	}

	var erpSource erp.Source
	if cfg.ERPEnabled() {
		erpSource, err = erp.Open(cfg)
		if err != nil {
			log.Error("Failed to open ERP connection: %v (ERP sync disabled)", err)
			erpSource = nil
		}
	} else {
		log.Warn("ERP settings not configured, ERP sync disabled")
	}

	jwtService := jwt.NewService(cfg.JWTSecret).WithTTL(cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	return &App{
		cfg:         cfg,
		log:         log,
		db:          db,
		redisClient: redisClient,
		s3Client:    s3Client,
		jwtService:  jwtService,
		queueClient: queueClient,
		erpSource:   erpSource,
	}, nil
}

func (a *App) Run() error {
	policy, err := config.LoadTierPolicy(a.cfg)
	if err != nil {
		a.log.Error("Failed to load tier policy: %v", err)
		return err
	}

	// Optional collaborators stay untyped nil when their backend is missing.
	var publisher usecase.EventPublisher
	if a.queueClient != nil {
		publisher = a.queueClient
	}
	var store usecase.KeyValueStore
	if a.redisClient != nil {
		store = cache.NewStore(a.redisClient, "loyalty")
	}
	var files usecase.FileStore
	if a.s3Client != nil {
		files = a.s3Client
	}

	// Initialize repositories
	userRepo := persistent.NewUserRepository(a.db)
	customerRepo := persistent.NewCustomerRepository(a.db)
	loyaltyRepo := persistent.NewLoyaltyRepository(a.db)
	rewardRepo := persistent.NewRewardRepository(a.db)
	affiliateRepo := persistent.NewAffiliateRepository(a.db)
	whatsappRepo := persistent.NewWhatsAppRepository(a.db)
	analyticsRepo := persistent.NewAnalyticsRepository(a.db)
	benefitRepo := persistent.NewTierBenefitRepository(a.db)
	syncRepo := persistent.NewSyncRunRepository(a.db)

	// Initialize use cases
	userUseCase := usecase.NewUserUseCase(userRepo, a.log)
	authUseCase := usecase.NewAuthUseCase(userRepo, customerRepo, a.jwtService, store, a.log)
	customerUseCase := usecase.NewCustomerUseCase(customerRepo, userRepo, loyaltyRepo, rewardRepo, a.log)
	tierUseCase := usecase.NewTierUseCase(customerRepo, benefitRepo, policy, publisher, a.log)
	loyaltyUseCase := usecase.NewLoyaltyUseCase(customerRepo, loyaltyRepo, tierUseCase, publisher, a.cfg, a.log)
	rewardUseCase := usecase.NewRewardUseCase(rewardRepo, customerRepo, files, publisher, a.log)
	affiliateUseCase := usecase.NewAffiliateUseCase(affiliateRepo, userRepo, customerRepo, a.cfg, a.log)
	whatsAppUseCase := usecase.NewWhatsAppUseCase(whatsappRepo, customerRepo, whatsapp.NewClient(a.cfg), files, store, a.cfg, a.log)
	erpUseCase := usecase.NewERPUseCase(a.erpSource, customerRepo, loyaltyRepo, syncRepo, loyaltyUseCase, a.cfg, a.log)
	analyticsUseCase := usecase.NewAnalyticsUseCase(analyticsRepo, customerRepo, store, a.log)

	// Initialize HTTP handlers
	authHandler := apiHTTP.NewAuthHandler(authUseCase, a.log)
	userHandler := apiHTTP.NewUserHandler(userUseCase, authUseCase, a.log)
	customerHandler := apiHTTP.NewCustomerHandler(customerUseCase, a.log)
	loyaltyHandler := apiHTTP.NewLoyaltyHandler(loyaltyUseCase, customerUseCase, a.log)
	rewardHandler := apiHTTP.NewRewardHandler(rewardUseCase, customerUseCase, a.log)
	tierHandler := apiHTTP.NewTierHandler(tierUseCase, customerUseCase, a.log)
	affiliateHandler := apiHTTP.NewAffiliateHandler(affiliateUseCase, customerUseCase, a.log)
	whatsAppHandler := apiHTTP.NewWhatsAppHandler(whatsAppUseCase, customerUseCase, a.log)
	erpHandler := apiHTTP.NewERPHandler(erpUseCase, a.log)
	analyticsHandler := apiHTTP.NewAnalyticsHandler(analyticsUseCase, a.log)

	if a.queueClient != nil {
		if err := a.queueClient.Consume(whatsAppUseCase.HandleEvent); err != nil {
			a.log.Error("Failed to start notification consumer: %v", err)
		}
	}

	a.startScheduler(loyaltyUseCase, whatsAppUseCase, erpUseCase)

	// Setup router
	r := gin.Default()

	// CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * 3600,
	}))
	r.Use(middleware.MetricsMiddleware())

	health := func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	}

	// Health check
	r.GET("/health", health)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Swagger documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")
	{
		api.GET("/health", health)

		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)
		api.POST("/auth/refresh", authHandler.Refresh)
		api.POST("/auth/password-reset/request", authHandler.RequestPasswordReset)
		api.POST("/auth/password-reset/confirm", authHandler.ConfirmPasswordReset)

		api.GET("/whatsapp/webhook", whatsAppHandler.VerifyWebhook)
		api.POST("/whatsapp/webhook", whatsAppHandler.ReceiveWebhook)

		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(a.jwtService))
		protected.Use(middleware.RateLimitMiddleware(a.redisClient, a.cfg.RateLimitPerMinute, time.Minute))

		admin := protected.Group("")
		admin.Use(middleware.RequireRole(string(entity.RoleAdmin)))

		{
			protected.POST("/auth/logout", authHandler.Logout)
			protected.GET("/auth/me", authHandler.Me)
			protected.GET("/auth/permissions", authHandler.Permissions)
			protected.POST("/users/change-password", userHandler.ChangePassword)

			admin.GET("/users", userHandler.ListUsers)
			admin.GET("/users/:id", userHandler.GetUser)
			admin.PUT("/users/:id", userHandler.UpdateUser)
			admin.DELETE("/users/:id", userHandler.DeactivateUser)
		}

		{
			admin.GET("/customers", customerHandler.ListCustomers)
			admin.POST("/customers", customerHandler.CreateCustomer)
			admin.GET("/customers/segments", customerHandler.Segments)
			protected.GET("/customers/:id", customerHandler.GetCustomer)
			admin.PUT("/customers/:id", customerHandler.UpdateCustomer)
			admin.DELETE("/customers/:id", customerHandler.DeactivateCustomer)
			protected.GET("/customers/:id/activity", customerHandler.Activity)
			protected.GET("/customers/:id/kids", customerHandler.ListKids)
			protected.POST("/customers/:id/kids", customerHandler.AddKid)
			protected.PUT("/customers/:id/kids/:kid_id", customerHandler.UpdateKid)
			protected.DELETE("/customers/:id/kids/:kid_id", customerHandler.RemoveKid)
		}

		{
			protected.GET("/loyalty/points/:customer_id", loyaltyHandler.GetPoints)
			admin.POST("/loyalty/points/award", loyaltyHandler.AwardPoints)
			admin.POST("/loyalty/points/deduct", loyaltyHandler.DeductPoints)
			admin.POST("/loyalty/points/adjust", loyaltyHandler.AdjustPoints)
			admin.POST("/loyalty/points/transfer", loyaltyHandler.TransferPoints)
			protected.GET("/loyalty/transactions/:customer_id", loyaltyHandler.ListTransactions)
			admin.POST("/loyalty/expire", loyaltyHandler.ExpirePoints)
		}

		{
			protected.GET("/rewards", rewardHandler.ListRewards)
			admin.POST("/rewards", rewardHandler.CreateReward)
			protected.GET("/rewards/categories", rewardHandler.Categories)
			protected.GET("/rewards/featured", rewardHandler.Featured)
			protected.GET("/rewards/available/:customer_id", rewardHandler.Available)
			protected.POST("/rewards/redeem", rewardHandler.Redeem)
			admin.POST("/rewards/redeem/:id/fulfill", rewardHandler.Fulfill)
			admin.POST("/rewards/redeem/:id/cancel", rewardHandler.Cancel)
			protected.GET("/rewards/history/:customer_id", rewardHandler.History)
			admin.GET("/rewards/analytics", rewardHandler.Analytics)
			protected.GET("/rewards/:id", rewardHandler.GetReward)
			admin.PUT("/rewards/:id", rewardHandler.UpdateReward)
			admin.PUT("/rewards/:id/stock", rewardHandler.UpdateStock)
			admin.POST("/rewards/:id/image", rewardHandler.UploadImage)
			admin.GET("/rewards/:id/statistics", rewardHandler.Statistics)
		}

		{
			protected.GET("/tiers", tierHandler.ListTiers)
			protected.GET("/tiers/benefits", tierHandler.ListBenefits)
			protected.GET("/tiers/customer/:customer_id", tierHandler.CustomerTier)
			admin.POST("/tiers/upgrade", tierHandler.Upgrade)
		}

		{
			protected.POST("/affiliates/register", affiliateHandler.Register)
			admin.GET("/affiliates", affiliateHandler.ListAffiliates)
			protected.GET("/affiliates/:id", affiliateHandler.GetAffiliate)
			protected.PUT("/affiliates/:id", affiliateHandler.UpdateProfile)
			admin.POST("/affiliates/:id/approve", affiliateHandler.Approve)
			admin.PUT("/affiliates/:id/status", affiliateHandler.SetStatus)
			protected.GET("/affiliates/:id/dashboard", affiliateHandler.Dashboard)
			protected.GET("/affiliates/:id/performance", affiliateHandler.Performance)
			protected.GET("/affiliates/:id/referrals", affiliateHandler.ListReferrals)
			protected.GET("/affiliates/commissions/:id", affiliateHandler.ListCommissions)
			protected.POST("/affiliates/referrals/track", affiliateHandler.TrackReferral)
			admin.POST("/affiliates/referrals/:id/commission", affiliateHandler.CalculateCommission)
			admin.POST("/affiliates/commissions/:id/approve", affiliateHandler.ApproveCommission)
			protected.POST("/affiliates/:id/payouts", affiliateHandler.RequestPayout)
			protected.GET("/affiliates/:id/payouts", affiliateHandler.ListPayouts)
			admin.POST("/affiliates/payouts/:id/process", affiliateHandler.ProcessPayout)
			admin.POST("/affiliates/payouts/:id/complete", affiliateHandler.CompletePayout)
			admin.POST("/affiliates/payouts/:id/reject", affiliateHandler.RejectPayout)
		}

		{
			admin.POST("/whatsapp/send", whatsAppHandler.SendMessage)
			admin.POST("/whatsapp/send-template", whatsAppHandler.SendTemplate)
			protected.GET("/whatsapp/history/:customer_id", whatsAppHandler.History)
			admin.GET("/whatsapp/messages/:id/status", whatsAppHandler.DeliveryStatus)
			admin.GET("/whatsapp/templates", whatsAppHandler.ListTemplates)
			admin.POST("/whatsapp/templates", whatsAppHandler.CreateTemplate)
			admin.PUT("/whatsapp/templates/:id", whatsAppHandler.UpdateTemplate)
			admin.POST("/whatsapp/birthdays/process", whatsAppHandler.ProcessBirthdays)
			admin.POST("/whatsapp/media", whatsAppHandler.UploadMedia)
		}

		{
			admin.POST("/erp/connect", erpHandler.Connect)
			admin.GET("/erp/status", erpHandler.Status)
			admin.POST("/erp/sync/customers", erpHandler.SyncCustomers)
			admin.POST("/erp/sync/sales", erpHandler.SyncSales)
			admin.POST("/erp/sync/all", erpHandler.SyncAll)
			admin.GET("/erp/data-summary", erpHandler.DataSummary)
			admin.GET("/erp/mappings", erpHandler.Mappings)
			admin.GET("/erp/sync-history", erpHandler.SyncHistory)
			admin.GET("/erp/sync-report", erpHandler.SyncReport)
			admin.GET("/erp/integration-health", erpHandler.IntegrationHealth)
		}

		{
			admin.GET("/analytics/dashboard", analyticsHandler.Dashboard)
			admin.GET("/analytics/customers", analyticsHandler.CustomerAnalytics)
			admin.GET("/analytics/loyalty", analyticsHandler.LoyaltyAnalytics)
		}
	}

	// Create HTTP server
	a.httpServer = &http.Server{
		Addr:    ":" + a.cfg.ServerPort,
		Handler: r,
	}

	// Start server in a goroutine
	go func() {
		a.log.Info("Loyalty API starting on port %s", a.cfg.ServerPort)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.log.Error("Failed to start server: %v", err)
			panic(err)
		}
	}()

	return nil
}

// startScheduler registers the nightly expiry, the birthday run and
// incremental ERP sync. A job that fails to register is logged and skipped.
func (a *App) startScheduler(loyalty usecase.LoyaltyUseCase, notifications usecase.WhatsAppUseCase, erpSync usecase.ERPUseCase) {
	a.scheduler = cron.New()

	jobs := []struct {
		name string
		spec string
		run  func(ctx context.Context) error
	}{
		{"expire points", a.cfg.ExpirePointsCron, func(ctx context.Context) error {
			result, err := loyalty.ExpirePoints(ctx, time.Now().UTC())
			if err == nil {
				a.log.Info("Expired %d points across %d customers", result.PointsExpired, result.Expired)
			}
			return err
		}},
		{"birthday messages", a.cfg.BirthdayCron, func(ctx context.Context) error {
			_, err := notifications.ProcessDailyBirthdays(ctx, time.Now().UTC())
			return err
		}},
	}
	if a.erpSource != nil {
		jobs = append(jobs, struct {
			name string
			spec string
			run  func(ctx context.Context) error
		}{"erp incremental sync", a.cfg.ERPSyncCron, func(ctx context.Context) error {
			_, err := erpSync.IncrementalSync(ctx)
			return err
		}})
	}

	for _, job := range jobs {
		if job.spec == "" {
			continue
		}
		job := job
		_, err := a.scheduler.AddFunc(job.spec, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
			defer cancel()
			if err := job.run(ctx); err != nil {
				a.log.Error("Scheduled job %s failed: %v", job.name, err)
			}
		})
		if err != nil {
			a.log.Error("Failed to schedule %s (%s): %v", job.name, job.spec, err)
			continue
		}
		a.log.Info("Scheduled %s at %q", job.name, job.spec)
	}

	a.scheduler.Start()
}

func (a *App) Wait() {
	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	a.log.Info("Shutting down loyalty API...")
}

func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if a.scheduler != nil {
		select {
		case <-a.scheduler.Stop().Done():
		case <-ctx.Done():
			a.log.Warn("Scheduled jobs still running at shutdown")
		}
	}

	// Shutdown server
	var shutdownErr error
	if a.httpServer != nil {
		if err := a.httpServer.Shutdown(ctx); err != nil {
			a.log.Error("Server forced to shutdown: %v", err)
			shutdownErr = err
		}
	}

	if a.erpSource != nil {
		if err := a.erpSource.Close(); err != nil {
			a.log.Error("Error closing ERP connection: %v", err)
		}
	}

	// Close RabbitMQ connection
	if a.queueClient != nil {
		if err := a.queueClient.Close(); err != nil {
			a.log.Error("Error closing RabbitMQ: %v", err)
		}
	}

	// Close Redis connection
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.log.Error("Error closing Redis: %v", err)
		}
	}

	// Close database connection
	sqlDB, err := a.db.DB()
	if err == nil {
		if err := sqlDB.Close(); err != nil {
			a.log.Error("Error closing database: %v", err)
		}
	}

	if shutdownErr != nil {
		return shutdownErr
	}
	a.log.Info("Loyalty API exited")
	return nil
}
