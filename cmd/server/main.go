package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appcustomer "github.com/invois/backend/internal/application/customer"
	appdocument "github.com/invois/backend/internal/application/document"
	appidentity "github.com/invois/backend/internal/application/identity"
	"github.com/invois/backend/internal/infrastructure/auth"
	"github.com/invois/backend/internal/infrastructure/cache"
	"github.com/invois/backend/internal/infrastructure/config"
	"github.com/invois/backend/internal/infrastructure/logger"
	"github.com/invois/backend/internal/infrastructure/mail"
	"github.com/invois/backend/internal/infrastructure/persistence"
	"github.com/invois/backend/internal/infrastructure/printing"
	"github.com/invois/backend/internal/infrastructure/scheduler"
	"github.com/invois/backend/internal/infrastructure/storage"
	"github.com/invois/backend/internal/infrastructure/telemetry"
	"github.com/invois/backend/internal/interfaces/http/handler"
	"github.com/invois/backend/internal/interfaces/http/middleware"
	"github.com/invois/backend/internal/interfaces/http/router"
)

// version is stamped at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting invois backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	// Tracing
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Database
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, log, logger.MapGormLogLevel(cfg.Log.Level))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled: cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
	}, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	// Redis backs token revocation, rate limiting and idempotency. When it is
	// unreachable the in-memory equivalents keep a single instance working.
	var (
		blacklist        auth.TokenBlacklist
		rateLimiter      cache.RateLimiter
		idempotencyStore cache.IdempotencyStore
	)
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		log.Warn("Redis unavailable, using in-memory stores", zap.Error(err))
		blacklist = auth.NewInMemoryTokenBlacklist()
		rateLimiter = cache.NewInMemoryRateLimiter()
		idempotencyStore = cache.NewInMemoryIdempotencyStore()
	} else {
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Error closing Redis client", zap.Error(err))
			}
		}()
		blacklist = auth.NewRedisTokenBlacklist(redisClient)
		rateLimiter = cache.NewRedisRateLimiter(redisClient)
		idempotencyStore = cache.NewRedisIdempotencyStore(redisClient)
		log.Info("Redis connected")
	}

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	orgRepo := persistence.NewGormOrganizationRepository(db.DB)
	memberRepo := persistence.NewGormMemberRepository(db.DB)
	invitationRepo := persistence.NewGormInvitationRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	counterRepo := persistence.NewGormCounterRepository(db.DB)
	emailLogRepo := persistence.NewGormEmailLogRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB, counterRepo, orgRepo)
	orderRepo := persistence.NewGormPurchaseOrderRepository(db.DB, counterRepo, orgRepo)
	receiptRepo := persistence.NewGormReceiptRepository(db.DB, counterRepo, orgRepo)

	// Infrastructure services
	jwtService := auth.NewJWTService(cfg.JWT)
	googleVerifier := auth.NewGoogleTokenVerifier(cfg.JWT.GoogleClientID)
	mailer := mail.NewSMTPMailer(cfg.Mail)

	var objectStorage storage.ObjectStorage
	if cfg.Storage.Bucket == "" {
		log.Warn("Object storage bucket not configured, branding uploads are kept in memory")
		objectStorage = storage.NewMemoryObjectStorage()
	} else {
		s3Storage, err := storage.NewS3ObjectStorage(&cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		objectStorage = s3Storage
	}

	templates, err := printing.NewDocumentTemplates()
	if err != nil {
		log.Fatal("Failed to parse document templates", zap.Error(err))
	}

	var pdfRenderer printing.PDFRenderer
	if cfg.PDF.Enabled {
		pdfRenderer, err = printing.NewChromedpRenderer(&printing.ChromedpConfig{
			DefaultTimeout: cfg.PDF.RenderTimeout,
			ChromePath:     cfg.PDF.ChromePath,
			NoSandbox:      true,
			Logger:         log,
		})
		if err != nil {
			log.Fatal("Failed to initialize PDF renderer", zap.Error(err))
		}
	} else {
		log.Warn("PDF rendering disabled, document downloads and sending will fail")
		pdfRenderer = printing.NewDisabledRenderer()
	}
	defer func() {
		if err := pdfRenderer.Close(); err != nil {
			log.Error("Error closing PDF renderer", zap.Error(err))
		}
	}()

	// Application services
	authService := appidentity.NewAuthService(userRepo, memberRepo, jwtService, blacklist, googleVerifier, log)
	orgService := appidentity.NewOrganizationService(orgRepo, memberRepo, objectStorage, log)
	memberService := appidentity.NewMemberService(memberRepo, userRepo, log)
	invitationService := appidentity.NewInvitationService(
		invitationRepo, memberRepo, userRepo, orgRepo, mailer, cfg.App.BaseURL, log,
	)
	customerService := appcustomer.NewService(customerRepo, log)
	invoiceService := appdocument.NewInvoiceService(invoiceRepo, orgRepo, counterRepo, log)
	orderService := appdocument.NewPurchaseOrderService(orderRepo, orgRepo, counterRepo, log)
	receiptService := appdocument.NewReceiptService(receiptRepo, orgRepo, counterRepo, log)
	renderService := appdocument.NewRenderService(
		invoiceRepo, orderRepo, receiptRepo, orgRepo, objectStorage, templates, pdfRenderer, log,
	)
	emailService := appdocument.NewEmailService(
		invoiceRepo, orderRepo, receiptRepo, orgRepo, emailLogRepo, renderService, mailer, log,
	)
	sweepService := appdocument.NewSweepService(invoiceRepo, orderRepo, log)

	// Background jobs: daily overdue sweep and trash purge
	jobs := scheduler.NewScheduler(cfg.Scheduler, invoiceRepo, orderRepo, receiptRepo, log)
	if err := jobs.Start(); err != nil {
		log.Fatal("Failed to start scheduler", zap.Error(err))
	}
	defer func() {
		if err := jobs.Stop(context.Background()); err != nil {
			log.Error("Error stopping scheduler", zap.Error(err))
		}
	}()

	// HTTP surface
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()
	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	router.Setup(engine, router.Dependencies{
		Config:           cfg,
		Logger:           log,
		JWTService:       jwtService,
		TokenBlacklist:   blacklist,
		Members:          memberRepo,
		RateLimiter:      rateLimiter,
		IdempotencyStore: idempotencyStore,

		Health:        handler.NewHealthHandler(db.DB, version, log),
		Auth:          handler.NewAuthHandler(authService, log),
		Organization:  handler.NewOrganizationHandler(orgService, log),
		Member:        handler.NewMemberHandler(memberService, invitationService, log),
		Customer:      handler.NewCustomerHandler(customerService, log),
		Invoice:       handler.NewInvoiceHandler(invoiceService, renderService, emailService, log),
		PurchaseOrder: handler.NewPurchaseOrderHandler(orderService, renderService, emailService, log),
		Receipt:       handler.NewReceiptHandler(receiptService, renderService, emailService, log),
		EmailLog:      handler.NewEmailLogHandler(emailService, log),
		Sweep:         handler.NewSweepHandler(sweepService, log),
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
