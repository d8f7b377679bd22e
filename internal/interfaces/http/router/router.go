// Package router assembles the gin engine: global middleware, the public
// endpoints, and the authenticated and organization-scoped API groups.
package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/invois/backend/internal/domain/identity"
	"github.com/invois/backend/internal/infrastructure/auth"
	"github.com/invois/backend/internal/infrastructure/cache"
	"github.com/invois/backend/internal/infrastructure/config"
	"github.com/invois/backend/internal/infrastructure/logger"
	"github.com/invois/backend/internal/interfaces/http/handler"
	"github.com/invois/backend/internal/interfaces/http/middleware"
)

// IdempotencyTTL is how long a claimed Idempotency-Key blocks retries
const IdempotencyTTL = 24 * time.Hour

// Dependencies carries everything the router wires together
type Dependencies struct {
	Config           *config.Config
	Logger           *zap.Logger
	JWTService       *auth.JWTService
	TokenBlacklist   auth.TokenBlacklist
	Members          identity.MemberRepository
	RateLimiter      cache.RateLimiter
	IdempotencyStore cache.IdempotencyStore

	Health        *handler.HealthHandler
	Auth          *handler.AuthHandler
	Organization  *handler.OrganizationHandler
	Member        *handler.MemberHandler
	Customer      *handler.CustomerHandler
	Invoice       *handler.InvoiceHandler
	PurchaseOrder *handler.PurchaseOrderHandler
	Receipt       *handler.ReceiptHandler
	EmailLog      *handler.EmailLogHandler
	Sweep         *handler.SweepHandler
}

// Setup mounts the middleware chain and all routes onto the engine
func Setup(engine *gin.Engine, deps Dependencies) {
	httpCfg := deps.Config.HTTP

	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(deps.Logger),
		logger.Recovery(deps.Logger),
		middleware.CORS(corsConfig(httpCfg)),
		middleware.BodyLimit(httpCfg.MaxBodySize),
	)
	if deps.Config.Telemetry.Enabled {
		engine.Use(otelgin.Middleware(deps.Config.Telemetry.ServiceName))
	}
	if httpCfg.RateLimitEnabled {
		engine.Use(middleware.RateLimit(middleware.RateLimitConfig{
			Limiter: deps.RateLimiter,
			Limit:   httpCfg.RateLimitRequests,
			Window:  httpCfg.RateLimitWindow,
			Logger:  deps.Logger,
		}))
	}

	api := engine.Group("/api/v1")

	// Public: probes and sign-in. Credential endpoints get their own tighter
	// rate limit bucket to slow down password guessing.
	public := api.Group("")
	if httpCfg.AuthRateLimitEnabled {
		public.Use(middleware.RateLimit(middleware.RateLimitConfig{
			Limiter:   deps.RateLimiter,
			Limit:     httpCfg.AuthRateLimitRequests,
			Window:    httpCfg.AuthRateLimitWindow,
			KeySuffix: ":auth",
			Logger:    deps.Logger,
		}))
	}
	deps.Health.RegisterPublicRoutes(api.Group(""))
	deps.Auth.RegisterPublicRoutes(public)

	// Authenticated: a valid access token, membership optional
	authed := api.Group("",
		middleware.Auth(deps.JWTService, deps.TokenBlacklist, deps.Logger),
		middleware.OrganizationContext(deps.Members, deps.Logger),
	)
	deps.Auth.RegisterProtectedRoutes(authed)
	deps.Organization.RegisterProtectedRoutes(authed)
	deps.Member.RegisterProtectedRoutes(authed)

	// Organization-scoped: everything below requires a membership. Mutations
	// honor the Idempotency-Key header.
	scoped := authed.Group("",
		middleware.RequireOrganization(),
		middleware.Idempotency(deps.IdempotencyStore, IdempotencyTTL, deps.Logger),
	)
	deps.Organization.RegisterScopedRoutes(scoped)
	deps.Member.RegisterScopedRoutes(scoped)
	deps.Customer.RegisterScopedRoutes(scoped)
	deps.Invoice.RegisterScopedRoutes(scoped)
	deps.PurchaseOrder.RegisterScopedRoutes(scoped)
	deps.Receipt.RegisterScopedRoutes(scoped)
	deps.EmailLog.RegisterScopedRoutes(scoped)
	deps.Sweep.RegisterScopedRoutes(scoped)
}

func corsConfig(httpCfg config.HTTPConfig) middleware.CORSConfig {
	cfg := middleware.DefaultCORSConfig()
	if len(httpCfg.CORSAllowOrigins) > 0 {
		cfg.AllowOrigins = httpCfg.CORSAllowOrigins
	}
	if len(httpCfg.CORSAllowMethods) > 0 {
		cfg.AllowMethods = httpCfg.CORSAllowMethods
	}
	if len(httpCfg.CORSAllowHeaders) > 0 {
		cfg.AllowHeaders = httpCfg.CORSAllowHeaders
	}
	return cfg
}
