package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopfront/backend/internal/infrastructure/config"
	"github.com/shopfront/backend/internal/infrastructure/logger"
	"github.com/shopfront/backend/internal/interfaces/http/handler"
	"github.com/shopfront/backend/internal/interfaces/http/middleware"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// Handlers are the endpoints mounted by New
type Handlers struct {
	Basket  *handler.BasketHandler
	Order   *handler.OrderHandler
	Catalog *handler.CatalogHandler
	Contact *handler.ContactHandler
	Health  *handler.HealthHandler
}

// MetricsRegistry observes requests and serves the scrape endpoint
type MetricsRegistry interface {
	middleware.HTTPObserver
	Handler() http.Handler
}

// Options configure the middleware stack of the engine
type Options struct {
	Logger *zap.Logger
	HTTP   config.HTTPConfig
	Auth   middleware.AuthConfig

	// RateLimiter is applied after authentication so budgets follow the user; nil disables it
	RateLimiter *middleware.RateLimiter
	// Metrics enables HTTP metrics and the scrape endpoint at MetricsPath
	Metrics     MetricsRegistry
	MetricsPath string

	TracingService string // empty disables tracing
	Profiling      bool
	Swagger        bool
}

// New builds the engine: probes and scrape endpoints at the root, the shop
// API under /api/v1.
func New(opts Options, h Handlers) *gin.Engine {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	engine := gin.New()
	if len(opts.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(opts.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	if opts.TracingService != "" {
		tracing := middleware.DefaultTracingConfig()
		tracing.ServiceName = opts.TracingService
		engine.Use(middleware.Tracing(tracing), middleware.SpanErrorMarker())
	}
	if opts.Metrics != nil {
		engine.Use(middleware.Metrics(opts.Metrics))
	}
	if opts.Profiling {
		engine.Use(middleware.Profiling(middleware.DefaultProfilingConfig()))
	}
	engine.Use(middleware.Secure(middleware.DefaultSecurityConfig()))
	engine.Use(middleware.CORS(corsConfig(opts.HTTP)))
	if opts.HTTP.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(opts.HTTP.MaxBodySize))
	}

	if h.Health != nil {
		engine.GET("/health", h.Health.Health)
	}
	if opts.Metrics != nil && opts.MetricsPath != "" {
		engine.GET(opts.MetricsPath, gin.WrapH(opts.Metrics.Handler()))
	}
	if opts.Swagger {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	required := []gin.HandlerFunc{middleware.Auth(opts.Auth), middleware.SpanAttributes()}
	optional := []gin.HandlerFunc{middleware.OptionalAuth(opts.Auth), middleware.SpanAttributes()}
	if opts.RateLimiter != nil {
		required = append(required, opts.RateLimiter.Middleware())
		optional = append(optional, opts.RateLimiter.Middleware())
	}

	Mount(engine, shopResources(h, required, optional)...)
	return engine
}

func shopResources(h Handlers, required, optional []gin.HandlerFunc) []Resource {
	return []Resource{
		{Name: "basket", Prefix: "/basket", Middleware: required, Routes: []Route{
			get("/", h.Basket.Get),
			post("/", h.Basket.AddItem),
			remove("/", h.Basket.Clear),
			put("/:item_id/", h.Basket.UpdateItem),
			remove("/:item_id/", h.Basket.RemoveItem),
		}},
		{Name: "orders", Prefix: "/orders", Middleware: required, Routes: []Route{
			post("/confirm_order/", h.Order.Confirm),
			get("/", h.Order.List),
			get("/:id/", h.Order.Get),
			patch("/:id/", h.Order.SetStatus),
		}},
		{Name: "products", Prefix: "/products", Middleware: optional, Routes: []Route{
			get("/", h.Catalog.ListProducts),
			get("/:id/", h.Catalog.GetProduct),
		}},
		{Name: "shops", Prefix: "/shops", Middleware: required, Routes: []Route{
			patch("/:id/state/", h.Catalog.SetShopState),
		}},
		{Name: "partner", Prefix: "/partner", Middleware: required, Routes: []Route{
			post("/import/", h.Catalog.ImportGoods),
		}},
		{Name: "contacts", Prefix: "/contacts", Middleware: required, Routes: []Route{
			get("/", h.Contact.List),
			post("/", h.Contact.Create),
			get("/:id/", h.Contact.Get),
			put("/:id/", h.Contact.Update),
			remove("/:id/", h.Contact.Delete),
		}},
	}
}

func corsConfig(cfg config.HTTPConfig) middleware.CORSConfig {
	cors := middleware.DefaultCORSConfig()
	cors.AllowOrigins = cfg.CORSAllowOrigins
	if len(cfg.CORSAllowMethods) > 0 {
		cors.AllowMethods = cfg.CORSAllowMethods
	}
	if len(cfg.CORSAllowHeaders) > 0 {
		cors.AllowHeaders = cfg.CORSAllowHeaders
	}
	return cors
}
