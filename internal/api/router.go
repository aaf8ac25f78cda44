package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/smartfdx/authgate/docs"
	"github.com/smartfdx/authgate/internal/api/handler"
	"github.com/smartfdx/authgate/internal/api/middleware"
	"github.com/smartfdx/authgate/internal/core/service"
	"github.com/smartfdx/authgate/internal/infrastructure/config"
	"github.com/smartfdx/authgate/internal/infrastructure/credstore"
	mongodb "github.com/smartfdx/authgate/internal/infrastructure/db/mongo"
	redisdb "github.com/smartfdx/authgate/internal/infrastructure/db/redis"
	"github.com/smartfdx/authgate/internal/infrastructure/queue"
)

// Router bundles the Echo instance with the long-running components the
// caller must start and stop alongside the HTTP server.
type Router struct {
	Echo   *echo.Echo
	Guards *service.GuardSet
	Audit  *queue.Dispatcher
}

// NewRouter wires the full dependency graph and registers all routes.
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, creds *credstore.Client, log zerolog.Logger) *Router {
	e := echo.New()
	e.HideBanner = true

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("smartfdx"))
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Dependencies ---
	sessionStore := redisdb.NewSessionStore(rdb)
	limiter := redisdb.NewAttemptLimiter(rdb, cfg.Session.MaxLoginAttempts, cfg.Session.AttemptWindow)
	routes := redisdb.NewCachedRouteStore(rdb, creds, cfg.Session.RouteCacheTTL)

	auditRepo := mongodb.NewAuditRepository(db)
	audit := queue.NewDispatcher(0, auditRepo, log)

	tokens := service.NewTokenService(cfg.JWTSecret)
	sessions := service.NewSessionManager(sessionStore, tokens, cfg.Session.TTL, cfg.Session.RememberTTL, log)
	authService := service.NewAuthService(creds, limiter, audit, log)
	resolver := service.NewRedirectResolver(routes, cfg.Session.DefaultRoute, log)
	guards := service.NewGuardSet(sessions, log)

	guard := middleware.Guard(guards, tokens, cfg.Session.LoginPath)

	authHandler := handler.NewAuthHandler(authService, sessions, resolver, guards)
	routeHandler := handler.NewRouteHandler(routes)
	workspaceHandler := handler.NewWorkspaceHandler()

	// --- Auth routes ---
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/logout", authHandler.Logout, guard)
	e.GET("/auth/session", authHandler.Session, guard)

	// --- Workspace routes ---
	e.POST("/routes/resolve", routeHandler.Resolve)
	e.GET("/workspace/:name", workspaceHandler.Show, guard)
	e.GET("/lab", workspaceHandler.Show, guard, middleware.RequireWorkspace("化验室"))

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)

	// --- Operational surface ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return &Router{Echo: e, Guards: guards, Audit: audit}
}
