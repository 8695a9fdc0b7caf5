package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "travel/api" // swagger docs
	"travel/cfg"
	"travel/internal/admin"
	"travel/internal/auth"
	"travel/internal/booking"
	"travel/internal/flight"
	"travel/internal/hotel"
	"travel/internal/schedule"
	"travel/internal/web"
	"travel/pkg/apiclient"
	"travel/pkg/cache"
	"travel/pkg/db"
	"travel/pkg/idgen"
	"travel/pkg/logger"
	"travel/pkg/notify"
	"travel/pkg/oauth2"
	"travel/pkg/validate"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// @title        Travel Portal API
// @version      1.0
// @description  Backend-for-frontend of the travel booking portal and its admin back office.
// @BasePath     /
func main() {
	// ============
	// config
	// ============
	config, errCfg := cfg.Load()
	if errCfg != nil {
		log.Fatal(errCfg)
	}

	// ============
	// logger
	// ============
	zlogger := logger.NewZeroLog(config.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ============
	// Otel
	// ============
	if config.Observability.OTLPEndpoint != "" {
		shutdownOtel, err := initOtel(ctx, &config.Observability, zlogger)
		if err != nil {
			log.Fatalf("failed to initialize OpenTelemetry: %v", err)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdownOtel(ctx); err != nil {
				zlogger.Error("failed to shutdown OpenTelemetry", logger.Err(err))
			}
		}()
	} else {
		zlogger.Info("OpenTelemetry disabled, no OTLP endpoint configured")
	}

	// ============
	// IDs, cache, validation
	// ============
	ids, err := idgen.NewSnowflakeGenerator(config.NodeID)
	if err != nil {
		log.Fatal(err)
	}

	var store cache.Cache
	switch config.Cache.Driver {
	case "redis":
		store = cache.NewRedisCache(config.Redis.Host+":"+config.Redis.Port, config.Redis.Password)
	default:
		store = cache.NewMemoryCache()
	}

	validator := validate.New()

	// ============
	// Backend client
	// ============
	signer, err := apiclient.NewTokenSigner(config.Backend.TokenSecret, config.Backend.TokenIssuer, config.Backend.TokenTTL)
	if err != nil {
		log.Fatal(err)
	}
	httpClient := &http.Client{Timeout: config.Backend.Timeout}
	backend := apiclient.NewServices(apiclient.NewClient(httpClient, config.Backend.BaseURL, signer, zlogger))

	// ============
	// Oauth2
	// ============
	sessions, err := newSessionStore(config, zlogger)
	if err != nil {
		log.Fatal(err)
	}
	oauth2mgr := oauth2.NewManager(sessions,
		oauth2.WithSessionTTL(config.Session.TTL),
		oauth2.WithSecureCookies(config.HTTP.SecureCookie),
		oauth2.WithRedirectAfterLogin(config.OAuth2.AfterLoginURL),
		oauth2.WithLogger(zlogger.With(logger.Field{Key: "component", Value: "oauth2"})),
	)
	defer oauth2mgr.Cleanup()

	providers, err := oauth2.ProvidersFromConfig(ctx, &config.OAuth2)
	if err != nil {
		log.Fatal(err)
	}
	for _, p := range providers {
		oauth2mgr.RegisterProvider(p)
	}

	// ============
	// Domain services
	// ============
	feed := notify.NewFeed(ids, zlogger, config.Session.IdleTTL)
	defer feed.Cleanup()

	bookings := booking.NewService(store, backend.Bookings, validator, config.Booking.StateTTL, zlogger)
	flights := flight.NewService(backend.Flights, store, validator, config.Cache.FlightTTL, zlogger)
	schedules := schedule.NewService(backend.Schedules, validator, zlogger)

	workspaces := admin.NewWorkspaces(admin.Backends{
		Services:       backend,
		Schedules:      schedules,
		CatalogChanged: flights.InvalidateSearches,
	}, validator, feed, zlogger, config.Session.IdleTTL)
	defer workspaces.Cleanup()

	panels := hotel.NewPanels(backend.Hotels, feed, zlogger, config.Session.IdleTTL)
	defer panels.Cleanup()

	// ============
	// HTTP
	// ============
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(config.Observability.ServiceName))
	r.Use(TraceLoggerMiddleware(zlogger))
	r.Use(oauth2.OptionalAuth(oauth2mgr))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/docs", docsHandler)
	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	identity := web.IdentityFunc(oauth2.Identity)
	browsers := web.NewBrowserSessions(config.HTTP.SecureCookie)

	oauth2.RegisterRoutes(r, oauth2mgr)
	auth.NewHandler(auth.Config{
		Realm: config.OAuth2.Realm,
		Actions: auth.ActionURLs{
			Login:         config.OAuth2.LoginURL,
			Register:      config.OAuth2.RegisterURL,
			ResetPassword: config.OAuth2.ResetPasswordURL,
		},
		CaptchaSiteKey: config.Captcha.SiteKey,
		Providers:      oauth2mgr.Providers(),
		LoginPath: func(alias string) string {
			return strings.TrimRight(config.HTTP.PublicURL, "/") + "/auth/" + alias
		},
	}).RegisterRoutes(r)

	booking.NewHandler(bookings, browsers, identity, config.OAuth2.LoginURL).RegisterRoutes(r)
	flight.NewFlightHandler(flights, bookings, browsers).RegisterRoutes(r)
	hotel.NewHandler(panels, bookings, browsers).RegisterRoutes(r)
	notify.NewHandler(feed, web.BrowserSession).RegisterRoutes(r)

	protected := r.Group("")
	protected.Use(oauth2.AuthMiddleware(oauth2mgr))
	admin.NewHandler(workspaces, browsers, identity).RegisterRoutes(protected)
	schedule.NewHandler(schedules, feed, browsers, identity).RegisterRoutes(protected)

	srv := &http.Server{
		Addr:              ":" + config.HTTP.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zlogger.Info("portal listening", logger.Field{Key: "addr", Value: srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	zlogger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlogger.Error("server shutdown failed", logger.Err(err))
	}
}

func newSessionStore(config *cfg.Config, log logger.Logger) (oauth2.SessionStore, error) {
	if config.Session.Store != "postgres" {
		return oauth2.NewInMemorySessionStore(), nil
	}

	pg := config.Postgres
	dsn := db.PostgresDSN(pg.User, pg.Password, pg.Host, pg.Port, pg.DBName, pg.SSLMode)
	if err := db.Migrate(pg.MigrationsDir, dsn); err != nil {
		return nil, err
	}
	client, err := db.NewPostgresClient(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect session store: %w", err)
	}
	return oauth2.NewPostgresSessionStore(client, log), nil
}

func docsHandler(c *gin.Context) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	html := `<!DOCTYPE html>
<html>
<head>
    <title>Travel Portal API</title>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1">
</head>
<body>
    <script id="api-reference" data-url="/swagger/doc.json"></script>
    <script src="https://cdn.jsdelivr.net/npm/@scalar/api-reference"></script>
</body>
</html>`
	c.String(http.StatusOK, html)
}
