package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/dafibh/prolink/prolink-backend/docs"
	"github.com/dafibh/prolink/prolink-backend/internal/config"
	"github.com/dafibh/prolink/prolink-backend/internal/handler"
	"github.com/dafibh/prolink/prolink-backend/internal/metrics"
	"github.com/dafibh/prolink/prolink-backend/internal/middleware"
	"github.com/dafibh/prolink/prolink-backend/internal/repository/postgres"
	"github.com/dafibh/prolink/prolink-backend/internal/repository/storage"
	"github.com/dafibh/prolink/prolink-backend/internal/service"
	"github.com/dafibh/prolink/prolink-backend/internal/supabase"
	"github.com/dafibh/prolink/prolink-backend/internal/websocket"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// @title ProLink API
// @version 1.0
// @description Accounts, professional profiles and avatar uploads backed by Supabase.
// @host localhost:3001
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the Supabase access token.
func main() {
	// Initialize zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	ctx := context.Background()

	// Connect to database
	conn, err := postgres.NewConnection(ctx, cfg.DatabaseURL, cfg.AutoMigrate)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer conn.Close()
	log.Info().Bool("migrated", cfg.AutoMigrate).Msg("Connected to database")

	// Initialize repositories
	profileRepo := postgres.NewProfileRepository(conn)
	userRepo := postgres.NewUserRepository(conn)

	// Realtime hub doubles as the event publisher
	hub := websocket.NewHub()

	// Initialize services
	httpClient := &http.Client{Timeout: 15 * time.Second}
	authProvider := supabase.NewAuthClient(cfg.Supabase.URL, cfg.Supabase.Key, httpClient)

	identityService := service.NewIdentityService(userRepo, profileRepo)
	identityService.SetEventPublisher(hub)
	profileService := service.NewProfileService(userRepo, profileRepo)
	profileService.SetEventPublisher(hub)
	authService := service.NewAuthService(authProvider, cfg.Server.OAuthRedirectURL, cfg.Server.PasswordResetRedirectURL)

	gateway, err := newStorageGateway(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create storage client")
	}
	gateway.EnsureBucket(ctx)

	avatarService := service.NewAvatarService(gateway, profileService, int(cfg.Avatar.MaxBytes), cfg.Avatar.MaxDimension)
	avatarService.SetEventPublisher(hub)

	// Initialize auth middleware
	verifier, err := middleware.NewTokenVerifier(cfg.Supabase.JWTSecret, cfg.Supabase.JWTIssuer(), cfg.Supabase.JWTAudience)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create token verifier")
	}
	authMiddleware := middleware.NewAuthMiddleware(verifier, identityService)

	rateLimiter := middleware.NewRateLimiterWithConfig(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst)
	defer rateLimiter.Stop()

	// Initialize handlers
	handlers := handler.Handlers{
		Auth:      handler.NewAuthHandler(authService, profileService),
		Profile:   handler.NewProfileHandler(profileService),
		Avatar:    handler.NewAvatarHandler(avatarService, cfg.Avatar.MaxBytes),
		WebSocket: handler.NewWebSocketHandler(hub, websocket.NewSupabaseJWTValidator(verifier, identityService), cfg.Server.CORSOrigins),
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewRequestValidator()

	// Request ID middleware
	e.Use(echomiddleware.RequestID())

	// CORS middleware
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.Server.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Security headers middleware (helmet-like)
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
		HSTSMaxAge:         31536000,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	}))

	// Request logging middleware with zerolog
	e.Use(zerologMiddleware())

	// Recovery middleware
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.BodyLimit(handler.UploadBodyLimit(cfg.Avatar.MaxBytes)))

	e.Use(metrics.EchoMiddleware())

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// API docs
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.GET("/openapi.json", handler.OpenAPI3Handler(openAPIServers(cfg)))

	// Register API routes
	handler.RegisterRoutes(e, authMiddleware, rateLimiter, handlers)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      e,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Server.Port).Str("env", cfg.Env).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// newStorageGateway builds the avatar upload chain: the configured protocol
// client while the bucket is reachable, then the Supabase Storage REST API.
func newStorageGateway(ctx context.Context, cfg *config.Config) (*storage.Gateway, error) {
	var primary storage.Strategy
	switch cfg.S3.ProtocolClient {
	case config.ProtocolClientMinIO:
		client, err := storage.NewMinIOObjectClient(cfg.S3)
		if err != nil {
			return nil, err
		}
		primary = client
	default:
		client, err := storage.NewS3ObjectClient(ctx, cfg.S3)
		if err != nil {
			return nil, err
		}
		primary = client
	}

	gateway := storage.NewGateway(cfg.S3.Bucket, cfg.S3.PublicURL,
		storage.Step{Strategy: primary, RequireReachable: true},
		storage.Step{Strategy: storage.NewSupabaseStorageClient(cfg.Supabase.URL, cfg.Supabase.Key)},
	)
	return gateway.WithObserver(metrics.NewUploadObserver()), nil
}

func openAPIServers(cfg *config.Config) []handler.Server {
	servers := []handler.Server{
		{URL: "http://localhost:" + cfg.Server.Port + "/api", Description: "Local Development"},
	}
	if cfg.Server.APIURL != "" {
		servers = append(servers, handler.Server{URL: cfg.Server.APIURL + "/api", Description: "Production"})
	}
	return servers
}

// zerologMiddleware returns a middleware that logs requests using zerolog
func zerologMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			event := log.Info()
			if res.Status >= http.StatusInternalServerError {
				event = log.Error()
			}
			event.
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Dur("latency", time.Since(start)).
				Str("ip", c.RealIP()).
				Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Msg("request")

			return nil
		}
	}
}
