package handler

import (
	"github.com/dafibh/prolink/prolink-backend/internal/middleware"
	"github.com/labstack/echo/v4"
)

// Handlers groups the HTTP handlers mounted under /api
type Handlers struct {
	Auth      *AuthHandler
	Profile   *ProfileHandler
	Avatar    *AvatarHandler
	WebSocket *WebSocketHandler
}

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, rateLimiter *middleware.RateLimiter, h Handlers) {
	if e.Validator == nil {
		e.Validator = NewRequestValidator()
	}

	api := e.Group("/api")
	requireAuth := authMiddleware.Authenticate()
	limited := middleware.RateLimitMiddleware(rateLimiter)

	// Auth routes
	auth := api.Group("/auth")
	auth.POST("/signup", h.Auth.SignUp, limited)
	auth.POST("/signin", h.Auth.SignIn, limited)
	auth.POST("/reset-password", h.Auth.ResetPassword, limited)
	auth.POST("/signout", h.Auth.SignOut, requireAuth)
	auth.PUT("/update-password", h.Auth.UpdatePassword, requireAuth)
	auth.GET("/profile", h.Auth.GetProfile, requireAuth)
	auth.GET("/admin-dashboard", h.Auth.AdminDashboard, requireAuth, middleware.RequireRole("admin"))
	auth.GET("/social/callback", h.Auth.SocialAuthCallback, limited)
	auth.GET("/social/:provider", h.Auth.SocialAuthURL)

	// Profile routes; static paths take precedence over /:id
	profiles := api.Group("/profiles")
	profiles.GET("", h.Profile.ListProfiles)
	profiles.GET("/me", h.Profile.GetMyProfile, requireAuth)
	profiles.GET("/professionals", h.Profile.ListProfessionals, requireAuth)
	profiles.GET("/:id", h.Profile.GetProfile)
	profiles.POST("", h.Profile.CreateProfile, requireAuth)
	profiles.POST("/upload-avatar", h.Avatar.UploadAvatar, h.Avatar.BodyLimit(), requireAuth)
	profiles.PUT("/me", h.Profile.UpdateMyProfile, requireAuth)
	profiles.PUT("/:id", h.Profile.UpdateProfile, requireAuth)
	profiles.DELETE("/:id", h.Profile.DeleteProfile, requireAuth)

	// Realtime feed, authenticated by ?token=
	if h.WebSocket != nil {
		api.GET("/ws", h.WebSocket.HandleWS)
	}
}
