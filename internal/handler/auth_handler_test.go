package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dafibh/prolink/prolink-backend/internal/domain"
	"github.com/dafibh/prolink/prolink-backend/internal/middleware"
	"github.com/dafibh/prolink/prolink-backend/internal/service"
	"github.com/dafibh/prolink/prolink-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupAuthContext attaches what the auth middleware would have resolved
func setupAuthContext(c echo.Context, identity *domain.Identity, token string, payload domain.TokenPayload) {
	ctx := context.WithValue(c.Request().Context(), middleware.IdentityKey, identity)
	ctx = context.WithValue(ctx, middleware.TokenKey, token)
	ctx = context.WithValue(ctx, middleware.PayloadKey, payload)
	c.SetRequest(c.Request().WithContext(ctx))
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewRequestValidator()
	return e
}

type authFixture struct {
	handler  *AuthHandler
	provider *testutil.MockAuthProvider
	users    *testutil.MockUserRepository
	profiles *testutil.MockProfileRepository
}

func newAuthFixture() authFixture {
	provider := testutil.NewMockAuthProvider()
	profiles := testutil.NewMockProfileRepository()
	users := testutil.NewMockUserRepository(profiles)
	authService := service.NewAuthService(provider, "http://localhost:3000/auth/callback", "http://localhost:3000/reset-password")
	profileService := service.NewProfileService(users, profiles)
	return authFixture{
		handler:  NewAuthHandler(authService, profileService),
		provider: provider,
		users:    users,
		profiles: profiles,
	}
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) ProblemDetails {
	t.Helper()
	var problem ProblemDetails
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	return problem
}

func TestSignUp_Success(t *testing.T) {
	f := newAuthFixture()
	e := newTestEcho()

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/api/auth/signup", `{"email":"ada@example.com","password":"secret1","name":"Ada"}`), rec)

	require.NoError(t, f.handler.SignUp(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var result service.SignUpResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Contains(t, result.Message, "check your email")
	assert.Equal(t, "ada@example.com", f.provider.LastEmail)
	assert.Equal(t, "Ada", f.provider.LastMetadata["name"])
}

func TestSignUp_ShortPassword(t *testing.T) {
	f := newAuthFixture()
	e := newTestEcho()

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/api/auth/signup", `{"email":"ada@example.com","password":"123"}`), rec)

	require.NoError(t, f.handler.SignUp(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	problem := decodeProblem(t, rec)
	require.Len(t, problem.Errors, 1)
	assert.Equal(t, "password", problem.Errors[0].Field)
	assert.Empty(t, f.provider.LastEmail)
}

func TestSignUp_InvalidEmail(t *testing.T) {
	f := newAuthFixture()
	e := newTestEcho()

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/api/auth/signup", `{"email":"not-an-email","password":"secret1"}`), rec)

	require.NoError(t, f.handler.SignUp(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "email", decodeProblem(t, rec).Errors[0].Field)
}

func TestSignUp_ProviderRejects(t *testing.T) {
	f := newAuthFixture()
	f.provider.SignUpErr = &domain.ProviderError{Status: http.StatusUnprocessableEntity, Message: "User already registered"}
	e := newTestEcho()

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/api/auth/signup", `{"email":"ada@example.com","password":"secret1"}`), rec)

	require.NoError(t, f.handler.SignUp(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "User already registered", decodeProblem(t, rec).Detail)
}

func TestSignIn_Success(t *testing.T) {
	f := newAuthFixture()
	e := newTestEcho()

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/api/auth/signin", `{"email":"ada@example.com","password":"secret1"}`), rec)

	require.NoError(t, f.handler.SignIn(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var result service.SessionResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.NotNil(t, result.Session)
	assert.Equal(t, "access-token", result.Session.AccessToken)
}

func TestSignIn_InvalidCredentials(t *testing.T) {
	f := newAuthFixture()
	f.provider.SignInErr = &domain.ProviderError{Status: http.StatusBadRequest, Message: "Invalid login credentials"}
	e := newTestEcho()

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/api/auth/signin", `{"email":"ada@example.com","password":"wrong"}`), rec)

	require.NoError(t, f.handler.SignIn(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, service.MsgInvalidCredentials, decodeProblem(t, rec).Detail)
}

func TestSignIn_MalformedBody(t *testing.T) {
	f := newAuthFixture()
	e := newTestEcho()

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/api/auth/signin", `{"email":`), rec)

	require.NoError(t, f.handler.SignIn(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSignOut_PassesToken(t *testing.T) {
	f := newAuthFixture()
	e := newTestEcho()

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/api/auth/signout", nil), rec)
	setupAuthContext(c, &domain.Identity{ID: uuid.New(), Email: "ada@example.com"}, "tok-123", domain.TokenPayload{})

	require.NoError(t, f.handler.SignOut(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "tok-123", f.provider.LastToken)
	assert.Contains(t, rec.Body.String(), service.MsgSignOutSuccess)
}

func TestResetPassword_UsesRedirect(t *testing.T) {
	f := newAuthFixture()
	e := newTestEcho()

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/api/auth/reset-password", `{"email":"ada@example.com"}`), rec)

	require.NoError(t, f.handler.ResetPassword(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://localhost:3000/reset-password", f.provider.LastRedirect)
}

func TestUpdatePassword_Success(t *testing.T) {
	f := newAuthFixture()
	e := newTestEcho()

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPut, "/api/auth/update-password", `{"password":"newsecret"}`), rec)
	setupAuthContext(c, &domain.Identity{ID: uuid.New(), Email: "ada@example.com"}, "tok-123", domain.TokenPayload{})

	require.NoError(t, f.handler.UpdatePassword(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "tok-123", f.provider.LastToken)
	assert.Equal(t, "newsecret", f.provider.LastPassword)
}

func TestAuthGetProfile_CreatesMissingProfile(t *testing.T) {
	f := newAuthFixture()
	e := newTestEcho()
	userID := uuid.New()
	f.users.AddUser(&domain.User{ID: userID, Email: "ada@example.com"})

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/auth/profile", nil), rec)
	setupAuthContext(c, &domain.Identity{ID: userID, Email: "ada@example.com"}, "tok", domain.TokenPayload{})

	require.NoError(t, f.handler.GetProfile(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var profile domain.Profile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profile))
	assert.Equal(t, userID, profile.UserID)
	assert.Equal(t, 1, f.profiles.CountForUser(userID))
}

func TestAuthGetProfile_Unauthenticated(t *testing.T) {
	f := newAuthFixture()
	e := newTestEcho()

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/auth/profile", nil), rec)

	require.NoError(t, f.handler.GetProfile(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSocialAuthURL_Supported(t *testing.T) {
	f := newAuthFixture()
	e := newTestEcho()

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/auth/social/github", nil), rec)
	c.SetParamNames("provider")
	c.SetParamValues("github")

	require.NoError(t, f.handler.SocialAuthURL(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var result service.SocialAuthResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Contains(t, result.URL, "provider=github")
	assert.Equal(t, testutil.MockCodeVerifier, result.CodeVerifier)
	assert.Equal(t, "github", f.provider.LastProvider)
}

func TestSocialAuthURL_Unsupported(t *testing.T) {
	f := newAuthFixture()
	e := newTestEcho()

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/auth/social/myspace", nil), rec)
	c.SetParamNames("provider")
	c.SetParamValues("myspace")

	require.NoError(t, f.handler.SocialAuthURL(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSocialAuthCallback(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantStatus int
	}{
		{"success", "?code=abc&code_verifier=ver", http.StatusOK},
		{"missing code", "?code_verifier=ver", http.StatusBadRequest},
		{"missing verifier", "?code=abc", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture()
			e := newTestEcho()

			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/auth/social/callback"+tt.query, nil), rec)

			require.NoError(t, f.handler.SocialAuthCallback(c))
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestAdminDashboard_RequiresRole(t *testing.T) {
	f := newAuthFixture()
	e := newTestEcho()
	identity := &domain.Identity{ID: uuid.New(), Email: "boss@example.com"}
	h := middleware.RequireRole("admin")(f.handler.AdminDashboard)

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/auth/admin-dashboard", nil), rec)
	setupAuthContext(c, identity, "tok", domain.TokenPayload{Subject: identity.ID.String(), Role: "authenticated"})

	require.NoError(t, h(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = httptest.NewRecorder()
	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/api/auth/admin-dashboard", nil), rec)
	setupAuthContext(c, identity, "tok", domain.TokenPayload{Subject: identity.ID.String(), AppRoles: []string{"admin"}})

	require.NoError(t, h(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Welcome to the admin dashboard, boss@example.com!")
}
