package supabase

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dafibh/prolink/prolink-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUserID = "11111111-1111-1111-1111-111111111111"

func newTestClient(t *testing.T, handler http.HandlerFunc) *AuthClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewAuthClient(srv.URL, "anon-key", srv.Client())
}

func TestSignUp_ConfirmationRequired(t *testing.T) {
	var got map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/signup", r.URL.Path)
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"` + testUserID + `","email":"a@x.com","role":"authenticated"}`))
	})

	user, session, err := c.SignUp(context.Background(), "a@x.com", "secret123", map[string]any{"name": "Ada"})
	require.NoError(t, err)

	assert.Nil(t, session)
	assert.Equal(t, testUserID, user.ID)
	assert.Equal(t, "a@x.com", user.Email)
	assert.Equal(t, "a@x.com", got["email"])
	assert.Equal(t, map[string]any{"name": "Ada"}, got["data"])
}

func TestSignUp_AutoConfirmReturnsSession(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"at","token_type":"bearer","expires_in":3600,"refresh_token":"rt","user":{"id":"` + testUserID + `","email":"a@x.com"}}`))
	})

	user, session, err := c.SignUp(context.Background(), "a@x.com", "secret123", nil)
	require.NoError(t, err)
	require.NotNil(t, session)
	require.NotNil(t, user)

	assert.Equal(t, testUserID, user.ID)
	assert.Equal(t, "at", session.AccessToken)
	assert.Equal(t, "rt", session.RefreshToken)
	assert.Equal(t, 3600, session.ExpiresIn)
}

func TestSignUp_ProviderError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"code":422,"msg":"User already registered"}`))
	})

	_, _, err := c.SignUp(context.Background(), "a@x.com", "secret123", nil)

	var perr *domain.ProviderError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, http.StatusUnprocessableEntity, perr.Status)
	assert.Equal(t, "User already registered", perr.Message)
}

func TestSignInWithPassword(t *testing.T) {
	var body map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/token", r.URL.Path)
		assert.Equal(t, "password", r.URL.Query().Get("grant_type"))
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"at","refresh_token":"rt","user":{"id":"` + testUserID + `","email":"a@x.com"}}`))
	})

	session, err := c.SignInWithPassword(context.Background(), "a@x.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "at", session.AccessToken)
	require.NotNil(t, session.User)
	assert.Equal(t, "a@x.com", session.User.Email)
	assert.Equal(t, "a@x.com", body["email"])
	assert.Equal(t, "pw", body["password"])
}

func TestSignInWithPassword_OAuthStyleError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"Invalid login credentials"}`))
	})

	_, err := c.SignInWithPassword(context.Background(), "a@x.com", "bad")

	var perr *domain.ProviderError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, http.StatusBadRequest, perr.Status)
	assert.Equal(t, "Invalid login credentials", perr.Message)
}

func TestSignOut_UsesCallerToken(t *testing.T) {
	var auth, scope string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/logout", r.URL.Path)
		auth = r.Header.Get("Authorization")
		scope = r.URL.Query().Get("scope")
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, c.SignOut(context.Background(), "user-token"))
	assert.Equal(t, "Bearer user-token", auth)
	assert.Equal(t, "global", scope)
}

func TestResetPasswordForEmail(t *testing.T) {
	var redirect string
	var body map[string]string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/recover", r.URL.Path)
		redirect = r.URL.Query().Get("redirect_to")
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	})

	require.NoError(t, c.ResetPasswordForEmail(context.Background(), "a@x.com", "http://localhost:3000/reset-password"))
	assert.Equal(t, "http://localhost:3000/reset-password", redirect)
	assert.Equal(t, "a@x.com", body["email"])
}

func TestUpdatePassword(t *testing.T) {
	var body map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/auth/v1/user", r.URL.Path)
		assert.Equal(t, "Bearer user-token", r.Header.Get("Authorization"))
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"` + testUserID + `","email":"a@x.com"}`))
	})

	user, err := c.UpdatePassword(context.Background(), "user-token", "new-secret")
	require.NoError(t, err)
	assert.Equal(t, testUserID, user.ID)
	assert.Equal(t, "new-secret", body["password"])
}

func TestAuthorize_PKCE(t *testing.T) {
	var provider, redirect, challenge, method string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/authorize", r.URL.Path)
		q := r.URL.Query()
		provider, redirect = q.Get("provider"), q.Get("redirect_to")
		challenge, method = q.Get("code_challenge"), q.Get("code_challenge_method")
		w.Header().Set("Location", "https://github.com/login/oauth/authorize?client_id=abc")
		w.WriteHeader(http.StatusFound)
	})

	result, err := c.Authorize(context.Background(), "github", "http://localhost:3000/auth/callback")
	require.NoError(t, err)

	assert.Equal(t, "https://github.com/login/oauth/authorize?client_id=abc", result.URL)
	assert.Equal(t, "github", provider)
	assert.Equal(t, "http://localhost:3000/auth/callback", redirect)
	assert.True(t, strings.EqualFold("s256", method), method)

	require.NotEmpty(t, result.CodeVerifier)
	sum := sha256.Sum256([]byte(result.CodeVerifier))
	assert.Equal(t, base64.RawURLEncoding.EncodeToString(sum[:]), challenge)
}

func TestExchangeCodeForSession(t *testing.T) {
	var body map[string]string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "pkce", r.URL.Query().Get("grant_type"))
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"at","user":{"id":"` + testUserID + `"}}`))
	})

	session, err := c.ExchangeCodeForSession(context.Background(), "code-1", "verifier-1")
	require.NoError(t, err)
	assert.Equal(t, "at", session.AccessToken)
	assert.Equal(t, "code-1", body["auth_code"])
	assert.Equal(t, "verifier-1", body["code_verifier"])
}

func TestCanceledContextStopsRequest(t *testing.T) {
	called := false
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusNoContent)
	})
	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()

	err := c.SignOut(ctx, "t")
	require.Error(t, err)
	assert.False(t, called)
	assert.Contains(t, err.Error(), "context deadline exceeded")
}

func TestNetworkErrorIsNotProviderError(t *testing.T) {
	c := NewAuthClient("http://127.0.0.1:1", "k", nil)

	err := c.SignOut(context.Background(), "t")
	require.Error(t, err)

	var perr *domain.ProviderError
	assert.False(t, errors.As(err, &perr))
}

func TestProviderError_Parsing(t *testing.T) {
	err := providerError("recover", errors.New(`response status code 429: {"msg":"For security purposes, you can only request this once every 60 seconds"}`))

	var perr *domain.ProviderError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, http.StatusTooManyRequests, perr.Status)
	assert.Contains(t, perr.Message, "once every 60 seconds")

	err = providerError("recover", errors.New("response status code 502: <html>bad gateway</html>"))
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "Bad Gateway", perr.Message)
}
