// Package supabase adapts the Supabase Auth (GoTrue) SDK to domain.AuthProvider.
package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dafibh/prolink/prolink-backend/internal/domain"
	auth "github.com/supabase-community/auth-go"
	"github.com/supabase-community/auth-go/types"
)

var _ domain.AuthProvider = (*AuthClient)(nil)

// AuthClient calls {SUPABASE_URL}/auth/v1 with the project API key
type AuthClient struct {
	api        auth.Client
	httpClient *http.Client
}

// NewAuthClient creates an AuthClient. A nil httpClient gets a default
// with a 15s timeout.
func NewAuthClient(supabaseURL, apiKey string, httpClient *http.Client) *AuthClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	endpoint := strings.TrimRight(supabaseURL, "/") + "/auth/v1"
	return &AuthClient{
		api:        auth.New("", apiKey).WithCustomAuthURL(endpoint),
		httpClient: httpClient,
	}
}

// SignUp registers a user with email and password
func (c *AuthClient) SignUp(ctx context.Context, email, password string, metadata map[string]any) (*domain.AuthUser, *domain.Session, error) {
	resp, err := c.with(ctx, "", nil).Signup(types.SignupRequest{
		Email:    email,
		Password: password,
		Data:     metadata,
	})
	if err != nil {
		return nil, nil, providerError("sign up", err)
	}

	// a session only comes back when email confirmation is disabled
	if resp.AccessToken != "" {
		var session domain.Session
		if err := remarshal(resp.Session, &session); err != nil {
			return nil, nil, err
		}
		return session.User, &session, nil
	}

	var user domain.AuthUser
	if err := remarshal(resp.User, &user); err != nil {
		return nil, nil, err
	}
	return &user, nil, nil
}

// SignInWithPassword exchanges credentials for a session
func (c *AuthClient) SignInWithPassword(ctx context.Context, email, password string) (*domain.Session, error) {
	resp, err := c.with(ctx, "", nil).Token(types.TokenRequest{
		GrantType: "password",
		Email:     email,
		Password:  password,
	})
	if err != nil {
		return nil, providerError("sign in", err)
	}
	return toSession(resp.Session)
}

// SignOut revokes the refresh tokens of the session behind accessToken
func (c *AuthClient) SignOut(ctx context.Context, accessToken string) error {
	if err := c.with(ctx, accessToken, url.Values{"scope": {"global"}}).Logout(); err != nil {
		return providerError("sign out", err)
	}
	return nil
}

// ResetPasswordForEmail sends a recovery email
func (c *AuthClient) ResetPasswordForEmail(ctx context.Context, email, redirectTo string) error {
	if err := c.with(ctx, "", redirectQuery(redirectTo)).Recover(types.RecoverRequest{Email: email}); err != nil {
		return providerError("recover", err)
	}
	return nil
}

// UpdatePassword sets a new password for the user owning accessToken
func (c *AuthClient) UpdatePassword(ctx context.Context, accessToken, password string) (*domain.AuthUser, error) {
	resp, err := c.with(ctx, accessToken, nil).UpdateUser(types.UpdateUserRequest{Password: &password})
	if err != nil {
		return nil, providerError("update user", err)
	}

	var user domain.AuthUser
	if err := remarshal(resp.User, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Authorize starts an OAuth PKCE flow. The SDK generates the verifier and
// resolves the provider URL from the /authorize redirect.
func (c *AuthClient) Authorize(ctx context.Context, provider, redirectTo string) (*domain.OAuthRedirect, error) {
	resp, err := c.with(ctx, "", redirectQuery(redirectTo)).Authorize(types.AuthorizeRequest{
		Provider: types.Provider(provider),
		FlowType: types.FlowPKCE,
	})
	if err != nil {
		return nil, providerError("authorize", err)
	}
	return &domain.OAuthRedirect{URL: resp.AuthorizationURL, CodeVerifier: resp.Verifier}, nil
}

// ExchangeCodeForSession completes the PKCE flow
func (c *AuthClient) ExchangeCodeForSession(ctx context.Context, authCode, codeVerifier string) (*domain.Session, error) {
	resp, err := c.with(ctx, "", nil).Token(types.TokenRequest{
		GrantType:    "pkce",
		Code:         authCode,
		CodeVerifier: codeVerifier,
	})
	if err != nil {
		return nil, providerError("exchange code", err)
	}
	return toSession(resp.Session)
}

// with scopes an SDK client to one call. The SDK methods take no context,
// so ctx and any extra query parameters ride on the transport.
func (c *AuthClient) with(ctx context.Context, accessToken string, query url.Values) auth.Client {
	base := c.httpClient.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	client := *c.httpClient
	client.Transport = contextTransport{ctx: ctx, query: query, base: base}

	api := c.api.WithClient(client)
	if accessToken != "" {
		api = api.WithToken(accessToken)
	}
	return api
}

type contextTransport struct {
	ctx   context.Context
	query url.Values
	base  http.RoundTripper
}

func (t contextTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(t.ctx)
	if len(t.query) > 0 {
		q := req.URL.Query()
		for k, vs := range t.query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		req.URL.RawQuery = q.Encode()
	}
	return t.base.RoundTrip(req)
}

func redirectQuery(redirectTo string) url.Values {
	if redirectTo == "" {
		return nil
	}
	return url.Values{"redirect_to": {redirectTo}}
}

func toSession(in types.Session) (*domain.Session, error) {
	var session domain.Session
	if err := remarshal(in, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// remarshal copies an SDK value into its domain shape through the wire format
func remarshal(in, out any) error {
	raw, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to encode auth response: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode auth response: %w", err)
	}
	return nil
}

// statusPattern matches the SDK's error text for non-2xx responses
var statusPattern = regexp.MustCompile(`(?s)response status code (\d{3}): (.*)`)

// errorBody covers the error shapes GoTrue has used across versions
type errorBody struct {
	Msg              string `json:"msg"`
	Message          string `json:"message"`
	ErrorDescription string `json:"error_description"`
	Error            string `json:"error"`
}

func (b errorBody) message() string {
	for _, m := range []string{b.Msg, b.ErrorDescription, b.Message, b.Error} {
		if m != "" {
			return m
		}
	}
	return ""
}

// providerError turns an SDK error carrying an HTTP status into a
// *domain.ProviderError. Transport failures are wrapped as they are.
func providerError(op string, err error) error {
	var perr *domain.ProviderError
	if errors.As(err, &perr) {
		return err
	}

	m := statusPattern.FindStringSubmatch(err.Error())
	if m == nil {
		return fmt.Errorf("auth request failed (%s): %w", op, err)
	}

	status, _ := strconv.Atoi(m[1])
	var body errorBody
	_ = json.Unmarshal([]byte(strings.TrimSpace(m[2])), &body)
	msg := body.message()
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &domain.ProviderError{Status: status, Message: msg}
}
