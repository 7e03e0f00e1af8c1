package authsdk

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// SDKClient talks to the gatekeeper service. It performs the public
// operations directly and hands out Sessions for authenticated ones.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewSDKClient creates a client for the service at baseURL.
func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Signup creates an identity and returns its first token pair.
func (c *SDKClient) Signup(ctx context.Context, req SignupRequest) (*AuthResponse, error) {
	return c.authCall(ctx, "/v1/auth/signup", req, http.StatusCreated)
}

// Signin exchanges credentials for a token pair.
func (c *SDKClient) Signin(ctx context.Context, req SigninRequest) (*AuthResponse, error) {
	return c.authCall(ctx, "/v1/auth/signin", req, http.StatusOK)
}

// Refresh exchanges a refresh token for a new pair. The presented token is
// not revoked and stays usable until it ages out of the identity's history.
func (c *SDKClient) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	return c.authCall(ctx, "/v1/auth/refresh-token", RefreshRequest{RefreshToken: refreshToken}, http.StatusOK)
}

// Bootstrap creates the first elevated identity using the operator token.
func (c *SDKClient) Bootstrap(ctx context.Context, token string, req BootstrapRequest) (*AuthResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/bootstrap", req, map[string]string{
		"X-Bootstrap-Token": token,
	})
	if err != nil {
		return nil, err
	}

	var out AuthResponse
	if err := decodeJSON(resp, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *SDKClient) authCall(ctx context.Context, path string, payload any, want int) (*AuthResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, path, payload, nil)
	if err != nil {
		return nil, err
	}

	var out AuthResponse
	if err := decodeJSON(resp, &out, want); err != nil {
		return nil, err
	}
	return &out, nil
}

// Authenticate signs in and wraps the tokens in a Session.
func (c *SDKClient) Authenticate(ctx context.Context, email, password string) (*Session, error) {
	out, err := c.Signin(ctx, SigninRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	return newSession(c, out), nil
}

// NewSession wraps tokens obtained elsewhere (signup, bootstrap, storage).
func (c *SDKClient) NewSession(out *AuthResponse) *Session {
	return newSession(c, out)
}

// GetSettings reads the public site settings.
func (c *SDKClient) GetSettings(ctx context.Context) (*SettingsResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/v1/settings", nil, nil)
	if err != nil {
		return nil, err
	}

	var out SettingsResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetLiveness checks if the service is alive.
func (c *SDKClient) GetLiveness(ctx context.Context) (*HealthResponse, error) {
	return c.health(ctx, "/livez")
}

// GetReadiness checks if the service and its dependencies are ready.
func (c *SDKClient) GetReadiness(ctx context.Context) (*HealthResponse, error) {
	return c.health(ctx, "/readyz")
}

func (c *SDKClient) health(ctx context.Context, path string) (*HealthResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}

	var out HealthResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}
