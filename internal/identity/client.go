// The identity package authenticates this service against the external
// identity service using service-account credentials plus a TOTP code, and
// caches the returned bearer token for outbound calls.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// tokenLifetime is deliberately shorter than the actual token expiry so a
// cached token is never presented at the edge of its validity.
const tokenLifetime = 50 * time.Minute

const defaultTimeout = 10 * time.Second

// AuthError is returned for any failure to obtain a token: bad credentials,
// bad code, or a transport problem. It is never cached.
type AuthError struct {
	Status int
	Err    error
}

func (e *AuthError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("identity: authentication failed with status %d", e.Status)
	}
	return fmt.Sprintf("identity: authentication failed: %v", e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

type CustomerProfile struct {
	ID          int64  `json:"id"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
}

type Client struct {
	baseURL    string
	username   string
	password   string
	totpSecret string
	httpClient *http.Client
	logger     *slog.Logger

	// mu guards the cached token. Workers share one client, so reads and
	// refreshes must be safe under concurrency.
	mu          sync.Mutex
	cachedToken string
	tokenExpiry time.Time
}

func New(baseURL, username, password, totpSecret string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    baseURL,
		username:   username,
		password:   password,
		totpSecret: totpSecret,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     logger,
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	TotpCode string `json:"totpCode"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Token returns a valid bearer token, refreshing against the identity service
// when the cached one has expired. Concurrent callers serialize on the cache;
// a refresh is idempotent from the identity service's point of view.
func (c *Client) Token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cachedToken != "" && time.Now().Before(c.tokenExpiry) {
		return c.cachedToken, nil
	}

	code, err := GenerateCode(c.totpSecret)
	if err != nil {
		return "", &AuthError{Err: err}
	}

	body, err := json.Marshal(loginRequest{
		Username: c.username,
		Password: c.password,
		TotpCode: code,
	})
	if err != nil {
		return "", &AuthError{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/auth/login", bytes.NewReader(body))
	if err != nil {
		return "", &AuthError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &AuthError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return "", &AuthError{Status: resp.StatusCode}
	}

	var login loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&login); err != nil {
		return "", &AuthError{Err: err}
	}

	if login.Token == "" {
		return "", &AuthError{Err: fmt.Errorf("empty token in response")}
	}

	c.cachedToken = login.Token
	c.tokenExpiry = time.Now().Add(tokenLifetime)

	c.logger.Info("obtained service identity token", "expires_at", c.tokenExpiry)

	return c.cachedToken, nil
}

// FetchCustomerProfile looks up a customer on the identity service with a
// bearer-authenticated GET.
func (c *Client) FetchCustomerProfile(ctx context.Context, customerID int64) (*CustomerProfile, error) {
	token, err := c.Token(ctx)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/api/customers/%d", c.baseURL, customerID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("identity: profile lookup for customer %d returned status %d", customerID, resp.StatusCode)
	}

	var profile CustomerProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, err
	}

	return &profile, nil
}
