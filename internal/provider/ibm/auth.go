package ibm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const iamTokenURL = "https://iam.cloud.ibm.com/identity/token"

// TokenManager exchanges an IBM Cloud API key for a bearer token and
// caches it until shortly before expiry
type TokenManager struct {
	apiKey     string
	tokenURL   string
	httpClient *http.Client

	mu            sync.RWMutex
	token         string
	tokenExpiry   time.Time
	refreshMargin time.Duration
}

// NewTokenManager creates a new IAM token manager
func NewTokenManager(apiKey string, refreshMargin time.Duration) *TokenManager {
	return &TokenManager{
		apiKey:        apiKey,
		tokenURL:      iamTokenURL,
		httpClient:    &http.Client{Timeout: 30 * time.Second},
		refreshMargin: refreshMargin,
	}
}

// tokenResponse represents the IAM identity token response
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// GetToken returns a valid bearer token, refreshing if necessary
func (tm *TokenManager) GetToken(ctx context.Context) (string, error) {
	tm.mu.RLock()
	if tm.token != "" && time.Now().Before(tm.tokenExpiry.Add(-tm.refreshMargin)) {
		token := tm.token
		tm.mu.RUnlock()
		return token, nil
	}
	tm.mu.RUnlock()

	return tm.refreshToken(ctx)
}

// InvalidateToken forces a refresh on the next GetToken call
func (tm *TokenManager) InvalidateToken() {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	tm.token = ""
	tm.tokenExpiry = time.Time{}
}

func (tm *TokenManager) refreshToken(ctx context.Context) (string, error) {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	// Double-check after acquiring the write lock
	if tm.token != "" && time.Now().Before(tm.tokenExpiry.Add(-tm.refreshMargin)) {
		return tm.token, nil
	}

	tokenResp, err := tm.fetchTokenFromIAM(ctx)
	if err != nil {
		return "", err
	}

	tm.token = tokenResp.AccessToken
	tm.tokenExpiry = time.Now().Add(time.Duration(tokenResp.ExpiresIn) * time.Second)

	return tm.token, nil
}

func (tm *TokenManager) fetchTokenFromIAM(ctx context.Context) (*tokenResponse, error) {
	data := url.Values{}
	data.Set("grant_type", "urn:ibm:params:oauth:grant-type:apikey")
	data.Set("apikey", tm.apiKey)

	req, err := http.NewRequestWithContext(ctx, "POST", tm.tokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create token request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := tm.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("token fetch failed: %d %s", resp.StatusCode, string(body))
	}

	var tokenResp tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return nil, fmt.Errorf("parse token response: %w", err)
	}

	return &tokenResp, nil
}
