// Amadeus self-service API client shared by the flight and hotel
// search handlers.
package amadeus

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"
)

type Client struct {
	clientID     string
	clientSecret string
	baseURL      string
	accessToken  string
	tokenExpiry  time.Time
	mu           sync.Mutex
	httpClient   *http.Client
}

func NewClient() *Client {
	baseURL := "https://api.amadeus.com"
	if env := os.Getenv("AMADEUS_ENV"); env == "" || env == "test" {
		baseURL = "https://test.api.amadeus.com"
	}
	return &Client{
		clientID:     os.Getenv("AMADEUS_CLIENT_ID"),
		clientSecret: os.Getenv("AMADEUS_CLIENT_SECRET"),
		baseURL:      baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// NewClientForBase is used by tests to point the client at a fake
// server with no credentials required.
func NewClientForBase(baseURL string) *Client {
	return &Client{
		baseURL:     baseURL,
		accessToken: "test",
		tokenExpiry: time.Now().Add(time.Hour),
		httpClient:  &http.Client{Timeout: 5 * time.Second},
	}
}

// ErrorDetail is one entry of an Amadeus error response. Source carries
// the offending request parameter (e.g. "hotelIds=A,B,C").
type ErrorDetail struct {
	Code   int    `json:"code"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
	Source struct {
		Parameter string `json:"parameter"`
	} `json:"source"`
}

// APIError is a non-2xx Amadeus response with its decoded error list.
type APIError struct {
	StatusCode int
	Errors     []ErrorDetail
	Body       string
}

func (e *APIError) Error() string {
	if len(e.Errors) > 0 {
		return fmt.Sprintf("amadeus error (%d): %s", e.StatusCode, e.Errors[0].Detail)
	}
	return fmt.Sprintf("amadeus error (%d): %s", e.StatusCode, e.Body)
}

func (c *Client) refreshToken(ctx context.Context) error {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/security/oauth2/token",
		strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("token request failed (%d): %s", resp.StatusCode, string(body))
	}

	var result struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("failed to parse token response: %w", err)
	}

	c.mu.Lock()
	c.accessToken = result.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(result.ExpiresIn-30) * time.Second)
	c.mu.Unlock()
	return nil
}

func (c *Client) getToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	expired := time.Now().After(c.tokenExpiry)
	token := c.accessToken
	c.mu.Unlock()

	if expired || token == "" {
		if err := c.refreshToken(ctx); err != nil {
			return "", err
		}
		c.mu.Lock()
		token = c.accessToken
		c.mu.Unlock()
	}
	return token, nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	token, err := c.getToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("auth failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Body: string(body)}
		var parsed struct {
			Errors []ErrorDetail `json:"errors"`
		}
		if json.Unmarshal(body, &parsed) == nil {
			apiErr.Errors = parsed.Errors
		}
		return nil, apiErr
	}
	return body, nil
}
