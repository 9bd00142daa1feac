package weatherapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yanqian/weather-explorer/internal/domain/weather"
)

const (
	defaultBaseURL = "https://api.weatherapi.com/v1"
	maxBodyBytes   = 1 << 20
)

// Client calls the weatherapi.com v1 REST API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient builds an API client. A zero timeout falls back to 10 seconds.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	url := strings.TrimSpace(baseURL)
	if url == "" {
		url = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(url, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Fetch performs the GET for q and returns the decoded JSON body. A non-2xx response whose body
// carries an "error" object is returned as a payload so the provider message reaches the user.
func (c *Client) Fetch(ctx context.Context, q weather.Query) (any, error) {
	endpoint, err := weather.BuildURL(c.baseURL, q, c.apiKey)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build weather request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weather request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read weather response: %w", err)
	}
	if len(body) > maxBodyBytes {
		return nil, fmt.Errorf("weather response exceeds %d bytes", maxBodyBytes)
	}

	payload, decodeErr := decode(body)
	if resp.StatusCode >= 300 {
		if decodeErr == nil && hasErrorObject(payload) {
			return payload, nil
		}
		return nil, fmt.Errorf("weather request error: status=%d body=%s", resp.StatusCode, snippet(body))
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("decode weather response: %w", decodeErr)
	}
	return payload, nil
}

func decode(body []byte) (any, error) {
	decoder := json.NewDecoder(bytes.NewReader(body))
	var payload any
	if err := decoder.Decode(&payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func hasErrorObject(payload any) bool {
	obj, ok := payload.(map[string]any)
	if !ok {
		return false
	}
	_, ok = obj["error"]
	return ok
}

func snippet(body []byte) string {
	const limit = 512
	if len(body) > limit {
		return string(body[:limit]) + "..."
	}
	return string(body)
}

var _ weather.Provider = (*Client)(nil)
