// Package endpoint talks to the self-hosted inference server with
// bounded retries and a background health monitor.
package endpoint

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/lexos-ai/lexroute/pkg/adapter"
)

// ErrUpstreamUnavailable means every retry against the self-hosted
// endpoint failed and no cloud failover is configured.
var ErrUpstreamUnavailable = errors.New("self-hosted endpoint unavailable")

// Config describes one self-hosted endpoint.
type Config struct {
	BaseURL         string
	MaxRetries      int           // attempts per call, default 3
	Timeout         time.Duration // per-attempt timeout, default 30s
	AutoFailover    bool
	FallbackToCloud bool
	HealthInterval  time.Duration // default 30s
	ProbeTimeout    time.Duration // default 5s
}

func (c *Config) applyDefaults() {
	if c.MaxRetries <= 0 {
		c.MaxRetries = 3
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	if c.HealthInterval <= 0 {
		c.HealthInterval = 30 * time.Second
	}
	if c.ProbeTimeout <= 0 {
		c.ProbeTimeout = 5 * time.Second
	}
}

// Client calls the self-hosted endpoint with retry, backoff and an
// optional cloud-fallback signal on exhaustion.
type Client struct {
	cfg        Config
	httpClient *http.Client
	// sleep is swapped out in tests to avoid real backoff waits.
	sleep func(ctx context.Context, d time.Duration) error
	debug bool
}

// NewClient creates an endpoint client.
func NewClient(cfg Config) *Client {
	cfg.applyDefaults()
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{},
		sleep:      sleepWithContext,
	}
}

// GenerateRequest is the wire format the inference server accepts.
type GenerateRequest struct {
	Prompt    string `json:"prompt"`
	Model     string `json:"model"`
	MaxTokens int    `json:"max_tokens,omitempty"`
}

// GenerateResponse is the inference server's reply.
type GenerateResponse struct {
	Text       string `json:"text"`
	TokensUsed int    `json:"tokens_used"`
	Model      string `json:"model"`
	GPUUsed    bool   `json:"gpu_used"`
}

// Call posts the payload to the endpoint path, retrying with exponential
// backoff. The boolean result is the cloud-fallback signal: true means
// the call produced no result and the caller should re-route to a cloud
// provider. It is only ever true when failover is configured; otherwise
// exhaustion surfaces as ErrUpstreamUnavailable.
func (c *Client) Call(ctx context.Context, path string, payload any) ([]byte, bool, error) {
	var lastErr error

	for attempt := 1; attempt <= c.cfg.MaxRetries; attempt++ {
		body, err := c.do(ctx, path, payload)
		if err == nil {
			return body, false, nil
		}
		lastErr = err
		if c.debug {
			log.Printf("[endpoint] attempt %d/%d failed: %v", attempt, c.cfg.MaxRetries, err)
		}

		if attempt < c.cfg.MaxRetries {
			backoff := time.Duration(1<<uint(attempt)) * time.Second
			if err := c.sleep(ctx, backoff); err != nil {
				return nil, false, err
			}
		}
	}

	if c.cfg.AutoFailover && c.cfg.FallbackToCloud {
		if c.debug {
			log.Printf("[endpoint] retries exhausted, signalling cloud fallback")
		}
		return nil, true, nil
	}
	return nil, false, fmt.Errorf("%w after %d attempts: %v", ErrUpstreamUnavailable, c.cfg.MaxRetries, lastErr)
}

// Generate runs a text generation call against the endpoint.
func (c *Client) Generate(ctx context.Context, model, prompt string) (*GenerateResponse, bool, error) {
	body, useCloud, err := c.Call(ctx, "/generate", GenerateRequest{
		Prompt:    prompt,
		Model:     model,
		MaxTokens: 4096,
	})
	if err != nil || useCloud {
		return nil, useCloud, err
	}

	var resp GenerateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, false, fmt.Errorf("parse generate response: %w", err)
	}
	return &resp, false, nil
}

// do issues one attempt under the per-attempt timeout.
func (c *Client) do(ctx context.Context, path string, payload any) ([]byte, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	var req *http.Request
	var err error
	if payload == nil {
		req, err = http.NewRequestWithContext(attemptCtx, http.MethodGet, c.cfg.BaseURL+path, nil)
	} else {
		var jsonBody []byte
		jsonBody, err = json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal payload: %w", err)
		}
		req, err = http.NewRequestWithContext(attemptCtx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(jsonBody))
		if req != nil {
			req.Header.Set("Content-Type", "application/json")
		}
	}
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &adapter.AdapterError{
			Status: resp.StatusCode,
			Err:    fmt.Errorf("endpoint returned status %d: %s", resp.StatusCode, string(body)),
		}
	}
	return body, nil
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
