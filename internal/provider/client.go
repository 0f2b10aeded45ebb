// Package provider fetches jokes and facts from public HTTP APIs.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/ludbot/internal/circuitbreaker"
	"github.com/yourusername/ludbot/internal/config"
	boterrors "github.com/yourusername/ludbot/internal/errors"
	"github.com/yourusername/ludbot/internal/output"
)

const maxResponseBytes = 1 << 20

// Joke is a two-part joke
type Joke struct {
	Setup     string `json:"setup"`
	Punchline string `json:"punchline"`
}

type factEntry struct {
	Fact string `json:"fact"`
}

// JokeProvider fetches jokes
type JokeProvider interface {
	FetchJoke(ctx context.Context) (Joke, error)
}

// FactProvider fetches facts
type FactProvider interface {
	FetchFact(ctx context.Context) (string, error)
}

// Client talks to the joke and fact APIs. Each API has its own circuit
// breaker so one failing service does not block the other.
type Client struct {
	jokeURL    string
	factURL    string
	factAPIKey string
	userAgent  string
	timeout    time.Duration
	httpClient *http.Client
	logger     output.Logger

	jokeBreaker *circuitbreaker.CircuitBreaker
	factBreaker *circuitbreaker.CircuitBreaker
}

// NewClient creates a provider client from the providers configuration
func NewClient(cfg config.ProvidersConfig, userAgent string, logger output.Logger) *Client {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		MaxIdleConnsPerHost:   2,
		IdleConnTimeout:       90 * time.Second,
		ResponseHeaderTimeout: cfg.GetTimeoutDuration(),
	}

	c := &Client{
		jokeURL:    cfg.JokeURL,
		factURL:    cfg.FactURL,
		factAPIKey: cfg.FactAPIKey,
		userAgent:  userAgent,
		timeout:    cfg.GetTimeoutDuration(),
		httpClient: &http.Client{Transport: transport},
		logger:     logger,
	}

	c.jokeBreaker = c.newBreaker("joke", cfg)
	c.factBreaker = c.newBreaker("fact", cfg)
	return c
}

func (c *Client) newBreaker(name string, cfg config.ProvidersConfig) *circuitbreaker.CircuitBreaker {
	return circuitbreaker.New(circuitbreaker.Config{
		Threshold: cfg.CircuitBreakerThreshold,
		Timeout:   cfg.GetCircuitBreakerTimeoutDuration(),
		OnStateChange: func(from, to circuitbreaker.State) {
			c.logger.Warning("%s provider circuit %s -> %s", name, from, to)
		},
	})
}

// FetchJoke returns a random joke. Failures are ProviderErrors.
func (c *Client) FetchJoke(ctx context.Context) (Joke, error) {
	var jokes []Joke

	err := c.jokeBreaker.Call(func() error {
		if err := c.getJSON(ctx, c.jokeURL, nil, &jokes); err != nil {
			return err
		}
		if len(jokes) == 0 || jokes[0].Setup == "" || jokes[0].Punchline == "" {
			return fmt.Errorf("unexpected joke response shape")
		}
		return nil
	})
	if err != nil {
		return Joke{}, boterrors.NewProviderError("joke", err)
	}

	return jokes[0], nil
}

// FetchFact returns a random fact. Failures are ProviderErrors.
func (c *Client) FetchFact(ctx context.Context) (string, error) {
	var facts []factEntry

	headers := map[string]string{}
	if c.factAPIKey != "" {
		headers["X-Api-Key"] = c.factAPIKey
	}

	err := c.factBreaker.Call(func() error {
		if err := c.getJSON(ctx, c.factURL, headers, &facts); err != nil {
			return err
		}
		if len(facts) == 0 || facts[0].Fact == "" {
			return fmt.Errorf("unexpected fact response shape")
		}
		return nil
	})
	if err != nil {
		return "", boterrors.NewProviderError("fact", err)
	}

	return facts[0].Fact, nil
}

// getJSON performs a GET and decodes the body into out, which must point to
// a slice. A single JSON object is accepted as a one-element list.
func (c *Client) getJSON(ctx context.Context, url string, headers map[string]string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}

	body = bytes.TrimSpace(body)
	if len(body) > 0 && body[0] == '{' {
		body = append(append([]byte{'['}, body...), ']')
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
