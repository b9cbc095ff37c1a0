package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Config points at the external long-poll gateway holding client
// connections.
type Config struct {
	BaseURL       string        `env:"LONGPOLL_GATEWAY_URL" envDefault:"http://localhost:8085"` // BaseURL is the gateway clients connect to.
	AccessSecret  string        `env:"LONGPOLL_ACCESS_SECRET,required"`                         // AccessSecret authenticates token requests to the gateway.
	ClientTimeout time.Duration `env:"LONGPOLL_GATEWAY_TIMEOUT" envDefault:"5s"`                // ClientTimeout bounds a single token request.
}

// Client talks to the gateway's token endpoint. A token authorizes one
// client to park a long-poll connection on a channel; this core only
// fetches tokens, the gateway issues and validates them.
type Client struct {
	baseURL    string
	secret     string
	httpClient *http.Client
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client, mainly for tests.
func WithHTTPClient(c *http.Client) Option {
	return func(g *Client) {
		if c != nil {
			g.httpClient = c
		}
	}
}

// New creates a gateway client from config.
func New(cfg Config, opts ...Option) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, ErrEmptyBaseURL
	}
	if cfg.AccessSecret == "" {
		return nil, ErrEmptySecret
	}

	timeout := cfg.ClientTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		secret:     cfg.AccessSecret,
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ClientURL returns the gateway base URL for client connections.
func (c *Client) ClientURL() string {
	return c.baseURL
}

// GetToken fetches an access token for the channel. A transport failure, a
// non-2xx status or a response without a token is a hard error; no local
// fallback token is ever issued.
func (c *Client) GetToken(ctx context.Context, channelID string) (string, error) {
	if channelID == "" {
		return "", ErrEmptyChannelID
	}

	endpoint := fmt.Sprintf("%s/getAccessToken?%s", c.baseURL, url.Values{
		"channel_id": {channelID},
		"secret":     {c.secret},
	}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return "", errors.Join(ErrTokenRequestFailed, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errors.Join(ErrTokenRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: gateway responded with status %d", ErrTokenRequestFailed, resp.StatusCode)
	}

	var body struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", errors.Join(ErrMalformedResponse, err)
	}
	if body.Token == "" {
		return "", ErrTokenNotFound
	}
	return body.Token, nil
}
