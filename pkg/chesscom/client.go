package chesscom

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"chesskit/pkg/config"
	errs "chesskit/pkg/errors"
	"chesskit/pkg/logger"
	"chesskit/pkg/models"
	"chesskit/pkg/retry"
)

// HTTPClient sends a single HTTP request
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to the public chess.com API
type Client struct {
	httpClient HTTPClient
	headers    map[string]string
	baseURL    string
	retry      *retry.Config
	logger     logger.Logger
}

// Option customizes a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying transport
func WithHTTPClient(h HTTPClient) Option {
	return func(c *Client) { c.httpClient = h }
}

// WithRetry replaces the retry policy
func WithRetry(cfg *retry.Config) Option {
	return func(c *Client) { c.retry = cfg }
}

// NewClient creates a client from the api configuration
func NewClient(cfg config.APIConfig, log logger.Logger, opts ...Option) *Client {
	if log == nil {
		log = logger.GetLogger()
	}

	base := cfg.BaseURL
	if base == "" {
		base = BaseURL
	}

	backoff := newBackoff(cfg)

	c := &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		headers: map[string]string{
			"User-Agent": cfg.UserAgent,
			"Accept":     "application/json",
		},
		baseURL: base,
		retry: &retry.Config{
			MaxAttempts: cfg.MaxRetries + 1,
			Backoff:     backoff,
			RetryIf:     retry.DefaultRetryIf,
			Logger:      log,
		},
		logger: log,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// newBackoff picks the retry pause strategy; unknown values fall back to exponential
func newBackoff(cfg config.APIConfig) retry.BackoffStrategy {
	if cfg.RetryBackoff == "constant" {
		return &retry.ConstantBackoff{Delay: cfg.RetryDelay}
	}

	backoff := retry.DefaultExponentialBackoff()
	if cfg.RetryDelay > 0 {
		backoff.BaseDelay = cfg.RetryDelay
	}
	return backoff
}

// SetHeader sets a custom header for the client
func (c *Client) SetHeader(key, value string) {
	c.headers[key] = value
}

// doRequest performs an HTTP request with the configured headers
func (c *Client) doRequest(req *http.Request) (*http.Response, error) {
	for key, value := range c.headers {
		if value != "" {
			req.Header.Set(key, value)
		}
	}

	start := time.Now()
	c.logger.DebugWithFields("sending HTTP request", map[string]interface{}{
		"method": req.Method,
		"url":    req.URL.String(),
	})

	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logger.ErrorWithFields("HTTP request failed", map[string]interface{}{
			"method":   req.Method,
			"url":      req.URL.String(),
			"error":    err.Error(),
			"duration": duration,
		})
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, errs.New(errs.ErrorTypeNetwork, 0, "network error: %v", err)
	}

	c.logger.DebugWithFields("HTTP request completed", map[string]interface{}{
		"method":   req.Method,
		"url":      req.URL.String(),
		"status":   resp.StatusCode,
		"duration": duration,
	})

	return resp, nil
}

// get fetches url and returns the body of a 2xx response, retrying transient failures
func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	return retry.DoWithResult(ctx, func(ctx context.Context) ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, errs.New(errs.ErrorTypeInvalidInput, 0, "failed to create request: %v", err)
		}

		resp, err := c.doRequest(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if err := c.checkResponseStatus(resp); err != nil {
			return nil, err
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, errs.New(errs.ErrorTypeNetwork, resp.StatusCode, "failed to read response body: %v", err)
		}
		return body, nil
	}, c.retry)
}

// GetJSON performs a GET request and decodes the JSON response into target
func (c *Client) GetJSON(ctx context.Context, url string, target interface{}) error {
	body, err := c.get(ctx, url)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, target); err != nil {
		bodyPreview := string(body)
		if len(bodyPreview) > 200 {
			bodyPreview = bodyPreview[:200] + "..."
		}

		c.logger.ErrorWithFields("failed to parse JSON response", map[string]interface{}{
			"url":          url,
			"error":        err.Error(),
			"body_preview": bodyPreview,
		})
		return errs.New(errs.ErrorTypeParsing, 0, "failed to parse JSON: %v", err)
	}

	return nil
}

// checkResponseStatus maps a response status to a typed error
func (c *Client) checkResponseStatus(resp *http.Response) error {
	apiErr := errs.FromStatus(resp.StatusCode, resp.Request.URL.String())
	if apiErr == nil {
		return nil
	}

	fields := map[string]interface{}{
		"status": resp.StatusCode,
		"url":    resp.Request.URL.String(),
	}
	switch apiErr.Type {
	case errs.ErrorTypeNotFound, errs.ErrorTypePrivate, errs.ErrorTypeRateLimit:
		c.logger.WarnWithFields(string(apiErr.Type), fields)
	default:
		c.logger.ErrorWithFields(string(apiErr.Type), fields)
	}
	return apiErr
}

// FetchProfile looks up a player. It fails with a not_found error for unknown
// players and a private error when the profile is not public.
func (c *Client) FetchProfile(ctx context.Context, username string) (*models.Profile, error) {
	if username == "" {
		return nil, errs.New(errs.ErrorTypeInvalidInput, 0, "username is required")
	}

	var profile models.Profile
	if err := c.GetJSON(ctx, GetProfileURL(c.baseURL, username), &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// ListArchives returns the monthly archive URLs of a player in API order
func (c *Client) ListArchives(ctx context.Context, username string) ([]string, error) {
	var resp models.ArchivesResponse
	if err := c.GetJSON(ctx, GetArchivesURL(c.baseURL, username), &resp); err != nil {
		return nil, fmt.Errorf("failed to list archives: %w", err)
	}
	return resp.Archives, nil
}

// FetchMonth returns the games stored in one monthly archive
func (c *Client) FetchMonth(ctx context.Context, archiveURL string) ([]models.Game, error) {
	var resp models.MonthResponse
	if err := c.GetJSON(ctx, archiveURL, &resp); err != nil {
		return nil, err
	}
	return resp.Games, nil
}
