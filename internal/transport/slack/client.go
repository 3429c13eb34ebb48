package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"syscall"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/songsearch/internal/domain"
	"github.com/kailas-cloud/songsearch/internal/domain/details"
	"github.com/kailas-cloud/songsearch/internal/domain/function"
	"github.com/kailas-cloud/songsearch/internal/metrics"
	"github.com/kailas-cloud/songsearch/internal/version"
)

// Web API methods used by the app.
const (
	MethodCompleteSuccess = "functions.completeSuccess"
	MethodCompleteError   = "functions.completeError"
	MethodPresentDetails  = "entity.presentDetails"
	MethodConnectionsOpen = "apps.connections.open"
	MethodAuthTest        = "auth.test"
)

// maxResponseBytes caps how much of a Web API response is read.
const maxResponseBytes = 1 << 20

// Config holds the Web API client settings.
// RetryMax 0 disables retries.
type Config struct {
	BaseURL  string
	BotToken string
	AppToken string
	Timeout  time.Duration
	RetryMax int
	Logger   *zap.Logger
}

// Client calls the platform Web API over HTTPS with retries on 429 and 5xx.
// Function completions are not idempotent and only retry when the platform
// cannot have seen them (429, connection refused).
type Client struct {
	http     *http.Client
	complete *http.Client
	baseURL  string
	botToken string
	appToken string
	logger   *zap.Logger
}

// NewClient creates a Web API client.
func NewClient(cfg *Config) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	retryClient := newRetryClient(cfg, logger)
	retryClient.RetryWaitMax = 5 * time.Second

	completeClient := newRetryClient(cfg, logger)
	completeClient.RetryWaitMax = time.Second
	completeClient.CheckRetry = completionRetryPolicy

	return &Client{
		http:     retryClient.StandardClient(),
		complete: completeClient.StandardClient(),
		baseURL:  cfg.BaseURL,
		botToken: cfg.BotToken,
		appToken: cfg.AppToken,
		logger:   logger,
	}
}

func newRetryClient(cfg *Config, logger *zap.Logger) *retryablehttp.Client {
	c := retryablehttp.NewClient()
	c.RetryMax = max(cfg.RetryMax, 0)
	c.RetryWaitMin = 200 * time.Millisecond
	c.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	c.Logger = leveledLogger{s: logger.Named("slack.http").Sugar()}
	return c
}

// completionRetryPolicy retries only requests the platform rejected unprocessed:
// rate limiting and refused connections. A 5xx or timeout may follow a recorded
// completion, so it is not repeated.
func completionRetryPolicy(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if err != nil {
		return errors.Is(err, syscall.ECONNREFUSED), nil
	}
	return resp.StatusCode == http.StatusTooManyRequests, nil
}

// response is the envelope shared by every Web API reply.
type response struct {
	OK      bool   `json:"ok"`
	Error   string `json:"error,omitempty"`
	Warning string `json:"warning,omitempty"`
}

func (r *response) envelope() *response { return r }

type enveloped interface{ envelope() *response }

// CompleteSuccess reports a successful function execution with its outputs.
func (c *Client) CompleteSuccess(ctx context.Context, exec *function.Execution, outputs function.Outputs) error {
	body := map[string]any{
		"function_execution_id": exec.FunctionExecutionID,
		"outputs":               outputs,
	}
	return c.call(ctx, c.complete, MethodCompleteSuccess, c.executionToken(exec), body, &response{})
}

// CompleteError reports a failed function execution with a human-readable message.
func (c *Client) CompleteError(ctx context.Context, exec *function.Execution, message string) error {
	body := map[string]any{
		"function_execution_id": exec.FunctionExecutionID,
		"error":                 message,
	}
	return c.call(ctx, c.complete, MethodCompleteError, c.executionToken(exec), body, &response{})
}

// PresentDetails publishes entity details for a trigger.
func (c *Client) PresentDetails(ctx context.Context, payload *details.Payload) error {
	return c.call(ctx, c.http, MethodPresentDetails, c.botToken, payload, &response{})
}

type connectionsOpenResponse struct {
	response
	URL string `json:"url"`
}

// OpenConnection requests a socket mode WebSocket URL using the app-level token.
func (c *Client) OpenConnection(ctx context.Context) (string, error) {
	var resp connectionsOpenResponse
	if err := c.call(ctx, c.http, MethodConnectionsOpen, c.appToken, nil, &resp); err != nil {
		return "", err
	}
	if resp.URL == "" {
		return "", fmt.Errorf("%s returned no url: %w", MethodConnectionsOpen, domain.ErrPlatformAPI)
	}
	return resp.URL, nil
}

// AuthIdentity is the bot identity reported by auth.test.
type AuthIdentity struct {
	URL    string `json:"url"`
	Team   string `json:"team"`
	User   string `json:"user"`
	TeamID string `json:"team_id"`
	UserID string `json:"user_id"`
	BotID  string `json:"bot_id"`
}

type authTestResponse struct {
	response
	AuthIdentity
}

// AuthTest verifies the bot token.
func (c *Client) AuthTest(ctx context.Context) (AuthIdentity, error) {
	var resp authTestResponse
	if err := c.call(ctx, c.http, MethodAuthTest, c.botToken, nil, &resp); err != nil {
		return AuthIdentity{}, err
	}
	return resp.AuthIdentity, nil
}

// HealthCheck implements the platform health probe.
func (c *Client) HealthCheck(ctx context.Context) error {
	if _, err := c.AuthTest(ctx); err != nil {
		return fmt.Errorf("auth test: %w", err)
	}
	return nil
}

// executionToken prefers the short-lived token delivered with the execution.
func (c *Client) executionToken(exec *function.Execution) string {
	if exec.BotAccessToken != "" {
		return exec.BotAccessToken
	}
	return c.botToken
}

// call POSTs a JSON body to a Web API method through hc and decodes the reply into out.
// Transport metrics are recorded per call.
func (c *Client) call(ctx context.Context, hc *http.Client, method, token string, body any, out enveloped) error {
	start := time.Now()
	err := c.do(ctx, hc, method, token, body, out)
	metrics.PlatformRequestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())

	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.PlatformRequestsTotal.WithLabelValues(method, status).Inc()

	if err != nil {
		c.logger.Debug("platform api call failed", zap.String("method", method), zap.Error(err))
	}
	return err
}

func (c *Client) do(ctx context.Context, hc *http.Client, method, token string, body any, out enveloped) error {
	var reader io.Reader = http.NoBody
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", method, err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+method, reader)
	if err != nil {
		return fmt.Errorf("build %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("User-Agent", "songsearch/"+version.Version)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %v: %w", method, err, domain.ErrPlatformAPI)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read %s response: %v: %w", method, err, domain.ErrPlatformAPI)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s returned HTTP %d: %w", method, resp.StatusCode, domain.ErrPlatformAPI)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s response: %v: %w", method, err, domain.ErrPlatformAPI)
	}

	env := out.envelope()
	if !env.OK {
		code := env.Error
		if code == "" {
			code = "unknown_error"
		}
		return domain.NewPlatformError(method, code)
	}
	if env.Warning != "" {
		c.logger.Debug("platform api warning", zap.String("method", method), zap.String("warning", env.Warning))
	}
	return nil
}

// leveledLogger adapts zap to retryablehttp's LeveledLogger.
type leveledLogger struct {
	s *zap.SugaredLogger
}

func (l leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, keysAndValues...)
}

func (l leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.s.Warnw(msg, keysAndValues...)
}
