package socketmode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/kailas-cloud/songsearch/internal/domain"
	"github.com/kailas-cloud/songsearch/internal/metrics"
)

// Transport labels events delivered over socket mode.
const Transport = "socket"

// Envelope types sent by the platform.
const (
	EnvelopeHello      = "hello"
	EnvelopeDisconnect = "disconnect"
	EnvelopeEventsAPI  = "events_api"
)

const writeTimeout = 10 * time.Second

// errDisconnect marks a server-requested disconnect; the client reconnects.
var errDisconnect = errors.New("server requested disconnect")

// ConnectionOpener returns a fresh WebSocket URL for the app.
type ConnectionOpener interface {
	OpenConnection(ctx context.Context) (string, error)
}

// Dispatcher routes an inner event, calling ack exactly once.
type Dispatcher interface {
	Dispatch(ctx context.Context, transport string, raw json.RawMessage, ack func()) error
}

// envelope is one frame received over the socket.
type envelope struct {
	Type                   string          `json:"type"`
	EnvelopeID             string          `json:"envelope_id,omitempty"`
	Payload                json.RawMessage `json:"payload,omitempty"`
	AcceptsResponsePayload bool            `json:"accepts_response_payload,omitempty"`
	RetryAttempt           int             `json:"retry_attempt,omitempty"`
	RetryReason            string          `json:"retry_reason,omitempty"`
	Reason                 string          `json:"reason,omitempty"`
}

// eventsAPIPayload is the payload of an events_api envelope.
type eventsAPIPayload struct {
	Type    string          `json:"type"`
	EventID string          `json:"event_id,omitempty"`
	Event   json.RawMessage `json:"event"`
}

type ackFrame struct {
	EnvelopeID string `json:"envelope_id"`
}

// Client keeps a socket mode connection open, reconnecting with exponential
// backoff, and hands every events_api envelope to the dispatcher on its own goroutine.
type Client struct {
	opener     ConnectionOpener
	dispatcher Dispatcher
	dialer     *websocket.Dialer
	newBackOff func() backoff.BackOff
	logger     *zap.Logger
	inflight   sync.WaitGroup
}

// Option configures a Client.
type Option func(*Client)

// WithDialer overrides the WebSocket dialer.
func WithDialer(d *websocket.Dialer) Option {
	return func(c *Client) { c.dialer = d }
}

// WithBackOff overrides the reconnect backoff policy.
func WithBackOff(newBackOff func() backoff.BackOff) Option {
	return func(c *Client) { c.newBackOff = newBackOff }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a socket mode client.
func New(opener ConnectionOpener, dispatcher Dispatcher, opts ...Option) *Client {
	c := &Client{
		opener:     opener,
		dispatcher: dispatcher,
		dialer:     websocket.DefaultDialer,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = time.Second
			b.MaxInterval = 30 * time.Second
			return b
		},
		logger: zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Run connects and serves envelopes until ctx is cancelled, then waits for
// in-flight events. It returns an error only when the credentials are rejected.
func (c *Client) Run(ctx context.Context) error {
	defer c.inflight.Wait()

	for {
		conn, err := backoff.Retry(ctx, func() (*websocket.Conn, error) {
			return c.connect(ctx)
		},
			backoff.WithBackOff(c.newBackOff()),
			backoff.WithMaxElapsedTime(0),
			backoff.WithNotify(func(err error, wait time.Duration) {
				c.logger.Warn("socket mode connect failed, retrying",
					zap.Error(err), zap.Duration("retry_in", wait))
			}),
		)
		if ctx.Err() != nil {
			return nil
		}
		if err != nil {
			var perr *domain.PlatformError
			if errors.As(err, &perr) {
				return fmt.Errorf("socket mode: %w", err)
			}
			c.logger.Error("socket mode connect gave up, starting over", zap.Error(err))
			continue
		}

		err = c.serve(ctx, conn)
		if ctx.Err() != nil {
			return nil
		}
		c.logger.Info("socket mode connection closed, reconnecting", zap.Error(err))
	}
}

// connect opens a new connection. Credential errors are permanent.
func (c *Client) connect(ctx context.Context) (*websocket.Conn, error) {
	url, err := c.opener.OpenConnection(ctx)
	if err != nil {
		metrics.SocketConnectionsTotal.WithLabelValues("error").Inc()
		var perr *domain.PlatformError
		if errors.As(err, &perr) && fatalCode(perr.Code) {
			return nil, backoff.Permanent(err)
		}
		return nil, err
	}

	conn, resp, err := c.dialer.DialContext(ctx, url, nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		metrics.SocketConnectionsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("dial socket: %w", err)
	}

	metrics.SocketConnectionsTotal.WithLabelValues("success").Inc()
	return conn, nil
}

func fatalCode(code string) bool {
	switch code {
	case "invalid_auth", "not_authed", "account_inactive", "token_revoked", "not_allowed_token_type":
		return true
	}
	return false
}

// session serializes writes on one connection.
type session struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *session) ack(envelopeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	return s.conn.WriteJSON(ackFrame{EnvelopeID: envelopeID})
}

// serve reads envelopes until the connection fails, the server asks to disconnect,
// or ctx is cancelled.
func (c *Client) serve(ctx context.Context, conn *websocket.Conn) error {
	s := &session{conn: conn}
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
		case <-done:
		}
		_ = conn.Close()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("read: %w", err)
		}

		var env envelope
		if err := json.Unmarshal(data, &env); err != nil {
			c.logger.Warn("ignoring malformed envelope", zap.Error(err))
			continue
		}

		switch env.Type {
		case EnvelopeHello:
			c.logger.Info("socket mode connected")
		case EnvelopeDisconnect:
			return fmt.Errorf("%w: %s", errDisconnect, env.Reason)
		case EnvelopeEventsAPI:
			c.handleEvent(ctx, s, &env)
		default:
			if env.EnvelopeID != "" {
				c.ackOrLog(s, env.EnvelopeID)
			}
			c.logger.Debug("ignoring envelope", zap.String("type", env.Type))
		}
	}
}

// handleEvent dispatches an events_api envelope on its own goroutine.
// In-flight events outlive the connection and the run context.
func (c *Client) handleEvent(ctx context.Context, s *session, env *envelope) {
	var p eventsAPIPayload
	if err := json.Unmarshal(env.Payload, &p); err != nil {
		c.ackOrLog(s, env.EnvelopeID)
		c.logger.Warn("ignoring malformed events_api payload", zap.Error(err))
		return
	}

	log := c.logger.With(
		zap.String("envelope_id", env.EnvelopeID),
		zap.String("event_id", p.EventID),
		zap.Int("retry_attempt", env.RetryAttempt),
	)

	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()
		err := c.dispatcher.Dispatch(context.WithoutCancel(ctx), Transport, p.Event, func() {
			c.ackOrLog(s, env.EnvelopeID)
		})
		if err != nil {
			log.Warn("event dispatch failed", zap.Error(err))
		}
	}()
}

func (c *Client) ackOrLog(s *session, envelopeID string) {
	if err := s.ack(envelopeID); err != nil {
		c.logger.Warn("ack failed", zap.String("envelope_id", envelopeID), zap.Error(err))
	}
}
