// Package realtime maintains the websocket subscription to the platform's
// change feed. The platform speaks the phoenix channel protocol: clients join
// a channel per table subscription and receive postgres change records as
// they commit.
package realtime

import (
	"context"
	"math/rand"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Status of the change-feed link.
type Status string

const (
	StatusConnecting   Status = "connecting"
	StatusOpen         Status = "open"
	StatusReconnecting Status = "reconnecting"
	StatusClosed       Status = "closed"
)

// StatusInfo is a point-in-time snapshot of the link, served verbatim from
// the status endpoint.
type StatusInfo struct {
	State     Status    `json:"state"`
	Since     time.Time `json:"since"`
	Attempts  int       `json:"attempts"`
	LastError string    `json:"last_error,omitempty"`
}

// Config for the change-feed client. Zero values fall back to the defaults
// below.
type Config struct {
	URL               string
	APIKey            string
	HeartbeatInterval time.Duration
	MaxBackoff        time.Duration
	Logger            *zap.Logger
}

const (
	defaultHeartbeatInterval = 30 * time.Second
	defaultMaxBackoff        = 30 * time.Second
	handshakeTimeout         = 10 * time.Second
	writeTimeout             = 10 * time.Second
	joinTimeout              = 10 * time.Second
	maxBackoffShift          = 5
	maxJitter                = 250 * time.Millisecond
)

// Client owns one websocket connection to the platform and redials it until
// closed. The sink runs on the read goroutine, so it must not block.
type Client struct {
	cfg  Config
	subs []Subscription
	sink func(ChangeEvent)

	mu       sync.Mutex
	status   StatusInfo
	attempts int

	closeOnce sync.Once
	closed    chan struct{}
}

func New(cfg Config, subs []Subscription, sink func(ChangeEvent)) *Client {
	if cfg.HeartbeatInterval <= 0 {
		cfg.HeartbeatInterval = defaultHeartbeatInterval
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = defaultMaxBackoff
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Client{
		cfg:    cfg,
		subs:   subs,
		sink:   sink,
		status: StatusInfo{State: StatusConnecting, Since: time.Now()},
		closed: make(chan struct{}),
	}
}

// Run drives the connection loop until ctx is done or Close is called. Every
// stream failure transitions the client to reconnecting and redials after a
// capped, jittered backoff. Close makes Run return nil; a done ctx returns
// ctx.Err().
func (c *Client) Run(ctx context.Context) error {
	for {
		if done, err := c.finished(ctx); done {
			return err
		}

		c.transition(StatusConnecting, nil)
		streamErr := c.stream(ctx)

		if done, err := c.finished(ctx); done {
			return err
		}

		delay := c.nextBackoff()
		c.transition(StatusReconnecting, streamErr)
		c.cfg.Logger.Warn("realtime stream interrupted",
			zap.Error(streamErr),
			zap.Duration("retry_in", delay),
			zap.Int("attempts", c.Status().Attempts),
		)

		select {
		case <-ctx.Done():
			c.transition(StatusClosed, ctx.Err())
			return ctx.Err()
		case <-c.closed:
			c.transition(StatusClosed, nil)
			return nil
		case <-time.After(delay):
		}
	}
}

// finished reports whether the loop should stop, recording the final state.
func (c *Client) finished(ctx context.Context) (bool, error) {
	select {
	case <-ctx.Done():
		c.transition(StatusClosed, ctx.Err())
		return true, ctx.Err()
	case <-c.closed:
		c.transition(StatusClosed, nil)
		return true, nil
	default:
		return false, nil
	}
}

// Status returns a snapshot of the link state.
func (c *Client) Status() StatusInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Close stops the connection loop. Safe to call more than once.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		close(c.closed)
	})
	return nil
}

// stream runs a single connection lifecycle: dial, join every channel, then
// pump heartbeats and change records until the connection drops.
func (c *Client) stream(ctx context.Context) error {
	conn, err := c.dial(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := c.join(conn); err != nil {
		return err
	}

	c.resetBackoff()
	c.transition(StatusOpen, nil)
	c.cfg.Logger.Info("realtime stream established", zap.Int("subscriptions", len(c.subs)))

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
		case <-c.closed:
		case <-done:
			return
		}
		conn.Close()
	}()
	go c.heartbeat(conn, done)

	return c.readLoop(conn)
}

func (c *Client) dial(ctx context.Context) (*websocket.Conn, error) {
	u, err := url.Parse(c.cfg.URL)
	if err != nil {
		return nil, errors.Wrap(err, "parse realtime url")
	}
	q := u.Query()
	q.Set("apikey", c.cfg.APIKey)
	q.Set("vsn", protocolVersion)
	u.RawQuery = q.Encode()

	dialer := websocket.Dialer{HandshakeTimeout: handshakeTimeout}
	conn, resp, err := dialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		if resp != nil {
			return nil, errors.Wrapf(err, "realtime handshake rejected with %s", resp.Status)
		}
		return nil, errors.Wrap(err, "dial realtime")
	}
	return conn, nil
}

// join subscribes every channel and waits for the matching acks. Join refs
// are 1..len(subs); heartbeat refs continue past them.
func (c *Client) join(conn *websocket.Conn) error {
	pending := make(map[string]bool, len(c.subs))
	for i, sub := range c.subs {
		ref := joinRef(i)
		pending[ref] = true
		msg := outboundMessage{
			Topic:   sub.topic(),
			Event:   eventJoin,
			Payload: joinPayload{Config: channelConfig{PostgresChanges: []Subscription{sub}}},
			Ref:     ref,
		}
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteJSON(msg); err != nil {
			return errors.Wrapf(err, "join channel %s", sub.topic())
		}
	}

	conn.SetReadDeadline(time.Now().Add(joinTimeout))
	for len(pending) > 0 {
		var in inboundMessage
		if err := conn.ReadJSON(&in); err != nil {
			return errors.Wrap(err, "await join ack")
		}
		if in.Event != eventReply || in.Ref == nil || !pending[*in.Ref] {
			continue
		}
		reply, err := in.reply()
		if err != nil {
			return err
		}
		if reply.Status != replyStatusOK {
			return errors.Errorf("channel %s join rejected: %s", in.Topic, reply.Status)
		}
		delete(pending, *in.Ref)
	}
	return nil
}

func (c *Client) heartbeat(conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(c.cfg.HeartbeatInterval)
	defer ticker.Stop()

	ref := len(c.subs)
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			ref++
			msg := outboundMessage{
				Topic:   heartbeatTopic,
				Event:   eventHeartbeat,
				Payload: struct{}{},
				Ref:     refString(ref),
			}
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteJSON(msg); err != nil {
				conn.Close()
				return
			}
		}
	}
}

func (c *Client) readLoop(conn *websocket.Conn) error {
	// Heartbeat acks keep traffic flowing at least once per interval, so a
	// silent connection twice that long is dead.
	readTimeout := 2 * c.cfg.HeartbeatInterval

	for {
		conn.SetReadDeadline(time.Now().Add(readTimeout))
		var in inboundMessage
		if err := conn.ReadJSON(&in); err != nil {
			return errors.Wrap(err, "read realtime stream")
		}

		switch in.Event {
		case eventChanges:
			c.dispatch(in)
		case eventClose, eventError:
			return errors.Errorf("channel %s closed by server", in.Topic)
		default:
			// phx_reply, system and presence chatter.
		}
	}
}

func (c *Client) dispatch(in inboundMessage) {
	event, err := in.changeEvent()
	if err != nil {
		c.cfg.Logger.Warn("undecodable change record",
			zap.String("topic", in.Topic),
			zap.Error(err),
		)
		return
	}
	if c.sink != nil {
		c.sink(event)
	}
}

func (c *Client) transition(state Status, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status.State != state {
		c.status.Since = time.Now()
	}
	c.status.State = state
	if err != nil {
		c.status.LastError = err.Error()
	}
	if state == StatusOpen {
		c.status.LastError = ""
	}
	c.status.Attempts = c.attempts
}

func (c *Client) nextBackoff() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	shift := c.attempts
	if shift > maxBackoffShift {
		shift = maxBackoffShift
	}
	delay := time.Second << uint(shift)
	if delay > c.cfg.MaxBackoff {
		delay = c.cfg.MaxBackoff
	}
	c.attempts++
	return delay + time.Duration(rand.Int63n(int64(maxJitter)))
}

func (c *Client) resetBackoff() {
	c.mu.Lock()
	c.attempts = 0
	c.mu.Unlock()
}
