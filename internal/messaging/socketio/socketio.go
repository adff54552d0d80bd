// Package socketio delivers configuration messages over a Socket.IO
// connection to the broker the execution nodes listen on.
//
// Each message is emitted as a single event whose payload names the target
// node set and carries the JSON form of the message.
package socketio

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/specialistvlad/appgrid/internal/ctxlog"
	"github.com/specialistvlad/appgrid/internal/messaging"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// DefaultEvent is the event name used when Config.Event is empty.
const DefaultEvent = "configure"

// ErrNotConnected is returned by Send after the connection was lost or closed.
var ErrNotConnected = errors.New("socket.io client is not connected")

// Config describes the broker connection.
type Config struct {
	URL                string
	Namespace          string
	Event              string
	InsecureSkipVerify bool
	// ConnectTimeout bounds Dial. Defaults to 15s.
	ConnectTimeout time.Duration
}

// Messenger is a messaging.Messenger backed by a Socket.IO client.
type Messenger struct {
	event string

	mu         sync.Mutex
	emit       func(event string, args ...any)
	connected  func() bool
	disconnect func()
}

var _ messaging.Messenger = (*Messenger)(nil)

// Dial connects to the broker and waits until the connection is established,
// ctx is cancelled or the connect timeout expires.
func Dial(ctx context.Context, cfg Config) (*Messenger, error) {
	logger := ctxlog.FromContext(ctx).With("transport", "socketio", "url", cfg.URL)
	logger.Info("Connecting to broker...")

	parsedURL, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("broker URL %q must be absolute", cfg.URL)
	}

	opts := socket.DefaultOptions()
	if parsedURL.Path != "" {
		opts.SetPath(parsedURL.Path)
	}
	if cfg.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	namespace := cfg.Namespace
	if namespace == "" {
		namespace = "/"
	}
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	connectChan := make(chan error, 1)

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(namespace, opts)

	io.Once(types.EventName("connect"), func(...any) {
		logger.Info("Connected to broker", "sid", io.Id())
		connectChan <- nil
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		err := connectError(errs)
		logger.Debug("Broker connection attempt failed", "error", err)
		connectChan <- err
	})

	io.Connect()

	select {
	case err := <-connectChan:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("context cancelled while waiting for socket.io connection: %w", ctx.Err())
	case <-time.After(timeout):
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %s waiting for socket.io connection", timeout)
	}

	return newMessenger(cfg.Event,
		func(event string, args ...any) { io.Emit(event, args...) },
		func() bool { return io.Connected() },
		func() { io.Disconnect() },
	), nil
}

func newMessenger(event string, emit func(string, ...any), connected func() bool, disconnect func()) *Messenger {
	if event == "" {
		event = DefaultEvent
	}
	return &Messenger{event: event, emit: emit, connected: connected, disconnect: disconnect}
}

// Send implements messaging.Messenger. It returns once the event is queued on
// the connection; delivery is not acknowledged.
func (m *Messenger) Send(ctx context.Context, nodeSet messaging.NodeSet, msg *messaging.Message) error {
	payload, err := Payload(nodeSet, msg)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.emit == nil || !m.connected() {
		return ErrNotConnected
	}
	m.emit(m.event, payload)
	ctxlog.FromContext(ctx).Debug("Emitted configuration message.", "event", m.event, "node_set", string(nodeSet), "message_id", msg.ID)
	return nil
}

// Close disconnects from the broker. Sends after Close fail with
// ErrNotConnected.
func (m *Messenger) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.emit == nil {
		return nil
	}
	m.disconnect()
	m.emit = nil
	return nil
}

// Payload builds the event payload for msg: the node set address next to the
// JSON object form of the message.
func Payload(nodeSet messaging.NodeSet, msg *messaging.Message) (map[string]any, error) {
	raw, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode message %s: %w", msg.ID, err)
	}
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("failed to encode message %s: %w", msg.ID, err)
	}
	return map[string]any{
		"node_set": string(nodeSet),
		"message":  body,
	}, nil
}

// connectError turns the arguments of a connect_error event into an error.
func connectError(args []any) error {
	if len(args) == 0 || args[0] == nil {
		return errors.New("connection refused by broker")
	}
	if err, ok := args[0].(error); ok {
		return err
	}
	return fmt.Errorf("%v", args[0])
}
