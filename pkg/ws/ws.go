// Package ws is a transport that reaches the native host over a single
// WebSocket connection carrying JSON frames.
//
// Uplink frames are method calls:
//
//	{"id": "<uuid>", "method": "get_profile", "params": {...}, "result_type": "AdaptyProfile"}
//
// The host answers each call with a response frame holding the result
// envelope in data, or a transport error:
//
//	{"id": "<uuid>", "ok": true, "data": {"success": {...}}}
//	{"id": "<uuid>", "ok": false, "error": {"code": "unavailable", "message": "..."}}
//
// Native events arrive as push frames, and heartbeats are ignored:
//
//	{"event": "did_load_latest_profile", "payload": {...}}
//	{"heartbeat": true}
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/adaptyteam/adapty-sdk-go/internal/jsonutil"
	"github.com/adaptyteam/adapty-sdk-go/pkg/transport"
)

// ErrClosed is returned for calls made on, or pending when, the connection
// closes.
var ErrClosed = errors.New("ws: connection closed")

// pushBuffer is the number of push frames queued for listeners before the
// reader waits.
const pushBuffer = 256

// --- wire types ---

// Uplink is a method call sent to the host.
type Uplink struct {
	ID         string          `json:"id"`
	Method     string          `json:"method"`
	Params     json.RawMessage `json:"params"`
	ResultType string          `json:"result_type"`
}

// Response answers one Uplink by ID.
type Response struct {
	ID    string          `json:"id"`
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data,omitempty"`
	Error *Error          `json:"error,omitempty"`
}

// Push carries one native event.
type Push struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// Error is a transport-level failure reported by the host.
type Error struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Transient bool   `json:"transient"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("ws: host error %s: %s", e.Code, e.Message)
}

// frame is the union of every downlink frame.
type frame struct {
	Response
	Push
	Heartbeat bool `json:"heartbeat"`
}

// Client is a WebSocket bridge. It is safe for concurrent use.
type Client struct {
	conn *websocket.Conn
	hub  transport.Hub

	writeMu sync.Mutex

	mu      sync.Mutex
	pending map[string]chan Response
	closed  bool
	err     error

	pushes chan Push
	done   chan struct{}
}

// Dial opens a connection to url and starts reading frames.
func Dial(ctx context.Context, url string, header http.Header) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, header)
	if err != nil {
		return nil, fmt.Errorf("ws: dial %s: %w", url, err)
	}
	return NewClient(conn), nil
}

// NewClient wraps an established connection.
func NewClient(conn *websocket.Conn) *Client {
	c := &Client{
		conn:    conn,
		pending: make(map[string]chan Response),
		pushes:  make(chan Push, pushBuffer),
		done:    make(chan struct{}),
	}
	go c.readLoop()
	go c.dispatchLoop()
	return c
}

// Request sends one method call and waits for its response or ctx.
func (c *Client) Request(ctx context.Context, method, params, resultType string) (string, error) {
	if params == "" {
		params = "{}"
	}
	id := uuid.NewString()
	ch := make(chan Response, 1)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return "", ErrClosed
	}
	c.pending[id] = ch
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
	}()

	if err := c.writeJSON(Uplink{
		ID:         id,
		Method:     method,
		Params:     json.RawMessage(params),
		ResultType: resultType,
	}); err != nil {
		return "", fmt.Errorf("ws: send %s: %w", method, err)
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case resp, ok := <-ch:
		if !ok {
			return "", c.closeErr()
		}
		if !resp.Ok {
			if resp.Error != nil {
				return "", resp.Error
			}
			return "", &Error{Code: "unknown", Message: "request failed without error"}
		}
		return string(resp.Data), nil
	}
}

// AddEventListener registers cb for pushes of event.
func (c *Client) AddEventListener(event string, cb func(payload string)) transport.Subscription {
	return c.hub.Add(event, cb)
}

// RemoveAllEventListeners drops every listener.
func (c *Client) RemoveAllEventListeners() {
	c.hub.RemoveAll()
}

// Done is closed once the read loop exits.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Close sends a close frame and tears the connection down. Pending calls
// fail with ErrClosed.
func (c *Client) Close() error {
	c.writeMu.Lock()
	_ = c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	c.writeMu.Unlock()
	err := c.conn.Close()
	<-c.done
	return err
}

func (c *Client) writeJSON(v any) error {
	b, err := jsonutil.MarshalNoEscape(v)
	if err != nil {
		return err
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, b)
}

// readLoop owns the connection reads. It never runs listeners, so a
// listener may issue calls on the same client.
func (c *Client) readLoop() {
	defer close(c.done)
	defer close(c.pushes)
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			c.shutdown(err)
			return
		}

		var f frame
		if err := json.Unmarshal(data, &f); err != nil {
			zap.L().Warn("ws: dropping malformed frame", zap.Error(err))
			continue
		}

		switch {
		case f.Heartbeat:
		case f.Event != "":
			c.pushes <- f.Push
		case f.ID != "":
			c.mu.Lock()
			ch, ok := c.pending[f.ID]
			c.mu.Unlock()
			if !ok {
				zap.L().Debug("ws: response for unknown call", zap.String("id", f.ID))
				continue
			}
			select {
			case ch <- f.Response:
			default:
			}
		default:
			zap.L().Warn("ws: dropping unrecognized frame")
		}
	}
}

// dispatchLoop delivers queued pushes in arrival order until the reader
// exits.
func (c *Client) dispatchLoop() {
	for p := range c.pushes {
		c.hub.Emit(p.Event, string(p.Payload))
	}
}

func (c *Client) shutdown(err error) {
	if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		err = ErrClosed
	} else {
		err = fmt.Errorf("%w: %w", ErrClosed, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.err = err
	for id, ch := range c.pending {
		close(ch)
		delete(c.pending, id)
	}
}

func (c *Client) closeErr() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	return ErrClosed
}

var _ transport.Transport = (*Client)(nil)
