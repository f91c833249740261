package host

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/adaptyteam/adapty-sdk-go/internal/jsonutil"
	"github.com/adaptyteam/adapty-sdk-go/pkg/transport"
	"github.com/adaptyteam/adapty-sdk-go/pkg/ws"
)

// WebSocket serves t to WebSocket bridge clients. Every connection receives
// all native events.
type WebSocket struct {
	t        transport.Transport
	upgrader websocket.Upgrader

	// Heartbeat is the interval of heartbeat frames. Zero disables them.
	Heartbeat time.Duration
}

// NewWebSocket returns a WebSocket handler over t.
func NewWebSocket(t transport.Transport) *WebSocket {
	return &WebSocket{
		t: t,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// session is one client connection. Writes are serialized.
type session struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *session) write(v any) {
	b, err := jsonutil.MarshalNoEscape(v)
	if err != nil {
		zap.L().Error("host: failed to encode frame", zap.Error(err))
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.conn.WriteMessage(websocket.TextMessage, b); err != nil {
		zap.L().Debug("host: write failed", zap.Error(err))
	}
}

// ServeHTTP upgrades the request and serves calls until the client leaves.
func (h *WebSocket) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		zap.L().Warn("host: upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	s := &session{conn: conn}
	log := zap.L().With(zap.String("remote", r.RemoteAddr))
	log.Info("client connected", zap.String("platform", r.Header.Get("X-Adapty-Platform")))

	subs := make([]transport.Subscription, 0, len(Events))
	for _, event := range Events {
		event := event
		subs = append(subs, h.t.AddEventListener(event, func(payload string) {
			s.write(ws.Push{Event: event, Payload: json.RawMessage(payload)})
		}))
	}
	defer func() {
		for _, sub := range subs {
			sub.Remove()
		}
	}()

	if h.Heartbeat > 0 {
		go h.heartbeat(ctx, s)
	}

	var wg sync.WaitGroup
	defer wg.Wait()
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			log.Info("client disconnected", zap.Error(err))
			return
		}
		var up ws.Uplink
		if err := json.Unmarshal(data, &up); err != nil || up.ID == "" {
			log.Warn("dropping malformed uplink", zap.Error(err))
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.write(h.call(ctx, up))
		}()
	}
}

func (h *WebSocket) call(ctx context.Context, up ws.Uplink) ws.Response {
	result, err := h.t.Request(ctx, up.Method, string(up.Params), up.ResultType)
	if err != nil {
		return ws.Response{ID: up.ID, Error: &ws.Error{
			Code:      "internal",
			Message:   err.Error(),
			Transient: ctx.Err() == nil,
		}}
	}
	return ws.Response{ID: up.ID, Ok: true, Data: json.RawMessage(result)}
}

func (h *WebSocket) heartbeat(ctx context.Context, s *session) {
	ticker := time.NewTicker(h.Heartbeat)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.write(map[string]bool{"heartbeat": true})
		}
	}
}

// HeartbeatResponse is the body of the health endpoint.
type HeartbeatResponse struct {
	Status    string `json:"status"`
	Activated bool   `json:"activated"`
	Timestamp int64  `json:"timestamp"`
}

// HeartbeatHandler reports host health. The activation state is read with
// an is_activated call.
func HeartbeatHandler(t transport.Transport) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := HeartbeatResponse{Status: "SERVING", Timestamp: time.Now().Unix()}

		result, err := t.Request(r.Context(), "is_activated", `{"method":"is_activated"}`, "Boolean")
		if err != nil {
			resp.Status = "NOT_SERVING"
		} else {
			var envelope struct {
				Success bool `json:"success"`
			}
			_ = json.Unmarshal([]byte(result), &envelope)
			resp.Activated = envelope.Success
		}

		w.Header().Set("Content-Type", "application/json")
		if resp.Status != "SERVING" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			zap.L().Error("failed to encode heartbeat", zap.Error(err))
		}
	})
}
