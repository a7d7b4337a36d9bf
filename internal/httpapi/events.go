package httpapi

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"flashtranslate/internal/domain"
)

const (
	clientBuffer = 32
	writeTimeout = 5 * time.Second
)

type envelope struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Hub fans controller events out to every connected websocket. It
// implements ports.EventSink. A client that falls behind is dropped.
type Hub struct {
	logger   zerolog.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*wsClient]struct{}
}

type wsClient struct {
	conn *websocket.Conn
	send chan []byte
}

func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		logger:  logger.With().Str("component", "events").Logger(),
		clients: make(map[*wsClient]struct{}),
	}
}

func (h *Hub) StateChanged(state domain.UIState, reason domain.StateReason) {
	h.broadcast(domain.EventState, domain.StateEvent{
		Reason:  reason,
		Message: reason.Message(),
		State:   domain.NewStateView(state),
	})
}

func (h *Hub) ValidationChanged(status domain.ValidationStatus) {
	h.broadcast(domain.EventValidation, domain.ValidationEvent{Status: status})
}

func (h *Hub) Error(code domain.ErrorCode, message string) {
	h.broadcast(domain.EventError, domain.ErrorEvent{Code: code, Message: message})
}

// ClientCount reports the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for cl := range h.clients {
		h.removeLocked(cl)
	}
}

func (h *Hub) broadcast(kind string, data any) {
	payload, err := json.Marshal(envelope{Type: kind, Data: data})
	if err != nil {
		h.logger.Error().Err(err).Str("type", kind).Msg("encode event failed")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for cl := range h.clients {
		select {
		case cl.send <- payload:
		default:
			h.logger.Warn().Msg("dropping slow event client")
			h.removeLocked(cl)
		}
	}
}

func (h *Hub) serveWS(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// The upgrader already wrote the HTTP error.
		return nil
	}

	cl := &wsClient{conn: conn, send: make(chan []byte, clientBuffer)}
	h.mu.Lock()
	h.clients[cl] = struct{}{}
	h.mu.Unlock()

	go cl.writeLoop()
	cl.readLoop()

	h.mu.Lock()
	h.removeLocked(cl)
	h.mu.Unlock()
	return nil
}

func (h *Hub) removeLocked(cl *wsClient) {
	if _, ok := h.clients[cl]; !ok {
		return
	}
	delete(h.clients, cl)
	close(cl.send)
}

func (cl *wsClient) writeLoop() {
	defer cl.conn.Close()

	for payload := range cl.send {
		_ = cl.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := cl.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
	_ = cl.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeTimeout))
}

// readLoop discards inbound frames and returns once the peer goes away.
func (cl *wsClient) readLoop() {
	for {
		if _, _, err := cl.conn.ReadMessage(); err != nil {
			return
		}
	}
}
