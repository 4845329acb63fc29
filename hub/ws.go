package hub

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	writeTimeout   = 10 * time.Second
	readTimeout    = 60 * time.Second
	pingInterval   = 30 * time.Second
	maxMessageSize = 1024
)

// Server upgrades HTTP requests to WebSocket subscriptions.
type Server struct {
	hub      *Hub
	upgrader websocket.Upgrader
}

// NewServer creates a WebSocket server over a hub.
func NewServer(h *Hub) *Server {
	return &Server{
		hub: h,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// The dashboard is served from its own origin.
				return true
			},
		},
	}
}

// Serve upgrades the request and streams session messages until the
// client disconnects. Subscribers only listen; inbound frames beyond
// control messages are discarded.
func (s *Server) Serve(c echo.Context, sessionID string) error {
	ws, err := s.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		s.hub.log.Warn("websocket upgrade failed", "error", err)
		return err
	}

	conn := s.hub.NewConnection(sessionID)
	s.hub.Register(conn)

	go s.writePump(conn, ws)
	go s.readPump(conn, ws)

	return nil
}

// readPump drains the connection so close frames and pongs are processed.
func (s *Server) readPump(conn *Connection, ws *websocket.Conn) {
	defer func() {
		s.hub.Unregister(conn)
		ws.Close()
	}()

	ws.SetReadLimit(maxMessageSize)
	ws.SetReadDeadline(time.Now().Add(readTimeout))
	ws.SetPongHandler(func(string) error {
		ws.SetReadDeadline(time.Now().Add(readTimeout))
		return nil
	})

	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				s.hub.log.Warn("websocket error", "conn_id", conn.ID, "error", err)
			}
			return
		}
	}
}

// writePump forwards hub messages and keeps the connection alive.
func (s *Server) writePump(conn *Connection, ws *websocket.Conn) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		ws.Close()
	}()

	for {
		select {
		case message, ok := <-conn.Send:
			ws.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				// Hub closed the channel.
				ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := ws.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			ws.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
