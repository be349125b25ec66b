package dashboard

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/rajanjha2004/HotelData/internal/analysis"
	"github.com/rajanjha2004/HotelData/internal/models"
	"github.com/rajanjha2004/HotelData/internal/session"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	maxMessage = 64 * 1024
)

// WebSocket upgrader configuration. A nil CheckOrigin keeps gorilla's
// same-origin check: only the page served by this host may connect.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// WSConnection runs pipeline passes for one browser tab. Each parameter
// message is answered by one report or one error, in order.
type WSConnection struct {
	conn     *websocket.Conn
	send     chan []byte
	mu       sync.Mutex
	closed   bool
	server   *Server
	sess     *session.Session
	params   session.Params
	pipeline *analysis.Pipeline
}

// WSMessage is sent to the client after every pass
type WSMessage struct {
	Type   string           `json:"type"`
	Report *analysis.Report `json:"report,omitempty"`
	Error  string           `json:"error,omitempty"`
	Kind   string           `json:"kind,omitempty"`
}

// handleWebSocket handles WebSocket connections for a session
func (s *Server) handleWebSocket(c *gin.Context) {
	sess, err := s.store.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade connection: %v", err)
		return
	}

	wsConn := &WSConnection{
		conn:     conn,
		send:     make(chan []byte, 16),
		server:   s,
		sess:     sess,
		params:   sess.Params,
		pipeline: s.pipeline,
	}

	// Start the read and write pumps
	go wsConn.writePump()
	go wsConn.readPump()
}

// readPump reads parameter messages and answers each with a pipeline pass
func (c *WSConnection) readPump() {
	defer func() {
		c.close()
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessage)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		c.handleMessage(message)
	}
}

// writePump pumps messages from the server to the WebSocket connection
func (c *WSConnection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage applies the requested parameters and runs one pass.
// Parameters persist for the connection, so a message only needs the changes.
func (c *WSConnection) handleMessage(message []byte) {
	var req ParamsRequest
	if err := json.Unmarshal(message, &req); err != nil {
		c.sendError(&models.ConfigError{Field: "message", Reason: err.Error()})
		return
	}

	params, err := req.Apply(c.params, c.server.cfg.Location())
	if err != nil {
		c.sendError(err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), pongWait)
	defer cancel()
	report, err := c.pipeline.Run(ctx, c.sess, params)
	if err != nil {
		c.sendError(err)
		return
	}
	c.params = params
	c.sendMessage(WSMessage{Type: "report", Report: report})
}

func (c *WSConnection) sendError(err error) {
	_, body := errorResponse(err)
	c.sendMessage(WSMessage{Type: "error", Error: body.Error, Kind: body.Kind})
}

// sendMessage queues a message, dropping it when the client is not reading
func (c *WSConnection) sendMessage(msg WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Error marshaling message: %v", err)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	select {
	case c.send <- data:
	default:
		log.Println("WebSocket buffer full, dropping message")
	}
}

func (c *WSConnection) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}
