package websocket

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/yegors/preflight/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 64 << 10
)

// Message types exchanged with the planner UI
const (
	MessageTypePlanRequest    = "plan_request"    // Client asks for a flight plan computation
	MessageTypePlanResult     = "plan_result"     // Server replies with the computed plan
	MessageTypePlanError      = "plan_error"      // Server replies when the plan was rejected
	MessageTypeCatalogUpdated = "catalog_updated" // An aircraft model was added or replaced
	MessageTypeWeatherUpdated = "weather_updated" // A watched station's briefing was refreshed
)

// Message represents a WebSocket message
type Message struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data"`
}

// MessageHandler defines the interface for handling incoming WebSocket messages
type MessageHandler interface {
	HandleMessage(client *Client, messageType string, data map[string]any) error
}

// Client represents a WebSocket client
type Client struct {
	conn      *websocket.Conn
	send      chan *Message
	server    *Server
	mu        sync.Mutex
	closed    bool
	closeChan chan struct{}
}

// Server represents a WebSocket server
type Server struct {
	clients        map[*Client]bool
	register       chan *Client
	unregister     chan *Client
	broadcast      chan *Message
	done           chan struct{}
	stopOnce       sync.Once
	upgrader       websocket.Upgrader
	logger         *logger.Logger
	mu             sync.RWMutex
	messageHandler MessageHandler // Handler for incoming messages
}

// NewServer creates a new WebSocket server
func NewServer(log *logger.Logger) *Server {
	return &Server{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *Message, 64),
		done:       make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins
			},
		},
		logger: log.Named("web-socket"),
	}
}

// SetMessageHandler sets the message handler for incoming WebSocket messages
func (s *Server) SetMessageHandler(handler MessageHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messageHandler = handler
}

func (s *Server) handler() MessageHandler {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.messageHandler
}

// Run starts the WebSocket hub. It returns after Stop is called.
func (s *Server) Run() {
	s.logger.Info("Starting WebSocket server")

	for {
		select {
		case client := <-s.register:
			s.mu.Lock()
			s.clients[client] = true
			clientCount := len(s.clients)
			s.mu.Unlock()
			s.logger.Debug("Client registered", logger.Int("client_count", clientCount))

		case client := <-s.unregister:
			s.removeClient(client)
			s.logger.Debug("Client unregistered", logger.Int("client_count", s.ClientCount()))

		case message := <-s.broadcast:
			s.mu.RLock()
			clientsToRemove := make([]*Client, 0)
			for client := range s.clients {
				client.mu.Lock()
				if client.closed {
					clientsToRemove = append(clientsToRemove, client)
					client.mu.Unlock()
					continue
				}
				client.mu.Unlock()

				select {
				case client.send <- message:
				default:
					// Channel is full, mark for removal
					clientsToRemove = append(clientsToRemove, client)
				}
			}
			s.mu.RUnlock()

			for _, client := range clientsToRemove {
				s.removeClient(client)
			}

		case <-s.done:
			s.mu.Lock()
			for client := range s.clients {
				delete(s.clients, client)
				client.Close()
			}
			s.mu.Unlock()
			s.logger.Info("WebSocket server stopped")
			return
		}
	}
}

// Stop shuts the hub down and closes every client connection
func (s *Server) Stop() {
	s.stopOnce.Do(func() { close(s.done) })
}

// ClientCount returns the number of connected clients
func (s *Server) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

func (s *Server) removeClient(client *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.clients[client]; !ok {
		return
	}
	delete(s.clients, client)

	client.mu.Lock()
	client.closed = true
	client.mu.Unlock()
	close(client.send)
}

// HandleConnection handles a WebSocket connection
func (s *Server) HandleConnection(w http.ResponseWriter, r *http.Request) {
	s.logger.Info("Handling new WebSocket connection request",
		logger.String("remote_addr", r.RemoteAddr),
		logger.String("user_agent", r.UserAgent()))

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection",
			logger.Error(err),
			logger.String("remote_addr", r.RemoteAddr))
		return
	}

	client := &Client{
		conn:      conn,
		send:      make(chan *Message, 256),
		server:    s,
		closeChan: make(chan struct{}),
	}

	select {
	case s.register <- client:
	case <-s.done:
		conn.Close()
		return
	}

	go client.readPump()
	go client.writePump()
}

// Broadcast sends a message to all connected clients
func (s *Server) Broadcast(message *Message) {
	s.logger.Debug("Broadcasting message to all clients",
		logger.String("message_type", message.Type),
		logger.Int("client_count", s.ClientCount()))

	select {
	case s.broadcast <- message:
	case <-s.done:
	}
}

// readPump decodes client frames and hands them to the message handler until
// the peer goes away or stops answering pings.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.server.unregister <- c:
		case <-c.server.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var message Message
		if err := c.conn.ReadJSON(&message); err != nil {
			var syntaxErr *json.SyntaxError
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
				c.server.logger.Warn("Dropping malformed WebSocket message",
					logger.String("client", c.conn.RemoteAddr().String()),
					logger.Error(err))
				continue
			}
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				c.server.logger.Error("WebSocket read error", logger.Error(err))
			}
			return
		}

		handler := c.server.handler()
		if handler == nil {
			continue
		}
		if err := handler.HandleMessage(c, message.Type, message.Data); err != nil {
			c.server.logger.Error("Failed to handle WebSocket message",
				logger.Error(err),
				logger.String("type", message.Type))
		}
	}
}

// writePump drains the client's queue onto the connection and keeps it alive
// with periodic pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(message); err != nil {
				c.server.logger.Debug("WebSocket write failed",
					logger.String("message_type", message.Type),
					logger.Error(err))
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.closeChan:
			return
		}
	}
}

// Close closes the client connection
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	select {
	case <-c.closeChan:
		return
	default:
	}

	c.closed = true
	close(c.closeChan)
	c.conn.Close()
}

// SendMessage sends a message to this specific client.
// It returns false if the client is gone or its queue is full.
func (c *Client) SendMessage(message *Message) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}

	select {
	case c.send <- message:
		return true
	default:
		return false
	}
}
