package controllers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/SuperDex7/FeatureMe-sub000/helper"
	"github.com/SuperDex7/FeatureMe-sub000/models"
	"github.com/SuperDex7/FeatureMe-sub000/services"
)

const (
	ActionSend    = "send"
	ActionDelete  = "delete"
	ActionOnline  = "online"
	ActionOffline = "offline"
	ActionError   = "error"

	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxFrameSize   = 16 << 10
	serviceTimeout = 10 * time.Second
)

// inboundFrame is what clients send over the socket.
type inboundFrame struct {
	Action    string `json:"action"`
	ChatID    string `json:"chatId"`
	Content   string `json:"content"`
	MessageID string `json:"messageId"`
}

// Frame is what the hub sends to clients.
type Frame struct {
	Action  string          `json:"action"`
	Message *models.Message `json:"message,omitempty"`
	UserID  string          `json:"userId,omitempty"`
	Error   string          `json:"error,omitempty"`
}

type client struct {
	conn    *websocket.Conn
	userID  primitive.ObjectID
	writeMu sync.Mutex
}

func (cl *client) send(frame Frame) error {
	cl.writeMu.Lock()
	defer cl.writeMu.Unlock()
	_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return cl.conn.WriteJSON(frame)
}

func (cl *client) ping() error {
	cl.writeMu.Lock()
	defer cl.writeMu.Unlock()
	return cl.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

// ChatHub keeps one live websocket per signed in user and relays chat
// messages between the participants of a chat.
type ChatHub struct {
	chats    *services.ChatService
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[primitive.ObjectID]*client
}

func NewChatHub(chats *services.ChatService, allowedOrigins []string) *ChatHub {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return &ChatHub{
		chats:   chats,
		clients: make(map[primitive.ObjectID]*client),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || len(allowed) == 0 || allowed[origin]
			},
		},
	}
}

// Online reports whether userID currently holds a connection.
func (h *ChatHub) Online(userID primitive.ObjectID) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.clients[userID]
	return ok
}

func (h *ChatHub) HandleWS(c *gin.Context) {
	userID := helper.ExtractUserID(c)
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("chat: upgrade for %s failed: %v", userID.Hex(), err)
		return
	}
	cl := &client{conn: conn, userID: userID}

	h.register(cl)
	done := make(chan struct{})
	go h.keepAlive(cl, done)

	h.readLoop(cl)

	close(done)
	h.unregister(cl)
	conn.Close()
}

// register installs cl as the user's connection. An older connection of the
// same user is closed.
func (h *ChatHub) register(cl *client) {
	h.mu.Lock()
	previous, existed := h.clients[cl.userID]
	h.clients[cl.userID] = cl
	h.mu.Unlock()

	if existed {
		previous.conn.Close()
		return
	}
	h.setPresence(cl.userID, true)
	h.broadcastPresence(cl.userID, ActionOnline)
}

func (h *ChatHub) unregister(cl *client) {
	h.mu.Lock()
	current, ok := h.clients[cl.userID]
	if !ok || current != cl {
		// replaced by a newer connection
		h.mu.Unlock()
		return
	}
	delete(h.clients, cl.userID)
	h.mu.Unlock()

	h.setPresence(cl.userID, false)
	h.broadcastPresence(cl.userID, ActionOffline)
}

func (h *ChatHub) setPresence(userID primitive.ObjectID, active bool) {
	ctx, cancel := context.WithTimeout(context.Background(), serviceTimeout)
	defer cancel()
	if err := h.chats.SetPresence(ctx, userID, active); err != nil {
		log.Printf("chat: presence for %s: %v", userID.Hex(), err)
	}
}

func (h *ChatHub) snapshot() []*client {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*client, 0, len(h.clients))
	for _, cl := range h.clients {
		out = append(out, cl)
	}
	return out
}

func (h *ChatHub) broadcastPresence(userID primitive.ObjectID, action string) {
	frame := Frame{Action: action, UserID: userID.Hex()}
	for _, cl := range h.snapshot() {
		if cl.userID == userID {
			continue
		}
		if err := cl.send(frame); err != nil {
			log.Printf("chat: %s signal to %s: %v", action, cl.userID.Hex(), err)
		}
	}
}

// Relay delivers frame to every connected participant of chat.
func (h *ChatHub) Relay(chat *models.Chat, frame Frame) {
	h.mu.Lock()
	targets := make([]*client, 0, len(chat.Participants))
	for _, p := range chat.Participants {
		if cl, ok := h.clients[p]; ok {
			targets = append(targets, cl)
		}
	}
	h.mu.Unlock()

	for _, cl := range targets {
		if err := cl.send(frame); err != nil {
			log.Printf("chat: relay to %s: %v", cl.userID.Hex(), err)
		}
	}
}

func (h *ChatHub) keepAlive(cl *client, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := cl.ping(); err != nil {
				return
			}
		}
	}
}

func (h *ChatHub) readLoop(cl *client) {
	cl.conn.SetReadLimit(maxFrameSize)
	_ = cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	cl.conn.SetPongHandler(func(string) error {
		return cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := cl.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("chat: read from %s: %v", cl.userID.Hex(), err)
			}
			return
		}
		_ = cl.conn.SetReadDeadline(time.Now().Add(pongWait))

		var frame inboundFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			h.reject(cl, "malformed frame")
			continue
		}
		h.handle(cl, frame)
	}
}

func (h *ChatHub) handle(cl *client, frame inboundFrame) {
	ctx, cancel := context.WithTimeout(context.Background(), serviceTimeout)
	defer cancel()

	switch frame.Action {
	case ActionSend:
		chatID, err := primitive.ObjectIDFromHex(frame.ChatID)
		if err != nil {
			h.reject(cl, "invalid chatId")
			return
		}
		msg, chat, err := h.chats.Send(ctx, cl.userID, chatID, frame.Content)
		if err != nil {
			h.rejectErr(cl, err)
			return
		}
		h.Relay(chat, Frame{Action: ActionSend, Message: msg})
	case ActionDelete:
		messageID, err := primitive.ObjectIDFromHex(frame.MessageID)
		if err != nil {
			h.reject(cl, "invalid messageId")
			return
		}
		msg, chat, err := h.chats.DeleteMessage(ctx, cl.userID, messageID)
		if err != nil {
			h.rejectErr(cl, err)
			return
		}
		h.Relay(chat, Frame{Action: ActionDelete, Message: msg})
	default:
		h.reject(cl, "unknown action")
	}
}

func (h *ChatHub) rejectErr(cl *client, err error) {
	if statusFor(err) == http.StatusInternalServerError {
		log.Printf("chat: %s: %v", cl.userID.Hex(), err)
		h.reject(cl, "internal server error")
		return
	}
	h.reject(cl, err.Error())
}

func (h *ChatHub) reject(cl *client, message string) {
	if err := cl.send(Frame{Action: ActionError, Error: message}); err != nil {
		log.Printf("chat: error frame to %s: %v", cl.userID.Hex(), err)
	}
}

// Close drops every connection.
func (h *ChatHub) Close() {
	for _, cl := range h.snapshot() {
		cl.writeMu.Lock()
		_ = cl.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(writeWait))
		cl.writeMu.Unlock()
		cl.conn.Close()
	}
}
