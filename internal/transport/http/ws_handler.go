package http

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"quizbot/internal/chat"
)

const welcomeText = "Hello! I'm your AI assistant. I can quiz you on programming topics. Say 'start quiz' to begin!"

// WSHandler serves the real-time chat surface. Each inbound message names a quiz
// operation; each gets exactly one reply on the same connection.
type WSHandler struct {
	assistant *chat.Assistant
	upgrader  websocket.Upgrader
}

func NewWSHandler(assistant *chat.Assistant, allowedOrigins []string) *WSHandler {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = struct{}{}
	}
	return &WSHandler{
		assistant: assistant,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				_, ok := allowed[origin]
				return ok
			},
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type answerPayload struct {
	Answer string `json:"answer"`
}

type textPayload struct {
	Text string `json:"text"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades the request and runs the chat loop for one user.
func (h *WSHandler) ServeWS(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		userID = c.GetHeader("X-User-ID")
	}
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing userId"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()
	log.Printf("ws client connected: user=%s", userID)

	send := make(chan outboundMessage[any], 16)
	writerDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	send <- reply(chat.Reply{Text: welcomeText})

readLoop:
	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		select {
		case send <- h.dispatch(c.Request.Context(), userID, inbound):
		case <-writerDone:
			break readLoop
		}
	}

	close(send)
	<-writerDone
	log.Printf("ws client disconnected: user=%s", userID)
}

func (h *WSHandler) dispatch(ctx context.Context, userID string, inbound inboundMessage) outboundMessage[any] {
	switch inbound.Type {
	case "start":
		var opts chat.StartOptions
		if len(inbound.Payload) > 0 {
			if err := json.Unmarshal(inbound.Payload, &opts); err != nil {
				return errorMessage("invalid start payload")
			}
		}
		return reply(h.assistant.StartQuiz(ctx, userID, opts))
	case "answer":
		var payload answerPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			return errorMessage("invalid answer payload")
		}
		return reply(h.assistant.SubmitAnswer(ctx, userID, payload.Answer))
	case "status":
		return reply(h.assistant.Status(ctx, userID))
	case "end":
		return reply(h.assistant.EndQuiz(ctx, userID))
	case "categories":
		return reply(h.assistant.Categories(ctx))
	case "message":
		var payload textPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			return errorMessage("invalid message payload")
		}
		return reply(h.assistant.Message(ctx, userID, payload.Text))
	default:
		return errorMessage("unsupported message type")
	}
}

func reply(r chat.Reply) outboundMessage[any] {
	return outboundMessage[any]{Type: "reply", Payload: r}
}

func errorMessage(message string) outboundMessage[any] {
	return outboundMessage[any]{Type: "error", Payload: errorPayload{Message: message}}
}
