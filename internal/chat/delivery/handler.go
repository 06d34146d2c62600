package delivery

import (
	"net/http"

	authusecase "github.com/Krish01agrawal/Lifafa-B/internal/auth/usecase"
	chatusecase "github.com/Krish01agrawal/Lifafa-B/internal/chat/usecase"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Session auth happens on the first frame, not the handshake.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type ChatHandler struct {
	chatUsecase chatusecase.ChatUsecase
	authUsecase authusecase.AuthUsecase
	hub         *Hub
	log         *logrus.Logger
}

func NewChatHandler(chatUsecase chatusecase.ChatUsecase, authUsecase authusecase.AuthUsecase, hub *Hub, log *logrus.Logger) *ChatHandler {
	return &ChatHandler{
		chatUsecase: chatUsecase,
		authUsecase: authUsecase,
		hub:         hub,
		log:         log,
	}
}

type authFrame struct {
	JWTToken string `json:"jwt_token"`
}

type messageFrame struct {
	Message string `json:"message"`
}

type broadcastFrame struct {
	Message  interface{} `json:"message"`
	SenderID string      `json:"sender_id"`
	ChatID   string      `json:"chat_id"`
}

// Serve upgrades the connection and runs the chat loop. The first frame must
// carry the session token; every later frame is a question answered into the
// room.
func (h *ChatHandler) Serve(c *gin.Context) {
	chatID := c.Param("chat_id")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.WithError(err).Warn("websocket upgrade failed")
		return
	}
	defer conn.Close()

	var auth authFrame
	if err := conn.ReadJSON(&auth); err != nil || auth.JWTToken == "" {
		conn.WriteJSON(gin.H{"error": "first message must carry jwt_token"})
		return
	}
	user, err := h.authUsecase.ValidateSession(auth.JWTToken)
	if err != nil {
		conn.WriteJSON(gin.H{"error": "invalid or expired session"})
		return
	}

	h.hub.Join(chatID, user.UserID, conn)
	defer h.hub.Leave(chatID, user.UserID)

	log := h.log.WithFields(logrus.Fields{"chat_id": chatID, "user_id": user.UserID})
	log.Info("chat session opened")

	for {
		var frame messageFrame
		if err := conn.ReadJSON(&frame); err != nil {
			log.WithError(err).Debug("chat session closed")
			return
		}
		if frame.Message == "" {
			continue
		}

		reply := h.chatUsecase.Answer(c.Request.Context(), user.UserID, frame.Message)
		h.hub.Broadcast(chatID, broadcastFrame{
			Message:  reply,
			SenderID: user.UserID,
			ChatID:   chatID,
		})
	}
}

type memoryQueryRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Query  string `json:"query" binding:"required"`
}

// MemoryQuery is a debug endpoint that runs retrieval-augmented answering
// over HTTP without a socket.
func (h *ChatHandler) MemoryQuery(c *gin.Context) {
	var req memoryQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id and query are required"})
		return
	}
	c.JSON(http.StatusOK, h.chatUsecase.Answer(c.Request.Context(), req.UserID, req.Query))
}
