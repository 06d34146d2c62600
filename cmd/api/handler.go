package api

import (
	authDelivery "github.com/Krish01agrawal/Lifafa-B/internal/auth/delivery"
	authUsecase "github.com/Krish01agrawal/Lifafa-B/internal/auth/usecase"
	chatDelivery "github.com/Krish01agrawal/Lifafa-B/internal/chat/delivery"
	emailDelivery "github.com/Krish01agrawal/Lifafa-B/internal/email/delivery"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	authUsecase  authUsecase.AuthUsecase
	authHandler  *authDelivery.AuthHandler
	emailHandler *emailDelivery.EmailHandler
	chatHandler  *chatDelivery.ChatHandler
}

func NewHandler(
	authUc authUsecase.AuthUsecase,
	authHandler *authDelivery.AuthHandler,
	emailHandler *emailDelivery.EmailHandler,
	chatHandler *chatDelivery.ChatHandler,
) *Handler {
	return &Handler{
		authUsecase:  authUc,
		authHandler:  authHandler,
		emailHandler: emailHandler,
		chatHandler:  chatHandler,
	}
}

func (h *Handler) Start(addr string) error {
	gin.SetMode(gin.ReleaseMode)
	r := gin.Default()

	// CORS middleware
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	SetupRoutes(r, h.authUsecase, h.authHandler, h.emailHandler, h.chatHandler)

	return r.Run(addr)
}
