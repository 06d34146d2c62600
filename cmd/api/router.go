package api

import (
	"net/http"

	authDelivery "github.com/Krish01agrawal/Lifafa-B/internal/auth/delivery"
	authUsecase "github.com/Krish01agrawal/Lifafa-B/internal/auth/usecase"
	chatDelivery "github.com/Krish01agrawal/Lifafa-B/internal/chat/delivery"
	emailDelivery "github.com/Krish01agrawal/Lifafa-B/internal/email/delivery"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	r *gin.Engine,
	authUc authUsecase.AuthUsecase,
	authHandler *authDelivery.AuthHandler,
	emailHandler *emailDelivery.EmailHandler,
	chatHandler *chatDelivery.ChatHandler,
) {
	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := r.Group("/auth")
	{
		auth.POST("/google-login", authHandler.GoogleLogin)
		auth.GET("/login", authHandler.Login)
		auth.GET("/callback", authHandler.Callback)
	}

	r.GET("/me", authDelivery.AuthMiddleware(authUc), authHandler.Me)

	emails := r.Group("/emails")
	{
		emails.GET("", authDelivery.AuthMiddleware(authUc), emailHandler.List)
		emails.POST("/fetch", authDelivery.AuthMiddleware(authUc), emailHandler.Fetch)
		emails.POST("/fetch-with-token", emailHandler.FetchWithToken)
	}

	// Session and access token both travel in the body here.
	r.POST("/gmail/fetch", emailHandler.GmailFetch)

	r.GET("/ws/chat/:chat_id", chatHandler.Serve)
	r.POST("/test/memory-query", chatHandler.MemoryQuery)
}
