package delivery

import (
	"net/http"

	authdomain "github.com/Krish01agrawal/Lifafa-B/internal/auth/domain"
	authusecase "github.com/Krish01agrawal/Lifafa-B/internal/auth/usecase"
	"github.com/Krish01agrawal/Lifafa-B/internal/email/repository"
	"github.com/Krish01agrawal/Lifafa-B/internal/email/usecase"
	"github.com/Krish01agrawal/Lifafa-B/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type EmailHandler struct {
	emailUsecase usecase.EmailUsecase
	authUsecase  authusecase.AuthUsecase
	emailRepo    repository.EmailRepository
	config       *config.Config
	log          *logrus.Logger
}

func NewEmailHandler(emailUsecase usecase.EmailUsecase, authUsecase authusecase.AuthUsecase, emailRepo repository.EmailRepository, cfg *config.Config, log *logrus.Logger) *EmailHandler {
	return &EmailHandler{
		emailUsecase: emailUsecase,
		authUsecase:  authUsecase,
		emailRepo:    emailRepo,
		config:       cfg,
		log:          log,
	}
}

type tokenFetchRequest struct {
	JWTToken   string `json:"jwt_token" binding:"required"`
	MaxResults int64  `json:"max_results"`
}

type gmailFetchRequest struct {
	JWTToken    string `json:"jwt_token" binding:"required"`
	AccessToken string `json:"access_token" binding:"required"`
	MaxResults  int64  `json:"max_results"`
}

// List returns the signed-in user's stored mailbox, newest first.
func (h *EmailHandler) List(c *gin.Context) {
	user := c.MustGet("user").(*authdomain.User)

	records, err := h.emailRepo.FindByUser(user.UserID)
	if err != nil {
		h.log.WithError(err).WithField("user_id", user.UserID).Error("failed to list emails")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list emails"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"emails":      records,
		"email_count": len(records),
	})
}

// Fetch syncs the signed-in user's mailbox using stored credentials.
func (h *EmailHandler) Fetch(c *gin.Context) {
	user := c.MustGet("user").(*authdomain.User)
	h.runSync(c, user, "", h.maxResults(0))
}

// FetchWithToken is the session-in-body variant for clients that cannot set
// an Authorization header.
func (h *EmailHandler) FetchWithToken(c *gin.Context) {
	var req tokenFetchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "jwt_token is required"})
		return
	}

	user, err := h.authUsecase.ValidateSession(req.JWTToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired session"})
		return
	}
	h.runSync(c, user, "", h.maxResults(req.MaxResults))
}

// GmailFetch syncs with a caller-supplied Google access token, skipping the
// stored-credential and refresh path entirely.
func (h *EmailHandler) GmailFetch(c *gin.Context) {
	var req gmailFetchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "jwt_token and access_token are required"})
		return
	}

	user, err := h.authUsecase.ValidateSession(req.JWTToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired session"})
		return
	}
	h.runSync(c, user, req.AccessToken, h.maxResults(req.MaxResults))
}

func (h *EmailHandler) runSync(c *gin.Context, user *authdomain.User, accessToken string, max int64) {
	result := h.emailUsecase.SyncUser(c.Request.Context(), user.UserID, accessToken, max)
	if result.Status != usecase.StatusSuccess {
		c.JSON(http.StatusBadGateway, gin.H{
			"success": false,
			"message": result.Message,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"message":     result.Message,
		"email_count": result.Count,
		"user_email":  user.Email,
	})
}

func (h *EmailHandler) maxResults(requested int64) int64 {
	if requested > 0 {
		return requested
	}
	return h.config.SyncMaxResults
}
