package delivery

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	authdomain "github.com/Krish01agrawal/Lifafa-B/internal/auth/domain"
	"github.com/Krish01agrawal/Lifafa-B/internal/auth/dto"
	authrepo "github.com/Krish01agrawal/Lifafa-B/internal/auth/repository"
	"github.com/Krish01agrawal/Lifafa-B/internal/auth/usecase"
	emailrepo "github.com/Krish01agrawal/Lifafa-B/internal/email/repository"
	"github.com/Krish01agrawal/Lifafa-B/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type AuthHandler struct {
	authUsecase usecase.AuthUsecase
	userRepo    authrepo.UserRepository
	emailRepo   emailrepo.EmailRepository
	config      *config.Config
	log         *logrus.Logger
}

func NewAuthHandler(authUsecase usecase.AuthUsecase, userRepo authrepo.UserRepository, emailRepo emailrepo.EmailRepository, cfg *config.Config, log *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
		userRepo:    userRepo,
		emailRepo:   emailRepo,
		config:      cfg,
		log:         log,
	}
}

// GoogleLogin signs in with a Google ID token obtained by the frontend.
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	var req dto.GoogleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token is required"})
		return
	}

	resp, err := h.authUsecase.GoogleLogin(c.Request.Context(), req.Token)
	if err != nil {
		h.log.WithError(err).Warn("google login failed")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid Google token"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Login redirects the browser to Google's consent screen.
func (h *AuthHandler) Login(c *gin.Context) {
	state := uuid.New().String()
	c.Redirect(http.StatusTemporaryRedirect, h.authUsecase.AuthCodeURL(state))
}

// Callback finishes the OAuth flow and hands the session token back to the
// frontend via redirect query parameters.
func (h *AuthHandler) Callback(c *gin.Context) {
	if errMsg := c.Query("error"); errMsg != "" {
		h.redirectError(c, errMsg)
		return
	}
	code := c.Query("code")
	if code == "" {
		h.redirectError(c, "missing authorization code")
		return
	}

	jwtToken, email, err := h.authUsecase.HandleOAuthCallback(c.Request.Context(), code)
	if err != nil {
		h.log.WithError(err).Error("oauth callback failed")
		h.redirectError(c, "authentication failed")
		return
	}

	c.Redirect(http.StatusTemporaryRedirect, fmt.Sprintf("%s?token=%s&user=%s",
		h.config.FrontendURL, url.QueryEscape(jwtToken), url.QueryEscape(email)))
}

func (h *AuthHandler) redirectError(c *gin.Context, msg string) {
	c.Redirect(http.StatusTemporaryRedirect,
		h.config.FrontendURL+"?error="+url.QueryEscape(msg))
}

// Me returns the signed-in account with its sync progress. The completed
// flag is cross-checked against the stored email count: a done state over a
// wiped mailbox table is rolled back to idle so the poller syncs it again.
func (h *AuthHandler) Me(c *gin.Context) {
	user := c.MustGet("user").(*authdomain.User)

	count, err := h.emailRepo.CountByUser(user.UserID)
	if err != nil {
		h.log.WithError(err).WithField("user_id", user.UserID).Error("failed to count emails")
		count = 0
	}

	if user.SyncCompleted() && count == 0 {
		if err := h.userRepo.SetSyncState(user.UserID, authdomain.SyncIdle, time.Now()); err != nil {
			h.log.WithError(err).WithField("user_id", user.UserID).Error("failed to reset sync state")
		}
		// Reported state follows the reconciliation even when the write fails.
		user.SyncState = authdomain.SyncIdle
	}

	c.JSON(http.StatusOK, dto.MeResponse{
		User:          user,
		SyncTriggered: user.SyncTriggered(),
		SyncCompleted: user.SyncCompleted(),
		EmailCount:    count,
	})
}
