package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	authdomain "github.com/Krish01agrawal/Lifafa-B/internal/auth/domain"
	authdto "github.com/Krish01agrawal/Lifafa-B/internal/auth/dto"
	"github.com/Krish01agrawal/Lifafa-B/internal/auth/repository"
	"github.com/Krish01agrawal/Lifafa-B/pkg/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gmailapi "google.golang.org/api/gmail/v1"
)

// authUsecase implements AuthUsecase.
type authUsecase struct {
	userRepo repository.UserRepository
	config   *config.Config
	log      *logrus.Logger
}

func NewAuthUsecase(userRepo repository.UserRepository, cfg *config.Config, log *logrus.Logger) AuthUsecase {
	return &authUsecase{
		userRepo: userRepo,
		config:   cfg,
		log:      log,
	}
}

func (u *authUsecase) oauthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     u.config.GoogleClientID,
		ClientSecret: u.config.GoogleClientSecret,
		RedirectURL:  u.config.GoogleRedirectURI,
		Scopes: []string{
			gmailapi.GmailReadonlyScope,
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}
}

// googleTokenInfo is the response from Google's tokeninfo endpoint.
type googleTokenInfo struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
	EmailVerified string `json:"email_verified"` // Google returns "true"/"false" as strings
}

func (u *authUsecase) GoogleLogin(ctx context.Context, idToken string) (*authdto.LoginResponse, error) {
	info, err := u.verifyGoogleIDToken(ctx, idToken)
	if err != nil {
		return nil, err
	}

	user, err := u.userRepo.FindByUserID(info.Sub)
	if err != nil {
		return nil, err
	}

	if user == nil {
		user = &authdomain.User{
			UserID:        info.Sub,
			Email:         info.Email,
			Name:          info.Name,
			Picture:       info.Picture,
			SessionExpiry: time.Now().UTC().Add(u.config.SessionExpiry).Format(time.RFC3339),
			SyncState:     authdomain.SyncIdle,
		}
		if err := u.userRepo.Create(user); err != nil {
			return nil, err
		}
		u.log.WithField("user_id", user.UserID).Info("created new user from Google sign-in")
	} else {
		user.Name = info.Name
		user.Picture = info.Picture
		if err := u.userRepo.Update(user); err != nil {
			return nil, err
		}
	}

	token, err := u.generateSessionToken(user)
	if err != nil {
		return nil, err
	}

	return &authdto.LoginResponse{JWTToken: token, User: user}, nil
}

func (u *authUsecase) verifyGoogleIDToken(ctx context.Context, idToken string) (*googleTokenInfo, error) {
	url := fmt.Sprintf("https://oauth2.googleapis.com/tokeninfo?id_token=%s", idToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, errors.New("failed to verify Google token: " + err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("failed to verify Google token: status %d, body: %s", resp.StatusCode, string(body))
	}

	var info googleTokenInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, errors.New("failed to decode Google token info: " + err.Error())
	}
	if info.EmailVerified != "true" {
		return nil, errors.New("google email is not verified")
	}
	if info.Sub == "" {
		return nil, errors.New("google token info has no subject")
	}
	return &info, nil
}

func (u *authUsecase) AuthCodeURL(state string) string {
	// AccessTypeOffline plus forced consent so Google returns a refresh
	// token even for users who authorized before.
	return u.oauthConfig().AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
}

// googleUserInfo is the response from the userinfo endpoint used on the
// authorization-code path.
type googleUserInfo struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

func (u *authUsecase) HandleOAuthCallback(ctx context.Context, code string) (string, string, error) {
	cfg := u.oauthConfig()

	token, err := cfg.Exchange(ctx, code)
	if err != nil {
		return "", "", fmt.Errorf("code exchange failed: %w", err)
	}

	client := cfg.Client(ctx, token)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return "", "", fmt.Errorf("failed to get user info: %w", err)
	}
	defer resp.Body.Close()

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return "", "", fmt.Errorf("failed to decode user info: %w", err)
	}
	if info.ID == "" {
		return "", "", errors.New("userinfo response has no id")
	}

	expiry := ""
	if !token.Expiry.IsZero() {
		expiry = token.Expiry.UTC().Format(time.RFC3339)
	}
	sessionExpiry := time.Now().UTC().Add(u.config.SessionExpiry).Format(time.RFC3339)

	user, err := u.userRepo.FindByUserID(info.ID)
	if err != nil {
		return "", "", err
	}

	if user == nil {
		user = &authdomain.User{
			UserID:        info.ID,
			Email:         info.Email,
			Name:          info.Name,
			Picture:       info.Picture,
			AccessToken:   token.AccessToken,
			RefreshToken:  token.RefreshToken,
			TokenExpiry:   expiry,
			SessionExpiry: sessionExpiry,
			SyncState:     authdomain.SyncIdle,
		}
		if err := u.userRepo.Create(user); err != nil {
			return "", "", err
		}
		u.log.WithField("user_id", user.UserID).Info("created new user from OAuth callback")
	} else {
		user.Name = info.Name
		user.Picture = info.Picture
		user.AccessToken = token.AccessToken
		user.TokenExpiry = expiry
		user.SessionExpiry = sessionExpiry
		// A consent round-trip without a refresh token keeps the stored one.
		if token.RefreshToken != "" {
			user.RefreshToken = token.RefreshToken
		}
		if err := u.userRepo.Update(user); err != nil {
			return "", "", err
		}
		u.log.WithField("user_id", user.UserID).Info("updated user tokens from OAuth callback")
	}

	jwtToken, err := u.generateSessionToken(user)
	if err != nil {
		return "", "", err
	}
	return jwtToken, user.Email, nil
}

func (u *authUsecase) generateSessionToken(user *authdomain.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.UserID,
		"email":   user.Email,
		"exp":     time.Now().Add(u.config.SessionExpiry).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(u.config.JWTSecret))
}

func (u *authUsecase) ValidateSession(tokenString string) (*authdomain.User, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(u.config.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	userID, ok := claims["user_id"].(string)
	if !ok {
		return nil, errors.New("invalid token claims")
	}

	user, err := u.userRepo.FindByUserID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("user not found")
	}
	if user.SessionExpiry != "" && SessionExpired(user.SessionExpiry, time.Now()) {
		return nil, errors.New("session expired, please sign in again")
	}
	return user, nil
}
