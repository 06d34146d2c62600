package usecase

import (
	"context"

	authdomain "github.com/Krish01agrawal/Lifafa-B/internal/auth/domain"
	authdto "github.com/Krish01agrawal/Lifafa-B/internal/auth/dto"
)

// AuthUsecase covers sign-in, OAuth consent, session validation and access
// credential refresh.
type AuthUsecase interface {
	// GoogleLogin verifies a Google ID token and returns a session JWT plus
	// the stored (or newly created) account.
	GoogleLogin(ctx context.Context, idToken string) (*authdto.LoginResponse, error)

	// AuthCodeURL builds the Google consent redirect (offline access, so a
	// refresh token comes back).
	AuthCodeURL(state string) string

	// HandleOAuthCallback exchanges the authorization code, persists the
	// credential set, and returns a session JWT and the account email.
	HandleOAuthCallback(ctx context.Context, code string) (jwtToken, email string, err error)

	// ValidateSession parses a session JWT and loads the account, rejecting
	// expired sessions.
	ValidateSession(token string) (*authdomain.User, error)

	// RefreshGoogleToken exchanges a refresh credential for a fresh access
	// credential. Failure means the user must re-authenticate.
	RefreshGoogleToken(ctx context.Context, refreshToken string) (*RefreshedToken, error)
}
