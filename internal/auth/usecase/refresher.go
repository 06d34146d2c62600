package usecase

import (
	"context"
	"time"

	emaildomain "github.com/Krish01agrawal/Lifafa-B/internal/email/domain"

	"golang.org/x/oauth2"
)

// RefreshedToken is the outcome of one refresh-grant exchange.
type RefreshedToken struct {
	AccessToken  string
	RefreshToken string
	Expiry       string
}

// RefreshGoogleToken exchanges the long-lived refresh credential for a new
// access credential at Google's token endpoint. Any rejection is terminal
// for the calling sync attempt: it classifies as an authentication error so
// the caller surfaces "re-authenticate" instead of retrying.
func (u *authUsecase) RefreshGoogleToken(ctx context.Context, refreshToken string) (*RefreshedToken, error) {
	if u.config.GoogleClientID == "" || u.config.GoogleClientSecret == "" {
		return nil, emaildomain.NewSyncError(emaildomain.KindAuth,
			"google client credentials are not configured", nil)
	}
	if refreshToken == "" {
		return nil, emaildomain.NewSyncError(emaildomain.KindAuth,
			"no refresh token stored for user", nil)
	}

	src := u.oauthConfig().TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	tok, err := src.Token()
	if err != nil {
		return nil, emaildomain.NewSyncError(emaildomain.KindAuth,
			"refresh token rejected by identity provider", err)
	}

	refreshed := &RefreshedToken{
		AccessToken:  tok.AccessToken,
		RefreshToken: refreshToken,
		Expiry:       tok.Expiry.UTC().Format(time.RFC3339),
	}
	// Google may rotate the refresh token; keep the rotated one when present.
	if tok.RefreshToken != "" {
		refreshed.RefreshToken = tok.RefreshToken
	}
	return refreshed, nil
}
