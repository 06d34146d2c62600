package dto

import authdomain "github.com/Krish01agrawal/Lifafa-B/internal/auth/domain"

type GoogleLoginRequest struct {
	Token string `json:"token" binding:"required"`
}

type LoginResponse struct {
	JWTToken string           `json:"jwt_token"`
	User     *authdomain.User `json:"user"`
}

// MeResponse is the /me payload: the account plus the flat sync flags the
// frontend polls while the first sync runs.
type MeResponse struct {
	*authdomain.User
	SyncTriggered bool `json:"sync_triggered"`
	SyncCompleted bool `json:"sync_completed"`
	EmailCount    int64 `json:"email_count"`
}
