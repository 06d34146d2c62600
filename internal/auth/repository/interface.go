package repository

import (
	"time"

	authdomain "github.com/Krish01agrawal/Lifafa-B/internal/auth/domain"
)

// UserRepository defines data access for Gmail-connected accounts.
type UserRepository interface {
	Create(user *authdomain.User) error
	FindByUserID(userID string) (*authdomain.User, error)
	Update(user *authdomain.User) error

	// UpdateTokens persists a refreshed credential set for the user.
	UpdateTokens(userID, accessToken, refreshToken, tokenExpiry string) error

	// SetSyncState records the sync state transition with its timestamp.
	// The orchestrator persists in_progress before any network call.
	SetSyncState(userID string, state authdomain.SyncState, at time.Time) error

	// FindSyncCandidates returns users the poller should sync: idle, failed,
	// or in_progress whose last state change is older than staleBefore.
	FindSyncCandidates(staleBefore time.Time) ([]*authdomain.User, error)
}
