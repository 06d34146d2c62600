package domain

import "time"

// SyncState tracks where a user's mailbox sync stands. It replaces the
// older sync_triggered/sync_completed flag pair with a single state plus
// a timestamp, so an abandoned in-progress sync can be reclaimed.
type SyncState string

const (
	SyncIdle       SyncState = "idle"
	SyncInProgress SyncState = "in_progress"
	SyncDone       SyncState = "done"
	SyncFailed     SyncState = "failed"
)

// User is a Gmail-connected account. UserID is the stable Google subject
// identifier issued at sign-in.
//
// Token expiries are stored as RFC 3339 strings on purpose: the validator
// treats missing or unparsable values as expired (fail-closed), which a
// time.Time zero value cannot express unambiguously.
type User struct {
	ID           string `json:"id" gorm:"primaryKey"`
	UserID       string `json:"user_id" gorm:"uniqueIndex;not null"`
	Email        string `json:"email" gorm:"index"`
	Name         string `json:"name"`
	Picture      string `json:"picture,omitempty"`
	AccessToken  string `json:"-"`
	RefreshToken string `json:"-"`
	TokenExpiry  string `json:"token_expiry,omitempty"`

	// Session cutoff is application-defined (90 days from creation),
	// independent of Google's token lifetime.
	SessionExpiry string `json:"session_expiry,omitempty"`

	SyncState          SyncState `json:"sync_state" gorm:"default:idle"`
	SyncStateUpdatedAt time.Time `json:"sync_state_updated_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SyncTriggered reports whether a sync attempt has been started and not
// rolled back: in-progress and completed states both count.
func (u *User) SyncTriggered() bool {
	return u.SyncState == SyncInProgress || u.SyncState == SyncDone
}

// SyncCompleted reports whether the last sync attempt finished, successfully
// or with zero results.
func (u *User) SyncCompleted() bool {
	return u.SyncState == SyncDone
}
