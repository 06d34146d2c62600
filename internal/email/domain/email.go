package domain

import (
	"context"
	"time"
)

// EmailRecord is the normalized form of one Gmail message. Identity is
// (UserID, MessageID): provider message ids are only unique per mailbox.
type EmailRecord struct {
	ID        string    `json:"-" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"index:idx_user_message,unique;not null"`
	MessageID string    `json:"id" gorm:"index:idx_user_message,unique;not null"`
	Subject   string    `json:"subject"`
	Snippet   string    `json:"snippet"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// MailSource lists and fetches recent messages for one access credential.
// Implementations return records in listing order, at most max entries.
type MailSource interface {
	FetchRecent(ctx context.Context, accessToken string, max int64) ([]*EmailRecord, error)
}
