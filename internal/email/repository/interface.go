package repository

import (
	"github.com/Krish01agrawal/Lifafa-B/internal/email/domain"
)

type EmailRepository interface {
	// ReplaceForUser deletes all stored emails for the user and inserts
	// the given batch in their place, atomically.
	ReplaceForUser(userID string, records []*domain.EmailRecord) error
	FindByUser(userID string) ([]*domain.EmailRecord, error)
	CountByUser(userID string) (int64, error)
}
