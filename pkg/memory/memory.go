package memory

import (
	"context"

	emaildomain "github.com/Krish01agrawal/Lifafa-B/internal/email/domain"
)

// Store is the memory-platform boundary. One entry per email, keyed by the
// provider message id scoped to the user, so re-uploading the same id is an
// idempotent upsert.
type Store interface {
	UpsertEmail(ctx context.Context, userID string, rec *emaildomain.EmailRecord) error

	// Search returns up to limit memory contents for the user, ranked by
	// the platform's own relevance scoring.
	Search(ctx context.Context, userID, query string, limit int) ([]string, error)
}
