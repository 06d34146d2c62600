package repository

import (
	"testing"

	"github.com/Krish01agrawal/Lifafa-B/internal/email/domain"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&domain.EmailRecord{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func records(ids ...string) []*domain.EmailRecord {
	out := make([]*domain.EmailRecord, 0, len(ids))
	for _, id := range ids {
		out = append(out, &domain.EmailRecord{MessageID: id, Subject: "subject " + id})
	}
	return out
}

func TestReplaceForUserIsIdempotent(t *testing.T) {
	repo := NewEmailRepository(setupTestDB(t))

	if err := repo.ReplaceForUser("u1", records("a", "b", "c")); err != nil {
		t.Fatalf("first replace: %v", err)
	}
	// Same batch again: counts must not grow.
	if err := repo.ReplaceForUser("u1", records("a", "b", "c")); err != nil {
		t.Fatalf("second replace: %v", err)
	}

	count, err := repo.CountByUser("u1")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 3 {
		t.Errorf("expected 3 emails after re-sync, got %d", count)
	}
}

func TestReplaceForUserSwapsBatch(t *testing.T) {
	repo := NewEmailRepository(setupTestDB(t))

	if err := repo.ReplaceForUser("u1", records("a", "b")); err != nil {
		t.Fatalf("first replace: %v", err)
	}
	if err := repo.ReplaceForUser("u1", records("c")); err != nil {
		t.Fatalf("second replace: %v", err)
	}

	found, err := repo.FindByUser("u1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(found) != 1 || found[0].MessageID != "c" {
		t.Fatalf("expected only the new batch, got %+v", found)
	}
}

func TestReplaceForUserScopedToUser(t *testing.T) {
	repo := NewEmailRepository(setupTestDB(t))

	if err := repo.ReplaceForUser("u1", records("a")); err != nil {
		t.Fatalf("replace u1: %v", err)
	}
	if err := repo.ReplaceForUser("u2", records("a", "b")); err != nil {
		t.Fatalf("replace u2: %v", err)
	}
	if err := repo.ReplaceForUser("u1", records("x")); err != nil {
		t.Fatalf("re-replace u1: %v", err)
	}

	c1, _ := repo.CountByUser("u1")
	c2, _ := repo.CountByUser("u2")
	if c1 != 1 || c2 != 2 {
		t.Errorf("expected counts 1 and 2, got %d and %d", c1, c2)
	}
}

func TestReplaceForUserEmptyBatchClears(t *testing.T) {
	repo := NewEmailRepository(setupTestDB(t))

	if err := repo.ReplaceForUser("u1", records("a")); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if err := repo.ReplaceForUser("u1", nil); err != nil {
		t.Fatalf("empty replace: %v", err)
	}

	count, _ := repo.CountByUser("u1")
	if count != 0 {
		t.Errorf("expected cleared mailbox, got %d", count)
	}
}
