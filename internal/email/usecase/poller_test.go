package usecase

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	authdomain "github.com/Krish01agrawal/Lifafa-B/internal/auth/domain"
	authrepo "github.com/Krish01agrawal/Lifafa-B/internal/auth/repository"
	"github.com/Krish01agrawal/Lifafa-B/internal/email/domain"
	"github.com/Krish01agrawal/Lifafa-B/pkg/config"

	"github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type recordingUsecase struct {
	mu     sync.Mutex
	synced []string
}

func (r *recordingUsecase) SyncUser(ctx context.Context, userID, accessToken string, max int64) *SyncResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.synced = append(r.synced, userID)
	return &SyncResult{Status: StatusSuccess}
}

func (r *recordingUsecase) syncedUsers() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.synced...)
}

func pollerFixture(t *testing.T) (*Poller, authrepo.UserRepository, *recordingUsecase) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&authdomain.User{}, &domain.EmailRecord{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	log := logrus.New()
	log.SetOutput(io.Discard)

	userRepo := authrepo.NewUserRepository(db)
	rec := &recordingUsecase{}
	cfg := &config.Config{
		SyncInterval:   time.Minute,
		SyncStaleAfter: 10 * time.Minute,
		SyncMaxResults: 10,
	}
	return NewPoller(userRepo, rec, cfg, log), userRepo, rec
}

func TestPollerSyncsPendingUsers(t *testing.T) {
	poller, userRepo, rec := pollerFixture(t)

	if err := userRepo.Create(&authdomain.User{UserID: "pending", AccessToken: "tok"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := userRepo.Create(&authdomain.User{UserID: "synced", AccessToken: "tok"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := userRepo.SetSyncState("synced", authdomain.SyncDone, time.Now()); err != nil {
		t.Fatalf("set state: %v", err)
	}

	poller.runOnce()

	synced := rec.syncedUsers()
	if len(synced) != 1 || synced[0] != "pending" {
		t.Fatalf("expected only the pending user synced, got %v", synced)
	}
}

func TestPollerSkipsCredentiallessUsers(t *testing.T) {
	poller, userRepo, rec := pollerFixture(t)

	if err := userRepo.Create(&authdomain.User{UserID: "no-creds"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	poller.runOnce()

	if synced := rec.syncedUsers(); len(synced) != 0 {
		t.Fatalf("expected no syncs for credentialless user, got %v", synced)
	}
}

func TestPollerReclaimsStaleInProgress(t *testing.T) {
	poller, userRepo, rec := pollerFixture(t)

	if err := userRepo.Create(&authdomain.User{UserID: "stuck", AccessToken: "tok"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := userRepo.SetSyncState("stuck", authdomain.SyncInProgress, time.Now().Add(-30*time.Minute)); err != nil {
		t.Fatalf("set state: %v", err)
	}

	if err := userRepo.Create(&authdomain.User{UserID: "active", AccessToken: "tok"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := userRepo.SetSyncState("active", authdomain.SyncInProgress, time.Now()); err != nil {
		t.Fatalf("set state: %v", err)
	}

	poller.runOnce()

	synced := rec.syncedUsers()
	if len(synced) != 1 || synced[0] != "stuck" {
		t.Fatalf("expected only the stale sync reclaimed, got %v", synced)
	}
}

func TestPollerStartStop(t *testing.T) {
	poller, userRepo, rec := pollerFixture(t)

	if err := userRepo.Create(&authdomain.User{UserID: "u1", AccessToken: "tok"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	poller.Start()
	defer poller.Stop()

	// First sweep runs immediately, before the first tick.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if len(rec.syncedUsers()) > 0 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("expected an immediate first sweep")
}
