package delivery

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	authdomain "github.com/Krish01agrawal/Lifafa-B/internal/auth/domain"
	authrepo "github.com/Krish01agrawal/Lifafa-B/internal/auth/repository"
	emaildomain "github.com/Krish01agrawal/Lifafa-B/internal/email/domain"
	emailrepo "github.com/Krish01agrawal/Lifafa-B/internal/email/repository"
	"github.com/Krish01agrawal/Lifafa-B/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func meFixture(t *testing.T) (*AuthHandler, authrepo.UserRepository, emailrepo.EmailRepository) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&authdomain.User{}, &emaildomain.EmailRecord{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	log := logrus.New()
	log.SetOutput(io.Discard)

	userRepo := authrepo.NewUserRepository(db)
	emailRepo := emailrepo.NewEmailRepository(db)
	handler := NewAuthHandler(nil, userRepo, emailRepo, &config.Config{}, log)
	return handler, userRepo, emailRepo
}

func callMe(t *testing.T, handler *AuthHandler, user *authdomain.User) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/me", nil)
	c.Set("user", user)

	handler.Me(c)

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return w, body
}

func TestMeReportsCompletedSync(t *testing.T) {
	handler, userRepo, emailRepo := meFixture(t)

	if err := userRepo.Create(&authdomain.User{UserID: "u1", Email: "u1@example.com"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := emailRepo.ReplaceForUser("u1", []*emaildomain.EmailRecord{{MessageID: "m1"}}); err != nil {
		t.Fatalf("seed emails: %v", err)
	}
	if err := userRepo.SetSyncState("u1", authdomain.SyncDone, time.Now()); err != nil {
		t.Fatalf("set state: %v", err)
	}

	user, _ := userRepo.FindByUserID("u1")
	_, body := callMe(t, handler, user)

	if body["sync_completed"] != true {
		t.Errorf("expected sync_completed true, got %v", body["sync_completed"])
	}
	if body["email_count"] != float64(1) {
		t.Errorf("expected email_count 1, got %v", body["email_count"])
	}
}

func TestMeResetsDoneStateWithEmptyMailbox(t *testing.T) {
	handler, userRepo, _ := meFixture(t)

	if err := userRepo.Create(&authdomain.User{UserID: "u1"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	// Done state but nothing stored: the table was wiped out from under it.
	if err := userRepo.SetSyncState("u1", authdomain.SyncDone, time.Now()); err != nil {
		t.Fatalf("set state: %v", err)
	}

	user, _ := userRepo.FindByUserID("u1")
	_, body := callMe(t, handler, user)

	if body["sync_completed"] != false {
		t.Errorf("expected sync_completed false, got %v", body["sync_completed"])
	}

	// The reconciliation is persisted, so the poller picks the user up again.
	stored, _ := userRepo.FindByUserID("u1")
	if stored.SyncState != authdomain.SyncIdle {
		t.Errorf("expected stored state reset to idle, got %s", stored.SyncState)
	}
	candidates, err := userRepo.FindSyncCandidates(time.Now().Add(-10 * time.Minute))
	if err != nil {
		t.Fatalf("find candidates: %v", err)
	}
	if len(candidates) != 1 || candidates[0].UserID != "u1" {
		t.Errorf("expected the reset user among sync candidates, got %v", candidates)
	}
}

func TestMeLeavesInProgressAlone(t *testing.T) {
	handler, userRepo, _ := meFixture(t)

	if err := userRepo.Create(&authdomain.User{UserID: "u1"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := userRepo.SetSyncState("u1", authdomain.SyncInProgress, time.Now()); err != nil {
		t.Fatalf("set state: %v", err)
	}

	user, _ := userRepo.FindByUserID("u1")
	_, body := callMe(t, handler, user)

	if body["sync_triggered"] != true || body["sync_completed"] != false {
		t.Errorf("unexpected flags: triggered=%v completed=%v", body["sync_triggered"], body["sync_completed"])
	}
	stored, _ := userRepo.FindByUserID("u1")
	if stored.SyncState != authdomain.SyncInProgress {
		t.Errorf("in-progress state must not be touched, got %s", stored.SyncState)
	}
}
