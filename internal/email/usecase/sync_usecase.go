package usecase

import (
	"context"
	"fmt"
	"time"

	authdomain "github.com/Krish01agrawal/Lifafa-B/internal/auth/domain"
	authrepo "github.com/Krish01agrawal/Lifafa-B/internal/auth/repository"
	authusecase "github.com/Krish01agrawal/Lifafa-B/internal/auth/usecase"
	"github.com/Krish01agrawal/Lifafa-B/internal/email/domain"
	"github.com/Krish01agrawal/Lifafa-B/internal/email/repository"
	"github.com/Krish01agrawal/Lifafa-B/pkg/config"
	"github.com/Krish01agrawal/Lifafa-B/pkg/memory"

	"github.com/sirupsen/logrus"
)

// TokenRefresher is the slice of the auth usecase the sync path needs.
type TokenRefresher interface {
	RefreshGoogleToken(ctx context.Context, refreshToken string) (*authusecase.RefreshedToken, error)
}

type syncUsecase struct {
	userRepo  authrepo.UserRepository
	emailRepo repository.EmailRepository
	mail      domain.MailSource
	memory    memory.Store // nil when the memory platform is disabled
	refresher TokenRefresher
	config    *config.Config
	log       *logrus.Logger
}

func NewEmailUsecase(
	userRepo authrepo.UserRepository,
	emailRepo repository.EmailRepository,
	mail domain.MailSource,
	mem memory.Store,
	refresher TokenRefresher,
	cfg *config.Config,
	log *logrus.Logger,
) EmailUsecase {
	return &syncUsecase{
		userRepo:  userRepo,
		emailRepo: emailRepo,
		mail:      mail,
		memory:    mem,
		refresher: refresher,
		config:    cfg,
		log:       log,
	}
}

func (u *syncUsecase) SyncUser(ctx context.Context, userID, accessToken string, max int64) *SyncResult {
	user, err := u.userRepo.FindByUserID(userID)
	if err != nil {
		return errResult("failed to load user: %v", err)
	}
	if user == nil {
		return errResult("user not found")
	}

	// Mark in_progress before touching the network so a concurrent trigger
	// and the background poller both see the sync as taken.
	if err := u.userRepo.SetSyncState(userID, authdomain.SyncInProgress, time.Now()); err != nil {
		return errResult("failed to mark sync started: %v", err)
	}

	log := u.log.WithField("user_id", userID)

	token := accessToken
	if token == "" {
		token, err = u.resolveToken(ctx, user)
		if err != nil {
			u.markFailed(userID, log, "token refresh failed", err)
			if domain.IsAuthError(err) {
				return errResult("access expired, please re-authenticate")
			}
			return errResult("failed to refresh access token")
		}
	}

	records, err := u.mail.FetchRecent(ctx, token, max)
	if err != nil {
		classified := domain.Classify("failed to fetch emails", err)
		u.markFailed(userID, log, "fetch failed", classified)
		if classified.Kind == domain.KindAuth {
			return errResult("access expired, please re-authenticate")
		}
		return errResult("failed to fetch emails: %s", classified.Kind)
	}

	if len(records) > 0 {
		for _, rec := range records {
			rec.UserID = userID
		}
		if err := u.emailRepo.ReplaceForUser(userID, records); err != nil {
			u.markFailed(userID, log, "store failed", err)
			return errResult("failed to store emails")
		}
		u.uploadMemories(ctx, userID, records, log)
	}

	if err := u.userRepo.SetSyncState(userID, authdomain.SyncDone, time.Now()); err != nil {
		log.WithError(err).Error("failed to mark sync done")
	}

	log.WithField("email_count", len(records)).Info("email sync completed")
	return &SyncResult{
		Status:  StatusSuccess,
		Message: fmt.Sprintf("fetched %d emails", len(records)),
		Count:   len(records),
	}
}

// resolveToken returns a usable access credential for the user, refreshing
// and persisting it when the stored one is expired or about to be.
func (u *syncUsecase) resolveToken(ctx context.Context, user *authdomain.User) (string, error) {
	if !authusecase.AccessTokenExpired(user.TokenExpiry, time.Now()) {
		return user.AccessToken, nil
	}

	refreshed, err := u.refresher.RefreshGoogleToken(ctx, user.RefreshToken)
	if err != nil {
		return "", err
	}
	if err := u.userRepo.UpdateTokens(user.UserID, refreshed.AccessToken, refreshed.RefreshToken, refreshed.Expiry); err != nil {
		u.log.WithError(err).WithField("user_id", user.UserID).Error("failed to persist refreshed tokens")
	}
	return refreshed.AccessToken, nil
}

// uploadMemories pushes each stored email to the memory platform. Failures
// there degrade search quality but never fail the sync.
func (u *syncUsecase) uploadMemories(ctx context.Context, userID string, records []*domain.EmailRecord, log *logrus.Entry) {
	if u.memory == nil {
		return
	}
	failed := 0
	for _, rec := range records {
		if err := u.memory.UpsertEmail(ctx, userID, rec); err != nil {
			failed++
			log.WithError(err).WithField("message_id", rec.MessageID).Warn("memory upsert failed")
		}
	}
	if failed > 0 {
		log.WithFields(logrus.Fields{
			"failed": failed,
			"total":  len(records),
		}).Warn("some emails were not uploaded to memory")
	}
}

func (u *syncUsecase) markFailed(userID string, log *logrus.Entry, stage string, err error) {
	log.WithError(err).Error("email sync failed: " + stage)
	if serr := u.userRepo.SetSyncState(userID, authdomain.SyncFailed, time.Now()); serr != nil {
		log.WithError(serr).Error("failed to mark sync failed")
	}
}

func errResult(format string, args ...interface{}) *SyncResult {
	return &SyncResult{Status: StatusError, Message: fmt.Sprintf(format, args...)}
}
