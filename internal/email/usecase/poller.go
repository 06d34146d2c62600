package usecase

import (
	"context"
	"time"

	authrepo "github.com/Krish01agrawal/Lifafa-B/internal/auth/repository"
	"github.com/Krish01agrawal/Lifafa-B/pkg/config"

	"github.com/sirupsen/logrus"
)

// Poller periodically sweeps users whose mailbox has not been synced yet and
// runs a sync for each. In-progress syncs whose state is older than the
// staleness cutoff are reclaimed: a crashed worker must not park a user
// forever.
type Poller struct {
	userRepo authrepo.UserRepository
	emails   EmailUsecase
	config   *config.Config
	log      *logrus.Logger
	stopChan chan struct{}
}

func NewPoller(userRepo authrepo.UserRepository, emails EmailUsecase, cfg *config.Config, log *logrus.Logger) *Poller {
	return &Poller{
		userRepo: userRepo,
		emails:   emails,
		config:   cfg,
		log:      log,
		stopChan: make(chan struct{}),
	}
}

func (p *Poller) Start() {
	go func() {
		ticker := time.NewTicker(p.config.SyncInterval)
		defer ticker.Stop()

		p.runOnce()
		for {
			select {
			case <-ticker.C:
				p.runOnce()
			case <-p.stopChan:
				return
			}
		}
	}()
	p.log.WithField("interval", p.config.SyncInterval.String()).Info("background sync poller started")
}

func (p *Poller) Stop() {
	close(p.stopChan)
}

func (p *Poller) runOnce() {
	staleBefore := time.Now().Add(-p.config.SyncStaleAfter)
	users, err := p.userRepo.FindSyncCandidates(staleBefore)
	if err != nil {
		p.log.WithError(err).Error("failed to list sync candidates")
		return
	}
	if len(users) == 0 {
		return
	}
	p.log.WithField("candidates", len(users)).Info("background sync sweep")

	for _, user := range users {
		if user.UserID == "" {
			continue
		}
		if user.AccessToken == "" && user.RefreshToken == "" {
			p.log.WithField("user_id", user.UserID).Warn("skipping sync: no stored credentials")
			continue
		}
		result := p.emails.SyncUser(context.Background(), user.UserID, "", p.config.SyncMaxResults)
		if result.Status != StatusSuccess {
			p.log.WithFields(logrus.Fields{
				"user_id": user.UserID,
				"message": result.Message,
			}).Warn("background sync failed")
		}
	}
}
