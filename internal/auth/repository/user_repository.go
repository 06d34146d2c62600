package repository

import (
	"errors"
	"time"

	authdomain "github.com/Krish01agrawal/Lifafa-B/internal/auth/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// userRepository implements UserRepository on gorm.
type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{
		db: db,
	}
}

func (r *userRepository) Create(user *authdomain.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.SyncState == "" {
		user.SyncState = authdomain.SyncIdle
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	user.SyncStateUpdatedAt = now
	return r.db.Create(user).Error
}

func (r *userRepository) FindByUserID(userID string) (*authdomain.User, error) {
	var user authdomain.User
	err := r.db.Where("user_id = ?", userID).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Update(user *authdomain.User) error {
	user.UpdatedAt = time.Now()
	return r.db.Save(user).Error
}

func (r *userRepository) UpdateTokens(userID, accessToken, refreshToken, tokenExpiry string) error {
	return r.db.Model(&authdomain.User{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"access_token":  accessToken,
			"refresh_token": refreshToken,
			"token_expiry":  tokenExpiry,
			"updated_at":    time.Now(),
		}).Error
}

func (r *userRepository) SetSyncState(userID string, state authdomain.SyncState, at time.Time) error {
	return r.db.Model(&authdomain.User{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"sync_state":            state,
			"sync_state_updated_at": at,
			"updated_at":            at,
		}).Error
}

func (r *userRepository) FindSyncCandidates(staleBefore time.Time) ([]*authdomain.User, error) {
	var users []*authdomain.User
	err := r.db.
		Where("sync_state IN ?", []authdomain.SyncState{authdomain.SyncIdle, authdomain.SyncFailed}).
		Or("sync_state = ? AND sync_state_updated_at < ?", authdomain.SyncInProgress, staleBefore).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}
