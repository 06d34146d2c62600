package repository

import (
	"time"

	"github.com/Krish01agrawal/Lifafa-B/internal/email/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type emailRepository struct {
	db *gorm.DB
}

func NewEmailRepository(db *gorm.DB) EmailRepository {
	return &emailRepository{db: db}
}

func (r *emailRepository) ReplaceForUser(userID string, records []*domain.EmailRecord) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&domain.EmailRecord{}).Error; err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}
		now := time.Now()
		for _, rec := range records {
			if rec.ID == "" {
				rec.ID = uuid.New().String()
			}
			rec.UserID = userID
			rec.CreatedAt = now
		}
		return tx.CreateInBatches(records, 100).Error
	})
}

func (r *emailRepository) FindByUser(userID string) ([]*domain.EmailRecord, error) {
	var records []*domain.EmailRecord
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *emailRepository) CountByUser(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&domain.EmailRecord{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
