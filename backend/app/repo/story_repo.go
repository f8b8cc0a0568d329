package repo

import (
	"storyhub/backend/app/models"
	"time"

	"gorm.io/gorm"
)

type StoryRepository struct{ db *gorm.DB }

func NewStoryRepository(db *gorm.DB) *StoryRepository { return &StoryRepository{db: db} }

func (r *StoryRepository) Create(s *models.Story) error { return r.db.Create(s).Error }

func (r *StoryRepository) FindByID(id string) (*models.Story, error) {
	var s models.Story
	if err := r.db.Where("id = ?", id).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// ListApproved returns approved stories, most recently approved first.
func (r *StoryRepository) ListApproved() ([]models.Story, error) {
	var out []models.Story
	err := r.db.Where("status = ?", models.StoryApproved).
		Order("approved_at DESC").Order("id ASC").
		Find(&out).Error
	return out, err
}

// ListByAuthor returns every story of one author, newest first.
func (r *StoryRepository) ListByAuthor(authorID string) ([]models.Story, error) {
	var out []models.Story
	err := r.db.Where("author_id = ?", authorID).
		Order("created_at DESC").Order("id ASC").
		Find(&out).Error
	return out, err
}

// ListPending returns the review queue, oldest first.
func (r *StoryRepository) ListPending() ([]models.Story, error) {
	var out []models.Story
	err := r.db.Where("status = ?", models.StoryPending).
		Order("created_at ASC").Order("id ASC").
		Find(&out).Error
	return out, err
}

// Decide moves a pending story to status. The status check and the write are
// one conditional UPDATE, so of two concurrent calls at most one reports true.
func (r *StoryRepository) Decide(id string, status models.StoryStatus, approvedAt *time.Time) (bool, error) {
	res := r.db.Model(&models.Story{}).
		Where("id = ? AND status = ?", id, models.StoryPending).
		Updates(map[string]any{
			"status":      status,
			"approved_at": approvedAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
