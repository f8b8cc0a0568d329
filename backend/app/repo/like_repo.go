package repo

import (
	"storyhub/backend/app/models"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LikeRepository struct{ db *gorm.DB }

func NewLikeRepository(db *gorm.DB) *LikeRepository { return &LikeRepository{db: db} }

// Transaction runs fn with a repository bound to one database transaction.
func (r *LikeRepository) Transaction(fn func(tx *LikeRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&LikeRepository{db: tx})
	})
}

// LockStory loads the story with SELECT ... FOR UPDATE, so toggles on one
// story run one after another until the transaction ends. sqlite has no
// row locks; there the immediate transaction already holds the write lock.
func (r *LikeRepository) LockStory(id string) (*models.Story, error) {
	var s models.Story
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Remove deletes the (story, user) membership and reports whether it existed.
func (r *LikeRepository) Remove(storyID, userID string) (bool, error) {
	res := r.db.Where("story_id = ? AND user_id = ?", storyID, userID).Delete(&models.StoryLike{})
	return res.RowsAffected > 0, res.Error
}

// Add inserts the membership and reports whether a row was created; an
// existing row is left untouched.
func (r *LikeRepository) Add(storyID, userID string, at time.Time) (bool, error) {
	like := models.StoryLike{StoryID: storyID, UserID: userID, CreatedAt: at}
	res := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&like)
	return res.RowsAffected > 0, res.Error
}

func (r *LikeRepository) Count(storyID string) (int64, error) {
	var n int64
	err := r.db.Model(&models.StoryLike{}).Where("story_id = ?", storyID).Count(&n).Error
	return n, err
}

func (r *LikeRepository) Has(storyID, userID string) (bool, error) {
	var n int64
	err := r.db.Model(&models.StoryLike{}).Where("story_id = ? AND user_id = ?", storyID, userID).Count(&n).Error
	return n > 0, err
}

// AdjustCount moves the denormalized counter by delta and returns the new value.
func (r *LikeRepository) AdjustCount(storyID string, delta int64) (int64, error) {
	if delta != 0 {
		err := r.db.Model(&models.Story{}).Where("id = ?", storyID).
			UpdateColumn("likes", gorm.Expr("likes + ?", delta)).Error
		if err != nil {
			return 0, err
		}
	}
	var n int64
	err := r.db.Model(&models.Story{}).Select("likes").Where("id = ?", storyID).Scan(&n).Error
	return n, err
}
