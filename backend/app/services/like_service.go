package services

import (
	"errors"
	"fmt"
	"time"

	"storyhub/backend/app/models"
	"storyhub/backend/app/repo"

	"gorm.io/gorm"
)

type LikeResult struct {
	Likes int64
	Liked bool
}

type LikeService struct {
	likes *repo.LikeRepository
	now   func() time.Time
}

func NewLikeService(likes *repo.LikeRepository) *LikeService {
	return &LikeService{likes: likes, now: func() time.Time { return time.Now().UTC() }}
}

// Toggle flips the caller's membership in the story's like set. The story
// row is locked first, so concurrent toggles on one story are applied one at
// a time and the counter moves by exactly the rows added or removed.
func (s *LikeService) Toggle(user *Identity, storyID string) (*LikeResult, error) {
	if user == nil {
		return nil, ErrUnauthorized
	}
	var result LikeResult
	err := s.likes.Transaction(func(tx *repo.LikeRepository) error {
		story, err := tx.LockStory(storyID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: story %s", ErrNotFound, storyID)
		}
		if err != nil {
			return err
		}
		if story.Status != models.StoryApproved {
			return fmt.Errorf("%w: only approved stories can be liked", ErrInvalidState)
		}

		removed, err := tx.Remove(storyID, user.UserID)
		if err != nil {
			return err
		}
		delta := int64(-1)
		if !removed {
			added, err := tx.Add(storyID, user.UserID, s.now())
			if err != nil {
				return err
			}
			delta = 0
			if added {
				delta = 1
			}
		}
		likes, err := tx.AdjustCount(storyID, delta)
		if err != nil {
			return err
		}
		result = LikeResult{Likes: likes, Liked: !removed}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// HasLiked reports whether user is in the story's like set.
func (s *LikeService) HasLiked(user *Identity, storyID string) (bool, error) {
	if user == nil {
		return false, nil
	}
	return s.likes.Has(storyID, user.UserID)
}
