package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StoryStatus string

const (
	StoryPending  StoryStatus = "pending"
	StoryApproved StoryStatus = "approved"
	StoryRejected StoryStatus = "rejected"
)

// Valid reports whether s is one of the three known statuses.
func (s StoryStatus) Valid() bool {
	switch s {
	case StoryPending, StoryApproved, StoryRejected:
		return true
	}
	return false
}

// Story is immutable after submission except for Status, ApprovedAt and
// the derived Likes counter.
type Story struct {
	ID             string      `gorm:"primaryKey;size:36" json:"id"`
	AuthorID       string      `gorm:"size:36;not null;index" json:"author_id"`
	AuthorUsername string      `gorm:"size:191;not null" json:"author_username"`
	Title          string      `gorm:"size:255;not null" json:"title"`
	Content        string      `gorm:"type:text;not null" json:"content"`
	Status         StoryStatus `gorm:"size:16;not null;default:pending;index" json:"status"`
	Likes          int64       `gorm:"not null;default:0" json:"likes"`
	CreatedAt      time.Time   `gorm:"index" json:"created_at"`
	ApprovedAt     *time.Time  `gorm:"index" json:"approved_at"`
}

func (s *Story) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// StoryLike is one member of a story's like set. The composite primary key
// keeps a user from liking the same story twice.
type StoryLike struct {
	StoryID   string `gorm:"primaryKey;size:36"`
	UserID    string `gorm:"primaryKey;size:36;index"`
	CreatedAt time.Time
}
