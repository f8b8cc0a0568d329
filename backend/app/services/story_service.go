package services

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"storyhub/backend/app/models"
	"storyhub/backend/app/repo"

	"gorm.io/gorm"
)

const (
	maxTitleChars   = 200
	maxContentBytes = 60000
)

// StoryService owns the moderation workflow:
//
//	pending -> approved
//	pending -> rejected
//
// approved and rejected are terminal.
type StoryService struct {
	stories  *repo.StoryRepository
	sanitize *ContentSanitizer
	now      func() time.Time
}

func NewStoryService(stories *repo.StoryRepository, sanitize *ContentSanitizer) *StoryService {
	if sanitize == nil {
		sanitize = NewContentSanitizer()
	}
	return &StoryService{stories: stories, sanitize: sanitize, now: func() time.Time { return time.Now().UTC() }}
}

// SetClock replaces the time source used for created_at/approved_at.
func (s *StoryService) SetClock(now func() time.Time) { s.now = now }

func (s *StoryService) Submit(author *Identity, title, content string) (*models.Story, error) {
	if author == nil {
		return nil, ErrUnauthorized
	}
	if strings.TrimSpace(title) == "" || strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: title and content are required", ErrInvalidInput)
	}
	title = s.sanitize.Title(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is empty", ErrInvalidInput)
	}
	if utf8.RuneCountInString(title) > maxTitleChars {
		return nil, fmt.Errorf("%w: title longer than %d characters", ErrInvalidInput, maxTitleChars)
	}
	content = s.sanitize.Content(content)
	if content == "" {
		return nil, fmt.Errorf("%w: content is empty after sanitizing", ErrInvalidInput)
	}
	if len(content) > maxContentBytes {
		return nil, fmt.Errorf("%w: content too large", ErrInvalidInput)
	}

	story := &models.Story{
		AuthorID:       author.UserID,
		AuthorUsername: author.Username,
		Title:          title,
		Content:        content,
		Status:         models.StoryPending,
		CreatedAt:      s.now(),
	}
	if err := s.stories.Create(story); err != nil {
		return nil, err
	}
	return story, nil
}

func (s *StoryService) Moderate(moderator *Identity, storyID string, decision models.StoryStatus) (*models.Story, error) {
	if moderator == nil {
		return nil, ErrUnauthorized
	}
	if !moderator.IsAdmin {
		return nil, fmt.Errorf("%w: admin role required", ErrForbidden)
	}
	if !decision.Valid() || decision == models.StoryPending {
		return nil, fmt.Errorf("%w: decision must be approved or rejected", ErrInvalidInput)
	}
	story, err := s.find(storyID)
	if err != nil {
		return nil, err
	}
	if story.AuthorID == moderator.UserID {
		return nil, fmt.Errorf("%w: cannot moderate your own story", ErrForbidden)
	}
	if story.Status != models.StoryPending {
		return nil, fmt.Errorf("%w: story already %s", ErrInvalidState, story.Status)
	}

	var approvedAt *time.Time
	if decision == models.StoryApproved {
		now := s.now()
		approvedAt = &now
	}
	won, err := s.stories.Decide(story.ID, decision, approvedAt)
	if err != nil {
		return nil, err
	}
	if !won {
		return nil, fmt.Errorf("%w: story was moderated concurrently", ErrInvalidState)
	}
	story.Status = decision
	story.ApprovedAt = approvedAt
	return story, nil
}

// ListPublic needs no identity.
func (s *StoryService) ListPublic() ([]models.Story, error) {
	return nonNil(s.stories.ListApproved())
}

func (s *StoryService) ListMine(user *Identity) ([]models.Story, error) {
	if user == nil {
		return nil, ErrUnauthorized
	}
	return nonNil(s.stories.ListByAuthor(user.UserID))
}

func (s *StoryService) ListPending(moderator *Identity) ([]models.Story, error) {
	if moderator == nil {
		return nil, ErrUnauthorized
	}
	if !moderator.IsAdmin {
		return nil, fmt.Errorf("%w: admin role required", ErrForbidden)
	}
	return nonNil(s.stories.ListPending())
}

// Get returns one story. Unapproved stories are only visible to their author
// and to admins; for anyone else they do not exist.
func (s *StoryService) Get(viewer *Identity, storyID string) (*models.Story, error) {
	story, err := s.find(storyID)
	if err != nil {
		return nil, err
	}
	if story.Status == models.StoryApproved {
		return story, nil
	}
	if viewer != nil && (viewer.IsAdmin || viewer.UserID == story.AuthorID) {
		return story, nil
	}
	return nil, fmt.Errorf("%w: story %s", ErrNotFound, storyID)
}

func (s *StoryService) find(storyID string) (*models.Story, error) {
	if storyID == "" {
		return nil, fmt.Errorf("%w: story id is required", ErrInvalidInput)
	}
	story, err := s.stories.FindByID(storyID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: story %s", ErrNotFound, storyID)
	}
	if err != nil {
		return nil, err
	}
	return story, nil
}

func nonNil(list []models.Story, err error) ([]models.Story, error) {
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []models.Story{}
	}
	return list, nil
}
