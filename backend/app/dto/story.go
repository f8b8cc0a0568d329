package dto

import "storyhub/backend/app/models"

type CreateStoryRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type ModerateRequest struct {
	Status string `json:"status" validate:"required,oneof=approved rejected"`
}

type LikeResponse struct {
	Message string `json:"message"`
	Likes   int64  `json:"likes"`
	Liked   bool   `json:"liked"`
}

// StoryDetail adds the caller's like state to a single story.
type StoryDetail struct {
	models.Story
	Liked *bool `json:"liked,omitempty"`
}

type UploadResponse struct {
	URL string `json:"url"`
}
