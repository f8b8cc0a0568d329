package controllers

import (
	"net/http"

	"storyhub/backend/app/dto"
	"storyhub/backend/app/middleware"
	"storyhub/backend/app/models"
	"storyhub/backend/app/services"
)

type StoryController struct {
	Stories *services.StoryService
	Likes   *services.LikeService
}

func NewStoryController(stories *services.StoryService, likes *services.LikeService) *StoryController {
	return &StoryController{Stories: stories, Likes: likes}
}

// Create POST /stories
func (c *StoryController) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateStoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	story, err := c.Stories.Submit(middleware.GetIdentity(r.Context()), req.Title, req.Content)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, story)
}

// Public GET /stories/public
func (c *StoryController) Public(w http.ResponseWriter, r *http.Request) {
	list, err := c.Stories.ListPublic()
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// Mine GET /stories/my
func (c *StoryController) Mine(w http.ResponseWriter, r *http.Request) {
	list, err := c.Stories.ListMine(middleware.GetIdentity(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// Pending GET /stories/pending
func (c *StoryController) Pending(w http.ResponseWriter, r *http.Request) {
	list, err := c.Stories.ListPending(middleware.GetIdentity(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// Get GET /stories/{id}
func (c *StoryController) Get(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.GetIdentity(r.Context())
	story, err := c.Stories.Get(viewer, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	out := dto.StoryDetail{Story: *story}
	if viewer != nil && story.Status == models.StoryApproved {
		liked, err := c.Likes.HasLiked(viewer, story.ID)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		out.Liked = &liked
	}
	writeJSON(w, http.StatusOK, out)
}

// Moderate PUT /stories/{id}/moderate
func (c *StoryController) Moderate(w http.ResponseWriter, r *http.Request) {
	var req dto.ModerateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	story, err := c.Stories.Moderate(middleware.GetIdentity(r.Context()), r.PathValue("id"), models.StoryStatus(req.Status))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, story)
}

// Like POST /stories/{id}/like
func (c *StoryController) Like(w http.ResponseWriter, r *http.Request) {
	res, err := c.Likes.Toggle(middleware.GetIdentity(r.Context()), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	msg := "Story unliked"
	if res.Liked {
		msg = "Story liked"
	}
	writeJSON(w, http.StatusOK, dto.LikeResponse{Message: msg, Likes: res.Likes, Liked: res.Liked})
}
