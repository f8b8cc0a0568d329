package controllers

import (
	"net/http"

	"storyhub/backend/app/dto"
	"storyhub/backend/app/middleware"
	"storyhub/backend/app/services"
)

type UploadController struct{ Uploads *services.UploadService }

func NewUploadController(uploads *services.UploadService) *UploadController {
	return &UploadController{Uploads: uploads}
}

// Image POST /uploads, multipart field "image".
func (c *UploadController) Image(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, c.Uploads.MaxBytes()+(1<<20))
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "missing image")
		return
	}
	defer file.Close()

	url, err := c.Uploads.UploadImage(r.Context(), middleware.GetIdentity(r.Context()), file, header.Size)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.UploadResponse{URL: url})
}
