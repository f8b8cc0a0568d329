package controllers

import (
	"net/http"

	"gorm.io/gorm"
)

// HTTPController answers health checks.
type HTTPController struct {
	DB *gorm.DB
}

func NewHTTPController(db *gorm.DB) *HTTPController {
	return &HTTPController{DB: db}
}

// Ping GET /ping. 503 when the database does not answer.
func (c *HTTPController) Ping(w http.ResponseWriter, r *http.Request) {
	if c.DB != nil {
		sqlDB, err := c.DB.DB()
		if err == nil {
			err = sqlDB.PingContext(r.Context())
		}
		if err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "db": err.Error()})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "pong"})
}
