package controllers

import (
	"net/http"

	"storyhub/backend/app/dto"
	"storyhub/backend/app/middleware"
	"storyhub/backend/app/services"
)

type AuthController struct {
	Users *services.UserService
}

func NewAuthController(users *services.UserService) *AuthController {
	return &AuthController{Users: users}
}

// Register POST /auth/register
func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	res, err := c.Users.Register(req.Username, req.Password, req.Email)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.TokenResponse{AccessToken: res.Token, TokenType: "bearer", User: res.User})
}

// Login POST /auth/login
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	res, err := c.Users.Login(req.Username, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.TokenResponse{AccessToken: res.Token, TokenType: "bearer", User: res.User})
}

// Me GET /auth/me
func (c *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	u, err := c.Users.Me(middleware.GetIdentity(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// ChangePassword PUT /auth/password
func (c *AuthController) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ChangePasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	if err := c.Users.ChangePassword(middleware.GetIdentity(r.Context()), req.CurrentPassword, req.NewPassword); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "password updated"})
}

// Logout POST /auth/logout
func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	if err := c.Users.Logout(r.Context(), middleware.GetIdentity(r.Context())); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "logged out"})
}
