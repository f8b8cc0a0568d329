package dto

import "storyhub/backend/app/models"

type RegisterRequest struct {
	Username string  `json:"username" validate:"max=191"`
	Password string  `json:"password" validate:"max=72"`
	Email    *string `json:"email,omitempty" validate:"omitempty,max=255"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type TokenResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        *models.User `json:"user"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password" validate:"max=72"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
