package dto

import (
	"github.com/google/uuid"
)

type LoginRequest struct {
	UserUsername string `json:"user_username" validate:"required"`
	UserPassword string `json:"user_password" validate:"required"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type UserMeResponse struct {
	UserID       uuid.UUID `json:"user_id"`
	UserUsername string    `json:"user_username"`
	UserRole     string    `json:"user_role"`
}
