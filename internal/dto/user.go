package dto

import "github.com/GregMSThompson/ledger-backend/internal/models"

type RegisterRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Username    string `json:"username"`
	PhoneNumber string `json:"phone_number"`
	Image       string `json:"image"`
	Password    string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// UpdateUserRequest leaves nil fields unchanged.
type UpdateUserRequest struct {
	Name        *string `json:"name"`
	Email       *string `json:"email"`
	Username    *string `json:"username"`
	PhoneNumber *string `json:"phone_number"`
	Image       *string `json:"image"`
	Password    *string `json:"password"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
