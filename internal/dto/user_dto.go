package dto

import "github.com/inquizitive-iiitdwd/inquizitive.web/internal/models"

type RegisterUserRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required"`
	UserName    string `json:"user_name" binding:"required"`
	PhoneNumber string `json:"phone_number"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ResendVerificationRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileRequest struct {
	UserName    string `json:"user_name"`
	PhoneNumber string `json:"phone_number"`
	Email       string `json:"email" binding:"omitempty,email"`
	Password    string `json:"password"`
}

type UserResponse struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	UserName    string `json:"user_name"`
	PhoneNumber string `json:"phone_number,omitempty"`
	Role        string `json:"role"`
	Verified    bool   `json:"verified"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}

func FromUser(user *models.User) UserResponse {
	return UserResponse{
		ID:          user.ID,
		Email:       user.Email,
		UserName:    user.UserName,
		PhoneNumber: user.PhoneNumber.String,
		Role:        user.Role,
		Verified:    user.Verified,
		AvatarURL:   user.AvatarURL.String,
	}
}

type LoginResponse struct {
	Success bool         `json:"success"`
	User    UserResponse `json:"user"`
	Message string       `json:"message,omitempty"`
}

type AvatarResponse struct {
	Success   bool   `json:"success"`
	AvatarURL string `json:"avatar_url"`
}
