package dto

import "github.com/btlam02/gis-app/internal/entity"

type RegisterInput struct {
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required,min=8"`
	FullName *string `json:"full_name"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse mirrors the original login contract: identity, both tokens
// and their configured lifetimes in seconds.
type LoginResponse struct {
	Email          string      `json:"email"`
	Role           entity.Role `json:"role"`
	AccessToken    string      `json:"access_token"`
	RefreshToken   string      `json:"refresh_token"`
	AccessExpires  int64       `json:"access_expires"`
	RefreshExpires int64       `json:"refresh_expires"`
}

// RefreshInput carries the refresh token for both the refresh and logout
// endpoints (body field "refresh").
type RefreshInput struct {
	Refresh string `json:"refresh" binding:"required"`
}

// CreateUserInput is the admin-only creation payload; unlike registration it
// sets the role explicitly.
type CreateUserInput struct {
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required,min=8"`
	FullName *string `json:"full_name"`
	Role     string  `json:"role" binding:"required,oneof=admin engineer user"`
	IsStaff  *bool   `json:"is_staff"`
}

type UpdateUserInput struct {
	Email    *string `json:"email" binding:"omitempty,email"`
	Password *string `json:"password" binding:"omitempty,min=8"`
	FullName *string `json:"full_name"`
	Role     *string `json:"role" binding:"omitempty,oneof=admin engineer user"`
	IsActive *bool   `json:"is_active"`
	IsStaff  *bool   `json:"is_staff"`
}
