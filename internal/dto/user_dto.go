package dto

import "github.com/staffroom/logbook-api/internal/models"

// UserResponse serializes a staff profile for API clients.
type UserResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	Email      string `json:"email"`
	Avatar     string `json:"avatar,omitempty"`
	Subjects   string `json:"subjects,omitempty"`
	Classes    string `json:"classes,omitempty"`
	Bio        string `json:"bio,omitempty"`
	Experience int    `json:"experience"`
}

// ProfileUpdateRequest patches the optional profile fields. Role and email
// are immutable through this endpoint.
type ProfileUpdateRequest struct {
	Name       *string `json:"name" validate:"omitempty,min=2"`
	Subjects   *string `json:"subjects" validate:"omitempty,max=255"`
	Classes    *string `json:"classes" validate:"omitempty,max=255"`
	Bio        *string `json:"bio" validate:"omitempty,max=2000"`
	Experience *int    `json:"experience" validate:"omitempty,gte=0"`
	Avatar     *string `json:"avatar"`
}

// NewUserResponse converts a user model into its response shape.
func NewUserResponse(user models.User) UserResponse {
	return UserResponse{
		ID:         user.ID,
		Name:       user.Name,
		Role:       string(user.Role),
		Email:      user.Email,
		Avatar:     user.Avatar,
		Subjects:   user.Subjects,
		Classes:    user.Classes,
		Bio:        user.Bio,
		Experience: user.Experience,
	}
}
