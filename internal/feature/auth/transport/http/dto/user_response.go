package dto

import (
	"time"

	"todo_backend/internal/feature/auth/domain/entity"
)

// UserResponse is the public view of a user. The password digest is never serialized.
type UserResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewUserResponses converts stored users to their public view.
func NewUserResponses(users []entity.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, UserResponse{ID: u.ID, Name: u.Name, Username: u.Username, CreatedAt: u.CreatedAt})
	}
	return out
}
