// Package entity defines the domain entities for the tasks feature.
package entity

import "time"

const (
	MaxTitleLength       = 50
	MaxDescriptionLength = 500
)

// Task is a to-do item owned by exactly one user.
type Task struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	DueDate     time.Time `json:"dueDate"`
	// CreatedByUserID is the owner. It never changes after creation.
	CreatedByUserID uint   `json:"createdByUserId"`
	Status          Status `json:"status"`
}
