// Package dto defines data transfer objects for the tasks feature's HTTP transport layer.
package dto

import (
	"time"

	"todo_backend/internal/feature/tasks/domain/entity"
)

// TaskReq is the body of POST /tasks and PUT /tasks/:id.
// Title and description rules are enforced by the usecase so that callers get its exact messages.
type TaskReq struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	DueDate     time.Time     `json:"dueDate" binding:"required"`
	Status      entity.Status `json:"status"`
}
