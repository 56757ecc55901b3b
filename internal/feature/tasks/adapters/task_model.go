// Package adapters はtasksフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"time"

	"todo_backend/internal/feature/tasks/domain/entity"
)

// TaskModel is the gorm row for a task. Status is stored as its integer value.
// Title and Description are unbounded text; length rules are enforced by Validate only.
type TaskModel struct {
	ID              uint      `gorm:"primaryKey"`
	Title           string    `gorm:"type:text;not null"`
	Description     string    `gorm:"type:text"`
	CreatedAt       time.Time `gorm:"not null"`
	DueDate         time.Time `gorm:"not null;index"`
	CreatedByUserID uint      `gorm:"not null;index"`
	Status          int       `gorm:"not null;default:0"`
}

// TableName overrides the default pluralised model name.
func (TaskModel) TableName() string { return "tasks" }

func toModel(t *entity.Task) TaskModel {
	return TaskModel{
		ID:              t.ID,
		Title:           t.Title,
		Description:     t.Description,
		CreatedAt:       t.CreatedAt.UTC(),
		DueDate:         t.DueDate.UTC(),
		CreatedByUserID: t.CreatedByUserID,
		Status:          int(t.Status),
	}
}

func (m TaskModel) toEntity() entity.Task {
	return entity.Task{
		ID:              m.ID,
		Title:           m.Title,
		Description:     m.Description,
		CreatedAt:       m.CreatedAt.UTC(),
		DueDate:         m.DueDate.UTC(),
		CreatedByUserID: m.CreatedByUserID,
		Status:          entity.Status(m.Status),
	}
}
