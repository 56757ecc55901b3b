package usecase

import (
	"unicode/utf8"

	"todo_backend/internal/feature/tasks/domain/entity"
)

const (
	msgTitleRequired      = "O título da tarefa é obrigatório."
	msgTitleTooLong       = "O título da tarefa deve ter no máximo 50 caracteres."
	msgDescriptionTooLong = "A descrição da tarefa deve ter no máximo 500 caracteres."
	msgDueBeforeCreated   = "A data de término não pode ser anterior à data de cadastro."
)

// Validate checks a task against the task rules in a fixed order and reports the first failure.
// It returns (true, "") only when every rule passes.
func Validate(t *entity.Task) (bool, string) {
	switch {
	case t.Title == "":
		return false, msgTitleRequired
	case utf8.RuneCountInString(t.Title) > entity.MaxTitleLength:
		return false, msgTitleTooLong
	case utf8.RuneCountInString(t.Description) > entity.MaxDescriptionLength:
		return false, msgDescriptionTooLong
	case t.DueDate.Before(t.CreatedAt):
		return false, msgDueBeforeCreated
	}
	return true, ""
}
