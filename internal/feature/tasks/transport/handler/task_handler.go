// Package handler はtasksフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"todo_backend/internal/feature/tasks/domain/entity"
	"todo_backend/internal/feature/tasks/transport/http/dto"
	"todo_backend/internal/feature/tasks/usecase"
	"todo_backend/internal/platform/http/response"
	jwtmw "todo_backend/internal/platform/jwt"
)

// TaskUsecase はタスク操作のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type TaskUsecase interface {
	Create(ctx context.Context, in usecase.TaskInput, userID uint) (*entity.Task, error)
	GetByID(ctx context.Context, id, userID uint) (*entity.Task, error)
	List(ctx context.Context, in usecase.ListInput, userID uint) ([]entity.Task, error)
	Update(ctx context.Context, id uint, in usecase.TaskInput, userID uint) (*entity.Task, error)
	Delete(ctx context.Context, id, userID uint) error
}

// TaskHandler はタスクのHTTPリクエストを処理します。
// すべてのエンドポイントは jwtmw.AuthRequired の後ろに登録される前提です。
type TaskHandler struct {
	uc TaskUsecase
}

// NewTaskHandler は指定されたusecaseでTaskHandlerの新しいインスタンスを生成します。
func NewTaskHandler(uc TaskUsecase) *TaskHandler {
	return &TaskHandler{uc: uc}
}

// GetByID は所有者のタスクを1件返します。
//
// エンドポイント例:
// GET /tasks/:id
func (h *TaskHandler) GetByID(c *gin.Context) {
	userID, id, ok := h.identify(c)
	if !ok {
		return
	}
	task, err := h.uc.GetByID(c.Request.Context(), id, userID)
	if err != nil {
		writeError(c, err, "failed to get task")
		return
	}
	c.JSON(http.StatusOK, task)
}

// List は所有者のタスクを返します。
//
// エンドポイント例:
// GET /tasks?status=Pending&dueDate=2024-03-12
//
// dueDate は日付（YYYY-MM-DD）またはRFC 3339の日時を受け付け、記述された日付部分で絞り込みます。
// createdByUserId は受け付けますが無視し、所有者は常にトークンから決定します。
func (h *TaskHandler) List(c *gin.Context) {
	userID, ok := jwtmw.UserIDFrom(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorResponse{Error: "unauthorized"})
		return
	}

	var status *string
	if err := runtime.BindQueryParameter("form", true, false, "status", c.Request.URL.Query(), &status); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "invalid status parameter"})
		return
	}
	var dueDate *string
	if err := runtime.BindQueryParameter("form", true, false, "dueDate", c.Request.URL.Query(), &dueDate); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "invalid dueDate parameter"})
		return
	}

	in := usecase.ListInput{}
	if status != nil {
		in.Status = *status
	}
	if dueDate != nil {
		day, err := parseDueDay(*dueDate)
		if err != nil {
			slog.Warn("invalid dueDate filter", "error", err, "user_id", userID)
			c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "invalid dueDate parameter, expected YYYY-MM-DD or RFC 3339"})
			return
		}
		in.DueDate = &day
	}

	tasks, err := h.uc.List(c.Request.Context(), in, userID)
	if err != nil {
		writeError(c, err, "failed to list tasks")
		return
	}
	if tasks == nil {
		tasks = []entity.Task{}
	}
	c.JSON(http.StatusOK, tasks)
}

// Create は新しいタスクを作成し、201で返します。
func (h *TaskHandler) Create(c *gin.Context) {
	userID, ok := jwtmw.UserIDFrom(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorResponse{Error: "unauthorized"})
		return
	}
	var req dto.TaskReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("create task validation failed", "error", err, "user_id", userID)
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: err.Error()})
		return
	}

	task, err := h.uc.Create(c.Request.Context(), toInput(req), userID)
	if err != nil {
		writeError(c, err, "failed to create task")
		return
	}
	slog.Info("task created", "task_id", task.ID, "user_id", userID)
	c.Header("Location", "/tasks/"+strconv.FormatUint(uint64(task.ID), 10))
	c.JSON(http.StatusCreated, task)
}

// Update はタスクの可変フィールドを上書きします。
func (h *TaskHandler) Update(c *gin.Context) {
	userID, id, ok := h.identify(c)
	if !ok {
		return
	}
	var req dto.TaskReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("update task validation failed", "error", err, "user_id", userID)
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: err.Error()})
		return
	}

	task, err := h.uc.Update(c.Request.Context(), id, toInput(req), userID)
	if err != nil {
		writeError(c, err, "failed to update task")
		return
	}
	c.JSON(http.StatusOK, task)
}

// Delete はタスクを削除します。
func (h *TaskHandler) Delete(c *gin.Context) {
	userID, id, ok := h.identify(c)
	if !ok {
		return
	}
	if err := h.uc.Delete(c.Request.Context(), id, userID); err != nil {
		writeError(c, err, "failed to delete task")
		return
	}
	slog.Info("task deleted", "task_id", id, "user_id", userID)
	c.JSON(http.StatusOK, response.MessageResponse{Message: "task deleted successfully"})
}

// identify resolves the caller and the :id path parameter, writing the error response itself on failure.
func (h *TaskHandler) identify(c *gin.Context) (userID, id uint, ok bool) {
	userID, ok = jwtmw.UserIDFrom(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorResponse{Error: "unauthorized"})
		return 0, 0, false
	}
	n, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || n == 0 {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "invalid task id"})
		return 0, 0, false
	}
	return userID, uint(n), true
}

// parseDueDay returns midnight UTC of the calendar day written in s.
// Timestamps keep the date as written; the offset is not applied first.
func parseDueDay(s string) (time.Time, error) {
	t, err := time.Parse(openapi_types.DateFormat, s)
	if err != nil {
		t, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return time.Time{}, err
		}
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

func toInput(req dto.TaskReq) usecase.TaskInput {
	return usecase.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Status:      req.Status,
	}
}

// writeError maps usecase errors to HTTP responses.
func writeError(c *gin.Context, err error, action string) {
	var vErr *usecase.ValidationError
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: vErr.Message})
	case errors.Is(err, usecase.ErrTaskNotFound):
		c.JSON(http.StatusNotFound, response.ErrorResponse{Error: "task not found"})
	default:
		slog.Error(action, "error", err, "path", c.FullPath())
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{Error: action, Details: err.Error()})
	}
}
