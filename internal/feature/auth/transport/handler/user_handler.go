package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"todo_backend/internal/feature/auth/domain/entity"
	"todo_backend/internal/feature/auth/transport/http/dto"
	"todo_backend/internal/feature/auth/usecase"
	"todo_backend/internal/platform/http/response"
	"todo_backend/internal/platform/validation"
)

// UserUsecase はユーザー管理操作のユースケースを定義します。
type UserUsecase interface {
	Register(ctx context.Context, in usecase.RegisterInput) error
	DeleteUser(ctx context.Context, id uint) error
	ListUsers(ctx context.Context) ([]entity.User, error)
}

// RegisterValidators registers the personname and username binding tags used by dto.RegisterReq.
func RegisterValidators() error {
	if err := validation.RegisterString("personname", entity.ValidName); err != nil {
		return err
	}
	return validation.RegisterString("username", entity.ValidUsername)
}

// UserHandler はユーザー管理のHTTPリクエストを処理します。
type UserHandler struct {
	users UserUsecase
}

// NewUserHandler はUserHandlerの新しいインスタンスを生成します。
func NewUserHandler(users UserUsecase) *UserHandler {
	return &UserHandler{users: users}
}

// Register はユーザー登録APIエンドポイントを処理します。
// ユーザー名の重複は汎用的な400として返し、既存ユーザーの有無を明かしません。
func (h *UserHandler) Register(c *gin.Context) {
	var req dto.RegisterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("register validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: err.Error()})
		return
	}

	err := h.users.Register(c.Request.Context(), usecase.RegisterInput{
		Name:     req.Name,
		Username: req.Username,
		Password: req.Password,
	})
	switch {
	case err == nil:
		slog.Info("user registered", "username", req.Username, "remote_addr", c.ClientIP())
		c.JSON(http.StatusOK, response.MessageResponse{Message: "user registered successfully"})
	case errors.Is(err, usecase.ErrUsernameTaken), errors.Is(err, usecase.ErrInvalidUser):
		slog.Warn("register failed", "error", err, "username", req.Username, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "failed to register user"})
	default:
		slog.Error("register error", "error", err, "username", req.Username)
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{Error: "failed to register user", Details: err.Error()})
	}
}

// Delete はIDでユーザーを削除します。
//
// エンドポイント例:
// DELETE /users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "invalid user id"})
		return
	}

	err = h.users.DeleteUser(c.Request.Context(), uint(id))
	switch {
	case err == nil:
		slog.Info("user deleted", "user_id", id)
		c.JSON(http.StatusOK, response.MessageResponse{Message: "user deleted successfully"})
	case errors.Is(err, usecase.ErrUserNotFound):
		c.JSON(http.StatusNotFound, response.ErrorResponse{Error: "user not found"})
	default:
		slog.Error("delete user error", "error", err, "user_id", id)
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{Error: "failed to delete user", Details: err.Error()})
	}
}

// List は全ユーザーをパスワードダイジェストなしで返します。
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.users.ListUsers(c.Request.Context())
	if err != nil {
		slog.Error("list users error", "error", err)
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{Error: "failed to list users", Details: err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.NewUserResponses(users))
}
