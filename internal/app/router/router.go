// Package router wires every HTTP route onto a gin engine.
package router

import (
	"fmt"
	"log/slog"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	authhandler "todo_backend/internal/feature/auth/transport/handler"
	taskhandler "todo_backend/internal/feature/tasks/transport/handler"
	"todo_backend/internal/platform/http/handler"
	"todo_backend/internal/platform/http/middleware"
	jwtmw "todo_backend/internal/platform/jwt"
)

// Handlers groups the handlers the router mounts.
type Handlers struct {
	Auth   *authhandler.AuthHandler
	Users  *authhandler.UserHandler
	Tasks  *taskhandler.TaskHandler
	Health *handler.HealthHandler
}

// NewRouter builds the gin engine. An empty allowedOrigins list allows any origin.
func NewRouter(h Handlers, tokens jwtmw.TokenValidator, allowedOrigins []string, logger *slog.Logger) (*gin.Engine, error) {
	if err := authhandler.RegisterValidators(); err != nil {
		return nil, fmt.Errorf("register validators: %w", err)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID(logger))
	r.Use(cors.New(corsConfig(allowedOrigins)))

	// 認証不要
	// 導通確認用
	r.GET("/healthz", h.Health.Health)
	r.HEAD("/healthz", h.Health.Health)
	r.GET("/readyz", h.Health.Ready)

	// ログイン（JWT 発行）
	r.POST("/auth/login", h.Auth.Login)

	users := r.Group("/users")
	{
		users.POST("/register", h.Users.Register)
		users.DELETE("/:id", h.Users.Delete)
		users.GET("", h.Users.List)
	}

	// 認証必須のルート
	// → リクエストヘッダーに JWT が必要になる
	tasks := r.Group("/tasks")
	tasks.Use(jwtmw.AuthRequired(tokens))
	{
		tasks.GET("", h.Tasks.List)
		tasks.GET("/:id", h.Tasks.GetByID)
		tasks.POST("", h.Tasks.Create)
		tasks.PUT("/:id", h.Tasks.Update)
		tasks.DELETE("/:id", h.Tasks.Delete)
	}

	return r, nil
}

func corsConfig(allowedOrigins []string) cors.Config {
	cfg := cors.DefaultConfig()
	if len(allowedOrigins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = allowedOrigins
	}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderRequestID}
	cfg.ExposeHeaders = []string{middleware.HeaderRequestID, "Location"}
	return cfg
}
